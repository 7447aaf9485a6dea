// Package config decodes the manager/worker JSON configuration and
// resolves it to the on-disk worker-directory layout. A single-process
// implementation only honors the store-enable flags and db_path; the IP,
// port, and a second worker entry are accepted and ignored beyond
// driving worker_instance_<N> directory naming, since true multi-worker
// distribution stays an interface per the storage engine's scope.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/store"
)

// DefaultDBPath is the root directory used when no db_path is given.
const DefaultDBPath = "db/"

// DefaultConfigPath is where Load looks when no explicit path is passed.
const DefaultConfigPath = "configs/config.json"

// Config is the top-level JSON document: a manager block with an array
// of worker entries.
type Config struct {
	Manager ManagerConfig `json:"manager_config"`

	// DBPath is the root directory under which worker_instance_<N>
	// directories are created. Unlike Manager, this travels outside the
	// manager_config object (it is an operational knob, not part of the
	// distributed-topology description) and defaults to DefaultDBPath.
	DBPath string `json:"db_path,omitempty"`

	// DFSMode configures replica directory layout. Its consistency
	// contract across replicas is an open question the source leaves
	// unresolved; this package only computes the paths.
	DFSMode DFSMode `json:"dfs_mode,omitempty"`
}

// DFSMode enables plain-directory replicas of a worker's store files.
// Replicate only controls whether ReplicaDir paths are produced;
// nothing in this package copies data into them.
type DFSMode struct {
	Replicate    bool `json:"replicate"`
	ReplicaCount int  `json:"replica_count"`
}

// ManagerConfig describes the coordinating process. IP and Port are
// retained for forward compatibility with a distributed deployment but
// are not consulted by the single-process engine.
type ManagerConfig struct {
	IP      string         `json:"ip"`
	Port    int            `json:"port"`
	Workers []WorkerConfig `json:"workers"`
}

// WorkerConfig describes one worker: which of the five stores it opens,
// and (for a distributed deployment) the port it listens on. InstanceID
// is decoded but not consulted: store.Open takes no instance id, and the
// worker's identity is always the uuid.New() id the store generates and
// persists on first Open.
type WorkerConfig struct {
	Port       int             `json:"port"`
	Stores     map[string]bool `json:"stores"`
	InstanceID string          `json:"instance_id,omitempty"`
}

// Load reads and decodes the configuration at path. An empty path uses
// DefaultConfigPath. A missing file is not an error: Load returns the
// zero-value default configuration (one worker, all five stores
// enabled, DefaultDBPath), matching the spec's "engine works out of the
// box with no config file" posture.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, gverrors.Wrap(gverrors.InvalidArgument, "config: open %s: %v", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a configuration document from r.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, gverrors.Wrap(gverrors.SyntaxError, "config: decode: %v", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}
	if len(cfg.Manager.Workers) == 0 {
		cfg.Manager.Workers = []WorkerConfig{defaultWorker()}
	}
	return cfg, nil
}

// Default returns a single-worker configuration with every store
// enabled, rooted at DefaultDBPath.
func Default() Config {
	return Config{
		DBPath:  DefaultDBPath,
		Manager: ManagerConfig{Workers: []WorkerConfig{defaultWorker()}},
	}
}

func defaultWorker() WorkerConfig {
	return WorkerConfig{Stores: map[string]bool{
		"node_storage": true, "relationship_storage": true, "label_storage": true,
		"property_storage": true, "dynamic_storage": true,
	}}
}

// storeNames maps a store.Kind to the config file's "stores" map key.
var storeNames = map[store.Kind]string{
	store.Node:         "node_storage",
	store.Relationship: "relationship_storage",
	store.Label:        "label_storage",
	store.Property:     "property_storage",
	store.Dynamic:      "dynamic_storage",
}

// WorkerStores converts worker's stores map into the store.Kind-keyed
// form store.Open expects. A store absent from the map is treated as
// enabled, matching "unknown fields are ignored" — a worker entry that
// never mentions a store kind still opens it.
func WorkerStores(w WorkerConfig) map[store.Kind]bool {
	out := make(map[store.Kind]bool, len(storeNames))
	for kind, name := range storeNames {
		if enabled, ok := w.Stores[name]; ok {
			out[kind] = enabled
		} else {
			out[kind] = true
		}
	}
	return out
}

// WorkerDir resolves the on-disk directory for worker index n under
// cfg's db_path.
func (c Config) WorkerDir(n int) string {
	return filepath.Join(c.DBPath, "worker_instance_"+strconv.Itoa(n))
}

// ReplicaDirs resolves the replica_<k> subdirectories for worker index n,
// one per DFSMode.ReplicaCount, or nil if replication is disabled.
func (c Config) ReplicaDirs(n int) []string {
	if !c.DFSMode.Replicate || c.DFSMode.ReplicaCount <= 0 {
		return nil
	}
	dirs := make([]string, c.DFSMode.ReplicaCount)
	base := c.WorkerDir(n)
	for k := 1; k <= c.DFSMode.ReplicaCount; k++ {
		dirs[k-1] = filepath.Join(base, "replica_"+strconv.Itoa(k))
	}
	return dirs
}

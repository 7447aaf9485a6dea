package config

import (
	"strings"
	"testing"

	"github.com/dreamware/graphdb/internal/store"
)

func TestDefaultEnablesAllStores(t *testing.T) {
	cfg := Default()
	if len(cfg.Manager.Workers) != 1 {
		t.Fatalf("Default() workers = %d, want 1", len(cfg.Manager.Workers))
	}
	stores := WorkerStores(cfg.Manager.Workers[0])
	for _, k := range []store.Kind{store.Node, store.Relationship, store.Label, store.Property, store.Dynamic} {
		if !stores[k] {
			t.Fatalf("store %s disabled in default config", k)
		}
	}
	if cfg.DBPath != DefaultDBPath {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, DefaultDBPath)
	}
}

func TestDecodeHonorsStoreFlags(t *testing.T) {
	doc := `{
		"manager_config": {
			"ip": "127.0.0.1",
			"port": 9000,
			"workers": [{"port": 9001, "stores": {"dynamic_storage": false}}]
		}
	}`
	cfg, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	stores := WorkerStores(cfg.Manager.Workers[0])
	if stores[store.Dynamic] {
		t.Fatal("dynamic_storage should be disabled")
	}
	if !stores[store.Node] {
		t.Fatal("node_storage omitted from config should default to enabled")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected a SyntaxError for malformed JSON")
	}
}

func TestWorkerDirNaming(t *testing.T) {
	cfg := Default()
	if got, want := cfg.WorkerDir(0), "db/worker_instance_0"; got != want {
		t.Fatalf("WorkerDir(0) = %q, want %q", got, want)
	}
}

func TestReplicaDirsDisabledByDefault(t *testing.T) {
	cfg := Default()
	if dirs := cfg.ReplicaDirs(0); dirs != nil {
		t.Fatalf("expected no replica dirs, got %v", dirs)
	}
}

func TestReplicaDirsResolvesPaths(t *testing.T) {
	cfg := Default()
	cfg.DFSMode = DFSMode{Replicate: true, ReplicaCount: 2}
	dirs := cfg.ReplicaDirs(0)
	want := []string{"db/worker_instance_0/replica_1", "db/worker_instance_0/replica_2"}
	if len(dirs) != len(want) {
		t.Fatalf("ReplicaDirs = %v, want %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Fatalf("ReplicaDirs[%d] = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Manager.Workers) != 1 {
		t.Fatalf("Load of missing file did not return default config: %+v", cfg)
	}
}

// Package store owns the five fixed-record files that back one worker's
// graph: Node, Relationship, Label, Property, and Dynamic. It is the
// thinnest possible layer above internal/record — it knows the five file
// names and record sizes, and nothing about graph semantics.
package store

import (
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dreamware/graphdb/internal/codec"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/record"
)

// Kind identifies one of the five store files.
type Kind uint8

const (
	Node Kind = iota
	Relationship
	Label
	Property
	Dynamic
)

// String returns the store's on-disk base name, sans extension, matching
// the worker-directory naming in the on-disk layout.
func (k Kind) String() string {
	switch k {
	case Node:
		return "node_storage"
	case Relationship:
		return "relationship_storage"
	case Label:
		return "label_storage"
	case Property:
		return "property_storage"
	case Dynamic:
		return "dynamic_storage"
	default:
		return "unknown_storage"
	}
}

func (k Kind) recordSize() int {
	switch k {
	case Node:
		return codec.NodeRecordSize
	case Relationship:
		return codec.RelationshipRecordSize
	case Label:
		return codec.LabelRecordSize
	case Property:
		return codec.PropertyRecordSize
	case Dynamic:
		return codec.DynamicRecordSize
	default:
		return 0
	}
}

// allKinds in opening order; no ordering constraint is imposed by the
// layout itself, but opening consistently makes failure diagnostics
// reproducible.
var allKinds = []Kind{Node, Relationship, Label, Property, Dynamic}

// Set is the five open store files for one worker directory, plus the
// advisory lock that keeps a second process from opening the same
// directory concurrently.
//
// Thread Safety:
// Neither Set nor the record.File instances returned by File hold a
// mutex; callers serialize access. Close must not be called concurrently
// with any other Set method.
type Set struct {
	dir        string
	files      map[Kind]*record.File
	lock       *flock.Flock
	locked     bool
	instanceID string
}

// Open opens (creating if absent) the worker directory's store files
// enabled by stores, and takes an exclusive advisory lock on a ".lock"
// file inside dir. Disabled stores are simply absent from the returned
// Set — callers touching them get gverrors.InvalidArgument.
//
// When dir has the record.MemoryPrefix, no real directory or lock file
// is created: the in-memory test mode has no cross-process concurrency
// to guard against.
//
// Parameters:
//   - fs: the afero.Fs to operate on; afero.NewOsFs() for real worker
//     directories, or any dir with the record.MemoryPrefix for tests.
//   - dir: the worker directory root.
//   - stores: which of the five Kinds to open; nil opens all five.
//
// Returns:
//   - a ready *Set, or an error wrapping gverrors.AlreadyExists if dir
//     is already locked by another process, or gverrors.CorruptStore on
//     any other failure.
//
// Example:
//
//	s, err := store.Open(afero.NewOsFs(), "db/worker-0", nil)
func Open(fs afero.Fs, dir string, stores map[Kind]bool) (*Set, error) {
	s := &Set{dir: dir, files: make(map[Kind]*record.File, len(allKinds))}

	memory := len(dir) >= len(record.MemoryPrefix) && dir[:len(record.MemoryPrefix)] == record.MemoryPrefix
	if !memory {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, gverrors.Wrap(gverrors.CorruptStore, "store: create worker directory %s: %v", dir, err)
		}
		s.lock = flock.New(filepath.Join(dir, ".lock"))
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, gverrors.Wrap(gverrors.CorruptStore, "store: lock %s: %v", dir, err)
		}
		if !ok {
			return nil, gverrors.Wrap(gverrors.AlreadyExists, "store: worker directory %s is already locked", dir)
		}
		s.locked = true
	}

	id, err := loadOrCreateInstanceID(fs, dir, memory)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.instanceID = id

	for _, k := range allKinds {
		if stores != nil && !stores[k] {
			continue
		}
		path := filepath.Join(dir, k.String()+".db")
		f, err := record.Open(fs, path, k.recordSize())
		if err != nil {
			s.Close()
			return nil, err
		}
		s.files[k] = f
	}
	return s, nil
}

// instanceIDFile holds the worker's generated identity, so it survives a
// restart instead of changing on every Open.
const instanceIDFile = "instance_id"

// loadOrCreateInstanceID reads dir's instance_id file, or generates and
// persists a new uuid.New() id if one isn't there yet. In-memory mode
// never persists: a fresh id is generated for every Open, matching that
// mode's lack of cross-process identity.
func loadOrCreateInstanceID(fs afero.Fs, dir string, memory bool) (string, error) {
	if memory {
		return uuid.New().String(), nil
	}

	path := filepath.Join(dir, instanceIDFile)
	if b, err := afero.ReadFile(fs, path); err == nil {
		return string(b), nil
	}

	id := uuid.New().String()
	if err := afero.WriteFile(fs, path, []byte(id), 0o644); err != nil {
		return "", gverrors.Wrap(gverrors.CorruptStore, "store: write %s: %v", path, err)
	}
	return id, nil
}

// InstanceID returns the worker's identity, pinned on first Open of dir
// and stable across subsequent reopens.
func (s *Set) InstanceID() string {
	return s.instanceID
}

// File returns the open store file for kind, or an InvalidArgument error
// if that store was not enabled at Open.
func (s *Set) File(k Kind) (*record.File, error) {
	f, ok := s.files[k]
	if !ok {
		return nil, gverrors.Wrap(gverrors.InvalidArgument, "store: kind %s is not open", k)
	}
	return f, nil
}

// Stats returns the current record count of every open store.
func (s *Set) Stats() map[Kind]int {
	out := make(map[Kind]int, len(s.files))
	for k, f := range s.files {
		out[k] = f.CountRecords()
	}
	return out
}

// Close flushes and closes every open store file and releases the
// directory lock, in that order. It aggregates the first error
// encountered but always attempts to close every file and release the
// lock.
func (s *Set) Close() error {
	var firstErr error
	for _, k := range allKinds {
		f, ok := s.files[k]
		if !ok {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.locked {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = gverrors.Wrap(gverrors.CorruptStore, "store: unlock %s: %v", s.dir, err)
		}
		s.locked = false
	}
	return firstErr
}

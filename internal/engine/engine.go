// Package engine implements GraphEngine, the sole public surface of the
// storage engine: graph lifecycle, create/select/delete operations, the
// secondary indexes, and the bounded-BFS rehydration protocol.
package engine

import (
	"go.uber.org/zap"

	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/ioengine"
	"github.com/dreamware/graphdb/internal/store"
)

// DefaultHops is the rehydration hop budget used when none is supplied.
const DefaultHops = 10

// GraphEngine is the embedded library API. It owns the IO layer, the
// in-memory Graph cache, and the secondary indexes, and is the only type
// outside this package meant to be driven directly.
//
// Lifecycle:
//   - Open constructs a GraphEngine over an already-open store.Set.
//   - CreateNode/CreateRelationship/SelectNode/... are the operations
//     named by the specification; each keeps the Graph cache, the
//     secondary indexes, and the on-disk store files in lockstep.
//   - Close releases the underlying store files.
//
// Thread Safety:
// GraphEngine has no internal locking of its own. It is designed for one
// goroutine at a time per instance, matching the single-threaded console
// (cmd/graphdb) and agent stub (cmd/graphdb-agent) that drive it; callers
// needing concurrent access must serialize it themselves.
type GraphEngine struct {
	io   *ioengine.Engine
	g    *graph.Graph
	idx  *indexes
	log  *zap.Logger
	hops int
}

// Open inspects stores's per-kind record counts: if any is nonzero the
// engine starts with a placeholder graph named "init" marked non-empty
// and inconsistent (the next select triggers rehydration); otherwise it
// starts empty and consistent.
//
// Parameters:
//   - stores: an already-open store.Set; GraphEngine does not open or
//     close it beyond what Close does.
//   - log: a zap.Logger for structured diagnostics; a no-op logger is
//     substituted if nil.
//
// Returns:
//   - a ready-to-use *GraphEngine.
//
// Example:
//
//	stores, _ := store.Open(afero.NewOsFs(), dir, nil)
//	e := engine.Open(stores, logger)
//	defer e.Close()
func Open(stores *store.Set, log *zap.Logger) *GraphEngine {
	if log == nil {
		log = zap.NewNop()
	}
	io := ioengine.New(stores)
	e := &GraphEngine{io: io, idx: newIndexes(), log: log, hops: DefaultHops}

	nonEmpty := false
	for _, count := range io.Stats() {
		if count > 0 {
			nonEmpty = true
			break
		}
	}
	if nonEmpty {
		e.g = graph.New("init")
		e.g.SetInconsistent()
		log.Info("opened over nonempty stores, graph marked inconsistent")
	} else {
		e.g = graph.New("")
	}
	return e
}

// SetHops overrides the rehydration hop budget (default DefaultHops).
//
// Parameters:
//   - hops: the maximum breadth-first depth a bounded rehydration sweep
//     (triggered by a cache-missing SelectNode/SelectRelationship) will
//     walk before giving up on reaching every referenced object.
func (e *GraphEngine) SetHops(hops int) { e.hops = hops }

// Close flushes and closes every store file and drops the in-memory
// graph.
//
// Returns:
//   - the first error encountered closing the underlying store files, if
//     any.
//
// Thread Safety:
// Must not be called concurrently with any other GraphEngine method; the
// engine is unusable afterward.
func (e *GraphEngine) Close() error {
	err := e.io.Close()
	e.g = nil
	return err
}

// Clear drops the Graph's contents and the secondary indexes, and marks
// the graph non-empty and inconsistent. The next select_x triggers
// rehydration from disk.
//
// Thread Safety:
// Not safe for concurrent use with any other GraphEngine method.
func (e *GraphEngine) Clear() {
	name := ""
	if e.g != nil {
		name = e.g.Name
	}
	e.g = graph.New(name)
	e.g.SetInconsistent()
	e.idx = newIndexes()
}

// GetStats returns the current record count of every store, usable as
// the next-id allocator for each kind.
//
// Returns:
//   - a map from store.Kind to its current record count. This is the
//     data internal/metrics.Collector scrapes on every Prometheus
//     collection cycle (see Stats).
//
// Performance:
// O(1); it returns the IO layer's already-maintained counters rather
// than scanning the store files.
func (e *GraphEngine) GetStats() map[store.Kind]int {
	return e.io.Stats()
}

// Stats satisfies internal/metrics.Stats, letting a *GraphEngine be
// registered directly as a Prometheus collection source.
func (e *GraphEngine) Stats() map[store.Kind]int { return e.GetStats() }

// CreateGraph names the engine's single Graph. It fails with
// AlreadyExists if the Graph already has a non-empty name, whether from
// an earlier CreateGraph or from Open over nonempty stores ("init"); the
// Graph's consistency state is not consulted.
//
// Parameters:
//   - name: the graph's display name.
//
// Returns:
//   - the named *graph.Graph, or an error wrapping gverrors.AlreadyExists
//     if the engine already has a named graph.
func (e *GraphEngine) CreateGraph(name string) (*graph.Graph, error) {
	if e.g.Name != "" {
		return nil, gverrors.Wrap(gverrors.AlreadyExists, "engine: graph %q already exists", e.g.Name)
	}
	e.g.Name = name
	return e.g, nil
}

// GetGraph returns the engine's single Graph.
//
// Returns:
//   - the engine's *graph.Graph, never nil while the engine is open.
func (e *GraphEngine) GetGraph() *graph.Graph {
	return e.g
}

// ensureConsistent runs a full rehydration sweep if the graph is
// currently inconsistent, per the specification's select_x precondition.
func (e *GraphEngine) ensureConsistent() error {
	if e.g.IsConsistent() || e.g.IsEmpty() {
		return nil
	}
	return e.rehydrateFullSweep()
}

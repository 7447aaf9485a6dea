package engine

import (
	"go.uber.org/zap"

	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/store"
)

// resolveOrCreateLabel returns the cached or newly-persisted Label for
// name: identical names reuse the existing label id; a new name
// allocates a Label record and a Dynamic payload for its name.
func (e *GraphEngine) resolveOrCreateLabel(name string) (*graph.Label, error) {
	if id, ok := e.idx.labelID(name); ok {
		if l := e.g.Label(id); l != nil {
			return l, nil
		}
		l, err := e.io.ResolveLabel(id)
		if err != nil {
			return nil, err
		}
		e.g.AddLabel(l)
		return l, nil
	}

	id, err := e.io.NextID(store.Label)
	if err != nil {
		return nil, err
	}
	l := graph.NewLabel(id, name)
	if err := e.io.WriteLabel(l, false); err != nil {
		return nil, err
	}
	e.idx.addLabel(name, id)
	e.g.AddLabel(l)
	e.log.Debug("created label", zap.String("name", name), zap.Int32("id", id))
	return l, nil
}

// SelectLabel returns the label cached or stored at id.
//
// Parameters:
//   - id: the label id to look up.
//
// Returns:
//   - the *graph.Label, or an error wrapping gverrors.NotFound if it
//     doesn't exist or has been deleted.
func (e *GraphEngine) SelectLabel(id int32) (*graph.Label, error) {
	if err := e.ensureConsistent(); err != nil {
		return nil, err
	}
	if l := e.g.Label(id); l != nil {
		return labelOrNotFound(l)
	}
	l, err := e.io.ResolveLabel(id)
	if err != nil {
		return nil, err
	}
	e.g.AddLabel(l)
	return labelOrNotFound(l)
}

func labelOrNotFound(l *graph.Label) (*graph.Label, error) {
	if !l.Used {
		return nil, gverrors.Wrap(gverrors.NotFound, "label %d is deleted", l.ID)
	}
	return l, nil
}

// SelectLabels returns every cached label, rehydrating first if the
// graph is inconsistent.
//
// Returns:
//   - every cached *graph.Label; never nil but may be empty.
func (e *GraphEngine) SelectLabels() ([]*graph.Label, error) {
	if err := e.ensureConsistent(); err != nil {
		return nil, err
	}
	return e.g.Labels(), nil
}

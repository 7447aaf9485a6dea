package engine

import (
	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/store"
)

// PropertyInput is one key/value pair as supplied by a caller of
// CreateNode, CreateRelationship, or AddProperty; ids are assigned
// internally.
type PropertyInput struct {
	Key   graph.Scalar
	Value graph.Scalar
}

// allocateProperties assigns sequential ids to pairs, starting at the
// Property store's current record count. The returned Properties are not
// yet chained or persisted — the caller passes them to graph.NewNode or
// graph.NewRelationship (which chains them in argument order) before
// calling persistProperties.
func (e *GraphEngine) allocateProperties(pairs []PropertyInput) ([]*graph.Property, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	base, err := e.io.NextID(store.Property)
	if err != nil {
		return nil, err
	}
	out := make([]*graph.Property, len(pairs))
	for i, pair := range pairs {
		out[i] = graph.NewProperty(base+int32(i), pair.Key, pair.Value)
	}
	return out, nil
}

// persistProperties writes each already-chained property record (and its
// dynamic payloads) and registers it in the properties index. Properties
// must be written in ascending id order, matching the order
// allocateProperties assigned them, since each write is an insert that
// requires its id to equal the store's current count.
func (e *GraphEngine) persistProperties(owner ownerRef, properties []*graph.Property) error {
	for _, p := range properties {
		if err := e.io.WriteProperty(p, false); err != nil {
			return err
		}
		e.idx.addProperty(owner, p.Key, p.Value)
	}
	return nil
}

// AddProperty appends prop to owner's property chain: if owner currently
// owns at least one property, the prior tail is rewritten so its
// next_prop_id points at the new property; otherwise owner's own record
// is rewritten so first_prop_id points at it.
//
// Parameters:
//   - owner: a *graph.Node or *graph.Relationship already in the cache.
//   - input: the key/value pair to append.
//
// Returns:
//   - an error wrapping gverrors.InvalidArgument if owner is neither a
//     *graph.Node nor a *graph.Relationship.
//
// Thread Safety:
// Not safe for concurrent use with any other GraphEngine method.
//
// Example:
//
//	err := e.AddProperty(node, engine.PropertyInput{
//	    Key: graph.String("age"), Value: graph.Int(30),
//	})
func (e *GraphEngine) AddProperty(owner any, input PropertyInput) error {
	switch o := owner.(type) {
	case *graph.Node:
		return e.addPropertyToNode(o, input)
	case *graph.Relationship:
		return e.addPropertyToRelationship(o, input)
	default:
		return gverrors.Wrap(gverrors.InvalidArgument, "engine: add_property owner must be a Node or Relationship")
	}
}

func (e *GraphEngine) addPropertyToNode(n *graph.Node, input PropertyInput) error {
	id, err := e.io.NextID(store.Property)
	if err != nil {
		return err
	}
	p := graph.NewProperty(id, input.Key, input.Value)

	last := n.LastProperty()
	n.AppendProperty(p)
	if last != nil {
		if err := e.io.WriteProperty(last, true); err != nil {
			return err
		}
	} else if err := e.io.WriteNode(n, true); err != nil {
		return err
	}

	if err := e.io.WriteProperty(p, false); err != nil {
		return err
	}
	e.idx.addProperty(ownerRef{kind: ownerNode, id: n.ID}, p.Key, p.Value)
	return nil
}

func (e *GraphEngine) addPropertyToRelationship(r *graph.Relationship, input PropertyInput) error {
	id, err := e.io.NextID(store.Property)
	if err != nil {
		return err
	}
	p := graph.NewProperty(id, input.Key, input.Value)

	last := r.LastProperty()
	r.AppendProperty(p)
	if last != nil {
		if err := e.io.WriteProperty(last, true); err != nil {
			return err
		}
	} else if err := e.io.WriteRelationship(r, true); err != nil {
		return err
	}

	if err := e.io.WriteProperty(p, false); err != nil {
		return err
	}
	e.idx.addProperty(ownerRef{kind: ownerRelationship, id: r.ID}, p.Key, p.Value)
	return nil
}

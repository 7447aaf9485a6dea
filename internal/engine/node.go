package engine

import (
	"go.uber.org/zap"

	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/store"
)

// CreateNode resolves or allocates labelName, constructs and persists a
// new Node with the given properties chained in argument order, and
// caches it.
//
// Parameters:
//   - labelName: the node's label; reused if it already exists,
//     otherwise allocated.
//   - properties: key/value pairs to attach, in chain order.
//
// Returns:
//   - the newly created, cached *graph.Node.
//
// Thread Safety:
// Not safe for concurrent use with any other GraphEngine method.
//
// Example:
//
//	n, err := e.CreateNode("Person", []engine.PropertyInput{
//	    {Key: graph.String("name"), Value: graph.String("Ada")},
//	})
func (e *GraphEngine) CreateNode(labelName string, properties []PropertyInput) (*graph.Node, error) {
	label, err := e.resolveOrCreateLabel(labelName)
	if err != nil {
		return nil, err
	}

	props, err := e.allocateProperties(properties)
	if err != nil {
		return nil, err
	}

	id, err := e.io.NextID(store.Node)
	if err != nil {
		return nil, err
	}
	n := graph.NewNode(id, label, props)

	if err := e.io.WriteNode(n, false); err != nil {
		return nil, err
	}
	owner := ownerRef{kind: ownerNode, id: id}
	if err := e.persistProperties(owner, props); err != nil {
		return nil, err
	}

	e.idx.addNodeLabel(labelName, n)
	e.g.AddNode(n)
	e.log.Debug("created node", zap.Int32("id", id), zap.String("label", labelName))
	return n, nil
}

// SelectNode returns the cached node with id, rehydrating on a cache
// miss. Fails with NotFound if the node does not exist or is tombstoned.
//
// Parameters:
//   - id: the node id to look up.
//
// Returns:
//   - the *graph.Node, or an error wrapping gverrors.NotFound if it
//     doesn't exist or has been deleted.
//
// Performance:
// O(1) on a cache hit; otherwise triggers a bounded rehydration sweep up
// to the engine's configured hop budget.
func (e *GraphEngine) SelectNode(id int32) (*graph.Node, error) {
	if n := e.g.Node(id); n != nil {
		return nodeOrNotFound(n)
	}
	if err := e.rehydrate(id, -1); err != nil {
		return nil, err
	}
	n := e.g.Node(id)
	if n == nil {
		return nil, gverrors.Wrap(gverrors.NotFound, "node %d not found", id)
	}
	return nodeOrNotFound(n)
}

func nodeOrNotFound(n *graph.Node) (*graph.Node, error) {
	if !n.Used {
		return nil, gverrors.Wrap(gverrors.NotFound, "node %d is deleted", n.ID)
	}
	return n, nil
}

// NodeFilter selects nodes by an optional label and an optional
// (key, value, comparator) property predicate.
//
// Field notes:
//   - Label == "" means "any label".
//   - HasProp == false means no property predicate is applied.
//   - Cmp is one of "", "=", "<", ">", "<=", ">="; "" and "=" are
//     equivalent.
type NodeFilter struct {
	Label    string
	HasProp  bool
	Key      string
	Value    graph.Scalar
	Cmp      string // "", "=", "<", ">", "<=", ">="
}

// SelectNodes returns every cached node matching filter, rehydrating
// first with a full sweep if the graph is currently inconsistent.
//
// Parameters:
//   - filter: the label/property predicate to apply; see NodeFilter.
//
// Returns:
//   - every matching *graph.Node; nil when nothing matches.
//
// filter.Value is compared in its Promote(Stringify()) form, the same
// form stored property values take, so graph.String("19") matches as
// graph.Int(19).
//
// Performance:
// Uses the properties btree/exact-match index when filter has a property
// predicate but no label (the common selective case); otherwise scans the
// label bucket or, with neither, every cached node.
func (e *GraphEngine) SelectNodes(filter NodeFilter) ([]*graph.Node, error) {
	if filter.HasProp {
		if err := validateCmp(filter.Cmp); err != nil {
			return nil, err
		}
		filter.Value = graph.Promote(filter.Value.Stringify())
	}
	if err := e.ensureConsistent(); err != nil {
		return nil, err
	}

	if filter.Label == "" && filter.HasProp {
		return e.selectNodesByIndex(filter), nil
	}

	base := e.baseNodes(filter.Label)
	if !filter.HasProp {
		return base, nil
	}

	var out []*graph.Node
	for _, n := range base {
		for _, p := range n.Properties {
			if propertyMatches(p, filter.Key, filter.Value, filter.Cmp) {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

func (e *GraphEngine) baseNodes(label string) []*graph.Node {
	if label == "" {
		return e.g.Nodes()
	}
	return e.idx.nodesByLabel(label)
}

func (e *GraphEngine) selectNodesByIndex(filter NodeFilter) []*graph.Node {
	var owners []ownerRef
	if filter.Cmp == "" || filter.Cmp == "=" {
		owners = e.idx.equalOwners(filter.Key, filter.Value)
	} else {
		owners = e.idx.compareOwners(filter.Key, filter.Value, filter.Cmp)
	}

	var out []*graph.Node
	for _, o := range owners {
		if o.kind != ownerNode {
			continue
		}
		if n := e.g.Node(o.id); n != nil && n.Used {
			out = append(out, n)
		}
	}
	return out
}

// validateCmp rejects any comparator outside the specification's fixed
// set, surfaced as InvalidArgument per the error taxonomy.
func validateCmp(cmp string) error {
	switch cmp {
	case "", "=", "<", ">", "<=", ">=":
		return nil
	default:
		return gverrors.Wrap(gverrors.InvalidArgument, "engine: unknown comparator %q", cmp)
	}
}

// propertyMatches reports whether p's key equals key and its value
// satisfies cmp against value. An empty or "=" cmp is typed equality;
// the four numeric comparators require both values to promote to
// float64, yielding false for non-numeric operands.
func propertyMatches(p *graph.Property, key string, value graph.Scalar, cmp string) bool {
	if p.Key.Stringify() != key {
		return false
	}
	switch cmp {
	case "", "=":
		return p.Value.Equal(value)
	case "<", ">", "<=", ">=":
		pf, ok1 := p.Value.AsFloat64()
		vf, ok2 := value.AsFloat64()
		if !ok1 || !ok2 {
			return false
		}
		switch cmp {
		case "<":
			return pf < vf
		case ">":
			return pf > vf
		case "<=":
			return pf <= vf
		default:
			return pf >= vf
		}
	default:
		return false
	}
}

// DeleteNode tombstones node id, evicts it from the cache and its label
// bucket, and deletes every relationship incident to it.
//
// Parameters:
//   - id: the node id to delete.
//
// Returns:
//   - the tombstoned *graph.Node (Used == false), or an error wrapping
//     gverrors.NotFound if it doesn't exist or is already deleted.
//
// Thread Safety:
// Not safe for concurrent use with any other GraphEngine method.
func (e *GraphEngine) DeleteNode(id int32) (*graph.Node, error) {
	n := e.g.Node(id)
	if n == nil {
		return nil, gverrors.Wrap(gverrors.NotFound, "node %d not found", id)
	}
	if !n.Used {
		return nil, gverrors.Wrap(gverrors.NotFound, "node %d already deleted", id)
	}

	n.Used = false
	if n.Label != nil {
		e.idx.removeNodeLabel(n.Label.Name.Stringify(), id)
	}
	for _, p := range n.Properties {
		e.idx.removeProperty(ownerRef{kind: ownerNode, id: id}, p.Key, p.Value)
	}

	// Snapshot first: deleting a relationship mutates this node's
	// incidence chain, which would otherwise invalidate iteration. The
	// node stays cached until then, since unlinking a relationship looks
	// its endpoint up in the cache.
	incident := e.g.IncidentRelationships(id, n.FirstRelID)
	for _, r := range incident {
		if _, err := e.DeleteRelationship(r.ID); err != nil {
			return nil, err
		}
	}
	e.g.RemoveNode(id)

	if err := e.io.WriteNode(n, true); err != nil {
		return nil, err
	}
	e.log.Debug("deleted node", zap.Int32("id", id))
	return n, nil
}

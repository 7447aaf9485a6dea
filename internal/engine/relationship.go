package engine

import (
	"go.uber.org/zap"

	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/store"
)

// CreateRelationship resolves or allocates labelName, wires the new
// relationship onto the current tail of both start's and end's incidence
// chains (independently, so a self-loop threads both), and persists it.
//
// Parameters:
//   - labelName: the relationship's label; reused if it already exists,
//     otherwise allocated.
//   - start, end: the endpoint node ids; equal is a valid self-loop.
//   - properties: key/value pairs to attach, in chain order.
//
// Returns:
//   - the newly created, cached *graph.Relationship, or an error
//     wrapping gverrors.InvalidArgument if either endpoint doesn't
//     resolve to an existing node.
//
// Thread Safety:
// Not safe for concurrent use with any other GraphEngine method.
func (e *GraphEngine) CreateRelationship(labelName string, start, end int32, properties []PropertyInput) (*graph.Relationship, error) {
	startNode, err := e.SelectNode(start)
	if err != nil {
		return nil, gverrors.Wrap(gverrors.InvalidArgument, "engine: create_relationship start node %d: %v", start, err)
	}
	endNode, err := e.SelectNode(end)
	if err != nil {
		return nil, gverrors.Wrap(gverrors.InvalidArgument, "engine: create_relationship end node %d: %v", end, err)
	}

	label, err := e.resolveOrCreateLabel(labelName)
	if err != nil {
		return nil, err
	}
	props, err := e.allocateProperties(properties)
	if err != nil {
		return nil, err
	}

	id, err := e.io.NextID(store.Relationship)
	if err != nil {
		return nil, err
	}
	r := graph.NewRelationship(id, label, start, end, props)

	startTail := e.g.LastIncident(start, startNode.FirstRelID)
	if err := e.linkTail(startNode, startTail, r, graph.Start); err != nil {
		return nil, err
	}
	endTail := e.g.LastIncident(end, endNode.FirstRelID)
	if err := e.linkTail(endNode, endTail, r, graph.End); err != nil {
		return nil, err
	}

	if err := e.io.WriteRelationship(r, false); err != nil {
		return nil, err
	}
	owner := ownerRef{kind: ownerRelationship, id: id}
	if err := e.persistProperties(owner, props); err != nil {
		return nil, err
	}

	e.idx.addRelLabel(labelName, r)
	e.g.AddRelationship(r)
	e.log.Debug("created relationship", zap.Int32("id", id), zap.String("label", labelName),
		zap.Int32("start", start), zap.Int32("end", end))
	return r, nil
}

// linkTail wires r onto endpoint's incidence chain on side: if tail is
// the current last relationship, r's prev-pointer becomes tail and tail's
// next-pointer becomes r, persisting tail; otherwise r is the endpoint's
// first relationship, and endpoint's own FirstRelID is updated and
// persisted instead. A self-loop relationship calls this twice, once per
// side, entirely independently.
func (e *GraphEngine) linkTail(endpoint *graph.Node, tail *graph.Relationship, r *graph.Relationship, side graph.Side) error {
	if tail != nil {
		r.SetPrevID(side, tail.ID)
		tailSide, ok := tail.SideFor(endpoint.ID)
		if !ok {
			return gverrors.Wrap(gverrors.CorruptStore, "relationship %d does not touch node %d", tail.ID, endpoint.ID)
		}
		tail.SetNextID(tailSide, r.ID)
		return e.io.WriteRelationship(tail, true)
	}
	endpoint.FirstRelID = r.ID
	return e.io.WriteNode(endpoint, true)
}

// SelectRelationship returns the cached relationship with id, rehydrating
// on a cache miss.
//
// Parameters:
//   - id: the relationship id to look up.
//
// Returns:
//   - the *graph.Relationship, or an error wrapping gverrors.NotFound if
//     it doesn't exist or has been deleted.
func (e *GraphEngine) SelectRelationship(id int32) (*graph.Relationship, error) {
	if r := e.g.Relationship(id); r != nil {
		return relOrNotFound(r)
	}
	if err := e.rehydrate(graph.InvalidID, id); err != nil {
		return nil, err
	}
	r := e.g.Relationship(id)
	if r == nil {
		return nil, gverrors.Wrap(gverrors.NotFound, "relationship %d not found", id)
	}
	return relOrNotFound(r)
}

func relOrNotFound(r *graph.Relationship) (*graph.Relationship, error) {
	if !r.Used {
		return nil, gverrors.Wrap(gverrors.NotFound, "relationship %d is deleted", r.ID)
	}
	return r, nil
}

// RelationshipFilter selects relationships by an optional label and an
// optional (key, value, comparator) property predicate. Field semantics
// mirror NodeFilter.
type RelationshipFilter struct {
	Label   string
	HasProp bool
	Key     string
	Value   graph.Scalar
	Cmp     string
}

// SelectRelationships returns every cached relationship matching filter.
//
// Parameters:
//   - filter: the label/property predicate to apply; see
//     RelationshipFilter.
//
// Returns:
//   - every matching *graph.Relationship; nil when nothing matches.
//
// filter.Value is normalized exactly as in SelectNodes.
func (e *GraphEngine) SelectRelationships(filter RelationshipFilter) ([]*graph.Relationship, error) {
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
		return e.selectRelsByIndex(filter), nil
	}

	base := e.baseRels(filter.Label)
	if !filter.HasProp {
		return base, nil
	}

	var out []*graph.Relationship
	for _, r := range base {
		for _, p := range r.Properties {
			if propertyMatches(p, filter.Key, filter.Value, filter.Cmp) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (e *GraphEngine) baseRels(label string) []*graph.Relationship {
	if label == "" {
		return e.g.Relationships()
	}
	return e.idx.relsByLabel(label)
}

func (e *GraphEngine) selectRelsByIndex(filter RelationshipFilter) []*graph.Relationship {
	var owners []ownerRef
	if filter.Cmp == "" || filter.Cmp == "=" {
		owners = e.idx.equalOwners(filter.Key, filter.Value)
	} else {
		owners = e.idx.compareOwners(filter.Key, filter.Value, filter.Cmp)
	}

	var out []*graph.Relationship
	for _, o := range owners {
		if o.kind != ownerRelationship {
			continue
		}
		if r := e.g.Relationship(o.id); r != nil && r.Used {
			out = append(out, r)
		}
	}
	return out
}

// DeleteRelationship tombstones relationship id, patches both endpoints'
// incidence chains to splice it out, and evicts it from the cache and its
// label bucket.
//
// Parameters:
//   - id: the relationship id to delete.
//
// Returns:
//   - the tombstoned *graph.Relationship (Used == false), or an error
//     wrapping gverrors.NotFound if it doesn't exist or is already
//     deleted.
//
// Thread Safety:
// Not safe for concurrent use with any other GraphEngine method.
func (e *GraphEngine) DeleteRelationship(id int32) (*graph.Relationship, error) {
	r := e.g.Relationship(id)
	if r == nil {
		return nil, gverrors.Wrap(gverrors.NotFound, "relationship %d not found", id)
	}
	if !r.Used {
		return nil, gverrors.Wrap(gverrors.NotFound, "relationship %d already deleted", id)
	}

	if err := e.unlink(r, graph.Start); err != nil {
		return nil, err
	}
	if err := e.unlink(r, graph.End); err != nil {
		return nil, err
	}

	r.Used = false
	e.g.RemoveRelationship(id)
	if r.Label != nil {
		e.idx.removeRelLabel(r.Label.Name.Stringify(), id)
	}
	for _, p := range r.Properties {
		e.idx.removeProperty(ownerRef{kind: ownerRelationship, id: id}, p.Key, p.Value)
	}

	if err := e.io.WriteRelationship(r, true); err != nil {
		return nil, err
	}
	e.log.Debug("deleted relationship", zap.Int32("id", id))
	return r, nil
}

// unlink splices r out of its side's incidence chain: the neighbour
// before r (another relationship, or nothing) is repointed at the
// neighbour after r (another relationship, or nothing), and whichever of
// those is the endpoint node itself has its FirstRelID rewritten instead.
func (e *GraphEngine) unlink(r *graph.Relationship, side graph.Side) error {
	prevID, nextID := r.PrevID(side), r.NextID(side)
	endpointID := r.EndpointID(side)

	if prevID == graph.InvalidID {
		endpoint := e.g.Node(endpointID)
		if endpoint == nil {
			return gverrors.Wrap(gverrors.NotFound, "node %d not found while unlinking relationship %d", endpointID, r.ID)
		}
		endpoint.FirstRelID = nextID
		if err := e.io.WriteNode(endpoint, true); err != nil {
			return err
		}
	} else {
		prev := e.g.Relationship(prevID)
		if prev == nil {
			return gverrors.Wrap(gverrors.NotFound, "relationship %d not found while unlinking relationship %d", prevID, r.ID)
		}
		prevSide, ok := prev.SideFor(endpointID)
		if !ok {
			return gverrors.Wrap(gverrors.CorruptStore, "relationship %d does not touch node %d", prevID, endpointID)
		}
		prev.SetNextID(prevSide, nextID)
		if err := e.io.WriteRelationship(prev, true); err != nil {
			return err
		}
	}

	if nextID != graph.InvalidID {
		next := e.g.Relationship(nextID)
		if next == nil {
			return gverrors.Wrap(gverrors.NotFound, "relationship %d not found while unlinking relationship %d", nextID, r.ID)
		}
		nextSide, ok := next.SideFor(endpointID)
		if !ok {
			return gverrors.Wrap(gverrors.CorruptStore, "relationship %d does not touch node %d", nextID, endpointID)
		}
		next.SetPrevID(nextSide, prevID)
		if err := e.io.WriteRelationship(next, true); err != nil {
			return err
		}
	}

	r.SetPrevID(side, graph.InvalidID)
	r.SetNextID(side, graph.InvalidID)
	return nil
}

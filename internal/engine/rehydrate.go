package engine

import (
	"github.com/dreamware/graphdb/internal/codec"
	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/store"
)

// resolveProperties walks a property chain starting at firstID, resolving
// each Property's key and value from the Dynamic store in chain order.
func (e *GraphEngine) resolveProperties(firstID int32) ([]*graph.Property, error) {
	var props []*graph.Property
	for id := firstID; id != graph.InvalidID; {
		p, err := e.io.ResolveProperty(id)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
		id = p.NextPropID
	}
	return props, nil
}

// resolveLabelByID returns the cached or newly-resolved label at id,
// caching it, or nil if id is graph.InvalidID.
func (e *GraphEngine) resolveLabelByID(id int32) (*graph.Label, error) {
	if id == graph.InvalidID {
		return nil, nil
	}
	if l := e.g.Label(id); l != nil {
		return l, nil
	}
	l, err := e.io.ResolveLabel(id)
	if err != nil {
		return nil, err
	}
	e.g.AddLabel(l)
	e.idx.addLabel(l.Name.Stringify(), l.ID)
	return l, nil
}

// stagedRelationship is a relationship decoded during a sweep but not yet
// materialized, since its label and properties are available immediately
// but its place in the Graph cache is only safe to fill in once every
// node the sweep reached has been cached.
type stagedRelationship struct {
	fields codec.RelationshipFields
	props  []*graph.Property
}

// sweep runs a bounded breadth-first rehydration starting from the given
// worksets, materializing every node reached immediately and staging
// every relationship reached until all nodes are in. It stops when both
// worksets empty out or after hops iterations, whichever comes first, and
// reports whether it stopped because of the hop cap (as opposed to
// draining both worksets naturally).
func (e *GraphEngine) sweep(nodesToRead, relsToRead map[int32]bool, hops int) (hopCapped bool, err error) {
	staged := map[int32]stagedRelationship{}

	hop := 0
	for {
		if len(nodesToRead) == 0 && len(relsToRead) == 0 {
			break
		}
		if hop >= hops {
			return true, e.materialize(staged)
		}
		hop++

		nextNodes := map[int32]bool{}
		nextRels := map[int32]bool{}

		for id := range nodesToRead {
			if e.g.Node(id) != nil {
				continue
			}
			fields, err := e.io.ReadNode(id)
			if err != nil {
				return false, err
			}
			if !fields.Used {
				continue
			}
			label, err := e.resolveLabelByID(fields.LabelID)
			if err != nil {
				return false, err
			}
			props, err := e.resolveProperties(fields.FirstPropID)
			if err != nil {
				return false, err
			}
			n := &graph.Node{
				ID: id, Label: label, Properties: props,
				FirstRelID: fields.FirstRelID, FirstPropID: fields.FirstPropID,
				Used: true,
			}
			e.g.AddNode(n)
			if label != nil {
				e.idx.addNodeLabel(label.Name.Stringify(), n)
			}
			for _, p := range props {
				e.idx.addProperty(ownerRef{kind: ownerNode, id: n.ID}, p.Key, p.Value)
			}
			if fields.FirstRelID != graph.InvalidID {
				nextRels[fields.FirstRelID] = true
			}
		}

		for id := range relsToRead {
			if _, ok := staged[id]; ok {
				continue
			}
			if e.g.Relationship(id) != nil {
				continue
			}
			fields, err := e.io.ReadRelationship(id)
			if err != nil {
				return false, err
			}
			if !fields.Used {
				continue
			}
			props, err := e.resolveProperties(fields.FirstPropID)
			if err != nil {
				return false, err
			}
			staged[id] = stagedRelationship{fields: fields, props: props}

			nextNodes[fields.StartNode] = true
			nextNodes[fields.EndNode] = true
			for _, nb := range [...]int32{fields.StartPrevID, fields.StartNextID, fields.EndPrevID, fields.EndNextID} {
				if nb != graph.InvalidID {
					nextRels[nb] = true
				}
			}
		}

		nodesToRead, relsToRead = nextNodes, nextRels
	}

	return false, e.materialize(staged)
}

// materialize resolves each staged relationship's label and caches it,
// now that every node the sweep reached is in the Graph cache.
func (e *GraphEngine) materialize(staged map[int32]stagedRelationship) error {
	for id, data := range staged {
		label, err := e.resolveLabelByID(data.fields.LabelID)
		if err != nil {
			return err
		}
		r := &graph.Relationship{
			ID: id, Label: label, Properties: data.props,
			StartNodeID: data.fields.StartNode, EndNodeID: data.fields.EndNode,
			StartPrevID: data.fields.StartPrevID, StartNextID: data.fields.StartNextID,
			EndPrevID: data.fields.EndPrevID, EndNextID: data.fields.EndNextID,
			FirstPropID: data.fields.FirstPropID, Used: true,
		}
		e.g.AddRelationship(r)
		if label != nil {
			e.idx.addRelLabel(label.Name.Stringify(), r)
		}
		for _, p := range data.props {
			e.idx.addProperty(ownerRef{kind: ownerRelationship, id: r.ID}, p.Key, p.Value)
		}
	}
	return nil
}

// rehydrate runs a bounded sweep from a single starting node or
// relationship id (pass graph.InvalidID for whichever the caller doesn't
// have) out to e.hops hops. It never marks the graph Consistent, since a
// bounded sweep may by design leave other parts of the store unresolved.
func (e *GraphEngine) rehydrate(nodeID, relID int32) error {
	nodesToRead := map[int32]bool{}
	relsToRead := map[int32]bool{}
	if nodeID != graph.InvalidID {
		nodesToRead[nodeID] = true
	}
	if relID != graph.InvalidID {
		relsToRead[relID] = true
	}
	_, err := e.sweep(nodesToRead, relsToRead, e.hops)
	return err
}

// rehydrateFullSweep rehydrates every node and relationship not already
// cached, ignoring the hop budget, and marks the graph Consistent. It is
// the only path that transitions a graph out of Inconsistent.
func (e *GraphEngine) rehydrateFullSweep() error {
	stats := e.io.Stats()

	nodesToRead := map[int32]bool{}
	for i := 0; i < stats[store.Node]; i++ {
		id := int32(i)
		if e.g.Node(id) == nil {
			nodesToRead[id] = true
		}
	}
	relsToRead := map[int32]bool{}
	for i := 0; i < stats[store.Relationship]; i++ {
		id := int32(i)
		if e.g.Relationship(id) == nil {
			relsToRead[id] = true
		}
	}

	hops := len(nodesToRead) + len(relsToRead) + 1
	if _, err := e.sweep(nodesToRead, relsToRead, hops); err != nil {
		return err
	}
	e.g.SetConsistent()
	return nil
}

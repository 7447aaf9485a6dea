package engine

import (
	"math"

	"github.com/google/btree"

	"github.com/dreamware/graphdb/internal/graph"
)

// ownerKind distinguishes which Graph map an ownerRef resolves through.
type ownerKind uint8

const (
	ownerNode ownerKind = iota
	ownerRelationship
)

// ownerRef identifies a property or label owner without needing to know
// its concrete type, since the properties and label indexes hold both
// Nodes and Relationships side by side.
type ownerRef struct {
	kind ownerKind
	id   int32
}

// scalarItem is one entry in a numeric property-value btree: the
// property's value and the owner it belongs to. owner breaks ties
// between entries with equal value so the tree never collapses
// distinct owners sharing a value into one slot.
type scalarItem struct {
	value float64
	owner ownerRef
}

func (s scalarItem) Less(than btree.Item) bool {
	o := than.(scalarItem)
	if s.value != o.value {
		return s.value < o.value
	}
	if s.owner.kind != o.owner.kind {
		return s.owner.kind < o.owner.kind
	}
	return s.owner.id < o.owner.id
}

// ownerMin and ownerMax are sentinel owner values used to build inclusive
// and exclusive btree range bounds around a pivot value, since btree
// ranges are expressed as item pairs, not value pairs.
var (
	ownerMin = ownerRef{kind: 0, id: math.MinInt32}
	ownerMax = ownerRef{kind: 2, id: 0} // kind 2 sorts past the two real owner kinds
)

// indexes holds the secondary indexes the engine keeps in lockstep with
// the Graph cache: label_names, node_labels, rel_labels, and the
// properties (key,value)->owners map, plus a numeric btree per property
// key supplementing the spec's baseline O(n) comparator scan.
type indexes struct {
	labelNames map[string]int32
	nodeLabels map[string][]*graph.Node
	relLabels  map[string][]*graph.Relationship
	propExact  map[string]map[graph.Scalar][]ownerRef
	propRange  map[string]*btree.BTree
}

func newIndexes() *indexes {
	return &indexes{
		labelNames: make(map[string]int32),
		nodeLabels: make(map[string][]*graph.Node),
		relLabels:  make(map[string][]*graph.Relationship),
		propExact:  make(map[string]map[graph.Scalar][]ownerRef),
		propRange:  make(map[string]*btree.BTree),
	}
}

func (ix *indexes) labelID(name string) (int32, bool) {
	id, ok := ix.labelNames[name]
	return id, ok
}

func (ix *indexes) addLabel(name string, id int32) {
	ix.labelNames[name] = id
}

func (ix *indexes) addNodeLabel(name string, n *graph.Node) {
	ix.nodeLabels[name] = append(ix.nodeLabels[name], n)
}

func (ix *indexes) addRelLabel(name string, r *graph.Relationship) {
	ix.relLabels[name] = append(ix.relLabels[name], r)
}

func (ix *indexes) nodesByLabel(name string) []*graph.Node {
	return ix.nodeLabels[name]
}

func (ix *indexes) relsByLabel(name string) []*graph.Relationship {
	return ix.relLabels[name]
}

func (ix *indexes) removeNodeLabel(name string, id int32) {
	ix.nodeLabels[name] = removeNodeByID(ix.nodeLabels[name], id)
}

func (ix *indexes) removeRelLabel(name string, id int32) {
	ix.relLabels[name] = removeRelByID(ix.relLabels[name], id)
}

func removeNodeByID(list []*graph.Node, id int32) []*graph.Node {
	out := list[:0]
	for _, n := range list {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func removeRelByID(list []*graph.Relationship, id int32) []*graph.Relationship {
	out := list[:0]
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// addProperty registers owner as holding (key, value), updating both the
// exact-match bucket and, for numeric values, the comparator btree.
func (ix *indexes) addProperty(owner ownerRef, key, value graph.Scalar) {
	k := key.Stringify()
	byValue, ok := ix.propExact[k]
	if !ok {
		byValue = make(map[graph.Scalar][]ownerRef)
		ix.propExact[k] = byValue
	}
	byValue[value] = append(byValue[value], owner)

	if f, ok := value.AsFloat64(); ok {
		tree, ok := ix.propRange[k]
		if !ok {
			tree = btree.New(32)
			ix.propRange[k] = tree
		}
		tree.ReplaceOrInsert(scalarItem{value: f, owner: owner})
	}
}

// removeProperty undoes addProperty for one (owner, key, value) entry.
func (ix *indexes) removeProperty(owner ownerRef, key, value graph.Scalar) {
	k := key.Stringify()
	if byValue, ok := ix.propExact[k]; ok {
		list := byValue[value]
		for i, o := range list {
			if o == owner {
				byValue[value] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	if f, ok := value.AsFloat64(); ok {
		if tree, ok := ix.propRange[k]; ok {
			tree.Delete(scalarItem{value: f, owner: owner})
		}
	}
}

// equalOwners returns the owners holding exactly (key, value).
func (ix *indexes) equalOwners(key string, value graph.Scalar) []ownerRef {
	byValue, ok := ix.propExact[key]
	if !ok {
		return nil
	}
	return byValue[value]
}

// compareOwners returns the owners whose property key satisfies
// value <cmp> pivot, for cmp in {<,>,<=,>=}. Non-numeric pivots always
// yield no matches, per the specification's comparator semantics.
func (ix *indexes) compareOwners(key string, pivot graph.Scalar, cmp string) []ownerRef {
	f, ok := pivot.AsFloat64()
	if !ok {
		return nil
	}
	tree, ok := ix.propRange[key]
	if !ok {
		return nil
	}

	var out []ownerRef
	collect := func(i btree.Item) bool {
		out = append(out, i.(scalarItem).owner)
		return true
	}

	negInf := scalarItem{value: math.Inf(-1), owner: ownerMin}
	switch cmp {
	case ">=":
		tree.AscendGreaterOrEqual(scalarItem{value: f, owner: ownerMin}, collect)
	case ">":
		tree.AscendGreaterOrEqual(scalarItem{value: f, owner: ownerMax}, collect)
	case "<":
		tree.AscendRange(negInf, scalarItem{value: f, owner: ownerMin}, collect)
	case "<=":
		tree.AscendRange(negInf, scalarItem{value: f, owner: ownerMax}, collect)
	}
	return out
}

package graph

// Node is a labelled vertex. It owns its property chain by value
// (Properties holds the actual Property structs, in chain order) but
// only a weak reference to the relationships touching it: FirstRelID is
// the head of its per-endpoint incidence chain, resolved through Graph's
// id-keyed maps rather than a direct pointer, which is what lets the
// cyclic node<->relationship reference graph be represented without
// aliasing hazards (see the Graph container).
//
// Field notes:
//   - Label is nil only before rehydration resolves it, or if the
//     persisted record never had one.
//   - FirstRelID/FirstPropID are InvalidID when the respective chain is
//     empty.
//   - Used is false once the node is tombstoned by DeleteNode; a
//     tombstoned Node is never removed from the underlying store file,
//     only evicted from this cache.
type Node struct {
	Label       *Label
	Properties  []*Property
	ID          int32
	FirstRelID  int32
	FirstPropID int32
	Used        bool
}

// NewNode constructs a used Node with the given label and properties.
// Properties are chained in argument order: property i's NextPropID is
// property i+1's id, and the last one terminates with InvalidID. Callers
// are expected to have already assigned ids to the properties.
//
// Parameters:
//   - id: the node's id, already allocated by the caller.
//   - label: the node's label, or nil.
//   - properties: the node's initial properties, in chain order.
//
// Returns:
//   - a Node with FirstRelID == InvalidID and Used == true.
//
// Example:
//
//	n := graph.NewNode(0, label, []*graph.Property{p0, p1})
func NewNode(id int32, label *Label, properties []*Property) *Node {
	n := &Node{ID: id, Label: label, Properties: properties, FirstRelID: InvalidID, Used: true}
	chainProperties(properties)
	if len(properties) > 0 {
		n.FirstPropID = properties[0].ID
	} else {
		n.FirstPropID = InvalidID
	}
	return n
}

func chainProperties(props []*Property) {
	for i, p := range props {
		if i+1 < len(props) {
			p.NextPropID = props[i+1].ID
		} else {
			p.NextPropID = InvalidID
		}
	}
}

// LastProperty returns the last Property in the node's chain, or nil if
// it owns none.
func (n *Node) LastProperty() *Property {
	if len(n.Properties) == 0 {
		return nil
	}
	return n.Properties[len(n.Properties)-1]
}

// AppendProperty appends p to the node's property chain, relinking the
// previous tail (if any) to point at it, and updates FirstPropID when p
// is the first property the node has ever held.
//
// Parameters:
//   - p: the property to append; its NextPropID is overwritten with
//     InvalidID.
//
// Thread Safety:
// Not safe for concurrent use on the same Node; the caller (package
// engine) serializes mutation.
func (n *Node) AppendProperty(p *Property) {
	if last := n.LastProperty(); last != nil {
		last.NextPropID = p.ID
	} else {
		n.FirstPropID = p.ID
	}
	p.NextPropID = InvalidID
	n.Properties = append(n.Properties, p)
}

package graph

// Relationship is a labelled directed edge between two nodes (possibly
// equal, for a self-loop). Like Node, it resolves its endpoints and its
// four incidence-chain neighbours by id through the Graph container
// rather than by direct pointer, so deletion can patch neighbour pointers
// without aliasing the objects being unlinked.
//
// The four neighbour pointers thread a doubly-linked list per endpoint:
// StartPrevID/StartNextID link this relationship to its neighbours in the
// StartNode's incidence chain, and EndPrevID/EndNextID do the same for
// EndNode. A self-loop relationship participates in both chains
// independently.
//
// Field notes:
//   - StartPrevID/StartNextID/EndPrevID/EndNextID are InvalidID at either
//     end of their respective chain.
//   - Used is false once DeleteRelationship tombstones it.
type Relationship struct {
	Label       *Label
	Properties  []*Property
	ID          int32
	StartNodeID int32
	EndNodeID   int32
	StartPrevID int32
	StartNextID int32
	EndPrevID   int32
	EndNextID   int32
	FirstPropID int32
	Used        bool
}

// NewRelationship constructs a used Relationship with no incidence-chain
// neighbours wired yet (the caller, typically the graph engine, wires
// those once it knows the endpoints' current chain tails). Properties
// chain exactly as in NewNode.
//
// Parameters:
//   - id: the relationship's id, already allocated by the caller.
//   - label: the relationship's label, or nil.
//   - start, end: the endpoint node ids; equal for a self-loop.
//   - properties: the relationship's initial properties, in chain order.
//
// Returns:
//   - a Relationship with every neighbour pointer set to InvalidID and
//     Used == true.
func NewRelationship(id int32, label *Label, start, end int32, properties []*Property) *Relationship {
	r := &Relationship{
		ID: id, Label: label, StartNodeID: start, EndNodeID: end,
		StartPrevID: InvalidID, StartNextID: InvalidID,
		EndPrevID: InvalidID, EndNextID: InvalidID,
		Properties: properties, Used: true,
	}
	chainProperties(properties)
	if len(properties) > 0 {
		r.FirstPropID = properties[0].ID
	} else {
		r.FirstPropID = InvalidID
	}
	return r
}

// LastProperty returns the last Property in the relationship's chain, or
// nil if it owns none.
func (r *Relationship) LastProperty() *Property {
	if len(r.Properties) == 0 {
		return nil
	}
	return r.Properties[len(r.Properties)-1]
}

// AppendProperty appends p to the relationship's property chain,
// relinking the previous tail (if any) and updating FirstPropID when p is
// the first property the relationship has ever held.
func (r *Relationship) AppendProperty(p *Property) {
	if last := r.LastProperty(); last != nil {
		last.NextPropID = p.ID
	} else {
		r.FirstPropID = p.ID
	}
	p.NextPropID = InvalidID
	r.Properties = append(r.Properties, p)
}

// Side identifies which endpoint's incidence chain a neighbour pointer
// belongs to. A self-loop relationship (StartNodeID == EndNodeID)
// participates in both chains independently, so pointer access is always
// by explicit Side rather than by node id — the id alone can't
// disambiguate a self-loop's two sides.
type Side uint8

const (
	// Start identifies the incidence chain rooted at StartNodeID.
	Start Side = iota
	// End identifies the incidence chain rooted at EndNodeID.
	End
)

// EndpointID returns the node id for the given side.
//
// Parameters:
//   - side: Start or End.
//
// Returns:
//   - StartNodeID if side == Start, else EndNodeID.
func (r *Relationship) EndpointID(side Side) int32 {
	if side == Start {
		return r.StartNodeID
	}
	return r.EndNodeID
}

// PrevID returns this relationship's prev-pointer on side.
func (r *Relationship) PrevID(side Side) int32 {
	if side == Start {
		return r.StartPrevID
	}
	return r.EndPrevID
}

// NextID returns this relationship's next-pointer on side.
func (r *Relationship) NextID(side Side) int32 {
	if side == Start {
		return r.StartNextID
	}
	return r.EndNextID
}

// SetPrevID sets this relationship's prev-pointer on side.
func (r *Relationship) SetPrevID(side Side, val int32) {
	if side == Start {
		r.StartPrevID = val
	} else {
		r.EndPrevID = val
	}
}

// SetNextID sets this relationship's next-pointer on side.
func (r *Relationship) SetNextID(side Side, val int32) {
	if side == Start {
		r.StartNextID = val
	} else {
		r.EndNextID = val
	}
}

// SideFor returns the Side on which nodeID is the incident endpoint,
// preferring Start when nodeID is both (a self-loop) and the caller has
// no other way to disambiguate; callers walking a specific chain should
// track the side explicitly instead of re-deriving it from a node id.
//
// Parameters:
//   - nodeID: the node id to resolve against this relationship's
//     endpoints.
//
// Returns:
//   - the matching Side and true, or (0, false) if nodeID touches
//     neither endpoint.
//
// Example:
//
//	side, ok := r.SideFor(nodeID)
//	if !ok {
//	    // nodeID is not an endpoint of r
//	}
func (r *Relationship) SideFor(nodeID int32) (Side, bool) {
	switch nodeID {
	case r.StartNodeID:
		return Start, true
	case r.EndNodeID:
		return End, true
	default:
		return 0, false
	}
}

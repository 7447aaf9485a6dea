package engine

// GraphObject is either a *graph.Node or a *graph.Relationship, returned
// by SelectGraphObjects in that order.
type GraphObject any

// SelectGraphObjects ensures the cache is consistent and returns every
// cached node followed by every cached relationship.
//
// Returns:
//   - a slice of GraphObject, nodes first then relationships; never nil
//     but may be empty.
//
// Example:
//
//	objs, err := e.SelectGraphObjects()
//	for _, o := range objs {
//	    switch v := o.(type) {
//	    case *graph.Node:
//	        // ...
//	    case *graph.Relationship:
//	        // ...
//	    }
//	}
func (e *GraphEngine) SelectGraphObjects() ([]GraphObject, error) {
	if err := e.ensureConsistent(); err != nil {
		return nil, err
	}
	nodes := e.g.Nodes()
	rels := e.g.Relationships()
	out := make([]GraphObject, 0, len(nodes)+len(rels))
	for _, n := range nodes {
		out = append(out, n)
	}
	for _, r := range rels {
		out = append(out, r)
	}
	return out, nil
}

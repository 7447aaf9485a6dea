package graph

// Property is one key/value pair owned by exactly one Node or
// Relationship. NextPropID is a weak reference (by id) to the next
// Property in its owner's singly-linked chain; InvalidID terminates it.
// Duplicate keys within one chain are permitted — AddProperty always
// appends rather than upserting, per the specification's explicit
// decision not to guess an upsert-by-key semantics the source never
// implemented.
type Property struct {
	Key        Scalar
	Value      Scalar
	ID         int32
	NextPropID int32
	Used       bool
}

// NewProperty constructs a used Property with no successor yet linked.
//
// Parameters:
//   - id: the property's id, already allocated by the caller.
//   - key, value: the property's key and value scalars. Each is stored
//     as Promote(x.Stringify()), the form a Dynamic-store read returns,
//     so graph.String("18") is held as graph.Int(18).
//
// Returns:
//   - a Property with NextPropID == InvalidID and Used == true.
func NewProperty(id int32, key, value Scalar) *Property {
	return &Property{ID: id, Key: Promote(key.Stringify()), Value: Promote(value.Stringify()), NextPropID: InvalidID, Used: true}
}

package graph

// Label names a node or relationship type. Its Name is a Scalar because
// the specification stores label names through the same Dynamic-store
// scalar path as property keys and values; in practice every label name
// is a string, but nothing in the codec enforces that.
type Label struct {
	Name Scalar
	ID   int32
	Used bool
}

// NewLabel constructs a used Label with the given id and name.
//
// Parameters:
//   - id: the label's id, already allocated by the caller.
//   - name: the label's name, wrapped as a string Scalar.
//
// Returns:
//   - a Label with Used == true.
func NewLabel(id int32, name string) *Label {
	return &Label{ID: id, Name: String(name), Used: true}
}

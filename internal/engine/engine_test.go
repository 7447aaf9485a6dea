package engine

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/record"
	"github.com/dreamware/graphdb/internal/store"
)

func allStores() map[store.Kind]bool {
	return map[store.Kind]bool{
		store.Node: true, store.Relationship: true, store.Label: true,
		store.Property: true, store.Dynamic: true,
	}
}

func newTestEngine(t *testing.T, dir string) (*GraphEngine, *store.Set) {
	t.Helper()
	s, err := store.Open(afero.NewMemMapFs(), dir, allStores())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return Open(s, nil), s
}

func TestS1TwoNodesAndRelationship(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"s1")
	defer e.Close()

	cat, err := e.CreateNode("Cat", nil)
	if err != nil {
		t.Fatalf("CreateNode(Cat): %v", err)
	}
	mouse, err := e.CreateNode("Mouse", nil)
	if err != nil {
		t.Fatalf("CreateNode(Mouse): %v", err)
	}
	if cat.ID != 0 || mouse.ID != 1 {
		t.Fatalf("node ids = %d, %d, want 0, 1", cat.ID, mouse.ID)
	}

	rel, err := e.CreateRelationship("catches", cat.ID, mouse.ID, nil)
	if err != nil {
		t.Fatalf("CreateRelationship: %v", err)
	}
	if rel.ID != 0 {
		t.Fatalf("relationship id = %d, want 0", rel.ID)
	}

	stats := e.GetStats()
	if stats[store.Node] != 2 {
		t.Fatalf("NodeStorage = %d, want 2", stats[store.Node])
	}
	if stats[store.Relationship] != 1 {
		t.Fatalf("RelationshipStorage = %d, want 1", stats[store.Relationship])
	}
	if stats[store.Label] != 3 {
		t.Fatalf("LabelStorage = %d, want 3", stats[store.Label])
	}

	got, err := e.SelectRelationship(0)
	if err != nil {
		t.Fatalf("SelectRelationship(0): %v", err)
	}
	if got.Label.Name.Stringify() != "catches" {
		t.Fatalf("label = %q, want catches", got.Label.Name.Stringify())
	}
}

func TestS2LongLabelSpansDynamicChunks(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"s2")
	defer e.Close()

	label := strings.Repeat("Tester of the code. ", 5)
	if len(label) != 100 {
		t.Fatalf("fixture label is %d bytes, want 100", len(label))
	}

	before := e.GetStats()[store.Dynamic]
	if _, err := e.CreateNode(label, nil); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	after := e.GetStats()[store.Dynamic]

	if after-before != 4 {
		t.Fatalf("new Dynamic records = %d, want 4", after-before)
	}

	n, err := e.SelectNode(0)
	if err != nil {
		t.Fatalf("SelectNode(0): %v", err)
	}
	if n.Label.Name.Stringify() != label {
		t.Fatalf("label = %q, want %q", n.Label.Name.Stringify(), label)
	}
}

func TestS3TypedPropertyPromotionSurvivesClear(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"s3")
	defer e.Close()

	_, err := e.CreateNode("User", []PropertyInput{
		{Key: graph.String("Age"), Value: graph.String("18")},
		{Key: graph.String("Male"), Value: graph.String("True")},
	})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	e.Clear()

	n, err := e.SelectNode(0)
	if err != nil {
		t.Fatalf("SelectNode(0) after clear: %v", err)
	}
	if len(n.Properties) != 2 {
		t.Fatalf("properties = %d, want 2", len(n.Properties))
	}
	if n.Properties[0].Value.Kind != graph.KindInt || n.Properties[0].Value.Int != 18 {
		t.Fatalf("first property value = %#v, want int 18", n.Properties[0].Value)
	}
	if n.Properties[1].Value.Kind != graph.KindBool || n.Properties[1].Value.Bool != true {
		t.Fatalf("second property value = %#v, want bool true", n.Properties[1].Value)
	}
}

func TestS4RelationshipChainIntegrityUnderDelete(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"s4")
	defer e.Close()

	a, _ := e.CreateNode("A", nil)
	b, _ := e.CreateNode("B", nil)
	c, _ := e.CreateNode("C", nil)
	d, _ := e.CreateNode("D", nil)

	r1, err := e.CreateRelationship("r1", a.ID, b.ID, nil)
	if err != nil {
		t.Fatalf("r1: %v", err)
	}
	r2, err := e.CreateRelationship("r2", a.ID, c.ID, nil)
	if err != nil {
		t.Fatalf("r2: %v", err)
	}
	r3, err := e.CreateRelationship("r3", c.ID, a.ID, nil)
	if err != nil {
		t.Fatalf("r3: %v", err)
	}
	r4, err := e.CreateRelationship("r4", b.ID, d.ID, nil)
	if err != nil {
		t.Fatalf("r4: %v", err)
	}
	r5, err := e.CreateRelationship("r5", c.ID, b.ID, nil)
	if err != nil {
		t.Fatalf("r5: %v", err)
	}

	if _, err := e.DeleteRelationship(r5.ID); err != nil {
		t.Fatalf("DeleteRelationship(r5): %v", err)
	}

	remaining, err := e.SelectRelationships(RelationshipFilter{})
	if err != nil {
		t.Fatalf("SelectRelationships: %v", err)
	}
	if len(remaining) != 4 {
		t.Fatalf("remaining relationships = %d, want 4", len(remaining))
	}
	want := map[int32]bool{r1.ID: true, r2.ID: true, r3.ID: true, r4.ID: true}
	for _, r := range remaining {
		if !want[r.ID] {
			t.Fatalf("unexpected surviving relationship %d", r.ID)
		}
	}

	if r4.StartNextID != graph.InvalidID {
		t.Fatalf("r4.start_next = %d, want InvalidID", r4.StartNextID)
	}
	if r3.StartNextID != graph.InvalidID {
		t.Fatalf("r3.start_next = %d, want InvalidID", r3.StartNextID)
	}

	// A is incident to r1 and r2 (as start) and r3 (as end): r5 never
	// touched A, so its count is unaffected by the delete.
	aIncident := e.g.IncidentRelationships(a.ID, e.g.Node(a.ID).FirstRelID)
	if len(aIncident) != 3 {
		t.Fatalf("A incident = %d, want 3", len(aIncident))
	}
	cIncident := e.g.IncidentRelationships(c.ID, e.g.Node(c.ID).FirstRelID)
	if len(cIncident) != 2 {
		t.Fatalf("C incident = %d, want 2", len(cIncident))
	}
	dIncident := e.g.IncidentRelationships(d.ID, e.g.Node(d.ID).FirstRelID)
	if len(dIncident) != 1 {
		t.Fatalf("D incident = %d, want 1", len(dIncident))
	}
}

func TestS5QueryByComparator(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"s5")
	defer e.Close()

	cat, _ := e.CreateNode("Cat", nil)
	mouse, _ := e.CreateNode("Mouse", nil)
	if _, err := e.CreateRelationship("catches", cat.ID, mouse.ID, nil); err != nil {
		t.Fatalf("CreateRelationship: %v", err)
	}
	if _, err := e.CreateNode("boy", []PropertyInput{{Key: graph.String("age"), Value: graph.String("20")}}); err != nil {
		t.Fatalf("CreateNode(boy): %v", err)
	}
	if _, err := e.CreateNode("girl", []PropertyInput{{Key: graph.String("age"), Value: graph.String("19")}}); err != nil {
		t.Fatalf("CreateNode(girl): %v", err)
	}

	got, err := e.SelectNodes(NodeFilter{HasProp: true, Key: "age", Value: graph.String("19"), Cmp: ">"})
	if err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	if got[0].Properties[0].Value.Kind != graph.KindInt || got[0].Properties[0].Value.Int != 20 {
		t.Fatalf("match property = %#v, want int 20", got[0].Properties[0].Value)
	}
}

func TestS6ColdStartConsistency(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/db/worker_instance_0"

	s1, err := store.Open(fs, dir, allStores())
	if err != nil {
		t.Fatalf("first store.Open: %v", err)
	}
	e1 := Open(s1, nil)
	n, err := e1.CreateNode("User", []PropertyInput{{Key: graph.String("Age"), Value: graph.String("18")}})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	before, err := e1.SelectNode(n.ID)
	if err != nil {
		t.Fatalf("SelectNode before close: %v", err)
	}
	beforeLabel := before.Label.Name.Stringify()
	beforeValue := before.Properties[0].Value
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := store.Open(fs, dir, allStores())
	if err != nil {
		t.Fatalf("reopen store.Open: %v", err)
	}
	e2 := Open(s2, nil)
	defer e2.Close()

	after, err := e2.SelectNode(n.ID)
	if err != nil {
		t.Fatalf("SelectNode after reopen: %v", err)
	}
	if after.ID != n.ID || after.Label.Name.Stringify() != beforeLabel {
		t.Fatalf("rehydrated node mismatch: id=%d label=%q", after.ID, after.Label.Name.Stringify())
	}
	if len(after.Properties) != 1 || !after.Properties[0].Value.Equal(beforeValue) {
		t.Fatalf("rehydrated properties mismatch: %#v", after.Properties)
	}
}

func TestDeleteNodeIdempotence(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"del")
	defer e.Close()

	n, err := e.CreateNode("Solo", nil)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if _, err := e.DeleteNode(n.ID); err != nil {
		t.Fatalf("first DeleteNode: %v", err)
	}
	if _, err := e.DeleteNode(n.ID); err == nil {
		t.Fatal("second DeleteNode(same id) succeeded, want NotFound")
	}
}

func TestInsertThenSelectRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, record.MemoryPrefix+"roundtrip")
	defer e.Close()

	props := []PropertyInput{
		{Key: graph.String("a"), Value: graph.Int(1)},
		{Key: graph.String("b"), Value: graph.String("two")},
	}
	n, err := e.CreateNode("Widget", props)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	got, err := e.SelectNode(n.ID)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}
	if got.Label.Name.Stringify() != "Widget" {
		t.Fatalf("label = %q, want Widget", got.Label.Name.Stringify())
	}
	if len(got.Properties) != len(props) {
		t.Fatalf("properties = %d, want %d", len(got.Properties), len(props))
	}
	for i, p := range props {
		if !got.Properties[i].Key.Equal(p.Key) || !got.Properties[i].Value.Equal(p.Value) {
			t.Fatalf("property %d = (%v,%v), want (%v,%v)", i, got.Properties[i].Key, got.Properties[i].Value, p.Key, p.Value)
		}
	}
}

package graph

import "testing"

func TestNewGraphStartsEmpty(t *testing.T) {
	g := New("people")
	if !g.IsEmpty() {
		t.Fatal("fresh graph should be Empty")
	}
}

func TestAddNodeMovesToConsistent(t *testing.T) {
	g := New("people")
	g.AddNode(NewNode(0, nil, nil))
	if !g.IsConsistent() {
		t.Fatalf("graph state = %v, want Consistent", g.State())
	}
}

func TestClearMarksInconsistentAndDropsCache(t *testing.T) {
	g := New("people")
	g.AddNode(NewNode(0, nil, nil))
	g.Clear()
	if g.IsConsistent() {
		t.Fatal("Clear should leave the graph Inconsistent")
	}
	if g.Node(0) != nil {
		t.Fatal("Clear should evict all cached nodes")
	}
	if g.Name != "people" {
		t.Fatal("Clear should preserve the graph name")
	}
}

func TestIncidentRelationshipsWalksChain(t *testing.T) {
	g := New("g")
	n0 := NewNode(0, nil, nil)
	n1 := NewNode(1, nil, nil)
	n2 := NewNode(2, nil, nil)

	r0 := NewRelationship(0, nil, 0, 1, nil)
	r1 := NewRelationship(1, nil, 0, 2, nil)

	// n0 is the Start side of both relationships; chain them.
	r0.SetNextID(Start, 1)
	r1.SetPrevID(Start, 0)
	n0.FirstRelID = 0

	g.AddNode(n0)
	g.AddNode(n1)
	g.AddNode(n2)
	g.AddRelationship(r0)
	g.AddRelationship(r1)

	chain := g.IncidentRelationships(0, n0.FirstRelID)
	if len(chain) != 2 || chain[0].ID != 0 || chain[1].ID != 1 {
		t.Fatalf("unexpected chain: %+v", chain)
	}

	last := g.LastIncident(0, n0.FirstRelID)
	if last == nil || last.ID != 1 {
		t.Fatalf("LastIncident = %+v, want relationship 1", last)
	}
}

func TestIncidentRelationshipsSelfLoop(t *testing.T) {
	g := New("g")
	n0 := NewNode(0, nil, nil)
	r := NewRelationship(0, nil, 0, 0, nil)
	n0.FirstRelID = 0
	g.AddNode(n0)
	g.AddRelationship(r)

	// A self-loop is reachable via either side; SideFor prefers Start.
	chain := g.IncidentRelationships(0, n0.FirstRelID)
	if len(chain) != 1 || chain[0].ID != 0 {
		t.Fatalf("unexpected self-loop chain: %+v", chain)
	}
}

func TestIncidentRelationshipsEmptyChain(t *testing.T) {
	g := New("g")
	if chain := g.IncidentRelationships(0, InvalidID); chain != nil {
		t.Fatalf("expected nil chain, got %+v", chain)
	}
	if g.LastIncident(0, InvalidID) != nil {
		t.Fatal("expected nil LastIncident on empty chain")
	}
}

func TestRemoveNodeAndRelationship(t *testing.T) {
	g := New("g")
	n := NewNode(0, nil, nil)
	r := NewRelationship(0, nil, 0, 0, nil)
	g.AddNode(n)
	g.AddRelationship(r)

	g.RemoveNode(0)
	g.RemoveRelationship(0)

	if g.Node(0) != nil || g.Relationship(0) != nil {
		t.Fatal("expected node and relationship to be evicted")
	}
}

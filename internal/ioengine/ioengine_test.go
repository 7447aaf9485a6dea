package ioengine

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/dreamware/graphdb/internal/codec"
	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/store"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	fs := afero.NewMemMapFs()
	stores := map[store.Kind]bool{store.Node: true, store.Relationship: true, store.Label: true, store.Property: true, store.Dynamic: true}
	s, err := store.Open(fs, "/db/worker_instance_0", stores)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s)
}

func TestWriteDynamicAndBuildDynamicRoundTrip(t *testing.T) {
	e := newEngine(t)
	id, err := e.NextID(store.Dynamic)
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	value := graph.String("Tester of the code. Tester of the code. Tester of the code. Tester of the code. Tester of the code. ")
	if err := e.WriteDynamic(value, id); err != nil {
		t.Fatalf("WriteDynamic: %v", err)
	}

	got, err := e.BuildDynamic(id)
	if err != nil {
		t.Fatalf("BuildDynamic: %v", err)
	}
	if !got.Equal(value) {
		t.Fatalf("BuildDynamic = %#v, want %#v", got, value)
	}

	stats := e.Stats()
	wantChunks := (len(value.Stringify()) + codec.DynamicPayloadSize - 1) / codec.DynamicPayloadSize
	if stats[store.Dynamic] != wantChunks {
		t.Fatalf("Dynamic record count = %d, want %d", stats[store.Dynamic], wantChunks)
	}
}

func TestWriteLabelAndResolveLabel(t *testing.T) {
	e := newEngine(t)
	id, err := e.NextID(store.Label)
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	l := graph.NewLabel(id, "Cat")
	if err := e.WriteLabel(l, false); err != nil {
		t.Fatalf("WriteLabel: %v", err)
	}

	got, err := e.ResolveLabel(id)
	if err != nil {
		t.Fatalf("ResolveLabel: %v", err)
	}
	if !got.Name.Equal(l.Name) || !got.Used {
		t.Fatalf("ResolveLabel = %+v, want name %q used=true", got, l.Name.Stringify())
	}
}

func TestWritePropertyInsertThenUpdateChangesOnlyChangedField(t *testing.T) {
	e := newEngine(t)
	id, err := e.NextID(store.Property)
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	p := graph.NewProperty(id, graph.String("Age"), graph.String("18"))
	if err := e.WriteProperty(p, false); err != nil {
		t.Fatalf("WriteProperty insert: %v", err)
	}
	statsAfterInsert := e.Stats()

	// Change only the value; the key's dynamic chain must not be rewritten.
	p.Value = graph.String("19")
	if err := e.WriteProperty(p, true); err != nil {
		t.Fatalf("WriteProperty update: %v", err)
	}
	statsAfterUpdate := e.Stats()

	if statsAfterUpdate[store.Dynamic] != statsAfterInsert[store.Dynamic]+1 {
		t.Fatalf("dynamic count grew by %d, want 1 (one new chunk for the changed value)",
			statsAfterUpdate[store.Dynamic]-statsAfterInsert[store.Dynamic])
	}

	got, err := e.ResolveProperty(id)
	if err != nil {
		t.Fatalf("ResolveProperty: %v", err)
	}
	if !got.Key.Equal(graph.String("Age")) || !got.Value.Equal(graph.String("19")) {
		t.Fatalf("ResolveProperty = %+v, want key=Age value=19", got)
	}
}

func TestWriteNodeRoundTrip(t *testing.T) {
	e := newEngine(t)
	nodeID, err := e.NextID(store.Node)
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	labelID, err := e.NextID(store.Label)
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	label := graph.NewLabel(labelID, "Cat")
	if err := e.WriteLabel(label, false); err != nil {
		t.Fatalf("WriteLabel: %v", err)
	}

	n := graph.NewNode(nodeID, label, nil)
	if err := e.WriteNode(n, false); err != nil {
		t.Fatalf("WriteNode: %v", err)
	}

	fields, err := e.ReadNode(nodeID)
	if err != nil {
		t.Fatalf("ReadNode: %v", err)
	}
	if !fields.Used || fields.LabelID != labelID || fields.FirstRelID != codec.InvalidID || fields.FirstPropID != codec.InvalidID {
		t.Fatalf("ReadNode = %+v, unexpected fields", fields)
	}
}

func TestWriteBytesRejectsMismatchedInsertID(t *testing.T) {
	e := newEngine(t)
	n := graph.NewNode(5, nil, nil)
	if err := e.WriteNode(n, false); err == nil {
		t.Fatal("expected error inserting at a non-contiguous id")
	}
}

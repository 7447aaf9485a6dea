package dbfs

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/dreamware/graphdb/internal/engine"
	"github.com/dreamware/graphdb/internal/record"
	"github.com/dreamware/graphdb/internal/store"
)

func newTestEngine(t *testing.T, dir string) *engine.GraphEngine {
	t.Helper()
	stores := map[store.Kind]bool{
		store.Node: true, store.Relationship: true, store.Label: true,
		store.Property: true, store.Dynamic: true,
	}
	s, err := store.Open(afero.NewMemMapFs(), dir, stores)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return engine.Open(s, nil)
}

func mustExecute(t *testing.T, e *engine.GraphEngine, line string) string {
	t.Helper()
	out, err := Execute(e, line)
	if err != nil {
		t.Fatalf("Execute(%q): %v", line, err)
	}
	return out
}

func TestExecuteCreateAndMatchNode(t *testing.T) {
	e := newTestEngine(t, record.MemoryPrefix+"dispatch1")
	defer e.Close()

	mustExecute(t, e, "create graph: Zoo")
	out := mustExecute(t, e, "create node: Cat name:Tom")
	if !strings.Contains(out, "Tom") {
		t.Fatalf("create node output = %q, want it to mention Tom", out)
	}

	out = mustExecute(t, e, "match node: id:0")
	if !strings.Contains(out, "Cat") {
		t.Fatalf("match node output = %q, want it to mention Cat", out)
	}
}

func TestExecuteCreateRelationshipAndMatchByLabel(t *testing.T) {
	e := newTestEngine(t, record.MemoryPrefix+"dispatch2")
	defer e.Close()

	mustExecute(t, e, "create graph: Zoo")
	mustExecute(t, e, "create node: Cat")
	mustExecute(t, e, "create node: Mouse")
	mustExecute(t, e, "create relationship: catches from id:0 to id:1")

	out := mustExecute(t, e, "match relationship: catches")
	if !strings.Contains(out, "catches") {
		t.Fatalf("match relationship output = %q", out)
	}
}

func TestExecuteDeleteThenMatchFails(t *testing.T) {
	e := newTestEngine(t, record.MemoryPrefix+"dispatch3")
	defer e.Close()

	mustExecute(t, e, "create graph: Zoo")
	mustExecute(t, e, "create node: Solo")
	mustExecute(t, e, "delete node: id:0")

	if _, err := Execute(e, "match node: id:0"); err == nil {
		t.Fatal("match after delete: want error, got nil")
	}
}

func TestExecuteUpdateAppendsProperty(t *testing.T) {
	e := newTestEngine(t, record.MemoryPrefix+"dispatch4")
	defer e.Close()

	mustExecute(t, e, "create graph: Zoo")
	mustExecute(t, e, "create node: Widget")
	out := mustExecute(t, e, "update node: id:0 color:red")
	if !strings.Contains(out, "updated node 0") {
		t.Fatalf("update output = %q", out)
	}

	n, err := e.SelectNode(0)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}
	if len(n.Properties) != 1 || n.Properties[0].Value.Stringify() != "red" {
		t.Fatalf("properties = %+v", n.Properties)
	}
}

func TestExecuteDumpProducesDOT(t *testing.T) {
	e := newTestEngine(t, record.MemoryPrefix+"dispatch5")
	defer e.Close()

	mustExecute(t, e, "create graph: Zoo")
	mustExecute(t, e, "create node: Cat")

	out := mustExecute(t, e, "dump")
	if !strings.Contains(out, "digraph") {
		t.Fatalf("dump output = %q, want a DOT digraph", out)
	}
}

func TestExecuteSyntaxErrorPropagates(t *testing.T) {
	e := newTestEngine(t, record.MemoryPrefix+"dispatch6")
	defer e.Close()

	if _, err := Execute(e, "bogus query"); err == nil {
		t.Fatal("want syntax error, got nil")
	}
}

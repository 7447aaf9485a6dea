package dbfs

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/dreamware/graphdb/internal/engine"
	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
)

// Execute parses line and runs it against e, returning the result text a
// REPL should print. It is the single entry point cmd/graphdb drives.
func Execute(e *engine.GraphEngine, line string) (string, error) {
	q, err := Parse(line)
	if err != nil {
		return "", err
	}
	return q.Run(e)
}

// Run dispatches an already-parsed Query against e.
func (q *Query) Run(e *engine.GraphEngine) (string, error) {
	switch q.verb {
	case verbCreate:
		return q.runCreate(e)
	case verbMatch:
		return q.runMatch(e)
	case verbDelete:
		return q.runDelete(e)
	case verbUpdate:
		return q.runUpdate(e)
	case verbDump:
		g := e.GetGraph()
		if g == nil {
			return "", gverrors.Wrap(gverrors.NotFound, "no graph open")
		}
		return graph.ExportDOT(g), nil
	default:
		return "", gverrors.Wrap(gverrors.SyntaxError, "unhandled query")
	}
}

func (q *Query) runCreate(e *engine.GraphEngine) (string, error) {
	switch q.object {
	case "graph":
		g, err := e.CreateGraph(q.graphName)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("created graph %q", g.Name), nil

	case "node":
		n, err := e.CreateNode(q.nodeLabel, q.properties)
		if err != nil {
			return "", err
		}
		return dumpNode(n), nil

	case "relationship":
		start, err := q.resolveRef(e, q.start)
		if err != nil {
			return "", gverrors.Wrap(gverrors.InvalidArgument, "create relationship: start node: %v", err)
		}
		end, err := q.resolveRef(e, q.end)
		if err != nil {
			return "", gverrors.Wrap(gverrors.InvalidArgument, "create relationship: end node: %v", err)
		}
		r, err := e.CreateRelationship(q.relLabel, start, end, q.properties)
		if err != nil {
			return "", err
		}
		return dumpRelationship(r), nil

	default:
		return "", gverrors.Wrap(gverrors.SyntaxError, "unknown create object %q", q.object)
	}
}

// resolveRef resolves an objectRef to a node id: an explicit id is used
// directly, otherwise the first node carrying the given label is chosen,
// matching the source parser's label-based endpoint lookup.
func (q *Query) resolveRef(e *engine.GraphEngine, ref objectRef) (int32, error) {
	if ref.hasID {
		return ref.id, nil
	}
	nodes, err := e.SelectNodes(engine.NodeFilter{Label: ref.label})
	if err != nil {
		return 0, err
	}
	if len(nodes) == 0 {
		return 0, gverrors.Wrap(gverrors.NotFound, "no node labelled %q", ref.label)
	}
	return nodes[0].ID, nil
}

func (q *Query) runMatch(e *engine.GraphEngine) (string, error) {
	if q.object == "graph" {
		objs, err := e.SelectGraphObjects()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, o := range objs {
			switch v := o.(type) {
			case *graph.Node:
				b.WriteString(dumpNode(v))
			case *graph.Relationship:
				b.WriteString(dumpRelationship(v))
			}
			b.WriteByte('\n')
		}
		return b.String(), nil
	}

	if q.object == "node" {
		if q.hasID {
			n, err := e.SelectNode(q.id)
			if err != nil {
				return "", err
			}
			return dumpNode(n), nil
		}
		nodes, err := e.SelectNodes(engine.NodeFilter{
			Label: q.filterLabel, HasProp: q.hasFilter,
			Key: q.filterKey, Value: q.filterValue, Cmp: q.filterCmp,
		})
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, n := range nodes {
			b.WriteString(dumpNode(n))
			b.WriteByte('\n')
		}
		return b.String(), nil
	}

	// relationship
	if q.hasID {
		r, err := e.SelectRelationship(q.id)
		if err != nil {
			return "", err
		}
		return dumpRelationship(r), nil
	}
	rels, err := e.SelectRelationships(engine.RelationshipFilter{
		Label: q.filterLabel, HasProp: q.hasFilter,
		Key: q.filterKey, Value: q.filterValue, Cmp: q.filterCmp,
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range rels {
		b.WriteString(dumpRelationship(r))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (q *Query) runDelete(e *engine.GraphEngine) (string, error) {
	if q.object == "node" {
		n, err := e.DeleteNode(q.id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("deleted node %d", n.ID), nil
	}
	r, err := e.DeleteRelationship(q.id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted relationship %d", r.ID), nil
}

func (q *Query) runUpdate(e *engine.GraphEngine) (string, error) {
	input := engine.PropertyInput{Key: q.updateKey, Value: q.updateValue}
	if q.object == "node" {
		n, err := e.SelectNode(q.id)
		if err != nil {
			return "", err
		}
		if err := e.AddProperty(n, input); err != nil {
			return "", err
		}
		return fmt.Sprintf("updated node %d", n.ID), nil
	}
	r, err := e.SelectRelationship(q.id)
	if err != nil {
		return "", err
	}
	if err := e.AddProperty(r, input); err != nil {
		return "", err
	}
	return fmt.Sprintf("updated relationship %d", r.ID), nil
}

func dumpNode(n *graph.Node) string {
	return spew.Sdump(n)
}

func dumpRelationship(r *graph.Relationship) string {
	return spew.Sdump(r)
}

package graph

import (
	"fmt"
	"strconv"

	"github.com/emicklei/dot"
)

// ExportDOT renders g as a Graphviz DOT graph. Nodes are labelled with
// their label name (if any) and id; relationships are rendered as
// labelled directed edges. It is meant for operator-facing dumps, not as
// a serialization format — DOT output round-trips into nothing.
//
// Rendering rules:
//   - A node's label is "<name> #<id>" if it has a Label, else "#<id>".
//   - A node's properties become DOT attributes on its graph node.
//   - A relationship whose endpoint isn't in g's cache is skipped, since
//     DOT can't draw an edge to a node it never rendered.
//
// Parameters:
//   - g: the graph to render; only what's currently cached is drawn,
//     so callers that want a complete export should ensure it is
//     Consistent first.
//
// Returns:
//   - the DOT source as a string, ready to write to a .dot file or pipe
//     into `dot -Tpng`.
//
// Example:
//
//	fmt.Println(graph.ExportDOT(g))
func ExportDOT(g *Graph) string {
	out := dot.NewGraph(dot.Directed)
	out.Attr("rankdir", "LR")

	nodeByID := make(map[int32]dot.Node, g.NodeCount())
	for _, n := range g.Nodes() {
		label := fmt.Sprintf("#%d", n.ID)
		if n.Label != nil {
			label = n.Label.Name.Stringify() + " " + label
		}
		gn := out.Node(strconv.Itoa(int(n.ID))).Label(label)
		for _, p := range n.Properties {
			gn.Attr(p.Key.Stringify(), p.Value.Stringify())
		}
		nodeByID[n.ID] = gn
	}

	for _, r := range g.Relationships() {
		start, ok := nodeByID[r.StartNodeID]
		if !ok {
			continue
		}
		end, ok := nodeByID[r.EndNodeID]
		if !ok {
			continue
		}
		label := fmt.Sprintf("#%d", r.ID)
		if r.Label != nil {
			label = r.Label.Name.Stringify()
		}
		out.Edge(start, end, label)
	}

	return out.String()
}

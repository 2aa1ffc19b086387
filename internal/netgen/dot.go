package netgen

import (
	"fmt"
	"sort"
	"strings"
)

// RenderDOT produces a Graphviz DOT representation of a generated
// graph. When attrs is non-nil, nodes are labeled with their attribute
// value and shaded on a gray scale by attrs/maxAttr.
func RenderDOT(g Undirected, attrs map[int64]float64, maxAttr float64) string {
	var b strings.Builder
	b.WriteString("graph polsweep {\n")
	b.WriteString("  layout=neato;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=10];\n\n")

	var ids []int64
	nodes := g.Nodes()
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if attrs == nil || maxAttr <= 0 {
			fmt.Fprintf(&b, "  %d [fillcolor=\"lightgray\"];\n", id)
			continue
		}
		shade := attrs[id] / maxAttr
		if shade < 0 {
			shade = 0
		}
		if shade > 1 {
			shade = 1
		}
		// Gray scale: darker nodes hold higher belief values.
		fmt.Fprintf(&b, "  %d [label=\"%.0f\", fillcolor=\"%.3f %.3f %.3f\"];\n",
			id, attrs[id], 0.0, 0.0, 1-0.8*shade)
	}
	b.WriteString("\n")

	list := NodesEdges(g, false)
	for _, e := range list.Edges {
		fmt.Fprintf(&b, "  %d -- %d;\n", e[0], e[1])
	}

	b.WriteString("}\n")
	return b.String()
}

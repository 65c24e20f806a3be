package graph

import (
	"slices"

	"github.com/hupe1980/pointgraph/internal/visited"
)

// Subgraph is one connected component of a cluster, as sorted node and edge
// indices.
type Subgraph struct {
	Nodes []int
	Edges []int
}

// Subgraphs splits c into connected components. Components with fewer than
// minEdges or more than maxEdges edges are skipped; a bound <= 0 is ignored.
// Isolated nodes form edgeless components. Components are ordered by their
// lowest node index.
func (c *Cluster) Subgraphs(minEdges, maxEdges int) []Subgraph {
	var out []Subgraph

	seen := visited.New(len(c.nodes))
	component := visited.New(len(c.nodes))
	var queue []int

	for start := range c.nodes {
		if !seen.Visit(start) {
			continue
		}

		component.Reset()
		component.Visit(start)
		queue = append(queue[:0], start)

		var edges []int
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for _, l := range c.nodes[n].Links {
				if n < l.Node {
					edges = append(edges, l.Edge)
				}
				if seen.Visit(l.Node) {
					component.Visit(l.Node)
					queue = append(queue, l.Node)
				}
			}
		}

		if minEdges > 0 && len(edges) < minEdges {
			continue
		}
		if maxEdges > 0 && len(edges) > maxEdges {
			continue
		}

		nodes := slices.Clone(component.Order())
		slices.Sort(nodes)
		slices.Sort(edges)
		out = append(out, Subgraph{Nodes: nodes, Edges: edges})
	}
	return out
}

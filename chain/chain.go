package chain

import (
	"slices"

	"github.com/hupe1980/pointgraph/graph"
)

// Chain is an ordered walk over cluster nodes.
type Chain struct {
	// Seed is the node the walk starts from.
	Seed int
	// Links lists the nodes reached after Seed and the edge used to reach
	// each one. A closed loop does not repeat Seed at the end.
	Links []graph.Link
	// ClosedLoop is set when the walk returned to Seed.
	ClosedLoop bool
	// ClosingEdge is the edge from the last link back to Seed, or -1.
	ClosingEdge int
	// Leaf is set for isolated nodes: no links, no edges.
	Leaf bool
}

// Len returns the number of distinct nodes in the chain.
func (c *Chain) Len() int { return len(c.Links) + 1 }

// Nodes returns the node indices in walk order, starting with Seed.
func (c *Chain) Nodes() []int {
	out := make([]int, 0, len(c.Links)+1)
	out = append(out, c.Seed)
	for _, l := range c.Links {
		out = append(out, l.Node)
	}
	return out
}

// Edges returns the edge indices in walk order, closing edge last.
func (c *Chain) Edges() []int {
	out := make([]int, 0, len(c.Links)+1)
	for _, l := range c.Links {
		out = append(out, l.Edge)
	}
	if c.ClosedLoop {
		out = append(out, c.ClosingEdge)
	}
	return out
}

// Terminal returns the last node of the walk.
func (c *Chain) Terminal() int {
	if len(c.Links) == 0 {
		return c.Seed
	}
	return c.Links[len(c.Links)-1].Node
}

// firstEdge returns the first edge of the walk, or -1.
func (c *Chain) firstEdge() int {
	if len(c.Links) == 0 {
		return -1
	}
	return c.Links[0].Edge
}

// lastEdge returns the last edge of the walk, closing edge included.
func (c *Chain) lastEdge() int {
	if c.ClosedLoop {
		return c.ClosingEdge
	}
	if len(c.Links) == 0 {
		return -1
	}
	return c.Links[len(c.Links)-1].Edge
}

// reverse flips the walk. Open chains swap seed and terminal; closed loops
// keep their seed and run the other way around.
func (c *Chain) reverse() {
	if len(c.Links) == 0 {
		return
	}

	if c.ClosedLoop {
		// seed, n1..nk with edges e1..ek and closing ec becomes
		// seed, nk..n1 with edges ec, ek..e2 and closing e1
		nodes := make([]int, len(c.Links))
		edges := make([]int, len(c.Links))
		for i, l := range c.Links {
			nodes[i] = l.Node
			edges[i] = l.Edge
		}
		closing := c.ClosingEdge
		k := len(c.Links)
		for i := range k {
			c.Links[i] = graph.Link{Node: nodes[k-1-i]}
		}
		c.Links[0].Edge = closing
		for i := 1; i < k; i++ {
			c.Links[i].Edge = edges[k-i]
		}
		c.ClosingEdge = edges[0]
		return
	}

	// seed, n1..nk with edges e1..ek becomes nk, n(k-1)..n1, seed with
	// edges ek..e1
	nodes := make([]int, 0, len(c.Links)+1)
	nodes = append(nodes, c.Seed)
	edges := make([]int, 0, len(c.Links))
	for _, l := range c.Links {
		nodes = append(nodes, l.Node)
		edges = append(edges, l.Edge)
	}
	slices.Reverse(nodes)
	slices.Reverse(edges)
	c.Seed = nodes[0]
	for i := range c.Links {
		c.Links[i] = graph.Link{Node: nodes[i+1], Edge: edges[i]}
	}
}

// canonicalize orients the chain so output does not depend on which end won
// the race: open chains start at the lower node, closed loops run through
// the lower of their two seed edges first.
func (c *Chain) canonicalize() {
	switch {
	case c.Leaf:
	case c.ClosedLoop:
		if c.ClosingEdge < c.firstEdge() {
			c.reverse()
		}
	default:
		if c.Terminal() < c.Seed {
			c.reverse()
		}
	}
}

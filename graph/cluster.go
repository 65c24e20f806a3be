package graph

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
)

// Link is one adjacency entry: the neighbor node and the edge reaching it.
type Link struct {
	Node int
	Edge int
}

// Node is a graph vertex wrapping one point.
type Node struct {
	Index      int
	PointIndex int
	Links      []Link
}

// Degree returns the number of incident edges.
func (n *Node) Degree() int { return len(n.Links) }

// IsIsolated reports degree 0.
func (n *Node) IsIsolated() bool { return len(n.Links) == 0 }

// IsEndpoint reports degree 1.
func (n *Node) IsEndpoint() bool { return len(n.Links) == 1 }

// IsPassthrough reports degree 2.
func (n *Node) IsPassthrough() bool { return len(n.Links) == 2 }

// IsBranch reports degree > 2.
func (n *Node) IsBranch() bool { return len(n.Links) > 2 }

// Edge is a compiled edge. Start and End are point indices in canonical
// order (Start < End).
type Edge struct {
	Index int
	Start int
	End   int
}

// Key returns the canonical key of e.
func (e Edge) Key() EdgeKey { return EdgeKey{Lo: e.Start, Hi: e.End} }

// Other returns the endpoint opposite to point p.
func (e Edge) Other(p int) int {
	if p == e.Start {
		return e.End
	}
	return e.Start
}

// Cluster is the compiled, read-only graph of one point set.
type Cluster struct {
	points      *data.Points
	nodes       []Node
	edges       []Edge
	nodeByPoint []int
	pruned      *roaring.Bitmap
	compiled    bool
}

// Compiled reports whether compilation produced at least one edge.
func (c *Cluster) Compiled() bool { return c.compiled }

// Points returns the point set the cluster was built from.
func (c *Cluster) Points() *data.Points { return c.points }

// Nodes returns every node ordered by point index. Do not modify.
func (c *Cluster) Nodes() []Node { return c.nodes }

// Edges returns every edge ordered by canonical key. Do not modify.
func (c *Cluster) Edges() []Edge { return c.edges }

// NumNodes returns the node count.
func (c *Cluster) NumNodes() int { return len(c.nodes) }

// NumEdges returns the edge count.
func (c *Cluster) NumEdges() int { return len(c.edges) }

// Node returns node i.
func (c *Cluster) Node(i int) *Node { return &c.nodes[i] }

// Edge returns edge i.
func (c *Cluster) Edge(i int) Edge { return c.edges[i] }

// NodeByPoint returns the node wrapping point p.
func (c *Cluster) NodeByPoint(p int) (*Node, bool) {
	if p < 0 || p >= len(c.nodeByPoint) || c.nodeByPoint[p] < 0 {
		return nil, false
	}
	return &c.nodes[c.nodeByPoint[p]], true
}

// Pos returns the position of node i.
func (c *Cluster) Pos(i int) geom.Vec3 { return c.points.Position(c.nodes[i].PointIndex) }

// EdgeStart returns the node at the start of edge i.
func (c *Cluster) EdgeStart(i int) *Node { return &c.nodes[c.nodeByPoint[c.edges[i].Start]] }

// EdgeEnd returns the node at the end of edge i.
func (c *Cluster) EdgeEnd(i int) *Node { return &c.nodes[c.nodeByPoint[c.edges[i].End]] }

// Neighbors returns the node indices adjacent to node i, in link order.
func (c *Cluster) Neighbors(i int) []int {
	links := c.nodes[i].Links
	out := make([]int, len(links))
	for j, l := range links {
		out[j] = l.Node
	}
	return out
}

// EdgeBetween returns the index of the edge joining nodes a and b.
func (c *Cluster) EdgeBetween(a, b int) (int, bool) {
	na, nb := &c.nodes[a], &c.nodes[b]
	if nb.Degree() < na.Degree() {
		na, b = nb, a
	}
	for _, l := range na.Links {
		if l.Node == b {
			return l.Edge, true
		}
	}
	return -1, false
}

// Pruned returns the point indices dropped during compilation. Do not modify.
func (c *Cluster) Pruned() *roaring.Bitmap { return c.pruned }

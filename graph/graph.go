package graph

// Graph is the mutable edge store of one point set. It is filled after the
// probing barrier and compiled once by a Builder.
type Graph struct {
	numPoints int
	edges     EdgeSet
}

// NewGraph returns an empty graph over numPoints points.
func NewGraph(numPoints int) *Graph {
	return &Graph{numPoints: numPoints, edges: NewEdgeSet(numPoints)}
}

// NumPoints returns the point count.
func (g *Graph) NumPoints() int { return g.numPoints }

// NumEdges returns the number of unique edges inserted so far.
func (g *Graph) NumEdges() int { return len(g.edges) }

// InsertEdge adds (a, b) and reports whether it was new. Self-loops and
// out-of-range endpoints are ignored.
func (g *Graph) InsertEdge(a, b int) bool {
	if a < 0 || b < 0 || a >= g.numPoints || b >= g.numPoints {
		return false
	}
	return g.edges.Add(a, b)
}

// InsertEdges merges set into the graph and returns the number of new edges.
func (g *Graph) InsertEdges(set EdgeSet) int {
	added := 0
	for k := range set {
		if g.InsertEdge(k.Lo, k.Hi) {
			added++
		}
	}
	return added
}

// HasEdge reports whether (a, b) was inserted.
func (g *Graph) HasEdge(a, b int) bool { return g.edges.Has(a, b) }

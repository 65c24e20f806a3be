package graph

import (
	"github.com/hupe1980/pointgraph/data"
)

// DirectionPolicy picks which endpoint of an edge is its start.
// It returns point indices.
type DirectionPolicy interface {
	SortEndpoints(c *Cluster, e Edge) (start, end int)
}

// AscendingIndex starts every edge at its lower point index.
type AscendingIndex struct{}

func (AscendingIndex) SortEndpoints(_ *Cluster, e Edge) (int, int) { return e.Start, e.End }

// DescendingIndex starts every edge at its higher point index.
type DescendingIndex struct{}

func (DescendingIndex) SortEndpoints(_ *Cluster, e Edge) (int, int) { return e.End, e.Start }

// ByAttribute orders endpoints by a float64 or int32 attribute. Ties fall
// back to ascending point index.
type ByAttribute struct {
	read       func(i int) float64
	descending bool
}

// NewByAttribute resolves the attribute name on t.
func NewByAttribute(t *data.Table, name string, descending bool) (*ByAttribute, error) {
	a, ok := t.Get(name)
	if !ok {
		return nil, &data.MissingAttributeError{Name: name}
	}

	var read func(int) float64
	switch values := a.(type) {
	case *data.Buffer[float64]:
		read = values.Read
	case *data.Buffer[int32]:
		read = func(i int) float64 { return float64(values.Read(i)) }
	default:
		return nil, &data.TypeMismatchError{Name: name, Expected: data.TypeFloat64, Actual: a.Type()}
	}
	return &ByAttribute{read: read, descending: descending}, nil
}

func (p *ByAttribute) SortEndpoints(_ *Cluster, e Edge) (int, int) {
	a, b := p.read(e.Start), p.read(e.End)
	if a == b {
		return e.Start, e.End
	}
	if (a > b) != p.descending {
		return e.End, e.Start
	}
	return e.Start, e.End
}

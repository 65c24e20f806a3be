package data

// Filter is a per-point predicate.
type Filter interface {
	Test(i int) bool
}

// FilterFunc adapts a function to a Filter.
type FilterFunc func(i int) bool

func (f FilterFunc) Test(i int) bool { return f(i) }

// BoolFilter tests a bool attribute.
type BoolFilter struct {
	buf    *Buffer[bool]
	invert bool
}

// NewBoolFilter resolves the bool attribute name on t.
func NewBoolFilter(t *Table, name string, invert bool) (*BoolFilter, error) {
	b, err := Lookup[bool](t, name)
	if err != nil {
		return nil, err
	}
	return &BoolFilter{buf: b, invert: invert}, nil
}

func (f *BoolFilter) Test(i int) bool { return f.buf.Read(i) != f.invert }

// TestOr returns f.Test(i), or def when f is nil.
func TestOr(f Filter, i int, def bool) bool {
	if f == nil {
		return def
	}
	return f.Test(i)
}

package data

import "slices"

// Table is a registry of named attributes sharing one element count.
type Table struct {
	n     int
	attrs map[string]Attribute
	order []string
}

// NewTable returns an empty table for n elements.
func NewTable(n int) *Table {
	return &Table{n: n, attrs: make(map[string]Attribute)}
}

// Len returns the element count.
func (t *Table) Len() int { return t.n }

// Get returns the attribute registered under name.
func (t *Table) Get(name string) (Attribute, bool) {
	a, ok := t.attrs[name]
	return a, ok
}

// Has reports whether an attribute named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.attrs[name]
	return ok
}

// Names returns attribute names in registration order.
func (t *Table) Names() []string { return slices.Clone(t.order) }

// Add registers a, replacing any attribute with the same name.
func (t *Table) Add(a Attribute) {
	if _, ok := t.attrs[a.Name()]; !ok {
		t.order = append(t.order, a.Name())
	}
	t.attrs[a.Name()] = a
}

// Remove deletes the attribute named name.
func (t *Table) Remove(name string) {
	if _, ok := t.attrs[name]; !ok {
		return
	}
	delete(t.attrs, name)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == name })
}

// Lookup resolves a typed accessor for name.
func Lookup[T Value](t *Table, name string) (*Buffer[T], error) {
	a, ok := t.attrs[name]
	if !ok {
		return nil, &MissingAttributeError{Name: name}
	}
	b, ok := a.(*Buffer[T])
	if !ok {
		return nil, &TypeMismatchError{Name: name, Expected: TypeOf[T](), Actual: a.Type()}
	}
	return b, nil
}

// Ensure returns the attribute named name, creating it with def when missing.
func Ensure[T Value](t *Table, name string, def T) (*Buffer[T], error) {
	if _, ok := t.attrs[name]; ok {
		return Lookup[T](t, name)
	}
	b := NewBuffer(name, t.n, def)
	t.Add(b)
	return b, nil
}

// Subset returns a new table holding the elements listed in indices, in order.
func (t *Table) Subset(indices []int) *Table {
	out := NewTable(len(indices))
	for _, name := range t.order {
		src := t.attrs[name]
		dst := src.Clone(len(indices))
		for i, idx := range indices {
			dst.CopyValue(i, src, idx)
		}
		out.Add(dst)
	}
	return out
}

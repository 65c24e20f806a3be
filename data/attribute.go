package data

import "github.com/hupe1980/pointgraph/geom"

// Type tags the value type of an attribute.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt32
	TypeFloat64
	TypeVec3
	TypeTransform
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeFloat64:
		return "float64"
	case TypeVec3:
		return "vec3"
	case TypeTransform:
		return "transform"
	default:
		return "invalid"
	}
}

// Value is the set of attribute value types.
type Value interface {
	bool | int32 | float64 | geom.Vec3 | geom.Transform
}

// TypeOf returns the tag for T.
func TypeOf[T Value]() Type {
	var zero T
	switch any(zero).(type) {
	case bool:
		return TypeBool
	case int32:
		return TypeInt32
	case float64:
		return TypeFloat64
	case geom.Vec3:
		return TypeVec3
	case geom.Transform:
		return TypeTransform
	}
	return TypeInvalid
}

// Attribute is the untyped view of a Buffer.
type Attribute interface {
	Name() string
	Type() Type
	Len() int
	// CopyValue copies index src of from (which must have the same type) to dst.
	CopyValue(dst int, from Attribute, src int)
	// Clone returns a copy with n elements, missing elements set to the default.
	Clone(n int) Attribute
	// Make returns an attribute with the same name, type and default holding
	// n default elements.
	Make(n int) Attribute
}

// Buffer is a typed attribute column.
type Buffer[T Value] struct {
	name   string
	def    T
	values []T
}

// NewBuffer returns a buffer of n elements set to def.
func NewBuffer[T Value](name string, n int, def T) *Buffer[T] {
	b := &Buffer[T]{name: name, def: def, values: make([]T, n)}
	for i := range b.values {
		b.values[i] = def
	}
	return b
}

func (b *Buffer[T]) Name() string { return b.name }

func (b *Buffer[T]) Type() Type { return TypeOf[T]() }

func (b *Buffer[T]) Len() int { return len(b.values) }

// Default returns the value new elements are initialized with.
func (b *Buffer[T]) Default() T { return b.def }

// Read returns the value at index i.
func (b *Buffer[T]) Read(i int) T { return b.values[i] }

// GetMutable returns a pointer to the value at index i.
func (b *Buffer[T]) GetMutable(i int) *T { return &b.values[i] }

// Set stores v at index i.
func (b *Buffer[T]) Set(i int, v T) { b.values[i] = v }

// Values exposes the backing slice.
func (b *Buffer[T]) Values() []T { return b.values }

func (b *Buffer[T]) CopyValue(dst int, from Attribute, src int) {
	if o, ok := from.(*Buffer[T]); ok {
		b.values[dst] = o.values[src]
	}
}

func (b *Buffer[T]) Clone(n int) Attribute {
	c := NewBuffer(b.name, n, b.def)
	copy(c.values, b.values)
	return c
}

func (b *Buffer[T]) Make(n int) Attribute { return NewBuffer(b.name, n, b.def) }

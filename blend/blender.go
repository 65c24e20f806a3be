package blend

import (
	"slices"

	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
)

// Config selects an operator per attribute.
type Config struct {
	// Default applies to attributes without an entry in PerAttribute.
	Default Operator
	// PerAttribute overrides Default by attribute name.
	PerAttribute map[string]Operator
	// Protected attributes are never blended, whatever the operator.
	Protected []string
}

// OperatorFor returns the operator resolved for name.
func (c Config) OperatorFor(name string) Operator {
	if slices.Contains(c.Protected, name) {
		return None
	}
	if op, ok := c.PerAttribute[name]; ok {
		return op
	}
	return c.Default
}

// attributeOp is one resolved (target, source) attribute pair.
type attributeOp interface {
	name() string
	prepare(t int)
	blend(t, s int, w float64)
	complete(t, count int, total float64)
}

// Blender blends every resolved attribute of a source table into a target
// table.
type Blender struct {
	ops []attributeOp
}

// New resolves the attributes of source against target. Attributes missing
// on target are created with the source type and default.
func New(target, source *data.Table, cfg Config) (*Blender, error) {
	b := &Blender{}
	for _, name := range source.Names() {
		op := cfg.OperatorFor(name)
		if op == None {
			continue
		}

		src, _ := source.Get(name)
		dst, ok := target.Get(name)
		if !ok {
			dst = src.Make(target.Len())
			target.Add(dst)
		} else if dst.Type() != src.Type() {
			return nil, &data.TypeMismatchError{Name: name, Expected: src.Type(), Actual: dst.Type()}
		}

		b.ops = append(b.ops, newAttributeOp(op, dst, src, target.Len()))
	}
	return b, nil
}

func newAttributeOp(op Operator, dst, src data.Attribute, n int) attributeOp {
	switch d := dst.(type) {
	case *data.Buffer[float64]:
		return newTypedOp[float64, float64](op, floatAlgebra{}, d, src.(*data.Buffer[float64]), n)
	case *data.Buffer[int32]:
		return newTypedOp[int32, float64](op, intAlgebra{}, d, src.(*data.Buffer[int32]), n)
	case *data.Buffer[geom.Vec3]:
		return newTypedOp[geom.Vec3, geom.Vec3](op, vecAlgebra{}, d, src.(*data.Buffer[geom.Vec3]), n)
	case *data.Buffer[geom.Transform]:
		return newTypedOp[geom.Transform, geom.Transform](op, transformAlgebra{}, d, src.(*data.Buffer[geom.Transform]), n)
	case *data.Buffer[bool]:
		if op != Min && op != Max {
			op = Copy
		}
		return newTypedOp[bool, bool](op, boolAlgebra{}, d, src.(*data.Buffer[bool]), n)
	}
	panic("blend: unsupported attribute type " + dst.Type().String())
}

// Len returns the number of blended attributes.
func (b *Blender) Len() int { return len(b.ops) }

// Names returns the blended attribute names.
func (b *Blender) Names() []string {
	out := make([]string, len(b.ops))
	for i, op := range b.ops {
		out[i] = op.name()
	}
	return out
}

// PrepareForBlending resets the accumulators of target element t.
func (b *Blender) PrepareForBlending(t int) {
	for _, op := range b.ops {
		op.prepare(t)
	}
}

// Blend accumulates source element s into target element t with weight w.
func (b *Blender) Blend(t, s int, w float64) {
	for _, op := range b.ops {
		op.blend(t, s, w)
	}
}

// CompleteBlending writes the accumulated values of t. count is the number
// of Blend calls and total the sum of their weights. An element that
// received no contribution keeps its value.
func (b *Blender) CompleteBlending(t, count int, total float64) {
	for _, op := range b.ops {
		op.complete(t, count, total)
	}
}

// BlendOnce is Prepare, a single Blend with weight 1 and Complete.
func (b *Blender) BlendOnce(t, s int) {
	b.PrepareForBlending(t)
	b.Blend(t, s, 1)
	b.CompleteBlending(t, 1, 1)
}

type typedOp[T data.Value, A any] struct {
	op     Operator
	alg    algebra[T, A]
	target *data.Buffer[T]
	source *data.Buffer[T]

	// per target element; each element is only touched by its owner
	acc   []A
	fresh []bool
}

func newTypedOp[T data.Value, A any](op Operator, alg algebra[T, A], target, source *data.Buffer[T], n int) *typedOp[T, A] {
	return &typedOp[T, A]{
		op:     op,
		alg:    alg,
		target: target,
		source: source,
		acc:    make([]A, n),
		fresh:  make([]bool, n),
	}
}

func (o *typedOp[T, A]) name() string { return o.target.Name() }

func (o *typedOp[T, A]) prepare(t int) {
	o.acc[t] = o.alg.zero()
	o.fresh[t] = true
}

func (o *typedOp[T, A]) blend(t, s int, w float64) {
	v := o.alg.lift(o.source.Read(s))
	acc := o.acc[t]

	switch o.op {
	case Copy:
		acc = v
	case Average, WeightedSum:
		acc = o.alg.add(acc, o.alg.scale(v, w))
	case Sum:
		acc = o.alg.add(acc, v)
	case Min:
		if o.fresh[t] {
			acc = v
		} else {
			acc = o.alg.min(acc, v)
		}
	case Max:
		if o.fresh[t] {
			acc = v
		} else {
			acc = o.alg.max(acc, v)
		}
	}

	o.acc[t] = acc
	o.fresh[t] = false
}

func (o *typedOp[T, A]) complete(t, _ int, total float64) {
	if o.fresh[t] {
		return
	}
	acc := o.acc[t]
	if o.op == Average && total > 0 {
		acc = o.alg.scale(acc, 1/total)
	}
	o.target.Set(t, o.alg.lower(acc))
	o.fresh[t] = true
}

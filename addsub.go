package mpoly

// Add sets out = a + b.
func (ctx *Context[T]) Add(out, a, b *Poly[T]) error {
	return ctx.addSub(out, a, b, false)
}

// Sub sets out = a - b.
func (ctx *Context[T]) Sub(out, a, b *Poly[T]) error {
	return ctx.addSub(out, a, b, true)
}

// addSub merges two sorted term lists; equal monomials are combined and
// dropped when they cancel.
func (ctx *Context[T]) addSub(out, a, b *Poly[T], negate bool) error {
	if err := ctx.owns(out, a, b); err != nil {
		return err
	}

	r := ctx.Ring
	bits := max(a.bits, b.bits)
	l := ctx.layout(bits)
	n := l.Words
	ae, be := a.packedAt(l), b.packedAt(l)

	res := &Poly[T]{ctx: ctx, bits: bits}
	res.FitLength(a.Len() + b.Len())

	bterm := func(j int) T {
		if negate {
			return r.Neg(b.coeffs[j])
		}

		return b.coeffs[j]
	}

	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		switch l.Compare(ae[i*n:], be[j*n:]) {
		case 1:
			res.pushPacked(a.coeffs[i], ae[i*n:])
			i++
		case -1:
			res.pushPacked(bterm(j), be[j*n:])
			j++
		default:
			var c T
			if negate {
				c = r.Sub(a.coeffs[i], b.coeffs[j])
			} else {
				c = r.Add(a.coeffs[i], b.coeffs[j])
			}

			if !r.IsZero(c) {
				res.pushPacked(c, ae[i*n:])
			}

			i++
			j++
		}
	}

	for ; i < a.Len(); i++ {
		res.pushPacked(a.coeffs[i], ae[i*n:])
	}

	for ; j < b.Len(); j++ {
		res.pushPacked(bterm(j), be[j*n:])
	}

	out.take(res)

	return nil
}

// Neg sets out = -a.
func (ctx *Context[T]) Neg(out, a *Poly[T]) error {
	if err := ctx.owns(out, a); err != nil {
		return err
	}

	res := a.Copy()
	for i, c := range res.coeffs {
		res.coeffs[i] = ctx.Ring.Neg(c)
	}

	out.take(res)

	return nil
}

// Scale sets out = c * a. Terms killed by zero divisors are dropped.
func (ctx *Context[T]) Scale(out, a *Poly[T], c T) error {
	if err := ctx.owns(out, a); err != nil {
		return err
	}

	c = ctx.Ring.Reduce(c)

	res := a.Copy()
	for i, ci := range res.coeffs {
		res.coeffs[i] = ctx.Ring.Mul(ci, c)
	}

	res.Normalize()
	out.take(res)

	return nil
}

// Add returns p + q.
func (p *Poly[T]) Add(q *Poly[T]) (*Poly[T], error) {
	out := p.ctx.NewPoly()
	if err := p.ctx.Add(out, p, q); err != nil {
		return nil, err
	}

	return out, nil
}

// Sub returns p - q.
func (p *Poly[T]) Sub(q *Poly[T]) (*Poly[T], error) {
	out := p.ctx.NewPoly()
	if err := p.ctx.Sub(out, p, q); err != nil {
		return nil, err
	}

	return out, nil
}

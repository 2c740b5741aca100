package mpoly

import (
	"fmt"
	"sort"

	"github.com/jonathanmweiss/go-mpoly/monomial"
)

// Poly is a sparse polynomial: parallel sequences of coefficients and packed
// monomials, sorted strictly decreasing, without zero coefficients.
type Poly[T any] struct {
	ctx    *Context[T]
	coeffs []T
	exps   []uint64
	bits   uint
}

// NewPoly returns the zero polynomial.
func (ctx *Context[T]) NewPoly() *Poly[T] {
	return &Poly[T]{ctx: ctx, bits: ctx.initialBits}
}

// Constant returns the polynomial c.
func (ctx *Context[T]) Constant(c T) *Poly[T] {
	p := ctx.NewPoly()
	if c = ctx.Ring.Reduce(c); !ctx.Ring.IsZero(c) {
		p.pushPacked(c, make([]uint64, p.layout().Words))
	}

	return p
}

// Var returns the polynomial x_v.
func (ctx *Context[T]) Var(v int) (*Poly[T], error) {
	if v < 0 || v >= ctx.nvars {
		return nil, ErrVariableIndex
	}

	exps := make([]uint64, ctx.nvars)
	exps[v] = 1

	p := ctx.NewPoly()
	if err := p.PushTerm(ctx.Ring.One(), exps...); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Poly[T]) Context() *Context[T] {
	return p.ctx
}

func (p *Poly[T]) layout() *monomial.Layout {
	return p.ctx.layout(p.bits)
}

func (p *Poly[T]) words() int {
	return p.layout().Words
}

// Bits is the current packing width.
func (p *Poly[T]) Bits() uint {
	return p.bits
}

func (p *Poly[T]) Len() int {
	return len(p.coeffs)
}

func (p *Poly[T]) IsZero() bool {
	return len(p.coeffs) == 0
}

// FitLength makes room for n terms, growing geometrically.
func (p *Poly[T]) FitLength(n int) {
	if n <= cap(p.coeffs) {
		return
	}

	newCap := max(n, 2*cap(p.coeffs))

	coeffs := make([]T, len(p.coeffs), newCap)
	copy(coeffs, p.coeffs)
	p.coeffs = coeffs

	n0 := p.words()
	exps := make([]uint64, len(p.exps), newCap*n0)
	copy(exps, p.exps)
	p.exps = exps
}

// SetLength truncates p to its first n terms.
func (p *Poly[T]) SetLength(n int) {
	if n > len(p.coeffs) {
		panic("mpoly: SetLength beyond current length")
	}

	var zero T
	for i := n; i < len(p.coeffs); i++ {
		p.coeffs[i] = zero
	}

	p.coeffs = p.coeffs[:n]
	p.exps = p.exps[:n*p.words()]
}

// PushTerm appends c*x^exps. The caller guarantees exps is smaller than
// every monomial already in p; zero coefficients are skipped. p is repacked
// at a wider width when exps does not fit.
func (p *Poly[T]) PushTerm(c T, exps ...uint64) error {
	l := p.layout()
	if len(exps) != l.NVars {
		return ErrVariableCount
	}

	c = p.ctx.Ring.Reduce(c)
	if p.ctx.Ring.IsZero(c) {
		return nil
	}

	need, err := l.BitsNeeded(exps)
	if err != nil {
		return err
	}

	if need > p.bits {
		p.repack(need)
		l = p.layout()
	}

	m := make([]uint64, l.Words)
	l.Pack(m, exps)
	p.pushPacked(c, m)

	return nil
}

func (p *Poly[T]) pushPacked(c T, m []uint64) {
	p.FitLength(len(p.coeffs) + 1)
	p.coeffs = append(p.coeffs, c)
	p.exps = append(p.exps, m[:p.words()]...)
}

// Normalize drops zero coefficients in place.
func (p *Poly[T]) Normalize() {
	n := p.words()
	k := 0

	for i, c := range p.coeffs {
		if p.ctx.Ring.IsZero(c) {
			continue
		}

		p.coeffs[k] = c
		copy(p.exps[k*n:(k+1)*n], p.exps[i*n:(i+1)*n])
		k++
	}

	p.SetLength(k)
}

// monomial returns the packed monomial of term i.
func (p *Poly[T]) monomial(i int) []uint64 {
	n := p.words()
	return p.exps[i*n : (i+1)*n]
}

// Term returns the coefficient and the exponent tuple of term i.
func (p *Poly[T]) Term(i int) (T, []uint64) {
	exps := make([]uint64, p.ctx.nvars)
	p.layout().Unpack(exps, p.monomial(i))

	return p.coeffs[i], exps
}

func (p *Poly[T]) LeadCoeff() T {
	if p.IsZero() {
		return p.ctx.Ring.Zero()
	}

	return p.coeffs[0]
}

// LeadMonomial returns the exponents of the leading term, or nil for zero.
func (p *Poly[T]) LeadMonomial() []uint64 {
	if p.IsZero() {
		return nil
	}

	_, exps := p.Term(0)

	return exps
}

// Degrees returns the largest exponent of every variable.
func (p *Poly[T]) Degrees() []uint64 {
	l := p.layout()
	degs := make([]uint64, p.ctx.nvars)
	exps := make([]uint64, p.ctx.nvars)

	for i := range p.coeffs {
		l.Unpack(exps, p.monomial(i))
		for v, e := range exps {
			degs[v] = max(degs[v], e)
		}
	}

	return degs
}

// TotalDegree returns the largest total degree of a term, or -1 for zero.
func (p *Poly[T]) TotalDegree() int64 {
	if p.IsZero() {
		return -1
	}

	l := p.layout()
	d := uint64(0)

	for i := range p.coeffs {
		d = max(d, l.Degree(p.monomial(i)))
	}

	return int64(d)
}

// Coeff returns the coefficient of x^exps.
func (p *Poly[T]) Coeff(exps ...uint64) (T, error) {
	l := p.layout()
	if len(exps) != l.NVars {
		return p.ctx.Ring.Zero(), ErrVariableCount
	}

	need, err := l.BitsNeeded(exps)
	if err != nil || need > p.bits {
		return p.ctx.Ring.Zero(), nil
	}

	m := make([]uint64, l.Words)
	l.Pack(m, exps)

	// terms are sorted decreasing
	i := sort.Search(len(p.coeffs), func(i int) bool {
		return !l.Greater(p.monomial(i), m)
	})

	if i < len(p.coeffs) && l.Equal(p.monomial(i), m) {
		return p.coeffs[i], nil
	}

	return p.ctx.Ring.Zero(), nil
}

// Copy returns a deep copy of p's term arrays. Coefficient values are
// shared, which is safe since rings never mutate them.
func (p *Poly[T]) Copy() *Poly[T] {
	q := &Poly[T]{ctx: p.ctx, bits: p.bits}
	q.coeffs = append([]T(nil), p.coeffs...)
	q.exps = append([]uint64(nil), p.exps...)

	return q
}

// Set makes p a copy of q.
func (p *Poly[T]) Set(q *Poly[T]) {
	if p == q {
		return
	}

	c := q.Copy()
	p.take(c)
}

// Swap exchanges the contents of p and q.
func (p *Poly[T]) Swap(q *Poly[T]) {
	*p, *q = *q, *p
}

// take moves the term arrays of q into p.
func (p *Poly[T]) take(q *Poly[T]) {
	p.ctx = q.ctx
	p.coeffs = q.coeffs
	p.exps = q.exps
	p.bits = q.bits
}

func (p *Poly[T]) zero() {
	p.coeffs = p.coeffs[:0]
	p.exps = p.exps[:0]
}

// repack moves p to width bits, which must be able to hold every term.
func (p *Poly[T]) repack(bits uint) {
	if bits == p.bits {
		return
	}

	p.exps = p.packedAt(p.ctx.layout(bits))
	p.bits = bits
}

// packedAt returns p's monomials packed by l, sharing storage when the
// widths already agree.
func (p *Poly[T]) packedAt(l *monomial.Layout) []uint64 {
	if l.Bits == p.bits {
		return p.exps
	}

	src := p.layout()
	out := make([]uint64, len(p.coeffs)*l.Words, cap(p.coeffs)*l.Words)
	scratch := make([]uint64, p.ctx.nvars)

	for i := range p.coeffs {
		l.Repack(out[i*l.Words:(i+1)*l.Words], src, p.monomial(i), scratch)
	}

	return out
}

// Equal reports whether p and q have the same terms.
func (p *Poly[T]) Equal(q *Poly[T]) bool {
	if p.ctx != q.ctx || len(p.coeffs) != len(q.coeffs) {
		return false
	}

	r := p.ctx.Ring
	bits := max(p.bits, q.bits)
	l := p.ctx.layout(bits)
	pe, qe := p.packedAt(l), q.packedAt(l)

	for i := range p.coeffs {
		if !r.Equal(p.coeffs[i], q.coeffs[i]) {
			return false
		}

		if !l.Equal(pe[i*l.Words:], qe[i*l.Words:]) {
			return false
		}
	}

	return true
}

// IsCanonical checks the container invariants: strictly decreasing
// monomials, no zero coefficients, no guard bits set.
func (p *Poly[T]) IsCanonical() bool {
	l := p.layout()

	for i := range p.coeffs {
		if p.ctx.Ring.IsZero(p.coeffs[i]) || l.Overflows(p.monomial(i)) {
			return false
		}

		if i > 0 && !l.Greater(p.monomial(i-1), p.monomial(i)) {
			return false
		}
	}

	return len(p.exps) == len(p.coeffs)*l.Words
}

func (p *Poly[T]) GoString() string {
	return fmt.Sprintf("Poly(%d terms, %d bits): %s", p.Len(), p.bits, p.String())
}

package mpoly

import (
	"errors"
	"fmt"

	"github.com/jonathanmweiss/go-mpoly/coeff"
	"github.com/jonathanmweiss/go-mpoly/internal/heap"
	"github.com/jonathanmweiss/go-mpoly/internal/metrics"
	"github.com/jonathanmweiss/go-mpoly/monomial"
)

var (
	errPackingOverflow = errors.New("monomial overflowed the packing width")
	errNotExact        = errors.New("division leaves a remainder")
)

// DivRem sets q and r such that a = q*b + r, where no term of r is divisible
// by the leading term of b.
func (ctx *Context[T]) DivRem(q, r, a, b *Poly[T]) error {
	return ctx.DivRemIdeal([]*Poly[T]{q}, r, a, []*Poly[T]{b})
}

// Div sets q to the quotient of a by b, discarding the remainder.
func (ctx *Context[T]) Div(q, a, b *Poly[T]) error {
	return ctx.DivRem(q, ctx.NewPoly(), a, b)
}

// DivRemIdeal reduces a by the ordered list bs, setting qs and r such that
// a = sum(qs[i]*bs[i]) + r. Each term is reduced by the first divisor whose
// leading monomial divides it; over a field no term of r is divisible by any
// leading monomial of bs. Over rings without general inverses a term whose
// coefficient is not divisible by the leading coefficient keeps the
// Euclidean residue and moves on to the next divisor.
//
// Outputs may alias a or any divisor, but must be distinct from each other.
func (ctx *Context[T]) DivRemIdeal(qs []*Poly[T], r, a *Poly[T], bs []*Poly[T]) error {
	if len(qs) != len(bs) || len(bs) == 0 {
		return fmt.Errorf("%d quotients for %d divisors: %w", len(qs), len(bs), ErrVariableCount)
	}

	outs := append(append(make([]*Poly[T], 0, len(qs)+1), qs...), r)
	if err := distinct(outs...); err != nil {
		return err
	}

	res, err := ctx.divide("divrem", a, bs, false)
	if err != nil {
		return err
	}

	for w, q := range qs {
		q.take(res.quotients[w])
	}

	r.take(res.remainder)

	return nil
}

// Divides reports whether b divides a exactly and, if so, sets q = a / b.
// q is left untouched otherwise. The division stops at the first remainder
// term.
func (ctx *Context[T]) Divides(q, a, b *Poly[T]) (bool, error) {
	res, err := ctx.divide("divides", a, []*Poly[T]{b}, true)
	if errors.Is(err, errNotExact) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	q.take(res.quotients[0])

	return true, nil
}

// DivRem returns the quotient and remainder of p by b.
func (p *Poly[T]) DivRem(b *Poly[T]) (*Poly[T], *Poly[T], error) {
	q, r := p.ctx.NewPoly(), p.ctx.NewPoly()
	if err := p.ctx.DivRem(q, r, p, b); err != nil {
		return nil, nil, err
	}

	return q, r, nil
}

func distinct[T any](ps ...*Poly[T]) error {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i] == ps[j] {
				return ErrOutputAliasing
			}
		}
	}

	return nil
}

type division[T any] struct {
	quotients []*Poly[T]
	remainder *Poly[T]
}

// divide runs the heap division at the operands' width and restarts one
// canonical width wider whenever an intermediate monomial overflows.
func (ctx *Context[T]) divide(op string, a *Poly[T], bs []*Poly[T], exact bool) (*division[T], error) {
	if err := ctx.owns(a); err != nil {
		return nil, err
	}

	bits := a.bits
	for _, b := range bs {
		if err := ctx.owns(b); err != nil {
			return nil, err
		}

		if b.IsZero() {
			return nil, ErrDivideByZero
		}

		bits = max(bits, b.bits)
	}

	for {
		d, err := newDivider(ctx, ctx.layout(bits), a, bs, exact)
		if err != nil {
			return nil, err
		}

		err = d.run()
		if errors.Is(err, errPackingOverflow) {
			next, ok := monomial.NextBits(bits)
			if !ok {
				return nil, ErrExponentOverflow
			}

			Logger().Debug().
				Str("op", op).
				Uint("from_bits", bits).
				Uint("to_bits", next).
				Int("terms", a.Len()).
				Msg("exponent overflow, retrying at a wider packing")
			metrics.Escalation(op)

			bits = next
			continue
		}

		if err != nil {
			return nil, err
		}

		metrics.Operation(op)
		metrics.HeapPeak(op, d.h.Peak())
		traceHeap(op, d.h.Peak())

		return &division[T]{quotients: d.q, remainder: d.r}, nil
	}
}

// divider holds the state of one heap division of a dividend by k divisors.
//
// Candidates live in a slab with one slot per divisor term: slot
// offset[p]+i carries the product bs[p][i] * q[p][j]. Slot 0 doubles as the
// dividend cursor (i == -1) since the leading term of a divisor never enters
// the heap. hind[p][i] follows the encoding of mulJohnson; s[p] counts how
// many rows of divisor p are waiting for the next quotient term of p.
type divider[T any] struct {
	ring coeff.Ring[T]
	l    *monomial.Layout
	n    int

	ac []T
	ae []uint64
	bc [][]T
	be [][]uint64

	lcInv  []T
	lcUnit []bool
	offset []int

	h     *heap.Heap
	ci    []int
	cj    []int
	cp    []int
	hind  [][]int
	s     []int
	store []int

	acc   coeff.Accumulator[T]
	exp   []uint64
	qexp  []uint64
	exact bool

	q []*Poly[T]
	r *Poly[T]
}

func newDivider[T any](ctx *Context[T], l *monomial.Layout, a *Poly[T], bs []*Poly[T], exact bool) (*divider[T], error) {
	k := len(bs)
	d := &divider[T]{
		ring:   ctx.Ring,
		l:      l,
		n:      l.Words,
		ac:     a.coeffs,
		ae:     a.packedAt(l),
		bc:     make([][]T, k),
		be:     make([][]uint64, k),
		lcInv:  make([]T, k),
		lcUnit: make([]bool, k),
		offset: make([]int, k),
		hind:   make([][]int, k),
		s:      make([]int, k),
		acc:    ctx.Ring.NewAccumulator(),
		exp:    make([]uint64, l.Words),
		qexp:   make([]uint64, l.Words),
		exact:  exact,
		q:      make([]*Poly[T], k),
		r:      &Poly[T]{ctx: ctx, bits: l.Bits},
	}

	slots := 0
	for w, b := range bs {
		d.bc[w] = b.coeffs
		d.be[w] = b.packedAt(l)
		d.offset[w] = slots
		d.s[w] = b.Len()
		d.q[w] = &Poly[T]{ctx: ctx, bits: l.Bits}

		d.hind[w] = make([]int, b.Len())
		for i := range d.hind[w] {
			d.hind[w][i] = 1
		}

		inv, err := ctx.Ring.Inv(b.coeffs[0])
		switch {
		case err == nil:
			d.lcInv[w], d.lcUnit[w] = inv, true
		case !errors.Is(err, coeff.ErrNotInvertible):
			return nil, err
		}

		slots += b.Len()
	}

	d.h = heap.New(l, slots)
	d.ci = make([]int, slots)
	d.cj = make([]int, slots)
	d.cp = make([]int, slots)
	d.store = make([]int, 0, 3*slots)

	return d, nil
}

func (d *divider[T]) run() error {
	if len(d.ac) == 0 {
		return nil
	}

	d.insert(0, -1, 0, -1, d.ae[0:d.n], nil)

	for !d.h.Empty() {
		copy(d.exp, d.h.Top())
		if d.l.Overflows(d.exp) {
			return errPackingOverflow
		}

		d.popChain()
		d.advance()

		if err := d.emit(); err != nil {
			return err
		}
	}

	return nil
}

// insert puts candidate x = (i, j, p) on the heap with monomial e1 + e2, or
// e1 when e2 is nil.
func (d *divider[T]) insert(x, i, j, p int, e1, e2 []uint64) {
	d.ci[x], d.cj[x], d.cp[x] = i, j, p

	if e2 == nil {
		copy(d.h.Scratch(), e1[:d.n])
	} else {
		d.l.Add(d.h.Scratch(), e1, e2)
	}

	d.h.Insert(int32(x))
}

// popChain takes every candidate on the current greatest monomial and
// accumulates dividend terms minus the products bs[p][i]*q[p][j].
func (d *divider[T]) popChain() {
	d.acc.Reset()

	for !d.h.Empty() && d.l.Equal(d.h.Top(), d.exp) {
		for x := d.h.Pop(); x != heap.End; x = d.h.Next(x) {
			i, j, p := d.ci[x], d.cj[x], d.cp[x]
			d.store = append(d.store, i, j, p)

			if i == -1 {
				d.acc.Add(d.ac[j])
				continue
			}

			d.hind[p][i] |= 1
			d.acc.SubMul(d.bc[p][i], d.q[p].coeffs[j])
		}
	}
}

// advance reinserts the successors of the popped candidates.
func (d *divider[T]) advance() {
	n := d.n

	for len(d.store) > 0 {
		top := len(d.store)
		i, j, p := d.store[top-3], d.store[top-2], d.store[top-1]
		d.store = d.store[:top-3]

		if i == -1 {
			// take next dividend term
			if j+1 < len(d.ac) {
				d.insert(0, -1, j+1, -1, d.ae[(j+1)*n:], nil)
			}

			continue
		}

		hind := d.hind[p]
		qe := d.q[p].exps

		// should we go right?
		if i+1 < len(hind) && hind[i+1] == 2*j+1 {
			hind[i+1] = 2*(j+1) + 0
			d.insert(d.offset[p]+i+1, i+1, j, p, d.be[p][(i+1)*n:], qe[j*n:])
		}

		// should we go up?
		if j+1 == d.q[p].Len() {
			d.s[p]++
		} else if hind[i]&1 == 1 && (i == 1 || hind[i-1] >= 2*(j+2)+1) {
			hind[i] = 2*(j+2) + 0
			d.insert(d.offset[p]+i, i, j+1, p, d.be[p][i*n:], qe[(j+1)*n:])
		}
	}
}

// emit tries the accumulated term against each leading monomial in order
// and sends what is left to the remainder.
func (d *divider[T]) emit() error {
	c := d.acc.Value()

	for w := 0; w < len(d.bc) && !d.ring.IsZero(c); w++ {
		if !d.l.Divides(d.qexp, d.exp, d.be[w][0:d.n]) {
			continue
		}

		var qc T
		if d.lcUnit[w] {
			qc, c = d.ring.Mul(c, d.lcInv[w]), d.ring.Zero()
		} else {
			var err error
			if qc, c, err = d.ring.DivRem(c, d.bc[w][0]); err != nil {
				return err
			}
		}

		if d.ring.IsZero(qc) {
			continue
		}

		q := d.q[w]
		q.pushPacked(qc, d.qexp)

		if d.s[w] > 1 {
			j := q.Len() - 1
			d.hind[w][1] = 2*(j+1) + 0
			d.insert(d.offset[w]+1, 1, j, w, d.be[w][1*d.n:], q.exps[j*d.n:])
		}

		d.s[w] = 1
	}

	if d.ring.IsZero(c) {
		return nil
	}

	if d.exact {
		return errNotExact
	}

	d.r.pushPacked(c, d.exp)

	return nil
}

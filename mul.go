package mpoly

import (
	"github.com/jonathanmweiss/go-mpoly/coeff"
	"github.com/jonathanmweiss/go-mpoly/internal/heap"
	"github.com/jonathanmweiss/go-mpoly/internal/metrics"
	"github.com/jonathanmweiss/go-mpoly/monomial"
)

// Mul sets out = a * b.
func (ctx *Context[T]) Mul(out, a, b *Poly[T]) error {
	if err := ctx.owns(out, a, b); err != nil {
		return err
	}

	if a.IsZero() || b.IsZero() {
		out.zero()
		return nil
	}

	bits, err := mulBits(a, b)
	if err != nil {
		return err
	}

	l := ctx.layout(bits)
	ae, be := a.packedAt(l), b.packedAt(l)
	ac, bc := a.coeffs, b.coeffs

	// the heap holds one candidate per term of the first operand
	if len(ac) > len(bc) {
		ac, bc = bc, ac
		ae, be = be, ae
	}

	res := &Poly[T]{ctx: ctx, bits: bits}
	peak := mulJohnson(ctx.Ring, l, res, ac, ae, bc, be)

	out.take(res)

	metrics.Operation("mul")
	metrics.HeapPeak("mul", peak)
	traceHeap("mul", peak)

	return nil
}

// Mul returns p * q.
func (p *Poly[T]) Mul(q *Poly[T]) (*Poly[T], error) {
	out := p.ctx.NewPoly()
	if err := p.ctx.Mul(out, p, q); err != nil {
		return nil, err
	}

	return out, nil
}

// mulBits picks a width no product monomial can overflow: the field-wise
// sum of both operands' maxima.
func mulBits[T any](a, b *Poly[T]) (uint, error) {
	la, lb := a.layout(), b.layout()
	ma := make([]uint64, la.Fields())
	mb := make([]uint64, lb.Fields())

	for i := range a.coeffs {
		la.MaxFields(ma, a.monomial(i))
	}

	for i := range b.coeffs {
		lb.MaxFields(mb, b.monomial(i))
	}

	m := uint64(0)
	for f := range ma {
		// both maxima are below 2^63, so the sum cannot wrap
		m = max(m, ma[f]+mb[f])
	}

	bits, ok := monomial.BitsFor(m)
	if !ok {
		return 0, ErrExponentOverflow
	}

	return max(bits, a.bits, b.bits), nil
}

// mulJohnson merges the rows A[i]*B, i = 0..len(ac)-1, with a heap holding
// at most one candidate (i, j) per row.
//
// hind[i] encodes the state of row i as 2*(j+1) + popped: (i, j) is the
// last candidate of row i that was inserted, and popped is set once it left
// the heap. (i, j) may enter only after (i, j-1) and (i-1, j) were popped,
// so each product pair is produced exactly once and in order.
func mulJohnson[T any](r coeff.Ring[T], l *monomial.Layout, res *Poly[T], ac []T, ae []uint64, bc []T, be []uint64) int {
	n := l.Words
	rows, cols := len(ac), len(bc)

	h := heap.New(l, rows)
	hind := make([]int, rows)
	col := make([]int, rows)
	store := make([]int, 0, 2*rows)
	exp := make([]uint64, n)
	acc := r.NewAccumulator()

	for i := range hind {
		hind[i] = 1
	}

	res.FitLength(rows + cols)

	col[0] = 0
	hind[0] = 2*1 + 0
	l.Add(h.Scratch(), ae[0:n], be[0:n])
	h.Insert(0)

	for !h.Empty() {
		copy(exp, h.Top())
		acc.Reset()

		for !h.Empty() && l.Equal(h.Top(), exp) {
			for x := h.Pop(); x != heap.End; x = h.Next(x) {
				i, j := int(x), col[x]
				hind[i] |= 1
				store = append(store, i, j)
				acc.AddMul(ac[i], bc[j])
			}
		}

		for len(store) > 0 {
			j, i := store[len(store)-1], store[len(store)-2]
			store = store[:len(store)-2]

			// should we go right?
			if i+1 < rows && hind[i+1] == 2*j+1 {
				col[i+1] = j
				hind[i+1] = 2*(j+1) + 0
				l.Add(h.Scratch(), ae[(i+1)*n:], be[j*n:])
				h.Insert(int32(i + 1))
			}

			// should we go up?
			if j+1 < cols && hind[i]&1 == 1 && (i == 0 || hind[i-1] >= 2*(j+2)+1) {
				col[i] = j + 1
				hind[i] = 2*(j+2) + 0
				l.Add(h.Scratch(), ae[i*n:], be[(j+1)*n:])
				h.Insert(int32(i))
			}
		}

		if c := acc.Value(); !r.IsZero(c) {
			res.pushPacked(c, exp)
		}
	}

	return h.Peak()
}

// Pow sets out = a^e by repeated squaring.
func (ctx *Context[T]) Pow(out, a *Poly[T], e uint64) error {
	if err := ctx.owns(out, a); err != nil {
		return err
	}

	result := ctx.Constant(ctx.Ring.One())
	base := a.Copy()

	for e > 0 {
		if e&1 == 1 {
			if err := ctx.Mul(result, result, base); err != nil {
				return err
			}
		}

		e >>= 1
		if e > 0 {
			if err := ctx.Mul(base, base, base); err != nil {
				return err
			}
		}
	}

	out.take(result)

	return nil
}

package mpoly

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/jonathanmweiss/go-mpoly/internal/heap"
	"github.com/jonathanmweiss/go-mpoly/internal/metrics"
)

// substGroup is the run of terms sharing one exponent e of the substituted
// variable. Its terms, with x_v^e removed, are still sorted, so each group
// is a single merge candidate.
type substGroup[T any] struct {
	terms []int
	pos   int
	scale T
	shift []uint64
}

// EvaluateOne sets out = a(x_v = val), keeping the context's variable count;
// x_v no longer appears in out.
func (ctx *Context[T]) EvaluateOne(out, a *Poly[T], v int, val T) error {
	if err := ctx.owns(out, a); err != nil {
		return err
	}

	if v < 0 || v >= ctx.nvars {
		return ErrVariableIndex
	}

	r := ctx.Ring
	l := a.layout()
	n := l.Words

	byExp := treemap.NewWith(utils.UInt64Comparator)
	for i := range a.coeffs {
		e := l.Exponent(a.monomial(i), v)

		terms, found := byExp.Get(e)
		if !found {
			terms = []int(nil)
		}

		byExp.Put(e, append(terms.([]int), i))
	}

	groups := make([]*substGroup[T], 0, byExp.Size())
	exps := make([]uint64, ctx.nvars)
	pw, prev := r.One(), uint64(0)

	for it := byExp.Iterator(); it.Next(); {
		e := it.Key().(uint64)
		pw = r.Mul(pw, r.Pow(val, e-prev))
		prev = e

		if r.IsZero(pw) {
			// val is zero or nilpotent: every higher power vanishes too
			break
		}

		clear(exps)
		exps[v] = e
		shift := make([]uint64, n)
		l.Pack(shift, exps)

		groups = append(groups, &substGroup[T]{
			terms: it.Value().([]int),
			scale: pw,
			shift: shift,
		})
	}

	res := &Poly[T]{ctx: ctx, bits: a.bits}

	if len(groups) > 0 {
		peak := substituteMerge(ctx, res, a, groups)
		metrics.HeapPeak("evaluate_one", peak)
		traceHeap("evaluate_one", peak)
	}

	out.take(res)
	metrics.Operation("evaluate_one")

	return nil
}

func substituteMerge[T any](ctx *Context[T], res, a *Poly[T], groups []*substGroup[T]) int {
	r := ctx.Ring
	l := a.layout()
	n := l.Words

	h := heap.New(l, len(groups))
	acc := r.NewAccumulator()
	exp := make([]uint64, n)
	store := make([]int32, 0, len(groups))

	insert := func(g int32) {
		grp := groups[g]
		l.Sub(h.Scratch(), a.monomial(grp.terms[grp.pos]), grp.shift)
		h.Insert(g)
	}

	for g := range groups {
		insert(int32(g))
	}

	res.FitLength(a.Len())

	for !h.Empty() {
		copy(exp, h.Top())
		acc.Reset()

		for !h.Empty() && l.Equal(h.Top(), exp) {
			for x := h.Pop(); x != heap.End; x = h.Next(x) {
				grp := groups[x]
				acc.AddMul(a.coeffs[grp.terms[grp.pos]], grp.scale)
				store = append(store, x)
			}
		}

		for _, g := range store {
			grp := groups[g]
			grp.pos++
			if grp.pos < len(grp.terms) {
				insert(g)
			}
		}

		store = store[:0]

		if c := acc.Value(); !r.IsZero(c) {
			res.pushPacked(c, exp)
		}
	}

	return h.Peak()
}

// Evaluate returns a at the point vals.
func (ctx *Context[T]) Evaluate(a *Poly[T], vals []T) (T, error) {
	r := ctx.Ring
	if len(vals) != ctx.nvars {
		return r.Zero(), ErrVariableCount
	}

	acc := r.NewAccumulator()
	for i := range a.coeffs {
		c, exps := a.Term(i)

		m := r.One()
		for v, e := range exps {
			if e != 0 {
				m = r.Mul(m, r.Pow(vals[v], e))
			}
		}

		acc.AddMul(c, m)
	}

	return acc.Value(), nil
}

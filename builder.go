package mpoly

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Builder collects terms in any order. Like terms are combined as they
// arrive; Build sorts and packs them once.
type Builder[T any] struct {
	ctx *Context[T]

	coeffs []T
	exps   [][]uint64
	index  map[uint64][]int
	buf    []byte
	err    error
}

func (ctx *Context[T]) NewBuilder() *Builder[T] {
	return &Builder[T]{ctx: ctx, index: make(map[uint64][]int)}
}

// Add accumulates c*x^exps. The first error sticks and is reported by Build.
func (b *Builder[T]) Add(c T, exps ...uint64) *Builder[T] {
	if b.err != nil {
		return b
	}

	if len(exps) != b.ctx.nvars {
		b.err = ErrVariableCount
		return b
	}

	c = b.ctx.Ring.Reduce(c)

	b.buf = b.buf[:0]
	for _, e := range exps {
		b.buf = binary.LittleEndian.AppendUint64(b.buf, e)
	}

	h := xxhash.Sum64(b.buf)
	for _, k := range b.index[h] {
		if slices.Equal(b.exps[k], exps) {
			b.coeffs[k] = b.ctx.Ring.Add(b.coeffs[k], c)
			return b
		}
	}

	b.index[h] = append(b.index[h], len(b.coeffs))
	b.coeffs = append(b.coeffs, c)
	b.exps = append(b.exps, slices.Clone(exps))

	return b
}

// Build returns the canonical polynomial holding the collected terms.
func (b *Builder[T]) Build() (*Poly[T], error) {
	if b.err != nil {
		return nil, b.err
	}

	ctx := b.ctx
	bits := ctx.initialBits
	l := ctx.layout(bits)

	for k, exps := range b.exps {
		if ctx.Ring.IsZero(b.coeffs[k]) {
			continue
		}

		need, err := l.BitsNeeded(exps)
		if err != nil {
			return nil, err
		}

		if need > bits {
			bits = need
			l = ctx.layout(bits)
		}
	}

	n := l.Words
	packed := make([]uint64, len(b.exps)*n)
	order := make([]int, 0, len(b.exps))

	for k, exps := range b.exps {
		if ctx.Ring.IsZero(b.coeffs[k]) {
			continue
		}

		l.Pack(packed[k*n:(k+1)*n], exps)
		order = append(order, k)
	}

	slices.SortFunc(order, func(x, y int) int {
		return l.Compare(packed[y*n:], packed[x*n:])
	})

	p := &Poly[T]{ctx: ctx, bits: bits}
	p.FitLength(len(order))

	for _, k := range order {
		p.pushPacked(b.coeffs[k], packed[k*n:])
	}

	return p, nil
}

// FromTerms builds a polynomial from parallel coefficient and exponent
// lists in any order.
func (ctx *Context[T]) FromTerms(coeffs []T, exps [][]uint64) (*Poly[T], error) {
	if len(coeffs) != len(exps) {
		return nil, ErrVariableCount
	}

	b := ctx.NewBuilder()
	for i, c := range coeffs {
		b.Add(c, exps[i]...)
	}

	return b.Build()
}

package monomial

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var orderings = []Ordering{Lex, DegLex, DegRevLex}

const testVars = 5

func TestPackRoundTrip_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, ord := range orderings {
		for _, b := range canonicalBits {
			l := NewLayout(testVars, ord, b)
			bound := MaxExponent(b) / testVars

			properties.Property(fmt.Sprintf("%v/%d round trips", ord, b), prop.ForAll(
				func(exps []uint64) bool {
					packed := make([]uint64, l.Words)
					l.Pack(packed, exps)

					got := make([]uint64, testVars)
					l.Unpack(got, packed)

					for i := range exps {
						if got[i] != exps[i] || l.Exponent(packed, i) != exps[i] {
							return false
						}
					}

					return !l.Overflows(packed)
				},
				gen.SliceOfN(testVars, gen.UInt64Range(0, bound)),
			))
		}
	}

	properties.TestingRun(t)
}

func TestOrderFidelity_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	for _, ord := range orderings {
		for _, b := range []uint{8, 16, 64} {
			l := NewLayout(testVars, ord, b)

			properties.Property(fmt.Sprintf("%v/%d agrees with exponent order", ord, b), prop.ForAll(
				func(x, y []uint64) bool {
					px := make([]uint64, l.Words)
					py := make([]uint64, l.Words)
					l.Pack(px, x)
					l.Pack(py, y)

					want := ord.Compare(x, y)

					return l.Compare(px, py) == want &&
						l.Greater(px, py) == (want > 0) &&
						l.Equal(px, py) == (want == 0)
				},
				// a small range makes ties and near ties frequent
				gen.SliceOfN(testVars, gen.UInt64Range(0, 4)),
				gen.SliceOfN(testVars, gen.UInt64Range(0, 4)),
			))
		}
	}

	properties.TestingRun(t)
}

func TestAddSubDivides_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	for _, ord := range orderings {
		l := NewLayout(testVars, ord, 16)

		properties.Property(fmt.Sprintf("%v divisibility matches exponents", ord), prop.ForAll(
			func(x, y []uint64) bool {
				px := make([]uint64, l.Words)
				py := make([]uint64, l.Words)
				sum := make([]uint64, l.Words)
				q := make([]uint64, l.Words)
				l.Pack(px, x)
				l.Pack(py, y)

				l.Add(sum, px, py)
				if l.Overflows(sum) || !l.Divides(q, sum, py) || !l.Equal(q, px) {
					return false
				}

				divides := true
				for i := range x {
					if y[i] > x[i] {
						divides = false
					}
				}

				ok := l.Divides(q, px, py)
				if ok != divides {
					return false
				}

				if ok {
					back := make([]uint64, l.Words)
					l.Add(back, q, py)
					return l.Equal(back, px)
				}

				return true
			},
			gen.SliceOfN(testVars, gen.UInt64Range(0, 1000)),
			gen.SliceOfN(testVars, gen.UInt64Range(0, 1000)),
		))
	}

	properties.TestingRun(t)
}

func TestLayoutShape(t *testing.T) {
	a := assert.New(t)

	l := NewLayout(3, Lex, 8)
	a.Equal(1, l.Words)
	a.Equal(3, l.Fields())

	l = NewLayout(8, DegRevLex, 8)
	a.Equal(2, l.Words) // 9 fields, 8 per word

	l = NewLayout(2, DegLex, 64)
	a.Equal(3, l.Words)
	a.Equal(uint(64), l.Bits)

	l = NewLayout(2, Lex, 9)
	a.Equal(uint(16), l.Bits)
}

func TestOverflowDetection(t *testing.T) {
	a := assert.New(t)

	l := NewLayout(2, Lex, 8)
	x := make([]uint64, l.Words)
	y := make([]uint64, l.Words)
	z := make([]uint64, l.Words)

	l.Pack(x, []uint64{100, 3})
	l.Pack(y, []uint64{27, 1})
	l.Add(z, x, y)
	a.False(l.Overflows(z)) // 127 is the largest 8-bit field

	l.Pack(y, []uint64{28, 1})
	l.Add(z, x, y)
	a.True(l.Overflows(z))

	// the degree field overflows before any variable does
	d := NewLayout(2, DegLex, 8)
	x = make([]uint64, d.Words)
	z = make([]uint64, d.Words)
	d.Pack(x, []uint64{40, 40})
	d.Add(z, x, x)
	a.True(d.Overflows(z))
}

func TestWidths(t *testing.T) {
	a := assert.New(t)

	b, ok := BitsFor(0)
	a.True(ok)
	a.Equal(uint(8), b)

	b, _ = BitsFor(127)
	a.Equal(uint(8), b)

	b, _ = BitsFor(128)
	a.Equal(uint(16), b)

	b, _ = BitsFor(1<<63 - 1)
	a.Equal(uint(64), b)

	_, ok = BitsFor(1 << 63)
	a.False(ok)

	b, ok = NextBits(32)
	a.True(ok)
	a.Equal(uint(64), b)

	_, ok = NextBits(64)
	a.False(ok)

	l := NewLayout(3, DegLex, 8)
	need, err := l.BitsNeeded([]uint64{50, 50, 50})
	a.NoError(err)
	a.Equal(uint(16), need) // degree 150 does not fit 7 bits

	_, err = l.BitsNeeded([]uint64{1 << 62, 1 << 62, 0})
	a.ErrorIs(err, ErrWidthExceeded)
}

func TestRepack(t *testing.T) {
	a := assert.New(t)

	for _, ord := range orderings {
		narrow := NewLayout(4, ord, 8)
		wide := narrow.WithBits(32)

		exps := []uint64{1, 0, 7, 3}
		m := make([]uint64, narrow.Words)
		narrow.Pack(m, exps)

		w := make([]uint64, wide.Words)
		wide.Repack(w, narrow, m, make([]uint64, 4))

		got := make([]uint64, 4)
		wide.Unpack(got, w)
		a.Equal(exps, got)
		a.Equal(narrow.Degree(m), wide.Degree(w))
	}
}

package mpoly

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/jonathanmweiss/go-mpoly/coeff"
	"github.com/jonathanmweiss/go-mpoly/monomial"
)

func TestBuilder(t *testing.T) {
	a := assert.New(t)
	ctx := zzContext(t, 2, monomial.DegLex, "x", "y")

	p, err := ctx.NewBuilder().
		Add(big.NewInt(2), 0, 1).
		Add(big.NewInt(5), 0, 0).
		Add(big.NewInt(1), 3, 0).
		Add(big.NewInt(-2), 0, 1).
		Add(big.NewInt(4), 1, 2).
		Build()
	a.NoError(err)
	a.True(p.IsCanonical())
	a.Equal("x^3 + 4*x*y^2 + 5", p.String())

	_, err = ctx.NewBuilder().Add(big.NewInt(1), 1).Build()
	a.ErrorIs(err, ErrVariableCount)

	t.Run("wide exponents pick the width", func(t *testing.T) {
		p, err := ctx.NewBuilder().Add(big.NewInt(1), 300, 0).Add(big.NewInt(1), 0, 0).Build()
		a.NoError(err)
		a.Equal(uint(16), p.Bits())
		a.Equal([]uint64{300, 0}, p.LeadMonomial())
	})

	t.Run("from terms", func(t *testing.T) {
		p, err := ctx.FromTerms(
			[]*big.Int{big.NewInt(1), big.NewInt(1)},
			[][]uint64{{0, 1}, {1, 0}},
		)
		a.NoError(err)
		a.Equal("x + y", p.String())

		_, err = ctx.FromTerms([]*big.Int{big.NewInt(1)}, nil)
		a.ErrorIs(err, ErrVariableCount)
	})
}

func TestAccessors(t *testing.T) {
	a := assert.New(t)
	ctx := zzContext(t, 3, monomial.Lex, "x", "y", "z")

	p := mk(t, ctx,
		tm{7, []uint64{2, 0, 1}},
		tm{-3, []uint64{1, 4, 0}},
		tm{1, []uint64{0, 0, 0}},
	)

	a.Equal(3, p.Len())
	a.Equal("7", p.LeadCoeff().String())
	a.Equal([]uint64{2, 0, 1}, p.LeadMonomial())
	a.Equal([]uint64{2, 4, 1}, p.Degrees())
	a.Equal(int64(5), p.TotalDegree())

	c, err := p.Coeff(1, 4, 0)
	a.NoError(err)
	a.Equal("-3", c.String())

	c, err = p.Coeff(1, 1, 1)
	a.NoError(err)
	a.Equal("0", c.String())

	c, err = p.Coeff(1000, 0, 0)
	a.NoError(err)
	a.Equal("0", c.String())

	z := ctx.NewPoly()
	a.Equal(int64(-1), z.TotalDegree())
	a.Nil(z.LeadMonomial())
	a.Equal("0", z.String())
	a.Equal("0", z.LeadCoeff().String())

	cp := p.Copy()
	a.True(cp.Equal(p))
	cp.SetLength(1)
	a.Equal(3, p.Len())
	a.False(cp.Equal(p))

	cp.Swap(z)
	a.True(cp.IsZero())
	a.Equal(1, z.Len())

	cp.Set(p)
	a.True(cp.Equal(p))
	a.Contains(p.GoString(), "3 terms")
}

func TestPushTermRepacks(t *testing.T) {
	a := assert.New(t)
	ctx := zzContext(t, 2, monomial.Lex, "x", "y")

	p := ctx.NewPoly()
	a.NoError(p.PushTerm(big.NewInt(1), 0, 200))
	a.Equal(uint(16), p.Bits())

	a.NoError(p.PushTerm(big.NewInt(0), 0, 100))
	a.NoError(p.PushTerm(big.NewInt(2), 0, 1))
	a.Equal(2, p.Len())
	a.True(p.IsCanonical())

	// a narrower operand is repacked on the fly
	q := mk(t, ctx, tm{1, []uint64{0, 1}})
	a.Equal(uint(8), q.Bits())

	s := ctx.NewPoly()
	a.NoError(ctx.Add(s, p, q))
	a.Equal("y^200 + 3*y", s.String())
}

func TestAddSub(t *testing.T) {
	a := assert.New(t)
	ctx := zzContext(t, 2, monomial.DegRevLex, "x", "y")

	A := mk(t, ctx, tm{1, []uint64{2, 0}}, tm{3, []uint64{1, 1}}, tm{1, []uint64{0, 0}})
	B := mk(t, ctx, tm{-3, []uint64{1, 1}}, tm{1, []uint64{0, 2}})

	s, err := A.Add(B)
	a.NoError(err)
	a.Equal("x^2 + y^2 + 1", s.String())

	d, err := s.Sub(B)
	a.NoError(err)
	a.True(d.Equal(A))

	z := ctx.NewPoly()
	a.NoError(ctx.Sub(z, A, A))
	a.True(z.IsZero())

	n := ctx.NewPoly()
	a.NoError(ctx.Neg(n, B))
	a.Equal("3*x*y - y^2", n.String())

	a.NoError(ctx.Scale(n, A, big.NewInt(0)))
	a.True(n.IsZero())

	// output aliasing an input
	a.NoError(ctx.Add(A, A, B))
	a.True(A.Equal(s))
}

func TestEvaluateOne(t *testing.T) {
	a := assert.New(t)
	ctx := zzContext(t, 2, monomial.Lex, "x", "y")

	f := mk(t, ctx,
		tm{1, []uint64{2, 1}},
		tm{1, []uint64{1, 1}},
		tm{1, []uint64{1, 0}},
		tm{3, []uint64{0, 0}},
	)

	tests := []struct {
		name string
		v    int
		val  int64
		want string
	}{
		{"y=2", 1, 2, "2*x^2 + 3*x + 3"},
		{"y=-1 cancels", 1, -1, "-x^2 + 3"},
		{"y=0", 1, 0, "x + 3"},
		{"x=0", 0, 0, "3"},
		{"x=1 merges groups", 0, 1, "2*y + 4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := ctx.NewPoly()
			a.NoError(ctx.EvaluateOne(out, f, tc.v, big.NewInt(tc.val)))
			a.True(out.IsCanonical())
			a.Equal(tc.want, out.String())
		})
	}

	a.ErrorIs(ctx.EvaluateOne(ctx.NewPoly(), f, 2, big.NewInt(1)), ErrVariableIndex)

	v, err := ctx.Evaluate(f, []*big.Int{big.NewInt(2), big.NewInt(3)})
	a.NoError(err)
	a.Equal("23", v.String()) // 12 + 6 + 2 + 3

	_, err = ctx.Evaluate(f, []*big.Int{big.NewInt(2)})
	a.ErrorIs(err, ErrVariableCount)
}

func TestEvaluateOneAgreesWithEvaluate_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	for _, ord := range orderings {
		ctx := fpContext(t, 3, ord)

		properties.Property(ord.String()+" substitution then evaluation", prop.ForAll(
			func(seed int64, v int, x0, x1, x2 uint64) bool {
				rnd := rand.New(rand.NewSource(seed))
				f := randPoly(ctx, rnd, 1+rnd.Intn(30), 9)
				pt := []uint64{x0, x1, x2}

				g := ctx.NewPoly()
				if err := ctx.EvaluateOne(g, f, v, pt[v]); err != nil || !g.IsCanonical() {
					return false
				}

				if g.Degrees()[v] != 0 {
					return false
				}

				want, _ := ctx.Evaluate(f, pt)
				got, _ := ctx.Evaluate(g, pt)

				return want == got
			},
			gen.Int64(),
			gen.IntRange(0, 2),
			gen.UInt64Range(0, testPrime-1),
			gen.UInt64Range(0, testPrime-1),
			gen.UInt64Range(0, 3),
		))
	}

	properties.TestingRun(t)
}

func TestMulEvaluates_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	for _, ord := range orderings {
		ctx := fpContext(t, 3, ord)
		r := ctx.Ring

		properties.Property(ord.String()+" product evaluates to the product of values", prop.ForAll(
			func(seed int64) bool {
				rnd := rand.New(rand.NewSource(seed))
				A := randPoly(ctx, rnd, 1+rnd.Intn(20), 40)
				B := randPoly(ctx, rnd, 1+rnd.Intn(20), 40)
				pt := []uint64{uint64(rnd.Int63n(testPrime)), uint64(rnd.Int63n(testPrime)), uint64(rnd.Int63n(testPrime))}

				p := ctx.NewPoly()
				if err := ctx.Mul(p, A, B); err != nil || !p.IsCanonical() {
					return false
				}

				va, _ := ctx.Evaluate(A, pt)
				vb, _ := ctx.Evaluate(B, pt)
				vp, _ := ctx.Evaluate(p, pt)

				return r.Equal(vp, r.Mul(va, vb))
			},
			gen.Int64(),
		))
	}

	properties.TestingRun(t)
}

func TestExactDivisionIdempotence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	for _, ord := range orderings {
		ctx := fpContext(t, 2, ord)

		properties.Property(ord.String()+" (g*h)/h = g", prop.ForAll(
			func(seed int64) bool {
				rnd := rand.New(rand.NewSource(seed))
				g := nonZero(ctx, randPoly(ctx, rnd, 1+rnd.Intn(15), 60))
				h := nonZero(ctx, randPoly(ctx, rnd, 1+rnd.Intn(15), 60))

				f := ctx.NewPoly()
				if ctx.Mul(f, g, h) != nil {
					return false
				}

				q, r := ctx.NewPoly(), ctx.NewPoly()
				if ctx.DivRem(q, r, f, h) != nil {
					return false
				}

				return q.Equal(g) && r.IsZero()
			},
			gen.Int64(),
		))
	}

	properties.TestingRun(t)
}

func FuzzMulDivides(f *testing.F) {
	f.Add(int64(1), uint8(3), uint8(3))
	f.Add(int64(42), uint8(20), uint8(1))
	f.Add(int64(-7), uint8(1), uint8(30))

	ctx, err := NewContext[*big.Int](coeff.NewIntegers(), 3, monomial.DegRevLex)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, seed int64, na, nb uint8) {
		rnd := rand.New(rand.NewSource(seed))
		A := nonZero(ctx, randPoly(ctx, rnd, int(na%40)+1, 12))
		B := nonZero(ctx, randPoly(ctx, rnd, int(nb%40)+1, 12))

		p := ctx.NewPoly()
		if err := ctx.Mul(p, A, B); err != nil {
			t.Fatal(err)
		}

		q := ctx.NewPoly()
		ok, err := ctx.Divides(q, p, B)
		if err != nil || !ok {
			t.Fatalf("%v does not divide %v: %v", B, p, err)
		}

		if !q.Equal(A) {
			t.Fatalf("quotient %v, want %v", q, A)
		}
	})
}

func BenchmarkEvaluateOne(b *testing.B) {
	ctx := fpContext(b, 3, monomial.DegLex)
	f := randPoly(ctx, rand.New(rand.NewSource(1)), 2000, 20)

	out := ctx.NewPoly()
	for b.Loop() {
		_ = ctx.EvaluateOne(out, f, 1, 12345)
	}
}

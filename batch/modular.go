package batch

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/jonathanmweiss/go-mpoly"
	"github.com/jonathanmweiss/go-mpoly/coeff"
)

// firstPrimeBound is where the descending prime search starts. Primes below
// it stay under the 2^63 modulus limit of coeff.Nmod.
const firstPrimeBound = 1 << 62

var errOutOfPrimes = errors.New("ran out of word-size primes")

// MulModular multiplies two integer polynomials through word-size prime
// images: the images are multiplied concurrently over coeff.PrimeField and
// the integer coefficients are recovered by Garner's algorithm in the
// symmetric range.
func MulModular(ctx context.Context, cfg mpoly.Config, zc *mpoly.Context[*big.Int], a, b *mpoly.Poly[*big.Int]) (*mpoly.Poly[*big.Int], error) {
	if a.Context() != zc || b.Context() != zc {
		return nil, mpoly.ErrContextMismatch
	}

	res := zc.NewPoly()
	if a.IsZero() || b.IsZero() {
		return res, nil
	}

	// every product coefficient is a sum of at most min(len) terms
	bound := new(big.Int).Mul(maxAbs(a), maxAbs(b))
	bound.Mul(bound, big.NewInt(int64(min(a.Len(), b.Len()))))
	bound.Lsh(bound, 1)

	primes, err := choosePrimes(bound)
	if err != nil {
		return nil, err
	}

	mpoly.Logger().Debug().
		Int("primes", len(primes)).
		Int("bound_bits", bound.BitLen()).
		Msg("multi-modular product")

	images := make([]*mpoly.Poly[uint64], len(primes))
	g, gctx, err := newGroup(ctx, cfg)
	if err != nil {
		return nil, err
	}

	for k, p := range primes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			img, err := mulImage(zc, p, a, b)
			if err != nil {
				return fmt.Errorf("image mod %d: %w", p, err)
			}

			images[k] = img

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := reconstruct(zc, res, images, primes); err != nil {
		return nil, err
	}

	return res, nil
}

func maxAbs(p *mpoly.Poly[*big.Int]) *big.Int {
	m := new(big.Int)
	for i := range p.Len() {
		c, _ := p.Term(i)
		if c.CmpAbs(m) > 0 {
			m.Abs(c)
		}
	}

	return m
}

// choosePrimes walks down from firstPrimeBound until the product of the
// chosen primes exceeds bound.
func choosePrimes(bound *big.Int) ([]*coeff.PrimeField, error) {
	var fields []*coeff.PrimeField

	prod := big.NewInt(1)
	next := uint64(firstPrimeBound)

	for prod.Cmp(bound) <= 0 {
		p, ok := coeff.PrevPrime(next)
		if !ok {
			return nil, errOutOfPrimes
		}

		f, err := coeff.NewPrimeField(p)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
		prod.Mul(prod, new(big.Int).SetUint64(p))
		next = p
	}

	return fields, nil
}

func mulImage(zc *mpoly.Context[*big.Int], f *coeff.PrimeField, a, b *mpoly.Poly[*big.Int]) (*mpoly.Poly[uint64], error) {
	pc, err := mpoly.NewContext[uint64](f, zc.NVars(), zc.Ordering(),
		mpoly.WithVariableNames(zc.VariableNames()...),
		mpoly.WithInitialBits(max(a.Bits(), b.Bits())),
	)
	if err != nil {
		return nil, err
	}

	ai, err := reduce(pc, f, a)
	if err != nil {
		return nil, err
	}

	bi, err := reduce(pc, f, b)
	if err != nil {
		return nil, err
	}

	out := pc.NewPoly()
	if err := pc.Mul(out, ai, bi); err != nil {
		return nil, err
	}

	return out, nil
}

// reduce maps p to its image modulo the field's prime. Terms keep their
// order, and PushTerm drops the ones that vanish.
func reduce(pc *mpoly.Context[uint64], f *coeff.PrimeField, p *mpoly.Poly[*big.Int]) (*mpoly.Poly[uint64], error) {
	mod := new(big.Int).SetUint64(f.Prime())
	r := new(big.Int)

	out := pc.NewPoly()
	out.FitLength(p.Len())

	for i := range p.Len() {
		c, exps := p.Term(i)
		if err := out.PushTerm(r.Mod(c, mod).Uint64(), exps...); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// reconstruct merges the images, which share one monomial order, and lifts
// each coefficient from its residues.
func reconstruct(zc *mpoly.Context[*big.Int], res *mpoly.Poly[*big.Int], images []*mpoly.Poly[uint64], fields []*coeff.PrimeField) error {
	ord := zc.Ordering()
	k := len(images)

	moduli := make([]*big.Int, k)
	modulus := big.NewInt(1)
	for i, f := range fields {
		moduli[i] = new(big.Int).SetUint64(f.Prime())
		modulus.Mul(modulus, moduli[i])
	}

	half := new(big.Int).Rsh(modulus, 1)

	pos := make([]int, k)
	heads := make([][]uint64, k)
	residues := make([]*big.Int, k)

	load := func(i int) {
		heads[i] = nil
		if pos[i] < images[i].Len() {
			_, heads[i] = images[i].Term(pos[i])
		}
	}

	for i := range images {
		load(i)
		residues[i] = new(big.Int)
	}

	for {
		var top []uint64
		for _, h := range heads {
			if h != nil && (top == nil || ord.Compare(h, top) > 0) {
				top = h
			}
		}

		if top == nil {
			return nil
		}

		for i, h := range heads {
			residues[i].SetUint64(0)
			if h != nil && ord.Compare(h, top) == 0 {
				c, _ := images[i].Term(pos[i])
				residues[i].SetUint64(c)
				pos[i]++
				load(i)
			}
		}

		c := recompose(residues, moduli)
		if c.Cmp(half) > 0 {
			c.Sub(c, modulus)
		}

		if err := res.PushTerm(c, top...); err != nil {
			return err
		}
	}
}

// recompose is Garner's mixed-radix reconstruction of x from x mod moduli[i].
func recompose(residues, moduli []*big.Int) *big.Int {
	x := new(big.Int).Set(residues[0])
	m := new(big.Int).Set(moduli[0])
	tmp := new(big.Int)

	for i := 1; i < len(residues); i++ {
		t := new(big.Int).Sub(residues[i], x)
		t.Mod(t, moduli[i])
		inv := new(big.Int).ModInverse(m, moduli[i])
		t.Mul(t, inv)
		t.Mod(t, moduli[i])
		tmp.Mul(m, t)
		x.Add(x, tmp)
		m.Mul(m, moduli[i])
	}

	return x
}

package coeff

import (
	"errors"
	"math/bits"
	"strconv"

	"lukechampine.com/uint128"
)

// Nmod is the ring Z/nZ for a word-size modulus n.
type Nmod struct {
	n uint64
}

var (
	errModulusTooLarge = errors.New("supporting up to 63-bit moduli")
	errModulusTooSmall = errors.New("modulus must be >= 2")
)

const maxBitUsage = 63

func NewNmod(n uint64) (*Nmod, error) {
	if n > (1 << maxBitUsage) {
		return nil, errModulusTooLarge
	}

	if n < 2 {
		return nil, errModulusTooSmall
	}

	return &Nmod{n: n}, nil
}

// Modulus returns n.
func (r *Nmod) Modulus() uint64 {
	return r.n
}

// Reduce returns val mod n.
func (r *Nmod) Reduce(val uint64) uint64 {
	return val % r.n
}

func (r *Nmod) Zero() uint64 { return 0 }
func (r *Nmod) One() uint64  { return 1 }

func (r *Nmod) FromInt64(v int64) uint64 {
	if v >= 0 {
		return uint64(v) % r.n
	}

	return r.Neg(uint64(-(v + 1))%r.n + 1%r.n)
}

func (r *Nmod) IsZero(a uint64) bool { return a == 0 }

func (r *Nmod) Equal(a, b uint64) bool {
	return (a % r.n) == (b % r.n)
}

func (r *Nmod) Add(a, b uint64) uint64 {
	tmp := a + b // can't overflow since adding two integers smaller than 2^63.
	if tmp >= r.n {
		tmp -= r.n
	}

	return tmp
}

func (r *Nmod) Sub(a, b uint64) uint64 {
	if a < b {
		return r.n - (b - a)
	}

	return a - b
}

// Mul returns a * b (mod n).
func (r *Nmod) Mul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}

	return mulMod(a, b, r.n)
}

func mulMod(a, b uint64, mod uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, mod)

	return rem
}

func (r *Nmod) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}

	return r.n - a
}

// https://en.wikipedia.org/wiki/Exponentiation_by_squaring
func (r *Nmod) Pow(base, exp uint64) uint64 {
	mod := r.n
	base %= mod

	x := uint64(1) % mod
	for exp > 0 {
		if exp%2 == 1 {
			x = mulMod(x, base, mod)
		}

		base = mulMod(base, base, mod)
		exp /= 2
	}

	return x
}

// Inv uses the extended Euclidean algorithm, so it also reports non-units
// when n is composite.
func (r *Nmod) Inv(a uint64) (uint64, error) {
	a %= r.n
	if a == 0 {
		return 0, ErrDivideByZero
	}

	// invariant: s*a = old (mod n), t*a = cur (mod n)
	old, cur := r.n, a
	s, t := uint64(0), uint64(1)
	for cur != 0 {
		q := old / cur
		old, cur = cur, old-q*cur
		s, t = t, r.Sub(s, r.Mul(q%r.n, t))
	}

	if old != 1 {
		return 0, ErrNotInvertible
	}

	return s, nil
}

func (r *Nmod) DivRem(a, b uint64) (uint64, uint64, error) {
	inv, err := r.Inv(b)
	if err != nil {
		return 0, 0, err
	}

	return r.Mul(a, inv), 0, nil
}

func (r *Nmod) String(a uint64) string {
	return strconv.FormatUint(a, 10)
}

func (r *Nmod) NewAccumulator() Accumulator[uint64] {
	return &nmodAccumulator{n: r.n}
}

// reductions are delayed while the 128-bit sum cannot overflow:
// a reduced sum plus three products of 63-bit residues stays below 2^128.
const nmodLazyProducts = 3

type nmodAccumulator struct {
	n       uint64
	sum     uint128.Uint128
	pending int
}

func (acc *nmodAccumulator) Reset() {
	acc.sum = uint128.Zero
	acc.pending = 0
}

func (acc *nmodAccumulator) push(hi, lo uint64) {
	acc.sum = acc.sum.Add(uint128.New(lo, hi))
	acc.pending++

	if acc.pending == nmodLazyProducts {
		acc.sum = uint128.From64(acc.sum.Mod64(acc.n))
		acc.pending = 0
	}
}

func (acc *nmodAccumulator) Add(a uint64) {
	acc.push(0, a)
}

func (acc *nmodAccumulator) AddMul(a, b uint64) {
	acc.push(bits.Mul64(a, b))
}

func (acc *nmodAccumulator) SubMul(a, b uint64) {
	if b == 0 {
		return
	}

	acc.push(bits.Mul64(a, acc.n-b))
}

func (acc *nmodAccumulator) Value() uint64 {
	return acc.sum.Mod64(acc.n)
}

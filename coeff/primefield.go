package coeff

import (
	"errors"
	"math/big"

	"github.com/tuneinsight/lattigo/v6/ring"
)

// PrimeField is Z/pZ for a prime p < 2^63. It shares the arithmetic of Nmod
// and additionally knows a generator of the multiplicative group.
type PrimeField struct {
	Nmod
	generator uint64
	factors   []uint64
}

var errNotPrime = errors.New("this package only support prime fields. please use a prime order")

func NewPrimeField(prime uint64) (*PrimeField, error) {
	if prime > (1 << maxBitUsage) {
		return nil, errModulusTooLarge
	}

	b := (&big.Int{}).SetUint64(prime)
	// Probably prime is 100% accurate for 64-bit numbers. Thus, we can use one base check.
	if !b.ProbablyPrime(1) {
		return nil, errNotPrime
	}

	g, factors, err := ring.PrimitiveRoot(prime, nil)
	if err != nil {
		return nil, err
	}

	return &PrimeField{
		Nmod:      Nmod{n: prime},
		generator: g,
		factors:   factors,
	}, nil
}

var (
	errNotPowerOfTwo = errors.New("n must be a power of 2")
	errNotDivisible  = errors.New("n must divide p-1")
	errNSTooSmall    = errors.New("n must be >= 2")
)

func (f *PrimeField) Prime() uint64 {
	return f.n
}

func (f *PrimeField) Generator() uint64 {
	return f.generator
}

// Factors returns the distinct prime factors of p-1.
func (f *PrimeField) Factors() []uint64 {
	return f.factors
}

func (f *PrimeField) GetRootOfUnity(n uint64) (uint64, error) {
	if n == 0 || n == 1 {
		return 0, errNSTooSmall
	}

	if !IsPowerOfTwo(n) {
		return 0, errNotPowerOfTwo
	}

	if (f.n-1)%n != 0 {
		return 0, errNotDivisible
	}

	// g^x == 1 (mod p) iff x = p-1, so w = g^((p-1)/n) has order exactly n.
	return f.Pow(f.generator, (f.n-1)/n), nil
}

func IsPowerOfTwo(n uint64) bool {
	// https://graphics.stanford.edu/~seander/bithacks.html#DetermineIfPowerOf2
	return n != 0 && (n&(n-1)) == 0
}

// Inv follows Fermat's little theorem: a^(p-2) * a = a^(p-1) = 1 (mod p).
func (f *PrimeField) Inv(a uint64) (uint64, error) {
	a %= f.n
	if a == 0 {
		return 0, ErrDivideByZero
	}

	return f.Pow(a, f.n-2), nil
}

func (f *PrimeField) DivRem(a, b uint64) (uint64, uint64, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return 0, 0, err
	}

	return f.Mul(a, inv), 0, nil
}

// PrevPrime returns the largest prime strictly below n that is at least 3.
func PrevPrime(n uint64) (uint64, bool) {
	b := new(big.Int)
	for c := n - 1; c >= 3 && c < n; c-- {
		if c%2 == 0 {
			continue
		}

		if b.SetUint64(c).ProbablyPrime(1) {
			return c, true
		}
	}

	return 0, false
}

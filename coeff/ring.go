// Package coeff holds the coefficient domains the sparse engine is generic over.
//
// A domain is anything satisfying Ring: word-size modular integers (Nmod),
// prime fields (PrimeField), arbitrary-precision integers (Integers) and
// rationals (Rationals). Values are treated as immutable; every operation
// returns a fresh value.
package coeff

import "errors"

var (
	ErrDivideByZero  = errors.New("division by zero")
	ErrNotInvertible = errors.New("element is not invertible")
)

type Ring[T any] interface {
	Zero() T
	One() T
	FromInt64(v int64) T

	// Reduce maps a to its canonical representative. Values entering a
	// polynomial pass through it before the zero test.
	Reduce(a T) T

	IsZero(a T) bool
	Equal(a, b T) bool

	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Neg(a T) T
	Pow(a T, e uint64) T

	// Inv returns a^-1, ErrDivideByZero for zero and ErrNotInvertible for
	// non-units.
	Inv(a T) (T, error)

	// DivRem returns q, r with a = q*b + r. Fields always return r = 0.
	DivRem(a, b T) (q, r T, err error)

	// NewAccumulator returns a fresh sum-of-products register.
	NewAccumulator() Accumulator[T]

	String(a T) string
}

// Accumulator sums products lazily. Domains may delay reduction until Value
// is called.
type Accumulator[T any] interface {
	Reset()
	Add(a T)
	AddMul(a, b T)
	SubMul(a, b T)
	Value() T
}

package coeff

import "math/big"

// Integers is Z with *big.Int values.
type Integers struct{}

func NewIntegers() *Integers { return &Integers{} }

func (Integers) Zero() *big.Int { return new(big.Int) }
func (Integers) One() *big.Int  { return big.NewInt(1) }

func (Integers) FromInt64(v int64) *big.Int { return big.NewInt(v) }

func (Integers) Reduce(a *big.Int) *big.Int { return a }

func (Integers) IsZero(a *big.Int) bool { return a.Sign() == 0 }

func (Integers) Equal(a, b *big.Int) bool { return a.Cmp(b) == 0 }

func (Integers) Add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
func (Integers) Sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }
func (Integers) Mul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }
func (Integers) Neg(a *big.Int) *big.Int    { return new(big.Int).Neg(a) }

func (Integers) Pow(a *big.Int, e uint64) *big.Int {
	return new(big.Int).Exp(a, new(big.Int).SetUint64(e), nil)
}

// Inv only succeeds for the units 1 and -1.
func (Integers) Inv(a *big.Int) (*big.Int, error) {
	if a.Sign() == 0 {
		return nil, ErrDivideByZero
	}

	if a.IsInt64() && (a.Int64() == 1 || a.Int64() == -1) {
		return new(big.Int).Set(a), nil
	}

	return nil, ErrNotInvertible
}

// DivRem is Euclidean division: 0 <= r < |b|.
func (Integers) DivRem(a, b *big.Int) (*big.Int, *big.Int, error) {
	if b.Sign() == 0 {
		return nil, nil, ErrDivideByZero
	}

	q, r := new(big.Int).DivMod(a, b, new(big.Int))

	return q, r, nil
}

func (Integers) String(a *big.Int) string { return a.String() }

func (Integers) NewAccumulator() Accumulator[*big.Int] {
	return &intAccumulator{}
}

type intAccumulator struct {
	sum big.Int
	tmp big.Int
}

func (acc *intAccumulator) Reset() { acc.sum.SetInt64(0) }

func (acc *intAccumulator) Add(a *big.Int) { acc.sum.Add(&acc.sum, a) }

func (acc *intAccumulator) AddMul(a, b *big.Int) {
	acc.tmp.Mul(a, b)
	acc.sum.Add(&acc.sum, &acc.tmp)
}

func (acc *intAccumulator) SubMul(a, b *big.Int) {
	acc.tmp.Mul(a, b)
	acc.sum.Sub(&acc.sum, &acc.tmp)
}

func (acc *intAccumulator) Value() *big.Int { return new(big.Int).Set(&acc.sum) }

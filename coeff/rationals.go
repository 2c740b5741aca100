package coeff

import "math/big"

// Rationals is Q with *big.Rat values.
type Rationals struct{}

func NewRationals() *Rationals { return &Rationals{} }

func (Rationals) Zero() *big.Rat { return new(big.Rat) }
func (Rationals) One() *big.Rat  { return big.NewRat(1, 1) }

func (Rationals) FromInt64(v int64) *big.Rat { return big.NewRat(v, 1) }

func (Rationals) Reduce(a *big.Rat) *big.Rat { return a }

func (Rationals) IsZero(a *big.Rat) bool { return a.Sign() == 0 }

func (Rationals) Equal(a, b *big.Rat) bool { return a.Cmp(b) == 0 }

func (Rationals) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (Rationals) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (Rationals) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (Rationals) Neg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }

func (Rationals) Pow(a *big.Rat, e uint64) *big.Rat {
	num := new(big.Int).Exp(a.Num(), new(big.Int).SetUint64(e), nil)
	den := new(big.Int).Exp(a.Denom(), new(big.Int).SetUint64(e), nil)

	return new(big.Rat).SetFrac(num, den)
}

func (Rationals) Inv(a *big.Rat) (*big.Rat, error) {
	if a.Sign() == 0 {
		return nil, ErrDivideByZero
	}

	return new(big.Rat).Inv(a), nil
}

func (q Rationals) DivRem(a, b *big.Rat) (*big.Rat, *big.Rat, error) {
	if b.Sign() == 0 {
		return nil, nil, ErrDivideByZero
	}

	return new(big.Rat).Quo(a, b), new(big.Rat), nil
}

func (Rationals) String(a *big.Rat) string { return a.RatString() }

func (Rationals) NewAccumulator() Accumulator[*big.Rat] {
	return &ratAccumulator{}
}

type ratAccumulator struct {
	sum big.Rat
	tmp big.Rat
}

func (acc *ratAccumulator) Reset() { acc.sum.SetInt64(0) }

func (acc *ratAccumulator) Add(a *big.Rat) { acc.sum.Add(&acc.sum, a) }

func (acc *ratAccumulator) AddMul(a, b *big.Rat) {
	acc.tmp.Mul(a, b)
	acc.sum.Add(&acc.sum, &acc.tmp)
}

func (acc *ratAccumulator) SubMul(a, b *big.Rat) {
	acc.tmp.Mul(a, b)
	acc.sum.Sub(&acc.sum, &acc.tmp)
}

func (acc *ratAccumulator) Value() *big.Rat { return new(big.Rat).Set(&acc.sum) }

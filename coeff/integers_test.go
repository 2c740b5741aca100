package coeff

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegersDivRem(t *testing.T) {
	a := assert.New(t)
	zz := NewIntegers()

	q, r, err := zz.DivRem(big.NewInt(-7), big.NewInt(2))
	a.NoError(err)
	a.Equal("-4", q.String())
	a.Equal("1", r.String())

	_, _, err = zz.DivRem(big.NewInt(1), big.NewInt(0))
	a.ErrorIs(err, ErrDivideByZero)

	_, err = zz.Inv(big.NewInt(3))
	a.ErrorIs(err, ErrNotInvertible)

	inv, err := zz.Inv(big.NewInt(-1))
	a.NoError(err)
	a.Equal("-1", inv.String())
}

func TestIntegersAccumulator(t *testing.T) {
	a := assert.New(t)
	zz := NewIntegers()

	acc := zz.NewAccumulator()
	acc.AddMul(big.NewInt(3), big.NewInt(4))
	acc.SubMul(big.NewInt(2), big.NewInt(5))
	acc.Add(big.NewInt(-1))

	v := acc.Value()
	a.Equal("1", v.String())

	// Value must not alias the register.
	acc.Add(big.NewInt(10))
	a.Equal("1", v.String())
}

func TestRationals(t *testing.T) {
	a := assert.New(t)
	qq := NewRationals()

	half := big.NewRat(1, 2)
	third := big.NewRat(1, 3)

	q, r, err := qq.DivRem(half, third)
	a.NoError(err)
	a.Equal("3/2", qq.String(q))
	a.True(qq.IsZero(r))

	a.Equal("1/8", qq.String(qq.Pow(half, 3)))

	_, err = qq.Inv(qq.Zero())
	a.ErrorIs(err, ErrDivideByZero)
}

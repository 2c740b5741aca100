// Package mpoly implements exact arithmetic on sparse multivariate
// polynomials over any coefficient domain satisfying coeff.Ring.
//
// A polynomial is a list of (coefficient, packed monomial) terms kept in
// strictly decreasing monomial order with no zero coefficients. Products,
// quotients and substitutions are produced term by term, in order, by a
// heap merge whose size is bounded by the shorter operand (multiplication)
// or by the total divisor length (division), never by the result.
//
// Exponents are packed at the narrowest canonical width that holds them.
// When an intermediate monomial would not fit, the operation restarts at
// the next width; callers only see the restart in the debug log.
//
// Operations follow the output-parameter convention of
// Context.Mul(out, a, b): out may alias any input.
package mpoly

import (
	"errors"
	"fmt"

	"github.com/jonathanmweiss/go-mpoly/coeff"
	"github.com/jonathanmweiss/go-mpoly/monomial"
)

var (
	ErrDivideByZero     = coeff.ErrDivideByZero
	ErrNotInvertible    = coeff.ErrNotInvertible
	ErrExponentOverflow = monomial.ErrWidthExceeded
	ErrContextMismatch  = errors.New("polynomials belong to different contexts")
	ErrVariableCount    = errors.New("wrong number of exponents")
	ErrVariableIndex    = errors.New("variable index out of range")
	ErrOutputAliasing   = errors.New("output polynomials must be distinct")

	errNoVariables = errors.New("a context needs at least one variable")
)

// Context fixes the coefficient ring, the number of variables and the
// monomial ordering shared by a family of polynomials. It is immutable after
// construction and may be shared across goroutines.
type Context[T any] struct {
	Ring coeff.Ring[T]

	nvars       int
	ord         monomial.Ordering
	names       []string
	initialBits uint

	// one layout per canonical width, indexed by widthIndex
	layouts [4]*monomial.Layout
}

type Option func(*options)

type options struct {
	names       []string
	initialBits uint
}

// WithVariableNames sets the names used by String.
func WithVariableNames(names ...string) Option {
	return func(o *options) { o.names = names }
}

// WithInitialBits sets the packing width of freshly created polynomials.
func WithInitialBits(b uint) Option {
	return func(o *options) { o.initialBits = b }
}

// WithConfig applies the context-level fields of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.initialBits = cfg.InitialBits }
}

func NewContext[T any](r coeff.Ring[T], nvars int, ord monomial.Ordering, opts ...Option) (*Context[T], error) {
	if nvars < 1 {
		return nil, errNoVariables
	}

	o := options{initialBits: monomial.MinBits}
	for _, opt := range opts {
		opt(&o)
	}

	b, ok := monomial.FixBits(o.initialBits)
	if !ok {
		return nil, fmt.Errorf("initial width %d: %w", o.initialBits, ErrExponentOverflow)
	}

	names := o.names
	if len(names) != nvars {
		names = make([]string, nvars)
		for i := range names {
			names[i] = fmt.Sprintf("x%d", i+1)
		}
	}

	ctx := &Context[T]{
		Ring:        r,
		nvars:       nvars,
		ord:         ord,
		names:       names,
		initialBits: b,
	}

	for i, w := range []uint{8, 16, 32, 64} {
		ctx.layouts[i] = monomial.NewLayout(nvars, ord, w)
	}

	return ctx, nil
}

func (ctx *Context[T]) NVars() int {
	return ctx.nvars
}

func (ctx *Context[T]) Ordering() monomial.Ordering {
	return ctx.ord
}

func (ctx *Context[T]) VariableNames() []string {
	return append([]string(nil), ctx.names...)
}

func (ctx *Context[T]) layout(bits uint) *monomial.Layout {
	switch bits {
	case 8:
		return ctx.layouts[0]
	case 16:
		return ctx.layouts[1]
	case 32:
		return ctx.layouts[2]
	case 64:
		return ctx.layouts[3]
	}

	panic(fmt.Sprintf("mpoly: non canonical width %d", bits))
}

func (ctx *Context[T]) owns(ps ...*Poly[T]) error {
	for _, p := range ps {
		if p.ctx != ctx {
			return ErrContextMismatch
		}
	}

	return nil
}

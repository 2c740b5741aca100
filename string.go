package mpoly

import (
	"strconv"
	"strings"
)

// String renders p with the context's variable names, greatest term first,
// e.g. "2*x^3*y + x - 1" over the integers.
func (p *Poly[T]) String() string {
	if p.IsZero() {
		return "0"
	}

	r := p.ctx.Ring
	var sb strings.Builder

	for i := range p.coeffs {
		c, exps := p.Term(i)
		cs := r.String(c)

		switch {
		case strings.HasPrefix(cs, "-"):
			if i == 0 {
				sb.WriteByte('-')
			} else {
				sb.WriteString(" - ")
			}
			cs = cs[1:]
		case i > 0:
			sb.WriteString(" + ")
		}

		mono := p.ctx.formatMonomial(exps)

		switch {
		case mono == "":
			sb.WriteString(cs)
		case cs == "1":
			sb.WriteString(mono)
		default:
			sb.WriteString(cs)
			sb.WriteByte('*')
			sb.WriteString(mono)
		}
	}

	return sb.String()
}

func (ctx *Context[T]) formatMonomial(exps []uint64) string {
	var parts []string

	for v, e := range exps {
		switch e {
		case 0:
		case 1:
			parts = append(parts, ctx.names[v])
		default:
			parts = append(parts, ctx.names[v]+"^"+strconv.FormatUint(e, 10))
		}
	}

	return strings.Join(parts, "*")
}

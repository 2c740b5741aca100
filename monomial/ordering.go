// Package monomial packs exponent vectors into fixed-width word vectors.
//
// A packed monomial is a sequence of Words uint64 values. Fields never
// straddle a word; the most significant field sits in the high bits of word 0.
// For degree orderings the first field holds the total degree. Comparing two
// packed monomials under any supported ordering reduces to comparing their
// words, most significant first, after XOR-ing both with the layout's
// comparison mask.
//
// The top bit of every field is a guard bit: operands always keep it clear, so
// an addition that carries into it is an overflow and a subtraction that
// borrows into it is a non-divisibility.
package monomial

import "fmt"

type Ordering int

const (
	Lex Ordering = iota
	DegLex
	DegRevLex
)

func (o Ordering) String() string {
	switch o {
	case Lex:
		return "lex"
	case DegLex:
		return "deglex"
	case DegRevLex:
		return "degrevlex"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// IsDegree reports whether the ordering compares total degree first.
func (o Ordering) IsDegree() bool {
	return o == DegLex || o == DegRevLex
}

// ParseOrdering accepts the names produced by String.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "lex":
		return Lex, nil
	case "deglex":
		return DegLex, nil
	case "degrevlex":
		return DegRevLex, nil
	}

	return 0, fmt.Errorf("unknown monomial ordering %q", s)
}

// Compare orders two exponent tuples mathematically. It is the reference the
// packed comparison has to agree with.
func (o Ordering) Compare(a, b []uint64) int {
	if o.IsDegree() {
		da, db := sum(a), sum(b)
		if da != db {
			return cmp(da, db)
		}
	}

	if o == DegRevLex {
		for i := len(a) - 1; i >= 0; i-- {
			if a[i] != b[i] {
				// smaller exponent in the last differing variable wins
				return cmp(b[i], a[i])
			}
		}

		return 0
	}

	for i := range a {
		if a[i] != b[i] {
			return cmp(a[i], b[i])
		}
	}

	return 0
}

func sum(e []uint64) uint64 {
	s := uint64(0)
	for _, v := range e {
		s += v
	}

	return s
}

func cmp(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

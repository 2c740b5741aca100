package monomial

import "math/bits"

const (
	MinBits = 8
	MaxBits = 64
)

// canonical field widths. Each divides 64, so fields are word aligned.
var canonicalBits = [...]uint{8, 16, 32, 64}

// FixBits rounds b up to the nearest canonical width.
func FixBits(b uint) (uint, bool) {
	for _, c := range canonicalBits {
		if b <= c {
			return c, true
		}
	}

	return 0, false
}

// NextBits returns the canonical width following b.
func NextBits(b uint) (uint, bool) {
	return FixBits(b + 1)
}

// BitsFor returns the smallest canonical width able to hold v in a field
// while keeping the guard bit clear.
func BitsFor(v uint64) (uint, bool) {
	return FixBits(uint(bits.Len64(v)) + 1)
}

// MaxExponent is the largest field value representable at width b.
func MaxExponent(b uint) uint64 {
	return uint64(1)<<(b-1) - 1
}

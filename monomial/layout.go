package monomial

import (
	"errors"
	"math/bits"
)

var ErrWidthExceeded = errors.New("exponent does not fit in 63 bits")

// Layout describes how exponent tuples of NVars variables are packed at a
// given field width under an ordering.
type Layout struct {
	NVars int
	Ord   Ordering
	Bits  uint
	Words int

	fields    int
	perWord   int
	fieldMask uint64
	cmpMask   []uint64
	guardMask []uint64
}

func NewLayout(nvars int, ord Ordering, b uint) *Layout {
	if nvars < 1 {
		panic("monomial: layout needs at least one variable")
	}

	fb, ok := FixBits(b)
	if !ok {
		panic("monomial: width larger than 64 bits")
	}

	l := &Layout{
		NVars:   nvars,
		Ord:     ord,
		Bits:    fb,
		fields:  nvars,
		perWord: int(64 / fb),
	}

	if ord.IsDegree() {
		l.fields++
	}

	l.Words = (l.fields + l.perWord - 1) / l.perWord

	if fb == 64 {
		l.fieldMask = ^uint64(0)
	} else {
		l.fieldMask = uint64(1)<<fb - 1
	}

	l.cmpMask = make([]uint64, l.Words)
	l.guardMask = make([]uint64, l.Words)

	for f := 0; f < l.fields; f++ {
		w, s := l.position(f)
		l.guardMask[w] |= uint64(1) << (s + fb - 1)

		if ord == DegRevLex && f > 0 {
			l.cmpMask[w] |= l.fieldMask << s
		}
	}

	return l
}

// WithBits returns the layout for the same variables and ordering at width b.
func (l *Layout) WithBits(b uint) *Layout {
	return NewLayout(l.NVars, l.Ord, b)
}

// Fields is the number of packed fields, including the degree field.
func (l *Layout) Fields() int {
	return l.fields
}

// CmpMask is XOR-ed into both sides of every word comparison.
func (l *Layout) CmpMask() []uint64 {
	return l.cmpMask
}

func (l *Layout) position(f int) (word int, shift uint) {
	return f / l.perWord, uint(l.perWord-1-f%l.perWord) * l.Bits
}

// fieldOf maps a variable to its field index.
func (l *Layout) fieldOf(v int) int {
	switch l.Ord {
	case DegLex:
		return v + 1
	case DegRevLex:
		return l.NVars - v
	}

	return v
}

func (l *Layout) getField(m []uint64, f int) uint64 {
	w, s := l.position(f)

	return (m[w] >> s) & l.fieldMask
}

func (l *Layout) setField(m []uint64, f int, v uint64) {
	w, s := l.position(f)
	m[w] = m[w]&^(l.fieldMask<<s) | (v&l.fieldMask)<<s
}

// BitsNeeded returns the canonical width required to pack exps, counting
// the degree field for degree orderings.
func (l *Layout) BitsNeeded(exps []uint64) (uint, error) {
	m := uint64(0)
	deg, carry := uint64(0), uint64(0)

	for _, e := range exps {
		m = max(m, e)
		deg, carry = bits.Add64(deg, e, carry)
	}

	if l.Ord.IsDegree() {
		if carry != 0 {
			return 0, ErrWidthExceeded
		}
		m = max(m, deg)
	}

	b, ok := BitsFor(m)
	if !ok {
		return 0, ErrWidthExceeded
	}

	return b, nil
}

// Pack writes exps into dst. The caller guarantees every field fits.
func (l *Layout) Pack(dst []uint64, exps []uint64) {
	clear(dst[:l.Words])

	deg := uint64(0)
	for v, e := range exps {
		l.setField(dst, l.fieldOf(v), e)
		deg += e
	}

	if l.Ord.IsDegree() {
		l.setField(dst, 0, deg)
	}
}

// Unpack writes the exponent tuple of m into dst.
func (l *Layout) Unpack(dst []uint64, m []uint64) {
	for v := 0; v < l.NVars; v++ {
		dst[v] = l.getField(m, l.fieldOf(v))
	}
}

// Exponent returns the exponent of variable v in m.
func (l *Layout) Exponent(m []uint64, v int) uint64 {
	return l.getField(m, l.fieldOf(v))
}

// Degree returns the total degree of m.
func (l *Layout) Degree(m []uint64) uint64 {
	if l.Ord.IsDegree() {
		return l.getField(m, 0)
	}

	d := uint64(0)
	for f := 0; f < l.fields; f++ {
		d += l.getField(m, f)
	}

	return d
}

// MaxFields raises each entry of acc (length Fields) to the matching field
// of m.
func (l *Layout) MaxFields(acc []uint64, m []uint64) {
	for f := 0; f < l.fields; f++ {
		acc[f] = max(acc[f], l.getField(m, f))
	}
}

// Compare returns the sign of a - b in the layout's ordering.
func (l *Layout) Compare(a, b []uint64) int {
	for i := 0; i < l.Words; i++ {
		x, y := a[i]^l.cmpMask[i], b[i]^l.cmpMask[i]
		if x != y {
			if x > y {
				return 1
			}

			return -1
		}
	}

	return 0
}

// Greater is Compare(a, b) > 0 without the three-way result.
func (l *Layout) Greater(a, b []uint64) bool {
	for i := 0; i < l.Words; i++ {
		x, y := a[i]^l.cmpMask[i], b[i]^l.cmpMask[i]
		if x != y {
			return x > y
		}
	}

	return false
}

func (l *Layout) Equal(a, b []uint64) bool {
	for i := 0; i < l.Words; i++ {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Add sets dst = a + b field-wise. The result may overflow; check with
// Overflows before trusting it.
func (l *Layout) Add(dst, a, b []uint64) {
	for i := 0; i < l.Words; i++ {
		dst[i] = a[i] + b[i]
	}
}

// Sub sets dst = a - b field-wise, assuming b divides a.
func (l *Layout) Sub(dst, a, b []uint64) {
	for i := 0; i < l.Words; i++ {
		dst[i] = a[i] - b[i]
	}
}

// Divides sets dst = a - b and reports whether b divides a. dst is garbage
// when it returns false.
func (l *Layout) Divides(dst, a, b []uint64) bool {
	ok := true
	for i := 0; i < l.Words; i++ {
		dst[i] = a[i] - b[i]
		if dst[i]&l.guardMask[i] != 0 {
			ok = false
		}
	}

	return ok
}

// Overflows reports whether some field of m has its guard bit set.
func (l *Layout) Overflows(m []uint64) bool {
	for i := 0; i < l.Words; i++ {
		if m[i]&l.guardMask[i] != 0 {
			return true
		}
	}

	return false
}

// Repack converts m, packed by src, into dst packed by l.
func (l *Layout) Repack(dst []uint64, src *Layout, m []uint64, scratch []uint64) {
	src.Unpack(scratch, m)
	l.Pack(dst, scratch)
}

// Package decimal implements the arbitrary-precision signed decimal numbers
// used for every numeric value in the language.
//
// A Number keeps its integer and fractional digits as strings and performs
// arithmetic digit by digit. Two sentinel states, NaN and Infinite, absorb
// every operation they take part in. NaN wins over Infinite when both appear.
package decimal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DivisionPrecision is the number of fractional digits kept by Div. Further
// digits are truncated.
const DivisionPrecision = 20

// ErrSyntax indicates that a value does not have the right syntax.
var ErrSyntax = errors.New("invalid number syntax")

type kind uint8

const (
	finite kind = iota
	nan
	infinite
)

// Number is a canonical decimal value. The zero value is the number 0.
//
// The integer part never has leading zeros and the fraction never has
// trailing zeros. An empty integer part means zero and an empty fraction
// means the value is integral. Zero is never negative.
type Number struct {
	kind     kind
	negative bool
	integer  string
	fraction string
}

var (
	// Zero is the number 0.
	Zero = Number{}
	// One is the number 1.
	One = Number{integer: "1"}
)

// NaN returns the Not-a-Number sentinel.
func NaN() Number {
	return Number{kind: nan}
}

// Infinite returns the Infinite sentinel.
func Infinite() Number {
	return Number{kind: infinite}
}

// FromInt returns the Number for an integer.
func FromInt(i int) Number {
	return MustParse(strconv.Itoa(i))
}

// Parse reads a decimal string such as "12", "-0.5", ".25" or "7.". The words
// "nan" and "infinite" are accepted in any letter case.
func Parse(s string) (Number, error) {
	switch strings.ToLower(s) {
	case "nan":
		return NaN(), nil
	case "infinite":
		return Infinite(), nil
	}
	text := s
	negative := false
	if text != "" && (text[0] == '+' || text[0] == '-') {
		negative = text[0] == '-'
		text = text[1:]
	}
	var integer, fraction strings.Builder
	seenPoint, seenDigit := false, false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '.':
			if seenPoint {
				return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
			}
			seenPoint = true
		case ch >= '0' && ch <= '9':
			seenDigit = true
			if seenPoint {
				fraction.WriteByte(ch)
			} else {
				integer.WriteByte(ch)
			}
		default:
			return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
	}
	if !seenDigit {
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return normalize(negative, integer.String(), fraction.String()), nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// normalize builds a canonical finite Number.
func normalize(negative bool, integer, fraction string) Number {
	integer = strings.TrimLeft(integer, "0")
	fraction = strings.TrimRight(fraction, "0")
	if integer == "" && fraction == "" {
		negative = false
	}
	return Number{negative: negative, integer: integer, fraction: fraction}
}

// String renders the canonical text of the number.
func (n Number) String() string {
	switch n.kind {
	case nan:
		return "NaN"
	case infinite:
		return "INFINITE"
	}
	var b strings.Builder
	if n.negative {
		b.WriteByte('-')
	}
	if n.integer == "" {
		b.WriteByte('0')
	} else {
		b.WriteString(n.integer)
	}
	if n.fraction != "" {
		b.WriteByte('.')
		b.WriteString(n.fraction)
	}
	return b.String()
}

// IsNaN reports whether n is the NaN sentinel.
func (n Number) IsNaN() bool { return n.kind == nan }

// IsInfinite reports whether n is the Infinite sentinel.
func (n Number) IsInfinite() bool { return n.kind == infinite }

// IsZero reports whether n is the finite value 0.
func (n Number) IsZero() bool {
	return n.kind == finite && n.integer == "" && n.fraction == ""
}

// IsInteger reports whether n is finite and has no fractional digits.
func (n Number) IsInteger() bool {
	return n.kind == finite && n.fraction == ""
}

// Sign returns -1, 0 or +1. Sentinels report 0 for NaN and +1 for Infinite.
func (n Number) Sign() int {
	switch {
	case n.kind == nan || n.IsZero():
		return 0
	case n.kind == infinite:
		return 1
	case n.negative:
		return -1
	}
	return 1
}

// Neg returns -n. Sentinels are returned unchanged.
func (n Number) Neg() Number {
	if n.kind != finite || n.IsZero() {
		return n
	}
	n.negative = !n.negative
	return n
}

// Abs returns |n|.
func (n Number) Abs() Number {
	n.negative = false
	return n
}

// Equal reports whether n and m are the same value. Sentinels are equal to
// themselves, NaN included.
func (n Number) Equal(m Number) bool {
	return n == m
}

// Less reports whether n < m. Comparisons involving NaN are false and
// Infinite is greater than every finite number.
func (n Number) Less(m Number) bool {
	if n.kind == nan || m.kind == nan {
		return false
	}
	if n.kind == infinite || m.kind == infinite {
		return n.kind == finite && m.kind == infinite
	}
	if n == m {
		return false
	}
	if n.negative != m.negative {
		return n.negative
	}
	left, right, _ := align(n, m)
	if n.negative {
		return left > right
	}
	return left < right
}

// LessEqual reports whether n <= m.
func (n Number) LessEqual(m Number) bool {
	if n.kind == nan || m.kind == nan {
		return false
	}
	return n.Equal(m) || n.Less(m)
}

// Greater reports whether n > m.
func (n Number) Greater(m Number) bool {
	return m.Less(n)
}

// GreaterEqual reports whether n >= m.
func (n Number) GreaterEqual(m Number) bool {
	return m.LessEqual(n)
}

// Compare returns -1, 0 or +1 comparing n and m. NaN operands compare as 0
// when both are NaN and otherwise order below every other value.
func (n Number) Compare(m Number) int {
	switch {
	case n.Equal(m):
		return 0
	case n.kind == nan:
		return -1
	case m.kind == nan:
		return 1
	case n.Less(m):
		return -1
	}
	return 1
}

package decimal

import "strings"

// special resolves the sentinel cases shared by every binary operation.
func special(a, b Number) (Number, bool) {
	if a.kind == nan || b.kind == nan {
		return NaN(), true
	}
	if a.kind == infinite || b.kind == infinite {
		return Infinite(), true
	}
	return Number{}, false
}

// Add returns a + b.
func (a Number) Add(b Number) Number {
	if r, ok := special(a, b); ok {
		return r
	}
	switch {
	case a.negative && b.negative:
		return a.Abs().Add(b.Abs()).Neg()
	case a.negative:
		return b.Sub(a.Abs())
	case b.negative:
		return a.Sub(b.Abs())
	}
	left, right, scale := align(a, b)
	return fromDigits(false, addDigits(left, right), scale)
}

// Sub returns a - b.
func (a Number) Sub(b Number) Number {
	if r, ok := special(a, b); ok {
		return r
	}
	switch {
	case b.negative:
		return a.Add(b.Abs())
	case a.negative:
		return a.Abs().Add(b).Neg()
	}
	left, right, scale := align(a, b)
	if left < right {
		return fromDigits(true, subDigits(right, left), scale)
	}
	return fromDigits(false, subDigits(left, right), scale)
}

// Mul returns a * b. The product carries as many fractional digits as both
// operands together before canonicalization.
func (a Number) Mul(b Number) Number {
	if r, ok := special(a, b); ok {
		return r
	}
	left := a.integer + a.fraction
	right := b.integer + b.fraction
	if left == "" || right == "" {
		return Zero
	}
	acc := make([]int, len(left)+len(right))
	for i := len(left) - 1; i >= 0; i-- {
		x := int(left[i] - '0')
		for j := len(right) - 1; j >= 0; j-- {
			acc[i+j+1] += x * int(right[j]-'0')
		}
	}
	for k := len(acc) - 1; k > 0; k-- {
		acc[k-1] += acc[k] / 10
		acc[k] %= 10
	}
	digits := make([]byte, len(acc))
	for k, d := range acc {
		digits[k] = byte('0' + d)
	}
	return fromDigits(a.negative != b.negative, string(digits), len(a.fraction)+len(b.fraction))
}

// Div returns a / b truncated to DivisionPrecision fractional digits.
// 0/0 is NaN and x/0 is Infinite for any other x.
func (a Number) Div(b Number) Number {
	if r, ok := special(a, b); ok {
		return r
	}
	if b.IsZero() {
		if a.IsZero() {
			return NaN()
		}
		return Infinite()
	}
	if a.IsZero() {
		return Zero
	}
	dividend, divisor := scaleToIntegers(a, b)
	quotient, remainder := longDivide(dividend, divisor)
	var fraction strings.Builder
	for remainder != "" && fraction.Len() < DivisionPrecision {
		digit, rest := divideStep(remainder+"0", divisor)
		fraction.WriteByte(digit)
		remainder = rest
	}
	return normalize(a.negative != b.negative, quotient, fraction.String())
}

// Mod returns the remainder of |a| divided by |b|, carrying the sign of b.
// This is the value left after repeatedly subtracting |b| from |a|. x % 0 is
// NaN.
func (a Number) Mod(b Number) Number {
	if r, ok := special(a, b); ok {
		return r
	}
	if b.IsZero() {
		return NaN()
	}
	scale := max(len(a.fraction), len(b.fraction))
	dividend, divisor := scaleToIntegers(a, b)
	_, remainder := longDivide(dividend, divisor)
	return fromDigits(b.negative, remainder, scale)
}

// align pads both magnitudes to a common integer and fraction width and
// returns their digit strings along with the shared fraction width. The
// returned strings have equal length, so they compare numerically as text.
func align(a, b Number) (string, string, int) {
	intWidth := max(len(a.integer), len(b.integer))
	scale := max(len(a.fraction), len(b.fraction))
	left := pad(a.integer, intWidth, a.fraction, scale)
	right := pad(b.integer, intWidth, b.fraction, scale)
	return left, right, scale
}

func pad(integer string, intWidth int, fraction string, scale int) string {
	return strings.Repeat("0", intWidth-len(integer)) + integer +
		fraction + strings.Repeat("0", scale-len(fraction))
}

// fromDigits reinserts the decimal point scale digits from the right.
func fromDigits(negative bool, digits string, scale int) Number {
	if len(digits) < scale {
		digits = strings.Repeat("0", scale-len(digits)) + digits
	}
	cut := len(digits) - scale
	return normalize(negative, digits[:cut], digits[cut:])
}

// scaleToIntegers multiplies both magnitudes by the same power of ten so
// neither has a fractional part.
func scaleToIntegers(a, b Number) (string, string) {
	scale := max(len(a.fraction), len(b.fraction))
	dividend := a.integer + a.fraction + strings.Repeat("0", scale-len(a.fraction))
	divisor := b.integer + b.fraction + strings.Repeat("0", scale-len(b.fraction))
	return trimZeros(dividend), trimZeros(divisor)
}

// longDivide divides two unsigned integer digit strings. It slides a window
// over the dividend, appending one quotient digit per dividend digit. Both
// results have no leading zeros; an empty string is zero.
func longDivide(dividend, divisor string) (string, string) {
	var quotient strings.Builder
	window := ""
	for i := 0; i < len(dividend); i++ {
		digit, rest := divideStep(window+dividend[i:i+1], divisor)
		if quotient.Len() > 0 || digit != '0' {
			quotient.WriteByte(digit)
		}
		window = rest
	}
	return quotient.String(), window
}

// divideStep counts how many times divisor fits into window by repeated
// subtraction. The count is a single digit as long as window < 10*divisor.
func divideStep(window, divisor string) (byte, string) {
	window = trimZeros(window)
	count := byte('0')
	for compareDigits(window, divisor) >= 0 {
		window = trimZeros(subDigits(window, divisor))
		count++
	}
	return count, window
}

// addDigits adds two unsigned digit strings of equal length.
func addDigits(x, y string) string {
	out := make([]byte, len(x)+1)
	carry := 0
	for i := len(x) - 1; i >= 0; i-- {
		sum := int(x[i]-'0') + int(y[i]-'0') + carry
		out[i+1] = byte('0' + sum%10)
		carry = sum / 10
	}
	out[0] = byte('0' + carry)
	return string(out)
}

// subDigits subtracts y from x where x >= y. y may be shorter than x.
func subDigits(x, y string) string {
	y = strings.Repeat("0", len(x)-len(y)) + y
	out := make([]byte, len(x))
	borrow := 0
	for i := len(x) - 1; i >= 0; i-- {
		d := int(x[i]-'0') - int(y[i]-'0') - borrow
		borrow = 0
		if d < 0 {
			d += 10
			borrow = 1
		}
		out[i] = byte('0' + d)
	}
	return string(out)
}

// compareDigits compares two unsigned digit strings without leading zeros.
func compareDigits(x, y string) int {
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return strings.Compare(x, y)
}

func trimZeros(s string) string {
	return strings.TrimLeft(s, "0")
}

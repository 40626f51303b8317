package ldouble

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"
)

// LDouble is a C long double, held as the exact storage bytes the platform
// ABI uses for one. The zero value is positive zero in every format.
//
// LDouble is comparable with ==, but that compares storage bits: negative
// zero differs from positive zero and no NaN equals another. Use Equal or
// Cmp for numeric equality.
type LDouble struct {
	b [16]byte
}

// LDoubleFromFloat64 widens a float64 into the native long double format.
// The conversion is exact except under FormatUnknown's double fallback,
// where it is the identity.
func LDoubleFromFloat64(v float64) LDouble {
	return fromFloat64Format(native, v)
}

func fromFloat64Format(f Format, v float64) LDouble {
	if math.IsNaN(v) {
		return nanFormat(f)
	}
	return f.packValue(new(big.Float).SetFloat64(v))
}

// LDoubleFromInt64 converts v, rounding to nearest if the significand
// cannot hold all 63 bits.
func LDoubleFromInt64(v int64) LDouble {
	return native.packValue(new(big.Float).SetInt64(v))
}

// LDoubleFromUint64 converts v, rounding to nearest if the significand
// cannot hold all 64 bits.
func LDoubleFromUint64(v uint64) LDouble {
	return native.packValue(new(big.Float).SetUint64(v))
}

// LDoubleFromBigFloat rounds v to the native format. big.Float has no NaN;
// a nil v stands in for it and maps to the canonical NaN, the inverse of
// AsBigFloat returning nil for one.
func LDoubleFromBigFloat(v *big.Float) LDouble {
	if v == nil {
		return nanFormat(native)
	}
	return native.packValue(v)
}

// LDoubleFromString converts the base-10 or base-16 string s, accepting
// everything big.Float parsing does plus "nan", "inf" and "infinity" in
// any case, with an optional sign. A signed NaN loses its sign; there is
// only the one canonical NaN.
func LDoubleFromString(s string) (out LDouble, err error) {
	return parseFormat(native, s)
}

// MustLDoubleFromString panics if s is not a valid number. Use this for
// constants only.
func MustLDoubleFromString(s string) LDouble {
	out, err := LDoubleFromString(s)
	if err != nil {
		panic(err)
	}
	return out
}

func parseFormat(f Format, s string) (LDouble, error) {
	if s == "" {
		return LDouble{}, ErrInvalidArgument.New("long double string is empty")
	}

	body, neg := s, false
	switch s[0] {
	case '+':
		body = s[1:]
	case '-':
		body, neg = s[1:], true
	}
	switch strings.ToLower(body) {
	case "nan":
		return nanFormat(f), nil
	case "inf", "infinity":
		if neg {
			return infFormat(f, -1), nil
		}
		return infFormat(f, 1), nil
	}

	// Parse with guard bits so the final quantize decides the rounding.
	x, _, err := big.ParseFloat(s, 0, f.prec()+64, big.ToNearestEven)
	if err != nil {
		return LDouble{}, ErrInvalidArgument.New("long double string %q invalid", s)
	}
	return f.packValue(x), nil
}

// LDoubleFromRaw is the complement to Raw(); it creates an LDouble from
// the two halves of its storage image. Bits beyond the format's value
// bytes are padding and should be zero.
func LDoubleFromRaw(hi, lo uint64) LDouble {
	var d LDouble
	binary.LittleEndian.PutUint64(d.b[0:8], lo)
	binary.LittleEndian.PutUint64(d.b[8:16], hi)
	return d
}

// Raw returns the storage image of d as two 64-bit halves, lo covering the
// first eight bytes in memory.
func (d LDouble) Raw() (hi, lo uint64) {
	return binary.LittleEndian.Uint64(d.b[8:16]), binary.LittleEndian.Uint64(d.b[0:8])
}

// AsFloat64 narrows d to a float64, rounding to nearest.
func (d LDouble) AsFloat64() float64 {
	x, nan := native.unpack(&d.b)
	if nan {
		return math.NaN()
	}
	v, _ := x.Float64()
	return v
}

// AsBigFloat returns the exact value of d, or nil if d is NaN.
func (d LDouble) AsBigFloat() *big.Float {
	x, nan := native.unpack(&d.b)
	if nan {
		return nil
	}
	return x
}

// AsInt64 truncates d towards zero. Values beyond the int64 range saturate
// at the boundaries; NaN converts to 0.
func (d LDouble) AsInt64() int64 {
	x, nan := native.unpack(&d.b)
	if nan {
		return 0
	}
	v, _ := x.Int64()
	return v
}

// FPClass is the result of Classify.
type FPClass int

const (
	ClassNaN FPClass = iota
	ClassInf
	ClassZero
	ClassSubnormal
	ClassNormal
)

func (c FPClass) String() string {
	switch c {
	case ClassNaN:
		return "nan"
	case ClassInf:
		return "inf"
	case ClassZero:
		return "zero"
	case ClassSubnormal:
		return "subnormal"
	case ClassNormal:
		return "normal"
	}
	return fmt.Sprintf("FPClass(%d)", int(c))
}

// Classify reports which of the five floating point classes d belongs to.
func (d LDouble) Classify() FPClass {
	return classifyFormat(native, d)
}

func classifyFormat(f Format, d LDouble) FPClass {
	switch f.kind {
	case Format80Intel:
		mant := binary.LittleEndian.Uint64(d.b[0:8])
		exp := binary.LittleEndian.Uint16(d.b[8:10]) & x87ExpMask
		switch {
		case exp == x87ExpMask:
			if mant&^x87IntBit == 0 {
				return ClassInf
			}
			return ClassNaN
		case exp == 0:
			if mant == 0 {
				return ClassZero
			}
			return ClassSubnormal
		}
		return ClassNormal

	case Format128:
		if f.mantDig == 106 {
			// Double-double classifies by its high half.
			return classify64(binary.LittleEndian.Uint64(d.b[0:8]))
		}
		lo := binary.LittleEndian.Uint64(d.b[0:8])
		hi := binary.LittleEndian.Uint64(d.b[8:16])
		exp := (hi >> 48) & 0x7FFF
		frac := hi&0xFFFFFFFFFFFF | lo
		switch {
		case exp == 0x7FFF:
			if frac == 0 {
				return ClassInf
			}
			return ClassNaN
		case exp == 0:
			if frac == 0 {
				return ClassZero
			}
			return ClassSubnormal
		}
		return ClassNormal

	default:
		return classify64(binary.LittleEndian.Uint64(d.b[0:8]))
	}
}

func classify64(u uint64) FPClass {
	exp := (u >> 52) & 0x7FF
	frac := u & (1<<52 - 1)
	switch {
	case exp == 0x7FF:
		if frac == 0 {
			return ClassInf
		}
		return ClassNaN
	case exp == 0:
		if frac == 0 {
			return ClassZero
		}
		return ClassSubnormal
	}
	return ClassNormal
}

func (d LDouble) IsNaN() bool { return classifyFormat(native, d) == ClassNaN }

// IsInf reports whether d is an infinity with the given sign: positive if
// sign > 0, negative if sign < 0, either if sign == 0.
func (d LDouble) IsInf(sign int) bool {
	if classifyFormat(native, d) != ClassInf {
		return false
	}
	return sign == 0 || (sign < 0) == d.Signbit()
}

// IsZero reports whether d is zero of either sign.
func (d LDouble) IsZero() bool { return classifyFormat(native, d) == ClassZero }

func (d LDouble) Signbit() bool { return signbitFormat(native, d) }

func signbitFormat(f Format, d LDouble) bool {
	switch f.kind {
	case Format80Intel:
		return d.b[9]&0x80 != 0
	case Format128:
		if f.mantDig == 106 {
			return d.b[7]&0x80 != 0
		}
		return d.b[15]&0x80 != 0
	default:
		return d.b[7]&0x80 != 0
	}
}

// Normalize returns d with negative zero replaced by positive zero and
// every NaN replaced by the canonical quiet NaN. All other values pass
// through untouched, so Normalize is idempotent. Hashing and binary
// encoding normalize implicitly.
func (d LDouble) Normalize() LDouble {
	return normFormat(native, d)
}

func normFormat(f Format, d LDouble) LDouble {
	switch classifyFormat(f, d) {
	case ClassNaN:
		return nanFormat(f)
	case ClassZero:
		return LDouble{}
	}
	return d
}

func cmpFormat(f Format, a, b LDouble) (cmp int, unordered bool) {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	switch {
	case !xnan && !ynan:
		return x.Cmp(y), false
	case xnan && ynan:
		return 0, true
	case xnan:
		return -1, true
	default:
		return 1, true
	}
}

// Cmp returns -1 if d < n, 0 if d == n, and +1 if d > n. Unlike the IEEE
// comparison, the order is total: NaN compares equal to itself and below
// every other value, and the two zeros compare equal.
func (d LDouble) Cmp(n LDouble) int {
	cmp, _ := cmpFormat(native, d, n)
	return cmp
}

// CmpUnordered is Cmp with an out-of-band flag that reports whether either
// operand was NaN, for callers that need the IEEE unordered distinction on
// top of the total order.
func (d LDouble) CmpUnordered(n LDouble) (cmp int, unordered bool) {
	return cmpFormat(native, d, n)
}

// Equal reports whether d and n compare equal under Cmp's total order.
func (d LDouble) Equal(n LDouble) bool { return d.Cmp(n) == 0 }

func (d LDouble) GreaterThan(n LDouble) bool      { return d.Cmp(n) > 0 }
func (d LDouble) GreaterOrEqualTo(n LDouble) bool { return d.Cmp(n) >= 0 }
func (d LDouble) LessThan(n LDouble) bool         { return d.Cmp(n) < 0 }
func (d LDouble) LessOrEqualTo(n LDouble) bool    { return d.Cmp(n) <= 0 }

// displayFloat caps x at the format's working precision for text output.
// Only the double-double layout unpacks wider than it displays.
func displayFloat(f Format, x *big.Float) *big.Float {
	if x.Prec() <= f.prec() {
		return x
	}
	return new(big.Float).SetMode(big.ToNearestEven).SetPrec(f.prec()).Set(x)
}

// String formats d with the minimum digits needed to recover it exactly
// with LDoubleFromString. NaN formats as "NaN", infinities as "+Inf" and
// "-Inf".
func (d LDouble) String() string {
	x, nan := native.unpack(&d.b)
	if nan {
		return "NaN"
	}
	return displayFloat(native, x).Text('g', -1)
}

// Text converts d using the notation and precision rules of big.Float.Text.
func (d LDouble) Text(format byte, prec int) string {
	x, nan := native.unpack(&d.b)
	if nan {
		return "NaN"
	}
	return displayFloat(native, x).Text(format, prec)
}

// FormatFixed renders d in fixed decimal notation with a minimum field
// width and a digit count after the decimal point, the way printf "%*.*f"
// does it. A negative width left-justifies; a negative precision means 6.
func (d LDouble) FormatFixed(width, prec int) string {
	if prec < 0 {
		prec = 6
	}
	x, nan := native.unpack(&d.b)
	var s string
	switch {
	case nan:
		s = "nan"
	case x.IsInf():
		if x.Signbit() {
			s = "-inf"
		} else {
			s = "inf"
		}
	default:
		s = displayFloat(native, x).Text('f', prec)
	}
	left := false
	if width < 0 {
		left, width = true, -width
	}
	if pad := width - len(s); pad > 0 {
		if left {
			return s + strings.Repeat(" ", pad)
		}
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// Format implements fmt.Formatter. The verbs 'e', 'E', 'f', 'F', 'g' and
// 'G' behave as they do for float64; 'v' and 's' format like String.
func (d LDouble) Format(s fmt.State, c rune) {
	// FIXME: This is good enough for now, but it's kind of a hack.
	x, nan := native.unpack(&d.b)
	switch c {
	case 'e', 'E', 'f', 'F', 'g', 'G', 'v':
		if nan {
			writePadded(s, "NaN")
			return
		}
		if c == 'v' {
			c = 'g'
		}
		displayFloat(native, x).Format(s, c)
	case 's':
		writePadded(s, d.String())
	default:
		fmt.Fprintf(s, "%%!%c(ldouble.LDouble=%s)", c, d.String())
	}
}

func writePadded(s fmt.State, str string) {
	w, ok := s.Width()
	if !ok || w <= len(str) {
		io.WriteString(s, str)
		return
	}
	pad := strings.Repeat(" ", w-len(str))
	if s.Flag('-') {
		io.WriteString(s, str)
		io.WriteString(s, pad)
	} else {
		io.WriteString(s, pad)
		io.WriteString(s, str)
	}
}

func (d LDouble) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *LDouble) UnmarshalText(bts []byte) (err error) {
	v, err := LDoubleFromString(string(bts))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d LDouble) MarshalJSON() ([]byte, error) { return []byte(`"` + d.String() + `"`), nil }

func (d *LDouble) UnmarshalJSON(bts []byte) (err error) {
	bts = bytes.TrimSpace(bts)
	if len(bts) >= 2 && bts[0] == '"' && bts[len(bts)-1] == '"' {
		bts = bts[1 : len(bts)-1]
	}
	return d.UnmarshalText(bts)
}

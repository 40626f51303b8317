package ldouble

// The basic operations round correctly on every layout: they are computed
// exactly at twice the format precision and rounded once into the storage
// grid. Transcendentals are faithful to within an ulp or so.

import (
	"fmt"
	"math"
	"math/big"
	"runtime"

	"github.com/ALTree/bigfloat"
)

// Op identifies a facade operation for capability queries.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpAbs
	OpCopysign
	OpSqrt
	OpExp
	OpLog
	OpLog10
	OpExpm1
	OpLog1p
	OpCos
	OpSin
	OpTan
	OpAcos
	OpAsin
	OpAtan
	OpCosh
	OpSinh
	OpTanh
	OpAcosh
	OpAsinh
	OpAtanh
	OpCeil
	OpFloor
	OpPow
	OpAtan2
	OpHypot
	OpRemainder
	OpFrexp
	OpLdexp
	OpModf
	OpClassify
	OpComplexExp
	OpComplexLog
	OpComplexPow
)

var opNames = [...]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
	OpNeg: "neg", OpAbs: "abs", OpCopysign: "copysign",
	OpSqrt: "sqrt", OpExp: "exp", OpLog: "log", OpLog10: "log10",
	OpExpm1: "expm1", OpLog1p: "log1p",
	OpCos: "cos", OpSin: "sin", OpTan: "tan",
	OpAcos: "acos", OpAsin: "asin", OpAtan: "atan",
	OpCosh: "cosh", OpSinh: "sinh", OpTanh: "tanh",
	OpAcosh: "acosh", OpAsinh: "asinh", OpAtanh: "atanh",
	OpCeil: "ceil", OpFloor: "floor",
	OpPow: "pow", OpAtan2: "atan2", OpHypot: "hypot",
	OpRemainder: "remainder",
	OpFrexp: "frexp", OpLdexp: "ldexp", OpModf: "modf",
	OpClassify: "classify",
	OpComplexExp: "cexp", OpComplexLog: "clog", OpComplexPow: "cpow",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

type capabilities struct {
	goos    string
	missing map[Op]bool
}

func capabilitiesFor(goos string) capabilities {
	c := capabilities{goos: goos, missing: map[Op]bool{}}
	switch goos {
	case "netbsd":
		// NetBSD's libm still lacks the long double variants of these.
		c.missing[OpExpm1] = true
		c.missing[OpLog1p] = true
		c.missing[OpRemainder] = true
	case "android", "freebsd":
		c.missing[OpComplexExp] = true
		c.missing[OpComplexLog] = true
		c.missing[OpComplexPow] = true
	}
	return c
}

var caps = capabilitiesFor(runtime.GOOS)

// Supported reports whether op has a working implementation on this
// platform. Calling an unsupported operation returns ErrUnsupported.
func Supported(op Op) bool { return !caps.missing[op] }

func (c capabilities) check(op Op) error {
	if c.missing[op] {
		return ErrUnsupported.New("%v is not available on %s", op, c.goos)
	}
	return nil
}

func (d LDouble) Add(n LDouble) LDouble { return addFormat(native, d, n) }
func (d LDouble) Sub(n LDouble) LDouble { return subFormat(native, d, n) }
func (d LDouble) Mul(n LDouble) LDouble { return mulFormat(native, d, n) }
func (d LDouble) Div(n LDouble) LDouble { return divFormat(native, d, n) }

// Neg returns d with the sign flipped, NaN included; +0 becomes -0 and
// back again.
func (d LDouble) Neg() LDouble { return negFormat(native, d) }

// Abs returns d with the sign cleared.
func (d LDouble) Abs() LDouble { return absFormat(native, d) }

// Copysign returns the magnitude of d with the sign of n.
func (d LDouble) Copysign(n LDouble) LDouble { return copysignFormat(native, d, n) }

func absFormat(f Format, d LDouble) LDouble {
	if signbitFormat(f, d) {
		return negFormat(f, d)
	}
	return d
}

func addFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if xnan || ynan {
		return nanFormat(f)
	}
	if x.IsInf() && y.IsInf() && x.Signbit() != y.Signbit() {
		return nanFormat(f)
	}
	return f.packValue(new(big.Float).SetPrec(arithPrec(f)).Add(x, y))
}

func subFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if xnan || ynan {
		return nanFormat(f)
	}
	if x.IsInf() && y.IsInf() && x.Signbit() == y.Signbit() {
		return nanFormat(f)
	}
	return f.packValue(new(big.Float).SetPrec(arithPrec(f)).Sub(x, y))
}

func mulFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if xnan || ynan {
		return nanFormat(f)
	}
	if (x.Sign() == 0 && y.IsInf()) || (x.IsInf() && y.Sign() == 0) {
		return nanFormat(f)
	}
	return f.packValue(new(big.Float).SetPrec(arithPrec(f)).Mul(x, y))
}

func divFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if xnan || ynan {
		return nanFormat(f)
	}
	if (x.Sign() == 0 && y.Sign() == 0) || (x.IsInf() && y.IsInf()) {
		return nanFormat(f)
	}
	return f.packValue(new(big.Float).SetPrec(arithPrec(f)).Quo(x, y))
}

func negFormat(f Format, d LDouble) LDouble {
	switch f.kind {
	case Format80Intel:
		d.b[9] ^= 0x80
	case Format128:
		if f.mantDig == 106 {
			// Both halves of a double-double flip.
			d.b[7] ^= 0x80
			d.b[15] ^= 0x80
		} else {
			d.b[15] ^= 0x80
		}
	default:
		d.b[7] ^= 0x80
	}
	return d
}

// Sqrt returns the square root of d. Negative arguments, -Inf included,
// produce NaN; ±0 and +Inf pass through.
func (d LDouble) Sqrt() LDouble { return sqrtFormat(native, d) }

func sqrtFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan || x.Sign() < 0 {
		return nanFormat(f)
	}
	return f.packValue(new(big.Float).SetPrec(arithPrec(f)).Sqrt(x))
}

// Exp returns e**d.
func (d LDouble) Exp() LDouble { return expFormat(native, d) }

// Log returns the natural logarithm of d.
func (d LDouble) Log() LDouble { return logFormat(native, d) }

// Log10 returns the decimal logarithm of d.
func (d LDouble) Log10() LDouble { return log10Format(native, d) }

// Expm1 returns e**d - 1, keeping precision for small d where Exp would
// lose it. NetBSD has no expm1l; there the call fails with ErrUnsupported
// and Supported(OpExpm1) reports false.
func (d LDouble) Expm1() (LDouble, error) { return expm1Guarded(native, caps, d) }

// Log1p returns log(1 + d), keeping precision for small d. NetBSD has no
// log1pl; there the call fails with ErrUnsupported.
func (d LDouble) Log1p() (LDouble, error) { return log1pGuarded(native, caps, d) }

func expFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() {
		if x.Signbit() {
			return LDouble{} // exp(-Inf) is +0
		}
		return infFormat(f, 1)
	}
	if x.Sign() == 0 {
		return f.packValue(bigOne)
	}
	// Keep the intermediate exponent well inside big.Float's range.
	if absBeyond(x, 1<<24) {
		if x.Signbit() {
			return LDouble{}
		}
		return infFormat(f, 1)
	}
	return f.packValue(bigfloat.Exp(withPrec(f, x)))
}

func expm1Format(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() {
		if x.Signbit() {
			return f.packValue(bigNegOne)
		}
		return infFormat(f, 1)
	}
	if x.Sign() == 0 || tinyExp(f, x) {
		return d
	}
	if absBeyond(x, 1<<24) {
		if x.Signbit() {
			return f.packValue(bigNegOne)
		}
		return infFormat(f, 1)
	}
	z := bigfloat.Exp(withPrec(f, x))
	z.Sub(z, bigOne)
	return f.packValue(z)
}

func logFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.Sign() == 0 {
		return infFormat(f, -1)
	}
	if x.Signbit() {
		return nanFormat(f)
	}
	if x.IsInf() {
		return infFormat(f, 1)
	}
	if x.Cmp(bigOne) == 0 {
		return LDouble{}
	}
	return f.packValue(bigfloat.Log(withPrec(f, x)))
}

func log10Format(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.Sign() == 0 {
		return infFormat(f, -1)
	}
	if x.Signbit() {
		return nanFormat(f)
	}
	if x.IsInf() {
		return infFormat(f, 1)
	}
	if x.Cmp(bigOne) == 0 {
		return LDouble{}
	}
	z := bigfloat.Log(withPrec(f, x))
	ln10 := bigfloat.Log(new(big.Float).SetPrec(arithPrec(f)).SetInt64(10))
	return f.packValue(z.Quo(z, ln10))
}

func log1pFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() {
		if x.Signbit() {
			return nanFormat(f)
		}
		return infFormat(f, 1)
	}
	if x.Sign() == 0 || tinyExp(f, x) {
		return d
	}
	u := new(big.Float).SetPrec(arithPrec(f)).Add(bigOne, x)
	if u.Sign() == 0 {
		return infFormat(f, -1) // log1p(-1)
	}
	if u.Signbit() {
		return nanFormat(f) // d < -1
	}
	return f.packValue(bigfloat.Log(u))
}

func expm1Guarded(f Format, c capabilities, d LDouble) (LDouble, error) {
	if err := c.check(OpExpm1); err != nil {
		return nanFormat(f), err
	}
	return expm1Format(f, d), nil
}

func log1pGuarded(f Format, c capabilities, d LDouble) (LDouble, error) {
	if err := c.check(OpLog1p); err != nil {
		return nanFormat(f), err
	}
	return log1pFormat(f, d), nil
}

func (d LDouble) Cos() LDouble { return float64UnaryFormat(native, d, math.Cos) }
func (d LDouble) Sin() LDouble { return float64UnaryFormat(native, d, math.Sin) }
func (d LDouble) Tan() LDouble { return float64UnaryFormat(native, d, math.Tan) }

// Acos returns the arc cosine of d, NaN outside [-1, 1].
func (d LDouble) Acos() LDouble { return acosFormat(native, d) }

// Asin returns the arc sine of d, NaN outside [-1, 1].
func (d LDouble) Asin() LDouble { return asinFormat(native, d) }

// Atan returns the arc tangent of d.
func (d LDouble) Atan() LDouble { return float64UnaryFormat(native, d, math.Atan) }

// Atan2 returns the angle of the point (n, d), honouring the signs of
// both coordinates the way atan2l does.
func (d LDouble) Atan2(n LDouble) LDouble { return atan2Format(native, d, n) }

// The circular functions go through float64: proper argument reduction at
// quad precision needs a few hundred bits of 2/pi.
// FIXME: This is good enough for now, but not forever.
func float64UnaryFormat(f Format, d LDouble, fn func(float64) float64) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	v, _ := x.Float64()
	return fromFloat64Format(f, fn(v))
}

func acosFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan || absBeyondOne(x) {
		return nanFormat(f)
	}
	v, _ := x.Float64()
	return fromFloat64Format(f, math.Acos(v))
}

func asinFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan || absBeyondOne(x) {
		return nanFormat(f)
	}
	v, _ := x.Float64()
	return fromFloat64Format(f, math.Asin(v))
}

func atan2Format(f Format, a, b LDouble) LDouble {
	y, ynan := f.unpack(&a.b)
	x, xnan := f.unpack(&b.b)
	if ynan || xnan {
		return nanFormat(f)
	}
	yv, _ := y.Float64()
	xv, _ := x.Float64()
	return fromFloat64Format(f, math.Atan2(yv, xv))
}

// Cosh returns the hyperbolic cosine of d.
func (d LDouble) Cosh() LDouble { return coshFormat(native, d) }

// Sinh returns the hyperbolic sine of d.
func (d LDouble) Sinh() LDouble { return sinhFormat(native, d) }

// Tanh returns the hyperbolic tangent of d.
func (d LDouble) Tanh() LDouble { return tanhFormat(native, d) }

func coshFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() || absBeyond(x, 1<<24) {
		return infFormat(f, 1)
	}
	if x.Sign() == 0 {
		return f.packValue(bigOne)
	}
	wp := arithPrec(f)
	e := bigfloat.Exp(withPrec(f, x))
	ei := new(big.Float).SetPrec(wp).Quo(bigOne, e)
	z := new(big.Float).SetPrec(wp).Add(e, ei)
	return f.packValue(z.Quo(z, bigTwo))
}

func sinhFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() || x.Sign() == 0 || tinyExp(f, x) {
		return d
	}
	if absBeyond(x, 1<<24) {
		return infFormat(f, signOf(x))
	}
	wp := arithPrec(f)
	e := bigfloat.Exp(withPrec(f, x))
	ei := new(big.Float).SetPrec(wp).Quo(bigOne, e)
	z := new(big.Float).SetPrec(wp).Sub(e, ei)
	return f.packValue(z.Quo(z, bigTwo))
}

func tanhFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.Sign() == 0 || tinyExp(f, x) {
		return d
	}
	if x.IsInf() || absBeyond(x, float64(f.mantDig+2)) {
		if x.Signbit() {
			return f.packValue(bigNegOne)
		}
		return f.packValue(bigOne)
	}
	wp := arithPrec(f)
	x2 := new(big.Float).SetPrec(wp).Add(x, x)
	e := bigfloat.Exp(x2)
	num := new(big.Float).SetPrec(wp).Sub(e, bigOne)
	den := new(big.Float).SetPrec(wp).Add(e, bigOne)
	return f.packValue(num.Quo(num, den))
}

// Acosh returns the inverse hyperbolic cosine of d, NaN below 1.
func (d LDouble) Acosh() LDouble { return acoshFormat(native, d) }

// Asinh returns the inverse hyperbolic sine of d.
func (d LDouble) Asinh() LDouble { return asinhFormat(native, d) }

// Atanh returns the inverse hyperbolic tangent of d: NaN outside [-1, 1]
// and ±Inf at the ends.
func (d LDouble) Atanh() LDouble { return atanhFormat(native, d) }

func acoshFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	switch c := x.Cmp(bigOne); {
	case c < 0:
		return nanFormat(f) // domain is x >= 1, -Inf lands here
	case c == 0:
		return LDouble{}
	}
	if x.IsInf() {
		return infFormat(f, 1)
	}
	// log(x + sqrt((x-1)(x+1))) avoids the cancellation in x*x - 1.
	wp := arithPrec(f)
	xm1 := new(big.Float).SetPrec(wp).Sub(x, bigOne)
	xp1 := new(big.Float).SetPrec(wp).Add(x, bigOne)
	s := xm1.Mul(xm1, xp1)
	s.Sqrt(s)
	return f.packValue(bigfloat.Log(s.Add(s, x)))
}

func asinhFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() || x.Sign() == 0 || tinyExp(f, x) {
		return d
	}
	wp := arithPrec(f)
	ax := new(big.Float).SetPrec(wp).Abs(x)
	s := new(big.Float).SetPrec(wp).Mul(ax, ax)
	s.Add(s, bigOne)
	s.Sqrt(s)
	z := bigfloat.Log(s.Add(s, ax))
	if x.Signbit() {
		z.Neg(z)
	}
	return f.packValue(z)
}

func atanhFormat(f Format, d LDouble) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.Sign() == 0 {
		return d
	}
	ax := new(big.Float).Abs(x)
	switch c := ax.Cmp(bigOne); {
	case c == 0:
		return infFormat(f, signOf(x))
	case c > 0:
		return nanFormat(f) // |d| > 1, infinities included
	}
	if tinyExp(f, x) {
		return d
	}
	wp := arithPrec(f)
	num := new(big.Float).SetPrec(wp).Add(bigOne, ax)
	den := new(big.Float).SetPrec(wp).Sub(bigOne, ax)
	z := bigfloat.Log(num.Quo(num, den))
	z.Quo(z, bigTwo)
	if x.Signbit() {
		z.Neg(z)
	}
	return f.packValue(z)
}

// Pow returns d**n with the full IEEE special value grid: 1**n and d**0
// are 1 even for NaN, a negative base demands an integer exponent, and
// zero or infinite operands follow pow(3).
func (d LDouble) Pow(n LDouble) LDouble { return powFormat(native, d, n) }

func powFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)

	if !xnan && !x.IsInf() && x.Cmp(bigOne) == 0 {
		return a // 1**y is 1, NaN y included
	}
	if !ynan && y.Sign() == 0 {
		return f.packValue(bigOne) // x**0 is 1, NaN x included
	}
	if xnan || ynan {
		return nanFormat(f)
	}

	ax := new(big.Float).Abs(x)
	if y.IsInf() {
		if ax.Cmp(bigOne) == 0 {
			return f.packValue(bigOne) // (-1)**±Inf
		}
		if (ax.Cmp(bigOne) > 0) == !y.Signbit() {
			return infFormat(f, 1)
		}
		return LDouble{}
	}
	if x.IsInf() {
		neg := x.Signbit() && oddInt(y)
		if y.Signbit() {
			return zeroFormat(f, neg)
		}
		if neg {
			return infFormat(f, -1)
		}
		return infFormat(f, 1)
	}
	if x.Sign() == 0 {
		neg := x.Signbit() && oddInt(y)
		if y.Signbit() {
			if neg {
				return infFormat(f, -1)
			}
			return infFormat(f, 1)
		}
		return zeroFormat(f, neg)
	}

	sign := 1
	if x.Signbit() {
		if !y.IsInt() {
			return nanFormat(f)
		}
		if oddInt(y) {
			sign = -1
		}
	}
	if ax.Cmp(bigOne) == 0 {
		if sign < 0 {
			return f.packValue(bigNegOne)
		}
		return f.packValue(bigOne)
	}

	wp := arithPrec(f)
	t := new(big.Float).SetPrec(wp).Mul(y, bigfloat.Log(new(big.Float).SetPrec(wp).Set(ax)))
	if absBeyond(t, 1<<24) {
		if t.Signbit() {
			return zeroFormat(f, sign < 0)
		}
		return infFormat(f, sign)
	}
	z := bigfloat.Exp(t)
	if sign < 0 {
		z.Neg(z)
	}
	return f.packValue(z)
}

// Hypot returns sqrt(d*d + n*n) without intermediate overflow. An
// infinite leg wins even when the other is NaN.
func (d LDouble) Hypot(n LDouble) LDouble { return hypotFormat(native, d, n) }

func hypotFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if (!xnan && x.IsInf()) || (!ynan && y.IsInf()) {
		return infFormat(f, 1)
	}
	if xnan || ynan {
		return nanFormat(f)
	}
	wp := arithPrec(f)
	xx := new(big.Float).SetPrec(wp).Mul(x, x)
	yy := new(big.Float).SetPrec(wp).Mul(y, y)
	z := xx.Add(xx, yy)
	return f.packValue(z.Sqrt(z))
}

// Remainder returns the IEEE 754 remainder of d by n: d - k*n with k the
// integer nearest d/n, ties to even. The result is exact and lies within
// half of |n| of zero. NetBSD has no remainderl; there the call fails
// with ErrUnsupported.
func (d LDouble) Remainder(n LDouble) (LDouble, error) {
	return remainderGuarded(native, caps, d, n)
}

func remainderGuarded(f Format, c capabilities, a, b LDouble) (LDouble, error) {
	if err := c.check(OpRemainder); err != nil {
		return nanFormat(f), err
	}
	return remainderFormat(f, a, b), nil
}

func remainderFormat(f Format, a, b LDouble) LDouble {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if xnan || ynan || x.IsInf() || y.Sign() == 0 {
		return nanFormat(f)
	}
	if y.IsInf() || x.Sign() == 0 {
		return a
	}

	// Exact: both magnitudes become integers on a shared power-of-two
	// grid, so the nearest multiple falls out of one division.
	xm, xe := mantInt(x)
	ym, ye := mantInt(y)
	g := xe
	if ye < g {
		g = ye
	}
	xm.Lsh(xm, uint(xe-g))
	ym.Lsh(ym, uint(ye-g))

	q, r := new(big.Int).QuoRem(xm, ym, new(big.Int))
	r2 := new(big.Int).Lsh(r, 1)
	if c := r2.Cmp(ym); c > 0 || (c == 0 && q.Bit(0) == 1) {
		r.Sub(r, ym)
	}
	if r.Sign() == 0 {
		return zeroFormat(f, x.Signbit())
	}
	z := new(big.Float).SetMantExp(new(big.Float).SetInt(r), g)
	if x.Signbit() {
		z.Neg(z)
	}
	return f.packValue(z)
}

// mantInt decomposes |x| into an integer mantissa and a base-2 exponent.
func mantInt(x *big.Float) (*big.Int, int) {
	m := new(big.Float)
	e := x.MantExp(m)
	p := int(m.Prec())
	n, _ := new(big.Float).SetMantExp(m, p).Int(nil)
	n.Abs(n)
	return n, e - p
}

// Frexp splits d into a fraction in [0.5, 1) and a power of two. Zeros,
// infinities and NaN return themselves with a zero exponent.
func (d LDouble) Frexp() (frac LDouble, exp int) { return frexpFormat(native, d) }

func frexpFormat(f Format, d LDouble) (LDouble, int) {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f), 0
	}
	if x.IsInf() || x.Sign() == 0 {
		return d, 0
	}
	m := new(big.Float)
	e := x.MantExp(m)
	return f.packValue(m), e
}

// Ldexp returns d × 2**exp.
func (d LDouble) Ldexp(exp int) LDouble { return ldexpFormat(native, d, exp) }

func ldexpFormat(f Format, d LDouble, exp int) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() || x.Sign() == 0 {
		return d
	}
	// Saturate the shift; anything this size over- or underflows in
	// quantization anyway.
	if exp > 1<<20 {
		exp = 1 << 20
	} else if exp < -(1 << 20) {
		exp = -(1 << 20)
	}
	m := new(big.Float)
	e := x.MantExp(m)
	return f.packValue(new(big.Float).SetMantExp(m, e+exp))
}

// Modf splits d into integer and fractional parts that share its sign.
func (d LDouble) Modf() (i, frac LDouble) { return modfFormat(native, d) }

func modfFormat(f Format, d LDouble) (i, frac LDouble) {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f), nanFormat(f)
	}
	neg := x.Signbit()
	if x.IsInf() {
		return d, zeroFormat(f, neg)
	}
	if x.Sign() == 0 {
		return d, d
	}
	if x.MantExp(nil) <= 0 { // |d| < 1
		return zeroFormat(f, neg), d
	}
	n, acc := x.Int(nil)
	if acc == big.Exact {
		return d, zeroFormat(f, neg)
	}
	ip := new(big.Float).SetInt(n)
	fr := new(big.Float).SetPrec(arithPrec(f)).Sub(x, ip)
	return f.packValue(ip), f.packValue(fr)
}

// Ceil returns the least integer value greater than or equal to d.
func (d LDouble) Ceil() LDouble { return roundIntFormat(native, d, true) }

// Floor returns the greatest integer value less than or equal to d.
func (d LDouble) Floor() LDouble { return roundIntFormat(native, d, false) }

func roundIntFormat(f Format, d LDouble, up bool) LDouble {
	x, nan := f.unpack(&d.b)
	if nan {
		return nanFormat(f)
	}
	if x.IsInf() || x.Sign() == 0 {
		return d
	}
	n, acc := x.Int(nil)
	if acc == big.Exact {
		return d
	}
	if up && x.Sign() > 0 {
		n.Add(n, bigIntOne)
	} else if !up && x.Sign() < 0 {
		n.Sub(n, bigIntOne)
	}
	if n.Sign() == 0 {
		// ceil of (-1, -0] is -0; floor of [+0, 1) is +0
		return zeroFormat(f, up)
	}
	return f.packValue(new(big.Float).SetInt(n))
}

func arithPrec(f Format) uint { return 2*f.prec() + 4 }

func withPrec(f Format, x *big.Float) *big.Float {
	return new(big.Float).SetPrec(arithPrec(f)).Set(x)
}

func absBeyond(x *big.Float, limit float64) bool {
	return new(big.Float).Abs(x).Cmp(big.NewFloat(limit)) > 0
}

func absBeyondOne(x *big.Float) bool {
	return new(big.Float).Abs(x).Cmp(bigOne) > 0
}

// tinyExp reports whether nonzero x is small enough that x itself is the
// correctly rounded value of the odd functions near zero.
func tinyExp(f Format, x *big.Float) bool {
	return x.MantExp(nil) <= -(f.mantDig + 2)
}

func signOf(x *big.Float) int {
	if x.Signbit() {
		return -1
	}
	return 1
}

func oddInt(y *big.Float) bool {
	if y.IsInf() || !y.IsInt() {
		return false
	}
	i, _ := y.Int(nil)
	return i.Bit(0) == 1
}

var (
	bigOne    = big.NewFloat(1)
	bigNegOne = big.NewFloat(-1)
	bigTwo    = big.NewFloat(2)
	bigIntOne = big.NewInt(1)
)

package ldouble

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Complex is a pair of long doubles forming a complex value.
type Complex struct {
	re, im LDouble
}

func MakeComplex(re, im LDouble) Complex { return Complex{re: re, im: im} }

func (c Complex) Real() LDouble { return c.re }
func (c Complex) Imag() LDouble { return c.im }

func ComplexFromComplex128(v complex128) Complex {
	return Complex{re: LDoubleFromFloat64(real(v)), im: LDoubleFromFloat64(imag(v))}
}

// AsComplex128 narrows both components, rounding to nearest.
func (c Complex) AsComplex128() complex128 {
	return complex(c.re.AsFloat64(), c.im.AsFloat64())
}

// Normalize canonicalises both components; see LDouble.Normalize.
func (c Complex) Normalize() Complex {
	return Complex{re: c.re.Normalize(), im: c.im.Normalize()}
}

// Cmp orders lexicographically: real parts first, imaginary parts as the
// tie-break. NaN components sort below numbers, as for LDouble.
func (c Complex) Cmp(n Complex) int {
	cmp, _ := c.CmpUnordered(n)
	return cmp
}

// CmpUnordered is Cmp with a flag reporting whether any of the four
// components was NaN.
func (c Complex) CmpUnordered(n Complex) (cmp int, unordered bool) {
	rc, ru := cmpFormat(native, c.re, n.re)
	ic, iu := cmpFormat(native, c.im, n.im)
	if rc != 0 {
		return rc, ru || iu
	}
	return ic, ru || iu
}

// Equal reports whether c and n compare equal under Cmp's total order.
func (c Complex) Equal(n Complex) bool { return c.Cmp(n) == 0 }

func (c Complex) String() string {
	im := c.im.String()
	if len(im) > 0 && (im[0] == '-' || im[0] == '+') {
		return "(" + c.re.String() + im + "i)"
	}
	return "(" + c.re.String() + "+" + im + "i)"
}

func (c Complex) Add(n Complex) Complex {
	return Complex{re: c.re.Add(n.re), im: c.im.Add(n.im)}
}

func (c Complex) Sub(n Complex) Complex {
	return Complex{re: c.re.Sub(n.re), im: c.im.Sub(n.im)}
}

func (c Complex) Mul(n Complex) Complex { return mulComplexFormat(native, c, n) }
func (c Complex) Div(n Complex) Complex { return divComplexFormat(native, c, n) }

func (c Complex) Neg() Complex { return Complex{re: c.re.Neg(), im: c.im.Neg()} }

// Conj returns the complex conjugate of c.
func (c Complex) Conj() Complex { return Complex{re: c.re, im: c.im.Neg()} }

// Arg returns the phase angle of c in (-π, π], following atan2.
func (c Complex) Arg() LDouble { return atan2Format(native, c.im, c.re) }

// Sqrt returns the principal square root of c, with the branch cut along
// the negative real axis.
func (c Complex) Sqrt() Complex { return sqrtComplexFormat(native, c) }

// Exp returns e**c. Android and FreeBSD ship no cexpl; there the call
// fails with ErrUnsupported and Supported(OpComplexExp) reports false.
func (c Complex) Exp() (Complex, error) { return cexpGuarded(native, caps, c) }

// Log returns the principal natural logarithm of c. Android and FreeBSD
// ship no clogl; there the call fails with ErrUnsupported.
func (c Complex) Log() (Complex, error) { return clogGuarded(native, caps, c) }

// Pow returns c**n as exp(n log c). Android and FreeBSD ship no cpowl;
// there the call fails with ErrUnsupported.
func (c Complex) Pow(n Complex) (Complex, error) { return cpowGuarded(native, caps, c, n) }

// mulComplexFormat is the schoolbook product with the infinity recovery
// from C annex G: a result that collapsed to NaN+NaNi is recomputed with
// the infinite operand boxed to unit components.
func mulComplexFormat(f Format, z, w Complex) Complex {
	a, b := z.re, z.im
	c, d := w.re, w.im

	ac := mulFormat(f, a, c)
	bd := mulFormat(f, b, d)
	ad := mulFormat(f, a, d)
	bc := mulFormat(f, b, c)
	x := subFormat(f, ac, bd)
	y := addFormat(f, ad, bc)

	if classifyFormat(f, x) == ClassNaN && classifyFormat(f, y) == ClassNaN {
		recalc := false
		if classifyFormat(f, a) == ClassInf || classifyFormat(f, b) == ClassInf {
			a, b = boxInf(f, a), boxInf(f, b)
			c, d = nanToZero(f, c), nanToZero(f, d)
			recalc = true
		}
		if classifyFormat(f, c) == ClassInf || classifyFormat(f, d) == ClassInf {
			c, d = boxInf(f, c), boxInf(f, d)
			a, b = nanToZero(f, a), nanToZero(f, b)
			recalc = true
		}
		if !recalc && (classifyFormat(f, ac) == ClassInf || classifyFormat(f, bd) == ClassInf ||
			classifyFormat(f, ad) == ClassInf || classifyFormat(f, bc) == ClassInf) {
			a, b = nanToZero(f, a), nanToZero(f, b)
			c, d = nanToZero(f, c), nanToZero(f, d)
			recalc = true
		}
		if recalc {
			inf := infFormat(f, 1)
			x = mulFormat(f, inf, subFormat(f, mulFormat(f, a, c), mulFormat(f, b, d)))
			y = mulFormat(f, inf, addFormat(f, mulFormat(f, a, d), mulFormat(f, b, c)))
		}
	}
	return Complex{re: x, im: y}
}

// divComplexFormat uses Smith's algorithm, scaling by the larger
// denominator component, with the annex G zero and infinity recovery.
func divComplexFormat(f Format, z, w Complex) Complex {
	a, b := z.re, z.im
	c, d := w.re, w.im

	var x, y LDouble
	if cmpAbsLess(f, c, d) {
		ratio := divFormat(f, c, d)
		denom := addFormat(f, mulFormat(f, c, ratio), d)
		x = divFormat(f, addFormat(f, mulFormat(f, a, ratio), b), denom)
		y = divFormat(f, subFormat(f, mulFormat(f, b, ratio), a), denom)
	} else {
		ratio := divFormat(f, d, c)
		denom := addFormat(f, c, mulFormat(f, d, ratio))
		x = divFormat(f, addFormat(f, a, mulFormat(f, b, ratio)), denom)
		y = divFormat(f, subFormat(f, b, mulFormat(f, a, ratio)), denom)
	}

	if classifyFormat(f, x) == ClassNaN && classifyFormat(f, y) == ClassNaN {
		switch {
		case classifyFormat(f, c) == ClassZero && classifyFormat(f, d) == ClassZero &&
			(classifyFormat(f, a) != ClassNaN || classifyFormat(f, b) != ClassNaN):
			sc := copysignFormat(f, infFormat(f, 1), c)
			x = mulFormat(f, sc, a)
			y = mulFormat(f, sc, b)
		case (classifyFormat(f, a) == ClassInf || classifyFormat(f, b) == ClassInf) &&
			finiteFormat(f, c) && finiteFormat(f, d):
			a, b = boxInf(f, a), boxInf(f, b)
			inf := infFormat(f, 1)
			x = mulFormat(f, inf, addFormat(f, mulFormat(f, a, c), mulFormat(f, b, d)))
			y = mulFormat(f, inf, subFormat(f, mulFormat(f, b, c), mulFormat(f, a, d)))
		case (classifyFormat(f, c) == ClassInf || classifyFormat(f, d) == ClassInf) &&
			finiteFormat(f, a) && finiteFormat(f, b):
			c, d = boxInf(f, c), boxInf(f, d)
			x = mulFormat(f, LDouble{}, addFormat(f, mulFormat(f, a, c), mulFormat(f, b, d)))
			y = mulFormat(f, LDouble{}, subFormat(f, mulFormat(f, b, c), mulFormat(f, a, d)))
		}
	}
	return Complex{re: x, im: y}
}

func sqrtComplexFormat(f Format, z Complex) Complex {
	a, anan := f.unpack(&z.re.b)
	b, bnan := f.unpack(&z.im.b)

	if !bnan && b.IsInf() {
		// sqrt(x ± Infi) is +Inf ± Infi for every x, NaN included.
		return Complex{re: infFormat(f, 1), im: z.im}
	}
	if anan || bnan {
		if !anan && a.IsInf() {
			if a.Signbit() {
				return Complex{re: nanFormat(f), im: infFormat(f, 1)}
			}
			return Complex{re: infFormat(f, 1), im: nanFormat(f)}
		}
		return cNaN(f)
	}
	if a.IsInf() {
		if a.Signbit() {
			return Complex{re: LDouble{}, im: copysignFormat(f, infFormat(f, 1), z.im)}
		}
		return Complex{re: infFormat(f, 1), im: copysignFormat(f, LDouble{}, z.im)}
	}
	if a.Sign() == 0 && b.Sign() == 0 {
		return Complex{re: LDouble{}, im: copysignFormat(f, LDouble{}, z.im)}
	}

	// The half-angle form: the real part is sqrt((|z| + |re|)/2), the
	// other part follows from im / (2 re).
	wp := arithPrec(f)
	aa := new(big.Float).SetPrec(wp).Mul(a, a)
	bb := new(big.Float).SetPrec(wp).Mul(b, b)
	mod := aa.Add(aa, bb)
	mod.Sqrt(mod)
	t := new(big.Float).SetPrec(wp).Abs(a)
	t.Add(t, mod)
	t.Quo(t, bigTwo)
	t.Sqrt(t)
	t2 := new(big.Float).SetPrec(wp).Add(t, t)

	if a.Sign() >= 0 {
		im := new(big.Float).SetPrec(wp).Quo(b, t2)
		return Complex{re: f.packValue(t), im: f.packValue(im)}
	}
	re := new(big.Float).SetPrec(wp).Abs(b)
	re.Quo(re, t2)
	im := f.packValue(t)
	if b.Signbit() {
		im = negFormat(f, im)
	}
	return Complex{re: f.packValue(re), im: im}
}

func cexpGuarded(f Format, cp capabilities, z Complex) (Complex, error) {
	if err := cp.check(OpComplexExp); err != nil {
		return cNaN(f), err
	}
	return cexpFormat(f, z), nil
}

func clogGuarded(f Format, cp capabilities, z Complex) (Complex, error) {
	if err := cp.check(OpComplexLog); err != nil {
		return cNaN(f), err
	}
	return clogFormat(f, z), nil
}

func cpowGuarded(f Format, cp capabilities, z, w Complex) (Complex, error) {
	if err := cp.check(OpComplexPow); err != nil {
		return cNaN(f), err
	}
	return cexpFormat(f, mulComplexFormat(f, w, clogFormat(f, z))), nil
}

func cexpFormat(f Format, z Complex) Complex {
	a, anan := f.unpack(&z.re.b)
	b, bnan := f.unpack(&z.im.b)

	if anan {
		if !bnan && b.Sign() == 0 {
			return Complex{re: nanFormat(f), im: z.im}
		}
		return cNaN(f)
	}
	if bnan || b.IsInf() {
		switch {
		case a.IsInf() && !a.Signbit():
			return Complex{re: infFormat(f, 1), im: nanFormat(f)}
		case a.IsInf():
			return Complex{re: LDouble{}, im: LDouble{}}
		default:
			return cNaN(f)
		}
	}
	if a.IsInf() && !a.Signbit() && b.Sign() == 0 {
		return Complex{re: infFormat(f, 1), im: z.im}
	}

	bv, _ := b.Float64()
	cosb, sinb := math.Cos(bv), math.Sin(bv)
	switch {
	case a.IsInf() && !a.Signbit(),
		!a.IsInf() && !a.Signbit() && absBeyond(a, 1<<24):
		return Complex{re: infFormat(f, signFromFloat(cosb)), im: infFormat(f, signFromFloat(sinb))}
	case a.IsInf(), absBeyond(a, 1<<24):
		return Complex{re: zeroFormat(f, math.Signbit(cosb)), im: zeroFormat(f, math.Signbit(sinb))}
	}

	wp := arithPrec(f)
	m := new(big.Float).SetPrec(wp).Set(bigOne)
	if a.Sign() != 0 {
		m = bigfloat.Exp(withPrec(f, a))
	}
	re := f.packValue(new(big.Float).SetPrec(wp).Mul(m, big.NewFloat(cosb)))
	im := f.packValue(new(big.Float).SetPrec(wp).Mul(m, big.NewFloat(sinb)))
	return Complex{re: re, im: im}
}

func clogFormat(f Format, z Complex) Complex {
	x, xnan := f.unpack(&z.re.b)
	y, ynan := f.unpack(&z.im.b)

	im := atan2Format(f, z.im, z.re)
	var re LDouble
	switch {
	case (!xnan && x.IsInf()) || (!ynan && y.IsInf()):
		re = infFormat(f, 1)
	case xnan || ynan:
		re = nanFormat(f)
	case x.Sign() == 0 && y.Sign() == 0:
		re = infFormat(f, -1)
	default:
		// Half the log of the exact squared modulus; big.Float has the
		// exponent headroom, so no overflow scaling is needed.
		wp := arithPrec(f)
		xx := new(big.Float).SetPrec(wp).Mul(x, x)
		yy := new(big.Float).SetPrec(wp).Mul(y, y)
		s := xx.Add(xx, yy)
		if s.Cmp(bigOne) == 0 {
			re = LDouble{}
			break
		}
		l := bigfloat.Log(s)
		re = f.packValue(l.Quo(l, bigTwo))
	}
	return Complex{re: re, im: im}
}

func cNaN(f Format) Complex {
	return Complex{re: nanFormat(f), im: nanFormat(f)}
}

func copysignFormat(f Format, d, sign LDouble) LDouble {
	if signbitFormat(f, d) == signbitFormat(f, sign) {
		return d
	}
	return negFormat(f, d)
}

// boxInf projects a component of an infinite operand: infinities become
// ±1, everything else collapses to a signed zero.
func boxInf(f Format, d LDouble) LDouble {
	if classifyFormat(f, d) == ClassInf {
		return copysignFormat(f, f.packValue(bigOne), d)
	}
	return copysignFormat(f, LDouble{}, d)
}

func signFromFloat(v float64) int {
	if math.Signbit(v) {
		return -1
	}
	return 1
}

func nanToZero(f Format, d LDouble) LDouble {
	if classifyFormat(f, d) == ClassNaN {
		return copysignFormat(f, LDouble{}, d)
	}
	return d
}

func finiteFormat(f Format, d LDouble) bool {
	switch classifyFormat(f, d) {
	case ClassInf, ClassNaN:
		return false
	}
	return true
}

func cmpAbsLess(f Format, a, b LDouble) bool {
	x, xnan := f.unpack(&a.b)
	y, ynan := f.unpack(&b.b)
	if xnan || ynan {
		return false
	}
	return new(big.Float).Abs(x).Cmp(new(big.Float).Abs(y)) < 0
}

// ComplexEncodedSize returns the number of bytes Complex.MarshalBinary
// produces: one tag byte and two payloads.
func ComplexEncodedSize() int { return 2*native.wireSize() - 1 }

// MarshalBinary implements encoding.BinaryMarshaler. Both components are
// normalized and written after a single format tag.
func (c Complex) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, ComplexEncodedSize()))
}

// AppendBinary appends the wire encoding of c to b and returns the
// extended buffer.
func (c Complex) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, byte(native.mantDig))
	b = appendPayload(native, b, c.re)
	b = appendPayload(native, b, c.im)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler with the same
// format tag rules as LDouble.UnmarshalBinary.
func (c *Complex) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return ErrInvalidArgument.New("complex wire data is empty")
	}
	if int(data[0]) != native.mantDig {
		return ErrFormatMismatch.New("invalid long double size: tag %d, want %d", data[0], native.mantDig)
	}
	re, rest, err := decodePayload(native, data[1:])
	if err != nil {
		return err
	}
	im, rest, err := decodePayload(native, rest)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrInvalidArgument.New("complex wire data has %d trailing bytes", len(rest))
	}
	c.re, c.im = re, im
	return nil
}

package ldouble

import (
	"encoding/binary"
	"math"
	"math/big"
)

// This file owns the byte layouts: expanding a storage image into an exact
// big.Float (plus a NaN flag, which big.Float cannot carry) and quantizing a
// big.Float back into the image with IEEE round-to-nearest-even, gradual
// underflow and overflow-to-infinity.

const (
	f64SignBit  = uint64(1) << 63
	f64QuietNaN = uint64(0x7FF8000000000000)

	x87SignMask = uint16(0x8000)
	x87ExpMask  = uint16(0x7FFF)
	x87Bias     = 16383
	x87IntBit   = uint64(1) << 63

	quadBias     = 16383
	quadFracBits = 112
)

// unpack expands the storage image into its exact numeric value. NaN has no
// big.Float form, so it travels out of band.
func (f Format) unpack(b *[16]byte) (x *big.Float, nan bool) {
	switch f.kind {
	case Format80Intel:
		mant := binary.LittleEndian.Uint64(b[0:8])
		se := binary.LittleEndian.Uint16(b[8:10])
		return unpack80(mant, se)
	case Format128:
		if f.mantDig == 106 {
			hi := math.Float64frombits(binary.LittleEndian.Uint64(b[0:8]))
			lo := math.Float64frombits(binary.LittleEndian.Uint64(b[8:16]))
			return unpackDD(hi, lo)
		}
		lo := binary.LittleEndian.Uint64(b[0:8])
		hi := binary.LittleEndian.Uint64(b[8:16])
		return unpack128(hi, lo)
	default:
		v := math.Float64frombits(binary.LittleEndian.Uint64(b[0:8]))
		if math.IsNaN(v) {
			return nil, true
		}
		return new(big.Float).SetPrec(53).SetFloat64(v), false
	}
}

// pack quantizes x to the format and writes the storage image. A true nan
// flag produces the canonical quiet NaN for the format regardless of x.
func (f Format) pack(x *big.Float, nan bool) (b [16]byte) {
	switch f.kind {
	case Format80Intel:
		mant, se := pack80(x, nan)
		binary.LittleEndian.PutUint64(b[0:8], mant)
		binary.LittleEndian.PutUint16(b[8:10], se)
	case Format128:
		if f.mantDig == 106 {
			hi, lo := packDD(x, nan)
			binary.LittleEndian.PutUint64(b[0:8], hi)
			binary.LittleEndian.PutUint64(b[8:16], lo)
			return b
		}
		hi, lo := pack128(x, nan)
		binary.LittleEndian.PutUint64(b[0:8], lo)
		binary.LittleEndian.PutUint64(b[8:16], hi)
	default:
		binary.LittleEndian.PutUint64(b[0:8], pack64(x, nan))
	}
	return b
}

func (f Format) packValue(x *big.Float) LDouble { return LDouble{b: f.pack(x, false)} }

func nanFormat(f Format) LDouble { return LDouble{b: f.pack(nil, true)} }

func zeroFormat(f Format, neg bool) LDouble {
	z := new(big.Float)
	if neg {
		z.Neg(z)
	}
	return f.packValue(z)
}

func infFormat(f Format, sign int) LDouble {
	return f.packValue(new(big.Float).SetInf(sign < 0))
}

func unpack80(mant uint64, se uint16) (*big.Float, bool) {
	sign := se&x87SignMask != 0
	exp := int(se & x87ExpMask)

	if exp == int(x87ExpMask) {
		if mant&^x87IntBit == 0 {
			return new(big.Float).SetInf(sign), false
		}
		return nil, true
	}

	// The explicit integer bit makes denormals, unnormals and
	// pseudo-denormals all decode through the same product; no special
	// casing is needed beyond the exponent-zero offset.
	u := new(big.Float).SetPrec(64).SetUint64(mant)
	if mant == 0 {
		if sign {
			u.Neg(u)
		}
		return u, false
	}
	e := exp - x87Bias - 63
	if exp == 0 {
		e = 1 - x87Bias - 63
	}
	x := new(big.Float).SetMantExp(u, e)
	if sign {
		x.Neg(x)
	}
	return x, false
}

func pack80(x *big.Float, nan bool) (mant uint64, se uint16) {
	if nan {
		return 0xC000000000000000, x87ExpMask
	}
	q := quantize(x, 64, -16381, 16384)
	sign := uint16(0)
	if q.neg {
		sign = x87SignMask
	}
	switch {
	case q.inf:
		return x87IntBit, sign | x87ExpMask
	case q.zero:
		return 0, sign
	}
	mant = q.mant.Uint64()
	if mant&x87IntBit != 0 {
		e := q.e2 + 64 // the [0.5,1) exponent of the value
		return mant, sign | uint16(e-1+x87Bias)
	}
	return mant, sign // subnormal: exponent field zero, integer bit clear
}

func unpack128(hi, lo uint64) (*big.Float, bool) {
	sign := hi&f64SignBit != 0
	exp := int((hi >> 48) & 0x7FFF)
	frac := new(big.Int).SetUint64(hi & 0xFFFFFFFFFFFF)
	frac.Lsh(frac, 64).Or(frac, new(big.Int).SetUint64(lo))

	if exp == 0x7FFF {
		if frac.Sign() == 0 {
			return new(big.Float).SetInf(sign), false
		}
		return nil, true
	}

	var e int
	if exp == 0 {
		if frac.Sign() == 0 {
			z := new(big.Float)
			if sign {
				z.Neg(z)
			}
			return z, false
		}
		e = 1 - quadBias - quadFracBits
	} else {
		frac.SetBit(frac, quadFracBits, 1)
		e = exp - quadBias - quadFracBits
	}
	u := new(big.Float).SetPrec(113).SetInt(frac)
	x := new(big.Float).SetMantExp(u, e)
	if sign {
		x.Neg(x)
	}
	return x, false
}

func pack128(x *big.Float, nan bool) (hi, lo uint64) {
	if nan {
		return 0x7FFF800000000000, 0
	}
	q := quantize(x, 113, -16381, 16384)
	var sign uint64
	if q.neg {
		sign = f64SignBit
	}
	switch {
	case q.inf:
		return sign | 0x7FFF000000000000, 0
	case q.zero:
		return sign, 0
	}
	mant := q.mant
	var expField uint64
	if mant.Bit(quadFracBits) == 1 {
		mant = new(big.Int).SetBit(mant, quadFracBits, 0)
		e := q.e2 + 113
		expField = uint64(e - 1 + quadBias)
	}
	lo = loWord(mant)
	hi = sign | expField<<48 | hiWord(mant)
	return hi, lo
}

func loWord(m *big.Int) uint64 { return new(big.Int).And(m, maskLo64).Uint64() }
func hiWord(m *big.Int) uint64 { return new(big.Int).Rsh(m, 64).Uint64() }

var maskLo64 = new(big.Int).SetUint64(math.MaxUint64)

func unpackDD(hi, lo float64) (*big.Float, bool) {
	if math.IsNaN(hi) || math.IsNaN(lo) {
		return nil, true
	}
	if math.IsInf(hi, 0) {
		if math.IsInf(lo, 0) && math.Signbit(hi) != math.Signbit(lo) {
			return nil, true
		}
		return new(big.Float).SetInf(math.Signbit(hi)), false
	}
	if math.IsInf(lo, 0) {
		return new(big.Float).SetInf(math.Signbit(lo)), false
	}
	if hi == 0 && lo == 0 {
		// Adding the halves would turn (-0, +0) into +0; keep the head's sign.
		z := new(big.Float)
		if math.Signbit(hi) {
			z.Neg(z)
		}
		return z, false
	}
	// The exact sum of two arbitrary doubles spans at most 2098 bits.
	x := new(big.Float).SetPrec(2112).SetFloat64(hi)
	return x.Add(x, new(big.Float).SetPrec(53).SetFloat64(lo)), false
}

func packDD(x *big.Float, nan bool) (hi, lo uint64) {
	if nan {
		return f64QuietNaN, 0
	}
	h, _ := x.Float64()
	if math.IsInf(h, 0) || h == 0 {
		// Residual of an overflowed or fully underflowed value is dropped;
		// keep the zero's sign from x.
		if h == 0 && x.Signbit() {
			return f64SignBit, 0
		}
		return math.Float64bits(h), 0
	}
	r := new(big.Float).SetPrec(x.Prec() + 64)
	r.Sub(x, new(big.Float).SetFloat64(h))
	l, _ := r.Float64()
	return math.Float64bits(h), math.Float64bits(l)
}

func pack64(x *big.Float, nan bool) uint64 {
	if nan {
		return f64QuietNaN
	}
	v, _ := x.Float64()
	return math.Float64bits(v)
}

// quantized is the result of rounding a big.Float into a format's finite
// grid. For finite nonzero values the number is mant × 2^e2, with mant
// holding prec bits for normals (top bit set) and fewer for subnormals.
type quantized struct {
	neg  bool
	inf  bool
	zero bool
	mant *big.Int
	e2   int
}

func quantize(x *big.Float, prec uint, minExp, maxExp int) quantized {
	q := quantized{neg: x.Signbit()}
	if x.IsInf() {
		q.inf = true
		return q
	}
	if x.Sign() == 0 {
		q.zero = true
		return q
	}

	r := new(big.Float).SetMode(big.ToNearestEven).SetPrec(prec).Set(x)
	e := r.MantExp(nil)

	if e < minExp {
		// Subnormal range: fewer significand bits are available, so round
		// again from the original value at the reduced width.
		effPrec := int(prec) - (minExp - e)
		if effPrec < 1 {
			// Below half the smallest subnormal rounds to zero; the halfway
			// case also rounds to zero, the even neighbour.
			ax := new(big.Float).Abs(x)
			half := new(big.Float).SetMantExp(big.NewFloat(1), minExp-int(prec)-1)
			if ax.Cmp(half) <= 0 {
				q.zero = true
				return q
			}
			q.mant = big.NewInt(1)
			q.e2 = minExp - int(prec)
			return q
		}
		r = new(big.Float).SetMode(big.ToNearestEven).SetPrec(uint(effPrec)).Set(x)
		e = r.MantExp(nil)
		if e < minExp {
			scaled := new(big.Float).SetMantExp(r, int(prec)-minExp)
			q.mant, _ = scaled.Int(nil)
			q.mant.Abs(q.mant)
			q.e2 = minExp - int(prec)
			return q
		}
		// Rounding promoted the value to the smallest normal; fall through.
	}

	if e > maxExp {
		q.inf = true
		return q
	}

	m := new(big.Float)
	e = r.MantExp(m)
	scaled := new(big.Float).SetMantExp(m, int(prec))
	q.mant, _ = scaled.Int(nil)
	q.mant.Abs(q.mant)
	q.e2 = e - int(prec)
	return q
}

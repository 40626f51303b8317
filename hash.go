package ldouble

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// mix32 folds one 32-bit word into the running hash state. The constants
// and rotation counts match the Murmur3 mixing round, which is what the
// runtimes this package interoperates with use for their polymorphic hash.
func mix32(h, d uint32) uint32 {
	d *= 0xcc9e2d51
	d = bits.RotateLeft32(d, 15)
	d *= 0x1b873593
	h ^= d
	h = bits.RotateLeft32(h, 13)
	return h*5 + 0xe6546b64
}

// mixFloat64 canonicalises v before mixing so that every NaN payload and
// both zero signs land in the same bucket, then folds the low word
// followed by the high word.
func mixFloat64(h uint32, v float64) uint32 {
	u := math.Float64bits(v)
	if v != v {
		u = 0x7FF0000000000001
	} else if u == 1<<63 {
		u = 0
	}
	h = mix32(h, uint32(u))
	return mix32(h, uint32(u>>32))
}

func mixHashFormat(f Format, h uint32, d LDouble) uint32 {
	d = normFormat(f, d)

	switch f.kind {
	case Format128:
		// The two 8-byte halves are each mixed high word first so the
		// result is stable across the quad and double-double layouts.
		w0 := binary.LittleEndian.Uint32(d.b[0:])
		w1 := binary.LittleEndian.Uint32(d.b[4:])
		w2 := binary.LittleEndian.Uint32(d.b[8:])
		w3 := binary.LittleEndian.Uint32(d.b[12:])
		h = mix32(h, w1)
		h = mix32(h, w0)
		h = mix32(h, w3)
		return mix32(h, w2)

	case Format80Intel:
		w0 := binary.LittleEndian.Uint32(d.b[0:])
		w1 := binary.LittleEndian.Uint32(d.b[4:])
		w2 := binary.LittleEndian.Uint32(d.b[8:])
		h = mix32(h, w0)
		h = mix32(h, w1)
		return mix32(h, w2&0xFFFF)

	default:
		x, nan := f.unpack(&d.b)
		if nan {
			return mixFloat64(h, math.NaN())
		}
		v, _ := x.Float64()
		return mixFloat64(h, v)
	}
}

// MixHash folds d into the running hash state h. Values that compare equal
// hash equal: the storage image is canonicalised first, so -0 mixes as +0
// and every NaN mixes as the canonical NaN.
func (d LDouble) MixHash(h uint32) uint32 {
	return mixHashFormat(native, h, d)
}

// Hash returns the hash of d with a zero seed.
func (d LDouble) Hash() uint32 {
	return mixHashFormat(native, 0, d)
}

// MixHash folds c into the running hash state h, real part first.
func (c Complex) MixHash(h uint32) uint32 {
	h = mixHashFormat(native, h, c.re)
	return mixHashFormat(native, h, c.im)
}

// Hash returns the hash of c with a zero seed.
func (c Complex) Hash() uint32 {
	return mixHashFormat(native, mixHashFormat(native, 0, c.re), c.im)
}

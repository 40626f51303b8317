package ldouble

import (
	"math/big"
)

type RandSource interface {
	Uint64() uint64
}

// RandLDouble generates a random finite long double from an external
// source. The mantissa is filled with random bits and the exponent is
// uniform over the format's normal range, so extreme magnitudes turn up
// as often as tame ones.
func RandLDouble(source RandSource) LDouble {
	f := native
	words := (f.mantDig + 63) / 64
	mant := new(big.Int)
	for i := 0; i < words; i++ {
		mant.Lsh(mant, 64)
		mant.Or(mant, new(big.Int).SetUint64(source.Uint64()))
	}
	mant.Rsh(mant, uint(words*64-f.mantDig))
	mant.SetBit(mant, f.mantDig-1, 1)

	u := source.Uint64()
	exp := f.minExp + int(u%uint64(f.maxExp-f.minExp))
	x := new(big.Float).SetPrec(f.prec()).SetInt(mant)
	x.SetMantExp(x, exp-f.mantDig)
	if u>>63 == 1 {
		x.Neg(x)
	}
	return f.packValue(x)
}

// DifferenceLDouble subtracts the smaller of a and b from the larger.
func DifferenceLDouble(a, b LDouble) LDouble {
	if a.Cmp(b) >= 0 {
		return a.Sub(b)
	}
	return b.Sub(a)
}

// LargerLDouble returns the larger of a and b the way fmaxl does: a NaN
// argument loses to a number, and +0 beats -0.
func LargerLDouble(a, b LDouble) LDouble {
	if a.IsNaN() {
		return b
	} else if b.IsNaN() {
		return a
	}
	if c := a.Cmp(b); c > 0 {
		return a
	} else if c < 0 {
		return b
	}
	if a.Signbit() && !b.Signbit() {
		return b
	}
	return a
}

// SmallerLDouble returns the smaller of a and b the way fminl does: a NaN
// argument loses to a number, and -0 beats +0.
func SmallerLDouble(a, b LDouble) LDouble {
	if a.IsNaN() {
		return b
	} else if b.IsNaN() {
		return a
	}
	if c := a.Cmp(b); c < 0 {
		return a
	} else if c > 0 {
		return b
	}
	if b.Signbit() && !a.Signbit() {
		return b
	}
	return a
}

package ldouble

import (
	"math/big"
)

// Limits of the native long double format. MaxLDouble is the largest
// finite value, MinLDouble the most negative finite value and
// EpsilonLDouble the distance from 1 to the next value up.
var (
	MaxLDouble     = maxFormat(native)
	MinLDouble     = negFormat(native, maxFormat(native))
	EpsilonLDouble = epsilonFormat(native)

	NaNLDouble    = nanFormat(native)
	PosInfLDouble = infFormat(native, 1)
	NegInfLDouble = infFormat(native, -1)
)

func maxFormat(f Format) LDouble {
	if f.kind == Format128 && f.mantDig == 106 {
		// The largest double-double is MaxFloat64 plus the largest tail
		// that keeps the pair canonical: (1 - 2^-53) * 2^970. The sum
		// spans 107 bits, so it gets its own headroom.
		hi := new(big.Float).SetMantExp(mantAllOnes(53), 971)
		lo := new(big.Float).SetMantExp(mantAllOnes(53), 917)
		return f.packValue(new(big.Float).SetPrec(128).Add(hi, lo))
	}
	return f.packValue(new(big.Float).SetMantExp(mantAllOnes(f.mantDig), f.maxExp-f.mantDig))
}

func minNormalFormat(f Format) LDouble {
	return f.packValue(new(big.Float).SetMantExp(bigOne, f.minExp-1))
}

func epsilonFormat(f Format) LDouble {
	return f.packValue(new(big.Float).SetMantExp(bigOne, 1-f.mantDig))
}

// mantAllOnes returns 2**bits - 1 as an exact big.Float.
func mantAllOnes(bits int) *big.Float {
	m := new(big.Int).Lsh(bigIntOne, uint(bits))
	m.Sub(m, bigIntOne)
	return new(big.Float).SetPrec(uint(bits)).SetInt(m)
}

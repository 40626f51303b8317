package ldouble

import (
	"math/big"
	"testing"
)

var (
	BenchBytesResult   []byte
	BenchBigFloatInput = big.NewFloat(1.0000000002)
	BenchBoolResult    bool
	BenchFloatResult   float64
	BenchIntResult     int
	BenchLDoubleResult LDouble
	BenchStringResult  string
	BenchUint32Result  uint32

	BenchFloat641, BenchFloat642 float64 = 1.0000000002, 0.9999999998
)

func BenchmarkFloat64Mul(b *testing.B) {
	for i := 0; i < b.N; i++ {
		BenchFloatResult = BenchFloat641 * BenchFloat642
	}
}

func BenchmarkFloat64Add(b *testing.B) {
	for i := 0; i < b.N; i++ {
		BenchFloatResult = BenchFloat641 + BenchFloat642
	}
}

func BenchmarkLDoubleAdd(b *testing.B) {
	d1, d2 := fl64(BenchFloat641), fl64(BenchFloat642)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchLDoubleResult = d1.Add(d2)
	}
}

func BenchmarkLDoubleMul(b *testing.B) {
	d1, d2 := fl64(BenchFloat641), fl64(BenchFloat642)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchLDoubleResult = d1.Mul(d2)
	}
}

func BenchmarkLDoubleDiv(b *testing.B) {
	d1, d2 := fl64(BenchFloat641), fl64(BenchFloat642)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchLDoubleResult = d1.Div(d2)
	}
}

func BenchmarkLDoubleCmp(b *testing.B) {
	d1, d2 := fl64(BenchFloat641), fl64(BenchFloat642)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchIntResult = d1.Cmp(d2)
	}
}

func BenchmarkLDoubleMixHash(b *testing.B) {
	d := fl64(BenchFloat641)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchUint32Result = d.MixHash(BenchUint32Result)
	}
}

func BenchmarkLDoubleNormalize(b *testing.B) {
	d := fl64(BenchFloat641)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchLDoubleResult = d.Normalize()
	}
}

func BenchmarkLDoubleMarshalBinary(b *testing.B) {
	d := fl64(BenchFloat641)
	buf := make([]byte, 0, EncodedSize())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchBytesResult, _ = d.AppendBinary(buf[:0])
	}
}

func BenchmarkLDoubleUnmarshalBinary(b *testing.B) {
	enc, _ := fl64(BenchFloat641).MarshalBinary()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var d LDouble
		if err := d.UnmarshalBinary(enc); err != nil {
			b.Fatal(err)
		}
		BenchLDoubleResult = d
	}
}

func BenchmarkLDoubleString(b *testing.B) {
	d := fl64(BenchFloat641)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchStringResult = d.String()
	}
}

func BenchmarkLDoubleParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		d, err := LDoubleFromString("1.0000000002")
		if err != nil {
			b.Fatal(err)
		}
		BenchLDoubleResult = d
	}
}

func BenchmarkLDoubleSqrt(b *testing.B) {
	d := fl64(2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchLDoubleResult = d.Sqrt()
	}
}

func BenchmarkLDoubleExp(b *testing.B) {
	d := fl64(BenchFloat641)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BenchLDoubleResult = d.Exp()
	}
}

func BenchmarkBigFloatAdd(b *testing.B) {
	v1 := new(big.Float).SetPrec(113).Set(BenchBigFloatInput)
	v2 := new(big.Float).SetPrec(113).SetFloat64(BenchFloat642)
	for i := 0; i < b.N; i++ {
		var dest big.Float
		dest.Add(v1, v2)
	}
}

func BenchmarkBigFloatMul(b *testing.B) {
	v1 := new(big.Float).SetPrec(113).Set(BenchBigFloatInput)
	v2 := new(big.Float).SetPrec(113).SetFloat64(BenchFloat642)
	for i := 0; i < b.N; i++ {
		var dest big.Float
		dest.Mul(v1, v2)
	}
}

func BenchmarkBigFloatCmp(b *testing.B) {
	v1 := new(big.Float).SetPrec(113).Set(BenchBigFloatInput)
	v2 := new(big.Float).SetPrec(113).SetFloat64(BenchFloat642)
	for i := 0; i < b.N; i++ {
		BenchIntResult = v1.Cmp(v2)
	}
}

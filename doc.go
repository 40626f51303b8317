/*
Package ldouble provides a C long double value type (LDouble) stored in
the platform's native extended precision layout, plus a complex
counterpart (Complex).

LDouble is a value type; all operations return new values. The zero
value is +0.

Simple example:

	d1 := MustLDoubleFromString("1.5")
	d2 := LDoubleFromFloat64(4)
	fmt.Println(d1.Mul(d2))
	// Output: 6

LDouble can be created from a variety of sources:

	LDoubleFromRaw(hi, lo uint64) LDouble
	LDoubleFromFloat64(v float64) LDouble
	LDoubleFromInt64(v int64) LDouble
	LDoubleFromUint64(v uint64) LDouble
	LDoubleFromBigFloat(v *big.Float) LDouble
	LDoubleFromString(s string) (out LDouble, err error)
	MustLDoubleFromString(s string) LDouble

LDouble supports the following formatting and marshalling interfaces:

	- fmt.Formatter
	- fmt.Stringer
	- json.Marshaler
	- json.Unmarshaler
	- encoding.TextMarshaler
	- encoding.TextUnmarshaler
	- encoding.BinaryMarshaler
	- encoding.BinaryUnmarshaler

The in-memory layout matches the C ABI for the GOOS/GOARCH pair: the x87
80-bit format on x86, IEEE binary128 where the platform uses it, IBM
double-double on ppc64, and plain float64 where long double is only
double. NativeFormat reports which one is in effect.
*/
package ldouble

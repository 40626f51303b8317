package ldouble

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"
)

type fuzzOp string
type fuzzFormat string

// This is the equivalent of passing -ldouble.fuzziter=10000 to 'go test':
const fuzzDefaultIterations = 10000

// These ops are all enabled by default. You can instead pass them explicitly
// on the command line like so: '-ldouble.fuzzop=addcomm -ldouble.fuzzop=wire',
// or you can use the short form '-ldouble.fuzzop=addcomm,wire,norm'.
//
// Each op checks an invariant rather than racing an oracle implementation:
// the oracle for the hard part (rounding into the storage grid) would be the
// code under test.
//
// If you add a new op, search for the string 'NEWOP' in this file for all the
// places you need to update.
const (
	fuzzAbs        fuzzOp = "abs"
	fuzzAddComm    fuzzOp = "addcomm"
	fuzzCmp        fuzzOp = "cmp"
	fuzzCopysign   fuzzOp = "copysign"
	fuzzFrexpLdexp fuzzOp = "frexpldexp"
	fuzzHashEqual  fuzzOp = "hasheq"
	fuzzHypot      fuzzOp = "hypot"
	fuzzMinMax     fuzzOp = "minmax"
	fuzzModf       fuzzOp = "modf"
	fuzzMulComm    fuzzOp = "mulcomm"
	fuzzNeg        fuzzOp = "neg"
	fuzzNorm       fuzzOp = "norm"
	fuzzParse      fuzzOp = "parse"
	fuzzSubNeg     fuzzOp = "subneg"
	fuzzWire       fuzzOp = "wire"
)

// These formats are all enabled by default. You can instead pass them
// explicitly on the command line like so: '-ldouble.fuzzformat=80,106'.
const (
	fuzzFormat64  fuzzFormat = "64"
	fuzzFormat80  fuzzFormat = "80"
	fuzzFormat113 fuzzFormat = "113"
	fuzzFormat106 fuzzFormat = "106"
)

var allFuzzFormats = []fuzzFormat{fuzzFormat64, fuzzFormat80, fuzzFormat113, fuzzFormat106}

func (ff fuzzFormat) Format() Format {
	switch ff {
	case fuzzFormat64:
		return FormatForMantDig(53, 8)
	case fuzzFormat80:
		return FormatForMantDig(64, 16)
	case fuzzFormat113:
		return FormatForMantDig(113, 16)
	case fuzzFormat106:
		return FormatForMantDig(106, 16)
	default:
		panic(fmt.Errorf("unknown fuzz format %q", string(ff)))
	}
}

// allFuzzOps are active by default.
//
// NEWOP: Update this list if a NEW op is added otherwise it won't be
// enabled by default.
//
// Please keep this list alphabetised.
var allFuzzOps = []fuzzOp{
	fuzzAbs,
	fuzzAddComm,
	fuzzCmp,
	fuzzCopysign,
	fuzzFrexpLdexp,
	fuzzHashEqual,
	fuzzHypot,
	fuzzMinMax,
	fuzzModf,
	fuzzMulComm,
	fuzzNeg,
	fuzzNorm,
	fuzzParse,
	fuzzSubNeg,
	fuzzWire,
}

// classic rando!
type rando struct {
	f        Format
	operands []LDouble
	rng      *rand.Rand
}

func (r *rando) Operands() []LDouble { return r.operands }

func (r *rando) Clear() {
	r.operands = r.operands[:0]
}

// LDouble returns a random value in the active format. Specials turn up
// often enough to matter: both zeros, both infinities, NaNs with junk
// payloads and values at the bottom of the exponent range all get a look
// in alongside the ordinary finite spread.
func (r *rando) LDouble() LDouble {
	d := r.gen()
	r.operands = append(r.operands, d)
	return d
}

// LDoublex2 returns two random values that are occasionally the same;
// two random long doubles colliding by chance is not going to happen
// before the heat death of the universe.
func (r *rando) LDoublex2() (a, b LDouble) {
	const samesiesChance = 0.05
	a = r.LDouble()
	if r.rng.Float64() < samesiesChance {
		b = a
		r.operands = append(r.operands, b)
		return a, b
	}
	b = r.LDouble()
	return a, b
}

func (r *rando) gen() LDouble {
	switch r.rng.Intn(16) {
	case 0:
		return LDouble{}
	case 1:
		return zeroFormat(r.f, true)
	case 2:
		return infFormat(r.f, 1)
	case 3:
		return infFormat(r.f, -1)
	case 4:
		return r.nan()
	case 5:
		return r.tiny()
	}
	return r.finite()
}

func (r *rando) finite() LDouble {
	f := r.f
	words := (f.mantDig + 63) / 64
	mant := new(big.Int)
	for i := 0; i < words; i++ {
		mant.Lsh(mant, 64)
		mant.Or(mant, new(big.Int).SetUint64(r.rng.Uint64()))
	}
	mant.Rsh(mant, uint(words*64-f.mantDig))
	mant.SetBit(mant, f.mantDig-1, 1)

	u := r.rng.Uint64()
	exp := f.minExp + int(u%uint64(f.maxExp-f.minExp))
	x := new(big.Float).SetPrec(f.prec()).SetInt(mant)
	x.SetMantExp(x, exp-f.mantDig)
	if u>>63 == 1 {
		x.Neg(x)
	}
	return f.packValue(x)
}

// tiny dips below the normal range. The double-double head stays normal as
// a double, which is exactly the case worth poking at.
func (r *rando) tiny() LDouble {
	d := ldexpFormat(r.f, minNormalFormat(r.f), -1-r.rng.Intn(8))
	if r.rng.Intn(2) == 1 {
		d = negFormat(r.f, d)
	}
	return d
}

// nan builds a NaN with a random payload and sign; the whole point of the
// canonicalisation layer is that none of this junk survives.
func (r *rando) nan() LDouble {
	payload := r.rng.Uint64()>>12 | 1
	sign := uint64(r.rng.Intn(2)) << 15
	switch {
	case r.f.kind == Format80Intel:
		return LDoubleFromRaw(uint64(x87ExpMask)|sign, x87IntBit|payload)
	case r.f.kind == Format128 && r.f.mantDig == 113:
		return LDoubleFromRaw(0x7FFF000000000000|sign<<48|payload>>16|1, r.rng.Uint64())
	default:
		return LDoubleFromRaw(0, sign<<48|0x7FF0000000000000|payload)
	}
}

func checkBits(what string, got, want LDouble) error {
	if got.b != want.b {
		return fmt.Errorf("%s: bits %x != %x", what, got.b, want.b)
	}
	return nil
}

type fuzzLD struct {
	f      Format
	source *rando
}

func (f fuzzLD) Name() string { return f.f.String() }

func (f fuzzLD) Abs() error {
	d := f.source.LDouble()
	a := absFormat(f.f, d)
	if signbitFormat(f.f, a) {
		return fmt.Errorf("abs kept the sign bit")
	}
	want := d
	if signbitFormat(f.f, d) {
		want = negFormat(f.f, d)
	}
	return checkBits("magnitude", a, want)
}

func (f fuzzLD) AddComm() error {
	a, b := f.source.LDoublex2()
	return checkBits("a+b vs b+a", addFormat(f.f, a, b), addFormat(f.f, b, a))
}

func (f fuzzLD) Cmp() error {
	a, b := f.source.LDoublex2()
	cmp, unordered := cmpFormat(f.f, a, b)
	x, xnan := f.f.unpack(&a.b)
	y, ynan := f.f.unpack(&b.b)

	switch {
	case !xnan && !ynan:
		if unordered {
			return fmt.Errorf("unordered with no NaN operand")
		}
		if want := x.Cmp(y); cmp != want {
			return fmt.Errorf("cmp %d != big.Float cmp %d", cmp, want)
		}
	case xnan && ynan:
		if cmp != 0 || !unordered {
			return fmt.Errorf("NaN<=>NaN gave (%d, %v), want (0, true)", cmp, unordered)
		}
	case xnan:
		if cmp != -1 || !unordered {
			return fmt.Errorf("NaN<=>num gave (%d, %v), want (-1, true)", cmp, unordered)
		}
	default:
		if cmp != 1 || !unordered {
			return fmt.Errorf("num<=>NaN gave (%d, %v), want (1, true)", cmp, unordered)
		}
	}

	if back, _ := cmpFormat(f.f, b, a); back != -cmp {
		return fmt.Errorf("cmp is not antisymmetric: %d vs %d", cmp, back)
	}
	return nil
}

func (f fuzzLD) Copysign() error {
	a, b := f.source.LDoublex2()
	c := copysignFormat(f.f, a, b)
	if signbitFormat(f.f, c) != signbitFormat(f.f, b) {
		return fmt.Errorf("copysign took the wrong sign")
	}
	return checkBits("magnitude", copysignFormat(f.f, c, a), a)
}

func (f fuzzLD) FrexpLdexp() error {
	d := f.source.LDouble()
	frac, exp := frexpFormat(f.f, d)

	switch classifyFormat(f.f, d) {
	case ClassNaN:
		return checkBits("frexp(NaN)", frac, nanFormat(f.f))
	case ClassZero, ClassInf:
		if exp != 0 {
			return fmt.Errorf("frexp exponent %d for a non-finite-or-zero value", exp)
		}
		return checkBits("frexp passthrough", frac, d)
	}

	if x, _ := f.f.unpack(&frac.b); x.MantExp(nil) != 0 {
		return fmt.Errorf("fraction %v is outside [0.5, 1)", frac)
	}
	return checkBits("ldexp(frexp)", ldexpFormat(f.f, frac, exp), d)
}

func (f fuzzLD) HashEqual() error {
	seed := uint32(f.source.rng.Uint64())

	d := f.source.LDouble()
	n := normFormat(f.f, d)
	if mixHashFormat(f.f, seed, d) != mixHashFormat(f.f, seed, n) {
		return fmt.Errorf("hash of a value differs from the hash of its normal form")
	}
	if cmp, _ := cmpFormat(f.f, d, n); cmp != 0 {
		return fmt.Errorf("normal form compares unequal to the original")
	}

	a, b := f.source.LDoublex2()
	if cmp, _ := cmpFormat(f.f, a, b); cmp == 0 {
		if mixHashFormat(f.f, seed, a) != mixHashFormat(f.f, seed, b) {
			return fmt.Errorf("equal values hash differently")
		}
	}
	return nil
}

func (f fuzzLD) Hypot() error {
	a, b := f.source.LDoublex2()
	h := hypotFormat(f.f, a, b)
	if err := checkBits("hypot symmetry", h, hypotFormat(f.f, b, a)); err != nil {
		return err
	}
	if classifyFormat(f.f, h) == ClassNaN {
		return nil
	}
	if signbitFormat(f.f, h) {
		return fmt.Errorf("negative hypot")
	}
	for _, leg := range []LDouble{a, b} {
		if classifyFormat(f.f, leg) == ClassNaN {
			continue
		}
		if cmp, _ := cmpFormat(f.f, h, absFormat(f.f, leg)); cmp < 0 {
			return fmt.Errorf("hypot %v is shorter than its leg %v", h, leg)
		}
	}
	return nil
}

func (f fuzzLD) MinMax() error {
	if f.f != native {
		return nil // Larger/Smaller/Difference only speak the native format.
	}
	a, b := f.source.LDoublex2()
	l, s := LargerLDouble(a, b), SmallerLDouble(a, b)

	switch {
	case a.IsNaN() && b.IsNaN():
		if !l.IsNaN() || !s.IsNaN() {
			return fmt.Errorf("two NaNs produced a number")
		}
		return nil
	case a.IsNaN():
		if err := checkBits("larger", l, b); err != nil {
			return err
		}
		return checkBits("smaller", s, b)
	case b.IsNaN():
		if err := checkBits("larger", l, a); err != nil {
			return err
		}
		return checkBits("smaller", s, a)
	}

	if l.Cmp(a) < 0 || l.Cmp(b) < 0 {
		return fmt.Errorf("larger %v is below an operand", l)
	}
	if s.Cmp(a) > 0 || s.Cmp(b) > 0 {
		return fmt.Errorf("smaller %v is above an operand", s)
	}
	if d := DifferenceLDouble(a, b); !d.IsNaN() && signbitFormat(f.f, d) && !d.IsZero() {
		return fmt.Errorf("difference %v is negative", d)
	}
	return nil
}

func (f fuzzLD) Modf() error {
	d := f.source.LDouble()
	i, frac := modfFormat(f.f, d)

	switch classifyFormat(f.f, d) {
	case ClassNaN:
		if err := checkBits("int part", i, nanFormat(f.f)); err != nil {
			return err
		}
		return checkBits("frac part", frac, nanFormat(f.f))
	case ClassInf:
		if err := checkBits("int part", i, d); err != nil {
			return err
		}
		return checkBits("frac part", frac, zeroFormat(f.f, signbitFormat(f.f, d)))
	case ClassZero:
		if err := checkBits("int part", i, d); err != nil {
			return err
		}
		return checkBits("frac part", frac, d)
	}

	if x, _ := f.f.unpack(&i.b); x.Sign() != 0 && !x.IsInt() {
		return fmt.Errorf("integer part %v is not an integer", i)
	}
	return checkBits("i+frac", addFormat(f.f, i, frac), d)
}

func (f fuzzLD) MulComm() error {
	a, b := f.source.LDoublex2()
	return checkBits("a*b vs b*a", mulFormat(f.f, a, b), mulFormat(f.f, b, a))
}

func (f fuzzLD) Neg() error {
	d := f.source.LDouble()
	n := negFormat(f.f, d)
	if signbitFormat(f.f, n) == signbitFormat(f.f, d) {
		return fmt.Errorf("negation kept the sign")
	}
	return checkBits("double negation", negFormat(f.f, n), d)
}

func (f fuzzLD) Norm() error {
	d := f.source.LDouble()
	n := normFormat(f.f, d)
	if err := checkBits("norm(norm)", normFormat(f.f, n), n); err != nil {
		return err
	}
	if cmp, _ := cmpFormat(f.f, d, n); cmp != 0 {
		return fmt.Errorf("normal form compares unequal to the original")
	}
	return nil
}

func (f fuzzLD) Parse() error {
	d := f.source.LDouble()
	x, nan := f.f.unpack(&d.b)

	var s string
	var want LDouble
	switch {
	case nan:
		s, want = "nan", nanFormat(f.f)
	case x.IsInf() && x.Signbit():
		s, want = "-inf", d
	case x.IsInf():
		s, want = "inf", d
	default:
		s, want = displayFloat(f.f, x).Text('g', -1), d
	}

	back, err := parseFormat(f.f, s)
	if err != nil {
		return fmt.Errorf("reparse of %q failed: %v", s, err)
	}
	return checkBits("string round trip", back, want)
}

func (f fuzzLD) SubNeg() error {
	a, b := f.source.LDoublex2()
	s1 := subFormat(f.f, a, b)
	s2 := negFormat(f.f, subFormat(f.f, b, a))
	// Bit equality is too strong here: a-a is +0 but -(a-a) is -0.
	if cmp, _ := cmpFormat(f.f, s1, s2); cmp != 0 {
		return fmt.Errorf("a-b %v != -(b-a) %v", s1, s2)
	}
	if mixHashFormat(f.f, 0, s1) != mixHashFormat(f.f, 0, s2) {
		return fmt.Errorf("a-b and -(b-a) hash differently")
	}
	return nil
}

func (f fuzzLD) Wire() error {
	d := f.source.LDouble()
	enc := appendFormat(f.f, nil, d)
	if len(enc) != f.f.wireSize() {
		return fmt.Errorf("wire size %d, want %d", len(enc), f.f.wireSize())
	}
	dec, rest, err := decodeFormat(f.f, enc)
	if err != nil {
		return fmt.Errorf("decode failed: %v", err)
	}
	if len(rest) != 0 {
		return fmt.Errorf("decode left %d bytes", len(rest))
	}
	return checkBits("wire round trip", dec, normFormat(f.f, d))
}

func TestFuzz(t *testing.T) {
	// fuzzOpsActive comes from the -ldouble.fuzzop flag, in TestMain:
	var runFuzzOps = fuzzOpsActive

	// fuzzFormatsActive comes from the -ldouble.fuzzformat flag, in TestMain:
	var runFuzzFormats = fuzzFormatsActive

	var totalFailures int

	for _, ff := range runFuzzFormats {
		format := ff.Format()
		source := &rando{f: format, rng: globalRNG} // Classic rando!
		fuzzImpl := fuzzLD{f: format, source: source}

		var failures = make([]int, len(runFuzzOps))

		for opIdx, op := range runFuzzOps {
			for i := 0; i < fuzzIterations; i++ {
				source.Clear()

				var err error

				// NEWOP: add a new branch here in alphabetical order if a new
				// op is added.
				switch op {
				case fuzzAbs:
					err = fuzzImpl.Abs()
				case fuzzAddComm:
					err = fuzzImpl.AddComm()
				case fuzzCmp:
					err = fuzzImpl.Cmp()
				case fuzzCopysign:
					err = fuzzImpl.Copysign()
				case fuzzFrexpLdexp:
					err = fuzzImpl.FrexpLdexp()
				case fuzzHashEqual:
					err = fuzzImpl.HashEqual()
				case fuzzHypot:
					err = fuzzImpl.Hypot()
				case fuzzMinMax:
					err = fuzzImpl.MinMax()
				case fuzzModf:
					err = fuzzImpl.Modf()
				case fuzzMulComm:
					err = fuzzImpl.MulComm()
				case fuzzNeg:
					err = fuzzImpl.Neg()
				case fuzzNorm:
					err = fuzzImpl.Norm()
				case fuzzParse:
					err = fuzzImpl.Parse()
				case fuzzSubNeg:
					err = fuzzImpl.SubNeg()
				case fuzzWire:
					err = fuzzImpl.Wire()
				default:
					panic(fmt.Errorf("unsupported op %q", op))
				}

				if err != nil {
					failures[opIdx]++
					t.Logf("%s: %s\n", op.Print(source.Operands()...), err)
				}
			}
		}

		for opIdx, cnt := range failures {
			if cnt > 0 {
				totalFailures += cnt
				t.Logf("format %s, op %s: %d/%d failed", fuzzImpl.Name(), string(runFuzzOps[opIdx]), cnt, fuzzIterations)
			}
		}
	}

	if totalFailures > 0 {
		t.Fail()
	}
}

func (op fuzzOp) Print(operands ...LDouble) string {
	// NEWOP: please add a human-readable format for your op here; this is
	// used for reporting errors and should show the operation and operands.
	switch op {
	case fuzzAddComm, fuzzMulComm, fuzzSubNeg, fuzzCmp, fuzzCopysign,
		fuzzHypot, fuzzMinMax:
		if len(operands) >= 2 {
			return fmt.Sprintf("%s(%v, %v)", string(op), operands[0], operands[1])
		}
	case fuzzAbs, fuzzFrexpLdexp, fuzzModf, fuzzNeg, fuzzNorm, fuzzParse,
		fuzzWire:
		if len(operands) >= 1 {
			return fmt.Sprintf("%s(%v)", string(op), operands[0])
		}
	case fuzzHashEqual:
		if len(operands) >= 1 {
			return fmt.Sprintf("%s(%v...)", string(op), operands[0])
		}
	}
	return string(op)
}

package ldouble

import (
	"fmt"
	"runtime"
)

// FormatKind identifies the storage layout family used for a long double.
type FormatKind int

const (
	// Format64 means long double is an IEEE 754 binary64, indistinguishable
	// from a machine double.
	Format64 FormatKind = iota

	// Format80Intel is the x87 80-bit extended format: a 64-bit significand
	// with an explicit integer bit, inside a 12- or 16-byte container.
	Format80Intel

	// Format128 is a 16-byte value: either IEEE binary128 (113-bit
	// significand) or IBM double-double (106 bits, a pair of binary64s).
	Format128

	// FormatUnknown is the fallback for significand widths this package has
	// never seen. Byte-level operations treat the value as a machine double.
	FormatUnknown
)

func (k FormatKind) String() string {
	switch k {
	case Format64:
		return "binary64"
	case Format80Intel:
		return "intel80"
	case Format128:
		return "binary128"
	default:
		return "unknown"
	}
}

// Format describes the long double layout of a platform: the significand
// width in bits, the bytes a value occupies in memory, and the subset of
// those bytes that actually encode the number. Padding bytes are never
// hashed or serialized.
type Format struct {
	kind         FormatKind
	mantDig      int
	storageBytes int
	valueBytes   int
	maxExp       int
	minExp       int
}

// FormatForMantDig resolves a significand width to its storage format the
// same way a C toolchain's LDBL_MANT_DIG does. Every width resolves to one
// of the four kinds; there is no error path.
func FormatForMantDig(mantDig, storageBytes int) Format {
	switch mantDig {
	case 53:
		return Format{
			kind: Format64, mantDig: 53,
			storageBytes: storageBytes, valueBytes: 8,
			maxExp: 1024, minExp: -1021,
		}
	case 64:
		return Format{
			kind: Format80Intel, mantDig: 64,
			storageBytes: storageBytes, valueBytes: 10,
			maxExp: 16384, minExp: -16381,
		}
	case 106:
		return Format{
			kind: Format128, mantDig: 106,
			storageBytes: storageBytes, valueBytes: 16,
			maxExp: 1024, minExp: -968,
		}
	case 113:
		return Format{
			kind: Format128, mantDig: 113,
			storageBytes: storageBytes, valueBytes: 16,
			maxExp: 16384, minExp: -16381,
		}
	default:
		return Format{
			kind: FormatUnknown, mantDig: mantDig,
			storageBytes: storageBytes, valueBytes: storageBytes,
			maxExp: 1024, minExp: -1021,
		}
	}
}

// detectFormat maps a GOOS/GOARCH pair to the long double format the C ABI
// uses there. Unrecognised architectures fall back to treating long double
// as a plain double.
func detectFormat(goos, goarch string) Format {
	switch goarch {
	case "amd64":
		return FormatForMantDig(64, 16)
	case "386":
		return FormatForMantDig(64, 12)
	case "arm64":
		switch goos {
		case "darwin", "ios", "windows":
			// Apple and Windows aarch64 ABIs define long double as double.
			return FormatForMantDig(53, 8)
		}
		return FormatForMantDig(113, 16)
	case "arm", "mips", "mipsle":
		return FormatForMantDig(53, 8)
	case "ppc64", "ppc64le":
		// IBM double-double unless the distro switched to IEEE quad; the
		// traditional ABI is still what gcc and glibc default to.
		return FormatForMantDig(106, 16)
	case "s390x", "riscv64", "loong64", "mips64", "mips64le", "wasm":
		return FormatForMantDig(113, 16)
	}
	return FormatForMantDig(53, 8)
}

var native = detectFormat(runtime.GOOS, runtime.GOARCH)

// NativeFormat returns the long double format in effect for this process.
// It is fixed at startup and never changes.
func NativeFormat() Format { return native }

func (f Format) Kind() FormatKind { return f.kind }

// MantDig is the significand width in bits, counting the implicit or
// explicit integer bit. This is also the wire codec's tag byte.
func (f Format) MantDig() int { return f.mantDig }

func (f Format) StorageBytes() int { return f.storageBytes }
func (f Format) ValueBytes() int   { return f.valueBytes }

// Size returns the storage and value byte widths as a pair.
func (f Format) Size() (storageBytes, valueBytes int) {
	return f.storageBytes, f.valueBytes
}

func (f Format) String() string {
	return fmt.Sprintf("%s/%d", f.kind, f.mantDig)
}

func (f Format) prec() uint { return uint(f.mantDig) }

// wireSize is the number of bytes MarshalBinary produces: the tag byte plus
// the payload. FormatUnknown narrows to a double on the wire, so its
// payload is 8 bytes regardless of ValueBytes.
func (f Format) wireSize() int {
	switch f.kind {
	case Format128:
		return 1 + 16
	case Format80Intel:
		return 1 + 10
	default:
		return 1 + 8
	}
}

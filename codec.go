package ldouble

import "encoding/binary"

// The wire format is one tag byte holding the significand width, then the
// value bytes rewritten big-endian: the 16-byte layouts as two 8-byte
// blocks in memory order, the 80-bit layout as an 8-byte block and a
// 2-byte block, everything else as one 8-byte double. Values are
// normalized before encoding, so a decoded image is always canonical.

// EncodedSize returns the number of bytes MarshalBinary produces for any
// LDouble in the native format.
func EncodedSize() int { return native.wireSize() }

// MarshalBinary implements encoding.BinaryMarshaler.
func (d LDouble) MarshalBinary() ([]byte, error) {
	return d.AppendBinary(make([]byte, 0, native.wireSize()))
}

// AppendBinary appends the wire encoding of d to b and returns the
// extended buffer.
func (d LDouble) AppendBinary(b []byte) ([]byte, error) {
	return appendFormat(native, b, d), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It rejects data
// written by a process whose long double format differs from this one's
// with ErrFormatMismatch, and rejects short or oversized buffers.
func (d *LDouble) UnmarshalBinary(data []byte) error {
	v, rest, err := decodeFormat(native, data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrInvalidArgument.New("long double wire data has %d trailing bytes", len(rest))
	}
	*d = v
	return nil
}

func appendFormat(f Format, b []byte, d LDouble) []byte {
	b = append(b, byte(f.mantDig))
	return appendPayload(f, b, d)
}

func appendPayload(f Format, b []byte, d LDouble) []byte {
	d = normFormat(f, d)
	switch f.kind {
	case Format128:
		b = binary.BigEndian.AppendUint64(b, binary.LittleEndian.Uint64(d.b[0:8]))
		b = binary.BigEndian.AppendUint64(b, binary.LittleEndian.Uint64(d.b[8:16]))
	case Format80Intel:
		b = binary.BigEndian.AppendUint64(b, binary.LittleEndian.Uint64(d.b[0:8]))
		b = binary.BigEndian.AppendUint16(b, binary.LittleEndian.Uint16(d.b[8:10]))
	default:
		b = binary.BigEndian.AppendUint64(b, binary.LittleEndian.Uint64(d.b[0:8]))
	}
	return b
}

func decodeFormat(f Format, b []byte) (LDouble, []byte, error) {
	if len(b) < 1 {
		return LDouble{}, nil, ErrInvalidArgument.New("long double wire data is empty")
	}
	if int(b[0]) != f.mantDig {
		return LDouble{}, nil, ErrFormatMismatch.New("invalid long double size: tag %d, want %d", b[0], f.mantDig)
	}
	return decodePayload(f, b[1:])
}

func decodePayload(f Format, b []byte) (LDouble, []byte, error) {
	need := f.wireSize() - 1
	if len(b) < need {
		return LDouble{}, nil, ErrInvalidArgument.New("long double wire data truncated: %d bytes, want %d", len(b), need)
	}
	var d LDouble
	switch f.kind {
	case Format128:
		binary.LittleEndian.PutUint64(d.b[0:8], binary.BigEndian.Uint64(b[0:8]))
		binary.LittleEndian.PutUint64(d.b[8:16], binary.BigEndian.Uint64(b[8:16]))
	case Format80Intel:
		binary.LittleEndian.PutUint64(d.b[0:8], binary.BigEndian.Uint64(b[0:8]))
		binary.LittleEndian.PutUint16(d.b[8:10], binary.BigEndian.Uint16(b[8:10]))
	default:
		binary.LittleEndian.PutUint64(d.b[0:8], binary.BigEndian.Uint64(b[0:8]))
	}
	return d, b[need:], nil
}

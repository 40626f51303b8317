package ldouble

import "github.com/zeebo/errs"

var (
	// ErrFormatMismatch is returned when decoding wire data whose format
	// tag does not match the format in effect for this process.
	ErrFormatMismatch = errs.Class("ldouble: format mismatch")

	// ErrUnsupported is returned by operations that have no native
	// long double implementation on the current platform.
	ErrUnsupported = errs.Class("ldouble: unsupported operation")

	// ErrInvalidArgument is returned for malformed inputs, such as a
	// string that does not parse as a number.
	ErrInvalidArgument = errs.Class("ldouble: invalid argument")
)

package babel

import (
	"errors"
)

var (
	// ErrInvalidArgument is returned for bad construction parameters, e.g. a
	// bit count which is not a positive power of two (or not a square, for
	// image maps).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfRange is returned when an index is negative or larger than
	// the codec's MaxIndex.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLengthMismatch is returned when a bit-vector or image buffer does not
	// match the configured bit count or side length.
	ErrLengthMismatch = errors.New("length mismatch")
)

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n uint) bool {
	return n > 0 && n&(n-1) == 0
}

package babel

import (
	"fmt"
	"strings"
)

// BitVector is an ordered sequence of bits, one 0/1 byte per position.
type BitVector []byte

// NewBitVector allocates an all-zero vector of n bits
func NewBitVector(n int) BitVector {
	return make(BitVector, n)
}

// ParseBitVector reads a vector from a string of '0' and '1' characters.
// Spaces and underscores are ignored, so "0101 1100" and "0101_1100" are
// both accepted.
func ParseBitVector(s string) (BitVector, error) {
	v := make(BitVector, 0, len(s))
	for i, ch := range s {
		switch ch {
		case '0':
			v = append(v, 0)
		case '1':
			v = append(v, 1)
		case ' ', '_':
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d",
				ErrInvalidArgument, ch, i)
		}
	}
	return v, nil
}

// PopCount returns the number of set bits
func (v BitVector) PopCount() (count int) {
	for _, b := range v {
		count += int(b)
	}
	return
}

// Validate checks that v holds exactly n bits and that every entry is 0
// or 1.
func (v BitVector) Validate(n int) error {
	if len(v) != n {
		return fmt.Errorf("%w: vector has %d bits, expected %d", ErrLengthMismatch, len(v), n)
	}
	for i, b := range v {
		if b > 1 {
			return fmt.Errorf("%w: bit %d has value %d", ErrInvalidArgument, i, b)
		}
	}
	return nil
}

func (v BitVector) String() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, b := range v {
		if b == 0 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

package babel

import (
	"fmt"
	"math"
)

// DefaultBits is the bit count used when no explicit configuration is
// provided: a 16x16 image.
const DefaultBits = 256

// MaxBits is the largest supported bit count, a 128x128 image.  The
// factorial table of a codec this size already holds a few hundred MB.
const MaxBits = 1 << 14

// ConfigForSide generates a Config for a codec whose vectors are shown as a
// square image of side x side pixels.
func ConfigForSide(side uint) Config {
	return Config{
		Bits: side * side,
	}
}

// Config controls the behavior of the codec
type Config struct {
	// The number of bits per vector.  Must be a power of two; it must
	// also be a square for the vectors to be laid out as an image.
	Bits uint
	// Skip memoizing 8-bit leaf decodes.  Trades decode speed for
	// memory on codecs that are only used once or twice.
	DisableLeafCache bool
}

// Validate reports an ErrInvalidArgument if the bit count cannot be
// used to build a codec.
func (c *Config) Validate() error {
	if c.Bits == 0 {
		return fmt.Errorf("%w: bit count must be positive and non-zero but was %d",
			ErrInvalidArgument, c.Bits)
	}
	if !isPowerOfTwo(c.Bits) {
		return fmt.Errorf("%w: bit count must be a power of two but was %d",
			ErrInvalidArgument, c.Bits)
	}
	if c.Bits > MaxBits {
		return fmt.Errorf("%w: bit count must be at most %d but was %d",
			ErrInvalidArgument, MaxBits, c.Bits)
	}
	return nil
}

// SideLength reports the side of the square image the vectors map onto,
// and false if the bit count is not a square.
func (c *Config) SideLength() (uint, bool) {
	side := uint(math.Sqrt(float64(c.Bits)))
	for side*side > c.Bits {
		side--
	}
	for (side+1)*(side+1) <= c.Bits {
		side++
	}
	return side, side*side == c.Bits
}

// ClassCount reports the number of population classes, one per possible
// number of set bits.
func (c *Config) ClassCount() uint {
	return c.Bits + 1
}

// IndexBytes reports the number of bytes needed to hold any index.
func (c *Config) IndexBytes() uint {
	return (c.Bits + 7) / 8
}

// TableBytes reports the approximate amount of memory held by the
// factorial and class prefix tables.
func (c *Config) TableBytes() uint {
	bits := 0.
	for k := uint(1); k <= c.Bits; k++ {
		lg, _ := math.Lgamma(float64(k + 1))
		bits += lg/math.Ln2 + 1
	}
	// prefix counts are bounded by 2^N
	bits += float64(c.ClassCount()+1) * float64(c.Bits+1)
	return uint(bits / 8)
}

// ExplainIndent will print an indented summary of the configuration to stdout
func (c *Config) ExplainIndent(indent string) {
	side, square := c.SideLength()
	if square {
		fmt.Printf("%s%4d bits per vector (%dx%d image)\n", indent, c.Bits, side, side)
	} else {
		fmt.Printf("%s%4d bits per vector (not a square image)\n", indent, c.Bits)
	}
	fmt.Printf("%s%4d population classes\n", indent, c.ClassCount())
	fmt.Printf("%s   %s per index\n", indent, humanBytes(uint64(c.IndexBytes())))
	fmt.Printf("%s   %s combinatorial tables expected\n", indent, humanBytes(uint64(c.TableBytes())))
	if c.DisableLeafCache {
		fmt.Printf("%s   leaf cache disabled\n", indent)
	}
}

// Explain will print a summary of the configuration to stdout
func (c *Config) Explain() {
	c.ExplainIndent("")
}

var byteUnits = []string{"bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// humanBytes prints a byte count with three significant digits in the
// largest binary unit that keeps it at or above one.
func humanBytes(bytes uint64) string {
	v := float64(bytes)
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	switch {
	case unit == 0:
		return fmt.Sprintf("%d %s", bytes, byteUnits[unit])
	case v < 10:
		return fmt.Sprintf("%0.2f %s", v, byteUnits[unit])
	case v < 100:
		return fmt.Sprintf("%0.1f %s", v, byteUnits[unit])
	default:
		return fmt.Sprintf("%0.0f %s", v, byteUnits[unit])
	}
}

package babel

import (
	"math"
	"math/big"
)

// fixedPointScale quantizes percentages before they touch an index, so
// that percent conversions do not depend on float precision over huge
// ranges.  Percentages resolve to roughly one part in two billion.
const fixedPointScale = math.MaxInt32

var bigScale = big.NewInt(fixedPointScale)

func clamp01(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// scaleBy returns floor(value * p) in fixed point, p in [0, 1].
func scaleBy(value *big.Int, p float64) *big.Int {
	fp := big.NewInt(int64(p * fixedPointScale))
	r := new(big.Int).Mul(value, fp)
	return r.Quo(r, bigScale)
}

// ratio returns numerator/denominator in fixed point.
func ratio(numerator, denominator *big.Int) float64 {
	if denominator.Sign() == 0 {
		return 0
	}
	q := new(big.Int).Mul(numerator, bigScale)
	q.Quo(q, denominator)
	return float64(q.Int64()) / fixedPointScale
}

// IndexFromPercent maps p in [0, 1] linearly onto [0, MaxIndex].  p is
// clamped into [0, 1].
func (c *Codec) IndexFromPercent(p float64) *big.Int {
	return scaleBy(c.maxIndex, clamp01(p))
}

// PercentFromIndex is the inverse of IndexFromPercent.
func (c *Codec) PercentFromIndex(index *big.Int) (float64, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	return ratio(index, c.maxIndex), nil
}

// NormalizedIndexFromPercent splits [0, 1] into Bits()+1 equally wide
// slots, one per population class, and interpolates linearly inside the
// selected class.  Every class gets the same share of the range no matter
// how many vectors it holds, so scrubbing through p visits sparse and
// dense vectors alike.
func (c *Codec) NormalizedIndexFromPercent(p float64) *big.Int {
	slots := c.bits + 1
	scaled := clamp01(p) * float64(slots)

	slot := int(math.Floor(scaled))
	if slot > c.bits {
		slot = c.bits
	}
	t := clamp01(scaled - float64(slot))

	size := c.combination(c.bits, slot)
	index := scaleBy(size, t)
	if index.Cmp(size) >= 0 {
		index.Sub(size, bigOne)
	}
	return index.Add(index, c.prefix[slot])
}

// NormalizedPercentFromIndex is the inverse of NormalizedIndexFromPercent.
func (c *Codec) NormalizedPercentFromIndex(index *big.Int) (float64, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	k := c.classOf(index)
	slots := float64(c.bits + 1)
	slotA := float64(k) / slots
	slotB := float64(k+1) / slots

	inClass := new(big.Int).Sub(index, c.prefix[k])
	t := ratio(inClass, c.combination(c.bits, k))
	return slotA + (slotB-slotA)*t, nil
}

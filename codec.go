// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	"fmt"
	"math/big"
)

// leafBits is the range length whose decodes are memoized as one byte.
const leafBits = 8

type leafKey struct {
	setCount, index int
}

// Codec converts between indices into the enumeration of all Bits()-bit
// vectors and the vectors themselves.
//
// Codec memoizes intermediate results across calls; it is not safe for
// concurrent use.
type Codec struct {
	bits     int
	maxIndex *big.Int
	config   Config

	factorial []*big.Int
	prefix    []*big.Int

	combinations map[combinationKey]*big.Int
	splits       map[splitKey]split
	leaves       map[leafKey]byte
}

// CacheStats reports the number of entries held by each memoization cache.
type CacheStats struct {
	Combinations int
	Splits       int
	Leaves       int
}

// New returns a codec for vectors of the given number of bits, which must
// be a positive power of two.
func New(bits uint) (*Codec, error) {
	return NewWithConfig(Config{
		Bits: bits,
	})
}

// NewWithConfig returns a codec configured by cfg.
func NewWithConfig(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Codec{
		bits:   int(cfg.Bits),
		config: cfg,
	}
	c.resetCaches()
	c.maxIndex = new(big.Int).Lsh(bigOne, cfg.Bits)
	c.maxIndex.Sub(c.maxIndex, bigOne)
	c.initTables()
	tracer().Debugf("codec for %d bits, %d classes, max index has %d decimal digits",
		c.bits, c.bits+1, len(c.maxIndex.String()))
	return c, nil
}

func (c *Codec) resetCaches() {
	c.combinations = make(map[combinationKey]*big.Int)
	c.splits = make(map[splitKey]split)
	if !c.config.DisableLeafCache {
		c.leaves = make(map[leafKey]byte)
	}
}

// Bits returns the number of bits per vector.
func (c *Codec) Bits() int {
	return c.bits
}

// Config returns the configuration the codec was built with.
func (c *Codec) Config() Config {
	return c.config
}

// MaxIndex returns 2^Bits()-1, the index of the all-ones vector.
func (c *Codec) MaxIndex() *big.Int {
	return new(big.Int).Set(c.maxIndex)
}

// ClearCaches drops all memoized intermediate results.  It never changes
// the results of Encode or Decode.
func (c *Codec) ClearCaches() {
	stats := c.CacheStats()
	c.resetCaches()
	tracer().Debugf("cleared caches: %d combinations, %d splits, %d leaves",
		stats.Combinations, stats.Splits, stats.Leaves)
}

// CacheStats reports the current size of the memoization caches.
func (c *Codec) CacheStats() CacheStats {
	return CacheStats{
		Combinations: len(c.combinations),
		Splits:       len(c.splits),
		Leaves:       len(c.leaves),
	}
}

func (c *Codec) checkIndex(index *big.Int) error {
	if index == nil {
		return fmt.Errorf("%w: nil index", ErrInvalidArgument)
	}
	if index.Sign() < 0 || index.Cmp(c.maxIndex) > 0 {
		return fmt.Errorf("%w: %s not in [0, 2^%d)", ErrIndexOutOfRange, index, c.bits)
	}
	return nil
}

// classOf returns the population class containing a valid index.
func (c *Codec) classOf(index *big.Int) int {
	for k := 0; k <= c.bits; k++ {
		if index.Cmp(c.prefix[k+1]) < 0 {
			return k
		}
	}
	panic(fmt.Sprintf("internal inconsistency: index %s beyond the last class", index))
}

// ClassOf returns the number of set bits of the vector at index.
func (c *Codec) ClassOf(index *big.Int) (int, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	return c.classOf(index), nil
}

// Step returns index+delta clamped into [0, MaxIndex].
func (c *Codec) Step(index *big.Int, delta int64) *big.Int {
	next := new(big.Int).Add(index, big.NewInt(delta))
	if next.Sign() < 0 {
		return next.SetInt64(0)
	}
	if next.Cmp(c.maxIndex) > 0 {
		return next.Set(c.maxIndex)
	}
	return next
}

// Decode overwrites v with the vector found at index.
func (c *Codec) Decode(index *big.Int, v BitVector) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if len(v) != c.bits {
		return fmt.Errorf("%w: vector has %d bits, codec expects %d",
			ErrLengthMismatch, len(v), c.bits)
	}
	k := c.classOf(index)
	local := new(big.Int).Sub(index, c.prefix[k])
	c.decodeRange(v, 0, c.bits, k, local)
	return nil
}

// DecodeNew returns a newly allocated vector found at index.
func (c *Codec) DecodeNew(index *big.Int) (BitVector, error) {
	v := make(BitVector, c.bits)
	if err := c.Decode(index, v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeRange fills v[start:end] with the index'th arrangement of setCount
// bits.  index is not modified.
func (c *Codec) decodeRange(v BitVector, start, end, setCount int, index *big.Int) {
	length := end - start
	if length == 1 {
		v[start] = byte(setCount)
		return
	}

	// leaf decodes do not depend on where the range sits in v
	leaf := length == leafBits && c.leaves != nil
	var key leafKey
	if leaf {
		key = leafKey{setCount, int(index.Int64())}
		if b, ok := c.leaves[key]; ok {
			unpackLeaf(b, v[start:end])
			return
		}
	}

	subLength := length / 2
	minLeft, maxLeft := occupancyRange(setCount, subLength)

	// find the first allocation whose running total passes index
	var s split
	i := 0
	for ; minLeft+i <= maxLeft; i++ {
		s = c.allocation(setCount, subLength, i)
		if index.Cmp(s.cumulative) < 0 {
			break
		}
	}
	if minLeft+i > maxLeft {
		panic(fmt.Sprintf("internal inconsistency: index %s exceeds all allocations of %d bits over 2x%d",
			index, setCount, subLength))
	}

	local := new(big.Int).Sub(index, s.cumulative)
	local.Add(local, new(big.Int).Mul(s.left, s.right))
	leftIndex, rightIndex := interleave(s.left, s.right, local)

	middle := start + subLength
	c.decodeRange(v, start, middle, minLeft+i, leftIndex)
	c.decodeRange(v, middle, end, maxLeft-i, rightIndex)

	if leaf {
		c.leaves[key] = packLeaf(v[start:end])
	}
}

// Encode returns the index of v.
func (c *Codec) Encode(v BitVector) (*big.Int, error) {
	if err := v.Validate(c.bits); err != nil {
		return nil, err
	}
	k := v.PopCount()
	index := new(big.Int).Set(c.prefix[k])
	return index.Add(index, c.encodeRange(v, 0, c.bits, k)), nil
}

// encodeRange returns the index of the arrangement of the setCount bits in
// v[start:end].
func (c *Codec) encodeRange(v BitVector, start, end, setCount int) *big.Int {
	length := end - start
	if length == 1 {
		return new(big.Int)
	}

	subLength := length / 2
	middle := start + subLength
	leftOccupied := v[start:middle].PopCount()
	rightOccupied := setCount - leftOccupied

	leftIndex := c.encodeRange(v, start, middle, leftOccupied)
	rightIndex := c.encodeRange(v, middle, end, rightOccupied)

	index := inverseInterleave(leftIndex, rightIndex,
		c.combination(subLength, leftOccupied), c.combination(subLength, rightOccupied))

	// skip every allocation with fewer bits on the left
	minLeft, _ := occupancyRange(setCount, subLength)
	if i := leftOccupied - minLeft; i > 0 {
		index.Add(index, c.allocation(setCount, subLength, i-1).cumulative)
	}
	return index
}

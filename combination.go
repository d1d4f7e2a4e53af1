// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	"fmt"
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

type combinationKey struct {
	n, k int
}

// splitKey identifies one left/right allocation of setCount bits over two
// halves of subLength bits each.  allocation counts up from the smallest
// legal left occupancy.
type splitKey struct {
	setCount, subLength, allocation int
}

// split memoizes one allocation: the number of left and right
// arrangements and the running total of left*right over this and all
// preceding allocations.
type split struct {
	left, right, cumulative *big.Int
}

// initTables builds the factorial table and the exclusive class prefix
// counts.  prefix[k] is the index of the first vector with k set bits;
// prefix[bits+1] is 2^bits.
func (c *Codec) initTables() {
	c.factorial = make([]*big.Int, c.bits+1)
	c.factorial[0] = big.NewInt(1)
	for i := 1; i <= c.bits; i++ {
		c.factorial[i] = new(big.Int).Mul(c.factorial[i-1], big.NewInt(int64(i)))
	}

	c.prefix = make([]*big.Int, c.bits+2)
	c.prefix[0] = new(big.Int)
	for k := 0; k <= c.bits; k++ {
		c.prefix[k+1] = new(big.Int).Add(c.prefix[k], c.combination(c.bits, k))
	}
}

// combination returns the binomial coefficient C(n, k).  The returned value
// is shared with the cache and must not be modified.
//
// Older revisions called this NPermuteK, but it has always computed
// unordered combinations, not permutations.
func (c *Codec) combination(n, k int) *big.Int {
	key := combinationKey{n, k}
	if v, ok := c.combinations[key]; ok {
		return v
	}
	v := new(big.Int).Div(c.factorial[n], c.factorial[k])
	v.Div(v, c.factorial[n-k])
	c.combinations[key] = v
	return v
}

// Combination returns the binomial coefficient C(n, k) for 0 <= k <= n <=
// Bits().
func (c *Codec) Combination(n, k int) (*big.Int, error) {
	if n < 0 || n > c.bits || k < 0 || k > n {
		return nil, fmt.Errorf("%w: C(%d, %d) outside of 0 <= k <= n <= %d",
			ErrInvalidArgument, n, k, c.bits)
	}
	return new(big.Int).Set(c.combination(n, k)), nil
}

// PrefixCount returns the index of the first vector with exactly k set
// bits, for 0 <= k <= Bits()+1.  PrefixCount(Bits()+1) is 2^Bits().
func (c *Codec) PrefixCount(k int) *big.Int {
	return new(big.Int).Set(c.prefix[k])
}

// occupancyRange reports the smallest and largest number of the setCount
// bits which can fall into the left half of a range split into two halves
// of subLength bits.
func occupancyRange(setCount, subLength int) (minLeft, maxLeft int) {
	minLeft = setCount - subLength
	if minLeft < 0 {
		minLeft = 0
	}
	return minLeft, setCount - minLeft
}

// allocation returns the i'th allocation of setCount bits over two halves
// of subLength bits, filling the split cache for all preceding
// allocations on the way.
func (c *Codec) allocation(setCount, subLength, i int) split {
	key := splitKey{setCount, subLength, i}
	if s, ok := c.splits[key]; ok {
		return s
	}
	minLeft, maxLeft := occupancyRange(setCount, subLength)
	if i < 0 || minLeft+i > maxLeft {
		panic(fmt.Sprintf("internal inconsistency: allocation %d of %d bits over 2x%d",
			i, setCount, subLength))
	}
	cumulative := bigZero
	if i > 0 {
		cumulative = c.allocation(setCount, subLength, i-1).cumulative
	}
	s := split{
		left:  c.combination(subLength, minLeft+i),
		right: c.combination(subLength, maxLeft-i),
	}
	s.cumulative = new(big.Int).Mul(s.left, s.right)
	s.cumulative.Add(s.cumulative, cumulative)
	c.splits[key] = s
	return s
}

// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import "math/big"

// interleave maps i in [0, width*height) onto a (left, right) pair with
// left < width and right < height.
//
// Indices are grouped into bands of 2*height entries.  Inside a band the
// curve climbs a staircase, advancing left and right alternately, so that
// left-right stays on one of the band's two neighbouring diagonals (modulo
// width).  Successive bands are walked in opposite directions, and a
// trailing band of height entries covers the last diagonal when width is
// odd:
//
//	width=4, height=3:   i: 0 1 2 3 4 5 | 6 7 8 9 10 11
//	                  left: 0 1 1 2 2 3 | 1 0 0 3  3  2
//	                 right: 0 0 1 1 2 2 | 2 2 1 1  0  0
//
// Consecutive indices inside a band change exactly one of left and right,
// by one step.
func interleave(width, height, i *big.Int) (left, right *big.Int) {
	columnCount := new(big.Int).Rsh(width, 1)
	columnSize := new(big.Int).Lsh(height, 1)

	columnIndex, inColumn := new(big.Int).QuoRem(i, columnSize, new(big.Int))
	reversed := columnIndex.Bit(0) == 1

	left = new(big.Int).Lsh(columnIndex, 1)
	if columnIndex.Cmp(columnCount) == 0 {
		// trailing single column, only height entries long
		if reversed {
			inColumn.Sub(new(big.Int).Sub(height, bigOne), inColumn)
		}
		left.Add(left, inColumn)
		right = inColumn
	} else {
		if reversed {
			inColumn.Sub(new(big.Int).Sub(columnSize, bigOne), inColumn)
		}
		left.Add(left, new(big.Int).Rsh(new(big.Int).Add(inColumn, bigOne), 1))
		right = inColumn.Rsh(inColumn, 1)
	}
	left.Mod(left, width)
	return left, right
}

// inverseInterleave returns the i for which interleave(width, height, i)
// yields (left, right).
func inverseInterleave(left, right, width, height *big.Int) *big.Int {
	if width.Sign() == 0 {
		panic("internal inconsistency: interleave over an empty width")
	}
	columnCount := new(big.Int).Rsh(width, 1)
	columnSize := new(big.Int).Lsh(height, 1)

	// Mod is Euclidean, baseX ends up in [0, width)
	baseX := new(big.Int).Sub(left, right)
	baseX.Mod(baseX, width)
	baseOdd := baseX.Bit(0) == 1

	columnIndex := new(big.Int).Rsh(baseX, 1)
	reversed := columnIndex.Bit(0) == 1

	var inColumn *big.Int
	if columnIndex.Cmp(columnCount) == 0 {
		if reversed {
			inColumn = new(big.Int).Sub(height, bigOne)
			inColumn.Sub(inColumn, right)
		} else {
			inColumn = new(big.Int).Set(right)
		}
	} else if reversed {
		inColumn = new(big.Int).Sub(height, bigOne)
		inColumn.Sub(inColumn, right)
		inColumn.Lsh(inColumn, 1)
		if !baseOdd {
			inColumn.Add(inColumn, bigOne)
		}
	} else {
		inColumn = new(big.Int).Lsh(right, 1)
		if baseOdd {
			inColumn.Add(inColumn, bigOne)
		}
	}

	index := columnIndex.Mul(columnIndex, columnSize)
	return index.Add(index, inColumn)
}

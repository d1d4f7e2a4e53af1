// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	"fmt"
	"image"
	"image/color"
)

// ImagePositionMap lays out the bit positions of an N-bit vector on a
// sqrt(N) x sqrt(N) grid by recursive bisection along alternating axes:
// the first half of the positions goes to the left half of the grid, each
// half is then split top/bottom, and so on.  Neighbouring bit positions
// end up spatially close.
//
// An ImagePositionMap is immutable and safe for concurrent use.
type ImagePositionMap struct {
	bits, side int
	bitToCoord []image.Point
	coordToBit [][]int // [x][y]
}

// NewImagePositionMap builds the layout for vectors of the given number of
// bits, which must be a power of two and a square.
func NewImagePositionMap(bits uint) (*ImagePositionMap, error) {
	cfg := Config{Bits: bits}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	side, square := cfg.SideLength()
	if !square {
		return nil, fmt.Errorf("%w: bit count must be a square number but was %d",
			ErrInvalidArgument, bits)
	}
	m := &ImagePositionMap{
		bits:       int(bits),
		side:       int(side),
		bitToCoord: make([]image.Point, bits),
		coordToBit: make([][]int, side),
	}
	for x := range m.coordToBit {
		m.coordToBit[x] = make([]int, side)
	}
	m.build(0, m.bits, 0, image.Point{}, image.Pt(m.side, m.side))
	tracer().Debugf("image position map for %d bits, %dx%d", m.bits, m.side, m.side)
	return m, nil
}

// build assigns the positions [start, end) to the rectangle [min, max),
// splitting it at its midpoint along axis (0 = x, 1 = y).
func (m *ImagePositionMap) build(start, end, axis int, min, max image.Point) {
	if end-start == 1 {
		m.bitToCoord[start] = min
		m.coordToBit[min.X][min.Y] = start
		return
	}
	middle := start + (end-start)/2
	leftMax, rightMin := max, min
	if axis == 0 {
		leftMax.X = min.X + (max.X-min.X)/2
		rightMin.X = leftMax.X
	} else {
		leftMax.Y = min.Y + (max.Y-min.Y)/2
		rightMin.Y = leftMax.Y
	}
	m.build(start, middle, 1-axis, min, leftMax)
	m.build(middle, end, 1-axis, rightMin, max)
}

// Bits returns the number of bit positions in the layout
func (m *ImagePositionMap) Bits() int {
	return m.bits
}

// SideLength returns the width and height of the grid
func (m *ImagePositionMap) SideLength() int {
	return m.side
}

// BitPositionToCoordinate returns the grid cell showing bit position i.
func (m *ImagePositionMap) BitPositionToCoordinate(i int) image.Point {
	return m.bitToCoord[i]
}

// CoordinateToBitPosition returns the bit position shown at (x, y).
func (m *ImagePositionMap) CoordinateToBitPosition(x, y int) int {
	return m.coordToBit[x][y]
}

// LookupTable returns, for each pixel of a row-major image (index
// x + y*SideLength()), the bit position shown there.  A shader that samples
// the vector as a SideLength() wide texture reads bit i from texel
// (i % SideLength(), i / SideLength()).
func (m *ImagePositionMap) LookupTable() []int {
	table := make([]int, m.bits)
	for i, p := range m.bitToCoord {
		table[p.X+p.Y*m.side] = i
	}
	return table
}

func (m *ImagePositionMap) checkVector(v BitVector) error {
	if len(v) != m.bits {
		return fmt.Errorf("%w: vector has %d bits, image holds %d", ErrLengthMismatch, len(v), m.bits)
	}
	return nil
}

func (m *ImagePositionMap) checkFlat(img []byte) error {
	if len(img) != m.bits {
		return fmt.Errorf("%w: image buffer has %d pixels, expected %dx%d",
			ErrLengthMismatch, len(img), m.side, m.side)
	}
	return nil
}

func (m *ImagePositionMap) checkGrid(grid [][]byte) error {
	if len(grid) != m.side {
		return fmt.Errorf("%w: grid has %d columns, expected %d", ErrLengthMismatch, len(grid), m.side)
	}
	for x, column := range grid {
		if len(column) != m.side {
			return fmt.Errorf("%w: grid column %d has %d rows, expected %d",
				ErrLengthMismatch, x, len(column), m.side)
		}
	}
	return nil
}

// EncodeToImage writes v into the row-major image buffer img
// (img[x + y*SideLength()]).
func (m *ImagePositionMap) EncodeToImage(v BitVector, img []byte) error {
	if err := m.checkVector(v); err != nil {
		return err
	}
	if err := m.checkFlat(img); err != nil {
		return err
	}
	for i, p := range m.bitToCoord {
		img[p.X+p.Y*m.side] = v[i]
	}
	return nil
}

// DecodeFromImage reads v back from a row-major image buffer.
func (m *ImagePositionMap) DecodeFromImage(img []byte, v BitVector) error {
	if err := m.checkVector(v); err != nil {
		return err
	}
	if err := m.checkFlat(img); err != nil {
		return err
	}
	for y := 0; y < m.side; y++ {
		for x := 0; x < m.side; x++ {
			v[m.coordToBit[x][y]] = img[x+y*m.side]
		}
	}
	return nil
}

// EncodeToGrid writes v into grid, indexed grid[x][y].
func (m *ImagePositionMap) EncodeToGrid(v BitVector, grid [][]byte) error {
	if err := m.checkVector(v); err != nil {
		return err
	}
	if err := m.checkGrid(grid); err != nil {
		return err
	}
	for i, p := range m.bitToCoord {
		grid[p.X][p.Y] = v[i]
	}
	return nil
}

// DecodeFromGrid reads v back from a grid indexed grid[x][y].
func (m *ImagePositionMap) DecodeFromGrid(grid [][]byte, v BitVector) error {
	if err := m.checkVector(v); err != nil {
		return err
	}
	if err := m.checkGrid(grid); err != nil {
		return err
	}
	for x, column := range grid {
		for y, b := range column {
			v[m.coordToBit[x][y]] = b
		}
	}
	return nil
}

// ToGray renders v as a grayscale image, set bits white.
func (m *ImagePositionMap) ToGray(v BitVector) (*image.Gray, error) {
	if err := m.checkVector(v); err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, m.side, m.side))
	for i, p := range m.bitToCoord {
		if v[i] != 0 {
			img.SetGray(p.X, p.Y, color.Gray{Y: 0xff})
		}
	}
	return img, nil
}

// FromImage reads a vector from an image of exactly SideLength() x
// SideLength() pixels.  Pixels at least half as bright as white are set.
func (m *ImagePositionMap) FromImage(img image.Image) (BitVector, error) {
	b := img.Bounds()
	if b.Dx() != m.side || b.Dy() != m.side {
		return nil, fmt.Errorf("%w: image is %dx%d, expected %dx%d",
			ErrLengthMismatch, b.Dx(), b.Dy(), m.side, m.side)
	}
	v := make(BitVector, m.bits)
	for y := 0; y < m.side; y++ {
		for x := 0; x < m.side; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y >= 0x80 {
				v[m.coordToBit[x][y]] = 1
			}
		}
	}
	return v, nil
}

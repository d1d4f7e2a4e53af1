// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	babel "github.com/facebookincubator/go-babel"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
)

// readImageVector loads an image, converts it to grayscale and scales it to
// the square of a bits-long vector before thresholding.
func readImageVector(path string, bits uint) (babel.BitVector, error) {
	m, err := babel.NewImagePositionMap(bits)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("can't decode %s: %w", path, err)
	}

	g := gift.New(gift.Grayscale())
	gray := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(gray, src)

	side := uint(m.SideLength())
	interp := resize.Bilinear
	if uint(gray.Bounds().Dx()) <= side && uint(gray.Bounds().Dy()) <= side {
		interp = resize.NearestNeighbor
	}
	return m.FromImage(resize.Resize(side, side, gray, interp))
}

// writePNG renders v with scale pixels per bit.
func writePNG(path string, v babel.BitVector, scale uint) error {
	if scale == 0 {
		return fmt.Errorf("scale must be positive")
	}
	m, err := babel.NewImagePositionMap(uint(len(v)))
	if err != nil {
		return err
	}
	gray, err := m.ToGray(v)
	if err != nil {
		return err
	}
	side := uint(m.SideLength())
	scaled := resize.Resize(side*scale, side*scale, gray, resize.NearestNeighbor)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return fmt.Errorf("refusing to over-write existing file: %s", path)
	}
	o, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(o, scaled); err != nil {
		o.Close()
		return err
	}
	return o.Close()
}

func printGrid(v babel.BitVector) error {
	m, err := babel.NewImagePositionMap(uint(len(v)))
	if err != nil {
		return err
	}
	side := m.SideLength()
	img := make([]byte, len(v))
	if err := m.EncodeToImage(v, img); err != nil {
		return err
	}
	var sb strings.Builder
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if img[x+y*side] == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
	return nil
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"os"

	babel "github.com/facebookincubator/go-babel"
)

func main() {
	if err := run(os.Stdout); err != nil {
		panic(err)
	}
}

func run(w io.Writer) error {
	// 16 bits lay out as a 4x4 image
	codec, err := babel.New(16)
	if err != nil {
		return err
	}
	m, err := babel.NewImagePositionMap(16)
	if err != nil {
		return err
	}

	for _, i := range []int64{0, 1, 2, 17, 1000, 65535} {
		v, err := codec.DecodeNew(big.NewInt(i))
		if err != nil {
			return err
		}
		index, err := codec.Encode(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%5d: %s -> %s\n", i, v, index)
	}

	// walk through the middle of the enumeration
	v := babel.NewBitVector(16)
	img := make([]byte, 16)
	end := codec.IndexFromPercent(0.5001)
	for index := codec.IndexFromPercent(0.5); index.Cmp(end) <= 0; index = codec.Step(index, 1) {
		if err := codec.Decode(index, v); err != nil {
			return err
		}
		if err := m.EncodeToImage(v, img); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  %v\n", index, img)
	}

	// Bookmark an index and report its size
	buf := bytes.NewBuffer([]byte{})
	b := babel.Bookmark{Bits: 16, Index: big.NewInt(12345)}
	if _, err := b.WriteTo(buf); err != nil {
		return err
	}
	fmt.Fprintf(w, "bookmark serializes into %d bytes\n", buf.Len())
	return nil
}

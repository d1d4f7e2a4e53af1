// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/bits-and-blooms/bitset"
)

// bookmarkVersion is a version number for the on disk
// representation of bookmarks.  Any time incompatible
// changes are made, it is bumped
const bookmarkVersion = uint64(0x0001)

// bookmarkHeader describes a serialized bookmark
type bookmarkHeader struct {
	// a version number which changes as the storage representation
	// changes
	Version uint64
	// the number of bits per vector of the enumeration the index
	// refers to
	Bits uint64
	// the number of big-endian index bytes following the header
	Length uint64
}

// Bookmark names one vector: an index into the enumeration of all
// Bits-bit vectors.
type Bookmark struct {
	Bits  uint
	Index *big.Int
}

func (b *Bookmark) check() error {
	cfg := Config{Bits: b.Bits}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if b.Index == nil || b.Index.Sign() < 0 || uint(b.Index.BitLen()) > b.Bits {
		return fmt.Errorf("%w: bookmark index %s does not fit into %d bits",
			ErrIndexOutOfRange, b.Index, b.Bits)
	}
	return nil
}

// WriteTo writes the bookmark to a stream
func (b *Bookmark) WriteTo(stream io.Writer) (i int64, err error) {
	if err = b.check(); err != nil {
		return
	}
	data := b.Index.Bytes()
	h := bookmarkHeader{
		Version: bookmarkVersion,
		Bits:    uint64(b.Bits),
		Length:  uint64(len(data)),
	}
	if err = binary.Write(stream, binary.LittleEndian, h); err != nil {
		return
	}
	i += int64(binary.Size(h))
	n, err := stream.Write(data)
	i += int64(n)
	return
}

// ReadFrom reads a bookmark written by WriteTo
func (b *Bookmark) ReadFrom(stream io.Reader) (i int64, err error) {
	var h bookmarkHeader
	if err = binary.Read(stream, binary.LittleEndian, &h); err != nil {
		return
	}
	i += int64(binary.Size(h))
	if h.Version != bookmarkVersion {
		return i, fmt.Errorf("incompatible file format: version is %d, expected %d",
			h.Version, bookmarkVersion)
	}
	// bound Bits before it sizes anything
	if h.Bits > MaxBits {
		return i, fmt.Errorf("%w: bookmark for %d bits, at most %d are supported",
			ErrInvalidArgument, h.Bits, MaxBits)
	}
	cfg := Config{Bits: uint(h.Bits)}
	if err = cfg.Validate(); err != nil {
		return
	}
	if h.Length > uint64(cfg.IndexBytes()) {
		return i, fmt.Errorf("%w: %d index bytes for %d bits", ErrIndexOutOfRange, h.Length, h.Bits)
	}
	data := make([]byte, h.Length)
	n, err := io.ReadFull(stream, data)
	i += int64(n)
	if err != nil {
		return
	}
	b.Bits = uint(h.Bits)
	b.Index = new(big.Int).SetBytes(data)
	return i, b.check()
}

// ReadBookmarkFromPath reads a bookmark from a file
func ReadBookmarkFromPath(path string) (*Bookmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var b Bookmark
	if _, err = b.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("reading bookmark %s: %w", path, err)
	}
	return &b, nil
}

// WriteToPath writes the bookmark to a new file, refusing to over-write
// an existing one.
func (b *Bookmark) WriteToPath(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err = b.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing bookmark %s: %w", path, err)
	}
	return f.Close()
}

// WriteVector writes a packed vector to a stream
func WriteVector(stream io.Writer, v BitVector) (int64, error) {
	return v.Pack().WriteTo(stream)
}

// ReadVector reads a vector written by WriteVector
func ReadVector(stream io.Reader) (BitVector, int64, error) {
	var bs bitset.BitSet
	n, err := bs.ReadFrom(stream)
	if err != nil {
		return nil, n, err
	}
	return UnpackBitVector(&bs, bs.Len()), n, nil
}

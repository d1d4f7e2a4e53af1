// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookmarkRoundTrip(t *testing.T) {
	c, err := New(256)
	if !assert.NoError(t, err) {
		return
	}
	for _, index := range []*big.Int{
		big.NewInt(0),
		big.NewInt(12345),
		c.IndexFromPercent(0.3),
		c.MaxIndex(),
	} {
		b := Bookmark{Bits: 256, Index: index}
		buf := bytes.NewBuffer([]byte{})
		n, err := b.WriteTo(buf)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, int64(buf.Len()), n)

		var got Bookmark
		m, err := got.ReadFrom(buf)
		if assert.NoError(t, err) {
			assert.Equal(t, n, m)
			assert.Equal(t, uint(256), got.Bits)
			assert.Zero(t, index.Cmp(got.Index), "read %s, wrote %s", got.Index, index)
		}
	}
}

func TestBookmarkErrors(t *testing.T) {
	buf := bytes.NewBuffer([]byte{})
	_, err := (&Bookmark{Bits: 8, Index: big.NewInt(256)}).WriteTo(buf)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = (&Bookmark{Bits: 8, Index: big.NewInt(-1)}).WriteTo(buf)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = (&Bookmark{Bits: 8}).WriteTo(buf)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Zero(t, buf.Len())

	// unknown version
	binary.Write(buf, binary.LittleEndian, bookmarkHeader{Version: 7, Bits: 8, Length: 1})
	buf.WriteByte(1)
	var b Bookmark
	_, err = b.ReadFrom(buf)
	assert.Error(t, err)

	// more index bytes than the bit count allows
	buf.Reset()
	binary.Write(buf, binary.LittleEndian, bookmarkHeader{Version: bookmarkVersion, Bits: 8, Length: 2})
	buf.Write([]byte{1, 0})
	_, err = b.ReadFrom(buf)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	// headers naming unusable bit counts are rejected before anything is allocated
	for _, bits := range []uint64{0, 12, 2 * MaxBits, 1 << 62, math.MaxUint64} {
		buf.Reset()
		binary.Write(buf, binary.LittleEndian, bookmarkHeader{Version: bookmarkVersion, Bits: bits, Length: 1 << 58})
		_, err = b.ReadFrom(buf)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%d bits", bits)
	}
	buf.Reset()
	_, err = (&Bookmark{Bits: 12, Index: big.NewInt(1)}).WriteTo(buf)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, buf.Len())

	// truncated index
	buf.Reset()
	binary.Write(buf, binary.LittleEndian, bookmarkHeader{Version: bookmarkVersion, Bits: 64, Length: 4})
	buf.Write([]byte{1, 2})
	_, err = b.ReadFrom(buf)
	assert.Error(t, err)
}

func TestBookmarkPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmark")
	b := Bookmark{Bits: 16, Index: big.NewInt(40000)}
	if !assert.NoError(t, b.WriteToPath(path)) {
		return
	}
	assert.Error(t, b.WriteToPath(path), "over-wrote existing bookmark")

	got, err := ReadBookmarkFromPath(path)
	if assert.NoError(t, err) {
		assert.Equal(t, uint(16), got.Bits)
		assert.Equal(t, int64(40000), got.Index.Int64())
	}

	_, err = ReadBookmarkFromPath(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestVectorRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(77))
	for _, bits := range []int{1, 16, 100, 1024} {
		v := randomVector(r, bits)
		buf := bytes.NewBuffer([]byte{})
		n, err := WriteVector(buf, v)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, int64(buf.Len()), n)
		got, m, err := ReadVector(buf)
		if assert.NoError(t, err) {
			assert.Equal(t, n, m)
			assert.Equal(t, v, got)
		}
	}
}

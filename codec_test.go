// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// the full enumeration of 4 bit vectors
var fourBitOrder = []string{
	"0000",
	"0001", "0010", "0100", "1000",
	"0011", "0101", "1001", "1010", "0110", "1100",
	"0111", "1011", "1101", "1110",
	"1111",
}

func TestFourBits(t *testing.T) {
	c, err := New(4)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, int64(15), c.MaxIndex().Int64())
	for k, expected := range []int64{0, 1, 5, 11, 15, 16} {
		assert.Equal(t, expected, c.PrefixCount(k).Int64(), "prefix count %d", k)
	}
	for i, expected := range fourBitOrder {
		index := big.NewInt(int64(i))
		v, err := c.DecodeNew(index)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, expected, v.String(), "decode of %d", i)

		got, err := c.Encode(v)
		if assert.NoError(t, err) {
			assert.Equal(t, index.String(), got.String(), "encode of %s", v)
		}
	}
}

func TestBijection(t *testing.T) {
	for _, bits := range []uint{1, 2, 4, 8, 16} {
		c, err := New(bits)
		if !assert.NoError(t, err) {
			return
		}
		seen := make(map[string]bool, 1<<bits)
		v := NewBitVector(int(bits))
		lastCount := 0
		for i := int64(0); i < 1<<bits; i++ {
			index := big.NewInt(i)
			if !assert.NoError(t, c.Decode(index, v)) {
				return
			}
			s := v.String()
			if !assert.False(t, seen[s], "%d bits: %s decoded twice", bits, s) {
				return
			}
			seen[s] = true

			// classes come in order of increasing population
			if !assert.GreaterOrEqual(t, v.PopCount(), lastCount, "%d bits: class order at %d", bits, i) {
				return
			}
			lastCount = v.PopCount()

			got, err := c.Encode(v)
			if !assert.NoError(t, err) || !assert.Equal(t, index.String(), got.String(), "%d bits: encode of %s", bits, s) {
				return
			}
		}
		assert.Len(t, seen, 1<<bits)
	}
}

func TestBoundaries(t *testing.T) {
	for _, bits := range []uint{1, 64, 256, 1024} {
		c, err := New(bits)
		if !assert.NoError(t, err) {
			return
		}
		first, err := c.DecodeNew(big.NewInt(0))
		if assert.NoError(t, err) {
			assert.Equal(t, 0, first.PopCount())
		}
		last, err := c.DecodeNew(c.MaxIndex())
		if assert.NoError(t, err) {
			assert.Equal(t, int(bits), last.PopCount())
		}

		expected := new(big.Int).Lsh(big.NewInt(1), bits)
		expected.Sub(expected, big.NewInt(1))
		assert.Equal(t, expected.String(), c.MaxIndex().String())
	}
}

func TestRandomRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(77)) //intentionally fixed seed
	for _, bits := range []uint{64, 256, 1024} {
		c, err := New(bits)
		if !assert.NoError(t, err) {
			return
		}
		for j := 0; j < 50; j++ {
			// vary the density so that every region of the enumeration is hit
			density := r.Float64()
			v := NewBitVector(int(bits))
			for i := range v {
				if r.Float64() < density {
					v[i] = 1
				}
			}
			index, err := c.Encode(v)
			if !assert.NoError(t, err) {
				return
			}
			k, err := c.ClassOf(index)
			if assert.NoError(t, err) {
				assert.Equal(t, v.PopCount(), k)
			}
			got, err := c.DecodeNew(index)
			if !assert.NoError(t, err) || !assert.Equal(t, v.String(), got.String()) {
				return
			}

			index = new(big.Int).Rand(r, new(big.Int).Add(c.MaxIndex(), bigOne))
			got, err = c.DecodeNew(index)
			if !assert.NoError(t, err) {
				return
			}
			back, err := c.Encode(got)
			if !assert.NoError(t, err) || !assert.Equal(t, index.String(), back.String()) {
				return
			}
		}
	}
}

func TestCaches(t *testing.T) {
	c, err := New(64)
	if !assert.NoError(t, err) {
		return
	}
	uncached, err := NewWithConfig(Config{Bits: 64, DisableLeafCache: true})
	if !assert.NoError(t, err) {
		return
	}

	r := rand.New(rand.NewSource(42))
	indices := make([]*big.Int, 100)
	decoded := make([]string, len(indices))
	for i := range indices {
		indices[i] = new(big.Int).Rand(r, new(big.Int).Add(c.MaxIndex(), bigOne))
		v, err := c.DecodeNew(indices[i])
		if !assert.NoError(t, err) {
			return
		}
		decoded[i] = v.String()

		other, err := uncached.DecodeNew(indices[i])
		if assert.NoError(t, err) {
			assert.Equal(t, decoded[i], other.String())
		}
	}

	stats := c.CacheStats()
	assert.NotZero(t, stats.Combinations)
	assert.NotZero(t, stats.Splits)
	assert.NotZero(t, stats.Leaves)
	assert.Zero(t, uncached.CacheStats().Leaves)

	c.ClearCaches()
	assert.Equal(t, CacheStats{}, c.CacheStats())
	for i, index := range indices {
		v, err := c.DecodeNew(index)
		if assert.NoError(t, err) {
			assert.Equal(t, decoded[i], v.String())
		}
	}
}

func TestCodecErrors(t *testing.T) {
	for _, bits := range []uint{0, 3, 12, 100, 2 * MaxBits} {
		_, err := New(bits)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%d bits", bits)
	}

	c, err := New(16)
	if !assert.NoError(t, err) {
		return
	}
	v := NewBitVector(16)
	assert.ErrorIs(t, c.Decode(big.NewInt(-1), v), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Decode(big.NewInt(1<<16), v), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Decode(nil, v), ErrInvalidArgument)
	assert.ErrorIs(t, c.Decode(big.NewInt(0), NewBitVector(15)), ErrLengthMismatch)

	_, err = c.DecodeNew(big.NewInt(1 << 20))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = c.Encode(NewBitVector(32))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	v[3] = 2
	_, err = c.Encode(v)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.ClassOf(big.NewInt(-5))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestClassOf(t *testing.T) {
	c, err := New(4)
	if !assert.NoError(t, err) {
		return
	}
	for i, s := range fourBitOrder {
		v, _ := ParseBitVector(s)
		k, err := c.ClassOf(big.NewInt(int64(i)))
		if assert.NoError(t, err) {
			assert.Equal(t, v.PopCount(), k, "class of %d", i)
		}
	}
}

func TestStep(t *testing.T) {
	c, err := New(8)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, int64(11), c.Step(big.NewInt(10), 1).Int64())
	assert.Equal(t, int64(0), c.Step(big.NewInt(3), -10).Int64())
	assert.Equal(t, int64(255), c.Step(big.NewInt(250), 10).Int64())
	assert.Equal(t, int64(255), c.Step(c.MaxIndex(), 1).Int64())
}

func BenchmarkDecode(b *testing.B) {
	c, _ := New(DefaultBits)
	r := rand.New(rand.NewSource(77))
	limit := new(big.Int).Add(c.MaxIndex(), bigOne)
	indices := make([]*big.Int, 1024)
	for i := range indices {
		indices[i] = new(big.Int).Rand(r, limit)
	}
	v := NewBitVector(DefaultBits)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Decode(indices[i%len(indices)], v)
	}
}

func BenchmarkEncode(b *testing.B) {
	c, _ := New(DefaultBits)
	r := rand.New(rand.NewSource(77))
	vectors := make([]BitVector, 1024)
	for i := range vectors {
		vectors[i] = NewBitVector(DefaultBits)
		for j := range vectors[i] {
			vectors[i][j] = byte(r.Intn(2))
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Encode(vectors[i%len(vectors)])
	}
}

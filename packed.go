package babel

import (
	"github.com/bits-and-blooms/bitset"
)

// packLeaf packs up to eight bits into a byte, bit i of the byte holding
// v[i].
func packLeaf(v BitVector) (b byte) {
	for i, x := range v {
		if x != 0 {
			b |= 1 << i
		}
	}
	return
}

// unpackLeaf is the inverse of packLeaf
func unpackLeaf(b byte, v BitVector) {
	for i := range v {
		v[i] = (b >> i) & 1
	}
}

// Pack returns the vector as a bitset of len(v) bits.
func (v BitVector) Pack() *bitset.BitSet {
	bs := bitset.New(uint(len(v)))
	for i, x := range v {
		if x != 0 {
			bs.Set(uint(i))
		}
	}
	return bs
}

// UnpackBitVector returns the first n bits of bs as a vector.
func UnpackBitVector(bs *bitset.BitSet, n uint) BitVector {
	v := make(BitVector, n)
	for i, ok := bs.NextSet(0); ok && i < n; i, ok = bs.NextSet(i + 1) {
		v[i] = 1
	}
	return v
}

// packBytes packs v into bytes, eight bits per byte, least significant bit
// first.
func packBytes(v BitVector) []byte {
	out := make([]byte, (len(v)+7)/8)
	for i := 0; i < len(v); i += 8 {
		end := i + 8
		if end > len(v) {
			end = len(v)
		}
		out[i/8] = packLeaf(v[i:end])
	}
	return out
}

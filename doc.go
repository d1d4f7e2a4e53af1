// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

/*
Package babel enumerates every N-bit vector exactly once, ordered first by
population count and then, inside each population class, along a recursive
interleaving curve that keeps neighbouring indices visually similar when the
vector is laid out as a square image.

The Codec converts between an index into that enumeration and the vector
itself:

	codec, _ := babel.New(256)
	v, _ := codec.DecodeNew(big.NewInt(12345))
	index, _ := codec.Encode(v)

ImagePositionMap lays a vector's bit positions out on a sqrt(N) x sqrt(N)
grid so that adjacent bit positions stay spatially close.

Properties of the enumeration:
  - the first vector is all zeros and the last one is all ones
  - every vector appears exactly once
  - vectors with fewer set bits come before vectors with more set bits

A Codec owns mutable memoization caches and is not safe for concurrent use.
Give each goroutine its own Codec or guard it with a mutex. An
ImagePositionMap is immutable once built.
*/
package babel

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'babel'
func tracer() tracing.Trace {
	return tracing.Select("babel")
}

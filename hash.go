// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package babel

import (
	murmur "github.com/aviddiviner/go-murmur"
)

// Fingerprint returns a 64 bit murmur 2 hash of the vector, suitable as a
// short identity in logs and listings.  Vectors of different lengths
// hash with different seeds.
func (v BitVector) Fingerprint() uint64 {
	return murmur.MurmurHash64A(packBytes(v), uint64(len(v)))
}

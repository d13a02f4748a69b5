// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockdigest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/bitmark-inc/braidvault/fault"
)

// Length - number of bytes in the digest
const Length = sha256.Size

// Digest - type for a digest
// stored and printed in natural byte order
type Digest [Length]byte

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	return Digest(sha256.Sum256(record))
}

// LeadingZeroNibbles - count of leading '0' characters in the hex form
func (digest Digest) LeadingZeroNibbles() int {
	n := 0
	for _, b := range digest {
		if 0 == b {
			n += 2
			continue
		}
		if 0 == b&0xf0 {
			n += 1
		}
		break
	}
	return n
}

// convert a binary digest to hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(digest))
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.ErrInvalidDigestLength
	}
	buffer := make([]byte, Length)
	_, err := hex.Decode(buffer, s)
	if nil != err {
		return fault.ErrInvalidCharacter
	}
	copy(digest[:], buffer)
	return nil
}

// FromString - parse a hex string into a digest
func FromString(s string) (Digest, error) {
	var digest Digest
	err := digest.UnmarshalText([]byte(s))
	return digest, err
}

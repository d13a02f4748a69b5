// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bitmark-inc/braidvault/blockdigest"
	"github.com/bitmark-inc/braidvault/fault"
)

// Level - number of leading zero hex characters a sealed hash must have
type Level int

// limits and defaults
const (
	Minimum Level = 0
	Maximum Level = 2 * blockdigest.Length // every nibble of the digest
	Default Level = 4
)

// NewLevel - validate an integer difficulty
func NewLevel(n int) (Level, error) {
	l := Level(n)
	if !l.Valid() {
		return 0, fault.ErrInvalidDifficulty
	}
	return l, nil
}

// Valid - within range
func (l Level) Valid() bool {
	return l >= Minimum && l <= Maximum
}

// Target - the required hex prefix
func (l Level) Target() string {
	return strings.Repeat("0", int(l))
}

// Satisfied - check a hex hash string against the level
func (l Level) Satisfied(hash string) bool {
	return strings.HasPrefix(hash, l.Target())
}

// ExpectedAttempts - mean number of hashes to find a valid nonce: 16^d
func (l Level) ExpectedAttempts() *big.Int {
	n := big.NewInt(1)
	return n.Lsh(n, uint(4*l))
}

func (l Level) String() string {
	return fmt.Sprintf("%d", int(l))
}

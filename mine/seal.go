// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mine

import (
	"context"
	"time"

	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/fault"
)

// CheckInterval - iterations between cancellation checks
const CheckInterval = 4096

// Seal - search for a nonce satisfying the level
//
// returns the number of hashes computed; on success the block's Nonce
// and Hash are set, on cancellation the Hash is cleared and
// fault.ErrMiningCancelled is returned
func Seal(ctx context.Context, candidate *blockrecord.Block, level difficulty.Level) (uint64, error) {
	if !level.Valid() {
		return 0, fault.ErrInvalidDifficulty
	}

	candidate.Hash = ""
	hasher := candidate.NewHasher()

	attempts := uint64(0)
	for nonce := uint64(0); ; nonce += 1 {

		if 0 != nonce && 0 == nonce%CheckInterval {
			select {
			case <-ctx.Done():
				return attempts, fault.Wrap(fault.ErrMiningCancelled, ctx.Err())
			default:
			}
		}

		digest := hasher.Sum(nonce)
		attempts += 1

		if digest.LeadingZeroNibbles() >= int(level) {
			candidate.Nonce = nonce
			candidate.Hash = digest.String()
			return attempts, nil
		}
	}
}

// NewBlock - build and seal a block in one step
func NewBlock(ctx context.Context, index uint64, payloadDigest string, previousHash string, braidHash string, level difficulty.Level) (*blockrecord.Block, error) {
	b := blockrecord.New(payloadDigest, previousHash, braidHash, time.Now())
	b.Index = index
	_, err := Seal(ctx, b, level)
	if nil != err {
		return nil, err
	}
	return b, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package braid

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/chain"
	"github.com/bitmark-inc/braidvault/fault"
)

// Reference - position of one committed block
type Reference struct {
	Chain int    `json:"chain"`
	Index uint64 `json:"index"`
	Hash  string `json:"hash"`
}

// Receipt - the blocks created by one commit, in chain order
type Receipt struct {
	Payload string      `json:"payload"`
	Blocks  []Reference `json:"blocks"`
}

// Hashes - block hashes in chain order
func (r *Receipt) Hashes() []string {
	h := make([]string, len(r.Blocks))
	for i, b := range r.Blocks {
		h[i] = b.Hash
	}
	return h
}

// CommitResult - completion of an asynchronous commit
type CommitResult struct {
	Receipt *Receipt
	Err     error
}

// Commit - append one block carrying the payload to every chain
//
// on failure the chains that were already extended keep their new
// block, so the ledger may be uneven until the next Sync; the error is
// always a fault.CommitError
func (l *Ledger) Commit(ctx context.Context, payload string) (*Receipt, error) {
	if "" == payload || blockrecord.SyncPayload == payload || blockrecord.GenesisPayload == payload {
		return nil, fault.ErrInvalidPayload
	}

	l.Lock()
	defer l.Unlock()

	if err := l.extendable(); nil != err {
		l.failures += 1
		return nil, fault.Wrap(fault.ErrCommitFailed, err)
	}

	n := len(l.chains)

	// capture every braid target before any chain changes
	braids := make([]string, n)
	for k := 0; k < n-1; k += 1 {
		braids[k] = l.chains[k+1].Latest().Hash
	}

	timestamp := l.commitTime()

	receipt := &Receipt{
		Payload: payload,
		Blocks:  make([]Reference, 0, n),
	}

	var mineErr error
	for k, c := range l.chains {
		candidate := blockrecord.New(payload, "", braids[k], timestamp)
		b, err := c.Add(ctx, candidate)
		if nil != err {
			l.log.Warnf("commit: chain: %d  error: %s", k, err)
			mineErr = fmt.Errorf("chain: %d  error: %w", k, err)
			break
		}
		l.blocksMined += 1
		receipt.Blocks = append(receipt.Blocks, Reference{
			Chain: k,
			Index: b.Index,
			Hash:  b.Hash,
		})
	}

	// partial progress is persisted too so memory and disk agree
	persistErr := l.persist(nil)

	if nil != mineErr {
		l.failures += 1
		return nil, fault.Wrap(fault.ErrCommitFailed, mineErr)
	}
	if nil != persistErr {
		l.failures += 1
		return nil, fault.Wrap(fault.ErrCommitFailed, persistErr)
	}

	l.commits += 1
	l.log.Debugf("commit: payload: %s  blocks: %v", payload, receipt.Hashes())
	return receipt, nil
}

// CommitAsync - run Commit on its own goroutine
//
// the channel receives exactly one result and is then closed
func (l *Ledger) CommitAsync(ctx context.Context, payload string) <-chan CommitResult {
	result := make(chan CommitResult, 1)
	go func() {
		defer close(result)
		receipt, err := l.Commit(ctx, payload)
		result <- CommitResult{
			Receipt: receipt,
			Err:     err,
		}
	}()
	return result
}

// Sync - pad short chains with sync blocks up to the longest length
//
// returns the number of padding blocks added; a second call without an
// intervening commit adds nothing
func (l *Ledger) Sync(ctx context.Context) (int, error) {
	l.Lock()
	defer l.Unlock()

	if err := l.extendable(); nil != err {
		return 0, fault.Wrap(fault.ErrCommitFailed, err)
	}

	longest := 0
	for _, c := range l.chains {
		if c.Length() > longest {
			longest = c.Length()
		}
	}

	timestamp := l.commitTime()

	added := 0
	var mineErr error

chains:
	for k, c := range l.chains {
		for c.Length() < longest {
			candidate := blockrecord.New(blockrecord.SyncPayload, "", "", timestamp)
			_, err := c.Add(ctx, candidate)
			if nil != err {
				mineErr = fmt.Errorf("sync chain: %d  error: %w", k, err)
				break chains
			}
			added += 1
			l.blocksMined += 1
			l.syncBlocks += 1
		}
	}

	persistErr := l.persist(nil)

	if added > 0 {
		l.log.Infof("sync: added %d padding blocks", added)
	}
	if nil != mineErr {
		return added, fault.Wrap(fault.ErrCommitFailed, mineErr)
	}
	if nil != persistErr {
		return added, fault.Wrap(fault.ErrCommitFailed, persistErr)
	}
	return added, nil
}

// a single timestamp for every block of a commit, strictly later than
// every frontier, so a braid target always predates its referrer
//
// caller holds the lock
func (l *Ledger) commitTime() time.Time {
	now := uint64(time.Now().UTC().UnixNano())
	for _, c := range l.chains {
		if ts := c.Latest().Timestamp; ts >= now {
			now = ts + 1
		}
	}
	return time.Unix(0, int64(now)).UTC()
}

// an empty chain, left by a damaged store, has no frontier to link to
//
// caller holds the lock
func (l *Ledger) extendable() error {
	for k, c := range l.chains {
		if 0 == c.Length() {
			return &chain.BlockError{Chain: k, Index: 0, Err: fault.ErrChainEmpty}
		}
	}
	return nil
}

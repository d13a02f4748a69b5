// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package braid

import (
	"github.com/bitmark-inc/braidvault/chain"
	"github.com/bitmark-inc/braidvault/fault"
)

// ChainReport - verification result of one chain
type ChainReport struct {
	Chain  int    `json:"chain"`
	Length int    `json:"length"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	err    error
}

// Report - verification result of the whole ledger
//
// Even is informational: uneven chains are repaired by Sync and do not
// make the ledger invalid
type Report struct {
	Valid      bool          `json:"valid"`
	Even       bool          `json:"even"`
	Chains     []ChainReport `json:"chains"`
	BraidValid bool          `json:"braidValid"`
	BraidError string        `json:"braidError,omitempty"`
	braidErr   error
}

// Err - the first failure found, nil for a valid ledger
func (r *Report) Err() error {
	for _, c := range r.Chains {
		if nil != c.err {
			return c.err
		}
	}
	return r.braidErr
}

// Verify - validate every chain and every braid reference
func (l *Ledger) Verify() *Report {
	l.RLock()
	defer l.RUnlock()
	return l.verify()
}

// caller holds a lock
func (l *Ledger) verify() *Report {
	r := &Report{
		Valid:      true,
		Even:       true,
		Chains:     make([]ChainReport, len(l.chains)),
		BraidValid: true,
	}

	for k, c := range l.chains {
		cr := ChainReport{
			Chain:  k,
			Length: c.Length(),
			Valid:  true,
		}
		if err := c.Validate(); nil != err {
			cr.Valid = false
			cr.Error = err.Error()
			cr.err = err
			r.Valid = false
		}
		if c.Length() != l.chains[0].Length() {
			r.Even = false
		}
		r.Chains[k] = cr
	}

	if err := l.verifyBraids(); nil != err {
		r.BraidValid = false
		r.BraidError = err.Error()
		r.braidErr = err
		r.Valid = false
	}

	return r
}

// every committed block of chain k must reference a block of chain k+1
// that is strictly older than itself, i.e. one that already existed
// when it was committed; padding and the last chain carry none
func (l *Ledger) verifyBraids() error {
	n := len(l.chains)

	for k, c := range l.chains {
		var targets map[string]uint64
		if k < n-1 {
			next := l.chains[k+1].Blocks(0)
			targets = make(map[string]uint64, len(next))
			for _, b := range next {
				targets[b.Hash] = b.Timestamp
			}
		}

		for _, b := range c.Blocks(1) {
			broken := false
			switch {
			case b.IsSync() || k == n-1:
				broken = "" != b.BraidHash
			default:
				ts, ok := targets[b.BraidHash]
				broken = !ok || ts >= b.Timestamp
			}
			if broken {
				return &chain.BlockError{
					Chain: k,
					Index: b.Index,
					Err:   fault.ErrBraidReference,
				}
			}
		}
	}
	return nil
}

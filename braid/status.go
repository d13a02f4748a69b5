// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package braid

// Status - summary of the ledger
type Status struct {
	ChainCount     int    `json:"chain_count"`
	BlocksPerChain []int  `json:"blocks_per_chain"`
	Difficulty     int    `json:"difficulty"`
	Commits        uint64 `json:"commits"`
	FailedCommits  uint64 `json:"failed_commits"`
	SyncBlocks     uint64 `json:"sync_blocks"`
	BlocksMined    uint64 `json:"blocks_mined"`
	Hashes         uint64 `json:"hashes"`
}

// Status - counts under the read lock
func (l *Ledger) Status() Status {
	l.RLock()
	defer l.RUnlock()

	s := Status{
		ChainCount:     len(l.chains),
		BlocksPerChain: make([]int, len(l.chains)),
		Difficulty:     int(l.level),
		Commits:        l.commits,
		FailedCommits:  l.failures,
		SyncBlocks:     l.syncBlocks,
		BlocksMined:    l.blocksMined,
	}
	for k, c := range l.chains {
		s.BlocksPerChain[k] = c.Length()
		s.Hashes += c.Attempts()
	}
	return s
}

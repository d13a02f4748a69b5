// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"
	"fmt"

	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/fault"
)

// Metadata - fixed parameters of a persisted ledger
type Metadata struct {
	Chains     int    `json:"chains"`
	Difficulty int    `json:"difficulty"`
	Created    uint64 `json:"created,string"`
}

// ChainBlock - a block tagged with the chain it belongs to
type ChainBlock struct {
	Chain int
	Block *blockrecord.Block
}

// Metadata - read the ledger parameters
//
// found is false for a database that has never held a ledger
func (s *Store) Metadata() (*Metadata, bool, error) {
	s.RLock()
	defer s.RUnlock()

	data, found, err := s.get(metadataKey)
	if nil != err || !found {
		return nil, false, err
	}

	m := &Metadata{}
	err = json.Unmarshal(data, m)
	if nil != err {
		return nil, false, err
	}
	return m, true, nil
}

// Blocks - all blocks of one chain in index order
func (s *Store) Blocks(chain int) ([]*blockrecord.Block, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}

	iter := s.db.NewIterator(ldb_util.BytesPrefix(chainPrefix(chain)), nil)
	defer iter.Release()

	blocks := make([]*blockrecord.Block, 0, 16)
	for iter.Next() {
		b := &blockrecord.Block{}
		err := json.Unmarshal(iter.Value(), b)
		if nil != err {
			return nil, fmt.Errorf("chain: %d  key: %x  error: %w", chain, iter.Key(), err)
		}
		blocks = append(blocks, b)
	}
	if err := iter.Error(); nil != err {
		return nil, err
	}
	return blocks, nil
}

// SaveBlocks - persist metadata and new blocks as one batch
func (s *Store) SaveBlocks(metadata *Metadata, blocks []ChainBlock) error {
	batch := s.NewBatch()
	if nil != metadata {
		if err := batch.PutMetadata(metadata); nil != err {
			return err
		}
	}
	for _, cb := range blocks {
		if err := batch.PutBlock(cb.Chain, cb.Block); nil != err {
			return err
		}
	}
	return s.Write(batch)
}

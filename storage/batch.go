// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/fault"
)

// Batch - a set of puts applied atomically by Write
type Batch struct {
	batch   *leveldb.Batch
	pending map[string][]byte
}

// NewBatch - start an empty batch
func (s *Store) NewBatch() *Batch {
	return &Batch{
		batch:   new(leveldb.Batch),
		pending: make(map[string][]byte),
	}
}

// Len - number of puts
func (b *Batch) Len() int {
	return b.batch.Len()
}

func (b *Batch) put(key []byte, value []byte, cached bool) {
	b.batch.Put(key, value)
	if cached {
		b.pending[string(key)] = value
	}
}

// PutMetadata - replace the ledger metadata
func (b *Batch) PutMetadata(metadata *Metadata) error {
	data, err := json.Marshal(metadata)
	if nil != err {
		return err
	}
	b.put(metadataKey, data, true)
	return nil
}

// PutBlock - append a block to a chain's log
func (b *Batch) PutBlock(chain int, block *blockrecord.Block) error {
	if "" == block.Hash {
		return fault.ErrUnsealedBlock
	}
	data, err := json.Marshal(block)
	if nil != err {
		return err
	}
	b.put(blockKey(chain, block.Index), data, false)
	return nil
}

// PutRecord - replace a record index entry
func (b *Batch) PutRecord(name string, data []byte) {
	b.put(recordKey(name), data, true)
}

// Write - apply a batch in one database write
func (s *Store) Write(b *Batch) error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}

	err := s.db.Write(b.batch, nil)
	if nil != err {
		s.log.Errorf("batch write: %d items  error: %s", b.batch.Len(), err)
		return err
	}

	for k, v := range b.pending {
		s.cache.Set(k, v)
	}
	s.log.Debugf("batch write: %d items", b.batch.Len())

	b.batch.Reset()
	b.pending = make(map[string][]byte)
	return nil
}

// get through the cache
//
// caller holds the read lock
func (s *Store) get(key []byte) ([]byte, bool, error) {
	if nil == s.db {
		return nil, false, fault.ErrNotInitialised
	}

	if v, found := s.cache.Get(string(key)); found {
		return v, true, nil
	}

	v, err := s.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, err
	}
	s.cache.Set(string(key), v)
	return v, true, nil
}

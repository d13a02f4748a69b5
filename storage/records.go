// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/braidvault/fault"
)

// GetRecord - fetch one record index entry
func (s *Store) GetRecord(name string) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	data, found, err := s.get(recordKey(name))
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrRecordNotFound
	}
	return data, nil
}

// PutRecord - write one record index entry
func (s *Store) PutRecord(name string, data []byte) error {
	batch := s.NewBatch()
	batch.PutRecord(name, data)
	return s.Write(batch)
}

// EachRecord - visit every record in name order
//
// stops at the first error returned by the callback
func (s *Store) EachRecord(fn func(name string, data []byte) error) error {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return fault.ErrNotInitialised
	}

	iter := s.db.NewIterator(ldb_util.BytesPrefix([]byte{recordPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		name := string(iter.Key()[1:])
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		if err := fn(name, value); nil != err {
			return err
		}
	}
	return iter.Error()
}

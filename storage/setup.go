// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/logger"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentDBVersion = 0x100
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Store - an open ledger database
type Store struct {
	sync.RWMutex
	log   *logger.L
	db    *leveldb.DB
	cache Cache
}

// Open - open or create the database
func Open(name string, readOnly bool, log *logger.L) (*Store, error) {
	return open(name, readOnly, newCache(), log)
}

func open(name string, readOnly bool, cache Cache, log *logger.L) (*Store, error) {
	if nil == log {
		logger.Panic("storage: nil logger")
	}

	db, version, err := getDB(name, readOnly)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		db.Close()
		return nil, fault.Wrap(fault.ErrDatabaseVersion, fmt.Errorf("found: %d  expected: %d", version, currentDBVersion))
	}

	if 0 == version {
		if readOnly {
			db.Close()
			return nil, fault.Wrap(fault.ErrDatabaseVersion, fmt.Errorf("empty read only database: %q", name))
		}

		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
		log.Infof("created database: %q  version: %d", name, currentDBVersion)
	}

	log.Infof("opened database: %q  read only: %t", name, readOnly)

	return &Store{
		log:   log,
		db:    db,
		cache: cache,
	}, nil
}

// Close - close the database connection
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.cache.Clear()
	s.log.Info("closed")
	return err
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

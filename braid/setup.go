// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package braid

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/chain"
	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/storage"
	"github.com/bitmark-inc/logger"
)

// defaults
const (
	DefaultChains = 3
)

// Configuration - fixed for the lifetime of a ledger
type Configuration struct {
	Chains     int `gluamapper:"chains" json:"chains"`
	Difficulty int `gluamapper:"difficulty" json:"difficulty"`
}

// Store - persistence used by the ledger
type Store interface {
	Metadata() (*storage.Metadata, bool, error)
	Blocks(chain int) ([]*blockrecord.Block, error)
	SaveBlocks(metadata *storage.Metadata, blocks []storage.ChainBlock) error
}

// Ledger - the braided set of chains
type Ledger struct {
	sync.RWMutex

	log   *logger.L
	store Store
	level difficulty.Level

	chains    []*chain.Chain
	persisted []int // number of blocks of each chain known to be on disk

	commits     uint64
	failures    uint64
	syncBlocks  uint64
	blocksMined uint64
}

// New - load the ledger from the store or create a fresh one
func New(configuration *Configuration, store Store, log *logger.L) (*Ledger, error) {
	if nil == log {
		logger.Panic("braid: nil logger")
	}

	if configuration.Chains < 1 {
		return nil, fault.ErrInvalidChainCount
	}
	level, err := difficulty.NewLevel(configuration.Difficulty)
	if nil != err {
		return nil, err
	}

	l := &Ledger{
		log:       log,
		store:     store,
		level:     level,
		chains:    make([]*chain.Chain, configuration.Chains),
		persisted: make([]int, configuration.Chains),
	}

	metadata, found, err := store.Metadata()
	if nil != err {
		return nil, err
	}

	if found {
		err = l.replay(metadata)
	} else {
		err = l.create()
	}
	if nil != err {
		return nil, err
	}

	return l, nil
}

// rebuild every chain from the block log
func (l *Ledger) replay(metadata *storage.Metadata) error {
	if metadata.Chains != len(l.chains) {
		l.log.Errorf("stored chains: %d  configured: %d", metadata.Chains, len(l.chains))
		return fault.Wrap(fault.ErrChainCountMismatch, fmt.Errorf("stored: %d  configured: %d", metadata.Chains, len(l.chains)))
	}
	if metadata.Difficulty != int(l.level) {
		l.log.Errorf("stored difficulty: %d  configured: %d", metadata.Difficulty, l.level)
		return fault.Wrap(fault.ErrChainDifficultyMismatch, fmt.Errorf("stored: %d  configured: %d", metadata.Difficulty, l.level))
	}

	for k := range l.chains {
		blocks, err := l.store.Blocks(k)
		if nil != err {
			return err
		}
		c, err := chain.Restore(k, l.level, blocks)
		if nil != err {
			return fmt.Errorf("chain: %d  error: %w", k, err)
		}
		l.chains[k] = c
		l.persisted[k] = c.Length()
		l.log.Infof("chain: %d  replayed: %d blocks", k, c.Length())
	}

	// tampered data is loaded and reported, never repaired
	if err := l.verify().Err(); nil != err {
		l.log.Criticalf("replayed ledger failed verification: %s", err)
	}
	return nil
}

// genesis for every chain, persisted with the metadata
func (l *Ledger) create() error {
	now := time.Now()
	for k := range l.chains {
		c, err := chain.New(k, l.level, now)
		if nil != err {
			return err
		}
		l.chains[k] = c
	}

	metadata := &storage.Metadata{
		Chains:     len(l.chains),
		Difficulty: int(l.level),
		Created:    uint64(now.UTC().UnixNano()),
	}
	err := l.persist(metadata)
	if nil != err {
		return err
	}
	l.log.Infof("created ledger: chains: %d  difficulty: %d", len(l.chains), l.level)
	return nil
}

// write every block not yet on disk as one batch
//
// caller holds the write lock
func (l *Ledger) persist(metadata *storage.Metadata) error {
	blocks := make([]storage.ChainBlock, 0, len(l.chains))
	for k, c := range l.chains {
		for _, b := range c.Blocks(uint64(l.persisted[k])) {
			blocks = append(blocks, storage.ChainBlock{Chain: k, Block: b})
		}
	}
	if 0 == len(blocks) && nil == metadata {
		return nil
	}

	err := l.store.SaveBlocks(metadata, blocks)
	if nil != err {
		l.log.Errorf("persist: %d blocks  error: %s", len(blocks), err)
		return err
	}
	for k, c := range l.chains {
		l.persisted[k] = c.Length()
	}
	return nil
}

// ChainCount - number of chains
func (l *Ledger) ChainCount() int {
	return len(l.chains)
}

// Difficulty - the level all chains are sealed at
func (l *Ledger) Difficulty() difficulty.Level {
	return l.level
}

// Chain - read only snapshot of one chain
func (l *Ledger) Chain(k int) (*chain.Chain, error) {
	l.RLock()
	defer l.RUnlock()

	if k < 0 || k >= len(l.chains) {
		return nil, fault.ErrChainNotFound
	}
	return l.chains[k].Snapshot(), nil
}

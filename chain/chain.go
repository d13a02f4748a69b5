// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/mine"
)

// Chain - one strand of the braid
type Chain struct {
	id       int
	level    difficulty.Level
	blocks   []*blockrecord.Block
	attempts uint64
}

// BlockError - identifies the block that failed validation
type BlockError struct {
	Chain int
	Index uint64
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("chain: %d  block: %d  error: %s", e.Chain, e.Index, e.Err)
}

// Unwrap - the underlying fault
func (e *BlockError) Unwrap() error {
	return e.Err
}

// New - create a chain holding only its genesis block
func New(id int, level difficulty.Level, genesisTime time.Time) (*Chain, error) {
	if !level.Valid() {
		return nil, fault.ErrInvalidDifficulty
	}
	return &Chain{
		id:     id,
		level:  level,
		blocks: []*blockrecord.Block{blockrecord.Genesis(genesisTime)},
	}, nil
}

// Restore - rebuild a chain from persisted blocks
//
// no validation is done here so that a tampered store can still be
// loaded and reported by Validate; this includes a chain whose blocks
// were all removed, which loads empty and cannot be extended
func Restore(id int, level difficulty.Level, blocks []*blockrecord.Block) (*Chain, error) {
	if !level.Valid() {
		return nil, fault.ErrInvalidDifficulty
	}
	c := &Chain{
		id:     id,
		level:  level,
		blocks: make([]*blockrecord.Block, len(blocks)),
	}
	for i, b := range blocks {
		c.blocks[i] = b.Copy()
	}
	return c, nil
}

// ID - position in the braid
func (c *Chain) ID() int {
	return c.id
}

// Difficulty - level every non-genesis block is sealed at
func (c *Chain) Difficulty() difficulty.Level {
	return c.level
}

// Length - number of blocks including genesis
func (c *Chain) Length() int {
	return len(c.blocks)
}

// Attempts - total hashes computed while adding blocks
func (c *Chain) Attempts() uint64 {
	return c.attempts
}

// Latest - the frontier block, nil only for an empty restored chain
func (c *Chain) Latest() *blockrecord.Block {
	if 0 == len(c.blocks) {
		return nil
	}
	return c.blocks[len(c.blocks)-1].Copy()
}

// Block - copy of the block at an index
func (c *Chain) Block(index uint64) (*blockrecord.Block, error) {
	if index >= uint64(len(c.blocks)) {
		return nil, fault.ErrBlockNotFound
	}
	return c.blocks[index].Copy(), nil
}

// Blocks - copy of all blocks from an index onwards
func (c *Chain) Blocks(from uint64) []*blockrecord.Block {
	if from >= uint64(len(c.blocks)) {
		return nil
	}
	result := make([]*blockrecord.Block, 0, uint64(len(c.blocks))-from)
	for _, b := range c.blocks[from:] {
		result = append(result, b.Copy())
	}
	return result
}

// Snapshot - detached copy of the whole chain
func (c *Chain) Snapshot() *Chain {
	return &Chain{
		id:       c.id,
		level:    c.level,
		blocks:   c.Blocks(0),
		attempts: c.attempts,
	}
}

// Add - link, seal and append a candidate block
//
// the candidate's index and previous hash are overwritten, and its
// timestamp is raised to the frontier's if it is earlier; nothing is
// appended unless sealing succeeds
func (c *Chain) Add(ctx context.Context, candidate *blockrecord.Block) (*blockrecord.Block, error) {
	if 0 == len(c.blocks) {
		return nil, &BlockError{Chain: c.id, Index: 0, Err: fault.ErrChainEmpty}
	}
	latest := c.blocks[len(c.blocks)-1]

	b := candidate.Copy()
	b.Index = latest.Index + 1
	b.PreviousHash = latest.Hash
	if b.Timestamp < latest.Timestamp {
		b.Timestamp = latest.Timestamp
	}

	attempts, err := mine.Seal(ctx, b, c.level)
	c.attempts += attempts
	if nil != err {
		return nil, err
	}

	c.blocks = append(c.blocks, b)
	return b.Copy(), nil
}

// Validate - check linkage, hash recomputation and difficulty
//
// returns the first failure found as a *BlockError; never repairs
func (c *Chain) Validate() error {
	if 0 == len(c.blocks) {
		return &BlockError{Chain: c.id, Index: 0, Err: fault.ErrChainEmpty}
	}

	genesis := c.blocks[0]
	if blockrecord.GenesisIndex != genesis.Index || blockrecord.GenesisPreviousHash != genesis.PreviousHash {
		return &BlockError{Chain: c.id, Index: 0, Err: fault.ErrGenesisInvalid}
	}
	if err := genesis.Check(0); nil != err {
		return &BlockError{Chain: c.id, Index: 0, Err: err}
	}

	for i := 1; i < len(c.blocks); i += 1 {
		previous := c.blocks[i-1]
		current := c.blocks[i]

		if uint64(i) != current.Index {
			return &BlockError{Chain: c.id, Index: uint64(i), Err: fault.ErrWrongIndex}
		}
		if err := current.Check(c.level); nil != err {
			return &BlockError{Chain: c.id, Index: uint64(i), Err: err}
		}
		if current.PreviousHash != previous.Hash {
			return &BlockError{Chain: c.id, Index: uint64(i), Err: fault.ErrPreviousHashDoesNotMatch}
		}
		if current.Timestamp < previous.Timestamp {
			return &BlockError{Chain: c.id, Index: uint64(i), Err: fault.ErrTimestampOutOfOrder}
		}
	}
	return nil
}

// IsValid - Validate as a boolean
func (c *Chain) IsValid() bool {
	return nil == c.Validate()
}

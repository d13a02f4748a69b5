// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"encoding/binary"
	"time"

	"github.com/bitmark-inc/braidvault/blockdigest"
	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/fault"
)

// special values
const (
	GenesisIndex        = 0
	GenesisPreviousHash = "0"
	GenesisPayload      = "genesis"
	SyncPayload         = `{"type":"sync"}`
)

// byte sizes for fixed fields
const (
	IndexSize     = 8
	TimestampSize = 8
	NonceSize     = 8
)

// Block - one block of a chain
//
// Hash is never trusted on its own, it is always compared with
// RecomputeHash by the chain validator
type Block struct {
	Index         uint64 `json:"index"`
	Timestamp     uint64 `json:"timestamp,string"`
	PayloadDigest string `json:"payloadDigest"`
	PreviousHash  string `json:"previousHash"`
	BraidHash     string `json:"braidHash"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
}

// New - create an unsealed candidate block
func New(payloadDigest string, previousHash string, braidHash string, timestamp time.Time) *Block {
	return &Block{
		Timestamp:     uint64(timestamp.UTC().UnixNano()),
		PayloadDigest: payloadDigest,
		PreviousHash:  previousHash,
		BraidHash:     braidHash,
	}
}

// Genesis - the sentinel first block of every chain
//
// always difficulty zero so construction is free
func Genesis(timestamp time.Time) *Block {
	b := New(GenesisPayload, GenesisPreviousHash, "", timestamp)
	b.Index = GenesisIndex
	b.Hash = b.RecomputeHash()
	return b
}

// Time - the timestamp as a time value
func (b *Block) Time() time.Time {
	return time.Unix(0, int64(b.Timestamp)).UTC()
}

// IsSync - true for padding blocks created by synchronisation
func (b *Block) IsSync() bool {
	return SyncPayload == b.PayloadDigest
}

// Copy - detached copy of a block
func (b *Block) Copy() *Block {
	c := *b
	return &c
}

// Hasher - hashes the fixed part of a block with varying nonce
//
// both mining and validation go through this so there is exactly one
// definition of a block hash
type Hasher struct {
	buffer []byte
	nonce  int
}

// NewHasher - pack all the fields except the nonce
func (b *Block) NewHasher() *Hasher {
	size := IndexSize + TimestampSize +
		3*binary.MaxVarintLen64 +
		len(b.PayloadDigest) + len(b.PreviousHash) + len(b.BraidHash) +
		NonceSize

	buffer := make([]byte, IndexSize+TimestampSize, size)
	binary.BigEndian.PutUint64(buffer[0:], b.Index)
	binary.BigEndian.PutUint64(buffer[IndexSize:], b.Timestamp)
	buffer = appendString(buffer, b.PayloadDigest)
	buffer = appendString(buffer, b.PreviousHash)
	buffer = appendString(buffer, b.BraidHash)

	n := len(buffer)
	buffer = append(buffer, make([]byte, NonceSize)...)

	return &Hasher{
		buffer: buffer,
		nonce:  n,
	}
}

// Sum - digest of the packed block with a specific nonce
func (h *Hasher) Sum(nonce uint64) blockdigest.Digest {
	binary.BigEndian.PutUint64(h.buffer[h.nonce:], nonce)
	return blockdigest.NewDigest(h.buffer)
}

// uvarint length ++ bytes
func appendString(buffer []byte, s string) []byte {
	var l [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(l[:], uint64(len(s)))
	buffer = append(buffer, l[:n]...)
	return append(buffer, s...)
}

// RecomputeHash - hash of the current field values
func (b *Block) RecomputeHash() string {
	return b.NewHasher().Sum(b.Nonce).String()
}

// MeetsDifficulty - stored hash has the required zero prefix
func (b *Block) MeetsDifficulty(level difficulty.Level) bool {
	return level.Satisfied(b.Hash)
}

// Check - stored hash must match a recomputation and satisfy the level
func (b *Block) Check(level difficulty.Level) error {
	if "" == b.Hash {
		return fault.ErrUnsealedBlock
	}
	if b.Hash != b.RecomputeHash() {
		return fault.ErrHashMismatch
	}
	if !b.MeetsDifficulty(level) {
		return fault.ErrInsufficientDifficulty
	}
	return nil
}

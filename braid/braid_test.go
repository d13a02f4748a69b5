// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package braid_test

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/braidvault/blockdigest"
	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/braid/mocks"
	"github.com/bitmark-inc/braidvault/chain"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/mine"
	"github.com/bitmark-inc/braidvault/storage"
	"github.com/bitmark-inc/logger"
)

var testDirectory string

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "braid-test")
	if nil != err {
		panic(fmt.Sprintf("temp directory error: %s", err))
	}
	testDirectory = dir

	var logConfig = logger.Configuration{
		Directory: dir,
		File:      "braid.log",
		Size:      1048576,
		Count:     20,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "trace",
		},
	}
	if err := logger.Initialise(logConfig); err != nil {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}

	result := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(dir)
	os.Exit(result)
}

func payload(s string) string {
	return blockdigest.NewDigest([]byte(s)).String()
}

func openStore(t *testing.T, name string) *storage.Store {
	s, err := storage.Open(filepath.Join(testDirectory, name), storage.ReadWrite, logger.New("storage"))
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return s
}

func newLedger(t *testing.T, store braid.Store, chains int, level int) *braid.Ledger {
	l, err := braid.New(&braid.Configuration{Chains: chains, Difficulty: level}, store, logger.New("braid"))
	if nil != err {
		t.Fatalf("ledger error: %s", err)
	}
	return l
}

func latest(t *testing.T, l *braid.Ledger, k int) *blockrecord.Block {
	c, err := l.Chain(k)
	if nil != err {
		t.Fatalf("chain: %d  error: %s", k, err)
	}
	return c.Latest()
}

func TestBraidIntegrity(t *testing.T) {
	store := openStore(t, "integrity.leveldb")
	defer store.Close()

	l := newLedger(t, store, 3, 1)

	before1 := latest(t, l, 1).Hash
	before2 := latest(t, l, 2).Hash

	receipt, err := l.Commit(context.Background(), payload("record-1"))
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}

	b0 := latest(t, l, 0)
	b1 := latest(t, l, 1)
	b2 := latest(t, l, 2)

	assert.Equal(t, before1, b0.BraidHash, "chain 0 braids chain 1 frontier before update")
	assert.Equal(t, before2, b1.BraidHash, "chain 1 braids chain 2 frontier before update")
	assert.Equal(t, "", b2.BraidHash, "last chain has no braid")

	assert.Equal(t, []string{b0.Hash, b1.Hash, b2.Hash}, receipt.Hashes(), "receipt hashes")
	for k, r := range receipt.Blocks {
		assert.Equal(t, k, r.Chain, "receipt chain order")
		assert.Equal(t, uint64(1), r.Index, "receipt index")
	}

	report := l.Verify()
	assert.True(t, report.Valid, "valid after commit")
	assert.True(t, report.Even, "even after commit")
	assert.Nil(t, report.Err(), "no error")
}

func TestSecondCommitBraidsPreviousCommit(t *testing.T) {
	store := openStore(t, "second.leveldb")
	defer store.Close()

	l := newLedger(t, store, 3, 0)

	first, err := l.Commit(context.Background(), payload("a"))
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}
	_, err = l.Commit(context.Background(), payload("b"))
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}

	assert.Equal(t, first.Blocks[1].Hash, latest(t, l, 0).BraidHash, "chain 0 braid")
	assert.Equal(t, first.Blocks[2].Hash, latest(t, l, 1).BraidHash, "chain 1 braid")
}

func TestReloadFromStore(t *testing.T) {
	name := "reload.leveldb"
	store := openStore(t, name)
	l := newLedger(t, store, 3, 1)

	for i := 0; i < 3; i += 1 {
		_, err := l.Commit(context.Background(), payload(fmt.Sprintf("r-%d", i)))
		if nil != err {
			t.Fatalf("commit error: %s", err)
		}
	}
	expected := l.Status().BlocksPerChain
	frontier := latest(t, l, 2).Hash
	store.Close()

	store = openStore(t, name)
	defer store.Close()

	r := newLedger(t, store, 3, 1)
	assert.Equal(t, expected, r.Status().BlocksPerChain, "lengths survive reload")
	assert.Equal(t, frontier, latest(t, r, 2).Hash, "frontier survives reload")
	assert.True(t, r.Verify().Valid, "valid after reload")
}

func TestReloadConfigurationMismatch(t *testing.T) {
	name := "mismatch.leveldb"
	store := openStore(t, name)
	newLedger(t, store, 3, 1)
	defer store.Close()

	_, err := braid.New(&braid.Configuration{Chains: 2, Difficulty: 1}, store, logger.New("braid"))
	assert.True(t, fault.IsErrConfiguration(err), "chain count mismatch")

	_, err = braid.New(&braid.Configuration{Chains: 3, Difficulty: 2}, store, logger.New("braid"))
	assert.True(t, fault.IsErrConfiguration(err), "difficulty mismatch")
}

func TestInvalidConfiguration(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	store := mocks.NewMockStore(ctl)

	_, err := braid.New(&braid.Configuration{Chains: 0, Difficulty: 1}, store, logger.New("braid"))
	assert.Equal(t, fault.ErrInvalidChainCount, err, "zero chains")

	_, err = braid.New(&braid.Configuration{Chains: 3, Difficulty: 65}, store, logger.New("braid"))
	assert.Equal(t, fault.ErrInvalidDifficulty, err, "difficulty range")
}

func TestInvalidPayload(t *testing.T) {
	store := openStore(t, "payload.leveldb")
	defer store.Close()
	l := newLedger(t, store, 2, 0)

	for _, p := range []string{"", blockrecord.SyncPayload, blockrecord.GenesisPayload} {
		_, err := l.Commit(context.Background(), p)
		assert.Equal(t, fault.ErrInvalidPayload, err, "payload: %q", p)
	}
}

// persisted uneven chains, as left by a commit that failed partway
func unevenChains(t *testing.T) [][]*blockrecord.Block {
	now := time.Now()
	result := make([][]*blockrecord.Block, 3)
	for k := range result {
		c, err := chain.New(k, 0, now)
		if nil != err {
			t.Fatalf("chain error: %s", err)
		}
		result[k] = c.Blocks(0)
	}

	c, err := chain.Restore(0, 0, result[0])
	if nil != err {
		t.Fatalf("restore error: %s", err)
	}
	for i := 0; i < 2; i += 1 {
		b := blockrecord.New(payload(fmt.Sprintf("u-%d", i)), "", "", now.Add(time.Second))
		b.BraidHash = result[1][0].Hash
		_, err := c.Add(context.Background(), b)
		if nil != err {
			t.Fatalf("add error: %s", err)
		}
	}
	result[0] = c.Blocks(0)
	return result
}

func TestSyncPadsUnevenChains(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	chains := unevenChains(t)

	store := mocks.NewMockStore(ctl)
	store.EXPECT().Metadata().Return(&storage.Metadata{Chains: 3, Difficulty: 0}, true, nil).Times(1)
	for k, blocks := range chains {
		store.EXPECT().Blocks(k).Return(blocks, nil).Times(1)
	}

	saved := 0
	store.EXPECT().SaveBlocks(gomock.Nil(), gomock.Any()).DoAndReturn(
		func(m *storage.Metadata, blocks []storage.ChainBlock) error {
			for _, cb := range blocks {
				assert.True(t, cb.Block.IsSync(), "only padding saved")
				assert.Equal(t, "", cb.Block.BraidHash, "padding has no braid")
			}
			saved += len(blocks)
			return nil
		}).Times(1)

	l := newLedger(t, store, 3, 0)

	report := l.Verify()
	assert.True(t, report.Valid, "uneven ledger is still valid")
	assert.False(t, report.Even, "uneven before sync")

	added, err := l.Sync(context.Background())
	assert.Nil(t, err, "sync error")
	assert.Equal(t, 4, added, "two padding blocks on each short chain")
	assert.Equal(t, 4, saved, "padding persisted")
	assert.Equal(t, []int{3, 3, 3}, l.Status().BlocksPerChain, "even after sync")

	// second sync writes nothing, so SaveBlocks is not called again
	added, err = l.Sync(context.Background())
	assert.Nil(t, err, "second sync error")
	assert.Equal(t, 0, added, "sync is idempotent")
	assert.Equal(t, []int{3, 3, 3}, l.Status().BlocksPerChain, "lengths unchanged")

	report = l.Verify()
	assert.True(t, report.Valid, "valid after sync")
	assert.True(t, report.Even, "even after sync")
}

func TestCommitPersistFailureRetried(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockStore(ctl)
	diskFull := errors.New("disk full")

	sizes := []int{}
	results := []error{nil, diskFull, nil}
	store.EXPECT().Metadata().Return(nil, false, nil).Times(1)
	store.EXPECT().SaveBlocks(gomock.Any(), gomock.Any()).DoAndReturn(
		func(m *storage.Metadata, blocks []storage.ChainBlock) error {
			err := results[len(sizes)]
			sizes = append(sizes, len(blocks))
			return err
		}).Times(3)

	l := newLedger(t, store, 2, 0)

	_, err := l.Commit(context.Background(), payload("x"))
	assert.True(t, fault.IsErrCommit(err), "commit error class")
	assert.True(t, errors.Is(err, diskFull), "cause preserved")

	_, err = l.Commit(context.Background(), payload("y"))
	assert.Nil(t, err, "second commit persists both")
	assert.Equal(t, []int{2, 2, 4}, sizes, "unsaved blocks carried into the next batch")

	s := l.Status()
	assert.Equal(t, uint64(1), s.Commits, "commits")
	assert.Equal(t, uint64(1), s.FailedCommits, "failed commits")
	assert.Equal(t, uint64(4), s.BlocksMined, "blocks mined")
}

func TestCommitCancelled(t *testing.T) {
	store := openStore(t, "cancel.leveldb")
	defer store.Close()

	l := newLedger(t, store, 3, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Commit(ctx, payload("never"))
	assert.True(t, fault.IsErrCommit(err), "commit class")
	assert.True(t, fault.IsErrProcess(err), "cancellation visible through wrapping")
	assert.Equal(t, []int{1, 1, 1}, l.Status().BlocksPerChain, "nothing appended")
}

func TestCommitAsync(t *testing.T) {
	store := openStore(t, "async.leveldb")
	defer store.Close()

	l := newLedger(t, store, 3, 1)

	result := <-l.CommitAsync(context.Background(), payload("async"))
	assert.Nil(t, result.Err, "async error")
	if assert.NotNil(t, result.Receipt, "receipt") {
		assert.Equal(t, 3, len(result.Receipt.Blocks), "one block per chain")
	}

	ch := l.CommitAsync(context.Background(), "")
	result, ok := <-ch
	assert.True(t, ok, "result delivered")
	assert.Equal(t, fault.ErrInvalidPayload, result.Err, "async error passed through")
	_, ok = <-ch
	assert.False(t, ok, "channel closed")
}

func TestConcurrentCommitsSerialised(t *testing.T) {
	store := openStore(t, "concurrent.leveldb")
	defer store.Close()

	l := newLedger(t, store, 3, 1)

	results := make([]<-chan braid.CommitResult, 5)
	for i := range results {
		results[i] = l.CommitAsync(context.Background(), payload(fmt.Sprintf("c-%d", i)))
	}
	for _, r := range results {
		assert.Nil(t, (<-r).Err, "commit error")
	}

	assert.Equal(t, []int{6, 6, 6}, l.Status().BlocksPerChain, "all commits applied")
	assert.True(t, l.Verify().Valid, "valid after concurrent commits")
}

func TestPayloadTamperOnDisk(t *testing.T) {
	name := "tamper.leveldb"
	store := openStore(t, name)
	l := newLedger(t, store, 3, 1)
	for i := 0; i < 2; i += 1 {
		_, err := l.Commit(context.Background(), payload(fmt.Sprintf("t-%d", i)))
		if nil != err {
			t.Fatalf("commit error: %s", err)
		}
	}

	c, _ := l.Chain(1)
	b, _ := c.Block(1)
	b.PayloadDigest = payload("forged")
	err := store.SaveBlocks(nil, []storage.ChainBlock{{Chain: 1, Block: b}})
	if nil != err {
		t.Fatalf("tamper write error: %s", err)
	}
	store.Close()

	store = openStore(t, name)
	defer store.Close()

	r := newLedger(t, store, 3, 1)
	report := r.Verify()
	assert.False(t, report.Valid, "tamper detected")
	assert.True(t, report.Chains[0].Valid, "chain 0 untouched")
	assert.False(t, report.Chains[1].Valid, "chain 1 invalid")
	assert.True(t, fault.IsErrIntegrity(report.Err()), "integrity error")

	var be *chain.BlockError
	if assert.True(t, errors.As(report.Err(), &be), "block error") {
		assert.Equal(t, 1, be.Chain, "chain")
		assert.Equal(t, uint64(1), be.Index, "index")
	}
}

func TestRewrittenChainBreaksBraid(t *testing.T) {
	name := "rewrite.leveldb"
	store := openStore(t, name)
	l := newLedger(t, store, 3, 1)
	for i := 0; i < 2; i += 1 {
		_, err := l.Commit(context.Background(), payload(fmt.Sprintf("w-%d", i)))
		if nil != err {
			t.Fatalf("commit error: %s", err)
		}
	}

	// forge a self consistent chain 2 by redoing its proof of work
	c, _ := l.Chain(2)
	blocks := c.Blocks(0)
	forged := make([]storage.ChainBlock, 0, 2)
	previous := blocks[0].Hash
	for _, b := range blocks[1:] {
		b.PayloadDigest = payload("forged-" + b.PayloadDigest)
		b.PreviousHash = previous
		_, err := mine.Seal(context.Background(), b, 1)
		if nil != err {
			t.Fatalf("seal error: %s", err)
		}
		previous = b.Hash
		forged = append(forged, storage.ChainBlock{Chain: 2, Block: b})
	}
	err := store.SaveBlocks(nil, forged)
	if nil != err {
		t.Fatalf("forge write error: %s", err)
	}
	store.Close()

	store = openStore(t, name)
	defer store.Close()

	r := newLedger(t, store, 3, 1)
	report := r.Verify()
	assert.True(t, report.Chains[2].Valid, "forged chain is self consistent")
	assert.False(t, report.BraidValid, "braid reference broken")
	assert.False(t, report.Valid, "ledger invalid")
	assert.True(t, fault.IsErrIntegrity(report.Err()), "integrity error")
}

func TestBraidToSameCommitRejected(t *testing.T) {
	name := "same-commit.leveldb"
	store := openStore(t, name)
	l := newLedger(t, store, 2, 1)

	_, err := l.Commit(context.Background(), payload("s"))
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}

	c0, _ := l.Chain(0)
	c1, _ := l.Chain(1)
	b, _ := c0.Block(1)
	sibling, _ := c1.Block(1)

	// point at the block created alongside it rather than the frontier before the commit
	b.BraidHash = sibling.Hash
	_, err = mine.Seal(context.Background(), b, 1)
	if nil != err {
		t.Fatalf("seal error: %s", err)
	}
	err = store.SaveBlocks(nil, []storage.ChainBlock{{Chain: 0, Block: b}})
	if nil != err {
		t.Fatalf("write error: %s", err)
	}
	store.Close()

	store = openStore(t, name)
	defer store.Close()

	r := newLedger(t, store, 2, 1)
	report := r.Verify()
	assert.True(t, report.Chains[0].Valid, "chain 0 is self consistent")
	assert.True(t, report.Chains[1].Valid, "chain 1 untouched")
	assert.False(t, report.BraidValid, "braid must predate its referrer")
	assert.False(t, report.Valid, "ledger invalid")
	assert.True(t, errors.Is(report.Err(), fault.ErrBraidReference), "braid reference error")

	var be *chain.BlockError
	if assert.True(t, errors.As(report.Err(), &be), "block error") {
		assert.Equal(t, 0, be.Chain, "chain")
		assert.Equal(t, uint64(1), be.Index, "index")
	}
}

func TestCommitTimestampsStrictlyIncrease(t *testing.T) {
	store := openStore(t, "timestamps.leveldb")
	defer store.Close()

	l := newLedger(t, store, 3, 0)

	for i := 0; i < 3; i += 1 {
		_, err := l.Commit(context.Background(), payload(fmt.Sprintf("ts-%d", i)))
		if nil != err {
			t.Fatalf("commit error: %s", err)
		}
	}
	_, err := l.Sync(context.Background())
	assert.Nil(t, err, "sync error")

	for k := 0; k < 3; k += 1 {
		c, _ := l.Chain(k)
		blocks := c.Blocks(0)
		for i := 1; i < len(blocks); i += 1 {
			assert.True(t, blocks[i].Timestamp > blocks[i-1].Timestamp, "chain: %d  block: %d", k, i)
		}
	}

	// blocks at one index share the commit timestamp
	c0, _ := l.Chain(0)
	c2, _ := l.Chain(2)
	b0, _ := c0.Block(2)
	b2, _ := c2.Block(2)
	assert.Equal(t, b0.Timestamp, b2.Timestamp, "one timestamp per commit")
}

func TestEmptyChainLoadsAndReports(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	chains := unevenChains(t)

	store := mocks.NewMockStore(ctl)
	store.EXPECT().Metadata().Return(&storage.Metadata{Chains: 3, Difficulty: 0}, true, nil).Times(1)
	store.EXPECT().Blocks(0).Return(chains[0], nil).Times(1)
	store.EXPECT().Blocks(1).Return([]*blockrecord.Block{}, nil).Times(1)
	store.EXPECT().Blocks(2).Return(chains[2], nil).Times(1)

	l := newLedger(t, store, 3, 0)

	report := l.Verify()
	assert.False(t, report.Valid, "empty chain is tamper")
	assert.False(t, report.Chains[1].Valid, "chain 1 reported")
	assert.Equal(t, 0, report.Chains[1].Length, "chain 1 length")
	assert.True(t, errors.Is(report.Err(), fault.ErrChainEmpty), "empty chain error")

	// nothing is mined onto a damaged ledger, so SaveBlocks is never called
	_, err := l.Commit(context.Background(), payload("refused"))
	assert.True(t, fault.IsErrCommit(err), "commit class")
	assert.True(t, errors.Is(err, fault.ErrChainEmpty), "cause")

	added, err := l.Sync(context.Background())
	assert.True(t, fault.IsErrCommit(err), "sync class")
	assert.Equal(t, 0, added, "no padding")

	s := l.Status()
	assert.Equal(t, []int{3, 0, 1}, s.BlocksPerChain, "lengths unchanged")
	assert.Equal(t, uint64(1), s.FailedCommits, "failed commits")
}

func TestChainAccessor(t *testing.T) {
	store := openStore(t, "accessor.leveldb")
	defer store.Close()

	l := newLedger(t, store, 2, 0)

	_, err := l.Chain(2)
	assert.Equal(t, fault.ErrChainNotFound, err, "out of range")
	_, err = l.Chain(-1)
	assert.Equal(t, fault.ErrChainNotFound, err, "negative")

	assert.Equal(t, 2, l.ChainCount(), "chain count")
}

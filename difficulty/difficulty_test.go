// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty_test

import (
	"testing"

	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/fault"
)

func TestNewLevel(t *testing.T) {
	for _, n := range []int{0, 1, 4, 64} {
		l, err := difficulty.NewLevel(n)
		if nil != err {
			t.Errorf("level %d: error: %s", n, err)
		}
		if int(l) != n {
			t.Errorf("level: %d  expected: %d", l, n)
		}
	}

	for _, n := range []int{-1, 65, 1000} {
		_, err := difficulty.NewLevel(n)
		if fault.ErrInvalidDifficulty != err {
			t.Errorf("level %d: unexpected error: %v", n, err)
		}
	}
}

func TestSatisfied(t *testing.T) {
	items := []struct {
		level     difficulty.Level
		hash      string
		satisfied bool
	}{
		{0, "ffff", true},
		{0, "", true},
		{1, "0fff", true},
		{1, "f0ff", false},
		{2, "00ff", true},
		{2, "0f0f", false},
		{4, "000", false},
		{4, "0000abcd", true},
	}

	for i, item := range items {
		if s := item.level.Satisfied(item.hash); s != item.satisfied {
			t.Errorf("%d: level %d on %q: %v  expected: %v", i, item.level, item.hash, s, item.satisfied)
		}
	}
}

// expected proof-of-work cost per level
//
// each extra zero nibble multiplies the mean number of hashes by 16;
// on a current desktop core SHA-256 of a short header runs at roughly
// 2-4 million hashes per second, so the mean wall-clock cost per block is:
//
//   level 0   1 hash            immediate
//   level 1   16 hashes         microseconds
//   level 2   256 hashes        well under a millisecond
//   level 3   4096 hashes       about a millisecond
//   level 4   65536 hashes      tens of milliseconds
//   level 5   1048576 hashes    a few hundred milliseconds
//   level 6   16777216 hashes   several seconds
//   level 8   4294967296 hashes about half an hour
func TestExpectedAttempts(t *testing.T) {
	items := []struct {
		level    difficulty.Level
		attempts string
	}{
		{0, "1"},
		{1, "16"},
		{2, "256"},
		{3, "4096"},
		{4, "65536"},
		{5, "1048576"},
		{6, "16777216"},
		{8, "4294967296"},
	}

	for _, item := range items {
		if a := item.level.ExpectedAttempts().String(); a != item.attempts {
			t.Errorf("level %d: attempts: %s  expected: %s", item.level, a, item.attempts)
		}
	}
}

func TestTarget(t *testing.T) {
	if "" != difficulty.Level(0).Target() {
		t.Errorf("target: %q", difficulty.Level(0).Target())
	}
	if "0000" != difficulty.Level(4).Target() {
		t.Errorf("target: %q", difficulty.Level(4).Target())
	}
}

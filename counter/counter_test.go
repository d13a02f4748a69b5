// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/braidvault/counter"
)

// test incrementing a counter
func TestCounter(t *testing.T) {

	var c1 counter.Counter

	assert.Equal(t, uint64(0), c1.Uint64(), "zero at start")

	for i := 0; i < 5; i += 1 {
		c1.Increment()
	}
	assert.Equal(t, uint64(5), c1.Uint64(), "after increments")

	assert.Equal(t, uint64(6), c1.Increment(), "increment returns new value")
	assert.Equal(t, uint64(1030), c1.Add(1024), "add returns new value")
	assert.Equal(t, uint64(1030), c1.Add(0), "add zero")

	// wraps like the underlying integer
	c1.Add(^uint64(0) - 1029)
	assert.Equal(t, ^uint64(0), c1.Uint64(), "maximum")
	c1.Increment()
	assert.Equal(t, uint64(0), c1.Uint64(), "overflow")
}

func TestConcurrentAdd(t *testing.T) {
	var c counter.Counter
	var wg sync.WaitGroup

	for i := 0; i < 8; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j += 1 {
				c.Add(3)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8*1000*3), c.Uint64(), "total")
}

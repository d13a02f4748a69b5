// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - read cache in front of database gets
type Cache interface {
	Get(string) ([]byte, bool)
	Set(string, []byte)
	Clear()
}

const (
	defaultExpiration = 2 * time.Minute
	cleanupInterval   = 5 * time.Minute
)

type dbCache struct {
	cache *cache.Cache
}

func newCache() *dbCache {
	return &dbCache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *dbCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	v := obj.([]byte)
	result := make([]byte, len(v))
	copy(result, v)
	return result, true
}

// values are copied in both directions so a caller cannot alter a
// cached entry
func (c *dbCache) Set(key string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	c.cache.Set(key, v, cache.DefaultExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}

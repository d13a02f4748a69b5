// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
)

// pool prefixes
const (
	blockPrefix    = 'B'
	metadataPrefix = 'M'
	recordPrefix   = 'R'
)

var metadataKey = []byte{metadataPrefix, 'l', 'e', 'd', 'g', 'e', 'r'}

// B ++ chain
func chainPrefix(chain int) []byte {
	key := make([]byte, 1+4)
	key[0] = blockPrefix
	binary.BigEndian.PutUint32(key[1:], uint32(chain))
	return key
}

// B ++ chain ++ index
func blockKey(chain int, index uint64) []byte {
	key := make([]byte, 1+4+8)
	key[0] = blockPrefix
	binary.BigEndian.PutUint32(key[1:], uint32(chain))
	binary.BigEndian.PutUint64(key[5:], index)
	return key
}

// R ++ name
func recordKey(name string) []byte {
	key := make([]byte, 1, 1+len(name))
	key[0] = recordPrefix
	return append(key, name...)
}

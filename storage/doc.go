// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk ledger database
//
// A single LevelDB database split into pools, each pool is selected
// by a one byte key prefix.
//
// Notes:
// 1. ++           = concatenation of byte data
// 2. chain        = big endian uint32 (4 bytes)
// 3. block index  = big endian uint64 (8 bytes)
// 4. name         = record name as UTF-8 bytes
//
// Version:
//
//   0x00 ++ "VERSION"          - database layout version
//                                data: big endian uint32
//
// Metadata:
//
//   M ++ "ledger"              - chain count and difficulty
//                                data: JSON
//
// Blocks:
//
//   B ++ chain ++ block index  - append only block log
//                                data: JSON block
//
// Records:
//
//   R ++ name                  - vault record index
//                                data: opaque bytes (JSON version list)
//
// Every commit is written as one LevelDB batch so a crash leaves either
// all or none of a commit's blocks on disk.
package storage

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockrecord - the block structure of a single chain in the braid
//
// the hash covers:
//
//   index ++ timestamp ++ payload digest ++ previous hash ++ braid hash ++ nonce
//
// packed as:
//
//   index          - big endian uint64 (8 bytes)
//   timestamp      - big endian uint64 nanoseconds since 1970-01-01T00:00 UTC (8 bytes)
//   payload digest - uvarint length ++ bytes
//   previous hash  - uvarint length ++ bytes ("0" for genesis)
//   braid hash     - uvarint length ++ bytes (empty if no braid)
//   nonce          - big endian uint64 (8 bytes) always last so mining only rewrites the tail
package blockrecord

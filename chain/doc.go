// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - an append only sequence of sealed blocks
//
// index zero is always the genesis block, every later block carries the
// hash of its predecessor and is sealed at the chain's difficulty.
// Blocks are never removed or reordered.
//
// A chain does no locking of its own, the braid that owns it
// serialises all access.
package chain

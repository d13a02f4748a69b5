// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package braid - a fixed set of chains whose blocks cross reference
// each other
//
// A commit appends one block to every chain in ascending chain order.
// Each block of chain k carries the hash of chain k+1's frontier as it
// was before this commit touched chain k+1; the last chain carries no
// braid reference. Rewriting a block of chain k therefore breaks every
// later braid reference from chain k-1 as well as chain k's own
// linkage.
//
// All mutation is serialised by a single writer lock. Mining happens
// under that lock so one commit costs N proofs of work.
package braid

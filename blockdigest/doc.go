// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockdigest - implementation of block hashing
//
// blocks are hashed with SHA-256 and the digest is always shown as
// lowercase hex in natural byte order, so the proof-of-work condition
// "d leading zero hex characters" is a prefix check on String()
package blockdigest

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mine - proof-of-work sealing of blocks
//
// Sealing is a deliberately expensive, blocking, single threaded
// search: starting from nonce zero the nonce is incremented until the
// block hash has the required number of leading zero hex characters.
// There is no upper bound on the number of iterations; the mean cost
// is 16^difficulty hashes.
//
// The search checks its context every CheckInterval iterations so a
// shutdown can interrupt it; an interrupted block is left without a
// hash and can never pass as sealed.
//
// Every block is searched independently, no nonce state is shared
// between chains or between calls.
package mine

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package system - read the vault configuration file and assemble the
// storage, ledger, vault, auditor and service components from it
//
// layout of the data directory (all names configurable):
//
//   vault.salt         32 byte key derivation salt
//   ledger.leveldb/    block log, chain metadata and record index
//   blobs/             one ciphertext blob per stored record version
//   log/               rotated log files
package system

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vault - encrypted record storage with ledger provenance
//
// A master key is derived from a passphrase and a persisted random
// salt. Each stored record version is sealed with AES-256-GCM using a
// fresh 16 byte nonce, written as a blob, and the SHA-256 of the
// serialised blob is committed to the braided ledger. The plaintext
// and any digest of it never leave the process.
//
// Retrieval reads the blob named by the record index, checks its
// digest against the index and decrypts; the ledger is not consulted.
package vault

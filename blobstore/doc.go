// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blobstore - ciphertext blobs at rest
//
// One file per stored record version:
//
//   <hex SHA-256 of record name>-<version as 8 decimal digits>.blob
//
// containing JSON:
//
//   {"algorithm":"aes-256-gcm","nonce":hex,"ciphertext":hex,"tag":hex}
//
// Files are created exclusively and are never overwritten.
package blobstore

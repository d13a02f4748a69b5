// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/bitmark-inc/braidvault/blobstore"
	"github.com/bitmark-inc/braidvault/fault"
)

// AEAD parameters
const (
	NonceSize = 16
	TagSize   = 16
)

// Sealed - output of one encryption
type Sealed struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// Blob - the storage form of a sealed payload
func (s *Sealed) Blob() *blobstore.Blob {
	return &blobstore.Blob{
		Algorithm:  blobstore.AlgorithmAESGCM,
		Nonce:      s.Nonce,
		Ciphertext: s.Ciphertext,
		Tag:        s.Tag,
	}
}

// FromBlob - sealed payload from its storage form
func FromBlob(b *blobstore.Blob) *Sealed {
	return &Sealed{
		Nonce:      b.Nonce,
		Ciphertext: b.Ciphertext,
		Tag:        b.Tag,
	}
}

// AES-256-GCM with the 16 byte nonce variant
func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if nil != err {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, NonceSize)
}

// seal with a fresh random nonce
func seal(aead cipher.AEAD, plaintext []byte) (*Sealed, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); nil != err {
		return nil, err
	}

	out := aead.Seal(nil, nonce, plaintext, nil)
	split := len(out) - TagSize

	return &Sealed{
		Nonce:      nonce,
		Ciphertext: out[:split],
		Tag:        out[split:],
	}, nil
}

// any authentication failure is an integrity error
func open(aead cipher.AEAD, s *Sealed) ([]byte, error) {
	if NonceSize != len(s.Nonce) {
		return nil, fault.ErrInvalidNonceLength
	}
	if TagSize != len(s.Tag) {
		return nil, fault.ErrInvalidTagLength
	}

	buffer := make([]byte, 0, len(s.Ciphertext)+TagSize)
	buffer = append(buffer, s.Ciphertext...)
	buffer = append(buffer, s.Tag...)

	plaintext, err := aead.Open(nil, s.Nonce, buffer, nil)
	if nil != err {
		return nil, fault.ErrDecryptionFailed
	}
	return plaintext, nil
}

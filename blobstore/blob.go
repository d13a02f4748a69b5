// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blobstore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/braidvault/blockdigest"
	"github.com/bitmark-inc/braidvault/fault"
)

// algorithm labels
const (
	AlgorithmAESGCM = "aes-256-gcm"
	AlgorithmNone   = "none"
)

// HexBytes - bytes carried as hex text in JSON
type HexBytes []byte

// MarshalText - convert to hex
func (h HexBytes) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(buffer, h)
	return buffer, nil
}

// UnmarshalText - convert from hex
func (h *HexBytes) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	n, err := hex.Decode(buffer, s)
	if nil != err {
		return fault.ErrInvalidCharacter
	}
	*h = buffer[:n]
	return nil
}

// Blob - one sealed payload
//
// a plaintext blob has algorithm "none", the payload in Ciphertext and
// empty nonce and tag
type Blob struct {
	Algorithm  string   `json:"algorithm"`
	Nonce      HexBytes `json:"nonce"`
	Ciphertext HexBytes `json:"ciphertext"`
	Tag        HexBytes `json:"tag"`
}

// Marshal - serialise for storage
func (b *Blob) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

// Digest - content hash of the serialised blob
func Digest(data []byte) blockdigest.Digest {
	return blockdigest.NewDigest(data)
}

// Parse - decode a stored blob
//
// any malformation is an integrity failure, a blob is only ever
// written by Marshal
func Parse(data []byte) (*Blob, error) {
	b := &Blob{}
	err := json.Unmarshal(data, b)
	if nil != err {
		return nil, fault.Wrap(fault.ErrInvalidBlobFormat, err)
	}

	switch b.Algorithm {
	case AlgorithmAESGCM:
		if 0 == len(b.Nonce) || 0 == len(b.Tag) {
			return nil, fault.Wrap(fault.ErrInvalidBlobFormat, fmt.Errorf("nonce: %d bytes  tag: %d bytes", len(b.Nonce), len(b.Tag)))
		}
	case AlgorithmNone:
		if 0 != len(b.Nonce) || 0 != len(b.Tag) {
			return nil, fault.Wrap(fault.ErrInvalidBlobFormat, fmt.Errorf("plaintext blob with nonce or tag"))
		}
	default:
		return nil, fault.Wrap(fault.ErrInvalidBlobFormat, fmt.Errorf("algorithm: %q", b.Algorithm))
	}
	return b, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"crypto/sha256"

	"github.com/bitmark-inc/go-argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/bitmark-inc/braidvault/fault"
)

// key derivation names
const (
	KDFPBKDF2 = "pbkdf2"
	KDFArgon2 = "argon2"
)

// KeySize - AES-256
const KeySize = 32

// iteration limits
const (
	MinimumPBKDF2Iterations = 100000
	DefaultArgon2Iterations = 5
	minimumArgon2Iterations = 3
)

// DefaultIterations - iterations used when none are configured
func DefaultIterations(kdf string) int {
	if KDFArgon2 == kdf {
		return DefaultArgon2Iterations
	}
	return MinimumPBKDF2Iterations
}

// check a configured function and iteration count
func validKDF(kdf string, iterations int) error {
	switch kdf {
	case KDFPBKDF2:
		if iterations < MinimumPBKDF2Iterations {
			return fault.ErrInvalidIterations
		}
	case KDFArgon2:
		if iterations < minimumArgon2Iterations {
			return fault.ErrInvalidIterations
		}
	default:
		return fault.ErrInvalidKDF
	}
	return nil
}

// DeriveKey - master key from passphrase and salt
//
// deterministic for identical inputs
func DeriveKey(kdf string, iterations int, passphrase []byte, salt *Salt) ([]byte, error) {
	if 0 == len(passphrase) {
		return nil, fault.ErrInvalidPassphrase
	}
	if err := validKDF(kdf, iterations); nil != err {
		return nil, err
	}

	switch kdf {
	case KDFArgon2:
		ctx := &argon2.Context{
			Iterations:  iterations,
			Memory:      1 << 16,
			Parallelism: 4,
			HashLen:     KeySize,
			Mode:        argon2.ModeArgon2i,
			Version:     argon2.Version13,
		}
		return argon2.Hash(ctx, passphrase, salt.Bytes())

	default:
		return pbkdf2.Key(passphrase, salt.Bytes(), iterations, KeySize, sha256.New), nil
	}
}

// Zero - overwrite key material
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"context"
	"crypto/cipher"
	"sync"

	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/counter"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/logger"
)

// SaltFileName - default salt file inside the data directory
const SaltFileName = "vault.salt"

// Configuration - vault settings
type Configuration struct {
	SaltFile       string `gluamapper:"salt_file" json:"salt_file"`
	KDF            string `gluamapper:"kdf" json:"kdf"`
	Iterations     int    `gluamapper:"iterations" json:"iterations"`
	AllowPlaintext bool   `gluamapper:"allow_plaintext" json:"allow_plaintext"`
}

// Ledger - provenance commits
type Ledger interface {
	Commit(ctx context.Context, payload string) (*braid.Receipt, error)
}

// Blobs - ciphertext storage
type Blobs interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Has(id string) (bool, error)
}

// Index - record name to version list
type Index interface {
	GetRecord(name string) ([]byte, error)
	PutRecord(name string, data []byte) error
	EachRecord(fn func(name string, data []byte) error) error
}

// Vault - encrypted record storage
type Vault struct {
	// atomic counters first for 64 bit alignment
	stores      counter.Counter
	storedBytes counter.Counter
	retrievals  counter.Counter

	sync.RWMutex // guards the key material

	log           *logger.L
	configuration Configuration
	ledger        Ledger
	blobs         Blobs
	index         Index

	aeadFactory func([]byte) (cipher.AEAD, error)

	initialised     bool
	cryptoAvailable bool
	key             []byte
	aead            cipher.AEAD

	storeLock sync.Mutex // serialises version allocation
}

// Status - vault summary
type Status struct {
	Initialised     bool   `json:"vault_initialized"`
	CryptoAvailable bool   `json:"crypto_available"`
	KDF             string `json:"kdf"`
	Records         int    `json:"records"`
	Stores          uint64 `json:"stores"`
	StoredBytes     uint64 `json:"stored_bytes"`
	Retrievals      uint64 `json:"retrievals"`
}

// New - create a vault; Initialise must be called before use
func New(configuration *Configuration, ledger Ledger, blobs Blobs, index Index, log *logger.L) (*Vault, error) {
	if nil == log {
		logger.Panic("vault: nil logger")
	}

	c := *configuration
	if "" == c.KDF {
		c.KDF = KDFPBKDF2
	}
	if 0 == c.Iterations {
		c.Iterations = DefaultIterations(c.KDF)
	}
	if err := validKDF(c.KDF, c.Iterations); nil != err {
		return nil, err
	}

	return &Vault{
		log:           log,
		configuration: c,
		ledger:        ledger,
		blobs:         blobs,
		index:         index,
		aeadFactory:   newAEAD,
	}, nil
}

// Initialise - derive the master key
//
// the salt file is created on first use; calling again with the same
// passphrase derives the same key
func (v *Vault) Initialise(passphrase []byte) error {
	if 0 == len(passphrase) {
		return fault.ErrInvalidPassphrase
	}

	salt, created, err := loadOrCreateSalt(v.configuration.SaltFile)
	if nil != err {
		v.log.Errorf("salt file: %q  error: %s", v.configuration.SaltFile, err)
		return err
	}
	if created {
		v.log.Infof("created salt file: %q", v.configuration.SaltFile)
	}

	key, err := DeriveKey(v.configuration.KDF, v.configuration.Iterations, passphrase, salt)
	if nil != err {
		return err
	}

	aead, aeadErr := v.aeadFactory(key)

	v.Lock()
	defer v.Unlock()

	Zero(v.key)
	v.key = key
	v.initialised = true

	if nil != aeadErr {
		v.log.Criticalf("encryption unavailable, running degraded: %s", aeadErr)
		v.aead = nil
		v.cryptoAvailable = false
		return nil
	}

	v.aead = aead
	v.cryptoAvailable = true
	v.log.Infof("initialised: kdf: %s  iterations: %d", v.configuration.KDF, v.configuration.Iterations)
	return nil
}

// Finalise - discard the key material
func (v *Vault) Finalise() {
	v.Lock()
	defer v.Unlock()

	Zero(v.key)
	v.key = nil
	v.aead = nil
	v.initialised = false
	v.cryptoAvailable = false
	v.log.Info("finalised")
}

// CryptoAvailable - false when running in degraded mode
func (v *Vault) CryptoAvailable() bool {
	v.RLock()
	defer v.RUnlock()
	return v.cryptoAvailable
}

// get the cipher under the read lock
func (v *Vault) cipher() (cipher.AEAD, error) {
	v.RLock()
	defer v.RUnlock()

	if !v.initialised {
		return nil, fault.ErrNotInitialised
	}
	if !v.cryptoAvailable {
		return nil, fault.ErrCryptoUnavailable
	}
	return v.aead, nil
}

// Encrypt - seal a payload with a fresh nonce
func (v *Vault) Encrypt(plaintext []byte) (*Sealed, error) {
	aead, err := v.cipher()
	if nil != err {
		return nil, err
	}
	return seal(aead, plaintext)
}

// Decrypt - open a sealed payload
//
// a modified nonce, ciphertext or tag gives fault.ErrDecryptionFailed
func (v *Vault) Decrypt(sealed *Sealed) ([]byte, error) {
	aead, err := v.cipher()
	if nil != err {
		return nil, err
	}
	return open(aead, sealed)
}

// Status - current state
func (v *Vault) Status() Status {
	v.RLock()
	s := Status{
		Initialised:     v.initialised,
		CryptoAvailable: v.cryptoAvailable,
		KDF:             v.configuration.KDF,
	}
	v.RUnlock()

	s.Stores = v.stores.Uint64()
	s.StoredBytes = v.storedBytes.Uint64()
	s.Retrievals = v.retrievals.Uint64()

	count := 0
	err := v.index.EachRecord(func(name string, data []byte) error {
		count += 1
		return nil
	})
	if nil != err {
		v.log.Warnf("record count error: %s", err)
	}
	s.Records = count
	return s
}

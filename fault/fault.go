// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	CommitError        GenericError
	ConfigurationError GenericError
	ExistsError        GenericError
	IntegrityError     GenericError
	InvalidError       GenericError
	NotFoundError      GenericError
	ProcessError       GenericError
)

// common errors - keep in alphabetic order
var (
	ErrBlobExists                = ExistsError("blob already exists")
	ErrBlobNotFound              = NotFoundError("blob not found")
	ErrBlockNotFound             = NotFoundError("block not found")
	ErrBraidReference            = IntegrityError("braid reference does not match next chain")
	ErrChainCountMismatch        = ConfigurationError("stored chain count differs from configuration")
	ErrChainDifficultyMismatch   = ConfigurationError("stored chain difficulty differs from configuration")
	ErrChainEmpty                = IntegrityError("chain has no genesis block")
	ErrChainNotFound             = NotFoundError("chain not found")
	ErrCommitFailed              = CommitError("commit failed")
	ErrCryptoUnavailable         = ConfigurationError("authenticated encryption is unavailable")
	ErrDatabaseVersion           = ConfigurationError("database version is newer than supported")
	ErrDecryptionFailed          = IntegrityError("authentication tag mismatch")
	ErrGenesisInvalid            = IntegrityError("genesis block is invalid")
	ErrHashMismatch              = IntegrityError("block hash does not match contents")
	ErrInsufficientDifficulty    = IntegrityError("block hash does not satisfy difficulty")
	ErrInvalidBlobFormat         = IntegrityError("ciphertext blob is malformed")
	ErrInvalidBlobDigest         = IntegrityError("ciphertext blob digest mismatch")
	ErrInvalidChainCount         = InvalidError("chain count must be at least one")
	ErrInvalidConfiguration      = ConfigurationError("configuration must return a table")
	ErrInvalidCharacter          = InvalidError("invalid character")
	ErrInvalidDifficulty         = InvalidError("difficulty is out of range")
	ErrInvalidDigestLength       = InvalidError("digest length is invalid")
	ErrInvalidInterval           = InvalidError("interval must be positive")
	ErrInvalidIterations         = InvalidError("key derivation iterations below minimum")
	ErrInvalidKDF                = InvalidError("unknown key derivation function")
	ErrInvalidNonceLength        = InvalidError("nonce length is invalid")
	ErrInvalidPayload            = InvalidError("payload is invalid")
	ErrInvalidPassphrase         = InvalidError("passphrase is empty")
	ErrInvalidRecordName         = InvalidError("record name is invalid")
	ErrInvalidSaltLength         = InvalidError("salt length is invalid")
	ErrInvalidStructPointer      = InvalidError("invalid struct pointer")
	ErrInvalidTagLength          = InvalidError("tag length is invalid")
	ErrMiningCancelled           = ProcessError("mining cancelled")
	ErrNotInitialised            = ConfigurationError("not initialised")
	ErrPlaintextNotAllowed       = ConfigurationError("plaintext storage is not allowed")
	ErrPreviousHashDoesNotMatch  = IntegrityError("previous hash does not match")
	ErrRateLimiting              = ProcessError("rate limiting")
	ErrRecordNotFound            = NotFoundError("record not found")
	ErrTamperDetected            = IntegrityError("ledger tamper detected")
	ErrTimestampOutOfOrder       = IntegrityError("block timestamp is earlier than its predecessor")
	ErrUnsealedBlock             = IntegrityError("block is not sealed")
	ErrWrongIndex                = IntegrityError("block index out of sequence")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e CommitError) Error() string        { return string(e) }
func (e ConfigurationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e IntegrityError) Error() string     { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }

// determine the class of an error
// wrapped errors are examined down the whole chain
func IsErrCommit(e error) bool        { var t CommitError; return errors.As(e, &t) }
func IsErrConfiguration(e error) bool { var t ConfigurationError; return errors.As(e, &t) }
func IsErrExists(e error) bool        { var t ExistsError; return errors.As(e, &t) }
func IsErrIntegrity(e error) bool     { var t IntegrityError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool       { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool      { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool       { var t ProcessError; return errors.As(e, &t) }

// Wrapped - an error of a given class carrying a cause
//
// the class determines which IsErr* predicate matches and the
// cause remains reachable through errors.Unwrap
type Wrapped struct {
	class error
	cause error
}

// Wrap - attach a cause to a class error
func Wrap(class error, cause error) error {
	if nil == cause {
		return class
	}
	return &Wrapped{
		class: class,
		cause: cause,
	}
}

func (w *Wrapped) Error() string {
	return w.class.Error() + ": " + w.cause.Error()
}

// Unwrap - gives the cause
func (w *Wrapped) Unwrap() error {
	return w.cause
}

// As - allow errors.As to match the class as well as the cause
func (w *Wrapped) As(target interface{}) bool {
	return errors.As(w.class, target)
}

// Is - allow errors.Is to match the class sentinel
func (w *Wrapped) Is(target error) bool {
	return w.class == target
}

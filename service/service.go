// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package service - the collaborator facing store, retrieve and
// status calls
package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/braidvault/audit"
	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/vault"
	"github.com/bitmark-inc/logger"
)

// defaults
const (
	DefaultStoresPerSecond = 1.0
	DefaultBurst           = 4
	DefaultMaximumWait     = 30 * time.Second
)

// Configuration - store rate limiting
type Configuration struct {
	StoresPerSecond float64 `gluamapper:"stores_per_second" json:"stores_per_second"`
	Burst           int     `gluamapper:"burst" json:"burst"`
	MaximumWait     int     `gluamapper:"maximum_wait" json:"maximum_wait"` // seconds
}

// Vault - record storage
type Vault interface {
	Store(ctx context.Context, name string, plaintext []byte) (*vault.Receipt, error)
	Retrieve(ctx context.Context, name string) ([]byte, error)
	Status() vault.Status
}

// Ledger - ledger summary
type Ledger interface {
	Status() braid.Status
}

// Auditor - latest audit outcome
type Auditor interface {
	LastResult() *audit.Result
	Tampered() bool
}

// Status - combined state
type Status struct {
	ChainCount       int           `json:"chain_count"`
	BlocksPerChain   []int         `json:"blocks_per_chain"`
	Difficulty       int           `json:"difficulty"`
	VaultInitialised bool          `json:"vault_initialized"`
	CryptoAvailable  bool          `json:"crypto_available"`
	LastAuditResult  *audit.Result `json:"last_audit_result"`
	Tampered         bool          `json:"tampered"`
	Records          int           `json:"records"`
	StoredBytes      uint64        `json:"stored_bytes"`
	BlocksMined      uint64        `json:"blocks_mined"`
	Hashes           uint64        `json:"hashes"`
}

// Service - entry point for callers
type Service struct {
	log         *logger.L
	vault       Vault
	ledger      Ledger
	auditor     Auditor
	limiter     *rate.Limiter
	maximumWait time.Duration
}

// New - create the service
func New(configuration *Configuration, v Vault, ledger Ledger, auditor Auditor, log *logger.L) *Service {
	if nil == log {
		logger.Panic("service: nil logger")
	}

	perSecond := configuration.StoresPerSecond
	if perSecond <= 0 {
		perSecond = DefaultStoresPerSecond
	}
	burst := configuration.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	maximumWait := time.Duration(configuration.MaximumWait) * time.Second
	if maximumWait <= 0 {
		maximumWait = DefaultMaximumWait
	}

	return &Service{
		log:         log,
		vault:       v,
		ledger:      ledger,
		auditor:     auditor,
		limiter:     rate.NewLimiter(rate.Limit(perSecond), burst),
		maximumWait: maximumWait,
	}
}

// Store - save a record, returning its record id
//
// refused once an audit has detected tampering
func (s *Service) Store(ctx context.Context, name string, data []byte) (string, error) {
	if nil != s.auditor && s.auditor.Tampered() {
		return "", fault.ErrTamperDetected
	}

	if err := s.limit(ctx); nil != err {
		s.log.Warnf("store: %q  rate limit: %s", name, err)
		return "", err
	}

	receipt, err := s.vault.Store(ctx, name, data)
	if nil != err {
		return "", err
	}
	return receipt.RecordID, nil
}

// Retrieve - plaintext of the latest version of a record
func (s *Service) Retrieve(ctx context.Context, name string) ([]byte, error) {
	return s.vault.Retrieve(ctx, name)
}

// GetStatus - ledger, vault and audit state
func (s *Service) GetStatus() Status {
	ls := s.ledger.Status()
	vs := s.vault.Status()

	st := Status{
		ChainCount:       ls.ChainCount,
		BlocksPerChain:   ls.BlocksPerChain,
		Difficulty:       ls.Difficulty,
		VaultInitialised: vs.Initialised,
		CryptoAvailable:  vs.CryptoAvailable,
		Records:          vs.Records,
		StoredBytes:      vs.StoredBytes,
		BlocksMined:      ls.BlocksMined,
		Hashes:           ls.Hashes,
	}
	if nil != s.auditor {
		st.LastAuditResult = s.auditor.LastResult()
		st.Tampered = s.auditor.Tampered()
	}
	return st
}

// wait for a token, bounded by the maximum wait and the context
func (s *Service) limit(ctx context.Context) error {
	r := s.limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimiting
	}

	delay := r.Delay()
	if 0 == delay {
		return nil
	}
	if delay > s.maximumWait {
		r.Cancel()
		return fault.ErrRateLimiting
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

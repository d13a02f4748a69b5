// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package system

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/braidvault/audit"
	"github.com/bitmark-inc/braidvault/blobstore"
	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/service"
	"github.com/bitmark-inc/braidvault/storage"
	"github.com/bitmark-inc/braidvault/vault"
)

// System - the assembled components
type System struct {
	log *logger.L

	Storage *storage.Store
	Blobs   *blobstore.FileStore
	Ledger  *braid.Ledger
	Vault   *vault.Vault
	Auditor *audit.Auditor
	Service *service.Service
}

// Open - open storage and build every component on top of it
//
// logging must already be initialised; a nil alerter sends alerts to
// the "alert" log channel
func Open(configuration *Configuration, alerter audit.Alerter) (*System, error) {
	log := logger.New("system")

	log.Info("initialise storage")
	store, err := storage.Open(configuration.LedgerDatabase, storage.ReadWrite, logger.New("storage"))
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		return nil, err
	}

	s := &System{
		log:     log,
		Storage: store,
	}

	log.Info("initialise blob store")
	s.Blobs, err = blobstore.NewFileStore(configuration.BlobDirectory, logger.New("blobstore"))
	if nil != err {
		log.Criticalf("blob store initialise error: %s", err)
		s.Close()
		return nil, err
	}

	log.Info("initialise ledger")
	s.Ledger, err = braid.New(&configuration.Ledger, store, logger.New("braid"))
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		s.Close()
		return nil, err
	}

	log.Info("initialise vault")
	s.Vault, err = vault.New(&configuration.Vault, s.Ledger, s.Blobs, store, logger.New("vault"))
	if nil != err {
		log.Criticalf("vault initialise error: %s", err)
		s.Close()
		return nil, err
	}

	if nil == alerter {
		alerter = audit.NewLogAlerter(logger.New("alert"))
	}

	log.Info("initialise auditor")
	s.Auditor, err = audit.New(s.Ledger, alerter, configuration.AuditInterval(), logger.New("audit"))
	if nil != err {
		log.Criticalf("auditor initialise error: %s", err)
		s.Close()
		return nil, err
	}

	s.Service = service.New(&configuration.Service, s.Vault, s.Ledger, s.Auditor, logger.New("service"))

	return s, nil
}

// Close - discard key material and close storage
func (s *System) Close() {
	if nil != s.Vault {
		s.Vault.Finalise()
	}
	if nil != s.Storage {
		if err := s.Storage.Close(); nil != err {
			s.log.Errorf("storage close error: %s", err)
		}
	}
	s.log.Info("closed")
	s.log.Flush()
}

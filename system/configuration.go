// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package system

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/braidvault/audit"
	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/configuration"
	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/service"
	"github.com/bitmark-inc/braidvault/util"
	"github.com/bitmark-inc/braidvault/vault"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLedgerDatabase = "ledger.leveldb"
	defaultBlobDirectory  = "blobs"

	defaultLogDirectory = "log"
	defaultLogFile      = "vaultd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultStatusInterval = 60 // seconds
)

// AuditType - integrity auditor settings
type AuditType struct {
	Interval int `gluamapper:"interval" json:"interval"` // seconds
}

// Configuration - everything read from the configuration file
type Configuration struct {
	DataDirectory  string `gluamapper:"data_directory" json:"data_directory"`
	PidFile        string `gluamapper:"pidfile" json:"pidfile"`
	PassphraseFile string `gluamapper:"passphrase_file" json:"passphrase_file"`
	LedgerDatabase string `gluamapper:"ledger_database" json:"ledger_database"`
	BlobDirectory  string `gluamapper:"blob_directory" json:"blob_directory"`
	StatusInterval int    `gluamapper:"status_interval" json:"status_interval"` // seconds

	Ledger  braid.Configuration   `gluamapper:"ledger" json:"ledger"`
	Vault   vault.Configuration   `gluamapper:"vault" json:"vault"`
	Audit   AuditType             `gluamapper:"audit" json:"audit"`
	Service service.Configuration `gluamapper:"service" json:"service"`
	Logging logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// AuditInterval - time between audit passes
func (c *Configuration) AuditInterval() time.Duration {
	return time.Duration(c.Audit.Interval) * time.Second
}

// StatusDelay - time between status log lines
func (c *Configuration) StatusDelay() time.Duration {
	return time.Duration(c.StatusInterval) * time.Second
}

// GetConfiguration - read decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory:  defaultDataDirectory,
		PidFile:        "", // no PidFile by default
		PassphraseFile: "", // environment only by default
		LedgerDatabase: defaultLedgerDatabase,
		BlobDirectory:  defaultBlobDirectory,
		StatusInterval: defaultStatusInterval,

		Ledger: braid.Configuration{
			Chains:     braid.DefaultChains,
			Difficulty: int(difficulty.Default),
		},

		Vault: vault.Configuration{
			SaltFile: vault.SaltFileName,
			KDF:      vault.KDFPBKDF2,
		},

		Audit: AuditType{
			Interval: int(audit.DefaultInterval / time.Second),
		},

		Service: service.Configuration{
			StoresPerSecond: service.DefaultStoresPerSecond,
			Burst:           service.DefaultBurst,
			MaximumWait:     int(service.DefaultMaximumWait / time.Second),
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if options.Audit.Interval <= 0 {
		return nil, fmt.Errorf("audit interval: %d  error: %w", options.Audit.Interval, fault.ErrInvalidInterval)
	}
	if options.StatusInterval <= 0 {
		options.StatusInterval = defaultStatusInterval
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.LedgerDatabase,
		&options.BlobDirectory,
		&options.Vault.SaltFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.PassphraseFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// the logger places this inside its directory
	if !util.IsPlainName(options.Logging.File) {
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.BlobDirectory,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

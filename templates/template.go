// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package templates - text for generated files
package templates

const (
	/**** Configuration template ****/
	ConfigurationTemplate = `-- vaultd.conf  -*- mode: lua -*-

local M = {}

-- "." is the directory containing this file
M.data_directory = "{{.DataDirectory}}"

-- optional pid file if not running under a supervisor
M.pidfile = ""

-- the passphrase is taken from VAULTD_PASSPHRASE if set,
-- otherwise from this file
M.passphrase_file = "passphrase"

M.ledger_database = "ledger.leveldb"
M.blob_directory = "blobs"

-- seconds between status log lines
M.status_interval = 60

-- fixed once the ledger exists
M.ledger = {
    chains = {{.Chains}},
    difficulty = {{.Difficulty}},
}

M.vault = {
    salt_file = "vault.salt",
    kdf = "{{.KDF}}",
    iterations = {{.Iterations}},
    allow_plaintext = false,
}

M.audit = {
    -- seconds between integrity passes
    interval = {{.AuditInterval}},
}

M.service = {
    stores_per_second = 1,
    burst = 4,
    maximum_wait = 30,
}

M.logging = {
    size = 1048576,
    count = 10,
    console = false,
    levels = {
        DEFAULT = "info",
        -- audit = "debug",
        -- braid = "trace",
    },
}

return M
`
)

// ConfigurationData - values substituted into ConfigurationTemplate
type ConfigurationData struct {
	DataDirectory string
	Chains        int
	Difficulty    int
	KDF           string
	Iterations    int
	AuditInterval int
}

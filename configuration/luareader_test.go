// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/braidvault/configuration"
	"github.com/bitmark-inc/braidvault/fault"
)

type ledgerSection struct {
	Chains     int `gluamapper:"chains"`
	Difficulty int `gluamapper:"difficulty"`
}

type testConfiguration struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Ledger        ledgerSection     `gluamapper:"ledger"`
	Plaintext     bool              `gluamapper:"allow_plaintext"`
	Levels        map[string]string `gluamapper:"levels"`
}

const testSource = `
local M = {}
M.data_directory = arg[0] ~= "" and "from-file" or "."
M.ledger = {
    chains = 2 + 1,
    difficulty = 4,
}
M.allow_plaintext = true
M.levels = {
    DEFAULT = "info",
    braid = "trace",
}
return M
`

func TestParseConfigurationFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "configuration-test")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "vaultd.conf")
	err = ioutil.WriteFile(fileName, []byte(testSource), 0600)
	assert.Nil(t, err, "write configuration")

	options := testConfiguration{
		Ledger: ledgerSection{Chains: 1},
	}
	err = configuration.ParseConfigurationFile(fileName, &options)
	assert.Nil(t, err, "parse")

	assert.Equal(t, "from-file", options.DataDirectory, "arg[0] set to file name")
	assert.Equal(t, 3, options.Ledger.Chains, "chains")
	assert.Equal(t, 4, options.Ledger.Difficulty, "difficulty")
	assert.True(t, options.Plaintext, "plaintext")
	assert.Equal(t, "trace", options.Levels["braid"], "levels")
}

func TestParseConfigurationStringKeepsDefaults(t *testing.T) {
	options := testConfiguration{
		DataDirectory: "/var/lib/vaultd",
		Ledger:        ledgerSection{Chains: 3, Difficulty: 4},
	}
	err := configuration.ParseConfigurationString(`return { ledger = { chains = 5, difficulty = 4 } }`, &options)
	assert.Nil(t, err, "parse")
	assert.Equal(t, "/var/lib/vaultd", options.DataDirectory, "unset field keeps default")
	assert.Equal(t, 5, options.Ledger.Chains, "chains")
}

func TestParseConfigurationErrors(t *testing.T) {
	options := testConfiguration{}

	err := configuration.ParseConfigurationString(`return 42`, &options)
	assert.Equal(t, fault.ErrInvalidConfiguration, err, "non-table result")

	err = configuration.ParseConfigurationString(`return {`, &options)
	assert.NotNil(t, err, "syntax error")

	err = configuration.ParseConfigurationString(`return {}`, options)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "not a pointer")

	n := 5
	err = configuration.ParseConfigurationString(`return {}`, &n)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "not a struct")

	err = configuration.ParseConfigurationFile("/nonexistent/vaultd.conf", &options)
	assert.NotNil(t, err, "missing file")
}

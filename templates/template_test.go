// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package templates_test

import (
	"bytes"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/braidvault/configuration"
	"github.com/bitmark-inc/braidvault/templates"
)

type generated struct {
	DataDirectory  string `gluamapper:"data_directory"`
	PassphraseFile string `gluamapper:"passphrase_file"`
	Ledger         struct {
		Chains     int `gluamapper:"chains"`
		Difficulty int `gluamapper:"difficulty"`
	} `gluamapper:"ledger"`
	Vault struct {
		KDF        string `gluamapper:"kdf"`
		Iterations int    `gluamapper:"iterations"`
	} `gluamapper:"vault"`
	Audit struct {
		Interval int `gluamapper:"interval"`
	} `gluamapper:"audit"`
}

func TestConfigurationTemplate(t *testing.T) {
	tmpl, err := template.New("config").Parse(templates.ConfigurationTemplate)
	assert.Nil(t, err, "parse template")

	data := templates.ConfigurationData{
		DataDirectory: ".",
		Chains:        5,
		Difficulty:    3,
		KDF:           "argon2",
		Iterations:    7,
		AuditInterval: 120,
	}
	var buffer bytes.Buffer
	err = tmpl.Execute(&buffer, data)
	assert.Nil(t, err, "execute template")

	var g generated
	err = configuration.ParseConfigurationString(buffer.String(), &g)
	assert.Nil(t, err, "generated file is valid Lua")

	assert.Equal(t, ".", g.DataDirectory, "data directory")
	assert.Equal(t, "passphrase", g.PassphraseFile, "passphrase file")
	assert.Equal(t, 5, g.Ledger.Chains, "chains")
	assert.Equal(t, 3, g.Ledger.Difficulty, "difficulty")
	assert.Equal(t, "argon2", g.Vault.KDF, "kdf")
	assert.Equal(t, 7, g.Vault.Iterations, "iterations")
	assert.Equal(t, 120, g.Audit.Interval, "audit interval")
}

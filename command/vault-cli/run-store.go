// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/vault"
)

type storeResult struct {
	RecordID string         `json:"recordId"`
	Version  *vault.Version `json:"version"`
}

func runStore(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return fault.ErrInvalidRecordName
	}

	data, err := readInput(c.String("file"))
	if nil != err {
		return err
	}

	if err := initialiseVault(c, m); nil != err {
		return err
	}

	ctx := context.Background()

	// the service refuses stores once an audit has seen tampering
	if _, err := m.system.Auditor.RunOnce(ctx); nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "storing: %q  bytes: %d\n", name, len(data))
	}

	id, err := m.system.Service.Store(ctx, name, data)
	if nil != err {
		return err
	}

	record, err := m.system.Vault.Record(name)
	if nil != err {
		return err
	}

	return printJson(m.w, storeResult{
		RecordID: id,
		Version:  record.Latest(),
	})
}

func readInput(file string) ([]byte, error) {
	if "" == file || "-" == file {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(file)
}

func initialiseVault(c *cli.Context, m *metadata) error {
	passphrase, err := getPassphrase(c, m)
	if nil != err {
		return err
	}
	defer vault.Zero(passphrase)

	return m.system.Vault.Initialise(passphrase)
}

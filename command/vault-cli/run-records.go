// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/braidvault/fault"
)

func runRecords(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	records, err := m.system.Vault.Records()
	if nil != err {
		return err
	}

	return printJson(m.w, records)
}

func runRecord(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return fault.ErrInvalidRecordName
	}

	record, err := m.system.Vault.Record(name)
	if nil != err {
		return err
	}

	return printJson(m.w, record)
}

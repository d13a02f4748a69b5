// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"
)

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	return printJson(m.w, m.system.Service.GetStatus())
}

// one audit pass; a tampered ledger is an error exit
func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	result, err := m.system.Auditor.RunOnce(context.Background())
	if nil != result {
		if perr := printJson(m.w, result); nil != perr {
			return perr
		}
	}
	return err
}

func runSync(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	n, err := m.system.Ledger.Sync(context.Background())
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "chain lengths: %v\n", m.system.Ledger.Status().BlocksPerChain)
	}
	fmt.Fprintf(m.w, "padding blocks added: %d\n", n)
	return nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/braidvault/fault"
)

func runRetrieve(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return fault.ErrInvalidRecordName
	}
	version := c.Int("version")
	if version < 0 {
		return fmt.Errorf("version: %d is negative", version)
	}

	if err := initialiseVault(c, m); nil != err {
		return err
	}

	ctx := context.Background()

	var data []byte
	var err error
	if 0 == version {
		data, err = m.system.Service.Retrieve(ctx, name)
	} else {
		data, err = m.system.Vault.RetrieveVersion(ctx, name, uint64(version))
	}
	if nil != err {
		return err
	}

	output := c.String("output")
	if "" == output || "-" == output {
		_, err = m.w.Write(data)
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "writing: %d bytes to: %q\n", len(data), output)
	}
	return ioutil.WriteFile(output, data, 0600)
}

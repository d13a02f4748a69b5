// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/braidvault/system"
)

// passphrase sources in order: --passphrase-file, the environment or
// the configured passphrase_file, then a terminal prompt
func getPassphrase(c *cli.Context, m *metadata) ([]byte, error) {
	if file := c.GlobalString("passphrase-file"); "" != file {
		return system.ReadPassphraseFile(file)
	}

	p, err := m.config.Passphrase()
	if nil == err {
		return p, nil
	}
	if fault.ErrInvalidPassphrase != err && !os.IsNotExist(err) {
		return nil, err
	}

	return promptPassphrase(m)
}

func promptPassphrase(m *metadata) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return nil, fault.ErrInvalidPassphrase
	}

	fmt.Fprintf(m.e, "passphrase: ")
	p, err := terminal.ReadPassword(fd)
	fmt.Fprintf(m.e, "\n")
	if nil != err {
		return nil, err
	}
	if 0 == len(p) {
		return nil, fault.ErrInvalidPassphrase
	}
	return p, nil
}

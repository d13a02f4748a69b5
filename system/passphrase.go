// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package system

import (
	"bytes"
	"io/ioutil"
	"os"

	"github.com/bitmark-inc/braidvault/fault"
)

// PassphraseEnvironment - variable checked before the passphrase file
const PassphraseEnvironment = "VAULTD_PASSPHRASE"

// Passphrase - from the environment or the configured passphrase file
func (c *Configuration) Passphrase() ([]byte, error) {
	if p := os.Getenv(PassphraseEnvironment); "" != p {
		return []byte(p), nil
	}

	if "" == c.PassphraseFile {
		return nil, fault.ErrInvalidPassphrase
	}

	return ReadPassphraseFile(c.PassphraseFile)
}

// ReadPassphraseFile - the whole file less a single trailing newline
func ReadPassphraseFile(name string) ([]byte, error) {
	data, err := ioutil.ReadFile(name)
	if nil != err {
		return nil, err
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	if 0 == len(data) {
		return nil, fault.ErrInvalidPassphrase
	}
	return data, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"

	"github.com/bitmark-inc/braidvault/fault"
)

// SaltSize - bytes of random salt
const SaltSize = 32

// Salt - key derivation salt
type Salt [SaltSize]byte

// MakeSalt - new random salt
func MakeSalt() (*Salt, error) {
	salt := new(Salt)
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return nil, err
	}
	return salt, nil
}

// Bytes - convert a binary salt to byte slice
func (salt Salt) Bytes() []byte {
	return salt[:]
}

// String - hex for the fmt package (for %s)
func (salt Salt) String() string {
	return hex.EncodeToString(salt.Bytes())
}

// MarshalText - convert salt to hex text
func (salt Salt) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(SaltSize))
	hex.Encode(buffer, salt.Bytes())
	return buffer, nil
}

// UnmarshalText - convert hex text into a salt
func (salt *Salt) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(buffer, s)
	if nil != err {
		return fault.ErrInvalidCharacter
	}
	if SaltSize != byteCount {
		return fault.ErrInvalidSaltLength
	}
	copy(salt[:], buffer)
	return nil
}

// read the raw salt file, creating it if absent
//
// returns true if a new salt was created
func loadOrCreateSalt(filename string) (*Salt, bool, error) {
	data, err := ioutil.ReadFile(filename)
	if nil == err {
		if SaltSize != len(data) {
			return nil, false, fault.ErrInvalidSaltLength
		}
		salt := new(Salt)
		copy(salt[:], data)
		return salt, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	salt, err := MakeSalt()
	if nil != err {
		return nil, false, err
	}

	// exclusive create: two processes must not each write a salt
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return nil, false, err
	}
	_, err = f.Write(salt.Bytes())
	if nil == err {
		err = f.Sync()
	}
	if closeErr := f.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		os.Remove(filename)
		return nil, false, err
	}
	return salt, true, nil
}

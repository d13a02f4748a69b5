// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/bitmark-inc/braidvault/fault"
)

const maximumNameLength = 1024

// Version - one stored version of a record
type Version struct {
	Version   uint64    `json:"version"`
	BlobID    string    `json:"blobId"`
	Digest    string    `json:"digest"`
	Algorithm string    `json:"algorithm"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Blocks    []string  `json:"blocks"`
}

// Record - index entry: every version of a name, oldest first
type Record struct {
	Name     string    `json:"name"`
	Versions []Version `json:"versions"`
}

// Latest - the current version
func (r *Record) Latest() *Version {
	if 0 == len(r.Versions) {
		return nil
	}
	v := r.Versions[len(r.Versions)-1]
	return &v
}

// Info - summary of a record's latest version
type Info struct {
	Name      string    `json:"name"`
	Version   uint64    `json:"version"`
	Versions  int       `json:"versions"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	BlobID    string    `json:"blobId"`
	Digest    string    `json:"digest"`
	Blocks    []string  `json:"blocks"`
}

func (r *Record) info() Info {
	latest := r.Latest()
	return Info{
		Name:      r.Name,
		Version:   latest.Version,
		Versions:  len(r.Versions),
		Size:      latest.Size,
		CreatedAt: latest.CreatedAt,
		BlobID:    latest.BlobID,
		Digest:    latest.Digest,
		Blocks:    latest.Blocks,
	}
}

func validName(name string) error {
	if "" == name || len(name) > maximumNameLength || !utf8.ValidString(name) {
		return fault.ErrInvalidRecordName
	}
	return nil
}

func decodeRecord(data []byte) (*Record, error) {
	r := &Record{}
	err := json.Unmarshal(data, r)
	if nil != err {
		return nil, err
	}
	if 0 == len(r.Versions) {
		return nil, fault.ErrRecordNotFound
	}
	return r, nil
}

func jsonRecord(r *Record) ([]byte, error) {
	return json.Marshal(r)
}

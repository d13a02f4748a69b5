// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blobstore

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/braidvault/blockdigest"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/logger"
)

const (
	blobExtension = ".blob"
	tempPrefix    = ".tmp-"
	fileMode      = 0600
	directoryMode = 0700
)

// ID - deterministic blob identifier for a record version
func ID(name string, version uint64) string {
	return fmt.Sprintf("%s-%08d", blockdigest.NewDigest([]byte(name)), version)
}

// FileStore - blobs as files in one directory
type FileStore struct {
	log       *logger.L
	directory string
}

// NewFileStore - create the directory if necessary
func NewFileStore(directory string, log *logger.L) (*FileStore, error) {
	if nil == log {
		logger.Panic("blobstore: nil logger")
	}

	err := os.MkdirAll(directory, directoryMode)
	if nil != err {
		return nil, err
	}
	return &FileStore{
		log:       log,
		directory: directory,
	}, nil
}

func (f *FileStore) path(id string) (string, error) {
	if "" == id || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return "", fault.ErrInvalidRecordName
	}
	return filepath.Join(f.directory, id+blobExtension), nil
}

// Put - write a new blob
//
// the data is written to a temporary file then hard linked into place,
// so a reader never sees a partial blob and an existing blob is never
// replaced
func (f *FileStore) Put(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); nil != err {
		return err
	}

	final, err := f.path(id)
	if nil != err {
		return err
	}

	tmp, err := ioutil.TempFile(f.directory, tempPrefix)
	if nil != err {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	err = tmp.Chmod(fileMode)
	if nil == err {
		_, err = tmp.Write(data)
	}
	if nil == err {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		f.log.Errorf("write blob: %s  error: %s", id, err)
		return err
	}

	err = os.Link(tmpName, final)
	if os.IsExist(err) {
		return fault.ErrBlobExists
	}
	if nil != err {
		f.log.Errorf("link blob: %s  error: %s", id, err)
		return err
	}

	f.log.Debugf("stored blob: %s  bytes: %d", id, len(data))
	return nil
}

// Get - read a blob
func (f *FileStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	p, err := f.path(id)
	if nil != err {
		return nil, err
	}

	data, err := ioutil.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, fault.ErrBlobNotFound
	}
	return data, err
}

// Has - true if a blob exists
func (f *FileStore) Has(id string) (bool, error) {
	p, err := f.path(id)
	if nil != err {
		return false, err
	}
	_, err = os.Stat(p)
	if os.IsNotExist(err) {
		return false, nil
	}
	return nil == err, err
}

// Path - location of a blob on disk
func (f *FileStore) Path(id string) (string, error) {
	return f.path(id)
}

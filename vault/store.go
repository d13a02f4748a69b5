// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bitmark-inc/braidvault/blobstore"
	"github.com/bitmark-inc/braidvault/fault"
)

// limit on skipping blob ids left behind by failed stores
const maximumVersionSkip = 100

// Receipt - result of a store
type Receipt struct {
	RecordID string   `json:"recordId"`
	Name     string   `json:"name"`
	Version  uint64   `json:"version"`
	Digest   string   `json:"digest"`
	Blocks   []string `json:"blocks"`
}

// Store - encrypt and persist a new version of a record
//
// the blob is written first, then its digest is committed to the
// ledger, then the index is updated; a failure at any step leaves the
// previous version current
func (v *Vault) Store(ctx context.Context, name string, plaintext []byte) (*Receipt, error) {
	if err := validName(name); nil != err {
		return nil, err
	}

	blob, err := v.sealBlob(plaintext)
	if nil != err {
		return nil, err
	}
	data, err := blob.Marshal()
	if nil != err {
		return nil, err
	}
	digest := blobstore.Digest(data).String()

	v.storeLock.Lock()
	defer v.storeLock.Unlock()

	record, err := v.record(name)
	if fault.ErrRecordNotFound == err {
		record = &Record{Name: name}
	} else if nil != err {
		return nil, err
	}

	version := uint64(1)
	if latest := record.Latest(); nil != latest {
		version = latest.Version + 1
	}

	// a failed earlier store may have left a blob under the next id
	blobID := ""
	for i := 0; i < maximumVersionSkip; i += 1 {
		id := blobstore.ID(name, version)
		exists, err := v.blobs.Has(id)
		if nil != err {
			return nil, err
		}
		if !exists {
			err = v.blobs.Put(ctx, id, data)
			if nil == err {
				blobID = id
				break
			}
			if fault.ErrBlobExists != err {
				return nil, err
			}
		}
		v.log.Warnf("record: %q  skipping existing blob: %s", name, id)
		version += 1
	}
	if "" == blobID {
		return nil, fault.ErrBlobExists
	}

	receipt, err := v.ledger.Commit(ctx, digest)
	if nil != err {
		v.log.Errorf("record: %q  commit error: %s", name, err)
		return nil, err
	}

	record.Versions = append(record.Versions, Version{
		Version:   version,
		BlobID:    blobID,
		Digest:    digest,
		Algorithm: blob.Algorithm,
		Size:      len(plaintext),
		CreatedAt: time.Now().UTC(),
		Blocks:    receipt.Hashes(),
	})
	index, err := jsonRecord(record)
	if nil != err {
		return nil, err
	}
	err = v.index.PutRecord(name, index)
	if nil != err {
		v.log.Errorf("record: %q  index error: %s", name, err)
		return nil, err
	}

	v.stores.Increment()
	v.storedBytes.Add(uint64(len(plaintext)))
	v.log.Infof("stored: %q  version: %d  blob: %s", name, version, blobID)

	return &Receipt{
		RecordID: blobID,
		Name:     name,
		Version:  version,
		Digest:   digest,
		Blocks:   receipt.Hashes(),
	}, nil
}

// encrypt, or label as plaintext when degraded and permitted
func (v *Vault) sealBlob(plaintext []byte) (*blobstore.Blob, error) {
	sealed, err := v.Encrypt(plaintext)
	if nil == err {
		return sealed.Blob(), nil
	}
	if fault.ErrCryptoUnavailable != err {
		return nil, err
	}
	if !v.configuration.AllowPlaintext {
		return nil, fault.Wrap(fault.ErrPlaintextNotAllowed, err)
	}

	v.log.Warn("storing plaintext blob")
	p := make([]byte, len(plaintext))
	copy(p, plaintext)
	return &blobstore.Blob{
		Algorithm:  blobstore.AlgorithmNone,
		Ciphertext: p,
	}, nil
}

// Retrieve - plaintext of a record's latest version
func (v *Vault) Retrieve(ctx context.Context, name string) ([]byte, error) {
	record, err := v.Record(name)
	if nil != err {
		return nil, err
	}
	return v.retrieve(ctx, record.Latest())
}

// RetrieveVersion - plaintext of a specific version
func (v *Vault) RetrieveVersion(ctx context.Context, name string, version uint64) ([]byte, error) {
	record, err := v.Record(name)
	if nil != err {
		return nil, err
	}
	for i := range record.Versions {
		if version == record.Versions[i].Version {
			return v.retrieve(ctx, &record.Versions[i])
		}
	}
	return nil, fault.ErrRecordNotFound
}

func (v *Vault) retrieve(ctx context.Context, version *Version) ([]byte, error) {
	data, err := v.blobs.Get(ctx, version.BlobID)
	if nil != err {
		return nil, err
	}

	if digest := blobstore.Digest(data).String(); digest != version.Digest {
		v.log.Criticalf("blob: %s  digest: %s  expected: %s", version.BlobID, digest, version.Digest)
		return nil, fault.ErrInvalidBlobDigest
	}

	blob, err := blobstore.Parse(data)
	if nil != err {
		return nil, err
	}

	var plaintext []byte
	switch blob.Algorithm {
	case blobstore.AlgorithmNone:
		plaintext = blob.Ciphertext
	default:
		plaintext, err = v.Decrypt(FromBlob(blob))
		if fault.IsErrInvalid(err) {
			err = fault.Wrap(fault.ErrInvalidBlobFormat, err)
		}
		if nil != err {
			v.log.Errorf("blob: %s  decrypt error: %s", version.BlobID, err)
			return nil, err
		}
	}

	v.retrievals.Increment()

	return plaintext, nil
}

// Record - index entry for a name
func (v *Vault) Record(name string) (*Record, error) {
	if err := validName(name); nil != err {
		return nil, err
	}
	return v.record(name)
}

func (v *Vault) record(name string) (*Record, error) {
	data, err := v.index.GetRecord(name)
	if nil != err {
		return nil, err
	}
	r, err := decodeRecord(data)
	if nil != err && fault.ErrRecordNotFound != err {
		return nil, fmt.Errorf("record: %q  error: %w", name, err)
	}
	return r, err
}

// Records - latest version of every record, by name
func (v *Vault) Records() ([]Info, error) {
	result := make([]Info, 0, 16)
	err := v.index.EachRecord(func(name string, data []byte) error {
		r, err := decodeRecord(data)
		if nil != err {
			return fmt.Errorf("record: %q  error: %w", name, err)
		}
		result = append(result, r.info())
		return nil
	})
	if nil != err {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

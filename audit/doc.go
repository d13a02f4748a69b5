// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package audit - periodic ledger synchronisation and verification
//
// A failed verification is a possible tamper. It is logged at critical
// level, sent to the alerter once and latched; the ledger is never
// repaired. After a tamper is latched padding stops, verification
// continues.
package audit

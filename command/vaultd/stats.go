// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/braidvault/service"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// StatusSource - anything that can summarise its state
type StatusSource interface {
	GetStatus() service.Status
}

// periodic status log line
type statusReporter struct {
	log    *logger.L
	source StatusSource
	delay  time.Duration
}

func newStatusReporter(source StatusSource, delay time.Duration, log *logger.L) *statusReporter {
	if delay <= 0 {
		delay = statsDelay
	}
	return &statusReporter{
		log:    log,
		source: source,
		delay:  delay,
	}
}

// Run - background process
func (r *statusReporter) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(r.delay):
			r.report()
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

func (r *statusReporter) report() {
	s := r.source.GetStatus()

	text, err := json.Marshal(s)
	if nil != err {
		r.log.Errorf("marshal error: %s", err)
		return
	}
	r.log.Infof("status: %s", text)

	if s.Tampered {
		r.log.Critical("ledger tamper detected: stores are refused")
	}
}

// periodic memory statistics
type memoryReporter struct{}

// Run - background process
func (r *memoryReporter) Run(args interface{}, shutdown <-chan struct{}) {
	log := logger.New("memory")

loop:
	for {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		text, err := json.Marshal(m)
		if nil != err {
			log.Errorf("marshal error: %s", err)
		} else {
			log.Debugf("stats: %s", text)
		}
		a := m.Alloc / mega
		t := m.TotalAlloc / mega
		s := m.Sys / mega
		log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, s)

		select {
		case <-shutdown:
			break loop
		case <-time.After(statsDelay):
		}
	}
	log.Flush()
}

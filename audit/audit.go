// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/fault"
	"github.com/bitmark-inc/logger"
)

// DefaultInterval - time between audits
const DefaultInterval = 300 * time.Second

// Ledger - the operations an audit needs
type Ledger interface {
	Sync(ctx context.Context) (int, error)
	Verify() *braid.Report
}

// Alerter - receives a tamper result
type Alerter interface {
	Alert(result *Result)
}

// AlerterFunc - adapt a function to an Alerter
type AlerterFunc func(result *Result)

// Alert - call the function
func (f AlerterFunc) Alert(result *Result) {
	f(result)
}

// Result - outcome of one audit pass
type Result struct {
	Time     time.Time     `json:"time"`
	Pass     uint64        `json:"pass"`
	Padded   int           `json:"padded"`
	Report   *braid.Report `json:"report"`
	Tampered bool          `json:"tampered"`
	Error    string        `json:"error,omitempty"`
}

// Auditor - runs audits on demand or as a background process
type Auditor struct {
	sync.RWMutex

	log     *logger.L
	ledger  Ledger
	alerter Alerter

	interval time.Duration
	changed  chan struct{}

	passes   uint64
	failures uint64
	tampered bool
	last     *Result

	run sync.Mutex // one pass at a time
}

// New - create an auditor
func New(ledger Ledger, alerter Alerter, interval time.Duration, log *logger.L) (*Auditor, error) {
	if nil == log {
		logger.Panic("audit: nil logger")
	}
	if interval <= 0 {
		return nil, fault.ErrInvalidInterval
	}
	return &Auditor{
		log:      log,
		ledger:   ledger,
		alerter:  alerter,
		interval: interval,
		changed:  make(chan struct{}, 1),
	}, nil
}

// SetInterval - change the period, effective immediately
func (a *Auditor) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return fault.ErrInvalidInterval
	}

	a.Lock()
	a.interval = interval
	a.Unlock()

	select {
	case a.changed <- struct{}{}:
	default:
	}
	a.log.Infof("interval: %s", interval)
	return nil
}

// Interval - current period
func (a *Auditor) Interval() time.Duration {
	a.RLock()
	defer a.RUnlock()
	return a.interval
}

// LastResult - copy of the most recent result, nil before the first pass
func (a *Auditor) LastResult() *Result {
	a.RLock()
	defer a.RUnlock()
	if nil == a.last {
		return nil
	}
	r := *a.last
	return &r
}

// Tampered - true once any pass has failed verification
func (a *Auditor) Tampered() bool {
	a.RLock()
	defer a.RUnlock()
	return a.tampered
}

// RunOnce - synchronise then verify
//
// returns fault.ErrTamperDetected (wrapping the first failure) when
// verification fails, or the synchronisation error
func (a *Auditor) RunOnce(ctx context.Context) (*Result, error) {
	a.run.Lock()
	defer a.run.Unlock()

	a.RLock()
	latched := a.tampered
	pass := a.passes + 1
	a.RUnlock()

	result := &Result{
		Time: time.Now().UTC(),
		Pass: pass,
	}

	var syncErr error
	if latched {
		a.log.Warn("tamper latched: synchronisation skipped")
	} else {
		result.Padded, syncErr = a.ledger.Sync(ctx)
		if nil != syncErr {
			a.log.Errorf("sync error: %s", syncErr)
			result.Error = syncErr.Error()
		} else if result.Padded > 0 {
			a.log.Infof("sync padded: %d blocks", result.Padded)
		}
	}

	result.Report = a.ledger.Verify()

	var err error
	if !result.Report.Valid {
		result.Tampered = true
		err = fault.Wrap(fault.ErrTamperDetected, result.Report.Err())
		result.Error = err.Error()
		a.log.Criticalf("pass: %d  %s", pass, err)
	} else if nil != syncErr {
		err = syncErr
	} else {
		a.log.Debugf("pass: %d  ledger valid", pass)
	}

	a.Lock()
	a.passes = pass
	if nil != err {
		a.failures += 1
	}
	a.tampered = a.tampered || result.Tampered
	a.last = result
	a.Unlock()

	// alert only on the transition into the tampered state
	if result.Tampered && !latched && nil != a.alerter {
		r := *result
		a.alerter.Alert(&r)
	}

	return result, err
}

// Run - background process loop
//
// waits one interval between passes, two intervals after a failed pass
func (a *Auditor) Run(args interface{}, shutdown <-chan struct{}) {
	log := a.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	wait := a.Interval()
	timer := time.NewTimer(wait)
	defer timer.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case <-a.changed:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			wait = a.Interval()
			timer.Reset(wait)

		case <-timer.C:
			_, err := a.RunOnce(ctx)
			wait = a.Interval()
			if nil != err {
				wait *= 2
				log.Warnf("next pass in: %s", wait)
			}
			timer.Reset(wait)
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

// LogAlerter - alerts written to a dedicated log channel
type LogAlerter struct {
	log *logger.L
}

// NewLogAlerter - alerter on its own logger tag
func NewLogAlerter(log *logger.L) *LogAlerter {
	return &LogAlerter{log: log}
}

// Alert - log the failure at critical level
func (l *LogAlerter) Alert(result *Result) {
	l.log.Criticalf("TAMPER DETECTED: pass: %d  time: %s  error: %s", result.Pass, result.Time.Format(time.RFC3339), result.Error)
	for _, c := range result.Report.Chains {
		if !c.Valid {
			l.log.Criticalf("chain: %d  length: %d  error: %s", c.Chain, c.Length, c.Error)
		}
	}
	if !result.Report.BraidValid {
		l.log.Criticalf("braid: %s", result.Report.BraidError)
	}
	l.log.Flush()
}

// Status - counters
type Status struct {
	Passes   uint64        `json:"passes"`
	Failures uint64        `json:"failures"`
	Tampered bool          `json:"tampered"`
	Interval time.Duration `json:"interval"`
}

// Status - current counters
func (a *Auditor) Status() Status {
	a.RLock()
	defer a.RUnlock()
	return Status{
		Passes:   a.passes,
		Failures: a.failures,
		Tampered: a.tampered,
		Interval: a.interval,
	}
}

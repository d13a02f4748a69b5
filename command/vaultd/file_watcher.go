// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/braidvault/system"
)

// IntervalSetter - the part of the auditor that follows configuration changes
type IntervalSetter interface {
	SetInterval(time.Duration) error
}

// reload the configuration file when it changes
//
// only the log levels and the audit interval are applied, everything
// else needs a restart
type configurationWatcher struct {
	log      *logger.L
	filePath string
	auditor  IntervalSetter
	watcher  *fsnotify.Watcher
	settle   time.Duration
	reloaded chan<- *system.Configuration // optional, for tests
}

func newConfigurationWatcher(targetFile string, auditor IntervalSetter, log *logger.L) (*configurationWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(targetFile))
	if nil != err {
		log.Errorf("parse file %s error: %s", targetFile, err)
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}

	// editors often replace the file so watch its directory
	if err := watcher.Add(filepath.Dir(filePath)); nil != err {
		log.Errorf("watcher add error: %s", err)
		watcher.Close()
		return nil, err
	}

	return &configurationWatcher{
		log:      log,
		filePath: filePath,
		auditor:  auditor,
		watcher:  watcher,
		settle:   time.Second,
	}, nil
}

// Run - background process
func (w *configurationWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

	// changes arrive in bursts so wait for them to settle
	var pending <-chan time.Time

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if !w.relevant(event) {
				continue loop
			}
			log.Infof("file event: %v", event)
			pending = time.After(w.settle)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}

	w.watcher.Close()
	log.Info("shutting down…")
	log.Flush()
}

func (w *configurationWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.filePath {
		return false
	}
	return watcherEventFileChange(event)
}

func (w *configurationWatcher) reload() {
	c, err := system.GetConfiguration(w.filePath)
	if nil != err {
		w.log.Errorf("failed to read configuration from: %q  error: %s", w.filePath, err)
		return
	}

	logger.LoadLevels(c.Logging.Levels)

	if err := w.auditor.SetInterval(c.AuditInterval()); nil != err {
		w.log.Errorf("audit interval: %s  error: %s", c.AuditInterval(), err)
	} else {
		w.log.Infof("audit interval: %s", c.AuditInterval())
	}

	if nil != w.reloaded {
		w.reloaded <- c
	}
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}

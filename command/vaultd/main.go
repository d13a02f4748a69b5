// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/braidvault/background"
	"github.com/bitmark-inc/braidvault/system"
	"github.com/bitmark-inc/braidvault/vault"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := system.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("ledger: %q  chains: %d  difficulty: %d", theConfiguration.LedgerDatabase, theConfiguration.Ledger.Chains, theConfiguration.Ledger.Difficulty)
	log.Infof("blobs: %q", theConfiguration.BlobDirectory)

	theSystem, err := system.Open(theConfiguration, nil)
	if nil != err {
		log.Criticalf("system initialise error: %s", err)
		exitwithstatus.Message("system initialise error: %s", err)
	}
	defer theSystem.Close()

	// these commands operate on the opened data then exit,
	// none of them need the key
	if len(arguments) > 0 && processDataCommand(log, arguments, theSystem) {
		return
	}

	passphrase, err := theConfiguration.Passphrase()
	if nil != err {
		log.Criticalf("passphrase error: %s", err)
		exitwithstatus.Message("passphrase error: %s  (set %s or passphrase_file)", err, system.PassphraseEnvironment)
	}
	err = theSystem.Vault.Initialise(passphrase)
	vault.Zero(passphrase)
	if nil != err {
		log.Criticalf("vault initialise error: %s", err)
		exitwithstatus.Message("vault initialise error: %s", err)
	}

	// first audit before accepting any work
	if _, err := theSystem.Auditor.RunOnce(context.Background()); nil != err {
		log.Criticalf("initial audit error: %s", err)
		if 0 == len(options["quiet"]) {
			fmt.Printf("initial audit error: %s\n", err)
		}
	}

	watcher, err := newConfigurationWatcher(configurationFile, theSystem.Auditor, logger.New("watcher"))
	if nil != err {
		log.Criticalf("configuration watcher error: %s", err)
		exitwithstatus.Message("configuration watcher error: %s", err)
	}

	processes := background.Processes{
		theSystem.Auditor,
		newStatusReporter(theSystem.Service, theConfiguration.StatusDelay(), logger.New("status")),
		watcher,
	}

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, &memoryReporter{})
	}

	bg := background.Start(processes, nil)
	defer bg.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

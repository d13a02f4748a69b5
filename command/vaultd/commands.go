// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/braidvault/audit"
	"github.com/bitmark-inc/braidvault/blockrecord"
	"github.com/bitmark-inc/braidvault/braid"
	"github.com/bitmark-inc/braidvault/difficulty"
	"github.com/bitmark-inc/braidvault/system"
	"github.com/bitmark-inc/braidvault/templates"
	"github.com/bitmark-inc/braidvault/util"
	"github.com/bitmark-inc/braidvault/vault"
)

const (
	configurationFilename = "vaultd.conf"
)

// setup command handler
//
// commands that run before the configuration file is read
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-config", "conf":
		directory := "."
		if len(arguments) > 0 && "" != arguments[0] {
			directory = arguments[0]
		}
		filename := filepath.Join(directory, configurationFilename)
		if err := generateConfiguration(filename); nil != err {
			fmt.Printf("generate configuration: %q error: %s\n", filename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated configuration: %q\n", filename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "verify", "sync", "status", "records", "block", "b", "save-blocks", "save":
		return false // defer processing until the ledger is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-config [DIR]           (conf)   - create a configuration file in: %q\n", "DIR/"+configurationFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  verify                              - verify every chain and the braid references\n")
		fmt.Printf("  sync                                - pad chains to equal length then exit\n")
		fmt.Printf("  status                              - display the service status\n")
		fmt.Printf("  records                             - list stored records\n")
		fmt.Printf("\n")

		fmt.Printf("  block CHAIN [S [E]]        (b)      - dump block(s) of one chain as JSON to stdout\n")
		fmt.Printf("\n")

		fmt.Printf("  save-blocks FILE           (save)   - dump all chains to a file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// write a new configuration file, never overwriting
func generateConfiguration(filename string) error {
	tmpl, err := template.New("config").Parse(templates.ConfigurationTemplate)
	if nil != err {
		return err
	}

	fd, err := os.OpenFile(filename, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0600)
	if nil != err {
		return err
	}

	data := templates.ConfigurationData{
		DataDirectory: ".",
		Chains:        braid.DefaultChains,
		Difficulty:    int(difficulty.Default),
		KDF:           vault.KDFPBKDF2,
		Iterations:    vault.DefaultIterations(vault.KDFPBKDF2),
		AuditInterval: int(audit.DefaultInterval / time.Second),
	}
	err = tmpl.Execute(fd, data)
	if closeErr := fd.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		_ = os.Remove(filename)
	}
	return err
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *system.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJson("", options)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the ledger and vault are open so these commands can access the
// stored data
func processDataCommand(log *logger.L, arguments []string, s *system.System) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "verify":
		report := s.Ledger.Verify()
		printJson("", report)
		if !report.Valid {
			log.Criticalf("verify failed: %s", report.Err())
			exitwithstatus.Message("ledger verification failed: %s", report.Err())
		}

	case "sync":
		n, err := s.Ledger.Sync(context.Background())
		if nil != err {
			exitwithstatus.Message("sync error: %s", err)
		}
		fmt.Printf("padding blocks added: %d\n", n)

	case "status":
		printJson("", s.Service.GetStatus())

	case "records":
		records, err := s.Vault.Records()
		if nil != err {
			exitwithstatus.Message("records error: %s", err)
		}
		printJson("", records)

	case "block", "b":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing chain number argument")
		}
		k, err := strconv.Atoi(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in chain number: %s", err)
		}
		c, err := s.Ledger.Chain(k)
		if nil != err {
			exitwithstatus.Message("chain: %d  error: %s", k, err)
		}

		start := uint64(0)
		if len(arguments) > 1 {
			start, err = strconv.ParseUint(arguments[1], 10, 64)
			if nil != err {
				exitwithstatus.Message("error in start index: %s", err)
			}
		}
		blocks := c.Blocks(start)
		if len(arguments) > 2 {
			finish, err := strconv.ParseUint(arguments[2], 10, 64)
			if nil != err {
				exitwithstatus.Message("error in finish index: %s", err)
			}
			if finish < start {
				exitwithstatus.Message("finish index: %d is before start: %d", finish, start)
			}
			if n := finish - start + 1; n < uint64(len(blocks)) {
				blocks = blocks[:n]
			}
		}
		printJson("", datedBlocks(blocks))

	case "save-blocks", "save":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing file name argument")
		}
		filename := arguments[0]
		if "-" == filename {
			exitwithstatus.Message("cannot write to stdout")
		}
		if util.EnsureFileExists(filename) {
			exitwithstatus.Message("not overwriting existing file: %q", filename)
		}

		all := make([][]*blockrecord.Block, 0, s.Ledger.ChainCount())
		for k := 0; k < s.Ledger.ChainCount(); k += 1 {
			c, err := s.Ledger.Chain(k)
			if nil != err {
				exitwithstatus.Message("chain: %d  error: %s", k, err)
			}
			all = append(all, c.Blocks(0))
		}
		log.Infof("saving %d chains to: %q", len(all), filename)
		printJsonToFile(filename, all)

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// a block as dumped by the block command
type datedBlock struct {
	*blockrecord.Block
	Created time.Time `json:"created"`
}

func datedBlocks(blocks []*blockrecord.Block) []datedBlock {
	result := make([]datedBlock, len(blocks))
	for i, b := range blocks {
		result[i] = datedBlock{
			Block:   b,
			Created: b.Time(),
		}
	}
	return result
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/braidvault/system"
)

type metadata struct {
	file    string
	config  *system.Configuration
	system  *system.System
	verbose bool
	e       io.Writer
	w       io.Writer
}

// false when the caller has already set up logging
var startLogging = true

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "vault-cli"
	app.Usage = "operate on a vault data directory (vaultd must not be running)"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "config-file, c",
			Value:  "",
			Usage:  "*vaultd configuration `FILE`",
			EnvVar: "VAULTD_CONFIG",
		},
		cli.StringFlag{
			Name:  "passphrase-file, p",
			Value: "",
			Usage: " read the passphrase from `FILE` instead of prompting",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "store",
			Usage:     "encrypt and store a record, committing it to the ledger",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record `NAME`",
				},
				cli.StringFlag{
					Name:  "file, f",
					Value: "-",
					Usage: " `FILE` of data to store [default stdin]",
				},
			},
			Action: runStore,
		},
		{
			Name:      "retrieve",
			Usage:     "decrypt a stored record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record `NAME`",
				},
				cli.IntFlag{
					Name:  "version, r",
					Value: 0,
					Usage: " record `VERSION` [default latest]",
				},
				cli.StringFlag{
					Name:  "output, o",
					Value: "-",
					Usage: " write data to `FILE` [default stdout]",
				},
			},
			Action: runRetrieve,
		},
		{
			Name:   "records",
			Usage:  "list stored records",
			Action: runRecords,
		},
		{
			Name:      "record",
			Usage:     "display every version of one record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record `NAME`",
				},
			},
			Action: runRecord,
		},
		{
			Name:   "status",
			Usage:  "display ledger, vault and audit status",
			Action: runStatus,
		},
		{
			Name:   "verify",
			Usage:  "pad the chains and run one integrity audit",
			Action: runVerify,
		},
		{
			Name:   "sync",
			Usage:  "pad chains to equal length",
			Action: runSync,
		},
		{
			Name:  "version",
			Usage: "display vault-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration and open the data directory
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h":
			return nil
		}

		file := c.GlobalString("config-file")
		if "" == file {
			return fmt.Errorf("config-file is required")
		}

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		configuration, err := system.GetConfiguration(file)
		if nil != err {
			return err
		}

		// separate log file from the daemon
		configuration.Logging.File = app.Name + ".log"
		if startLogging {
			if err := logger.Initialise(configuration.Logging); nil != err {
				return err
			}
		}

		s, err := system.Open(configuration, nil)
		if nil != err {
			if startLogging {
				logger.Finalise()
			}
			return err
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  configuration,
			system:  s,
			verbose: verbose,
			e:       e,
			w:       w,
		}

		return nil
	}

	// close storage and flush logs
	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		m.system.Close()
		if startLogging {
			logger.Finalise()
		}
		return nil
	}

	return app
}

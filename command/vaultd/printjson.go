// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/bitmark-inc/exitwithstatus"
)

func printJson(title string, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		exitwithstatus.Message("Error: printjson marshall error: %s", err)
	}

	if "" == title {
		fmt.Printf("%s\n", b)
	} else {
		fmt.Printf("%s:\n%s\n", title, b)
	}
}

// output a JSON block to a file
func printJsonToFile(filename string, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		exitwithstatus.Message("Error: printjson marshall error: %s", err)
	}
	err = ioutil.WriteFile(filename, append(b, '\n'), 0600)
	if nil != err {
		exitwithstatus.Message("Error: printjson file write error: %s", err)
	}
}

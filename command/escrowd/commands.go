// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"
)

// setup command handler
// commands that run to create system setup are handled here
// separated out so that the program can run without the
// configuration file as they are used to create its inputs
func processSetupCommand(program string, arguments []string) bool {

	command := arguments[0]

	switch command {

	case "gen-rpc-cert", "rpc":
		name := "rpc"
		if len(arguments) >= 2 {
			name = arguments[1]
		}
		err := makeSelfSignedCertificate(name, arguments[2:])
		if nil != err {
			exitwithstatus.Message("%s: generate RPC key/certificate error: %s", program, err)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", name+".key", name+".crt")

	case "start", "run":
		return false // continue processing

	case "version":
		fmt.Println(version)

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] [arguments...]]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                             (h)       - display this message\n\n")
		fmt.Printf("  version                          (v)       - display version\n\n")
		fmt.Printf("  gen-rpc-cert [NAME [IPs...]]     (rpc)     - create a self-signed RPC certificate\n")
		fmt.Printf("                                               in the current directory\n\n")
		fmt.Printf("  start                            (run)     - just run the daemon\n\n")
		fmt.Printf("  config-test                                - parse the configuration and exit\n\n")

	default:
		fmt.Printf("unknown command: %q\n", command)
		fmt.Printf("supported commands: help version gen-rpc-cert start config-test\n")
	}
	return true // indicate processing complete
}

// config command handler
// commands that require the configuration file to already be parsed
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := arguments[0]

	switch command {

	case "config-test":
		fmt.Printf("data directory: %q\n", options.DataDirectory)
		fmt.Printf("database:       %q\n", options.Database.Name)
		fmt.Printf("ledger node:    %q\n", options.Ledger.URL)
		fmt.Printf("configuration is ok\n")

	default:
		return false // continue processing
	}
	return true // indicate processing complete
}

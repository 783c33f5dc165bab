// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ripple - XRP Ledger address validation
package ripple

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"github.com/escrow-inc/escrowd/fault"
)

// the ledger uses its own base58 dictionary, not the bitcoin one
const alphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// account id type prefix for a classic address
const accountPrefix = 0

// decoded length: 1 prefix + 20 account id + 4 checksum
const decodedLength = 25

var rippleAlphabet = base58.NewAlphabet(alphabet)

// ValidateAddress - check a classic ledger address
//
// decode with the ledger base58 dictionary, check the account prefix
// and the double SHA-256 checksum
func ValidateAddress(address string) error {

	addr, err := base58.DecodeAlphabet(address, rippleAlphabet)
	if nil != err {
		return fault.InvalidLedgerAddress
	}

	if decodedLength != len(addr) {
		return fault.InvalidLedgerAddress
	}

	if accountPrefix != addr[0] {
		return fault.InvalidLedgerAddress
	}

	d := sha256.Sum256(addr[:21])
	d = sha256.Sum256(d[:])

	if !bytes.Equal(d[0:4], addr[21:]) {
		return fault.InvalidLedgerAddress
	}

	return nil
}

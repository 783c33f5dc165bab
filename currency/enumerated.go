// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package currency - currency enumeration and validation
package currency

import (
	"fmt"
	"strings"

	"github.com/escrow-inc/escrowd/fault"
)

// Currency - currency enumeration
type Currency uint64

// possible currency values
const (
	Nothing      Currency = iota // this must be the first value
	XRP          Currency = iota
	maximumValue Currency = iota // this must be the last value
	First        Currency = Nothing + 1
	Last         Currency = maximumValue - 1
	Count        int      = int(Last) // count of currencies
)

// internal conversion
func toString(c Currency) ([]byte, error) {
	switch c {
	case Nothing:
		return []byte{}, nil
	case XRP:
		return []byte("XRP"), nil
	default:
		return []byte{}, fault.InvalidCurrency
	}
}

// fromString - convert a string to a currency
func fromString(in string) (Currency, error) {
	switch strings.ToLower(in) {
	case "":
		return Nothing, nil
	case "xrp", "ripple":
		return XRP, nil
	default:
		return Nothing, fault.InvalidCurrency
	}
}

// String - convert a currency to its string symbol
func (currency Currency) String() string {
	s, err := toString(currency)
	if nil != err {
		panic(fmt.Sprintf("invalid currency enumeration: %d", currency))
	}
	return string(s)
}

// GoString - convert both enum value and symbol, for debugging
func (currency Currency) GoString() string {
	return fmt.Sprintf("<Currency#%d:%q>", uint64(currency), currency.String())
}

// MarshalText - convert currency to text
func (currency Currency) MarshalText() ([]byte, error) {
	return toString(currency)
}

// UnmarshalText - convert text to currency
func (currency *Currency) UnmarshalText(s []byte) error {
	c, err := fromString(string(s))
	if nil != err {
		return err
	}
	*currency = c
	return nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package drop - conversion to the ledger integer amount unit
//
// one XRP is 1,000,000 drops; all arithmetic is integer to avoid
// floating point rounding errors
package drop

import (
	"strconv"
)

// decimal places in one XRP
const decimalPlaces = 6

// FromByteString - convert a decimal XRP string to a drop value
//
// i.e. "0.000001" will convert to uint64(1)
//
// Note: Invalid characters are simply ignored and the conversion
//       simply stops after 6 decimal places have been processed.
//       Extra decimal points will also be ignored.
func FromByteString(xrp []byte) uint64 {

	d := uint64(0)
	point := false
	decimals := 0

get_digits:
	for _, b := range xrp {
		if b >= '0' && b <= '9' {
			d *= 10
			d += uint64(b - '0')
			if point {
				decimals += 1
				if decimals >= decimalPlaces {
					break get_digits
				}
			}
		} else if '.' == b {
			point = true
		}
	}
	for decimals < decimalPlaces {
		d *= 10
		decimals += 1
	}

	return d
}

// ToByteString - render a drop value as a decimal XRP string
func ToByteString(drops uint64) []byte {
	whole := drops / 1000000
	fraction := drops % 1000000

	s := strconv.FormatUint(whole, 10)
	if 0 == fraction {
		return []byte(s)
	}

	f := strconv.FormatUint(fraction, 10)
	for len(f) < decimalPlaces {
		f = "0" + f
	}
	for '0' == f[len(f)-1] {
		f = f[:len(f)-1]
	}
	return []byte(s + "." + f)
}

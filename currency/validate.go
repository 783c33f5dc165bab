// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"github.com/escrow-inc/escrowd/currency/ripple"
	"github.com/escrow-inc/escrowd/fault"
)

// ValidateAddress - check the address is valid for the currency
func (currency Currency) ValidateAddress(address string) error {
	switch currency {
	case XRP:
		return ripple.ValidateAddress(address)
	default:
		return fault.InvalidCurrency
	}
}

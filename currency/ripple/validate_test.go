// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ripple_test

import (
	"testing"

	"github.com/escrow-inc/escrowd/currency/ripple"
)

func TestValidAddresses(t *testing.T) {
	addresses := []string{
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", // genesis account
		"rrrrrrrrrrrrrrrrrrrrrhoLvTp",        // account zero
		"rrrrrrrrrrrrrrrrrrrrBZbvji",         // account one

		// these cover the whole base58 dictionary including the
		// letters that differ from the bitcoin ordering
		"rLHzPsX6oXkzU2qL12kHCH8G8cnZv1rBJh",
		"rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYe",
		"rUCzEr6jrEyMpjhs4wSdQdz4g8Y382NxfM",
	}

	for i, address := range addresses {
		if err := ripple.ValidateAddress(address); nil != err {
			t.Errorf("%d: address: %q  unexpected error: %s", i, address, err)
		}
	}
}

func TestInvalidAddresses(t *testing.T) {
	addresses := []string{
		"",
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTi", // checksum damaged
		"Hb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",  // truncated
		"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", // bitcoin address
		"not an address",
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyThrHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	}

	for i, address := range addresses {
		if err := ripple.ValidateAddress(address); nil == err {
			t.Errorf("%d: invalid address: %q  was accepted", i, address)
		}
	}
}

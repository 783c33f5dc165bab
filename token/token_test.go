// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token_test

import (
	"encoding/json"
	"testing"

	"github.com/escrow-inc/escrowd/token"
)

func TestNewDoesNotRepeat(t *testing.T) {
	seen := make(map[token.Token]struct{})
	for i := 0; i < 100; i += 1 {
		tk, err := token.New(42, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", 1500000000)
		if nil != err {
			t.Fatalf("new token error: %s", err)
		}
		if _, ok := seen[tk]; ok {
			t.Fatalf("token repeated: %#v", tk)
		}
		seen[tk] = struct{}{}
	}
}

func TestMarshalling(t *testing.T) {
	tk, err := token.New(7, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", 1500000000)
	if nil != err {
		t.Fatalf("new token error: %s", err)
	}
	t.Logf("token: %#v", tk)

	buffer, err := json.Marshal(tk)
	if nil != err {
		t.Fatalf("marshal JSON error: %s", err)
	}
	if 2+64 != len(buffer) { // quotes + 32 bytes of hex
		t.Fatalf("wrong marshalled length: %d", len(buffer))
	}

	var tk2 token.Token
	err = json.Unmarshal(buffer, &tk2)
	if nil != err {
		t.Fatalf("unmarshal JSON error: %s", err)
	}
	if tk != tk2 {
		t.Fatalf("token expected: %#v  actual: %#v", tk, tk2)
	}
}

func TestParse(t *testing.T) {
	tk, err := token.New(7, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", 1500000000)
	if nil != err {
		t.Fatalf("new token error: %s", err)
	}

	tk2, err := token.Parse(tk.String())
	if nil != err {
		t.Fatalf("parse error: %s", err)
	}
	if tk != tk2 {
		t.Fatalf("token expected: %#v  actual: %#v", tk, tk2)
	}

	if _, err = token.Parse("short"); nil == err {
		t.Fatalf("short token accepted")
	}
	if _, err = token.Parse("zz" + tk.String()[2:]); nil == err {
		t.Fatalf("non-hex token accepted")
	}
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"testing"
	"time"

	"github.com/escrow-inc/escrowd/store"
	"github.com/escrow-inc/escrowd/token"
)

func TestPool(t *testing.T) {
	Initialise()
	defer Finalise()

	Pool.TestB.Put("key-one", "data-one")
	Pool.TestB.Put("key-two", "data-two")
	Pool.TestB.Put("key-remove-me", "to be deleted")
	Pool.TestB.Delete("key-remove-me")
	Pool.TestB.Put("key-three", "data-three")
	Pool.TestB.Put("key-one", "data-one(NEW)") // duplicate
	expectedItems := map[string]string{
		"key-one":   "data-one(NEW)",
		"key-two":   "data-two",
		"key-three": "data-three",
	}

	if Pool.TestB.Size() != len(expectedItems) {
		t.Errorf("Length mismatch, got: %d  expected: %d", Pool.TestB.Size(), len(expectedItems))
	}

	for key, val := range Pool.TestB.Items() {
		expVal, ok := expectedItems[key]
		if !ok || val.(string) != expVal {
			t.Fail()
		}
	}
}

func TestExpiration(t *testing.T) {
	Initialise()
	defer Finalise()

	Pool.TestA.Put("a1", struct{}{})
	Pool.TestA.Put("a2", struct{}{})
	Pool.TestB.Put("b1", struct{}{})

	time.Sleep(4 * time.Second)
	deleteExpiredItems()

	if 0 != Pool.TestA.Size() {
		t.Errorf("expired items not removed, remaining: %d", Pool.TestA.Size())
	}
	if 1 != Pool.TestB.Size() {
		t.Errorf("unexpirable item removed, remaining: %d", Pool.TestB.Size())
	}
}

func makeToken(t *testing.T, holdId uint32) token.Token {
	tok, err := token.New(holdId, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", uint64(time.Now().Unix()))
	if nil != err {
		t.Fatalf("token generate error: %s", err)
	}
	return tok
}

func TestUpsertLatest(t *testing.T) {
	Initialise()
	defer Finalise()

	const subject = "a@example.com"

	if _, ok := Latest(subject); ok {
		t.Error("unknown subject reported present")
	}

	first := makeToken(t, 1)
	second := makeToken(t, 2)

	base := time.Now()
	Upsert(subject, first, store.Pending, base)
	Upsert(subject, second, store.Pending, base.Add(time.Second))

	latest, ok := Latest(subject)
	if !ok {
		t.Fatal("subject missing")
	}
	if second != latest.Token {
		t.Errorf("wrong latest token, got: %s  expected: %s", latest.Token, second)
	}

	// a decision on the older token makes it the most recent
	Upsert(subject, first, store.Approved, base.Add(2*time.Second))

	latest, _ = Latest(subject)
	if first != latest.Token {
		t.Errorf("wrong latest token, got: %s  expected: %s", latest.Token, first)
	}
	if store.Approved != latest.Status {
		t.Errorf("wrong status, got: %s  expected: Approved", latest.Status)
	}

	// upsert replaced in place, no duplicate entries
	if entries := Entries(subject); 2 != len(entries) {
		t.Errorf("wrong entry count, got: %d  expected: 2", len(entries))
	}
}

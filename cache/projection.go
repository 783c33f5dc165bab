// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"time"

	"github.com/escrow-inc/escrowd/store"
	"github.com/escrow-inc/escrowd/token"
)

// Entry - one token summary as seen by a polling client
type Entry struct {
	Token     token.Token  `json:"token"`
	Status    store.Status `json:"status"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Upsert - record a status for a subject, keyed by token
//
// a subject can hold several tokens, a repeated initiate produces a
// new one, so the subject maps to a list amended in place
func Upsert(subject string, t token.Token, status store.Status, updatedAt time.Time) {
	p := Pool.SubjectStatus

	p.Lock()
	defer p.Unlock()

	entries := []Entry(nil)
	if existing, ok := p.items[subject]; ok {
		entries = existing.object.([]Entry)
	}

	entry := Entry{
		Token:     t,
		Status:    status,
		UpdatedAt: updatedAt,
	}

	replaced := false
	for i, e := range entries {
		if e.Token == t {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	val := item{object: entries}
	if p.expiresAfter > 0 {
		val.expiresAt = time.Now().Add(p.expiresAfter)
	}
	p.items[subject] = val
}

// Latest - the most recently updated entry for a subject
func Latest(subject string) (Entry, bool) {
	obj, ok := Pool.SubjectStatus.Get(subject)
	if !ok {
		return Entry{}, false
	}

	entries := obj.([]Entry)
	if 0 == len(entries) {
		return Entry{}, false
	}

	latest := entries[0]
	for _, e := range entries[1:] {
		if e.UpdatedAt.After(latest.UpdatedAt) {
			latest = e
		}
	}
	return latest, true
}

// Entries - all entries for a subject, in insertion order
func Entries(subject string) []Entry {
	obj, ok := Pool.SubjectStatus.Get(subject)
	if !ok {
		return nil
	}
	return obj.([]Entry)
}

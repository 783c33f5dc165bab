// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache maintains the memory data store
//
//  ***** Data Structure *****
//
//  Pool                Key                        Value      ExpiresAfter
//  |___ SubjectStatus  contact identity (string)  []Entry    720h
//  |___ TestA          -                          -          3s
//  |___ TestB          -                          -          never
//
//  ***** Purpose *****
//
//  SubjectStatus:
//    per-subject projection of token statuses for polling clients,
//    upserted by token; the token store remains the source of truth
//    and this view may lag or be rebuilt from scratch without harm
package cache

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - client for the XRP Ledger escrow operations
//
//  ***** Operations *****
//
//  CreateHold   lock funds under a condition or a release time
//  FinishHold   release locked funds to the recipient
//  CancelHold   return locked funds to the sender (after cancel-after)
//  QueryHolds   list the holds created by an address
//
//  ***** Time representation *****
//
//  the ledger counts seconds from its own epoch (2000-01-01) which is
//  946684800 seconds after the Unix epoch; every absolute time sent to
//  the ledger must have this offset applied
//
//  ***** Idempotency *****
//
//  a finish or cancel submitted against a hold that was already
//  finalised is reported by the ledger as tecNO_TARGET; this client
//  maps that to fault.AlreadyFinalised so callers can treat a retried
//  finalisation as a benign no-op
package ledger

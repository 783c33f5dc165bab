// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package approval - the initiate → decide → finalise state machine
//
// an initiate locks funds under a fresh crypto-condition and issues a
// single-use decision token to the recipient.  a decision moves the
// token out of Pending exactly once: approve submits the fulfillment
// to release the funds, reject records the outcome and leaves fund
// return to the hold's own expiry.  a failed release is parked as
// Errored for operator reconciliation, never retried automatically.
//
// all decisions on one token are serialised through a lock table, so
// two concurrent approvals can never both reach the ledger.
package approval

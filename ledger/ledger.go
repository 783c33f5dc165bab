// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/escrow-inc/escrowd/currency"
)

// HoldId - ledger assigned identifier of a hold
//
// this is the account sequence number of the transaction that created
// the hold, the ledger identifies the hold by (owner, sequence)
type HoldId uint32

// HoldStatus - status of a hold as far as this system has observed
type HoldStatus int

// possible hold statuses
const (
	HoldCreated HoldStatus = iota
	HoldFinished
	HoldCancelled
	HoldExpired
)

// String - status as text
func (status HoldStatus) String() string {
	switch status {
	case HoldCreated:
		return "Created"
	case HoldFinished:
		return "Finished"
	case HoldCancelled:
		return "Cancelled"
	case HoldExpired:
		return "Expired"
	default:
		return "*unknown*"
	}
}

// HoldType - variant of a hold
type HoldType int

// possible hold variants
const (
	Conditional HoldType = iota
	TimeBased
)

// String - type as text
func (t HoldType) String() string {
	switch t {
	case Conditional:
		return "Conditional"
	case TimeBased:
		return "TimeBased"
	default:
		return "*unknown*"
	}
}

// Credential - signing identity of the account that owns a hold
//
// the secret is only ever sent to the configured ledger node for
// sign-and-submit, never stored by this package
type Credential struct {
	Address string
	Secret  string
}

// CreateResult - successful hold creation
type CreateResult struct {
	HoldId    HoldId
	TxHash    string
	Sender    string
	Recipient string
	ExpiresAt time.Time // civil time of the hold's cancel-after
}

// FinishResult - successful hold finalisation (finish or cancel)
type FinishResult struct {
	TxHash string
}

// HoldInfo - one hold as reported by the ledger, for reconciliation
type HoldInfo struct {
	HoldId    HoldId            `json:"holdId"`
	Type      HoldType          `json:"type"`
	Currency  currency.Currency `json:"currency"`
	Amount    uint64            `json:"amount"` // drops
	Recipient string            `json:"recipient"`
	Condition string            `json:"condition,omitempty"`
	Status    HoldStatus        `json:"status"`
	TxHash    string            `json:"txHash"`
}

// Ledger - interface to the escrow operations of the ledger
type Ledger interface {
	CreateHold(credential Credential, recipient string, amountDrops uint64, hold Hold, cancelAfter time.Duration, memo string) (*CreateResult, error)
	FinishHold(credential Credential, holdId HoldId, hold Hold) (*FinishResult, error)
	CancelHold(credential Credential, holdId HoldId) (*FinishResult, error)
	QueryHolds(address string) ([]HoldInfo, error)
}

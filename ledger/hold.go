// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/escrow-inc/escrowd/condition"
	"github.com/escrow-inc/escrowd/fault"
)

// Hold - a hold variant, chosen once at creation
//
// each variant carries its own create and finish transaction fields so
// there is no optional-parameter branching at the call sites
type Hold interface {
	Type() HoldType
	createFields(tx map[string]interface{})
	finishFields(tx map[string]interface{}) error
}

// ConditionalHold - funds release gated by a crypto-condition
type ConditionalHold struct {
	Condition   condition.Condition
	Fulfillment condition.Fulfillment
}

// Type - variant tag
func (h ConditionalHold) Type() HoldType {
	return Conditional
}

func (h ConditionalHold) createFields(tx map[string]interface{}) {
	tx["Condition"] = string(h.Condition)
}

// the fulfillment is checked locally before any network round trip;
// the ledger re-validates as the authoritative check
func (h ConditionalHold) finishFields(tx map[string]interface{}) error {
	if !condition.Validate(h.Condition, h.Fulfillment) {
		return fault.InvalidFulfillment
	}
	tx["Condition"] = string(h.Condition)
	tx["Fulfillment"] = string(h.Fulfillment)
	return nil
}

// TimeBasedHold - funds release gated only by elapsed time
type TimeBasedHold struct {
	FinishAfter time.Time
}

// Type - variant tag
func (h TimeBasedHold) Type() HoldType {
	return TimeBased
}

func (h TimeBasedHold) createFields(tx map[string]interface{}) {
	tx["FinishAfter"] = toLedgerEpoch(h.FinishAfter)
}

func (h TimeBasedHold) finishFields(tx map[string]interface{}) error {
	return nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"encoding/json"
	"time"

	"github.com/escrow-inc/escrowd/condition"
	"github.com/escrow-inc/escrowd/currency"
	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/token"
)

// Record - one decision token and the hold it authorises
//
// the fulfillment is the release secret, it stays inside this process
// until a finish transaction is submitted
type Record struct {
	Token       token.Token           `json:"token"`
	HoldId      ledger.HoldId         `json:"holdId"`
	Sender      string                `json:"sender"`
	Secret      string                `json:"secret"` // signs the finish on approval
	Recipient   string                `json:"recipient"`
	Amount      uint64                `json:"amount"` // drops
	Currency    currency.Currency     `json:"currency"`
	Condition   condition.Condition   `json:"condition"`
	Fulfillment condition.Fulfillment `json:"fulfillment"`
	Contact     string                `json:"contact"`
	Status      Status                `json:"status"`
	Reason      string                `json:"reason,omitempty"`
	TxHash      string                `json:"txHash,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	DecidedAt   *time.Time            `json:"decidedAt,omitempty"`
	ExpiresAt   time.Time             `json:"expiresAt"`
}

// serialise a record for the database
func packRecord(record *Record) ([]byte, error) {
	return json.Marshal(record)
}

// deserialise a database value
func unpackRecord(data []byte) (*Record, error) {
	record := &Record{}
	if err := json.Unmarshal(data, record); nil != err {
		return nil, fault.InvalidStructure
	}
	return record, nil
}

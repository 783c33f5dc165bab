// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/escrow-inc/escrowd/currency"
	"github.com/escrow-inc/escrowd/currency/ripple"
)

// maximum transactions fetched per account history query
const accountTxLimit = 200

// one transaction from an account history reply
//
// Amount is raw because the ledger encodes the native currency as a
// string of drops and issued currencies as an object; only the former
// is an escrowable amount
type accountTx struct {
	Tx struct {
		TransactionType string          `json:"TransactionType"`
		Account         string          `json:"Account"`
		Destination     string          `json:"Destination"`
		Amount          json.RawMessage `json:"Amount"`
		Sequence        uint32          `json:"Sequence"`
		OfferSequence   uint32          `json:"OfferSequence"`
		Owner           string          `json:"Owner"`
		Condition       string          `json:"Condition"`
		CancelAfter     uint64          `json:"CancelAfter"`
		Hash            string          `json:"hash"`
	} `json:"tx"`
	Validated bool `json:"validated"`
}

type accountTxReply struct {
	Account      string      `json:"account"`
	Transactions []accountTx `json:"transactions"`
}

// QueryHolds - list the holds an account has created, with the status
// each has reached
//
// the ledger keeps no tombstones for finalised holds, so status is
// reconstructed from the account's transaction history: a create not
// matched by a finish or cancel is still open unless its cancel-after
// has passed, in which case it is reported expired
func (c *client) QueryHolds(address string) ([]HoldInfo, error) {

	if err := ripple.ValidateAddress(address); nil != err {
		return nil, err
	}

	c.Lock()
	defer c.Unlock()

	var reply accountTxReply
	err := c.call("account_tx", map[string]interface{}{
		"account":          address,
		"ledger_index_min": -1,
		"ledger_index_max": -1,
		"limit":            accountTxLimit,
	}, &reply)
	if nil != err {
		return nil, err
	}

	now := time.Now()

	infos := make([]HoldInfo, 0, len(reply.Transactions))
	index := make(map[HoldId]int)
	finalised := make(map[HoldId]HoldStatus)

	for _, t := range reply.Transactions {
		if !t.Validated {
			continue
		}
		switch t.Tx.TransactionType {

		case "EscrowCreate":
			if t.Tx.Account != address {
				continue
			}
			amount, ok := dropsAmount(t.Tx.Amount)
			if !ok {
				continue
			}
			holdType := TimeBased
			if "" != t.Tx.Condition {
				holdType = Conditional
			}
			status := HoldCreated
			if 0 != t.Tx.CancelAfter && fromLedgerEpoch(t.Tx.CancelAfter).Before(now) {
				status = HoldExpired
			}
			id := HoldId(t.Tx.Sequence)
			index[id] = len(infos)
			infos = append(infos, HoldInfo{
				HoldId:    id,
				Type:      holdType,
				Currency:  currency.XRP,
				Amount:    amount,
				Recipient: t.Tx.Destination,
				Condition: t.Tx.Condition,
				Status:    status,
				TxHash:    t.Tx.Hash,
			})

		case "EscrowFinish":
			if t.Tx.Owner == address {
				finalised[HoldId(t.Tx.OfferSequence)] = HoldFinished
			}

		case "EscrowCancel":
			if t.Tx.Owner == address {
				finalised[HoldId(t.Tx.OfferSequence)] = HoldCancelled
			}
		}
	}

	// a recorded finish or cancel overrides the expiry heuristic
	for id, status := range finalised {
		if i, ok := index[id]; ok {
			infos[i].Status = status
		}
	}

	return infos, nil
}

// decode a native-currency amount, drops as a JSON string
func dropsAmount(raw json.RawMessage) (uint64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); nil != err {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return 0, false
	}
	return n, true
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approval

import (
	"strings"
	"time"

	"github.com/escrow-inc/escrowd/cache"
	"github.com/escrow-inc/escrowd/condition"
	"github.com/escrow-inc/escrowd/currency"
	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/notifier"
	"github.com/escrow-inc/escrowd/store"
	"github.com/escrow-inc/escrowd/token"
)

// InitiateResult - a hold created and its decision token issued
type InitiateResult struct {
	Token       token.Token   `json:"token"`
	HoldId      ledger.HoldId `json:"holdId"`
	ApproveLink string        `json:"approveLink"`
	RejectLink  string        `json:"rejectLink"`
}

// DecisionResult - outcome of an approve or reject
type DecisionResult struct {
	Status           store.Status `json:"status"`
	TxHash           string       `json:"txHash,omitempty"`
	ExpectedReturnAt *time.Time   `json:"expectedReturnAt,omitempty"`
}

// StatusResult - current state of a token
type StatusResult struct {
	Status    store.Status `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	DecidedAt *time.Time   `json:"decidedAt,omitempty"`
	TxHash    string       `json:"txHash,omitempty"`
}

// Initiate - lock funds and issue a decision token
//
// the hold is created first; only after the ledger confirms is the
// token persisted and published, so a failed initiate leaves no state
// anywhere and may simply be retried
func Initiate(credential ledger.Credential, recipient string, amountDrops uint64, c currency.Currency, contact string, holdDuration time.Duration, memo string) (*InitiateResult, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	if currency.XRP != c {
		return nil, fault.InvalidCurrency
	}
	if "" == contact || !strings.Contains(contact, "@") {
		return nil, fault.InvalidRecipientContact
	}
	if holdDuration <= 0 {
		holdDuration = globalData.holdDuration
	}

	cond, fulfillment, err := condition.Generate()
	if nil != err {
		return nil, err
	}

	created, err := globalData.client.CreateHold(
		credential,
		recipient,
		amountDrops,
		ledger.ConditionalHold{Condition: cond},
		holdDuration,
		memo,
	)
	if nil != err {
		return nil, err
	}

	now := time.Now().UTC()

	tok, err := token.New(uint32(created.HoldId), credential.Address, uint64(now.Unix()))
	if nil != err {
		// the hold exists but cannot be referenced, operator must
		// reconcile from ledger truth
		globalData.log.Criticalf("hold %d created but token generation failed: %s", created.HoldId, err)
		return nil, err
	}

	record := &store.Record{
		Token:       tok,
		HoldId:      created.HoldId,
		Sender:      credential.Address,
		Secret:      credential.Secret,
		Recipient:   recipient,
		Amount:      amountDrops,
		Currency:    c,
		Condition:   cond,
		Fulfillment: fulfillment,
		Contact:     contact,
		Status:      store.Pending,
		CreatedAt:   now,
		ExpiresAt:   created.ExpiresAt,
	}
	if err := store.Put(record); nil != err {
		globalData.log.Criticalf("hold %d created but token not persisted: %s", created.HoldId, err)
		return nil, err
	}

	cache.Upsert(contact, tok, store.Pending, now)

	approveLink := decisionLink(tok, "approve")
	rejectLink := decisionLink(tok, "reject")

	// only the token travels, never the fulfillment
	delivered := globalData.notify.Send(contact, tok, approveLink, rejectLink, notifier.HoldSummary{
		Sender:    credential.Address,
		Recipient: recipient,
		Amount:    amountDrops,
		Memo:      memo,
	})
	if !delivered {
		globalData.log.Warnf("notification not delivered: contact: %s  token: %s", contact, tok)
	}

	globalData.log.Infof("initiated: hold: %d  token: %s", created.HoldId, tok)

	return &InitiateResult{
		Token:       tok,
		HoldId:      created.HoldId,
		ApproveLink: approveLink,
		RejectLink:  rejectLink,
	}, nil
}

func decisionLink(t token.Token, decision string) string {
	return globalData.linkPrefix + "/decide?token=" + t.String() + "&decision=" + decision
}

// DecideApprove - release the held funds to the recipient
//
// exactly one approve per token ever reaches the ledger; a failed
// release parks the token as Errored and is left to an operator, an
// automatic retry could double-submit the finish
func DecideApprove(t token.Token) (*DecisionResult, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	lock := decisionLock(t)
	lock.Lock()
	defer lock.Unlock()

	record, err := store.Reload(t)
	if nil != err {
		return nil, err
	}
	if record.Status.IsTerminal() {
		return nil, fault.AlreadyProcessed
	}

	finished, err := globalData.client.FinishHold(
		ledger.Credential{Address: record.Sender, Secret: record.Secret},
		record.HoldId,
		ledger.ConditionalHold{
			Condition:   record.Condition,
			Fulfillment: record.Fulfillment,
		},
	)

	txHash := ""
	switch {
	case nil == err:
		txHash = finished.TxHash

	case fault.AlreadyFinalised == err:
		// a previous attempt landed but was never recorded, ledger
		// truth wins
		globalData.log.Warnf("hold %d already finished on ledger, recording approval", record.HoldId)

	default:
		if fault.InvalidFulfillment == err {
			// the engine generated this pair, failure here is a
			// programming error not a user error
			globalData.log.Criticalf("stored fulfillment rejected: token: %s  hold: %d", t, record.HoldId)
		}
		if _, updateErr := store.UpdateStatus(t, store.Errored, store.Extra{Reason: err.Error()}); nil != updateErr {
			globalData.log.Errorf("errored transition not persisted: token: %s  error: %s", t, updateErr)
		} else {
			cache.Upsert(record.Contact, t, store.Errored, time.Now().UTC())
		}
		globalData.log.Errorf("approve failed: token: %s  hold: %d  error: %s", t, record.HoldId, err)
		return nil, err
	}

	updated, err := store.UpdateStatus(t, store.Approved, store.Extra{TxHash: txHash})
	if nil != err {
		// another process decided between our reload and persist
		globalData.log.Errorf("approved transition not persisted: token: %s  error: %s", t, err)
		return nil, err
	}

	cache.Upsert(record.Contact, t, store.Approved, *updated.DecidedAt)

	globalData.log.Infof("approved: token: %s  hold: %d  tx: %s", t, record.HoldId, txHash)

	return &DecisionResult{
		Status: store.Approved,
		TxHash: txHash,
	}, nil
}

// DecideReject - record a refusal
//
// no cancel is submitted: the ledger will not accept one before the
// hold's cancel-after anyway, and its own expiry returns the funds,
// so the refusal is recorded instantly with zero ledger traffic
func DecideReject(t token.Token) (*DecisionResult, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	lock := decisionLock(t)
	lock.Lock()
	defer lock.Unlock()

	record, err := store.Reload(t)
	if nil != err {
		return nil, err
	}
	if record.Status.IsTerminal() {
		return nil, fault.AlreadyProcessed
	}

	updated, err := store.UpdateStatus(t, store.Rejected, store.Extra{})
	if nil != err {
		return nil, err
	}

	cache.Upsert(record.Contact, t, store.Rejected, *updated.DecidedAt)

	globalData.log.Infof("rejected: token: %s  hold: %d  funds return: %s", t, record.HoldId, record.ExpiresAt)

	expectedReturnAt := record.ExpiresAt
	return &DecisionResult{
		Status:           store.Rejected,
		ExpectedReturnAt: &expectedReturnAt,
	}, nil
}

// Status - current state of a token
func Status(t token.Token) (*StatusResult, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	record, err := store.Get(t)
	if nil != err {
		return nil, err
	}

	return &StatusResult{
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		DecidedAt: record.DecidedAt,
		TxHash:    record.TxHash,
	}, nil
}

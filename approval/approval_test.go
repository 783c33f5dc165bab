// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approval_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/escrow-inc/escrowd/approval"
	"github.com/escrow-inc/escrowd/cache"
	"github.com/escrow-inc/escrowd/condition"
	"github.com/escrow-inc/escrowd/currency"
	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/fixtures"
	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/ledger/mocks"
	"github.com/escrow-inc/escrowd/notifier"
	"github.com/escrow-inc/escrowd/store"
	"github.com/escrow-inc/escrowd/token"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()

	if err := store.Initialise(filepath.Join("testing", "tokens.leveldb")); nil != err {
		fixtures.TeardownTestLogger()
		os.Exit(1)
	}
	_ = cache.Initialise()

	rc := m.Run()

	cache.Finalise()
	_ = store.Finalise()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// notifier that records what was handed over
type recordingNotifier struct {
	sync.Mutex
	delivered   bool
	contact     string
	token       token.Token
	approveLink string
	rejectLink  string
	summary     notifier.HoldSummary
	sent        int
}

func (n *recordingNotifier) Send(contact string, t token.Token, approveLink string, rejectLink string, summary notifier.HoldSummary) bool {
	n.Lock()
	defer n.Unlock()
	n.sent += 1
	n.contact = contact
	n.token = t
	n.approveLink = approveLink
	n.rejectLink = rejectLink
	n.summary = summary
	return n.delivered
}

func setup(t *testing.T) (*mocks.MockLedger, *recordingNotifier, func()) {
	ctl := gomock.NewController(t)
	mockLedger := mocks.NewMockLedger(ctl)
	notify := &recordingNotifier{delivered: true}

	err := approval.Initialise(&approval.Configuration{
		LinkPrefix: "https://escrow.test",
	}, mockLedger, notify)
	assert.Nil(t, err, "approval.Initialise error")

	return mockLedger, notify, func() {
		_ = approval.Finalise()
		ctl.Finish()
	}
}

func testCredential() ledger.Credential {
	return ledger.Credential{
		Address: fixtures.SenderAddress,
		Secret:  fixtures.SenderSecret,
	}
}

func createResult(holdId ledger.HoldId) *ledger.CreateResult {
	return &ledger.CreateResult{
		HoldId:    holdId,
		TxHash:    "C0FFEE",
		Sender:    fixtures.SenderAddress,
		Recipient: fixtures.RecipientAddress,
		ExpiresAt: time.Now().Add(24 * time.Hour).UTC(),
	}
}

func initiate(t *testing.T, mockLedger *mocks.MockLedger, holdId ledger.HoldId, contact string) *approval.InitiateResult {
	mockLedger.EXPECT().
		CreateHold(testCredential(), fixtures.RecipientAddress, uint64(5000000), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(createResult(holdId), nil)

	result, err := approval.Initiate(testCredential(), fixtures.RecipientAddress, 5000000, currency.XRP, contact, 0, "loan")
	assert.Nil(t, err, "Initiate error")
	return result
}

func TestInitiate(t *testing.T) {
	mockLedger, notify, teardown := setup(t)
	defer teardown()

	const contact = "a@x.com"

	var heldCondition condition.Condition
	mockLedger.EXPECT().
		CreateHold(testCredential(), fixtures.RecipientAddress, uint64(5000000), gomock.Any(), 24*time.Hour, "loan").
		DoAndReturn(func(_ ledger.Credential, _ string, _ uint64, hold ledger.Hold, _ time.Duration, _ string) (*ledger.CreateResult, error) {
			conditional, ok := hold.(ledger.ConditionalHold)
			assert.True(t, ok, "hold is not conditional")
			assert.Empty(t, conditional.Fulfillment, "fulfillment must not be sent at creation")
			heldCondition = conditional.Condition
			return createResult(42), nil
		})

	result, err := approval.Initiate(testCredential(), fixtures.RecipientAddress, 5000000, currency.XRP, contact, 0, "loan")
	assert.Nil(t, err, "Initiate error")
	assert.Equal(t, ledger.HoldId(42), result.HoldId, "wrong hold id")
	assert.True(t, strings.Contains(result.ApproveLink, result.Token.String()), "token missing from approve link")
	assert.True(t, strings.Contains(result.RejectLink, "decision=reject"), "wrong reject link")

	status, err := approval.Status(result.Token)
	assert.Nil(t, err, "Status error")
	assert.Equal(t, store.Pending, status.Status, "fresh token not pending")
	assert.Nil(t, status.DecidedAt, "fresh token has a decision time")

	entry, found := cache.Latest(contact)
	assert.True(t, found, "status cache entry missing")
	assert.Equal(t, result.Token, entry.Token, "wrong cached token")
	assert.Equal(t, store.Pending, entry.Status, "wrong cached status")

	// the stored fulfillment opens the condition the ledger holds
	record, err := store.Get(result.Token)
	assert.Nil(t, err, "store.Get error")
	assert.True(t, condition.Validate(heldCondition, record.Fulfillment), "stored fulfillment does not open the hold condition")

	// the notifier saw the token but never the fulfillment
	assert.Equal(t, 1, notify.sent, "wrong notification count")
	assert.Equal(t, contact, notify.contact, "wrong notification contact")
	assert.Equal(t, result.Token, notify.token, "wrong notification token")
}

func TestInitiateLedgerFailure(t *testing.T) {
	mockLedger, notify, teardown := setup(t)
	defer teardown()

	before, err := store.PendingRecords()
	assert.Nil(t, err, "PendingRecords error")

	mockLedger.EXPECT().
		CreateHold(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fault.ProcessError("transaction rejected: tecUNFUNDED"))

	_, err = approval.Initiate(testCredential(), fixtures.RecipientAddress, 5000000, currency.XRP, "fail@x.com", 0, "")
	assert.NotNil(t, err, "failed initiate reported success")

	// nothing persisted, nothing published, nothing sent
	after, err := store.PendingRecords()
	assert.Nil(t, err, "PendingRecords error")
	assert.Equal(t, len(before), len(after), "partial state survived a failed initiate")
	_, found := cache.Latest("fail@x.com")
	assert.False(t, found, "cache entry created for failed initiate")
	assert.Equal(t, 0, notify.sent, "notification sent for failed initiate")
}

func TestInitiateValidation(t *testing.T) {
	_, _, teardown := setup(t)
	defer teardown()

	_, err := approval.Initiate(testCredential(), fixtures.RecipientAddress, 5000000, currency.Nothing, "a@x.com", 0, "")
	assert.Equal(t, fault.InvalidCurrency, err, "unknown currency accepted")

	_, err = approval.Initiate(testCredential(), fixtures.RecipientAddress, 5000000, currency.XRP, "not-a-contact", 0, "")
	assert.Equal(t, fault.InvalidRecipientContact, err, "bad contact accepted")
}

func TestInitiateNotifierFailureIsNonFatal(t *testing.T) {
	mockLedger, notify, teardown := setup(t)
	defer teardown()
	notify.delivered = false

	result := initiate(t, mockLedger, 43, "b@x.com")

	// token persisted despite failed delivery
	status, err := approval.Status(result.Token)
	assert.Nil(t, err, "Status error")
	assert.Equal(t, store.Pending, status.Status, "wrong status")
}

func TestDecideApprove(t *testing.T) {
	mockLedger, _, teardown := setup(t)
	defer teardown()

	const contact = "c@x.com"
	result := initiate(t, mockLedger, 44, contact)

	mockLedger.EXPECT().
		FinishHold(testCredential(), ledger.HoldId(44), gomock.Any()).
		DoAndReturn(func(_ ledger.Credential, _ ledger.HoldId, hold ledger.Hold) (*ledger.FinishResult, error) {
			conditional, ok := hold.(ledger.ConditionalHold)
			assert.True(t, ok, "hold is not conditional")
			assert.True(t, condition.Validate(conditional.Condition, conditional.Fulfillment), "bad pair submitted")
			return &ledger.FinishResult{TxHash: "0xabc"}, nil
		}).
		Times(1)

	decision, err := approval.DecideApprove(result.Token)
	assert.Nil(t, err, "DecideApprove error")
	assert.Equal(t, store.Approved, decision.Status, "wrong status")
	assert.Equal(t, "0xabc", decision.TxHash, "wrong tx hash")
	assert.Nil(t, decision.ExpectedReturnAt, "approve must not set a return time")

	// funds moved, so no return time may leak into the encoded decision
	buffer, err := json.Marshal(decision)
	assert.Nil(t, err, "marshal error")
	assert.NotContains(t, string(buffer), "expectedReturnAt", "zero return time serialised")

	status, err := approval.Status(result.Token)
	assert.Nil(t, err, "Status error")
	assert.Equal(t, store.Approved, status.Status, "wrong persisted status")
	assert.Equal(t, "0xabc", status.TxHash, "wrong persisted tx hash")
	assert.NotNil(t, status.DecidedAt, "decision time not set")

	entry, _ := cache.Latest(contact)
	assert.Equal(t, store.Approved, entry.Status, "cache not updated")

	// a repeat approve is a benign no-op, finish count stays at 1
	_, err = approval.DecideApprove(result.Token)
	assert.Equal(t, fault.AlreadyProcessed, err, "second approve accepted")
}

func TestDecideApproveConcurrent(t *testing.T) {
	mockLedger, _, teardown := setup(t)
	defer teardown()

	result := initiate(t, mockLedger, 45, "d@x.com")

	mockLedger.EXPECT().
		FinishHold(gomock.Any(), ledger.HoldId(45), gomock.Any()).
		DoAndReturn(func(_ ledger.Credential, _ ledger.HoldId, _ ledger.Hold) (*ledger.FinishResult, error) {
			time.Sleep(50 * time.Millisecond) // ledger confirmation latency
			return &ledger.FinishResult{TxHash: "0xabc"}, nil
		}).
		Times(1)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i += 1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = approval.DecideApprove(result.Token)
		}(i)
	}
	wg.Wait()

	approved := 0
	alreadyProcessed := 0
	for _, err := range errs {
		switch err {
		case nil:
			approved += 1
		case fault.AlreadyProcessed:
			alreadyProcessed += 1
		default:
			t.Errorf("unexpected error: %s", err)
		}
	}
	assert.Equal(t, 1, approved, "wrong approval count")
	assert.Equal(t, callers-1, alreadyProcessed, "wrong already-processed count")
}

func TestDecideApproveLedgerFailure(t *testing.T) {
	mockLedger, _, teardown := setup(t)
	defer teardown()

	const contact = "e@x.com"
	result := initiate(t, mockLedger, 46, contact)

	mockLedger.EXPECT().
		FinishHold(gomock.Any(), ledger.HoldId(46), gomock.Any()).
		Return(nil, fault.NetworkUnavailable).
		Times(1)

	_, err := approval.DecideApprove(result.Token)
	assert.Equal(t, fault.NetworkUnavailable, err, "failure not surfaced")

	// parked for the operator, no automatic retry possible
	status, err := approval.Status(result.Token)
	assert.Nil(t, err, "Status error")
	assert.Equal(t, store.Errored, status.Status, "wrong status")

	entry, _ := cache.Latest(contact)
	assert.Equal(t, store.Errored, entry.Status, "cache not updated")

	_, err = approval.DecideApprove(result.Token)
	assert.Equal(t, fault.AlreadyProcessed, err, "errored token re-approved")
}

func TestDecideApproveAlreadyFinalised(t *testing.T) {
	mockLedger, _, teardown := setup(t)
	defer teardown()

	result := initiate(t, mockLedger, 47, "f@x.com")

	// a previous finish landed, the retry must not be a hard failure
	mockLedger.EXPECT().
		FinishHold(gomock.Any(), ledger.HoldId(47), gomock.Any()).
		Return(nil, fault.AlreadyFinalised).
		Times(1)

	decision, err := approval.DecideApprove(result.Token)
	assert.Nil(t, err, "already-finalised treated as failure")
	assert.Equal(t, store.Approved, decision.Status, "wrong status")
}

func TestDecideReject(t *testing.T) {
	mockLedger, _, teardown := setup(t)
	defer teardown()

	const contact = "g@x.com"
	result := initiate(t, mockLedger, 48, contact)

	record, err := store.Get(result.Token)
	assert.Nil(t, err, "store.Get error")

	// no FinishHold or CancelHold expectation: any ledger call fails
	// the controller
	decision, err := approval.DecideReject(result.Token)
	assert.Nil(t, err, "DecideReject error")
	assert.Equal(t, store.Rejected, decision.Status, "wrong status")
	assert.NotNil(t, decision.ExpectedReturnAt, "missing expected return time")
	assert.Equal(t, record.ExpiresAt, *decision.ExpectedReturnAt, "wrong expected return time")

	entry, _ := cache.Latest(contact)
	assert.Equal(t, store.Rejected, entry.Status, "cache not updated")

	_, err = approval.DecideReject(result.Token)
	assert.Equal(t, fault.AlreadyProcessed, err, "second reject accepted")

	_, err = approval.DecideApprove(result.Token)
	assert.Equal(t, fault.AlreadyProcessed, err, "approve after reject accepted")
}

func TestStatusUnknownToken(t *testing.T) {
	_, _, teardown := setup(t)
	defer teardown()

	tok, err := token.New(990, fixtures.SenderAddress, uint64(time.Now().Unix()))
	assert.Nil(t, err, "token generate error")

	_, err = approval.Status(tok)
	assert.Equal(t, fault.TokenNotFound, err, "unknown token found")

	_, err = approval.DecideApprove(tok)
	assert.Equal(t, fault.TokenNotFound, err, "unknown token approved")
}

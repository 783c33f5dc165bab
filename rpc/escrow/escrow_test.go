// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/approval"
	"github.com/escrow-inc/escrowd/cache"
	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/fixtures"
	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/ledger/mocks"
	"github.com/escrow-inc/escrowd/notifier"
	"github.com/escrow-inc/escrowd/rpc/escrow"
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

func setup(t *testing.T) (*escrow.Escrow, *mocks.MockLedger, func()) {
	ctl := gomock.NewController(t)
	mockLedger := mocks.NewMockLedger(ctl)

	err := approval.Initialise(&approval.Configuration{
		LinkPrefix: "https://escrow.test",
	}, mockLedger, notifier.New())
	assert.Nil(t, err, "approval.Initialise error")

	service := escrow.New(logger.New(fixtures.LogCategory))

	return service, mockLedger, func() {
		_ = approval.Finalise()
		ctl.Finish()
	}
}

func initiateArguments() *escrow.InitiateArguments {
	return &escrow.InitiateArguments{
		Sender:    fixtures.SenderAddress,
		Secret:    fixtures.SenderSecret,
		Recipient: fixtures.RecipientAddress,
		Amount:    "3.5",
		Currency:  "XRP",
		Contact:   "rpc@x.com",
		Memo:      "loan",
	}
}

func TestInitiate(t *testing.T) {
	service, mockLedger, teardown := setup(t)
	defer teardown()

	mockLedger.EXPECT().
		CreateHold(gomock.Any(), fixtures.RecipientAddress, uint64(3500000), gomock.Any(), gomock.Any(), "loan").
		Return(&ledger.CreateResult{
			HoldId:    42,
			TxHash:    "C0FFEE",
			Sender:    fixtures.SenderAddress,
			Recipient: fixtures.RecipientAddress,
			ExpiresAt: time.Now().Add(24 * time.Hour).UTC(),
		}, nil)

	var reply escrow.InitiateReply
	err := service.Initiate(initiateArguments(), &reply)
	assert.Nil(t, err, "Initiate error")
	assert.Equal(t, ledger.HoldId(42), reply.HoldId, "wrong hold id")
	assert.NotEmpty(t, reply.ApproveLink, "missing approve link")

	var status escrow.StatusReply
	err = service.Status(&escrow.StatusArguments{Token: reply.Token.String()}, &status)
	assert.Nil(t, err, "Status error")
	assert.Equal(t, "Pending", status.Status, "wrong status")
}

func TestInitiateValidation(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	arguments := initiateArguments()
	arguments.Currency = "DOGE"
	var reply escrow.InitiateReply
	err := service.Initiate(arguments, &reply)
	assert.Equal(t, fault.InvalidCurrency, err, "unknown currency accepted")

	arguments = initiateArguments()
	arguments.Amount = "0"
	err = service.Initiate(arguments, &reply)
	assert.Equal(t, fault.InvalidAmount, err, "zero amount accepted")

	arguments = initiateArguments()
	arguments.HoldDuration = "soon"
	err = service.Initiate(arguments, &reply)
	assert.Equal(t, fault.InvalidCancelAfter, err, "bad duration accepted")
}

func TestDecide(t *testing.T) {
	service, mockLedger, teardown := setup(t)
	defer teardown()

	mockLedger.EXPECT().
		CreateHold(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ledger.CreateResult{
			HoldId:    43,
			Sender:    fixtures.SenderAddress,
			Recipient: fixtures.RecipientAddress,
			ExpiresAt: time.Now().Add(24 * time.Hour).UTC(),
		}, nil)

	var initiated escrow.InitiateReply
	err := service.Initiate(initiateArguments(), &initiated)
	assert.Nil(t, err, "Initiate error")

	mockLedger.EXPECT().
		FinishHold(gomock.Any(), ledger.HoldId(43), gomock.Any()).
		Return(&ledger.FinishResult{TxHash: "0xabc"}, nil).
		Times(1)

	var decided escrow.DecideReply
	err = service.Decide(&escrow.DecideArguments{
		Token:    initiated.Token.String(),
		Decision: "approve",
	}, &decided)
	assert.Nil(t, err, "Decide error")
	assert.Equal(t, "Approved", decided.Status, "wrong status")
	assert.Equal(t, "0xabc", decided.TxHash, "wrong tx hash")

	// repeat is the idempotency guard, not a hard failure
	err = service.Decide(&escrow.DecideArguments{
		Token:    initiated.Token.String(),
		Decision: "approve",
	}, &decided)
	assert.Equal(t, fault.AlreadyProcessed, err, "second approve accepted")
}

func TestDecideReject(t *testing.T) {
	service, mockLedger, teardown := setup(t)
	defer teardown()

	expiresAt := time.Now().Add(24 * time.Hour).UTC()
	mockLedger.EXPECT().
		CreateHold(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ledger.CreateResult{
			HoldId:    44,
			Sender:    fixtures.SenderAddress,
			Recipient: fixtures.RecipientAddress,
			ExpiresAt: expiresAt,
		}, nil)

	var initiated escrow.InitiateReply
	err := service.Initiate(initiateArguments(), &initiated)
	assert.Nil(t, err, "Initiate error")

	var decided escrow.DecideReply
	err = service.Decide(&escrow.DecideArguments{
		Token:    initiated.Token.String(),
		Decision: "reject",
	}, &decided)
	assert.Nil(t, err, "Decide error")
	assert.Equal(t, "Rejected", decided.Status, "wrong status")
	assert.NotNil(t, decided.ExpectedReturnAt, "missing expected return time")
	assert.Equal(t, expiresAt, *decided.ExpectedReturnAt, "wrong expected return time")
}

func TestDecideValidation(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	var reply escrow.DecideReply
	err := service.Decide(&escrow.DecideArguments{Token: "zzzz", Decision: "approve"}, &reply)
	assert.Equal(t, fault.InvalidToken, err, "bad token accepted")

	tok, _ := token.New(991, fixtures.SenderAddress, uint64(time.Now().Unix()))
	err = service.Decide(&escrow.DecideArguments{Token: tok.String(), Decision: "maybe"}, &reply)
	assert.Equal(t, fault.InvalidStructure, err, "bad decision accepted")

	err = service.Decide(&escrow.DecideArguments{Token: tok.String(), Decision: "approve"}, &reply)
	assert.Equal(t, fault.TokenNotFound, err, "unknown token accepted")
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/approval"
	"github.com/escrow-inc/escrowd/currency"
	"github.com/escrow-inc/escrowd/currency/drop"
	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/rpc/ratelimit"
	"github.com/escrow-inc/escrowd/token"
)

const (
	rateLimitEscrow = 200
	rateBurstEscrow = 100
)

// Escrow - an RPC entry for hold and decision functions
type Escrow struct {
	Log     *logger.L
	Limiter *rate.Limiter
}

// New - create the escrow service
func New(log *logger.L) *Escrow {
	return &Escrow{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitEscrow, rateBurstEscrow),
	}
}

// InitiateArguments - arguments for initiate RPC request
type InitiateArguments struct {
	Sender       string `json:"sender"`
	Secret       string `json:"secret"`
	Recipient    string `json:"recipient"`
	Amount       string `json:"amount"` // decimal XRP, e.g. "3.5"
	Currency     string `json:"currency"`
	Contact      string `json:"contact"`
	HoldDuration string `json:"holdDuration,omitempty"`
	Memo         string `json:"memo,omitempty"`
}

// InitiateReply - results from initiate RPC
type InitiateReply struct {
	Token       token.Token   `json:"token"`
	HoldId      ledger.HoldId `json:"holdId"`
	ApproveLink string        `json:"approveLink"`
	RejectLink  string        `json:"rejectLink"`
}

// Initiate - lock funds and issue a decision token
func (e *Escrow) Initiate(arguments *InitiateArguments, reply *InitiateReply) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	e.Log.Infof("Escrow.Initiate: %s -> %s", arguments.Sender, arguments.Recipient)

	var c currency.Currency
	if err := c.UnmarshalText([]byte(arguments.Currency)); nil != err {
		return fault.InvalidCurrency
	}

	amount := drop.FromByteString([]byte(arguments.Amount))
	if 0 == amount {
		return fault.InvalidAmount
	}

	holdDuration := time.Duration(0)
	if "" != arguments.HoldDuration {
		d, err := time.ParseDuration(arguments.HoldDuration)
		if nil != err {
			return fault.InvalidCancelAfter
		}
		holdDuration = d
	}

	result, err := approval.Initiate(
		ledger.Credential{Address: arguments.Sender, Secret: arguments.Secret},
		arguments.Recipient,
		amount,
		c,
		arguments.Contact,
		holdDuration,
		arguments.Memo,
	)
	if nil != err {
		return err
	}

	reply.Token = result.Token
	reply.HoldId = result.HoldId
	reply.ApproveLink = result.ApproveLink
	reply.RejectLink = result.RejectLink

	return nil
}

// DecideArguments - arguments for decide RPC request
type DecideArguments struct {
	Token    string `json:"token"`
	Decision string `json:"decision"` // approve or reject
}

// DecideReply - results from decide RPC
type DecideReply struct {
	Status           string     `json:"status"`
	TxHash           string     `json:"txHash,omitempty"`
	ExpectedReturnAt *time.Time `json:"expectedReturnAt,omitempty"`
}

// Decide - apply the one permitted decision to a token
func (e *Escrow) Decide(arguments *DecideArguments, reply *DecideReply) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	t, err := token.Parse(arguments.Token)
	if nil != err {
		return fault.InvalidToken
	}

	e.Log.Infof("Escrow.Decide: token: %s  decision: %s", t, arguments.Decision)

	var result *approval.DecisionResult
	switch arguments.Decision {
	case "approve":
		result, err = approval.DecideApprove(t)
	case "reject":
		result, err = approval.DecideReject(t)
	default:
		return fault.InvalidStructure
	}
	if nil != err {
		return err
	}

	reply.Status = result.Status.String()
	reply.TxHash = result.TxHash
	reply.ExpectedReturnAt = result.ExpectedReturnAt

	return nil
}

// StatusArguments - arguments for status RPC request
type StatusArguments struct {
	Token string `json:"token"`
}

// StatusReply - results from status RPC
type StatusReply struct {
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	TxHash    string     `json:"txHash,omitempty"`
}

// Status - query the state of a token
func (e *Escrow) Status(arguments *StatusArguments, reply *StatusReply) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	t, err := token.Parse(arguments.Token)
	if nil != err {
		return fault.InvalidToken
	}

	result, err := approval.Status(t)
	if nil != err {
		return err
	}

	reply.Status = result.Status.String()
	reply.CreatedAt = result.CreatedAt
	reply.DecidedAt = result.DecidedAt
	reply.TxHash = result.TxHash

	return nil
}

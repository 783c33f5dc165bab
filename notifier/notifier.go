// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notifier - delivery of decision requests to a recipient
//
// the transport (email, SMS) lives outside this process; only the
// token and the decision links are ever handed over, the fulfillment
// never leaves the server
package notifier

import (
	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/token"
)

// HoldSummary - human readable description of the hold under decision
type HoldSummary struct {
	Sender    string
	Recipient string
	Amount    uint64 // drops
	Memo      string
}

// Notifier - hand a decision request to the out-of-band transport
//
// delivery failure is reported but must not roll back the already
// persisted token
type Notifier interface {
	Send(contact string, t token.Token, approveLink string, rejectLink string, summary HoldSummary) bool
}

// logging only implementation, used until a real transport is wired
type logNotifier struct {
	log *logger.L
}

// New - create a notifier that records requests in the log
func New() Notifier {
	return &logNotifier{
		log: logger.New("notifier"),
	}
}

func (n *logNotifier) Send(contact string, t token.Token, approveLink string, rejectLink string, summary HoldSummary) bool {
	n.log.Infof("decision request: contact: %s  token: %s", contact, t)
	n.log.Infof("decision request: %d drops  %s -> %s", summary.Amount, summary.Sender, summary.Recipient)
	n.log.Debugf("approve: %s  reject: %s", approveLink, rejectLink)
	return true
}

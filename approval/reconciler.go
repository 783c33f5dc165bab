// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approval

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/store"
)

// reconciler - compares pending tokens against ledger truth
//
// it only observes and logs; resolving an Errored or drifted token is
// an operator action, automatic resubmission is deliberately absent
type reconciler struct {
	log      *logger.L
	client   ledger.Ledger
	interval time.Duration
}

func (r *reconciler) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Info("starting…")

	ticker := time.NewTicker(r.interval)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			r.reconcile()
		}
	}
	ticker.Stop()
	r.log.Info("stopped")
}

func (r *reconciler) reconcile() {
	records, err := store.PendingRecords()
	if nil != err {
		r.log.Errorf("pending scan error: %s", err)
		return
	}
	if 0 == len(records) {
		return
	}

	r.log.Infof("reconcile: %d pending token(s)", len(records))

	// one ledger query per distinct sender
	bySender := make(map[string][]store.Record)
	for _, record := range records {
		bySender[record.Sender] = append(bySender[record.Sender], record)
	}

	for sender, senderRecords := range bySender {
		holds, err := r.client.QueryHolds(sender)
		if nil != err {
			r.log.Warnf("query holds error: account: %s  error: %s", sender, err)
			continue
		}

		byId := make(map[ledger.HoldId]ledger.HoldInfo, len(holds))
		for _, hold := range holds {
			byId[hold.HoldId] = hold
		}

		for _, record := range senderRecords {
			hold, found := byId[record.HoldId]
			if !found {
				r.log.Warnf("pending token %s references hold %d not in ledger history", record.Token, record.HoldId)
				continue
			}
			switch hold.Status {
			case ledger.HoldCreated:
				// consistent, nothing to do
			case ledger.HoldFinished:
				r.log.Warnf("hold %d finished on ledger but token %s still pending", record.HoldId, record.Token)
			case ledger.HoldCancelled:
				r.log.Warnf("hold %d cancelled on ledger but token %s still pending", record.HoldId, record.Token)
			case ledger.HoldExpired:
				r.log.Infof("hold %d expired, funds return to %s, token %s awaits decision", record.HoldId, sender, record.Token)
			}
		}
	}
}

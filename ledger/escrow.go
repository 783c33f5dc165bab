// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/escrow-inc/escrowd/currency/ripple"
	"github.com/escrow-inc/escrowd/fault"
)

// the ledger epoch is 2000-01-01 00:00 UTC, this many seconds after
// the Unix epoch; forgetting this offset shifts every expiry by almost
// thirty years so it is applied in exactly one place
const ledgerEpochOffset = 946684800

// convert a civil time to ledger seconds
func toLedgerEpoch(t time.Time) uint64 {
	return uint64(t.Unix() - ledgerEpochOffset)
}

// convert ledger seconds to a civil time
func fromLedgerEpoch(t uint64) time.Time {
	return time.Unix(int64(t)+ledgerEpochOffset, 0).UTC()
}

// result of a sign-and-submit
type submitReply struct {
	EngineResult        string `json:"engine_result"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash     string `json:"hash"`
		Sequence uint32 `json:"Sequence"`
	} `json:"tx_json"`
}

// map an engine result to an error
//
// the distinguishable results matter: an already finalised hold and a
// failed fulfillment check are not plain rejections
func engineError(result string, message string) error {
	switch result {
	case "tesSUCCESS":
		return nil
	case "tecNO_TARGET":
		return fault.AlreadyFinalised
	case "tecCRYPTOCONDITION_ERROR":
		return fault.InvalidFulfillment
	default:
		if "" == message {
			return fault.ProcessError("transaction rejected: " + result)
		}
		return fault.ProcessError("transaction rejected: " + result + ": " + message)
	}
}

func checkCredential(credential Credential) error {
	if "" == credential.Secret {
		return fault.InvalidSenderCredential
	}
	return ripple.ValidateAddress(credential.Address)
}

// CreateHold - lock funds on the ledger
//
// all parameters are validated before any network traffic so a failed
// call leaves nothing behind anywhere
func (c *client) CreateHold(credential Credential, recipient string, amountDrops uint64, hold Hold, cancelAfter time.Duration, memo string) (*CreateResult, error) {

	if err := checkCredential(credential); nil != err {
		return nil, err
	}
	if err := ripple.ValidateAddress(recipient); nil != err {
		return nil, err
	}
	if 0 == amountDrops {
		return nil, fault.InvalidAmount
	}
	if cancelAfter <= 0 {
		return nil, fault.InvalidCancelAfter
	}
	if nil == hold {
		return nil, fault.MissingParameters
	}

	cancelAt := time.Now().Add(cancelAfter)

	tx := map[string]interface{}{
		"TransactionType": "EscrowCreate",
		"Account":         credential.Address,
		"Destination":     recipient,
		"Amount":          strconv.FormatUint(amountDrops, 10),
		"CancelAfter":     toLedgerEpoch(cancelAt),
	}
	hold.createFields(tx)

	if "" != memo {
		tx["Memos"] = []map[string]interface{}{
			{
				"Memo": map[string]interface{}{
					"MemoData": strings.ToUpper(hex.EncodeToString([]byte(memo))),
				},
			},
		}
	}

	c.Lock()
	defer c.Unlock()

	c.log.Infof("create %s hold: %d drops -> %s", hold.Type(), amountDrops, recipient)

	var reply submitReply
	err := c.call("submit", map[string]interface{}{
		"secret":    credential.Secret,
		"tx_json":   tx,
		"fail_hard": true,
	}, &reply)
	if nil != err {
		return nil, err
	}

	if err := engineError(reply.EngineResult, reply.EngineResultMessage); nil != err {
		c.log.Warnf("create hold rejected: %s", err)
		return nil, err
	}

	c.log.Infof("hold created: sequence: %d  tx: %s", reply.TxJSON.Sequence, reply.TxJSON.Hash)

	return &CreateResult{
		HoldId:    HoldId(reply.TxJSON.Sequence),
		TxHash:    reply.TxJSON.Hash,
		Sender:    credential.Address,
		Recipient: recipient,
		ExpiresAt: cancelAt.UTC(),
	}, nil
}

// FinishHold - release a hold to its recipient
//
// the hold variant supplies and locally pre-validates its own release
// fields; the ledger independently re-validates
func (c *client) FinishHold(credential Credential, holdId HoldId, hold Hold) (*FinishResult, error) {

	if err := checkCredential(credential); nil != err {
		return nil, err
	}
	if nil == hold {
		return nil, fault.MissingParameters
	}

	tx := map[string]interface{}{
		"TransactionType": "EscrowFinish",
		"Account":         credential.Address,
		"Owner":           credential.Address,
		"OfferSequence":   uint32(holdId),
	}
	if err := hold.finishFields(tx); nil != err {
		return nil, err
	}

	c.Lock()
	defer c.Unlock()

	c.log.Infof("finish hold: %d", holdId)

	var reply submitReply
	err := c.call("submit", map[string]interface{}{
		"secret":    credential.Secret,
		"tx_json":   tx,
		"fail_hard": true,
	}, &reply)
	if nil != err {
		return nil, err
	}

	if err := engineError(reply.EngineResult, reply.EngineResultMessage); nil != err {
		c.log.Warnf("finish hold %d rejected: %s", holdId, err)
		return nil, err
	}

	c.log.Infof("hold finished: %d  tx: %s", holdId, reply.TxJSON.Hash)

	return &FinishResult{TxHash: reply.TxJSON.Hash}, nil
}

// CancelHold - return a hold to its sender
//
// only valid once the hold's cancel-after time has elapsed; a
// premature call is rejected by the ledger, not by this client
func (c *client) CancelHold(credential Credential, holdId HoldId) (*FinishResult, error) {

	if err := checkCredential(credential); nil != err {
		return nil, err
	}

	tx := map[string]interface{}{
		"TransactionType": "EscrowCancel",
		"Account":         credential.Address,
		"Owner":           credential.Address,
		"OfferSequence":   uint32(holdId),
	}

	c.Lock()
	defer c.Unlock()

	c.log.Infof("cancel hold: %d", holdId)

	var reply submitReply
	err := c.call("submit", map[string]interface{}{
		"secret":    credential.Secret,
		"tx_json":   tx,
		"fail_hard": true,
	}, &reply)
	if nil != err {
		return nil, err
	}

	if err := engineError(reply.EngineResult, reply.EngineResultMessage); nil != err {
		c.log.Warnf("cancel hold %d rejected: %s", holdId, err)
		return nil, err
	}

	c.log.Infof("hold cancelled: %d  tx: %s", holdId, reply.TxJSON.Hash)

	return &FinishResult{TxHash: reply.TxJSON.Hash}, nil
}

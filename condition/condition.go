// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package condition - PREIMAGE-SHA-256 crypto-conditions
//
// A condition commits to the SHA-256 digest of a 32 byte random
// preimage, the fulfillment reveals the preimage.  Both are fixed-tag
// DER encodings rendered as upper case hex, the encoding the ledger
// expects on conditional holds.
package condition

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fixed DER tags for PREIMAGE-SHA-256
const (
	conditionPrefix   = "A0258020"
	conditionSuffix   = "810120"
	fulfillmentPrefix = "A0228020"

	preimageLength = 32 // bytes

	conditionLength   = len(conditionPrefix) + 2*preimageLength + len(conditionSuffix)
	fulfillmentLength = len(fulfillmentPrefix) + 2*preimageLength
)

// Condition - hash commitment half of a crypto-condition
type Condition string

// Fulfillment - preimage half of a crypto-condition
//
// this is the release secret and must never leave the server boundary
type Fulfillment string

// Generate - create a fresh condition and its fulfillment
//
// the preimage is drawn from the CSPRNG, an error here means the
// system random source failed and nothing can proceed
func Generate() (Condition, Fulfillment, error) {

	preimage := make([]byte, preimageLength)
	if _, err := rand.Read(preimage); nil != err {
		return "", "", err
	}

	digest := sha256.Sum256(preimage)

	condition := conditionPrefix + strings.ToUpper(hex.EncodeToString(digest[:])) + conditionSuffix
	fulfillment := fulfillmentPrefix + strings.ToUpper(hex.EncodeToString(preimage))

	return Condition(condition), Fulfillment(fulfillment), nil
}

// Validate - check that a fulfillment satisfies a condition
//
// malformed or truncated input simply returns false, this routine
// never panics on external data
func Validate(condition Condition, fulfillment Fulfillment) bool {

	c := string(condition)
	f := string(fulfillment)

	if len(c) != conditionLength || len(f) != fulfillmentLength {
		return false
	}

	if !strings.HasPrefix(c, conditionPrefix) || !strings.HasSuffix(c, conditionSuffix) {
		return false
	}

	if !strings.HasPrefix(f, fulfillmentPrefix) {
		return false
	}

	expected, err := hex.DecodeString(c[len(conditionPrefix) : len(conditionPrefix)+2*preimageLength])
	if nil != err {
		return false
	}

	preimage, err := hex.DecodeString(f[len(fulfillmentPrefix):])
	if nil != err {
		return false
	}

	digest := sha256.Sum256(preimage)

	return bytes.Equal(digest[:], expected)
}

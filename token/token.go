// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - single-use verification token
//
// The token authorises exactly one approve/reject decision on exactly
// one hold.  It is derived from the hold identity, a timestamp and a
// random nonce so it cannot be enumerated or guessed.
package token

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/escrow-inc/escrowd/fault"
)

// Token - type to represent a verification token
// Note: no reversal is required for this
type Token [32]byte

// New - create a token for a hold
//
// a fresh random nonce is mixed in on every call so repeated creation
// for the same hold never yields the same token
func New(holdId uint32, senderAddress string, timestamp uint64) (Token, error) {

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); nil != err {
		return Token{}, err
	}

	buffer := make([]byte, 12, 12+len(senderAddress)+len(nonce))
	binary.BigEndian.PutUint32(buffer[0:4], holdId)
	binary.BigEndian.PutUint64(buffer[4:12], timestamp)
	buffer = append(buffer, senderAddress...)
	buffer = append(buffer, nonce...)

	return Token(sha3.Sum256(buffer)), nil
}

// String - convert a binary token to hex string for use by the fmt package (for %s)
func (token Token) String() string {
	return hex.EncodeToString(token[:])
}

// GoString - convert a binary token to hex string for use by the fmt package (for %#v)
func (token Token) GoString() string {
	return "<token:" + hex.EncodeToString(token[:]) + ">"
}

// MarshalText - convert token to hex text
func (token Token) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(token))
	buffer := make([]byte, size)
	hex.Encode(buffer, token[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a token
func (token *Token) UnmarshalText(s []byte) error {
	if len(*token) != hex.DecodedLen(len(s)) {
		return fault.InvalidToken
	}
	byteCount, err := hex.Decode(token[:], s)
	if nil != err {
		return fault.InvalidToken
	}
	if len(token) != byteCount {
		return fault.InvalidToken
	}
	return nil
}

// Parse - convert a hex string into a token
func Parse(s string) (Token, error) {
	var token Token
	err := token.UnmarshalText([]byte(s))
	return token, err
}

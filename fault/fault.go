// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// ExistsError - to differentiate an already existing item
type ExistsError GenericError

// InvalidError - to differentiate validation failures
type InvalidError GenericError

// NotFoundError - to differentiate missing items
type NotFoundError GenericError

// ProcessError - to differentiate processing failures
type ProcessError GenericError

// RetryableError - transient failures that are safe to retry from scratch
type RetryableError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyFinalised             = ExistsError("hold already finalised")
	AlreadyInitialised           = ExistsError("already initialised")
	AlreadyProcessed             = ExistsError("token already processed")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	InvalidAmount                = InvalidError("amount is invalid")
	InvalidCancelAfter           = InvalidError("cancel after duration is invalid")
	InvalidCondition             = InvalidError("condition is invalid")
	InvalidCount                 = InvalidError("count is invalid")
	InvalidCurrency              = InvalidError("currency is invalid")
	InvalidFulfillment           = InvalidError("fulfillment does not satisfy condition")
	InvalidIpAddress             = InvalidError("invalid ip address")
	InvalidLedgerAddress         = InvalidError("ledger address is invalid")
	InvalidLoggerChannel         = InvalidError("invalid logger channel")
	InvalidRecipientContact      = InvalidError("recipient contact is invalid")
	InvalidSenderCredential      = InvalidError("sender credential is invalid")
	InvalidStructure             = InvalidError("invalid structure")
	InvalidToken                 = InvalidError("token is invalid")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	MissingParameters            = InvalidError("missing parameters")
	NetworkUnavailable           = RetryableError("ledger network is unavailable")
	NotInitialised               = ProcessError("not initialised")
	RateLimiting                 = ProcessError("rate limiting active")
	SubmissionTimeout            = RetryableError("ledger submission timed out")
	TokenAlreadyExists           = ExistsError("token already exists")
	TokenNotFound                = NotFoundError("token not found")
	TransactionRejected          = ProcessError("ledger transaction rejected")
	WrongDatabaseVersion         = ProcessError("wrong database version")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RetryableError) Error() string { return string(e) }

// IsErrExists - determine if an already exists class of error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine if a validation class of error
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrNotFound - determine if a missing item class of error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine if a processing class of error
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRetryable - determine if the operation may be safely retried
func IsErrRetryable(e error) bool { _, ok := e.(RetryableError); return ok }

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"github.com/escrow-inc/escrowd/fault"
)

// Status - decision state of a token
type Status int

// possible token statuses
//
// Pending is the only non-terminal status
const (
	Pending Status = iota
	Approved
	Rejected
	Errored
)

// IsTerminal - true for any status a token cannot leave
func (status Status) IsTerminal() bool {
	return Pending != status
}

// String - status as text
func (status Status) String() string {
	switch status {
	case Pending:
		return "Pending"
	case Approved:
		return "Approved"
	case Rejected:
		return "Rejected"
	case Errored:
		return "Errored"
	default:
		return "*unknown*"
	}
}

// MarshalText - status to JSON text
func (status Status) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// UnmarshalText - status from JSON text
func (status *Status) UnmarshalText(s []byte) error {
	switch string(s) {
	case "Pending":
		*status = Pending
	case "Approved":
		*status = Approved
	case "Rejected":
		*status = Rejected
	case "Errored":
		*status = Errored
	default:
		return fault.InvalidStructure
	}
	return nil
}

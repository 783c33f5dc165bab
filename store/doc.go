// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package store - durable repository of decision tokens
//
// each token record carries the hold it authorises a decision on, the
// secret fulfillment and the current status.  records are append by
// Put and amended only by UpdateStatus, which permits exactly one
// transition out of Pending; records are never deleted here, any
// retention policy runs outside this process.
//
// the database may be shared between coordinator processes, so every
// mutation re-reads the record from disk under the store lock before
// deciding anything.  a small read cache sits in front of Get only.
package store

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/counter"
	"github.com/escrow-inc/escrowd/rpc/ratelimit"
	"github.com/escrow-inc/escrowd/store"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - an RPC entry for node related functions
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	Count   *counter.Counter
}

// New - create the node service
func New(log *logger.L, start time.Time, version string, count *counter.Counter) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		Count:   count,
	}
}

// InfoArguments - empty arguments for info RPC request
type InfoArguments struct{}

// InfoReply - results from info RPC
type InfoReply struct {
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	Connections   uint64 `json:"connections"`
	PendingTokens int    `json:"pendingTokens"`
}

// Info - process status
func (n *Node) Info(arguments *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(n.Limiter); nil != err {
		return err
	}

	pending, err := store.PendingRecords()
	if nil != err {
		return err
	}

	reply.Version = n.Version
	reply.Uptime = time.Since(n.Start).String()
	reply.Connections = n.Count.Uint64()
	reply.PendingTokens = len(pending)

	return nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/counter"
	"github.com/escrow-inc/escrowd/rpc/escrow"
	"github.com/escrow-inc/escrowd/rpc/node"
)

// Create - make a new rpc server with all services registered
func Create(log *logger.L, version string, rpcCount *counter.Counter) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(escrow.New(log))
	_ = server.Register(node.New(log, start, version, rpcCount))

	return server
}

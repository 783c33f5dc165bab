// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"

	"github.com/escrow-inc/escrowd/fault"
)

// for encoding the RPC arguments
type rpcArguments struct {
	Id     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// outer envelope of an RPC reply
type rpcReply struct {
	Result json.RawMessage `json:"result"`
}

// fields common to every result
type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// high level call - only use while holding the client lock
// because the HTTP RPC cannot interleave calls and responses
func (c *client) call(method string, params interface{}, reply interface{}) error {

	c.id += 1

	arguments := rpcArguments{
		Id:     c.id,
		Method: method,
		Params: []interface{}{params},
	}

	s, err := json.Marshal(arguments)
	if nil != err {
		return err
	}

	c.log.Tracef("rpc send: %s", s)

	request, err := http.NewRequest("POST", c.url, bytes.NewBuffer(s))
	if nil != err {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.connection.Do(request)
	if nil != err {
		c.log.Tracef("rpc transport error: %s", err)
		return transportError(err)
	}
	defer response.Body.Close()

	body, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return transportError(err)
	}

	c.log.Tracef("rpc receive: %s", body)

	var envelope rpcReply
	if err = json.Unmarshal(body, &envelope); nil != err {
		return err
	}
	if nil == envelope.Result {
		return fault.ProcessError("ledger RPC error: empty result")
	}

	var status rpcStatus
	if err = json.Unmarshal(envelope.Result, &status); nil != err {
		return err
	}
	if "error" == status.Status {
		m := status.Error
		if "" != status.ErrorMessage {
			m = status.ErrorMessage
		}
		c.log.Debugf("rpc returned error: %s", m)
		return fault.ProcessError("ledger RPC error: " + m)
	}

	return json.Unmarshal(envelope.Result, reply)
}

// map a transport failure to the retryable error classes
func transportError(err error) error {
	switch e := err.(type) {
	case *url.Error:
		if e.Timeout() {
			return fault.SubmissionTimeout
		}
		return fault.NetworkUnavailable
	case net.Error:
		if e.Timeout() {
			return fault.SubmissionTimeout
		}
		return fault.NetworkUnavailable
	default:
		return fault.NetworkUnavailable
	}
}

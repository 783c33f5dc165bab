// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/fault"
)

// Configuration - ledger node access
type Configuration struct {
	URL            string `gluamapper:"url" json:"url"`
	RequestTimeout string `gluamapper:"request_timeout" json:"request_timeout"`
	CACertificate  string `gluamapper:"ca_certificate" json:"ca_certificate"`
}

const (
	defaultRequestTimeout = 30 * time.Second // ledger confirmation can take several seconds
	logCategory           = "ledger"
)

type client struct {
	sync.Mutex // the HTTP RPC cannot interleave calls and responses

	log        *logger.L
	connection *http.Client
	url        string
	id         uint64
}

// New - create a client for a ledger node
//
// the configuration is validated here, not at first use
func New(configuration *Configuration) (Ledger, error) {

	if nil == configuration || "" == configuration.URL {
		return nil, fault.MissingParameters
	}

	log := logger.New(logCategory)
	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}

	timeout := defaultRequestTimeout
	if "" != configuration.RequestTimeout {
		d, err := time.ParseDuration(configuration.RequestTimeout)
		if nil != err {
			return nil, err
		}
		timeout = d
	}

	connection := &http.Client{
		Timeout: timeout,
	}

	if "" != configuration.CACertificate {
		pool := x509.NewCertPool()
		data, err := ioutil.ReadFile(configuration.CACertificate)
		if nil != err {
			log.Criticalf("failed to read certificate from: %q", configuration.CACertificate)
			return nil, err
		}
		if !pool.AppendCertsFromPEM(data) {
			log.Criticalf("failed to parse certificate from: %q", configuration.CACertificate)
			return nil, fault.InvalidStructure
		}
		connection.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs: pool,
			},
		}
	}

	log.Infof("ledger node: %s", configuration.URL)

	return &client{
		log:        log,
		connection: connection,
		url:        configuration.URL,
		id:         0,
	}, nil
}

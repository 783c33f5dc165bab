// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/util"
)

// create a self-signed certificate and private key for the RPC
// listeners, extraHosts allows additional IP addresses or host names
// to be included in the certificate
func makeSelfSignedCertificate(name string, extraHosts []string) error {

	certificateFileName := name + ".crt"
	privateKeyFileName := name + ".key"

	if util.EnsureFileExists(certificateFileName) {
		return fault.CertificateFileAlreadyExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	org := "escrowd self signed cert for: " + name
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, true, extraHosts)
	if nil != err {
		return err
	}

	if err = ioutil.WriteFile(certificateFileName, cert, 0666); nil != err {
		return err
	}

	if err = ioutil.WriteFile(privateKeyFileName, key, 0600); nil != err {
		return err
	}

	return nil
}

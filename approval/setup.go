// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package approval

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/background"
	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/ledger"
	"github.com/escrow-inc/escrowd/notifier"
	"github.com/escrow-inc/escrowd/token"
)

// Configuration - coordinator policy
type Configuration struct {
	LinkPrefix        string `gluamapper:"link_prefix" json:"link_prefix"`
	HoldDuration      string `gluamapper:"hold_duration" json:"hold_duration"`
	ReconcileInterval string `gluamapper:"reconcile_interval" json:"reconcile_interval"`
}

const (
	defaultHoldDuration      = 24 * time.Hour
	defaultReconcileInterval = 10 * time.Minute

	decisionLockCount = 16 // power of two
)

// globals
type globalDataType struct {
	sync.RWMutex
	log *logger.L

	client ledger.Ledger
	notify notifier.Notifier

	linkPrefix        string
	holdDuration      time.Duration
	reconcileInterval time.Duration

	// serialises decisions on one token
	decisionLocks [decisionLockCount]sync.Mutex

	rec        reconciler
	background *background.T

	initialised bool
}

// global storage
var globalData globalDataType

// Initialise - start the coordinator
//
// the token store must already be initialised
func Initialise(configuration *Configuration, client ledger.Ledger, notify notifier.Notifier) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}
	if nil == configuration || nil == client || nil == notify {
		return fault.MissingParameters
	}

	globalData.log = logger.New("approval")
	globalData.log.Info("starting…")

	globalData.client = client
	globalData.notify = notify
	globalData.linkPrefix = configuration.LinkPrefix

	holdDuration := defaultHoldDuration
	if "" != configuration.HoldDuration {
		d, err := time.ParseDuration(configuration.HoldDuration)
		if nil != err {
			return err
		}
		if d <= 0 {
			return fault.InvalidCancelAfter
		}
		holdDuration = d
	}
	globalData.holdDuration = holdDuration

	reconcileInterval := defaultReconcileInterval
	if "" != configuration.ReconcileInterval {
		d, err := time.ParseDuration(configuration.ReconcileInterval)
		if nil != err {
			return err
		}
		reconcileInterval = d
	}
	globalData.reconcileInterval = reconcileInterval

	globalData.rec.log = logger.New("reconciler")
	globalData.rec.client = client
	globalData.rec.interval = reconcileInterval

	globalData.initialised = true

	// start background processes
	globalData.log.Info("start background…")

	processes := background.Processes{
		&globalData.rec,
	}

	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop the coordinator
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")

	globalData.background.Stop()

	globalData.client = nil
	globalData.notify = nil

	globalData.initialised = false

	globalData.log.Flush()

	return nil
}

// the lock guarding all decisions on a token
func decisionLock(t token.Token) *sync.Mutex {
	return &globalData.decisionLocks[t[0]&(decisionLockCount-1)]
}

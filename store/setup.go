// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"encoding/binary"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/escrow-inc/escrowd/fault"
)

// token records are prefixed, leaving room for other record kinds in
// the same database
const tokenPrefix = 'T'

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

const (
	readCacheTimeout    = 1 * time.Minute
	readCacheExpiration = 2 * time.Minute
)

// globals for background process
type storeData struct {
	sync.RWMutex // to allow locking

	log *logger.L

	db        *leveldb.DB
	readCache *gocache.Cache

	// set once during initialise
	initialised bool
}

// global data
var globalData storeData

// Initialise - open the token database
//
// this must be called before any store operation
func Initialise(database string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("store")
	globalData.log.Info("starting…")

	db, err := leveldb.OpenFile(database, &ldb_opt.Options{})
	if nil != err {
		return err
	}

	// ensure no database downgrade
	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return err
	}
	switch {
	case version > currentDBVersion:
		globalData.log.Criticalf("token database version: %d > current version: %d", version, currentDBVersion)
		db.Close()
		return fault.WrongDatabaseVersion
	case 0 == version:
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return err
		}
	}

	globalData.db = db
	globalData.readCache = gocache.New(readCacheTimeout, readCacheExpiration)

	globalData.initialised = true

	return nil
}

// Finalise - close the token database
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")

	globalData.db.Close()
	globalData.db = nil
	globalData.readCache = nil

	globalData.initialised = false

	globalData.log.Flush()

	return nil
}

func getVersion(db *leveldb.DB) (uint32, error) {
	value, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	}
	if nil != err {
		return 0, err
	}
	if 4 != len(value) {
		return 0, fault.WrongDatabaseVersion
	}
	return binary.BigEndian.Uint32(value), nil
}

func putVersion(db *leveldb.DB, version uint32) error {
	value := make([]byte, 4)
	binary.BigEndian.PutUint32(value, version)
	return db.Put(versionKey, value, nil)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Escrow Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/escrow-inc/escrowd/fault"
	"github.com/escrow-inc/escrowd/token"
)

// Extra - terminal fields applied by UpdateStatus
type Extra struct {
	TxHash string
	Reason string
}

// prepend the prefix onto a token key
func tokenKey(t token.Token) []byte {
	key := make([]byte, 1, len(t)+1)
	key[0] = tokenPrefix
	return append(key, t[:]...)
}

// Put - persist a freshly created token record
//
// tokens are unique so an existing record under the same key is an
// error, not an overwrite
func Put(record *Record) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	key := tokenKey(record.Token)

	_, err := globalData.db.Get(key, nil)
	if nil == err {
		return fault.TokenAlreadyExists
	}
	if leveldb.ErrNotFound != err {
		return err
	}

	data, err := packRecord(record)
	if nil != err {
		return err
	}
	if err := globalData.db.Put(key, data, nil); nil != err {
		return err
	}

	globalData.readCache.Set(record.Token.String(), data, readCacheExpiration)

	globalData.log.Infof("put: token: %s  hold: %d", record.Token, record.HoldId)

	return nil
}

// Get - fetch a token record
//
// reads may be served from the cache; callers that are about to
// mutate must use UpdateStatus which always re-reads the database
func Get(t token.Token) (*Record, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	if cached, found := globalData.readCache.Get(t.String()); found {
		return unpackRecord(cached.([]byte))
	}

	data, err := globalData.db.Get(tokenKey(t), nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.TokenNotFound
	}
	if nil != err {
		return nil, err
	}

	globalData.readCache.Set(t.String(), data, readCacheExpiration)

	return unpackRecord(data)
}

// Reload - fetch a token record directly from the database
//
// decision paths use this instead of Get so a transition persisted by
// another process sharing the database is never masked by the cache
func Reload(t token.Token) (*Record, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	data, err := globalData.db.Get(tokenKey(t), nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.TokenNotFound
	}
	if nil != err {
		return nil, err
	}

	globalData.readCache.Set(t.String(), data, readCacheExpiration)

	return unpackRecord(data)
}

// UpdateStatus - apply the one permitted transition out of Pending
//
// the record is re-read from the database under the store lock, so a
// concurrent or earlier decision from any process sharing the
// database is observed and reported as fault.AlreadyProcessed
func UpdateStatus(t token.Token, status Status, extra Extra) (*Record, error) {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}
	if !status.IsTerminal() {
		return nil, fault.InvalidStructure
	}

	key := tokenKey(t)

	// reload, never trust the cache for a decision
	data, err := globalData.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.TokenNotFound
	}
	if nil != err {
		return nil, err
	}
	record, err := unpackRecord(data)
	if nil != err {
		return nil, err
	}

	if record.Status.IsTerminal() {
		return nil, fault.AlreadyProcessed
	}

	now := time.Now().UTC()
	record.Status = status
	record.TxHash = extra.TxHash
	record.Reason = extra.Reason
	record.DecidedAt = &now

	data, err = packRecord(record)
	if nil != err {
		return nil, err
	}
	if err := globalData.db.Put(key, data, nil); nil != err {
		return nil, err
	}

	globalData.readCache.Set(t.String(), data, readCacheExpiration)

	globalData.log.Infof("update: token: %s  status: %s", t, status)

	return record, nil
}

// PendingRecords - all records still awaiting a decision
//
// used by reconciliation to compare local state with ledger truth
func PendingRecords() ([]Record, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.NotInitialised
	}

	records := []Record{}

	iterator := globalData.db.NewIterator(ldb_util.BytesPrefix([]byte{tokenPrefix}), nil)
	defer iterator.Release()
	for iterator.Next() {
		record, err := unpackRecord(iterator.Value())
		if nil != err {
			return nil, err
		}
		if Pending == record.Status {
			records = append(records, *record)
		}
	}

	return records, iterator.Error()
}

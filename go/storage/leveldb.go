// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package storage provides the key-value backends the ledger persists
// declared classes in.
package storage

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDB is a rollup.Storage backed by a LevelDB instance, either held in
// memory or stored in a directory.
type LevelDB struct {
	db   *leveldb.DB
	path string
}

var _ rollup.Storage = (*LevelDB)(nil)

// NewMemory creates an empty in-memory backend.
func NewMemory() (*LevelDB, error) {
	db, err := leveldb.Open(lvlstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Open opens or creates a backend in the given directory.
func Open(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		BlockCacheCapacity: 16 * opt.MiB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &LevelDB{db: db, path: path}, nil
}

// Path is the directory of the backend, empty for in-memory instances.
func (l *LevelDB) Path() string {
	return l.path
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

// PutAll writes the entries in a single batch, so either all or none of
// them are stored.
func (l *LevelDB) PutAll(entries []rollup.Entry) error {
	batch := new(leveldb.Batch)
	for _, entry := range entries {
		batch.Put(entry.Key, entry.Value)
	}
	return l.db.Write(batch, nil)
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) ForEach(visit func(key, value []byte) error) error {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if err := visit(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Copy creates an in-memory backend with the same content. Copies of
// on-disk backends are held in memory as well.
func (l *LevelDB) Copy() (rollup.Storage, error) {
	res, err := NewMemory()
	if err != nil {
		return nil, err
	}
	batch := new(leveldb.Batch)
	err = l.ForEach(func(key, value []byte) error {
		batch.Put(key, value)
		return nil
	})
	if err == nil {
		err = res.db.Write(batch, nil)
	}
	if err != nil {
		return nil, errors.Join(err, res.Close())
	}
	return res, nil
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

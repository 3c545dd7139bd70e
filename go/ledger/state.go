// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"fmt"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
	lru "github.com/hashicorp/golang-lru/v2"
)

// classCacheSize is the number of decoded classes kept in memory per state.
const classCacheSize = 256

var classKeyPrefix = []byte("class/")

// State is the canonical ledger of a sandbox. It only changes through
// commits of snapshots opened on it with BeginScope or Apply, so observed
// outside a scope it reflects exactly the committed transactions.
//
// Contract storage, deployments and nonces are held in memory. Declared
// classes are written to the storage backend on commit.
type State struct {
	committed  *changeSet
	backend    rollup.Storage
	classCache *lru.Cache[rollup.ClassHash, *rollup.ContractClass]
	blockInfo  rollup.BlockInfo
	version    uint64
	child      *Snapshot
}

var _ Scope = (*State)(nil)

// NewState creates an empty ledger on top of the given backend.
func NewState(backend rollup.Storage, blockInfo rollup.BlockInfo) *State {
	return &State{
		committed:  newChangeSet(),
		backend:    backend,
		classCache: newClassCache(),
		blockInfo:  blockInfo,
	}
}

func newClassCache() *lru.Cache[rollup.ClassHash, *rollup.ContractClass] {
	cache, err := lru.New[rollup.ClassHash, *rollup.ContractClass](classCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// Version is the number of commits applied to the state.
func (s *State) Version() uint64 {
	return s.version
}

func (s *State) BlockInfo() rollup.BlockInfo {
	return s.blockInfo
}

// SetBlockInfo replaces the block information. It fails while a scope is
// open on the state.
func (s *State) SetBlockInfo(info rollup.BlockInfo) error {
	if s.child != nil {
		return ErrScopeBusy
	}
	s.blockInfo = info
	return nil
}

func (s *State) GetStorage(address rollup.Address, key rollup.Key) rollup.Felt {
	return s.committed.storage[slot{address, key}]
}

func (s *State) GetClassHashAt(address rollup.Address) rollup.ClassHash {
	return s.committed.classHashes[address]
}

func (s *State) GetNonce(address rollup.Address) rollup.Felt {
	return s.committed.nonces[address]
}

func (s *State) GetContractClass(hash rollup.ClassHash) (*rollup.ContractClass, error) {
	if class, found := s.classCache.Get(hash); found {
		return class, nil
	}
	data, err := s.backend.Get(classKey(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to read class %v: %w", hash, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %v", rollup.ErrClassNotDeclared, hash)
	}
	class, err := rollup.DecodeContractClass(data)
	if err != nil {
		return nil, err
	}
	s.classCache.Add(hash, class)
	return class, nil
}

// IsDeclared reports whether a class with the given hash is stored in the
// backend.
func (s *State) IsDeclared(hash rollup.ClassHash) (bool, error) {
	if s.classCache.Contains(hash) {
		return true, nil
	}
	return s.backend.Has(classKey(hash))
}

func (s *State) attach(child *Snapshot) error {
	if s.child != nil {
		return ErrScopeBusy
	}
	s.child = child
	return nil
}

func (s *State) detach(child *Snapshot) {
	if s.child == child {
		s.child = nil
	}
}

func (s *State) merge(changes *changeSet) error {
	if len(changes.classes) > 0 {
		entries := make([]rollup.Entry, 0, len(changes.classes))
		for hash, class := range changes.classes {
			data, err := class.Encode()
			if err != nil {
				return err
			}
			entries = append(entries, rollup.Entry{Key: classKey(hash), Value: data})
		}
		if err := s.backend.PutAll(entries); err != nil {
			return fmt.Errorf("failed to persist %d classes: %w", len(entries), err)
		}
		for hash, class := range changes.classes {
			s.classCache.Add(hash, class)
		}
	}
	changes.mergeInto(&changeSet{
		storage:     s.committed.storage,
		classHashes: s.committed.classHashes,
		nonces:      s.committed.nonces,
		classes:     map[rollup.ClassHash]*rollup.ContractClass{},
	})
	s.version++
	return nil
}

// Clone creates a deep copy of the state, including a copy of the storage
// backend. Modifications of the copy are not visible in s and vice versa.
func (s *State) Clone() (*State, error) {
	backend, err := s.backend.Copy()
	if err != nil {
		return nil, fmt.Errorf("failed to copy storage backend: %w", err)
	}
	committed := s.committed.clone()
	return &State{
		committed:  committed,
		backend:    backend,
		classCache: newClassCache(),
		blockInfo:  s.blockInfo,
		version:    s.version,
	}, nil
}

// Close releases the storage backend.
func (s *State) Close() error {
	return s.backend.Close()
}

// Backend provides access to the storage backend of the state.
func (s *State) Backend() rollup.Storage {
	return s.backend
}

func classKey(hash rollup.ClassHash) []byte {
	res := make([]byte, 0, len(classKeyPrefix)+len(hash))
	res = append(res, classKeyPrefix...)
	return append(res, hash[:]...)
}

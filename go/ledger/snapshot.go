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
)

const (
	// ErrScopeReleased is reported when modifying a snapshot that was
	// already committed or discarded.
	ErrScopeReleased = rollup.ConstError("scope already released")

	// ErrScopeBusy is reported when modifying or committing a scope while a
	// child scope is open on it.
	ErrScopeBusy = rollup.ConstError("scope has an open child scope")

	// ErrQueryScopeCommit is reported when committing a scope created by
	// ForkForQuery.
	ErrQueryScopeCommit = rollup.ConstError("query scopes cannot be committed")
)

// Scope is a ledger view that child snapshots can be opened on. It is
// implemented by the canonical *State and by *Snapshot.
type Scope interface {
	BlockInfo() rollup.BlockInfo
	GetStorage(rollup.Address, rollup.Key) rollup.Felt
	GetClassHashAt(rollup.Address) rollup.ClassHash
	GetNonce(rollup.Address) rollup.Felt
	GetContractClass(rollup.ClassHash) (*rollup.ContractClass, error)

	attach(*Snapshot) error
	detach(*Snapshot)
	merge(*changeSet) error
}

// Snapshot buffers modifications on top of a parent scope. Reads fall
// through to the parent for everything not written in the snapshot. Each
// snapshot is released exactly once, by Commit or by Discard.
type Snapshot struct {
	parent   Scope
	changes  *changeSet
	child    *Snapshot
	released bool
	query    bool
}

var _ rollup.NestedState = (*Snapshot)(nil)
var _ Scope = (*Snapshot)(nil)

// BeginScope opens a new snapshot on the given parent. The parent refuses
// modifications until the snapshot is released.
func BeginScope(parent Scope) (*Snapshot, error) {
	res := &Snapshot{
		parent:  parent,
		changes: newChangeSet(),
	}
	if err := parent.attach(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ForkForQuery opens a snapshot for read-mostly execution. The VM may write
// to it, but it can only be discarded.
func ForkForQuery(parent Scope) (*Snapshot, error) {
	res, err := BeginScope(parent)
	if err != nil {
		return nil, err
	}
	res.query = true
	return res, nil
}

// Apply runs fn on a new snapshot of parent. The snapshot is committed if
// fn succeeds and discarded otherwise. If fn panics, the snapshot is
// discarded before the panic continues.
func Apply(parent Scope, fn func(*Snapshot) error) error {
	scope, err := BeginScope(parent)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			scope.Discard()
		}
	}()
	if err := fn(scope); err != nil {
		return err
	}
	if err := scope.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Commit merges the modifications of the snapshot into its parent and
// releases the snapshot. On error the snapshot stays open and must be
// discarded.
func (s *Snapshot) Commit() error {
	if s.released {
		panic("ledger: snapshot released twice")
	}
	if s.query {
		return ErrQueryScopeCommit
	}
	if s.child != nil {
		return ErrScopeBusy
	}
	if err := s.parent.merge(s.changes); err != nil {
		return err
	}
	s.release()
	return nil
}

// Discard drops all modifications of the snapshot and releases it. Open
// child scopes are discarded as well.
func (s *Snapshot) Discard() {
	if s.released {
		panic("ledger: snapshot released twice")
	}
	if s.child != nil {
		s.child.Discard()
	}
	s.release()
}

func (s *Snapshot) release() {
	s.released = true
	s.changes = newChangeSet()
	s.parent.detach(s)
}

// Released reports whether the snapshot was committed or discarded.
func (s *Snapshot) Released() bool {
	return s.released
}

// IsQuery reports whether the snapshot was created by ForkForQuery.
func (s *Snapshot) IsQuery() bool {
	return s.query
}

func (s *Snapshot) BlockInfo() rollup.BlockInfo {
	return s.parent.BlockInfo()
}

func (s *Snapshot) GetStorage(address rollup.Address, key rollup.Key) rollup.Felt {
	if value, found := s.changes.storage[slot{address, key}]; found {
		return value
	}
	return s.parent.GetStorage(address, key)
}

func (s *Snapshot) SetStorage(address rollup.Address, key rollup.Key, value rollup.Felt) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	s.changes.storage[slot{address, key}] = value
	return nil
}

func (s *Snapshot) GetClassHashAt(address rollup.Address) rollup.ClassHash {
	if hash, found := s.changes.classHashes[address]; found {
		return hash
	}
	return s.parent.GetClassHashAt(address)
}

func (s *Snapshot) SetClassHashAt(address rollup.Address, hash rollup.ClassHash) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	s.changes.classHashes[address] = hash
	return nil
}

func (s *Snapshot) GetNonce(address rollup.Address) rollup.Felt {
	if nonce, found := s.changes.nonces[address]; found {
		return nonce
	}
	return s.parent.GetNonce(address)
}

func (s *Snapshot) SetNonce(address rollup.Address, nonce rollup.Felt) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	s.changes.nonces[address] = nonce
	return nil
}

func (s *Snapshot) GetContractClass(hash rollup.ClassHash) (*rollup.ContractClass, error) {
	if class, found := s.changes.classes[hash]; found {
		return class, nil
	}
	return s.parent.GetContractClass(hash)
}

func (s *Snapshot) SetContractClass(hash rollup.ClassHash, class *rollup.ContractClass) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if class == nil {
		return fmt.Errorf("%w: nil contract class", rollup.ErrValidation)
	}
	s.changes.classes[hash] = class.Clone()
	return nil
}

// BeginNested opens a child snapshot. It is BeginScope in the form expected
// by contract VMs.
func (s *Snapshot) BeginNested() (rollup.NestedState, error) {
	child, err := BeginScope(s)
	if err != nil {
		return nil, err
	}
	return child, nil
}

func (s *Snapshot) checkWritable() error {
	if s.released {
		return ErrScopeReleased
	}
	if s.child != nil {
		return ErrScopeBusy
	}
	return nil
}

func (s *Snapshot) attach(child *Snapshot) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	s.child = child
	return nil
}

func (s *Snapshot) detach(child *Snapshot) {
	if s.child == child {
		s.child = nil
	}
}

func (s *Snapshot) merge(changes *changeSet) error {
	if s.released {
		return ErrScopeReleased
	}
	changes.mergeInto(s.changes)
	return nil
}

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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/storage"
	"go.uber.org/mock/gomock"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	backend, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	state := NewState(backend, rollup.EmptyBlockInfo(rollup.NewFelt(1), rollup.Address(rollup.NewFelt(2))))
	t.Cleanup(func() { state.Close() })
	return state
}

var (
	testAddress = rollup.Address(rollup.NewFelt(0x10))
	testKey     = rollup.Key(rollup.NewFelt(0x20))
	testClass   = rollup.NewContractClass("counter", map[rollup.EntryPointType][]string{
		rollup.External: {"increment"},
	})
)

func TestSnapshot_ReadsFallThroughToParent(t *testing.T) {
	state := newTestState(t)
	err := Apply(state, func(s *Snapshot) error {
		return s.SetStorage(testAddress, testKey, rollup.NewFelt(1))
	})
	if err != nil {
		t.Fatalf("failed to apply: %v", err)
	}

	scope, err := BeginScope(state)
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	defer scope.Discard()
	if want, got := rollup.NewFelt(1), scope.GetStorage(testAddress, testKey); want != got {
		t.Errorf("unexpected value, want %v, got %v", want, got)
	}
	if err := scope.SetStorage(testAddress, testKey, rollup.NewFelt(2)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if want, got := rollup.NewFelt(2), scope.GetStorage(testAddress, testKey); want != got {
		t.Errorf("unexpected value in scope, want %v, got %v", want, got)
	}
	if want, got := rollup.NewFelt(1), state.GetStorage(testAddress, testKey); want != got {
		t.Errorf("uncommitted write visible in parent, want %v, got %v", want, got)
	}
}

func TestSnapshot_CommitPublishesAllWrites(t *testing.T) {
	state := newTestState(t)
	hash := rollup.ClassHash(rollup.NewFelt(0x30))

	scope, err := BeginScope(state)
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	steps := []error{
		scope.SetStorage(testAddress, testKey, rollup.NewFelt(7)),
		scope.SetNonce(testAddress, rollup.NewFelt(1)),
		scope.SetClassHashAt(testAddress, hash),
		scope.SetContractClass(hash, testClass),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
	}
	if err := scope.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	if want, got := rollup.NewFelt(7), state.GetStorage(testAddress, testKey); want != got {
		t.Errorf("unexpected storage, want %v, got %v", want, got)
	}
	if want, got := rollup.NewFelt(1), state.GetNonce(testAddress); want != got {
		t.Errorf("unexpected nonce, want %v, got %v", want, got)
	}
	if want, got := hash, state.GetClassHashAt(testAddress); want != got {
		t.Errorf("unexpected class hash, want %v, got %v", want, got)
	}
	class, err := state.GetContractClass(hash)
	if err != nil {
		t.Fatalf("failed to read class: %v", err)
	}
	if want, got := testClass.Program, class.Program; want != got {
		t.Errorf("unexpected class, want %v, got %v", want, got)
	}
	if declared, err := state.IsDeclared(hash); err != nil || !declared {
		t.Errorf("class not declared after commit: %v", err)
	}
	if want, got := uint64(1), state.Version(); want != got {
		t.Errorf("unexpected version, want %d, got %d", want, got)
	}
}

func TestSnapshot_DiscardDropsAllWrites(t *testing.T) {
	state := newTestState(t)
	hash := rollup.ClassHash(rollup.NewFelt(0x30))

	scope, err := BeginScope(state)
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	if err := scope.SetStorage(testAddress, testKey, rollup.NewFelt(7)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := scope.SetContractClass(hash, testClass); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	scope.Discard()

	if got := state.GetStorage(testAddress, testKey); !got.IsZero() {
		t.Errorf("discarded write visible: %v", got)
	}
	if _, err := state.GetContractClass(hash); !errors.Is(err, rollup.ErrClassNotDeclared) {
		t.Errorf("expected class to be missing, got %v", err)
	}
	if want, got := uint64(0), state.Version(); want != got {
		t.Errorf("unexpected version, want %d, got %d", want, got)
	}
	if !scope.Released() {
		t.Errorf("discarded scope not released")
	}
}

func TestSnapshot_SecondReleasePanics(t *testing.T) {
	tests := map[string]func(*Snapshot){
		"commit after commit": func(s *Snapshot) {
			s.Commit()
			s.Commit()
		},
		"discard after commit": func(s *Snapshot) {
			s.Commit()
			s.Discard()
		},
		"discard after discard": func(s *Snapshot) {
			s.Discard()
			s.Discard()
		},
		"commit after discard": func(s *Snapshot) {
			s.Discard()
			s.Commit()
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			scope, err := BeginScope(newTestState(t))
			if err != nil {
				t.Fatalf("failed to begin scope: %v", err)
			}
			defer func() {
				if recover() == nil {
					t.Errorf("expected a panic")
				}
			}()
			test(scope)
		})
	}
}

func TestSnapshot_ReleasedScopesRejectWrites(t *testing.T) {
	scope, err := BeginScope(newTestState(t))
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	scope.Discard()
	if err := scope.SetNonce(testAddress, rollup.NewFelt(1)); !errors.Is(err, ErrScopeReleased) {
		t.Errorf("expected released error, got %v", err)
	}
}

func TestSnapshot_ParentIsBusyWhileChildIsOpen(t *testing.T) {
	state := newTestState(t)
	outer, err := BeginScope(state)
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	if _, err := BeginScope(state); !errors.Is(err, ErrScopeBusy) {
		t.Errorf("second scope on state must be refused, got %v", err)
	}
	if err := state.SetBlockInfo(rollup.BlockInfo{}); !errors.Is(err, ErrScopeBusy) {
		t.Errorf("block info update must be refused, got %v", err)
	}

	inner, err := BeginScope(outer)
	if err != nil {
		t.Fatalf("failed to begin nested scope: %v", err)
	}
	if err := outer.SetStorage(testAddress, testKey, rollup.NewFelt(1)); !errors.Is(err, ErrScopeBusy) {
		t.Errorf("write to busy scope must be refused, got %v", err)
	}
	if err := outer.Commit(); !errors.Is(err, ErrScopeBusy) {
		t.Errorf("commit of busy scope must be refused, got %v", err)
	}

	if err := inner.SetStorage(testAddress, testKey, rollup.NewFelt(2)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := inner.Commit(); err != nil {
		t.Fatalf("failed to commit inner scope: %v", err)
	}
	if want, got := rollup.NewFelt(2), outer.GetStorage(testAddress, testKey); want != got {
		t.Errorf("inner commit not visible in outer scope, want %v, got %v", want, got)
	}
	if got := state.GetStorage(testAddress, testKey); !got.IsZero() {
		t.Errorf("inner commit visible in state before outer commit: %v", got)
	}
	if err := outer.Commit(); err != nil {
		t.Fatalf("failed to commit outer scope: %v", err)
	}
	if want, got := rollup.NewFelt(2), state.GetStorage(testAddress, testKey); want != got {
		t.Errorf("unexpected value, want %v, got %v", want, got)
	}
}

func TestSnapshot_DiscardingParentDiscardsChildren(t *testing.T) {
	state := newTestState(t)
	outer, err := BeginScope(state)
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	inner, err := BeginScope(outer)
	if err != nil {
		t.Fatalf("failed to begin nested scope: %v", err)
	}
	outer.Discard()
	if !inner.Released() {
		t.Errorf("child scope not released")
	}
	if _, err := BeginScope(state); err != nil {
		t.Errorf("state still busy after discard: %v", err)
	}
}

func TestForkForQuery_CannotBeCommitted(t *testing.T) {
	state := newTestState(t)
	query, err := ForkForQuery(state)
	if err != nil {
		t.Fatalf("failed to fork: %v", err)
	}
	if !query.IsQuery() {
		t.Errorf("fork not marked as query")
	}
	if err := query.SetStorage(testAddress, testKey, rollup.NewFelt(1)); err != nil {
		t.Fatalf("query scopes must accept writes: %v", err)
	}
	if err := query.Commit(); !errors.Is(err, ErrQueryScopeCommit) {
		t.Errorf("expected query commit error, got %v", err)
	}
	query.Discard()
	if got := state.GetStorage(testAddress, testKey); !got.IsZero() {
		t.Errorf("query write leaked into state: %v", got)
	}
}

func TestApply_CommitsOnSuccess(t *testing.T) {
	state := newTestState(t)
	err := Apply(state, func(s *Snapshot) error {
		return s.SetNonce(testAddress, rollup.NewFelt(3))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := rollup.NewFelt(3), state.GetNonce(testAddress); want != got {
		t.Errorf("unexpected nonce, want %v, got %v", want, got)
	}
}

func TestApply_DiscardsOnError(t *testing.T) {
	state := newTestState(t)
	injected := errors.New("injected")
	err := Apply(state, func(s *Snapshot) error {
		if err := s.SetNonce(testAddress, rollup.NewFelt(3)); err != nil {
			return err
		}
		return injected
	})
	if !errors.Is(err, injected) {
		t.Errorf("unexpected error, want %v, got %v", injected, err)
	}
	if got := state.GetNonce(testAddress); !got.IsZero() {
		t.Errorf("failed application modified state: %v", got)
	}
	if _, err := BeginScope(state); err != nil {
		t.Errorf("state still busy after failed application: %v", err)
	}
}

func TestApply_DiscardsOnPanic(t *testing.T) {
	state := newTestState(t)
	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("panic not propagated")
			}
		}()
		Apply(state, func(s *Snapshot) error {
			s.SetNonce(testAddress, rollup.NewFelt(3))
			panic("injected")
		})
	}()
	if got := state.GetNonce(testAddress); !got.IsZero() {
		t.Errorf("panicking application modified state: %v", got)
	}
	if _, err := BeginScope(state); err != nil {
		t.Errorf("state still busy after panic: %v", err)
	}
}

func TestApply_FailingBackendKeepsStateUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := rollup.NewMockStorage(ctrl)
	injected := errors.New("disk full")
	backend.EXPECT().PutAll(gomock.Any()).Return(injected)
	backend.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()

	state := NewState(backend, rollup.BlockInfo{})
	hash := rollup.ClassHash(rollup.NewFelt(1))
	other := rollup.ClassHash(rollup.NewFelt(2))
	err := Apply(state, func(s *Snapshot) error {
		if err := s.SetStorage(testAddress, testKey, rollup.NewFelt(1)); err != nil {
			return err
		}
		if err := s.SetContractClass(hash, testClass); err != nil {
			return err
		}
		return s.SetContractClass(other, testClass)
	})
	if !errors.Is(err, injected) {
		t.Errorf("unexpected error, want %v, got %v", injected, err)
	}
	if got := state.GetStorage(testAddress, testKey); !got.IsZero() {
		t.Errorf("failed commit modified storage: %v", got)
	}
	for _, h := range []rollup.ClassHash{hash, other} {
		if _, err := state.GetContractClass(h); !errors.Is(err, rollup.ErrClassNotDeclared) {
			t.Errorf("expected undeclared class %v, got %v", h, err)
		}
	}
	if want, got := uint64(0), state.Version(); want != got {
		t.Errorf("unexpected version, want %d, got %d", want, got)
	}
}

func TestState_ClassesOfOneCommitArePersistedInOneBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := rollup.NewMockStorage(ctrl)
	first := rollup.ClassHash(rollup.NewFelt(1))
	second := rollup.ClassHash(rollup.NewFelt(2))
	backend.EXPECT().PutAll(gomock.Any()).DoAndReturn(func(entries []rollup.Entry) error {
		if want, got := 2, len(entries); want != got {
			t.Errorf("unexpected number of entries, want %d, got %d", want, got)
		}
		return nil
	})

	state := NewState(backend, rollup.BlockInfo{})
	err := Apply(state, func(s *Snapshot) error {
		if err := s.SetContractClass(first, testClass); err != nil {
			return err
		}
		return s.SetContractClass(second, testClass)
	})
	if err != nil {
		t.Fatalf("failed to apply: %v", err)
	}
	for _, hash := range []rollup.ClassHash{first, second} {
		if _, err := state.GetContractClass(hash); err != nil {
			t.Errorf("class %v not available after commit: %v", hash, err)
		}
	}
}

func TestSnapshot_BeginNestedCommitsIntoParent(t *testing.T) {
	state := newTestState(t)
	scope, err := BeginScope(state)
	if err != nil {
		t.Fatalf("failed to begin scope: %v", err)
	}
	defer scope.Discard()

	discarded, err := scope.BeginNested()
	if err != nil {
		t.Fatalf("failed to begin nested scope: %v", err)
	}
	if err := discarded.SetStorage(testAddress, testKey, rollup.NewFelt(7)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	discarded.Discard()
	if got := scope.GetStorage(testAddress, testKey); !got.IsZero() {
		t.Errorf("discarded write visible in parent: %v", got)
	}

	committed, err := scope.BeginNested()
	if err != nil {
		t.Fatalf("failed to begin nested scope: %v", err)
	}
	if err := committed.SetStorage(testAddress, testKey, rollup.NewFelt(8)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := committed.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	if want, got := rollup.NewFelt(8), scope.GetStorage(testAddress, testKey); want != got {
		t.Errorf("unexpected value, want %v, got %v", want, got)
	}
}

func TestState_ClassesAreReadFromBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := rollup.NewMockStorage(ctrl)
	hash := rollup.ClassHash(rollup.NewFelt(1))
	data, err := testClass.Encode()
	if err != nil {
		t.Fatalf("failed to encode class: %v", err)
	}
	// the second lookup is served by the class cache
	backend.EXPECT().Get(classKey(hash)).Return(data, nil).Times(1)

	state := NewState(backend, rollup.BlockInfo{})
	for i := 0; i < 2; i++ {
		class, err := state.GetContractClass(hash)
		if err != nil {
			t.Fatalf("failed to read class: %v", err)
		}
		if want, got := testClass.Program, class.Program; want != got {
			t.Errorf("unexpected program, want %v, got %v", want, got)
		}
	}
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rollup

import "context"

//go:generate mockgen -source state.go -destination state_mock.go -package rollup

// State is the view of the ledger visible to transaction execution. All
// reads of values never written return the zero value. Writes may fail if
// the underlying scope does not accept modifications.
type State interface {
	BlockInfo() BlockInfo

	GetStorage(Address, Key) Felt
	SetStorage(Address, Key, Felt) error

	// GetClassHashAt returns the class bound to a contract address, or the
	// zero hash if no contract is deployed there.
	GetClassHashAt(Address) ClassHash
	SetClassHashAt(Address, ClassHash) error

	GetNonce(Address) Felt
	SetNonce(Address, Felt) error

	// GetContractClass fails with ErrClassNotDeclared for unknown hashes.
	GetContractClass(ClassHash) (*ContractClass, error)
	SetContractClass(ClassHash, *ContractClass) error

	// BeginNested opens a child view for a nested call. Writes to the child
	// become visible in the receiver only on Commit. The receiver refuses
	// writes while the child is open.
	BeginNested() (NestedState, error)
}

// NestedState is a child view opened by State.BeginNested. It is released
// exactly once, by Commit or by Discard.
type NestedState interface {
	State
	Commit() error
	Discard()
}

// ContractVM executes entry points of contract classes. Implementations
// record the resources consumed by each call in the resulting CallInfo and
// take the emission order of events and messages from the transaction
// context. Failures are reported as errors wrapping ErrVmExecution.
type ContractVM interface {
	Execute(
		ctx context.Context,
		call CallRequest,
		state State,
		config *GeneralConfig,
		txCtx *TransactionContext,
	) (*CallInfo, error)
}

// Storage is a key-value backend holding data that outlives scopes, such as
// the code of declared classes.
type Storage interface {
	// Get returns nil and no error if the key is not present.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// PutAll writes all entries atomically.
	PutAll(entries []Entry) error
	Has(key []byte) (bool, error)
	// ForEach visits all entries in key order until visit returns an error.
	ForEach(visit func(key, value []byte) error) error
	// Copy creates an independent backend with the same content.
	Copy() (Storage, error)
	Close() error
}

// Entry is a key-value pair written by Storage.PutAll.
type Entry struct {
	Key, Value []byte
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"context"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// DeclareSenderAddress is the sender of all declare transactions.
var DeclareSenderAddress = rollup.Address(rollup.NewFelt(1))

// DeclareParameters are the fields of a declare transaction. Declarations
// are free and have no nonce, so MaxFee and Nonce must be zero.
type DeclareParameters struct {
	Class     *rollup.ContractClass
	MaxFee    rollup.Felt
	Nonce     rollup.Felt
	Signature []rollup.Felt
}

// Declare makes a contract class available for deployments and library
// calls.
type Declare struct {
	class     *rollup.ContractClass
	classHash rollup.ClassHash
	signature []rollup.Felt
	hash      rollup.Hash
}

// NewDeclare creates a transaction declaring the given class.
func NewDeclare(class *rollup.ContractClass, chainID rollup.Felt) (*Declare, error) {
	return NewDeclareFromParameters(DeclareParameters{Class: class}, chainID)
}

func NewDeclareFromParameters(params DeclareParameters, chainID rollup.Felt) (*Declare, error) {
	if params.Class == nil {
		return nil, fmt.Errorf("%w: missing contract class", rollup.ErrValidation)
	}
	if !params.MaxFee.IsZero() {
		return nil, fmt.Errorf("%w: declare transactions must have a zero max fee, got %v", rollup.ErrValidation, params.MaxFee)
	}
	if !params.Nonce.IsZero() {
		return nil, fmt.Errorf("%w: declare transactions must have a zero nonce, got %v", rollup.ErrValidation, params.Nonce)
	}
	classHash, err := rollup.ComputeClassHash(params.Class)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rollup.ErrValidation, err)
	}
	return &Declare{
		class:     params.Class.Clone(),
		classHash: classHash,
		signature: slices.Clone(params.Signature),
		hash: rollup.TransactionHash(
			declarePrefix, 0, DeclareSenderAddress, rollup.Selector{},
			[]rollup.Felt{rollup.Felt(classHash)}, rollup.Felt{}, chainID,
		),
	}, nil
}

func (d *Declare) Type() rollup.TransactionType {
	return rollup.Declare
}

func (d *Declare) Hash() rollup.Hash {
	return d.hash
}

func (d *Declare) ClassHash() rollup.ClassHash {
	return d.classHash
}

func (d *Declare) apply(_ context.Context, _ *environment, scope *ledger.Snapshot) (*rollup.ExecutionInfo, error) {
	if err := scope.SetContractClass(d.classHash, d.class); err != nil {
		return nil, err
	}
	return &rollup.ExecutionInfo{
		TransactionHash: d.hash,
		Type:            rollup.Declare,
		CallInfo: &rollup.CallInfo{
			CallerAddress: DeclareSenderAddress,
			ClassHash:     d.classHash,
		},
	}, nil
}

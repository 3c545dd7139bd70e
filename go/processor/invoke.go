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

	"github.com/Fantom-foundation/Rollbox/go/fee"
	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/holiman/uint256"
)

// InvokeParameters are the fields of a function invocation.
type InvokeParameters struct {
	ContractAddress rollup.Address
	Selector        rollup.Selector
	// EntryPointType is External for regular invocations and L1Handler for
	// messages from the parent chain.
	EntryPointType rollup.EntryPointType
	Calldata       []rollup.Felt
	CallerAddress  rollup.Address
	// MaxFee bounds the fee charged for External invocations. A zero value
	// disables fee charging.
	MaxFee    rollup.Felt
	Signature []rollup.Felt
	// Nonce is optional for External invocations. If set, it must match the
	// nonce of the invoked contract. L1 handler invocations carry the nonce
	// of the message they are processing.
	Nonce   *rollup.Felt
	Version uint64
}

// InvokeFunction calls an entry point of a deployed contract.
type InvokeFunction struct {
	params InvokeParameters
	hash   rollup.Hash
}

func NewInvokeFunction(params InvokeParameters, chainID rollup.Felt) (*InvokeFunction, error) {
	prefix := invokePrefix
	switch params.EntryPointType {
	case rollup.External:
	case rollup.L1Handler:
		if params.Nonce == nil {
			return nil, fmt.Errorf("%w: L1 handler invocations require a message nonce", rollup.ErrValidation)
		}
		prefix = l1HandlerPrefix
	default:
		return nil, fmt.Errorf("%w: entry points of type %v cannot be invoked", rollup.ErrValidation, params.EntryPointType)
	}

	params.Calldata = slices.Clone(params.Calldata)
	params.Signature = slices.Clone(params.Signature)
	var additional []rollup.Felt
	if params.Nonce != nil {
		nonce := *params.Nonce
		params.Nonce = &nonce
		additional = append(additional, nonce)
	}
	return &InvokeFunction{
		params: params,
		hash: rollup.TransactionHash(
			prefix, params.Version, params.ContractAddress, params.Selector,
			params.Calldata, params.MaxFee, chainID, additional...,
		),
	}, nil
}

func (tx *InvokeFunction) Type() rollup.TransactionType {
	return rollup.InvokeFunction
}

func (tx *InvokeFunction) Hash() rollup.Hash {
	return tx.hash
}

func (tx *InvokeFunction) Parameters() InvokeParameters {
	res := tx.params
	res.Calldata = slices.Clone(res.Calldata)
	res.Signature = slices.Clone(res.Signature)
	return res
}

func (tx *InvokeFunction) apply(ctx context.Context, env *environment, scope *ledger.Snapshot) (*rollup.ExecutionInfo, error) {
	external := tx.params.EntryPointType == rollup.External
	if external {
		if err := handleNonce(tx.params.ContractAddress, tx.params.Nonce, scope); err != nil {
			return nil, err
		}
	}

	txCtx := tx.transactionContext(env.config)
	call, err := tx.execute(ctx, env, scope, txCtx)
	if err != nil {
		return nil, err
	}
	info := &rollup.ExecutionInfo{
		TransactionHash: tx.hash,
		Type:            rollup.InvokeFunction,
		CallInfo:        call,
	}
	if !external || tx.params.MaxFee.IsZero() {
		return info, nil
	}

	actualFee, err := fee.ComputeTransactionFee(scope, info, env.config)
	if err != nil {
		return nil, err
	}
	feeTransfer, err := fee.ExecuteFeeTransfer(ctx, env.vm, env.config, scope, txCtx, actualFee)
	if err != nil {
		return nil, err
	}
	info.FeeTransferInfo = feeTransfer
	info.ActualFee = actualFee
	return info, nil
}

// execute runs the invoked entry point without any bookkeeping. It is shared
// by transactions and read-only queries.
func (tx *InvokeFunction) execute(ctx context.Context, env *environment, state rollup.State, txCtx *rollup.TransactionContext) (*rollup.CallInfo, error) {
	return env.vm.Execute(ctx, rollup.CallRequest{
		Type:            rollup.Call,
		CallerAddress:   tx.params.CallerAddress,
		ContractAddress: tx.params.ContractAddress,
		Selector:        tx.params.Selector,
		EntryPointType:  tx.params.EntryPointType,
		Calldata:        tx.params.Calldata,
	}, state, env.config, txCtx)
}

// transactionContext creates the context of a single execution. The invoked
// contract is the account paying the fee.
func (tx *InvokeFunction) transactionContext(config *rollup.GeneralConfig) *rollup.TransactionContext {
	res := &rollup.TransactionContext{
		AccountAddress:  tx.params.ContractAddress,
		TransactionHash: tx.hash,
		Signature:       tx.params.Signature,
		MaxFee:          tx.params.MaxFee,
		Version:         tx.params.Version,
		MaxSteps:        config.InvokeTxMaxSteps,
	}
	if tx.params.Nonce != nil {
		res.Nonce = *tx.params.Nonce
	}
	return res
}

// handleNonce checks an explicitly given nonce against the nonce of the
// account and increments the latter.
func handleNonce(account rollup.Address, nonce *rollup.Felt, state rollup.State) error {
	current := state.GetNonce(account)
	if nonce != nil && *nonce != current {
		return fmt.Errorf("%w: nonce mismatch for %v, want %v, got %v", rollup.ErrInvalidNonce, account, current, *nonce)
	}
	next, overflow := new(uint256.Int).AddOverflow(current.ToUint256(), uint256.NewInt(1))
	if overflow || !next.Lt(rollup.FieldPrime) {
		return fmt.Errorf("%w: nonce of %v exhausted", rollup.ErrInvalidNonce, account)
	}
	return state.SetNonce(account, rollup.FeltFromUint256(next))
}

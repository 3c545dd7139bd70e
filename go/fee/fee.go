// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fee computes the network fee of transactions from their resource
// consumption and charges it through the fee token.
package fee

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/holiman/uint256"
)

// TransferEntryPoint is the fee token function used to charge fees.
const TransferEntryPoint = "transfer"

var (
	transferSelector = rollup.SelectorFromName(TransferEntryPoint)
	weightScale      = uint256.NewInt(rollup.FeeWeightScale)
	weightRounding   = uint256.NewInt(rollup.FeeWeightScale - 1)
)

// ComputeFeeFromUsage computes
//
//	ceil((max_r(weights[r] * usage[r]) + l1GasUsage) * gasPrice)
//
// where r ranges over the weighted resources. Only the heaviest resource
// contributes to the fee. The computation is exact: weighted terms are kept
// in units of 10^-6 and the division happens once at the end.
//
// It fails with ErrConfiguration if the usage refers to resources without a
// weight or if the result exceeds 256 bits.
func ComputeFeeFromUsage(weights rollup.FeeWeights, usage rollup.ResourceUsage, gasPrice rollup.Felt) (rollup.Felt, error) {
	for _, name := range usage.Names() {
		if _, found := weights[name]; !found {
			return rollup.Felt{}, fmt.Errorf("%w: no fee weight for resource %q", rollup.ErrConfiguration, name)
		}
	}

	heaviest := new(uint256.Int)
	term := new(uint256.Int)
	for name, weight := range weights {
		term.Mul(uint256.NewInt(uint64(weight)), uint256.NewInt(usage.Counters[name]))
		if term.Gt(heaviest) {
			heaviest.Set(term)
		}
	}

	l1Gas := new(uint256.Int).Mul(uint256.NewInt(usage.L1GasUsage), weightScale)
	total, overflow := new(uint256.Int).AddOverflow(heaviest, l1Gas)
	if overflow {
		return rollup.Felt{}, fmt.Errorf("%w: fee overflow", rollup.ErrConfiguration)
	}
	scaled, overflow := new(uint256.Int).MulOverflow(total, gasPrice.ToUint256())
	if overflow {
		return rollup.Felt{}, fmt.Errorf("%w: fee overflow", rollup.ErrConfiguration)
	}
	if _, overflow := scaled.AddOverflow(scaled, weightRounding); overflow {
		return rollup.Felt{}, fmt.Errorf("%w: fee overflow", rollup.ErrConfiguration)
	}
	return rollup.FeltFromUint256(scaled.Div(scaled, weightScale)), nil
}

// TotalResources aggregates the resources consumed by all calls of a
// transaction. Counters of the same name are summed across calls. The L1
// gas usage is the sum of the gas reported by the VM and the cost of
// publishing the transaction's L2-to-L1 messages on the parent chain.
func TotalResources(info *rollup.ExecutionInfo, config *rollup.GeneralConfig) rollup.ResourceUsage {
	counters := map[string]uint64{}
	var l1Gas uint64
	for _, root := range info.CallInfos() {
		root.Walk(func(call *rollup.CallInfo) {
			for name, count := range call.Resources.Usage() {
				counters[name] += count
			}
			l1Gas += call.L1GasUsage
			for _, msg := range call.Messages {
				l1Gas += (config.MessageHeaderWords + uint64(len(msg.Payload))) * config.L1GasPerMessageWord
			}
		})
	}
	return rollup.NewResourceUsage(counters, l1Gas)
}

// ComputeTransactionFee computes the fee of an executed transaction using
// the gas price of the current block.
func ComputeTransactionFee(state rollup.State, info *rollup.ExecutionInfo, config *rollup.GeneralConfig) (rollup.Felt, error) {
	usage := TotalResources(info, config)
	return ComputeFeeFromUsage(config.FeeWeights, usage, state.BlockInfo().GasPrice)
}

// ExecuteFeeTransfer charges actualFee to the account of the transaction by
// calling transfer(sequencer, low, high) on the fee token. It fails with
// ErrFeeTransferFailure, without executing anything, if actualFee exceeds
// the maximum fee of the transaction. Failures of the transfer itself are
// reported as ErrFeeTransferFailure as well.
func ExecuteFeeTransfer(
	ctx context.Context,
	vm rollup.ContractVM,
	config *rollup.GeneralConfig,
	state rollup.State,
	txCtx *rollup.TransactionContext,
	actualFee rollup.Felt,
) (*rollup.CallInfo, error) {
	if actualFee.Cmp(txCtx.MaxFee) > 0 {
		return nil, fmt.Errorf(
			"%w: actual fee exceeded max fee; %v > %v",
			rollup.ErrFeeTransferFailure, actualFee.ToUint256().Dec(), txCtx.MaxFee.ToUint256().Dec(),
		)
	}

	low, high := actualFee.Split128()
	call := rollup.CallRequest{
		Type:            rollup.Call,
		CallerAddress:   txCtx.AccountAddress,
		ContractAddress: config.FeeTokenAddress,
		Selector:        transferSelector,
		EntryPointType:  rollup.External,
		Calldata: []rollup.Felt{
			rollup.Felt(state.BlockInfo().SequencerAddress),
			low,
			high,
		},
	}
	// The transfer runs with a budget of its own.
	txCtx.ResetSteps()
	info, err := vm.Execute(ctx, call, state, config, txCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rollup.ErrFeeTransferFailure, err)
	}
	return info, nil
}

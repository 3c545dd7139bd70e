// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package native provides a contract VM running programs implemented in Go.
// Classes refer to their program by name; programs register themselves
// through RegisterProgram. The VM accounts steps and builtin usage per call
// and enforces the step limit of the transaction.
package native

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Rollbox/go/logger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// MaxCallDepth bounds the nesting of calls within a transaction.
const MaxCallDepth = 1024

func init() {
	rollup.MustRegisterContractVMFactory("native", func(config any) (rollup.ContractVM, error) {
		switch c := config.(type) {
		case nil:
			return NewVM(Config{}), nil
		case Config:
			return NewVM(c), nil
		case *Config:
			return NewVM(*c), nil
		default:
			return nil, fmt.Errorf("unsupported configuration type %T", config)
		}
	})
}

type Config struct {
	// Logger, if set, receives a debug line for every executed call.
	Logger logger.Logger
}

// VM is the native implementation of rollup.ContractVM.
type VM struct {
	config Config
}

func NewVM(config Config) *VM {
	return &VM{config: config}
}

func (v *VM) Execute(
	ctx context.Context,
	call rollup.CallRequest,
	state rollup.State,
	config *rollup.GeneralConfig,
	txCtx *rollup.TransactionContext,
) (*rollup.CallInfo, error) {
	info, err := v.execute(ctx, call, state, config, txCtx, 0)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// execute runs a single call. If the call fails after it started running,
// the partial CallInfo is returned along with the error so the caller can
// account for the resources consumed.

func (v *VM) execute(
	ctx context.Context,
	call rollup.CallRequest,
	state rollup.State,
	config *rollup.GeneralConfig,
	txCtx *rollup.TransactionContext,
	depth int,
) (*rollup.CallInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", rollup.ErrVmExecution, err)
	}
	if depth > MaxCallDepth {
		return nil, ErrCallDepthExceeded
	}

	classHash := call.ClassHash
	if call.Type == rollup.Call {
		classHash = state.GetClassHashAt(call.ContractAddress)
		if classHash.IsZero() {
			return nil, fmt.Errorf("%w: %v", ErrContractNotFound, call.ContractAddress)
		}
	}
	class, err := state.GetContractClass(classHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rollup.ErrVmExecution, err)
	}
	entryPoint, found := class.FindEntryPoint(call.EntryPointType, call.Selector)
	if !found {
		return nil, fmt.Errorf("%w: no %v entry point with selector %v in class %v", ErrEntryPointNotFound, call.EntryPointType, call.Selector, classHash)
	}
	program := GetProgram(class.Program)
	if program == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, class.Program)
	}
	function := program[entryPoint.Name]
	if function == nil {
		return nil, fmt.Errorf("%w: program %s has no function %s", ErrEntryPointNotFound, class.Program, entryPoint.Name)
	}

	if v.config.Logger != nil {
		v.config.Logger.Debugf("%v call of %v.%s at depth %d", call.Type, call.ContractAddress, entryPoint.Name, depth)
	}

	info := &rollup.CallInfo{
		CallType:        call.Type,
		CallerAddress:   call.CallerAddress,
		ContractAddress: call.ContractAddress,
		ClassHash:       classHash,
		Selector:        call.Selector,
		EntryPointType:  call.EntryPointType,
		Calldata:        slices.Clone(call.Calldata),
	}
	c := &Context{
		ctx:    ctx,
		vm:     v,
		state:  state,
		config: config,
		txCtx:  txCtx,
		info:   info,
		depth:  depth,
	}
	if err := c.UseSteps(CallSteps + CalldataWordSteps*uint64(len(call.Calldata))); err != nil {
		return info, err
	}
	retdata, err := function(c, slices.Clone(call.Calldata))
	if err != nil {
		if !errors.Is(err, rollup.ErrVmExecution) {
			err = fmt.Errorf("%w: %v", ErrExecutionReverted, err)
		}
		return info, err
	}
	info.Retdata = slices.Clone(retdata)
	return info, nil
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package native

import (
	"context"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// Step costs of the operations offered to programs. Every call is charged
// CallSteps plus CalldataWordSteps per calldata word before its function
// runs.
const (
	CallSteps         = 50
	CalldataWordSteps = 1
	StorageReadSteps  = 20
	StorageWriteSteps = 40
	EmitEventSteps    = 30
	SendMessageSteps  = 30
)

// TxInfo is the transaction information visible to programs.
type TxInfo struct {
	AccountAddress  rollup.Address
	TransactionHash rollup.Hash
	Signature       []rollup.Felt
	MaxFee          rollup.Felt
	Nonce           rollup.Felt
	Version         uint64
}

// Context is the interface between a running program and the rollup. It
// gives access to the call parameters and the state, and records the
// resources, events, messages and inner calls of the current call.
type Context struct {
	ctx    context.Context
	vm     *VM
	state  rollup.State
	config *rollup.GeneralConfig
	txCtx  *rollup.TransactionContext
	info   *rollup.CallInfo
	depth  int
}

func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) CallerAddress() rollup.Address {
	return c.info.CallerAddress
}

// ContractAddress is the address whose storage the call operates on. For
// library calls this is the address of the calling contract.
func (c *Context) ContractAddress() rollup.Address {
	return c.info.ContractAddress
}

func (c *Context) EntryPointType() rollup.EntryPointType {
	return c.info.EntryPointType
}

func (c *Context) ChainID() rollup.Felt {
	return c.config.ChainID
}

func (c *Context) BlockInfo() rollup.BlockInfo {
	return c.state.BlockInfo()
}

func (c *Context) TxInfo() TxInfo {
	return TxInfo{
		AccountAddress:  c.txCtx.AccountAddress,
		TransactionHash: c.txCtx.TransactionHash,
		Signature:       slices.Clone(c.txCtx.Signature),
		MaxFee:          c.txCtx.MaxFee,
		Nonce:           c.txCtx.Nonce,
		Version:         c.txCtx.Version,
	}
}

// UseSteps charges n steps to the current call. It fails with
// ErrOutOfResources once the step budget of the transaction is exhausted.
func (c *Context) UseSteps(n uint64) error {
	c.info.Resources.Steps += n
	if !c.txCtx.ConsumeSteps(n) {
		return fmt.Errorf("%w: step limit of %d exceeded", ErrOutOfResources, c.txCtx.MaxSteps)
	}
	return nil
}

// UseBuiltin records n applications of the named builtin.
func (c *Context) UseBuiltin(name string, n uint64) {
	if c.info.Resources.Builtins == nil {
		c.info.Resources.Builtins = map[string]uint64{}
	}
	c.info.Resources.Builtins[name] += n
}

// UseL1Gas records gas consumed on the parent chain, besides the cost of
// messages.
func (c *Context) UseL1Gas(n uint64) {
	c.info.L1GasUsage += n
}

func (c *Context) StorageRead(key rollup.Key) (rollup.Felt, error) {
	if err := c.UseSteps(StorageReadSteps); err != nil {
		return rollup.Felt{}, err
	}
	return c.state.GetStorage(c.info.ContractAddress, key), nil
}

func (c *Context) StorageWrite(key rollup.Key, value rollup.Felt) error {
	if err := c.UseSteps(StorageWriteSteps); err != nil {
		return err
	}
	return c.state.SetStorage(c.info.ContractAddress, key, value)
}

// CallContract calls an external entry point of another contract and
// returns its result.
func (c *Context) CallContract(address rollup.Address, selector rollup.Selector, calldata []rollup.Felt) ([]rollup.Felt, error) {
	return c.call(rollup.CallRequest{
		Type:            rollup.Call,
		CallerAddress:   c.info.ContractAddress,
		ContractAddress: address,
		Selector:        selector,
		EntryPointType:  rollup.External,
		Calldata:        calldata,
	})
}

// LibraryCall runs an external entry point of the given class on the
// storage of the current contract.
func (c *Context) LibraryCall(class rollup.ClassHash, selector rollup.Selector, calldata []rollup.Felt) ([]rollup.Felt, error) {
	return c.call(rollup.CallRequest{
		Type:            rollup.LibraryCall,
		CallerAddress:   c.info.CallerAddress,
		ContractAddress: c.info.ContractAddress,
		ClassHash:       class,
		Selector:        selector,
		EntryPointType:  rollup.External,
		Calldata:        calldata,
	})
}

// call runs a nested call on a child scope of the current state. The child
// is committed if the call succeeds and discarded otherwise. Resources of a
// failed call stay charged to the current call.
func (c *Context) call(request rollup.CallRequest) ([]rollup.Felt, error) {
	nested, err := c.state.BeginNested()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rollup.ErrVmExecution, err)
	}
	inner, err := c.vm.execute(c.ctx, request, nested, c.config, c.txCtx, c.depth+1)
	if err != nil {
		nested.Discard()
		if inner != nil {
			c.absorb(inner)
		}
		return nil, err
	}
	if err := nested.Commit(); err != nil {
		nested.Discard()
		return nil, fmt.Errorf("%w: %w", rollup.ErrVmExecution, err)
	}
	c.info.InternalCalls = append(c.info.InternalCalls, inner)
	return slices.Clone(inner.Retdata), nil
}

// absorb adds the counters of a failed call and its inner calls to the
// current call. Its events and messages are dropped.
func (c *Context) absorb(failed *rollup.CallInfo) {
	failed.Walk(func(call *rollup.CallInfo) {
		c.info.Resources.Steps += call.Resources.Steps
		c.info.Resources.MemoryHoles += call.Resources.MemoryHoles
		for name, n := range call.Resources.Builtins {
			c.UseBuiltin(name, n)
		}
		c.info.L1GasUsage += call.L1GasUsage
	})
}

// EmitEvent records an event of the current contract. Its order is taken
// from the transaction.
func (c *Context) EmitEvent(keys, data []rollup.Felt) error {
	if err := c.UseSteps(EmitEventSteps); err != nil {
		return err
	}
	c.info.Events = append(c.info.Events, rollup.Event{
		Order:       c.txCtx.NextEventOrder(),
		FromAddress: c.info.ContractAddress,
		Keys:        slices.Clone(keys),
		Data:        slices.Clone(data),
	})
	return nil
}

// SendMessageToL1 records a message from the current contract to the given
// address on the parent chain.
func (c *Context) SendMessageToL1(to rollup.Felt, payload []rollup.Felt) error {
	if err := c.UseSteps(SendMessageSteps); err != nil {
		return err
	}
	c.info.Messages = append(c.info.Messages, rollup.MessageToL1{
		Order:       c.txCtx.NextMessageOrder(),
		FromAddress: c.info.ContractAddress,
		ToAddress:   to,
		Payload:     slices.Clone(payload),
	})
	return nil
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/vm/native"
	"github.com/holiman/uint256"
)

// The contracts in this file keep state across transactions and are used to
// exercise the ledger, the outbox and the messaging between the layers.

const (
	counterProgram = "example-counter"
	bridgeProgram  = "example-bridge"
)

var (
	// IncreasedEvent is the key of the event emitted by the counter.
	IncreasedEvent = rollup.Felt(rollup.SelectorFromName("Increased"))
	// DepositEvent is the key of the event emitted by bridge deposits.
	DepositEvent = rollup.Felt(rollup.SelectorFromName("Deposit"))
	// WithdrawMessage is the first payload word of withdrawal messages.
	WithdrawMessage = rollup.NewFelt(0)
)

var counterValue = rollup.StorageVarKey("counter_value")

var counter = native.Program{
	// constructor(initial)
	"constructor": func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		if len(calldata) != 1 {
			return nil, native.Revertf("expected initial value")
		}
		return nil, c.StorageWrite(counterValue, calldata[0])
	},
	// increase(amount) -> (value)
	"increase": func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		if len(calldata) != 1 {
			return nil, native.Revertf("expected amount")
		}
		value, err := c.StorageRead(counterValue)
		if err != nil {
			return nil, err
		}
		c.UseBuiltin("range_check_builtin", 1)
		sum, overflow := new(uint256.Int).AddOverflow(value.ToUint256(), calldata[0].ToUint256())
		if overflow || !sum.Lt(rollup.FieldPrime) {
			return nil, native.Revertf("counter overflow")
		}
		next := rollup.FeltFromUint256(sum)
		if err := c.StorageWrite(counterValue, next); err != nil {
			return nil, err
		}
		if err := c.EmitEvent([]rollup.Felt{IncreasedEvent}, []rollup.Felt{next}); err != nil {
			return nil, err
		}
		return []rollup.Felt{next}, nil
	},
	// get_value() -> (value)
	"get_value": func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		value, err := c.StorageRead(counterValue)
		if err != nil {
			return nil, err
		}
		return []rollup.Felt{value}, nil
	},
}

// CounterClass is a contract holding a single counter that can be increased
// by arbitrary amounts. Its constructor takes the initial value.
func CounterClass() *rollup.ContractClass {
	return rollup.NewContractClass(counterProgram, map[rollup.EntryPointType][]string{
		rollup.Constructor: {"constructor"},
		rollup.External:    {"increase", "get_value"},
	})
}

func bridgeBalance(account rollup.Felt) rollup.Key {
	return rollup.StorageVarKey("bridge_balance", account)
}

var bridge = native.Program{
	// deposit(from_address, account, amount), reached from the parent chain
	"deposit": func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		if len(calldata) != 3 {
			return nil, native.Revertf("expected sender, account and amount")
		}
		if err := addBalance(c, calldata[1], calldata[2].ToUint256(), false); err != nil {
			return nil, err
		}
		return nil, c.EmitEvent([]rollup.Felt{DepositEvent}, calldata)
	},
	// withdraw(account, l1_recipient, amount)
	"withdraw": func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		if len(calldata) != 3 {
			return nil, native.Revertf("expected account, recipient and amount")
		}
		if err := addBalance(c, calldata[0], calldata[2].ToUint256(), true); err != nil {
			return nil, err
		}
		return nil, c.SendMessageToL1(calldata[1], []rollup.Felt{WithdrawMessage, calldata[0], calldata[2]})
	},
	// get_balance(account) -> (balance)
	"get_balance": func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		if len(calldata) != 1 {
			return nil, native.Revertf("expected account")
		}
		balance, err := c.StorageRead(bridgeBalance(calldata[0]))
		if err != nil {
			return nil, err
		}
		return []rollup.Felt{balance}, nil
	},
}

func addBalance(c *native.Context, account rollup.Felt, amount *uint256.Int, subtract bool) error {
	key := bridgeBalance(account)
	balance, err := c.StorageRead(key)
	if err != nil {
		return err
	}
	c.UseBuiltin("range_check_builtin", 1)
	var res *uint256.Int
	var overflow bool
	if subtract {
		res, overflow = new(uint256.Int).SubOverflow(balance.ToUint256(), amount)
	} else {
		res, overflow = new(uint256.Int).AddOverflow(balance.ToUint256(), amount)
	}
	if overflow {
		return native.Revertf("invalid balance change of %v", account)
	}
	return c.StorageWrite(key, rollup.FeltFromUint256(res))
}

// BridgeClass is a token bridge to the parent chain. Deposits arrive as L1
// handler calls, withdrawals leave as messages to the parent chain carrying
// WithdrawMessage, the account and the amount.
func BridgeClass() *rollup.ContractClass {
	return rollup.NewContractClass(bridgeProgram, map[rollup.EntryPointType][]string{
		rollup.L1Handler: {"deposit"},
		rollup.External:  {"withdraw", "get_balance"},
	})
}

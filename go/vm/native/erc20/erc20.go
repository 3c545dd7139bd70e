// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package erc20 implements the fungible token used to pay transaction fees.
// Amounts are exchanged as (low, high) pairs of 128-bit words. Minting is
// not restricted so sandboxes can fund accounts freely.
package erc20

import (
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/vm/native"
	"github.com/holiman/uint256"
)

// ProgramName is the name under which the token program is registered.
const ProgramName = "erc20"

const (
	nameVar        = "ERC20_name"
	symbolVar      = "ERC20_symbol"
	decimalsVar    = "ERC20_decimals"
	totalSupplyVar = "ERC20_total_supply"
	balancesVar    = "ERC20_balances"
	allowancesVar  = "ERC20_allowances"

	rangeCheckBuiltin = "range_check_builtin"
)

// TransferEvent is the key of the event emitted on every balance transfer.
var TransferEvent = rollup.Felt(rollup.SelectorFromName("Transfer"))

// ApprovalEvent is the key of the event emitted on approvals.
var ApprovalEvent = rollup.Felt(rollup.SelectorFromName("Approval"))

var one = []rollup.Felt{rollup.NewFelt(1)}

func init() {
	native.MustRegisterProgram(ProgramName, native.Program{
		"constructor":  constructor,
		"name":         getter(nameVar),
		"symbol":       getter(symbolVar),
		"decimals":     getter(decimalsVar),
		"totalSupply":  totalSupply,
		"balanceOf":    balanceOf,
		"allowance":    allowance,
		"transfer":     transfer,
		"transferFrom": transferFrom,
		"approve":      approve,
		"mint":         mint,
	})
}

// Class returns the contract class of the token.
func Class() *rollup.ContractClass {
	return rollup.NewContractClass(ProgramName, map[rollup.EntryPointType][]string{
		rollup.Constructor: {"constructor"},
		rollup.External: {
			"name", "symbol", "decimals", "totalSupply", "balanceOf", "allowance",
			"transfer", "transferFrom", "approve", "mint",
		},
	})
}

// ConstructorCalldata encodes the constructor arguments of the token.
func ConstructorCalldata(name, symbol string, decimals uint64) []rollup.Felt {
	return []rollup.Felt{rollup.ShortString(name), rollup.ShortString(symbol), rollup.NewFelt(decimals)}
}

// BalanceKey is the storage key of the balance of the given account.
func BalanceKey(account rollup.Address) rollup.Key {
	return rollup.StorageVarKey(balancesVar, rollup.Felt(account))
}

// constructor(name, symbol, decimals)
func constructor(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 3); err != nil {
		return nil, err
	}
	for i, name := range []string{nameVar, symbolVar, decimalsVar} {
		if err := c.StorageWrite(rollup.StorageVarKey(name), calldata[i]); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func getter(variable string) native.Function {
	return func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		if err := expectArgs(calldata, 0); err != nil {
			return nil, err
		}
		value, err := c.StorageRead(rollup.StorageVarKey(variable))
		if err != nil {
			return nil, err
		}
		return []rollup.Felt{value}, nil
	}
}

func totalSupply(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 0); err != nil {
		return nil, err
	}
	supply, err := c.StorageRead(rollup.StorageVarKey(totalSupplyVar))
	if err != nil {
		return nil, err
	}
	return split(supply), nil
}

// balanceOf(account) -> (low, high)
func balanceOf(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 1); err != nil {
		return nil, err
	}
	balance, err := c.StorageRead(BalanceKey(rollup.Address(calldata[0])))
	if err != nil {
		return nil, err
	}
	return split(balance), nil
}

// allowance(owner, spender) -> (low, high)
func allowance(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 2); err != nil {
		return nil, err
	}
	value, err := c.StorageRead(rollup.StorageVarKey(allowancesVar, calldata[0], calldata[1]))
	if err != nil {
		return nil, err
	}
	return split(value), nil
}

// transfer(recipient, low, high) -> (1)
func transfer(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 3); err != nil {
		return nil, err
	}
	amount, err := join(calldata[1], calldata[2])
	if err != nil {
		return nil, err
	}
	if err := move(c, c.CallerAddress(), rollup.Address(calldata[0]), amount); err != nil {
		return nil, err
	}
	return one, nil
}

// transferFrom(sender, recipient, low, high) -> (1)
func transferFrom(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 4); err != nil {
		return nil, err
	}
	amount, err := join(calldata[2], calldata[3])
	if err != nil {
		return nil, err
	}
	sender := rollup.Address(calldata[0])
	key := rollup.StorageVarKey(allowancesVar, rollup.Felt(sender), rollup.Felt(c.CallerAddress()))
	current, err := c.StorageRead(key)
	if err != nil {
		return nil, err
	}
	c.UseBuiltin(rangeCheckBuiltin, 1)
	remaining, underflow := new(uint256.Int).SubOverflow(current.ToUint256(), amount)
	if underflow {
		return nil, native.Revertf("insufficient allowance")
	}
	if err := c.StorageWrite(key, rollup.FeltFromUint256(remaining)); err != nil {
		return nil, err
	}
	if err := move(c, sender, rollup.Address(calldata[1]), amount); err != nil {
		return nil, err
	}
	return one, nil
}

// approve(spender, low, high) -> (1)
func approve(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 3); err != nil {
		return nil, err
	}
	amount, err := join(calldata[1], calldata[2])
	if err != nil {
		return nil, err
	}
	owner := rollup.Felt(c.CallerAddress())
	key := rollup.StorageVarKey(allowancesVar, owner, calldata[0])
	if err := c.StorageWrite(key, rollup.FeltFromUint256(amount)); err != nil {
		return nil, err
	}
	if err := c.EmitEvent([]rollup.Felt{ApprovalEvent}, []rollup.Felt{owner, calldata[0], calldata[1], calldata[2]}); err != nil {
		return nil, err
	}
	return one, nil
}

// mint(recipient, low, high)
func mint(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
	if err := expectArgs(calldata, 3); err != nil {
		return nil, err
	}
	amount, err := join(calldata[1], calldata[2])
	if err != nil {
		return nil, err
	}
	recipient := rollup.Address(calldata[0])
	if recipient.IsZero() {
		return nil, native.Revertf("mint to the zero address")
	}
	if err := add(c, rollup.StorageVarKey(totalSupplyVar), amount); err != nil {
		return nil, err
	}
	if err := add(c, BalanceKey(recipient), amount); err != nil {
		return nil, err
	}
	data := []rollup.Felt{{}, calldata[0], calldata[1], calldata[2]}
	return nil, c.EmitEvent([]rollup.Felt{TransferEvent}, data)
}

func move(c *native.Context, from, to rollup.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return native.Revertf("transfer to the zero address")
	}
	fromKey := BalanceKey(from)
	balance, err := c.StorageRead(fromKey)
	if err != nil {
		return err
	}
	c.UseBuiltin(rangeCheckBuiltin, 1)
	remaining, underflow := new(uint256.Int).SubOverflow(balance.ToUint256(), amount)
	if underflow {
		return native.Revertf("insufficient balance of %v: has %v, needs %v", from, balance, amount)
	}
	if err := c.StorageWrite(fromKey, rollup.FeltFromUint256(remaining)); err != nil {
		return err
	}
	if err := add(c, BalanceKey(to), amount); err != nil {
		return err
	}
	low, high := rollup.FeltFromUint256(amount).Split128()
	return c.EmitEvent([]rollup.Felt{TransferEvent}, []rollup.Felt{rollup.Felt(from), rollup.Felt(to), low, high})
}

func add(c *native.Context, key rollup.Key, amount *uint256.Int) error {
	current, err := c.StorageRead(key)
	if err != nil {
		return err
	}
	c.UseBuiltin(rangeCheckBuiltin, 1)
	sum, overflow := new(uint256.Int).AddOverflow(current.ToUint256(), amount)
	if overflow {
		return native.Revertf("amount overflow")
	}
	return c.StorageWrite(key, rollup.FeltFromUint256(sum))
}

func join(low, high rollup.Felt) (*uint256.Int, error) {
	if !low.IsUint128() || !high.IsUint128() {
		return nil, native.Revertf("amount words must fit into 128 bits")
	}
	return rollup.Join128(low, high).ToUint256(), nil
}

func split(value rollup.Felt) []rollup.Felt {
	low, high := value.Split128()
	return []rollup.Felt{low, high}
}

func expectArgs(calldata []rollup.Felt, n int) error {
	if len(calldata) != n {
		return native.Revertf("expected %d arguments, got %d", n, len(calldata))
	}
	return nil
}

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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/storage"
	"github.com/Fantom-foundation/Rollbox/go/vm/native"
)

func TestExamples_ComputeReferenceResults(t *testing.T) {
	vm := native.NewVM(native.Config{})
	for _, example := range GetAllExamples() {
		for _, arg := range []int{0, 1, 2, 10, 50} {
			example := example
			t.Run(fmt.Sprintf("%s/%d", example.Name, arg), func(t *testing.T) {
				res, err := example.RunOn(vm, arg)
				if err != nil {
					t.Fatalf("failed to run example: %v", err)
				}
				if want, got := example.RunReference(arg), res.Result; want != got {
					t.Errorf("unexpected result, want %d, got %d", want, got)
				}
				if res.UsedSteps < native.CallSteps {
					t.Errorf("the call overhead must be charged, got %d steps", res.UsedSteps)
				}
			})
		}
	}
}

func TestStepBurner_StepsGrowWithArgument(t *testing.T) {
	example := GetStepBurnerExample()
	vm := native.NewVM(native.Config{})
	small, err := example.RunOn(vm, 10)
	if err != nil {
		t.Fatalf("failed to run example: %v", err)
	}
	large, err := example.RunOn(vm, 1000)
	if err != nil {
		t.Fatalf("failed to run example: %v", err)
	}
	if want, got := uint64(990), large.UsedSteps-small.UsedSteps; want != got {
		t.Errorf("unexpected difference in steps, want %d, got %d", want, got)
	}
}

func TestExamples_ClassesAreIndependentCopies(t *testing.T) {
	example := GetArithmeticExample()
	class := example.Class()
	class.Program = "modified"
	if example.Class().Program == "modified" {
		t.Errorf("modifying a returned class must not affect the example")
	}
}

type contractFixture struct {
	t     *testing.T
	scope *ledger.Snapshot
	vm    *native.VM
	txCtx *rollup.TransactionContext
}

func newContractFixture(t *testing.T, address rollup.Address, class *rollup.ContractClass) *contractFixture {
	backend, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	state := ledger.NewState(backend, rollup.EmptyBlockInfo(rollup.DefaultGasPrice, rollup.DefaultSequencerAddress))
	t.Cleanup(func() { state.Close() })
	scope, err := ledger.BeginScope(state)
	if err != nil {
		t.Fatalf("failed to open scope: %v", err)
	}
	hash, err := rollup.ComputeClassHash(class)
	if err != nil {
		t.Fatalf("failed to hash class: %v", err)
	}
	if err := scope.SetContractClass(hash, class); err != nil {
		t.Fatalf("failed to declare class: %v", err)
	}
	if err := scope.SetClassHashAt(address, hash); err != nil {
		t.Fatalf("failed to deploy class: %v", err)
	}
	return &contractFixture{t: t, scope: scope, vm: native.NewVM(native.Config{}), txCtx: &rollup.TransactionContext{}}
}

func (f *contractFixture) call(address rollup.Address, typ rollup.EntryPointType, function string, calldata ...rollup.Felt) (*rollup.CallInfo, error) {
	return f.vm.Execute(context.Background(), rollup.CallRequest{
		Type:            rollup.Call,
		ContractAddress: address,
		Selector:        rollup.SelectorFromName(function),
		EntryPointType:  typ,
		Calldata:        calldata,
	}, f.scope, rollup.DefaultConfig(), f.txCtx)
}

func TestCounter_IncreaseEmitsEvents(t *testing.T) {
	address := rollup.Address(rollup.NewFelt(1))
	f := newContractFixture(t, address, CounterClass())
	if _, err := f.call(address, rollup.Constructor, "constructor", rollup.NewFelt(5)); err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	info, err := f.call(address, rollup.External, "increase", rollup.NewFelt(3))
	if err != nil {
		t.Fatalf("increase failed: %v", err)
	}
	if want, got := rollup.NewFelt(8), info.Retdata[0]; want != got {
		t.Errorf("unexpected counter value, want %v, got %v", want, got)
	}
	if want, got := 1, len(info.Events); want != got {
		t.Fatalf("unexpected number of events, want %d, got %d", want, got)
	}
	if want, got := IncreasedEvent, info.Events[0].Keys[0]; want != got {
		t.Errorf("unexpected event key, want %v, got %v", want, got)
	}
	info, err = f.call(address, rollup.External, "get_value")
	if err != nil {
		t.Fatalf("get_value failed: %v", err)
	}
	if want, got := rollup.NewFelt(8), info.Retdata[0]; want != got {
		t.Errorf("unexpected counter value, want %v, got %v", want, got)
	}
}

func TestBridge_DepositAndWithdraw(t *testing.T) {
	address := rollup.Address(rollup.NewFelt(2))
	f := newContractFixture(t, address, BridgeClass())
	l1Sender, account, recipient := rollup.NewFelt(0x1111), rollup.NewFelt(0xacc), rollup.NewFelt(0x2222)

	if _, err := f.call(address, rollup.External, "deposit", l1Sender, account, rollup.NewFelt(10)); !errors.Is(err, native.ErrEntryPointNotFound) {
		t.Errorf("deposits must only be reachable from the parent chain, got %v", err)
	}
	if _, err := f.call(address, rollup.L1Handler, "deposit", l1Sender, account, rollup.NewFelt(10)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	info, err := f.call(address, rollup.External, "withdraw", account, recipient, rollup.NewFelt(4))
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if want, got := 1, len(info.Messages); want != got {
		t.Fatalf("unexpected number of messages, want %d, got %d", want, got)
	}
	msg := info.Messages[0]
	if want, got := recipient, msg.ToAddress; want != got {
		t.Errorf("unexpected recipient, want %v, got %v", want, got)
	}
	if want, got := rollup.NewFelt(4), msg.Payload[2]; want != got {
		t.Errorf("unexpected amount, want %v, got %v", want, got)
	}

	info, err = f.call(address, rollup.External, "get_balance", account)
	if err != nil {
		t.Fatalf("get_balance failed: %v", err)
	}
	if want, got := rollup.NewFelt(6), info.Retdata[0]; want != got {
		t.Errorf("unexpected balance, want %v, got %v", want, got)
	}
	if _, err := f.call(address, rollup.External, "withdraw", account, recipient, rollup.NewFelt(7)); !errors.Is(err, native.ErrExecutionReverted) {
		t.Errorf("overdrawing must revert, got %v", err)
	}
}

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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/logger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/storage"
	"go.uber.org/mock/gomock"
)

const testProgram = "native-test"

func init() {
	MustRegisterProgram(testProgram, Program{
		"echo": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return calldata, nil
		},
		"store": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return nil, c.StorageWrite(rollup.Key(calldata[0]), calldata[1])
		},
		"load": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			value, err := c.StorageRead(rollup.Key(calldata[0]))
			return []rollup.Felt{value}, err
		},
		"emit": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			if err := c.EmitEvent([]rollup.Felt{rollup.NewFelt(1)}, calldata); err != nil {
				return nil, err
			}
			return nil, c.SendMessageToL1(calldata[0], calldata[1:])
		},
		"forward": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return c.CallContract(rollup.Address(calldata[0]), rollup.Selector(calldata[1]), calldata[2:])
		},
		"delegate": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return c.LibraryCall(rollup.ClassHash(calldata[0]), rollup.Selector(calldata[1]), calldata[2:])
		},
		"recurse": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return c.CallContract(c.ContractAddress(), rollup.SelectorFromName("recurse"), nil)
		},
		"burn": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return nil, c.UseSteps(calldata[0].Uint64())
		},
		"hash": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			c.UseBuiltin("pedersen_builtin", 3)
			c.UseL1Gas(7)
			return nil, nil
		},
		"whoami": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return []rollup.Felt{
				rollup.Felt(c.CallerAddress()),
				rollup.Felt(c.ContractAddress()),
				rollup.Felt(c.TxInfo().AccountAddress),
			}, nil
		},
		"fail": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			return nil, errors.New("boom")
		},
		"store_and_fail": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			if err := c.StorageWrite(rollup.Key(calldata[0]), calldata[1]); err != nil {
				return nil, err
			}
			return nil, errors.New("boom")
		},
		// swallow calls another contract, ignores its failure and marks the
		// call as done in its own storage.
		"swallow": func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
			if _, err := c.CallContract(rollup.Address(calldata[0]), rollup.Selector(calldata[1]), calldata[2:]); err == nil {
				return nil, errors.New("inner call did not fail")
			}
			return nil, c.StorageWrite(rollup.Key{}, rollup.NewFelt(1))
		},
	})
}

var testFunctions = []string{
	"echo", "store", "load", "emit", "forward", "delegate", "recurse", "burn", "hash", "whoami", "fail",
	"store_and_fail", "swallow", "missing",
}

func testClass() *rollup.ContractClass {
	return rollup.NewContractClass(testProgram, map[rollup.EntryPointType][]string{
		rollup.External: testFunctions,
	})
}

// newTestScope creates a scope with the test class deployed at each of the
// given addresses.
func newTestScope(t *testing.T, addresses ...rollup.Address) (*ledger.Snapshot, rollup.ClassHash) {
	t.Helper()
	backend, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	state := ledger.NewState(backend, rollup.EmptyBlockInfo(rollup.NewFelt(1), rollup.DefaultSequencerAddress))
	t.Cleanup(func() { state.Close() })
	scope, err := ledger.BeginScope(state)
	if err != nil {
		t.Fatalf("failed to open scope: %v", err)
	}
	class := testClass()
	hash, err := rollup.ComputeClassHash(class)
	if err != nil {
		t.Fatalf("failed to hash class: %v", err)
	}
	if err := scope.SetContractClass(hash, class); err != nil {
		t.Fatalf("failed to declare class: %v", err)
	}
	for _, address := range addresses {
		if err := scope.SetClassHashAt(address, hash); err != nil {
			t.Fatalf("failed to deploy class: %v", err)
		}
	}
	return scope, hash
}

func call(address rollup.Address, function string, calldata ...rollup.Felt) rollup.CallRequest {
	return rollup.CallRequest{
		Type:            rollup.Call,
		CallerAddress:   rollup.Address(rollup.NewFelt(99)),
		ContractAddress: address,
		Selector:        rollup.SelectorFromName(function),
		EntryPointType:  rollup.External,
		Calldata:        calldata,
	}
}

func TestVM_IsRegistered(t *testing.T) {
	vm, err := rollup.NewContractVM("native")
	if err != nil {
		t.Fatalf("failed to create native VM: %v", err)
	}
	if _, ok := vm.(*VM); !ok {
		t.Errorf("unexpected VM type %T", vm)
	}
	if _, err := rollup.NewContractVM("native", Config{Logger: logger.NewDiscardLogger("test")}); err != nil {
		t.Errorf("failed to create VM with configuration: %v", err)
	}
	if _, err := rollup.NewContractVM("native", 12); err == nil {
		t.Errorf("expected unsupported configurations to be rejected")
	}
}

func TestVM_ReturnsCalldataAndCountsSteps(t *testing.T) {
	address := rollup.Address(rollup.NewFelt(1))
	scope, hash := newTestScope(t, address)
	args := []rollup.Felt{rollup.NewFelt(3), rollup.NewFelt(4)}

	info, err := NewVM(Config{}).Execute(context.Background(), call(address, "echo", args...), scope, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := 2, len(info.Retdata); want != got {
		t.Fatalf("unexpected length of return data, want %d, got %d", want, got)
	}
	if info.Retdata[0] != args[0] || info.Retdata[1] != args[1] {
		t.Errorf("unexpected return data %v", info.Retdata)
	}
	if want, got := hash, info.ClassHash; want != got {
		t.Errorf("unexpected class hash, want %v, got %v", want, got)
	}
	if want, got := uint64(CallSteps+2*CalldataWordSteps), info.Resources.Steps; want != got {
		t.Errorf("unexpected steps, want %d, got %d", want, got)
	}
}

func TestVM_StorageIsScopedToContract(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	b := rollup.Address(rollup.NewFelt(2))
	scope, _ := newTestScope(t, a, b)
	vm := NewVM(Config{})
	config := rollup.DefaultConfig()
	key, value := rollup.NewFelt(5), rollup.NewFelt(42)

	if _, err := vm.Execute(context.Background(), call(a, "store", key, value), scope, config, &rollup.TransactionContext{}); err != nil {
		t.Fatalf("failed to store: %v", err)
	}
	if want, got := value, scope.GetStorage(a, rollup.Key(key)); want != got {
		t.Errorf("unexpected stored value, want %v, got %v", want, got)
	}
	info, err := vm.Execute(context.Background(), call(b, "load", key), scope, config, &rollup.TransactionContext{})
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !info.Retdata[0].IsZero() {
		t.Errorf("storage of other contract must not be visible, got %v", info.Retdata[0])
	}
}

func TestVM_EventsAndMessagesUseTransactionWideOrder(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	b := rollup.Address(rollup.NewFelt(2))
	scope, _ := newTestScope(t, a, b)
	vm := NewVM(Config{})
	txCtx := &rollup.TransactionContext{}
	emit := rollup.Felt(rollup.SelectorFromName("emit"))
	target := rollup.NewFelt(0xabc)

	first, err := vm.Execute(context.Background(), call(a, "forward", rollup.Felt(b), emit, target, rollup.NewFelt(1)), scope, rollup.DefaultConfig(), txCtx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := vm.Execute(context.Background(), call(a, "emit", target, rollup.NewFelt(2)), scope, rollup.DefaultConfig(), txCtx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := 1, len(first.InternalCalls); want != got {
		t.Fatalf("unexpected number of inner calls, want %d, got %d", want, got)
	}
	inner := first.InternalCalls[0]
	if want, got := b, inner.ContractAddress; want != got {
		t.Errorf("unexpected inner contract, want %v, got %v", want, got)
	}
	if want, got := a, inner.CallerAddress; want != got {
		t.Errorf("unexpected inner caller, want %v, got %v", want, got)
	}
	if want, got := 0, inner.Events[0].Order; want != got {
		t.Errorf("unexpected order of first event, want %d, got %d", want, got)
	}
	if want, got := 1, second.Events[0].Order; want != got {
		t.Errorf("unexpected order of second event, want %d, got %d", want, got)
	}
	if want, got := 1, second.Messages[0].Order; want != got {
		t.Errorf("unexpected order of second message, want %d, got %d", want, got)
	}
	msg := inner.Messages[0]
	if want, got := b, msg.FromAddress; want != got {
		t.Errorf("unexpected message sender, want %v, got %v", want, got)
	}
	if want, got := target, msg.ToAddress; want != got {
		t.Errorf("unexpected message target, want %v, got %v", want, got)
	}
}

func TestVM_LibraryCallRunsOnCallerStorage(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	scope, hash := newTestScope(t, a)
	store := rollup.Felt(rollup.SelectorFromName("store"))
	key, value := rollup.NewFelt(8), rollup.NewFelt(9)

	info, err := NewVM(Config{}).Execute(context.Background(), call(a, "delegate", rollup.Felt(hash), store, key, value), scope, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := value, scope.GetStorage(a, rollup.Key(key)); want != got {
		t.Errorf("library call must write to caller storage, want %v, got %v", want, got)
	}
	if want, got := rollup.LibraryCall, info.InternalCalls[0].CallType; want != got {
		t.Errorf("unexpected call type, want %v, got %v", want, got)
	}
}

func TestVM_WritesOfFailedInnerCallsAreDiscarded(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	b := rollup.Address(rollup.NewFelt(2))
	scope, _ := newTestScope(t, a, b)
	key := rollup.NewFelt(0x10)
	target := rollup.Felt(rollup.SelectorFromName("store_and_fail"))
	txCtx := &rollup.TransactionContext{}

	info, err := NewVM(Config{}).Execute(context.Background(), call(a, "swallow", rollup.Felt(b), target, key, rollup.NewFelt(7)), scope, rollup.DefaultConfig(), txCtx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := scope.GetStorage(b, rollup.Key(key)); !got.IsZero() {
		t.Errorf("write of failed inner call persisted: %v", got)
	}
	if want, got := rollup.NewFelt(1), scope.GetStorage(a, rollup.Key{}); want != got {
		t.Errorf("write of outer call after the failure lost, want %v, got %v", want, got)
	}
	if want, got := 0, len(info.InternalCalls); want != got {
		t.Errorf("failed inner call recorded, want %d inner calls, got %d", want, got)
	}

	outer := uint64(CallSteps + 4*CalldataWordSteps + StorageWriteSteps)
	inner := uint64(CallSteps + 2*CalldataWordSteps + StorageWriteSteps)
	if want, got := outer+inner, info.Resources.Steps; want != got {
		t.Errorf("steps of failed inner call not charged, want %d, got %d", want, got)
	}
	if want, got := outer+inner, txCtx.StepsUsed(); want != got {
		t.Errorf("unexpected steps of transaction, want %d, got %d", want, got)
	}
}

func TestVM_NestedCallsRunOnChildScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	state := rollup.NewMockState(ctrl)
	nested := rollup.NewMockNestedState(ctrl)
	a := rollup.Address(rollup.NewFelt(1))
	b := rollup.Address(rollup.NewFelt(2))
	hash := rollup.ClassHash(rollup.NewFelt(3))
	class := testClass()
	echo := rollup.Felt(rollup.SelectorFromName("echo"))

	gomock.InOrder(
		state.EXPECT().GetClassHashAt(a).Return(hash),
		state.EXPECT().GetContractClass(hash).Return(class, nil),
		state.EXPECT().BeginNested().Return(nested, nil),
		nested.EXPECT().GetClassHashAt(b).Return(hash),
		nested.EXPECT().GetContractClass(hash).Return(class, nil),
		nested.EXPECT().Commit().Return(nil),
	)

	info, err := NewVM(Config{}).Execute(context.Background(), call(a, "forward", rollup.Felt(b), echo, rollup.NewFelt(5)), state, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := rollup.NewFelt(5), info.Retdata[0]; want != got {
		t.Errorf("unexpected result, want %v, got %v", want, got)
	}
}

func TestVM_ExposesCallAndTransactionContext(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	scope, _ := newTestScope(t, a)
	account := rollup.Address(rollup.NewFelt(77))

	info, err := NewVM(Config{}).Execute(context.Background(), call(a, "whoami"), scope, rollup.DefaultConfig(), &rollup.TransactionContext{AccountAddress: account})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []rollup.Felt{rollup.NewFelt(99), rollup.Felt(a), rollup.Felt(account)}
	for i := range want {
		if want[i] != info.Retdata[i] {
			t.Errorf("unexpected return value %d, want %v, got %v", i, want[i], info.Retdata[i])
		}
	}
}

func TestVM_RecordsBuiltinsAndL1Gas(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	scope, _ := newTestScope(t, a)
	info, err := NewVM(Config{}).Execute(context.Background(), call(a, "hash"), scope, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := uint64(3), info.Resources.Builtins["pedersen_builtin"]; want != got {
		t.Errorf("unexpected builtin usage, want %d, got %d", want, got)
	}
	if want, got := uint64(7), info.L1GasUsage; want != got {
		t.Errorf("unexpected L1 gas, want %d, got %d", want, got)
	}
}

func TestVM_Failures(t *testing.T) {
	a := rollup.Address(rollup.NewFelt(1))
	unknown := rollup.Address(rollup.NewFelt(2))

	tests := map[string]struct {
		request  rollup.CallRequest
		maxSteps uint64
		want     error
	}{
		"contract not deployed": {
			request: call(unknown, "echo"),
			want:    ErrContractNotFound,
		},
		"unknown selector": {
			request: call(a, "unknown"),
			want:    ErrEntryPointNotFound,
		},
		"function missing in program": {
			request: call(a, "missing"),
			want:    ErrEntryPointNotFound,
		},
		"wrong entry point type": {
			request: func() rollup.CallRequest {
				res := call(a, "echo")
				res.EntryPointType = rollup.L1Handler
				return res
			}(),
			want: ErrEntryPointNotFound,
		},
		"program error": {
			request: call(a, "fail"),
			want:    ErrExecutionReverted,
		},
		"step limit": {
			request:  call(a, "burn", rollup.NewFelt(1000)),
			maxSteps: 500,
			want:     ErrOutOfResources,
		},
		"call depth": {
			request: call(a, "recurse"),
			want:    ErrCallDepthExceeded,
		},
		"undeclared class in library call": {
			request: call(a, "delegate", rollup.NewFelt(123), rollup.Felt(rollup.SelectorFromName("echo"))),
			want:    rollup.ErrClassNotDeclared,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			scope, _ := newTestScope(t, a)
			txCtx := &rollup.TransactionContext{MaxSteps: test.maxSteps}
			_, err := NewVM(Config{}).Execute(context.Background(), test.request, scope, rollup.DefaultConfig(), txCtx)
			if !errors.Is(err, test.want) {
				t.Errorf("unexpected error, want %v, got %v", test.want, err)
			}
			if !errors.Is(err, rollup.ErrVmExecution) {
				t.Errorf("all failures must be VM execution errors, got %v", err)
			}
		})
	}
}

func TestVM_UnknownProgramIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	state := rollup.NewMockState(ctrl)
	address := rollup.Address(rollup.NewFelt(1))
	hash := rollup.ClassHash(rollup.NewFelt(2))
	class := rollup.NewContractClass("does-not-exist", map[rollup.EntryPointType][]string{
		rollup.External: {"run"},
	})
	state.EXPECT().GetClassHashAt(address).Return(hash)
	state.EXPECT().GetContractClass(hash).Return(class, nil)

	_, err := NewVM(Config{}).Execute(context.Background(), call(address, "run"), state, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("unexpected error, want %v, got %v", ErrUnknownProgram, err)
	}
}

func TestVM_CanceledContextAbortsExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	state := rollup.NewMockState(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewVM(Config{}).Execute(ctx, call(rollup.Address{}, "echo"), state, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if !errors.Is(err, context.Canceled) || !errors.Is(err, rollup.ErrVmExecution) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVM_LogsCallsWhenConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	a := rollup.Address(rollup.NewFelt(1))
	scope, _ := newTestScope(t, a)
	log.EXPECT().Debugf(gomock.Any(), gomock.Any()).Times(1)

	vm := NewVM(Config{Logger: log})
	if _, err := vm.Execute(context.Background(), call(a, "echo"), scope, rollup.DefaultConfig(), &rollup.TransactionContext{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides contract programs for tests, benchmarks and the
// command line tool. Most of them expose a single function with an
// (int)->int signature and a reference implementation in Go to check results
// against.
package examples

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/storage"
	"github.com/Fantom-foundation/Rollbox/go/vm/native"
)

// Example is an executable description of a contract and an entry point with a (int)->int signature.
type Example struct {
	exampleSpec
	class     *rollup.ContractClass
	classHash rollup.ClassHash
}

// exampleSpec specifies a contract and an entry point with a (int)->int signature.
type exampleSpec struct {
	Name      string
	program   native.Program
	function  string        // the name of the function in the program to be called
	reference func(int) int // a reference function computing the same function
}

// exampleAddress is the address examples are deployed at when run in
// isolation.
var exampleAddress = rollup.Address(rollup.NewFelt(0xe0))

func init() {
	for _, spec := range []exampleSpec{arithmeticSpec, sha3Spec, stepBurnerSpec, staticOverheadSpec} {
		native.MustRegisterProgram(spec.programName(), spec.program)
	}
	native.MustRegisterProgram(counterProgram, counter)
	native.MustRegisterProgram(bridgeProgram, bridge)
}

func (s exampleSpec) programName() string {
	return "example-" + s.Name
}

func (s exampleSpec) build() Example {
	class := rollup.NewContractClass(s.programName(), map[rollup.EntryPointType][]string{
		rollup.External: {s.function},
	})
	hash, err := rollup.ComputeClassHash(class)
	if err != nil {
		panic(fmt.Sprintf("failed to hash class of example %s: %v", s.Name, err))
	}
	return Example{
		exampleSpec: s,
		class:       class,
		classHash:   hash,
	}
}

// GetAllExamples lists the (int)->int examples.
func GetAllExamples() []Example {
	return []Example{
		GetArithmeticExample(),
		GetSha3Example(),
		GetStepBurnerExample(),
		GetStaticOverheadExample(),
	}
}

type Result struct {
	Result    int
	UsedSteps uint64
}

// Class returns the contract class of the example.
func (e *Example) Class() *rollup.ContractClass {
	return e.class.Clone()
}

// Function returns the name of the entry point computing the example.
func (e *Example) Function() string {
	return e.function
}

// Calldata encodes the argument of the example function.
func (e *Example) Calldata(argument int) []rollup.Felt {
	return []rollup.Felt{rollup.NewFelt(uint64(argument))}
}

// RunOn runs this example on the given VM, using the given argument. The
// example is deployed into an empty ledger that is dropped afterwards.
func (e *Example) RunOn(vm rollup.ContractVM, argument int) (Result, error) {
	backend, err := storage.NewMemory()
	if err != nil {
		return Result{}, err
	}
	state := ledger.NewState(backend, rollup.EmptyBlockInfo(rollup.DefaultGasPrice, rollup.DefaultSequencerAddress))
	defer state.Close()

	scope, err := ledger.ForkForQuery(state)
	if err != nil {
		return Result{}, err
	}
	defer scope.Discard()
	if err := scope.SetContractClass(e.classHash, e.class); err != nil {
		return Result{}, err
	}
	if err := scope.SetClassHashAt(exampleAddress, e.classHash); err != nil {
		return Result{}, err
	}

	info, err := vm.Execute(context.Background(), rollup.CallRequest{
		Type:            rollup.Call,
		ContractAddress: exampleAddress,
		Selector:        rollup.SelectorFromName(e.function),
		EntryPointType:  rollup.External,
		Calldata:        e.Calldata(argument),
	}, scope, rollup.DefaultConfig(), &rollup.TransactionContext{})
	if err != nil {
		return Result{}, err
	}

	result, err := decodeOutput(info.Retdata)
	if err != nil {
		return Result{}, err
	}
	steps := uint64(0)
	info.Walk(func(c *rollup.CallInfo) {
		steps += c.Resources.Steps
	})
	return Result{
		Result:    result,
		UsedSteps: steps,
	}, nil
}

// RunReference runs the reference function of this example to produce the expected result.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

func decodeArgument(calldata []rollup.Felt) (int, error) {
	if len(calldata) != 1 || !calldata[0].IsUint64() {
		return 0, native.Revertf("expected a single integer argument, got %v", calldata)
	}
	return int(calldata[0].Uint64()), nil
}

func decodeOutput(output []rollup.Felt) (int, error) {
	if len(output) != 1 {
		return 0, fmt.Errorf("unexpected length of output; wanted 1, got %d", len(output))
	}
	if !output[0].IsUint64() {
		return 0, fmt.Errorf("output out of range: %v", output[0])
	}
	return int(output[0].Uint64()), nil
}

// intFunction adapts a function on integers to a program function charging
// the given number of steps per unit of its argument.
func intFunction(stepsPerUnit uint64, f func(*native.Context, int) (int, error)) native.Function {
	return func(c *native.Context, calldata []rollup.Felt) ([]rollup.Felt, error) {
		arg, err := decodeArgument(calldata)
		if err != nil {
			return nil, err
		}
		if err := c.UseSteps(stepsPerUnit * uint64(arg)); err != nil {
			return nil, err
		}
		res, err := f(c, arg)
		if err != nil {
			return nil, err
		}
		return []rollup.Felt{rollup.NewFelt(uint64(res))}, nil
	}
}

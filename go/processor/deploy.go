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

// DeployStepsEstimate is the number of steps charged for deploying a
// contract on top of the steps of its constructor.
const DeployStepsEstimate = 100

// Deploy declares a class, binds it to a new address and runs its
// constructor.
type Deploy struct {
	class     *rollup.ContractClass
	classHash rollup.ClassHash
	calldata  []rollup.Felt
	address   rollup.Address
	hash      rollup.Hash
}

// NewDeploy creates a transaction deploying the given class at the address
// derived from the salt, the class and the constructor calldata.
func NewDeploy(class *rollup.ContractClass, salt rollup.Felt, calldata []rollup.Felt, chainID rollup.Felt) (*Deploy, error) {
	classHash, err := checkDeployable(class, calldata)
	if err != nil {
		return nil, err
	}
	address := rollup.CalculateContractAddress(salt, classHash, calldata, rollup.Address{})
	return newDeploy(class, classHash, address, calldata, chainID), nil
}

// NewPredeploy creates a transaction deploying the given class at a fixed
// address, as done for system contracts at genesis.
func NewPredeploy(class *rollup.ContractClass, address rollup.Address, calldata []rollup.Felt, chainID rollup.Felt) (*Deploy, error) {
	classHash, err := checkDeployable(class, calldata)
	if err != nil {
		return nil, err
	}
	if !address.ToUint256().Lt(rollup.AddressBound) {
		return nil, fmt.Errorf("%w: address %v out of range", rollup.ErrValidation, address)
	}
	return newDeploy(class, classHash, address, calldata, chainID), nil
}

func checkDeployable(class *rollup.ContractClass, calldata []rollup.Felt) (rollup.ClassHash, error) {
	if class == nil {
		return rollup.ClassHash{}, fmt.Errorf("%w: missing contract class", rollup.ErrValidation)
	}
	if len(calldata) > 0 && !class.HasConstructor() {
		return rollup.ClassHash{}, fmt.Errorf("%w: constructor calldata given for a class without constructor", rollup.ErrValidation)
	}
	classHash, err := rollup.ComputeClassHash(class)
	if err != nil {
		return rollup.ClassHash{}, fmt.Errorf("%w: %v", rollup.ErrValidation, err)
	}
	return classHash, nil
}

func newDeploy(class *rollup.ContractClass, classHash rollup.ClassHash, address rollup.Address, calldata []rollup.Felt, chainID rollup.Felt) *Deploy {
	return &Deploy{
		class:     class.Clone(),
		classHash: classHash,
		calldata:  slices.Clone(calldata),
		address:   address,
		hash: rollup.TransactionHash(
			deployPrefix, 0, address, rollup.ConstructorSelector, calldata, rollup.Felt{}, chainID,
		),
	}
}

func (d *Deploy) Type() rollup.TransactionType {
	return rollup.Deploy
}

func (d *Deploy) Hash() rollup.Hash {
	return d.hash
}

// Address is the address the contract is deployed at.
func (d *Deploy) Address() rollup.Address {
	return d.address
}

func (d *Deploy) ClassHash() rollup.ClassHash {
	return d.classHash
}

func (d *Deploy) apply(ctx context.Context, env *environment, scope *ledger.Snapshot) (*rollup.ExecutionInfo, error) {
	if !scope.GetClassHashAt(d.address).IsZero() {
		return nil, fmt.Errorf("%w: %v", rollup.ErrContractAlreadyDeployed, d.address)
	}
	if err := scope.SetContractClass(d.classHash, d.class); err != nil {
		return nil, err
	}
	if err := scope.SetClassHashAt(d.address, d.classHash); err != nil {
		return nil, err
	}

	txCtx := &rollup.TransactionContext{
		AccountAddress:  d.address,
		TransactionHash: d.hash,
		MaxSteps:        env.config.InvokeTxMaxSteps,
	}
	txCtx.ConsumeSteps(DeployStepsEstimate)

	var call *rollup.CallInfo
	if d.class.HasConstructor() {
		var err error
		call, err = env.vm.Execute(ctx, rollup.CallRequest{
			Type:            rollup.Call,
			ContractAddress: d.address,
			Selector:        rollup.ConstructorSelector,
			EntryPointType:  rollup.Constructor,
			Calldata:        d.calldata,
		}, scope, env.config, txCtx)
		if err != nil {
			return nil, err
		}
	} else {
		call = &rollup.CallInfo{
			ContractAddress: d.address,
			ClassHash:       d.classHash,
			Selector:        rollup.ConstructorSelector,
			EntryPointType:  rollup.Constructor,
		}
	}
	call.Resources.Steps += DeployStepsEstimate

	return &rollup.ExecutionInfo{
		TransactionHash: d.hash,
		Type:            rollup.Deploy,
		CallInfo:        call,
	}, nil
}

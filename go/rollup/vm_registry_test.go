// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rollup

import (
	"context"
	"testing"
)

type constantVM struct{}

func (constantVM) Execute(context.Context, CallRequest, State, *GeneralConfig, *TransactionContext) (*CallInfo, error) {
	return &CallInfo{}, nil
}

func TestContractVMRegistry_FactoriesCanBeRegisteredAndUsed(t *testing.T) {
	const name = "TestContractVMRegistry_Constant"
	factory := func(any) (ContractVM, error) {
		return constantVM{}, nil
	}
	if err := RegisterContractVMFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vm, err := NewContractVM(name)
	if err != nil {
		t.Fatalf("failed to create VM: %v", err)
	}
	if _, ok := vm.(constantVM); !ok {
		t.Errorf("unexpected VM type %T", vm)
	}
	if GetContractVMFactory("testcontractvmregistry_constant") == nil {
		t.Errorf("lookup must not be case-sensitive")
	}
	if _, found := GetAllRegisteredContractVMs()["testcontractvmregistry_constant"]; !found {
		t.Errorf("registered factory not listed")
	}
}

func TestContractVMRegistry_MultipleRegistrationsCauseAnError(t *testing.T) {
	const name = "TestContractVMRegistry_Twice"
	factory := func(any) (ContractVM, error) {
		return constantVM{}, nil
	}
	if err := RegisterContractVMFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RegisterContractVMFactory(name, factory); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestContractVMRegistry_NilFactoriesAreRejected(t *testing.T) {
	if err := RegisterContractVMFactory("something", nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestContractVMRegistry_UnknownNamesAreReported(t *testing.T) {
	if _, err := NewContractVM("unknown-vm"); err == nil {
		t.Errorf("expected error for unknown VM")
	}
	if _, err := NewContractVM("unknown-vm", 1, 2); err == nil {
		t.Errorf("expected error for too many arguments")
	}
}

func TestContractVMRegistry_MustRegisterPanicsOnConflict(t *testing.T) {
	const name = "TestContractVMRegistry_MustTwice"
	factory := func(any) (ContractVM, error) {
		return constantVM{}, nil
	}
	MustRegisterContractVMFactory(name, factory)
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	MustRegisterContractVMFactory(name, factory)
}

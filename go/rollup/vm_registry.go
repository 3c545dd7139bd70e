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
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for ContractVM implementations. A VM becomes
// available by registering a factory under a name, typically from the init
// code of the package providing it. Importing that package is thus enough
// to make the VM usable through NewContractVM.

// NewContractVM performs a lookup for the given name (case-insensitive) in
// the registry and creates a new ContractVM using the given optional
// configuration. An error is returned if no factory was registered under
// the given name.
func NewContractVM(name string, config ...any) (ContractVM, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory := GetContractVMFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("contract VM not found: %s", name)
	}
	c := any(nil)
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

// GetContractVMFactory performs a lookup for the given name
// (case-insensitive) in the registry. The result is nil if no factory was
// registered under the given name.
func GetContractVMFactory(name string) ContractVMFactory {
	vmRegistryLock.Lock()
	defer vmRegistryLock.Unlock()
	return vmRegistry[strings.ToLower(name)]
}

// GetAllRegisteredContractVMs obtains all registered factories.
func GetAllRegisteredContractVMs() map[string]ContractVMFactory {
	vmRegistryLock.Lock()
	defer vmRegistryLock.Unlock()
	return maps.Clone(vmRegistry)
}

// RegisterContractVMFactory registers a new ContractVM implementation. The
// name is not case-sensitive. An error is returned if a factory was bound
// to the same name before or the factory is nil.
func RegisterContractVMFactory(name string, factory ContractVMFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	vmRegistryLock.Lock()
	defer vmRegistryLock.Unlock()
	if _, found := vmRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	vmRegistry[key] = factory
	return nil
}

// MustRegisterContractVMFactory is like RegisterContractVMFactory but panics
// on failure.
func MustRegisterContractVMFactory(name string, factory ContractVMFactory) {
	if err := RegisterContractVMFactory(name, factory); err != nil {
		panic(err)
	}
}

// ContractVMFactory is the type of a function that creates a new ContractVM
// using an implementation specific configuration.
type ContractVMFactory func(config any) (ContractVM, error)

var vmRegistry = map[string]ContractVMFactory{}

var vmRegistryLock sync.Mutex

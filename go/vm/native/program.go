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
	"fmt"
	"sync"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"golang.org/x/exp/maps"
)

// Function implements an entry point of a program. It receives the
// calldata of the call and produces its return data. Any error aborts the
// transaction; errors not raised by the VM itself are reported as reverts.
type Function func(c *Context, calldata []rollup.Felt) ([]rollup.Felt, error)

// Program is the code of a contract class, mapping entry point names to
// their implementation.
type Program map[string]Function

// Revertf produces an error reverting the current transaction.
func Revertf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExecutionReverted, fmt.Sprintf(format, args...))
}

// RegisterProgram makes a program available to classes referring to it by
// name. Programs are typically registered from init functions.
func RegisterProgram(name string, program Program) error {
	if len(program) == 0 {
		return fmt.Errorf("invalid initialization: cannot register empty program `%s`", name)
	}
	programRegistryLock.Lock()
	defer programRegistryLock.Unlock()
	if _, found := programRegistry[name]; found {
		return fmt.Errorf("invalid initialization: multiple programs registered for `%s`", name)
	}
	programRegistry[name] = maps.Clone(program)
	return nil
}

// MustRegisterProgram is like RegisterProgram but panics on failure.
func MustRegisterProgram(name string, program Program) {
	if err := RegisterProgram(name, program); err != nil {
		panic(err)
	}
}

// GetProgram returns the program registered under the given name or nil.
func GetProgram(name string) Program {
	programRegistryLock.Lock()
	defer programRegistryLock.Unlock()
	return programRegistry[name]
}

// GetAllRegisteredPrograms lists the names of all registered programs.
func GetAllRegisteredPrograms() []string {
	programRegistryLock.Lock()
	defer programRegistryLock.Unlock()
	return maps.Keys(programRegistry)
}

var programRegistry = map[string]Program{}

var programRegistryLock sync.Mutex

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

import "github.com/Fantom-foundation/Rollbox/go/rollup"

// VmError is the type of failures detected by the native VM. All of them
// are reported as rollup.ErrVmExecution.
type VmError string

func (e VmError) Error() string {
	return string(e)
}

func (e VmError) Unwrap() error {
	return rollup.ErrVmExecution
}

const (
	ErrContractNotFound   = VmError("contract not found")
	ErrEntryPointNotFound = VmError("entry point not found")
	ErrUnknownProgram     = VmError("unknown program")
	ErrExecutionReverted  = VmError("execution reverted")
	ErrOutOfResources     = VmError("out of resources")
	ErrCallDepthExceeded  = VmError("call depth exceeded")
)

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

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrConfiguration signals an inconsistent configuration, for instance
	// resource usage reported for a resource without a fee weight.
	ErrConfiguration = ConstError("configuration error")

	// ErrFeeTransferFailure is reported when the transaction fee could not be
	// charged, either because it exceeds the declared maximum or because the
	// transfer on the fee token failed.
	ErrFeeTransferFailure = ConstError("fee transfer failure")

	// ErrVmExecution is the common cause of all failures reported by a
	// contract VM.
	ErrVmExecution = ConstError("vm execution error")

	ErrMessageNotConsumable = ConstError("message not consumable")
	ErrValidation           = ConstError("validation error")
	ErrInvalidNonce         = ConstError("invalid nonce")

	ErrContractAlreadyDeployed = ConstError("contract already deployed")
	ErrClassNotDeclared        = ConstError("class not declared")
)

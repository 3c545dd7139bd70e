// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sandbox

import (
	"fmt"

	"github.com/Fantom-foundation/Rollbox/go/processor"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// InvokeRequest describes the invocation of a contract entry point. Numeric
// fields accept rollup types, integers, big integers and decimal or
// 0x-prefixed strings. The selector may also be given as an entry point
// name. Unset optional fields default to zero.
type InvokeRequest struct {
	ContractAddress any
	Selector        any
	Calldata        []any
	CallerAddress   any
	MaxFee          any
	Signature       []any
	// Nonce, if set, must match the nonce of the invoked contract.
	Nonce *rollup.Felt
}

func (r InvokeRequest) build(typ rollup.EntryPointType, chainID rollup.Felt) (*processor.InvokeFunction, error) {
	params, err := r.parameters()
	if err != nil {
		return nil, err
	}
	params.EntryPointType = typ
	return processor.NewInvokeFunction(params, chainID)
}

func (r InvokeRequest) parameters() (processor.InvokeParameters, error) {
	var res processor.InvokeParameters
	var err error
	if res.ContractAddress, err = rollup.ParseAddress(r.ContractAddress); err != nil {
		return res, fmt.Errorf("contract address: %w", err)
	}
	if res.Selector, err = rollup.ParseSelector(r.Selector); err != nil {
		return res, fmt.Errorf("selector: %w", err)
	}
	if res.Calldata, err = rollup.ParseFelts(r.Calldata); err != nil {
		return res, fmt.Errorf("calldata: %w", err)
	}
	if r.CallerAddress != nil {
		if res.CallerAddress, err = rollup.ParseAddress(r.CallerAddress); err != nil {
			return res, fmt.Errorf("caller address: %w", err)
		}
	}
	if r.MaxFee != nil {
		if res.MaxFee, err = rollup.ParseFelt(r.MaxFee); err != nil {
			return res, fmt.Errorf("max fee: %w", err)
		}
	}
	if res.Signature, err = rollup.ParseFelts(r.Signature); err != nil {
		return res, fmt.Errorf("signature: %w", err)
	}
	res.Nonce = r.Nonce
	return res, nil
}

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
	"math/big"

	"github.com/holiman/uint256"
)

// Values crossing the public boundary of the sandbox may be given either as
// strict types or in a loose form (integers, big integers, strings). The
// functions in this file normalize them and reject anything outside the
// valid range with ErrValidation.

// ParseFelt converts v into a field element. Strings are interpreted as
// 0x-prefixed hex or decimal numbers.
func ParseFelt(v any) (Felt, error) {
	return parseFelt(v, 10)
}

// ParseHexFelt is like ParseFelt but reads strings as hex digits whether or
// not they carry a 0x prefix. Salts and parent chain addresses use it.
func ParseHexFelt(v any) (Felt, error) {
	return parseFelt(v, 16)
}

func parseFelt(v any, base int) (Felt, error) {
	var res *uint256.Int
	switch v := v.(type) {
	case Felt:
		res = v.ToUint256()
	case Address:
		res = v.ToUint256()
	case ClassHash:
		res = Felt(v).ToUint256()
	case Selector:
		res = Felt(v).ToUint256()
	case Key:
		res = Felt(v).ToUint256()
	case int:
		if v < 0 {
			return Felt{}, fmt.Errorf("%w: negative value %d", ErrValidation, v)
		}
		res = uint256.NewInt(uint64(v))
	case int64:
		if v < 0 {
			return Felt{}, fmt.Errorf("%w: negative value %d", ErrValidation, v)
		}
		res = uint256.NewInt(uint64(v))
	case uint64:
		res = uint256.NewInt(v)
	case uint32:
		res = uint256.NewInt(uint64(v))
	case *big.Int:
		if v == nil || v.Sign() < 0 {
			return Felt{}, fmt.Errorf("%w: invalid value %v", ErrValidation, v)
		}
		var overflow bool
		if res, overflow = uint256.FromBig(v); overflow {
			return Felt{}, fmt.Errorf("%w: value %v exceeds 256 bits", ErrValidation, v)
		}
	case *uint256.Int:
		if v == nil {
			return Felt{}, fmt.Errorf("%w: nil value", ErrValidation)
		}
		res = v.Clone()
	case string:
		var err error
		if res, err = parseNumber(v, base); err != nil {
			return Felt{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	default:
		return Felt{}, fmt.Errorf("%w: unsupported value type %T", ErrValidation, v)
	}
	if !res.Lt(FieldPrime) {
		return Felt{}, fmt.Errorf("%w: value %v is not a field element", ErrValidation, res.Hex())
	}
	return FeltFromUint256(res), nil
}

// ParseFelts converts a list of loose values into field elements.
func ParseFelts[T any](values []T) ([]Felt, error) {
	res := make([]Felt, len(values))
	for i, v := range values {
		f, err := ParseFelt(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		res[i] = f
	}
	return res, nil
}

// ParseAddress converts v into a contract address. Strings are hex digits
// with an optional 0x prefix.
func ParseAddress(v any) (Address, error) {
	f, err := ParseHexFelt(v)
	if err != nil {
		return Address{}, err
	}
	if !f.ToUint256().Lt(AddressBound) {
		return Address{}, fmt.Errorf("%w: address %v out of range", ErrValidation, f)
	}
	return Address(f), nil
}

// ParseSelector converts v into an entry point selector. Strings are entry
// point names; every other type is taken as the numeric selector.
func ParseSelector(v any) (Selector, error) {
	if name, ok := v.(string); ok {
		if name == "" {
			return Selector{}, fmt.Errorf("%w: empty entry point name", ErrValidation)
		}
		return SelectorFromName(name), nil
	}
	f, err := ParseFelt(v)
	if err != nil {
		return Selector{}, err
	}
	return Selector(f), nil
}

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
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Felt is an element of the rollup's prime field, kept as a 256-bit
// big-endian integer.
type Felt [32]byte

// Address identifies a deployed contract. Valid addresses are below
// AddressBound.
type Address Felt

// ClassHash identifies a declared contract class.
type ClassHash Felt

// Selector identifies an entry point of a contract class.
type Selector Felt

// Key addresses a storage slot of a contract.
type Key Felt

// Hash represents a 256-bit Keccak digest, for instance the hash of an
// L2-to-L1 message or of a transaction.
type Hash [32]byte

var (
	// FieldPrime is the modulus of the field, 2^251 + 17*2^192 + 1.
	FieldPrime = mustParseHex("0x800000000000011000000000000000000000000000000000000000000000001")

	// AddressBound is the exclusive upper bound of contract addresses.
	AddressBound = new(uint256.Int).Lsh(uint256.NewInt(1), 251)
)

func mustParseHex(s string) *uint256.Int {
	b, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok {
		panic(fmt.Sprintf("invalid hex constant %q", s))
	}
	res, overflow := uint256.FromBig(b)
	if overflow {
		panic(fmt.Sprintf("hex constant %q exceeds 256 bits", s))
	}
	return res
}

// NewFelt creates a new Felt from up to 4 uint64 arguments, given from the
// most to the least significant word. No argument results in zero.
func NewFelt(args ...uint64) (result Felt) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args); i++ {
		start := (offset + i) * 8
		binary.BigEndian.PutUint64(result[start:start+8], args[i])
	}
	return
}

// FeltFromUint256 converts a *uint256.Int to a Felt. A nil input is zero.
func FeltFromUint256(value *uint256.Int) Felt {
	if value == nil {
		return Felt{}
	}
	return value.Bytes32()
}

func (f Felt) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(f[:])
}

func (f Felt) ToBig() *big.Int {
	return new(big.Int).SetBytes(f[:])
}

func (f Felt) IsZero() bool {
	return f == Felt{}
}

func (f Felt) Cmp(o Felt) int {
	return bytes.Compare(f[:], o[:])
}

// IsUint64 reports whether f fits into 64 bits.
func (f Felt) IsUint64() bool {
	return f.ToUint256().IsUint64()
}

// IsUint128 reports whether f fits into 128 bits.
func (f Felt) IsUint128() bool {
	return f.ToUint256().BitLen() <= 128
}

// Uint64 returns the lowest 64 bits of f.
func (f Felt) Uint64() uint64 {
	return binary.BigEndian.Uint64(f[24:])
}

// Split128 divides f into its lower and upper 128-bit halves, the encoding
// used for token amounts in calldata.
func (f Felt) Split128() (low, high Felt) {
	copy(low[16:], f[16:])
	copy(high[16:], f[:16])
	return
}

// Join128 is the inverse of Split128.
func Join128(low, high Felt) Felt {
	var res Felt
	copy(res[16:], low[16:])
	copy(res[:16], high[16:])
	return res
}

func (f Felt) String() string {
	return f.ToUint256().Hex()
}

func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText accepts 0x-prefixed hex strings of any length up to 256 bits
// as well as decimal strings.
func (f *Felt) UnmarshalText(data []byte) error {
	v, err := parseNumber(string(data), 10)
	if err != nil {
		return err
	}
	*f = FeltFromUint256(v)
	return nil
}

// parseNumber reads s as a non-negative integer. A 0x prefix always selects
// hex; unprefixed digits are read in the given base.
func parseNumber(s string, base int) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	digits := s
	if lower := strings.ToLower(s); strings.HasPrefix(lower, "0x") {
		digits, base = lower[2:], 16
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid number: %q", s)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative number: %q", s)
	}
	res, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("number exceeds 256 bits: %q", s)
	}
	return res, nil
}

func (a Address) String() string { return Felt(a).String() }
func (a Address) ToUint256() *uint256.Int { return Felt(a).ToUint256() }
func (a Address) IsZero() bool { return Felt(a).IsZero() }

func (a Address) MarshalText() ([]byte, error) {
	return Felt(a).MarshalText()
}

// UnmarshalText reads hex digits with or without a 0x prefix.
func (a *Address) UnmarshalText(data []byte) error {
	v, err := parseNumber(string(data), 16)
	if err != nil {
		return err
	}
	*a = Address(FeltFromUint256(v))
	return nil
}

func (c ClassHash) String() string { return Felt(c).String() }
func (c ClassHash) IsZero() bool { return Felt(c).IsZero() }

func (c ClassHash) MarshalText() ([]byte, error) {
	return Felt(c).MarshalText()
}

func (c *ClassHash) UnmarshalText(data []byte) error {
	v, err := parseNumber(string(data), 16)
	if err != nil {
		return err
	}
	*c = ClassHash(FeltFromUint256(v))
	return nil
}

func (s Selector) String() string { return Felt(s).String() }

func (s Selector) MarshalText() ([]byte, error) {
	return Felt(s).MarshalText()
}

func (s *Selector) UnmarshalText(data []byte) error {
	return (*Felt)(s).UnmarshalText(data)
}

func (k Key) String() string { return Felt(k).String() }

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(data []byte) error {
	v, err := parseNumber(string(data), 16)
	if err != nil {
		return err
	}
	*h = v.Bytes32()
	return nil
}

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
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// The derivations in this file fix the identifiers used across the rollup:
// entry point selectors, class hashes, contract addresses, message hashes
// and transaction hashes. All of them are based on Keccak-256.

const selectorCacheSize = 1 << 10

var selectorCache = newSelectorCache()

func newSelectorCache() *lru.Cache[string, Selector] {
	cache, err := lru.New[string, Selector](selectorCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// ConstructorSelector is the selector of the constructor entry point.
var ConstructorSelector = SelectorFromName("constructor")

// StarknetKeccak computes the Keccak-256 digest of data truncated to its
// lower 250 bits.
func StarknetKeccak(data []byte) Felt {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	var res Felt
	hasher.Sum(res[:0])
	res[0] &= 0x03
	return res
}

// SelectorFromName derives the selector of the entry point with the given
// name.
func SelectorFromName(name string) Selector {
	if res, found := selectorCache.Get(name); found {
		return res
	}
	res := Selector(StarknetKeccak([]byte(name)))
	selectorCache.Add(name, res)
	return res
}

// StorageVarKey derives the storage key of the entry of a named storage
// variable selected by the given arguments. Without arguments the key is the
// starknet-keccak of the name.
func StorageVarKey(name string, args ...Felt) Key {
	base := Felt(SelectorFromName(name))
	if len(args) == 0 {
		return Key(base)
	}
	return Key(truncate251(crypto.Keccak256(base[:], encodeWords(args))))
}

// ComputeClassHash derives the identifier of a contract class from its
// canonical encoding.
func ComputeClassHash(class *ContractClass) (ClassHash, error) {
	code, err := class.Encode()
	if err != nil {
		return ClassHash{}, err
	}
	return ClassHash(truncate251(crypto.Keccak256([]byte("CONTRACT_CLASS"), code))), nil
}

// CalculateContractAddress derives the address of a contract deployed by the
// given deployer from the salt, the class and the constructor arguments.
func CalculateContractAddress(salt Felt, classHash ClassHash, calldata []Felt, deployer Address) Address {
	return Address(truncate251(crypto.Keccak256(
		[]byte("STARKNET_CONTRACT_ADDRESS"),
		deployer[:],
		salt[:],
		classHash[:],
		crypto.Keccak256(encodeWords(calldata)),
	)))
}

// Hash computes the identifier under which the message is consumed on the
// parent chain: keccak256(from, to, len(payload), payload...), each
// element encoded as a 32-byte big-endian word.
func (m MessageToL1) Hash() Hash {
	return MessageHash(m.FromAddress, m.ToAddress, m.Payload)
}

// MessageHash computes the hash of an L2-to-L1 message.
func MessageHash(from Address, to Felt, payload []Felt) Hash {
	words := make([]Felt, 0, len(payload)+3)
	words = append(words, Felt(from), to, NewFelt(uint64(len(payload))))
	words = append(words, payload...)
	return Hash(crypto.Keccak256Hash(encodeWords(words)))
}

// TransactionHash computes the hash of a transaction from its type prefix
// and fields. Additional fields, such as nonces, are appended at the end.
func TransactionHash(
	prefix string,
	version uint64,
	address Address,
	selector Selector,
	calldata []Felt,
	maxFee Felt,
	chainID Felt,
	additional ...Felt,
) Hash {
	words := []Felt{
		NewFelt(version),
		Felt(address),
		Felt(selector),
		Felt(crypto.Keccak256Hash(encodeWords(calldata))),
		maxFee,
		chainID,
	}
	words = append(words, additional...)
	return Hash(crypto.Keccak256Hash([]byte(prefix), encodeWords(words)))
}

func encodeWords(words []Felt) []byte {
	res := make([]byte, 0, 32*len(words))
	for _, w := range words {
		res = append(res, w[:]...)
	}
	return res
}

func truncate251(digest []byte) Felt {
	var res Felt
	copy(res[:], digest)
	res[0] &= 0x07
	return res
}

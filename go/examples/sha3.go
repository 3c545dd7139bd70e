// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/vm/native"
	"golang.org/x/crypto/sha3"
)

var sha3Spec = exampleSpec{
	Name: "sha3",
	program: native.Program{
		"sha3": intFunction(1, func(c *native.Context, x int) (int, error) {
			c.UseBuiltin("bitwise_builtin", uint64(x))
			return sha3Ref(x), nil
		}),
	},
	function:  "sha3",
	reference: sha3Ref,
}

// GetSha3Example computes x iterative Keccak-256 hashes of a zero word and
// returns the lowest byte of the result.
func GetSha3Example() Example {
	return sha3Spec.build()
}

func sha3Ref(x int) int {
	var hash rollup.Hash
	hasher := sha3.NewLegacyKeccak256()
	for i := 0; i < x; i++ {
		hasher.Reset()
		hasher.Write(hash[:])
		hasher.Sum(hash[0:0])
	}
	return int(hash[31])
}

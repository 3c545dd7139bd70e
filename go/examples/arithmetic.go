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
	"math"

	"github.com/Fantom-foundation/Rollbox/go/vm/native"
	"github.com/holiman/uint256"
)

// arithmeticStepsPerIteration is the step cost of one loop iteration of the
// arithmetic example.
const arithmeticStepsPerIteration = 12

var arithmeticSpec = exampleSpec{
	Name: "arithmetic",
	program: native.Program{
		"arithmetic": intFunction(arithmeticStepsPerIteration, func(c *native.Context, n int) (int, error) {
			return arithmetic(n), nil
		}),
	},
	function:  "arithmetic",
	reference: arithmetic,
}

// GetArithmeticExample provides a loop of wrapping 256-bit arithmetic
// operations, reduced modulo the largest int32 value.
func GetArithmeticExample() Example {
	return arithmeticSpec.build()
}

func arithmetic(n int) int {
	iterations := uint256.NewInt(uint64(n))
	result := uint256.NewInt(0)
	for i := uint256.NewInt(1); i.Lt(iterations) || i.Eq(iterations); i.AddUint64(i, 1) {
		iSquared := i.Clone().Mul(i, i)
		iCubed := iSquared.Clone().Mul(iSquared, i)
		iMod3 := i.Clone().Mod(i, uint256.NewInt(3))
		result.Add(result, i)
		result.Mul(result, i)
		result.Add(result, iSquared)
		result.Sub(result, i)
		result.Div(result, i)
		result.Mul(result, iMod3.AddUint64(iMod3, 1))
		result.Add(result, iCubed)
	}
	maxInt32 := uint256.NewInt(math.MaxInt32)
	result.Mod(result, maxInt32)
	return int(result[0])
}

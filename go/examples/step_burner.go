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

import "github.com/Fantom-foundation/Rollbox/go/vm/native"

var stepBurnerSpec = exampleSpec{
	Name: "step_burner",
	program: native.Program{
		"burn": intFunction(1, func(c *native.Context, x int) (int, error) {
			return x, nil
		}),
	},
	function:  "burn",
	reference: burnSteps,
}

// GetStepBurnerExample provides an example consuming as many steps as its
// argument on top of the cost of the call. It allows tests to control the
// resources, and thus the fee, of a transaction.
func GetStepBurnerExample() Example {
	return stepBurnerSpec.build()
}

func burnSteps(x int) int {
	return x
}

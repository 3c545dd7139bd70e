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

// This example represents the cheapest possible call: the argument is
// returned as is, so only the fixed overhead of a call is charged.
var staticOverheadSpec = exampleSpec{
	Name: "static_overhead",
	program: native.Program{
		"identity": intFunction(0, func(_ *native.Context, x int) (int, error) {
			return x, nil
		}),
	},
	function:  "identity",
	reference: StaticOverheadRef,
}

func GetStaticOverheadExample() Example {
	return staticOverheadSpec.build()
}

func StaticOverheadRef(x int) int {
	return x
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/Fantom-foundation/Rollbox/go/examples"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/vm/native/erc20"
	"github.com/naoina/toml"
	"golang.org/x/exp/maps"
)

// Scenario is a sequence of sandbox operations read from a TOML file:
//
//	[[step]]
//	action = "deploy"
//	class = "counter"
//	name = "c"
//	calldata = ["5"]
//
//	[[step]]
//	action = "invoke"
//	contract = "c"
//	selector = "increase"
//	calldata = ["1"]
type Scenario struct {
	Steps []Step `toml:"step"`
}

// Step is a single operation of a scenario. The fields used depend on the
// action; numeric values are decimal or 0x-prefixed hex strings.
type Step struct {
	// Action is one of declare, deploy, invoke, call, send_message_to_l2,
	// consume_message and block.
	Action string `toml:"action"`
	// Class names a known contract class for declare and deploy steps.
	Class string `toml:"class"`
	// Name is the alias under which a deployed contract can be referenced
	// by later steps.
	Name string `toml:"name"`
	// Contract is an alias or an address.
	Contract  string   `toml:"contract"`
	Address   string   `toml:"address"`
	Selector  string   `toml:"selector"`
	Calldata  []string `toml:"calldata"`
	Salt      string   `toml:"salt"`
	MaxFee    string   `toml:"max_fee"`
	Nonce     string   `toml:"nonce"`
	From      string   `toml:"from"`
	To        string   `toml:"to"`
	Payload   []string `toml:"payload"`
	Timestamp uint64   `toml:"timestamp"`
	GasPrice  string   `toml:"gas_price"`
	// ExpectError marks steps that must fail.
	ExpectError bool `toml:"expect_error"`
}

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadScenario(path string) (*Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res := &Scenario{}
	if err := tomlSettings.NewDecoder(file).Decode(res); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return res, nil
}

// knownClasses lists the contract classes scenarios can refer to by name.
func knownClasses() map[string]*rollup.ContractClass {
	res := map[string]*rollup.ContractClass{
		"erc20":   erc20.Class(),
		"counter": examples.CounterClass(),
		"bridge":  examples.BridgeClass(),
	}
	for _, example := range examples.GetAllExamples() {
		res[example.Name] = example.Class()
	}
	return res
}

func lookupClass(name string) (*rollup.ContractClass, error) {
	classes := knownClasses()
	class, found := classes[name]
	if !found {
		return nil, fmt.Errorf("unknown class %q, use one of: %v", name, maps.Keys(classes))
	}
	return class, nil
}

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
	"encoding/json"
	"fmt"
)

// EntryPoint binds a selector to a function of a class.
type EntryPoint struct {
	Selector Selector `json:"selector"`
	Name     string   `json:"name"`
}

// ContractClass is a declarable unit of contract code. The Program names the
// implementation run by the ContractVM; EntryPoints lists the functions that
// may be reached from outside, grouped by how they are reached.
type ContractClass struct {
	Program     string                          `json:"program"`
	EntryPoints map[EntryPointType][]EntryPoint `json:"entry_points_by_type"`
	Abi         json.RawMessage                 `json:"abi,omitempty"`
}

// NewContractClass creates a class for the given program whose entry points
// are derived from their names.
func NewContractClass(program string, entryPoints map[EntryPointType][]string) *ContractClass {
	res := &ContractClass{
		Program:     program,
		EntryPoints: map[EntryPointType][]EntryPoint{},
	}
	for typ, names := range entryPoints {
		for _, name := range names {
			res.EntryPoints[typ] = append(res.EntryPoints[typ], EntryPoint{
				Selector: SelectorFromName(name),
				Name:     name,
			})
		}
	}
	return res
}

// FindEntryPoint looks up the entry point of the given type and selector.
func (c *ContractClass) FindEntryPoint(typ EntryPointType, selector Selector) (EntryPoint, bool) {
	for _, ep := range c.EntryPoints[typ] {
		if ep.Selector == selector {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// HasConstructor reports whether the class defines a constructor.
func (c *ContractClass) HasConstructor() bool {
	return len(c.EntryPoints[Constructor]) > 0
}

// Encode produces the canonical serialization of the class. Equal classes
// have equal encodings.
func (c *ContractClass) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// DecodeContractClass parses a class serialized by Encode.
func DecodeContractClass(data []byte) (*ContractClass, error) {
	res := &ContractClass{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("invalid contract class: %w", err)
	}
	if res.Program == "" {
		return nil, fmt.Errorf("invalid contract class: missing program")
	}
	return res, nil
}

// Clone creates an independent copy of c.
func (c *ContractClass) Clone() *ContractClass {
	if c == nil {
		return nil
	}
	res := &ContractClass{
		Program:     c.Program,
		EntryPoints: make(map[EntryPointType][]EntryPoint, len(c.EntryPoints)),
	}
	for typ, eps := range c.EntryPoints {
		res.EntryPoints[typ] = append([]EntryPoint(nil), eps...)
	}
	if c.Abi != nil {
		res.Abi = append(json.RawMessage(nil), c.Abi...)
	}
	return res
}

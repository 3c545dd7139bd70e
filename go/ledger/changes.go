// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"maps"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// slot addresses a single storage cell of a contract.
type slot struct {
	address rollup.Address
	key     rollup.Key
}

// changeSet is a collection of ledger updates. Snapshots buffer their
// writes in a changeSet and the canonical state keeps its committed data in
// one.
type changeSet struct {
	storage     map[slot]rollup.Felt
	classHashes map[rollup.Address]rollup.ClassHash
	nonces      map[rollup.Address]rollup.Felt
	classes     map[rollup.ClassHash]*rollup.ContractClass
}

func newChangeSet() *changeSet {
	return &changeSet{
		storage:     map[slot]rollup.Felt{},
		classHashes: map[rollup.Address]rollup.ClassHash{},
		nonces:      map[rollup.Address]rollup.Felt{},
		classes:     map[rollup.ClassHash]*rollup.ContractClass{},
	}
}

// mergeInto applies all updates of c to target, overriding previous values.
func (c *changeSet) mergeInto(target *changeSet) {
	maps.Copy(target.storage, c.storage)
	maps.Copy(target.classHashes, c.classHashes)
	maps.Copy(target.nonces, c.nonces)
	maps.Copy(target.classes, c.classes)
}

func (c *changeSet) clone() *changeSet {
	res := &changeSet{
		storage:     maps.Clone(c.storage),
		classHashes: maps.Clone(c.classHashes),
		nonces:      maps.Clone(c.nonces),
		classes:     make(map[rollup.ClassHash]*rollup.ContractClass, len(c.classes)),
	}
	for hash, class := range c.classes {
		res.classes[hash] = class.Clone()
	}
	return res
}

func (c *changeSet) isEmpty() bool {
	return len(c.storage) == 0 &&
		len(c.classHashes) == 0 &&
		len(c.nonces) == 0 &&
		len(c.classes) == 0
}

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
	"bytes"
	"fmt"
	"sort"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// Equal reports whether two states hold the same committed content. Zero
// valued entries are ignored, as they are indistinguishable from missing
// ones. Versions are not compared.
func (s *State) Equal(other *State) bool {
	diff, err := s.Diff(other)
	return err == nil && len(diff) == 0
}

// Diff lists the differences between the committed content of two states
// in a stable order.
func (s *State) Diff(other *State) ([]string, error) {
	var res []string
	if s.blockInfo != other.blockInfo {
		res = append(res, fmt.Sprintf("different block info: %+v != %+v", s.blockInfo, other.blockInfo))
	}
	res = append(res, diffMaps("storage/", s.committed.storage, other.committed.storage,
		func(k slot, a, b rollup.Felt) []string {
			if a == b {
				return nil
			}
			return []string{fmt.Sprintf("different value for %v/%v: %v != %v", k.address, k.key, a, b)}
		})...)
	res = append(res, diffMaps("contracts/", s.committed.classHashes, other.committed.classHashes,
		func(k rollup.Address, a, b rollup.ClassHash) []string {
			if a == b {
				return nil
			}
			return []string{fmt.Sprintf("different class at %v: %v != %v", k, a, b)}
		})...)
	res = append(res, diffMaps("nonces/", s.committed.nonces, other.committed.nonces,
		func(k rollup.Address, a, b rollup.Felt) []string {
			if a == b {
				return nil
			}
			return []string{fmt.Sprintf("different nonce of %v: %v != %v", k, a, b)}
		})...)

	own, err := readAll(s.backend)
	if err != nil {
		return nil, err
	}
	others, err := readAll(other.backend)
	if err != nil {
		return nil, err
	}
	res = append(res, diffMaps("backend/", own, others, func(k string, a, b []byte) []string {
		if bytes.Equal(a, b) {
			return nil
		}
		return []string{fmt.Sprintf("different entry for key 0x%x", k)}
	})...)

	sort.Strings(res)
	return res, nil
}

func readAll(storage rollup.Storage) (map[string][]byte, error) {
	res := map[string][]byte{}
	err := storage.ForEach(func(key, value []byte) error {
		res[string(key)] = bytes.Clone(value)
		return nil
	})
	return res, err
}

// diffMaps compares two maps and returns a list of differences. Entries
// missing in one map are compared against the zero value.
func diffMaps[K comparable, V any](prefix string, a, b map[K]V, diff func(K, V, V) []string) []string {
	var diffs []string
	for k, v := range a {
		diffs = append(diffs, diff(k, v, b[k])...)
	}
	for k, v := range b {
		if _, overlap := a[k]; !overlap {
			diffs = append(diffs, diff(k, a[k], v)...)
		}
	}
	for i, diff := range diffs {
		diffs[i] = prefix + diff
	}
	return diffs
}

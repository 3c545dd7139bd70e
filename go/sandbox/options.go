// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sandbox

import (
	"github.com/Fantom-foundation/Rollbox/go/logger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

type options struct {
	config  *rollup.GeneralConfig
	storage rollup.Storage
	vm      rollup.ContractVM
	log     logger.Logger
	seed    []uint64
}

// Option customizes a sandbox created by Empty.
type Option func(*options)

// WithConfig replaces the default rollup configuration.
func WithConfig(config *rollup.GeneralConfig) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithStorage sets the backend holding declared classes. The sandbox takes
// ownership of it and closes it on Close.
func WithStorage(storage rollup.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithVM replaces the native contract VM.
func WithVM(vm rollup.ContractVM) Option {
	return func(o *options) {
		o.vm = vm
	}
}

func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSeed makes the salts of deployments without an explicit salt
// reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = []uint64{seed}
	}
}

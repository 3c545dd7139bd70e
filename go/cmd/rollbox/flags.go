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
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/urfave/cli/v2"
)

type configFlagType struct {
	cli.PathFlag
}

var ConfigFlag = &configFlagType{
	cli.PathFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML file with the rollup configuration, defaults are used if not set",
	},
}

// Fetch loads the configuration named by the flag.
func (f *configFlagType) Fetch(context *cli.Context) (*rollup.GeneralConfig, error) {
	path := context.Path(f.Name)
	if path == "" {
		return rollup.DefaultConfig(), nil
	}
	return rollup.LoadConfig(path)
}

type seedFlagType struct {
	cli.Uint64Flag
}

var SeedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "seed for the random salts of deployments",
	},
}

// Fetch returns the seed and whether it was set explicitly.
func (f *seedFlagType) Fetch(context *cli.Context) (uint64, bool) {
	return context.Uint64(f.Name), context.IsSet(f.Name)
}

type gasPriceFlagType struct {
	cli.StringFlag
}

var GasPriceFlag = &gasPriceFlagType{
	cli.StringFlag{
		Name:  "gas-price",
		Usage: "L1 gas price in the smallest unit of the fee token",
		Value: rollup.DefaultGasPrice.ToUint256().Dec(),
	},
}

func (f *gasPriceFlagType) Fetch(context *cli.Context) (rollup.Felt, error) {
	return rollup.ParseFelt(context.String(f.Name))
}

var L1GasFlag = &cli.Uint64Flag{
	Name:  "l1-gas",
	Usage: "L1 gas consumed on top of the resources",
}

var ArgumentFlag = &cli.IntFlag{
	Name:    "argument",
	Aliases: []string{"a"},
	Usage:   "argument passed to every example",
	Value:   10,
}

var VmFlag = &cli.StringFlag{
	Name:  "vm",
	Usage: "name of the contract VM to run the examples on",
	Value: "native",
}

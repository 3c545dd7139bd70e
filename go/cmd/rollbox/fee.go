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
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/Rollbox/go/fee"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/dsnet/golib/unitconv"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var FeeCmd = cli.Command{
	Action:    doFee,
	Name:      "fee",
	Usage:     "Computes the fee of the given resource usage",
	ArgsUsage: "<resource>=<count>...",
	Flags: []cli.Flag{
		ConfigFlag,
		GasPriceFlag,
		L1GasFlag,
	},
}

func doFee(context *cli.Context) error {
	config, err := ConfigFlag.Fetch(context)
	if err != nil {
		return err
	}
	gasPrice, err := GasPriceFlag.Fetch(context)
	if err != nil {
		return err
	}
	counters, err := parseUsage(context.Args().Slice())
	if err != nil {
		return err
	}
	usage := rollup.NewResourceUsage(counters, context.Uint64(L1GasFlag.Name))
	return printFee(context.App.Writer, config.FeeWeights, usage, gasPrice)
}

// parseUsage parses resource counters given as name=count pairs.
func parseUsage(args []string) (map[string]uint64, error) {
	res := map[string]uint64{}
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid resource usage %q, expected <resource>=<count>", arg)
		}
		count, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid count for resource %s: %w", name, err)
		}
		res[name] += count
	}
	return res, nil
}

// printFee lists the weighted usage of every resource, highlighting the one
// determining the fee, followed by the fee itself.
func printFee(w io.Writer, weights rollup.FeeWeights, usage rollup.ResourceUsage, gasPrice rollup.Felt) error {
	total, err := fee.ComputeFeeFromUsage(weights, usage, gasPrice)
	if err != nil {
		return err
	}

	names := maps.Keys(usage.Counters)
	slices.Sort(names)
	weighted := make(map[string]*uint256.Int, len(names))
	heaviest := ""
	for _, name := range names {
		weighted[name] = new(uint256.Int).Mul(uint256.NewInt(uint64(weights[name])), uint256.NewInt(usage.Counters[name]))
		if heaviest == "" || weighted[name].Gt(weighted[heaviest]) {
			heaviest = name
		}
	}

	highlight := color.New(color.FgGreen, color.Bold).SprintFunc()
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Resource", "Count", "Weight", "Weighted"})
	tbl.SetBorder(true)
	for _, name := range names {
		value := formatWeighted(weighted[name])
		if name == heaviest {
			value = highlight(value)
		}
		tbl.Append([]string{name, strconv.FormatUint(usage.Counters[name], 10), weights[name].String(), value})
	}
	tbl.Append([]string{"l1_gas", strconv.FormatUint(usage.L1GasUsage, 10), "1", strconv.FormatUint(usage.L1GasUsage, 10)})
	tbl.Render()

	amount := total.ToUint256()
	fmt.Fprintf(w, "Fee: %s (~%s)\n", amount.Dec(), unitconv.FormatPrefix(amount.Float64(), unitconv.SI, 2))
	return nil
}

// formatWeighted prints a weighted usage in the fixed-point format of fee
// weights.
func formatWeighted(value *uint256.Int) string {
	scale := uint256.NewInt(rollup.FeeWeightScale)
	integer, frac := new(uint256.Int).DivMod(value, scale, new(uint256.Int))
	if frac.IsZero() {
		return integer.Dec()
	}
	digits := fmt.Sprintf("%0*d", rollup.FeeWeightDecimals, frac.Uint64())
	return integer.Dec() + "." + strings.TrimRight(digits, "0")
}

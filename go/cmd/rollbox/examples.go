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
	"strconv"
	"time"

	"github.com/Fantom-foundation/Rollbox/go/examples"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/dsnet/golib/unitconv"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var ExamplesCmd = cli.Command{
	Action: doExamples,
	Name:   "examples",
	Usage:  "Runs the example contracts on a contract VM and compares them with their reference",
	Flags: []cli.Flag{
		VmFlag,
		ArgumentFlag,
	},
}

func doExamples(context *cli.Context) error {
	name := context.String(VmFlag.Name)
	if rollup.GetContractVMFactory(name) == nil {
		return fmt.Errorf("unknown VM %q, use one of: %v", name, maps.Keys(rollup.GetAllRegisteredContractVMs()))
	}
	vm, err := rollup.NewContractVM(name)
	if err != nil {
		return err
	}
	return runExamples(context.App.Writer, vm, context.Int(ArgumentFlag.Name))
}

// runExamples runs every example once and reports results, consumed steps
// and execution speed. It fails if any example disagrees with its
// reference.
func runExamples(w io.Writer, vm rollup.ContractVM, argument int) error {
	mismatch := color.New(color.FgRed, color.Bold).SprintFunc()
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Example", "Argument", "Result", "Reference", "Steps", "Steps/s"})
	tbl.SetBorder(true)

	failures := 0
	for _, example := range examples.GetAllExamples() {
		start := time.Now()
		result, err := example.RunOn(vm, argument)
		duration := time.Since(start)
		if err != nil {
			return fmt.Errorf("failed to run example %s: %w", example.Name, err)
		}
		reference := strconv.Itoa(example.RunReference(argument))
		if result.Result != example.RunReference(argument) {
			reference = mismatch(reference)
			failures++
		}
		rate := float64(result.UsedSteps) / duration.Seconds()
		tbl.Append([]string{
			example.Name,
			strconv.Itoa(argument),
			strconv.Itoa(result.Result),
			reference,
			strconv.FormatUint(result.UsedSteps, 10),
			unitconv.FormatPrefix(rate, unitconv.SI, 1),
		})
	}
	tbl.Render()

	if failures > 0 {
		return fmt.Errorf("%d examples produced wrong results", failures)
	}
	return nil
}

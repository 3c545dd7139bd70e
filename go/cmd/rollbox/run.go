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
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Fantom-foundation/Rollbox/go/logger"
	"github.com/Fantom-foundation/Rollbox/go/processor"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/sandbox"
	"github.com/dsnet/golib/unitconv"
	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Runs a scenario of transactions on an empty sandbox",
	ArgsUsage: "<scenario.toml>",
	Flags: []cli.Flag{
		ConfigFlag,
		SeedFlag,
	},
}

func doRun(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected a single scenario file")
	}
	scenario, err := loadScenario(context.Args().First())
	if err != nil {
		return err
	}
	config, err := ConfigFlag.Fetch(context)
	if err != nil {
		return err
	}
	opts := []sandbox.Option{
		sandbox.WithConfig(config),
		sandbox.WithLogger(logger.NewLogger(context.String(logger.LogLevelFlag.Name), "rollbox")),
	}
	if seed, set := SeedFlag.Fetch(context); set {
		opts = append(opts, sandbox.WithSeed(seed))
	}
	sb, err := sandbox.Empty(opts...)
	if err != nil {
		return err
	}
	defer sb.Close()

	runner := newScenarioRunner(sb, context.App.Writer)
	if err := runner.run(context.Context, scenario); err != nil {
		return err
	}
	runner.report()
	return nil
}

type scenarioRunner struct {
	sandbox  *sandbox.Sandbox
	out      io.Writer
	aliases  map[string]rollup.Address
	totalFee *uint256.Int
}

func newScenarioRunner(sb *sandbox.Sandbox, out io.Writer) *scenarioRunner {
	return &scenarioRunner{
		sandbox:  sb,
		out:      out,
		aliases:  map[string]rollup.Address{},
		totalFee: new(uint256.Int),
	}
}

// run executes all steps in order. It stops at the first step whose outcome
// differs from its expectation.
func (r *scenarioRunner) run(ctx context.Context, scenario *Scenario) error {
	ok := color.New(color.FgGreen).SprintFunc()
	failed := color.New(color.FgRed, color.Bold).SprintFunc()
	for i, step := range scenario.Steps {
		summary, err := r.apply(ctx, step)
		switch {
		case err == nil && !step.ExpectError:
			fmt.Fprintf(r.out, "%3d %-18s %s %s\n", i, step.Action, ok("ok"), summary)
		case err != nil && step.ExpectError:
			fmt.Fprintf(r.out, "%3d %-18s %s %v\n", i, step.Action, ok("failed as expected"), err)
		case err != nil:
			fmt.Fprintf(r.out, "%3d %-18s %s %v\n", i, step.Action, failed("failed"), err)
			return fmt.Errorf("step %d failed: %w", i, err)
		default:
			fmt.Fprintf(r.out, "%3d %-18s %s\n", i, step.Action, failed("succeeded unexpectedly"))
			return fmt.Errorf("step %d should have failed", i)
		}
	}
	return nil
}

func (r *scenarioRunner) apply(ctx context.Context, step Step) (string, error) {
	switch step.Action {
	case "declare":
		return r.declare(ctx, step)
	case "deploy":
		return r.deploy(ctx, step)
	case "invoke":
		request, err := r.request(step)
		if err != nil {
			return "", err
		}
		info, err := r.sandbox.Invoke(ctx, request)
		if err != nil {
			return "", err
		}
		r.totalFee.Add(r.totalFee, info.ActualFee.ToUint256())
		return fmt.Sprintf("retdata %v, fee %v", info.CallInfo.Retdata, info.ActualFee.ToUint256().Dec()), nil
	case "call":
		request, err := r.request(step)
		if err != nil {
			return "", err
		}
		info, err := r.sandbox.Call(ctx, request)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("retdata %v", info.Retdata), nil
	case "send_message_to_l2":
		nonce, err := optionalFelt(step.Nonce)
		if err != nil {
			return "", err
		}
		_, err = r.sandbox.SendMessageToL2(ctx, step.From, r.address(step.To), step.Selector, loose(step.Payload), optional(step.MaxFee), nonce)
		return "", err
	case "consume_message":
		return "", r.sandbox.ConsumeMessageFromL2(r.address(step.From), step.To, loose(step.Payload))
	case "block":
		info := r.sandbox.State().BlockInfo()
		info.BlockNumber++
		info.Timestamp = step.Timestamp
		if step.GasPrice != "" {
			price, err := rollup.ParseFelt(step.GasPrice)
			if err != nil {
				return "", err
			}
			info.GasPrice = price
		}
		return fmt.Sprintf("block %d", info.BlockNumber), r.sandbox.SetBlockInfo(info)
	default:
		return "", fmt.Errorf("%w: unknown action %q", rollup.ErrValidation, step.Action)
	}
}

func (r *scenarioRunner) declare(ctx context.Context, step Step) (string, error) {
	class, err := lookupClass(step.Class)
	if err != nil {
		return "", err
	}
	params := processor.DeclareParameters{Class: class}
	if params.MaxFee, err = parseOptionalFelt(step.MaxFee); err != nil {
		return "", err
	}
	if params.Nonce, err = parseOptionalFelt(step.Nonce); err != nil {
		return "", err
	}
	if _, err := processor.NewDeclareFromParameters(params, r.sandbox.Config().ChainID); err != nil {
		return "", err
	}
	hash, _, err := r.sandbox.Declare(ctx, class)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("class %v", hash), nil
}

func (r *scenarioRunner) deploy(ctx context.Context, step Step) (string, error) {
	class, err := lookupClass(step.Class)
	if err != nil {
		return "", err
	}
	var address rollup.Address
	if step.Address != "" {
		address, _, err = r.sandbox.Predeploy(ctx, class, step.Address, loose(step.Calldata))
	} else {
		address, _, err = r.sandbox.Deploy(ctx, class, loose(step.Calldata), optional(step.Salt))
	}
	if err != nil {
		return "", err
	}
	if step.Name != "" {
		if _, found := r.aliases[step.Name]; found {
			return "", fmt.Errorf("%w: duplicate contract name %q", rollup.ErrValidation, step.Name)
		}
		r.aliases[step.Name] = address
	}
	return fmt.Sprintf("contract %v", address), nil
}

func (r *scenarioRunner) request(step Step) (sandbox.InvokeRequest, error) {
	nonce, err := optionalFelt(step.Nonce)
	if err != nil {
		return sandbox.InvokeRequest{}, err
	}
	return sandbox.InvokeRequest{
		ContractAddress: r.address(step.Contract),
		Selector:        step.Selector,
		Calldata:        loose(step.Calldata),
		MaxFee:          optional(step.MaxFee),
		Nonce:           nonce,
	}, nil
}

// address resolves contract aliases. Anything else is left to the sandbox
// to parse.
func (r *scenarioRunner) address(value string) any {
	if address, found := r.aliases[value]; found {
		return address
	}
	return value
}

// report prints the messages and events recorded by the outbox.
func (r *scenarioRunner) report() {
	outbox := r.sandbox.Outbox()

	messages := tablewriter.NewWriter(r.out)
	messages.SetHeader([]string{"From", "To", "Payload", "Outstanding"})
	messages.SetBorder(true)
	for _, msg := range outbox.Messages() {
		count := outbox.Count(msg.Hash())
		messages.Append([]string{msg.FromAddress.String(), msg.ToAddress.String(), fmt.Sprint(msg.Payload), strconv.FormatUint(count, 10)})
	}
	messages.Render()

	events := tablewriter.NewWriter(r.out)
	events.SetHeader([]string{"From", "Keys", "Data"})
	events.SetBorder(true)
	for _, event := range outbox.Events() {
		events.Append([]string{event.FromAddress.String(), fmt.Sprint(event.Keys), fmt.Sprint(event.Data)})
	}
	events.Render()

	bold := color.New(color.Bold).SprintfFunc()
	fmt.Fprintf(r.out, "Transactions: %s\n", bold("%d", r.sandbox.State().Version()))
	fmt.Fprintf(r.out, "Total fee:    %s\n", bold("%s (~%s)", r.totalFee.Dec(), unitconv.FormatPrefix(r.totalFee.Float64(), unitconv.SI, 2)))
}

func loose(values []string) []any {
	res := make([]any, len(values))
	for i, v := range values {
		res[i] = v
	}
	return res
}

// optional maps empty strings to nil, which the sandbox treats as unset.
func optional(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func optionalFelt(value string) (*rollup.Felt, error) {
	if value == "" {
		return nil, nil
	}
	res, err := rollup.ParseFelt(value)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func parseOptionalFelt(value string) (rollup.Felt, error) {
	if value == "" {
		return rollup.Felt{}, nil
	}
	return rollup.ParseFelt(value)
}

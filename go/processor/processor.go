// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package processor applies transactions to the ledger. Every transaction
// runs in its own scope which is committed only if the transaction succeeds
// as a whole, including the charging of its fee.
package processor

import (
	"context"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/logger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

//go:generate mockgen -source processor.go -destination processor_mock.go -package processor

// Publisher receives the execution information of committed transactions,
// in commit order.
type Publisher interface {
	Publish(info *rollup.ExecutionInfo)
}

// environment bundles the collaborators shared by all transactions.
type environment struct {
	vm     rollup.ContractVM
	config *rollup.GeneralConfig
	log    logger.Logger
}

// Processor applies transactions using a contract VM and a fixed
// configuration. It holds no state of its own; the ledger is passed to
// every operation.
type Processor struct {
	env environment
}

// New creates a processor. A nil logger discards all messages.
func New(vm rollup.ContractVM, config *rollup.GeneralConfig, log logger.Logger) *Processor {
	if log == nil {
		log = logger.NewDiscardLogger("processor")
	}
	return &Processor{env: environment{vm: vm, config: config, log: log}}
}

// Apply executes the transaction on a new scope of the given state. The
// scope is committed only if the transaction succeeds, in which case the
// result is handed to the publisher, if any. On failure the state is left
// unchanged and nothing is published.
func (p *Processor) Apply(ctx context.Context, state ledger.Scope, publisher Publisher, tx Transaction) (*rollup.ExecutionInfo, error) {
	var info *rollup.ExecutionInfo
	err := ledger.Apply(state, func(scope *ledger.Snapshot) error {
		var err error
		info, err = tx.apply(ctx, &p.env, scope)
		return err
	})
	if err != nil {
		p.env.log.Warningf("%v transaction %v failed: %v", tx.Type(), tx.Hash(), err)
		return nil, err
	}
	p.env.log.Debugf("%v transaction %v applied, fee %v", tx.Type(), tx.Hash(), info.ActualFee)
	if publisher != nil {
		publisher.Publish(info)
	}
	return info, nil
}

// Query runs the invocation on a disposable fork of the state and returns
// the outcome of the call. Neither the state nor any outbox is modified,
// nonces are not checked and no fee is charged.
func (p *Processor) Query(ctx context.Context, state ledger.Scope, tx *InvokeFunction) (*rollup.CallInfo, error) {
	scope, err := ledger.ForkForQuery(state)
	if err != nil {
		return nil, err
	}
	defer scope.Discard()
	return tx.execute(ctx, &p.env, scope, tx.transactionContext(p.env.config))
}

// Config returns the configuration the processor was created with.
func (p *Processor) Config() *rollup.GeneralConfig {
	return p.env.config
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package sandbox provides an in-memory rollup for testing contracts. A
// sandbox owns a ledger state, an outbox of L2-to-L1 messages and events,
// and processes declare, deploy and invoke transactions atomically on top
// of them. Messages from the parent chain are simulated by invoking L1
// handlers.
package sandbox

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/logger"
	"github.com/Fantom-foundation/Rollbox/go/outbox"
	"github.com/Fantom-foundation/Rollbox/go/processor"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
	"github.com/Fantom-foundation/Rollbox/go/storage"
	"github.com/Fantom-foundation/Rollbox/go/vm/native"
	"github.com/Fantom-foundation/Rollbox/go/vm/native/erc20"
	"github.com/holiman/uint256"
	"pgregory.net/rand"
)

// FirstL1ToL2Nonce is the nonce of the first message sent to the rollup
// without an explicit nonce. Lower nonces remain available to callers
// relaying messages with their own numbering.
var FirstL1ToL2Nonce = new(uint256.Int).Lsh(uint256.NewInt(1), 128)

// Sandbox is a single-threaded rollup instance. It is not safe for
// concurrent use; independent instances created by Clone share no state.
type Sandbox struct {
	config      *rollup.GeneralConfig
	vm          rollup.ContractVM
	log         logger.Logger
	state       *ledger.State
	outbox      *outbox.Ledger
	processor   *processor.Processor
	rand        *rand.Rand
	l1ToL2Nonce *uint256.Int
}

// Empty creates a sandbox with an empty state. The fee token of the
// configuration is deployed at genesis.
func Empty(opts ...Option) (*Sandbox, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = rollup.DefaultConfig()
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.log == nil {
		o.log = logger.NewDiscardLogger("sandbox")
	}
	if o.vm == nil {
		vm, err := rollup.NewContractVM("native", native.Config{Logger: o.log})
		if err != nil {
			return nil, err
		}
		o.vm = vm
	}
	if o.storage == nil {
		backend, err := storage.NewMemory()
		if err != nil {
			return nil, err
		}
		o.storage = backend
	}

	config := o.config.Clone()
	res := &Sandbox{
		config:      config,
		vm:          o.vm,
		log:         o.log,
		state:       ledger.NewState(o.storage, rollup.EmptyBlockInfo(config.GasPrice, config.SequencerAddress)),
		outbox:      outbox.New(),
		processor:   processor.New(o.vm, config, o.log),
		rand:        rand.New(o.seed...),
		l1ToL2Nonce: FirstL1ToL2Nonce.Clone(),
	}

	calldata := erc20.ConstructorCalldata("Ether", "ETH", 18)
	if _, _, err := res.predeploy(context.Background(), erc20.Class(), config.FeeTokenAddress, calldata); err != nil {
		res.Close()
		return nil, fmt.Errorf("failed to deploy fee token: %w", err)
	}
	return res, nil
}

// Clone creates an independent copy of the sandbox. Transactions applied
// to one of them are not visible in the other.
func (s *Sandbox) Clone() (*Sandbox, error) {
	state, err := s.state.Clone()
	if err != nil {
		return nil, err
	}
	rnd := *s.rand
	config := s.config.Clone()
	s.log.Debugf("cloned sandbox at version %d", state.Version())
	return &Sandbox{
		config:      config,
		vm:          s.vm,
		log:         s.log,
		state:       state,
		outbox:      s.outbox.Clone(),
		processor:   processor.New(s.vm, config, s.log),
		rand:        &rnd,
		l1ToL2Nonce: s.l1ToL2Nonce.Clone(),
	}, nil
}

// Close releases the storage backend of the sandbox.
func (s *Sandbox) Close() error {
	return s.state.Close()
}

func (s *Sandbox) State() *ledger.State {
	return s.state
}

func (s *Sandbox) Outbox() *outbox.Ledger {
	return s.outbox
}

// Config returns a copy of the configuration of the sandbox.
func (s *Sandbox) Config() *rollup.GeneralConfig {
	return s.config.Clone()
}

// SetBlockInfo starts the next block. Its number must follow the current
// one and its timestamp must not precede it. The gas price and sequencer
// of the block are used by the fee charged for later transactions.
func (s *Sandbox) SetBlockInfo(info rollup.BlockInfo) error {
	if err := s.state.BlockInfo().ValidateLegalProgress(info); err != nil {
		return err
	}
	if err := s.state.SetBlockInfo(info); err != nil {
		return err
	}
	s.log.Noticef("block %d started at %d, gas price %v", info.BlockNumber, info.Timestamp, info.GasPrice)
	return nil
}

// Declare registers a contract class and returns its hash.
func (s *Sandbox) Declare(ctx context.Context, class *rollup.ContractClass) (rollup.ClassHash, *rollup.ExecutionInfo, error) {
	tx, err := processor.NewDeclare(class, s.config.ChainID)
	if err != nil {
		return rollup.ClassHash{}, nil, err
	}
	info, err := s.processor.Apply(ctx, s.state, s.outbox, tx)
	if err != nil {
		return rollup.ClassHash{}, nil, err
	}
	return tx.ClassHash(), info, nil
}

// Deploy creates a contract of the given class at the address derived from
// the class, the constructor calldata and the salt. A nil salt is replaced
// by a random one.
func (s *Sandbox) Deploy(ctx context.Context, class *rollup.ContractClass, calldata []any, salt any) (rollup.Address, *rollup.ExecutionInfo, error) {
	felts, err := rollup.ParseFelts(calldata)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	var saltValue rollup.Felt
	if salt == nil {
		saltValue = s.randomSalt()
	} else if saltValue, err = rollup.ParseHexFelt(salt); err != nil {
		return rollup.Address{}, nil, err
	}
	tx, err := processor.NewDeploy(class, saltValue, felts, s.config.ChainID)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	info, err := s.processor.Apply(ctx, s.state, s.outbox, tx)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	return tx.Address(), info, nil
}

// Predeploy creates a contract at a fixed address, as done for system
// contracts at genesis.
func (s *Sandbox) Predeploy(ctx context.Context, class *rollup.ContractClass, address any, calldata []any) (rollup.Address, *rollup.ExecutionInfo, error) {
	target, err := rollup.ParseAddress(address)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	felts, err := rollup.ParseFelts(calldata)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	return s.predeploy(ctx, class, target, felts)
}

func (s *Sandbox) predeploy(ctx context.Context, class *rollup.ContractClass, address rollup.Address, calldata []rollup.Felt) (rollup.Address, *rollup.ExecutionInfo, error) {
	tx, err := processor.NewPredeploy(class, address, calldata, s.config.ChainID)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	info, err := s.processor.Apply(ctx, s.state, s.outbox, tx)
	if err != nil {
		return rollup.Address{}, nil, err
	}
	return address, info, nil
}

// Invoke executes an external entry point and commits its effects, its
// messages and its events if it succeeds.
func (s *Sandbox) Invoke(ctx context.Context, request InvokeRequest) (*rollup.ExecutionInfo, error) {
	tx, err := request.build(rollup.External, s.config.ChainID)
	if err != nil {
		return nil, err
	}
	return s.processor.Apply(ctx, s.state, s.outbox, tx)
}

// Call executes an external entry point without modifying the sandbox.
func (s *Sandbox) Call(ctx context.Context, request InvokeRequest) (*rollup.CallInfo, error) {
	tx, err := request.build(rollup.External, s.config.ChainID)
	if err != nil {
		return nil, err
	}
	return s.processor.Query(ctx, s.state, tx)
}

// SendMessageToL2 delivers a message from the parent chain by invoking the
// L1 handler selected on the target contract. The sender is passed as the
// first calldata element. Without an explicit nonce, messages are numbered
// consecutively starting at FirstL1ToL2Nonce.
func (s *Sandbox) SendMessageToL2(ctx context.Context, from, to, selector any, payload []any, maxFee any, nonce *rollup.Felt) (*rollup.ExecutionInfo, error) {
	sender, err := rollup.ParseHexFelt(from)
	if err != nil {
		return nil, err
	}
	if nonce == nil {
		next := rollup.FeltFromUint256(s.l1ToL2Nonce)
		nonce = &next
		s.l1ToL2Nonce.AddUint64(s.l1ToL2Nonce, 1)
	}
	request := InvokeRequest{
		ContractAddress: to,
		Selector:        selector,
		Calldata:        append([]any{sender}, payload...),
		MaxFee:          maxFee,
		Nonce:           nonce,
	}
	tx, err := request.build(rollup.L1Handler, s.config.ChainID)
	if err != nil {
		return nil, err
	}
	return s.processor.Apply(ctx, s.state, s.outbox, tx)
}

// ConsumeMessage delivers one outstanding instance of the message with the
// given hash to the parent chain.
func (s *Sandbox) ConsumeMessage(hash rollup.Hash) error {
	return s.outbox.Consume(hash)
}

// ConsumeMessageFromL2 delivers one outstanding instance of the message
// with the given content to the parent chain.
func (s *Sandbox) ConsumeMessageFromL2(from, to any, payload []any) error {
	sender, err := rollup.ParseAddress(from)
	if err != nil {
		return err
	}
	recipient, err := rollup.ParseHexFelt(to)
	if err != nil {
		return err
	}
	felts, err := rollup.ParseFelts(payload)
	if err != nil {
		return err
	}
	return s.ConsumeMessage(rollup.MessageHash(sender, recipient, felts))
}

// randomSalt draws a salt below the address bound.
func (s *Sandbox) randomSalt() rollup.Felt {
	salt := uint256.Int{s.rand.Uint64(), s.rand.Uint64(), s.rand.Uint64(), s.rand.Uint64()}
	salt[3] &= 1<<(251-192) - 1
	return rollup.FeltFromUint256(&salt)
}

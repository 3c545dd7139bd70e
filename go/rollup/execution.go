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
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// EntryPointType distinguishes the ways an entry point of a class may be
// reached.
type EntryPointType int

const (
	External EntryPointType = iota
	L1Handler
	Constructor
)

func (t EntryPointType) String() string {
	switch t {
	case External:
		return "EXTERNAL"
	case L1Handler:
		return "L1_HANDLER"
	case Constructor:
		return "CONSTRUCTOR"
	default:
		return "UNKNOWN"
	}
}

func (t EntryPointType) MarshalText() ([]byte, error) {
	switch t {
	case External, L1Handler, Constructor:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("invalid entry point type: %d", int(t))
}

func (t *EntryPointType) UnmarshalText(data []byte) error {
	switch strings.ToUpper(string(data)) {
	case "EXTERNAL":
		*t = External
	case "L1_HANDLER":
		*t = L1Handler
	case "CONSTRUCTOR":
		*t = Constructor
	default:
		return fmt.Errorf("invalid entry point type: %s", data)
	}
	return nil
}

// CallType distinguishes regular calls from library calls, which run the
// code of a class in the context of the calling contract.
type CallType int

const (
	Call CallType = iota
	LibraryCall
)

func (t CallType) String() string {
	switch t {
	case Call:
		return "call"
	case LibraryCall:
		return "library_call"
	default:
		return "unknown"
	}
}

// CallRequest describes a single entry point invocation handed to a
// ContractVM.
type CallRequest struct {
	Type            CallType
	CallerAddress   Address
	ContractAddress Address
	// ClassHash selects the code of library calls. It is ignored for
	// regular calls, which run the class bound to ContractAddress.
	ClassHash      ClassHash
	Selector       Selector
	EntryPointType EntryPointType
	Calldata       []Felt
}

// ExecutionResources are the VM counters consumed by a single call,
// excluding the calls it made itself.
type ExecutionResources struct {
	Steps       uint64            `json:"n_steps"`
	MemoryHoles uint64            `json:"n_memory_holes"`
	Builtins    map[string]uint64 `json:"builtin_instance_counter"`
}

// StepsResource is the name under which VM steps are weighted.
const StepsResource = "n_steps"

// Usage returns the counters of r keyed by fee weight name.
func (r ExecutionResources) Usage() map[string]uint64 {
	res := make(map[string]uint64, len(r.Builtins)+1)
	for name, count := range r.Builtins {
		res[name] = count
	}
	res[StepsResource] = r.Steps
	return res
}

func (r ExecutionResources) Clone() ExecutionResources {
	res := r
	if r.Builtins != nil {
		res.Builtins = maps.Clone(r.Builtins)
	}
	return res
}

// ResourceUsage is the aggregated resource consumption of a transaction.
// Values created through NewResourceUsage do not share their counters with
// the caller and are not modified afterwards.
type ResourceUsage struct {
	Counters   map[string]uint64
	L1GasUsage uint64
}

func NewResourceUsage(counters map[string]uint64, l1GasUsage uint64) ResourceUsage {
	res := make(map[string]uint64, len(counters))
	for name, count := range counters {
		res[name] = count
	}
	return ResourceUsage{Counters: res, L1GasUsage: l1GasUsage}
}

// Names lists the counter names of u in lexical order.
func (u ResourceUsage) Names() []string {
	names := maps.Keys(u.Counters)
	sort.Strings(names)
	return names
}

// MessageToL1 is a message sent from a contract on the rollup to a contract
// on the parent chain.
type MessageToL1 struct {
	// Order is the position of the message among all messages emitted by the
	// same transaction.
	Order       int     `json:"order"`
	FromAddress Address `json:"from_address"`
	ToAddress   Felt    `json:"to_address"`
	Payload     []Felt  `json:"payload"`
}

// Event is emitted by a contract during a transaction.
type Event struct {
	// Order is the position of the event among all events emitted by the
	// same transaction.
	Order       int     `json:"order"`
	FromAddress Address `json:"from_address"`
	Keys        []Felt  `json:"keys"`
	Data        []Felt  `json:"data"`
}

// CallInfo is the outcome of a single call and, recursively, of every call
// it issued.
type CallInfo struct {
	CallType        CallType           `json:"call_type"`
	CallerAddress   Address            `json:"caller_address"`
	ContractAddress Address            `json:"contract_address"`
	ClassHash       ClassHash          `json:"class_hash"`
	Selector        Selector           `json:"entry_point_selector"`
	EntryPointType  EntryPointType     `json:"entry_point_type"`
	Calldata        []Felt             `json:"calldata"`
	Retdata         []Felt             `json:"retdata"`
	Resources       ExecutionResources `json:"execution_resources"`
	// L1GasUsage is gas on the parent chain reported by the VM for this
	// call alone, in addition to the cost of its messages.
	L1GasUsage    uint64        `json:"l1_gas_usage"`
	Events        []Event       `json:"events"`
	Messages      []MessageToL1 `json:"l2_to_l1_messages"`
	InternalCalls []*CallInfo   `json:"internal_calls"`
}

// Walk visits c and all of its internal calls in depth-first pre-order.
// A nil CallInfo is not visited.
func (c *CallInfo) Walk(visit func(*CallInfo)) {
	if c == nil {
		return
	}
	visit(c)
	for _, inner := range c.InternalCalls {
		inner.Walk(visit)
	}
}

// TransactionType enumerates the supported transaction kinds.
type TransactionType int

const (
	Declare TransactionType = iota
	Deploy
	InvokeFunction
)

func (t TransactionType) String() string {
	switch t {
	case Declare:
		return "DECLARE"
	case Deploy:
		return "DEPLOY"
	case InvokeFunction:
		return "INVOKE_FUNCTION"
	default:
		return "UNKNOWN"
	}
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ExecutionInfo summarizes a successfully applied transaction.
type ExecutionInfo struct {
	TransactionHash Hash            `json:"transaction_hash"`
	Type            TransactionType `json:"type"`
	CallInfo        *CallInfo       `json:"call_info"`
	// FeeTransferInfo is nil if no fee was charged.
	FeeTransferInfo *CallInfo `json:"fee_transfer_info"`
	ActualFee       Felt      `json:"actual_fee"`
}

// CallInfos returns the non-nil call trees of the transaction, the executed
// call first.
func (e *ExecutionInfo) CallInfos() []*CallInfo {
	res := make([]*CallInfo, 0, 2)
	for _, c := range []*CallInfo{e.CallInfo, e.FeeTransferInfo} {
		if c != nil {
			res = append(res, c)
		}
	}
	return res
}

// SortedMessages lists all L2-to-L1 messages of the transaction in the order
// they were emitted.
func (e *ExecutionInfo) SortedMessages() []MessageToL1 {
	var res []MessageToL1
	for _, root := range e.CallInfos() {
		root.Walk(func(c *CallInfo) {
			res = append(res, c.Messages...)
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Order < res[j].Order
	})
	return res
}

// SortedEvents lists all events of the transaction in the order they were
// emitted.
func (e *ExecutionInfo) SortedEvents() []Event {
	var res []Event
	for _, root := range e.CallInfos() {
		root.Walk(func(c *CallInfo) {
			res = append(res, c.Events...)
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Order < res[j].Order
	})
	return res
}

// TransactionContext carries the transaction-level information visible to
// all calls of a transaction. It also hands out the emission order of
// events and messages, which is shared by every call of the transaction.
type TransactionContext struct {
	AccountAddress  Address
	TransactionHash Hash
	Signature       []Felt
	MaxFee          Felt
	Nonce           Felt
	Version         uint64
	// MaxSteps bounds the steps of the whole transaction. Zero means
	// unbounded.
	MaxSteps uint64

	nextEvent   int
	nextMessage int
	steps       uint64
}

// ConsumeSteps charges n steps to the budget of the transaction. The result
// is false once the steps used so far exceed MaxSteps.
func (c *TransactionContext) ConsumeSteps(n uint64) bool {
	if c.steps+n < c.steps {
		c.steps = math.MaxUint64
	} else {
		c.steps += n
	}
	return c.MaxSteps == 0 || c.steps <= c.MaxSteps
}

// StepsUsed returns the number of steps consumed by the transaction so far.
func (c *TransactionContext) StepsUsed() uint64 {
	return c.steps
}

// ResetSteps starts a new step budget. The emission order of events and
// messages is kept.
func (c *TransactionContext) ResetSteps() {
	c.steps = 0
}

// NextEventOrder returns the order index for the next emitted event.
func (c *TransactionContext) NextEventOrder() int {
	res := c.nextEvent
	c.nextEvent++
	return res
}

// NextMessageOrder returns the order index for the next emitted message.
func (c *TransactionContext) NextMessageOrder() int {
	res := c.nextMessage
	c.nextMessage++
	return res
}

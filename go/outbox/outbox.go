// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package outbox keeps track of the messages sent from the rollup to its
// parent chain and of the events emitted by committed transactions.
package outbox

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// Ledger records L2-to-L1 messages and events in the order they were
// committed. Every recorded message may be consumed exactly once on the
// parent chain; the ledger counts the outstanding instances per message
// hash.
type Ledger struct {
	outstanding map[rollup.Hash]uint64
	messages    []rollup.MessageToL1
	events      []rollup.Event
}

func New() *Ledger {
	return &Ledger{
		outstanding: map[rollup.Hash]uint64{},
	}
}

// RecordMessage appends a message to the log and makes one more instance
// of it consumable. It returns the hash of the message.
func (l *Ledger) RecordMessage(msg rollup.MessageToL1) rollup.Hash {
	msg.Payload = slices.Clone(msg.Payload)
	hash := msg.Hash()
	l.messages = append(l.messages, msg)
	l.outstanding[hash]++
	return hash
}

// RecordEvent appends an event to the log.
func (l *Ledger) RecordEvent(event rollup.Event) {
	event.Keys = slices.Clone(event.Keys)
	event.Data = slices.Clone(event.Data)
	l.events = append(l.events, event)
}

// Publish records the messages and events of a committed transaction in
// the order they were emitted.
func (l *Ledger) Publish(info *rollup.ExecutionInfo) {
	for _, msg := range info.SortedMessages() {
		l.RecordMessage(msg)
	}
	for _, event := range info.SortedEvents() {
		l.RecordEvent(event)
	}
}

// Consume marks one instance of the message with the given hash as
// delivered. It fails with ErrMessageNotConsumable if no instance is
// outstanding.
func (l *Ledger) Consume(hash rollup.Hash) error {
	count := l.outstanding[hash]
	if count == 0 {
		return fmt.Errorf("%w: no outstanding message with hash %v", rollup.ErrMessageNotConsumable, hash)
	}
	if count == 1 {
		delete(l.outstanding, hash)
	} else {
		l.outstanding[hash] = count - 1
	}
	return nil
}

// Count returns the number of outstanding instances of a message.
func (l *Ledger) Count(hash rollup.Hash) uint64 {
	return l.outstanding[hash]
}

// Messages lists all recorded messages, including consumed ones, in
// recording order.
func (l *Ledger) Messages() []rollup.MessageToL1 {
	return copyMessages(l.messages)
}

// Events lists all recorded events in recording order.
func (l *Ledger) Events() []rollup.Event {
	return copyEvents(l.events)
}

// Clone creates an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		outstanding: maps.Clone(l.outstanding),
		messages:    copyMessages(l.messages),
		events:      copyEvents(l.events),
	}
}

func copyMessages(messages []rollup.MessageToL1) []rollup.MessageToL1 {
	res := make([]rollup.MessageToL1, len(messages))
	for i, msg := range messages {
		msg.Payload = slices.Clone(msg.Payload)
		res[i] = msg
	}
	return res
}

func copyEvents(events []rollup.Event) []rollup.Event {
	res := make([]rollup.Event, len(events))
	for i, event := range events {
		event.Keys = slices.Clone(event.Keys)
		event.Data = slices.Clone(event.Data)
		res[i] = event
	}
	return res
}

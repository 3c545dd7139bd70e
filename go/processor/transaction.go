// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"context"

	"github.com/Fantom-foundation/Rollbox/go/ledger"
	"github.com/Fantom-foundation/Rollbox/go/rollup"
)

// Transaction is a request to modify the ledger. Transactions are built
// from validated parameters and applied by a Processor within a single
// scope, so they either take effect completely or not at all.
type Transaction interface {
	Type() rollup.TransactionType
	Hash() rollup.Hash
	apply(ctx context.Context, env *environment, scope *ledger.Snapshot) (*rollup.ExecutionInfo, error)
}

// Prefixes of the transaction hashes of the different transaction kinds.
const (
	declarePrefix   = "declare"
	deployPrefix    = "deploy"
	invokePrefix    = "invoke"
	l1HandlerPrefix = "l1_handler"
)

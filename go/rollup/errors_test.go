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
	"errors"
	"fmt"
	"testing"
)

func TestConstError_Error(t *testing.T) {
	const myError = ConstError("this is a constant error")
	if want, got := "this is a constant error", myError.Error(); want != got {
		t.Errorf("unexpected error message, want %q, got %q", want, got)
	}
	if !errors.Is(myError, ConstError("this is a constant error")) {
		t.Errorf("equal constant errors must match")
	}
}

func TestConstError_WrappedErrorsCanBeIdentified(t *testing.T) {
	err := fmt.Errorf("%w: actual fee exceeded max fee", ErrFeeTransferFailure)
	if !errors.Is(err, ErrFeeTransferFailure) {
		t.Errorf("wrapped error not identified")
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("wrapped error matched unrelated kind")
	}
}

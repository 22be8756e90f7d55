// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/swaprouter/contract"
	"github.com/luxfi/swaprouter/token"
)

// ensureExactAllowance sets the approval from [owner] to [spender] to
// exactly [amount], lowering any strictly-positive outstanding approval to
// zero first. Some venue tokens reject a direct non-zero-to-nonzero
// allowance change, so the two-step route is always taken; approvals are
// never additively stacked.
func ensureExactAllowance(state contract.StateDB, asset, owner, spender common.Address, amount *uint256.Int) error {
	current := token.Allowance(state, asset, owner, spender)
	if !current.IsZero() {
		if err := token.Approve(state, asset, owner, spender, uint256.NewInt(0)); err != nil {
			return err
		}
	}
	return token.Approve(state, asset, owner, spender, amount)
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/swaprouter/contract"
	"github.com/luxfi/swaprouter/token"
)

// computeFee returns floor(gross * feeBps / 10000) for a non-exempt payer,
// zero otherwise. Dust from the integer division stays with the taker's
// counterparty: the fee never rounds up.
func computeFee(state contract.StateDB, payer common.Address, gross *uint256.Int) *uint256.Int {
	feeBps := getFeeBps(state)
	if feeBps == 0 || isFeeExempt(state, payer) {
		return uint256.NewInt(0)
	}
	if getFeeReceiver(state) == (common.Address{}) {
		// No configured receiver, nothing to collect the fee into.
		return uint256.NewInt(0)
	}
	// Full-width multiply: gross * feeBps can exceed 2^256 before the
	// division. The quotient always fits since feeBps <= BpsDenominator.
	fee, _ := new(uint256.Int).MulDivOverflow(gross, uint256.NewInt(feeBps), uint256.NewInt(BpsDenominator))
	return fee
}

// applyProtocolFee deducts the protocol fee from [gross] and transfers it
// to the fee receiver, returning the net amount left for the swap. The fee
// transfer and the net accounting are a unit: a failed transfer fails the
// whole application. Native input is already in router custody when this
// runs; ledger input is pulled from the payer's approval to the router.
func applyProtocolFee(env *Env, tokenIn, payer common.Address, gross *uint256.Int) (*uint256.Int, error) {
	fee := computeFee(env.State, payer, gross)
	if fee.IsZero() {
		return new(uint256.Int).Set(gross), nil
	}

	receiver := getFeeReceiver(env.State)
	var err error
	if token.IsNative(tokenIn) {
		err = token.Transfer(env.State, tokenIn, RouterAddress, receiver, fee)
	} else {
		err = token.TransferFrom(env.State, tokenIn, RouterAddress, payer, receiver, fee)
	}
	if err != nil {
		return nil, err
	}

	emitFeeCollected(env.State, tokenIn, payer, fee)
	return new(uint256.Int).Sub(gross, fee), nil
}

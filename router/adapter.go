// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/swaprouter/token"
)

// VenueAdapter is the capability contract every venue adapter satisfies.
// Each variant receives the normalized request plus the opaque auxiliary
// payload, calls exactly one external venue, and translates its result or
// failure back into the normalized outcome contract. All four operations
// follow the same protocol: custody precondition, reset-then-raise
// allowance, aux decode, venue invocation, outcome translation, and (for
// exact-output) refund of unconsumed input to the original caller.
type VenueAdapter interface {
	// Address is the adapter's custody address.
	Address() common.Address

	SwapExactInput(
		env *Env,
		caller common.Address,
		tokenIn, tokenOut common.Address,
		amountIn, minAmountOut *uint256.Int,
		recipient common.Address,
		auxData []byte,
	) (*uint256.Int, error)

	SwapExactOutput(
		env *Env,
		caller common.Address,
		tokenIn, tokenOut common.Address,
		maxAmountIn, amountOut *uint256.Int,
		recipient common.Address,
		auxData []byte,
	) (*uint256.Int, error)

	SwapExactInputPath(
		env *Env,
		caller common.Address,
		path []common.Address,
		amountIn, minAmountOut *uint256.Int,
		recipient common.Address,
		auxData []byte,
	) (*uint256.Int, error)

	SwapExactOutputPath(
		env *Env,
		caller common.Address,
		path []common.Address,
		maxAmountIn, amountOut *uint256.Int,
		recipient common.Address,
		auxData []byte,
	) (*uint256.Int, error)
}

// adapterBase carries the per-adapter immutable state: the adapter's own
// custody address and the downstream venue contract it approves and calls.
type adapterBase struct {
	addr  common.Address
	venue common.Address
}

func newAdapterBase(addr, venue common.Address) (adapterBase, error) {
	if venue == (common.Address{}) {
		return adapterBase{}, ErrInvalidVenueAddress
	}
	return adapterBase{addr: addr, venue: venue}, nil
}

func (b *adapterBase) Address() common.Address {
	return b.addr
}

// prepareInput runs the shared pre-venue steps: re-validate that the
// router's transfer of the committed input actually landed in adapter
// custody, then set the venue's allowance to exactly the committed amount
// (reset-then-raise). The adapter never approves a venue to pull funds it
// does not hold. Native input needs no allowance; the venue settles it
// from the adapter's account balance.
func (b *adapterBase) prepareInput(env *Env, tokenIn common.Address, committed *uint256.Int) error {
	if token.BalanceOf(env.State, tokenIn, b.addr).Lt(committed) {
		return ErrFundsNotReceived
	}
	if token.IsNative(tokenIn) {
		return nil
	}
	return ensureExactAllowance(env.State, tokenIn, b.addr, b.venue, committed)
}

// refundUnused returns the unconsumed remainder of an exact-output commit
// to the original caller, not the recipient. This is the only path by
// which custody returns to the caller without the router's involvement.
func (b *adapterBase) refundUnused(env *Env, tokenIn, caller common.Address, committed, used *uint256.Int) error {
	if !used.Lt(committed) {
		return nil
	}
	refund := new(uint256.Int).Sub(committed, used)
	return token.Transfer(env.State, tokenIn, b.addr, caller, refund)
}

// effectiveDeadline resolves the deadline passed to the venue: the
// supplied value when present, otherwise block time plus the configured
// grace window.
func (b *adapterBase) effectiveDeadline(env *Env, supplied uint64, hasSupplied bool) uint64 {
	if hasSupplied && supplied != 0 {
		return supplied
	}
	return env.Time + getDeadlineWindow(env.State)
}

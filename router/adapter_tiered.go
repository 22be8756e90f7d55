// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// TieredAdapterAddress is the fee-tiered adapter's custody address.
var TieredAdapterAddress = common.HexToAddress(TieredAdapterAddr)

// TieredAdapter routes swaps to a concentrated-liquidity venue keyed by
// fee tier. Single hops pass the tier directly; multi-hop paths use the
// packed address‖tier‖…‖address encoding, built forward for exact-input
// and in reverse (output token first) for exact-output.
type TieredAdapter struct {
	adapterBase
	venue TieredVenue
}

// NewTieredAdapter builds the adapter for the given venue contract.
func NewTieredAdapter(venueAddr common.Address, venue TieredVenue) (*TieredAdapter, error) {
	if venue == nil {
		return nil, ErrInvalidVenueAddress
	}
	base, err := newAdapterBase(TieredAdapterAddress, venueAddr)
	if err != nil {
		return nil, err
	}
	return &TieredAdapter{adapterBase: base, venue: venue}, nil
}

func (a *TieredAdapter) SwapExactInput(
	env *Env,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	amountIn, minAmountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	release, err := acquireSwapGuard(env)
	if err != nil {
		return nil, err
	}
	defer release()

	tiers, deadline, hasDeadline, err := decodeTierAux(auxData, 1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, tokenIn, amountIn); err != nil {
		return nil, err
	}

	out, err := a.venue.ExactInputSingle(
		env, tokenIn, tokenOut, tiers[0], recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
		amountIn, minAmountOut,
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	return out, nil
}

func (a *TieredAdapter) SwapExactOutput(
	env *Env,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	maxAmountIn, amountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	release, err := acquireSwapGuard(env)
	if err != nil {
		return nil, err
	}
	defer release()

	tiers, deadline, hasDeadline, err := decodeTierAux(auxData, 1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, tokenIn, maxAmountIn); err != nil {
		return nil, err
	}

	used, err := a.venue.ExactOutputSingle(
		env, tokenIn, tokenOut, tiers[0], recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
		amountOut, maxAmountIn,
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	if err := a.refundUnused(env, tokenIn, caller, maxAmountIn, used); err != nil {
		return nil, err
	}
	return used, nil
}

func (a *TieredAdapter) SwapExactInputPath(
	env *Env,
	caller common.Address,
	path []common.Address,
	amountIn, minAmountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	release, err := acquireSwapGuard(env)
	if err != nil {
		return nil, err
	}
	defer release()

	tiers, deadline, hasDeadline, err := decodeTierAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], amountIn); err != nil {
		return nil, err
	}

	out, err := a.venue.ExactInput(
		env, packPath(path, tiers, false), recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
		amountIn, minAmountOut,
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	return out, nil
}

func (a *TieredAdapter) SwapExactOutputPath(
	env *Env,
	caller common.Address,
	path []common.Address,
	maxAmountIn, amountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	release, err := acquireSwapGuard(env)
	if err != nil {
		return nil, err
	}
	defer release()

	tiers, deadline, hasDeadline, err := decodeTierAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], maxAmountIn); err != nil {
		return nil, err
	}

	used, err := a.venue.ExactOutput(
		env, packPath(path, tiers, true), recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
		amountOut, maxAmountIn,
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	if err := a.refundUnused(env, path[0], caller, maxAmountIn, used); err != nil {
		return nil, err
	}
	return used, nil
}

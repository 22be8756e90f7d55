// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// TickAdapterAddress is the tick-spaced adapter's custody address.
var TickAdapterAddress = common.HexToAddress(TickAdapterAddr)

// TickAdapter routes swaps to a concentrated-liquidity venue keyed by
// tick spacing. The packed path encoding matches the fee-tiered form with
// the spacing in place of the tier; every spacing must be positive. An
// absent or zero deadline falls back to the adapter default window.
type TickAdapter struct {
	adapterBase
	venue TickVenue
}

// NewTickAdapter builds the adapter for the given venue contract.
func NewTickAdapter(venueAddr common.Address, venue TickVenue) (*TickAdapter, error) {
	if venue == nil {
		return nil, ErrInvalidVenueAddress
	}
	base, err := newAdapterBase(TickAdapterAddress, venueAddr)
	if err != nil {
		return nil, err
	}
	return &TickAdapter{adapterBase: base, venue: venue}, nil
}

func (a *TickAdapter) SwapExactInput(
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

	spacings, deadline, hasDeadline, err := decodeTickAux(auxData, 1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, tokenIn, amountIn); err != nil {
		return nil, err
	}

	out, err := a.venue.ExactInputSingle(
		env, tokenIn, tokenOut, spacings[0], recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
		amountIn, minAmountOut,
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	return out, nil
}

func (a *TickAdapter) SwapExactOutput(
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

	spacings, deadline, hasDeadline, err := decodeTickAux(auxData, 1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, tokenIn, maxAmountIn); err != nil {
		return nil, err
	}

	used, err := a.venue.ExactOutputSingle(
		env, tokenIn, tokenOut, spacings[0], recipient,
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

func (a *TickAdapter) SwapExactInputPath(
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

	spacings, deadline, hasDeadline, err := decodeTickAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], amountIn); err != nil {
		return nil, err
	}

	out, err := a.venue.ExactInput(
		env, packPath(path, spacingsToParams(spacings), false), recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
		amountIn, minAmountOut,
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	return out, nil
}

func (a *TickAdapter) SwapExactOutputPath(
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

	spacings, deadline, hasDeadline, err := decodeTickAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], maxAmountIn); err != nil {
		return nil, err
	}

	used, err := a.venue.ExactOutput(
		env, packPath(path, spacingsToParams(spacings), true), recipient,
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

// spacingsToParams widens validated positive spacings into the 3-byte
// packed-path parameter slot.
func spacingsToParams(spacings []int24) []uint24 {
	params := make([]uint24, len(spacings))
	for i, s := range spacings {
		params[i] = uint24(s)
	}
	return params
}

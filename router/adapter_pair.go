// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// PairAdapterAddress is the constant-product pair adapter's custody address.
var PairAdapterAddress = common.HexToAddress(PairAdapterAddr)

// PairAdapter routes swaps to a constant-product pair venue. The venue
// resolves hops internally from a flat address list, so both the pair and
// path forms reduce to the same venue primitive. Aux carries no per-hop
// parameters; multi-hop paths may carry an optional trailing deadline.
type PairAdapter struct {
	adapterBase
	venue PairVenue
}

// NewPairAdapter builds the adapter for the given venue contract.
func NewPairAdapter(venueAddr common.Address, venue PairVenue) (*PairAdapter, error) {
	if venue == nil {
		return nil, ErrInvalidVenueAddress
	}
	base, err := newAdapterBase(PairAdapterAddress, venueAddr)
	if err != nil {
		return nil, err
	}
	return &PairAdapter{adapterBase: base, venue: venue}, nil
}

func (a *PairAdapter) SwapExactInput(
	env *Env,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	amountIn, minAmountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	return a.SwapExactInputPath(env, caller, []common.Address{tokenIn, tokenOut}, amountIn, minAmountOut, recipient, auxData)
}

func (a *PairAdapter) SwapExactOutput(
	env *Env,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	maxAmountIn, amountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	return a.SwapExactOutputPath(env, caller, []common.Address{tokenIn, tokenOut}, maxAmountIn, amountOut, recipient, auxData)
}

func (a *PairAdapter) SwapExactInputPath(
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

	deadline, hasDeadline, err := decodePairAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], amountIn); err != nil {
		return nil, err
	}

	amounts, err := a.venue.SwapExactTokensForTokens(
		env, amountIn, minAmountOut, path, recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	if len(amounts) == 0 {
		return nil, &VenueError{Reason: "empty venue result"}
	}
	return amounts[len(amounts)-1], nil
}

func (a *PairAdapter) SwapExactOutputPath(
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

	deadline, hasDeadline, err := decodePairAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], maxAmountIn); err != nil {
		return nil, err
	}

	amounts, err := a.venue.SwapTokensForExactTokens(
		env, amountOut, maxAmountIn, path, recipient,
		a.effectiveDeadline(env, deadline, hasDeadline),
	)
	if err != nil {
		return nil, asVenueError(err)
	}
	if len(amounts) == 0 {
		return nil, &VenueError{Reason: "empty venue result"}
	}

	used := amounts[0]
	if err := a.refundUnused(env, path[0], caller, maxAmountIn, used); err != nil {
		return nil, err
	}
	return used, nil
}

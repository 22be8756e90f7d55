// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// RoutedAdapterAddress is the multi-route adapter's custody address.
var RoutedAdapterAddress = common.HexToAddress(RoutedAdapterAddr)

// RoutedAdapter routes swaps to a multi-route stable/volatile venue. Aux
// carries parallel per-hop stable flags and factory addresses; hops build
// into the venue's native route-struct array rather than a packed byte
// path. A zero factory in aux selects the adapter's default factory.
type RoutedAdapter struct {
	adapterBase
	venue          RoutedVenue
	defaultFactory common.Address
}

// NewRoutedAdapter builds the adapter for the given venue contract and
// default pool factory. Both addresses are validated once, here.
func NewRoutedAdapter(venueAddr, defaultFactory common.Address, venue RoutedVenue) (*RoutedAdapter, error) {
	if venue == nil || defaultFactory == (common.Address{}) {
		return nil, ErrInvalidVenueAddress
	}
	base, err := newAdapterBase(RoutedAdapterAddress, venueAddr)
	if err != nil {
		return nil, err
	}
	return &RoutedAdapter{adapterBase: base, venue: venue, defaultFactory: defaultFactory}, nil
}

// buildRoutes assembles the venue-native route array from the path and
// the decoded per-hop parameters.
func (a *RoutedAdapter) buildRoutes(path []common.Address, params []RouteParams) []Route {
	routes := make([]Route, len(path)-1)
	for i := range routes {
		factory := params[i].Factory
		if factory == (common.Address{}) {
			factory = a.defaultFactory
		}
		routes[i] = Route{
			From:    path[i],
			To:      path[i+1],
			Stable:  params[i].Stable,
			Factory: factory,
		}
	}
	return routes
}

func (a *RoutedAdapter) SwapExactInput(
	env *Env,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	amountIn, minAmountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	return a.SwapExactInputPath(env, caller, []common.Address{tokenIn, tokenOut}, amountIn, minAmountOut, recipient, auxData)
}

func (a *RoutedAdapter) SwapExactOutput(
	env *Env,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	maxAmountIn, amountOut *uint256.Int,
	recipient common.Address,
	auxData []byte,
) (*uint256.Int, error) {
	return a.SwapExactOutputPath(env, caller, []common.Address{tokenIn, tokenOut}, maxAmountIn, amountOut, recipient, auxData)
}

func (a *RoutedAdapter) SwapExactInputPath(
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

	params, deadline, hasDeadline, err := decodeRouteAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], amountIn); err != nil {
		return nil, err
	}

	amounts, err := a.venue.SwapExactTokensForTokens(
		env, amountIn, minAmountOut, a.buildRoutes(path, params), recipient,
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

func (a *RoutedAdapter) SwapExactOutputPath(
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

	params, deadline, hasDeadline, err := decodeRouteAux(auxData, len(path)-1)
	if err != nil {
		return nil, err
	}
	if err := a.prepareInput(env, path[0], maxAmountIn); err != nil {
		return nil, err
	}

	amounts, err := a.venue.SwapTokensForExactTokens(
		env, amountOut, maxAmountIn, a.buildRoutes(path, params), recipient,
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

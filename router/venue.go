// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// Venues are opaque external collaborators. Each interface mirrors one
// venue family's native call surface; the venue itself enforces the
// slippage bound and the deadline, and either returns the realized
// amounts or fails. Adapters never reimplement venue pricing.

// PairVenue is a constant-product pair venue. Path hops are resolved
// internally by the venue from a flat address list. Returned amounts are
// ordered by hop: one entry per path element.
type PairVenue interface {
	SwapExactTokensForTokens(
		env *Env,
		amountIn, amountOutMin *uint256.Int,
		path []common.Address,
		to common.Address,
		deadline uint64,
	) ([]*uint256.Int, error)

	SwapTokensForExactTokens(
		env *Env,
		amountOut, amountInMax *uint256.Int,
		path []common.Address,
		to common.Address,
		deadline uint64,
	) ([]*uint256.Int, error)
}

// TieredVenue is a concentrated-liquidity venue whose pools are keyed by
// fee tier. Multi-hop calls take the packed address‖tier‖… path encoding.
type TieredVenue interface {
	ExactInputSingle(
		env *Env,
		tokenIn, tokenOut common.Address,
		feeTier uint24,
		recipient common.Address,
		deadline uint64,
		amountIn, amountOutMinimum *uint256.Int,
	) (*uint256.Int, error)

	ExactOutputSingle(
		env *Env,
		tokenIn, tokenOut common.Address,
		feeTier uint24,
		recipient common.Address,
		deadline uint64,
		amountOut, amountInMaximum *uint256.Int,
	) (*uint256.Int, error)

	ExactInput(
		env *Env,
		packedPath []byte,
		recipient common.Address,
		deadline uint64,
		amountIn, amountOutMinimum *uint256.Int,
	) (*uint256.Int, error)

	ExactOutput(
		env *Env,
		packedPath []byte,
		recipient common.Address,
		deadline uint64,
		amountOut, amountInMaximum *uint256.Int,
	) (*uint256.Int, error)
}

// TickVenue is a concentrated-liquidity venue whose pools are keyed by
// tick spacing. A zero deadline asks the venue to apply its own default.
type TickVenue interface {
	ExactInputSingle(
		env *Env,
		tokenIn, tokenOut common.Address,
		tickSpacing int24,
		recipient common.Address,
		deadline uint64,
		amountIn, amountOutMinimum *uint256.Int,
	) (*uint256.Int, error)

	ExactOutputSingle(
		env *Env,
		tokenIn, tokenOut common.Address,
		tickSpacing int24,
		recipient common.Address,
		deadline uint64,
		amountOut, amountInMaximum *uint256.Int,
	) (*uint256.Int, error)

	ExactInput(
		env *Env,
		packedPath []byte,
		recipient common.Address,
		deadline uint64,
		amountIn, amountOutMinimum *uint256.Int,
	) (*uint256.Int, error)

	ExactOutput(
		env *Env,
		packedPath []byte,
		recipient common.Address,
		deadline uint64,
		amountOut, amountInMaximum *uint256.Int,
	) (*uint256.Int, error)
}

// Route is one hop of a multi-route stable/volatile venue call, in the
// venue's native struct form.
type Route struct {
	From    common.Address
	To      common.Address
	Stable  bool
	Factory common.Address
}

// RoutedVenue is a multi-route venue selecting stable or volatile pools
// per hop. Returned amounts are ordered by hop: one entry per route
// endpoint (len(routes)+1).
type RoutedVenue interface {
	SwapExactTokensForTokens(
		env *Env,
		amountIn, amountOutMin *uint256.Int,
		routes []Route,
		to common.Address,
		deadline uint64,
	) ([]*uint256.Int, error)

	SwapTokensForExactTokens(
		env *Env,
		amountOut, amountInMax *uint256.Int,
		routes []Route,
		to common.Address,
		deadline uint64,
	) ([]*uint256.Int, error)
}

// asVenueError normalizes any venue failure into the two-armed VenueError:
// an error that already is one passes through, anything else becomes the
// structured-reason arm.
func asVenueError(err error) *VenueError {
	var ve *VenueError
	if errors.As(err, &ve) {
		return ve
	}
	return &VenueError{Reason: err.Error()}
}

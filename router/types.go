// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router implements the multi-venue swap routing precompile suite:
// a single dispatch entry point that validates a swap request, applies the
// protocol fee, moves funds into the custody of a venue adapter, and lets
// the adapter translate the request into one exchange venue's native call.
// Four adapter variants cover constant-product pairs, fee-tiered and
// tick-spaced concentrated liquidity, and multi-route stable/volatile
// venues. The venues' own pricing is an external black box; this package
// owns dispatch, encoding, fee accounting, allowances, refunds, and the
// uniform failure contract.
package router

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/swaprouter/contract"
)

// Precompile addresses for the routing suite.
// LP-aligned format: 0x0000000000000000000000000000000000LPNUM
const (
	RouterAddr        = "0x0000000000000000000000000000000000009010" // Router entry point
	PairAdapterAddr   = "0x0000000000000000000000000000000000009021" // Constant-product pairs
	TieredAdapterAddr = "0x0000000000000000000000000000000000009022" // Fee-tiered concentrated liquidity
	TickAdapterAddr   = "0x0000000000000000000000000000000000009023" // Tick-spaced concentrated liquidity
	RoutedAdapterAddr = "0x0000000000000000000000000000000000009024" // Multi-route stable/volatile
)

// RouterAddress is the router precompile address as common.Address.
var RouterAddress = common.HexToAddress(RouterAddr)

// Gas costs per operation class
const (
	GasDispatch   uint64 = 25_000 // Swap dispatch (fee + transfer + venue call)
	GasAdminWrite uint64 = 5_000  // Admin slot mutation
	GasAdminRead  uint64 = 200    // Config/registry lookup
	GasWithdraw   uint64 = 8_000  // Emergency sweep
)

// Fee bounds (basis points)
const (
	FeeMaxBps      uint64 = 1000   // 10% cap, enforced at mutation time
	BpsDenominator uint64 = 10_000 // Basis point denominator
)

// DefaultDeadlineWindow is the grace window, in seconds, added to the
// block time when a request carries no explicit deadline.
const DefaultDeadlineWindow uint64 = 300

// uint24 type alias for fee tiers
type uint24 = uint32

// int24 type alias for tick spacings
type int24 = int32

// Errors - request validation and dispatch
var (
	ErrUnknownAdapter        = errors.New("unknown or unapproved adapter")
	ErrValueMismatch         = errors.New("attached value does not match input amount")
	ErrFundsNotReceived      = errors.New("adapter custody missing committed input")
	ErrPathParameterMismatch = errors.New("path length does not match per-hop parameters")
	ErrInvalidTickSpacing    = errors.New("tick spacing must be positive")
	ErrInvalidVenueAddress   = errors.New("venue address must be non-zero")
	ErrVenueCallFailed       = errors.New("venue call failed")
	ErrNothingToWithdraw     = errors.New("nothing to withdraw")
	ErrInvalidAuxData        = errors.New("malformed auxiliary data")
	ErrInvalidPath           = errors.New("path must contain at least two tokens")
)

// Errors - administration
var (
	ErrFeeTooHigh   = errors.New("fee exceeds maximum basis points")
	ErrZeroAddress  = errors.New("address cannot be zero")
	ErrUnauthorized = errors.New("unauthorized: caller is not admin")
)

// Errors - contract surface
var (
	ErrReentrant       = errors.New("reentrancy detected")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInsufficientGas = errors.New("insufficient gas")
	ErrWriteProtection = errors.New("cannot write in read-only mode")
)

// VenueError is the two-armed failure a venue call surfaces: either a
// structured human-readable reason, or an opaque raw payload. The opaque
// arm renders deterministically as a 0x-prefixed lowercase hex string.
type VenueError struct {
	Reason  string
	Payload []byte
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVenueCallFailed, e.Render())
}

func (e *VenueError) Unwrap() error {
	return ErrVenueCallFailed
}

// Render returns the caller-visible failure text: the structured reason
// when one is available, otherwise the hex-rendered raw payload.
func (e *VenueError) Render() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "0x" + hex.EncodeToString(e.Payload)
}

// SwapKind selects the request shape.
type SwapKind uint8

const (
	// ExactInput fixes the input amount; the output floor is a bound.
	ExactInput SwapKind = iota
	// ExactOutput fixes the output amount; the input ceiling is a bound.
	ExactOutput
)

// SwapRequest is the normalized swap intent handed to an adapter.
// The single-pair form is a path of length two. Immutable per call.
type SwapRequest struct {
	Kind SwapKind

	// Path is the token route, input token first. Length >= 2.
	Path []common.Address

	// AmountSpecified is amountIn for exact-input requests and amountOut
	// for exact-output requests.
	AmountSpecified *uint256.Int

	// AmountLimit is minAmountOut for exact-input requests and
	// maxAmountIn for exact-output requests.
	AmountLimit *uint256.Int

	Recipient common.Address

	// AuxData is the opaque venue-specific payload, interpreted only by
	// the selected adapter.
	AuxData []byte
}

// TokenIn returns the input token of the request.
func (r *SwapRequest) TokenIn() common.Address {
	return r.Path[0]
}

// TokenOut returns the output token of the request.
func (r *SwapRequest) TokenOut() common.Address {
	return r.Path[len(r.Path)-1]
}

// Validate checks the structural invariants every request must satisfy.
func (r *SwapRequest) Validate() error {
	if len(r.Path) < 2 {
		return ErrInvalidPath
	}
	if r.AmountSpecified == nil || r.AmountLimit == nil {
		return ErrInvalidInput
	}
	if r.AmountSpecified.IsZero() {
		return ErrInvalidInput
	}
	if r.Recipient == (common.Address{}) {
		return ErrZeroAddress
	}
	return nil
}

// CommittedInput returns the input amount the caller commits up front:
// amountIn for exact-input, maxAmountIn for exact-output.
func (r *SwapRequest) CommittedInput() *uint256.Int {
	if r.Kind == ExactInput {
		return r.AmountSpecified
	}
	return r.AmountLimit
}

// SwapOutcome is the per-call result returned to the caller and logged as
// an audit event. Created fresh per call, never persisted.
type SwapOutcome struct {
	// Amount is amountOut for exact-input swaps and amountInUsed for
	// exact-output swaps.
	Amount *uint256.Int

	Success bool

	// FailureReason carries the rendered venue failure when Success is
	// false, empty otherwise.
	FailureReason string
}

// Env is the per-call execution environment threaded through dispatch:
// EVM state, the block timestamp, and the native value attached to the
// call. The guard flag marks an env already inside a dispatch frame so
// adapters invoked by the router do not re-acquire the reentrancy lock.
type Env struct {
	State contract.StateDB

	// Time is the block timestamp used for deadline defaults.
	Time uint64

	// Value is the native value attached to the call, already credited
	// to the router address by the host.
	Value *uint256.Int

	guardHeld bool
}

// AttachedValue returns the native value attached to the call, never nil.
func (e *Env) AttachedValue() *uint256.Int {
	if e.Value == nil {
		return uint256.NewInt(0)
	}
	return e.Value
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/luxfi/swaprouter/contract"
	"github.com/luxfi/swaprouter/token"
)

// Router owns the fee configuration and the adapter registry, and is the
// single entry point for swap dispatch. Adapters form a closed set
// registered at construction; the approval flag gating dispatch lives in
// router storage and is owner-mutable.
type Router struct {
	log      log.Logger
	adapters map[common.Address]VenueAdapter
}

// NewRouter creates a router with no adapters registered.
func NewRouter(logger log.Logger) *Router {
	return &Router{
		log:      logger,
		adapters: make(map[common.Address]VenueAdapter),
	}
}

// RegisterAdapter adds an adapter implementation under its identity.
// Registration only makes the adapter known; dispatch additionally
// requires the owner-set approval flag.
func (r *Router) RegisterAdapter(id common.Address, adapter VenueAdapter) error {
	if id == (common.Address{}) {
		return ErrZeroAddress
	}
	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("adapter %s already registered", id.Hex())
	}
	r.adapters[id] = adapter
	return nil
}

// Dispatch validates the request, applies the protocol fee, moves the net
// input into the adapter's custody, and invokes the adapter operation
// matching the request shape. At most one dispatch may be in flight per
// execution context at any depth. A failing dispatch reverts every state
// mutation since entry as a unit; venue failures additionally leave a
// SwapFailed audit record after the revert.
func (r *Router) Dispatch(env *Env, caller, adapterID common.Address, req *SwapRequest) (*SwapOutcome, error) {
	// Guard inheritance is reserved for the adapter entry points the
	// router itself invokes. A dispatch arriving on an env already inside
	// an unresolved dispatch is a re-entry from the same call chain.
	if env.guardHeld {
		return nil, ErrReentrant
	}
	release, err := acquireSwapGuard(env)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	adapter, known := r.adapters[adapterID]
	if !known || !isAdapterApproved(env.State, adapterID) {
		return nil, ErrUnknownAdapter
	}

	snapshot := env.State.Snapshot()
	amount, netIn, err := r.execute(env, caller, adapter, req)
	if err != nil {
		env.State.RevertToSnapshot(snapshot)
		if errors.Is(err, ErrVenueCallFailed) {
			reason := asVenueError(err).Render()
			emitSwapFailed(env.State, adapter.Address(), reason)
			r.log.Warn("venue rejected swap",
				"adapter", adapterID.Hex(),
				"tokenIn", req.TokenIn().Hex(),
				"tokenOut", req.TokenOut().Hex(),
				"reason", reason,
			)
			return &SwapOutcome{Success: false, FailureReason: reason}, err
		}
		return nil, err
	}

	emitSwapSuccess(env.State, adapter.Address(), req.TokenIn(), req.TokenOut(), netIn, amount)
	r.log.Info("swap dispatched",
		"adapter", adapterID.Hex(),
		"tokenIn", req.TokenIn().Hex(),
		"tokenOut", req.TokenOut().Hex(),
		"netIn", netIn.String(),
		"amount", amount.String(),
	)
	return &SwapOutcome{Amount: amount, Success: true}, nil
}

// execute runs the fee/transfer/invoke pipeline inside the dispatch
// snapshot. It returns the adapter's realized amount and the net input
// committed to it.
func (r *Router) execute(env *Env, caller common.Address, adapter VenueAdapter, req *SwapRequest) (*uint256.Int, *uint256.Int, error) {
	tokenIn := req.TokenIn()
	gross := req.CommittedInput()

	// Native input must arrive as attached value, exactly. Ledger input
	// must not carry any attached value.
	if token.IsNative(tokenIn) {
		if !env.AttachedValue().Eq(gross) {
			return nil, nil, ErrValueMismatch
		}
	} else if !env.AttachedValue().IsZero() {
		return nil, nil, ErrValueMismatch
	}

	net, err := applyProtocolFee(env, tokenIn, caller, gross)
	if err != nil {
		return nil, nil, err
	}

	// Move the net input into adapter custody. Native value is already
	// on the router; ledger input pulls from the caller's approval.
	if token.IsNative(tokenIn) {
		err = token.Transfer(env.State, tokenIn, RouterAddress, adapter.Address(), net)
	} else {
		err = token.TransferFrom(env.State, tokenIn, RouterAddress, caller, adapter.Address(), net)
	}
	if err != nil {
		return nil, nil, err
	}

	var amount *uint256.Int
	if len(req.Path) == 2 {
		switch req.Kind {
		case ExactInput:
			amount, err = adapter.SwapExactInput(env, caller, req.TokenIn(), req.TokenOut(), net, req.AmountLimit, req.Recipient, req.AuxData)
		default:
			amount, err = adapter.SwapExactOutput(env, caller, req.TokenIn(), req.TokenOut(), net, req.AmountSpecified, req.Recipient, req.AuxData)
		}
	} else {
		switch req.Kind {
		case ExactInput:
			amount, err = adapter.SwapExactInputPath(env, caller, req.Path, net, req.AmountLimit, req.Recipient, req.AuxData)
		default:
			amount, err = adapter.SwapExactOutputPath(env, caller, req.Path, net, req.AmountSpecified, req.Recipient, req.AuxData)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return amount, net, nil
}

// Administrative operations. Each is owner-gated, validates its input,
// mutates exactly one configuration field, and emits one audit event.

func (r *Router) SetAdmin(state contract.StateDB, caller, newAdmin common.Address) error {
	if !isAdmin(state, caller) {
		return ErrUnauthorized
	}
	if newAdmin == (common.Address{}) {
		return ErrZeroAddress
	}
	setStateAddress(state, adminSlot, newAdmin)
	emitAdminUpdated(state, newAdmin)
	return nil
}

func (r *Router) SetFeeBps(state contract.StateDB, caller common.Address, feeBps uint64) error {
	if !isAdmin(state, caller) {
		return ErrUnauthorized
	}
	if feeBps > FeeMaxBps {
		return ErrFeeTooHigh
	}
	setStateUint64(state, feeBpsSlot, feeBps)
	emitFeeUpdated(state, feeBps)
	return nil
}

func (r *Router) SetFeeReceiver(state contract.StateDB, caller, receiver common.Address) error {
	if !isAdmin(state, caller) {
		return ErrUnauthorized
	}
	if receiver == (common.Address{}) {
		return ErrZeroAddress
	}
	setStateAddress(state, feeReceiverSlot, receiver)
	emitFeeReceiverUpdated(state, receiver)
	return nil
}

func (r *Router) SetAdapterApproval(state contract.StateDB, caller, adapterID common.Address, approved bool) error {
	if !isAdmin(state, caller) {
		return ErrUnauthorized
	}
	if adapterID == (common.Address{}) {
		return ErrZeroAddress
	}
	setStateBool(state, adapterApprovalKey(adapterID), approved)
	emitAdapterApprovalSet(state, adapterID, approved)
	return nil
}

func (r *Router) SetFeeExempt(state contract.StateDB, caller, wallet common.Address, exempt bool) error {
	if !isAdmin(state, caller) {
		return ErrUnauthorized
	}
	if wallet == (common.Address{}) {
		return ErrZeroAddress
	}
	setStateBool(state, feeExemptKey(wallet), exempt)
	emitFeeExemptSet(state, wallet, exempt)
	return nil
}

func (r *Router) SetDeadlineWindow(state contract.StateDB, caller common.Address, window uint64) error {
	if !isAdmin(state, caller) {
		return ErrUnauthorized
	}
	if window == 0 {
		return ErrInvalidInput
	}
	setStateUint64(state, deadlineWindowSlot, window)
	emitDeadlineWindowUpdated(state, window)
	return nil
}

// EmergencyWithdraw sweeps the router's residual balance of [asset] to
// [to]. Fee rounding, refunds, or misrouted direct transfers can leave
// dust in router custody; this is an audited escape valve, not a routine
// code path.
func (r *Router) EmergencyWithdraw(state contract.StateDB, caller, asset, to common.Address) (*uint256.Int, error) {
	if !isAdmin(state, caller) {
		return nil, ErrUnauthorized
	}
	if to == (common.Address{}) {
		return nil, ErrZeroAddress
	}

	balance := token.BalanceOf(state, asset, RouterAddress)
	if balance.IsZero() {
		return nil, ErrNothingToWithdraw
	}
	if err := token.Transfer(state, asset, RouterAddress, to, balance); err != nil {
		return nil, err
	}

	emitEmergencyWithdrawal(state, asset, to, balance)
	r.log.Info("emergency withdrawal", "asset", asset.Hex(), "to", to.Hex(), "amount", balance.String())
	return balance, nil
}

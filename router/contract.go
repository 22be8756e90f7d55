// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/swaprouter/contract"
)

// Method selectors for the router precompile
const (
	SelectorDispatchExactInput  uint32 = 0x01000000 // dispatchExactInput(address,address,uint256,uint256,address[],bytes)
	SelectorDispatchExactOutput uint32 = 0x02000000 // dispatchExactOutput(address,address,uint256,uint256,address[],bytes)

	SelectorSetFeeBps          uint32 = 0x10000000 // setFeeBps(uint256)
	SelectorSetFeeReceiver     uint32 = 0x11000000 // setFeeReceiver(address)
	SelectorSetAdapterApproval uint32 = 0x12000000 // setAdapterApproval(address,bool)
	SelectorSetFeeExempt       uint32 = 0x13000000 // setFeeExempt(address,bool)
	SelectorSetDeadlineWindow  uint32 = 0x14000000 // setDeadlineWindow(uint256)
	SelectorSetAdmin           uint32 = 0x15000000 // setAdmin(address)
	SelectorEmergencyWithdraw  uint32 = 0x16000000 // emergencyWithdraw(address,address)

	SelectorGetFeeConfig      uint32 = 0x20000000 // getFeeConfig()
	SelectorIsAdapterApproved uint32 = 0x21000000 // isAdapterApproved(address)
	SelectorIsFeeExempt       uint32 = 0x22000000 // isFeeExempt(address)
	SelectorGetDeadlineWindow uint32 = 0x23000000 // getDeadlineWindow()
	SelectorGetAdmin          uint32 = 0x24000000 // getAdmin()
)

// RouterContract implements the router precompile: the selector front end
// over the Router core.
type RouterContract struct {
	router *Router
}

// NewRouterContract wraps a router in its precompile surface.
func NewRouterContract(r *Router) *RouterContract {
	return &RouterContract{router: r}
}

// RequiredGas estimates the gas charge for the given input.
func (c *RouterContract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return GasAdminRead
	}
	switch binary.BigEndian.Uint32(input[:4]) {
	case SelectorDispatchExactInput, SelectorDispatchExactOutput:
		return GasDispatch
	case SelectorEmergencyWithdraw:
		return GasWithdraw
	case SelectorSetFeeBps, SelectorSetFeeReceiver, SelectorSetAdapterApproval,
		SelectorSetFeeExempt, SelectorSetDeadlineWindow, SelectorSetAdmin:
		return GasAdminWrite
	default:
		return GasAdminRead
	}
}

// Run executes the precompile
func (c *RouterContract) Run(
	accessibleState contract.AccessibleState,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) (ret []byte, remainingGas uint64, err error) {
	if len(input) < 4 {
		return nil, suppliedGas, ErrInvalidInput
	}

	selector := binary.BigEndian.Uint32(input[:4])
	data := input[4:]

	switch selector {
	case SelectorDispatchExactInput:
		return c.runDispatch(accessibleState, caller, data, suppliedGas, readOnly, ExactInput)
	case SelectorDispatchExactOutput:
		return c.runDispatch(accessibleState, caller, data, suppliedGas, readOnly, ExactOutput)
	case SelectorSetFeeBps:
		return c.runSetFeeBps(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetFeeReceiver:
		return c.runSetFeeReceiver(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetAdapterApproval:
		return c.runSetAdapterApproval(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetFeeExempt:
		return c.runSetFeeExempt(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetDeadlineWindow:
		return c.runSetDeadlineWindow(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorSetAdmin:
		return c.runSetAdmin(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorEmergencyWithdraw:
		return c.runEmergencyWithdraw(accessibleState, caller, data, suppliedGas, readOnly)
	case SelectorGetFeeConfig:
		return c.runGetFeeConfig(accessibleState, suppliedGas)
	case SelectorIsAdapterApproved:
		return c.runIsAdapterApproved(accessibleState, data, suppliedGas)
	case SelectorIsFeeExempt:
		return c.runIsFeeExempt(accessibleState, data, suppliedGas)
	case SelectorGetDeadlineWindow:
		return c.runGetDeadlineWindow(accessibleState, suppliedGas)
	case SelectorGetAdmin:
		return c.runGetAdmin(accessibleState, suppliedGas)
	default:
		return nil, suppliedGas, fmt.Errorf("unknown method selector: %x", selector)
	}
}

// maxPathTokens bounds the hop count a single dispatch will decode and
// forward. The dispatch gas charge is flat per swap class, so the input
// size has to be capped rather than metered.
const maxPathTokens = 16

// Dispatch input layout, 32-byte words:
//
//	word 0  adapterID (address)
//	word 1  recipient (address)
//	word 2  amountSpecified
//	word 3  amountLimit
//	word 4  path length (2 to maxPathTokens)
//	word 5+ path token addresses
//	rest    auxiliary data, passed opaque to the adapter
func decodeDispatchInput(input []byte, kind SwapKind) (common.Address, *SwapRequest, error) {
	if len(input) < 5*wordSize {
		return common.Address{}, nil, ErrInvalidInput
	}

	adapterID := wordToAddress(input[0:wordSize])
	recipient := wordToAddress(input[wordSize : 2*wordSize])
	amountSpecified := wordToUint256(input[2*wordSize : 3*wordSize])
	amountLimit := wordToUint256(input[3*wordSize : 4*wordSize])

	pathLen, ok := wordToUint64(input[4*wordSize : 5*wordSize])
	if !ok || pathLen < 2 || pathLen > maxPathTokens {
		return common.Address{}, nil, ErrInvalidPath
	}
	if uint64(len(input)) < (5+pathLen)*wordSize {
		return common.Address{}, nil, ErrInvalidInput
	}

	path := make([]common.Address, pathLen)
	for i := uint64(0); i < pathLen; i++ {
		off := (5 + i) * wordSize
		path[i] = wordToAddress(input[off : off+wordSize])
	}

	req := &SwapRequest{
		Kind:            kind,
		Path:            path,
		AmountSpecified: amountSpecified,
		AmountLimit:     amountLimit,
		Recipient:       recipient,
		AuxData:         input[(5+pathLen)*wordSize:],
	}
	return adapterID, req, nil
}

func (c *RouterContract) runDispatch(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
	kind SwapKind,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrWriteProtection
	}
	if suppliedGas < GasDispatch {
		return nil, 0, ErrInsufficientGas
	}
	remaining := suppliedGas - GasDispatch

	adapterID, req, err := decodeDispatchInput(input, kind)
	if err != nil {
		return nil, remaining, err
	}

	env := &Env{
		State: state.GetStateDB(),
		Time:  state.GetBlockContext().Timestamp(),
		Value: state.GetCallValue(),
	}
	outcome, err := c.router.Dispatch(env, caller, adapterID, req)
	if err != nil {
		return nil, remaining, err
	}
	return amountWord(outcome.Amount), remaining, nil
}

// adminWrite wraps the shared readOnly and gas accounting of the
// owner-gated mutation handlers.
func adminWrite(suppliedGas uint64, readOnly bool, fn func() error) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrWriteProtection
	}
	if suppliedGas < GasAdminWrite {
		return nil, 0, ErrInsufficientGas
	}
	remaining := suppliedGas - GasAdminWrite
	if err := fn(); err != nil {
		return nil, remaining, err
	}
	return []byte{}, remaining, nil
}

func (c *RouterContract) runSetFeeBps(state contract.AccessibleState, caller common.Address, input []byte, suppliedGas uint64, readOnly bool) ([]byte, uint64, error) {
	return adminWrite(suppliedGas, readOnly, func() error {
		if len(input) != wordSize {
			return ErrInvalidInput
		}
		feeBps, ok := wordToUint64(input)
		if !ok {
			return ErrInvalidInput
		}
		return c.router.SetFeeBps(state.GetStateDB(), caller, feeBps)
	})
}

func (c *RouterContract) runSetFeeReceiver(state contract.AccessibleState, caller common.Address, input []byte, suppliedGas uint64, readOnly bool) ([]byte, uint64, error) {
	return adminWrite(suppliedGas, readOnly, func() error {
		if len(input) != wordSize {
			return ErrInvalidInput
		}
		return c.router.SetFeeReceiver(state.GetStateDB(), caller, wordToAddress(input))
	})
}

func (c *RouterContract) runSetAdapterApproval(state contract.AccessibleState, caller common.Address, input []byte, suppliedGas uint64, readOnly bool) ([]byte, uint64, error) {
	return adminWrite(suppliedGas, readOnly, func() error {
		if len(input) != 2*wordSize {
			return ErrInvalidInput
		}
		flag, ok := wordToUint64(input[wordSize:])
		if !ok || flag > 1 {
			return ErrInvalidInput
		}
		return c.router.SetAdapterApproval(state.GetStateDB(), caller, wordToAddress(input[:wordSize]), flag == 1)
	})
}

func (c *RouterContract) runSetFeeExempt(state contract.AccessibleState, caller common.Address, input []byte, suppliedGas uint64, readOnly bool) ([]byte, uint64, error) {
	return adminWrite(suppliedGas, readOnly, func() error {
		if len(input) != 2*wordSize {
			return ErrInvalidInput
		}
		flag, ok := wordToUint64(input[wordSize:])
		if !ok || flag > 1 {
			return ErrInvalidInput
		}
		return c.router.SetFeeExempt(state.GetStateDB(), caller, wordToAddress(input[:wordSize]), flag == 1)
	})
}

func (c *RouterContract) runSetDeadlineWindow(state contract.AccessibleState, caller common.Address, input []byte, suppliedGas uint64, readOnly bool) ([]byte, uint64, error) {
	return adminWrite(suppliedGas, readOnly, func() error {
		if len(input) != wordSize {
			return ErrInvalidInput
		}
		window, ok := wordToUint64(input)
		if !ok {
			return ErrInvalidInput
		}
		return c.router.SetDeadlineWindow(state.GetStateDB(), caller, window)
	})
}

func (c *RouterContract) runSetAdmin(state contract.AccessibleState, caller common.Address, input []byte, suppliedGas uint64, readOnly bool) ([]byte, uint64, error) {
	return adminWrite(suppliedGas, readOnly, func() error {
		if len(input) != wordSize {
			return ErrInvalidInput
		}
		return c.router.SetAdmin(state.GetStateDB(), caller, wordToAddress(input))
	})
}

func (c *RouterContract) runEmergencyWithdraw(
	state contract.AccessibleState,
	caller common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	if readOnly {
		return nil, suppliedGas, ErrWriteProtection
	}
	if suppliedGas < GasWithdraw {
		return nil, 0, ErrInsufficientGas
	}
	remaining := suppliedGas - GasWithdraw

	if len(input) != 2*wordSize {
		return nil, remaining, ErrInvalidInput
	}
	asset := wordToAddress(input[:wordSize])
	to := wordToAddress(input[wordSize:])

	amount, err := c.router.EmergencyWithdraw(state.GetStateDB(), caller, asset, to)
	if err != nil {
		return nil, remaining, err
	}
	return amountWord(amount), remaining, nil
}

// View handlers. Each charges the read gas and returns 32-byte words.

func viewGas(suppliedGas uint64) (uint64, error) {
	if suppliedGas < GasAdminRead {
		return 0, ErrInsufficientGas
	}
	return suppliedGas - GasAdminRead, nil
}

func (c *RouterContract) runGetFeeConfig(state contract.AccessibleState, suppliedGas uint64) ([]byte, uint64, error) {
	remaining, err := viewGas(suppliedGas)
	if err != nil {
		return nil, 0, err
	}
	stateDB := state.GetStateDB()
	out := make([]byte, 0, 2*wordSize)
	out = append(out, uint64Word(getFeeBps(stateDB))...)
	out = append(out, addressWord(getFeeReceiver(stateDB))...)
	return out, remaining, nil
}

func (c *RouterContract) runIsAdapterApproved(state contract.AccessibleState, input []byte, suppliedGas uint64) ([]byte, uint64, error) {
	remaining, err := viewGas(suppliedGas)
	if err != nil {
		return nil, 0, err
	}
	if len(input) != wordSize {
		return nil, remaining, ErrInvalidInput
	}
	return boolWord(isAdapterApproved(state.GetStateDB(), wordToAddress(input))), remaining, nil
}

func (c *RouterContract) runIsFeeExempt(state contract.AccessibleState, input []byte, suppliedGas uint64) ([]byte, uint64, error) {
	remaining, err := viewGas(suppliedGas)
	if err != nil {
		return nil, 0, err
	}
	if len(input) != wordSize {
		return nil, remaining, ErrInvalidInput
	}
	return boolWord(isFeeExempt(state.GetStateDB(), wordToAddress(input))), remaining, nil
}

func (c *RouterContract) runGetDeadlineWindow(state contract.AccessibleState, suppliedGas uint64) ([]byte, uint64, error) {
	remaining, err := viewGas(suppliedGas)
	if err != nil {
		return nil, 0, err
	}
	return uint64Word(getDeadlineWindow(state.GetStateDB())), remaining, nil
}

func (c *RouterContract) runGetAdmin(state contract.AccessibleState, suppliedGas uint64) ([]byte, uint64, error) {
	remaining, err := viewGas(suppliedGas)
	if err != nil {
		return nil, 0, err
	}
	return addressWord(getAdmin(state.GetStateDB())), remaining, nil
}

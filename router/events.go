// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	ethtypes "github.com/luxfi/geth/core/types"
	"github.com/zeebo/blake3"

	"github.com/luxfi/swaprouter/contract"
)

// Audit event signature ids. Every successful swap, every venue failure,
// and every configuration mutation appends one structured log record; the
// event stream is the system's only durable output besides balances.
var (
	EventSwapSuccess           = eventID("SwapSuccess(address,address,address,uint256,uint256)")
	EventSwapFailed            = eventID("SwapFailed(address,string)")
	EventFeeCollected          = eventID("FeeCollected(address,address,uint256)")
	EventFeeUpdated            = eventID("FeeUpdated(uint256)")
	EventFeeReceiverUpdated    = eventID("FeeReceiverUpdated(address)")
	EventAdapterApprovalSet    = eventID("AdapterApprovalSet(address,bool)")
	EventFeeExemptSet          = eventID("FeeExemptSet(address,bool)")
	EventDeadlineWindowUpdated = eventID("DeadlineWindowUpdated(uint256)")
	EventEmergencyWithdrawal   = eventID("EmergencyWithdrawal(address,address,uint256)")
	EventAdminUpdated          = eventID("AdminUpdated(address)")
)

func eventID(sig string) common.Hash {
	h := blake3.New()
	h.Write([]byte(sig))
	var id common.Hash
	h.Digest().Read(id[:])
	return id
}

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func addressWord(addr common.Address) []byte {
	w := make([]byte, 32)
	copy(w[12:], addr.Bytes())
	return w
}

func amountWord(v *uint256.Int) []byte {
	w := v.Bytes32()
	return w[:]
}

func uint64Word(v uint64) []byte {
	w := make([]byte, 32)
	binary.BigEndian.PutUint64(w[24:], v)
	return w
}

func boolWord(v bool) []byte {
	w := make([]byte, 32)
	if v {
		w[31] = 1
	}
	return w
}

// emitSwapSuccess records a completed swap under the adapter's address:
// both token identities, the net input consumed, and the output produced.
func emitSwapSuccess(state contract.StateDB, adapter, tokenIn, tokenOut common.Address, netIn, amountOut *uint256.Int) {
	state.AddLog(&ethtypes.Log{
		Address: adapter,
		Topics: []common.Hash{
			EventSwapSuccess,
			addressTopic(adapter),
			addressTopic(tokenIn),
			addressTopic(tokenOut),
		},
		Data: append(amountWord(netIn), amountWord(amountOut)...),
	})
}

// emitSwapFailed records a venue failure under the adapter's address with
// the rendered reason: the structured text, or the 0x-hex payload.
func emitSwapFailed(state contract.StateDB, adapter common.Address, reason string) {
	state.AddLog(&ethtypes.Log{
		Address: adapter,
		Topics:  []common.Hash{EventSwapFailed, addressTopic(adapter)},
		Data:    []byte(reason),
	})
}

func emitFeeCollected(state contract.StateDB, asset, payer common.Address, fee *uint256.Int) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventFeeCollected, addressTopic(asset), addressTopic(payer)},
		Data:    amountWord(fee),
	})
}

func emitFeeUpdated(state contract.StateDB, feeBps uint64) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventFeeUpdated},
		Data:    uint64Word(feeBps),
	})
}

func emitFeeReceiverUpdated(state contract.StateDB, receiver common.Address) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventFeeReceiverUpdated, addressTopic(receiver)},
	})
}

func emitAdapterApprovalSet(state contract.StateDB, adapter common.Address, approved bool) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventAdapterApprovalSet, addressTopic(adapter)},
		Data:    boolWord(approved),
	})
}

func emitFeeExemptSet(state contract.StateDB, wallet common.Address, exempt bool) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventFeeExemptSet, addressTopic(wallet)},
		Data:    boolWord(exempt),
	})
}

func emitDeadlineWindowUpdated(state contract.StateDB, window uint64) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventDeadlineWindowUpdated},
		Data:    uint64Word(window),
	})
}

func emitEmergencyWithdrawal(state contract.StateDB, asset, to common.Address, amount *uint256.Int) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventEmergencyWithdrawal, addressTopic(asset), addressTopic(to)},
		Data:    amountWord(amount),
	})
}

func emitAdminUpdated(state contract.StateDB, admin common.Address) {
	state.AddLog(&ethtypes.Log{
		Address: RouterAddress,
		Topics:  []common.Hash{EventAdminUpdated, addressTopic(admin)},
	})
}

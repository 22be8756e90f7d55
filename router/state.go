// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/swaprouter/contract"
)

// Router configuration lives in the router precompile's own storage.
// Scalar slots use a set-marker byte so an explicit zero is distinguishable
// from an unset default.

var (
	adminSlot          = routerSlot([]byte("admin"))
	feeBpsSlot         = routerSlot([]byte("feeBps"))
	feeReceiverSlot    = routerSlot([]byte("feeReceiver"))
	deadlineWindowSlot = routerSlot([]byte("deadlineWindow"))
	swapLockSlot       = routerSlot([]byte("swapLock"))
)

var (
	feeExemptPrefix      = []byte("exempt")
	adapterApprovePrefix = []byte("adapter")
)

func routerSlot(name []byte) common.Hash {
	return makeStorageKey([]byte("router"), name)
}

// makeStorageKey creates a storage key from prefix and identifier
func makeStorageKey(prefix []byte, id []byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	h.Write(id)
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

func feeExemptKey(wallet common.Address) common.Hash {
	return makeStorageKey(feeExemptPrefix, wallet.Bytes())
}

func adapterApprovalKey(id common.Address) common.Hash {
	return makeStorageKey(adapterApprovePrefix, id.Bytes())
}

// Scalar slot helpers, dead-simple marker encoding: byte 0 set means the
// value was written explicitly.

func getStateAddress(state contract.StateDB, slot common.Hash) common.Address {
	val := state.GetState(RouterAddress, slot)
	return common.BytesToAddress(val[12:])
}

func setStateAddress(state contract.StateDB, slot common.Hash, addr common.Address) {
	var val common.Hash
	copy(val[12:], addr.Bytes())
	state.SetState(RouterAddress, slot, val)
}

func getStateUint64(state contract.StateDB, slot common.Hash, def uint64) uint64 {
	val := state.GetState(RouterAddress, slot)
	if val[0] == 0 {
		return def
	}
	return binary.BigEndian.Uint64(val[24:])
}

func setStateUint64(state contract.StateDB, slot common.Hash, v uint64) {
	var val common.Hash
	val[0] = 1 // Marker: explicitly set
	binary.BigEndian.PutUint64(val[24:], v)
	state.SetState(RouterAddress, slot, val)
}

func getStateBool(state contract.StateDB, slot common.Hash) bool {
	val := state.GetState(RouterAddress, slot)
	return val[31] != 0
}

func setStateBool(state contract.StateDB, slot common.Hash, v bool) {
	var val common.Hash
	if v {
		val[31] = 1
	}
	state.SetState(RouterAddress, slot, val)
}

// Config accessors

func getAdmin(state contract.StateDB) common.Address {
	return getStateAddress(state, adminSlot)
}

// isAdmin reports whether [caller] may mutate router configuration.
// While no admin is set, the first caller may claim it (genesis bootstrap).
func isAdmin(state contract.StateDB, caller common.Address) bool {
	admin := getAdmin(state)
	if admin == (common.Address{}) {
		return true
	}
	return caller == admin
}

func getFeeBps(state contract.StateDB) uint64 {
	return getStateUint64(state, feeBpsSlot, 0)
}

func getFeeReceiver(state contract.StateDB) common.Address {
	return getStateAddress(state, feeReceiverSlot)
}

func getDeadlineWindow(state contract.StateDB) uint64 {
	return getStateUint64(state, deadlineWindowSlot, DefaultDeadlineWindow)
}

func isFeeExempt(state contract.StateDB, wallet common.Address) bool {
	return getStateBool(state, feeExemptKey(wallet))
}

func isAdapterApproved(state contract.StateDB, id common.Address) bool {
	if id == (common.Address{}) {
		return false
	}
	return getStateBool(state, adapterApprovalKey(id))
}

// Reentrancy guard: a single lock slot forbids a nested dispatch at any
// depth. An env already inside a dispatch frame inherits the held guard.

func acquireSwapGuard(env *Env) (func(), error) {
	if env.guardHeld {
		return func() {}, nil
	}
	if getStateBool(env.State, swapLockSlot) {
		return nil, ErrReentrant
	}
	setStateBool(env.State, swapLockSlot, true)
	env.guardHeld = true
	return func() {
		setStateBool(env.State, swapLockSlot, false)
		env.guardHeld = false
	}, nil
}

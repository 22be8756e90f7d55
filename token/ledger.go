// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements the value-transfer primitive the routing suite
// settles through: an ERC20-compatible ledger held in precompile storage,
// with the zero address denoting the native asset (settled directly on
// account balances). Transfers either fully succeed or fail; Approve sets
// an exact allowance value, never an additive one.
package token

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"
	"github.com/zeebo/blake3"

	"github.com/luxfi/swaprouter/contract"
)

// Storage key prefixes for ledger state, hashed under the token address.
var (
	balancePrefix   = []byte("tbal")
	allowancePrefix = []byte("talw")
)

// Errors
var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
	ErrNativeAsset           = errors.New("operation not supported on native asset")
)

// Event signature ids for ledger logs.
var (
	EventTransfer = eventID("Transfer(address,address,uint256)")
	EventApproval = eventID("Approval(address,address,uint256)")
)

// Native is the address denoting the native asset.
var Native = common.Address{}

// IsNative returns true if [asset] denotes the native asset.
func IsNative(asset common.Address) bool {
	return asset == Native
}

func eventID(sig string) common.Hash {
	h := blake3.New()
	h.Write([]byte(sig))
	var id common.Hash
	h.Digest().Read(id[:])
	return id
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

func balanceKey(holder common.Address) common.Hash {
	return makeStorageKey(balancePrefix, holder.Bytes())
}

func allowanceKey(owner, spender common.Address) common.Hash {
	return makeStorageKey(allowancePrefix, append(owner.Bytes(), spender.Bytes()...))
}

func getWord(state contract.StateDB, token common.Address, key common.Hash) *uint256.Int {
	val := state.GetState(token, key)
	return new(uint256.Int).SetBytes(val[:])
}

func setWord(state contract.StateDB, token common.Address, key common.Hash, v *uint256.Int) {
	state.SetState(token, key, common.Hash(v.Bytes32()))
}

// BalanceOf returns the ledger balance of [holder] in [token]. For the
// native asset it reads the account balance directly.
func BalanceOf(state contract.StateDB, token, holder common.Address) *uint256.Int {
	if IsNative(token) {
		return new(uint256.Int).Set(state.GetBalance(holder))
	}
	return getWord(state, token, balanceKey(holder))
}

// Allowance returns the outstanding approval [owner] has granted [spender].
func Allowance(state contract.StateDB, token, owner, spender common.Address) *uint256.Int {
	if IsNative(token) {
		return uint256.NewInt(0)
	}
	return getWord(state, token, allowanceKey(owner, spender))
}

// Approve sets the allowance from [owner] to [spender] to exactly [amount].
func Approve(state contract.StateDB, token, owner, spender common.Address, amount *uint256.Int) error {
	if IsNative(token) {
		return ErrNativeAsset
	}
	setWord(state, token, allowanceKey(owner, spender), amount)
	emitLedgerLog(state, token, EventApproval, owner, spender, amount)
	return nil
}

// Transfer moves [amount] of [token] from [from] to [to]. The move is
// all-or-nothing: an insufficient balance fails without any state change.
func Transfer(state contract.StateDB, token, from, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if IsNative(token) {
		if state.GetBalance(from).Lt(amount) {
			return ErrInsufficientBalance
		}
		state.SubBalance(from, amount, tracing.BalanceChangeTransfer)
		state.AddBalance(to, amount, tracing.BalanceChangeTransfer)
		return nil
	}

	fromKey := balanceKey(from)
	fromBal := getWord(state, token, fromKey)
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}

	toKey := balanceKey(to)
	toBal := getWord(state, token, toKey)

	setWord(state, token, fromKey, new(uint256.Int).Sub(fromBal, amount))
	setWord(state, token, toKey, new(uint256.Int).Add(toBal, amount))
	emitLedgerLog(state, token, EventTransfer, from, to, amount)
	return nil
}

// TransferFrom moves [amount] of [token] from [from] to [to] on behalf of
// [spender], consuming the spender's allowance.
func TransferFrom(state contract.StateDB, token, spender, from, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if IsNative(token) {
		return ErrNativeAsset
	}

	alwKey := allowanceKey(from, spender)
	allowance := getWord(state, token, alwKey)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}

	if err := Transfer(state, token, from, to, amount); err != nil {
		return err
	}

	setWord(state, token, alwKey, new(uint256.Int).Sub(allowance, amount))
	return nil
}

// Mint credits [amount] of [token] to [to]. This is the supply entry used
// at genesis and by bridging; it is not reachable from swap dispatch.
func Mint(state contract.StateDB, token, to common.Address, amount *uint256.Int) error {
	if IsNative(token) {
		return ErrNativeAsset
	}
	key := balanceKey(to)
	bal := getWord(state, token, key)
	setWord(state, token, key, new(uint256.Int).Add(bal, amount))
	emitLedgerLog(state, token, EventTransfer, common.Address{}, to, amount)
	return nil
}

func emitLedgerLog(state contract.StateDB, token common.Address, id common.Hash, a, b common.Address, amount *uint256.Int) {
	amt := amount.Bytes32()
	state.AddLog(&ethtypes.Log{
		Address: token,
		Topics:  []common.Hash{id, common.BytesToHash(a.Bytes()), common.BytesToHash(b.Bytes())},
		Data:    amt[:],
	})
}

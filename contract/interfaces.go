// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the interfaces stateful precompiled contracts
// are built against: EVM state access, block context, and the contract
// entry point invoked by the host EVM.
package contract

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/swaprouter/precompileconfig"
)

// StateDB is the subset of EVM state a stateful precompile may touch.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason)
	SubBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason)

	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64, reason tracing.NonceChangeReason)

	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	AddLog(log *ethtypes.Log)

	Snapshot() int
	RevertToSnapshot(id int)
}

// BlockContext provides block-level values to a precompile.
type BlockContext interface {
	Number() *big.Int
	Timestamp() uint64
}

// ConfigurationBlockContext is the context available while configuring
// a precompile at its activation block.
type ConfigurationBlockContext interface {
	Number() *big.Int
	Timestamp() uint64
}

// AccessibleState is the execution environment handed to Run.
type AccessibleState interface {
	GetStateDB() StateDB
	GetBlockContext() BlockContext

	// GetCallValue returns the native value attached to the call that
	// reached the precompile. The host credits this value to the
	// precompile address before Run executes.
	GetCallValue() *uint256.Int
}

// StatefulPrecompiledContract is the interface all stateful precompiles
// implement.
type StatefulPrecompiledContract interface {
	// Run executes the precompile with the given input and gas budget,
	// returning the output, the remaining gas, and an error if the call
	// reverted.
	Run(
		accessibleState AccessibleState,
		caller common.Address,
		addr common.Address,
		input []byte,
		suppliedGas uint64,
		readOnly bool,
	) (ret []byte, remainingGas uint64, err error)

	// RequiredGas estimates the gas charge for the given input.
	RequiredGas(input []byte) uint64
}

// Configurator applies a precompile's activation config to state.
type Configurator interface {
	MakeConfig() precompileconfig.Config
	Configure(
		chainConfig precompileconfig.ChainConfig,
		config precompileconfig.Config,
		state StateDB,
		blockContext ConfigurationBlockContext,
	) error
}

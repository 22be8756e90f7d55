// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/tracing"
	ethtypes "github.com/luxfi/geth/core/types"

	"github.com/luxfi/swaprouter/contract"
)

// MockStateDB implements contract.StateDB interface for testing
type MockStateDB struct {
	storage   map[common.Address]map[common.Hash]common.Hash
	balances  map[common.Address]*uint256.Int
	nonces    map[common.Address]uint64
	logs      []*ethtypes.Log
	snapshots []stateSnapshot
}

type stateSnapshot struct {
	storage  map[common.Address]map[common.Hash]common.Hash
	balances map[common.Address]*uint256.Int
	logCount int
}

func NewMockStateDB() *MockStateDB {
	return &MockStateDB{
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		balances: make(map[common.Address]*uint256.Int),
		nonces:   make(map[common.Address]uint64),
		logs:     make([]*ethtypes.Log, 0),
	}
}

func (m *MockStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if m.storage[addr] == nil {
		return common.Hash{}
	}
	return m.storage[addr][key]
}

func (m *MockStateDB) SetState(addr common.Address, key, value common.Hash) {
	if m.storage[addr] == nil {
		m.storage[addr] = make(map[common.Hash]common.Hash)
	}
	m.storage[addr][key] = value
}

func (m *MockStateDB) GetBalance(addr common.Address) *uint256.Int {
	if bal, ok := m.balances[addr]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (m *MockStateDB) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) {
	if m.balances[addr] == nil {
		m.balances[addr] = uint256.NewInt(0)
	}
	m.balances[addr] = new(uint256.Int).Add(m.balances[addr], amount)
}

func (m *MockStateDB) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) {
	if m.balances[addr] == nil {
		m.balances[addr] = uint256.NewInt(0)
	}
	m.balances[addr] = new(uint256.Int).Sub(m.balances[addr], amount)
}

func (m *MockStateDB) SetNonce(addr common.Address, nonce uint64, _ tracing.NonceChangeReason) {
	m.nonces[addr] = nonce
}

func (m *MockStateDB) GetNonce(addr common.Address) uint64 {
	return m.nonces[addr]
}

func (m *MockStateDB) CreateAccount(common.Address) {}
func (m *MockStateDB) Exist(common.Address) bool    { return true }

func (m *MockStateDB) AddLog(log *ethtypes.Log) { m.logs = append(m.logs, log) }
func (m *MockStateDB) Logs() []*ethtypes.Log    { return m.logs }

func (m *MockStateDB) Snapshot() int {
	snap := stateSnapshot{
		storage:  make(map[common.Address]map[common.Hash]common.Hash, len(m.storage)),
		balances: make(map[common.Address]*uint256.Int, len(m.balances)),
		logCount: len(m.logs),
	}
	for addr, slots := range m.storage {
		copied := make(map[common.Hash]common.Hash, len(slots))
		for k, v := range slots {
			copied[k] = v
		}
		snap.storage[addr] = copied
	}
	for addr, bal := range m.balances {
		snap.balances[addr] = bal.Clone()
	}
	m.snapshots = append(m.snapshots, snap)
	return len(m.snapshots) - 1
}

func (m *MockStateDB) RevertToSnapshot(id int) {
	snap := m.snapshots[id]
	m.storage = snap.storage
	m.balances = snap.balances
	m.logs = m.logs[:snap.logCount]
	m.snapshots = m.snapshots[:id]
}

// mockBlockContext implements contract.BlockContext
type mockBlockContext struct {
	number    *big.Int
	timestamp uint64
}

func (m *mockBlockContext) Number() *big.Int  { return m.number }
func (m *mockBlockContext) Timestamp() uint64 { return m.timestamp }

// mockAccessibleState implements contract.AccessibleState
type mockAccessibleState struct {
	state     *MockStateDB
	blockCtx  *mockBlockContext
	callValue *uint256.Int
}

func newMockAccessibleState(state *MockStateDB, timestamp uint64) *mockAccessibleState {
	return &mockAccessibleState{
		state:     state,
		blockCtx:  &mockBlockContext{number: big.NewInt(1), timestamp: timestamp},
		callValue: uint256.NewInt(0),
	}
}

func (m *mockAccessibleState) GetStateDB() contract.StateDB           { return m.state }
func (m *mockAccessibleState) GetBlockContext() contract.BlockContext { return m.blockCtx }
func (m *mockAccessibleState) GetCallValue() *uint256.Int             { return m.callValue }

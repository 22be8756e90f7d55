// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/swaprouter/token"
)

var (
	testToken    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testPayer    = common.HexToAddress("0x2000000000000000000000000000000000000001")
	testReceiver = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name     string
		feeBps   uint64
		receiver common.Address
		exempt   bool
		gross    uint64
		expected uint64
	}{
		{
			name:     "fifty bps",
			feeBps:   50,
			receiver: testReceiver,
			gross:    1_000_000,
			expected: 5_000,
		},
		{
			name:     "rounds down",
			feeBps:   50,
			receiver: testReceiver,
			gross:    199,
			expected: 0,
		},
		{
			name:     "zero fee",
			feeBps:   0,
			receiver: testReceiver,
			gross:    1_000_000,
			expected: 0,
		},
		{
			name:     "exempt payer",
			feeBps:   50,
			receiver: testReceiver,
			exempt:   true,
			gross:    1_000_000,
			expected: 0,
		},
		{
			name:     "no receiver configured",
			feeBps:   50,
			gross:    1_000_000,
			expected: 0,
		},
		{
			name:     "max fee",
			feeBps:   FeeMaxBps,
			receiver: testReceiver,
			gross:    1_000_000,
			expected: 100_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewMockStateDB()
			setStateUint64(state, feeBpsSlot, tt.feeBps)
			if tt.receiver != (common.Address{}) {
				setStateAddress(state, feeReceiverSlot, tt.receiver)
			}
			if tt.exempt {
				setStateBool(state, feeExemptKey(testPayer), true)
			}

			fee := computeFee(state, testPayer, uint256.NewInt(tt.gross))
			require.Equal(t, tt.expected, fee.Uint64())
		})
	}
}

func TestComputeFeeLargeGross(t *testing.T) {
	state := NewMockStateDB()
	setStateUint64(state, feeBpsSlot, FeeMaxBps)
	setStateAddress(state, feeReceiverSlot, testReceiver)

	// gross * feeBps overflows a single 256-bit word; the quotient must
	// still come out exact.
	gross := new(uint256.Int).Lsh(uint256.NewInt(1), 250)
	expected := new(uint256.Int).Div(gross, uint256.NewInt(10))

	fee := computeFee(state, testPayer, gross)
	require.Equal(t, expected, fee)

	max := new(uint256.Int).SubUint64(new(uint256.Int), 1)
	fee = computeFee(state, testPayer, max)
	require.Equal(t, new(uint256.Int).Div(max, uint256.NewInt(10)), fee)
}

func TestApplyProtocolFee(t *testing.T) {
	t.Run("ledger asset pulls from payer approval", func(t *testing.T) {
		state := NewMockStateDB()
		setStateUint64(state, feeBpsSlot, 50)
		setStateAddress(state, feeReceiverSlot, testReceiver)

		require.NoError(t, token.Mint(state, testToken, testPayer, uint256.NewInt(2_000_000)))
		require.NoError(t, token.Approve(state, testToken, testPayer, RouterAddress, uint256.NewInt(2_000_000)))

		env := &Env{State: state, Time: 1000}
		net, err := applyProtocolFee(env, testToken, testPayer, uint256.NewInt(1_000_000))
		require.NoError(t, err)
		require.Equal(t, uint64(995_000), net.Uint64())
		require.Equal(t, uint64(5_000), token.BalanceOf(state, testToken, testReceiver).Uint64())

		// Allowance consumed by exactly the fee.
		require.Equal(t, uint64(1_995_000), token.Allowance(state, testToken, testPayer, RouterAddress).Uint64())
	})

	t.Run("native asset pays from router custody", func(t *testing.T) {
		state := NewMockStateDB()
		setStateUint64(state, feeBpsSlot, 100)
		setStateAddress(state, feeReceiverSlot, testReceiver)

		// Attached value is already credited to the router when the fee runs.
		state.AddBalance(RouterAddress, uint256.NewInt(1_000_000), 0)

		env := &Env{State: state, Time: 1000, Value: uint256.NewInt(1_000_000)}
		net, err := applyProtocolFee(env, token.Native, testPayer, uint256.NewInt(1_000_000))
		require.NoError(t, err)
		require.Equal(t, uint64(990_000), net.Uint64())
		require.Equal(t, uint64(10_000), state.GetBalance(testReceiver).Uint64())
	})

	t.Run("zero fee leaves balances untouched", func(t *testing.T) {
		state := NewMockStateDB()
		env := &Env{State: state, Time: 1000}
		net, err := applyProtocolFee(env, testToken, testPayer, uint256.NewInt(1_000_000))
		require.NoError(t, err)
		require.Equal(t, uint64(1_000_000), net.Uint64())
		require.Empty(t, state.Logs())
	})

	t.Run("fee collection emits audit record", func(t *testing.T) {
		state := NewMockStateDB()
		setStateUint64(state, feeBpsSlot, 50)
		setStateAddress(state, feeReceiverSlot, testReceiver)
		require.NoError(t, token.Mint(state, testToken, testPayer, uint256.NewInt(1_000_000)))
		require.NoError(t, token.Approve(state, testToken, testPayer, RouterAddress, uint256.NewInt(1_000_000)))

		env := &Env{State: state, Time: 1000}
		_, err := applyProtocolFee(env, testToken, testPayer, uint256.NewInt(1_000_000))
		require.NoError(t, err)

		logs := state.Logs()
		require.NotEmpty(t, logs)
		last := logs[len(logs)-1]
		require.Equal(t, EventFeeCollected, last.Topics[0])
		require.Equal(t, RouterAddress, last.Address)
	})
}

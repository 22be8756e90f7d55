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

func TestEnsureExactAllowance(t *testing.T) {
	owner := common.HexToAddress("0x3000000000000000000000000000000000000001")
	spender := common.HexToAddress("0x3000000000000000000000000000000000000002")

	t.Run("fresh approval", func(t *testing.T) {
		state := NewMockStateDB()
		require.NoError(t, ensureExactAllowance(state, testToken, owner, spender, uint256.NewInt(500)))
		require.Equal(t, uint64(500), token.Allowance(state, testToken, owner, spender).Uint64())

		// No prior approval, so exactly one Approval record.
		require.Len(t, state.Logs(), 1)
	})

	t.Run("outstanding approval lowered to zero first", func(t *testing.T) {
		state := NewMockStateDB()
		require.NoError(t, token.Approve(state, testToken, owner, spender, uint256.NewInt(100)))

		require.NoError(t, ensureExactAllowance(state, testToken, owner, spender, uint256.NewInt(500)))
		require.Equal(t, uint64(500), token.Allowance(state, testToken, owner, spender).Uint64())

		// Prior approval, zeroing step, then the raise.
		logs := state.Logs()
		require.Len(t, logs, 3)
		require.Equal(t, uint256.NewInt(0).Bytes32(), [32]byte(common.BytesToHash(logs[1].Data)))
	})

	t.Run("never additive", func(t *testing.T) {
		state := NewMockStateDB()
		require.NoError(t, ensureExactAllowance(state, testToken, owner, spender, uint256.NewInt(300)))
		require.NoError(t, ensureExactAllowance(state, testToken, owner, spender, uint256.NewInt(300)))
		require.Equal(t, uint64(300), token.Allowance(state, testToken, owner, spender).Uint64())
	})
}

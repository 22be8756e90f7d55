// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestUint64SlotMarker(t *testing.T) {
	state := NewMockStateDB()

	// Unset slot yields the default.
	require.Equal(t, DefaultDeadlineWindow, getDeadlineWindow(state))

	// An explicit zero is not the default.
	setStateUint64(state, deadlineWindowSlot, 0)
	require.Equal(t, uint64(0), getDeadlineWindow(state))

	setStateUint64(state, deadlineWindowSlot, 600)
	require.Equal(t, uint64(600), getDeadlineWindow(state))
}

func TestAdminBootstrap(t *testing.T) {
	state := NewMockStateDB()
	first := common.HexToAddress("0x4000000000000000000000000000000000000001")
	other := common.HexToAddress("0x4000000000000000000000000000000000000002")

	// No admin set: anyone may claim.
	require.True(t, isAdmin(state, first))
	require.True(t, isAdmin(state, other))

	setStateAddress(state, adminSlot, first)
	require.True(t, isAdmin(state, first))
	require.False(t, isAdmin(state, other))
}

func TestAdapterApproval(t *testing.T) {
	state := NewMockStateDB()
	id := common.HexToAddress("0x5000000000000000000000000000000000000001")

	require.False(t, isAdapterApproved(state, id))
	setStateBool(state, adapterApprovalKey(id), true)
	require.True(t, isAdapterApproved(state, id))

	// The zero identity is never approved, even if its slot is set.
	setStateBool(state, adapterApprovalKey(common.Address{}), true)
	require.False(t, isAdapterApproved(state, common.Address{}))
}

func TestSwapGuard(t *testing.T) {
	t.Run("acquire and release", func(t *testing.T) {
		env := &Env{State: NewMockStateDB()}
		release, err := acquireSwapGuard(env)
		require.NoError(t, err)
		require.True(t, env.guardHeld)
		release()
		require.False(t, env.guardHeld)

		// Reacquirable after release.
		release, err = acquireSwapGuard(env)
		require.NoError(t, err)
		release()
	})

	t.Run("held guard is inherited", func(t *testing.T) {
		env := &Env{State: NewMockStateDB()}
		release, err := acquireSwapGuard(env)
		require.NoError(t, err)
		defer release()

		// Nested acquisition on the same env is a no-op, not a deadlock.
		innerRelease, err := acquireSwapGuard(env)
		require.NoError(t, err)
		innerRelease()
		require.True(t, env.guardHeld)
	})

	t.Run("fresh env hits the lock", func(t *testing.T) {
		state := NewMockStateDB()
		outer := &Env{State: state}
		release, err := acquireSwapGuard(outer)
		require.NoError(t, err)
		defer release()

		// A venue re-entering through a new call frame sees the lock.
		inner := &Env{State: state}
		_, err = acquireSwapGuard(inner)
		require.ErrorIs(t, err, ErrReentrant)
	})
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"testing"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/swaprouter/precompileconfig"
)

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "empty config",
			config: Config{},
		},
		{
			name:   "fee with receiver",
			config: Config{FeeBps: 50, FeeReceiver: testReceiver},
		},
		{
			name:    "fee above cap",
			config:  Config{FeeBps: FeeMaxBps + 1, FeeReceiver: testReceiver},
			wantErr: true,
		},
		{
			name:    "fee without receiver",
			config:  Config{FeeBps: 50},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Verify(nil)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigEqual(t *testing.T) {
	base := &Config{
		InitialAdmin:     common.HexToAddress("0x01"),
		FeeBps:           30,
		FeeReceiver:      testReceiver,
		ApprovedAdapters: []common.Address{PairAdapterAddress},
	}

	same := &Config{
		InitialAdmin:     common.HexToAddress("0x01"),
		FeeBps:           30,
		FeeReceiver:      testReceiver,
		ApprovedAdapters: []common.Address{PairAdapterAddress},
	}
	require.True(t, base.Equal(same))

	diff := *same
	diff.FeeBps = 31
	require.False(t, base.Equal(&diff))

	require.False(t, base.Equal(nil))

	other := *same
	other.ApprovedAdapters = []common.Address{TickAdapterAddress}
	require.False(t, base.Equal(&other))
}

func TestConfigure(t *testing.T) {
	state := NewMockStateDB()
	admin := common.HexToAddress("0x8000000000000000000000000000000000000001")

	cfg := &Config{
		InitialAdmin:     admin,
		FeeBps:           25,
		FeeReceiver:      testReceiver,
		ApprovedAdapters: []common.Address{PairAdapterAddress, {}},
		DeadlineWindow:   120,
	}
	require.NoError(t, cfg.Verify(nil))

	c := &configurator{}
	require.NoError(t, c.Configure(nil, cfg, state, nil))

	require.Equal(t, admin, getAdmin(state))
	require.Equal(t, uint64(25), getFeeBps(state))
	require.Equal(t, testReceiver, getFeeReceiver(state))
	require.Equal(t, uint64(120), getDeadlineWindow(state))
	require.True(t, isAdapterApproved(state, PairAdapterAddress))
	require.False(t, isAdapterApproved(state, common.Address{}))
}

func TestConfigureRejectsWrongType(t *testing.T) {
	c := &configurator{}
	err := c.Configure(nil, precompileconfig.Config(nil), NewMockStateDB(), nil)
	require.Error(t, err)
}

func TestInstallAdapters(t *testing.T) {
	c := NewRouterContract(NewRouter(log.NewTestLogger(log.InfoLevel)))

	venues := VenueSet{
		PairVenueAddr: venueContract,
		Pair:          &fakePairVenue{adapter: PairAdapterAddress},

		TickVenueAddr: venueContract,
		Tick:          &fakeTickVenue{},

		RoutedVenueAddr:      venueContract,
		RoutedDefaultFactory: poolFactory,
		Routed:               &fakeRoutedVenue{},
	}
	require.NoError(t, c.InstallAdapters(venues))

	_, hasPair := c.router.adapters[PairAdapterAddress]
	require.True(t, hasPair)
	_, hasTick := c.router.adapters[TickAdapterAddress]
	require.True(t, hasTick)
	_, hasRouted := c.router.adapters[RoutedAdapterAddress]
	require.True(t, hasRouted)

	// The tiered venue was not bound, so no tiered adapter exists.
	_, hasTiered := c.router.adapters[TieredAdapterAddress]
	require.False(t, hasTiered)

	// Re-installing the same identity is rejected.
	require.Error(t, c.InstallAdapters(VenueSet{PairVenueAddr: venueContract, Pair: &fakePairVenue{}}))
}

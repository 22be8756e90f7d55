// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"fmt"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/luxfi/swaprouter/contract"
	"github.com/luxfi/swaprouter/modules"
	"github.com/luxfi/swaprouter/precompileconfig"
)

var _ contract.Configurator = (*configurator)(nil)
var _ contract.StatefulPrecompiledContract = (*RouterContract)(nil)

// ConfigKey is the key used in json config files to specify this precompile config.
const ConfigKey = "swapRouterConfig"

// RouterPrecompile is the singleton instance
var RouterPrecompile = NewRouterContract(NewRouter(log.NewTestLogger(log.InfoLevel)))

// Module is the precompile module (Router at 0x9010)
var Module = modules.Module{
	ConfigKey:    ConfigKey,
	Address:      RouterAddress,
	Contract:     RouterPrecompile,
	Configurator: &configurator{},
}

type configurator struct{}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

// VenueSet binds the four adapter variants to their venue contracts. The
// host chain installs it at node startup, before the activation block;
// variants with a nil venue are left uninstalled.
type VenueSet struct {
	PairVenueAddr common.Address
	Pair          PairVenue

	TieredVenueAddr common.Address
	Tiered          TieredVenue

	TickVenueAddr common.Address
	Tick          TickVenue

	RoutedVenueAddr      common.Address
	RoutedDefaultFactory common.Address
	Routed               RoutedVenue
}

// InstallAdapters constructs and registers the adapters for every venue
// bound in [venues]. Registration is identity-keyed and permanent for the
// process lifetime; dispatch additionally requires the on-chain approval
// flag.
func (c *RouterContract) InstallAdapters(venues VenueSet) error {
	if venues.Pair != nil {
		adapter, err := NewPairAdapter(venues.PairVenueAddr, venues.Pair)
		if err != nil {
			return fmt.Errorf("pair adapter: %w", err)
		}
		if err := c.router.RegisterAdapter(PairAdapterAddress, adapter); err != nil {
			return err
		}
	}
	if venues.Tiered != nil {
		adapter, err := NewTieredAdapter(venues.TieredVenueAddr, venues.Tiered)
		if err != nil {
			return fmt.Errorf("tiered adapter: %w", err)
		}
		if err := c.router.RegisterAdapter(TieredAdapterAddress, adapter); err != nil {
			return err
		}
	}
	if venues.Tick != nil {
		adapter, err := NewTickAdapter(venues.TickVenueAddr, venues.Tick)
		if err != nil {
			return fmt.Errorf("tick adapter: %w", err)
		}
		if err := c.router.RegisterAdapter(TickAdapterAddress, adapter); err != nil {
			return err
		}
	}
	if venues.Routed != nil {
		adapter, err := NewRoutedAdapter(venues.RoutedVenueAddr, venues.RoutedDefaultFactory, venues.Routed)
		if err != nil {
			return fmt.Errorf("routed adapter: %w", err)
		}
		if err := c.router.RegisterAdapter(RoutedAdapterAddress, adapter); err != nil {
			return err
		}
	}
	return nil
}

func (*configurator) MakeConfig() precompileconfig.Config {
	return new(Config)
}

// Configure seeds router storage from the activation config: admin, fee
// policy, deadline window, and the initial adapter approvals.
func (*configurator) Configure(
	chainConfig precompileconfig.ChainConfig,
	cfg precompileconfig.Config,
	state contract.StateDB,
	blockContext contract.ConfigurationBlockContext,
) error {
	config, ok := cfg.(*Config)
	if !ok {
		return fmt.Errorf("expected config type %T, got %T: %v", &Config{}, cfg, cfg)
	}

	if config.InitialAdmin != (common.Address{}) {
		setStateAddress(state, adminSlot, config.InitialAdmin)
	}
	if config.FeeBps != 0 {
		setStateUint64(state, feeBpsSlot, config.FeeBps)
	}
	if config.FeeReceiver != (common.Address{}) {
		setStateAddress(state, feeReceiverSlot, config.FeeReceiver)
	}
	if config.DeadlineWindow != 0 {
		setStateUint64(state, deadlineWindowSlot, config.DeadlineWindow)
	}
	for _, adapter := range config.ApprovedAdapters {
		if adapter == (common.Address{}) {
			continue
		}
		setStateBool(state, adapterApprovalKey(adapter), true)
	}
	return nil
}

// Config implements the precompileconfig.Config interface
type Config struct {
	Upgrade          precompileconfig.Upgrade `json:"upgrade,omitempty"`
	InitialAdmin     common.Address           `json:"initialAdmin,omitempty"`
	FeeBps           uint64                   `json:"feeBps,omitempty"`
	FeeReceiver      common.Address           `json:"feeReceiver,omitempty"`
	ApprovedAdapters []common.Address         `json:"approvedAdapters,omitempty"`
	DeadlineWindow   uint64                   `json:"deadlineWindow,omitempty"`
}

func (c *Config) Key() string {
	return ConfigKey
}

func (c *Config) Timestamp() *uint64 {
	return c.Upgrade.Timestamp()
}

func (c *Config) IsDisabled() bool {
	return c.Upgrade.Disable
}

func (c *Config) Equal(cfg precompileconfig.Config) bool {
	other, ok := cfg.(*Config)
	if !ok {
		return false
	}
	if len(c.ApprovedAdapters) != len(other.ApprovedAdapters) {
		return false
	}
	for i := range c.ApprovedAdapters {
		if c.ApprovedAdapters[i] != other.ApprovedAdapters[i] {
			return false
		}
	}
	return c.Upgrade.Equal(&other.Upgrade) &&
		c.InitialAdmin == other.InitialAdmin &&
		c.FeeBps == other.FeeBps &&
		c.FeeReceiver == other.FeeReceiver &&
		c.DeadlineWindow == other.DeadlineWindow
}

func (c *Config) Verify(chainConfig precompileconfig.ChainConfig) error {
	if c.FeeBps > FeeMaxBps {
		return fmt.Errorf("feeBps %d exceeds maximum %d", c.FeeBps, FeeMaxBps)
	}
	if c.FeeBps != 0 && c.FeeReceiver == (common.Address{}) {
		return fmt.Errorf("feeBps set without feeReceiver")
	}
	return nil
}

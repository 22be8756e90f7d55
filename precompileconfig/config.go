// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompileconfig defines the configuration interface precompile
// modules implement so the chain can activate, disable, and compare their
// configs across upgrades.
package precompileconfig

// Upgrade carries the activation schedule shared by all precompile configs.
type Upgrade struct {
	BlockTimestamp *uint64 `json:"blockTimestamp,omitempty"`
	Disable        bool    `json:"disable,omitempty"`
}

// Timestamp returns the activation timestamp, nil if never scheduled.
func (u *Upgrade) Timestamp() *uint64 {
	return u.BlockTimestamp
}

// Equal reports whether two upgrade schedules are identical.
func (u *Upgrade) Equal(other *Upgrade) bool {
	if other == nil {
		return false
	}
	if u.Disable != other.Disable {
		return false
	}
	if (u.BlockTimestamp == nil) != (other.BlockTimestamp == nil) {
		return false
	}
	if u.BlockTimestamp != nil && *u.BlockTimestamp != *other.BlockTimestamp {
		return false
	}
	return true
}

// ChainConfig exposes the chain-level values a precompile config may
// validate against.
type ChainConfig interface {
	IsEVM() bool
}

// Config is implemented by every precompile module config.
type Config interface {
	// Key returns the json key used for this config in genesis/upgrade files.
	Key() string
	// Timestamp returns the activation timestamp, nil if not scheduled.
	Timestamp() *uint64
	// IsDisabled returns true if this config deactivates the precompile.
	IsDisabled() bool
	// Equal reports whether the given config equals this one.
	Equal(Config) bool
	// Verify checks the config is internally consistent.
	Verify(ChainConfig) error
}

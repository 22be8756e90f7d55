// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modules holds the registry of stateful precompile modules that
// make up the swap routing suite. Modules register themselves at init time
// and are served to the host chain in deterministic address order.
package modules

import (
	"github.com/luxfi/geth/common"

	"github.com/luxfi/swaprouter/contract"
)

// Module pairs a precompile contract with its address and configurator.
type Module struct {
	// ConfigKey is the json key for this module's config in genesis and
	// upgrade files.
	ConfigKey string
	// Address is the address the precompile is served at.
	Address common.Address
	// Contract is the precompile implementation.
	Contract contract.StatefulPrecompiledContract
	// Configurator applies the module's config at activation.
	Configurator contract.Configurator
}

type moduleArray []Module

func (m moduleArray) Len() int      { return len(m) }
func (m moduleArray) Swap(i, j int) { m[i], m[j] = m[j], m[i] }
func (m moduleArray) Less(i, j int) bool {
	return m[i].Address.Cmp(m[j].Address) < 0
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// Auxiliary payloads are flat byte buffers of 32-byte words, decoded with
// a per-variant grammar. Only the absence of an optional trailing deadline
// has a defined default; a missing required per-hop parameter is rejected.

const wordSize = 32

// maxUint24 bounds fee tiers and tick spacings carried in aux words.
const maxUint24 = 1<<24 - 1

func wordCount(aux []byte) (int, bool) {
	if len(aux)%wordSize != 0 {
		return 0, false
	}
	return len(aux) / wordSize, true
}

func auxWord(aux []byte, i int) []byte {
	return aux[i*wordSize : (i+1)*wordSize]
}

// wordToUint64 decodes a 32-byte word whose value fits in 64 bits.
// The high 24 bytes must be zero.
func wordToUint64(word []byte) (uint64, bool) {
	for _, b := range word[:24] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint64(word[24:]), true
}

func wordToAddress(word []byte) common.Address {
	return common.BytesToAddress(word[12:])
}

func wordToUint256(word []byte) *uint256.Int {
	return new(uint256.Int).SetBytes(word)
}

// decodePairAux decodes the constant-product pair grammar: no fields for
// a single hop, an optional trailing deadline for multi-hop paths.
func decodePairAux(aux []byte, hops int) (deadline uint64, hasDeadline bool, err error) {
	n, aligned := wordCount(aux)
	if !aligned {
		return 0, false, ErrInvalidAuxData
	}
	if hops == 1 {
		if n != 0 {
			return 0, false, ErrInvalidAuxData
		}
		return 0, false, nil
	}
	switch n {
	case 0:
		return 0, false, nil
	case 1:
		d, ok := wordToUint64(auxWord(aux, 0))
		if !ok {
			return 0, false, ErrInvalidAuxData
		}
		return d, true, nil
	default:
		return 0, false, ErrInvalidAuxData
	}
}

// decodeTierAux decodes the fee-tiered grammar: one tier per hop, plus an
// optional trailing deadline on multi-hop paths. A word count that is
// neither hops nor hops+1 is a hop/parameter mismatch.
func decodeTierAux(aux []byte, hops int) (tiers []uint24, deadline uint64, hasDeadline bool, err error) {
	n, aligned := wordCount(aux)
	if !aligned {
		return nil, 0, false, ErrInvalidAuxData
	}
	switch {
	case n == hops:
	case n == hops+1 && hops > 1:
		d, ok := wordToUint64(auxWord(aux, hops))
		if !ok {
			return nil, 0, false, ErrInvalidAuxData
		}
		deadline, hasDeadline = d, true
	default:
		return nil, 0, false, ErrPathParameterMismatch
	}

	tiers = make([]uint24, hops)
	for i := 0; i < hops; i++ {
		v, ok := wordToUint64(auxWord(aux, i))
		if !ok || v > maxUint24 {
			return nil, 0, false, ErrInvalidAuxData
		}
		tiers[i] = uint24(v)
	}
	return tiers, deadline, hasDeadline, nil
}

// decodeTickAux decodes the tick-spaced grammar: one spacing per hop, each
// strictly positive, plus an optional trailing deadline on multi-hop paths.
func decodeTickAux(aux []byte, hops int) (spacings []int24, deadline uint64, hasDeadline bool, err error) {
	n, aligned := wordCount(aux)
	if !aligned {
		return nil, 0, false, ErrInvalidAuxData
	}
	switch {
	case n == hops:
	case n == hops+1 && hops > 1:
		d, ok := wordToUint64(auxWord(aux, hops))
		if !ok {
			return nil, 0, false, ErrInvalidAuxData
		}
		deadline, hasDeadline = d, true
	default:
		return nil, 0, false, ErrPathParameterMismatch
	}

	spacings = make([]int24, hops)
	for i := 0; i < hops; i++ {
		v, ok := wordToUint64(auxWord(aux, i))
		if !ok || v > maxUint24 {
			return nil, 0, false, ErrInvalidAuxData
		}
		if v == 0 {
			return nil, 0, false, ErrInvalidTickSpacing
		}
		spacings[i] = int24(v)
	}
	return spacings, deadline, hasDeadline, nil
}

// RouteParams carries the decoded per-hop parameters of the multi-route
// stable/volatile grammar: a stable flag and a factory address per hop.
type RouteParams struct {
	Stable  bool
	Factory common.Address
}

// decodeRouteAux decodes parallel per-hop (stable, factory) pairs, plus an
// optional trailing deadline on multi-hop paths.
func decodeRouteAux(aux []byte, hops int) (params []RouteParams, deadline uint64, hasDeadline bool, err error) {
	n, aligned := wordCount(aux)
	if !aligned {
		return nil, 0, false, ErrInvalidAuxData
	}
	switch {
	case n == 2*hops:
	case n == 2*hops+1 && hops > 1:
		d, ok := wordToUint64(auxWord(aux, 2*hops))
		if !ok {
			return nil, 0, false, ErrInvalidAuxData
		}
		deadline, hasDeadline = d, true
	default:
		return nil, 0, false, ErrPathParameterMismatch
	}

	params = make([]RouteParams, hops)
	for i := 0; i < hops; i++ {
		flag, ok := wordToUint64(auxWord(aux, 2*i))
		if !ok || flag > 1 {
			return nil, 0, false, ErrInvalidAuxData
		}
		params[i] = RouteParams{
			Stable:  flag == 1,
			Factory: wordToAddress(auxWord(aux, 2*i+1)),
		}
	}
	return params, deadline, hasDeadline, nil
}

// packPath builds the packed concentrated-liquidity path encoding
// address‖param‖address‖param‖…‖address, with the per-hop parameter in a
// 3-byte big-endian slot. Exact-output paths are built in reverse, output
// token first, with the parameters reversed to match.
func packPath(path []common.Address, params []uint24, reverse bool) []byte {
	hops := len(path) - 1
	out := make([]byte, 0, len(path)*20+hops*3)

	if !reverse {
		for i := 0; i < hops; i++ {
			out = append(out, path[i].Bytes()...)
			out = append(out, param3Bytes(params[i])...)
		}
		out = append(out, path[hops].Bytes()...)
		return out
	}

	for i := hops; i > 0; i-- {
		out = append(out, path[i].Bytes()...)
		out = append(out, param3Bytes(params[i-1])...)
	}
	out = append(out, path[0].Bytes()...)
	return out
}

func param3Bytes(v uint24) []byte {
	return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

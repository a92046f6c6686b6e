// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package config holds the chain level defaults for the Robonomics
// networks the SDK knows how to talk to.
package config

const (
	// KusamaEndpoint is the public websocket endpoint of the Robonomics
	// parachain on Kusama. Used when no endpoint is given explicitly.
	KusamaEndpoint = "wss://kusama.rpc.robonomics.network"

	// LocalEndpoint is the conventional endpoint of a robonomics dev node.
	LocalEndpoint = "ws://127.0.0.1:9944"

	// SS58Prefix is the Robonomics address network prefix.
	SS58Prefix uint16 = 32

	// TokenDecimals is the number of decimal places of 1 XRT.
	TokenDecimals = 9

	// TokenSymbol is the native token symbol of the Robonomics parachain.
	TokenSymbol = "XRT"

	// DatalogRecordLimit is the on-chain size limit of a single datalog
	// record payload, in bytes.
	DatalogRecordLimit = 512
)

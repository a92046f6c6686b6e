// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/utils"
)

// Backend is the node surface the pallet packages are written against.
// *Client implements it; tests substitute fakes.
type Backend interface {
	// Query decodes a chainstate storage value into target. A nil at reads
	// the latest state. The returned bool reports whether the key exists.
	Query(at *types.Hash, module, method string, target interface{}, args ...interface{}) (bool, error)

	// Submit signs and submits an extrinsic composed from Module.method and
	// SCALE encodable args, deriving the nonce from the chain.
	Submit(module, method string, args ...interface{}) (*Receipt, error)

	// SubmitWithNonce is Submit with an explicit account nonce.
	SubmitWithNonce(nonce uint32, module, method string, args ...interface{}) (*Receipt, error)

	// RawCall performs a plain JSON-RPC request against the node.
	RawCall(result interface{}, method string, args ...interface{}) error

	// Address returns the ss58 address of the signing account, or
	// ErrNoPrivateKey for a read only connection.
	Address() (string, error)

	// Signer returns the signing account, nil for a read only connection.
	Signer() *account.Account
}

var _ Backend = (*Client)(nil)

// ResolveAddress picks the explicit address or falls back to the backend
// signing account, returning both the ss58 form and the raw public key used
// as a storage map key.
func ResolveAddress(backend Backend, address string) (string, []byte, error) {
	if address == "" {
		own, err := backend.Address()
		if err != nil {
			return "", nil, err
		}
		address = own
	}

	pub, err := utils.PublicKeyFromAddress(address)
	if err != nil {
		return "", nil, err
	}
	return address, pub[:], nil
}

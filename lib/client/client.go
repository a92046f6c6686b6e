// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package client wraps the substrate RPC client with the service functions
// the Robonomics pallet packages are built on: chainstate queries, signed
// extrinsic submission (optionally rerouted through an RWS subscription)
// and raw RPC passthrough. Transport, SCALE codec and signing are all
// delegated to go-substrate-rpc-client.
package client

import (
	"errors"
	"fmt"
	"sync"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/config"
	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "client").Logger()

var (
	// ErrNoPrivateKey is returned when an extrinsic is submitted through a
	// client connected without a signing account.
	ErrNoPrivateKey = account.ErrNoPrivateKey

	// ErrExtrinsicFailed is returned when a watched extrinsic was included
	// but the node reported it dropped, usurped or invalid.
	ErrExtrinsicFailed = errors.New("extrinsic failed")
)

// Config holds the connection parameters of a client.
type Config struct {
	// Endpoint is the websocket URL of the node.
	Endpoint string `validate:"required,startswith=ws"`
}

// Client is a connection to a Robonomics node with cached chain metadata.
// It is safe for concurrent use; extrinsic submission is serialized so
// automatic nonces stay consistent.
type Client struct {
	api            *gsrpc.SubstrateAPI
	meta           *types.Metadata
	genesisHash    types.Hash
	runtimeVersion *types.RuntimeVersion

	signer           *account.Account
	rwsOwner         *types.AccountID
	rwsOwnerAddress  string
	waitForInclusion bool

	submitMu sync.Mutex
}

// Option configures a client on Connect.
type Option func(*Client) error

// WithSigner attaches an account used to sign extrinsics. Without it the
// client is read only.
func WithSigner(acc *account.Account) Option {
	return func(c *Client) error {
		c.signer = acc
		return nil
	}
}

// WithRWSOwner reroutes every submitted extrinsic through RWS.call using
// the subscription of the given owner address, so the device pays no fees.
func WithRWSOwner(address string) Option {
	return func(c *Client) error {
		pub, err := utils.PublicKeyFromAddress(address)
		if err != nil {
			return fmt.Errorf("invalid RWS owner address: %w", err)
		}
		owner, err := types.NewAccountID(pub[:])
		if err != nil {
			return fmt.Errorf("invalid RWS owner account: %w", err)
		}
		c.rwsOwner = owner
		c.rwsOwnerAddress = address
		return nil
	}
}

// WithoutInclusionWait makes Submit return as soon as the extrinsic is
// accepted by the node pool, without waiting for it to land in a block.
func WithoutInclusionWait() Option {
	return func(c *Client) error {
		c.waitForInclusion = false
		return nil
	}
}

// Connect dials the node, fetches and caches the metadata, genesis hash
// and runtime version. An empty endpoint falls back to the public Kusama
// Robonomics endpoint.
func Connect(endpoint string, options ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = config.KusamaEndpoint
	}

	if err := validator.New().Struct(Config{Endpoint: endpoint}); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	c := &Client{waitForInclusion: true}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	logger.Debug().Str("endpoint", endpoint).Msg("connecting to node")

	api, err := gsrpc.NewSubstrateAPI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("dialling node: %w", err)
	}
	c.api = api

	if c.meta, err = api.RPC.State.GetMetadataLatest(); err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}
	if c.genesisHash, err = api.RPC.Chain.GetBlockHash(0); err != nil {
		return nil, fmt.Errorf("fetching genesis hash: %w", err)
	}
	if c.runtimeVersion, err = api.RPC.State.GetRuntimeVersionLatest(); err != nil {
		return nil, fmt.Errorf("fetching runtime version: %w", err)
	}

	return c, nil
}

// Metadata returns the cached chain metadata.
func (c *Client) Metadata() *types.Metadata {
	return c.meta
}

// GenesisHash returns the chain genesis hash.
func (c *Client) GenesisHash() types.Hash {
	return c.genesisHash
}

// Signer returns the signing account, nil for a read only client.
func (c *Client) Signer() *account.Account {
	return c.signer
}

// Address returns the ss58 address of the signing account.
func (c *Client) Address() (string, error) {
	if c.signer == nil {
		return "", ErrNoPrivateKey
	}
	return c.signer.Address(), nil
}

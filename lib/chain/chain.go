// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package chain bundles the chain level helpers that do not belong to a
// single Robonomics pallet: account balances and nonces, token transfers
// and block or extrinsic lookups.
package chain

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "chain").Logger()

var (
	// ErrInvalidExtrinsicHash is returned when an extrinsic reference is
	// neither an index nor a 0x prefixed 32 byte hash.
	ErrInvalidExtrinsicHash = errors.New("invalid extrinsic hash")

	// ErrExtrinsicNotFound is returned when a block does not contain the
	// referenced extrinsic.
	ErrExtrinsicNotFound = errors.New("extrinsic not found in block")
)

// Backend is the node surface this package needs: the common pallet
// backend plus block retrieval.
type Backend interface {
	client.Backend

	// Block fetches a signed block by hash, or the chain head for nil.
	Block(hash *types.Hash) (*types.SignedBlock, error)

	// BlockHash resolves a block number to its hash.
	BlockHash(number uint64) (types.Hash, error)
}

var _ Backend = (*client.Client)(nil)

// Chain wraps the System and Balances helpers and block lookups.
type Chain struct {
	backend Backend
}

// New returns a Chain bound to a node connection.
func New(backend Backend) *Chain {
	return &Chain{backend: backend}
}

// AccountInfo fetches the System.Account record of an address: nonce and
// balance data. An address the chain has never seen yields the zero record.
// An empty address defaults to the signing account.
func (c *Chain) AccountInfo(address string, at *types.Hash) (*types.AccountInfo, error) {
	address, pub, err := client.ResolveAddress(c.backend, address)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("address", address).Msg("fetching account info")

	var info types.AccountInfo
	if _, err := c.backend.Query(at, "System", "Account", &info, pub); err != nil {
		return nil, err
	}
	return &info, nil
}

// Nonce asks the node for the next usable nonce of an address, pool
// transactions included. An empty address defaults to the signing account.
func (c *Chain) Nonce(address string) (uint32, error) {
	address, _, err := client.ResolveAddress(c.backend, address)
	if err != nil {
		return 0, err
	}

	var nonce uint32
	if err := c.backend.RawCall(&nonce, "system_accountNextIndex", address); err != nil {
		return 0, err
	}
	return nonce, nil
}

// TransferTokens sends amount wei (10^9 wei per XRT) to the destination
// address.
func (c *Chain) TransferTokens(dest string, amount uint64) (*client.Receipt, error) {
	pub, err := utils.PublicKeyFromAddress(dest)
	if err != nil {
		return nil, fmt.Errorf("invalid destination address: %w", err)
	}
	destination, err := types.NewMultiAddressFromAccountID(pub[:])
	if err != nil {
		return nil, fmt.Errorf("invalid destination account: %w", err)
	}

	logger.Info().Str("dest", dest).Uint64("amount", amount).Msg("transferring tokens")

	return c.backend.Submit("Balances", "transfer",
		destination, types.NewUCompactFromUInt(amount))
}

// BlockNumber resolves a block hash to its number, nil meaning the chain
// head.
func (c *Chain) BlockNumber(hash *types.Hash) (uint64, error) {
	block, err := c.backend.Block(hash)
	if err != nil {
		return 0, err
	}
	return uint64(block.Block.Header.Number), nil
}

// BlockHash resolves a block number to its hash.
func (c *Chain) BlockHash(number uint64) (types.Hash, error) {
	return c.backend.BlockHash(number)
}

// ExtrinsicsInBlock returns the body of a block, nil meaning the chain
// head.
func (c *Chain) ExtrinsicsInBlock(hash *types.Hash) ([]types.Extrinsic, error) {
	block, err := c.backend.Block(hash)
	if err != nil {
		return nil, err
	}
	return block.Block.Extrinsics, nil
}

// FindExtrinsic locates an extrinsic inside a block by reference: either
// its position in the block body as a decimal number, or its 0x prefixed
// blake2b-256 hash.
func (c *Chain) FindExtrinsic(hash *types.Hash, ref string) (*types.Extrinsic, error) {
	extrinsics, err := c.ExtrinsicsInBlock(hash)
	if err != nil {
		return nil, err
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 0 || index >= len(extrinsics) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrExtrinsicNotFound, index, len(extrinsics))
		}
		return &extrinsics[index], nil
	}

	want, err := parseExtrinsicHash(ref)
	if err != nil {
		return nil, err
	}

	for i := range extrinsics {
		h, err := client.ExtrinsicHash(&extrinsics[i])
		if err != nil {
			continue
		}
		if bytes.Equal(h[:], want[:]) {
			return &extrinsics[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrExtrinsicNotFound, ref)
}

func parseExtrinsicHash(ref string) (types.Hash, error) {
	if !strings.HasPrefix(ref, "0x") {
		return types.Hash{}, fmt.Errorf("%w: %q misses the 0x prefix", ErrInvalidExtrinsicHash, ref)
	}
	raw, err := hex.DecodeString(ref[2:])
	if err != nil || len(raw) != 32 {
		return types.Hash{}, fmt.Errorf("%w: %q is not 32 hex bytes", ErrInvalidExtrinsicHash, ref)
	}
	return types.NewHash(raw), nil
}

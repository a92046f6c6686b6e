// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"bytes"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"golang.org/x/crypto/blake2b"
)

// Receipt describes a submitted extrinsic. BlockHash, BlockNumber and Index
// are only populated when the client waits for inclusion.
type Receipt struct {
	// ExtrinsicHash is the blake2b-256 hash of the signed extrinsic.
	ExtrinsicHash types.Hash

	// BlockHash is the hash of the block the extrinsic was included in.
	BlockHash types.Hash

	// BlockNumber is the number of the including block.
	BlockNumber uint64

	// Index is the position of the extrinsic inside the block body, -1 when
	// it could not be located.
	Index int
}

// ID returns the portal style extrinsic identifier "blockNumber-index".
func (r *Receipt) ID() string {
	return fmt.Sprintf("%d-%d", r.BlockNumber, r.Index)
}

// Submit composes, signs and submits an extrinsic. Module and method are
// the pallet call names as shown on the chain portal. The account nonce is
// taken from the chain. When the client was connected with an RWS owner the
// call is wrapped into RWS.call.
func (c *Client) Submit(module, method string, args ...interface{}) (*Receipt, error) {
	return c.submit(nil, module, method, args...)
}

// SubmitWithNonce is Submit with an explicit nonce, for callers that batch
// several extrinsics without waiting for the chain to see the previous one.
func (c *Client) SubmitWithNonce(nonce uint32, module, method string, args ...interface{}) (*Receipt, error) {
	return c.submit(&nonce, module, method, args...)
}

func (c *Client) submit(nonce *uint32, module, method string, args ...interface{}) (*Receipt, error) {
	if c.signer == nil {
		return nil, ErrNoPrivateKey
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	call, err := types.NewCall(c.meta, module+"."+method, args...)
	if err != nil {
		return nil, fmt.Errorf("composing call %s.%s: %w", module, method, err)
	}

	if c.rwsOwner != nil {
		logger.Info().
			Str("call", module+"."+method).
			Str("owner", c.rwsOwnerAddress).
			Msg("wrapping call into RWS subscription")
		call, err = types.NewCall(c.meta, "RWS.call", *c.rwsOwner, call)
		if err != nil {
			return nil, fmt.Errorf("composing RWS.call: %w", err)
		}
	}

	if nonce == nil {
		next, err := c.NextNonce(c.signer.Address())
		if err != nil {
			return nil, err
		}
		nonce = &next
	}

	ext := types.NewExtrinsic(call)
	err = ext.Sign(c.signer.Keyring(), types.SignatureOptions{
		BlockHash:          c.genesisHash,
		Era:                types.ExtrinsicEra{IsImmortalEra: true},
		GenesisHash:        c.genesisHash,
		Nonce:              types.NewUCompactFromUInt(uint64(*nonce)),
		SpecVersion:        c.runtimeVersion.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: c.runtimeVersion.TransactionVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("signing extrinsic: %w", err)
	}

	extHash, err := ExtrinsicHash(&ext)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("call", module+"."+method).
		Str("extrinsic", extHash.Hex()).
		Msg("submitting extrinsic")

	if !c.waitForInclusion {
		if _, err := c.api.RPC.Author.SubmitExtrinsic(ext); err != nil {
			return nil, fmt.Errorf("submitting extrinsic: %w", err)
		}
		return &Receipt{ExtrinsicHash: extHash, Index: -1}, nil
	}

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return nil, fmt.Errorf("submitting extrinsic: %w", err)
	}
	defer sub.Unsubscribe()

	var blockHash types.Hash
watch:
	for {
		select {
		case status := <-sub.Chan():
			switch {
			case status.IsInBlock:
				blockHash = status.AsInBlock
				break watch
			case status.IsDropped, status.IsInvalid, status.IsUsurped:
				return nil, fmt.Errorf("%w: %s.%s rejected by the node", ErrExtrinsicFailed, module, method)
			}
		case err := <-sub.Err():
			return nil, fmt.Errorf("watching extrinsic: %w", err)
		}
	}

	receipt := &Receipt{ExtrinsicHash: extHash, BlockHash: blockHash, Index: -1}

	block, err := c.api.RPC.Chain.GetBlock(blockHash)
	if err != nil {
		return nil, fmt.Errorf("fetching including block: %w", err)
	}
	receipt.BlockNumber = uint64(block.Block.Header.Number)

	for i := range block.Block.Extrinsics {
		h, err := ExtrinsicHash(&block.Block.Extrinsics[i])
		if err != nil {
			continue
		}
		if bytes.Equal(h[:], extHash[:]) {
			receipt.Index = i
			break
		}
	}

	logger.Info().
		Str("extrinsic", extHash.Hex()).
		Uint64("block", receipt.BlockNumber).
		Msg("extrinsic included in block")

	return receipt, nil
}

// NextNonce asks the node for the next usable nonce of an address,
// including pool transactions.
func (c *Client) NextNonce(address string) (uint32, error) {
	var nonce uint32
	if err := c.RawCall(&nonce, "system_accountNextIndex", address); err != nil {
		return 0, fmt.Errorf("fetching account nonce: %w", err)
	}
	return nonce, nil
}

// ExtrinsicHash returns the blake2b-256 hash identifying an extrinsic,
// computed over its SCALE encoding. This is the hash shown by chain portals.
func ExtrinsicHash(ext *types.Extrinsic) (types.Hash, error) {
	enc, err := codec.Encode(ext)
	if err != nil {
		return types.Hash{}, fmt.Errorf("encoding extrinsic: %w", err)
	}
	sum := blake2b.Sum256(enc)
	return types.NewHash(sum[:]), nil
}

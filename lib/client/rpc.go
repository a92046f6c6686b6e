// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// RawCall performs a plain JSON-RPC request against the node. The node
// specific pubsub_* and p2p_* methods of Robonomics are reached this way.
func (c *Client) RawCall(result interface{}, method string, args ...interface{}) error {
	logger.Debug().Str("method", method).Msg("performing RPC request")

	if err := c.api.Client.Call(result, method, args...); err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}
	return nil
}

// SubscribeNewHeads streams chain head block headers. The returned stop
// function cancels the subscription and closes the channel.
func (c *Client) SubscribeNewHeads() (<-chan types.Header, func(), error) {
	sub, err := c.api.RPC.Chain.SubscribeNewHeads()
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to new heads: %w", err)
	}
	return sub.Chan(), sub.Unsubscribe, nil
}

// SubscribeEventStorage streams raw changes of the System.Events storage
// key. The consumer decodes them with DecodeEventStorage. The returned stop
// function cancels the subscription and closes the channel.
func (c *Client) SubscribeEventStorage() (<-chan types.StorageChangeSet, func(), error) {
	key, err := c.storageKey("System", "Events")
	if err != nil {
		return nil, nil, err
	}

	sub, err := c.api.RPC.State.SubscribeStorageRaw([]types.StorageKey{key})
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to event storage: %w", err)
	}
	return sub.Chan(), sub.Unsubscribe, nil
}

// DecodeEventStorage decodes a raw System.Events storage value into target,
// a struct of event slices in the go-substrate-rpc-client event records
// format.
func (c *Client) DecodeEventStorage(data types.StorageDataRaw, target interface{}) error {
	if err := types.EventRecordsRaw(data).DecodeEventRecords(c.meta, target); err != nil {
		return fmt.Errorf("decoding event records: %w", err)
	}
	return nil
}

// BlockNumber resolves a block hash to its number.
func (c *Client) BlockNumber(hash types.Hash) (uint64, error) {
	block, err := c.api.RPC.Chain.GetBlock(hash)
	if err != nil {
		return 0, fmt.Errorf("fetching block %s: %w", hash.Hex(), err)
	}
	return uint64(block.Block.Header.Number), nil
}

// BlockHash resolves a block number to its hash.
func (c *Client) BlockHash(number uint64) (types.Hash, error) {
	hash, err := c.api.RPC.Chain.GetBlockHash(number)
	if err != nil {
		return types.Hash{}, fmt.Errorf("fetching block hash #%d: %w", number, err)
	}
	return hash, nil
}

// Block fetches a signed block by hash, or the chain head for nil.
func (c *Client) Block(hash *types.Hash) (*types.SignedBlock, error) {
	if hash == nil {
		block, err := c.api.RPC.Chain.GetBlockLatest()
		if err != nil {
			return nil, fmt.Errorf("fetching latest block: %w", err)
		}
		return block, nil
	}

	block, err := c.api.RPC.Chain.GetBlock(*hash)
	if err != nil {
		return nil, fmt.Errorf("fetching block %s: %w", hash.Hex(), err)
	}
	return block, nil
}

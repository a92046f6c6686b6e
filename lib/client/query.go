// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// Query reads a chainstate storage value. Module and method are the pallet
// storage names as shown on the chain portal, args are the storage map keys
// (SCALE encodable values, or pre-encoded []byte). A nil at queries the
// latest state.
func (c *Client) Query(at *types.Hash, module, method string, target interface{}, args ...interface{}) (bool, error) {
	key, err := c.storageKey(module, method, args...)
	if err != nil {
		return false, err
	}

	logger.Debug().Str("module", module).Str("method", method).Msg("performing chainstate query")

	if at == nil {
		ok, err := c.api.RPC.State.GetStorageLatest(key, target)
		if err != nil {
			return false, fmt.Errorf("querying %s.%s: %w", module, method, err)
		}
		return ok, nil
	}

	ok, err := c.api.RPC.State.GetStorage(key, target, *at)
	if err != nil {
		return false, fmt.Errorf("querying %s.%s at %s: %w", module, method, at.Hex(), err)
	}
	return ok, nil
}

// QueryRaw reads the undecoded SCALE bytes of a storage value, or nil when
// the key has no value.
func (c *Client) QueryRaw(at *types.Hash, module, method string, args ...interface{}) ([]byte, error) {
	key, err := c.storageKey(module, method, args...)
	if err != nil {
		return nil, err
	}

	var raw *types.StorageDataRaw
	if at == nil {
		raw, err = c.api.RPC.State.GetStorageRawLatest(key)
	} else {
		raw, err = c.api.RPC.State.GetStorageRaw(key, *at)
	}
	if err != nil {
		return nil, fmt.Errorf("querying raw %s.%s: %w", module, method, err)
	}
	if raw == nil {
		return nil, nil
	}
	return *raw, nil
}

// QueryStorageAt fetches the raw change sets of several storage keys in one
// request, at a block or the latest state for nil.
func (c *Client) QueryStorageAt(keys []types.StorageKey, at *types.Hash) ([]types.StorageChangeSet, error) {
	if at == nil {
		sets, err := c.api.RPC.State.QueryStorageAtLatest(keys)
		if err != nil {
			return nil, fmt.Errorf("querying storage: %w", err)
		}
		return sets, nil
	}

	sets, err := c.api.RPC.State.QueryStorageAt(keys, *at)
	if err != nil {
		return nil, fmt.Errorf("querying storage at %s: %w", at.Hex(), err)
	}
	return sets, nil
}

// StorageKey builds the storage key of a pallet entry, for use with
// QueryStorageAt.
func (c *Client) StorageKey(module, method string, args ...interface{}) (types.StorageKey, error) {
	return c.storageKey(module, method, args...)
}

func (c *Client) storageKey(module, method string, args ...interface{}) (types.StorageKey, error) {
	encoded := make([][]byte, 0, len(args))
	for _, arg := range args {
		if raw, ok := arg.([]byte); ok {
			encoded = append(encoded, raw)
			continue
		}
		b, err := codec.Encode(arg)
		if err != nil {
			return nil, fmt.Errorf("encoding storage key argument: %w", err)
		}
		encoded = append(encoded, b)
	}

	key, err := types.CreateStorageKey(c.meta, module, method, encoded...)
	if err != nil {
		return nil, fmt.Errorf("building storage key %s.%s: %w", module, method, err)
	}
	return key, nil
}

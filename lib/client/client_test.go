// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client_test

import (
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/client"
)

func TestConnectRejectsNonWebsocketEndpoint(t *testing.T) {
	testCases := []struct {
		name     string
		endpoint string
	}{
		{name: "http scheme", endpoint: "http://127.0.0.1:9944"},
		{name: "plain host", endpoint: "127.0.0.1:9944"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := client.Connect(test.endpoint)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid endpoint")
		})
	}
}

func TestConnectRejectsBadRWSOwner(t *testing.T) {
	// Option validation happens before any network dial.
	_, err := client.Connect("ws://127.0.0.1:9944", client.WithRWSOwner("not-an-address"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid RWS owner address")
}

func TestReceiptID(t *testing.T) {
	receipt := &client.Receipt{BlockNumber: 1337, Index: 2}
	assert.Equal(t, "1337-2", receipt.ID())

	missing := &client.Receipt{BlockNumber: 42, Index: -1}
	assert.Equal(t, "42--1", missing.ID())
}

func TestExtrinsicHash(t *testing.T) {
	call := types.Call{
		CallIndex: types.CallIndex{SectionIndex: 51, MethodIndex: 0},
		Args:      types.Args{0x04, 0x61},
	}
	ext := types.NewExtrinsic(call)

	first, err := client.ExtrinsicHash(&ext)
	require.NoError(t, err)
	assert.NotEqual(t, types.Hash{}, first)

	second, err := client.ExtrinsicHash(&ext)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := types.NewExtrinsic(types.Call{
		CallIndex: types.CallIndex{SectionIndex: 51, MethodIndex: 1},
	})
	otherHash, err := client.ExtrinsicHash(&other)
	require.NoError(t, err)
	assert.NotEqual(t, first, otherHash)
}

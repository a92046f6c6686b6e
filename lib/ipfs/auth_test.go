// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ipfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/account"
)

const testMnemonic = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

func TestWithWeb3AuthSetsRequestHeader(t *testing.T) {
	acc, err := account.New(testMnemonic)
	require.NoError(t, err)

	i, err := New("/ip4/127.0.0.1/tcp/5001", WithWeb3Auth(acc))
	require.NoError(t, err)

	// httpapi sends its Headers with every API request.
	got := i.api.Headers.Get("Authorization")
	want, err := Web3AuthHeader(acc)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNewWithoutAuthLeavesHeaderEmpty(t *testing.T) {
	i, err := New("/ip4/127.0.0.1/tcp/5001")
	require.NoError(t, err)
	assert.Empty(t, i.api.Headers.Get("Authorization"))
}

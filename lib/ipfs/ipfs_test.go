// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ipfs_test

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/ipfs"
)

const devMnemonic = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

func TestNewRejectsBadMultiaddr(t *testing.T) {
	_, err := ipfs.New("localhost:5001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api multiaddr")
}

func TestWeb3Credentials(t *testing.T) {
	acc, err := account.New(devMnemonic)
	require.NoError(t, err)

	user, password, err := ipfs.Web3Credentials(acc)
	require.NoError(t, err)

	assert.Equal(t, "sub-"+acc.Address(), user)
	require.True(t, strings.HasPrefix(password, "0x"))

	sig, err := hex.DecodeString(password[2:])
	require.NoError(t, err)

	// The password is the account signing its own address.
	ok, err := acc.Verify([]byte(acc.Address()), sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWeb3AuthHeader(t *testing.T) {
	acc, err := account.New(devMnemonic)
	require.NoError(t, err)

	header, err := ipfs.Web3AuthHeader(acc)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(header, "Basic "))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(decoded), "sub-"+acc.Address()+":0x"))
}

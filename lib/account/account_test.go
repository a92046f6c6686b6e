// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package account

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well known development mnemonic, not a secret.
const devMnemonic = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

func TestNewFromMnemonic(t *testing.T) {
	acc, err := New(devMnemonic)
	require.NoError(t, err)

	assert.Len(t, acc.PublicKey(), 32)
	assert.Equal(t, uint16(32), acc.SS58Prefix())
	assert.NotEmpty(t, acc.Address())
	// Robonomics addresses encode network prefix 32 and start with "4".
	assert.True(t, strings.HasPrefix(acc.Address(), "4"), "address %q", acc.Address())
}

func TestNewWithPrefix(t *testing.T) {
	robonomics, err := New(devMnemonic)
	require.NoError(t, err)

	generic, err := New(devMnemonic, WithSS58Prefix(42))
	require.NoError(t, err)

	// Same key, different network encoding.
	assert.Equal(t, robonomics.PublicKey(), generic.PublicKey())
	assert.NotEqual(t, robonomics.Address(), generic.Address())
}

func TestNewInvalidSeed(t *testing.T) {
	_, err := New("definitely not a valid seed phrase")
	require.Error(t, err)
}

func TestGenerate(t *testing.T) {
	acc, mnemonic, err := Generate()
	require.NoError(t, err)

	assert.Len(t, strings.Fields(mnemonic), 12)

	recovered, err := New(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, acc.Address(), recovered.Address())
}

func TestSignAndVerify(t *testing.T) {
	acc, err := New(devMnemonic)
	require.NoError(t, err)

	message := []byte("liability agreement proof")
	sig, err := acc.Sign(message)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	ok, err := acc.Verify(message, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = acc.Verify([]byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySignatureByAddress(t *testing.T) {
	signer, err := New(devMnemonic)
	require.NoError(t, err)

	message := []byte("report payload")
	sig, err := signer.Sign(message)
	require.NoError(t, err)

	ok, err := VerifySignature(message, sig, signer.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	other, _, err := Generate()
	require.NoError(t, err)
	ok, err = VerifySignature(message, sig, other.Address())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifySignature(message, sig[:10], signer.Address())
	require.ErrorIs(t, err, ErrBadSignatureLength)
}

// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package account wraps sr25519 key handling for the Robonomics networks.
// The keyring itself is managed by the substrate client library; this
// package only fixes the network prefix and adds signing helpers.
package account

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/go-schnorrkel"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	bip39 "github.com/cosmos/go-bip39"

	"github.com/airalab/go-robonomics/config"
	"github.com/airalab/go-robonomics/lib/utils"
)

var (
	// ErrNoPrivateKey is returned by operations that need to sign while no
	// seed was provided.
	ErrNoPrivateKey = errors.New("no private key")

	// ErrBadSignatureLength is returned when a signature is not 64 bytes.
	ErrBadSignatureLength = errors.New("signature must be 64 bytes")
)

// signingContext is the transcript label substrate uses for sr25519
// signatures.
var signingContext = []byte("substrate")

// Account holds an sr25519 keyring bound to an ss58 network prefix.
type Account struct {
	keyring signature.KeyringPair
	prefix  uint16
}

// Option configures account creation.
type Option func(*settings)

type settings struct {
	prefix uint16
}

// WithSS58Prefix overrides the Robonomics network prefix, for example to
// derive addresses for a dev chain.
func WithSS58Prefix(prefix uint16) Option {
	return func(s *settings) { s.prefix = prefix }
}

// New derives an account from a seed. The seed is either a BIP-39 mnemonic
// or a 0x prefixed raw hex seed, both handled by the substrate client
// library key derivation.
func New(seed string, options ...Option) (*Account, error) {
	s := settings{prefix: config.SS58Prefix}
	for _, option := range options {
		option(&s)
	}

	keyring, err := signature.KeyringPairFromSecret(seed, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("deriving keyring from seed: %w", err)
	}

	return &Account{keyring: keyring, prefix: s.prefix}, nil
}

// Generate creates an account from a fresh 12 word mnemonic and returns
// both. The mnemonic is the only way to recover the account, the caller is
// expected to store it.
func Generate(options ...Option) (*Account, string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, "", fmt.Errorf("generating entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", fmt.Errorf("building mnemonic: %w", err)
	}

	acc, err := New(mnemonic, options...)
	if err != nil {
		return nil, "", err
	}

	return acc, mnemonic, nil
}

// Address returns the ss58 address of the account on its network.
func (a *Account) Address() string {
	return a.keyring.Address
}

// PublicKey returns the raw 32 byte public key.
func (a *Account) PublicKey() []byte {
	return a.keyring.PublicKey
}

// SS58Prefix returns the network prefix the address was derived with.
func (a *Account) SS58Prefix() uint16 {
	return a.prefix
}

// Keyring exposes the underlying keyring for extrinsic signing.
func (a *Account) Keyring() signature.KeyringPair {
	return a.keyring
}

// Sign signs an arbitrary message with the account private key using the
// substrate sr25519 signing context.
func (a *Account) Sign(message []byte) ([]byte, error) {
	sig, err := signature.Sign(message, a.keyring.URI)
	if err != nil {
		return nil, fmt.Errorf("signing message: %w", err)
	}
	return sig, nil
}

// Verify checks an sr25519 signature made by this account.
func (a *Account) Verify(message, sig []byte) (bool, error) {
	return VerifySignature(message, sig, a.keyring.Address)
}

// VerifySignature checks an sr25519 signature against the ss58 address of
// the signer. Used to validate counterparty proofs (liability agreements)
// before paying for their submission.
func VerifySignature(message, sig []byte, address string) (bool, error) {
	if len(sig) != 64 {
		return false, ErrBadSignatureLength
	}

	pub, err := utils.PublicKeyFromAddress(address)
	if err != nil {
		return false, err
	}

	pubKey := new(schnorrkel.PublicKey)
	if err := pubKey.Decode(pub); err != nil {
		return false, fmt.Errorf("decoding public key: %w", err)
	}

	var raw [64]byte
	copy(raw[:], sig)
	signature := new(schnorrkel.Signature)
	if err := signature.Decode(raw); err != nil {
		return false, fmt.Errorf("decoding signature: %w", err)
	}

	transcript := schnorrkel.NewSigningContext(signingContext, message)
	ok, err := pubKey.Verify(signature, transcript)
	if err != nil {
		return false, fmt.Errorf("verifying signature: %w", err)
	}
	return ok, nil
}

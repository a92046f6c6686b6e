// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package utils provides the small data conversions the Robonomics pallets
// expect from a client: IPFS CIDv0 to raw digest packing, digital twin topic
// encoding and ss58 address helpers.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	subkey "github.com/vedhavyas/go-subkey/v2"
)

// ErrNotCIDv0 is returned when a string is not a base58 "Qm..." CID.
var ErrNotCIDv0 = errors.New("not a CIDv0 hash")

// cidV0Prefix is the multihash header of a CIDv0: sha2-256 code (0x12)
// followed by the digest length (0x20).
var cidV0Prefix = []byte{0x12, 0x20}

// CIDToDigest unpacks an IPFS base58 "Qm..." CIDv0 into its 32 byte sha2-256
// digest, the form the Launch and Liability pallets store on chain.
func CIDToDigest(cid string) ([32]byte, error) {
	var digest [32]byte

	if !strings.HasPrefix(cid, "Qm") {
		return digest, fmt.Errorf("%w: %q", ErrNotCIDv0, cid)
	}

	decoded := base58.Decode(cid)
	if len(decoded) != 34 || decoded[0] != cidV0Prefix[0] || decoded[1] != cidV0Prefix[1] {
		return digest, fmt.Errorf("%w: %q", ErrNotCIDv0, cid)
	}

	copy(digest[:], decoded[2:])
	return digest, nil
}

// DigestToCID packs a 32 byte sha2-256 digest back into an IPFS base58
// "Qm..." CIDv0 string.
func DigestToCID(digest [32]byte) string {
	return base58.Encode(append(cidV0Prefix, digest[:]...))
}

// HexToDigest parses a 0x prefixed 32 byte hex string.
func HexToDigest(s string) ([32]byte, error) {
	var digest [32]byte

	trimmed := strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return digest, fmt.Errorf("decoding hex string: %w", err)
	}
	if len(b) != 32 {
		return digest, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}

	copy(digest[:], b)
	return digest, nil
}

// ParseDigest accepts either a base58 CIDv0 or a 0x prefixed 32 byte hex
// string and returns the raw digest. Pallet parameters that hold an H256
// (launch param, liability technics and report hashes) accept both forms.
func ParseDigest(s string) ([32]byte, error) {
	if strings.HasPrefix(s, "Qm") {
		return CIDToDigest(s)
	}
	return HexToDigest(s)
}

// EncodeTopic hashes a digital twin topic name the way the DigitalTwin
// pallet stores it: sha256 over the raw string, 0x prefixed hex.
func EncodeTopic(topic string) string {
	sum := sha256.Sum256([]byte(topic))
	return fmt.Sprintf("0x%x", sum[:])
}

// TopicDigest is EncodeTopic returning the raw 32 bytes instead of hex.
func TopicDigest(topic string) [32]byte {
	return sha256.Sum256([]byte(topic))
}

// PublicKeyFromAddress decodes an ss58 address of any known network into
// the raw 32 byte public key.
func PublicKeyFromAddress(address string) ([32]byte, error) {
	var pub [32]byte

	_, b, err := subkey.SS58Decode(address)
	if err != nil {
		return pub, fmt.Errorf("decoding ss58 address: %w", err)
	}
	if len(b) != 32 {
		return pub, fmt.Errorf("expected 32 byte public key, got %d", len(b))
	}

	copy(pub[:], b)
	return pub, nil
}

// AddressFromPublicKey encodes a raw public key into an ss58 address with
// the given network prefix.
func AddressFromPublicKey(pub []byte, prefix uint16) string {
	return subkey.SS58Encode(pub, prefix)
}

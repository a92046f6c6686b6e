// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package rws interacts with Robonomics Web Services subscriptions: the
// auctions they are won in, the device allow-lists they carry and the
// subscription ledgers themselves.
package rws

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "rws").Logger()

var (
	// ErrNoAuction is returned when no auction exists under an index.
	ErrNoAuction = errors.New("auction not found")

	// ErrNoSubscription is returned when an address holds no subscription.
	ErrNoSubscription = errors.New("no active subscription")
)

// RWS wraps the RWS pallet calls.
type RWS struct {
	backend client.Backend
}

// New returns an RWS bound to a node connection.
func New(backend client.Backend) *RWS {
	return &RWS{backend: backend}
}

// Auction fetches a subscription auction by index.
func (r *RWS) Auction(index uint32, at *types.Hash) (*Auction, error) {
	logger.Debug().Uint32("index", index).Msg("fetching auction")

	var auction Auction
	ok, err := r.backend.Query(at, "RWS", "Auction", &auction, types.NewU32(index))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNoAuction, index)
	}
	return &auction, nil
}

// AuctionNext fetches the index of the next auction to be unlocked.
func (r *RWS) AuctionNext(at *types.Hash) (uint32, error) {
	var next types.U32
	if _, err := r.backend.Query(at, "RWS", "AuctionNext", &next); err != nil {
		return 0, err
	}
	return uint32(next), nil
}

// AuctionQueue fetches the indexes of the currently open auctions, holes in
// the on-chain queue omitted.
func (r *RWS) AuctionQueue(at *types.Hash) ([]uint32, error) {
	var queue []types.OptionU32
	if _, err := r.backend.Query(at, "RWS", "AuctionQueue", &queue); err != nil {
		return nil, err
	}

	indexes := make([]uint32, 0, len(queue))
	for _, entry := range queue {
		if ok, value := entry.Unwrap(); ok {
			indexes = append(indexes, uint32(value))
		}
	}
	return indexes, nil
}

// Devices fetches the device allow-list of a subscription owner. An empty
// owner defaults to the signing account.
func (r *RWS) Devices(owner string, at *types.Hash) ([]string, error) {
	owner, pub, err := client.ResolveAddress(r.backend, owner)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("owner", owner).Msg("fetching subscription devices")

	var devices []types.AccountID
	if _, err := r.backend.Query(at, "RWS", "Devices", &devices, pub); err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(devices))
	for _, device := range devices {
		addresses = append(addresses, utils.AddressFromPublicKey(device[:], 32))
	}
	return addresses, nil
}

// Ledger fetches the subscription ledger of an owner. An empty owner
// defaults to the signing account.
func (r *RWS) Ledger(owner string, at *types.Hash) (*Ledger, error) {
	owner, pub, err := client.ResolveAddress(r.backend, owner)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("owner", owner).Msg("fetching subscription ledger")

	var ledger Ledger
	ok, err := r.backend.Query(at, "RWS", "Ledger", &ledger, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSubscription, owner)
	}
	return &ledger, nil
}

// DaysLeft reports how many days of the owner subscription remain,
// counting a started day as a full one. Lifetime subscriptions return -1.
// The bool is false when there is no active subscription.
func (r *RWS) DaysLeft(owner string, at *types.Hash) (int64, bool, error) {
	ledger, err := r.Ledger(owner, at)
	if errors.Is(err, ErrNoSubscription) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	days, active := ledger.DaysLeft(time.Now())
	return days, active, nil
}

// IsInSub reports whether an address is an allowed device of the owner
// subscription. An empty address defaults to the signing account.
func (r *RWS) IsInSub(owner, address string, at *types.Hash) (bool, error) {
	if address == "" {
		own, err := r.backend.Address()
		if err != nil {
			return false, err
		}
		address = own
	}

	devices, err := r.Devices(owner, at)
	if err != nil {
		return false, err
	}

	for _, device := range devices {
		if device == address {
			return true, nil
		}
	}
	return false, nil
}

// Bid places a bid on a subscription auction. The amount is in wei, 10^9
// wei per XRT.
func (r *RWS) Bid(index uint32, amount uint64) (*client.Receipt, error) {
	logger.Info().Uint32("index", index).Uint64("amount", amount).Msg("bidding on auction")
	return r.backend.Submit("RWS", "bid",
		types.NewU32(index), types.NewU128(*new(big.Int).SetUint64(amount)))
}

// SetDevices replaces the device allow-list of the signing account
// subscription.
func (r *RWS) SetDevices(addresses []string) (*client.Receipt, error) {
	devices := make([]types.AccountID, 0, len(addresses))
	for _, address := range addresses {
		pub, err := utils.PublicKeyFromAddress(address)
		if err != nil {
			return nil, fmt.Errorf("invalid device address %q: %w", address, err)
		}
		id, err := types.NewAccountID(pub[:])
		if err != nil {
			return nil, fmt.Errorf("invalid device account %q: %w", address, err)
		}
		devices = append(devices, *id)
	}

	logger.Info().Int("devices", len(devices)).Msg("setting subscription devices")
	return r.backend.Submit("RWS", "set_devices", devices)
}

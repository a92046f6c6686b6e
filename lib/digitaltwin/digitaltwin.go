// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package digitaltwin manages DigitalTwin pallet objects: bags of
// sha256-hashed topics mapped to data source accounts.
package digitaltwin

import (
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "digital-twin").Logger()

var (
	// ErrNotFound is returned when no digital twin exists under an id.
	ErrNotFound = errors.New("digital twin not found")

	// ErrTopicNotFound is returned when a twin has no source for a topic.
	ErrTopicNotFound = errors.New("topic not found in digital twin map")
)

// TopicSource is one entry of a digital twin map: a hashed topic name and
// the account feeding it.
type TopicSource struct {
	Topic  types.H256
	Source types.AccountID
}

// Twin is a decoded digital twin map.
type Twin []TopicSource

// DigitalTwin wraps the DigitalTwin pallet calls.
type DigitalTwin struct {
	backend client.Backend
}

// New returns a DigitalTwin bound to a node connection.
func New(backend client.Backend) *DigitalTwin {
	return &DigitalTwin{backend: backend}
}

// Info fetches the topic map of a digital twin.
func (d *DigitalTwin) Info(id uint32, at *types.Hash) (Twin, error) {
	logger.Debug().Uint32("id", id).Msg("fetching digital twin info")

	var twin Twin
	ok, err := d.backend.Query(at, "DigitalTwin", "DigitalTwin", &twin, types.NewU32(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return twin, nil
}

// Owner fetches the owner address of a digital twin.
func (d *DigitalTwin) Owner(id uint32, at *types.Hash) (string, error) {
	logger.Debug().Uint32("id", id).Msg("fetching digital twin owner")

	var owner types.AccountID
	ok, err := d.backend.Query(at, "DigitalTwin", "Owner", &owner, types.NewU32(id))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return utils.AddressFromPublicKey(owner[:], 32), nil
}

// Total fetches the number of digital twins ever created.
func (d *DigitalTwin) Total(at *types.Hash) (uint32, error) {
	logger.Debug().Msg("fetching digital twin total")

	var total types.U32
	ok, err := d.backend.Query(at, "DigitalTwin", "Total", &total)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return uint32(total), nil
}

// Source finds the source address of a topic in a twin. The topic is a
// plain string, hashed the same way SetSource stores it.
func (d *DigitalTwin) Source(id uint32, topic string, at *types.Hash) (string, error) {
	twin, err := d.Info(id, at)
	if err != nil {
		return "", err
	}

	want := utils.TopicDigest(topic)
	for _, entry := range twin {
		if entry.Topic == types.NewH256(want[:]) {
			return utils.AddressFromPublicKey(entry.Source[:], 32), nil
		}
	}
	return "", fmt.Errorf("%w: %q in twin %d", ErrTopicNotFound, topic, id)
}

// Create registers a new digital twin owned by the signing account and
// returns its id together with the transaction receipt. The id is recovered
// by scanning ownership backwards from the new total, the way the pallet
// assigns ids.
func (d *DigitalTwin) Create() (uint32, *client.Receipt, error) {
	logger.Info().Msg("creating digital twin")

	receipt, err := d.backend.Submit("DigitalTwin", "create")
	if err != nil {
		return 0, nil, err
	}

	owner, err := d.backend.Address()
	if err != nil {
		return 0, receipt, err
	}

	total, err := d.Total(nil)
	if err != nil {
		return 0, receipt, err
	}

	id := total
	for i := int(total) - 1; i >= 0; i-- {
		twinOwner, err := d.Owner(uint32(i), nil)
		if err != nil {
			return 0, receipt, err
		}
		if twinOwner == owner {
			id = uint32(i)
			break
		}
	}

	return id, receipt, nil
}

// SetSource maps a topic of an owned twin to a source account and returns
// the hashed topic as stored on chain.
func (d *DigitalTwin) SetSource(id uint32, topic, source string) (string, *client.Receipt, error) {
	sourcePub, err := utils.PublicKeyFromAddress(source)
	if err != nil {
		return "", nil, fmt.Errorf("invalid source address: %w", err)
	}
	sourceID, err := types.NewAccountID(sourcePub[:])
	if err != nil {
		return "", nil, fmt.Errorf("invalid source account: %w", err)
	}

	digest := utils.TopicDigest(topic)

	logger.Info().Uint32("id", id).Str("topic", topic).Str("source", source).Msg("setting twin source")

	receipt, err := d.backend.Submit("DigitalTwin", "set_source",
		types.NewU32(id), types.NewH256(digest[:]), *sourceID)
	if err != nil {
		return "", nil, err
	}
	return utils.EncodeTopic(topic), receipt, nil
}

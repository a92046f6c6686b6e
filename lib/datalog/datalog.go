// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package datalog reads and writes the Datalog pallet, the on-chain ring
// buffer of device telemetry records.
package datalog

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/config"
	"github.com/airalab/go-robonomics/lib/client"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "datalog").Logger()

var (
	// ErrNoRecords is returned when an account has no datalog records.
	ErrNoRecords = errors.New("no datalog records")

	// ErrRecordTooLarge is returned when a payload exceeds the on-chain
	// record size limit.
	ErrRecordTooLarge = errors.New("datalog record too large")
)

// RingBufferIndex is the Datalog.DatalogIndex storage value delimiting the
// live window of an account ring buffer.
type RingBufferIndex struct {
	Start types.UCompact
	End   types.UCompact
}

// Window returns the index bounds as plain integers.
func (i RingBufferIndex) Window() (start, end uint64) {
	s := big.Int(i.Start)
	e := big.Int(i.End)
	return s.Uint64(), e.Uint64()
}

// Record is one Datalog.DatalogItem entry: a payload with the chain
// timestamp it was recorded at.
type Record struct {
	Timestamp types.UCompact
	Payload   types.Bytes
}

// Moment returns the record timestamp in unix milliseconds.
func (r Record) Moment() uint64 {
	m := big.Int(r.Timestamp)
	return m.Uint64()
}

func (r Record) String() string {
	return string(r.Payload)
}

// Datalog wraps the Datalog pallet calls.
type Datalog struct {
	backend client.Backend
}

// New returns a Datalog bound to a node connection.
func New(backend client.Backend) *Datalog {
	return &Datalog{backend: backend}
}

// Index fetches the ring buffer index of an account. An empty address
// defaults to the connected signing account.
func (d *Datalog) Index(address string, at *types.Hash) (*RingBufferIndex, error) {
	address, pub, err := client.ResolveAddress(d.backend, address)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("address", address).Msg("fetching datalog index")

	var index RingBufferIndex
	ok, err := d.backend.Query(at, "Datalog", "DatalogIndex", &index, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &RingBufferIndex{
			Start: types.NewUCompactFromUInt(0),
			End:   types.NewUCompactFromUInt(0),
		}, nil
	}
	return &index, nil
}

// Item fetches the datalog record of an account at a ring buffer index.
func (d *Datalog) Item(address string, index uint64, at *types.Hash) (*Record, error) {
	address, pub, err := client.ResolveAddress(d.backend, address)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("address", address).Uint64("index", index).Msg("fetching datalog record")

	var record Record
	ok, err := d.backend.Query(at, "Datalog", "DatalogItem", &record, pub, types.NewU64(index))
	if err != nil {
		return nil, err
	}
	if !ok || record.Moment() == 0 {
		return nil, fmt.Errorf("%w: %s at index %d", ErrNoRecords, address, index)
	}
	return &record, nil
}

// Latest fetches the most recent datalog record of an account.
func (d *Datalog) Latest(address string, at *types.Hash) (*Record, error) {
	index, err := d.Index(address, at)
	if err != nil {
		return nil, err
	}

	_, end := index.Window()
	if end == 0 {
		addr := address
		if addr == "" {
			addr, _ = d.backend.Address()
		}
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, addr)
	}
	return d.Item(address, end-1, at)
}

// Record writes a payload into the account datalog. Payloads over the
// on-chain limit of 512 bytes are rejected before submission, the node
// would refuse them anyway.
func (d *Datalog) Record(data string) (*client.Receipt, error) {
	if len(data) > config.DatalogRecordLimit {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d",
			ErrRecordTooLarge, len(data), config.DatalogRecordLimit)
	}

	logger.Info().Int("size", len(data)).Msg("writing datalog record")
	return d.backend.Submit("Datalog", "record", types.NewBytes([]byte(data)))
}

// Erase drops all datalog records of the signing account.
func (d *Datalog) Erase() (*client.Receipt, error) {
	logger.Info().Msg("erasing datalog")
	return d.backend.Submit("Datalog", "erase")
}

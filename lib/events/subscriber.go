// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package events decodes Robonomics chain events and streams them to a
// callback, filtered by event kind and the accounts involved.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "events").Logger()

// Kind identifies a Robonomics event type a subscriber can watch.
type Kind int

const (
	KindNewRecord Kind = iota
	KindErased
	KindNewLaunch
	KindTransfer
	KindNewDigitalTwin
	KindTopicChanged
	KindNewDevices
	KindNewLiability
	KindNewReport
)

// String returns the on-chain event name.
func (k Kind) String() string {
	switch k {
	case KindNewRecord:
		return "Datalog.NewRecord"
	case KindErased:
		return "Datalog.Erased"
	case KindNewLaunch:
		return "Launch.NewLaunch"
	case KindTransfer:
		return "Balances.Transfer"
	case KindNewDigitalTwin:
		return "DigitalTwin.NewDigitalTwin"
	case KindTopicChanged:
		return "DigitalTwin.TopicChanged"
	case KindNewDevices:
		return "RWS.NewDevices"
	case KindNewLiability:
		return "Liability.NewLiability"
	case KindNewReport:
		return "Liability.NewReport"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one decoded chain event delivered to the subscriber callback.
type Event struct {
	// Kind is the event type.
	Kind Kind

	// Block is the number of the block the event happened in.
	Block uint64

	// ID is the portal style identifier "blockNumber-extrinsicIndex", with
	// index -1 for events outside an extrinsic.
	ID string

	// Record is the typed event record, one of the Event* types of this
	// package or types.EventBalancesTransfer.
	Record interface{}
}

// Filter selects which events reach the callback. Zero value passes
// everything.
type Filter struct {
	// Kinds limits the event types, nil meaning all.
	Kinds []Kind

	// Addresses limits events to those involving one of the ss58 addresses:
	// the author for authored events (datalog, twin, devices), the target
	// for directed ones (launch robot, transfer destination, liability
	// promisee and report sender).
	Addresses []string
}

// Source is the node surface the subscriber consumes. *client.Client
// implements it.
type Source interface {
	SubscribeEventStorage() (<-chan types.StorageChangeSet, func(), error)
	DecodeEventStorage(data types.StorageDataRaw, target interface{}) error
	BlockNumber(hash types.Hash) (uint64, error)
}

var _ Source = (*client.Client)(nil)

// Subscriber streams filtered chain events to a callback until canceled.
// If the node drops the underlying subscription it reconnects with
// exponential backoff.
type Subscriber struct {
	source   Source
	callback func(Event)

	kinds     map[Kind]struct{}
	addresses map[types.AccountID]struct{}

	done     chan struct{}
	stopOnce sync.Once
}

// Subscribe starts streaming events matching the filter into the callback.
// The callback runs on the subscriber goroutine and must not block for
// long. Cancel stops the stream.
func Subscribe(src Source, filter Filter, callback func(Event)) (*Subscriber, error) {
	s := &Subscriber{
		source:   src,
		callback: callback,
		done:     make(chan struct{}),
	}

	if filter.Kinds != nil {
		s.kinds = make(map[Kind]struct{}, len(filter.Kinds))
		for _, kind := range filter.Kinds {
			s.kinds[kind] = struct{}{}
		}
	}

	if filter.Addresses != nil {
		s.addresses = make(map[types.AccountID]struct{}, len(filter.Addresses))
		for _, address := range filter.Addresses {
			pub, err := utils.PublicKeyFromAddress(address)
			if err != nil {
				return nil, fmt.Errorf("invalid filter address %q: %w", address, err)
			}
			id, err := types.NewAccountID(pub[:])
			if err != nil {
				return nil, fmt.Errorf("invalid filter account %q: %w", address, err)
			}
			s.addresses[*id] = struct{}{}
		}
	}

	go s.run()
	return s, nil
}

// Cancel stops the subscriber. Safe to call more than once.
func (s *Subscriber) Cancel() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Subscriber) run() {
	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = 0 // retry forever

	for {
		ch, stop, err := s.source.SubscribeEventStorage()
		if err != nil {
			wait := retry.NextBackOff()
			logger.Warn().Err(err).Dur("retry_in", wait).Msg("event subscription failed")
			select {
			case <-time.After(wait):
				continue
			case <-s.done:
				return
			}
		}
		retry.Reset()

		if !s.consume(ch, stop) {
			return
		}
		logger.Warn().Msg("event subscription closed, resubscribing")
	}
}

// consume drains one subscription. Returns false when the subscriber was
// canceled, true when the channel closed and a resubscribe is due.
func (s *Subscriber) consume(ch <-chan types.StorageChangeSet, stop func()) bool {
	defer stop()

	for {
		select {
		case set, ok := <-ch:
			if !ok {
				return true
			}
			s.handleChangeSet(set)
		case <-s.done:
			return false
		}
	}
}

func (s *Subscriber) handleChangeSet(set types.StorageChangeSet) {
	block, err := s.source.BlockNumber(set.Block)
	if err != nil {
		logger.Warn().Err(err).Str("block", set.Block.Hex()).Msg("resolving event block number")
		return
	}

	for _, change := range set.Changes {
		if !change.HasStorageData {
			continue
		}

		var records Records
		if err := s.source.DecodeEventStorage(change.StorageData, &records); err != nil {
			// Unknown events of other pallets are expected on runtime
			// upgrades, skip the block instead of dying.
			logger.Warn().Err(err).Uint64("block", block).Msg("decoding event records")
			continue
		}

		s.dispatch(&records, block)
	}
}

// dispatch filters decoded records and hands the survivors to the
// callback.
func (s *Subscriber) dispatch(records *Records, block uint64) {
	for _, r := range records.Datalog_NewRecord {
		s.emit(KindNewRecord, r.Phase, r.Sender, r, block)
	}
	for _, r := range records.Datalog_Erased {
		s.emit(KindErased, r.Phase, r.Sender, r, block)
	}
	for _, r := range records.Launch_NewLaunch {
		s.emit(KindNewLaunch, r.Phase, r.Robot, r, block)
	}
	for _, r := range records.Balances_Transfer {
		s.emit(KindTransfer, r.Phase, r.To, r, block)
	}
	for _, r := range records.DigitalTwin_NewDigitalTwin {
		s.emit(KindNewDigitalTwin, r.Phase, r.Sender, r, block)
	}
	for _, r := range records.DigitalTwin_TopicChanged {
		s.emit(KindTopicChanged, r.Phase, r.Sender, r, block)
	}
	for _, r := range records.RWS_NewDevices {
		s.emit(KindNewDevices, r.Phase, r.Sender, r, block)
	}
	for _, r := range records.Liability_NewLiability {
		s.emit(KindNewLiability, r.Phase, r.Promisee, r, block)
	}
	for _, r := range records.Liability_NewReport {
		s.emit(KindNewReport, r.Phase, r.Sender, r, block)
	}
}

func (s *Subscriber) emit(kind Kind, phase types.Phase, involved types.AccountID, record interface{}, block uint64) {
	if s.kinds != nil {
		if _, ok := s.kinds[kind]; !ok {
			return
		}
	}
	if s.addresses != nil {
		if _, ok := s.addresses[involved]; !ok {
			return
		}
	}

	index := -1
	if phase.IsApplyExtrinsic {
		index = int(phase.AsApplyExtrinsic)
	}

	s.callback(Event{
		Kind:   kind,
		Block:  block,
		ID:     fmt.Sprintf("%d-%d", block, index),
		Record: record,
	})
}

// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rws

import (
	"fmt"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

const dayMillis = 24 * 60 * 60 * 1000

// Subscription is the RWS subscription kind enum: either a lifetime
// subscription with a transactions-per-second quota, or a daily one.
type Subscription struct {
	IsLifetime  bool
	LifetimeTPS types.U32

	IsDaily   bool
	DailyDays types.U32
}

// Decode implements scale decoding for Subscription.
func (s *Subscription) Decode(decoder scale.Decoder) error {
	tag, err := decoder.ReadOneByte()
	if err != nil {
		return err
	}

	switch tag {
	case 0:
		s.IsLifetime = true
		return decoder.Decode(&s.LifetimeTPS)
	case 1:
		s.IsDaily = true
		return decoder.Decode(&s.DailyDays)
	default:
		return fmt.Errorf("unknown subscription kind tag %d", tag)
	}
}

// Encode implements scale encoding for Subscription.
func (s Subscription) Encode(encoder scale.Encoder) error {
	switch {
	case s.IsLifetime:
		if err := encoder.PushByte(0); err != nil {
			return err
		}
		return encoder.Encode(s.LifetimeTPS)
	case s.IsDaily:
		if err := encoder.PushByte(1); err != nil {
			return err
		}
		return encoder.Encode(s.DailyDays)
	default:
		return fmt.Errorf("subscription kind not set")
	}
}

// Ledger is the RWS.Ledger storage value describing an active subscription.
type Ledger struct {
	FreeWeight types.U64
	IssueTime  types.U64 // unix milliseconds
	Kind       Subscription
}

// DaysLeft reports how many days of the subscription remain at the given
// time, counting a started day as a full one. Lifetime subscriptions
// return -1. The bool reports whether the subscription is still active.
func (l *Ledger) DaysLeft(now time.Time) (int64, bool) {
	if l.Kind.IsLifetime {
		return -1, true
	}

	expire := int64(l.IssueTime) + dayMillis*int64(l.Kind.DailyDays)
	left := expire - now.UnixMilli()
	if left < 0 {
		return 0, false
	}
	return left/dayMillis + 1, true
}

// Auction is the RWS.Auction storage value of a subscription auction.
type Auction struct {
	Winner    *types.AccountID
	BestPrice types.U128
	Kind      Subscription
}

// Decode implements scale decoding for Auction.
func (a *Auction) Decode(decoder scale.Decoder) error {
	var hasWinner bool
	var winner types.AccountID
	if err := decoder.DecodeOption(&hasWinner, &winner); err != nil {
		return err
	}
	if hasWinner {
		a.Winner = &winner
	}

	if err := decoder.Decode(&a.BestPrice); err != nil {
		return err
	}
	return decoder.Decode(&a.Kind)
}

// Encode implements scale encoding for Auction.
func (a Auction) Encode(encoder scale.Encoder) error {
	var winner interface{}
	if a.Winner != nil {
		winner = *a.Winner
	}
	if err := encoder.EncodeOption(a.Winner != nil, winner); err != nil {
		return err
	}

	if err := encoder.Encode(a.BestPrice); err != nil {
		return err
	}
	return encoder.Encode(a.Kind)
}

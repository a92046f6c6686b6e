// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rws_test

import (
	"testing"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/client/clienttest"
	"github.com/airalab/go-robonomics/lib/rws"
	"github.com/airalab/go-robonomics/lib/utils"
)

const (
	ownerAddress  = "4GzMLepDF5nKTWDM6XpB3CrBcFmwgazcVFAD3ZBNAjKT6hQJ"
	deviceAddress = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
)

func TestSubscriptionCodec(t *testing.T) {
	daily := rws.Subscription{IsDaily: true, DailyDays: 30}

	encoded, err := codec.Encode(daily)
	require.NoError(t, err)
	// enum tag 1, then u32 days.
	assert.Equal(t, []byte{0x01, 0x1e, 0x00, 0x00, 0x00}, encoded)

	var decoded rws.Subscription
	require.NoError(t, codec.Decode(encoded, &decoded))
	assert.Equal(t, daily, decoded)

	lifetime := rws.Subscription{IsLifetime: true, LifetimeTPS: 10}
	encoded, err = codec.Encode(lifetime)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), encoded[0])

	var empty rws.Subscription
	_, err = codec.Encode(empty)
	require.Error(t, err)
}

func TestLedgerDaysLeft(t *testing.T) {
	issue := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		ledger rws.Ledger
		now    time.Time
		days   int64
		active bool
	}{
		{
			name:   "lifetime",
			ledger: rws.Ledger{Kind: rws.Subscription{IsLifetime: true, LifetimeTPS: 1}},
			now:    issue,
			days:   -1,
			active: true,
		},
		{
			name: "daily active",
			ledger: rws.Ledger{
				IssueTime: types.NewU64(uint64(issue.UnixMilli())),
				Kind:      rws.Subscription{IsDaily: true, DailyDays: 30},
			},
			now:    issue.Add(29*24*time.Hour + 12*time.Hour),
			days:   1,
			active: true,
		},
		{
			name: "daily fresh",
			ledger: rws.Ledger{
				IssueTime: types.NewU64(uint64(issue.UnixMilli())),
				Kind:      rws.Subscription{IsDaily: true, DailyDays: 30},
			},
			now:    issue.Add(time.Hour),
			days:   30,
			active: true,
		},
		{
			name: "daily expired",
			ledger: rws.Ledger{
				IssueTime: types.NewU64(uint64(issue.UnixMilli())),
				Kind:      rws.Subscription{IsDaily: true, DailyDays: 30},
			},
			now:    issue.Add(31 * 24 * time.Hour),
			days:   0,
			active: false,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			days, active := test.ledger.DaysLeft(test.now)
			assert.Equal(t, test.days, days)
			assert.Equal(t, test.active, active)
		})
	}
}

func TestDevicesAndIsInSub(t *testing.T) {
	devicePub, err := utils.PublicKeyFromAddress(deviceAddress)
	require.NoError(t, err)
	deviceID, err := types.NewAccountID(devicePub[:])
	require.NoError(t, err)

	backend := &clienttest.Backend{
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			require.Equal(t, "Devices", q.Method)
			*(target.(*[]types.AccountID)) = []types.AccountID{*deviceID}
			return true, nil
		},
	}

	r := rws.New(backend)

	devices, err := r.Devices(ownerAddress, nil)
	require.NoError(t, err)
	// Device addresses are re-encoded with the Robonomics prefix.
	deviceRobonomics := utils.AddressFromPublicKey(devicePub[:], 32)
	assert.Equal(t, []string{deviceRobonomics}, devices)

	ok, err := r.IsInSub(ownerAddress, deviceRobonomics, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsInSub(ownerAddress, ownerAddress, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDaysLeftNoSubscription(t *testing.T) {
	days, active, err := rws.New(&clienttest.Backend{}).DaysLeft(ownerAddress, nil)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Zero(t, days)
}

func TestAuctionQueueSkipsHoles(t *testing.T) {
	backend := &clienttest.Backend{
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			*(target.(*[]types.OptionU32)) = []types.OptionU32{
				types.NewOptionU32(3),
				types.NewOptionU32Empty(),
				types.NewOptionU32(5),
			}
			return true, nil
		},
	}

	queue, err := rws.New(backend).AuctionQueue(nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 5}, queue)
}

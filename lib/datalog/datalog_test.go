// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package datalog_test

import (
	"strings"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/client/clienttest"
	"github.com/airalab/go-robonomics/lib/datalog"
)

const testAddress = "4GzMLepDF5nKTWDM6XpB3CrBcFmwgazcVFAD3ZBNAjKT6hQJ"

func TestIndex(t *testing.T) {
	backend := &clienttest.Backend{
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			index := target.(*datalog.RingBufferIndex)
			index.Start = types.NewUCompactFromUInt(3)
			index.End = types.NewUCompactFromUInt(7)
			return true, nil
		},
	}

	index, err := datalog.New(backend).Index(testAddress, nil)
	require.NoError(t, err)

	start, end := index.Window()
	assert.Equal(t, uint64(3), start)
	assert.Equal(t, uint64(7), end)

	require.Len(t, backend.Queries, 1)
	q := backend.Queries[0]
	assert.Equal(t, "Datalog", q.Module)
	assert.Equal(t, "DatalogIndex", q.Method)
	require.Len(t, q.Args, 1)
	assert.Len(t, q.Args[0].([]byte), 32)
}

func TestIndexEmptyStorage(t *testing.T) {
	index, err := datalog.New(&clienttest.Backend{}).Index(testAddress, nil)
	require.NoError(t, err)

	start, end := index.Window()
	assert.Zero(t, start)
	assert.Zero(t, end)
}

func TestIndexNoAddressReadOnly(t *testing.T) {
	_, err := datalog.New(&clienttest.Backend{}).Index("", nil)
	require.ErrorIs(t, err, client.ErrNoPrivateKey)
}

func TestItem(t *testing.T) {
	backend := &clienttest.Backend{
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			record := target.(*datalog.Record)
			record.Timestamp = types.NewUCompactFromUInt(1677000000000)
			record.Payload = types.NewBytes([]byte("23.4C"))
			return true, nil
		},
	}

	record, err := datalog.New(backend).Item(testAddress, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "23.4C", record.String())
	assert.Equal(t, uint64(1677000000000), record.Moment())

	q := backend.Queries[0]
	require.Len(t, q.Args, 2)
	assert.Equal(t, types.NewU64(4), q.Args[1])
}

func TestItemMissing(t *testing.T) {
	_, err := datalog.New(&clienttest.Backend{}).Item(testAddress, 0, nil)
	require.ErrorIs(t, err, datalog.ErrNoRecords)
}

func TestLatest(t *testing.T) {
	backend := &clienttest.Backend{
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			switch q.Method {
			case "DatalogIndex":
				index := target.(*datalog.RingBufferIndex)
				index.Start = types.NewUCompactFromUInt(0)
				index.End = types.NewUCompactFromUInt(2)
			case "DatalogItem":
				record := target.(*datalog.Record)
				record.Timestamp = types.NewUCompactFromUInt(1677000000001)
				record.Payload = types.NewBytes([]byte("latest"))
			}
			return true, nil
		},
	}

	record, err := datalog.New(backend).Latest(testAddress, nil)
	require.NoError(t, err)
	assert.Equal(t, "latest", record.String())

	// Latest record lives at End-1.
	last := backend.Queries[len(backend.Queries)-1]
	assert.Equal(t, "DatalogItem", last.Method)
	assert.Equal(t, types.NewU64(1), last.Args[1])
}

func TestLatestEmpty(t *testing.T) {
	_, err := datalog.New(&clienttest.Backend{}).Latest(testAddress, nil)
	require.ErrorIs(t, err, datalog.ErrNoRecords)
}

func TestRecord(t *testing.T) {
	backend := &clienttest.Backend{Receipt: &client.Receipt{BlockNumber: 10, Index: 1}}

	receipt, err := datalog.New(backend).Record("payload")
	require.NoError(t, err)
	assert.Equal(t, "10-1", receipt.ID())

	require.Len(t, backend.Submissions, 1)
	s := backend.Submissions[0]
	assert.Equal(t, "Datalog", s.Module)
	assert.Equal(t, "record", s.Method)
	assert.Equal(t, []interface{}{types.NewBytes([]byte("payload"))}, s.Args)
}

func TestRecordTooLarge(t *testing.T) {
	backend := &clienttest.Backend{Receipt: &client.Receipt{}}

	_, err := datalog.New(backend).Record(strings.Repeat("a", 513))
	require.ErrorIs(t, err, datalog.ErrRecordTooLarge)
	assert.Empty(t, backend.Submissions)

	// The limit itself still fits.
	_, err = datalog.New(backend).Record(strings.Repeat("a", 512))
	require.NoError(t, err)
	assert.Len(t, backend.Submissions, 1)
}

func TestErase(t *testing.T) {
	backend := &clienttest.Backend{Receipt: &client.Receipt{}}

	_, err := datalog.New(backend).Erase()
	require.NoError(t, err)

	require.Len(t, backend.Submissions, 1)
	assert.Equal(t, "erase", backend.Submissions[0].Method)
	assert.Empty(t, backend.Submissions[0].Args)
}

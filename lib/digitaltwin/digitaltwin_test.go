// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package digitaltwin_test

import (
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/client/clienttest"
	"github.com/airalab/go-robonomics/lib/digitaltwin"
	"github.com/airalab/go-robonomics/lib/utils"
)

const (
	aliceAddress = "4GzMLepDF5nKTWDM6XpB3CrBcFmwgazcVFAD3ZBNAjKT6hQJ"
	devMnemonic  = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"
)

func accountID(t *testing.T, address string) types.AccountID {
	t.Helper()
	pub, err := utils.PublicKeyFromAddress(address)
	require.NoError(t, err)
	id, err := types.NewAccountID(pub[:])
	require.NoError(t, err)
	return *id
}

func TestSource(t *testing.T) {
	temperature := utils.TopicDigest("temperature")

	backend := &clienttest.Backend{
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			twin := target.(*digitaltwin.Twin)
			*twin = digitaltwin.Twin{
				{Topic: types.NewH256(temperature[:]), Source: accountID(t, aliceAddress)},
			}
			return true, nil
		},
	}

	source, err := digitaltwin.New(backend).Source(7, "temperature", nil)
	require.NoError(t, err)
	assert.Equal(t, aliceAddress, source)

	_, err = digitaltwin.New(backend).Source(7, "humidity", nil)
	require.ErrorIs(t, err, digitaltwin.ErrTopicNotFound)
}

func TestInfoNotFound(t *testing.T) {
	_, err := digitaltwin.New(&clienttest.Backend{}).Info(3, nil)
	require.ErrorIs(t, err, digitaltwin.ErrNotFound)
}

func TestCreateRecoversID(t *testing.T) {
	acc, err := account.New(devMnemonic)
	require.NoError(t, err)

	owners := map[uint32]string{0: aliceAddress, 1: acc.Address(), 2: aliceAddress}

	backend := &clienttest.Backend{
		Receipt: &client.Receipt{BlockNumber: 9, Index: 3},
		Account: acc,
		QueryFunc: func(q clienttest.Query, target interface{}) (bool, error) {
			switch q.Method {
			case "Total":
				*(target.(*types.U32)) = 3
				return true, nil
			case "Owner":
				id := uint32(q.Args[0].(types.U32))
				*(target.(*types.AccountID)) = accountID(t, owners[id])
				return true, nil
			}
			return false, nil
		},
	}

	id, receipt, err := digitaltwin.New(backend).Create()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)
	assert.Equal(t, "9-3", receipt.ID())
	assert.Equal(t, "create", backend.Submissions[0].Method)
}

func TestSetSource(t *testing.T) {
	backend := &clienttest.Backend{Receipt: &client.Receipt{}}

	hashed, _, err := digitaltwin.New(backend).SetSource(1, "temperature", aliceAddress)
	require.NoError(t, err)
	assert.Equal(t, utils.EncodeTopic("temperature"), hashed)

	s := backend.Submissions[0]
	assert.Equal(t, "set_source", s.Method)
	require.Len(t, s.Args, 3)
	assert.Equal(t, types.NewU32(1), s.Args[0])
	assert.Equal(t, accountID(t, aliceAddress), s.Args[2])
}

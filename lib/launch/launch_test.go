// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package launch_test

import (
	"encoding/hex"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/client/clienttest"
	"github.com/airalab/go-robonomics/lib/launch"
)

const (
	robotAddress  = "4GzMLepDF5nKTWDM6XpB3CrBcFmwgazcVFAD3ZBNAjKT6hQJ"
	paramCID      = "Qmd7HxJfecKDfXYgrqKt1CUhnwqfU7MHjmiBVZDFErhf5o"
	paramHex      = "0xdb7349104de8f73e835a548f02ea10b00dd8bef7333cbd2551e49bad32c6415e"
	robotPubHex   = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
)

func TestSend(t *testing.T) {
	testCases := []struct {
		name      string
		parameter string
	}{
		{name: "cid parameter", parameter: paramCID},
		{name: "hex parameter", parameter: paramHex},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			backend := &clienttest.Backend{Receipt: &client.Receipt{BlockNumber: 5, Index: 0}}

			receipt, err := launch.New(backend).Send(robotAddress, test.parameter)
			require.NoError(t, err)
			assert.Equal(t, "5-0", receipt.ID())

			require.Len(t, backend.Submissions, 1)
			s := backend.Submissions[0]
			assert.Equal(t, "Launch", s.Module)
			assert.Equal(t, "launch", s.Method)
			require.Len(t, s.Args, 2)

			robot := s.Args[0].(types.AccountID)
			assert.Equal(t, robotPubHex, hex.EncodeToString(robot[:]))

			// Both parameter forms carry the same digest.
			param := s.Args[1].(types.H256)
			assert.Equal(t, paramHex, param.Hex())
		})
	}
}

func TestSendInvalidInput(t *testing.T) {
	l := launch.New(&clienttest.Backend{})

	_, err := l.Send("bogus", paramCID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid robot address")

	_, err = l.Send(robotAddress, "0x1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid launch parameter")
}

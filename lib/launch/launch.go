// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package launch sends Launch pallet commands, the on-chain way to trigger
// a robot with a 32 byte parameter.
package launch

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "launch").Logger()

// Launch wraps the Launch pallet calls.
type Launch struct {
	backend client.Backend
}

// New returns a Launch bound to a node connection.
func New(backend client.Backend) *Launch {
	return &Launch{backend: backend}
}

// Send submits a launch command for a robot. The parameter is either a
// 0x prefixed 32 byte hex string or an IPFS CIDv0 ("Qm..."), the latter is
// packed into its raw digest before submission.
func (l *Launch) Send(robot, parameter string) (*client.Receipt, error) {
	robotPub, err := utils.PublicKeyFromAddress(robot)
	if err != nil {
		return nil, fmt.Errorf("invalid robot address: %w", err)
	}
	robotID, err := types.NewAccountID(robotPub[:])
	if err != nil {
		return nil, fmt.Errorf("invalid robot account: %w", err)
	}

	digest, err := utils.ParseDigest(parameter)
	if err != nil {
		return nil, fmt.Errorf("invalid launch parameter: %w", err)
	}

	logger.Info().Str("robot", robot).Msg("sending launch command")

	return l.backend.Submit("Launch", "launch", *robotID, types.NewH256(digest[:]))
}

// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package ipfs stores and fetches the content Robonomics transactions
// reference by hash: launch parameters, liability technics and reports.
// It talks to any IPFS node exposing the HTTP API, including Crust style
// gateways behind web3 basic auth.
package ipfs

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/ipfs/go-cid"
	httpapi "github.com/ipfs/go-ipfs-http-client"
	files "github.com/ipfs/go-libipfs/files"
	iface "github.com/ipfs/interface-go-ipfs-core"
	caopts "github.com/ipfs/interface-go-ipfs-core/options"
	path "github.com/ipfs/interface-go-ipfs-core/path"
	multiaddr "github.com/multiformats/go-multiaddr"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/account"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "ipfs").Logger()

// IPFS is a thin client over the IPFS HTTP API.
type IPFS struct {
	api *httpapi.HttpApi
}

// Option configures the client on New.
type Option func(*IPFS) error

// WithWeb3Auth authenticates every API request with the Crust style web3
// credentials of an account, see Web3Credentials.
func WithWeb3Auth(acc *account.Account) Option {
	return func(i *IPFS) error {
		header, err := Web3AuthHeader(acc)
		if err != nil {
			return err
		}
		i.api.Headers.Set("Authorization", header)
		return nil
	}
}

// New connects to an IPFS node HTTP API at a multiaddr, for example
// /ip4/127.0.0.1/tcp/5001.
func New(apiAddress string, options ...Option) (*IPFS, error) {
	addr, err := multiaddr.NewMultiaddr(apiAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid api multiaddr %q: %w", apiAddress, err)
	}

	api, err := httpapi.NewApi(addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to ipfs api: %w", err)
	}

	i := &IPFS{api: api}
	for _, option := range options {
		if err := option(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Add pins data on the node and returns its CID string together with the
// size the node reports for the stored object. When the node sends no add
// event the input length is returned instead.
func (i *IPFS) Add(ctx context.Context, data []byte) (string, int64, error) {
	events := make(chan interface{}, 16)

	resolved, err := i.api.Unixfs().Add(ctx, files.NewBytesFile(data), caopts.Unixfs.Events(events))
	if err != nil {
		return "", 0, fmt.Errorf("adding content: %w", err)
	}

	size := int64(len(data))
drain:
	for {
		select {
		case event := <-events:
			added, ok := event.(*iface.AddEvent)
			if !ok || added.Size == "" {
				continue
			}
			if reported, perr := strconv.ParseInt(added.Size, 10, 64); perr == nil {
				size = reported
			}
		default:
			break drain
		}
	}

	logger.Debug().Str("cid", resolved.Cid().String()).Int64("size", size).Msg("content added")

	return resolved.Cid().String(), size, nil
}

// Cat fetches the content behind a CID.
func (i *IPFS) Cat(ctx context.Context, id string) ([]byte, error) {
	c, err := cid.Decode(id)
	if err != nil {
		return nil, fmt.Errorf("invalid cid %q: %w", id, err)
	}

	node, err := i.api.Unixfs().Get(ctx, path.IpfsPath(c))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", id, err)
	}
	defer node.Close()

	file, ok := node.(files.File)
	if !ok {
		return nil, fmt.Errorf("%s is not a file", id)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}
	return data, nil
}

// Web3Credentials returns the username and password pair Crust style
// gateways accept: the ss58 address prefixed with the substrate chain tag
// and a hex signature of the address by its own key.
func Web3Credentials(acc *account.Account) (user, password string, err error) {
	address := acc.Address()

	sig, err := acc.Sign([]byte(address))
	if err != nil {
		return "", "", err
	}
	return "sub-" + address, "0x" + hex.EncodeToString(sig), nil
}

// Web3AuthHeader returns the ready Authorization header value for Crust
// style gateways.
func Web3AuthHeader(acc *account.Account) (string, error) {
	user, password, err := Web3Credentials(acc)
	if err != nil {
		return "", err
	}
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return "Basic " + token, nil
}

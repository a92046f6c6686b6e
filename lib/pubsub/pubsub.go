// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package pubsub drives the Robonomics node p2p layer over its custom RPC
// methods: gossip pubsub rooms and the direct request-response protocol.
package pubsub

import (
	"fmt"

	multiaddr "github.com/multiformats/go-multiaddr"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/client"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "pubsub").Logger()

// PubSub wraps the pubsub_* RPC methods of a Robonomics node.
type PubSub struct {
	backend client.Backend
}

// New returns a PubSub bound to a node connection.
func New(backend client.Backend) *PubSub {
	return &PubSub{backend: backend}
}

// Connect links the node pubsub router to a remote peer.
func (p *PubSub) Connect(address string) (bool, error) {
	if err := validateMultiaddr(address); err != nil {
		return false, err
	}

	logger.Debug().Str("address", address).Msg("connecting pubsub peer")

	var ok bool
	if err := p.backend.RawCall(&ok, "pubsub_connect", address); err != nil {
		return false, err
	}
	return ok, nil
}

// Listen binds the node pubsub router to a local listen address.
func (p *PubSub) Listen(address string) (bool, error) {
	if err := validateMultiaddr(address); err != nil {
		return false, err
	}

	var ok bool
	if err := p.backend.RawCall(&ok, "pubsub_listen", address); err != nil {
		return false, err
	}
	return ok, nil
}

// Listeners returns the addresses the node pubsub router listens on.
func (p *PubSub) Listeners() ([]string, error) {
	var listeners []string
	if err := p.backend.RawCall(&listeners, "pubsub_listeners"); err != nil {
		return nil, err
	}
	return listeners, nil
}

// Peer returns the local pubsub peer id.
func (p *PubSub) Peer() (string, error) {
	var peer string
	if err := p.backend.RawCall(&peer, "pubsub_peer"); err != nil {
		return "", err
	}
	return peer, nil
}

// Publish sends a message into a pubsub topic.
func (p *PubSub) Publish(topic, message string) error {
	logger.Debug().Str("topic", topic).Msg("publishing pubsub message")
	return p.backend.RawCall(nil, "pubsub_publish", topic, message)
}

// Subscribe joins a pubsub topic. Messages are collected by the node and
// drained by the node-side listener.
func (p *PubSub) Subscribe(topic string) (bool, error) {
	var ok bool
	if err := p.backend.RawCall(&ok, "pubsub_subscribe", topic); err != nil {
		return false, err
	}
	return ok, nil
}

// Unsubscribe leaves a pubsub topic.
func (p *PubSub) Unsubscribe(topic string) (bool, error) {
	var ok bool
	if err := p.backend.RawCall(&ok, "pubsub_unsubscribe", topic); err != nil {
		return false, err
	}
	return ok, nil
}

// ReqRes wraps the p2p_* request-response RPC methods of a Robonomics
// node.
type ReqRes struct {
	backend client.Backend
}

// NewReqRes returns a ReqRes bound to a node connection.
func NewReqRes(backend client.Backend) *ReqRes {
	return &ReqRes{backend: backend}
}

// Ping measures reachability of a remote peer, returning the node reply.
func (r *ReqRes) Ping(address string) (string, error) {
	if err := validateMultiaddr(address); err != nil {
		return "", err
	}

	var reply string
	if err := r.backend.RawCall(&reply, "p2p_ping", address); err != nil {
		return "", err
	}
	return reply, nil
}

// Get sends a message to a remote peer and returns its response.
func (r *ReqRes) Get(address, message string) (string, error) {
	if err := validateMultiaddr(address); err != nil {
		return "", err
	}

	logger.Debug().Str("address", address).Msg("sending p2p request")

	var reply string
	if err := r.backend.RawCall(&reply, "p2p_get", address, message); err != nil {
		return "", err
	}
	return reply, nil
}

func validateMultiaddr(address string) error {
	if _, err := multiaddr.NewMultiaddr(address); err != nil {
		return fmt.Errorf("invalid multiaddr %q: %w", address, err)
	}
	return nil
}

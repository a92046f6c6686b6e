// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package clienttest provides a programmable in-memory client.Backend for
// pallet package tests.
package clienttest

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/client"
)

// Query records a single chainstate query.
type Query struct {
	At     *types.Hash
	Module string
	Method string
	Args   []interface{}
}

// Submission records a single submitted extrinsic.
type Submission struct {
	Module string
	Method string
	Args   []interface{}
	Nonce  *uint32
}

// RawCall records a single raw RPC request.
type RawCall struct {
	Method string
	Args   []interface{}
}

// Backend is a fake client.Backend. Responses are programmed through the
// exported function fields; every call is recorded for assertions.
type Backend struct {
	Queries     []Query
	Submissions []Submission
	RawCalls    []RawCall

	// QueryFunc fills target and reports existence. Nil means "not found".
	QueryFunc func(q Query, target interface{}) (bool, error)

	// Receipt is returned by Submit and SubmitWithNonce.
	Receipt *client.Receipt

	// SubmitErr, when set, fails every submission.
	SubmitErr error

	// RawCallFunc fills result. Nil means the call succeeds with no result.
	RawCallFunc func(c RawCall, result interface{}) error

	// Account, when set, is the signing account.
	Account *account.Account
}

var _ client.Backend = (*Backend)(nil)

func (b *Backend) Query(at *types.Hash, module, method string, target interface{}, args ...interface{}) (bool, error) {
	q := Query{At: at, Module: module, Method: method, Args: args}
	b.Queries = append(b.Queries, q)
	if b.QueryFunc == nil {
		return false, nil
	}
	return b.QueryFunc(q, target)
}

func (b *Backend) Submit(module, method string, args ...interface{}) (*client.Receipt, error) {
	b.Submissions = append(b.Submissions, Submission{Module: module, Method: method, Args: args})
	if b.SubmitErr != nil {
		return nil, b.SubmitErr
	}
	return b.Receipt, nil
}

func (b *Backend) SubmitWithNonce(nonce uint32, module, method string, args ...interface{}) (*client.Receipt, error) {
	b.Submissions = append(b.Submissions, Submission{Module: module, Method: method, Args: args, Nonce: &nonce})
	if b.SubmitErr != nil {
		return nil, b.SubmitErr
	}
	return b.Receipt, nil
}

func (b *Backend) RawCall(result interface{}, method string, args ...interface{}) error {
	c := RawCall{Method: method, Args: args}
	b.RawCalls = append(b.RawCalls, c)
	if b.RawCallFunc == nil {
		return nil
	}
	return b.RawCallFunc(c, result)
}

func (b *Backend) Address() (string, error) {
	if b.Account == nil {
		return "", client.ErrNoPrivateKey
	}
	return b.Account.Address(), nil
}

func (b *Backend) Signer() *account.Account {
	return b.Account
}

// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package liability handles Robonomics liability agreements: signing the
// technics and economics terms, creating agreements on chain and closing
// them with reports.
package liability

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/client"
	"github.com/airalab/go-robonomics/lib/utils"
)

var logger zerolog.Logger = zlog.With().Str("pkg", "liability").Logger()

var (
	// ErrNoAgreement is returned when no agreement exists under an index.
	ErrNoAgreement = errors.New("liability agreement not found")

	// ErrNoReport is returned when an agreement has not been reported yet.
	ErrNoReport = errors.New("liability report not found")
)

// Liability wraps the Liability pallet calls.
type Liability struct {
	backend client.Backend
}

// New returns a Liability bound to a node connection.
func New(backend client.Backend) *Liability {
	return &Liability{backend: backend}
}

// LatestIndex fetches the number of agreements ever created. The next
// agreement gets this index.
func (l *Liability) LatestIndex(at *types.Hash) (uint32, error) {
	var index types.U32
	ok, err := l.backend.Query(at, "Liability", "LatestIndex", &index)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return uint32(index), nil
}

// Agreement fetches a liability agreement by index.
func (l *Liability) Agreement(index uint32, at *types.Hash) (*Agreement, error) {
	logger.Debug().Uint32("index", index).Msg("fetching liability agreement")

	var agreement Agreement
	ok, err := l.backend.Query(at, "Liability", "AgreementOf", &agreement, types.NewU32(index))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNoAgreement, index)
	}
	return &agreement, nil
}

// Report fetches the report closing an agreement.
func (l *Liability) Report(index uint32, at *types.Hash) (*Report, error) {
	logger.Debug().Uint32("index", index).Msg("fetching liability report")

	var report Report
	ok, err := l.backend.Query(at, "Liability", "ReportOf", &report, types.NewU32(index))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNoReport, index)
	}
	return &report, nil
}

// Create submits a new agreement signed by both parties and returns its
// index. Technics is an IPFS CIDv0 or 32 byte hex hash of the task,
// economics the price in wei. The signatures are the parties' proofs over
// the terms, produced with SignTechnics.
func (l *Liability) Create(technics string, economics uint64,
	promisee, promisor string, promiseeSig, promisorSig []byte) (uint32, *client.Receipt, error) {
	digest, err := utils.ParseDigest(technics)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid technics: %w", err)
	}

	promiseeID, err := accountID(promisee)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid promisee: %w", err)
	}
	promisorID, err := accountID(promisor)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid promisor: %w", err)
	}

	promiseeProof, err := multiSignature(promiseeSig)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid promisee signature: %w", err)
	}
	promisorProof, err := multiSignature(promisorSig)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid promisor signature: %w", err)
	}

	agreement := Agreement{
		Technics:          Technics{Hash: types.NewH256(digest[:])},
		Economics:         Economics{Price: types.NewUCompactFromUInt(economics)},
		Promisee:          promiseeID,
		Promisor:          promisorID,
		PromiseeSignature: promiseeProof,
		PromisorSignature: promisorProof,
	}

	logger.Info().
		Str("promisee", promisee).
		Str("promisor", promisor).
		Uint64("economics", economics).
		Msg("creating liability agreement")

	receipt, err := l.backend.Submit("Liability", "create", agreement)
	if err != nil {
		return 0, nil, err
	}

	index, err := l.findIndex(promiseeSig)
	if err != nil {
		return 0, receipt, err
	}
	return index, receipt, nil
}

// findIndex locates a just created agreement by its promisee proof,
// scanning backwards from the newest index.
func (l *Liability) findIndex(promiseeSig []byte) (uint32, error) {
	latest, err := l.LatestIndex(nil)
	if err != nil {
		return 0, err
	}
	if latest == 0 {
		return 0, ErrNoAgreement
	}

	index := latest - 1
	for i := int(latest) - 1; i >= 0; i-- {
		agreement, err := l.Agreement(uint32(i), nil)
		if err != nil {
			return 0, err
		}
		if bytes.Equal(agreement.PromiseeSignature.AsSr25519[:], promiseeSig) {
			index = uint32(i)
			break
		}
	}
	return index, nil
}

// Finalize closes an agreement with a report. Report is an IPFS CIDv0 or
// 32 byte hex hash of the result. A nil signature means the signing
// account is the promisor and signs the report itself; a delegate passes
// the promisor address and its detached signature instead.
func (l *Liability) Finalize(index uint32, report, promisor string, signature []byte) (*client.Receipt, error) {
	digest, err := utils.ParseDigest(report)
	if err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}

	if signature == nil {
		signer := l.backend.Signer()
		if signer == nil {
			return nil, client.ErrNoPrivateKey
		}
		promisor = signer.Address()
		signature, err = SignReport(signer, index, report)
		if err != nil {
			return nil, err
		}
	}

	promisorID, err := accountID(promisor)
	if err != nil {
		return nil, fmt.Errorf("invalid promisor: %w", err)
	}
	proof, err := multiSignature(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid report signature: %w", err)
	}

	message := Report{
		Index:     types.NewU32(index),
		Sender:    promisorID,
		Payload:   Technics{Hash: types.NewH256(digest[:])},
		Signature: proof,
	}

	logger.Info().Uint32("index", index).Str("promisor", promisor).Msg("finalizing liability")

	return l.backend.Submit("Liability", "finalize", message)
}

// TechnicsPayload returns the byte string both parties sign to prove they
// accept the agreement terms.
func TechnicsPayload(technics string, economics uint64) ([]byte, error) {
	digest, err := utils.ParseDigest(technics)
	if err != nil {
		return nil, fmt.Errorf("invalid technics: %w", err)
	}

	hashPart, err := codec.Encode(types.NewH256(digest[:]))
	if err != nil {
		return nil, fmt.Errorf("encoding technics: %w", err)
	}
	pricePart, err := codec.Encode(types.NewUCompactFromUInt(economics))
	if err != nil {
		return nil, fmt.Errorf("encoding economics: %w", err)
	}
	return append(hashPart, pricePart...), nil
}

// ReportPayload returns the byte string the promisor signs to prove a
// report closes the given agreement.
func ReportPayload(index uint32, report string) ([]byte, error) {
	digest, err := utils.ParseDigest(report)
	if err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}

	indexPart, err := codec.Encode(types.NewU32(index))
	if err != nil {
		return nil, fmt.Errorf("encoding index: %w", err)
	}
	hashPart, err := codec.Encode(types.NewH256(digest[:]))
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(indexPart, hashPart...), nil
}

// SignTechnics signs the agreement terms with a party key.
func SignTechnics(signer *account.Account, technics string, economics uint64) ([]byte, error) {
	payload, err := TechnicsPayload(technics, economics)
	if err != nil {
		return nil, err
	}
	return signer.Sign(payload)
}

// SignReport signs a report with the promisor key.
func SignReport(signer *account.Account, index uint32, report string) ([]byte, error) {
	payload, err := ReportPayload(index, report)
	if err != nil {
		return nil, err
	}
	return signer.Sign(payload)
}

// VerifyTechnics checks a party proof over the agreement terms against the
// party ss58 address.
func VerifyTechnics(technics string, economics uint64, sig []byte, address string) (bool, error) {
	payload, err := TechnicsPayload(technics, economics)
	if err != nil {
		return false, err
	}
	return account.VerifySignature(payload, sig, address)
}

// VerifyReport checks a promisor proof over a report against the promisor
// ss58 address.
func VerifyReport(index uint32, report string, sig []byte, address string) (bool, error) {
	payload, err := ReportPayload(index, report)
	if err != nil {
		return false, err
	}
	return account.VerifySignature(payload, sig, address)
}

func accountID(address string) (types.AccountID, error) {
	pub, err := utils.PublicKeyFromAddress(address)
	if err != nil {
		return types.AccountID{}, err
	}
	id, err := types.NewAccountID(pub[:])
	if err != nil {
		return types.AccountID{}, err
	}
	return *id, nil
}

func multiSignature(sig []byte) (types.MultiSignature, error) {
	if len(sig) != 64 {
		return types.MultiSignature{}, account.ErrBadSignatureLength
	}
	return types.MultiSignature{IsSr25519: true, AsSr25519: types.NewSignature(sig)}, nil
}

// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package liability

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Technics is the objective part of a liability agreement: the hash of the
// task description, usually an IPFS CIDv0 digest.
type Technics struct {
	Hash types.H256
}

// Economics is the subjective part of a liability agreement: the price the
// promisee pays on a positive report.
type Economics struct {
	Price types.UCompact
}

// Agreement is the Liability.AgreementOf storage value: a mutual obligation
// between a promisee ordering a task and a promisor executing it, both
// parties having signed the terms.
type Agreement struct {
	Technics          Technics
	Economics         Economics
	Promisee          types.AccountID
	Promisor          types.AccountID
	PromiseeSignature types.MultiSignature
	PromisorSignature types.MultiSignature
}

// Report is the Liability.ReportOf storage value: the promisor report
// closing an agreement, the payload hash pointing at the result data.
type Report struct {
	Index     types.U32
	Sender    types.AccountID
	Payload   Technics
	Signature types.MultiSignature
}

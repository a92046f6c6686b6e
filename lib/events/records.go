// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/airalab/go-robonomics/lib/liability"
)

// EventDatalogNewRecord is emitted when an account writes a datalog record.
type EventDatalogNewRecord struct {
	Phase     types.Phase
	Sender    types.AccountID
	Timestamp types.U64
	Record    types.Bytes
	Topics    []types.Hash
}

// EventDatalogErased is emitted when an account erases its datalog.
type EventDatalogErased struct {
	Phase  types.Phase
	Sender types.AccountID
	Topics []types.Hash
}

// EventLaunchNewLaunch is emitted when an account sends a launch command to
// a robot.
type EventLaunchNewLaunch struct {
	Phase  types.Phase
	Sender types.AccountID
	Robot  types.AccountID
	Param  types.H256
	Topics []types.Hash
}

// EventDigitalTwinNewDigitalTwin is emitted when a digital twin is created.
type EventDigitalTwinNewDigitalTwin struct {
	Phase  types.Phase
	Sender types.AccountID
	ID     types.U32
	Topics []types.Hash
}

// EventDigitalTwinTopicChanged is emitted when a twin topic is remapped to
// a source.
type EventDigitalTwinTopicChanged struct {
	Phase  types.Phase
	Sender types.AccountID
	ID     types.U32
	Topic  types.H256
	Source types.AccountID
	Topics []types.Hash
}

// EventRWSNewDevices is emitted when a subscription owner replaces the
// device allow-list.
type EventRWSNewDevices struct {
	Phase   types.Phase
	Sender  types.AccountID
	Devices []types.AccountID
	Topics  []types.Hash
}

// EventLiabilityNewLiability is emitted when an agreement is created.
type EventLiabilityNewLiability struct {
	Phase     types.Phase
	Index     types.U32
	Technics  liability.Technics
	Economics liability.Economics
	Promisee  types.AccountID
	Promisor  types.AccountID
	Topics    []types.Hash
}

// EventLiabilityNewReport is emitted when an agreement is finalized.
type EventLiabilityNewReport struct {
	Phase   types.Phase
	Index   types.U32
	Sender  types.AccountID
	Payload liability.Technics
	Topics  []types.Hash
}

// Records is the decode target for System.Events storage: the standard
// substrate records plus the Robonomics pallets. Field names follow the
// Pallet_Event convention the decoder matches on.
type Records struct {
	types.EventRecords

	Datalog_NewRecord          []EventDatalogNewRecord          //nolint:stylecheck
	Datalog_Erased             []EventDatalogErased             //nolint:stylecheck
	Launch_NewLaunch           []EventLaunchNewLaunch           //nolint:stylecheck
	DigitalTwin_NewDigitalTwin []EventDigitalTwinNewDigitalTwin //nolint:stylecheck
	DigitalTwin_TopicChanged   []EventDigitalTwinTopicChanged   //nolint:stylecheck
	RWS_NewDevices             []EventRWSNewDevices             //nolint:stylecheck
	Liability_NewLiability     []EventLiabilityNewLiability     //nolint:stylecheck
	Liability_NewReport        []EventLiabilityNewReport        //nolint:stylecheck
}

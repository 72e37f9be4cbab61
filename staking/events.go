// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakehive/stakehive/stakehive"
)

type EventType string

const (
	EventEpochStarted        EventType = "epoch_started"
	EventEpochEnded          EventType = "epoch_ended"
	EventDepositCreated      EventType = "deposit_created"
	EventUnstakeRequested    EventType = "unstake_requested"
	EventWithdrawn           EventType = "withdrawn"
	EventCommissionCollected EventType = "commission_collected"
	EventRewardClaimed       EventType = "reward_claimed"
)

// Event is one entry of the observability surface, carrying the
// identifiers, timestamps and amounts an off-chain auditor needs.
// Staker, DepositID and Amount are set only where they apply.
type Event struct {
	Type      EventType
	Time      uint64
	Epoch     uint32
	Staker    *stakehive.Address
	DepositID *stakehive.Bytes32
	Amount    *big.Int
}

// Recorder receives every event the engine emits. Recording failures
// are logged, never propagated: state changes have already committed
// and the audit trail is advisory.
type Recorder interface {
	Record(ev *Event) error
}

type nopRecorder struct{}

func (nopRecorder) Record(*Event) error { return nil }

// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/deposit"
	"github.com/stakehive/stakehive/staking/epoch"
	"github.com/stakehive/stakehive/staking/reward"
)

// JSONEpoch is the API view of an epoch.
type JSONEpoch struct {
	ID        uint32 `json:"id"`
	StartDate uint64 `json:"startDate"`
	EndDate   uint64 `json:"endDate"`
	StartedAt uint64 `json:"startedAt"`
	EndedAt   uint64 `json:"endedAt"`
	Status    string `json:"status"`
}

func convertEpoch(e *epoch.Epoch) *JSONEpoch {
	status := "pending"
	if e.Ended() {
		status = "ended"
	} else if e.Started() {
		status = "active"
	}
	return &JSONEpoch{
		ID:        e.ID,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
		Status:    status,
	}
}

// JSONDeposit is the API view of a deposit.
type JSONDeposit struct {
	ID          stakehive.Bytes32     `json:"id"`
	Staker      stakehive.Address     `json:"staker"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	CreatedAt   uint64                `json:"createdAt"`
	InEpoch     uint32                `json:"inEpoch"`
	OutEpoch    uint32                `json:"outEpoch"`
	Unstaked    bool                  `json:"unstaked"`
	UnstakedAt  uint64                `json:"unstakedAt"`
	Withdrawn   bool                  `json:"withdrawn"`
	WithdrawnAt uint64                `json:"withdrawnAt"`
}

func convertDeposit(d *deposit.Deposit) *JSONDeposit {
	return &JSONDeposit{
		ID:          d.ID,
		Staker:      d.Staker,
		Amount:      (*math.HexOrDecimal256)(d.Amount),
		CreatedAt:   d.CreatedAt,
		InEpoch:     d.InEpoch,
		OutEpoch:    d.OutEpoch,
		Unstaked:    d.Unstaked,
		UnstakedAt:  d.UnstakedAt,
		Withdrawn:   d.Withdrawn,
		WithdrawnAt: d.WithdrawnAt,
	}
}

// JSONStake is an active stake amount scoped to an epoch.
type JSONStake struct {
	Staker stakehive.Address     `json:"staker"`
	Epoch  uint32                `json:"epoch"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// JSONTotalStake is the aggregate active stake of an epoch.
type JSONTotalStake struct {
	Epoch  uint32                `json:"epoch"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// JSONClaimable is the pending reward balance of a staker.
type JSONClaimable struct {
	Staker stakehive.Address     `json:"staker"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// JSONAudit mirrors the accountant's running totals.
type JSONAudit struct {
	Collected *math.HexOrDecimal256 `json:"collected"`
	Credited  *math.HexOrDecimal256 `json:"credited"`
	Paid      *math.HexOrDecimal256 `json:"paid"`
	Dust      *math.HexOrDecimal256 `json:"dust"`
	Carry     *math.HexOrDecimal256 `json:"carry"`
}

func convertAudit(t *reward.AuditTotals) *JSONAudit {
	return &JSONAudit{
		Collected: (*math.HexOrDecimal256)(t.Collected),
		Credited:  (*math.HexOrDecimal256)(t.Credited),
		Paid:      (*math.HexOrDecimal256)(t.Paid),
		Dust:      (*math.HexOrDecimal256)(t.Dust),
		Carry:     (*math.HexOrDecimal256)(t.Carry),
	}
}

func decimal(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

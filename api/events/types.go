// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakehive/stakehive/auditdb"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

// Options limits the result window.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint32 `json:"limit"`
}

// Filter is the request body of an event query. Nil criteria match
// everything.
type Filter struct {
	Type    *staking.EventType `json:"type"`
	Staker  *stakehive.Address `json:"staker"`
	Epoch   *uint32            `json:"epoch"`
	Options *Options           `json:"options"`
}

func (f *Filter) toQuery(defaultLimit uint32) *auditdb.EventFilter {
	query := &auditdb.EventFilter{
		Type:   f.Type,
		Staker: f.Staker,
		Epoch:  f.Epoch,
		Limit:  defaultLimit,
	}
	if f.Options != nil {
		query.Offset = f.Options.Offset
		if f.Options.Limit > 0 {
			query.Limit = f.Options.Limit
		}
	}
	return query
}

// JSONEvent is one recorded event.
type JSONEvent struct {
	Seq       int64                 `json:"seq"`
	Type      staking.EventType     `json:"type"`
	Time      uint64                `json:"time"`
	Epoch     uint32                `json:"epoch"`
	Staker    *stakehive.Address    `json:"staker"`
	DepositID *stakehive.Bytes32    `json:"depositID"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

func convertEvents(recorded []*auditdb.RecordedEvent) []*JSONEvent {
	converted := make([]*JSONEvent, 0, len(recorded))
	for _, ev := range recorded {
		converted = append(converted, &JSONEvent{
			Seq:       ev.Seq,
			Type:      ev.Type,
			Time:      ev.Time,
			Epoch:     ev.Epoch,
			Staker:    ev.Staker,
			DepositID: ev.DepositID,
			Amount:    (*math.HexOrDecimal256)(ev.Amount),
		})
	}
	return converted
}

// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposit

import (
	"encoding/binary"
	"math/big"

	"github.com/stakehive/stakehive/stakehive"
)

// Deposit is a single staking position. Amount is immutable after
// creation; the record is never deleted, only flagged, so the full
// lifecycle stays auditable.
type Deposit struct {
	ID        stakehive.Bytes32
	Staker    stakehive.Address
	Amount    *big.Int
	CreatedAt uint64
	InEpoch   uint32 // epoch current at creation
	OutEpoch  uint32 // epoch current at unstake request, 0 while staked

	Unstaked   bool
	UnstakedAt uint64

	Withdrawn   bool
	WithdrawnAt uint64
}

// ActiveIn returns whether the deposit counts as active stake for the
// given epoch: it earns for every epoch from its creation epoch up to,
// not including, the epoch in which unstake was requested.
func (d *Deposit) ActiveIn(epochID uint32) bool {
	if d.InEpoch > epochID {
		return false
	}
	return !d.Unstaked || d.OutEpoch > epochID
}

// Copy returns a value copy, for handing out across query boundaries.
func (d *Deposit) Copy() Deposit {
	c := *d
	c.Amount = new(big.Int).Set(d.Amount)
	return c
}

// newID derives a content hash identifying the deposit.
func newID(staker stakehive.Address, createdAt uint64, nonce uint64) stakehive.Bytes32 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], createdAt)
	binary.BigEndian.PutUint64(buf[8:], nonce)
	return stakehive.Blake2b(staker.Bytes(), buf[:])
}

// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

// Epoch is one fixed-length staking period. StartDate/EndDate are the
// scheduled bounds; StartedAt/EndedAt record what actually happened and
// stay zero until set.
type Epoch struct {
	ID        uint32
	StartDate uint64
	EndDate   uint64
	StartedAt uint64
	EndedAt   uint64
}

// Pending returns whether the epoch has been created but not yet started.
func (e *Epoch) Pending() bool {
	return e.StartedAt == 0
}

// Started returns whether the epoch is the running one.
func (e *Epoch) Started() bool {
	return e.StartedAt != 0 && e.EndedAt == 0
}

// Ended returns whether the epoch has been closed. Terminal.
func (e *Epoch) Ended() bool {
	return e.EndedAt != 0
}

// DueToEnd returns whether the running epoch has reached its scheduled end.
func (e *Epoch) DueToEnd(now uint64) bool {
	return e.Started() && now >= e.EndDate
}

// Copy returns a value copy, for handing out across query boundaries.
func (e *Epoch) Copy() Epoch {
	return *e
}

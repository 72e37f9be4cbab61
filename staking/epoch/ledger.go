// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
)

var logger = log.WithContext("pkg", "epoch")

// Ledger tracks the ordered sequence of epochs. Exactly one epoch is
// current: the most recently created one, which is never ended.
type Ledger struct {
	duration uint64
	epochs   []*Epoch
}

// NewLedger creates a ledger with the genesis epoch in pending state.
func NewLedger(genesisStart uint64, duration uint64) *Ledger {
	if duration == 0 {
		duration = stakehive.EpochDuration
	}
	genesis := &Epoch{
		ID:        stakehive.FirstEpochID,
		StartDate: genesisStart,
		EndDate:   genesisStart + duration,
	}
	return &Ledger{
		duration: duration,
		epochs:   []*Epoch{genesis},
	}
}

// Duration returns the fixed epoch length in seconds.
func (l *Ledger) Duration() uint64 {
	return l.duration
}

// Current returns the current epoch.
func (l *Ledger) Current() *Epoch {
	return l.epochs[len(l.epochs)-1]
}

// Get returns the epoch with the given id.
func (l *Ledger) Get(id uint32) (*Epoch, bool) {
	idx := int(id) - int(stakehive.FirstEpochID)
	if idx < 0 || idx >= len(l.epochs) {
		return nil, false
	}
	return l.epochs[idx], true
}

// EnsureStarted starts the current epoch if it is pending, its scheduled
// start has been reached and at least one active staker exists. With no
// stakers the start is deferred indefinitely; the epoch then starts on
// the first deposit, with StartedAt = that deposit's time.
// Calling it on an already started epoch is a no-op.
func (l *Ledger) EnsureStarted(now uint64, hasStakers bool) bool {
	cur := l.Current()
	if !cur.Pending() {
		return false
	}
	if !hasStakers || now < cur.StartDate {
		return false
	}
	cur.StartedAt = now
	logger.Debug("epoch started", "epoch", cur.ID, "startedAt", now)
	return true
}

// AdvanceIfDue closes the current epoch if it is started and its
// scheduled end has been reached, and creates the next epoch in pending
// state. The next epoch's StartDate is the closed epoch's scheduled
// EndDate. Returns the closed and the newly created epoch.
// Calling it again in the same moment is a no-op: the new current epoch
// is pending, so the advance cannot double-fire.
func (l *Ledger) AdvanceIfDue(now uint64) (closed *Epoch, next *Epoch, ok bool) {
	cur := l.Current()
	if !cur.DueToEnd(now) {
		return nil, nil, false
	}
	cur.EndedAt = now

	next = &Epoch{
		ID:        cur.ID + 1,
		StartDate: cur.EndDate,
		EndDate:   cur.EndDate + l.duration,
	}
	l.epochs = append(l.epochs, next)

	logger.Debug("epoch ended", "epoch", cur.ID, "endedAt", now, "next", next.ID)
	return cur, next, true
}

// Len returns the number of epochs created so far.
func (l *Ledger) Len() int {
	return len(l.epochs)
}

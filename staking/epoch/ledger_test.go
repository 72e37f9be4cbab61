// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/stakehive"
)

const day = uint64(60 * 60 * 24)

func TestNewLedger(t *testing.T) {
	l := NewLedger(1000, day)

	cur := l.Current()
	assert.Equal(t, stakehive.FirstEpochID, cur.ID)
	assert.Equal(t, uint64(1000), cur.StartDate)
	assert.Equal(t, uint64(1000)+day, cur.EndDate)
	assert.True(t, cur.Pending())
	assert.False(t, cur.Started())
	assert.Equal(t, 1, l.Len())
}

func TestNewLedgerDefaultDuration(t *testing.T) {
	l := NewLedger(0, 0)
	assert.Equal(t, stakehive.EpochDuration, l.Duration())
}

func TestEnsureStartedDeferredWithoutStakers(t *testing.T) {
	l := NewLedger(1000, day)

	// no stakers, the scheduled start passes without effect
	assert.False(t, l.EnsureStarted(1000+10*day, false))
	assert.True(t, l.Current().Pending())

	// stakers exist but the scheduled start is not reached yet
	assert.False(t, l.EnsureStarted(999, true))
	assert.True(t, l.Current().Pending())
}

func TestEnsureStartedRecordsActualTime(t *testing.T) {
	l := NewLedger(1000, day)

	assert.True(t, l.EnsureStarted(5000, true))
	cur := l.Current()
	assert.True(t, cur.Started())
	assert.Equal(t, uint64(5000), cur.StartedAt, "startedAt is the actual time, not the scheduled one")

	// idempotent
	assert.False(t, l.EnsureStarted(6000, true))
	assert.Equal(t, uint64(5000), l.Current().StartedAt)
}

func TestAdvanceIfDue(t *testing.T) {
	l := NewLedger(1000, day)

	// a pending epoch never advances
	_, _, ok := l.AdvanceIfDue(1000 + 2*day)
	assert.False(t, ok)

	require.True(t, l.EnsureStarted(1000, true))

	// not due yet
	_, _, ok = l.AdvanceIfDue(1000 + day - 1)
	assert.False(t, ok)

	closed, next, ok := l.AdvanceIfDue(1000 + day)
	require.True(t, ok)
	assert.Equal(t, stakehive.FirstEpochID, closed.ID)
	assert.True(t, closed.Ended())
	assert.Equal(t, uint64(1000)+day, closed.EndedAt)
	assert.Equal(t, closed.ID+1, next.ID)
	assert.True(t, next.Pending())
	assert.Equal(t, closed.EndDate, next.StartDate, "next epoch starts where the closed one was scheduled to end")
	assert.Equal(t, next.StartDate+day, next.EndDate)
	assert.Equal(t, 2, l.Len())

	// the new current epoch is pending, a second advance cannot double-fire
	_, _, ok = l.AdvanceIfDue(1000 + day)
	assert.False(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestChainedRollover(t *testing.T) {
	l := NewLedger(0, day)

	for i := 0; i < 3; i++ {
		now := uint64(i) * day
		require.True(t, l.EnsureStarted(now, true))
		_, _, ok := l.AdvanceIfDue(now + day)
		require.True(t, ok)
	}

	assert.Equal(t, 4, l.Len())
	assert.Equal(t, stakehive.FirstEpochID+3, l.Current().ID)

	for id := stakehive.FirstEpochID; id < stakehive.FirstEpochID+3; id++ {
		ep, ok := l.Get(id)
		require.True(t, ok)
		assert.True(t, ep.Ended())
	}
}

func TestGet(t *testing.T) {
	l := NewLedger(1000, day)

	_, ok := l.Get(0)
	assert.False(t, ok)

	ep, ok := l.Get(stakehive.FirstEpochID)
	require.True(t, ok)
	assert.Equal(t, stakehive.FirstEpochID, ep.ID)

	_, ok = l.Get(stakehive.FirstEpochID + 1)
	assert.False(t, ok)
}

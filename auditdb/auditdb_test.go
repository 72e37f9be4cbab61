// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auditdb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
)

var (
	alice = stakehive.BytesToAddress([]byte("alice"))
	bob   = stakehive.BytesToAddress([]byte("bob"))
)

func newDB(t *testing.T) *AuditDB {
	t.Helper()
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func record(t *testing.T, db *AuditDB, evs ...*staking.Event) {
	t.Helper()
	for _, ev := range evs {
		require.NoError(t, db.Record(ev))
	}
}

func TestRecordAndFilter(t *testing.T) {
	db := newDB(t)

	id := stakehive.Blake2b([]byte("deposit"))
	record(t, db,
		&staking.Event{Type: staking.EventEpochStarted, Time: 1500, Epoch: 1},
		&staking.Event{Type: staking.EventDepositCreated, Time: 1500, Epoch: 1, Staker: &alice, DepositID: &id, Amount: big.NewInt(100)},
		&staking.Event{Type: staking.EventCommissionCollected, Time: 1600, Epoch: 1, Amount: big.NewInt(10)},
	)

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// sequence order
	assert.Equal(t, staking.EventEpochStarted, events[0].Type)
	assert.Equal(t, staking.EventDepositCreated, events[1].Type)
	assert.Equal(t, staking.EventCommissionCollected, events[2].Type)
	assert.Less(t, events[0].Seq, events[1].Seq)

	// nullable columns round-trip
	assert.Nil(t, events[0].Staker)
	assert.Nil(t, events[0].Amount)
	require.NotNil(t, events[1].Staker)
	assert.Equal(t, alice, *events[1].Staker)
	require.NotNil(t, events[1].DepositID)
	assert.Equal(t, id, *events[1].DepositID)
	assert.Equal(t, big.NewInt(100), events[1].Amount)
	assert.Equal(t, uint64(1500), events[1].Time)
	assert.Equal(t, uint32(1), events[1].Epoch)
}

func TestFilterCriteria(t *testing.T) {
	db := newDB(t)

	record(t, db,
		&staking.Event{Type: staking.EventDepositCreated, Time: 1500, Epoch: 1, Staker: &alice, Amount: big.NewInt(100)},
		&staking.Event{Type: staking.EventDepositCreated, Time: 1600, Epoch: 1, Staker: &bob, Amount: big.NewInt(300)},
		&staking.Event{Type: staking.EventEpochEnded, Time: 2100, Epoch: 1},
		&staking.Event{Type: staking.EventUnstakeRequested, Time: 2200, Epoch: 2, Staker: &alice},
	)

	depositType := staking.EventDepositCreated
	events, err := db.Filter(context.Background(), &EventFilter{Type: &depositType})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = db.Filter(context.Background(), &EventFilter{Staker: &alice})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	epoch := uint32(2)
	events, err = db.Filter(context.Background(), &EventFilter{Epoch: &epoch})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, staking.EventUnstakeRequested, events[0].Type)

	events, err = db.Filter(context.Background(), &EventFilter{Type: &depositType, Staker: &bob})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, big.NewInt(300), events[0].Amount)
}

func TestFilterPagination(t *testing.T) {
	db := newDB(t)

	for i := 0; i < 10; i++ {
		record(t, db, &staking.Event{Type: staking.EventEpochEnded, Time: uint64(i), Epoch: uint32(i + 1)})
	}

	events, err := db.Filter(context.Background(), &EventFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint32(1), events[0].Epoch)

	events, err = db.Filter(context.Background(), &EventFilter{Limit: 3, Offset: 8})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint32(9), events[0].Epoch)
}

func TestRecorderInterface(t *testing.T) {
	db := newDB(t)

	// the engine records through the Recorder boundary
	var recorder staking.Recorder = db
	require.NoError(t, recorder.Record(&staking.Event{Type: staking.EventEpochStarted, Time: 1, Epoch: 1}))

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

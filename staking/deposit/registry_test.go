// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposit

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/faults"
)

var (
	alice = stakehive.BytesToAddress([]byte("alice"))
	bob   = stakehive.BytesToAddress([]byte("bob"))
)

func TestAdd(t *testing.T) {
	r := New()

	d, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)
	assert.False(t, d.ID.IsZero())
	assert.Equal(t, alice, d.Staker)
	assert.Equal(t, big.NewInt(100), d.Amount)
	assert.Equal(t, uint64(5000), d.CreatedAt)
	assert.Equal(t, uint32(1), d.InEpoch)
	assert.False(t, d.Unstaked)

	got, ok := r.Get(d.ID)
	require.True(t, ok)
	assert.Equal(t, d, got)
	assert.Len(t, r.Of(alice), 1)
}

func TestAddRejectsNonPositiveAmount(t *testing.T) {
	r := New()

	_, err := r.Add(alice, big.NewInt(0), 5000, 1)
	assert.True(t, faults.Is(err, faults.KindInvalidAmount))

	_, err = r.Add(alice, big.NewInt(-1), 5000, 1)
	assert.True(t, faults.Is(err, faults.KindInvalidAmount))

	_, err = r.Add(alice, nil, 5000, 1)
	assert.True(t, faults.Is(err, faults.KindInvalidAmount))

	assert.Equal(t, big.NewInt(0), r.CurrentTotalStake())
}

func TestDistinctIDs(t *testing.T) {
	r := New()

	// same staker, amount and time still yield distinct ids
	d1, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)
	d2, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)
	assert.NotEqual(t, d1.ID, d2.ID)
}

func TestRunningAggregates(t *testing.T) {
	r := New()

	_, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)
	d, err := r.Add(bob, big.NewInt(300), 5001, 1)
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(100), r.CurrentStake(alice))
	assert.Equal(t, big.NewInt(300), r.CurrentStake(bob))
	assert.Equal(t, big.NewInt(400), r.CurrentTotalStake())
	assert.Equal(t, []stakehive.Address{alice, bob}, r.ActiveStakers())
	assert.True(t, r.HasActiveStakers())

	require.NoError(t, r.RequestUnstake(d.ID, bob, 6000, 2))
	assert.Equal(t, big.NewInt(0), r.CurrentStake(bob))
	assert.Equal(t, big.NewInt(100), r.CurrentTotalStake())
	assert.Equal(t, []stakehive.Address{alice}, r.ActiveStakers())
}

func TestRequestUnstakeStateMachine(t *testing.T) {
	r := New()

	err := r.RequestUnstake(stakehive.Bytes32{}, alice, 5000, 1)
	assert.True(t, faults.Is(err, faults.KindInvalidState))

	d, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)

	err = r.RequestUnstake(d.ID, bob, 6000, 2)
	assert.True(t, faults.Is(err, faults.KindNotOwner))

	require.NoError(t, r.RequestUnstake(d.ID, alice, 6000, 2))
	assert.True(t, d.Unstaked)
	assert.Equal(t, uint64(6000), d.UnstakedAt)
	assert.Equal(t, uint32(2), d.OutEpoch)

	err = r.RequestUnstake(d.ID, alice, 7000, 3)
	assert.True(t, faults.Is(err, faults.KindInvalidState))
}

func TestWithdrawStateMachine(t *testing.T) {
	r := New()

	_, err := r.Withdraw(stakehive.Bytes32{}, alice, 5000)
	assert.True(t, faults.Is(err, faults.KindInvalidState))

	d, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)

	_, err = r.Withdraw(d.ID, alice, 6000)
	assert.True(t, faults.Is(err, faults.KindInvalidState), "withdraw requires a prior unstake")

	require.NoError(t, r.RequestUnstake(d.ID, alice, 6000, 2))

	_, err = r.Withdraw(d.ID, bob, 7000)
	assert.True(t, faults.Is(err, faults.KindNotOwner))

	amount, err := r.Withdraw(d.ID, alice, 7000)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), amount)
	assert.True(t, d.Withdrawn)
	assert.Equal(t, uint64(7000), d.WithdrawnAt)

	_, err = r.Withdraw(d.ID, alice, 8000)
	assert.True(t, faults.Is(err, faults.KindInvalidState), "second withdraw must fail")
}

func TestRevertWithdraw(t *testing.T) {
	r := New()

	d, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)
	require.NoError(t, r.RequestUnstake(d.ID, alice, 6000, 2))

	_, err = r.Withdraw(d.ID, alice, 7000)
	require.NoError(t, err)

	r.RevertWithdraw(d.ID)
	assert.False(t, d.Withdrawn)
	assert.Equal(t, uint64(0), d.WithdrawnAt)

	// the withdraw can be retried
	amount, err := r.Withdraw(d.ID, alice, 8000)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), amount)
}

func TestActiveStakeWindow(t *testing.T) {
	r := New()

	// deposit created in epoch 3, unstaked in epoch 5: earns for 3 and
	// 4, nothing from 5 on
	d, err := r.Add(alice, big.NewInt(100), 5000, 3)
	require.NoError(t, err)

	r.SealEpoch(3)
	r.SealEpoch(4)
	require.NoError(t, r.RequestUnstake(d.ID, alice, 9000, 5))
	r.SealEpoch(5)

	assert.Equal(t, big.NewInt(100), r.ActiveStake(alice, 3))
	assert.Equal(t, big.NewInt(100), r.ActiveStake(alice, 4))
	assert.Equal(t, big.NewInt(0), r.ActiveStake(alice, 5))
	assert.Equal(t, big.NewInt(0), r.ActiveStake(alice, 6))

	assert.Equal(t, big.NewInt(100), r.TotalActiveStake(3))
	assert.Equal(t, big.NewInt(0), r.TotalActiveStake(5))

	assert.True(t, d.ActiveIn(3))
	assert.True(t, d.ActiveIn(4))
	assert.False(t, d.ActiveIn(5))
	assert.False(t, d.ActiveIn(2))
}

func TestSealedSnapshotsAreImmutable(t *testing.T) {
	r := New()

	_, err := r.Add(alice, big.NewInt(100), 5000, 1)
	require.NoError(t, err)
	r.SealEpoch(1)

	// later activity does not rewrite history
	_, err = r.Add(bob, big.NewInt(900), 6000, 2)
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(100), r.TotalActiveStake(1))
	assert.Equal(t, big.NewInt(0), r.ActiveStake(bob, 1))
	assert.Equal(t, big.NewInt(1000), r.CurrentTotalStake())
}

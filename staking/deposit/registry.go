// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposit

import (
	"math/big"

	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/faults"
)

var logger = log.WithContext("pkg", "deposit")

// Snapshot is the per-epoch stake aggregate sealed when an epoch ends.
type Snapshot struct {
	Total    *big.Int
	ByStaker map[stakehive.Address]*big.Int
}

// Registry owns all deposit records and maintains incremental stake
// aggregates: a running view for the current epoch, updated on every
// deposit and unstake, plus sealed snapshots for ended epochs. No query
// rescans the deposit history.
type Registry struct {
	deposits map[stakehive.Bytes32]*Deposit
	byStaker map[stakehive.Address][]*Deposit

	// stakers in registration order, for deterministic iteration
	order []stakehive.Address

	// running aggregates for the current epoch
	active      map[stakehive.Address]*big.Int
	totalActive *big.Int

	// sealed aggregates per ended epoch
	history map[uint32]*Snapshot

	nonce uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		deposits:    make(map[stakehive.Bytes32]*Deposit),
		byStaker:    make(map[stakehive.Address][]*Deposit),
		active:      make(map[stakehive.Address]*big.Int),
		totalActive: big.NewInt(0),
		history:     make(map[uint32]*Snapshot),
	}
}

// Add creates a new deposit active from the given epoch on.
func (r *Registry) Add(staker stakehive.Address, amount *big.Int, now uint64, epochID uint32) (*Deposit, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, faults.InvalidAmount("deposit amount must be positive")
	}

	r.nonce++
	d := &Deposit{
		ID:        newID(staker, now, r.nonce),
		Staker:    staker,
		Amount:    new(big.Int).Set(amount),
		CreatedAt: now,
		InEpoch:   epochID,
	}

	if _, known := r.active[staker]; !known {
		r.order = append(r.order, staker)
		r.active[staker] = big.NewInt(0)
	}
	r.deposits[d.ID] = d
	r.byStaker[staker] = append(r.byStaker[staker], d)

	r.active[staker] = new(big.Int).Add(r.active[staker], d.Amount)
	r.totalActive = new(big.Int).Add(r.totalActive, d.Amount)

	logger.Debug("deposit created", "id", d.ID, "staker", staker, "amount", d.Amount, "epoch", epochID)
	return d, nil
}

// Get returns the deposit with the given id.
func (r *Registry) Get(id stakehive.Bytes32) (*Deposit, bool) {
	d, ok := r.deposits[id]
	return d, ok
}

// Of returns all deposits of a staker in creation order.
func (r *Registry) Of(staker stakehive.Address) []*Deposit {
	return r.byStaker[staker]
}

// RequestUnstake flags the deposit as unstaked. The deposit stops
// counting as active stake from the given epoch on.
func (r *Registry) RequestUnstake(id stakehive.Bytes32, caller stakehive.Address, now uint64, epochID uint32) error {
	d, ok := r.deposits[id]
	if !ok {
		return faults.InvalidState("unknown deposit")
	}
	if d.Staker != caller {
		return faults.NotOwner("deposit is not owned by caller")
	}
	if d.Unstaked {
		return faults.InvalidState("deposit already unstaked")
	}

	d.Unstaked = true
	d.UnstakedAt = now
	d.OutEpoch = epochID

	r.active[d.Staker] = new(big.Int).Sub(r.active[d.Staker], d.Amount)
	r.totalActive = new(big.Int).Sub(r.totalActive, d.Amount)

	logger.Debug("unstake requested", "id", id, "staker", caller, "outEpoch", epochID)
	return nil
}

// Withdraw finalizes an unstaked deposit and returns the principal
// amount to hand to the custody collaborator. The lock-period check
// against the epoch ledger is the coordinator's, not the registry's.
func (r *Registry) Withdraw(id stakehive.Bytes32, caller stakehive.Address, now uint64) (*big.Int, error) {
	d, ok := r.deposits[id]
	if !ok {
		return nil, faults.InvalidState("unknown deposit")
	}
	if d.Staker != caller {
		return nil, faults.NotOwner("deposit is not owned by caller")
	}
	if !d.Unstaked {
		return nil, faults.InvalidState("deposit is not unstaked")
	}
	if d.Withdrawn {
		return nil, faults.InvalidState("deposit already withdrawn")
	}

	d.Withdrawn = true
	d.WithdrawnAt = now

	logger.Debug("deposit withdrawn", "id", id, "staker", caller, "amount", d.Amount)
	return new(big.Int).Set(d.Amount), nil
}

// RevertWithdraw undoes a withdraw mark within the same atomic call.
// Used by the coordinator when the custody collaborator rejects the
// transfer intent, keeping the call all-or-nothing.
func (r *Registry) RevertWithdraw(id stakehive.Bytes32) {
	if d, ok := r.deposits[id]; ok {
		d.Withdrawn = false
		d.WithdrawnAt = 0
	}
}

// SealEpoch freezes the running aggregates as the snapshot of the given
// epoch. Called by the coordinator exactly once per ended epoch.
func (r *Registry) SealEpoch(epochID uint32) {
	snap := &Snapshot{
		Total:    new(big.Int).Set(r.totalActive),
		ByStaker: make(map[stakehive.Address]*big.Int, len(r.active)),
	}
	for staker, amount := range r.active {
		if amount.Sign() > 0 {
			snap.ByStaker[staker] = new(big.Int).Set(amount)
		}
	}
	r.history[epochID] = snap
}

// ActiveStake returns the stake of a staker counted for the given
// epoch: the sealed snapshot for ended epochs, the running view
// otherwise.
func (r *Registry) ActiveStake(staker stakehive.Address, epochID uint32) *big.Int {
	if snap, ok := r.history[epochID]; ok {
		if amount, ok := snap.ByStaker[staker]; ok {
			return new(big.Int).Set(amount)
		}
		return big.NewInt(0)
	}
	return r.CurrentStake(staker)
}

// TotalActiveStake returns the total stake counted for the given epoch.
func (r *Registry) TotalActiveStake(epochID uint32) *big.Int {
	if snap, ok := r.history[epochID]; ok {
		return new(big.Int).Set(snap.Total)
	}
	return new(big.Int).Set(r.totalActive)
}

// CurrentStake returns the running active stake of a staker.
func (r *Registry) CurrentStake(staker stakehive.Address) *big.Int {
	if amount, ok := r.active[staker]; ok {
		return new(big.Int).Set(amount)
	}
	return big.NewInt(0)
}

// CurrentTotalStake returns the running total active stake.
func (r *Registry) CurrentTotalStake() *big.Int {
	return new(big.Int).Set(r.totalActive)
}

// ActiveStakers returns, in registration order, every staker with
// nonzero running active stake.
func (r *Registry) ActiveStakers() []stakehive.Address {
	var stakers []stakehive.Address
	for _, staker := range r.order {
		if r.active[staker].Sign() > 0 {
			stakers = append(stakers, staker)
		}
	}
	return stakers
}

// HasActiveStakers returns whether any staker currently has active stake.
func (r *Registry) HasActiveStakers() bool {
	for _, staker := range r.order {
		if r.active[staker].Sign() > 0 {
			return true
		}
	}
	return false
}

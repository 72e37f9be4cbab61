// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"

	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/faults"
)

var logger = log.WithContext("pkg", "reward")

// Policy decides where commission goes when no staker has active stake.
type Policy uint8

const (
	// PolicyCarryOver pools undistributed commission and folds it into
	// the next successful distribution.
	PolicyCarryOver Policy = iota
	// PolicyTreasury credits undistributed commission to a fixed
	// treasury address, claimable like any reward.
	PolicyTreasury
	// PolicyReject refuses collection until an epoch is running.
	PolicyReject
)

// Increment is one staged claimable-balance credit.
type Increment struct {
	Staker stakehive.Address
	Amount *big.Int
}

// AuditTotals exposes the accountant's conservation bookkeeping.
// Collected == Credited + Dust + Carry holds after every call.
type AuditTotals struct {
	Collected *big.Int
	Credited  *big.Int
	Paid      *big.Int
	Dust      *big.Int
	Carry     *big.Int
}

// Accountant turns collected commission into per-staker claimable
// balances. It is the only writer of the claimable table and enforces
// that no distribution ever credits more than was collected.
type Accountant struct {
	calc     Calculator
	stakes   StakeReader
	policy   Policy
	treasury stakehive.Address

	claimable map[stakehive.Address]*big.Int

	dust  *big.Int // retained division remainders, never distributed
	carry *big.Int // commission deferred from zero-stake epochs

	collected *big.Int
	credited  *big.Int
	paid      *big.Int
}

// NewAccountant creates an accountant with the given distribution
// strategy. The treasury address is only consulted under PolicyTreasury.
func NewAccountant(calc Calculator, stakes StakeReader, policy Policy, treasury stakehive.Address) *Accountant {
	return &Accountant{
		calc:      calc,
		stakes:    stakes,
		policy:    policy,
		treasury:  treasury,
		claimable: make(map[stakehive.Address]*big.Int),
		dust:      big.NewInt(0),
		carry:     big.NewInt(0),
		collected: big.NewInt(0),
		credited:  big.NewInt(0),
		paid:      big.NewInt(0),
	}
}

// CollectCommission distributes a commission amount over all stakers
// with nonzero active stake, in registration order. Increments are
// staged and committed only after the conservation check passes, so a
// misbehaving calculator cannot partially apply. Returns the staged
// increments actually credited.
func (a *Accountant) CollectCommission(commission *big.Int, now uint64) ([]Increment, error) {
	if commission == nil || commission.Sign() <= 0 {
		return nil, faults.InvalidAmount("commission must be positive")
	}

	stakers := a.stakes.ActiveStakers()
	if len(stakers) == 0 {
		return a.routeUndistributed(commission)
	}

	// fold in commission deferred from zero-stake epochs
	pool := new(big.Int).Add(commission, a.carry)

	staged := make([]Increment, 0, len(stakers))
	sum := big.NewInt(0)
	for _, staker := range stakers {
		r, err := a.calc.CalculateReward(staker, pool)
		if err != nil {
			return nil, err
		}
		if r == nil || r.Sign() < 0 {
			return nil, faults.CalculatorFault("calculator returned a negative reward")
		}
		sum = new(big.Int).Add(sum, r)
		if sum.Cmp(pool) > 0 {
			logger.Warn("calculator over-allocated", "pool", pool, "allocated", sum)
			return nil, faults.CalculatorFault("sum of rewards exceeds commission")
		}
		if r.Sign() > 0 {
			staged = append(staged, Increment{Staker: staker, Amount: r})
		}
	}

	// conservation holds, commit
	for _, inc := range staged {
		a.credit(inc.Staker, inc.Amount)
	}
	a.collected = new(big.Int).Add(a.collected, commission)
	a.dust = new(big.Int).Add(a.dust, new(big.Int).Sub(pool, sum))
	a.carry = big.NewInt(0)

	logger.Info("commission collected", "commission", commission, "stakers", len(staged), "dust", new(big.Int).Sub(pool, sum))
	return staged, nil
}

// routeUndistributed applies the zero-stake policy. Effects commit only
// on the non-error paths.
func (a *Accountant) routeUndistributed(commission *big.Int) ([]Increment, error) {
	switch a.policy {
	case PolicyTreasury:
		a.collected = new(big.Int).Add(a.collected, commission)
		a.credit(a.treasury, commission)
		logger.Info("commission routed to treasury", "commission", commission, "treasury", a.treasury)
		return []Increment{{Staker: a.treasury, Amount: new(big.Int).Set(commission)}}, nil
	case PolicyReject:
		return nil, faults.EpochNotReady("no active stake to distribute to")
	default: // PolicyCarryOver
		a.collected = new(big.Int).Add(a.collected, commission)
		a.carry = new(big.Int).Add(a.carry, commission)
		logger.Info("commission carried over", "commission", commission, "carry", a.carry)
		return nil, nil
	}
}

func (a *Accountant) credit(staker stakehive.Address, amount *big.Int) {
	balance, ok := a.claimable[staker]
	if !ok {
		balance = big.NewInt(0)
	}
	a.claimable[staker] = new(big.Int).Add(balance, amount)
	a.credited = new(big.Int).Add(a.credited, amount)
}

// Claimable returns the staker's accrued, not yet paid reward.
func (a *Accountant) Claimable(staker stakehive.Address) *big.Int {
	if balance, ok := a.claimable[staker]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// Claim zeroes the staker's claimable balance and returns the amount to
// hand to the custody collaborator.
func (a *Accountant) Claim(staker stakehive.Address, now uint64) (*big.Int, error) {
	balance, ok := a.claimable[staker]
	if !ok || balance.Sign() == 0 {
		return nil, faults.NothingToClaim("claimable balance is zero")
	}
	amount := new(big.Int).Set(balance)
	a.claimable[staker] = big.NewInt(0)
	a.paid = new(big.Int).Add(a.paid, amount)

	logger.Debug("reward claimed", "staker", staker, "amount", amount)
	return amount, nil
}

// Dust returns the accumulated division remainders retained by the protocol.
func (a *Accountant) Dust() *big.Int {
	return new(big.Int).Set(a.dust)
}

// Carry returns the commission pool deferred from zero-stake epochs.
func (a *Accountant) Carry() *big.Int {
	return new(big.Int).Set(a.carry)
}

// Audit returns the conservation totals.
func (a *Accountant) Audit() *AuditTotals {
	return &AuditTotals{
		Collected: new(big.Int).Set(a.collected),
		Credited:  new(big.Int).Set(a.credited),
		Paid:      new(big.Int).Set(a.paid),
		Dust:      new(big.Int).Set(a.dust),
		Carry:     new(big.Int).Set(a.carry),
	}
}

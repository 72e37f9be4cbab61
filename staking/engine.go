// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the epoch lifecycle and reward-accounting
// engine: deposits tracked across epoch boundaries, commission income
// divided among stakers by stake weight, and the unstake/withdraw state
// machine that prevents double-spend of principal or rewards.
package staking

import (
	"math/big"

	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/metrics"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/deposit"
	"github.com/stakehive/stakehive/staking/epoch"
	"github.com/stakehive/stakehive/staking/faults"
	"github.com/stakehive/stakehive/staking/reward"
)

var (
	logger = log.WithContext("pkg", "staking")

	metricDeposits    = metrics.LazyLoadCounter("deposits_created_count")
	metricUnstakes    = metrics.LazyLoadCounter("unstake_requests_count")
	metricWithdrawals = metrics.LazyLoadCounter("withdrawals_count")
	metricCommissions = metrics.LazyLoadCounter("commissions_collected_count")
	metricClaims      = metrics.LazyLoadCounter("rewards_claimed_count")
	metricEpochs      = metrics.LazyLoadCounterVec("epoch_transitions_count", []string{"transition"})
)

// Config carries the engine's deployment parameters.
type Config struct {
	GenesisStart  uint64        // scheduled start of the first epoch
	EpochDuration uint64        // seconds, defaults to stakehive.EpochDuration
	Policy        reward.Policy // routing of commission collected with zero active stake
	Treasury      stakehive.Address
}

// Option configures optional collaborators.
type Option func(*Engine)

// WithCustody installs the token-custody collaborator.
func WithCustody(c Custody) Option {
	return func(e *Engine) { e.custody = c }
}

// WithRecorder installs the audit event recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithCalculator installs a reward strategy other than the default
// proportional one. The factory receives the engine's stake view.
func WithCalculator(factory func(reward.StakeReader) reward.Calculator) Option {
	return func(e *Engine) { e.calcFactory = factory }
}

// Engine is the top-level coordinator. Every external call executes
// atomically with respect to all others; the host environment
// serializes calls, so the engine holds no locks. Epoch rollover is
// evaluated lazily at the top of every entry point.
type Engine struct {
	ledger     *epoch.Ledger
	deposits   *deposit.Registry
	accountant *reward.Accountant

	custody     Custody
	recorder    Recorder
	calcFactory func(reward.StakeReader) reward.Calculator
}

// New creates an engine with the genesis epoch pending.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		ledger:   epoch.NewLedger(cfg.GenesisStart, cfg.EpochDuration),
		deposits: deposit.New(),
		custody:  NopCustody{},
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.calcFactory == nil {
		e.calcFactory = func(stakes reward.StakeReader) reward.Calculator {
			return reward.NewProportional(stakes)
		}
	}
	e.accountant = reward.NewAccountant(e.calcFactory(e.deposits), e.deposits, cfg.Policy, cfg.Treasury)

	logger.Info("engine created",
		"genesisStart", cfg.GenesisStart,
		"epochDuration", e.ledger.Duration(),
		"policy", uint8(cfg.Policy),
	)
	return e
}

// tick drives the lazy epoch rollover: start the pending epoch if its
// conditions are met, then close every epoch whose scheduled end has
// passed, sealing the stake snapshot of each closed epoch. Bounded by
// the number of elapsed epoch durations; idempotent within one instant.
func (e *Engine) tick(now uint64) {
	for {
		progressed := false

		if e.ledger.EnsureStarted(now, e.deposits.HasActiveStakers()) {
			cur := e.ledger.Current()
			metricEpochs().AddWithLabel(1, map[string]string{"transition": "started"})
			e.emit(&Event{Type: EventEpochStarted, Time: now, Epoch: cur.ID})
			progressed = true
		}

		if closed, next, ok := e.ledger.AdvanceIfDue(now); ok {
			e.deposits.SealEpoch(closed.ID)
			metricEpochs().AddWithLabel(1, map[string]string{"transition": "ended"})
			e.emit(&Event{Type: EventEpochEnded, Time: now, Epoch: closed.ID})
			logger.Info("epoch rolled over", "closed", closed.ID, "next", next.ID)
			progressed = true
		}

		if !progressed {
			return
		}
	}
}

// Tick exposes the lazy rollover as an explicit entry point, for hosts
// that want to advance epochs without another state change.
func (e *Engine) Tick(now uint64) {
	e.tick(now)
}

// Deposit locks a positive amount for the staker, active from the
// current epoch on. The first deposit at or after the scheduled start
// is what actually starts a pending epoch.
func (e *Engine) Deposit(staker stakehive.Address, amount *big.Int, now uint64) (*deposit.Deposit, error) {
	e.tick(now)

	d, err := e.deposits.Add(staker, amount, now, e.ledger.Current().ID)
	if err != nil {
		logger.Info("deposit failed", "staker", staker, "error", err)
		return nil, err
	}

	// the new stake may satisfy the deferred-start condition
	e.tick(now)

	metricDeposits().Add(1)
	e.emit(&Event{
		Type:      EventDepositCreated,
		Time:      now,
		Epoch:     d.InEpoch,
		Staker:    &d.Staker,
		DepositID: &d.ID,
		Amount:    new(big.Int).Set(d.Amount),
	})
	logger.Info("deposit created", "id", d.ID, "staker", staker, "amount", amount)
	return d, nil
}

// RequestUnstake flags the deposit for exit. The deposit earns nothing
// from the current epoch on, and the principal stays locked until this
// epoch has ended.
func (e *Engine) RequestUnstake(staker stakehive.Address, id stakehive.Bytes32, now uint64) error {
	e.tick(now)

	cur := e.ledger.Current()
	if err := e.deposits.RequestUnstake(id, staker, now, cur.ID); err != nil {
		logger.Info("unstake request failed", "id", id, "error", err)
		return err
	}

	metricUnstakes().Add(1)
	e.emit(&Event{
		Type:      EventUnstakeRequested,
		Time:      now,
		Epoch:     cur.ID,
		Staker:    &staker,
		DepositID: &id,
	})
	logger.Info("unstake requested", "id", id, "staker", staker, "outEpoch", cur.ID)
	return nil
}

// Withdraw returns the principal of an unstaked deposit once the epoch
// in which the unstake was requested has ended. The transfer intent is
// handed to custody before the record is finalized.
func (e *Engine) Withdraw(staker stakehive.Address, id stakehive.Bytes32, now uint64) (*big.Int, error) {
	e.tick(now)

	d, ok := e.deposits.Get(id)
	if !ok {
		return nil, faults.InvalidState("unknown deposit")
	}
	if d.Staker != staker {
		return nil, faults.NotOwner("deposit is not owned by caller")
	}
	if d.Unstaked && !d.Withdrawn {
		outEpoch, ok := e.ledger.Get(d.OutEpoch)
		if !ok || !outEpoch.Ended() {
			return nil, faults.InvalidState("principal is locked until the unstake epoch ends")
		}
	}

	amount, err := e.deposits.Withdraw(id, staker, now)
	if err != nil {
		logger.Info("withdraw failed", "id", id, "error", err)
		return nil, err
	}

	if err := e.custody.TransferOut(staker, amount); err != nil {
		// roll the mark back; custody moved nothing
		e.deposits.RevertWithdraw(id)
		logger.Warn("custody rejected withdrawal", "id", id, "error", err)
		return nil, err
	}

	metricWithdrawals().Add(1)
	e.emit(&Event{
		Type:      EventWithdrawn,
		Time:      now,
		Epoch:     e.ledger.Current().ID,
		Staker:    &staker,
		DepositID: &id,
		Amount:    new(big.Int).Set(amount),
	})
	logger.Info("withdrawn", "id", id, "staker", staker, "amount", amount)
	return amount, nil
}

// CollectCommission distributes reported commission income over the
// current epoch's active stake. With zero active stake the configured
// policy routes the amount instead. Returns the number of stakers
// credited.
func (e *Engine) CollectCommission(commission *big.Int, now uint64) (int, error) {
	e.tick(now)

	increments, err := e.accountant.CollectCommission(commission, now)
	if err != nil {
		logger.Info("commission collection failed", "commission", commission, "error", err)
		return 0, err
	}

	metricCommissions().Add(1)
	e.emit(&Event{
		Type:   EventCommissionCollected,
		Time:   now,
		Epoch:  e.ledger.Current().ID,
		Amount: new(big.Int).Set(commission),
	})
	return len(increments), nil
}

// Claim pays out the staker's whole claimable balance. The transfer
// intent is handed to custody before the balance is zeroed.
func (e *Engine) Claim(staker stakehive.Address, now uint64) (*big.Int, error) {
	e.tick(now)

	amount := e.accountant.Claimable(staker)
	if amount.Sign() == 0 {
		return nil, faults.NothingToClaim("claimable balance is zero")
	}

	if err := e.custody.TransferOut(staker, amount); err != nil {
		logger.Warn("custody rejected claim", "staker", staker, "error", err)
		return nil, err
	}
	if _, err := e.accountant.Claim(staker, now); err != nil {
		return nil, err
	}

	metricClaims().Add(1)
	e.emit(&Event{
		Type:   EventRewardClaimed,
		Time:   now,
		Epoch:  e.ledger.Current().ID,
		Staker: &staker,
		Amount: new(big.Int).Set(amount),
	})
	logger.Info("reward claimed", "staker", staker, "amount", amount)
	return amount, nil
}

//
// Queries - no state change
//

// CurrentEpoch returns a copy of the current epoch.
func (e *Engine) CurrentEpoch() epoch.Epoch {
	return e.ledger.Current().Copy()
}

// GetEpoch returns a copy of the epoch with the given id.
func (e *Engine) GetEpoch(id uint32) (epoch.Epoch, bool) {
	ep, ok := e.ledger.Get(id)
	if !ok {
		return epoch.Epoch{}, false
	}
	return ep.Copy(), true
}

// GetDeposit returns a copy of the deposit with the given id.
func (e *Engine) GetDeposit(id stakehive.Bytes32) (deposit.Deposit, bool) {
	d, ok := e.deposits.Get(id)
	if !ok {
		return deposit.Deposit{}, false
	}
	return d.Copy(), true
}

// DepositsOf returns copies of all deposits of a staker.
func (e *Engine) DepositsOf(staker stakehive.Address) []deposit.Deposit {
	var out []deposit.Deposit
	for _, d := range e.deposits.Of(staker) {
		out = append(out, d.Copy())
	}
	return out
}

// ActiveStake returns the stake counted for the staker in the given
// epoch, usable as a voting-power snapshot.
func (e *Engine) ActiveStake(staker stakehive.Address, epochID uint32) *big.Int {
	return e.deposits.ActiveStake(staker, epochID)
}

// TotalActiveStake returns the total stake counted for the given epoch.
func (e *Engine) TotalActiveStake(epochID uint32) *big.Int {
	return e.deposits.TotalActiveStake(epochID)
}

// Claimable returns the staker's accrued, not yet paid reward.
func (e *Engine) Claimable(staker stakehive.Address) *big.Int {
	return e.accountant.Claimable(staker)
}

// Audit returns the accountant's conservation totals.
func (e *Engine) Audit() *reward.AuditTotals {
	return e.accountant.Audit()
}

func (e *Engine) emit(ev *Event) {
	if err := e.recorder.Record(ev); err != nil {
		logger.Warn("failed to record event", "type", ev.Type, "error", err)
	}
}

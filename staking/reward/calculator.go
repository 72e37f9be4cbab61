// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/stakehive"
)

// StakeReader is the accountant's read-only view of the current epoch's
// active stake. Implemented by the deposit registry.
type StakeReader interface {
	CurrentStake(staker stakehive.Address) *big.Int
	CurrentTotalStake() *big.Int
	ActiveStakers() []stakehive.Address
}

// Calculator converts a commission amount into the reward share owed to
// one staker. Implementations are swappable at deployment time; the
// engine is agnostic to which is installed. The accountant enforces
// sum(rewards) <= commission regardless of the implementation.
type Calculator interface {
	CalculateReward(staker stakehive.Address, commission *big.Int) (*big.Int, error)
}

// Proportional is the reference strategy:
// reward = commission * activeStake(staker) / totalActiveStake.
// Integer division; the remainder stays with the accountant's dust pool.
type Proportional struct {
	stakes StakeReader
}

func NewProportional(stakes StakeReader) *Proportional {
	return &Proportional{stakes: stakes}
}

func (p *Proportional) CalculateReward(staker stakehive.Address, commission *big.Int) (*big.Int, error) {
	total := p.stakes.CurrentTotalStake()
	if total.Sign() == 0 {
		return big.NewInt(0), nil
	}
	reward := new(big.Int).Mul(commission, p.stakes.CurrentStake(staker))
	return reward.Quo(reward, total), nil
}

// Flat divides the commission evenly among all stakers with nonzero
// active stake, regardless of stake size.
type Flat struct {
	stakes StakeReader
}

func NewFlat(stakes StakeReader) *Flat {
	return &Flat{stakes: stakes}
}

func (f *Flat) CalculateReward(staker stakehive.Address, commission *big.Int) (*big.Int, error) {
	stakers := f.stakes.ActiveStakers()
	if len(stakers) == 0 {
		return big.NewInt(0), nil
	}
	if f.stakes.CurrentStake(staker).Sign() == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).Quo(commission, big.NewInt(int64(len(stakers)))), nil
}

// Tier boosts stakes at or above Min by Multiplier basis points when
// computing the stake weight.
type Tier struct {
	Min        *big.Int
	Multiplier uint32 // basis points, 10000 = 1x
}

// Tiered is proportional over boosted stake weights: larger positions
// fall into higher tiers and earn more than their plain stake share.
// Weights cancel out in the division, so the payout never exceeds the
// commission.
type Tiered struct {
	stakes StakeReader
	tiers  []Tier
}

// NewTiered creates a tiered strategy. Tiers must be ordered by
// ascending Min; the highest matching tier wins.
func NewTiered(stakes StakeReader, tiers []Tier) (*Tiered, error) {
	if len(tiers) == 0 {
		return nil, errors.New("at least one tier required")
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Min.Cmp(tiers[i-1].Min) <= 0 {
			return nil, errors.New("tiers must be ordered by ascending min stake")
		}
	}
	return &Tiered{stakes: stakes, tiers: tiers}, nil
}

func (t *Tiered) weight(stake *big.Int) *big.Int {
	multiplier := uint32(10000)
	for _, tier := range t.tiers {
		if stake.Cmp(tier.Min) >= 0 {
			multiplier = tier.Multiplier
		}
	}
	weight := new(big.Int).Mul(stake, big.NewInt(int64(multiplier)))
	return weight.Quo(weight, big.NewInt(10000))
}

func (t *Tiered) CalculateReward(staker stakehive.Address, commission *big.Int) (*big.Int, error) {
	totalWeight := big.NewInt(0)
	for _, s := range t.stakes.ActiveStakers() {
		totalWeight.Add(totalWeight, t.weight(t.stakes.CurrentStake(s)))
	}
	if totalWeight.Sign() == 0 {
		return big.NewInt(0), nil
	}
	reward := new(big.Int).Mul(commission, t.weight(t.stakes.CurrentStake(staker)))
	return reward.Quo(reward, totalWeight), nil
}

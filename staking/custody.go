// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/stakehive/stakehive/stakehive"
)

// Custody is the token-movement collaborator. The engine only computes
// amounts; actually moving balances is external. TransferOut is invoked
// before the engine commits the corresponding state change, so a
// custody failure leaves the books untouched.
type Custody interface {
	TransferOut(to stakehive.Address, amount *big.Int) error
}

// NopCustody acknowledges every transfer intent without moving anything.
type NopCustody struct{}

func (NopCustody) TransferOut(stakehive.Address, *big.Int) error { return nil }

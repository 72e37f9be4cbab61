// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package faults

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFault(t *testing.T) {
	err := InvalidAmount("deposit amount must be positive")
	assert.Equal(t, "InvalidAmount: deposit amount must be positive", err.Error())
	assert.Equal(t, KindInvalidAmount, err.Kind())

	assert.True(t, Is(err, KindInvalidAmount))
	assert.False(t, Is(err, KindInvalidState))
	assert.False(t, Is(nil, KindInvalidAmount))
	assert.False(t, Is(errors.New("plain"), KindInvalidAmount))
}

func TestIsUnwraps(t *testing.T) {
	err := errors.WithMessage(NotOwner("not yours"), "withdraw")
	assert.True(t, Is(err, KindNotOwner))
	assert.True(t, IsFault(err))
	assert.False(t, IsFault(errors.New("plain")))
	assert.False(t, IsFault(nil))
}

func TestKindStrings(t *testing.T) {
	for kind, want := range map[Kind]string{
		KindInvalidAmount:   "InvalidAmount",
		KindInvalidState:    "InvalidState",
		KindNotOwner:        "NotOwner",
		KindEpochNotReady:   "EpochNotReady",
		KindCalculatorFault: "CalculatorFault",
		KindNothingToClaim:  "NothingToClaim",
		KindUnknown:         "Unknown",
	} {
		assert.Equal(t, want, kind.String())
	}
}

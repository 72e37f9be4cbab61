// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakehive

// Constants of the staking protocol.
const (
	EpochDuration uint64 = 60 * 60 * 24 * 7 // (unit: second) length of one staking epoch.

	FirstEpochID uint32 = 1 // epoch ids are monotonic starting at 1, 0 marks "not set".
)

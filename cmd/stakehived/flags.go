// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakehive/stakehive/stakehive"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the audit database",
	}
	memFlag = cli.BoolFlag{
		Name:  "mem",
		Usage: "keep the audit trail in memory instead of on disk",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8791",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by the /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection and the metrics server",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	epochDurationFlag = cli.Uint64Flag{
		Name:  "epoch-duration",
		Value: stakehive.EpochDuration,
		Usage: "epoch length in seconds",
	}
	genesisTimeFlag = cli.Uint64Flag{
		Name:  "genesis-time",
		Usage: "scheduled unix start of the first epoch (0 means now)",
	}
	strategyFlag = cli.StringFlag{
		Name:  "strategy",
		Value: "proportional",
		Usage: "reward strategy (proportional|flat)",
	}
	zeroStakePolicyFlag = cli.StringFlag{
		Name:  "zero-stake-policy",
		Value: "carry-over",
		Usage: "routing of commission collected with no active stake (carry-over|treasury|reject)",
	}
	treasuryFlag = cli.StringFlag{
		Name:  "treasury",
		Usage: "treasury address, required by the treasury zero-stake policy",
	}
	tickIntervalFlag = cli.Uint64Flag{
		Name:  "tick-interval",
		Value: 10,
		Usage: "seconds between epoch rollover checks",
	}
)

// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking/reward"
)

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".stakehived")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	useColor := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("TERM") != "dumb"
	handler := log.NewTerminalHandlerWithLevel(os.Stdout, &level, useColor)
	log.SetDefault(log.NewLogger(handler))
}

func selectStrategy(ctx *cli.Context) (func(reward.StakeReader) reward.Calculator, error) {
	switch name := ctx.String(strategyFlag.Name); name {
	case "proportional":
		return func(stakes reward.StakeReader) reward.Calculator {
			return reward.NewProportional(stakes)
		}, nil
	case "flat":
		return func(stakes reward.StakeReader) reward.Calculator {
			return reward.NewFlat(stakes)
		}, nil
	default:
		return nil, errors.Errorf("unknown reward strategy %q", name)
	}
}

func selectPolicy(ctx *cli.Context) (reward.Policy, stakehive.Address, error) {
	var treasury stakehive.Address
	switch name := ctx.String(zeroStakePolicyFlag.Name); name {
	case "carry-over":
		return reward.PolicyCarryOver, treasury, nil
	case "treasury":
		addr, err := stakehive.ParseAddress(ctx.String(treasuryFlag.Name))
		if err != nil {
			return 0, treasury, errors.WithMessage(err, "the treasury policy needs --treasury")
		}
		return reward.PolicyTreasury, *addr, nil
	case "reject":
		return reward.PolicyReject, treasury, nil
	default:
		return 0, treasury, errors.Errorf("unknown zero-stake policy %q", name)
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakehive/stakehive/api"
	"github.com/stakehive/stakehive/auditdb"
	"github.com/stakehive/stakehive/log"
	"github.com/stakehive/stakehive/metrics"
	"github.com/stakehive/stakehive/staking"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeHive",
		Usage:     "Epoch-based staking and commission-sharing service",
		Copyright: "2025 The StakeHive developers",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			epochDurationFlag,
			genesisTimeFlag,
			strategyFlag,
			zeroStakePolicyFlag,
			treasuryFlag,
			tickIntervalFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	initLogger(ctx)
	defer func() { log.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	calcFactory, err := selectStrategy(ctx)
	if err != nil {
		return err
	}
	policy, treasury, err := selectPolicy(ctx)
	if err != nil {
		return err
	}

	db, err := openAuditDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing audit database..."); db.Close() }()

	genesisStart := ctx.Uint64(genesisTimeFlag.Name)
	if genesisStart == 0 {
		genesisStart = uint64(time.Now().Unix()) //#nosec G115
	}

	engine := staking.New(
		staking.Config{
			GenesisStart:  genesisStart,
			EpochDuration: ctx.Uint64(epochDurationFlag.Name),
			Policy:        policy,
			Treasury:      treasury,
		},
		staking.WithRecorder(db),
		staking.WithCalculator(calcFactory),
	)

	// Guards the engine: the tick loop writes, API handlers read.
	var mu sync.RWMutex

	apiHandler := api.New(engine, &mu, db, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EventsLimit:    uint32(ctx.Uint64(apiEventsLimitFlag.Name)), //#nosec G115
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		LogRequests:    ctx.Bool(enableAPILogsFlag.Name),
	})

	apiSrv, apiURL, err := startHTTPServer("API", ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("stopping API server...")
		apiSrv.Shutdown(context.Background())
	}()

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv, metricsURL, err := startHTTPServer("metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		if err != nil {
			return err
		}
		defer func() {
			log.Info("stopping metrics server...")
			metricsSrv.Shutdown(context.Background())
		}()
		log.Info("metrics server started", "url", metricsURL)
	}

	printStartupMessage(genesisStart, ctx.Uint64(epochDurationFlag.Name), db.Path(), apiURL)

	return runTickLoop(handleExitSignal(), engine, &mu, ctx.Uint64(tickIntervalFlag.Name))
}

func openAuditDB(ctx *cli.Context) (*auditdb.AuditDB, error) {
	if ctx.Bool(memFlag.Name) {
		return auditdb.NewMem()
	}
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use --%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at %q", dataDir)
	}
	return auditdb.New(filepath.Join(dataDir, "audit.db"))
}

func startHTTPServer(name, addr string, handler http.Handler) (*http.Server, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Wrapf(err, "listen %s addr %q", name, addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second * 10}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			log.Error("HTTP server stopped unexpectedly", "name", name, "err", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/", nil
}

// runTickLoop drives the lazy epoch rollover on wall-clock time until
// the exit signal arrives. The engine itself never sleeps; all state
// transitions happen inside Tick under the write lock.
func runTickLoop(ctx context.Context, engine *staking.Engine, mu *sync.RWMutex, interval uint64) error {
	if interval == 0 {
		interval = 1
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Second) //#nosec G115
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			mu.Lock()
			engine.Tick(uint64(now.Unix())) //#nosec G115
			mu.Unlock()
		}
	}
}

func printStartupMessage(genesisStart, epochDuration uint64, dbPath, apiURL string) {
	fmt.Printf(`Starting %v
    Network      [ genesis start %v, epoch duration %vs ]
    Audit DB     [ %v ]
    API portal   [ %v ]
`,
		fullVersion(),
		time.Unix(int64(genesisStart), 0).UTC().Format(time.RFC3339), //#nosec G115
		epochDuration,
		dbPath,
		apiURL)
}

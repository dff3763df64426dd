// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// rollupd runs a rollup node: the publication inbox, the prover manager and
// an HTTP API over them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xiaodino/minimal-rollup/api"
	"github.com/xiaodino/minimal-rollup/eventlog"
	"github.com/xiaodino/minimal-rollup/genesis"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/lvldb"
	"github.com/xiaodino/minimal-rollup/metrics"
	"github.com/xiaodino/minimal-rollup/node"
)

var (
	version   string
	gitCommit string

	logger = log.WithContext("pkg", "rollupd")
)

func main() {
	app := cli.NewApp()
	app.Name = "rollupd"
	app.Usage = "rollup node with a prover auction"
	app.Version = fmt.Sprintf("%s-%s", version, gitCommit)
	app.Flags = []cli.Flag{
		dataDirFlag,
		genesisFlag,
		devFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiEventsLimitFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		disableNTPFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))

	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	id, err := gen.ID()
	if err != nil {
		return err
	}
	dataDir, err := makeInstanceDir(ctx.String(dataDirFlag.Name), id)
	if err != nil {
		return err
	}

	// meters are created on first use, so the backend is chosen before anything runs
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	db, err := lvldb.New(filepath.Join(dataDir, "state"), lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheFlag.Name)),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close state database", "err", err)
		}
	}()

	events, err := eventlog.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("failed to close event log", "err", err)
		}
	}()

	n, err := node.New(db, events, gen, node.WallClock)
	if err != nil {
		return err
	}
	logger.Info("node ready", "genesis", id.AbbrevString(), "dir", dataDir, "dev", ctx.Bool(devFlag.Name))

	exitSignal := handleExitSignal()
	g, gctx := errgroup.WithContext(exitSignal)

	apiHandler := api.New(n, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		DevMode:        ctx.Bool(devFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		EventsLimit:    ctx.Uint64(apiEventsLimitFlag.Name),
	})
	apiURL, err := startServer(gctx, g, ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return errors.Wrap(err, "start API server")
	}
	logger.Info("API portal started", "url", apiURL)

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsURL, err := startServer(gctx, g, ctx.String(metricsAddrFlag.Name), metricsHandler())
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		logger.Info("metrics server started", "url", metricsURL+"/metrics")
	}

	if !ctx.Bool(disableNTPFlag.Name) {
		g.Go(func() error {
			watchClockOffset(gctx)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("exited")
	return err
}

func selectGenesis(ctx *cli.Context) (*genesis.Config, error) {
	if ctx.Bool(devFlag.Name) {
		if ctx.IsSet(genesisFlag.Name) {
			return nil, errors.New("flags --dev and --genesis are exclusive")
		}
		return genesis.NewDevConfig(), nil
	}
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return nil, errors.New("either --dev or --genesis is required")
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, err
	}
	if err := gen.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	return gen, nil
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/mapprotocol/ori/admin"
	"github.com/mapprotocol/ori/api"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/cmd/ori/node"
	"github.com/mapprotocol/ori/comm"
	"github.com/mapprotocol/ori/consensus"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/genesis"
	"github.com/mapprotocol/ori/health"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/metrics"
	"github.com/mapprotocol/ori/txpool"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
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
		Name:      "Ori",
		Usage:     "Node of the Ori proof-of-stake chain",
		Copyright: "2026 The Ori developers",
		Flags: []cli.Flag{
			dataDirFlag,
			keyFlag,
			configFlag,
			devFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			cacheFlag,
			blockIntervalFlag,
			roundTimeoutFlag,
			minDelayFlag,
			maxTxsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			statsIntervalFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "keygen",
				Usage:  "generate a new validator key",
				Action: keygenAction,
			},
			{
				Name:   "account",
				Usage:  "print the address and public key of the node key",
				Flags:  []cli.Flag{dataDirFlag, keyFlag},
				Action: accountAction,
			},
			{
				Name:   "clean",
				Usage:  "remove the databases of a network instance",
				Flags:  []cli.Flag{dataDirFlag, keyFlag, configFlag, devFlag, verbosityFlag},
				Action: cleanAction,
			},
			{
				Name:   "verify",
				Usage:  "verify the stored chain",
				Flags:  []cli.Flag{dataDirFlag, keyFlag, configFlag, devFlag, cacheFlag, verbosityFlag, verifyWorkersFlag},
				Action: verifyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	master := loadMasterKey(ctx)
	gene := selectGenesis(ctx, master)
	dir := makeInstanceDir(ctx, gene)

	mainDB := openMainDB(ctx, dir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	repo, stater := initChain(gene, mainDB)
	cfg := consensusConfig(ctx, gene)

	txPool := txpool.New(repo, stater, txpool.DefaultOptions())
	defer func() { logger.Info("closing tx pool..."); txPool.Close() }()

	hub := comm.NewHub()
	defer func() { logger.Info("closing network hub..."); hub.Close() }()
	hub.ServeBlocks(repo)
	txRelay := comm.NewTxRelay(hub, txPool)
	defer txRelay.Stop()

	apiHandler, apiCloser, err := api.New(repo, stater, txPool, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		Accounts:       []*ecdsa.PrivateKey{master},
	})
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); apiCloser() }()

	apiURL, srvCloser, err := startAPIServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	defer srvCloser()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeMetrics() }()
		metricsURL = url
	}

	nodeHealth := health.New(10 * cfg.BlockInterval)
	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeAdmin, err := admin.StartServer(ctx.String(adminAddrFlag.Name), nodeHealth)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeAdmin() }()
		adminURL = url
	}

	printStartupMessage(gene, repo, master, dir, apiURL, metricsURL, adminURL)

	engine := consensus.New(repo, stater, txPool, hub, master, consensus.Options{
		RoundTimeout: cfg.RoundTimeout,
		MinDelay:     cfg.MinDelay,
		MaxTxs:       ctx.Int(maxTxsFlag.Name),
		SyncInterval: 5 * cfg.BlockInterval,
	})
	return node.New(engine, repo, txPool, nodeHealth, node.Options{
		BlockInterval:     cfg.BlockInterval,
		StatsInterval:     ctx.Duration(statsIntervalFlag.Name),
		ClockSyncInterval: 10 * time.Minute,
	}).Run(exitSignal)
}

func printStartupMessage(
	gene *genesis.Genesis,
	repo *chain.Repository,
	master *ecdsa.PrivateKey,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	head := repo.Head().Header()
	set := repo.Schedule().SetFor(head.Height() + 1)
	role := "observer"
	if _, ok := set.IsMember(cry.PubkeyToAddress(&master.PublicKey)); ok {
		role = "validator"
	}
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	if adminURL == "" {
		adminURL = "Disabled"
	}

	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Head         [ #%v %v ]
    Validator    [ %v %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		"Ori "+fullVersion(),
		gene.ID(), gene.Name(),
		head.Height(), head.ID(),
		cry.PubkeyToAddress(&master.PublicKey), role,
		dataDir,
		apiURL,
		metricsURL,
		adminURL)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/mapprotocol/ori/ori"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for block-chain databases",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "validator private key, hex or path to a key file (defaults to <data-dir>/master.key)",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the network config file (yaml)",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "run a single-validator development network led by the node key",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 1024,
		Usage: "megabytes of ram allocated to the main database",
	}
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Value: ori.BlockInterval,
		Usage: "expected interval between blocks, overrides the network config",
	}
	roundTimeoutFlag = cli.DurationFlag{
		Name:  "round-timeout",
		Value: ori.DefaultRoundTimeout,
		Usage: "time a round waits for quorum before it fails, overrides the network config",
	}
	minDelayFlag = cli.DurationFlag{
		Name:  "min-delay",
		Value: ori.DefaultMinDelay,
		Usage: "delay between a new head and the first proposal on it, overrides the network config",
	}
	maxTxsFlag = cli.IntFlag{
		Name:  "max-txs",
		Value: ori.MaxTxsPerBlock,
		Usage: "maximum number of transactions per block",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables the admin server (log level, health)",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	statsIntervalFlag = cli.DurationFlag{
		Name:   "stats-interval",
		Value:  time.Minute,
		Hidden: true,
		Usage:  "interval of the status log line",
	}
	verifyWorkersFlag = cli.IntFlag{
		Name:  "workers",
		Value: 4,
		Usage: "number of blocks verified in parallel",
	}
)

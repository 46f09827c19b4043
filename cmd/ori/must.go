// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/genesis"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/lvldb"
	"github.com/mapprotocol/ori/metrics"
	"github.com/mapprotocol/ori/state"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name), color)
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".ori")
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func instanceDir(dataDir string, gene *genesis.Genesis) string {
	return filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dir := instanceDir(makeDataDir(ctx), gene)
	if err := os.MkdirAll(dir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", dir, err))
	}
	return dir
}

// loadMasterKey loads the key given by --key, or the one kept in the data dir.
func loadMasterKey(ctx *cli.Context) *ecdsa.PrivateKey {
	if v := ctx.String(keyFlag.Name); v != "" {
		key, err := cry.LoadKey(v)
		if err != nil {
			fatal(fmt.Sprintf("load key: %v", err))
		}
		return key
	}
	path := filepath.Join(makeDataDir(ctx), "master.key")
	key, err := cry.LoadOrGenerateKey(path)
	if err != nil {
		fatal(fmt.Sprintf("load or generate master key [%v]: %v", path, err))
	}
	return key
}

func selectGenesis(ctx *cli.Context, master *ecdsa.PrivateKey) *genesis.Genesis {
	if path := ctx.String(configFlag.Name); path != "" {
		cfg, err := genesis.LoadConfig(path)
		if err != nil {
			fatal(err)
		}
		name := filepath.Base(path)
		gene, err := genesis.NewGenesis(name[:len(name)-len(filepath.Ext(name))], cfg)
		if err != nil {
			fatal(fmt.Sprintf("build genesis: %v", err))
		}
		return gene
	}
	if ctx.Bool(devFlag.Name) {
		return genesis.NewDevnet(master)
	}

	cli.ShowAppHelp(ctx)
	fmt.Println("either --config or --dev must be specified")
	os.Exit(1)
	return nil
}

// consensusConfig returns the timings of the network, overridden by explicitly set flags.
func consensusConfig(ctx *cli.Context, gene *genesis.Genesis) genesis.ConsensusConfig {
	cfg := gene.Consensus()
	if ctx.IsSet(blockIntervalFlag.Name) {
		cfg.BlockInterval = ctx.Duration(blockIntervalFlag.Name)
	}
	if ctx.IsSet(roundTimeoutFlag.Name) {
		cfg.RoundTimeout = ctx.Duration(roundTimeoutFlag.Name)
	}
	if ctx.IsSet(minDelayFlag.Name) {
		cfg.MinDelay = ctx.Duration(minDelayFlag.Name)
	}
	return cfg
}

func openMainDB(ctx *cli.Context, dir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))

	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open chain database [%v]: %v", path, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func initChain(gene *genesis.Genesis, db *lvldb.LevelDB) (*chain.Repository, *state.Stater) {
	stater := state.NewStater(db)
	genesisBlock, err := gene.Build(stater)
	if err != nil {
		fatal(fmt.Sprintf("build genesis block: %v", err))
	}
	repo, err := chain.NewRepository(db, genesisBlock, gene.Schedule())
	if err != nil {
		fatal(fmt.Sprintf("initialize block chain: %v", err))
	}
	return repo, stater
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

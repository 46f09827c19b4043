// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"time"

	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/consensus"
	"github.com/mapprotocol/ori/health"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/txpool"
)

var logger = log.WithContext("pkg", "node")

// Options of the node's housekeeping.
type Options struct {
	BlockInterval     time.Duration
	StatsInterval     time.Duration
	ClockSyncInterval time.Duration
}

// Node runs the consensus engine along with housekeeping loops.
type Node struct {
	repo    *chain.Repository
	pool    *txpool.TxPool
	engine  *consensus.Engine
	health  *health.Health
	options Options
	goes    co.Goes
}

// New creates a new Node.
func New(
	engine *consensus.Engine,
	repo *chain.Repository,
	pool *txpool.TxPool,
	health *health.Health,
	options Options,
) *Node {
	return &Node{
		repo:    repo,
		pool:    pool,
		engine:  engine,
		health:  health,
		options: options,
	}
}

// Run blocks until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	logger.Info("node started", "validator", n.engine.Address(), "head", shortID(n.repo.Head().Header()))

	n.goes.Go(func() { n.engine.Run(ctx) })
	n.goes.Go(func() { n.houseKeeping(ctx) })
	n.goes.Wait()

	logger.Info("node stopped")
	return nil
}

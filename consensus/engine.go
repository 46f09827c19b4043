// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"context"
	"crypto/ecdsa"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/event"
	"github.com/mapprotocol/ori/bft"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/cache"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/comm"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/packer"
	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/txpool"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "consensus")

// RoundState is the state of the current round.
type RoundState int32

const (
	Idle RoundState = iota
	Proposing
	Sealing
	CollectingSignatures
	Committing
	RoundFailed
)

func (s RoundState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Proposing:
		return "proposing"
	case Sealing:
		return "sealing"
	case CollectingSignatures:
		return "collecting"
	case Committing:
		return "committing"
	case RoundFailed:
		return "failed"
	}
	return "unknown"
}

type outcome int

const (
	committed outcome = iota
	failed
	headChanged
	canceled
)

// Options of the engine.
type Options struct {
	RoundTimeout time.Duration
	MinDelay     time.Duration // delay between a new head and the first proposal on it
	MaxTxs       int
	SyncInterval time.Duration // period of pulling missed blocks from peers
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		RoundTimeout: ori.DefaultRoundTimeout,
		MinDelay:     ori.DefaultMinDelay,
		MaxTxs:       ori.MaxTxsPerBlock,
		SyncInterval: ori.DefaultSyncInterval,
	}
}

// Engine drives rounds on the local head. In every round the leader seals a candidate,
// collects signatures and commits the certified block. Other validators sign the
// candidate and import the committed block.
type Engine struct {
	repo     *chain.Repository
	pool     *txpool.TxPool
	net      comm.Network
	packer   *packer.Packer
	importer *Importer
	signer   *Signer
	options  Options

	state        atomic.Int32
	round        atomic.Uint32
	collector    atomic.Pointer[bft.Collector]
	futureBlocks *cache.PrioCache[ori.Bytes32, *block.Block]
	syncCh       chan struct{}
	goes         co.Goes
}

// New creates a new Engine instance.
func New(
	repo *chain.Repository,
	stater *state.Stater,
	pool *txpool.TxPool,
	net comm.Network,
	master *ecdsa.PrivateKey,
	options Options,
) *Engine {
	importer := NewImporter(repo, stater)
	signer := NewSigner(importer, master)
	p := packer.New(repo, stater, signer.Address())
	p.SetMaxTxs(options.MaxTxs)

	return &Engine{
		repo:         repo,
		pool:         pool,
		net:          net,
		packer:       p,
		importer:     importer,
		signer:       signer,
		options:      options,
		futureBlocks: cache.NewPrioCache[ori.Bytes32, *block.Block](256),
		syncCh:       make(chan struct{}, 1),
	}
}

// State returns the state of the current round.
func (e *Engine) State() RoundState {
	return RoundState(e.state.Load())
}

// Round returns the current round number on the head.
func (e *Engine) Round() uint32 {
	return e.round.Load()
}

// Address returns the address of the local validator.
func (e *Engine) Address() ori.Address {
	return e.signer.Address()
}

func (e *Engine) setState(s RoundState) {
	e.state.Store(int32(s))
}

// Run runs the engine until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	defer e.goes.Wait()

	var scope event.SubscriptionScope
	defer scope.Close()

	var (
		reqCh = make(chan *comm.SignRequest)
		sigCh = make(chan *comm.SignatureEvent)
		blkCh = make(chan *comm.NewBlockEvent)
	)
	scope.Track(e.net.SubscribeSignRequest(reqCh))
	scope.Track(e.net.SubscribeSignature(sigCh))
	scope.Track(e.net.SubscribeBlock(blkCh))

	e.goes.Go(func() { e.signLoop(ctx, reqCh) })
	e.goes.Go(func() { e.signatureLoop(ctx, sigCh) })
	e.goes.Go(func() { e.importLoop(ctx, blkCh) })
	e.goes.Go(func() { e.syncLoop(ctx) })
	e.roundLoop(ctx)
}

func (e *Engine) roundLoop(ctx context.Context) {
	logger.Debug("enter round loop")
	defer logger.Debug("leave round loop")

	ticker := e.repo.NewTicker()
	var head *block.Block
	for {
		if newHead := e.repo.Head(); head == nil || newHead.Header().ID() != head.Header().ID() {
			head = newHead
			e.round.Store(0)
			metricRoundNumber().Set(0)
			e.setState(Idle)

			timer := time.NewTimer(e.options.MinDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-ticker.C():
				timer.Stop()
				continue
			case <-timer.C:
			}
		}

		round := e.round.Load()
		switch e.runRound(ctx, ticker, head, round) {
		case canceled:
			return
		case headChanged:
			metricRounds().AddWithLabel(1, map[string]string{"outcome": "preempted"})
		case committed:
			metricRounds().AddWithLabel(1, map[string]string{"outcome": "committed"})
		case failed:
			metricRounds().AddWithLabel(1, map[string]string{"outcome": "failed"})
			e.setState(RoundFailed)
			logger.Debug("round failed", "height", head.Header().Height()+1, "round", round)
			e.round.Store(round + 1)
			metricRoundNumber().Set(int64(round + 1))
		}
	}
}

func (e *Engine) headChanged(head *block.Block) bool {
	return e.repo.Head().Header().ID() != head.Header().ID()
}

// await waits for a new head until done is closed.
func (e *Engine) await(ctx context.Context, ticker co.Waiter, head *block.Block, done <-chan struct{}) outcome {
	for {
		select {
		case <-ctx.Done():
			return canceled
		case <-ticker.C():
			if e.headChanged(head) {
				return headChanged
			}
		case <-done:
			if ctx.Err() != nil {
				return canceled
			}
			return failed
		}
	}
}

func (e *Engine) runRound(ctx context.Context, ticker co.Waiter, head *block.Block, round uint32) outcome {
	e.setState(Proposing)

	flow, err := e.packer.Schedule(head, round, uint64(time.Now().Unix()))
	if err != nil {
		if !packer.IsNotLeader(err) {
			logger.Warn("failed to prepare for packing", "err", err)
		}
		roundCtx, cancel := context.WithTimeout(ctx, e.options.RoundTimeout)
		defer cancel()
		return e.await(ctx, ticker, head, roundCtx.Done())
	}

	e.setState(Sealing)
	startTime := mclock.Now()
	blk, stage, err := e.seal(flow)
	if err != nil {
		logger.Error("failed to seal block", "err", err)
		return failed
	}

	e.setState(CollectingSignatures)
	header := blk.Header()
	col := bft.NewCollector(e.repo.Schedule().SetFor(header.Height()), header, e.options.RoundTimeout)
	defer col.Stop()
	e.collector.Store(col)
	defer e.collector.CompareAndSwap(col, nil)

	req := &comm.SignRequest{Leader: e.Address(), Round: round, Block: blk}
	if own, err := e.signer.Sign(req); err != nil {
		logger.Warn("failed to sign own candidate", "err", err)
	} else if err := col.Add(own.Signature); err != nil {
		logger.Warn("own signature rejected", "err", err)
	}
	e.net.BroadcastSignRequest(req)

	if col.State() != bft.Frozen {
		if out := e.await(ctx, ticker, head, col.Done()); out != failed {
			return out
		}
	}
	cert := col.Certificate()
	if cert == nil {
		return failed
	}

	e.setState(Committing)
	if _, err := stage.Commit(); err != nil {
		logger.Error("failed to commit state", "err", err)
		return failed
	}
	sealed := blk.WithCertificate(cert)
	if err := e.repo.Insert(sealed); err != nil {
		if errors.Is(err, chain.ErrDuplicateHeight) {
			return headChanged
		}
		logger.Error("failed to insert sealed block", "err", err)
		return failed
	}
	e.net.BroadcastBlock(sealed)

	ids := make([]ori.Bytes32, 0, len(sealed.Transactions()))
	for _, trx := range sealed.Transactions() {
		ids = append(ids, trx.ID())
	}
	e.pool.Remove(ids...)

	logger.Info("new block committed",
		"height", header.Height(),
		"hash", sealed.Header().ID(),
		"round", round,
		"txs", len(ids),
		"signers", cert.Len(),
		"elapsed", common.PrettyDuration(mclock.Now()-startTime),
	)
	return committed
}

// seal adopts executable txs of the pool and packs the candidate.
func (e *Engine) seal(flow *packer.Flow) (*block.Block, *state.Stage, error) {
	txs := e.pool.Executables()
loop:
	for _, trx := range txs {
		err := flow.Adopt(trx)
		switch {
		case err == nil:
		case packer.IsBlockFull(err):
			break loop
		case packer.IsTxNotAdoptableNow(err):
			continue
		case packer.IsKnownTx(err), packer.IsBadTx(err):
			e.pool.Remove(trx.ID())
		default:
			return nil, nil, err
		}
	}
	return flow.Pack()
}

func (e *Engine) signLoop(ctx context.Context, reqCh <-chan *comm.SignRequest) {
	logger.Debug("enter sign loop")
	defer logger.Debug("leave sign loop")

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-reqCh:
			if req.Leader == e.Address() {
				continue
			}
			if e.busyWith(req) {
				metricSignRequests().AddWithLabel(1, map[string]string{"result": "busy"})
				logger.Debug("refused to sign while collecting own candidate", "leader", req.Leader, "round", req.Round)
				continue
			}
			ev, err := e.signer.Sign(req)
			if err != nil {
				metricSignRequests().AddWithLabel(1, map[string]string{"result": "refused"})
				logger.Debug("refused to sign", "leader", req.Leader, "round", req.Round, "err", err)
				continue
			}
			metricSignRequests().AddWithLabel(1, map[string]string{"result": "signed"})
			e.net.SendSignature(ev)
		}
	}
}

// busyWith returns whether the local node is collecting signatures for another candidate
// and keeps precedence over the requester. Two leaders on the same head only happen when
// their round counters drifted apart, the lower round proceeds.
func (e *Engine) busyWith(req *comm.SignRequest) bool {
	col := e.collector.Load()
	if col == nil || req.Block == nil || col.State() != bft.AwaitingSignatures {
		return false
	}
	if col.Msg() == req.Block.Header().SigningHash() {
		return false
	}
	return req.Round >= e.round.Load()
}

func (e *Engine) signatureLoop(ctx context.Context, sigCh <-chan *comm.SignatureEvent) {
	logger.Debug("enter signature loop")
	defer logger.Debug("leave signature loop")

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sigCh:
			col := e.collector.Load()
			if col == nil || col.Msg() != ev.Msg {
				continue
			}
			if err := col.Add(ev.Signature); err != nil {
				logger.Debug("signature not accepted", "index", ev.Signature.Index, "err", err)
			}
		}
	}
}

func (e *Engine) importLoop(ctx context.Context, blkCh <-chan *comm.NewBlockEvent) {
	logger.Debug("enter import loop")
	defer logger.Debug("leave import loop")

	ticker := time.NewTicker(ori.BlockInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-blkCh:
			e.importBlock(ev.Block)
		case <-ticker.C:
			e.importFutureBlocks()
		}
	}
}

func (e *Engine) importBlock(blk *block.Block) {
	err := e.importer.Import(blk)
	switch {
	case err == nil:
		metricImportedBlock().AddWithLabel(1, map[string]string{"result": "imported"})
		logger.Info("imported block", "height", blk.Header().Height(), "hash", blk.Header().ID(), "txs", len(blk.Transactions()))
		e.importFutureBlocks()
	case errors.Is(err, ErrKnownBlock), errors.Is(err, chain.ErrDuplicateHeight):
		metricImportedBlock().AddWithLabel(1, map[string]string{"result": "known"})
	case errors.Is(err, chain.ErrOrphanBlock):
		metricImportedBlock().AddWithLabel(1, map[string]string{"result": "future"})
		e.futureBlocks.Set(blk.Header().ID(), blk, -float64(blk.Header().Height()))
		// a gap below the announced block, catch up now
		e.requestSync()
	default:
		metricImportedBlock().AddWithLabel(1, map[string]string{"result": "rejected"})
		logger.Warn("failed to import block", "height", blk.Header().Height(), "hash", blk.Header().ID(), "err", err)
	}
}

// importFutureBlocks imports cached blocks which now extend the head.
func (e *Engine) importFutureBlocks() {
	for {
		head := e.repo.Head().Header()
		var next *block.Block
		var stale []ori.Bytes32
		e.futureBlocks.ForEach(func(ent *cache.PrioEntry[ori.Bytes32, *block.Block]) bool {
			switch h := ent.Value.Header(); {
			case h.Height() <= head.Height():
				stale = append(stale, ent.Key)
			case h.ParentHash() == head.ID():
				next = ent.Value
			}
			return true
		})
		for _, id := range stale {
			e.futureBlocks.Remove(id)
		}
		if next == nil {
			return
		}
		e.futureBlocks.Remove(next.Header().ID())
		if err := e.importer.Import(next); err != nil {
			logger.Debug("failed to import future block", "height", next.Header().Height(), "err", err)
			return
		}
		metricImportedBlock().AddWithLabel(1, map[string]string{"result": "imported"})
	}
}

func (e *Engine) requestSync() {
	select {
	case e.syncCh <- struct{}{}:
	default:
	}
}

// syncLoop pulls blocks above the head from peers, at start, periodically and on demand.
func (e *Engine) syncLoop(ctx context.Context) {
	logger.Debug("enter sync loop")
	defer logger.Debug("leave sync loop")

	interval := e.options.SyncInterval
	if interval <= 0 {
		interval = ori.DefaultSyncInterval
	}
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-e.syncCh:
			timer.Stop()
		}
		if err := e.sync(ctx); err != nil && ctx.Err() == nil {
			logger.Debug("synchronization failed", "err", err)
		}
		timer.Reset(interval)
	}
}

// sync imports committed blocks from peers until none is ahead.
func (e *Engine) sync(ctx context.Context) error {
	for {
		head := e.repo.Head().Header().Height()
		blks, err := e.net.GetBlocksFrom(ctx, head+1)
		if err != nil {
			return err
		}
		if len(blks) == 0 {
			return nil
		}
		for _, blk := range blks {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := e.importer.Import(blk)
			switch {
			case err == nil:
				metricImportedBlock().AddWithLabel(1, map[string]string{"result": "synced"})
			case errors.Is(err, ErrKnownBlock), errors.Is(err, chain.ErrDuplicateHeight):
			default:
				return errors.WithMessagef(err, "import block %d", blk.Header().Height())
			}
		}
		if e.repo.Head().Header().Height() <= head {
			return nil
		}
		logger.Info("synchronized blocks", "from", head+1, "head", e.repo.Head().Header().Height())
	}
}

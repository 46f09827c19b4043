// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/event"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/tx"
)

var logger = log.WithContext("pkg", "txpool")

// Options options for tx pool.
type Options struct {
	Limit           int
	LimitPerAccount int
	MaxLifetime     time.Duration
}

// DefaultOptions returns the options used by the node.
func DefaultOptions() Options {
	return Options{
		Limit:           10000,
		LimitPerAccount: 128,
		MaxLifetime:     20 * time.Minute,
	}
}

// TxEvent will be posted when tx is added.
type TxEvent struct {
	Tx         *tx.Transaction
	Executable *bool
}

// TxPool maintains unprocessed transactions.
type TxPool struct {
	options Options
	repo    *chain.Repository
	stater  *state.Stater
	all     *txObjectMap

	ctx    context.Context
	cancel func()
	txFeed event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes
}

// New create a new TxPool instance.
// Close is required to be called at end.
func New(repo *chain.Repository, stater *state.Stater, options Options) *TxPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &TxPool{
		options: options,
		repo:    repo,
		stater:  stater,
		all:     newTxObjectMap(),
		ctx:     ctx,
		cancel:  cancel,
	}
	// the waiter must exist before New returns, or head changes right after are missed
	headTicker := repo.NewTicker()
	pool.goes.Go(func() { pool.housekeeping(headTicker) })
	return pool
}

func (p *TxPool) housekeeping(headTicker co.Waiter) {
	logger.Debug("enter housekeeping")
	defer logger.Debug("leave housekeeping")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-headTicker.C():
			p.washAndLog()
		case <-ticker.C:
			if p.options.MaxLifetime > 0 || p.all.Len() > p.options.Limit {
				p.washAndLog()
			}
		}
	}
}

func (p *TxPool) washAndLog() {
	startTime := mclock.Now()
	removed, err := p.wash()
	elapsed := mclock.Now() - startTime

	ctx := []any{
		"len", p.all.Len(),
		"removed", removed,
		"elapsed", common.PrettyDuration(elapsed),
	}
	if err != nil {
		ctx = append(ctx, "err", err)
	}
	metricTxPoolGauge().Set(int64(p.all.Len()))
	logger.Trace("wash done", ctx...)
}

// Close cleanup inner go routines.
func (p *TxPool) Close() {
	p.cancel()
	p.scope.Close()
	p.goes.Wait()
	logger.Debug("closed")
}

// SubscribeTxEvent receivers will receive a tx
func (p *TxPool) SubscribeTxEvent(ch chan *TxEvent) event.Subscription {
	return p.scope.Track(p.txFeed.Subscribe(ch))
}

func (p *TxPool) headState() (*state.State, error) {
	return p.stater.NewState(p.repo.Head().Header().StateRoot())
}

// Add adds a new tx into pool.
func (p *TxPool) Add(newTx *tx.Transaction) (err error) {
	defer func() {
		if err != nil {
			r := "rejected"
			switch {
			case IsErrKnownTx(err):
				r = "known"
			case IsBadTx(err):
				r = "bad"
			}
			metricBadTxCount().AddWithLabel(1, map[string]string{"reason": r})
		}
	}()

	if p.all.ContainsID(newTx.ID()) {
		return errKnownTx
	}
	txObj, err := resolveTx(newTx)
	if err != nil {
		return badTxError{err.Error()}
	}

	st, err := p.headState()
	if err != nil {
		return err
	}
	nonce := st.GetNonce(txObj.Origin())
	if newTx.Nonce() <= nonce {
		return badTxError{"nonce too low"}
	}
	if st.GetBalance(txObj.Origin()).Lt(newTx.Value()) {
		return txRejectedError{"insufficient balance"}
	}
	if p.all.Len() >= p.options.Limit {
		return txRejectedError{"pool is full"}
	}
	if err := p.all.Add(txObj, p.options.LimitPerAccount); err != nil {
		if IsErrKnownTx(err) {
			return err
		}
		return txRejectedError{err.Error()}
	}

	executable := newTx.Nonce() == nonce+1
	p.goes.Go(func() {
		p.txFeed.Send(&TxEvent{newTx, &executable})
	})
	metricTxPoolGauge().Set(int64(p.all.Len()))
	logger.Trace("tx added", "id", newTx.ID(), "executable", executable)
	return nil
}

// NextNonce returns the nonce for a new tx of origin, following its pending txs.
func (p *TxPool) NextNonce(origin ori.Address) (uint64, error) {
	st, err := p.headState()
	if err != nil {
		return 0, err
	}
	return p.all.NextNonce(origin, st.GetNonce(origin)), nil
}

// Get get pooled tx by id.
func (p *TxPool) Get(id ori.Bytes32) *tx.Transaction {
	if txObj := p.all.GetByID(id); txObj != nil {
		return txObj.Transaction
	}
	return nil
}

// Remove removes txs from pool by id. It returns count of txs removed.
func (p *TxPool) Remove(ids ...ori.Bytes32) int {
	n := 0
	for _, id := range ids {
		if p.all.RemoveByID(id) {
			logger.Debug("tx removed", "id", id)
			n++
		}
	}
	if n > 0 {
		metricTxPoolGauge().Set(int64(p.all.Len()))
	}
	return n
}

// Executables returns txs executable on the head state, grouped per origin in nonce order.
// Groups are ordered by the time their first tx was added.
func (p *TxPool) Executables() tx.Transactions {
	st, err := p.headState()
	if err != nil {
		logger.Warn("failed to create head state", "err", err)
		return nil
	}

	type group struct {
		first int64
		txs   []*txObject
	}
	var groups []group
	for origin, list := range p.all.Pending() {
		next := st.GetNonce(origin) + 1
		var g group
		for _, txObj := range list {
			if txObj.Nonce() != next {
				break
			}
			g.txs = append(g.txs, txObj)
			next++
		}
		if len(g.txs) > 0 {
			g.first = g.txs[0].timeAdded
			groups = append(groups, g)
		}
	}
	slices.SortFunc(groups, func(a, b group) int {
		return cmp.Compare(a.first, b.first)
	})

	var executables tx.Transactions
	for _, g := range groups {
		for _, txObj := range g.txs {
			executables = append(executables, txObj.Transaction)
		}
	}
	metricTxPoolExecutable().Set(int64(len(executables)))
	return executables
}

// Dump dumps all txs in the pool.
func (p *TxPool) Dump() tx.Transactions {
	txObjs := p.all.ToTxObjects()
	txs := make(tx.Transactions, 0, len(txObjs))
	for _, txObj := range txObjs {
		txs = append(txs, txObj.Transaction)
	}
	return txs
}

// Len returns count of pooled txs.
func (p *TxPool) Len() int {
	return p.all.Len()
}

// wash evicts txs that are settled, out of lifetime or over limit.
// It should only be called in the housekeeping goroutine.
func (p *TxPool) wash() (removed int, err error) {
	all := p.all.ToTxObjects()
	st, err := p.headState()
	if err != nil {
		// simply cut pool size to limit
		for i, txObj := range all {
			if len(all)-i <= p.options.Limit {
				break
			}
			if p.all.RemoveByID(txObj.ID()) {
				removed++
			}
		}
		return removed, err
	}

	var (
		now  = time.Now().UnixNano()
		kept = make([]*txObject, 0, len(all))
	)
	for _, txObj := range all {
		if txObj.Nonce() <= st.GetNonce(txObj.Origin()) {
			p.all.RemoveByID(txObj.ID())
			removed++
			logger.Trace("tx washed out", "id", txObj.ID(), "err", "settled")
			continue
		}
		if p.options.MaxLifetime > 0 && time.Duration(now-txObj.timeAdded) > p.options.MaxLifetime {
			p.all.RemoveByID(txObj.ID())
			removed++
			logger.Trace("tx washed out", "id", txObj.ID(), "err", "out of lifetime")
			continue
		}
		kept = append(kept, txObj)
	}

	// oldest first
	for i := 0; len(kept)-i > p.options.Limit; i++ {
		p.all.RemoveByID(kept[i].ID())
		removed++
	}
	return removed, nil
}

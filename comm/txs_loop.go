// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/txpool"
)

// TxRelay gossips txs between the local pool and the network.
type TxRelay struct {
	net    Network
	pool   *txpool.TxPool
	ctx    context.Context
	cancel context.CancelFunc
	goes   co.Goes
}

// NewTxRelay creates and starts a tx relay.
func NewTxRelay(net Network, pool *txpool.TxPool) *TxRelay {
	ctx, cancel := context.WithCancel(context.Background())
	r := &TxRelay{
		net:    net,
		pool:   pool,
		ctx:    ctx,
		cancel: cancel,
	}

	outCh := make(chan *txpool.TxEvent)
	outSub := pool.SubscribeTxEvent(outCh)
	inCh := make(chan *NewTransactionEvent)
	inSub := net.SubscribeTx(inCh)

	r.goes.Go(func() { r.outboundLoop(outCh, outSub) })
	r.goes.Go(func() { r.inboundLoop(inCh, inSub) })
	return r
}

// Stop stops the relay.
func (r *TxRelay) Stop() {
	r.cancel()
	r.goes.Wait()
}

// outboundLoop announces txs newly added to the local pool.
func (r *TxRelay) outboundLoop(ch chan *txpool.TxEvent, sub event.Subscription) {
	defer sub.Unsubscribe()

	for {
		select {
		case <-r.ctx.Done():
			return
		case ev := <-ch:
			r.net.BroadcastTx(ev.Tx)
		}
	}
}

// inboundLoop feeds announced txs into the local pool.
func (r *TxRelay) inboundLoop(ch chan *NewTransactionEvent, sub event.Subscription) {
	defer sub.Unsubscribe()

	for {
		select {
		case <-r.ctx.Done():
			return
		case ev := <-ch:
			if err := r.pool.Add(ev.Transaction); err != nil {
				if !txpool.IsErrKnownTx(err) {
					logger.Debug("failed to add announced tx", "id", ev.ID(), "err", err)
				}
				continue
			}
			metricReceivedTxs().Add(1)
		}
	}
}

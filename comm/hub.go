// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"context"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/tx"
)

var logger = log.WithContext("pkg", "comm")

var _ Network = (*Hub)(nil)

// Hub is an in-process Network. Every message is delivered to all subscribers,
// the sender's own subscriptions included. Block ranges are served by the registered sources.
type Hub struct {
	signRequestFeed event.Feed
	signatureFeed   event.Feed
	blockFeed       event.Feed
	txFeed          event.Feed
	feedScope       event.SubscriptionScope
	goes            co.Goes

	sourcesLock sync.RWMutex
	sources     []BlockReader
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{}
}

// Close unsubscribes all subscribers and waits for pending deliveries.
func (h *Hub) Close() {
	h.feedScope.Close()
	h.goes.Wait()
	logger.Debug("hub closed")
}

func (h *Hub) send(feed *event.Feed, kind string, v any) {
	metricMessages().AddWithLabel(1, map[string]string{"type": kind})
	h.goes.Go(func() {
		feed.Send(v)
	})
}

// BroadcastSignRequest implements Network.
func (h *Hub) BroadcastSignRequest(req *SignRequest) {
	h.send(&h.signRequestFeed, "sign_request", req)
}

// SendSignature implements Network.
func (h *Hub) SendSignature(sig *SignatureEvent) {
	h.send(&h.signatureFeed, "signature", sig)
}

// BroadcastBlock implements Network.
func (h *Hub) BroadcastBlock(blk *block.Block) {
	h.send(&h.blockFeed, "block", &NewBlockEvent{blk})
}

// BroadcastTx implements Network.
func (h *Hub) BroadcastTx(trx *tx.Transaction) {
	h.send(&h.txFeed, "tx", &NewTransactionEvent{trx})
}

// SubscribeSignRequest implements Network.
func (h *Hub) SubscribeSignRequest(ch chan *SignRequest) event.Subscription {
	return h.feedScope.Track(h.signRequestFeed.Subscribe(ch))
}

// SubscribeSignature implements Network.
func (h *Hub) SubscribeSignature(ch chan *SignatureEvent) event.Subscription {
	return h.feedScope.Track(h.signatureFeed.Subscribe(ch))
}

// SubscribeBlock implements Network.
func (h *Hub) SubscribeBlock(ch chan *NewBlockEvent) event.Subscription {
	return h.feedScope.Track(h.blockFeed.Subscribe(ch))
}

// SubscribeTx implements Network.
func (h *Hub) SubscribeTx(ch chan *NewTransactionEvent) event.Subscription {
	return h.feedScope.Track(h.txFeed.Subscribe(ch))
}

// ServeBlocks makes the blocks of r available to GetBlocksFrom.
func (h *Hub) ServeBlocks(r BlockReader) {
	h.sourcesLock.Lock()
	h.sources = append(h.sources, r)
	h.sourcesLock.Unlock()
}

// GetBlocksFrom implements Network. Sources are asked in turn, the first non-empty range wins.
func (h *Hub) GetBlocksFrom(ctx context.Context, height uint64) ([]*block.Block, error) {
	metricMessages().AddWithLabel(1, map[string]string{"type": "get_blocks"})

	h.sourcesLock.RLock()
	sources := slices.Clone(h.sources)
	h.sourcesLock.RUnlock()

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raws, err := ReadBlocksFrom(src, height)
		if err != nil {
			logger.Debug("failed to read blocks", "from", height, "err", err)
			continue
		}
		if len(raws) == 0 {
			continue
		}
		return decodeBlocks(raws, height)
	}
	return nil, nil
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/tx"
)

// Network exchanges consensus messages, blocks and txs among validators.
// Broadcasts are asynchronous and never block the caller.
type Network interface {
	BroadcastSignRequest(req *SignRequest)
	SendSignature(sig *SignatureEvent)
	BroadcastBlock(blk *block.Block)
	BroadcastTx(trx *tx.Transaction)

	SubscribeSignRequest(ch chan *SignRequest) event.Subscription
	SubscribeSignature(ch chan *SignatureEvent) event.Subscription
	SubscribeBlock(ch chan *NewBlockEvent) event.Subscription
	SubscribeTx(ch chan *NewTransactionEvent) event.Subscription

	// GetBlocksFrom requests committed blocks starting at height from peers.
	// An empty result means no peer is ahead.
	GetBlocksFrom(ctx context.Context, height uint64) ([]*block.Block, error)
}

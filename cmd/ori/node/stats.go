// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/consensus"
)

// headStats accumulates blocks seen between two status lines.
type headStats struct {
	since     mclock.AbsTime
	height    uint64
	processed int
	txs       int
}

func newHeadStats(head *block.Block) *headStats {
	return &headStats{since: mclock.Now(), height: head.Header().Height()}
}

func (s *headStats) update(head *block.Block) {
	h := head.Header().Height()
	if h <= s.height {
		return
	}
	s.processed += int(h - s.height)
	s.txs += len(head.Transactions())
	s.height = h
}

func (s *headStats) reset() {
	s.since = mclock.Now()
	s.processed = 0
	s.txs = 0
}

func (s *headStats) LogContext(head *block.Block, poolSize int, state consensus.RoundState, round uint32) []any {
	return []any{
		"head", shortID(head.Header()),
		"blocks", s.processed,
		"txs", s.txs,
		"pool", poolSize,
		"round", fmt.Sprintf("%d|%v", round, state),
		"et", common.PrettyDuration(mclock.Now() - s.since),
	}
}

func shortID(h *block.Header) string {
	id := h.ID()
	return fmt.Sprintf("[#%v…%x]", h.Height(), id[28:])
}

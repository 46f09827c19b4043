// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/ori"
)

type HeadIngestion struct {
	Hash       ori.Bytes32 `json:"hash"`
	Height     uint64      `json:"height"`
	IngestedAt time.Time   `json:"ingestedAt"`
}

type Status struct {
	Healthy bool           `json:"healthy"`
	Head    *HeadIngestion `json:"head"`
}

// Health tracks when the local head last moved. The node is healthy while the
// head keeps advancing within maxLag.
type Health struct {
	lock   sync.RWMutex
	maxLag time.Duration
	head   *HeadIngestion
}

func New(maxLag time.Duration) *Health {
	return &Health{maxLag: maxLag}
}

func (h *Health) NewHead(blk *block.Block) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.head = &HeadIngestion{
		Hash:       blk.Header().ID(),
		Height:     blk.Header().Height(),
		IngestedAt: time.Now(),
	}
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	if h.head == nil {
		return &Status{}
	}
	head := *h.head
	return &Status{
		Healthy: time.Since(head.IngestedAt) <= h.maxLag,
		Head:    &head,
	}
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

var queryNTP = func() (time.Duration, error) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

func (n *Node) houseKeeping(ctx context.Context) {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	var (
		ticker         = n.repo.NewTicker()
		statsTicker    = time.NewTicker(n.options.StatsInterval)
		clockSyncTimer = time.NewTicker(n.options.ClockSyncInterval)
		stats          = newHeadStats(n.repo.Head())
	)
	n.health.NewHead(n.repo.Head())
	defer statsTicker.Stop()
	defer clockSyncTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("received context done signal")
			return
		case <-ticker.C():
			head := n.repo.Head()
			stats.update(head)
			n.health.NewHead(head)
			metricHeadHeight().Set(int64(head.Header().Height()))
		case <-statsTicker.C:
			logger.Info("status", stats.LogContext(n.repo.Head(), n.pool.Len(), n.engine.State(), n.engine.Round())...)
			stats.reset()
		case <-clockSyncTimer.C:
			logger.Debug("received clock sync tick")
			n.goes.Go(func() { checkClockOffset(n.options.BlockInterval) })
		}
	}
}

// checkClockOffset reports whether the local clock drifts more than half a block interval.
func checkClockOffset(blockInterval time.Duration) bool {
	offset, err := queryNTP()
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return false
	}
	if offset < 0 {
		offset = -offset
	}
	if offset > blockInterval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
		return true
	}
	return false
}

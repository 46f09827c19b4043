// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/mapprotocol/ori/metrics"

var (
	metricCacheHitMiss     = metrics.LazyLoadGaugeVec("repo_cache_hit_miss_count", []string{"type", "event"})
	metricBlockInserted    = metrics.LazyLoadCounter("chain_block_inserted_count")
	metricInsertFailure    = metrics.LazyLoadCounterVec("chain_insert_failure_count", []string{"reason"})
	metricHeadHeight       = metrics.LazyLoadGauge("chain_head_height")
	metricInsertDurationMs = metrics.LazyLoadHistogram("chain_insert_duration_ms", metrics.Bucket10s)
)

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/mapprotocol/ori/metrics"

var metricSnapshotCache = metrics.LazyLoadCounterVec("state_snapshot_cache_count", []string{"result"})

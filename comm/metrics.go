// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import "github.com/mapprotocol/ori/metrics"

var (
	metricMessages    = metrics.LazyLoadCounterVec("comm_messages_count", []string{"type"})
	metricReceivedTxs = metrics.LazyLoadCounter("comm_received_txs_count")
)

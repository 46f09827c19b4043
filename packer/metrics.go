// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/mapprotocol/ori/metrics"

var (
	metricTxAdopted  = metrics.LazyLoadCounter("packer_tx_adopted_count")
	metricTxDeferred = metrics.LazyLoadCounter("packer_tx_deferred_count")
)

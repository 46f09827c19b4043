// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import "github.com/mapprotocol/ori/metrics"

var (
	metricRounds        = metrics.LazyLoadCounterVec("consensus_round_count", []string{"outcome"})
	metricRoundNumber   = metrics.LazyLoadGauge("consensus_round_number")
	metricImportedBlock = metrics.LazyLoadCounterVec("consensus_imported_block_count", []string{"result"})
	metricSignRequests  = metrics.LazyLoadCounterVec("consensus_sign_request_count", []string{"result"})
)

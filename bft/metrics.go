// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bft

import "github.com/mapprotocol/ori/metrics"

var metricSignatures = metrics.LazyLoadCounterVec("bft_signatures_count", []string{"verdict"})

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ori

import "time"

// Constants of the chain.
const (
	BlockInterval       = 2 * time.Second // target time between two consecutive blocks.
	DefaultRoundTimeout = 4 * time.Second // signature collection deadline of a round.
	DefaultMinDelay     = BlockInterval   // minimum delay between a commit and the next proposal.
	DefaultSyncInterval = 5 * BlockInterval

	MaxTxsPerBlock = 1024
	MaxProofsSize  = 64 * 1024 // bytes, summed over all proofs of a block.

	EpochLength uint64 = 10000 // default epoch length for generated networks.
)

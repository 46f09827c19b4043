// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/tx"
)

// SignRequest is sent by the round leader to ask validators to sign its candidate.
type SignRequest struct {
	Leader ori.Address
	Round  uint32
	Block  *block.Block // uncertified candidate
}

// SignatureEvent carries a partial signature in reply to a sign request.
type SignatureEvent struct {
	Msg       ori.Bytes32
	Signature block.Signature
}

// NewBlockEvent event emitted when a committed block is announced.
type NewBlockEvent struct {
	*block.Block
}

// NewTransactionEvent event emitted when a transaction is announced.
type NewTransactionEvent struct {
	*tx.Transaction
}

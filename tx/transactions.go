// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"

	"github.com/mapprotocol/ori/ori"
	"github.com/qianbin/drlp"
)

// EmptyRoot is the tx_root of a block without transactions.
var EmptyRoot = Transactions(nil).RootHash()

// Transactions a slice of transactions.
type Transactions []*Transaction

// Copy returns a shallow copy.
func (txs Transactions) Copy() Transactions {
	return append(Transactions(nil), txs...)
}

// RootHash computes the digest of the ordered transaction list.
// Each entry contributes its position and its id, so reordering changes the root.
func (txs Transactions) RootHash() ori.Bytes32 {
	return ori.Blake2bFn(func(w io.Writer) {
		var key []byte
		for i, tx := range txs {
			key = drlp.AppendUint(key[:0], uint64(i))
			w.Write(key)
			id := tx.ID()
			w.Write(id[:])
		}
	})
}

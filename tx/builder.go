// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/ori"
)

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// From set the sender.
func (b *Builder) From(addr ori.Address) *Builder {
	b.body.From = addr
	return b
}

// To set the recipient.
func (b *Builder) To(addr ori.Address) *Builder {
	b.body.To = addr
	return b
}

// Value set the transferred amount.
func (b *Builder) Value(v *uint256.Int) *Builder {
	if v == nil {
		b.body.Value = nil
	} else {
		b.body.Value = new(uint256.Int).Set(v)
	}
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	if tx.body.Value == nil {
		tx.body.Value = new(uint256.Int)
	}
	return &tx
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
	proofs     []Proof
}

// Height set block height.
func (b *Builder) Height(h uint64) *Builder {
	b.headerBody.Height = h
	return b
}

// ParentHash set parent hash.
func (b *Builder) ParentHash(hash ori.Bytes32) *Builder {
	b.headerBody.ParentHash = hash
	return b
}

// StateRoot set state root.
func (b *Builder) StateRoot(hash ori.Bytes32) *Builder {
	b.headerBody.StateRoot = hash
	return b
}

// Time set timestamp.
func (b *Builder) Time(ts uint64) *Builder {
	b.headerBody.Time = ts
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(tx *tx.Transaction) *Builder {
	b.txs = append(b.txs, tx)
	return b
}

// Proof add an auxiliary proof.
func (b *Builder) Proof(p Proof) *Builder {
	b.proofs = append(b.proofs, append(Proof(nil), p...))
	return b
}

// Build build a block object without certificate.
// The sign root is set to the empty certificate's digest.
func (b *Builder) Build() *Block {
	header := b.headerBody
	header.TxRoot = b.txs.RootHash()
	cert := &Certificate{}
	header.SignRoot = cert.Root()

	return &Block{
		header: &Header{body: header},
		txs:    b.txs.Copy(),
		proofs: copyProofs(b.proofs),
		cert:   cert,
	}
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/tx"
	"github.com/pkg/errors"
)

// Proof is validator supplied auxiliary data, opaque to consensus.
type Proof []byte

// Block is an immutable block type.
type Block struct {
	header *Header
	txs    tx.Transactions
	proofs []Proof
	cert   *Certificate
}

// New create a block instance.
// Note: This method is usually to recover a block by its portions, and the roots are not verified.
// To build up a block, use a Builder.
func New(header *Header, txs tx.Transactions, proofs []Proof, cert *Certificate) *Block {
	if cert == nil {
		cert = &Certificate{}
	}
	return &Block{
		header,
		txs.Copy(),
		copyProofs(proofs),
		cert,
	}
}

// WithCertificate creates a new block with the certificate attached and
// sign root set to the certificate's digest.
func (b *Block) WithCertificate(cert *Certificate) *Block {
	return &Block{
		b.header.withSignRoot(cert.Root()),
		b.txs,
		b.proofs,
		cert,
	}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// Transactions returns a copy of transactions.
func (b *Block) Transactions() tx.Transactions {
	return b.txs.Copy()
}

// Proofs returns a copy of proofs.
func (b *Block) Proofs() []Proof {
	return copyProofs(b.proofs)
}

// Certificate returns the quorum certificate.
func (b *Block) Certificate() *Certificate {
	return b.cert
}

// ValidateBody checks the roots in header against the body.
// Certificate signatures are not checked here, since that needs the validator set.
func (b *Block) ValidateBody() error {
	if root := b.txs.RootHash(); root != b.header.TxRoot() {
		return errors.Errorf("tx root mismatch: want %v, have %v", b.header.TxRoot(), root)
	}
	if root := b.cert.Root(); root != b.header.SignRoot() {
		return errors.Errorf("sign root mismatch: want %v, have %v", b.header.SignRoot(), root)
	}
	size := 0
	for _, p := range b.proofs {
		size += len(p)
	}
	if size > ori.MaxProofsSize {
		return errors.Errorf("proofs too large: %d bytes", size)
	}
	if len(b.txs) > ori.MaxTxsPerBlock {
		return errors.Errorf("too many txs: %d", len(b.txs))
	}
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		b.header,
		b.txs,
		b.proofs,
		b.cert,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header Header
		Txs    tx.Transactions
		Proofs []Proof
		Cert   Certificate
	}{}

	if err := s.Decode(&payload); err != nil {
		return err
	}
	*b = Block{
		header: &payload.Header,
		txs:    payload.Txs,
		proofs: payload.Proofs,
		cert:   &payload.Cert,
	}
	return nil
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v)
%v
Transactions: %v
Proofs: %v
Signatures: %v`, b.header.ID(), b.header, len(b.txs), len(b.proofs), b.cert.Len())
}

func copyProofs(proofs []Proof) []Proof {
	if len(proofs) == 0 {
		return nil
	}
	cpy := make([]Proof, len(proofs))
	for i, p := range proofs {
		cpy[i] = append(Proof(nil), p...)
	}
	return cpy
}

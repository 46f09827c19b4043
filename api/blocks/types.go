// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/tx"
)

// Header is the json form of a block header.
type Header struct {
	Height     uint64      `json:"height"`
	ParentHash ori.Bytes32 `json:"parent_hash"`
	SignRoot   ori.Bytes32 `json:"sign_root"`
	StateRoot  ori.Bytes32 `json:"state_root"`
	Time       uint64      `json:"time"`
	TxRoot     ori.Bytes32 `json:"tx_root"`
}

// Signature is a partial signature of a validator.
type Signature struct {
	Index uint32        `json:"index"`
	Sig   hexutil.Bytes `json:"sig"`
}

// Signs is the quorum certificate of a block.
type Signs struct {
	Msg   ori.Bytes32 `json:"msg"`
	Signs []Signature `json:"signs"`
}

// Transaction is the json form of a transaction.
type Transaction struct {
	Hash      ori.Bytes32           `json:"hash"`
	From      ori.Address           `json:"from"`
	To        ori.Address           `json:"to"`
	Value     *math.HexOrDecimal256 `json:"value"`
	Nonce     uint64                `json:"nonce"`
	Signature hexutil.Bytes         `json:"signature"`
}

// Block is the json form of a block.
type Block struct {
	Hash   ori.Bytes32     `json:"hash"`
	Header *Header         `json:"header"`
	Proofs []hexutil.Bytes `json:"proofs"`
	Signs  []*Signs        `json:"signs"`
	Txs    []*Transaction  `json:"txs"`
}

// ConvertHeader converts a block header into its json form.
func ConvertHeader(h *block.Header) *Header {
	return &Header{
		Height:     h.Height(),
		ParentHash: h.ParentHash(),
		SignRoot:   h.SignRoot(),
		StateRoot:  h.StateRoot(),
		Time:       h.Time(),
		TxRoot:     h.TxRoot(),
	}
}

// ConvertTransaction converts a transaction into its json form.
func ConvertTransaction(trx *tx.Transaction) *Transaction {
	return &Transaction{
		Hash:      trx.ID(),
		From:      trx.From(),
		To:        trx.To(),
		Value:     (*math.HexOrDecimal256)(trx.Value().ToBig()),
		Nonce:     trx.Nonce(),
		Signature: trx.Signature(),
	}
}

// ConvertBlock converts a block into its json form.
// A block without certificate has an empty signs list.
func ConvertBlock(b *block.Block) *Block {
	header := b.Header()
	jb := &Block{
		Hash:   header.ID(),
		Header: ConvertHeader(header),
		Proofs: make([]hexutil.Bytes, 0, len(b.Proofs())),
		Signs:  make([]*Signs, 0, 1),
		Txs:    make([]*Transaction, 0, len(b.Transactions())),
	}
	for _, p := range b.Proofs() {
		jb.Proofs = append(jb.Proofs, hexutil.Bytes(p))
	}
	if cert := b.Certificate(); cert != nil {
		signs := &Signs{Msg: cert.Msg(), Signs: make([]Signature, 0, cert.Len())}
		for _, s := range cert.Signatures() {
			signs.Signs = append(signs.Signs, Signature{Index: s.Index, Sig: s.Sig})
		}
		jb.Signs = append(jb.Signs, signs)
	}
	for _, trx := range b.Transactions() {
		jb.Txs = append(jb.Txs, ConvertTransaction(trx))
	}
	return jb
}

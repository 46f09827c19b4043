// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(t *testing.T, nonce uint64) *tx.Transaction {
	key, err := cry.GenerateKey()
	require.NoError(t, err)
	trx, err := new(tx.Builder).
		From(cry.PubkeyToAddress(&key.PublicKey)).
		To(ori.BytesToAddress([]byte("bob"))).
		Value(uint256.NewInt(10)).
		Nonce(nonce).
		Build().Sign(key)
	require.NoError(t, err)
	return trx
}

func TestBlock(t *testing.T) {
	tx1 := newTx(t, 1)
	tx2 := newTx(t, 2)
	stateRoot := ori.Blake2b([]byte("state"))
	parent := ori.Blake2b([]byte("parent"))

	blk := new(Builder).
		Height(7).
		ParentHash(parent).
		StateRoot(stateRoot).
		Time(1597916633).
		Transaction(tx1).
		Transaction(tx2).
		Proof(Proof("attestation")).
		Build()

	h := blk.Header()
	assert.Equal(t, uint64(7), h.Height())
	assert.Equal(t, parent, h.ParentHash())
	assert.Equal(t, stateRoot, h.StateRoot())
	assert.Equal(t, uint64(1597916633), h.Time())
	assert.Equal(t, tx.Transactions{tx1, tx2}.RootHash(), h.TxRoot())
	assert.Equal(t, (&Certificate{}).Root(), h.SignRoot())
	assert.Equal(t, []Proof{Proof("attestation")}, blk.Proofs())
	assert.NoError(t, blk.ValidateBody())

	key, err := cry.GenerateKey()
	require.NoError(t, err)
	sig, err := cry.Sign(h.SigningHash(), key)
	require.NoError(t, err)

	cert := NewCertificate(h.SigningHash(), []Signature{{Index: 0, Sig: sig}})
	sealed := blk.WithCertificate(cert)

	assert.Equal(t, h.SigningHash(), sealed.Header().SigningHash(), "binding digest excludes sign root")
	assert.NotEqual(t, h.ID(), sealed.Header().ID(), "block hash covers sign root")
	assert.Equal(t, cert.Root(), sealed.Header().SignRoot())
	assert.NoError(t, sealed.ValidateBody())

	// the original stays untouched
	assert.Equal(t, (&Certificate{}).Root(), blk.Header().SignRoot())
}

func TestBlockRLP(t *testing.T) {
	blk := new(Builder).
		Height(1).
		Time(100).
		Transaction(newTx(t, 1)).
		Proof(Proof{1, 2, 3}).
		Build()
	cert := NewCertificate(blk.Header().SigningHash(), []Signature{{Index: 2, Sig: []byte{9}}, {Index: 1, Sig: []byte{8}}})
	blk = blk.WithCertificate(cert)

	data, err := rlp.EncodeToBytes(blk)
	require.NoError(t, err)

	var decoded Block
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, blk.Header().ID(), decoded.Header().ID())
	assert.Equal(t, blk.Transactions()[0].ID(), decoded.Transactions()[0].ID())
	assert.Equal(t, blk.Proofs(), decoded.Proofs())
	assert.Equal(t, cert.Root(), decoded.Certificate().Root())
	assert.Equal(t, []uint32{1, 2}, decoded.Certificate().Indices())
	assert.NoError(t, decoded.ValidateBody())
}

func TestValidateBody(t *testing.T) {
	blk := new(Builder).Height(1).Transaction(newTx(t, 1)).Build()

	tampered := New(blk.Header(), tx.Transactions{newTx(t, 1)}, nil, blk.Certificate())
	assert.ErrorContains(t, tampered.ValidateBody(), "tx root mismatch")

	foreign := NewCertificate(ori.Bytes32{1}, nil)
	unbound := New(blk.Header(), blk.Transactions(), nil, foreign)
	assert.ErrorContains(t, unbound.ValidateBody(), "sign root mismatch")

	big := New(blk.Header(), blk.Transactions(), []Proof{make(Proof, ori.MaxProofsSize+1)}, blk.Certificate())
	assert.ErrorContains(t, big.ValidateBody(), "proofs too large")
}

func TestCertificate(t *testing.T) {
	msg := ori.Blake2b([]byte("msg"))
	c := NewCertificate(msg, []Signature{
		{Index: 3, Sig: []byte{3}},
		{Index: 1, Sig: []byte{1}},
		{Index: 3, Sig: []byte{33}},
	})

	assert.Equal(t, msg, c.Msg())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []uint32{1, 3}, c.Indices())
	assert.Equal(t, []byte{3}, c.Signatures()[1].Sig, "first signature of an index wins")

	same := NewCertificate(msg, []Signature{{Index: 1, Sig: []byte{1}}, {Index: 3, Sig: []byte{3}}})
	assert.Equal(t, c.Root(), same.Root(), "root is independent of arrival order")

	other := NewCertificate(msg, []Signature{{Index: 1, Sig: []byte{1}}})
	assert.NotEqual(t, c.Root(), other.Root())

	c.Signatures()[0].Sig[0] = 0xff
	assert.Equal(t, []byte{1}, c.Signatures()[0].Sig, "signatures are copied out")
}

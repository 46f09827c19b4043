// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/ori"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigned(t *testing.T, nonce uint64) (*Transaction, ori.Address) {
	key, err := cry.GenerateKey()
	require.NoError(t, err)
	from := cry.PubkeyToAddress(&key.PublicKey)

	trx, err := new(Builder).
		From(from).
		To(ori.BytesToAddress([]byte("to"))).
		Value(uint256.NewInt(1000)).
		Nonce(nonce).
		Build().
		Sign(key)
	require.NoError(t, err)
	return trx, from
}

func TestTransactionSignature(t *testing.T) {
	trx, from := newSigned(t, 1)

	signer, err := trx.Signer()
	require.NoError(t, err)
	assert.Equal(t, from, signer)
	assert.NoError(t, trx.ValidateSignature())

	// a tx claiming another sender
	forged := new(Builder).From(ori.BytesToAddress([]byte("victim"))).To(trx.To()).Value(trx.Value()).Nonce(1).Build().
		WithSignature(trx.Signature())
	assert.Error(t, forged.ValidateSignature())

	unsigned := new(Builder).From(from).Build()
	assert.Error(t, unsigned.ValidateSignature())
}

func TestTransactionID(t *testing.T) {
	trx, _ := newSigned(t, 1)

	assert.NotEqual(t, trx.ID(), trx.SigningHash())
	assert.Equal(t, trx.SigningHash(), trx.WithSignature(nil).SigningHash(), "signing hash excludes signature")
	assert.NotEqual(t, trx.ID(), trx.WithSignature(nil).ID(), "id covers signature")

	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, trx.ID(), decoded.ID())
	assert.Equal(t, trx.Value(), decoded.Value())
	assert.Equal(t, trx.Nonce(), decoded.Nonce())
	assert.NoError(t, decoded.ValidateSignature())
}

func TestBuilderCopiesValue(t *testing.T) {
	v := uint256.NewInt(5)
	trx := new(Builder).Value(v).Build()
	v.SetUint64(6)
	assert.Equal(t, uint64(5), trx.Value().Uint64())

	trx.Value().SetUint64(7)
	assert.Equal(t, uint64(5), trx.Value().Uint64())

	assert.True(t, new(Builder).Build().Value().IsZero())
}

func TestTransactionsRootHash(t *testing.T) {
	tx1, _ := newSigned(t, 1)
	tx2, _ := newSigned(t, 2)

	assert.Equal(t, EmptyRoot, Transactions{}.RootHash())
	assert.NotEqual(t, EmptyRoot, Transactions{tx1}.RootHash())
	assert.Equal(t, Transactions{tx1, tx2}.RootHash(), Transactions{tx1, tx2}.RootHash())
	assert.NotEqual(t, Transactions{tx1, tx2}.RootHash(), Transactions{tx2, tx1}.RootHash(), "order matters")
}

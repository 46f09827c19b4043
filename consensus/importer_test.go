// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"testing"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/test/datagen"
	"github.com/mapprotocol/ori/test/testchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPeers creates n chains of the same genesis, each with its own storage.
func newPeers(t *testing.T, validators, n int) []*testchain.Chain {
	base, err := testchain.New(validators)
	require.NoError(t, err)
	t.Cleanup(func() { base.Close() })

	peers := make([]*testchain.Chain, 0, n)
	for range n {
		c, err := testchain.NewWithGenesis(base.Genesis(), base.Keys())
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		peers = append(peers, c)
	}
	return peers
}

func TestImport(t *testing.T) {
	peers := newPeers(t, 1, 2)
	a, b := peers[0], peers[1]
	importer := NewImporter(b.Repo(), b.Stater())

	to := datagen.RandomAddress()
	trx, err := a.Transfer(0, to, 100)
	require.NoError(t, err)
	blk1, err := a.MintBlock(trx)
	require.NoError(t, err)
	blk2, err := a.MintBlock()
	require.NoError(t, err)

	assert.ErrorIs(t, importer.Import(blk2), chain.ErrOrphanBlock)
	require.NoError(t, importer.Import(blk1))
	assert.ErrorIs(t, importer.Import(blk1), ErrKnownBlock)
	require.NoError(t, importer.Import(blk2))

	assert.Equal(t, a.Repo().Head().Header().ID(), b.Repo().Head().Header().ID())
	st, err := b.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), st.GetBalance(to).Uint64())
}

func TestImportStateRootMismatch(t *testing.T) {
	peers := newPeers(t, 1, 2)
	a, b := peers[0], peers[1]
	importer := NewImporter(b.Repo(), b.Stater())

	head := a.Repo().Head()
	blk, err := a.BuildBlock(head, head.Header().Time()+1)
	require.NoError(t, err)

	forged := new(block.Builder).
		Height(1).
		ParentHash(head.Header().ID()).
		StateRoot(datagen.RandomHash()).
		Time(blk.Header().Time()).
		Build()
	forged, err = a.Certify(forged)
	require.NoError(t, err)

	assert.ErrorIs(t, importer.Import(forged), ErrStateRootMismatch)
	assert.Equal(t, uint64(0), b.Repo().Head().Header().Height())
}

func TestImportInvalidCertificate(t *testing.T) {
	peers := newPeers(t, 3, 2)
	a, b := peers[0], peers[1]
	importer := NewImporter(b.Repo(), b.Stater())

	head := a.Repo().Head()
	blk, err := a.BuildBlock(head, head.Header().Time()+1)
	require.NoError(t, err)
	blk, err = a.Certify(blk, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, importer.Import(blk), chain.ErrInvalidCertificate)
}

func TestImportBadTx(t *testing.T) {
	peers := newPeers(t, 1, 2)
	a, b := peers[0], peers[1]
	importer := NewImporter(b.Repo(), b.Stater())

	// nonce gap is never executable
	trx, err := a.TransferWithNonce(0, datagen.RandomAddress(), 1, 5)
	require.NoError(t, err)
	head := a.Repo().Head()
	blk := new(block.Builder).
		Height(1).
		ParentHash(head.Header().ID()).
		StateRoot(head.Header().StateRoot()).
		Time(head.Header().Time() + 1).
		Transaction(trx).
		Build()
	blk, err = a.Certify(blk)
	require.NoError(t, err)

	assert.ErrorIs(t, importer.Import(blk), chain.ErrMalformedBlock)
}

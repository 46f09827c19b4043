// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer_test

import (
	"testing"

	"github.com/mapprotocol/ori/packer"
	"github.com/mapprotocol/ori/test/datagen"
	"github.com/mapprotocol/ori/test/testchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChain(t *testing.T, n int) *testchain.Chain {
	c, err := testchain.New(n)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPack(t *testing.T) {
	c := newChain(t, 1)
	repo := c.Repo()
	p := packer.New(repo, c.Stater(), c.Address(0))

	parent := repo.Head()
	flow, err := p.Schedule(parent, 0, parent.Header().Time()+10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), flow.Height())
	assert.Equal(t, parent.Header().Time()+10, flow.When())

	to := datagen.RandomAddress()
	tx1, _ := c.TransferWithNonce(0, to, 10, 1)
	tx2, _ := c.TransferWithNonce(0, to, 20, 2)
	tx3, _ := c.TransferWithNonce(0, to, 30, 4)

	require.NoError(t, flow.Adopt(tx1))
	assert.True(t, packer.IsKnownTx(flow.Adopt(tx1)))
	require.NoError(t, flow.Adopt(tx2))
	assert.True(t, packer.IsTxNotAdoptableNow(flow.Adopt(tx3)))
	assert.Equal(t, 2, flow.Txs())

	blk, stage, err := flow.Pack()
	require.NoError(t, err)
	assert.Equal(t, parent.Header().ID(), blk.Header().ParentHash())
	assert.Equal(t, stage.Hash(), blk.Header().StateRoot())
	assert.Len(t, blk.Transactions(), 2)
	assert.Equal(t, 0, blk.Certificate().Len())
	assert.True(t, blk.Certificate().Msg().IsZero())

	_, err = stage.Commit()
	require.NoError(t, err)
	blk, err = c.Certify(blk)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(blk))

	st, err := c.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(30), st.GetBalance(to).Uint64())
	assert.Equal(t, uint64(2), st.GetNonce(c.Address(0)))

	// packed txs are known to later flows
	flow, err = p.Schedule(repo.Head(), 0, 0)
	require.NoError(t, err)
	assert.True(t, packer.IsKnownTx(flow.Adopt(tx1)))
}

func TestBlockTime(t *testing.T) {
	c := newChain(t, 1)
	p := packer.New(c.Repo(), c.Stater(), c.Address(0))

	parent := c.Repo().Head()
	flow, err := p.Schedule(parent, 0, parent.Header().Time()-1)
	require.NoError(t, err)
	assert.Equal(t, parent.Header().Time()+1, flow.When())
}

func TestBadTx(t *testing.T) {
	c := newChain(t, 2)
	head := c.Repo().Head()
	set := c.Repo().Schedule().SetFor(1)
	leader := int(set.LeaderFor(1, head.Header().ID()))
	p := packer.New(c.Repo(), c.Stater(), c.Address(leader))

	flow, err := p.Schedule(head, 0, 0)
	require.NoError(t, err)

	stale, _ := c.TransferWithNonce(0, datagen.RandomAddress(), 1, 0)
	assert.True(t, packer.IsBadTx(flow.Adopt(stale)))

	tooMuch, _ := c.TransferWithNonce(1, datagen.RandomAddress(), testchain.InitialBalance.Uint64()+1, 1)
	assert.True(t, packer.IsBadTx(flow.Adopt(tooMuch)))
	assert.Equal(t, 0, flow.Txs())
}

func TestMaxTxs(t *testing.T) {
	c := newChain(t, 1)
	p := packer.New(c.Repo(), c.Stater(), c.Address(0))
	p.SetMaxTxs(2)

	flow, err := p.Schedule(c.Repo().Head(), 0, 0)
	require.NoError(t, err)
	for i := range uint64(2) {
		trx, _ := c.TransferWithNonce(0, datagen.RandomAddress(), 1, i+1)
		require.NoError(t, flow.Adopt(trx))
	}
	trx, _ := c.TransferWithNonce(0, datagen.RandomAddress(), 1, 3)
	assert.True(t, packer.IsBlockFull(flow.Adopt(trx)))
}

func TestNotLeader(t *testing.T) {
	c := newChain(t, 3)
	head := c.Repo().Head()
	set := c.Repo().Schedule().SetFor(1)

	for round := range uint32(4) {
		leader := int(set.LeaderForRound(1, head.Header().ID(), round))
		for i := range 3 {
			_, err := packer.New(c.Repo(), c.Stater(), c.Address(i)).Schedule(head, round, 0)
			if i == leader {
				assert.NoError(t, err)
			} else {
				assert.True(t, packer.IsNotLeader(err), "round %d validator %d", round, i)
			}
		}
	}

	outsider := datagen.RandomAddress()
	_, err := packer.New(c.Repo(), c.Stater(), outsider).Schedule(head, 0, 0)
	assert.True(t, packer.IsNotLeader(err))
}

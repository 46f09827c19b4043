// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"testing"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/comm"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/test/datagen"
	"github.com/mapprotocol/ori/test/testchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, c *testchain.Chain, round uint32, time uint64) *comm.SignRequest {
	head := c.Repo().Head()
	blk, err := c.BuildBlock(head, time)
	require.NoError(t, err)

	set := c.Repo().Schedule().SetFor(1)
	leader, _ := set.Validator(set.LeaderForRound(1, head.Header().ID(), round))
	return &comm.SignRequest{Leader: leader.Address, Round: round, Block: blk}
}

func TestSign(t *testing.T) {
	c, err := testchain.New(3)
	require.NoError(t, err)
	defer c.Close()

	signer := NewSigner(NewImporter(c.Repo(), c.Stater()), c.Key(1))
	assert.Equal(t, c.Address(1), signer.Address())

	headTime := c.Repo().Head().Header().Time()
	req := newRequest(t, c, 0, headTime+1)
	ev, err := signer.Sign(req)
	require.NoError(t, err)

	msg := req.Block.Header().SigningHash()
	assert.Equal(t, msg, ev.Msg)
	assert.Equal(t, uint32(1), ev.Signature.Index)
	pub, _ := c.Repo().Schedule().SetFor(1).Validator(1)
	assert.True(t, cry.Verify(pub.PubKey, msg, ev.Signature.Sig))

	// signing the same candidate again is allowed
	_, err = signer.Sign(req)
	assert.NoError(t, err)

	// another candidate in the same round is not
	_, err = signer.Sign(newRequest(t, c, 0, headTime+2))
	assert.ErrorIs(t, err, ErrConflictingCandidate)

	// but is in the next round
	_, err = signer.Sign(newRequest(t, c, 1, headTime+2))
	assert.NoError(t, err)
}

func TestSignRefused(t *testing.T) {
	c, err := testchain.New(3)
	require.NoError(t, err)
	defer c.Close()

	signer := NewSigner(NewImporter(c.Repo(), c.Stater()), c.Key(0))
	headTime := c.Repo().Head().Header().Time()

	_, err = signer.Sign(&comm.SignRequest{})
	assert.Error(t, err)

	req := newRequest(t, c, 0, headTime+1)
	req.Leader = datagen.RandomAddress()
	_, err = signer.Sign(req)
	assert.ErrorIs(t, err, ErrNotLeader)

	outsider, _ := cry.GenerateKey()
	_, err = NewSigner(NewImporter(c.Repo(), c.Stater()), outsider).Sign(newRequest(t, c, 0, headTime+1))
	assert.ErrorIs(t, err, ErrNotValidator)

	// stale candidate
	stale := newRequest(t, c, 0, headTime+1)
	require.NoError(t, c.MintBlocks(1))
	_, err = signer.Sign(stale)
	assert.ErrorIs(t, err, ErrNotExtendingHead)

	// bad state root
	head := c.Repo().Head()
	set := c.Repo().Schedule().SetFor(2)
	leader, _ := set.Validator(set.LeaderFor(2, head.Header().ID()))
	forged := new(block.Builder).
		Height(2).
		ParentHash(head.Header().ID()).
		StateRoot(datagen.RandomHash()).
		Time(head.Header().Time() + 1).
		Build()
	_, err = signer.Sign(&comm.SignRequest{Leader: leader.Address, Block: forged})
	assert.ErrorIs(t, err, ErrStateRootMismatch)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/runtime"
	"github.com/mapprotocol/ori/state"
	"github.com/pkg/errors"
)

// Packer to pack txs and build new blocks.
type Packer struct {
	repo     *chain.Repository
	stater   *state.Stater
	proposer ori.Address
	maxTxs   int
}

// New create a new Packer instance.
func New(repo *chain.Repository, stater *state.Stater, proposer ori.Address) *Packer {
	return &Packer{
		repo:     repo,
		stater:   stater,
		proposer: proposer,
		maxTxs:   ori.MaxTxsPerBlock,
	}
}

// SetMaxTxs sets the max count of txs per block, capped by ori.MaxTxsPerBlock.
func (p *Packer) SetMaxTxs(n int) {
	if n <= 0 || n > ori.MaxTxsPerBlock {
		n = ori.MaxTxsPerBlock
	}
	p.maxTxs = n
}

// Schedule creates a packing flow on parent if the proposer leads the round.
// The block time is max(now, parent.time+1).
func (p *Packer) Schedule(parent *block.Block, round uint32, nowTimestamp uint64) (*Flow, error) {
	header := parent.Header()
	height := header.Height() + 1

	set := p.repo.Schedule().SetFor(height)
	index, ok := set.IsMember(p.proposer)
	if !ok {
		return nil, errors.WithMessagef(errNotLeader, "%v not in validator set", p.proposer)
	}
	if leader := set.LeaderForRound(height, header.ID(), round); leader != index {
		return nil, errors.WithMessagef(errNotLeader, "round %d led by #%d", round, leader)
	}

	st, err := p.stater.NewState(header.StateRoot())
	if err != nil {
		return nil, errors.Wrap(err, "state")
	}
	when := max(nowTimestamp, header.Time()+1)
	return newFlow(p, parent, round, runtime.New(st, height, when)), nil
}

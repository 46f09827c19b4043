// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/pos"
	"github.com/mapprotocol/ori/state"
	"github.com/pkg/errors"
)

// Genesis to build genesis block.
type Genesis struct {
	builder   *Builder
	id        ori.Bytes32
	name      string
	schedule  *pos.Schedule
	consensus ConsensusConfig
}

// NewGenesis creates the genesis of a network described by cfg.
func NewGenesis(name string, cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	epochs := make([]pos.Epoch, 0, len(cfg.Epochs))
	for _, e := range cfg.Epochs {
		validators := make([]pos.Validator, 0, len(e.Validators))
		for i, v := range e.Validators {
			val, err := pos.NewValidator(v.PubKey, v.Weight)
			if err != nil {
				return nil, errors.WithMessagef(err, "epoch from %d: validator #%d", e.From, i)
			}
			if !v.Address.IsZero() && v.Address != val.Address {
				return nil, fmt.Errorf("epoch from %d: validator #%d: public key does not match address %v", e.From, i, v.Address)
			}
			validators = append(validators, val)
		}
		epochs = append(epochs, pos.Epoch{From: e.From, Validators: validators})
	}
	schedule, err := pos.NewSchedule(epochs)
	if err != nil {
		return nil, err
	}

	alloc := make([]Allocation, len(cfg.Alloc))
	copy(alloc, cfg.Alloc)
	builder := new(Builder).
		Timestamp(cfg.LaunchTime).
		State(func(st *state.State) error {
			for _, a := range alloc {
				balance, overflow := uint256.FromBig((*big.Int)(a.Balance))
				if overflow {
					return fmt.Errorf("%v: balance too large", a.Address)
				}
				st.SetBalance(a.Address, balance)
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{
		builder:   builder,
		id:        id,
		name:      name,
		schedule:  schedule,
		consensus: cfg.Consensus,
	}, nil
}

// Build build the genesis block.
func (g *Genesis) Build(stater *state.Stater) (*block.Block, error) {
	blk, err := g.builder.Build(stater)
	if err != nil {
		return nil, err
	}
	if blk.Header().ID() != g.id {
		panic("built genesis ID incorrect")
	}
	return blk, nil
}

// ID returns genesis block ID.
func (g *Genesis) ID() ori.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Schedule returns the validator schedule of the network.
func (g *Genesis) Schedule() *pos.Schedule {
	return g.schedule
}

// Consensus returns the consensus timings of the network.
func (g *Genesis) Consensus() ConsensusConfig {
	return g.consensus
}

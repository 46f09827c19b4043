// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/lvldb"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/state"
	"github.com/pkg/errors"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (ori.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return ori.Bytes32{}, err
	}
	defer db.Close()

	blk, err := b.Build(state.NewStater(db))
	if err != nil {
		return ori.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// Build build genesis block according to presets.
// The genesis block has height 0, zero parent hash, no transactions and an empty certificate.
func (b *Builder) Build(stater *state.Stater) (*block.Block, error) {
	st, err := stater.NewState(state.EmptyRoot)
	if err != nil {
		return nil, err
	}

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, errors.Wrap(err, "stage state")
	}
	stateRoot, err := stage.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}

	return new(block.Builder).
		Height(0).
		ParentHash(ori.Bytes32{}).
		Time(b.timestamp).
		StateRoot(stateRoot).
		Build(), nil
}

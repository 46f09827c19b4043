// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/runtime"
	"github.com/mapprotocol/ori/state"
	"github.com/pkg/errors"
)

// Importer re-executes blocks produced by other leaders and appends them to the chain.
type Importer struct {
	repo   *chain.Repository
	stater *state.Stater
}

// NewImporter creates a new Importer instance.
func NewImporter(repo *chain.Repository, stater *state.Stater) *Importer {
	return &Importer{repo, stater}
}

// Verify checks the block against its parent and re-executes its txs.
// The resulting state is returned uncommitted.
func (im *Importer) Verify(blk *block.Block) (*state.Stage, error) {
	header := blk.Header()
	parent, err := im.repo.GetByHash(header.ParentHash())
	if err != nil {
		if chain.IsNotFound(err) {
			return nil, errors.WithMessagef(chain.ErrOrphanBlock, "parent %v", header.ParentHash())
		}
		return nil, err
	}
	if err := chain.ValidateHeader(blk, parent.Header()); err != nil {
		return nil, err
	}

	st, err := im.stater.NewState(parent.Header().StateRoot())
	if err != nil {
		return nil, err
	}
	if err := runtime.New(st, header.Height(), header.Time()).ExecuteTransactions(blk.Transactions()); err != nil {
		return nil, errors.WithMessage(chain.ErrMalformedBlock, err.Error())
	}
	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}
	if stage.Hash() != header.StateRoot() {
		return nil, errors.WithMessagef(ErrStateRootMismatch, "want %v, got %v", header.StateRoot(), stage.Hash())
	}
	return stage, nil
}

// Import verifies the certified block, commits its state and inserts it.
func (im *Importer) Import(blk *block.Block) error {
	header := blk.Header()
	if _, err := im.repo.GetByHash(header.ID()); err == nil {
		return ErrKnownBlock
	} else if !chain.IsNotFound(err) {
		return err
	}

	stage, err := im.Verify(blk)
	if err != nil {
		return err
	}
	if err := chain.ValidateCertificate(blk, im.repo.Schedule().SetFor(header.Height())); err != nil {
		return err
	}
	if _, err := stage.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	return im.repo.Insert(blk)
}

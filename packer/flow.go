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
	"github.com/mapprotocol/ori/tx"
	"github.com/pkg/errors"
)

// Flow the flow of packing a new block.
type Flow struct {
	packer       *Packer
	parent       *block.Block
	round        uint32
	runtime      *runtime.Runtime
	processedTxs map[ori.Bytes32]struct{}
	txs          tx.Transactions
}

func newFlow(packer *Packer, parent *block.Block, round uint32, rt *runtime.Runtime) *Flow {
	return &Flow{
		packer:       packer,
		parent:       parent,
		round:        round,
		runtime:      rt,
		processedTxs: make(map[ori.Bytes32]struct{}),
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parent.Header()
}

// Height returns the height of the block being packed.
func (f *Flow) Height() uint64 {
	return f.runtime.Height()
}

// Round returns the round the flow is scheduled for.
func (f *Flow) Round() uint32 {
	return f.round
}

// When the target time to do packing.
func (f *Flow) When() uint64 {
	return f.runtime.Time()
}

// Txs returns count of adopted txs.
func (f *Flow) Txs() int {
	return len(f.txs)
}

func (f *Flow) findTx(txID ori.Bytes32) (bool, error) {
	if _, ok := f.processedTxs[txID]; ok {
		return true, nil
	}
	if _, err := f.packer.repo.GetTransactionMeta(txID); err != nil {
		if chain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Adopt try to execute the given transaction.
// If the tx is valid and can be executed on current state, it will be adopted by the new block.
func (f *Flow) Adopt(trx *tx.Transaction) error {
	if len(f.txs) >= f.packer.maxTxs {
		return errBlockFull
	}

	// check if tx already there
	if found, err := f.findTx(trx.ID()); err != nil {
		return err
	} else if found {
		return errKnownTx
	}

	if err := f.runtime.ExecuteTransaction(trx); err != nil {
		var nonceErr *runtime.NonceError
		if errors.As(err, &nonceErr) && nonceErr.Ahead() {
			metricTxDeferred().Add(1)
			return errTxNotAdoptableNow
		}
		return badTxError{err.Error()}
	}
	f.processedTxs[trx.ID()] = struct{}{}
	f.txs = append(f.txs, trx)
	metricTxAdopted().Add(1)
	return nil
}

// Pack builds the candidate block. The certificate is attached after signatures are collected.
func (f *Flow) Pack() (*block.Block, *state.Stage, error) {
	stage, err := f.runtime.State().Stage()
	if err != nil {
		return nil, nil, err
	}

	builder := new(block.Builder).
		Height(f.Height()).
		ParentHash(f.parent.Header().ID()).
		Time(f.When()).
		StateRoot(stage.Hash())
	for _, trx := range f.txs {
		builder.Transaction(trx)
	}
	return builder.Build(), stage, nil
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes transactions on account state.
package runtime

import (
	"fmt"

	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/tx"
)

// NonceError is returned when the tx nonce is not the next nonce of its sender.
type NonceError struct {
	Expected uint64
	Got      uint64
}

func (e *NonceError) Error() string {
	return fmt.Sprintf("nonce mismatch: expected %d, got %d", e.Expected, e.Got)
}

// Ahead returns whether the tx may become executable later.
func (e *NonceError) Ahead() bool {
	return e.Got > e.Expected
}

// Runtime executes transactions on top of a state, in the context of a block.
type Runtime struct {
	state  *state.State
	height uint64
	time   uint64
}

// New creates a runtime object.
func New(state *state.State, height, time uint64) *Runtime {
	return &Runtime{state, height, time}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Height() uint64      { return rt.height }
func (rt *Runtime) Time() uint64        { return rt.time }

// ExecuteTransaction executes a transaction.
// The state is left untouched if an error is returned.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) error {
	resolved, err := ResolveTransaction(trx)
	if err != nil {
		return err
	}
	if err := resolved.CheckNonce(rt.state); err != nil {
		return err
	}

	checkpoint := rt.state.NewCheckpoint()
	if err := rt.state.Transfer(resolved.Origin, trx.To(), trx.Value()); err != nil {
		rt.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

// ExecuteTransactions executes txs in order, stopping at the first failure.
func (rt *Runtime) ExecuteTransactions(txs tx.Transactions) error {
	for i, trx := range txs {
		if err := rt.ExecuteTransaction(trx); err != nil {
			return fmt.Errorf("tx #%d %v: %w", i, trx.ID(), err)
		}
	}
	return nil
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/tx"
	"github.com/pkg/errors"
)

// ResolvedTransaction is a transaction whose signer has been recovered and checked.
type ResolvedTransaction struct {
	tx     *tx.Transaction
	Origin ori.Address
}

// ResolveTransaction resolves the transaction and performs basic validation.
func ResolveTransaction(trx *tx.Transaction) (*ResolvedTransaction, error) {
	if err := trx.ValidateSignature(); err != nil {
		return nil, errors.WithMessage(err, "resolve tx")
	}
	return &ResolvedTransaction{trx, trx.From()}, nil
}

// CheckNonce checks the tx nonce against the origin's account.
func (r *ResolvedTransaction) CheckNonce(st *state.State) error {
	expected := st.GetNonce(r.Origin) + 1
	if got := r.tx.Nonce(); got != expected {
		return &NonceError{Expected: expected, Got: got}
	}
	return nil
}

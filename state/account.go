// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/ori"
)

// Account is the state of an account.
type Account struct {
	Balance *uint256.Int
	Nonce   uint64
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and zero nonce, and is not persisted.
func (a *Account) IsEmpty() bool {
	return (a.Balance == nil || a.Balance.IsZero()) && a.Nonce == 0
}

func (a Account) copy() Account {
	if a.Balance == nil {
		a.Balance = new(uint256.Int)
	} else {
		a.Balance = new(uint256.Int).Set(a.Balance)
	}
	return a
}

// accountEntry is the persisted form of an account.
type accountEntry struct {
	Address ori.Address
	Balance *uint256.Int
	Nonce   uint64
}

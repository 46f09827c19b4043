// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// InsufficientBalanceError is returned when a transfer exceeds the sender's balance.
type InsufficientBalanceError struct {
	Address ori.Address
	Balance *uint256.Int
	Value   *uint256.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance of %v: have %v, want %v", e.Address, e.Balance, e.Value)
}

// State manages the account states on top of a persisted snapshot.
type State struct {
	stater *Stater
	root   ori.Bytes32
	base   map[ori.Address]Account // the snapshot, read-only
	sm     *stackedmap.StackedMap[ori.Address, Account]
}

func newState(stater *Stater, root ori.Bytes32, base map[ori.Address]Account) *State {
	s := &State{
		stater: stater,
		root:   root,
		base:   base,
	}
	s.sm = stackedmap.New(func(addr ori.Address) (Account, bool, error) {
		acc, ok := s.base[addr]
		return acc, ok, nil
	})
	return s
}

// BaseRoot returns the root of the snapshot the state is built on.
func (s *State) BaseRoot() ori.Bytes32 {
	return s.root
}

func (s *State) getAccount(addr ori.Address) Account {
	acc, _, _ := s.sm.Get(addr)
	return acc.copy()
}

// GetAccount returns a copy of the account. Absent accounts are returned empty.
func (s *State) GetAccount(addr ori.Address) Account {
	return s.getAccount(addr)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr ori.Address) *uint256.Int {
	return s.getAccount(addr).Balance
}

// SetBalance sets balance for the given address.
func (s *State) SetBalance(addr ori.Address, balance *uint256.Int) {
	acc := s.getAccount(addr)
	acc.Balance.Set(balance)
	s.sm.Put(addr, acc)
}

// GetNonce returns the nonce of the last executed transaction sent by addr.
func (s *State) GetNonce(addr ori.Address) uint64 {
	return s.getAccount(addr).Nonce
}

// SetNonce sets the account nonce.
func (s *State) SetNonce(addr ori.Address, nonce uint64) {
	acc := s.getAccount(addr)
	acc.Nonce = nonce
	s.sm.Put(addr, acc)
}

// Transfer moves value from one account to another and bumps the sender nonce.
// The state is left untouched on error.
func (s *State) Transfer(from, to ori.Address, value *uint256.Int) error {
	sender := s.getAccount(from)
	if sender.Balance.Lt(value) {
		return &InsufficientBalanceError{from, sender.Balance, new(uint256.Int).Set(value)}
	}
	if from == to {
		sender.Nonce++
		s.sm.Put(from, sender)
		return nil
	}

	recipient := s.getAccount(to)
	if _, overflow := new(uint256.Int).AddOverflow(recipient.Balance, value); overflow {
		return &Error{fmt.Errorf("balance overflow of %v", to)}
	}
	sender.Balance.Sub(sender.Balance, value)
	sender.Nonce++
	recipient.Balance.Add(recipient.Balance, value)

	s.sm.Put(from, sender)
	s.sm.Put(to, recipient)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// accounts merges the snapshot with all changes.
func (s *State) accounts() []accountEntry {
	merged := make(map[ori.Address]Account, len(s.base))
	for addr, acc := range s.base {
		merged[addr] = acc
	}
	s.sm.Journal(func(addr ori.Address, acc Account) bool {
		merged[addr] = acc
		return true
	})

	entries := make([]accountEntry, 0, len(merged))
	for addr, acc := range merged {
		if acc.IsEmpty() {
			continue
		}
		entries = append(entries, accountEntry{addr, acc.Balance, acc.Nonce})
	}
	slices.SortFunc(entries, func(a, b accountEntry) int {
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	return entries
}

// Stage makes a stage object to compute the root or commit the changes.
func (s *State) Stage() (*Stage, error) {
	return newStage(s.stater, s.accounts())
}

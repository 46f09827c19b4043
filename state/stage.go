// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mapprotocol/ori/ori"
)

// Stage holds the encoded snapshot of a state, ready to be committed.
type Stage struct {
	stater *Stater
	root   ori.Bytes32
	data   []byte
}

func newStage(stater *Stater, entries []accountEntry) (*Stage, error) {
	data, err := rlp.EncodeToBytes(entries)
	if err != nil {
		return nil, &Error{err}
	}
	return &Stage{
		stater: stater,
		root:   ori.Blake2b(data),
		data:   data,
	}, nil
}

// Hash computes the state root.
func (s *Stage) Hash() ori.Bytes32 {
	return s.root
}

// Commit persists the snapshot and returns the state root.
func (s *Stage) Commit() (ori.Bytes32, error) {
	if err := s.stater.save(s.root, s.data); err != nil {
		return ori.Bytes32{}, err
	}
	return s.root, nil
}

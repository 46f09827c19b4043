// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mapprotocol/ori/kv"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
	"github.com/qianbin/directcache"
)

const (
	snapshotStoreName = kv.Bucket("s.")
	defaultCacheSize  = 16 * 1024 * 1024
)

// EmptyRoot is the root of the state without any account.
var EmptyRoot = ori.Blake2b(rlp.EmptyList)

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *directcache.Cache
}

// NewStater creates a new stater on the store.
func NewStater(db kv.Store) *Stater {
	return &Stater{
		store: snapshotStoreName.NewStore(db),
		cache: directcache.New(defaultCacheSize),
	}
}

// NewState creates the state identified by root.
func (s *Stater) NewState(root ori.Bytes32) (*State, error) {
	base := make(map[ori.Address]Account)
	if root == EmptyRoot {
		return newState(s, root, base), nil
	}

	data, err := s.load(root)
	if err != nil {
		return nil, err
	}
	var entries []accountEntry
	if err := rlp.DecodeBytes(data, &entries); err != nil {
		return nil, &Error{errors.Wrap(err, "decode snapshot")}
	}
	for _, e := range entries {
		base[e.Address] = Account{Balance: e.Balance, Nonce: e.Nonce}
	}
	return newState(s, root, base), nil
}

// Has returns whether the snapshot of root exists.
func (s *Stater) Has(root ori.Bytes32) (bool, error) {
	if root == EmptyRoot {
		return true, nil
	}
	if s.cache.AdvGet(root[:], func([]byte) {}, true) {
		return true, nil
	}
	return s.store.Has(root[:])
}

func (s *Stater) load(root ori.Bytes32) ([]byte, error) {
	var data []byte
	if s.cache.AdvGet(root[:], func(val []byte) {
		data = slices.Clone(val)
	}, false) {
		metricSnapshotCache().AddWithLabel(1, map[string]string{"result": "hit"})
		return data, nil
	}
	metricSnapshotCache().AddWithLabel(1, map[string]string{"result": "miss"})

	data, err := s.store.Get(root[:])
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, &Error{errors.Errorf("missing snapshot %v", root)}
		}
		return nil, &Error{err}
	}
	s.cache.Set(root[:], data)
	return data, nil
}

func (s *Stater) save(root ori.Bytes32, data []byte) error {
	if root == EmptyRoot {
		return nil
	}
	if err := s.store.Put(root[:], data); err != nil {
		return &Error{err}
	}
	s.cache.Set(root[:], data)
	return nil
}

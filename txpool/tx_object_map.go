// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"cmp"
	"slices"
	"sync"

	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

// txObjectMap maintains tx objects by id and by origin.
type txObjectMap struct {
	lock     sync.RWMutex
	mapByID  map[ori.Bytes32]*txObject
	byOrigin map[ori.Address]map[uint64]*txObject // origin => nonce => tx
}

func newTxObjectMap() *txObjectMap {
	return &txObjectMap{
		mapByID:  make(map[ori.Bytes32]*txObject),
		byOrigin: make(map[ori.Address]map[uint64]*txObject),
	}
}

func (m *txObjectMap) ContainsID(id ori.Bytes32) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, found := m.mapByID[id]
	return found
}

// Add adds the tx object. A tx with the same origin and nonce is rejected.
func (m *txObjectMap) Add(txObj *txObject, limitPerAccount int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := txObj.ID()
	if _, found := m.mapByID[id]; found {
		return errKnownTx
	}
	byNonce := m.byOrigin[txObj.Origin()]
	if byNonce == nil {
		byNonce = make(map[uint64]*txObject)
		m.byOrigin[txObj.Origin()] = byNonce
	}
	if _, found := byNonce[txObj.Nonce()]; found {
		return errors.New("nonce already pending")
	}
	if limitPerAccount > 0 && len(byNonce) >= limitPerAccount {
		return errors.New("account quota exceeded")
	}

	byNonce[txObj.Nonce()] = txObj
	m.mapByID[id] = txObj
	return nil
}

// NextNonce returns the first nonce after `after` with no pending tx of the origin.
func (m *txObjectMap) NextNonce(origin ori.Address, after uint64) uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	next := after + 1
	byNonce := m.byOrigin[origin]
	for byNonce[next] != nil {
		next++
	}
	return next
}

func (m *txObjectMap) GetByID(id ori.Bytes32) *txObject {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.mapByID[id]
}

func (m *txObjectMap) RemoveByID(id ori.Bytes32) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	txObj, ok := m.mapByID[id]
	if !ok {
		return false
	}
	delete(m.mapByID, id)
	if byNonce := m.byOrigin[txObj.Origin()]; byNonce != nil {
		delete(byNonce, txObj.Nonce())
		if len(byNonce) == 0 {
			delete(m.byOrigin, txObj.Origin())
		}
	}
	return true
}

// ToTxObjects returns all tx objects, ordered by the time added.
func (m *txObjectMap) ToTxObjects() []*txObject {
	m.lock.RLock()
	defer m.lock.RUnlock()

	txObjs := make([]*txObject, 0, len(m.mapByID))
	for _, txObj := range m.mapByID {
		txObjs = append(txObjs, txObj)
	}
	slices.SortFunc(txObjs, func(a, b *txObject) int {
		return cmp.Compare(a.timeAdded, b.timeAdded)
	})
	return txObjs
}

// Pending returns the tx objects of every origin, sorted by nonce.
func (m *txObjectMap) Pending() map[ori.Address][]*txObject {
	m.lock.RLock()
	defer m.lock.RUnlock()

	pending := make(map[ori.Address][]*txObject, len(m.byOrigin))
	for origin, byNonce := range m.byOrigin {
		list := make([]*txObject, 0, len(byNonce))
		for _, txObj := range byNonce {
			list = append(list, txObj)
		}
		slices.SortFunc(list, func(a, b *txObject) int {
			return cmp.Compare(a.Nonce(), b.Nonce())
		})
		pending[origin] = list
	}
	return pending
}

func (m *txObjectMap) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.mapByID)
}

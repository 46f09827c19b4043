// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/lvldb"
	"github.com/mapprotocol/ori/ori"
	"github.com/qianbin/directcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStater(t *testing.T) *Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db)
}

func TestStateReadWrite(t *testing.T) {
	stater := newStater(t)
	st, err := stater.NewState(EmptyRoot)
	require.NoError(t, err)

	addr := ori.BytesToAddress([]byte("addr"))
	assert.True(t, st.GetBalance(addr).IsZero())
	assert.Equal(t, uint64(0), st.GetNonce(addr))

	st.SetBalance(addr, uint256.NewInt(10))
	st.SetNonce(addr, 3)
	assert.Equal(t, uint256.NewInt(10), st.GetBalance(addr))
	assert.Equal(t, uint64(3), st.GetNonce(addr))

	// returned balance is a copy
	st.GetBalance(addr).SetUint64(99)
	assert.Equal(t, uint256.NewInt(10), st.GetBalance(addr))
}

func TestTransfer(t *testing.T) {
	stater := newStater(t)
	st, _ := stater.NewState(EmptyRoot)

	a := ori.BytesToAddress([]byte("a"))
	b := ori.BytesToAddress([]byte("b"))
	st.SetBalance(a, uint256.NewInt(100))

	require.NoError(t, st.Transfer(a, b, uint256.NewInt(30)))
	assert.Equal(t, uint256.NewInt(70), st.GetBalance(a))
	assert.Equal(t, uint256.NewInt(30), st.GetBalance(b))
	assert.Equal(t, uint64(1), st.GetNonce(a))
	assert.Equal(t, uint64(0), st.GetNonce(b))

	err := st.Transfer(a, b, uint256.NewInt(71))
	var insufficient *InsufficientBalanceError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint256.NewInt(70), st.GetBalance(a))
	assert.Equal(t, uint64(1), st.GetNonce(a))

	// self transfer only bumps nonce
	require.NoError(t, st.Transfer(b, b, uint256.NewInt(30)))
	assert.Equal(t, uint256.NewInt(30), st.GetBalance(b))
	assert.Equal(t, uint64(1), st.GetNonce(b))
}

func TestCheckpoint(t *testing.T) {
	stater := newStater(t)
	st, _ := stater.NewState(EmptyRoot)
	a := ori.BytesToAddress([]byte("a"))

	st.SetBalance(a, uint256.NewInt(1))
	rev := st.NewCheckpoint()
	st.SetBalance(a, uint256.NewInt(2))
	st.NewCheckpoint()
	st.SetNonce(a, 5)

	st.RevertTo(rev)
	assert.Equal(t, uint256.NewInt(1), st.GetBalance(a))
	assert.Equal(t, uint64(0), st.GetNonce(a))

	st.RevertTo(0)
	assert.True(t, st.GetBalance(a).IsZero())
	// still writable after a full revert
	st.SetNonce(a, 1)
	assert.Equal(t, uint64(1), st.GetNonce(a))
}

func TestStageCommit(t *testing.T) {
	stater := newStater(t)
	st, _ := stater.NewState(EmptyRoot)

	empty, err := st.Stage()
	require.NoError(t, err)
	assert.Equal(t, EmptyRoot, empty.Hash())

	a := ori.BytesToAddress([]byte("a"))
	b := ori.BytesToAddress([]byte("b"))
	st.SetBalance(b, uint256.NewInt(2))
	st.SetBalance(a, uint256.NewInt(1))

	stage, err := st.Stage()
	require.NoError(t, err)
	root := stage.Hash()
	assert.NotEqual(t, EmptyRoot, root)

	ok, err := stater.Has(root)
	require.NoError(t, err)
	assert.False(t, ok)

	committed, err := stage.Commit()
	require.NoError(t, err)
	assert.Equal(t, root, committed)

	// order of writes does not affect the root
	st2, _ := stater.NewState(EmptyRoot)
	st2.SetBalance(a, uint256.NewInt(1))
	st2.SetBalance(b, uint256.NewInt(2))
	stage2, _ := st2.Stage()
	assert.Equal(t, root, stage2.Hash())

	// empty accounts are not part of the root
	st2.SetNonce(ori.BytesToAddress([]byte("c")), 0)
	stage2, _ = st2.Stage()
	assert.Equal(t, root, stage2.Hash())

	loaded, err := stater.NewState(root)
	require.NoError(t, err)
	assert.Equal(t, root, loaded.BaseRoot())
	assert.Equal(t, uint256.NewInt(1), loaded.GetBalance(a))
	assert.Equal(t, uint256.NewInt(2), loaded.GetBalance(b))

	// reload bypassing cache
	fresh := &Stater{store: stater.store, cache: directcache.New(1024 * 1024)}
	loaded, err = fresh.NewState(root)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(2), loaded.GetBalance(b))
}

func TestMissingSnapshot(t *testing.T) {
	stater := newStater(t)
	_, err := stater.NewState(ori.Blake2b([]byte("nope")))
	var stateErr *Error
	assert.ErrorAs(t, err, &stateErr)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	persistent, err := New(filepath.Join(t.TempDir(), "main.db"), Options{CacheSize: 16, OpenFilesCacheCapacity: 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put([]byte("123"), []byte("456")))

		v, err := db.Get([]byte("123"))
		require.NoError(t, err)
		assert.Equal(t, []byte("456"), v)

		has, err := db.Has([]byte("abc"))
		require.NoError(t, err)
		assert.False(t, has)

		_, err = db.Get([]byte("abc"))
		assert.True(t, db.IsNotFound(err))

		require.NoError(t, db.Delete([]byte("123")))
		_, err = db.Get([]byte("123"))
		assert.True(t, db.IsNotFound(err))
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, bulk.Put([]byte("k2"), []byte("v2")))
	require.NoError(t, bulk.Delete([]byte("k2")))
	require.NoError(t, bulk.Write())
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	v, err := db.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	has, err := db.Has([]byte("k2"))
	require.NoError(t, err)
	assert.False(t, has)
}

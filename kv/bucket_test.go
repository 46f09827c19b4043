// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/mapprotocol/ori/kv"
	"github.com/mapprotocol/ori/lvldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b1 := kv.Bucket("a").NewStore(db)
	b2 := kv.Bucket("b").NewStore(db)

	require.NoError(t, b1.Put([]byte("k"), []byte("v1")))
	require.NoError(t, b2.Put([]byte("k"), []byte("v2")))

	v, err := b1.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	v, err = db.Get([]byte("bk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	has, err := b1.Has([]byte("x"))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = b1.Get([]byte("x"))
	assert.True(t, b1.IsNotFound(err))

	require.NoError(t, b1.Delete([]byte("k")))
	_, err = b1.Get([]byte("k"))
	assert.True(t, b1.IsNotFound(err))
}

func TestBucketBulkAndIterate(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	b1 := kv.Bucket("a").NewBulk(bulk)
	b2 := kv.Bucket("b").NewBulk(bulk)
	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, b1.Put([]byte(k), []byte("a"+k)))
		require.NoError(t, b2.Put([]byte(k), []byte("b"+k)))
	}

	store := kv.Bucket("a").NewStore(db)
	has, err := store.Has([]byte("1"))
	require.NoError(t, err)
	assert.False(t, has, "nothing visible before write")

	snap := store.Snapshot()
	defer snap.Release()

	require.NoError(t, bulk.Write())

	has, err = snap.Has([]byte("1"))
	require.NoError(t, err)
	assert.False(t, has, "snapshot keeps the old view")

	iter := store.Iterate(kv.Range{})
	var keys, vals []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		vals = append(vals, string(iter.Value()))
	}
	iter.Release()
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)
	assert.Equal(t, []string{"a1", "a2", "a3"}, vals)

	iter = store.Iterate(kv.Range{Start: []byte("2"), Limit: []byte("3")})
	keys = nil
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	iter.Release()
	assert.Equal(t, []string{"2"}, keys)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/mapprotocol/ori/stackedmap"
	"github.com/stretchr/testify/assert"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 2, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 2, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("bar", true, nil)},
		{func() {}, 1, "", "", "none", M("", false, nil)},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(1) }, 1, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapJournal(t *testing.T) {
	sm := stackedmap.New(func(string) (int, bool, error) { return 0, false, nil })

	sm.Put("a", 1)
	rev := sm.Push()
	sm.Put("a", 2)
	sm.Put("b", 3)

	var keys []string
	var values []int
	sm.Journal(func(k string, v int) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	assert.Equal(t, []string{"a", "a", "b"}, keys)
	assert.Equal(t, []int{1, 2, 3}, values)

	sm.PopTo(rev)
	keys = nil
	sm.Journal(func(k string, _ int) bool {
		keys = append(keys, k)
		return false
	})
	assert.Equal(t, []string{"a"}, keys)

	v, ok, _ := sm.Get("b")
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestStackedMapSourceError(t *testing.T) {
	errSrc := errors.New("boom")
	sm := stackedmap.New(func(string) (int, bool, error) { return 0, false, errSrc })

	_, _, err := sm.Get("x")
	assert.Equal(t, errSrc, err)

	sm.Put("x", 1)
	v, ok, err := sm.Get("x")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"testing"

	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/test/testchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRevision(t *testing.T) {
	hash := "0x" + "00000000000000000000000000000000000000000000000000000000000000ff"
	tests := []struct {
		revision string
		want     any
		wantErr  bool
	}{
		{"", revBest{}, false},
		{"best", revBest{}, false},
		{"12", uint64(12), false},
		{"0x10", uint64(16), false},
		{hash, nil, false},
		{"abc", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.revision, func(t *testing.T) {
			rev, err := ParseRevision(tt.revision)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, rev.val)
			}
		})
	}
}

func TestGetBlock(t *testing.T) {
	c, err := testchain.New(1)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.MintBlocks(2))

	repo := c.Repo()
	blk1, err := repo.GetByHeight(1)
	require.NoError(t, err)

	for _, revision := range []string{"1", blk1.Header().ID().String()} {
		rev, err := ParseRevision(revision)
		require.NoError(t, err)
		blk, err := GetBlock(rev, repo)
		require.NoError(t, err)
		assert.Equal(t, blk1.Header().ID(), blk.Header().ID())
	}

	rev, _ := ParseRevision("best")
	blk, err := GetBlock(rev, repo)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), blk.Header().Height())

	rev, _ = ParseRevision("3")
	_, err = GetBlock(rev, repo)
	assert.True(t, chain.IsNotFound(err))
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapprotocol/ori/test/testchain"
)

func TestHealth(t *testing.T) {
	c, err := testchain.New(1)
	require.NoError(t, err)
	defer c.Close()

	h := New(50 * time.Millisecond)
	assert.False(t, h.Status().Healthy, "no head yet")
	assert.Nil(t, h.Status().Head)

	require.NoError(t, c.MintBlocks(1))
	h.NewHead(c.Repo().Head())

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.Equal(t, c.Repo().Head().Header().ID(), status.Head.Hash)
	assert.Equal(t, uint64(1), status.Head.Height)

	assert.Eventually(t, func() bool {
		return !h.Status().Healthy
	}, time.Second, 10*time.Millisecond)
}

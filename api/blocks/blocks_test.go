// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mapprotocol/ori/api/blocks"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/test/datagen"
	"github.com/mapprotocol/ori/test/testchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initBlockServer(t *testing.T) (*testchain.Chain, *block.Block, *httptest.Server) {
	c, err := testchain.New(1)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	trx, err := c.Transfer(0, datagen.RandomAddress(), 10)
	require.NoError(t, err)
	blk, err := c.MintBlock(trx)
	require.NoError(t, err)

	router := mux.NewRouter()
	blocks.New(c.Repo()).Mount(router, "/blocks")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return c, blk, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestGetBlock(t *testing.T) {
	_, blk, ts := initBlockServer(t)
	expected := blocks.ConvertBlock(blk)

	for _, revision := range []string{"1", "best", blk.Header().ID().String()} {
		body, status := httpGet(t, ts.URL+"/blocks/"+revision)
		assert.Equal(t, http.StatusOK, status)

		var got blocks.Block
		require.NoError(t, json.Unmarshal(body, &got), revision)
		assert.Equal(t, expected.Hash, got.Hash)
		assert.Equal(t, *expected.Header, *got.Header)
		require.Len(t, got.Signs, 1)
		assert.Equal(t, blk.Header().SigningHash(), got.Signs[0].Msg)
		require.Len(t, got.Txs, 1)
		assert.Equal(t, blk.Transactions()[0].ID(), got.Txs[0].Hash)
	}
}

func TestGetBlockJSONFields(t *testing.T) {
	_, _, ts := initBlockServer(t)

	body, _ := httpGet(t, ts.URL+"/blocks/1")
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, field := range []string{"header", "proofs", "signs", "txs"} {
		assert.Contains(t, raw, field)
	}
	var header map[string]any
	require.NoError(t, json.Unmarshal(raw["header"], &header))
	for _, field := range []string{"height", "parent_hash", "sign_root", "state_root", "time", "tx_root"} {
		assert.Contains(t, header, field)
	}
	assert.True(t, strings.HasPrefix(header["parent_hash"].(string), "0x"))
}

func TestGetBlockNotFound(t *testing.T) {
	_, _, ts := initBlockServer(t)

	body, status := httpGet(t, ts.URL+"/blocks/100")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null\n", string(body))

	_, status = httpGet(t, ts.URL+"/blocks/invalid")
	assert.Equal(t, http.StatusBadRequest, status)
}

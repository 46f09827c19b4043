// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapprotocol/ori/health"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/test/testchain"
)

func TestLogLevel(t *testing.T) {
	log.Init(io.Discard, 3, false, false)
	handler := HTTPHandler(health.New(time.Second))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/loglevel", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var response logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, "info", response.CurrentLevel)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/loglevel", bytes.NewBufferString(`{"level":"debug"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, "debug", response.CurrentLevel)
	assert.Equal(t, log.LevelDebug, log.CurrentLevel())
}

func TestLogLevelInvalidInput(t *testing.T) {
	handler := HTTPHandler(health.New(time.Second))

	tests := []struct {
		body string
		msg  string
	}{
		{`{"level":"invalid_body"}`, "Invalid verbosity level"},
		{`{`, "Invalid request body"},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/loglevel", bytes.NewBufferString(tt.body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var response errorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
		assert.Equal(t, tt.msg, response.ErrorMessage)
	}
}

func TestHealth(t *testing.T) {
	c, err := testchain.New(1)
	require.NoError(t, err)
	defer c.Close()

	h := health.New(time.Minute)
	handler := HTTPHandler(h)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	h.NewHead(c.Repo().Head())
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var status health.Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Healthy)
	assert.Equal(t, c.Repo().Head().Header().ID(), status.Head.Hash)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"crypto/ecdsa"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mapprotocol/ori/api/blocks"
	"github.com/mapprotocol/ori/api/jsonrpc"
	"github.com/mapprotocol/ori/api/subscriptions"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/txpool"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
	Accounts       []*ecdsa.PrivateKey // local accounts of map_sendTransaction
}

// New return api router. The json-rpc endpoint is served on POST / and on
// websocket /ws.
func New(
	repo *chain.Repository,
	stater *state.Stater,
	txPool *txpool.TxPool,
	opts Options,
) (http.HandlerFunc, func(), error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(jsonrpc.Namespace, jsonrpc.NewMapAPI(repo, stater, txPool, opts.Accounts...)); err != nil {
		return nil, nil, errors.Wrap(err, "register json-rpc service")
	}

	router := mux.NewRouter()
	router.Path("/").Methods(http.MethodPost).Handler(rpcServer)
	router.Path("/ws").Handler(rpcServer.WebsocketHandler(origins))

	blocks.New(repo).
		Mount(router, "/blocks")
	subs := subscriptions.New(repo, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	logger.Debug("api initialized", "origins", origins, "metrics", opts.EnableMetrics)
	return handler.ServeHTTP, func() {
		subs.Close() // subscriptions handles hijacked conns, which need to be closed
		rpcServer.Stop()
	}, nil
}

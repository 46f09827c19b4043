// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mapprotocol/ori/api/blocks"
	"github.com/mapprotocol/ori/api/utils"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/log"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	// Max blocks to backfill from the requested position.
	backtraceLimit = 1000
)

type Subscriptions struct {
	repo     *chain.Repository
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(repo *chain.Repository, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		repo: repo,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				origin = strings.ToLower(origin)
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// handleSubscribeBlock streams canonical blocks from `pos` (the next block by default).
func (s *Subscriptions) handleSubscribeBlock(w http.ResponseWriter, req *http.Request) error {
	head := s.repo.Head().Header().Height()
	next := head + 1
	if pos := req.URL.Query().Get("pos"); pos != "" {
		n, err := strconv.ParseUint(pos, 0, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "pos"))
		}
		if n > head+1 {
			return utils.BadRequest(errors.New("pos: out of range"))
		}
		if head-min(n, head) > backtraceLimit {
			return utils.BadRequest(errors.New("pos: backtrace limit exceeded"))
		}
		next = n
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(conn, next); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, next uint64) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := s.repo.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		for next <= s.repo.Head().Header().Height() {
			blk, err := s.repo.GetByHeight(next)
			if err != nil {
				return err
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(blocks.ConvertBlock(blk)); err != nil {
				return err
			}
			next++
		}

		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "service shutdown"))
		case <-closed:
			return nil
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-ticker.C():
		}
	}
}

// Close closes all subscriptions and waits for them to exit.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/block").
		Methods(http.MethodGet).
		Name("subscriptions_block").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeBlock))
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Waiter provides channel to wait for.
type Waiter interface {
	C() <-chan struct{}
}

// Signal is a channel based rendezvous point, like sync.Cond, but selectable.
// The zero value is ready to use.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.l.Lock()
	close(s.current())
	s.ch = make(chan struct{})
	s.l.Unlock()
}

// NewWaiter creates a Waiter. Every call of C returns a channel that is closed
// by the next broadcast after the previous one observed by this waiter, so no broadcast
// in between two waits is missed.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.current()
	s.l.Unlock()

	return waiterFunc(func() <-chan struct{} {
		ch := ref

		s.l.Lock()
		ref = s.current()
		s.l.Unlock()

		return ch
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}

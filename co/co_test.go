// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var (
		g Goes
		n atomic.Int32
	)
	for range 10 {
		g.Go(func() { n.Add(1) })
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.GoCtx(ctx, func(ctx context.Context) {
		<-ctx.Done()
		n.Add(1)
	})
	cancel()

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("go routines not done")
	}
	g.Wait()
	assert.Equal(t, int32(11), n.Load())
}

func TestSignal(t *testing.T) {
	var sig Signal

	idle := sig.NewWaiter()
	select {
	case <-idle.C():
		t.Fatal("should block before broadcast")
	default:
	}

	w1 := sig.NewWaiter()
	w2 := sig.NewWaiter()
	sig.Broadcast()

	for _, w := range []Waiter{w1, w2} {
		select {
		case <-w.C():
		case <-time.After(time.Second):
			t.Fatal("broadcast missed")
		}
	}

	// the waiter moved on to the next broadcast
	next := w1.C()
	select {
	case <-next:
		t.Fatal("no new broadcast yet")
	default:
	}
	sig.Broadcast()
	select {
	case <-next:
	case <-time.After(time.Second):
		t.Fatal("broadcast missed")
	}
}

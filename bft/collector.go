// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bft

import (
	"context"
	"sync"
	"time"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/pos"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "bft")

var (
	ErrTimeout          = errors.New("signature collection timed out")
	ErrClosed           = errors.New("collector closed")
	ErrUnknownValidator = errors.New("unknown validator index")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrDuplicate        = errors.New("duplicate signature")
)

// State is the state of a collector.
type State int

const (
	AwaitingSignatures State = iota
	Quorate
	Frozen
	TimedOut
)

func (s State) String() string {
	switch s {
	case AwaitingSignatures:
		return "awaiting"
	case Quorate:
		return "quorate"
	case Frozen:
		return "frozen"
	case TimedOut:
		return "timedout"
	}
	return "unknown"
}

// Collector gathers partial signatures of validators over the signing hash of a candidate.
// Once the signers reach the quorum threshold, the certificate is frozen. If quorum is
// not reached before the timeout, the collector fails. Terminal states are final.
type Collector struct {
	set *pos.ValidatorSet
	msg ori.Bytes32

	lock   sync.Mutex
	state  State
	sigs   []block.Signature
	signed map[uint32]struct{}
	weight uint64
	cert   *block.Certificate
	timer  *time.Timer
	done   chan struct{}
}

// NewCollector creates a collector for the candidate header. The timeout starts at once.
func NewCollector(set *pos.ValidatorSet, header *block.Header, timeout time.Duration) *Collector {
	c := &Collector{
		set:    set,
		msg:    header.SigningHash(),
		signed: make(map[uint32]struct{}),
		done:   make(chan struct{}),
	}
	c.timer = time.AfterFunc(timeout, c.expire)
	return c
}

// Msg returns the binding digest.
func (c *Collector) Msg() ori.Bytes32 {
	return c.msg
}

// State returns the current state.
func (c *Collector) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

// Weight returns the accumulated weight of accepted signatures.
func (c *Collector) Weight() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.weight
}

// Done is closed once the collector reaches a terminal state.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

// Add verifies and accumulates a partial signature. Invalid signatures are dropped.
func (c *Collector) Add(sig block.Signature) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.state != AwaitingSignatures {
		metricSignatures().AddWithLabel(1, map[string]string{"verdict": "late"})
		logger.Debug("late signature dropped", "index", sig.Index, "state", c.state)
		return ErrClosed
	}

	if _, ok := c.signed[sig.Index]; ok {
		metricSignatures().AddWithLabel(1, map[string]string{"verdict": "duplicate"})
		return ErrDuplicate
	}

	v, ok := c.set.Validator(sig.Index)
	if !ok {
		metricSignatures().AddWithLabel(1, map[string]string{"verdict": "invalid"})
		logger.Warn("signature from unknown validator dropped", "index", sig.Index, "msg", c.msg)
		return ErrUnknownValidator
	}
	if !cry.Verify(v.PubKey, c.msg, sig.Sig) {
		metricSignatures().AddWithLabel(1, map[string]string{"verdict": "invalid"})
		logger.Warn("invalid signature dropped", "index", sig.Index, "signer", v.Address, "msg", c.msg)
		return ErrInvalidSignature
	}
	metricSignatures().AddWithLabel(1, map[string]string{"verdict": "accepted"})

	c.signed[sig.Index] = struct{}{}
	c.sigs = append(c.sigs, block.Signature{Index: sig.Index, Sig: append([]byte(nil), sig.Sig...)})
	c.weight += v.Weight

	if c.weight >= c.set.QuorumThreshold() {
		c.state = Quorate
		c.freeze()
	}
	return nil
}

// freeze builds the certificate. Caller holds the lock.
func (c *Collector) freeze() {
	c.timer.Stop()
	c.cert = block.NewCertificate(c.msg, c.sigs)
	c.state = Frozen
	close(c.done)
	logger.Debug("certificate frozen", "msg", c.msg, "signatures", len(c.sigs), "weight", c.weight)
}

func (c *Collector) expire() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.state != AwaitingSignatures {
		return
	}
	c.state = TimedOut
	close(c.done)
	logger.Debug("signature collection timed out", "msg", c.msg, "weight", c.weight, "threshold", c.set.QuorumThreshold())
}

// Stop ends the collection. A collector still awaiting signatures times out.
func (c *Collector) Stop() {
	c.timer.Stop()
	c.expire()
}

// Certificate returns the frozen certificate, or nil if not frozen.
func (c *Collector) Certificate() *block.Certificate {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.cert
}

// Wait blocks until the certificate is frozen, the collector times out or ctx is done.
func (c *Collector) Wait(ctx context.Context) (*block.Certificate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
	}
	if cert := c.Certificate(); cert != nil {
		return cert, nil
	}
	return nil, ErrTimeout
}

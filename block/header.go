// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mapprotocol/ori/ori"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		signingHash atomic.Pointer[ori.Bytes32]
		id          atomic.Pointer[ori.Bytes32]
	}
}

// headerBody body of header
type headerBody struct {
	Height     uint64
	ParentHash ori.Bytes32
	StateRoot  ori.Bytes32
	TxRoot     ori.Bytes32
	SignRoot   ori.Bytes32
	Time       uint64
}

// Height returns sequential number of this block.
func (h *Header) Height() uint64 {
	return h.body.Height
}

// ParentHash returns id of parent block.
func (h *Header) ParentHash() ori.Bytes32 {
	return h.body.ParentHash
}

// StateRoot returns account state root just after this block being applied.
func (h *Header) StateRoot() ori.Bytes32 {
	return h.body.StateRoot
}

// TxRoot returns digest of txs contained in this block.
func (h *Header) TxRoot() ori.Bytes32 {
	return h.body.TxRoot
}

// SignRoot returns digest of the quorum certificate.
func (h *Header) SignRoot() ori.Bytes32 {
	return h.body.SignRoot
}

// Time returns unix timestamp of this block.
func (h *Header) Time() uint64 {
	return h.body.Time
}

// ID computes block_hash, the digest of all header fields.
func (h *Header) ID() (id ori.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return *cached
	}
	defer func() { h.cache.id.Store(&id) }()

	return ori.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &h.body)
	})
}

// SigningHash computes hash of all header fields excluding sign root.
// It's the digest validators sign to certify the block.
func (h *Header) SigningHash() (hash ori.Bytes32) {
	if cached := h.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	defer func() { h.cache.signingHash.Store(&hash) }()

	return ori.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			h.body.Height,
			h.body.ParentHash,
			h.body.StateRoot,
			h.body.TxRoot,
			h.body.Time,
		})
	})
}

// withSignRoot create a new Header object with sign root set.
func (h *Header) withSignRoot(root ori.Bytes32) *Header {
	cpy := Header{body: h.body}
	cpy.body.SignRoot = root
	return &cpy
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody

	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Height:      %v
	ParentHash:  %v
	StateRoot:   %v
	TxRoot:      %v
	SignRoot:    %v
	Time:        %v`, h.ID(), h.body.Height, h.body.ParentHash, h.body.StateRoot,
		h.body.TxRoot, h.body.SignRoot, h.body.Time)
}

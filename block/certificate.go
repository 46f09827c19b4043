// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"io"
	"slices"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mapprotocol/ori/ori"
	"github.com/qianbin/drlp"
)

// Signature is a partial signature of a validator over the binding digest.
type Signature struct {
	Index uint32 // validator index in the epoch's set
	Sig   []byte
}

// Certificate is the quorum certificate of a block.
// Signatures are kept sorted by validator index, one per validator.
type Certificate struct {
	body certBody

	root atomic.Pointer[ori.Bytes32]
}

type certBody struct {
	Msg        ori.Bytes32
	Signatures []Signature
}

// NewCertificate creates a certificate over msg. Signatures are copied, sorted by
// validator index, and deduplicated keeping the first signature of each index.
func NewCertificate(msg ori.Bytes32, sigs []Signature) *Certificate {
	cpy := make([]Signature, 0, len(sigs))
	for _, s := range sigs {
		cpy = append(cpy, Signature{Index: s.Index, Sig: append([]byte(nil), s.Sig...)})
	}
	slices.SortStableFunc(cpy, func(a, b Signature) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	cpy = slices.CompactFunc(cpy, func(a, b Signature) bool { return a.Index == b.Index })

	return &Certificate{body: certBody{Msg: msg, Signatures: cpy}}
}

// Msg returns the binding digest the signatures are made over.
func (c *Certificate) Msg() ori.Bytes32 {
	return c.body.Msg
}

// Signatures returns a copy of the partial signatures.
func (c *Certificate) Signatures() []Signature {
	cpy := make([]Signature, len(c.body.Signatures))
	for i, s := range c.body.Signatures {
		cpy[i] = Signature{Index: s.Index, Sig: append([]byte(nil), s.Sig...)}
	}
	return cpy
}

// Len returns the count of partial signatures.
func (c *Certificate) Len() int {
	return len(c.body.Signatures)
}

// Indices returns validator indices of all signers.
func (c *Certificate) Indices() []uint32 {
	indices := make([]uint32, len(c.body.Signatures))
	for i, s := range c.body.Signatures {
		indices[i] = s.Index
	}
	return indices
}

// Root computes sign_root, the digest of the certificate.
func (c *Certificate) Root() ori.Bytes32 {
	if cached := c.root.Load(); cached != nil {
		return *cached
	}
	root := ori.Blake2bFn(func(w io.Writer) {
		w.Write(c.body.Msg[:])
		var key []byte
		for _, s := range c.body.Signatures {
			key = drlp.AppendUint(key[:0], uint64(s.Index))
			w.Write(key)
			w.Write(s.Sig)
		}
	})
	c.root.Store(&root)
	return root
}

// EncodeRLP implements rlp.Encoder.
func (c *Certificate) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder.
func (c *Certificate) DecodeRLP(s *rlp.Stream) error {
	var body certBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Certificate{body: body}
	return nil
}

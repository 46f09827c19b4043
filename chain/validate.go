// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/pos"
	"github.com/pkg/errors"
)

// ValidateHeader checks the header against its parent, then the block body against the header.
func ValidateHeader(blk *block.Block, parent *block.Header) error {
	header := blk.Header()
	if header.ParentHash() != parent.ID() {
		return errors.WithMessagef(ErrOrphanBlock, "parent hash %v", header.ParentHash())
	}
	if header.Height() != parent.Height()+1 {
		return errors.WithMessagef(ErrHeightMismatch, "parent %d, block %d", parent.Height(), header.Height())
	}
	if header.Time() <= parent.Time() {
		return errors.WithMessagef(ErrMalformedBlock, "block time %d not after parent time %d", header.Time(), parent.Time())
	}
	if err := blk.ValidateBody(); err != nil {
		return errors.WithMessage(ErrMalformedBlock, err.Error())
	}
	return nil
}

// ValidateCertificate checks the block's certificate against the validator set of its epoch.
// Every signature must be valid, and the distinct signers must reach the quorum threshold.
func ValidateCertificate(blk *block.Block, set *pos.ValidatorSet) error {
	var (
		header = blk.Header()
		cert   = blk.Certificate()
		msg    = header.SigningHash()
	)
	if !set.Contains(header.Height()) {
		return errors.WithMessagef(ErrInvalidCertificate, "height %d out of epoch [%d, %d]", header.Height(), set.From(), set.To())
	}
	if cert.Msg() != msg {
		return errors.WithMessagef(ErrInvalidCertificate, "msg mismatch: want %v, got %v", msg, cert.Msg())
	}
	sigs := cert.Signatures()
	for i, s := range sigs {
		// only the canonical form is accepted, a reordered cert would change the block hash
		if i > 0 && s.Index <= sigs[i-1].Index {
			return errors.WithMessagef(ErrInvalidCertificate, "signature indices not strictly increasing at #%d", i)
		}
		v, ok := set.Validator(s.Index)
		if !ok {
			return errors.WithMessagef(ErrInvalidCertificate, "unknown validator index %d", s.Index)
		}
		if !cry.Verify(v.PubKey, msg, s.Sig) {
			return errors.WithMessagef(ErrInvalidCertificate, "bad signature of validator #%d %v", s.Index, v.Address)
		}
	}
	if weight, threshold := set.WeightOf(cert.Indices()), set.QuorumThreshold(); weight < threshold {
		return errors.WithMessagef(ErrInvalidCertificate, "weight %d below threshold %d", weight, threshold)
	}
	return nil
}

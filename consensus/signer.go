// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"crypto/ecdsa"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/cache"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/comm"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

type signedKey struct {
	height uint64
	round  uint32
}

// Signer answers sign requests of round leaders.
type Signer struct {
	repo     *chain.Repository
	importer *Importer
	master   *ecdsa.PrivateKey
	address  ori.Address
	signed   *cache.RandCache[signedKey, ori.Bytes32]
}

// NewSigner creates a new Signer instance.
func NewSigner(importer *Importer, master *ecdsa.PrivateKey) *Signer {
	return &Signer{
		repo:     importer.repo,
		importer: importer,
		master:   master,
		address:  cry.PubkeyToAddress(&master.PublicKey),
		signed:   cache.NewRandCache[signedKey, ori.Bytes32](1024),
	}
}

// Address returns the address of the signing key.
func (s *Signer) Address() ori.Address {
	return s.address
}

// Sign checks the candidate of the request and signs its signing hash.
// At most one candidate is signed per height and round.
func (s *Signer) Sign(req *comm.SignRequest) (*comm.SignatureEvent, error) {
	if req.Block == nil {
		return nil, errors.New("empty sign request")
	}
	header := req.Block.Header()
	if head := s.repo.Head().Header(); header.ParentHash() != head.ID() {
		return nil, errors.WithMessagef(ErrNotExtendingHead, "head %v(%d)", head.ID(), head.Height())
	}

	set := s.repo.Schedule().SetFor(header.Height())
	index, ok := set.IsMember(s.address)
	if !ok {
		return nil, ErrNotValidator
	}
	leader, _ := set.Validator(set.LeaderForRound(header.Height(), header.ParentHash(), req.Round))
	if leader.Address != req.Leader {
		return nil, errors.WithMessagef(ErrNotLeader, "round %d led by %v", req.Round, leader.Address)
	}

	if _, err := s.importer.Verify(req.Block); err != nil {
		return nil, err
	}

	msg := header.SigningHash()
	if actual, _ := s.signed.SetIfAbsent(signedKey{header.Height(), req.Round}, msg); actual != msg {
		return nil, ErrConflictingCandidate
	}
	sig, err := cry.Sign(msg, s.master)
	if err != nil {
		return nil, err
	}
	return &comm.SignatureEvent{
		Msg:       msg,
		Signature: block.Signature{Index: index, Sig: sig},
	}, nil
}

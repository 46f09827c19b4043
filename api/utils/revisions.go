// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

// Revision is a block height, a block hash or the head.
type Revision struct {
	val any
}

type revBest struct{}

// ParseRevision parses a revision: "best" or empty for the head, a 32 bytes hex hash, or a height.
func ParseRevision(revision string) (*Revision, error) {
	if revision == "" || revision == "best" {
		return &Revision{revBest{}}, nil
	}
	if len(revision) == 66 || len(revision) == 64 {
		hash, err := ori.ParseBytes32(revision)
		if err != nil {
			return nil, err
		}
		return &Revision{hash}, nil
	}
	n, err := strconv.ParseUint(revision, 0, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid revision")
	}
	return &Revision{n}, nil
}

// GetBlock returns the canonical block of the revision.
func GetBlock(rev *Revision, repo *chain.Repository) (*block.Block, error) {
	switch v := rev.val.(type) {
	case ori.Bytes32:
		return repo.GetByHash(v)
	case uint64:
		return repo.GetByHeight(v)
	default:
		return repo.Head(), nil
	}
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package comm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/pkg/errors"
)

// limits of a single block range response.
const (
	maxSyncBlocks = 1024
	maxSyncSize   = 512 * 1024
)

// BlockReader reads committed blocks by height.
type BlockReader interface {
	GetByHeight(height uint64) (*block.Block, error)
}

// ReadBlocksFrom returns the encoded consecutive blocks starting at height.
// The range ends at the head, or once the count or size limit is hit.
func ReadBlocksFrom(r BlockReader, height uint64) ([]rlp.RawValue, error) {
	var (
		result []rlp.RawValue
		size   common.StorageSize
	)
	for size < maxSyncSize && len(result) < maxSyncBlocks {
		blk, err := r.GetByHeight(height)
		if err != nil {
			if chain.IsNotFound(err) {
				break
			}
			return nil, err
		}
		raw, err := rlp.EncodeToBytes(blk)
		if err != nil {
			return nil, err
		}
		result = append(result, raw)
		size += common.StorageSize(len(raw))
		height++
	}
	return result, nil
}

// decodeBlocks decodes a range response and checks that it starts at height without gaps.
func decodeBlocks(raws []rlp.RawValue, height uint64) ([]*block.Block, error) {
	blks := make([]*block.Block, 0, len(raws))
	for _, raw := range raws {
		var blk block.Block
		if err := rlp.DecodeBytes(raw, &blk); err != nil {
			return nil, errors.Wrap(err, "invalid block")
		}
		if blk.Header().Height() != height {
			return nil, errors.New("broken sequence")
		}
		blks = append(blks, &blk)
		height++
	}
	return blks, nil
}

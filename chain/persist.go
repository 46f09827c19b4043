// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/kv"
	"github.com/mapprotocol/ori/ori"
)

const (
	blockStoreName   = kv.Bucket("c.blk.")  // block hash => snappy(rlp(block))
	heightStoreName  = kv.Bucket("c.hgt.")  // height => canonical block hash
	txIndexStoreName = kv.Bucket("c.txi.")  // tx id => tx location
	propStoreName    = kv.Bucket("c.prop.") // property-named values such as head
)

var headKey = []byte("head")

// TxMeta is the location of a tx in the chain.
type TxMeta struct {
	BlockHash ori.Bytes32
	Height    uint64
	Index     uint64
}

func heightKey(height uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, height)
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func get(r kv.Getter, key []byte) ([]byte, error) {
	data, err := r.Get(key)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := get(r, key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveBlock(w kv.Putter, blk *block.Block) error {
	data, err := rlp.EncodeToBytes(blk)
	if err != nil {
		return err
	}
	hash := blk.Header().ID()
	return w.Put(hash[:], snappy.Encode(nil, data))
}

func loadBlock(r kv.Getter, hash ori.Bytes32) (*block.Block, error) {
	data, err := get(r, hash[:])
	if err != nil {
		return nil, err
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	var blk block.Block
	if err := rlp.DecodeBytes(raw, &blk); err != nil {
		return nil, err
	}
	return &blk, nil
}

func saveTxMeta(w kv.Putter, id ori.Bytes32, meta *TxMeta) error {
	return saveRLP(w, id[:], meta)
}

func loadTxMeta(r kv.Getter, id ori.Bytes32) (*TxMeta, error) {
	var meta TxMeta
	if err := loadRLP(r, id[:], &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func loadBlockHash(r kv.Getter, height uint64) (ori.Bytes32, error) {
	data, err := get(r, heightKey(height))
	if err != nil {
		return ori.Bytes32{}, err
	}
	return ori.BytesToBytes32(data), nil
}

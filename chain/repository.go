// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/co"
	"github.com/mapprotocol/ori/kv"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/pos"
	"github.com/mapprotocol/ori/tx"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "chain")

// Repository stores the canonical chain of certified blocks.
// Blocks are appended one height at a time and never removed.
//
// It's thread-safe. Inserts are serialized; reads never wait for a pending insert.
type Repository struct {
	db          kv.Store
	blockStore  kv.Store
	heightStore kv.Store
	txIndexer   kv.Store
	propStore   kv.Store

	genesis  *block.Block
	schedule *pos.Schedule

	writeLock sync.Mutex
	head      atomic.Pointer[block.Block]
	tick      co.Signal

	caches struct {
		blocks *arcCache
		txs    *arcCache
	}
}

// NewRepository creates the repository on db. The genesis block is stored if the db is empty,
// otherwise the stored genesis must match.
func NewRepository(db kv.Store, genesis *block.Block, schedule *pos.Schedule) (*Repository, error) {
	if genesis.Header().Height() != 0 {
		return nil, errors.New("genesis height != 0")
	}
	if len(genesis.Transactions()) != 0 {
		return nil, errors.New("genesis block should not have transactions")
	}

	repo := &Repository{
		db:          db,
		blockStore:  blockStoreName.NewStore(db),
		heightStore: heightStoreName.NewStore(db),
		txIndexer:   txIndexStoreName.NewStore(db),
		propStore:   propStoreName.NewStore(db),
		genesis:     genesis,
		schedule:    schedule,
	}
	repo.caches.blocks = newCache("block", 512)
	repo.caches.txs = newCache("tx", 2048)

	genesisID := genesis.Header().ID()
	if val, err := get(repo.propStore, headKey); err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		if err := repo.commit(genesis); err != nil {
			return nil, errors.Wrap(err, "save genesis")
		}
	} else {
		existing, err := loadBlockHash(repo.heightStore, 0)
		if err != nil {
			return nil, errors.Wrap(err, "get existing genesis hash")
		}
		if existing != genesisID {
			return nil, errors.New("genesis mismatch")
		}
		head, err := repo.GetByHash(ori.BytesToBytes32(val))
		if err != nil {
			return nil, errors.Wrap(err, "get head block")
		}
		repo.head.Store(head)
		metricHeadHeight().Set(int64(head.Header().Height()))
	}
	return repo, nil
}

// GenesisBlock returns genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.genesis
}

// Schedule returns the validator schedule the certificates are checked against.
func (r *Repository) Schedule() *pos.Schedule {
	return r.schedule
}

// Head returns the newest canonical block.
func (r *Repository) Head() *block.Block {
	return r.head.Load()
}

// NewTicker create a signal Waiter to receive event that the head block changed.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}

// GetByHash returns the block with the hash.
func (r *Repository) GetByHash(hash ori.Bytes32) (*block.Block, error) {
	blk, err := r.caches.blocks.GetOrLoad(hash, func() (any, error) {
		return loadBlock(r.blockStore, hash)
	})
	if err != nil {
		return nil, err
	}
	return blk.(*block.Block), nil
}

// GetBlockHash returns the hash of the canonical block at height.
func (r *Repository) GetBlockHash(height uint64) (ori.Bytes32, error) {
	if head := r.Head(); head != nil && height > head.Header().Height() {
		return ori.Bytes32{}, ErrNotFound
	}
	return loadBlockHash(r.heightStore, height)
}

// GetByHeight returns the canonical block at height.
func (r *Repository) GetByHeight(height uint64) (*block.Block, error) {
	hash, err := r.GetBlockHash(height)
	if err != nil {
		return nil, err
	}
	return r.GetByHash(hash)
}

// GetTransaction returns the canonical tx with its location.
func (r *Repository) GetTransaction(id ori.Bytes32) (*tx.Transaction, *TxMeta, error) {
	meta, err := r.GetTransactionMeta(id)
	if err != nil {
		return nil, nil, err
	}
	blk, err := r.GetByHash(meta.BlockHash)
	if err != nil {
		return nil, nil, err
	}
	txs := blk.Transactions()
	if meta.Index >= uint64(len(txs)) {
		return nil, nil, errors.Errorf("tx index %d out of range in block %v", meta.Index, meta.BlockHash)
	}
	return txs[meta.Index], meta, nil
}

// GetTransactionMeta returns the location of the tx.
func (r *Repository) GetTransactionMeta(id ori.Bytes32) (*TxMeta, error) {
	meta, err := r.caches.txs.GetOrLoad(id, func() (any, error) {
		return loadTxMeta(r.txIndexer, id)
	})
	if err != nil {
		return nil, err
	}
	if head := r.Head(); head != nil && meta.(*TxMeta).Height > head.Header().Height() {
		return nil, ErrNotFound
	}
	return meta.(*TxMeta), nil
}

// Insert validates the certified block and appends it as the new head.
// The first valid block inserted at a height wins; the block is persisted exactly once.
func (r *Repository) Insert(blk *block.Block) (err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			metricInsertFailure().AddWithLabel(1, map[string]string{"reason": reason(err)})
			return
		}
		metricBlockInserted().Add(1)
		metricInsertDurationMs().Observe(time.Since(start).Milliseconds())
	}()

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	header := blk.Header()
	parent, err := r.GetByHash(header.ParentHash())
	if err != nil {
		if IsNotFound(err) {
			return errors.WithMessagef(ErrOrphanBlock, "parent %v", header.ParentHash())
		}
		return err
	}
	if header.Height() != parent.Header().Height()+1 {
		return errors.WithMessagef(ErrHeightMismatch, "parent %d, block %d", parent.Header().Height(), header.Height())
	}
	if existing, err := loadBlockHash(r.heightStore, header.Height()); err == nil {
		return errors.WithMessagef(ErrDuplicateHeight, "height %d taken by %v", header.Height(), existing)
	} else if !IsNotFound(err) {
		return err
	}
	if err := ValidateHeader(blk, parent.Header()); err != nil {
		return err
	}
	if err := ValidateCertificate(blk, r.schedule.SetFor(header.Height())); err != nil {
		return err
	}

	if err := r.commit(blk); err != nil {
		return errors.Wrap(err, "commit block")
	}
	logger.Debug("block inserted", "height", header.Height(), "hash", header.ID(), "txs", len(blk.Transactions()))
	return nil
}

// commit writes the block, height index, tx index and head in one bulk.
func (r *Repository) commit(blk *block.Block) error {
	var (
		header  = blk.Header()
		hash    = header.ID()
		bulk    = r.db.Bulk()
		blocks  = blockStoreName.NewPutter(bulk)
		heights = heightStoreName.NewPutter(bulk)
		txIndex = txIndexStoreName.NewPutter(bulk)
		props   = propStoreName.NewPutter(bulk)
	)

	if err := saveBlock(blocks, blk); err != nil {
		return err
	}
	if err := heights.Put(heightKey(header.Height()), hash[:]); err != nil {
		return err
	}
	for i, trx := range blk.Transactions() {
		if err := saveTxMeta(txIndex, trx.ID(), &TxMeta{
			BlockHash: hash,
			Height:    header.Height(),
			Index:     uint64(i),
		}); err != nil {
			return err
		}
	}
	if err := props.Put(headKey, hash[:]); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return err
	}

	r.caches.blocks.Add(hash, blk)
	r.head.Store(blk)
	metricHeadHeight().Set(int64(header.Height()))
	r.tick.Broadcast()
	return nil
}

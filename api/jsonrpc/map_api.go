// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package jsonrpc serves the "map" json-rpc namespace.
package jsonrpc

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/api/blocks"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/log"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/tx"
	"github.com/mapprotocol/ori/txpool"
)

var logger = log.WithContext("pkg", "jsonrpc")

// Namespace of the service methods.
const Namespace = "map"

// TxWithMeta is a transaction with its location in the chain.
type TxWithMeta struct {
	*blocks.Transaction
	BlockHash ori.Bytes32 `json:"block_hash"`
	Height    uint64      `json:"height"`
	Index     uint64      `json:"index"`
}

// MapAPI implements the map_* methods.
// sendTransaction signs txs with the keys of the node's local accounts.
type MapAPI struct {
	repo     *chain.Repository
	stater   *state.Stater
	pool     *txpool.TxPool
	accounts map[ori.Address]*ecdsa.PrivateKey
}

// NewMapAPI creates the service. keys are the local accounts.
func NewMapAPI(repo *chain.Repository, stater *state.Stater, pool *txpool.TxPool, keys ...*ecdsa.PrivateKey) *MapAPI {
	accounts := make(map[ori.Address]*ecdsa.PrivateKey, len(keys))
	for _, key := range keys {
		accounts[cry.PubkeyToAddress(&key.PublicKey)] = key
	}
	return &MapAPI{repo, stater, pool, accounts}
}

// SendTransaction builds, signs and submits a transfer from a local account.
// It returns the tx hash.
func (api *MapAPI) SendTransaction(from, to ori.Address, value *math.HexOrDecimal256) (ori.Bytes32, error) {
	key, ok := api.accounts[from]
	if !ok {
		return ori.Bytes32{}, invalidParams("account not exist %v", from)
	}
	if value == nil || (*big.Int)(value).Sign() < 0 {
		return ori.Bytes32{}, invalidParams("invalid value")
	}
	amount, overflow := uint256.FromBig((*big.Int)(value))
	if overflow {
		return ori.Bytes32{}, invalidParams("value overflows 256 bits")
	}

	nonce, err := api.pool.NextNonce(from)
	if err != nil {
		return ori.Bytes32{}, serverError(err)
	}
	trx, err := new(tx.Builder).
		From(from).
		To(to).
		Value(amount).
		Nonce(nonce).
		Build().
		Sign(key)
	if err != nil {
		return ori.Bytes32{}, serverError(err)
	}
	if err := api.pool.Add(trx); err != nil {
		return ori.Bytes32{}, &Error{codeTxRejected, err.Error()}
	}
	logger.Debug("tx submitted", "id", trx.ID(), "from", from, "nonce", nonce)
	return trx.ID(), nil
}

// BlockNumber returns the head height.
func (api *MapAPI) BlockNumber() uint64 {
	return api.repo.Head().Header().Height()
}

func (api *MapAPI) blockOrNil(blk *block.Block, err error) (*blocks.Block, error) {
	if err != nil {
		if chain.IsNotFound(err) {
			return nil, nil
		}
		return nil, serverError(err)
	}
	return blocks.ConvertBlock(blk), nil
}

// GetBlockByNumber returns the canonical block at height, or null.
func (api *MapAPI) GetBlockByNumber(height uint64) (*blocks.Block, error) {
	return api.blockOrNil(api.repo.GetByHeight(height))
}

// GetBlockByHash returns the block of hash, or null.
func (api *MapAPI) GetBlockByHash(hash ori.Bytes32) (*blocks.Block, error) {
	return api.blockOrNil(api.repo.GetByHash(hash))
}

// GetHeaderByNumber returns the canonical block header at height, or null.
func (api *MapAPI) GetHeaderByNumber(height uint64) (*blocks.Header, error) {
	blk, err := api.repo.GetByHeight(height)
	if err != nil {
		if chain.IsNotFound(err) {
			return nil, nil
		}
		return nil, serverError(err)
	}
	return blocks.ConvertHeader(blk.Header()), nil
}

// GetTransaction returns the packed tx of hash and its location, or null.
func (api *MapAPI) GetTransaction(hash ori.Bytes32) (*TxWithMeta, error) {
	trx, meta, err := api.repo.GetTransaction(hash)
	if err != nil {
		if chain.IsNotFound(err) {
			return nil, nil
		}
		return nil, serverError(err)
	}
	return &TxWithMeta{
		Transaction: blocks.ConvertTransaction(trx),
		BlockHash:   meta.BlockHash,
		Height:      meta.Height,
		Index:       meta.Index,
	}, nil
}

func (api *MapAPI) headState() (*state.State, error) {
	st, err := api.stater.NewState(api.repo.Head().Header().StateRoot())
	if err != nil {
		return nil, serverError(err)
	}
	return st, nil
}

// GetBalance returns the balance of addr at the head.
func (api *MapAPI) GetBalance(addr ori.Address) (*math.HexOrDecimal256, error) {
	st, err := api.headState()
	if err != nil {
		return nil, err
	}
	return (*math.HexOrDecimal256)(st.GetBalance(addr).ToBig()), nil
}

// GetNonce returns the nonce of addr at the head.
func (api *MapAPI) GetNonce(addr ori.Address) (uint64, error) {
	st, err := api.headState()
	if err != nil {
		return 0, err
	}
	return st.GetNonce(addr), nil
}

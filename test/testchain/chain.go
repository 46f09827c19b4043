// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain builds in-memory chains with local validator keys for tests.
package testchain

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/genesis"
	"github.com/mapprotocol/ori/lvldb"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/runtime"
	"github.com/mapprotocol/ori/state"
	"github.com/mapprotocol/ori/tx"
	"github.com/pkg/errors"
)

// InitialBalance is the genesis balance of every validator account.
var InitialBalance = big.NewInt(1_000_000_000)

// Chain represents an in-memory chain whose validators are all local.
type Chain struct {
	db      *lvldb.LevelDB
	genesis *genesis.Genesis
	repo    *chain.Repository
	stater  *state.Stater
	keys    []*ecdsa.PrivateKey
}

// New creates a chain with n validators of weight 1.
func New(n int) (*Chain, error) {
	weights := make([]uint64, n)
	for i := range weights {
		weights[i] = 1
	}
	return NewWithWeights(weights...)
}

// NewWithWeights creates a chain with one validator per weight.
func NewWithWeights(weights ...uint64) (*Chain, error) {
	keys := make([]*ecdsa.PrivateKey, 0, len(weights))
	for range weights {
		key, err := cry.GenerateKey()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return NewWithKeys(keys, weights)
}

// NewWithKeys creates a chain with the given validator keys and weights.
func NewWithKeys(keys []*ecdsa.PrivateKey, weights []uint64) (*Chain, error) {
	if len(keys) != len(weights) {
		return nil, errors.New("keys and weights length mismatch")
	}
	cfg := &genesis.Config{
		LaunchTime: genesis.DevLaunchTime,
		Epochs:     []genesis.EpochConfig{{From: 0}},
		Consensus:  genesis.DefaultConsensusConfig(),
	}
	for i, key := range keys {
		addr := cry.PubkeyToAddress(&key.PublicKey)
		cfg.Alloc = append(cfg.Alloc, genesis.Allocation{
			Address: addr,
			Balance: (*math.HexOrDecimal256)(new(big.Int).Set(InitialBalance)),
		})
		cfg.Epochs[0].Validators = append(cfg.Epochs[0].Validators, genesis.ValidatorConfig{
			Address: addr,
			PubKey:  cry.CompressPubkey(&key.PublicKey),
			Weight:  weights[i],
		})
	}
	gene, err := genesis.NewGenesis("testchain", cfg)
	if err != nil {
		return nil, err
	}
	return NewWithGenesis(gene, keys)
}

// NewWithGenesis creates a chain of the genesis. keys are the local validator keys.
func NewWithGenesis(gene *genesis.Genesis, keys []*ecdsa.PrivateKey) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	stater := state.NewStater(db)
	geneBlk, err := gene.Build(stater)
	if err != nil {
		return nil, err
	}
	repo, err := chain.NewRepository(db, geneBlk, gene.Schedule())
	if err != nil {
		return nil, err
	}
	return &Chain{db, gene, repo, stater, keys}, nil
}

// DB returns the underlying store.
func (c *Chain) DB() *lvldb.LevelDB { return c.db }

// Genesis returns the genesis of the chain.
func (c *Chain) Genesis() *genesis.Genesis { return c.genesis }

// Repo returns the block repository.
func (c *Chain) Repo() *chain.Repository { return c.repo }

// Stater returns the state creator.
func (c *Chain) Stater() *state.Stater { return c.stater }

// Key returns the key of validator i.
func (c *Chain) Key(i int) *ecdsa.PrivateKey { return c.keys[i] }

// Keys returns all validator keys, ordered by validator index.
func (c *Chain) Keys() []*ecdsa.PrivateKey { return c.keys }

// Address returns the address of validator i.
func (c *Chain) Address(i int) ori.Address {
	return cry.PubkeyToAddress(&c.keys[i].PublicKey)
}

// State returns the state at the head block.
func (c *Chain) State() (*state.State, error) {
	return c.stater.NewState(c.repo.Head().Header().StateRoot())
}

// Close closes the database.
func (c *Chain) Close() error {
	return c.db.Close()
}

// Transfer creates a transfer signed by validator i, using the next nonce at head.
func (c *Chain) Transfer(i int, to ori.Address, value uint64) (*tx.Transaction, error) {
	st, err := c.State()
	if err != nil {
		return nil, err
	}
	return c.TransferWithNonce(i, to, value, st.GetNonce(c.Address(i))+1)
}

// TransferWithNonce creates a transfer signed by validator i.
func (c *Chain) TransferWithNonce(i int, to ori.Address, value, nonce uint64) (*tx.Transaction, error) {
	return new(tx.Builder).
		From(c.Address(i)).
		To(to).
		Value(uint256.NewInt(value)).
		Nonce(nonce).
		Build().
		Sign(c.keys[i])
}

// BuildBlock executes txs on the parent state and returns an uncertified block.
func (c *Chain) BuildBlock(parent *block.Block, time uint64, txs ...*tx.Transaction) (*block.Block, error) {
	st, err := c.stater.NewState(parent.Header().StateRoot())
	if err != nil {
		return nil, err
	}
	height := parent.Header().Height() + 1
	if err := runtime.New(st, height, time).ExecuteTransactions(txs); err != nil {
		return nil, err
	}
	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}
	root, err := stage.Commit()
	if err != nil {
		return nil, err
	}

	builder := new(block.Builder).
		Height(height).
		ParentHash(parent.Header().ID()).
		StateRoot(root).
		Time(time)
	for _, trx := range txs {
		builder.Transaction(trx)
	}
	return builder.Build(), nil
}

// Certify signs the block by the given validators and attaches the certificate.
// All validators sign if none is given.
func (c *Chain) Certify(blk *block.Block, signers ...int) (*block.Block, error) {
	if len(signers) == 0 {
		for i := range c.keys {
			signers = append(signers, i)
		}
	}
	msg := blk.Header().SigningHash()
	sigs := make([]block.Signature, 0, len(signers))
	for _, i := range signers {
		sig, err := cry.Sign(msg, c.keys[i])
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, block.Signature{Index: uint32(i), Sig: sig})
	}
	return blk.WithCertificate(block.NewCertificate(msg, sigs)), nil
}

// MintBlock builds a block with txs on the head, certifies it by all validators and inserts it.
func (c *Chain) MintBlock(txs ...*tx.Transaction) (*block.Block, error) {
	head := c.repo.Head()
	blk, err := c.BuildBlock(head, head.Header().Time()+1, txs...)
	if err != nil {
		return nil, err
	}
	if blk, err = c.Certify(blk); err != nil {
		return nil, err
	}
	if err := c.repo.Insert(blk); err != nil {
		return nil, err
	}
	return blk, nil
}

// MintBlocks mints n empty blocks.
func (c *Chain) MintBlocks(n int) error {
	for range n {
		if _, err := c.MintBlock(); err != nil {
			return err
		}
	}
	return nil
}

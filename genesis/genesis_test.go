// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/genesis"
	"github.com/mapprotocol/ori/lvldb"
	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevnet(t *testing.T) {
	key, err := cry.GenerateKey()
	require.NoError(t, err)
	addr := cry.PubkeyToAddress(&key.PublicKey)

	gene := genesis.NewDevnet(key)
	assert.Equal(t, "devnet", gene.Name())
	assert.Equal(t, genesis.DefaultConsensusConfig(), gene.Consensus())

	set := gene.Schedule().SetFor(12345)
	require.Equal(t, 1, set.Len())
	index, ok := set.IsMember(addr)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), index)

	db, _ := lvldb.NewMem()
	defer db.Close()
	stater := state.NewStater(db)

	blk, err := gene.Build(stater)
	require.NoError(t, err)
	assert.Equal(t, gene.ID(), blk.Header().ID())
	assert.Equal(t, uint64(0), blk.Header().Height())
	assert.True(t, blk.Header().ParentHash().IsZero())
	assert.Equal(t, uint64(genesis.DevLaunchTime), blk.Header().Time())
	assert.Equal(t, 0, len(blk.Transactions()))
	assert.Equal(t, 0, blk.Certificate().Len())
	assert.NoError(t, blk.ValidateBody())

	st, err := stater.NewState(blk.Header().StateRoot())
	require.NoError(t, err)
	balance, _ := uint256.FromBig(genesis.DevBalance)
	assert.Equal(t, balance, st.GetBalance(addr))

	// genesis id is a pure function of the config
	assert.Equal(t, gene.ID(), genesis.NewDevnet(key).ID())
	other, _ := cry.GenerateKey()
	assert.NotEqual(t, gene.ID(), genesis.NewDevnet(other).ID())
}

func TestLoadConfig(t *testing.T) {
	k1, _ := cry.GenerateKey()
	k2, _ := cry.GenerateKey()
	a1 := cry.PubkeyToAddress(&k1.PublicKey)

	content := fmt.Sprintf(`
launch_time: 1767225600
alloc:
  - address: %v
    balance: "0x3e8"
  - address: %v
    balance: "12345"
epochs:
  - from: 0
    validators:
      - address: %v
        pubkey: %v
        weight: 10
  - from: 100
    validators:
      - pubkey: %v
        weight: 5
      - pubkey: %v
        weight: 7
consensus:
  block_interval: 3s
  round_timeout: 6s
`,
		a1, cry.PubkeyToAddress(&k2.PublicKey),
		a1, hexutil.Encode(cry.CompressPubkey(&k1.PublicKey)),
		hexutil.Encode(cry.CompressPubkey(&k1.PublicKey)), hexutil.Encode(cry.CompressPubkey(&k2.PublicKey)),
	)
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := genesis.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1767225600), cfg.LaunchTime)
	require.Len(t, cfg.Alloc, 2)
	assert.Equal(t, int64(1000), (*big.Int)(cfg.Alloc[0].Balance).Int64())

	gene, err := genesis.NewGenesis("custom", cfg)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, gene.Consensus().BlockInterval)
	assert.Equal(t, 6*time.Second, gene.Consensus().RoundTimeout)
	assert.Equal(t, ori.DefaultMinDelay, gene.Consensus().MinDelay)

	assert.Equal(t, uint64(10), gene.Schedule().SetFor(99).TotalWeight())
	assert.Equal(t, uint64(12), gene.Schedule().SetFor(100).TotalWeight())
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("launch_time: 1\nbogus: 2\n"), 0o600))

	_, err := genesis.LoadConfig(path)
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	key, _ := cry.GenerateKey()
	other, _ := cry.GenerateKey()

	tests := []struct {
		name string
		cfg  *genesis.Config
	}{
		{"no epochs", &genesis.Config{}},
		{"address mismatch", &genesis.Config{Epochs: []genesis.EpochConfig{{
			Validators: []genesis.ValidatorConfig{{
				Address: cry.PubkeyToAddress(&other.PublicKey),
				PubKey:  cry.CompressPubkey(&key.PublicKey),
				Weight:  1,
			}},
		}}}},
		{"zero weight", &genesis.Config{Epochs: []genesis.EpochConfig{{
			Validators: []genesis.ValidatorConfig{{PubKey: cry.CompressPubkey(&key.PublicKey)}},
		}}}},
		{"first epoch not at genesis", &genesis.Config{Epochs: []genesis.EpochConfig{{
			From:       1,
			Validators: []genesis.ValidatorConfig{{PubKey: cry.CompressPubkey(&key.PublicKey), Weight: 1}},
		}}}},
		{"missing balance", &genesis.Config{
			Alloc: []genesis.Allocation{{Address: ori.BytesToAddress([]byte("a"))}},
			Epochs: []genesis.EpochConfig{{
				Validators: []genesis.ValidatorConfig{{PubKey: cry.CompressPubkey(&key.PublicKey), Weight: 1}},
			}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.NewGenesis("bad", tt.cfg)
			assert.Error(t, err)
		})
	}
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the network configuration, loaded from a yaml file.
type Config struct {
	LaunchTime uint64          `yaml:"launch_time"`
	Alloc      []Allocation    `yaml:"alloc"`
	Epochs     []EpochConfig   `yaml:"epochs"`
	Consensus  ConsensusConfig `yaml:"consensus"`
}

// Allocation is the initial balance of an account.
type Allocation struct {
	Address ori.Address           `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// EpochConfig is the validator roster starting at height From.
type EpochConfig struct {
	From       uint64            `yaml:"from"`
	Validators []ValidatorConfig `yaml:"validators"`
}

// ValidatorConfig describes a validator. Address may be omitted, it's derived from the public key.
type ValidatorConfig struct {
	Address ori.Address   `yaml:"address"`
	PubKey  hexutil.Bytes `yaml:"pubkey"`
	Weight  uint64        `yaml:"weight"`
}

// ConsensusConfig holds timings of the consensus rounds.
type ConsensusConfig struct {
	BlockInterval time.Duration `yaml:"block_interval"`
	RoundTimeout  time.Duration `yaml:"round_timeout"`
	MinDelay      time.Duration `yaml:"min_delay"`
}

// DefaultConsensusConfig returns the default timings.
func DefaultConsensusConfig() ConsensusConfig {
	return ConsensusConfig{
		BlockInterval: ori.BlockInterval,
		RoundTimeout:  ori.DefaultRoundTimeout,
		MinDelay:      ori.DefaultMinDelay,
	}
}

func (c *ConsensusConfig) fillDefaults() {
	def := DefaultConsensusConfig()
	if c.BlockInterval == 0 {
		c.BlockInterval = def.BlockInterval
	}
	if c.RoundTimeout == 0 {
		c.RoundTimeout = def.RoundTimeout
	}
	if c.MinDelay == 0 {
		c.MinDelay = def.MinDelay
	}
}

// LoadConfig reads the network config from a yaml file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	return &cfg, nil
}

// Validate checks the config for obvious mistakes.
func (c *Config) Validate() error {
	if len(c.Epochs) == 0 {
		return errors.New("no epochs")
	}
	seen := make(map[ori.Address]struct{}, len(c.Alloc))
	for _, a := range c.Alloc {
		if a.Balance == nil {
			return fmt.Errorf("%v: balance must be set", a.Address)
		}
		balance := (*big.Int)(a.Balance)
		if balance.Sign() < 0 {
			return fmt.Errorf("%v: balance must not be negative", a.Address)
		}
		if balance.BitLen() > 256 {
			return fmt.Errorf("%v: balance too large", a.Address)
		}
		if _, dup := seen[a.Address]; dup {
			return fmt.Errorf("%v: duplicated allocation", a.Address)
		}
		seen[a.Address] = struct{}{}
	}
	c.Consensus.fillDefaults()
	if c.Consensus.RoundTimeout <= 0 || c.Consensus.BlockInterval <= 0 || c.Consensus.MinDelay < 0 {
		return errors.New("invalid consensus timings")
	}
	return nil
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/mapprotocol/ori/cry"
)

// DevLaunchTime is the launch time of dev networks.
const DevLaunchTime = 1767225600 // 2026-01-01T00:00:00Z

// DevBalance is the initial balance of the dev validator.
var DevBalance = new(big.Int).Exp(big.NewInt(10), big.NewInt(27), nil)

// NewDevnet creates a single-validator network led by key.
// The validator is also funded.
func NewDevnet(key *ecdsa.PrivateKey) *Genesis {
	addr := cry.PubkeyToAddress(&key.PublicKey)
	cfg := &Config{
		LaunchTime: DevLaunchTime,
		Alloc: []Allocation{
			{Address: addr, Balance: (*math.HexOrDecimal256)(new(big.Int).Set(DevBalance))},
		},
		Epochs: []EpochConfig{{
			From: 0,
			Validators: []ValidatorConfig{{
				Address: addr,
				PubKey:  cry.CompressPubkey(&key.PublicKey),
				Weight:  1,
			}},
		}},
		Consensus: DefaultConsensusConfig(),
	}
	gene, err := NewGenesis("devnet", cfg)
	if err != nil {
		panic(err)
	}
	return gene
}

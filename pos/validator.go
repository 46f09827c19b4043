// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

// Validator is an eligible signer with its stake weight.
type Validator struct {
	Address ori.Address
	PubKey  []byte // compressed secp256k1 public key
	Weight  uint64
}

// NewValidator creates a validator from the public key, deriving its address.
func NewValidator(pubKey []byte, weight uint64) (Validator, error) {
	compressed, err := cry.ParsePublicKey(pubKey)
	if err != nil {
		return Validator{}, err
	}
	pub, err := crypto.DecompressPubkey(compressed)
	if err != nil {
		return Validator{}, errors.Wrap(err, "decompress public key")
	}
	return Validator{
		Address: cry.PubkeyToAddress(pub),
		PubKey:  compressed,
		Weight:  weight,
	}, nil
}

// check ensures the public key is well formed and matches the address.
func (v *Validator) check() error {
	derived, err := NewValidator(v.PubKey, v.Weight)
	if err != nil {
		return err
	}
	if derived.Address != v.Address {
		return errors.Errorf("public key does not match address %v", v.Address)
	}
	v.PubKey = derived.PubKey
	return nil
}

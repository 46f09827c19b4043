// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	raw := key.Serialize()
	defer key.Zero()
	return crypto.ToECDSA(raw)
}

// ParseKey parses a hex encoded private key. The 0x prefix is optional.
func ParseKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.New("invalid hex string")
	}
	return crypto.ToECDSA(raw)
}

// KeyToHex encodes the private key in hex without prefix.
func KeyToHex(key *ecdsa.PrivateKey) string {
	return hex.EncodeToString(crypto.FromECDSA(key))
}

// ParsePublicKey parses a compressed or uncompressed public key and
// returns it in compressed form.
func ParsePublicKey(b []byte) ([]byte, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrap(err, "parse public key")
	}
	return pub.SerializeCompressed(), nil
}

// LoadKey loads a key from value. If value names an existing file the key is read
// from it, otherwise value itself is parsed as a hex key.
func LoadKey(value string) (*ecdsa.PrivateKey, error) {
	if _, err := os.Stat(value); err == nil {
		key, err := crypto.LoadECDSA(value)
		if err != nil {
			return nil, errors.Wrap(err, "load key file")
		}
		return key, nil
	}
	return ParseKey(value)
}

// LoadOrGenerateKey loads the key stored at path, or generates and stores a new one
// if the file does not exist.
func LoadOrGenerateKey(path string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.LoadECDSA(path)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load key file")
	}

	if key, err = GenerateKey(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "create key dir")
	}
	if err := crypto.SaveECDSA(path, key); err != nil {
		return nil, errors.Wrap(err, "save key file")
	}
	return key, nil
}

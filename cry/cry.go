// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cry wraps the secp256k1 primitives used for block and transaction signing.
package cry

import (
	"bytes"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

// SignatureLength is the length of a recoverable signature, [R || S || V].
const SignatureLength = crypto.SignatureLength

// Sign signs the digest with the private key.
// The produced signature is in the [R || S || V] format where V is 0 or 1.
func Sign(digest ori.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, errors.New("nil private key")
	}
	return crypto.Sign(digest[:], key)
}

// Verify reports whether sig is a valid signature of digest by the holder of pub.
// pub is a compressed or uncompressed public key.
// Malformed keys or signatures are reported as invalid, never as a panic.
func Verify(pub []byte, digest ori.Bytes32, sig []byte) bool {
	if len(sig) != SignatureLength || len(pub) == 0 {
		return false
	}
	if sig[64] > 1 {
		return false
	}
	if !crypto.VerifySignature(pub, digest[:], sig[:64]) {
		return false
	}
	// V must recover pub, otherwise the flipped signature would verify as well
	recovered, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return false
	}
	if len(pub) == 33 {
		return bytes.Equal(crypto.CompressPubkey(recovered), pub)
	}
	return bytes.Equal(crypto.FromECDSAPub(recovered), pub)
}

// Recover returns the address of the key which produced sig over digest.
func Recover(digest ori.Bytes32, sig []byte) (ori.Address, error) {
	if len(sig) != SignatureLength {
		return ori.Address{}, errors.New("invalid signature length")
	}
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return ori.Address{}, err
	}
	return ori.Address(crypto.PubkeyToAddress(*pub)), nil
}

// PubkeyToAddress derives the account address of a public key.
func PubkeyToAddress(pub *ecdsa.PublicKey) ori.Address {
	return ori.Address(crypto.PubkeyToAddress(*pub))
}

// CompressPubkey encodes a public key to the 33-byte compressed format.
func CompressPubkey(pub *ecdsa.PublicKey) []byte {
	return crypto.CompressPubkey(pub)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/mapprotocol/ori/cry"
	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

// Transaction is an immutable value transfer.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Pointer[ori.Bytes32]
		id          atomic.Pointer[ori.Bytes32]
		signer      atomic.Pointer[ori.Address]
	}
}

// body describes details of a tx.
type body struct {
	From      ori.Address
	To        ori.Address
	Value     *uint256.Int
	Nonce     uint64
	Signature []byte
}

// From returns the declared sender.
func (t *Transaction) From() ori.Address {
	return t.body.From
}

// To returns the recipient.
func (t *Transaction) To() ori.Address {
	return t.body.To
}

// Value returns a copy of the transferred amount.
func (t *Transaction) Value() *uint256.Int {
	if t.body.Value == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(t.body.Value)
}

// Nonce returns the per-sender sequence number.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() (hash ori.Bytes32) {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	defer func() { t.cache.signingHash.Store(&hash) }()

	return ori.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.From,
			t.body.To,
			t.value(),
			t.body.Nonce,
		})
	})
}

// ID returns the identity of the tx, which covers the signature.
func (t *Transaction) ID() (id ori.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	defer func() { t.cache.id.Store(&id) }()

	return ori.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, t)
	})
}

// Signer recovers the signer of the tx from its signature.
func (t *Transaction) Signer() (signer ori.Address, err error) {
	if cached := t.cache.signer.Load(); cached != nil {
		return *cached, nil
	}
	defer func() {
		if err == nil {
			t.cache.signer.Store(&signer)
		}
	}()
	return cry.Recover(t.SigningHash(), t.body.Signature)
}

// ValidateSignature checks the tx is signed by its declared sender.
func (t *Transaction) ValidateSignature() error {
	signer, err := t.Signer()
	if err != nil {
		return errors.Wrap(err, "recover signer")
	}
	if signer != t.body.From {
		return fmt.Errorf("signer mismatch: want %v, got %v", t.body.From, signer)
	}
	return nil
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// Sign signs the tx with the given key and returns the signed copy.
func (t *Transaction) Sign(key *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := cry.Sign(t.SigningHash(), key)
	if err != nil {
		return nil, err
	}
	return t.WithSignature(sig), nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		t.body.From,
		t.body.To,
		t.value(),
		t.body.Nonce,
		t.body.Signature,
	})
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) value() *uint256.Int {
	if t.body.Value == nil {
		return new(uint256.Int)
	}
	return t.body.Value
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`Tx(%v)
	From:      %v
	To:        %v
	Value:     %v
	Nonce:     %v
	Signature: 0x%x`, t.ID(), t.body.From, t.body.To, t.value(), t.body.Nonce, t.body.Signature)
}

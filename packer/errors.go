// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/pkg/errors"

var (
	errNotLeader         = errors.New("not the round leader")
	errBlockFull         = errors.New("block is full")
	errTxNotAdoptableNow = errors.New("tx not adoptable now")
	errKnownTx           = errors.New("known tx")
)

// IsNotLeader the local validator is not scheduled to seal.
func IsNotLeader(err error) bool {
	return errors.Is(err, errNotLeader)
}

// IsBlockFull block reaches the max tx count.
func IsBlockFull(err error) bool {
	return errors.Is(err, errBlockFull)
}

// IsTxNotAdoptableNow tx can not be adopted now.
func IsTxNotAdoptableNow(err error) bool {
	return errors.Is(err, errTxNotAdoptableNow)
}

// IsKnownTx tx is already packed.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

// IsBadTx not a valid tx.
func IsBadTx(err error) bool {
	return errors.As(err, &badTxError{})
}

type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

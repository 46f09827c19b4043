// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/pkg/errors"

var errKnownTx = errors.New("known transaction")

// IsErrKnownTx returns whether the tx is already in the pool.
func IsErrKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

// IsBadTx returns whether the tx is invalid by itself, such as a bad signature or a stale nonce.
func IsBadTx(err error) bool {
	var bad badTxError
	return errors.As(err, &bad)
}

type txRejectedError struct {
	msg string
}

func (e txRejectedError) Error() string {
	return "tx rejected: " + e.msg
}

// IsTxRejected returns whether the tx is rejected by the pool policy, such as a full pool.
func IsTxRejected(err error) bool {
	var rejected txRejectedError
	return errors.As(err, &rejected)
}

// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"time"

	"github.com/mapprotocol/ori/ori"
	"github.com/mapprotocol/ori/runtime"
	"github.com/mapprotocol/ori/tx"
)

type txObject struct {
	*tx.Transaction
	resolved *runtime.ResolvedTransaction

	timeAdded int64
}

func resolveTx(trx *tx.Transaction) (*txObject, error) {
	resolved, err := runtime.ResolveTransaction(trx)
	if err != nil {
		return nil, err
	}
	return &txObject{
		Transaction: trx,
		resolved:    resolved,
		timeAdded:   time.Now().UnixNano(),
	}, nil
}

func (o *txObject) Origin() ori.Address {
	return o.resolved.Origin
}

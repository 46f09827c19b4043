// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import "github.com/pkg/errors"

var (
	ErrKnownBlock           = errors.New("block already in chain")
	ErrStateRootMismatch    = errors.New("state root mismatch")
	ErrNotExtendingHead     = errors.New("candidate does not extend head")
	ErrNotValidator         = errors.New("not a validator of the epoch")
	ErrNotLeader            = errors.New("requester is not the round leader")
	ErrConflictingCandidate = errors.New("another candidate already signed in this round")
)

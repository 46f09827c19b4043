// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/pkg/errors"

// Insertion errors. A rejected block leaves the repository unchanged.
var (
	ErrOrphanBlock        = errors.New("orphan block")
	ErrHeightMismatch     = errors.New("height mismatch")
	ErrDuplicateHeight    = errors.New("duplicate height")
	ErrMalformedBlock     = errors.New("malformed block")
	ErrInvalidCertificate = errors.New("invalid certificate")
)

// ErrNotFound is returned when the requested block or tx is not stored.
var ErrNotFound = errors.New("not found")

// IsNotFound returns whether the error indicates a missing block or tx.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// reason returns the metric label of an insertion error.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrOrphanBlock):
		return "orphan"
	case errors.Is(err, ErrHeightMismatch):
		return "height"
	case errors.Is(err, ErrDuplicateHeight):
		return "duplicate"
	case errors.Is(err, ErrMalformedBlock):
		return "malformed"
	case errors.Is(err, ErrInvalidCertificate):
		return "certificate"
	default:
		return "other"
	}
}

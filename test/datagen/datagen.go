// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/mapprotocol/ori/ori"
)

func RandomHash() ori.Bytes32 {
	var b32 ori.Bytes32
	rand.Read(b32[:])
	return b32
}

func RandomAddress() ori.Address {
	var addr ori.Address
	rand.Read(addr[:])
	return addr
}

func RandUint64() uint64 {
	return mathrand.Uint64() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package keccak wraps the legacy (pre-NIST) Keccak-256 used by the EVM.
package keccak

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

const Size = 32

func Sum256(data []byte) [Size]byte {
	var out [Size]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}

// Hasher reuses one Keccak state across calls. It is not safe for
// concurrent use.
type Hasher struct {
	state hash.Hash
}

func NewHasher() *Hasher {
	return &Hasher{state: sha3.NewLegacyKeccak256()}
}

func (h *Hasher) Sum256(data []byte, out *[Size]byte) {
	h.state.Reset()
	h.state.Write(data)
	h.state.Sum(out[:0])
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"math"
	"runtime"
)

var (
	DefaultThreadsMax = uint8(min(runtime.NumCPU(), math.MaxUint8))
)

const (
	SELECTOR_LENGTH = 4
	NONCE_LENGTH    = 32
	PREFIX_LENGTH   = SELECTOR_LENGTH + NONCE_LENGTH // 36
	CALLDATA_LENGTH = PREFIX_LENGTH + NONCE_LENGTH   // 68

	KECCAK256_HASH_SIZE = 32

	MAX_ZEROS = 2 * KECCAK256_HASH_SIZE // 64 nibbles

	// evaluations counted locally before being flushed into Stats
	NUM_ITERATIONS = 1000
)

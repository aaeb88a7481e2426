// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import "errors"

var (
	ErrMiningCancelled = errors.New("mining canceled")

	// ErrEvaluation is fatal: the program or the executor is broken, the
	// candidate is not to blame.
	ErrEvaluation   = errors.New("evaluation failed")
	ErrVerification = errors.New("solution rejected by verification")

	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidRange      = errors.New("invalid nonce range")
	ErrInvalidNonce      = errors.New("invalid nonce")
	ErrUnknownAlgo       = errors.New("unsupported algo")
)

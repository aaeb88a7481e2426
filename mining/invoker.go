// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"fmt"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/utils"
	"github.com/holiman/uint256"
)

type Result struct {
	Nonce  uint256.Int
	Digest [KECCAK256_HASH_SIZE]byte
}

func (r *Result) String() string {
	return fmt.Sprintf("nonce=%s hash=%x", r.Nonce.Hex(), r.Digest)
}

// Invoker evaluates candidates on behalf of a single worker. It owns the
// executor and the calldata buffer: the selector and first nonce are copied
// in once, each candidate only overwrites the trailing nonce slot.
type Invoker struct {
	executor   Executor
	difficulty *utils.Difficulty
	stats      *Stats

	calldata  [CALLDATA_LENGTH]byte
	nonceSlot *[NONCE_LENGTH]byte

	iterations uint64
	zeros      map[uint8]int
}

// NewInvoker derives a worker-local executor from engine. stats may be nil.
func NewInvoker(engine Engine, prefix [PREFIX_LENGTH]byte, difficulty *utils.Difficulty, stats *Stats) (*Invoker, error) {
	executor, err := engine.NewExecutor()
	if err != nil {
		return nil, fmt.Errorf("%w: %s executor: %w", ErrEvaluation, engine.Name(), err)
	}

	inv := &Invoker{
		executor:   executor,
		difficulty: difficulty,
		stats:      stats,
		zeros:      make(map[uint8]int),
	}
	copy(inv.calldata[:PREFIX_LENGTH], prefix[:])
	inv.nonceSlot = (*[NONCE_LENGTH]byte)(inv.calldata[PREFIX_LENGTH:])

	return inv, nil
}

// Digest evaluates the program for nonce. Any failure is an ErrEvaluation.
func (inv *Invoker) Digest(nonce *uint256.Int) ([KECCAK256_HASH_SIZE]byte, error) {
	var digest [KECCAK256_HASH_SIZE]byte

	nonce.WriteToArray32(inv.nonceSlot)

	out, err := inv.executor.Execute(inv.calldata[:])
	if err != nil {
		return digest, fmt.Errorf("%w: nonce %s: %w", ErrEvaluation, nonce.Hex(), err)
	}
	if len(out) != KECCAK256_HASH_SIZE {
		return digest, fmt.Errorf("%w: nonce %s: output length %d, expected %d", ErrEvaluation, nonce.Hex(), len(out), KECCAK256_HASH_SIZE)
	}

	copy(digest[:], out)
	return digest, nil
}

// Work returns a Result when the digest of nonce meets the difficulty, and
// nil otherwise.
func (inv *Invoker) Work(nonce *uint256.Int) (*Result, error) {
	digest, err := inv.Digest(nonce)
	if err != nil {
		return nil, err
	}

	inv.count(&digest)

	if !inv.difficulty.Meets(digest[:]) {
		return nil, nil
	}
	return &Result{Nonce: *nonce, Digest: digest}, nil
}

func (inv *Invoker) count(digest *[KECCAK256_HASH_SIZE]byte) {
	if digest[0] < 0x10 {
		inv.zeros[utils.LeadingZeros(digest[:])]++
	}

	inv.iterations++
	if inv.iterations == NUM_ITERATIONS {
		inv.Flush()
	}
}

// Flush publishes the local counters into the shared stats.
func (inv *Invoker) Flush() {
	if inv.stats != nil && inv.iterations > 0 {
		inv.stats.TotalHashes.Add(inv.iterations)
		inv.stats.Iterations.Add(1)
		if len(inv.zeros) > 0 {
			inv.stats.IncZeros(inv.zeros)
		}
	}

	inv.iterations = 0
	if len(inv.zeros) > 0 {
		clear(inv.zeros)
	}
}

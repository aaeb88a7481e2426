// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"errors"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

var errBroken = errors.New("broken program")

// fakeEngine is a synthetic evaluation primitive. The digest of a nonce is
// all zeros when the nonce is in winners and all 0xff otherwise.
type fakeEngine struct {
	winners map[uint256.Int]bool
	failAt  *uint256.Int
	short   bool
	newErr  error

	// yield reschedules after every evaluation so workers interleave
	// fairly even on few CPUs
	yield bool

	calls atomic.Uint64

	// seen counts evaluations per nonce when track is set
	track bool
	mu    sync.Mutex
	seen  map[uint64]int
}

func newFakeEngine(winners ...*uint256.Int) *fakeEngine {
	f := &fakeEngine{
		winners: make(map[uint256.Int]bool),
		seen:    make(map[uint64]int),
	}
	for _, w := range winners {
		f.winners[*w] = true
	}
	return f
}

func (f *fakeEngine) Name() string {
	return "fake"
}

func (f *fakeEngine) NewExecutor() (Executor, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	return &fakeExecutor{engine: f}, nil
}

func (f *fakeEngine) seenCounts() map[uint64]int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[uint64]int, len(f.seen))
	for k, v := range f.seen {
		out[k] = v
	}
	return out
}

type fakeExecutor struct {
	engine *fakeEngine
	inputs [][]byte
	keep   bool
	out    [KECCAK256_HASH_SIZE]byte
}

func (x *fakeExecutor) Execute(input []byte) ([]byte, error) {
	f := x.engine
	f.calls.Add(1)
	if f.yield {
		defer runtime.Gosched()
	}

	if x.keep {
		x.inputs = append(x.inputs, append([]byte(nil), input...))
	}

	nonce := new(uint256.Int).SetBytes32(input[PREFIX_LENGTH:])

	if f.track {
		f.mu.Lock()
		f.seen[nonce.Uint64()]++
		f.mu.Unlock()
	}

	if f.failAt != nil && nonce.Eq(f.failAt) {
		return nil, errBroken
	}
	if f.short {
		return x.out[:KECCAK256_HASH_SIZE-1], nil
	}

	fill := byte(0xff)
	if f.winners[*nonce] {
		fill = 0x00
	}
	for i := range x.out {
		x.out[i] = fill
	}
	return x.out[:], nil
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Stats struct {
	Iterations  atomic.Uint64
	TotalHashes atomic.Uint64

	zeros     map[uint8]int
	zerosLock sync.Mutex

	lastTotalHashes uint64
}

func NewStats() *Stats {
	return &Stats{
		zeros: make(map[uint8]int),
	}
}

// IncZeros merges a worker-local histogram of leading zero nibbles.
func (s *Stats) IncZeros(zs map[uint8]int) {
	s.zerosLock.Lock()
	defer s.zerosLock.Unlock()

	for z, c := range zs {
		s.zeros[z] += c
	}
}

func (s *Stats) Zeros(z uint8) int {
	s.zerosLock.Lock()
	defer s.zerosLock.Unlock()
	return s.zeros[z]
}

func (s *Stats) Reset() {
	s.Iterations.Store(0)
	s.TotalHashes.Store(0)

	s.zerosLock.Lock()
	s.zeros = make(map[uint8]int)
	s.zerosLock.Unlock()

	s.lastTotalHashes = 0
}

func (s *Stats) PrintZeros(logger zerolog.Logger) {
	s.zerosLock.Lock()
	keys := make([]int, 0, len(s.zeros))
	for z := range s.zeros {
		keys = append(keys, int(z))
	}
	sort.Ints(keys)

	output := make([]string, 0, len(keys))
	for _, z := range keys {
		output = append(output, fmt.Sprintf("	[%d]: %d", z, s.zeros[uint8(z)]))
	}
	s.zerosLock.Unlock()

	if len(output) == 0 {
		return
	}

	logger.Debug().Msgf("[stats(%d)]: \n%s", len(output), strings.Join(output, "\n"))
}

// PrintProgress is not safe for concurrent use; a single ticker drives it.
func (s *Stats) PrintProgress(logger zerolog.Logger, run string, startime time.Time) {

	cptIterations := s.Iterations.Load()
	totalHashes := s.TotalHashes.Load()
	hashes := totalHashes - s.lastTotalHashes
	s.lastTotalHashes = totalHashes
	megahashes_per_second := (float64(totalHashes) / time.Since(startime).Seconds()) / 1_000_000

	logger.Debug().Msgf("r[%s] %d iterations | hashrate: %.5f MH/s | hashes: %d | total: %d", run, cptIterations, megahashes_per_second, hashes, totalHashes)
}

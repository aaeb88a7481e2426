// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"sync/atomic"

	"github.com/flokiorg/evm-miner/utils"
)

// scheduler hands nonce ranges to workers. Nothing is partitioned up front:
// a busy worker halves its own range whenever a worker is waiting and
// publishes the right half, so fast workers end up covering more of the
// space.
//
// pending counts ranges that are queued or being drained; the space is
// exhausted once it drops to zero.
type scheduler struct {
	queue   chan utils.Uint256Range
	idle    atomic.Int32
	pending atomic.Int64
	done    chan struct{}
}

func newScheduler(threads int, space utils.Uint256Range) *scheduler {
	s := &scheduler{
		queue: make(chan utils.Uint256Range, threads),
		done:  make(chan struct{}),
	}

	if space.IsEmpty() {
		close(s.done)
		return s
	}

	s.pending.Store(1)
	s.queue <- space
	return s
}

// take blocks until a range is available. It reports false when the space
// is exhausted or ctx is done.
func (s *scheduler) take(ctx context.Context) (utils.Uint256Range, bool) {
	s.idle.Add(1)
	defer s.idle.Add(-1)

	select {
	case r := <-s.queue:
		return r, true
	case <-s.done:
		return utils.Uint256Range{}, false
	case <-ctx.Done():
		return utils.Uint256Range{}, false
	}
}

// share splits r when more workers wait than ranges are queued.
func (s *scheduler) share(r *utils.Uint256Range) {
	if int(s.idle.Load()) <= len(s.queue) {
		return
	}

	right, ok := r.Split()
	if !ok {
		return
	}
	if right.IsEmpty() {
		r.Absorb(right)
		return
	}

	s.pending.Add(1)
	select {
	case s.queue <- right:
	default:
		s.pending.Add(-1)
		r.Absorb(right)
	}
}

// finish marks a taken range as fully drained.
func (s *scheduler) finish() {
	if s.pending.Add(-1) == 0 {
		close(s.done)
	}
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/flokiorg/evm-miner/contract"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/utils"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	Difficulty *utils.Difficulty
	First      *uint256.Int

	// Threads defaults to the number of CPUs.
	Threads int

	// Space defaults to the whole [0, 2^256).
	Space *utils.Uint256Range
}

func (p *Params) validate() error {
	if p.Difficulty == nil {
		return fmt.Errorf("%w: missing", ErrInvalidDifficulty)
	}
	if p.First == nil {
		return fmt.Errorf("%w: missing first nonce", ErrInvalidNonce)
	}
	return nil
}

func (p *Params) space() utils.Uint256Range {
	if p.Space != nil {
		return *p.Space
	}
	return utils.FullUint256Range()
}

func (p *Params) threads() int {
	if p.Threads > 0 {
		return p.Threads
	}
	return runtime.NumCPU()
}

// Search looks for a second nonce whose digest meets the difficulty, in
// parallel. Any satisfying nonce may be returned, not necessarily the
// smallest. An exhausted space yields (nil, nil). The first evaluation error
// stops every worker.
func Search(ctx context.Context, engine Engine, params Params, stats *Stats) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	prefix := contract.CallPrefix(params.First)
	threads := params.threads()
	sched := newScheduler(threads, params.space())

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, egCtx := errgroup.WithContext(searchCtx)

	var result atomic.Pointer[Result]

	for tid := 0; tid < threads; tid++ {
		eg.Go(func() error {
			inv, err := NewInvoker(engine, prefix, params.Difficulty, stats)
			if err != nil {
				return err
			}
			defer inv.Flush()

			for {
				r, ok := sched.take(egCtx)
				if !ok {
					return nil
				}

				res, err := drain(egCtx, sched, inv, &r)
				if err != nil {
					return err
				}
				if res != nil {
					if result.CompareAndSwap(nil, res) {
						cancel()
					}
					return nil
				}
				if egCtx.Err() != nil {
					return nil
				}

				sched.finish()
			}
		})
	}

	// an evaluation error discredits any result found concurrently
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if res := result.Load(); res != nil {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMiningCancelled, err)
	}
	return nil, nil
}

// drain evaluates r one nonce at a time and gives halves of it away to idle
// workers.
func drain(ctx context.Context, sched *scheduler, inv *Invoker, r *utils.Uint256Range) (*Result, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, nil
		default:
		}

		sched.share(r)

		nonce, ok := r.Next()
		if !ok {
			return nil, nil
		}

		res, err := inv.Work(&nonce)
		if err != nil || res != nil {
			return res, err
		}
	}
}

// SearchSequential enumerates the space in order on the calling goroutine,
// so it returns the smallest satisfying nonce.
func SearchSequential(ctx context.Context, engine Engine, params Params, stats *Stats) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	inv, err := NewInvoker(engine, contract.CallPrefix(params.First), params.Difficulty, stats)
	if err != nil {
		return nil, err
	}
	defer inv.Flush()

	space := params.space()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrMiningCancelled, ctx.Err())
		default:
		}

		nonce, ok := space.Next()
		if !ok {
			return nil, nil
		}

		res, err := inv.Work(&nonce)
		if err != nil || res != nil {
			return res, err
		}
	}
}

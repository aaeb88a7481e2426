// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flokiorg/evm-miner/common"
	"github.com/flokiorg/evm-miner/contract"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/utils"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

type Miner struct {
	cfg    *common.Config
	engine Engine
	stats  *Stats
	mu     sync.Mutex
	logger zerolog.Logger
}

// Solution is the outcome of one run. Result is nil when the searched space
// held no satisfying nonce.
type Solution struct {
	Run     string
	First   uint256.Int
	Result  *Result
	Elapsed time.Duration
	Hashes  uint64
}

func (s *Solution) Found() bool {
	return s.Result != nil
}

func NewMiner(cfg *common.Config, engine Engine, logger zerolog.Logger) *Miner {
	return &Miner{
		cfg:    cfg,
		engine: engine,
		stats:  NewStats(),
		logger: logger,
	}
}

func (m *Miner) Engine() Engine {
	return m.engine
}

// Mine runs a search for zeros leading zero nibbles. A nil first nonce is
// drawn at random. Runs are serialized.
func (m *Miner) Mine(ctx context.Context, zeros int, first *uint256.Int) (*Solution, error) {
	return m.mine(ctx, zeros, first, nil)
}

// MineRange is Mine restricted to a sub range of the nonce space.
func (m *Miner) MineRange(ctx context.Context, zeros int, first *uint256.Int, space utils.Uint256Range) (*Solution, error) {
	return m.mine(ctx, zeros, first, &space)
}

func (m *Miner) mine(ctx context.Context, zeros int, first *uint256.Int, space *utils.Uint256Range) (*Solution, error) {
	difficulty, err := utils.NewDifficulty(zeros)
	if err != nil {
		return nil, err
	}

	if first == nil {
		if first, err = utils.RandomNonce(); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Reset()

	run := uuid.NewString()
	logger := m.logger.With().Str("run", run).Str("algo", m.engine.Name()).Logger()

	logger.Info().Msgf("🌱 find hash with %d leading zeros", zeros)
	logger.Info().Msgf("target difficulty: %s", difficulty)
	logger.Info().Msgf("first nonce generated: %s", first.Dec())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startime := time.Now()

	var wg sync.WaitGroup
	if m.cfg.Progress > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ticker := time.NewTicker(m.cfg.Progress)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					m.stats.PrintProgress(logger, run, startime)

				case <-ctx.Done():
					return
				}
			}
		}()
	}

	res, err := Search(ctx, m.engine, Params{
		Difficulty: difficulty,
		First:      first,
		Threads:    int(m.cfg.Threads),
		Space:      space,
	}, m.stats)

	elapsed := time.Since(startime)
	cancel()
	wg.Wait()

	if err != nil {
		if errors.Is(err, ErrMiningCancelled) {
			logger.Warn().Err(err).Msgf("mining stopped after %s", elapsed)
		} else {
			logger.Error().Err(err).Msg("mining failed")
		}
		return nil, err
	}

	solution := &Solution{
		Run:     run,
		First:   *first,
		Result:  res,
		Elapsed: elapsed,
		Hashes:  m.stats.TotalHashes.Load(),
	}

	if res == nil {
		logger.Warn().Msgf("nonce space exhausted without solution after %s", elapsed)
		return solution, nil
	}

	if err := m.Verify(first, res, difficulty); err != nil {
		logger.Error().Err(err).Msg("❌ solution rejected")
		return nil, err
	}

	logger.Info().Msgf("✨ second nonce found: %s", res.Nonce.Dec())
	logger.Info().Msgf("✨ hash generated: %x", res.Digest)
	logger.Info().Msgf("✨ mined in %s (%d hashes)", elapsed, solution.Hashes)
	m.stats.PrintZeros(logger)

	return solution, nil
}

// Verify re-evaluates the pair on a fresh executor, decodes the return
// through the contract ABI and re-checks the difficulty.
func (m *Miner) Verify(first *uint256.Int, res *Result, difficulty *utils.Difficulty) error {
	executor, err := m.engine.NewExecutor()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEvaluation, err)
	}

	calldata := contract.EncodeCall(first, &res.Nonce)
	out, err := executor.Execute(calldata[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEvaluation, err)
	}

	hash, err := contract.DecodeHash(out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	if hash != res.Digest {
		return fmt.Errorf("%w: hash mismatch, got=%x want=%x", ErrVerification, hash, res.Digest)
	}
	if !difficulty.Meets(hash[:]) {
		return fmt.Errorf("%w: hash %x does not meet %s", ErrVerification, hash, difficulty)
	}
	return nil
}

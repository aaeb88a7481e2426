// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package mining

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/flokiorg/evm-miner/contract"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/utils"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
)

// deadline is checked once per batch of this many evaluations
const benchBatch = 1024

type BenchResult struct {
	Algo        string
	Evaluations uint64
	Elapsed     time.Duration
}

// Rate is in evaluations per second.
func (b BenchResult) Rate() float64 {
	if b.Elapsed <= 0 {
		return 0
	}
	return float64(b.Evaluations) / b.Elapsed.Seconds()
}

// Benchmark evaluates consecutive nonces on a single invoker for duration.
func Benchmark(ctx context.Context, engine Engine, first *uint256.Int, duration time.Duration) (BenchResult, error) {
	result := BenchResult{Algo: engine.Name()}

	// unreachable in practice, every digest is evaluated in full
	difficulty, err := utils.NewDifficulty(MAX_ZEROS)
	if err != nil {
		return result, err
	}

	inv, err := NewInvoker(engine, contract.CallPrefix(first), difficulty, nil)
	if err != nil {
		return result, err
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	space := utils.FullUint256Range()
	startime := time.Now()

	for ctx.Err() == nil {
		for i := 0; i < benchBatch; i++ {
			nonce, _ := space.Next()
			if _, err := inv.Digest(&nonce); err != nil {
				return result, err
			}
		}
		result.Evaluations += benchBatch
	}

	result.Elapsed = time.Since(startime)
	return result, nil
}

// RenderBench writes the results as a table, with the speed relative to the
// first row.
func RenderBench(w io.Writer, results []BenchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algo", "Evaluations", "MH/s", "Relative"})

	var base float64
	if len(results) > 0 {
		base = results[0].Rate()
	}

	for _, r := range results {
		relative := "-"
		if base > 0 {
			relative = fmt.Sprintf("%.2fx", r.Rate()/base)
		}
		table.Append([]string{
			r.Algo,
			fmt.Sprintf("%d", r.Evaluations),
			fmt.Sprintf("%.5f", r.Rate()/1_000_000),
			relative,
		})
	}

	table.Render()
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package evm runs the Pow program on the go-ethereum virtual machine.
package evm

import (
	"errors"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

// GAS_CEILING bounds a single evaluation, the program needs well under 1k.
const GAS_CEILING uint64 = 30_000_000

var ErrEmptyProgram = errors.New("empty program")

// chainConfig activates every fork up to Cancun at genesis. The compiled
// program uses PUSH0, which requires Shanghai.
func chainConfig() *params.ChainConfig {
	var (
		shanghaiTime = uint64(0)
		cancunTime   = uint64(0)
	)
	return &params.ChainConfig{
		ChainID:                 big.NewInt(1),
		HomesteadBlock:          new(big.Int),
		DAOForkBlock:            new(big.Int),
		DAOForkSupport:          false,
		EIP150Block:             new(big.Int),
		EIP155Block:             new(big.Int),
		EIP158Block:             new(big.Int),
		ByzantiumBlock:          new(big.Int),
		ConstantinopleBlock:     new(big.Int),
		PetersburgBlock:         new(big.Int),
		IstanbulBlock:           new(big.Int),
		MuirGlacierBlock:        new(big.Int),
		BerlinBlock:             new(big.Int),
		LondonBlock:             new(big.Int),
		ArrowGlacierBlock:       new(big.Int),
		GrayGlacierBlock:        new(big.Int),
		MergeNetsplitBlock:      new(big.Int),
		ShanghaiTime:            &shanghaiTime,
		CancunTime:              &cancunTime,
		TerminalTotalDifficulty: new(big.Int),
	}
}

// blockContext returns a post-merge genesis block; Random must be set for
// the merge rules, and thus Shanghai, to apply.
func blockContext() vm.BlockContext {
	random := common.Hash{}
	return vm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
		Coinbase:    common.Address{},
		GasLimit:    math.MaxUint64,
		BlockNumber: new(big.Int),
		Time:        0,
		Difficulty:  new(big.Int),
		BaseFee:     new(big.Int),
		BlobBaseFee: new(big.Int),
		Random:      &random,
	}
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package evm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/flokiorg/evm-miner/contract"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
)

// CallEngine performs a complete message call per evaluation against an
// in-memory state holding the program. It is the slow reference path.
type CallEngine struct {
	code    []byte
	address common.Address
	caller  common.Address
	gas     uint64
}

func NewCallEngine(code []byte, address, caller common.Address, gas uint64) *CallEngine {
	return &CallEngine{
		code:    code,
		address: address,
		caller:  caller,
		gas:     gas,
	}
}

func NewPowCall() *CallEngine {
	return NewCallEngine(contract.Bytecode(), contract.Address, contract.Caller, GAS_CEILING)
}

func (e *CallEngine) Name() string {
	return "evm_call"
}

func (e *CallEngine) NewExecutor() (Executor, error) {
	if len(e.code) == 0 {
		return nil, ErrEmptyProgram
	}

	statedb, err := state.New(types.EmptyRootHash, state.NewDatabase(rawdb.NewMemoryDatabase()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create state: %w", err)
	}
	statedb.SetCode(e.address, e.code)

	block := blockContext()
	cfg := &runtime.Config{
		ChainConfig: chainConfig(),
		Origin:      e.caller,
		GasLimit:    e.gas,
		GasPrice:    new(big.Int),
		Value:       new(big.Int),
		BlockNumber: block.BlockNumber,
		Difficulty:  block.Difficulty,
		BaseFee:     block.BaseFee,
		BlobBaseFee: block.BlobBaseFee,
		Random:      block.Random,
		State:       statedb,
	}

	return &callExecutor{cfg: cfg, address: e.address}, nil
}

type callExecutor struct {
	cfg     *runtime.Config
	address common.Address
}

func (x *callExecutor) Execute(input []byte) ([]byte, error) {
	ret, _, err := runtime.Call(x.address, input, x.cfg)
	// drop the journal so repeated calls do not accumulate state
	x.cfg.State.Finalise(false)
	return ret, err
}

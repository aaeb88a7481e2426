// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flokiorg/evm-miner/contract"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
)

// InterpreterEngine drives the bare EVM interpreter, bypassing evm.Call.
// Each executor builds its EVM and Contract once; a call only swaps the
// input and refills the gas. There is no StateDB behind it.
type InterpreterEngine struct {
	code     []byte
	codeHash common.Hash
	address  common.Address
	caller   common.Address
	gas      uint64
}

func NewInterpreterEngine(code []byte, address, caller common.Address, gas uint64) *InterpreterEngine {
	return newInterpreterEngine(code, crypto.Keccak256Hash(code), address, caller, gas)
}

// NewPowInterpreter returns the interpreter engine for the Pow program.
func NewPowInterpreter() *InterpreterEngine {
	return newInterpreterEngine(contract.Bytecode(), contract.CodeHash(), contract.Address, contract.Caller, GAS_CEILING)
}

func newInterpreterEngine(code []byte, codeHash common.Hash, address, caller common.Address, gas uint64) *InterpreterEngine {
	return &InterpreterEngine{
		code:     code,
		codeHash: codeHash,
		address:  address,
		caller:   caller,
		gas:      gas,
	}
}

func (e *InterpreterEngine) Name() string {
	return "evm_interpreter"
}

func (e *InterpreterEngine) NewExecutor() (Executor, error) {
	if len(e.code) == 0 {
		return nil, ErrEmptyProgram
	}

	txCtx := vm.TxContext{
		Origin:   e.caller,
		GasPrice: new(big.Int),
	}
	evm := vm.NewEVM(blockContext(), txCtx, nil, chainConfig(), vm.Config{})

	c := vm.NewContract(vm.AccountRef(e.caller), vm.AccountRef(e.address), new(uint256.Int), e.gas)
	c.SetCallCode(&e.address, e.codeHash, e.code)

	return &interpreterExecutor{
		interpreter: evm.Interpreter(),
		contract:    c,
		gas:         e.gas,
	}, nil
}

type interpreterExecutor struct {
	interpreter *vm.EVMInterpreter
	contract    *vm.Contract
	gas         uint64
}

func (x *interpreterExecutor) Execute(input []byte) ([]byte, error) {
	x.contract.Gas = x.gas
	return x.interpreter.Run(x.contract, input, false)
}

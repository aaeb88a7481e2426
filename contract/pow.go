// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package contract holds the fixed Pow program and its call layout.
//
// Pow exposes a single pure method:
//
//	function mine(uint256 nonce1, uint256 nonce2) returns (bytes32 hashed)
//
// which returns keccak256(abi.encode(nonce1, nonce2)). A call input is
// [selector:4][nonce1:32][nonce2:32], each slot big-endian.
package contract

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
)

const (
	MethodName = "mine"

	// runtime code only, the constructor is stripped so the program can be
	// installed directly at Address
	bytecodeHex = "0x6080604052348015600e575f80fd5b50600436106026575f3560e01c8063071e950314602a575b5f80fd5b606160353660046073565b604080516020808201949094528082019290925280518083038201815260609092019052805191012090565b60405190815260200160405180910390f35b5f80604083850312156083575f80fd5b5050803592602090910135915056fea26469706673582212201676b931d82af5bbf61cc03592b8a3e8c28dac7cdf08deae042e43adf84b041264736f6c63430008160033"

	abiJSON = `[{"inputs":[{"internalType":"uint256","name":"nonce1","type":"uint256"},{"internalType":"uint256","name":"nonce2","type":"uint256"}],"name":"mine","outputs":[{"internalType":"bytes32","name":"hashed","type":"bytes32"}],"stateMutability":"pure","type":"function"}]`
)

var (
	// Address is where the program is installed.
	Address = common.HexToAddress("0xd9145CCE52D386f254917e481eB44e9943F39138")

	// Caller is the fixed sender of every call.
	Caller = common.Address{}

	// Selector of mine(uint256,uint256).
	Selector = [SELECTOR_LENGTH]byte{0x07, 0x1e, 0x95, 0x03}

	bytecode = common.FromHex(bytecodeHex)
	codeHash = crypto.Keccak256Hash(bytecode)

	ErrMalformedOutput = errors.New("malformed program output")
)

// Bytecode returns a copy of the runtime bytecode.
func Bytecode() []byte {
	return common.CopyBytes(bytecode)
}

func CodeHash() common.Hash {
	return codeHash
}

var parsedABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
})

func ABI() (abi.ABI, error) {
	return parsedABI()
}

// CallPrefix returns the invariant head of every call input of a run.
func CallPrefix(first *uint256.Int) [PREFIX_LENGTH]byte {
	var prefix [PREFIX_LENGTH]byte
	copy(prefix[:SELECTOR_LENGTH], Selector[:])
	first.WriteToArray32((*[NONCE_LENGTH]byte)(prefix[SELECTOR_LENGTH:]))
	return prefix
}

func EncodeCall(first, second *uint256.Int) [CALLDATA_LENGTH]byte {
	var calldata [CALLDATA_LENGTH]byte
	prefix := CallPrefix(first)
	copy(calldata[:], prefix[:])
	second.WriteToArray32((*[NONCE_LENGTH]byte)(calldata[PREFIX_LENGTH:]))
	return calldata
}

// DecodeHash unpacks the bytes32 returned by mine.
func DecodeHash(ret []byte) ([KECCAK256_HASH_SIZE]byte, error) {
	var hash [KECCAK256_HASH_SIZE]byte

	parsed, err := ABI()
	if err != nil {
		return hash, err
	}

	values, err := parsed.Methods[MethodName].Outputs.Unpack(ret)
	if err != nil {
		return hash, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(values) != 1 {
		return hash, fmt.Errorf("%w: %d return values", ErrMalformedOutput, len(values))
	}

	hash, ok := values[0].([KECCAK256_HASH_SIZE]byte)
	if !ok {
		return hash, fmt.Errorf("%w: unexpected type %T", ErrMalformedOutput, values[0])
	}
	return hash, nil
}

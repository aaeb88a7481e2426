// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package cpu

import (
	"bytes"
	"fmt"

	"github.com/flokiorg/evm-miner/contract"
	"github.com/flokiorg/evm-miner/hash/keccak"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
)

// NativeKeccak computes what the Pow program computes, without a VM:
// keccak256 over the two ABI-encoded nonces.
type NativeKeccak struct{}

func NewNativeKeccak() *NativeKeccak {
	return &NativeKeccak{}
}

func (nk *NativeKeccak) Name() string {
	return "keccak_native"
}

func (nk *NativeKeccak) NewExecutor() (Executor, error) {
	return &keccakExecutor{hasher: keccak.NewHasher()}, nil
}

type keccakExecutor struct {
	hasher *keccak.Hasher
	out    [keccak.Size]byte
}

// Execute rejects what the program would revert on. The returned slice is
// only valid until the next call.
func (x *keccakExecutor) Execute(input []byte) ([]byte, error) {
	if len(input) != CALLDATA_LENGTH {
		return nil, fmt.Errorf("calldata length %d, expected %d", len(input), CALLDATA_LENGTH)
	}
	if !bytes.Equal(input[:SELECTOR_LENGTH], contract.Selector[:]) {
		return nil, fmt.Errorf("unknown selector %x", input[:SELECTOR_LENGTH])
	}

	x.hasher.Sum256(input[SELECTOR_LENGTH:], &x.out)
	return x.out[:], nil
}

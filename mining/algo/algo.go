// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package algo

import (
	"fmt"
	"strings"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/mining/algo/cpu"
	"github.com/flokiorg/evm-miner/mining/algo/evm"
)

const (
	EVM_INTERPRETER = "evm_interpreter"
	EVM_CALL        = "evm_call"
	KECCAK_NATIVE   = "keccak_native"
)

// Names lists the supported algos, fastest evm path first.
func Names() []string {
	return []string{EVM_INTERPRETER, EVM_CALL, KECCAK_NATIVE}
}

func Parse(input string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {

	case EVM_INTERPRETER:
		return evm.NewPowInterpreter(), nil

	case EVM_CALL:
		return evm.NewPowCall(), nil

	case KECCAK_NATIVE:
		return cpu.NewNativeKeccak(), nil

	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgo, input)
}

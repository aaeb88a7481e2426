// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"errors"
	"testing"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNonce(t *testing.T) {
	tests := []struct {
		input    string
		expected *uint256.Int
	}{
		{"0", uint256.NewInt(0)},
		{"12345", uint256.NewInt(12345)},
		{"0x00ff", uint256.NewInt(255)},
		{"0017", uint256.NewInt(17)},
		{" 0X10 ", uint256.NewInt(16)},
		{"0x" + "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", new(uint256.Int).SetAllOne()},
	}

	for _, test := range tests {
		nonce, err := ParseNonce(test.input)
		require.NoError(t, err, test.input)
		assert.True(t, nonce.Eq(test.expected), "input=%q got=%s", test.input, nonce.Hex())
	}
}

func TestParseNonceInvalid(t *testing.T) {
	invalid := []string{
		"", "-1", "+1", "0x-1", "0x", "0xzz", "0b101", "0o17", "1_000", "0x_ff", "ff",
		"0x1" + "0000000000000000000000000000000000000000000000000000000000000000",
	}
	for _, input := range invalid {
		_, err := ParseNonce(input)
		if !errors.Is(err, ErrInvalidNonce) {
			t.Fatalf("input=%q: unexpected error, want=%v got=%v", input, ErrInvalidNonce, err)
		}
	}
}

func TestRandomNonce(t *testing.T) {
	a, err := RandomNonce()
	require.NoError(t, err)
	b, err := RandomNonce()
	require.NoError(t, err)
	assert.False(t, a.Eq(b))
}

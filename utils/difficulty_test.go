// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestOf(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s + strings.Repeat("a", 64-len(s)))
	require.NoError(t, err)
	return b
}

func TestDifficultyTarget(t *testing.T) {
	for zeros := 0; zeros <= MAX_ZEROS; zeros++ {
		d, err := NewDifficulty(zeros)
		require.NoError(t, err)

		expected := strings.Repeat("0", zeros) + strings.Repeat("f", MAX_ZEROS-zeros)
		require.Equal(t, expected, hex.EncodeToString(d.Target[:]), "zeros=%d", zeros)
		require.Equal(t, (zeros+1)/2, d.TakeFirst, "zeros=%d", zeros)
	}
}

func TestDifficultyInvalid(t *testing.T) {
	for _, zeros := range []int{-1, 65, 255} {
		_, err := NewDifficulty(zeros)
		if !errors.Is(err, ErrInvalidDifficulty) {
			t.Fatalf("zeros=%d: unexpected error, want=%v got=%v", zeros, ErrInvalidDifficulty, err)
		}
	}
}

func TestDifficultyMeets(t *testing.T) {
	tests := []struct {
		zeros  int
		digest string
		meets  bool
	}{
		{0, "ff", true},
		{1, "0f", true},
		{1, "10", false},
		{2, "00", true},
		{2, "01", false},
		{3, "000f", true},
		{3, "0010", false},
		{4, "0000", true},
		{4, "0001", false},
		{5, "00000f", true},
		{5, "0000f0", false},
	}

	for _, test := range tests {
		d, err := NewDifficulty(test.zeros)
		require.NoError(t, err)
		assert.Equal(t, test.meets, d.Meets(digestOf(t, test.digest)), "zeros=%d digest=%s", test.zeros, test.digest)
	}
}

// The boundary byte at odd difficulties is compared byte-wise against 0x0f,
// every low nibble passes and every non-zero high nibble fails.
func TestDifficultyOddBoundaryByte(t *testing.T) {
	d, err := NewDifficulty(3)
	require.NoError(t, err)

	digest := make([]byte, KECCAK256_HASH_SIZE)
	for b := 0; b < 256; b++ {
		digest[1] = byte(b)
		assert.Equal(t, b <= 0x0f, d.Meets(digest), "boundary byte %02x", b)
	}
}

func TestDifficultyFull(t *testing.T) {
	d, err := NewDifficulty(MAX_ZEROS)
	require.NoError(t, err)

	digest := make([]byte, KECCAK256_HASH_SIZE)
	assert.True(t, d.Meets(digest))

	digest[KECCAK256_HASH_SIZE-1] = 1
	assert.False(t, d.Meets(digest))
}

func TestDifficultyShortDigest(t *testing.T) {
	d, err := NewDifficulty(8)
	require.NoError(t, err)
	assert.False(t, d.Meets([]byte{0, 0}))

	zero, err := NewDifficulty(0)
	require.NoError(t, err)
	assert.True(t, zero.Meets(nil))
}

func TestLeadingZeros(t *testing.T) {
	tests := map[string]uint8{
		"ff":   0,
		"0f":   1,
		"00ff": 2,
		"000a": 3,
	}
	for digest, zeros := range tests {
		assert.Equal(t, zeros, LeadingZeros(digestOf(t, digest)), digest)
	}
	assert.Equal(t, uint8(MAX_ZEROS), LeadingZeros(make([]byte, KECCAK256_HASH_SIZE)))
}

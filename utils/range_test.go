// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end uint64) Uint256Range {
	t.Helper()
	r, err := NewUint256Range(uint256.NewInt(start), uint256.NewInt(end))
	require.NoError(t, err)
	return r
}

func drain(r Uint256Range) []uint64 {
	var out []uint64
	for {
		n, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, n.Uint64())
	}
}

// splitAll splits recursively until every leaf holds a single nonce or
// nothing, returning the leaves in order.
func splitAll(r Uint256Range) []Uint256Range {
	if l, _ := r.LenUint64(); l <= 1 {
		return []Uint256Range{r}
	}
	right, ok := r.Split()
	if !ok {
		return []Uint256Range{r}
	}
	return append(splitAll(r), splitAll(right)...)
}

func TestRangeNext(t *testing.T) {
	r := mustRange(t, 5, 9)
	assert.Equal(t, []uint64{5, 6, 7, 8}, drain(r))

	empty := mustRange(t, 7, 7)
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, drain(empty))
}

func TestRangeInvalid(t *testing.T) {
	_, err := NewUint256Range(uint256.NewInt(10), uint256.NewInt(9))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("unexpected error, want=%v got=%v", ErrInvalidRange, err)
	}
}

func TestRangeSplit(t *testing.T) {
	tests := []struct {
		name      string
		start     uint64
		end       uint64
		left      []uint64
		right     []uint64
		splitable bool
	}{
		{"even", 0, 4, []uint64{0, 1}, []uint64{2, 3}, true},
		{"odd goes left", 10, 13, []uint64{10, 11}, []uint64{12}, true},
		{"single", 3, 4, []uint64{3}, nil, true},
		{"empty", 3, 3, nil, nil, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := mustRange(t, test.start, test.end)
			right, ok := r.Split()
			require.Equal(t, test.splitable, ok)
			assert.Equal(t, test.left, drain(r))
			assert.Equal(t, test.right, drain(right))
		})
	}
}

func TestRangeSplitCoversInterval(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		start := rnd.Uint64() >> 1
		end := start + uint64(rnd.Intn(300))
		r := mustRange(t, start, end)

		var got []uint64
		var expectedStart = start
		for _, leaf := range splitAll(r) {
			if leaf.IsEmpty() {
				continue
			}
			s := leaf.Start()
			require.Equal(t, expectedStart, s.Uint64(), "gap or overlap in %s", leaf.String())
			values := drain(leaf)
			expectedStart += uint64(len(values))
			got = append(got, values...)
		}

		require.Equal(t, end, expectedStart)
		require.Equal(t, drain(r), got)
	}
}

func TestFullRangeSplit(t *testing.T) {
	r := FullUint256Range()
	require.Equal(t, new(big.Int).Lsh(big.NewInt(1), 256), r.Len())

	_, ok := r.LenUint64()
	require.False(t, ok, "2^256 cannot be reported natively")

	right, ok := r.Split()
	require.True(t, ok)

	mid := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	start := right.Start()
	assert.True(t, start.Eq(mid))
	end, top := r.End()
	assert.False(t, top)
	assert.True(t, end.Eq(mid))
	_, top = right.End()
	assert.True(t, top)

	half := new(big.Int).Lsh(big.NewInt(1), 255)
	assert.Equal(t, half, r.Len())
	assert.Equal(t, half, right.Len())

	require.True(t, r.Absorb(right))
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(1), 256), r.Len())
}

func TestRangeToTopEnds(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	start := new(uint256.Int).SubUint64(max, 2)

	r := NewUint256RangeToTop(start)
	l, ok := r.LenUint64()
	require.True(t, ok)
	require.EqualValues(t, 3, l)

	var got []uint256.Int
	for {
		n, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, n)
	}

	require.Len(t, got, 3)
	assert.True(t, got[2].Eq(max))
	assert.True(t, r.IsEmpty())
}

func TestRangeSplitNearTop(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	start := new(uint256.Int).SubUint64(max, 4)

	r := NewUint256RangeToTop(start) // 5 nonces
	right, ok := r.Split()
	require.True(t, ok)

	left, _ := r.LenUint64()
	rest, _ := right.LenUint64()
	assert.EqualValues(t, 3, left)
	assert.EqualValues(t, 2, rest)

	r.Next()
	r.Next()
	r.Next()
	assert.True(t, r.IsEmpty())
}

func TestRangeAbsorbRejectsGap(t *testing.T) {
	left := mustRange(t, 0, 4)
	right := mustRange(t, 5, 9)
	assert.False(t, left.Absorb(right))
}

func BenchmarkRangeNext(b *testing.B) {
	r := FullUint256Range()
	for i := 0; i < b.N; i++ {
		r.Next()
	}
}

func TestRangeSplitLastNonce(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	r := NewUint256RangeToTop(max)

	right, ok := r.Split()
	require.True(t, ok)
	assert.True(t, right.IsEmpty())

	l, ok := r.LenUint64()
	require.True(t, ok)
	assert.EqualValues(t, 1, l)

	n, ok := r.Next()
	require.True(t, ok)
	assert.True(t, n.Eq(max))
	assert.True(t, r.IsEmpty())
}

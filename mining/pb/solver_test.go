// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package pb

import (
	"errors"
	"testing"
	"time"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestSolveRequestDefaults(t *testing.T) {
	s, err := (&SolveRequest{Zeros: 4}).ToStruct()
	require.NoError(t, err)
	assert.NotContains(t, s.GetFields(), fieldFirst)
	assert.NotContains(t, s.GetFields(), fieldTimeout)

	req, err := SolveRequestFromStruct(s)
	require.NoError(t, err)
	assert.EqualValues(t, 4, req.Zeros)
	assert.Nil(t, req.First)
	assert.Zero(t, req.Timeout)
}

func TestSolveRequestFields(t *testing.T) {
	s, err := (&SolveRequest{Zeros: 3, First: new(uint256.Int).SetAllOne(), Timeout: 90 * time.Second}).ToStruct()
	require.NoError(t, err)

	req, err := SolveRequestFromStruct(s)
	require.NoError(t, err)
	assert.True(t, req.First.Eq(new(uint256.Int).SetAllOne()))
	assert.Equal(t, 90*time.Second, req.Timeout)
}

func TestSolveRequestInvalidZeros(t *testing.T) {
	for _, zeros := range []interface{}{65.0, -1.0, 2.5} {
		s, err := structpb.NewStruct(map[string]interface{}{fieldZeros: zeros})
		require.NoError(t, err)

		_, err = SolveRequestFromStruct(s)
		if !errors.Is(err, ErrInvalidDifficulty) {
			t.Fatalf("zeros=%v: unexpected error, want=%v got=%v", zeros, ErrInvalidDifficulty, err)
		}
	}

	_, err := SolveRequestFromStruct(&structpb.Struct{})
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestSolveRequestZerosWrongKind(t *testing.T) {
	for _, zeros := range []interface{}{"64", true, nil, []interface{}{64.0}, map[string]interface{}{"n": 64.0}} {
		s, err := structpb.NewStruct(map[string]interface{}{fieldZeros: zeros})
		require.NoError(t, err)

		req, err := SolveRequestFromStruct(s)
		assert.Nil(t, req, "zeros=%v", zeros)
		if !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("zeros=%v: unexpected error, want=%v got=%v", zeros, ErrMalformedMessage, err)
		}
	}
}

func TestSolveReplyWrongKind(t *testing.T) {
	valid := func() map[string]interface{} {
		return map[string]interface{}{
			fieldRun:     "run",
			fieldFound:   false,
			fieldElapsed: "1s",
			fieldHashes:  10.0,
		}
	}

	tests := []struct {
		field string
		value interface{}
	}{
		{fieldFound, "true"},
		{fieldFound, 1.0},
		{fieldFound, nil},
		{fieldHashes, "10"},
		{fieldHashes, true},
		{fieldHashes, -1.0},
		{fieldHashes, 1.5},
	}

	for _, test := range tests {
		fields := valid()
		fields[test.field] = test.value
		s, err := structpb.NewStruct(fields)
		require.NoError(t, err)

		_, err = SolveReplyFromStruct(s)
		if !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("%s=%v: unexpected error, want=%v got=%v", test.field, test.value, ErrMalformedMessage, err)
		}
	}

	for _, field := range []string{fieldFound, fieldHashes} {
		fields := valid()
		delete(fields, field)
		s, err := structpb.NewStruct(fields)
		require.NoError(t, err)

		_, err = SolveReplyFromStruct(s)
		require.ErrorIs(t, err, ErrMalformedMessage, field)
	}

	s, err := structpb.NewStruct(valid())
	require.NoError(t, err)
	reply, err := SolveReplyFromStruct(s)
	require.NoError(t, err)
	assert.EqualValues(t, 10, reply.Hashes)
}

func TestSolveReplyFound(t *testing.T) {
	reply := &SolveReply{
		Run:     "run",
		Found:   true,
		First:   uint256.NewInt(7),
		Nonce:   uint256.NewInt(627),
		Elapsed: time.Millisecond,
		Hashes:  628,
	}
	reply.Hash[0] = 0x00
	reply.Hash[1] = 0xac

	s, err := reply.ToStruct()
	require.NoError(t, err)

	decoded, err := SolveReplyFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, reply, decoded)
}

func TestSolveReplyNotFound(t *testing.T) {
	s, err := (&SolveReply{Run: "run", First: uint256.NewInt(1)}).ToStruct()
	require.NoError(t, err)
	assert.NotContains(t, s.GetFields(), fieldNonce)

	decoded, err := SolveReplyFromStruct(s)
	require.NoError(t, err)
	assert.False(t, decoded.Found)
	assert.Nil(t, decoded.Nonce)
}

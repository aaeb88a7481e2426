// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package pb

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/utils"
	"github.com/holiman/uint256"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldZeros   = "zeros"
	fieldFirst   = "first"
	fieldTimeout = "timeout"
	fieldFound   = "found"
	fieldNonce   = "nonce"
	fieldHash    = "hash"
	fieldElapsed = "elapsed"
	fieldHashes  = "hashes"
	fieldRun     = "run"
)

var ErrMalformedMessage = errors.New("malformed solver message")

type SolveRequest struct {
	Zeros uint8

	// First is drawn by the server when nil.
	First *uint256.Int

	Timeout time.Duration
}

func (r *SolveRequest) ToStruct() (*structpb.Struct, error) {
	fields := map[string]interface{}{
		fieldZeros: float64(r.Zeros),
	}
	if r.First != nil {
		fields[fieldFirst] = r.First.Hex()
	}
	if r.Timeout > 0 {
		fields[fieldTimeout] = r.Timeout.String()
	}
	return structpb.NewStruct(fields)
}

func SolveRequestFromStruct(s *structpb.Struct) (*SolveRequest, error) {
	fields := s.GetFields()

	n, err := numberField(fields, fieldZeros)
	if err != nil {
		return nil, err
	}
	if n != math.Trunc(n) || n < 0 || n > MAX_ZEROS {
		return nil, fmt.Errorf("%w: %v leading zeros, expected 0..%d", ErrInvalidDifficulty, n, MAX_ZEROS)
	}

	req := &SolveRequest{Zeros: uint8(n)}

	if v, ok := fields[fieldFirst]; ok {
		first, err := utils.ParseNonce(v.GetStringValue())
		if err != nil {
			return nil, err
		}
		req.First = first
	}

	if v, ok := fields[fieldTimeout]; ok {
		timeout, err := time.ParseDuration(v.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, fieldTimeout, err)
		}
		req.Timeout = timeout
	}

	return req, nil
}

type SolveReply struct {
	Run     string
	Found   bool
	First   *uint256.Int
	Nonce   *uint256.Int
	Hash    [KECCAK256_HASH_SIZE]byte
	Elapsed time.Duration
	Hashes  uint64
}

func (r *SolveReply) ToStruct() (*structpb.Struct, error) {
	fields := map[string]interface{}{
		fieldRun:     r.Run,
		fieldFound:   r.Found,
		fieldElapsed: r.Elapsed.String(),
		fieldHashes:  float64(r.Hashes),
	}
	if r.First != nil {
		fields[fieldFirst] = r.First.Hex()
	}
	if r.Found {
		fields[fieldNonce] = r.Nonce.Hex()
		fields[fieldHash] = hex.EncodeToString(r.Hash[:])
	}
	return structpb.NewStruct(fields)
}

func SolveReplyFromStruct(s *structpb.Struct) (*SolveReply, error) {
	fields := s.GetFields()

	found, err := boolField(fields, fieldFound)
	if err != nil {
		return nil, err
	}
	hashes, err := numberField(fields, fieldHashes)
	if err != nil {
		return nil, err
	}
	if hashes != math.Trunc(hashes) || hashes < 0 {
		return nil, fmt.Errorf("%w: %s %v", ErrMalformedMessage, fieldHashes, hashes)
	}

	reply := &SolveReply{
		Run:    fields[fieldRun].GetStringValue(),
		Found:  found,
		Hashes: uint64(hashes),
	}

	if v, ok := fields[fieldElapsed]; ok {
		if reply.Elapsed, err = time.ParseDuration(v.GetStringValue()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, fieldElapsed, err)
		}
	}
	if v, ok := fields[fieldFirst]; ok {
		if reply.First, err = utils.ParseNonce(v.GetStringValue()); err != nil {
			return nil, err
		}
	}

	if !reply.Found {
		return reply, nil
	}

	if reply.Nonce, err = utils.ParseNonce(fields[fieldNonce].GetStringValue()); err != nil {
		return nil, err
	}
	hash, err := hex.DecodeString(fields[fieldHash].GetStringValue())
	if err != nil || len(hash) != KECCAK256_HASH_SIZE {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, fieldHash)
	}
	copy(reply.Hash[:], hash)

	return reply, nil
}

func numberField(fields map[string]*structpb.Value, name string) (float64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedMessage, name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformedMessage, name)
	}
	return n.NumberValue, nil
}

func boolField(fields map[string]*structpb.Value, name string) (bool, error) {
	v, ok := fields[name]
	if !ok {
		return false, fmt.Errorf("%w: missing %s", ErrMalformedMessage, name)
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a bool", ErrMalformedMessage, name)
	}
	return b.BoolValue, nil
}

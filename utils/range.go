// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"fmt"
	"math/big"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
)

var one = uint256.NewInt(1)

// Uint256Range is the half-open nonce interval [start, end). The end bound
// may be 2^256, which does not fit a uint256, so it is carried by the top
// flag instead; end is zero whenever top is set.
//
// A range is a plain value: copies never share state.
type Uint256Range struct {
	start uint256.Int
	end   uint256.Int
	top   bool
}

func NewUint256Range(start, end *uint256.Int) (Uint256Range, error) {
	if start.Gt(end) {
		return Uint256Range{}, fmt.Errorf("%w: start %s > end %s", ErrInvalidRange, start.Hex(), end.Hex())
	}
	return Uint256Range{start: *start, end: *end}, nil
}

// NewUint256RangeToTop returns [start, 2^256).
func NewUint256RangeToTop(start *uint256.Int) Uint256Range {
	return Uint256Range{start: *start, top: true}
}

// FullUint256Range returns [0, 2^256).
func FullUint256Range() Uint256Range {
	return Uint256Range{top: true}
}

func (r *Uint256Range) Start() uint256.Int {
	return r.start
}

// End returns the exclusive end bound and whether it is 2^256.
func (r *Uint256Range) End() (uint256.Int, bool) {
	return r.end, r.top
}

func (r *Uint256Range) IsEmpty() bool {
	return !r.top && r.start.Eq(&r.end)
}

// Next yields start and advances it by one.
func (r *Uint256Range) Next() (uint256.Int, bool) {
	if r.IsEmpty() {
		return uint256.Int{}, false
	}

	current := r.start
	if _, overflow := r.start.AddOverflow(&r.start, one); overflow {
		// yielded 2^256-1, the range is done
		r.start.Clear()
		r.end.Clear()
		r.top = false
	}
	return current, true
}

// Split keeps [start, mid) in r and returns [mid, end) with
// mid = start + ceil(len/2). It reports false only for an empty range; a
// range of length one splits into itself and an empty right half.
func (r *Uint256Range) Split() (Uint256Range, bool) {
	if r.IsEmpty() {
		return Uint256Range{}, false
	}

	var half uint256.Int
	if length, whole := r.length(); whole {
		half.Lsh(one, 255)
	} else {
		odd := length[0] & 1
		half.Rsh(&length, 1)
		half.AddUint64(&half, odd)
	}

	var mid uint256.Int
	if _, overflow := mid.AddOverflow(&r.start, &half); overflow {
		// a single nonce below 2^256: r keeps it, the right half is empty
		return Uint256Range{}, true
	}

	right := Uint256Range{start: mid, end: r.end, top: r.top}
	r.end = mid
	r.top = false
	return right, true
}

// Absorb extends r by a right neighbour that starts where r ends. It undoes
// a Split and reports whether the ranges were contiguous.
func (r *Uint256Range) Absorb(right Uint256Range) bool {
	if r.top || !r.end.Eq(&right.start) {
		return false
	}
	r.end = right.end
	r.top = right.top
	return true
}

// Len returns the exact number of nonces in the range.
func (r *Uint256Range) Len() *big.Int {
	length, whole := r.length()
	if whole {
		return new(big.Int).Lsh(big.NewInt(1), 256)
	}
	return length.ToBig()
}

// LenUint64 reports the length when it fits a native word, and false when
// the range is too large to be counted natively.
func (r *Uint256Range) LenUint64() (uint64, bool) {
	length, whole := r.length()
	if whole || !length.IsUint64() {
		return 0, false
	}
	return length.Uint64(), true
}

func (r *Uint256Range) String() string {
	if r.top {
		return fmt.Sprintf("[%s, 2^256)", r.start.Hex())
	}
	return fmt.Sprintf("[%s, %s)", r.start.Hex(), r.end.Hex())
}

// length is end - start; whole is set when the length is exactly 2^256.
func (r *Uint256Range) length() (length uint256.Int, whole bool) {
	if r.top {
		if r.start.IsZero() {
			return length, true
		}
		// 2^256 - start, computed modulo 2^256
		length.Sub(&length, &r.start)
		return length, false
	}
	length.Sub(&r.end, &r.start)
	return length, false
}

// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"fmt"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
)

// Difficulty is the leading-zero-nibble target of a mining run.
//
// Meets compares the first TakeFirst bytes of a digest against Target byte
// by byte. With an odd number of zeros the boundary byte of Target is 0x0f,
// so that byte passes iff its high nibble is zero and its low nibble is left
// free.
type Difficulty struct {
	Zeros     uint8
	Target    [KECCAK256_HASH_SIZE]byte
	TakeFirst int
}

func NewDifficulty(zeros int) (*Difficulty, error) {
	if zeros < 0 || zeros > MAX_ZEROS {
		return nil, fmt.Errorf("%w: %d leading zeros, expected 0..%d", ErrInvalidDifficulty, zeros, MAX_ZEROS)
	}

	d := &Difficulty{
		Zeros:     uint8(zeros),
		TakeFirst: (zeros + (zeros & 1)) / 2,
	}
	for i := range d.Target {
		d.Target[i] = 0xff
	}
	for i := 0; i < zeros/2; i++ {
		d.Target[i] = 0x00
	}
	if zeros&1 == 1 {
		d.Target[zeros/2] = 0x0f
	}

	return d, nil
}

func (d *Difficulty) Meets(digest []byte) bool {
	if len(digest) < d.TakeFirst {
		return false
	}
	for i := 0; i < d.TakeFirst; i++ {
		if digest[i] > d.Target[i] {
			return false
		}
	}
	return true
}

func (d *Difficulty) String() string {
	return fmt.Sprintf("%d/%x", d.Zeros, d.Target)
}

// LeadingZeros counts the leading zero hex nibbles of b.
func LeadingZeros(b []byte) uint8 {
	var zeros uint8
	for _, c := range b {
		if c != 0 {
			if c < 0x10 {
				zeros++
			}
			return zeros
		}
		zeros += 2
	}
	return zeros
}

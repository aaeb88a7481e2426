// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

const Version = "0.1.0"

// GetFullPath resolves filename next to the running executable.
func GetFullPath(filename string) (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exePath), filename), nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateFileLogger logs to the console and appends to path. If the file
// cannot be opened the logger falls back to the console only.
func CreateFileLogger(path string, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stdout}

	var writer io.Writer = console
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		writer = zerolog.MultiLevelWriter(console, file)
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("file logging disabled")
	}
	return logger
}

// ParseNonce accepts a 0x-prefixed hex or a decimal 256-bit value.
func ParseNonce(input string) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidNonce)
	}

	digits, base := input, 10
	if len(input) > 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X') {
		digits, base = input[2:], 16
	}

	if digits[0] == '+' || digits[0] == '-' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNonce, input)
	}

	// with an explicit base SetString takes no prefix and no underscores
	value, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNonce, input)
	}
	nonce, overflow := uint256.FromBig(value)
	if overflow {
		return nil, fmt.Errorf("%w: %q exceeds 256 bits", ErrInvalidNonce, input)
	}
	return nonce, nil
}

// RandomNonce draws a uniformly random 256-bit value.
func RandomNonce() (*uint256.Int, error) {
	var buf [NONCE_LENGTH]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("failed to read random nonce: %w", err)
	}
	return new(uint256.Int).SetBytes32(buf[:]), nil
}

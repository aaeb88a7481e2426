// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import "time"

const (
	DefaultConfigFilename = "eminer.conf"
	DefaultLogFilename    = "eminer.log"
	DefaultListen         = "localhost:9900"
)

// Config holds the options shared by every command.
type Config struct {
	ConfigFile string        `short:"c" long:"config" description:"Path to configuration file"`
	Algo       string        `short:"a" long:"algo" description:"Evaluation engine (evm_interpreter, evm_call, keccak_native)"`
	Threads    uint8         `short:"t" long:"threads" description:"Number of threads to use (default: all available threads)"`
	LogLevel   string        `short:"l" long:"loglevel" default:"info" description:"Log level (trace, debug, info, warn, error)"`
	NoLogFile  bool          `long:"nologfile" description:"Do not write eminer.log next to the config file or executable"`
	Progress   time.Duration `long:"progress" default:"1s" description:"Interval between hashrate reports, 0 disables them"`
	Version    bool          `short:"v" description:"Print version"`
}

// MineOptions configures a local search.
type MineOptions struct {
	Zeros   uint8         `short:"n" long:"zeros" env:"NUM_0S" description:"Number of leading zero nibbles of the hash (0-64)"`
	First   string        `short:"f" long:"first" description:"First nonce, hex (0x) or decimal (default: random)"`
	Timeout time.Duration `long:"timeout" description:"Give up after this long, 0 runs until a solution is found"`
}

// ServeOptions configures the solver RPC server.
type ServeOptions struct {
	Listen     string        `long:"listen" description:"Address the solver service listens on (default: localhost:9900)"`
	MaxTimeout time.Duration `long:"maxtimeout" description:"Upper bound applied to every remote search, 0 means none"`
}

// SolveOptions configures a remote search against a solver server.
type SolveOptions struct {
	MineOptions
	Server            string        `short:"p" long:"server" description:"Endpoint of the solver server host:port"`
	DialTimeout       time.Duration `short:"o" long:"dialtimeout" default:"10s" description:"GRPC dial timeout (e.g., 5s, 1m)"`
	MaxRetries        int           `long:"retryMaxAttempts" default:"5" description:"Maximum number of retry attempts before giving up"`
	MaxBackoffSeconds float64       `long:"retryMaxBackoff" default:"30" description:"Maximum backoff time in seconds before retrying"`
}

// BenchOptions configures the engine comparison.
type BenchOptions struct {
	Duration time.Duration `short:"d" long:"duration" default:"3s" description:"Time spent on each engine"`
	First    string        `short:"f" long:"first" description:"First nonce, hex (0x) or decimal (default: random)"`
}

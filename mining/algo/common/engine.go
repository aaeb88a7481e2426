// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

// Engine is the immutable template shared by every worker. It holds the
// fixed program and identities and hands out one Executor per worker.
type Engine interface {
	Name() string
	NewExecutor() (Executor, error)
}

// Executor runs the fixed program against a call input and returns its raw
// output. Executors keep mutable state and must not be shared between
// goroutines.
type Executor interface {
	Execute(input []byte) ([]byte, error)
}

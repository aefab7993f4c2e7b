package options

import "github.com/docker/go-units"

const (
	// Specifies the default base directory where IgniteDB will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultBackend selects the log-structured engine over the bbolt-backed
	// alternate one when --engine/-e is not given.
	DefaultBackend = "kvs"

	// DefaultAddr is the TCP address the server listens on and the client
	// dials when --addr is not given.
	DefaultAddr = "127.0.0.1:4000"

	// DefaultPoolSize is the worker count the server dispatches accepted
	// connections through by default.
	DefaultPoolSize = 16
)

// DefaultCompactionThreshold is the uncompacted-byte watermark that triggers
// compaction: 1 MiB, written with docker/go-units' MiB constant rather than a
// bare integer literal.
var DefaultCompactionThreshold = uint64(units.MiB)

// Holds the default configuration settings for an IgniteDB instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	Backend:             DefaultBackend,
	Addr:                DefaultAddr,
	PoolSize:            DefaultPoolSize,
	CompactionThreshold: DefaultCompactionThreshold,
}

func NewDefaultOptions() Options {
	return defaultOptions
}

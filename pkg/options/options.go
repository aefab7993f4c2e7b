// Package options provides data structures and functions for configuring
// an Ignite store. It defines the parameters that control storage location,
// compaction behavior, which engine backend is active, and the server's
// network and concurrency surface.
package options

import (
	"strings"

	"github.com/docker/go-units"
)

// Options defines the configuration parameters for an Ignite store:
// where it persists data, which engine backend runs, when it compacts, and
// the network/concurrency surface a server built on it exposes.
type Options struct {
	// Specifies the base path where segment files and the engine pin file
	// are stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Selects the engine backend: "kvs" (log-structured, default) or "sled"
	// (bbolt-backed). Pinned per data directory on first Open; reopening the
	// same directory with a different value is an error.
	//
	// Default: "kvs"
	Backend string `json:"backend"`

	// CompactionThreshold is the number of dead (superseded or
	// tombstone-invalidated) bytes the log-structured engine tolerates
	// before it runs compaction. Unused by the "sled" backend.
	//
	// Default: 1 MiB
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// Addr is the TCP address a server built on this configuration listens
	// on, and a client dials.
	//
	// Default: "127.0.0.1:4000"
	Addr string `json:"addr"`

	// PoolSize is the worker count for the bounded pool a server dispatches
	// accepted connections through.
	//
	// Default: 16
	PoolSize int `json:"poolSize"`
}

// OptionFunc is a function type that modifies an Options value.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to the package defaults.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir sets the base data directory. Blank (after trimming) is
// ignored, leaving the prior value in place.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithBackend selects the engine backend ("kvs" or "sled").
func WithBackend(backend string) OptionFunc {
	return func(o *Options) {
		backend = strings.TrimSpace(backend)
		if backend != "" {
			o.Backend = backend
		}
	}
}

// WithCompactionThreshold sets the dead-byte watermark that triggers
// compaction. size is parsed with docker/go-units in binary units, so "1MB",
// "512KiB" and a bare byte count are all accepted, and "2MiB" and "2MB" both
// mean 2*1024*1024 bytes.
func WithCompactionThreshold(size string) (OptionFunc, error) {
	bytes, err := units.RAMInBytes(size)
	if err != nil {
		return nil, err
	}
	return func(o *Options) {
		o.CompactionThreshold = uint64(bytes)
	}, nil
}

// WithAddr sets the TCP address a server listens on / a client dials.
func WithAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.Addr = addr
		}
	}
}

// WithPoolSize sets the worker pool size a server dispatches connections
// through. Non-positive values are ignored, leaving the prior value in place.
func WithPoolSize(n int) OptionFunc {
	return func(o *Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

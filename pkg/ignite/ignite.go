// Package ignite provides a high-performance, embedded key/value data store
// designed for fast read and write operations, inspired by Bitcask. It
// combines an in-memory index with an append-only log structure on disk
// (the "kvs" backend) or a bbolt-backed alternative (the "sled" backend) to
// achieve durable single-node storage without a server process.
package ignite

import (
	"github.com/kvignite/ignite/internal/engine"
	"github.com/kvignite/ignite/pkg/logger"
	"github.com/kvignite/ignite/pkg/options"
)

// Instance is the primary entry point for embedding Ignite directly inside
// a Go process, wrapping whichever engine.Contract implementation its
// options select.
type Instance struct {
	engine  engine.Contract
	options *options.Options
}

// NewInstance opens (creating if necessary) an Ignite store under the
// configured data directory, applying opts over the package defaults.
func NewInstance(service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	cfg := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	eng, err := engine.Open(cfg.Backend, cfg.DataDir, cfg.CompactionThreshold, log)
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &cfg}, nil
}

// Set stores value under key, overwriting any prior value.
func (i *Instance) Set(key, value string) error {
	return i.engine.Set(key, value)
}

// Get returns key's value and whether it was present. A missing key is a
// successful "absent" result, not an error.
func (i *Instance) Get(key string) (string, bool, error) {
	return i.engine.Get(key)
}

// Remove deletes key, returning a KeyNotFound error (see pkg/kverrors) if it
// was absent.
func (i *Instance) Remove(key string) error {
	return i.engine.Remove(key)
}

// Close releases every resource the instance holds -- open segment files
// and memory-mapped readers for the "kvs" backend, the database handle for
// "sled".
func (i *Instance) Close() error {
	return i.engine.Close()
}

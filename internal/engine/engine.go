// Package engine provides the two storage backends an Ignite store can run
// on top of, behind one shared Contract: KvsEngine, the log-structured
// engine built on internal/index, internal/storage and internal/compaction,
// and SledEngine, a thin adapter over go.etcd.io/bbolt. Which one a data
// directory uses is pinned on first Open and checked on every subsequent one
// so a directory never silently mixes formats.
package engine

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kvignite/ignite/pkg/kverrors"
)

// Contract is the operation surface both backends satisfy. A *KvsEngine or
// *SledEngine value is itself the cheaply-shareable handle: every method
// takes no exclusive receiver state beyond what each implementation
// mutex-protects internally, so handing the same pointer to many goroutines
// (one per connection, in internal/server) needs no further synchronization
// at this layer.
type Contract interface {
	Set(key, value string) error
	Get(key string) (string, bool, error)
	Remove(key string) error
	Close() error
}

const (
	backendKvs  = "kvs"
	backendSled = "sled"
)

// pinPath is the "engine" marker file inside a data directory, one line
// naming which backend owns it.
func pinPath(dir string) string {
	return filepath.Join(dir, "engine")
}

// checkOrWritePin pins dir to backend on first use, or verifies a prior pin
// matches backend on every subsequent Open. A directory created by one
// backend and reopened with the other is a configuration error, not
// something either engine attempts to reconcile.
func checkOrWritePin(dir, backend string) error {
	path := pinPath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return kverrors.ClassifyIO(err, "read_engine_pin", path)
		}
		if err := os.WriteFile(path, []byte(backend), 0644); err != nil {
			return kverrors.ClassifyIO(err, "write_engine_pin", path)
		}
		return nil
	}

	pinned := strings.TrimSpace(string(data))
	if pinned != backend {
		return kverrors.NewUnexpected("data directory is pinned to a different engine backend").
			WithPath(dir).WithDetail("pinned", pinned).WithDetail("requested", backend)
	}
	return nil
}

// Open constructs whichever Contract implementation backend names,
// pinning/checking dir against it. Callers (pkg/ignite, cmd/kvs-server) pick
// the backend from configuration; everything downstream only ever sees
// Contract.
func Open(backend, dir string, compactionThreshold uint64, log *zap.SugaredLogger) (Contract, error) {
	switch backend {
	case backendKvs, "":
		return OpenKvsEngine(dir, compactionThreshold, log)
	case backendSled:
		return OpenSledEngine(dir)
	default:
		return nil, kverrors.NewUnexpected("unknown engine backend").WithDetail("backend", backend)
	}
}

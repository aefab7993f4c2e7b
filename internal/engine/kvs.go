package engine

import (
	"bytes"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/internal/compaction"
	"github.com/kvignite/ignite/internal/index"
	"github.com/kvignite/ignite/internal/storage"
	"github.com/kvignite/ignite/pkg/kverrors"
)

// KvsEngine is the log-structured backend: an append-only segmented log on
// disk (internal/storage), an in-memory key -> location index
// (internal/index) rebuilt from the log on Open, and compaction
// (internal/compaction) run inline whenever dead bytes cross a threshold.
type KvsEngine struct {
	log *zap.SugaredLogger

	threshold uint64

	mu          sync.Mutex
	storage     *storage.Storage
	index       *index.Index
	uncompacted uint64

	closed atomic.Bool
}

var _ Contract = (*KvsEngine)(nil)

// OpenKvsEngine pins dir to the "kvs" backend, recovers the index and
// uncompacted counter by scanning every existing generation in ascending
// order, and activates a new generation one past the highest found (or
// generation 1 in a fresh directory) for further appends.
func OpenKvsEngine(dir string, threshold uint64, log *zap.SugaredLogger) (*KvsEngine, error) {
	if err := checkOrWritePin(dir, backendKvs); err != nil {
		return nil, err
	}

	st, err := storage.Open(dir, log)
	if err != nil {
		return nil, err
	}

	idx := index.New()
	var uncompacted uint64

	generations, err := st.ListGenerations()
	if err != nil {
		return nil, err
	}

	for _, gen := range generations {
		err := st.ScanSegment(gen, func(rec codec.Record, pos, length int64) error {
			switch {
			case rec.IsSet():
				old, existed := idx.Set(rec.Key, index.RecordPointer{Generation: gen, Offset: pos, Length: length})
				if existed {
					uncompacted += uint64(old.Length)
				}
			case rec.IsRemove():
				old, existed := idx.Delete(rec.Key)
				if existed {
					uncompacted += uint64(old.Length)
				}
				uncompacted += uint64(length)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	activeGen := uint64(1)
	if len(generations) > 0 {
		activeGen = generations[len(generations)-1] + 1
	}

	writer, err := st.CreateWriter(activeGen)
	if err != nil {
		return nil, err
	}
	st.Activate(writer)

	log.Infow("kvs engine recovered",
		"dir", dir, "generations", len(generations), "liveKeys", idx.Len(), "uncompacted", uncompacted,
	)

	return &KvsEngine{
		log:         log,
		threshold:   threshold,
		storage:     st,
		index:       idx,
		uncompacted: uncompacted,
	}, nil
}

// Set appends a Set record to the active segment, retargets the index entry
// for key to it, and runs compaction if the dead-byte threshold has been
// crossed.
func (e *KvsEngine) Set(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	gen, pos, length, err := e.storage.Append(codec.NewSetRecord(key, value))
	if err != nil {
		return err
	}

	old, existed := e.index.Set(key, index.RecordPointer{Generation: gen, Offset: pos, Length: length})
	if existed {
		e.uncompacted += uint64(old.Length)
	}

	return e.maybeCompact()
}

// Get resolves key through the index and, if present, reads the pointed-at
// bytes back and decodes them. A key with no index entry is a successful
// "absent" result, not an error.
func (e *KvsEngine) Get(key string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ptr, ok := e.index.Get(key)
	if !ok {
		return "", false, nil
	}

	data, err := e.storage.ReadAt(ptr.Generation, ptr.Offset, ptr.Length)
	if err != nil {
		return "", false, err
	}

	var rec codec.Record
	if err := codec.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return "", false, kverrors.NewSerde(err, "failed to decode indexed record").WithKey(key)
	}
	if !rec.IsSet() || rec.Key != key {
		return "", false, kverrors.NewUnexpected("index pointer resolved to a non-matching record").WithKey(key)
	}

	return rec.Value, true, nil
}

// Remove appends a tombstone recording key's deletion and, only once that
// append has durably succeeded, drops key's index entry -- the same
// append-before-mutate ordering Set uses, so a failed append never leaves
// the index missing a key the log would still resolve on the next recovery
// scan. A key absent from the index is KeyNotFound -- the log is never
// consulted to confirm an absence the index already speaks for.
func (e *KvsEngine) Remove(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, existed := e.index.Get(key)
	if !existed {
		return kverrors.NewKeyNotFound(key)
	}

	_, _, length, err := e.storage.Append(codec.NewRemoveRecord(key))
	if err != nil {
		return err
	}

	e.index.Delete(key)
	e.uncompacted += uint64(old.Length) + uint64(length)

	return e.maybeCompact()
}

// maybeCompact runs compaction when uncompacted has crossed threshold.
// Callers must already hold e.mu.
func (e *KvsEngine) maybeCompact() error {
	if e.uncompacted < e.threshold {
		return nil
	}

	result, err := compaction.Compact(e.storage, e.index, e.log)
	if err != nil {
		return err
	}

	e.uncompacted = 0
	e.log.Infow("compaction reclaimed space",
		"compactGeneration", result.CompactGeneration, "newActive", result.NewActive, "liveRecords", result.LiveRecords,
	)
	return nil
}

// Close closes the underlying storage exactly once; subsequent calls are a
// no-op, matching the teacher's atomic.Bool compare-and-swap guard against a
// double-close.
func (e *KvsEngine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.storage.Close()
}

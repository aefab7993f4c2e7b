package engine

import (
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.etcd.io/bbolt"

	"github.com/kvignite/ignite/pkg/kverrors"
)

// sledBucket is the single bucket every key/value pair lives in -- this
// backend has no concept of segments or generations, so one flat bucket is
// all bbolt needs.
var sledBucket = []byte("ignite")

// SledEngine is the alternate backend: a thin adapter over a single
// go.etcd.io/bbolt database file, one bucket, direct Put/Get/Delete. It
// trades the log-structured engine's compaction machinery for bbolt's own
// page-level storage management.
type SledEngine struct {
	db *bbolt.DB
}

var _ Contract = (*SledEngine)(nil)

// OpenSledEngine pins dir to the "sled" backend and opens (creating if
// necessary) a bbolt database file inside it.
func OpenSledEngine(dir string) (*SledEngine, error) {
	if err := checkOrWritePin(dir, backendSled); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "sled.db")
	db, err := bbolt.Open(path, 0644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, kverrors.NewBackend(err, "failed to open bbolt database").WithPath(path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sledBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, kverrors.NewBackend(err, "failed to create bucket").WithPath(path)
	}

	return &SledEngine{db: db}, nil
}

// Set stores value under key, overwriting any prior value.
func (e *SledEngine) Set(key, value string) error {
	err := e.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sledBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return kverrors.NewBackend(err, "failed to set key").WithKey(key)
	}
	return nil
}

// Get returns key's value, copying it out of bbolt's read-only mmap'd page
// before the transaction closes -- the teacher's original sled adapter
// flushes after every op for the same reason: nothing from inside a closed
// transaction may be read afterward. bbolt stores raw bytes with no text
// encoding of its own, so this is the one point in either backend where
// bytes read off disk are asserted to be text -- the same fallible
// from-bytes conversion the sled reference implementation performs here.
func (e *SledEngine) Get(key string) (string, bool, error) {
	var value []byte
	err := e.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(sledBucket).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, kverrors.NewBackend(err, "failed to get key").WithKey(key)
	}
	if value == nil {
		return "", false, nil
	}
	if !utf8.Valid(value) {
		return "", false, kverrors.NewUtf8(nil, "value is not valid UTF-8").WithKey(key)
	}
	return string(value), true, nil
}

// Remove deletes key, returning KeyNotFound if it was absent. bbolt's own
// Delete is silently a no-op on a missing key, so the existence check runs
// inside the same read-write transaction first to satisfy the KeyNotFound
// contract every backend must honor.
func (e *SledEngine) Remove(key string) error {
	err := e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sledBucket)
		if b.Get([]byte(key)) == nil {
			return kverrors.NewKeyNotFound(key)
		}
		return b.Delete([]byte(key))
	})
	if err == nil {
		return nil
	}
	if kerr, ok := err.(*kverrors.Error); ok {
		return kerr
	}
	return kverrors.NewBackend(err, "failed to remove key").WithKey(key)
}

// Close closes the underlying bbolt database.
func (e *SledEngine) Close() error {
	if err := e.db.Close(); err != nil {
		return kverrors.NewBackend(err, "failed to close bbolt database")
	}
	return nil
}

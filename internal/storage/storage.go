// Package storage owns segment file lifecycle: opening the active segment
// for append, reading record bytes back out of either the active segment or
// a sealed one, and retiring segments once compaction has superseded them.
// It knows nothing about keys or the index -- it deals exclusively in
// generations, byte offsets and lengths, the way the teacher's storage
// package separates "where bytes live on disk" from "what they mean"
// (internal/index owns the latter).
package storage

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/pkg/kverrors"
)

// Storage manages one data directory's segment files: exactly one active
// segment accepting appends, plus a lazily-populated cache of memory-mapped
// readers for sealed segments.
type Storage struct {
	dir string
	log *zap.SugaredLogger

	mu     sync.Mutex
	active *Writer

	readers sync.Map // generation (uint64) -> *sealedReader
}

// Open ensures dir exists and returns a Storage over it with no active
// segment yet -- the engine calls Activate (after recovery determines the
// next generation number) before the first Append.
func Open(dir string, log *zap.SugaredLogger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, kverrors.ClassifyIO(err, "create_data_dir", dir)
	}
	log.Infow("storage directory ready", "dir", dir)
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the data directory this Storage manages.
func (s *Storage) Dir() string { return s.dir }

// ListGenerations returns every generation present on disk, ascending.
func (s *Storage) ListGenerations() ([]uint64, error) {
	return ListGenerations(s.dir)
}

// ScanSegment replays every record in gen's segment, in order. Used during
// Open's recovery pass.
func (s *Storage) ScanSegment(gen uint64, fn func(rec codec.Record, pos, length int64) error) error {
	return ScanSegment(s.dir, gen, fn)
}

// CreateWriter opens gen's segment file for append without making it the
// active segment -- engine recovery and compaction each open their new
// active generation this way and then hand it to Activate. Compaction's
// compact-target generation is written through CreateCompactWriter instead.
func (s *Storage) CreateWriter(gen uint64) (*Writer, error) {
	return openWriter(s.dir, gen)
}

// Activate installs w as the active segment, the one Append writes to, and
// returns whatever writer was active before -- nil the first time, the
// writer compaction has just superseded otherwise. The caller is
// responsible for closing the returned writer; Activate itself never closes
// a handle.
func (s *Storage) Activate(w *Writer) *Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.active
	s.active = w
	return prev
}

// Active returns the current active segment's generation number, or false
// if none has been activated yet.
func (s *Storage) Active() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return 0, false
	}
	return s.active.gen, true
}

// Append writes rec to the active segment, returning its (pos, length).
func (s *Storage) Append(rec codec.Record) (gen uint64, pos, length int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return 0, 0, 0, kverrors.NewUnexpected("append attempted with no active segment")
	}
	pos, length, err = s.active.Append(rec)
	if err != nil {
		return 0, 0, 0, err
	}
	return s.active.gen, pos, length, nil
}

// ReadAt returns the exact bytes at [pos, pos+length) of gen's segment,
// whether gen is the active segment or a sealed one. Sealed segments are
// served from a lazily-opened, cached memory-mapped reader; a cache miss
// for a generation that no longer exists on disk (deleted by a compaction
// that raced with this read) surfaces as an Io error rather than a panic.
func (s *Storage) ReadAt(gen uint64, pos, length int64) ([]byte, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if active != nil && active.gen == gen {
		return active.ReadAt(pos, length)
	}

	if v, ok := s.readers.Load(gen); ok {
		return v.(*sealedReader).readAt(pos, length)
	}

	r, err := openSealedReader(s.dir, gen)
	if err != nil {
		return nil, err
	}

	if actual, loaded := s.readers.LoadOrStore(gen, r); loaded {
		r.close()
		return actual.(*sealedReader).readAt(pos, length)
	}

	return r.readAt(pos, length)
}

// CreateCompactWriter opens a temporary file named tempName inside the data
// directory and returns a Writer over it along with its full path.
// Compaction writes the entire compact-target generation's content into
// this temporary file first; only once every live record has been copied
// does FinalizeCompactSegment atomically rename it into its final
// "<gen>.log" name, so a crash mid-compaction never leaves a half-written
// file at the name recovery will scan.
func (s *Storage) CreateCompactWriter(tempName string) (w *Writer, path string, err error) {
	path = filepath.Join(s.dir, tempName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", kverrors.ClassifyIO(err, "create_compact_temp", path)
	}
	return &Writer{gen: 0, file: f, buf: bufio.NewWriter(f)}, path, nil
}

// FinalizeCompactSegment closes w, atomically renames its temporary file to
// gen's final segment path, and registers gen with a memory-mapped sealed
// reader -- from this point gen is a normal, durable, sealed segment.
func (s *Storage) FinalizeCompactSegment(w *Writer, tempPath string, gen uint64) error {
	if err := w.Close(); err != nil {
		return err
	}

	finalPath := segmentPath(s.dir, gen)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return kverrors.ClassifyIO(err, "finalize_compact_segment", finalPath)
	}

	r, err := openSealedReader(s.dir, gen)
	if err != nil {
		return err
	}
	s.readers.Store(gen, r)
	s.log.Infow("compact segment sealed", "generation", gen, "path", finalPath)
	return nil
}

// DeleteSegment evicts gen's cached reader, if any, and removes its file
// from disk. Compaction calls this for every generation it has superseded.
func (s *Storage) DeleteSegment(gen uint64) error {
	if v, ok := s.readers.LoadAndDelete(gen); ok {
		v.(*sealedReader).close()
	}

	path := segmentPath(s.dir, gen)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return kverrors.ClassifyIO(err, "delete_segment", path)
	}
	s.log.Infow("segment deleted", "generation", gen)
	return nil
}

// Close flushes and closes the active segment and every cached sealed
// reader, aggregating every independent failure rather than stopping at the
// first one -- a reader that fails to close shouldn't hide a failure to
// flush the active segment, or vice versa.
func (s *Storage) Close() error {
	s.mu.Lock()
	active := s.active
	s.active = nil
	s.mu.Unlock()

	var err error
	if active != nil {
		err = multierr.Append(err, active.Close())
	}

	s.readers.Range(func(key, value any) bool {
		err = multierr.Append(err, value.(*sealedReader).close())
		s.readers.Delete(key)
		return true
	})

	return err
}

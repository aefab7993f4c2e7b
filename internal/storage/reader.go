package storage

import (
	"os"

	"github.com/tysonmote/gommap"

	"github.com/kvignite/ignite/pkg/kverrors"
)

// sealedReader is a memory-mapped, read-only view of one sealed segment
// file, adapting the mmap'd-index-file pattern the proglog-style example
// repos use (mapping an offset index) onto this store's need instead:
// mapping the segment's record bytes directly, so a get against a sealed
// generation is a slice copy out of the mapping rather than a read(2)
// syscall.
type sealedReader struct {
	gen  uint64
	file *os.File
	mmap gommap.MMap
}

// openSealedReader opens gen's segment file read-only and maps it into
// memory. An empty segment (possible for a freshly-created, never-written
// generation) is left unmapped -- gommap.Map requires a non-empty file --
// and readAt on it simply has nothing to return.
func openSealedReader(dir string, gen uint64) (*sealedReader, error) {
	path := segmentPath(dir, gen)

	f, err := os.OpenFile(path, os.O_RDONLY, 0644)
	if err != nil {
		return nil, kverrors.ClassifyIO(err, "open_sealed_reader", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, kverrors.ClassifyIO(err, "stat_sealed_reader", path)
	}

	if info.Size() == 0 {
		return &sealedReader{gen: gen, file: f}, nil
	}

	m, err := gommap.Map(f.Fd(), gommap.PROT_READ, gommap.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, kverrors.ClassifyIO(err, "mmap_sealed_reader", path)
	}

	return &sealedReader{gen: gen, file: f, mmap: m}, nil
}

// readAt returns a copy of the bytes at [pos, pos+length) of the mapped
// segment. A copy is returned rather than a sub-slice of the mapping so
// that a later unmap (the segment is deleted out from under a stale cache
// entry after compaction) cannot corrupt bytes a caller is still holding.
func (r *sealedReader) readAt(pos, length int64) ([]byte, error) {
	if pos < 0 || length < 0 || pos+length > int64(len(r.mmap)) {
		return nil, kverrors.NewUnexpected("record bytes out of segment bounds").
			WithDetail("generation", r.gen).WithDetail("pos", pos).WithDetail("length", length)
	}
	out := make([]byte, length)
	copy(out, r.mmap[pos:pos+length])
	return out, nil
}

// close releases the file handle backing this reader. It does not unmap the
// segment: the mapping stays in the process's address space after the
// descriptor closes, the same map-for-the-process-lifetime discipline every
// mmap user in the example repos follows.
func (r *sealedReader) close() error {
	if err := r.file.Close(); err != nil {
		return kverrors.NewIo(err, "failed to close sealed segment").WithPath(r.file.Name())
	}
	return nil
}

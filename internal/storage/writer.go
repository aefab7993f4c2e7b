package storage

import (
	"bufio"
	"bytes"
	"os"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/pkg/kverrors"
)

// Writer is an append-only handle onto one generation's segment file. Both
// the store's active segment and compaction's temporary compact-target
// segment are one of these -- the only difference is what the caller does
// with the handle afterwards (install it as active via Storage.Activate, or
// seal it into the sealed-reader cache via Storage.FinalizeCompactSegment).
type Writer struct {
	gen  uint64
	file *os.File
	buf  *bufio.Writer
	size int64
}

// openWriter opens (creating if necessary) gen's segment file for append
// and positions size at the file's current length, so the very first
// append's pos is correct even when reopening a generation that already has
// bytes in it.
func openWriter(dir string, gen uint64) (*Writer, error) {
	path := segmentPath(dir, gen)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, kverrors.ClassifyIO(err, "open_segment_writer", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, kverrors.ClassifyIO(err, "stat_segment_writer", path)
	}

	return &Writer{gen: gen, file: f, buf: bufio.NewWriter(f), size: info.Size()}, nil
}

// Generation returns the generation number this writer appends to.
func (w *Writer) Generation() uint64 { return w.gen }

// Size returns the writer's current logical end-of-file, i.e. the byte
// offset the next Append will start at.
func (w *Writer) Size() int64 { return w.size }

// Append encodes rec, writes it to the segment, and flushes it visible to
// readers, returning the exact byte offset it starts at and its exact
// encoded length -- the (pos, len) half of an index entry. pos is the
// segment's logical end-of-file taken immediately before the write, per §
// 4.2.6's "pos based on end-of-file before the append, not an estimate".
func (w *Writer) Append(rec codec.Record) (pos int64, length int64, err error) {
	var buf bytes.Buffer
	n, err := codec.Encode(&buf, rec)
	if err != nil {
		return 0, 0, err
	}

	pos = w.size
	if _, err := w.buf.Write(buf.Bytes()); err != nil {
		return 0, 0, kverrors.NewIo(err, "failed to append record to segment").WithPath(w.file.Name())
	}
	if err := w.buf.Flush(); err != nil {
		return 0, 0, kverrors.NewIo(err, "failed to flush segment").WithPath(w.file.Name())
	}

	w.size += n
	return pos, n, nil
}

// AppendRaw writes data to the segment verbatim, with no re-encoding,
// returning the offset it starts at and its length. Compaction uses this to
// copy a live record's already-encoded bytes into the compact-target
// segment byte-for-byte rather than decoding and re-serializing it.
func (w *Writer) AppendRaw(data []byte) (pos int64, length int64, err error) {
	pos = w.size
	if _, err := w.buf.Write(data); err != nil {
		return 0, 0, kverrors.NewIo(err, "failed to append raw bytes to segment").WithPath(w.file.Name())
	}
	if err := w.buf.Flush(); err != nil {
		return 0, 0, kverrors.NewIo(err, "failed to flush segment").WithPath(w.file.Name())
	}
	w.size += int64(len(data))
	return pos, int64(len(data)), nil
}

// ReadAt returns the exact bytes at [pos, pos+length) of this segment.
// Flushing first guarantees a read immediately following an append on the
// same writer observes what was just written, even though the write went
// through a buffered writer rather than directly to the file.
func (w *Writer) ReadAt(pos, length int64) ([]byte, error) {
	if err := w.buf.Flush(); err != nil {
		return nil, kverrors.NewIo(err, "failed to flush segment before read").WithPath(w.file.Name())
	}
	buf := make([]byte, length)
	if _, err := w.file.ReadAt(buf, pos); err != nil {
		return nil, kverrors.NewIo(err, "failed to read record from active segment").
			WithPath(w.file.Name()).WithOffset(pos)
	}
	return buf, nil
}

// Close flushes and closes the underlying file. It does not delete the
// file -- callers that want the segment gone call Storage.DeleteSegment
// separately, since a writer being closed (sealed after compaction, for
// instance) is the normal path to becoming a read-only segment, not a sign
// it should be removed.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return kverrors.NewIo(err, "failed to flush segment on close").WithPath(w.file.Name())
	}
	if err := w.file.Close(); err != nil {
		return kverrors.NewIo(err, "failed to close segment").WithPath(w.file.Name())
	}
	return nil
}

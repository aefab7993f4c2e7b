package storage

import (
	"bufio"
	"io"
	"os"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/pkg/kverrors"
)

// ScanSegment reads every record in gen's segment file from byte 0 to EOF,
// in order, invoking fn with each decoded record and the exact (pos,
// length) it occupies. This is the primitive Open's recovery pass (§4.2.1)
// is built on.
func ScanSegment(dir string, gen uint64, fn func(rec codec.Record, pos, length int64) error) error {
	path := segmentPath(dir, gen)

	f, err := os.Open(path)
	if err != nil {
		return kverrors.ClassifyIO(err, "scan_segment", path)
	}
	defer f.Close()

	dec := codec.NewDecoder(bufio.NewReader(f))

	var prevOffset int64
	for {
		var rec codec.Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		offset := dec.Offset()
		pos := prevOffset
		length := offset - prevOffset
		prevOffset = offset

		if err := fn(rec, pos, length); err != nil {
			return err
		}
	}
}

// Package codec implements the single textual, self-delimiting encoding
// shared by the log's mutation records and the server's wire protocol
// messages (spec: one encoding, two uses). It mirrors the original Rust
// implementation's use of serde_json's concatenated-value streaming
// (Deserializer::into_iter): values are written back-to-back with no
// delimiter between them, and Decoder reads them back one at a time from a
// shared byte stream, reporting the exact byte offset each value ends at so
// callers can record precise (pos, len) coordinates into a log segment.
package codec

import (
	"encoding/json"
	"io"

	"github.com/kvignite/ignite/pkg/kverrors"
)

// Encode serializes v as a single JSON value and writes it to w with no
// trailing delimiter, returning the exact number of bytes written. Callers
// that need an index or protocol frame's length use this return value
// directly rather than measuring after the fact, satisfying the "len must
// be based on bytes actually written" requirement for segment records.
func Encode(w io.Writer, v any) (int64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, kverrors.NewSerde(err, "failed to encode value")
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), kverrors.NewIo(err, "failed to write encoded value")
	}
	return int64(n), nil
}

// Decoder streams a sequence of concatenated JSON values from a byte
// stream. Each call to Decode consumes exactly one value; Offset reports
// how many bytes of the underlying stream have been consumed so far, which
// is exactly the position the next value starts at.
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder wraps r for streaming decode. r should already be buffered
// (e.g. bufio.Reader) for anything read record-by-record off disk or a
// socket -- Decoder itself does no buffering of its own beyond what
// encoding/json does internally.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Decode parses exactly the next value from the stream into v. It returns
// io.EOF, unwrapped, when the stream is exhausted between values -- callers
// distinguish "no more values" from "malformed value" by checking for that
// exact sentinel.
func (d *Decoder) Decode(v any) error {
	if err := d.dec.Decode(v); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return kverrors.NewSerde(err, "failed to decode value")
	}
	return nil
}

// Offset reports the byte offset, within the underlying stream, of the end
// of the most recently decoded value -- equivalently, the offset the next
// value begins at, since no delimiter separates concatenated values.
func (d *Decoder) Offset() int64 {
	return d.dec.InputOffset()
}

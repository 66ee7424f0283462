// Package logtransport implements the framed TCP log transport every
// actor forwards its records over: a 4-byte big-endian length prefix
// followed by a msgpack-encoded record, with no acknowledgements. The
// bus carries JSON text for debuggability; log records are
// machine-to-machine only, so the compact binary encoding is fine here.
package logtransport

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is one structured log record: which logger emitted it, at what
// level, when, and the rendered message.
type Record struct {
	Logger  string    `msgpack:"logger"`
	Level   string    `msgpack:"level"`
	Time    time.Time `msgpack:"time"`
	Message string    `msgpack:"message"`
}

// WriteFrame writes a 4-byte big-endian length prefix followed by the
// msgpack-encoded record.
func WriteFrame(w io.Writer, r Record) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("logtransport: encode record: %w", err)
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(data)))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("logtransport: write length prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("logtransport: write record body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed record from r. Returns io.EOF
// (unwrapped) when the stream ends cleanly between frames, including a
// short read of the length prefix itself.
func ReadFrame(r io.Reader) (Record, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Record{}, io.EOF
		}
		return Record{}, err
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Record{}, fmt.Errorf("logtransport: read record body: %w", err)
	}
	var rec Record
	if err := msgpack.Unmarshal(body, &rec); err != nil {
		return Record{}, fmt.Errorf("logtransport: decode record: %w", err)
	}
	return rec, nil
}

package gobwire

import (
	"encoding/binary"
	"io"
)

// writeFrame prepends payload with a 4-byte big-endian length and writes
// both in one call.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return wrapIo(err, "writing frame length")
	}
	if _, err := w.Write(payload); err != nil {
		return wrapIo(err, "writing frame payload")
	}
	return nil
}

// readFrame reads one length-prefixed message body from r. A clean EOF on
// the length itself is returned verbatim so callers can tell a closed
// stream from a truncated one; everything past the first byte of the
// length is Truncated. limit of 0 means unbounded.
func readFrame(r io.Reader, limit int) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, newError(Truncated, "reading frame length: %v", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if limit > 0 && int64(n) > int64(limit) {
		return nil, newError(ResourceLimit, "frame length %d exceeds limit %d", n, limit)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, newError(Truncated, "reading frame payload: %v", err)
	}
	return payload, nil
}

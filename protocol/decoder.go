package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Decoder reassembles frames from a connection's byte stream. TCP gives no
// message boundaries, so frames routinely arrive split or coalesced; Feed
// buffers whatever arrived and Next drains every complete frame so far.
//
// A Decoder is owned by a single reader goroutine and is not safe for
// concurrent use.
type Decoder struct {
	buf bytes.Buffer
}

// Feed appends raw bytes received from the connection.
func (d *Decoder) Feed(p []byte) {
	d.buf.Write(p)
}

// Next returns the next complete frame.
//
// ok reports whether a frame was consumed from the buffer. When ok is true
// and err is non-nil the frame was consumed but unusable (malformed payload
// or unknown opcode); callers should log it and keep reading. When ok is
// false and err is nil the buffer simply needs more bytes. ErrFrameTooLarge
// is the one unrecoverable case: the length header is out of range and the
// stream has no resync point, so the connection must be dropped.
func (d *Decoder) Next() (msg Message, ok bool, err error) {
	if d.buf.Len() < LengthPrefixSize {
		return Message{}, false, nil
	}

	size := int(binary.BigEndian.Uint16(d.buf.Bytes()[:LengthPrefixSize]))
	if size > MaxPayloadSize {
		return Message{}, false, fmt.Errorf("%w: header advertises %d bytes", ErrFrameTooLarge, size)
	}
	if d.buf.Len() < LengthPrefixSize+size {
		return Message{}, false, nil
	}

	frame := make([]byte, LengthPrefixSize+size)
	d.buf.Read(frame)

	msg, err = decodePayload(frame[LengthPrefixSize:])
	return msg, true, err
}

// Package codec implements the shared length-prefixed binary wire format
// used by every packable type in reclock: a one-byte type tag followed by a
// big-endian payload whose layout is fixed per tag, so Unpack can dispatch
// on the tag and reject anything else as a BadFormat error.
package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/revent-clocks/reclock/clockerr"
)

// Tag identifies the concrete type encoded in a packed payload.
type Tag byte

const (
	TagHashClock Tag = iota + 1
	TagHashClockUpdater
	TagPointClock
	TagPointClockUpdater
	TagVectorHashClock
	TagVectorPointClock
)

// Writer accumulates a packed payload, starting with its type tag.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter starts a new payload for the given tag.
func NewWriter(tag Tag) *Writer {
	w := &Writer{}
	w.buf.WriteByte(byte(tag))
	return w
}

func (w *Writer) PutUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) PutUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) PutInt32(v int32) {
	w.PutUint32(uint32(v))
}

// PutBytes writes raw bytes with no length prefix; callers that need a
// length-prefixed field should call PutUint16/PutUint32 first.
func (w *Writer) PutBytes(b []byte) {
	w.buf.Write(b)
}

// PutLenPrefixed16 writes a uint16 length followed by b. b must not exceed
// math.MaxUint16 bytes.
func (w *Writer) PutLenPrefixed16(b []byte) {
	w.PutUint16(uint16(len(b)))
	w.PutBytes(b)
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader consumes a packed payload sequentially, returning BadFormat errors
// on truncation instead of panicking.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential reads, without consuming the tag
// byte; callers should read it first with ReadTag.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadTag reads the leading type tag and verifies it matches want.
func (r *Reader) ReadTag(want Tag) error {
	if len(r.data)-r.pos < 1 {
		return clockerr.Wrap(clockerr.ErrTruncated.AddDetails("missing type tag"))
	}
	got := Tag(r.data[r.pos])
	r.pos++
	if got != want {
		return clockerr.Wrap(clockerr.ErrWrongTag.AddDetails("expected tag %d, got %d", want, got))
	}
	return nil
}

func (r *Reader) need(n int) error {
	if len(r.data)-r.pos < n {
		return clockerr.Wrap(clockerr.ErrTruncated.AddDetails("need %d bytes, have %d", n, len(r.data)-r.pos))
	}
	return nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

func (r *Reader) ReadLenPrefixed16() ([]byte, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// RestBytes returns a copy of all unread bytes without consuming them.
func (r *Reader) RestBytes() []byte {
	b := make([]byte, len(r.data)-r.pos)
	copy(b, r.data[r.pos:])
	return b
}

// AtEnd reports whether the reader has consumed the full payload.
func (r *Reader) AtEnd() bool {
	return r.pos == len(r.data)
}

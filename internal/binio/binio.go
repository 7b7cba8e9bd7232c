// Package binio provides little-endian, bounds-checked reading and writing
// over an in-memory byte buffer. It is the shared primitive used by every
// container parser/emitter in this module (TIS, MOS, MOSC, PVR).
package binio

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated is returned (wrapped) whenever a read runs past the end of
// the buffer.
var ErrTruncated = fmt.Errorf("binio: truncated")

// Reader is a cursor over a byte slice supporting little-endian fixed-width
// reads and absolute/relative seeking. It does not copy the backing slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential little-endian reads.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the total size of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) require(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.pos, len(r.buf))
	}
	return nil
}

// U16 reads a little-endian uint16 and advances the cursor.
func (r *Reader) U16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32 and advances the cursor.
func (r *Reader) U32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// I32 reads a little-endian int32 and advances the cursor.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// Bytes copies n bytes from the cursor and advances it.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Peek returns n bytes at the cursor without advancing it.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	return r.buf[r.pos : r.pos+n], nil
}

// SeekAbs moves the cursor to an absolute offset.
func (r *Reader) SeekAbs(off int) error {
	if off < 0 || off > len(r.buf) {
		return fmt.Errorf("%w: seek to %d exceeds length %d", ErrTruncated, off, len(r.buf))
	}
	r.pos = off
	return nil
}

// SeekRel moves the cursor by a relative offset.
func (r *Reader) SeekRel(delta int) error {
	return r.SeekAbs(r.pos + delta)
}

// SeekEnd moves the cursor to offset (Len() - fromEnd).
func (r *Reader) SeekEnd(fromEnd int) error {
	return r.SeekAbs(len(r.buf) - fromEnd)
}

// Writer is a growable little-endian byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty writer, optionally pre-sized.
func NewWriter(capacityHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capacityHint)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteI32 appends a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString appends the bytes of s verbatim (no length prefix or terminator).
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// PutU32At overwrites 4 bytes at an already-written absolute offset. Used for
// backpatching offset tables once final positions are known.
func (w *Writer) PutU32At(off int, v uint32) error {
	if off < 0 || off+4 > len(w.buf) {
		return fmt.Errorf("%w: PutU32At(%d) exceeds length %d", ErrTruncated, off, len(w.buf))
	}
	binary.LittleEndian.PutUint32(w.buf[off:off+4], v)
	return nil
}

// Package bytecursor provides a fixed-capacity sequential reader/writer over
// a borrowed, mutable byte region.
package bytecursor

import (
	"encoding/binary"
	"fmt"
)

// ErrInsufficientCapacity is returned whenever an operation would advance
// the cursor past the end of its region.
type ErrInsufficientCapacity struct {
	Pos      int
	Want     int
	Capacity int
}

func (e *ErrInsufficientCapacity) Error() string {
	return fmt.Sprintf("bytecursor: insufficient capacity: pos=%d want=%d capacity=%d", e.Pos, e.Want, e.Capacity)
}

// Cursor is a mutable view over buf with a read/write position in
// [0, len(buf)]. It never grows or reallocates buf.
type Cursor struct {
	buf []byte
	pos int
}

// New wraps buf in a Cursor starting at position 0.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the capacity of the underlying region.
func (c *Cursor) Len() int { return len(c.buf) }

// Pos returns the current cursor position.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of bytes left before capacity is exhausted.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves the cursor to an absolute position.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return &ErrInsufficientCapacity{Pos: c.pos, Want: pos, Capacity: len(c.buf)}
	}
	c.pos = pos
	return nil
}

// Advance moves the cursor forward by n bytes without reading them.
func (c *Cursor) Advance(n int) error {
	return c.Seek(c.pos + n)
}

func (c *Cursor) checkCapacity(n int) error {
	if c.pos+n > len(c.buf) {
		return &ErrInsufficientCapacity{Pos: c.pos, Want: n, Capacity: len(c.buf)}
	}
	return nil
}

// WriteByte writes a single byte and advances the cursor by 1.
func (c *Cursor) WriteByte(b byte) error {
	if err := c.checkCapacity(1); err != nil {
		return err
	}
	c.buf[c.pos] = b
	c.pos++
	return nil
}

// ReadByte reads a single byte and advances the cursor by 1.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.checkCapacity(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// WriteUint16 writes a big-endian u16 and advances by 2.
func (c *Cursor) WriteUint16(v uint16) error {
	if err := c.checkCapacity(2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(c.buf[c.pos:], v)
	c.pos += 2
	return nil
}

// ReadUint16 reads a big-endian u16 and advances by 2.
func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.checkCapacity(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// WriteUint32 writes a big-endian u32 and advances by 4.
func (c *Cursor) WriteUint32(v uint32) error {
	if err := c.checkCapacity(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(c.buf[c.pos:], v)
	c.pos += 4
	return nil
}

// ReadUint32 reads a big-endian u32 and advances by 4.
func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.checkCapacity(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// WriteUint64 writes a big-endian u64 and advances by 8.
func (c *Cursor) WriteUint64(v uint64) error {
	if err := c.checkCapacity(8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(c.buf[c.pos:], v)
	c.pos += 8
	return nil
}

// ReadUint64 reads a big-endian u64 and advances by 8.
func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.checkCapacity(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// WriteBytes copies p into the region and advances by len(p).
func (c *Cursor) WriteBytes(p []byte) error {
	if err := c.checkCapacity(len(p)); err != nil {
		return err
	}
	copy(c.buf[c.pos:], p)
	c.pos += len(p)
	return nil
}

// ReadBytes returns a copy of the next n bytes and advances by n.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.checkCapacity(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// Fill writes n zero bytes and advances by n.
func (c *Cursor) Fill(n int) error {
	if err := c.checkCapacity(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		c.buf[c.pos+i] = 0
	}
	c.pos += n
	return nil
}

// Bytes returns the region from the current position to the end, without
// advancing. Callers must not retain it past further cursor mutation.
func (c *Cursor) Bytes() []byte {
	return c.buf[c.pos:]
}

// ScopedExact runs fn and asserts it advanced the cursor by exactly n bytes.
// It is used to pin the size an encoder claimed for itself against what it
// actually wrote.
func (c *Cursor) ScopedExact(n int, fn func(*Cursor) error) error {
	before := c.pos
	if err := fn(c); err != nil {
		return err
	}
	advanced := c.pos - before
	if advanced != n {
		return fmt.Errorf("bytecursor: scoped region advanced %d bytes, want exactly %d", advanced, n)
	}
	return nil
}

// Delta runs fn and returns the number of bytes it advanced the cursor by.
func (c *Cursor) Delta(fn func(*Cursor) error) (int, error) {
	before := c.pos
	if err := fn(c); err != nil {
		return c.pos - before, err
	}
	return c.pos - before, nil
}

package bytecursor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_WriteReadRoundTrip(t *testing.T) {
	assert := require.New(t)

	buf := make([]byte, 32)
	w := New(buf)
	assert.NoError(w.WriteByte(0x42))
	assert.NoError(w.WriteUint16(1234))
	assert.NoError(w.WriteUint32(999999))
	assert.NoError(w.WriteUint64(1 << 40))
	assert.NoError(w.WriteBytes([]byte("hi")))

	r := New(buf)
	b, err := r.ReadByte()
	assert.NoError(err)
	assert.Equal(byte(0x42), b)

	u16, err := r.ReadUint16()
	assert.NoError(err)
	assert.EqualValues(1234, u16)

	u32, err := r.ReadUint32()
	assert.NoError(err)
	assert.EqualValues(999999, u32)

	u64, err := r.ReadUint64()
	assert.NoError(err)
	assert.EqualValues(1<<40, u64)

	raw, err := r.ReadBytes(2)
	assert.NoError(err)
	assert.Equal("hi", string(raw))
}

func TestCursor_InsufficientCapacity(t *testing.T) {
	assert := require.New(t)
	buf := make([]byte, 1)
	c := New(buf)
	assert.NoError(c.WriteByte(1))
	err := c.WriteByte(2)
	assert.Error(err)
	var capErr *ErrInsufficientCapacity
	assert.ErrorAs(err, &capErr)
}

func TestCursor_SeekAndAdvance(t *testing.T) {
	assert := require.New(t)
	c := New(make([]byte, 10))
	assert.NoError(c.Seek(5))
	assert.Equal(5, c.Pos())
	assert.NoError(c.Advance(2))
	assert.Equal(7, c.Pos())
	assert.Equal(3, c.Remaining())
	assert.Error(c.Seek(11))
}

func TestCursor_FillWritesZeroes(t *testing.T) {
	assert := require.New(t)
	buf := []byte{1, 2, 3, 4}
	c := New(buf)
	assert.NoError(c.Fill(4))
	assert.Equal([]byte{0, 0, 0, 0}, buf)
}

func TestCursor_ScopedExact(t *testing.T) {
	assert := require.New(t)
	c := New(make([]byte, 10))
	assert.NoError(c.ScopedExact(2, func(c *Cursor) error {
		return c.WriteUint16(7)
	}))
	err := c.ScopedExact(3, func(c *Cursor) error {
		return c.WriteUint16(7)
	})
	assert.Error(err)
}

func TestCursor_Delta(t *testing.T) {
	assert := require.New(t)
	c := New(make([]byte, 10))
	n, err := c.Delta(func(c *Cursor) error {
		return c.WriteBytes([]byte{1, 2, 3})
	})
	assert.NoError(err)
	assert.Equal(3, n)
}

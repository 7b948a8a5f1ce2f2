package serial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/bytecursor"
)

func TestLengthPrefixedString_RoundTrip(t *testing.T) {
	assert := require.New(t)
	buf := make([]byte, SizeLengthPrefixedString("hello"))
	c := bytecursor.New(buf)
	assert.NoError(WriteLengthPrefixedString(c, "hello"))

	r := bytecursor.New(buf)
	s, err := ReadLengthPrefixedString(r)
	assert.NoError(err)
	assert.Equal("hello", s)
}

func TestLengthPrefixedString_RejectsInvalidUTF8(t *testing.T) {
	assert := require.New(t)
	buf := make([]byte, 2+3)
	c := bytecursor.New(buf)
	assert.NoError(WriteLengthPrefixedBytes(c, []byte{0xff, 0xfe, 0xfd}))

	r := bytecursor.New(buf)
	_, err := ReadLengthPrefixedString(r)
	assert.Error(err)
}

func TestList_RoundTrip(t *testing.T) {
	assert := require.New(t)
	items := []int{1, 2, 3}
	buf := make([]byte, SizeList(len(items), 4))
	c := bytecursor.New(buf)
	assert.NoError(WriteList(c, items, func(c *bytecursor.Cursor, v int) error {
		return c.WriteUint32(uint32(v))
	}))

	r := bytecursor.New(buf)
	got, err := ReadList(r, func(c *bytecursor.Cursor) (int, error) {
		v, err := c.ReadUint32()
		return int(v), err
	})
	assert.NoError(err)
	assert.Equal(items, got)
}

func TestOptionalPageID_RoundTrip(t *testing.T) {
	assert := require.New(t)
	buf := make([]byte, SizeOptionalPageID)

	c := bytecursor.New(buf)
	assert.NoError(WriteOptionalPageID(c, nil))
	r := bytecursor.New(buf)
	v, err := ReadOptionalPageID(r)
	assert.NoError(err)
	assert.Nil(v)

	id := uint32(7)
	c = bytecursor.New(buf)
	assert.NoError(WriteOptionalPageID(c, &id))
	r = bytecursor.New(buf)
	v, err = ReadOptionalPageID(r)
	assert.NoError(err)
	require.NotNil(t, v)
	assert.EqualValues(7, *v)
}

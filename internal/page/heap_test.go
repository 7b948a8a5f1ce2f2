package page

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/bytecursor"
)

func TestHeap_NewSeqFirst_HasPresentSeqHeader(t *testing.T) {
	assert := require.New(t)

	h := NewSeqFirst(4096, 2)
	assert.NotNil(h.Seq)
	assert.Equal(ID(2), h.Seq.LastPageID)
	assert.EqualValues(1, h.Seq.PageCount)
	assert.EqualValues(0, h.Seq.RecordCount)
	assert.Nil(h.NextPageID)

	got, err := ParseHeap(2, 4096, h.Bytes())
	assert.NoError(err)
	require.NotNil(t, got.Seq)
	assert.Equal(h.Seq.LastPageID, got.Seq.LastPageID)
}

func TestHeap_NewSeqNode_HasAbsentSeqHeader(t *testing.T) {
	assert := require.New(t)

	h := NewSeqNode(4096, 3)
	assert.Nil(h.Seq)

	got, err := ParseHeap(3, 4096, h.Bytes())
	assert.NoError(err)
	assert.Nil(got.Seq)
}

func TestHeap_WriteAndReadAt(t *testing.T) {
	assert := require.New(t)

	h := NewSeqFirst(4096, 2)
	before := h.FreeOffset

	assert.NoError(h.Write(func(c *bytecursor.Cursor) error {
		return c.WriteBytes([]byte("hello"))
	}))
	assert.Equal(before+5, h.FreeOffset)
	assert.EqualValues(0, h.RecordCount)

	var got []byte
	assert.NoError(h.ReadAt(int(before), func(c *bytecursor.Cursor) error {
		b, err := c.ReadBytes(5)
		got = b
		return err
	}))
	assert.Equal([]byte("hello"), got)
}

func TestHeap_CanAccommodate(t *testing.T) {
	assert := require.New(t)
	h := NewSeqNode(16, 3)
	assert.True(h.CanAccommodate(0))
	assert.False(h.CanAccommodate(1000))
}

func TestHeap_SetNextPageID(t *testing.T) {
	assert := require.New(t)
	h := NewSeqNode(4096, 3)
	h.SetNextPageID(4)
	require.NotNil(t, h.NextPageID)
	assert.Equal(ID(4), *h.NextPageID)

	got, err := ParseHeap(3, 4096, h.Bytes())
	assert.NoError(err)
	require.NotNil(t, got.NextPageID)
	assert.Equal(ID(4), *got.NextPageID)
}

func TestDecode_DispatchesByPageID(t *testing.T) {
	assert := require.New(t)

	h := NewHeader(4096)
	p, err := Decode(HeaderPageID, 4096, h.Bytes())
	assert.NoError(err)
	assert.Equal(TypeHeader, p.Type())

	heap := NewSeqFirst(4096, 2)
	p2, err := Decode(2, 4096, heap.Bytes())
	assert.NoError(err)
	assert.Equal(TypeHeap, p2.Type())
}

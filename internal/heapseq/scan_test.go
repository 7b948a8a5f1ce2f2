package heapseq

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/diskmgr"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/record"
)

func newTestPager(t *testing.T) *pager.Pager {
	t.Helper()
	disk, err := diskmgr.Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	require.NoError(t, err)
	p := pager.New(disk, 4096, 16, nil)
	_, err = pager.FlushPageAndBuildGuard[*page.Header](p, page.NewHeader(4096))
	require.NoError(t, err)
	return p
}

func appendRecord(t *testing.T, p *pager.Pager, id page.ID, payload string) {
	t.Helper()
	g, err := pager.Get[*page.Heap](p, id)
	require.NoError(t, err)
	v, err := g.Write()
	require.NoError(t, err)

	h := v.Page()
	rec := record.New(uint32(id), int(h.FreeOffset), []byte(payload))
	require.NoError(t, h.Write(func(c *bytecursor.Cursor) error {
		return rec.WriteTo(c)
	}))
	h.IncrementLocalRecordCount()
	if h.Seq != nil {
		h.Seq.RecordCount++
		h.Sync()
	}
	v.Flush()
}

func decodeString(rec *record.Record) (string, error) {
	c := rec.PayloadCursor()
	return string(c.Bytes()), nil
}

func TestScan_SinglePage(t *testing.T) {
	assert := require.New(t)
	p := newTestPager(t)

	g, err := pager.Alloc[*page.Heap](p, page.NewSeqFirst)
	assert.NoError(err)
	v, err := g.Read()
	assert.NoError(err)
	rootID := v.Page().ID()
	v.Release()

	appendRecord(t, p, rootID, "one")
	appendRecord(t, p, rootID, "two")

	s := New(p, rootID, decodeString)
	var got []string
	for {
		v, _, ok, err := s.Next()
		assert.NoError(err)
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal([]string{"one", "two"}, got)
}

func TestScan_AcrossPageBoundary(t *testing.T) {
	assert := require.New(t)
	p := newTestPager(t)

	g, err := pager.Alloc[*page.Heap](p, page.NewSeqFirst)
	assert.NoError(err)
	v, err := g.Read()
	assert.NoError(err)
	rootID := v.Page().ID()
	v.Release()

	g2, err := pager.Alloc[*page.Heap](p, page.NewSeqNode)
	assert.NoError(err)
	v2, err := g2.Write()
	assert.NoError(err)
	nextID := v2.Page().ID()
	v2.Page().NextPageID = nil
	v2.Flush()

	rg, err := pager.Get[*page.Heap](p, rootID)
	assert.NoError(err)
	rv, err := rg.Write()
	assert.NoError(err)
	rv.Page().SetNextPageID(nextID)
	rv.Page().Seq.LastPageID = nextID
	rv.Page().Seq.PageCount = 2
	rv.Page().Sync()
	rv.Flush()

	appendRecord(t, p, rootID, "first")
	appendRecord(t, p, nextID, "second")

	// Bump the root's sequence record count to match: appendRecord already
	// incremented it once for the root-page write; do it again for the
	// second page's record, landing on a page other than the root.
	rg2, err := pager.Get[*page.Heap](p, rootID)
	assert.NoError(err)
	rv2, err := rg2.Write()
	assert.NoError(err)
	rv2.Page().Seq.RecordCount++
	rv2.Page().Sync()
	rv2.Flush()

	s := New(p, rootID, decodeString)
	var got []string
	for {
		v, _, ok, err := s.Next()
		assert.NoError(err)
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal([]string{"first", "second"}, got)
}

func TestScan_Peek_DoesNotAdvance(t *testing.T) {
	assert := require.New(t)
	p := newTestPager(t)

	g, err := pager.Alloc[*page.Heap](p, page.NewSeqFirst)
	assert.NoError(err)
	v, err := g.Read()
	assert.NoError(err)
	rootID := v.Page().ID()
	v.Release()

	appendRecord(t, p, rootID, "only")

	s := New(p, rootID, decodeString)
	peeked, _, ok, err := s.Peek()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("only", peeked)

	next, _, ok, err := s.Next()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("only", next)

	_, _, ok, err = s.Next()
	assert.NoError(err)
	assert.False(ok)
}

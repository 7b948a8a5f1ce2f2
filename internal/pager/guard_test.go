package pager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/diskmgr"
	"github.com/joeandaverde/fdb/internal/page"
)

func TestGuard_WriteViewMutationVisibleAfterFlush(t *testing.T) {
	assert := require.New(t)
	disk, err := diskmgr.Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	assert.NoError(err)
	p := New(disk, 4096, 16, nil)

	_, err = FlushPageAndBuildGuard[*page.Header](p, page.NewHeader(4096))
	assert.NoError(err)

	g, err := Get[*page.Header](p, page.HeaderPageID)
	assert.NoError(err)

	wv, err := g.Write()
	assert.NoError(err)
	wv.Page().SetPageCount(42)
	wv.Flush()

	rv, err := g.Read()
	assert.NoError(err)
	assert.EqualValues(42, rv.Page().PageCount)
	rv.Release()
}

func TestGuard_DiscardDoesNotScheduleFlush(t *testing.T) {
	assert := require.New(t)
	disk, err := diskmgr.Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	assert.NoError(err)
	p := New(disk, 4096, 16, nil)

	_, err = FlushPageAndBuildGuard[*page.Header](p, page.NewHeader(4096))
	assert.NoError(err)

	g, err := Get[*page.Header](p, page.HeaderPageID)
	assert.NoError(err)

	wv, err := g.Write()
	assert.NoError(err)
	wv.Page().SetPageCount(999)
	wv.Discard()

	assert.NoError(p.FlushAll())

	p.ClearCache(page.HeaderPageID)
	g2, err := Get[*page.Header](p, page.HeaderPageID)
	assert.NoError(err)
	rv, err := g2.Read()
	assert.NoError(err)
	assert.EqualValues(1, rv.Page().PageCount, "discarded mutation must not have reached disk")
	rv.Release()
}

func TestGuard_DoubleReleaseIsNoOp(t *testing.T) {
	assert := require.New(t)
	disk, err := diskmgr.Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	assert.NoError(err)
	p := New(disk, 4096, 16, nil)

	_, err = FlushPageAndBuildGuard[*page.Header](p, page.NewHeader(4096))
	assert.NoError(err)

	g, err := Get[*page.Header](p, page.HeaderPageID)
	assert.NoError(err)

	rv, err := g.Read()
	assert.NoError(err)
	rv.Release()
	assert.NotPanics(func() { rv.Release() })
}

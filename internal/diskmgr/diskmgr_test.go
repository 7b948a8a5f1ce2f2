package diskmgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
)

func TestManager_ReadPage_OutOfBoundsOnEmptyFile(t *testing.T) {
	assert := require.New(t)
	m, err := Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	assert.NoError(err)
	defer m.Close()

	buf := make([]byte, 4096)
	err = m.ReadPage(page.HeaderPageID, buf)
	assert.Error(err)
	var oob *fdberr.PageOutOfBounds
	assert.ErrorAs(err, &oob)
	assert.EqualValues(1, oob.ID)
}

func TestManager_WriteThenReadPage(t *testing.T) {
	assert := require.New(t)
	m, err := Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	assert.NoError(err)
	defer m.Close()

	want := make([]byte, 4096)
	copy(want, []byte("page one contents"))
	assert.NoError(m.WritePage(page.HeaderPageID, want))

	got := make([]byte, 4096)
	assert.NoError(m.ReadPage(page.HeaderPageID, got))
	assert.Equal(want, got)
}

func TestManager_ReadPage_IncompleteOnTruncatedFile(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "db.fdb")
	m, err := Open(path, 4096)
	assert.NoError(err)

	// Write page 1 fully, then page 2 only partially by truncating
	// afterward, simulating a crash mid-write.
	assert.NoError(m.WritePage(page.HeaderPageID, make([]byte, 4096)))
	assert.NoError(m.WritePage(page.ID(2), make([]byte, 4096)))
	assert.NoError(m.Close())

	assert.NoError(os.Truncate(path, 4096+100))

	m2, err := Open(path, 4096)
	assert.NoError(err)
	defer m2.Close()

	buf := make([]byte, 4096)
	err = m2.ReadPage(page.ID(2), buf)
	assert.Error(err)
	var incomplete *fdberr.IncompletePage
	assert.ErrorAs(err, &incomplete)
}

func TestManager_Size(t *testing.T) {
	assert := require.New(t)
	m, err := Open(filepath.Join(t.TempDir(), "db.fdb"), 4096)
	assert.NoError(err)
	defer m.Close()

	assert.NoError(m.WritePage(page.HeaderPageID, make([]byte, 4096)))
	size, err := m.Size()
	assert.NoError(err)
	assert.EqualValues(4096, size)
}

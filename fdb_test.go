package fdb

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/query"
	"github.com/joeandaverde/fdb/internal/value"
)

func TestOpen_BootstrapsFreshDatabase(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "db.fdb")

	db, isNew, err := Open(path)
	assert.NoError(err)
	assert.True(isNew)
	assert.Equal(DefaultPageSize, db.PageSize())
}

func TestOpen_SecondOpenIsNotNew(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "db.fdb")

	_, isNew, err := Open(path)
	assert.NoError(err)
	assert.True(isNew)

	_, isNew, err = Open(path)
	assert.NoError(err)
	assert.False(isNew)
}

func TestOpenWithPageSize_MismatchIsHardError(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "db.fdb")

	_, _, err := OpenWithPageSize(path, 4096)
	assert.NoError(err)

	_, _, err = OpenWithPageSize(path, 8192)
	assert.Error(err)
}

// createTable allocates a fresh heap sequence for a table's rows and
// persists its catalog entry, mirroring what a higher-level "CREATE TABLE"
// operation would do in front of query.ObjectCreate.
func createTable(t *testing.T, db *Db, name string, schema value.Schema) catalog.Object {
	t.Helper()
	g, err := pager.Alloc[*page.Heap](db.Pager(), page.NewSeqFirst)
	require.NoError(t, err)
	v, err := g.Read()
	require.NoError(t, err)
	rootID := v.Page().ID()
	v.Release()

	obj := catalog.Object{Kind: catalog.KindTable, Name: name, RootPage: rootID, Schema: schema}
	outer, inner := db.Execute(query.NewObjectCreate(db.Pager(), obj), func(query.Item) error { return nil })
	require.NoError(t, outer)
	require.NoError(t, inner)
	return obj
}

func TestExecute_CreateTableInsertAndSelect(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "db.fdb")

	db, _, err := Open(path)
	assert.NoError(err)

	schema := value.Schema{Columns: []value.Column{
		{Elem: value.TypeText, Name: "name"},
		{Elem: value.TypeInt, Name: "age"},
	}}
	createTable(t, db, "person", schema)

	obj, err := query.FindObject(db.Pager(), "person")
	assert.NoError(err)

	insertOuter, insertInner := db.Execute(
		query.NewInsert(db.Pager(), obj, value.Values{"name": value.Text("joe"), "age": value.Int(30)}),
		func(query.Item) error { return nil },
	)
	assert.NoError(insertOuter)
	assert.NoError(insertInner)

	var names []string
	selectOuter, selectInner := db.Execute(query.NewSelect(db.Pager(), obj, nil), func(item query.Item) error {
		names = append(names, item.Row["name"].Scalar.(string))
		return nil
	})
	assert.NoError(selectOuter)
	assert.NoError(selectInner)
	assert.Equal([]string{"joe"}, names)
}

func TestExecute_CallbackErrorStopsIterationWithoutFlush(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "db.fdb")

	db, _, err := Open(path)
	assert.NoError(err)

	schema := value.Schema{Columns: []value.Column{{Elem: value.TypeInt, Name: "n"}}}
	obj := createTable(t, db, "t", schema)

	for i := 0; i < 3; i++ {
		outer, inner := db.Execute(query.NewInsert(db.Pager(), obj, value.Values{"n": value.Int(int32(i))}), func(query.Item) error { return nil })
		assert.NoError(outer)
		assert.NoError(inner)
	}

	var boomErr = errors.New("boom")
	called := 0
	outerErr, innerErr := db.Execute(query.NewSelect(db.Pager(), obj, nil), func(item query.Item) error {
		called++
		if called == 2 {
			return boomErr
		}
		return nil
	})
	assert.NoError(outerErr)
	assert.ErrorIs(innerErr, boomErr)
	assert.Equal(2, called)
}

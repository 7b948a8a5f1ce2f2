package query

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/heapseq"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/record"
)

// ObjectCreate appends a catalog object (table or index) to the catalog's
// heap sequence, rooted at the well-known page id 2 (spec.md §4.9). It is
// the Insert algorithm specialized against the catalog rather than a user
// table.
type ObjectCreate struct {
	pgr  *pager.Pager
	obj  catalog.Object
	done bool
}

// NewObjectCreate builds a single-object catalog insert.
func NewObjectCreate(pgr *pager.Pager, obj catalog.Object) *ObjectCreate {
	return &ObjectCreate{pgr: pgr, obj: obj}
}

func (q *ObjectCreate) Next() (Item, bool, error) {
	if q.done {
		return Item{}, false, nil
	}
	q.done = true

	buf := make([]byte, q.obj.Size())
	c := bytecursor.New(buf)
	if err := q.obj.WriteTo(c); err != nil {
		return Item{}, false, err
	}
	if err := insertRow(q.pgr, catalog.RootPageID, buf); err != nil {
		return Item{}, false, err
	}
	return Item{Object: q.obj, IsObject: true}, true, nil
}

// ObjectSelect scans the catalog's heap sequence, optionally filtered to a
// single object name, skipping tombstoned entries.
type ObjectSelect struct {
	scan   *heapseq.Scan[catalog.Object]
	name   string
	byName bool
}

// NewObjectSelect builds a scan over every live catalog object.
func NewObjectSelect(pgr *pager.Pager) *ObjectSelect {
	decode := func(rec *record.Record) (catalog.Object, error) {
		return catalog.ReadObject(rec.PayloadCursor())
	}
	return &ObjectSelect{scan: heapseq.New(pgr, catalog.RootPageID, decode)}
}

// NewObjectSelectByName builds a scan that yields only the object named
// name, if any.
func NewObjectSelectByName(pgr *pager.Pager, name string) *ObjectSelect {
	q := NewObjectSelect(pgr)
	q.name = name
	q.byName = true
	return q
}

func (q *ObjectSelect) Next() (Item, bool, error) {
	for {
		obj, rec, ok, err := q.scan.Next()
		if err != nil || !ok {
			return Item{}, false, err
		}
		if rec.IsDeleted() {
			continue
		}
		if q.byName && obj.Name != q.name {
			continue
		}
		return Item{Object: obj, IsObject: true}, true, nil
	}
}

// FindObject looks up a single catalog object by name, returning an *fdberr.Exec
// if no live object by that name exists.
func FindObject(pgr *pager.Pager, name string) (catalog.Object, error) {
	item, ok, err := NewObjectSelectByName(pgr, name).Next()
	if err != nil {
		return catalog.Object{}, err
	}
	if !ok {
		return catalog.Object{}, fdberr.Execf("object %q not found", name)
	}
	return item.Object, nil
}

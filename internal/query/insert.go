package query

import (
	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/value"
)

// Insert schematizes a single row against obj's schema and appends it to
// obj's heap sequence. It yields exactly one item: the row as actually
// stored, with any absent columns filled with their type defaults.
type Insert struct {
	pgr    *pager.Pager
	obj    catalog.Object
	values value.Values
	done   bool
}

// NewInsert builds a single-row insert against obj.
func NewInsert(pgr *pager.Pager, obj catalog.Object, values value.Values) *Insert {
	return &Insert{pgr: pgr, obj: obj, values: values}
}

func (q *Insert) Next() (Item, bool, error) {
	if q.done {
		return Item{}, false, nil
	}
	q.done = true

	sch, payload, err := schematizeAndEncode(q.obj.Schema, q.values)
	if err != nil {
		return Item{}, false, err
	}
	if err := insertRow(q.pgr, q.obj.RootPage, payload); err != nil {
		return Item{}, false, err
	}
	return Item{Row: sch.Values}, true, nil
}

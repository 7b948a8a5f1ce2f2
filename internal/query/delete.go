package query

import (
	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/pager"
)

// Delete is a linear scan that tombstones each matching record in place and
// flushes it immediately, yielding the deleted row (spec.md §4.11; zero
// rows matching is a valid, non-error outcome).
type Delete struct {
	pgr  *pager.Pager
	scan *LinearScan
	pred func(Item) bool
}

// NewDelete builds a delete over obj's rows. pred may be nil, deleting
// every live row.
func NewDelete(pgr *pager.Pager, obj catalog.Object, pred func(Item) bool) *Delete {
	return &Delete{pgr: pgr, scan: NewLinearScan(pgr, obj.Schema, obj.RootPage), pred: pred}
}

func (d *Delete) Next() (Item, bool, error) {
	for {
		sch, rec, ok, err := d.scan.Next()
		if err != nil || !ok {
			return Item{}, false, err
		}
		if rec.IsDeleted() {
			continue
		}
		item := Item{Row: sch.Values}
		if d.pred != nil && !d.pred(item) {
			continue
		}
		if err := tombstoneAndFlush(d.pgr, rec); err != nil {
			return Item{}, false, err
		}
		return item, true, nil
	}
}

package query

import (
	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/value"
)

// Updater computes a new set of column values from the old ones.
type Updater func(old value.Values) value.Values

// Update is a linear scan that, for each matching record, applies updater
// and tries to rewrite the record's payload in place. When the new payload
// no longer fits the record's fixed envelope (spec.md §4.7, §9), the old
// record is tombstoned and flushed first, and only then is a fresh record
// inserted elsewhere — this ordering avoids the writer deadlocking against
// its own in-flight root-page guard.
type Update struct {
	pgr     *pager.Pager
	obj     catalog.Object
	scan    *LinearScan
	pred    func(Item) bool
	updater Updater
}

// NewUpdate builds an update over obj's rows. pred may be nil, matching
// every live row.
func NewUpdate(pgr *pager.Pager, obj catalog.Object, pred func(Item) bool, updater Updater) *Update {
	return &Update{pgr: pgr, obj: obj, scan: NewLinearScan(pgr, obj.Schema, obj.RootPage), pred: pred, updater: updater}
}

func (u *Update) Next() (Item, bool, error) {
	for {
		sch, rec, ok, err := u.scan.Next()
		if err != nil || !ok {
			return Item{}, false, err
		}
		if rec.IsDeleted() {
			continue
		}
		item := Item{Row: sch.Values}
		if u.pred != nil && !u.pred(item) {
			continue
		}

		updated := u.updater(sch.Clone())
		newSch, payload, err := schematizeAndEncode(u.obj.Schema, updated)
		if err != nil {
			return Item{}, false, err
		}

		if fits, _ := rec.TryUpdate(payload); fits {
			if err := writeEnvelopeAt(u.pgr, rec); err != nil {
				return Item{}, false, err
			}
			return Item{Row: newSch.Values}, true, nil
		}

		if err := tombstoneAndFlush(u.pgr, rec); err != nil {
			return Item{}, false, err
		}
		if err := insertRow(u.pgr, u.obj.RootPage, payload); err != nil {
			return Item{}, false, err
		}
		return Item{Row: newSch.Values}, true, nil
	}
}

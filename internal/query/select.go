package query

import (
	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/pager"
)

// Select is a thin wrapper over LinearScan that filters tombstoned
// records, optionally further filtered by pred (nil means "all rows").
type Select struct {
	scan *LinearScan
	pred func(Item) bool
}

// NewSelect builds a select over obj's rows. pred may be nil.
func NewSelect(pgr *pager.Pager, obj catalog.Object, pred func(Item) bool) *Select {
	return &Select{scan: NewLinearScan(pgr, obj.Schema, obj.RootPage), pred: pred}
}

func (s *Select) Next() (Item, bool, error) {
	for {
		sch, rec, ok, err := s.scan.Next()
		if err != nil || !ok {
			return Item{}, false, err
		}
		if rec.IsDeleted() {
			continue
		}
		item := Item{Row: sch.Values}
		if s.pred != nil && !s.pred(item) {
			continue
		}
		return item, true, nil
	}
}

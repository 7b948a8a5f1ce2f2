package fdb

import (
	"errors"
	"fmt"

	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pager"
)

// bootstrap implements spec.md §4.13's first-access detection: try to read
// the header page; a page-out-of-bounds error means the file is empty and
// this is a brand-new database, which gets a fresh header plus the
// catalog's root heap page (landing, by the monotonic allocator, on page
// 2 — catalog.RootPageID). An incomplete-page read means on-disk
// corruption and is not recoverable.
func bootstrap(p *pager.Pager, pageSize uint16) (isNew bool, err error) {
	hg, err := pager.Get[*page.Header](p, page.HeaderPageID)
	if err == nil {
		hv, err := hg.Read()
		if err != nil {
			return false, err
		}
		defer hv.Release()

		h := hv.Page()
		if h.PageSize != pageSize {
			return false, fdberr.Execf("page size mismatch: database has %d, requested %d", h.PageSize, pageSize)
		}
		return false, nil
	}

	var oob *fdberr.PageOutOfBounds
	if errors.As(err, &oob) {
		header := page.NewHeader(pageSize)
		header.SetFirstSchemaSeqPageID(catalog.RootPageID)

		if _, err := pager.FlushPageAndBuildGuard[*page.Header](p, header); err != nil {
			return false, err
		}

		catalogGuard, err := pager.Alloc[*page.Heap](p, page.NewSeqFirst)
		if err != nil {
			return false, err
		}
		if catalogGuard == nil {
			return false, fdberr.Execf("bootstrap: failed to allocate catalog root page")
		}

		Logger.WithField("page_size", pageSize).Info("fdb: bootstrapped new database")
		return true, nil
	}

	var incomplete *fdberr.IncompletePage
	if errors.As(err, &incomplete) {
		panic(fmt.Sprintf("fdb: corrupted database: %v", err))
	}

	return false, err
}

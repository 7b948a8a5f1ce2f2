// Package heapseq implements the stateful cursor over a multi-page heap
// chain (spec.md §4.10): lazy initialization from the chain's root page,
// peek/advance, and decoding via a caller-supplied decoder.
package heapseq

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/record"
)

// Decoder turns a decoded record envelope into a caller-chosen T, typically
// by reading the envelope's payload against a schema (spec.md §4.10's
// "(cursor, physical_state) → record").
type Decoder[T any] func(rec *record.Record) (T, error)

// Scan is a lazy cursor over a heap sequence rooted at rootPageID. It is
// not safe for concurrent use by multiple goroutines.
type Scan[T any] struct {
	pgr    *pager.Pager
	rootID page.ID
	decode Decoder[T]

	started bool

	currentPageID page.ID
	offset        int
	remPage       int
	remTotal      uint64
}

// New creates a scan over the heap sequence rooted at rootPageID. The root
// page is not touched until the first Next/Peek call.
func New[T any](p *pager.Pager, rootPageID page.ID, decode Decoder[T]) *Scan[T] {
	return &Scan[T]{pgr: p, rootID: rootPageID, decode: decode}
}

func (s *Scan[T]) init() error {
	if s.started {
		return nil
	}

	g, err := pager.Get[*page.Heap](s.pgr, s.rootID)
	if err != nil {
		return err
	}
	v, err := g.Read()
	if err != nil {
		return err
	}
	defer v.Release()

	h := v.Page()
	if h.Seq == nil {
		return fdberr.Execf("heapseq: root page %d has no sequence header", uint32(s.rootID))
	}

	s.started = true
	s.currentPageID = s.rootID
	s.remTotal = h.Seq.RecordCount
	s.remPage = int(h.RecordCount)
	s.offset = 0
	return nil
}

// readRecord decodes the record envelope physically present at
// (pageID, offset).
func (s *Scan[T]) readRecord(pageID page.ID, offset int) (*record.Record, error) {
	g, err := pager.Get[*page.Heap](s.pgr, pageID)
	if err != nil {
		return nil, err
	}
	v, err := g.Read()
	if err != nil {
		return nil, err
	}
	defer v.Release()

	var rec *record.Record
	err = v.Page().ReadAt(offset, func(c *bytecursor.Cursor) error {
		r, err := record.ReadAt(c, uint32(pageID), offset)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// advancePage follows the current page's next-page-id and primes remPage
// for the new page. remPage reaching 0 with records still remaining
// (remTotal > 0) implies a next page MUST be present (spec.md §4.10).
func (s *Scan[T]) advancePage() error {
	g, err := pager.Get[*page.Heap](s.pgr, s.currentPageID)
	if err != nil {
		return err
	}
	v, err := g.Read()
	if err != nil {
		return err
	}
	next := v.Page().NextPageID
	v.Release()

	if next == nil {
		return fdberr.Execf("heapseq: page %d has no next page but records remain", uint32(s.currentPageID))
	}
	nextID := *next

	g2, err := pager.Get[*page.Heap](s.pgr, nextID)
	if err != nil {
		return err
	}
	v2, err := g2.Read()
	if err != nil {
		return err
	}
	remPage := int(v2.Page().RecordCount)
	v2.Release()

	s.currentPageID = nextID
	s.offset = 0
	s.remPage = remPage
	return nil
}

// Next decodes and consumes the next record, including tombstoned ones —
// callers filter tombstones themselves at the query layer (spec.md §4.9,
// §4.11), not here, since some callers (e.g. a future compaction pass)
// would want to see tombstones too.
func (s *Scan[T]) Next() (value T, rec *record.Record, ok bool, err error) {
	if err = s.init(); err != nil {
		return
	}
	for {
		if s.remTotal == 0 {
			return
		}
		if s.remPage == 0 {
			if err = s.advancePage(); err != nil {
				return
			}
			continue
		}

		rec, err = s.readRecord(s.currentPageID, s.offset)
		if err != nil {
			return
		}
		value, err = s.decode(rec)
		if err != nil {
			return
		}

		s.offset += rec.Size()
		s.remPage--
		s.remTotal--
		ok = true
		return
	}
}

// Peek returns the next record without advancing the cursor.
func (s *Scan[T]) Peek() (value T, rec *record.Record, ok bool, err error) {
	if err = s.init(); err != nil {
		return
	}

	pageID := s.currentPageID
	offset := s.offset
	remPage := s.remPage
	remTotal := s.remTotal

	for {
		if remTotal == 0 {
			return
		}
		if remPage == 0 {
			saved := *s
			if err = s.advancePage(); err != nil {
				return
			}
			pageID, offset, remPage = s.currentPageID, s.offset, s.remPage
			*s = saved
			continue
		}

		rec, err = s.readRecord(pageID, offset)
		if err != nil {
			return
		}
		value, err = s.decode(rec)
		ok = err == nil
		return
	}
}

// Package query implements fdb's pull-model query operators (spec.md
// §4.11): insert, linear-scan-backed select/delete/update, and the object
// (table/index) catalog's create/select specializations, all driven
// through a uniform Next() contract.
package query

import (
	log "github.com/sirupsen/logrus"

	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/catalog"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/record"
	"github.com/joeandaverde/fdb/internal/value"
)

// Item is the single shape every operator yields, whichever kind of thing
// it actually carries (spec.md §4.11's "owned row, unit acknowledgement, or
// object").
type Item struct {
	Row      value.Values
	Object   catalog.Object
	IsObject bool
}

// Query is the uniform pull iterator: Next returns the next item, or
// ok == false once exhausted. A Query is bound to its pager and source at
// construction time, matching the rest of fdb's "no ambient state" style.
type Query interface {
	Next() (Item, bool, error)
}

// schematizeAndEncode validates values against schema and serializes the
// resulting row to an exact-sized buffer, ready to become a record payload.
func schematizeAndEncode(schema value.Schema, values value.Values) (value.Schematized, []byte, error) {
	sch, err := value.Schematize(schema, values)
	if err != nil {
		return value.Schematized{}, nil, err
	}
	buf := make([]byte, sch.Size())
	c := bytecursor.New(buf)
	if err := sch.WriteTo(c); err != nil {
		return value.Schematized{}, nil, err
	}
	return sch, buf, nil
}

// writeRecordIntoPage appends rec's envelope at h's current free offset and
// bumps the page-local record count.
func writeRecordIntoPage(h *page.Heap, rec *record.Record) error {
	rec.PageID = uint32(h.ID())
	rec.Offset = int(h.FreeOffset)
	if err := h.Write(func(c *bytecursor.Cursor) error {
		return rec.WriteTo(c)
	}); err != nil {
		return err
	}
	h.IncrementLocalRecordCount()
	return nil
}

// writeEnvelopeAt re-serializes rec's current contents at its own recorded
// offset, for in-place tombstone and update-in-place writes.
func writeEnvelopeAt(pgr *pager.Pager, rec *record.Record) error {
	g, err := pager.Get[*page.Heap](pgr, page.ID(rec.PageID))
	if err != nil {
		return err
	}
	v, err := g.Write()
	if err != nil {
		return err
	}
	h := v.Page()
	if err := h.WriteAt(rec.Offset, func(c *bytecursor.Cursor) error {
		return rec.WriteTo(c)
	}); err != nil {
		v.Discard()
		return err
	}
	v.Flush()
	return nil
}

// tombstoneAndFlush marks rec deleted and rewrites its envelope in place.
func tombstoneAndFlush(pgr *pager.Pager, rec *record.Record) error {
	rec.SetDeleted(true)
	return writeEnvelopeAt(pgr, rec)
}

// insertRow appends payload as a new record into the heap sequence rooted
// at rootID, following spec.md §4.11's insert algorithm: write into the
// sequence's last page if it fits, otherwise allocate a fresh tail page and
// link it in. The sequence header (on the root page) always tracks the
// total record count, even when the record physically lands elsewhere.
func insertRow(pgr *pager.Pager, rootID page.ID, payload []byte) error {
	rootGuard, err := pager.Get[*page.Heap](pgr, rootID)
	if err != nil {
		return err
	}
	rootView, err := rootGuard.Write()
	if err != nil {
		return err
	}
	root := rootView.Page()
	if root.Seq == nil {
		rootView.Discard()
		return fdberr.Execf("query: page %d is not a sequence root", uint32(rootID))
	}

	rec := record.New(0, 0, payload)
	size := rec.Size()

	if root.Seq.LastPageID == rootID {
		if root.CanAccommodate(size) {
			if err := writeRecordIntoPage(root, rec); err != nil {
				rootView.Discard()
				return err
			}
			root.Seq.RecordCount++
			root.Sync()
			rootView.Flush()
			return nil
		}
		return spillToNewPage(pgr, rootView, root, nil, nil, rec)
	}

	lastGuard, err := pager.Get[*page.Heap](pgr, root.Seq.LastPageID)
	if err != nil {
		rootView.Discard()
		return err
	}
	lastView, err := lastGuard.Write()
	if err != nil {
		rootView.Discard()
		return err
	}
	last := lastView.Page()

	if last.CanAccommodate(size) {
		if err := writeRecordIntoPage(last, rec); err != nil {
			lastView.Discard()
			rootView.Discard()
			return err
		}
		lastView.Flush()
		root.Seq.RecordCount++
		root.Sync()
		rootView.Flush()
		return nil
	}

	return spillToNewPage(pgr, rootView, root, lastView, last, rec)
}

// spillToNewPage allocates a fresh tail page, writes rec into it, links it
// in as the sequence's new terminal page, and flushes every guard touched.
// prevView/prev are the current last page when it differs from the root
// (both nil when the root itself was the last page).
func spillToNewPage(
	pgr *pager.Pager,
	rootView *pager.WriteView[*page.Heap], root *page.Heap,
	prevView *pager.WriteView[*page.Heap], prev *page.Heap,
	rec *record.Record,
) error {
	newGuard, err := pager.Alloc[*page.Heap](pgr, page.NewSeqNode)
	if err != nil {
		if prevView != nil {
			prevView.Discard()
		}
		rootView.Discard()
		log.WithError(err).WithField("root", uint32(root.ID())).Error("query: failed to allocate spill page")
		return err
	}
	log.WithField("root", uint32(root.ID())).Debug("query: spilling insert onto a new tail page")
	newView, err := newGuard.Write()
	if err != nil {
		if prevView != nil {
			prevView.Discard()
		}
		rootView.Discard()
		return err
	}
	newHeap := newView.Page()

	if !newHeap.CanAccommodate(rec.Size()) {
		newView.Discard()
		if prevView != nil {
			prevView.Discard()
		}
		rootView.Discard()
		return fdberr.Execf("record of %d bytes does not fit on a fresh page", rec.Size())
	}

	if err := writeRecordIntoPage(newHeap, rec); err != nil {
		newView.Discard()
		if prevView != nil {
			prevView.Discard()
		}
		rootView.Discard()
		return err
	}
	// A freshly allocated node starts self-referential (page.NewSeqNode);
	// clear it now that this page is genuinely the chain's new terminal
	// page, matching spec.md's "only the last page has next_page_id == None".
	newHeap.NextPageID = nil
	newHeap.Sync()
	newView.Flush()

	if prevView != nil {
		prev.SetNextPageID(newHeap.ID())
		prevView.Flush()
	} else {
		root.SetNextPageID(newHeap.ID())
	}

	root.Seq.LastPageID = newHeap.ID()
	root.Seq.PageCount++
	root.Seq.RecordCount++
	root.Sync()
	rootView.Flush()
	return nil
}

// Package pager implements fdb's page-id → shared read/write latch
// contract: guards that must be explicitly released or flushed, a page
// allocator, and a deferred-flush drain (spec.md §4.5).
package pager

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/joeandaverde/fdb/internal/diskmgr"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pagecache"
)

type accessKind byte

const (
	accessRead accessKind = iota
	accessWrite
)

type flushNotification struct {
	id   page.ID
	kind accessKind
}

// Pager owns the disk manager and the page cache, and is the sole path by
// which any other subsystem touches page bytes.
type Pager struct {
	disk     *diskmgr.Manager
	cache    *pagecache.Cache
	pageSize uint16
	log      *log.Logger

	flushMu    sync.Mutex
	flushQueue []flushNotification
}

// New wires a Pager over an already-open disk manager.
func New(disk *diskmgr.Manager, pageSize uint16, cacheCapacity int, logger *log.Logger) *Pager {
	if logger == nil {
		logger = log.New()
	}
	return &Pager{
		disk:     disk,
		cache:    pagecache.New(cacheCapacity),
		pageSize: pageSize,
		log:      logger,
	}
}

// PageSize returns the database's fixed page size.
func (p *Pager) PageSize() uint16 { return p.pageSize }

func (p *Pager) notify(id page.ID, kind accessKind) {
	p.flushMu.Lock()
	p.flushQueue = append(p.flushQueue, flushNotification{id: id, kind: kind})
	p.flushMu.Unlock()
}

// Get returns a guard for id's page, loading it through the cache (and, on
// a cache miss, from disk) if necessary. T must match the page's actual
// on-disk variant or Get fails with a cast error.
func Get[T page.Page](p *Pager, id page.ID) (*Guard[T], error) {
	slot, err := p.cache.GetOrLoad(id, func() (page.Page, error) {
		buf := make([]byte, p.pageSize)
		if err := p.disk.ReadPage(id, buf); err != nil {
			return nil, err
		}
		return page.Decode(id, p.pageSize, buf)
	})
	if err != nil {
		return nil, err
	}
	if _, ok := slot.Page.(T); !ok {
		return nil, &fdberr.Cast{Msg: "page is not the requested variant"}
	}
	return &Guard[T]{pager: p, slot: slot}, nil
}

// Alloc atomically increments the header page's page count, computes the
// fresh id, builds the new page via initFn, writes it straight to disk, and
// installs it into the cache — then releases the header page with a
// scheduled flush. The caller MUST NOT already hold a guard on the header
// page (spec.md §4.5 precondition).
func Alloc[T page.Page](p *Pager, initFn func(pageSize uint16, id page.ID) T) (*Guard[T], error) {
	hg, err := Get[*page.Header](p, page.HeaderPageID)
	if err != nil {
		return nil, err
	}
	hv, err := hg.Write()
	if err != nil {
		return nil, err
	}

	header := hv.Page()
	newID := page.ID(header.PageCount + 1)
	header.SetPageCount(header.PageCount + 1)

	newPage := initFn(p.pageSize, newID)

	if err := p.disk.WritePage(newID, newPage.Bytes()); err != nil {
		hv.Discard()
		return nil, err
	}

	slot := p.cache.InsertNew(newID, newPage)
	hv.Flush()

	p.log.WithField("page", uint32(newID)).Debug("pager: allocated page")

	return &Guard[T]{pager: p, slot: slot}, nil
}

// FlushPageAndBuildGuard is an unsafe bootstrap hook: it writes page
// straight to disk and installs a fresh cache entry for it, bypassing the
// header-consistency dance Alloc performs. Callers (bootstrap only) are
// responsible for keeping the header page's page count consistent.
func FlushPageAndBuildGuard[T page.Page](p *Pager, pg T) (*Guard[T], error) {
	if err := p.disk.WritePage(pg.ID(), pg.Bytes()); err != nil {
		return nil, err
	}
	slot := p.cache.InsertNew(pg.ID(), pg)
	return &Guard[T]{pager: p, slot: slot}, nil
}

// ClearCache unsafely evicts id from the cache without flushing. Used only
// by tests exercising cache-miss reload paths.
func (p *Pager) ClearCache(id page.ID) {
	p.cache.Evict(id)
}

// FlushAll drains the deferred-flush queue until empty, writing out any
// page marked dirty since the last drain. It is not atomic: pages are
// written one at a time, so a crash mid-drain leaves partial state
// (spec.md §4.5, §9 — the core's principal durability weakness).
func (p *Pager) FlushAll() error {
	for {
		p.flushMu.Lock()
		queue := p.flushQueue
		p.flushQueue = nil
		p.flushMu.Unlock()

		if len(queue) == 0 {
			return nil
		}

		for _, n := range queue {
			if n.kind != accessWrite {
				continue
			}
			slot, ok := p.cache.Get(n.id)
			if !ok {
				// Evicted before the drain reached it. Eviction is
				// advisory and orthogonal to the flush queue (spec.md §9);
				// there is nothing left to flush for this notification.
				continue
			}
			slot.RLock()
			buf := slot.Page.Bytes()
			err := p.disk.WritePage(n.id, buf)
			slot.RUnlock()
			if err != nil {
				return err
			}
		}
	}
}

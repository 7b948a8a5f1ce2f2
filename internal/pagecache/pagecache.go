// Package pagecache is an async-flavored, concurrent, single-flight cache
// keyed by page id (spec.md §4.4). It has no knowledge of dirtiness — that
// is tracked externally by the pager's deferred-flush queue — and eviction
// here is purely advisory: the pager must tolerate a miss at any time and
// reload from disk.
package pagecache

import (
	"container/list"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/joeandaverde/fdb/internal/page"
)

// Slot is a shared, reference-counted cache entry guarded by a
// reader/writer latch: multiple shared-view holders are permitted, a write
// view is exclusive (spec.md §5).
type Slot struct {
	mu   sync.RWMutex
	Page page.Page
}

// RLock/RUnlock/Lock/Unlock expose the slot's latch to the pager, which
// builds its read/write guards on top of them.
func (s *Slot) RLock()   { s.mu.RLock() }
func (s *Slot) RUnlock() { s.mu.RUnlock() }
func (s *Slot) Lock()    { s.mu.Lock() }
func (s *Slot) Unlock()  { s.mu.Unlock() }

// Cache is a bounded, approximately-LRU concurrent map of page id → *Slot,
// grounded on an ordinary container/list LRU combined with a per-key
// single-flight loader for concurrent get_or_load callers.
type Cache struct {
	maxEntries int

	mu      sync.Mutex
	entries map[page.ID]*list.Element
	order   *list.List // front = most recently used

	sf singleflight.Group
}

type cacheEntry struct {
	id   page.ID
	slot *Slot
}

// New creates a cache that holds at most maxEntries slots. maxEntries <= 0
// means unbounded.
func New(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		entries:    make(map[page.ID]*list.Element),
		order:      list.New(),
	}
}

// Get performs a non-loading lookup.
func (c *Cache) Get(id page.ID) (*Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).slot, true
}

// GetOrLoad returns the cached slot for id, or runs loader exactly once
// across any number of concurrent callers racing on the same id,
// installing its result into the cache (spec.md §4.4: "single-flight
// semantics").
func (c *Cache) GetOrLoad(id page.ID, loader func() (page.Page, error)) (*Slot, error) {
	if slot, ok := c.Get(id); ok {
		return slot, nil
	}

	v, err, _ := c.sf.Do(cacheKey(id), func() (interface{}, error) {
		// Check again: another goroutine may have installed this entry
		// between our first Get and acquiring the single-flight group.
		if slot, ok := c.Get(id); ok {
			return slot, nil
		}
		p, err := loader()
		if err != nil {
			return nil, err
		}
		slot := &Slot{Page: p}
		c.install(id, slot)
		return slot, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Slot), nil
}

// InsertNew installs a freshly allocated page's slot. It panics if the key
// is already present — the allocator is the only caller and a collision
// there is a programmer bug, not a recoverable condition.
func (c *Cache) InsertNew(id page.ID, p page.Page) *Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		panic("pagecache: InsertNew called for a page id already in cache")
	}
	slot := &Slot{Page: p}
	c.insertLocked(id, slot)
	return slot
}

// Evict removes id from the cache, if present.
func (c *Cache) Evict(id page.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[id]; ok {
		c.order.Remove(el)
		delete(c.entries, id)
	}
}

func (c *Cache) install(id page.ID, slot *Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(id, slot)
}

func (c *Cache) insertLocked(id page.ID, slot *Slot) {
	el := c.order.PushFront(&cacheEntry{id: id, slot: slot})
	c.entries[id] = el
	if c.maxEntries > 0 {
		for c.order.Len() > c.maxEntries {
			oldest := c.order.Back()
			if oldest == nil {
				break
			}
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).id)
		}
	}
}

func cacheKey(id page.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}

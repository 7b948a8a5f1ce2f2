package pager

import (
	"runtime"

	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/pagecache"
)

// Guard is a handle to a page cache slot. From it, callers obtain either a
// shared read view or an exclusive write view (spec.md §4.5).
type Guard[T page.Page] struct {
	pager *Pager
	slot  *pagecache.Slot
}

// Read acquires the slot's shared latch and returns a read view.
func (g *Guard[T]) Read() (*ReadView[T], error) {
	g.slot.RLock()
	p, ok := g.slot.Page.(T)
	if !ok {
		g.slot.RUnlock()
		return nil, castErr()
	}
	v := &ReadView[T]{guard: g, page: p}
	v.armDropBomb()
	return v, nil
}

// Write acquires the slot's exclusive latch and returns a write view.
func (g *Guard[T]) Write() (*WriteView[T], error) {
	g.slot.Lock()
	p, ok := g.slot.Page.(T)
	if !ok {
		g.slot.Unlock()
		return nil, castErr()
	}
	v := &WriteView[T]{guard: g, page: p}
	v.armDropBomb()
	return v, nil
}

func castErr() error {
	return &castError{}
}

type castError struct{}

func (e *castError) Error() string { return "pager: page is not the requested variant" }

// ReadView is a shared view over a page. It MUST have Release called
// before being dropped; a finalizer logs a warning if it is garbage
// collected unreleased (spec.md §4.5's "drop-bomb").
type ReadView[T page.Page] struct {
	guard    *Guard[T]
	page     T
	released bool
}

// Page returns the typed page this view is looking at.
func (v *ReadView[T]) Page() T { return v.page }

// Release ends the shared view. It posts a read notification to the
// pager's deferred-flush queue and releases the slot's shared latch.
func (v *ReadView[T]) Release() {
	if v.released {
		return
	}
	v.released = true
	runtime.SetFinalizer(v, nil)
	v.guard.pager.notify(v.page.ID(), accessRead)
	v.guard.slot.RUnlock()
}

func (v *ReadView[T]) armDropBomb() {
	runtime.SetFinalizer(v, func(v *ReadView[T]) {
		if !v.released {
			v.guard.pager.log.WithField("page", uint32(v.page.ID())).
				Warn("pager: read view dropped without Release — contract violation")
		}
	})
}

// WriteView is an exclusive view over a page. It MUST call Flush (to
// schedule a write at the next FlushAll) or Discard (if no mutation
// occurred); dropping a mutated view without Flush loses the change
// (spec.md §4.5, §5 — documented behavior, not a bug).
type WriteView[T page.Page] struct {
	guard   *Guard[T]
	page    T
	flushed bool
}

// Page returns the typed page this view is mutating.
func (v *WriteView[T]) Page() T { return v.page }

// Flush schedules a write of the page at the next FlushAll and releases
// the slot's exclusive latch.
func (v *WriteView[T]) Flush() {
	if v.flushed {
		return
	}
	v.flushed = true
	runtime.SetFinalizer(v, nil)
	v.guard.pager.notify(v.page.ID(), accessWrite)
	v.guard.slot.Unlock()
}

// Discard releases the exclusive latch without scheduling a flush, for use
// when the caller made no mutation.
func (v *WriteView[T]) Discard() {
	if v.flushed {
		return
	}
	v.flushed = true
	runtime.SetFinalizer(v, nil)
	v.guard.slot.Unlock()
}

func (v *WriteView[T]) armDropBomb() {
	runtime.SetFinalizer(v, func(v *WriteView[T]) {
		if !v.flushed {
			v.guard.pager.log.WithField("page", uint32(v.page.ID())).
				Warn("pager: write view dropped without Flush or Discard — mutation lost")
		}
	})
}

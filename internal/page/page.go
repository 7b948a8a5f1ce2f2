// Package page implements fdb's page model: the page identifier type, the
// two page variants (header page, heap page), and their discriminated
// encoding/decoding (spec.md §3, §4.5, §4.6, §6).
package page

import "fmt"

// Page is the common capability every page variant exposes to the pager:
// its discriminant type tag, its id, and the ready-to-write byte buffer.
type Page interface {
	Type() byte
	ID() ID
	Bytes() []byte
}

var (
	_ Page = (*Header)(nil)
	_ Page = (*Heap)(nil)
)

// Type satisfies Page for Heap.
func (h *Heap) Type() byte { return TypeHeap }

// Decode parses a page's raw bytes into its concrete variant based on
// whether it is the well-known header page or a heap page.
func Decode(id ID, pageSize uint16, data []byte) (Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("page: empty buffer for page %d", id)
	}
	if id == HeaderPageID {
		return ParseHeader(data)
	}
	return ParseHeap(id, pageSize, data)
}

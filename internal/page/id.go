package page

// ID is a non-zero page identifier. Zero encodes "no page". The first page
// in a database file always has id 1.
type ID uint32

// NoID is the reserved "absent" page id.
const NoID ID = 0

// NewID validates and constructs a page id. Constructing the reserved zero
// id is a programmer error, not a recoverable one, matching spec.md §8's
// "Page id 0 is rejected (construction panics)".
func NewID(v uint32) ID {
	if v == 0 {
		panic("page: id 0 is reserved for \"no page\"")
	}
	return ID(v)
}

// Add returns id shifted by a positive delta.
func (id ID) Add(delta uint32) ID {
	return ID(uint32(id) + delta)
}

// Offset returns the absolute byte offset of this page within the database
// file for the given page size.
func (id ID) Offset(pageSize uint16) int64 {
	return int64(uint32(id)-1) * int64(pageSize)
}

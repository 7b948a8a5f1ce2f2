package page

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
)

const (
	seqHeaderAbsent  byte = 0xAA
	seqHeaderPresent byte = 0xFF
)

// SeqHeader is the substructure present only on the first page of a heap
// sequence: the terminal page id, the chain length, and the total
// live+tombstone record count across the whole chain.
type SeqHeader struct {
	LastPageID  ID
	PageCount   uint32
	RecordCount uint64
}

func (h SeqHeader) size() int {
	return 4 + 4 + 8
}

func (h SeqHeader) writeTo(c *bytecursor.Cursor) error {
	if err := c.WriteUint32(uint32(h.LastPageID)); err != nil {
		return err
	}
	if err := c.WriteUint32(h.PageCount); err != nil {
		return err
	}
	return c.WriteUint64(h.RecordCount)
}

func readSeqHeader(c *bytecursor.Cursor) (SeqHeader, error) {
	lastPage, err := c.ReadUint32()
	if err != nil {
		return SeqHeader{}, err
	}
	pageCount, err := c.ReadUint32()
	if err != nil {
		return SeqHeader{}, err
	}
	recordCount, err := c.ReadUint64()
	if err != nil {
		return SeqHeader{}, err
	}
	return SeqHeader{LastPageID: ID(lastPage), PageCount: pageCount, RecordCount: recordCount}, nil
}

// Heap is a heap page: a per-page header (optionally carrying the sequence
// header on the first page of a chain) followed by an opaque record
// region of page_size - header_size bytes.
type Heap struct {
	id          ID
	pageSize    uint16
	Seq         *SeqHeader // present only for the first page of a sequence
	NextPageID  *ID
	RecordCount uint16
	FreeOffset  uint16
	data        []byte // full page_size buffer; record region lives at [headerSize:]
}

// ID returns the page's identifier.
func (h *Heap) ID() ID { return h.id }

func (h *Heap) headerSize() int {
	size := 1 + 4 + 1 // type + id + seq-presence
	if h.Seq != nil {
		size += h.Seq.size()
	}
	size += 4 + 2 + 2 // next-page-id + record-count + free-offset
	return size
}

// NewSeqFirst constructs the first page of a new heap sequence: its own
// id is both the root and (initially) the sequence's terminal page.
func NewSeqFirst(pageSize uint16, id ID) *Heap {
	h := &Heap{
		id:       id,
		pageSize: pageSize,
		Seq: &SeqHeader{
			LastPageID:  id,
			PageCount:   1,
			RecordCount: 0,
		},
		data: make([]byte, pageSize),
	}
	h.FreeOffset = uint16(h.headerSize())
	h.syncHeader()
	return h
}

// NewSeqNode constructs a subsequent (non-first) page of a heap sequence.
// Its next-page-id is initially self-referential until the caller links it
// in (spec.md §4.6). The scan does not special-case a self-referential
// next-page-id; the insert path clears it before the page is linked into
// a chain.
func NewSeqNode(pageSize uint16, id ID) *Heap {
	h := &Heap{
		id:       id,
		pageSize: pageSize,
		data:     make([]byte, pageSize),
	}
	h.NextPageID = &id
	h.FreeOffset = uint16(h.headerSize())
	h.syncHeader()
	return h
}

// CanAccommodate reports whether n more bytes fit after FreeOffset.
func (h *Heap) CanAccommodate(n int) bool {
	return int(h.FreeOffset)+n <= int(h.pageSize)
}

// Write invokes fn with a cursor positioned at FreeOffset, then advances
// FreeOffset by however many bytes fn wrote.
func (h *Heap) Write(fn func(c *bytecursor.Cursor) error) error {
	c := bytecursor.New(h.data)
	if err := c.Seek(int(h.FreeOffset)); err != nil {
		return err
	}
	n, err := c.Delta(fn)
	if err != nil {
		return err
	}
	h.FreeOffset += uint16(n)
	h.syncHeader()
	return nil
}

// WriteAt invokes fn with a cursor positioned at offset. It does not touch
// FreeOffset or RecordCount.
func (h *Heap) WriteAt(offset int, fn func(c *bytecursor.Cursor) error) error {
	c := bytecursor.New(h.data)
	if err := c.Seek(offset); err != nil {
		return err
	}
	return fn(c)
}

// ReadAt executes fn against a cursor starting at offset.
func (h *Heap) ReadAt(offset int, fn func(c *bytecursor.Cursor) error) error {
	c := bytecursor.New(h.data)
	if err := c.Seek(offset); err != nil {
		return err
	}
	return fn(c)
}

// IncrementLocalRecordCount bumps the page-local record count, used by the
// insert path whenever a record lands on this particular page.
func (h *Heap) IncrementLocalRecordCount() {
	h.RecordCount++
	h.syncHeader()
}

// SetNextPageID links this page to the next page in its sequence.
func (h *Heap) SetNextPageID(id ID) {
	h.NextPageID = &id
	h.syncHeader()
}

// Sync re-renders the header bytes from the current field values. Callers
// that mutate h.Seq's fields directly (the sequence header only makes
// sense mutated as a whole by the insert path) must call Sync afterward.
func (h *Heap) Sync() {
	h.syncHeader()
}

// syncHeader re-renders the in-memory header fields into h.data's header
// region, keeping the record region at [headerSize:] untouched.
func (h *Heap) syncHeader() {
	c := bytecursor.New(h.data)
	_ = c.WriteByte(TypeHeap)
	_ = c.WriteUint32(uint32(h.id))
	if h.Seq != nil {
		_ = c.WriteByte(seqHeaderPresent)
		_ = h.Seq.writeTo(c)
	} else {
		_ = c.WriteByte(seqHeaderAbsent)
	}
	nextID := uint32(0)
	if h.NextPageID != nil {
		nextID = uint32(*h.NextPageID)
	}
	_ = c.WriteUint32(nextID)
	_ = c.WriteUint16(h.RecordCount)
	_ = c.WriteUint16(h.FreeOffset)
}

// Bytes returns the full page_size buffer, header and record region
// together, ready to hand to the disk manager.
func (h *Heap) Bytes() []byte { return h.data }

// ParseHeap decodes a heap page from a full page_size buffer.
func ParseHeap(id ID, pageSize uint16, data []byte) (*Heap, error) {
	c := bytecursor.New(data)
	tag, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if tag != TypeHeap {
		return nil, &fdberr.CorruptedTypeTag{Tag: tag}
	}
	pageID, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	presence, err := c.ReadByte()
	if err != nil {
		return nil, err
	}

	h := &Heap{id: ID(pageID), pageSize: pageSize, data: data}

	switch presence {
	case seqHeaderPresent:
		seq, err := readSeqHeader(c)
		if err != nil {
			return nil, err
		}
		h.Seq = &seq
	case seqHeaderAbsent:
		// no sequence header
	default:
		return nil, &fdberr.CorruptedTypeTag{Tag: presence}
	}

	nextID, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	if nextID != 0 {
		id := ID(nextID)
		h.NextPageID = &id
	}

	recordCount, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	h.RecordCount = recordCount

	freeOffset, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	h.FreeOffset = freeOffset

	return h, nil
}

package page

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/serial"
)

// TypeHeader is the discriminant byte of the fixed-format header page.
const TypeHeader byte = 0x66

// TypeHeap is the discriminant byte of a heap page.
const TypeHeap byte = 0x01

// HeaderLen is the fixed byte length of the header page's prefix
// (spec.md §6): magic(10) + version(1) + page-size(2) + page-count(4) +
// free-list-id(4) + schema-seq-id(4) + pad(73) + signature(2) = 100.
const HeaderLen = 100

// HeaderPageID is the well-known page id of the database header.
const HeaderPageID ID = 1

var headerMagic = [10]byte{'f', 'd', 'b', ' ', 'f', 'o', 'r', 'm', 'a', 't'}
var headerSignature = [2]byte{0, 0}

// Header is the database's global header, always page id 1: on-disk it is
// a 100-byte prefix followed by zero padding to page_size.
type Header struct {
	PageSize             uint16
	FormatVersion        byte
	PageCount            uint32
	FirstFreeListPageID  *ID
	FirstSchemaSeqPageID *ID

	data []byte
}

// ID always returns HeaderPageID.
func (h *Header) ID() ID { return HeaderPageID }

// Type always returns TypeHeader.
func (h *Header) Type() byte { return TypeHeader }

// Bytes returns the full page_size buffer ready to hand to the disk
// manager.
func (h *Header) Bytes() []byte { return h.data }

// NewHeader constructs a fresh header for a database being bootstrapped.
func NewHeader(pageSize uint16) *Header {
	h := &Header{
		PageSize:      pageSize,
		FormatVersion: 1,
		PageCount:     1,
		data:          make([]byte, pageSize),
	}
	h.sync()
	return h
}

// SetPageCount updates the page count and re-renders the on-disk bytes.
func (h *Header) SetPageCount(n uint32) {
	h.PageCount = n
	h.sync()
}

// SetFirstSchemaSeqPageID records the catalog's root page id.
func (h *Header) SetFirstSchemaSeqPageID(id ID) {
	h.FirstSchemaSeqPageID = &id
	h.sync()
}

func (h *Header) sync() {
	if len(h.data) < int(h.PageSize) {
		h.data = make([]byte, h.PageSize)
	}
	c := bytecursor.New(h.data)
	_ = c.WriteBytes(headerMagic[:])
	_ = c.WriteByte(h.FormatVersion)
	_ = c.WriteUint16(h.PageSize)
	_ = c.WriteUint32(h.PageCount)
	_ = serial.WriteOptionalPageID(c, idToUint32(h.FirstFreeListPageID))
	_ = serial.WriteOptionalPageID(c, idToUint32(h.FirstSchemaSeqPageID))
	_ = c.Fill(98 - c.Pos())
	_ = c.WriteBytes(headerSignature[:])
	_ = c.Fill(int(h.PageSize) - c.Pos())
}

func idToUint32(id *ID) *uint32 {
	if id == nil {
		return nil
	}
	v := uint32(*id)
	return &v
}

// ParseHeader deserializes a header page, validating the magic and
// terminating signature.
func ParseHeader(data []byte) (*Header, error) {
	c := bytecursor.New(data)
	magic, err := c.ReadBytes(10)
	if err != nil {
		return nil, err
	}
	if string(magic) != string(headerMagic[:]) {
		return nil, &fdberr.CorruptedHeader{Section: "magic"}
	}
	version, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	pageSize, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	pageCount, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	freeList, err := serial.ReadOptionalPageID(c)
	if err != nil {
		return nil, err
	}
	schemaSeq, err := serial.ReadOptionalPageID(c)
	if err != nil {
		return nil, err
	}
	if err := c.Seek(98); err != nil {
		return nil, err
	}
	sig, err := c.ReadBytes(2)
	if err != nil {
		return nil, err
	}
	if string(sig) != string(headerSignature[:]) {
		return nil, &fdberr.CorruptedHeader{Section: "signature"}
	}

	var freeListID, schemaSeqID *ID
	if freeList != nil {
		id := ID(*freeList)
		freeListID = &id
	}
	if schemaSeq != nil {
		id := ID(*schemaSeq)
		schemaSeqID = &id
	}

	return &Header{
		PageSize:             pageSize,
		FormatVersion:        version,
		PageCount:            pageCount,
		FirstFreeListPageID:  freeListID,
		FirstSchemaSeqPageID: schemaSeqID,
		data:                 data,
	}, nil
}

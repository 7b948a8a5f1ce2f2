// Package record implements the self-sized "simple record" envelope
// (spec.md §3, §4.7): a 2-byte total-size, a 1-byte tombstone flag, a
// payload, and zero padding up to total-size.
package record

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
)

// envelope overhead: 2 bytes total-size + 1 byte tombstone flag.
const headerLen = 3

// Record is a self-sized, tombstone-bearing wrapper around a payload. The
// owning page id and in-page offset are tracked in memory only; they are
// never serialized. Payload always has length == AvailableDataSize(): any
// bytes beyond the value's own logical encoding are zero pad. Decoders read
// only as many bytes as their schema requires and simply stop short of the
// pad, so pad is never explicitly tracked as a separate length.
type Record struct {
	PageID    uint32
	Offset    int
	TotalSize int
	Deleted   bool
	Payload   []byte
}

// New creates a record whose TotalSize is fixed at 3+len(payload) for the
// lifetime of the record; later updates can shrink the logical payload
// (growing the pad) but TryUpdate never grows TotalSize itself.
func New(pageID uint32, offset int, payload []byte) *Record {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return &Record{
		PageID:    pageID,
		Offset:    offset,
		TotalSize: headerLen + len(payload),
		Payload:   buf,
	}
}

// AvailableDataSize is the payload capacity of the record's fixed envelope.
func (r *Record) AvailableDataSize() int {
	return r.TotalSize - headerLen
}

// TryUpdate replaces the record's payload in place if it fits within the
// envelope's fixed TotalSize (spec.md §4.7, §9):
//   - new size < available: payload replaced, pad grows to fill the gap.
//   - new size == available: payload replaced, pad is empty.
//   - new size > available: the record is left unchanged and newPayload is
//     returned to the caller, who must tombstone this record and insert a
//     fresh one elsewhere.
func (r *Record) TryUpdate(newPayload []byte) (fits bool, rejected []byte) {
	avail := r.AvailableDataSize()
	if len(newPayload) > avail {
		return false, newPayload
	}
	buf := make([]byte, avail)
	copy(buf, newPayload)
	r.Payload = buf
	return true, nil
}

// SetDeleted toggles the tombstone flag.
func (r *Record) SetDeleted(deleted bool) {
	r.Deleted = deleted
}

// IsDeleted reports the tombstone flag.
func (r *Record) IsDeleted() bool {
	return r.Deleted
}

// WriteTo serializes the full envelope: size, tombstone flag, payload
// (already padded to AvailableDataSize).
func (r *Record) WriteTo(c *bytecursor.Cursor) error {
	if err := c.WriteUint16(uint16(r.TotalSize)); err != nil {
		return err
	}
	tombstone := byte(0)
	if r.Deleted {
		tombstone = 1
	}
	if err := c.WriteByte(tombstone); err != nil {
		return err
	}
	return c.WriteBytes(r.Payload)
}

// ReadAt reads a full record envelope starting at the cursor's current
// position: total-size, tombstone flag, then AvailableDataSize() raw bytes
// (payload followed by zero pad, kept together).
func ReadAt(c *bytecursor.Cursor, pageID uint32, offset int) (*Record, error) {
	totalSize, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	tombstone, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	payload, err := c.ReadBytes(int(totalSize) - headerLen)
	if err != nil {
		return nil, err
	}
	return &Record{
		PageID:    pageID,
		Offset:    offset,
		TotalSize: int(totalSize),
		Deleted:   tombstone != 0,
		Payload:   payload,
	}, nil
}

// Size returns the total on-disk size of the record's envelope.
func (r *Record) Size() int {
	return r.TotalSize
}

// PayloadCursor returns a cursor over the record's payload region, for a
// caller-supplied decoder (e.g. value.ReadSchematized) to read from. The
// decoder is expected to stop once it has consumed its schema's worth of
// bytes; any remainder is zero pad and is never inspected.
func (r *Record) PayloadCursor() *bytecursor.Cursor {
	return bytecursor.New(r.Payload)
}

// Package diskmgr is the synchronous-looking disk manager: it opens a
// single file and reads/writes one page at a time at an absolute page
// offset (spec.md §4.3). It has no knowledge of page contents or caching —
// both are layered on top by pagecache and pager.
package diskmgr

import (
	"io"
	"os"

	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
)

// Manager owns the single underlying file.
type Manager struct {
	file     *os.File
	pageSize uint16
}

// Open opens path for read/write, creating it if it does not exist.
func Open(path string, pageSize uint16) (*Manager, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fdberr.WrapIO(err)
	}
	return &Manager{file: f, pageSize: pageSize}, nil
}

// Size returns the current file size in bytes.
func (m *Manager) Size() (int64, error) {
	info, err := m.file.Stat()
	if err != nil {
		return 0, fdberr.WrapIO(err)
	}
	return info.Size(), nil
}

// Close closes the underlying file.
func (m *Manager) Close() error {
	return m.file.Close()
}

// ReadPage reads exactly page_size bytes for id into buf. buf must have
// length page_size (checked on every call via an explicit panic, per
// spec.md §4.3's "buf.len() MUST equal page_size"). A page starting at or
// past the end of the file is out of bounds; a page that starts inside the
// file but is cut short is an incomplete page.
func (m *Manager) ReadPage(id page.ID, buf []byte) error {
	if len(buf) != int(m.pageSize) {
		panic("diskmgr: ReadPage buffer length must equal page size")
	}

	offset := id.Offset(m.pageSize)
	size, err := m.Size()
	if err != nil {
		return err
	}
	if offset >= size {
		return &fdberr.PageOutOfBounds{ID: uint32(id)}
	}

	n, err := m.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return fdberr.WrapIO(err)
	}
	if n != int(m.pageSize) {
		return &fdberr.IncompletePage{ID: uint32(id), Got: n, Want: int(m.pageSize)}
	}
	return nil
}

// WritePage writes exactly page_size bytes for id from buf.
func (m *Manager) WritePage(id page.ID, buf []byte) error {
	if len(buf) != int(m.pageSize) {
		panic("diskmgr: WritePage buffer length must equal page size")
	}
	n, err := m.file.WriteAt(buf, id.Offset(m.pageSize))
	if err != nil {
		return fdberr.WrapIO(err)
	}
	if n != int(m.pageSize) {
		return fdberr.WrapIO(io.ErrShortWrite)
	}
	return m.file.Sync()
}

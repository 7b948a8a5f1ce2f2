// Package serial defines the serialization contracts shared by every typed
// value that crosses the page boundary, plus adapters for the common shapes
// (length-prefixed bytes/strings/lists, optional page ids).
package serial

import (
	"unicode/utf8"

	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
)

// Sized reports how many bytes a value occupies once serialized.
type Sized interface {
	Size() int
}

// Serializable is a context-free value: it knows how to write itself onto a
// cursor and, as a package-level counterpart, how to reconstruct itself from
// one. Implementations also satisfy Sized.
type Serializable interface {
	Sized
	WriteTo(c *bytecursor.Cursor) error
}

// ContextSerializable is a value whose serialized bytes cannot be
// interpreted without an external context (e.g. a row's Schema). Ctx is an
// opaque parameter threaded by the caller at both write and read time; no
// form of ambient/global state is used to recover it.
type ContextSerializable interface {
	SizeWithContext(ctx interface{}) int
	WriteToWithContext(c *bytecursor.Cursor, ctx interface{}) error
}

// WriteLengthPrefixedBytes writes a 2-byte length followed by b.
func WriteLengthPrefixedBytes(c *bytecursor.Cursor, b []byte) error {
	if err := c.WriteUint16(uint16(len(b))); err != nil {
		return err
	}
	return c.WriteBytes(b)
}

// ReadLengthPrefixedBytes reads a 2-byte length followed by that many bytes.
func ReadLengthPrefixedBytes(c *bytecursor.Cursor) ([]byte, error) {
	n, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	return c.ReadBytes(int(n))
}

// SizeLengthPrefixedBytes returns the serialized size of a length-prefixed
// byte slice of length n.
func SizeLengthPrefixedBytes(n int) int {
	return 2 + n
}

// WriteLengthPrefixedString writes a 2-byte length followed by the UTF-8
// bytes of s.
func WriteLengthPrefixedString(c *bytecursor.Cursor, s string) error {
	return WriteLengthPrefixedBytes(c, []byte(s))
}

// ReadLengthPrefixedString reads a length-prefixed string and validates it
// is well-formed UTF-8.
func ReadLengthPrefixedString(c *bytecursor.Cursor) (string, error) {
	b, err := ReadLengthPrefixedBytes(c)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &fdberr.CorruptedUTF8{}
	}
	return string(b), nil
}

// SizeLengthPrefixedString returns the serialized size of a length-prefixed
// string.
func SizeLengthPrefixedString(s string) int {
	return SizeLengthPrefixedBytes(len(s))
}

// WriteList writes a 2-byte count followed by each element, encoded with
// writeElem.
func WriteList[T any](c *bytecursor.Cursor, items []T, writeElem func(*bytecursor.Cursor, T) error) error {
	if err := c.WriteUint16(uint16(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := writeElem(c, item); err != nil {
			return err
		}
	}
	return nil
}

// ReadList reads a 2-byte count followed by that many elements, each decoded
// with readElem.
func ReadList[T any](c *bytecursor.Cursor, readElem func(*bytecursor.Cursor) (T, error)) ([]T, error) {
	n, err := c.ReadUint16()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, n)
	for i := uint16(0); i < n; i++ {
		item, err := readElem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// SizeList returns the serialized size of a list of n elements each of
// width elemSize.
func SizeList(n, elemSize int) int {
	return 2 + n*elemSize
}

// NoPageID encodes "absent" for an OptionalPageID.
const NoPageID uint32 = 0

// WriteOptionalPageID writes 4 bytes: zero for absent, the id otherwise.
func WriteOptionalPageID(c *bytecursor.Cursor, id *uint32) error {
	if id == nil {
		return c.WriteUint32(NoPageID)
	}
	return c.WriteUint32(*id)
}

// ReadOptionalPageID reads 4 bytes, returning nil when the value is zero.
func ReadOptionalPageID(c *bytecursor.Cursor) (*uint32, error) {
	v, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	if v == NoPageID {
		return nil, nil
	}
	return &v, nil
}

// SizeOptionalPageID is always 4 bytes.
const SizeOptionalPageID = 4

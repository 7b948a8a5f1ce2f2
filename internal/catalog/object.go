// Package catalog implements the object (table/index) directory: objects
// live as records inside a heap sequence rooted at the well-known page id 2
// (spec.md §4.9).
package catalog

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/page"
	"github.com/joeandaverde/fdb/internal/serial"
	"github.com/joeandaverde/fdb/internal/value"
)

// RootPageID is the conventional root page of the catalog's heap sequence.
const RootPageID page.ID = 2

// Kind discriminates table vs index objects.
type Kind byte

const (
	KindTable Kind = 0x0A
	KindIndex Kind = 0x0B
)

// Object is an entry in the catalog: a table (with its inlined schema) or
// an inert index placeholder (spec.md §3 — indexes carry no operators in
// this spec, by explicit Non-goal).
type Object struct {
	Kind     Kind
	Name     string
	RootPage page.ID
	Schema   value.Schema // valid only when Kind == KindTable
}

// Size returns the serialized size of the object record payload.
func (o Object) Size() int {
	size := 1 + serial.SizeLengthPrefixedString(o.Name) + 4
	if o.Kind == KindTable {
		size += o.Schema.Size()
	}
	return size
}

// WriteTo serializes the object: kind tag, name, root page, and (for
// tables) the inlined schema.
func (o Object) WriteTo(c *bytecursor.Cursor) error {
	if err := c.WriteByte(byte(o.Kind)); err != nil {
		return err
	}
	if err := serial.WriteLengthPrefixedString(c, o.Name); err != nil {
		return err
	}
	if err := c.WriteUint32(uint32(o.RootPage)); err != nil {
		return err
	}
	if o.Kind == KindTable {
		return o.Schema.WriteTo(c)
	}
	return nil
}

// ReadObject deserializes an object record.
func ReadObject(c *bytecursor.Cursor) (Object, error) {
	tag, err := c.ReadByte()
	if err != nil {
		return Object{}, err
	}
	kind := Kind(tag)
	if kind != KindTable && kind != KindIndex {
		return Object{}, &fdberr.CorruptedObjectTypeTag{Tag: tag}
	}
	name, err := serial.ReadLengthPrefixedString(c)
	if err != nil {
		return Object{}, err
	}
	rootPage, err := c.ReadUint32()
	if err != nil {
		return Object{}, err
	}
	obj := Object{Kind: kind, Name: name, RootPage: page.ID(rootPage)}
	if kind == KindTable {
		schema, err := value.ReadSchema(c)
		if err != nil {
			return Object{}, err
		}
		obj.Schema = schema
	}
	return obj, nil
}

// AsTable validates the object is a table and returns it unchanged,
// matching spec.md §7's "cast(msg) — object-is-not-a-table" error kind.
func (o Object) AsTable() (Object, error) {
	if o.Kind != KindTable {
		return Object{}, &fdberr.Cast{Msg: "object " + o.Name + " is not a table"}
	}
	return o, nil
}

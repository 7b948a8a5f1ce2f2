package value

import (
	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/serial"
)

// Column describes one column of a table schema: its declared type and
// name. Arrays are not supported as column types at the schema layer in
// this spec (spec.md §3's schema is columns of primitive-tagged values):
// Column has no array flag, and ReadColumn rejects an array type tag.
type Column struct {
	Elem Type
	Name string
}

func (c Column) tag() byte {
	return byte(nibblePrimitive)<<4 | byte(c.Elem)
}

func (c Column) Size() int {
	return 1 + serial.SizeLengthPrefixedString(c.Name)
}

func (c Column) WriteTo(cur *bytecursor.Cursor) error {
	if err := cur.WriteByte(c.tag()); err != nil {
		return err
	}
	return serial.WriteLengthPrefixedString(cur, c.Name)
}

func ReadColumn(cur *bytecursor.Cursor) (Column, error) {
	tag, err := cur.ReadByte()
	if err != nil {
		return Column{}, err
	}
	elem, isArray, err := typeFromTag(tag)
	if err != nil {
		return Column{}, err
	}
	if isArray {
		return Column{}, &fdberr.CorruptedTypeTag{Tag: tag}
	}
	name, err := serial.ReadLengthPrefixedString(cur)
	if err != nil {
		return Column{}, err
	}
	return Column{Elem: elem, Name: name}, nil
}

// Schema is an ordered list of columns; serialization of a Values map
// always follows this column order.
type Schema struct {
	Columns []Column
}

func (s Schema) Size() int {
	size := 2
	for _, c := range s.Columns {
		size += c.Size()
	}
	return size
}

func (s Schema) WriteTo(c *bytecursor.Cursor) error {
	return serial.WriteList(c, s.Columns, func(c *bytecursor.Cursor, col Column) error {
		return col.WriteTo(c)
	})
}

func ReadSchema(c *bytecursor.Cursor) (Schema, error) {
	cols, err := serial.ReadList(c, ReadColumn)
	if err != nil {
		return Schema{}, err
	}
	return Schema{Columns: cols}, nil
}

// ColumnNames returns the schema's column names in declaration order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func (s Schema) column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Values is a row-in-flight: a mapping from column name to value, not yet
// validated against any schema.
type Values map[string]Value

// Schematized is a Values map that has been validated against a Schema:
// every column present with a matching type. Its serialized form always
// emits values in schema column order.
type Schematized struct {
	Schema Schema
	Values Values
}

// Schematize validates v against schema, injecting the per-type default
// (spec.md §4.8) for any column absent from v, and rejects columns whose
// value type does not match the schema.
func Schematize(schema Schema, v Values) (Schematized, error) {
	out := make(Values, len(schema.Columns))
	for _, col := range schema.Columns {
		val, present := v[col.Name]
		if !present {
			out[col.Name] = Default(col.Elem, false)
			continue
		}
		if val.Elem != col.Elem || val.IsArray {
			return Schematized{}, fdberr.Execf(
				"column %q: expected type %s, got %s", col.Name, col.Elem, describeValueType(val))
		}
		out[col.Name] = val
	}
	return Schematized{Schema: schema, Values: out}, nil
}

func describeValueType(v Value) string {
	if v.IsArray {
		return "array<" + v.Elem.String() + ">"
	}
	return v.Elem.String()
}

// Size returns the serialized size of the schematized row, values written
// in schema column order.
func (s Schematized) Size() int {
	size := 0
	for _, col := range s.Schema.Columns {
		size += s.Values[col.Name].Size()
	}
	return size
}

// WriteTo serializes the row's values in schema column order.
func (s Schematized) WriteTo(c *bytecursor.Cursor) error {
	for _, col := range s.Schema.Columns {
		if err := s.Values[col.Name].WriteTo(c); err != nil {
			return err
		}
	}
	return nil
}

// ReadSchematized reads one value per column, in schema order, returning a
// new Schematized row. The schema must be supplied by the caller — this is
// the contextual half of the serialization framework (spec.md §4.2).
func ReadSchematized(c *bytecursor.Cursor, schema Schema) (Schematized, error) {
	out := make(Values, len(schema.Columns))
	for _, col := range schema.Columns {
		v, err := ReadValue(c)
		if err != nil {
			return Schematized{}, err
		}
		out[col.Name] = v
	}
	return Schematized{Schema: schema, Values: out}, nil
}

// Clone returns a deep-enough copy of the row's Values suitable for passing
// to an updater closure without risk of mutating the original.
func (s Schematized) Clone() Values {
	out := make(Values, len(s.Values))
	for k, v := range s.Values {
		out[k] = v
	}
	return out
}

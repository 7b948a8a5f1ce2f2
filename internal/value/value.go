// Package value implements fdb's primitive/array value tags and the
// schema-driven serialization of column maps (spec.md §3, §4.8).
package value

import (
	"fmt"

	"github.com/joeandaverde/fdb/internal/bytecursor"
	"github.com/joeandaverde/fdb/internal/fdberr"
	"github.com/joeandaverde/fdb/internal/serial"
)

// Type is a primitive value type code, the low nibble of an on-disk type
// tag byte.
type Type byte

const (
	TypeBool      Type = 0x1
	TypeByte      Type = 0x2
	TypeShortInt  Type = 0x3 // int16
	TypeInt       Type = 0x4 // int32
	TypeBigInt    Type = 0x5 // int64
	TypeTimestamp Type = 0x6 // int64, unix
	TypeText      Type = 0x7
	TypeBlob      Type = 0x8
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeShortInt:
		return "shortint"
	case TypeInt:
		return "int"
	case TypeBigInt:
		return "bigint"
	case TypeTimestamp:
		return "timestamp"
	case TypeText:
		return "text"
	case TypeBlob:
		return "blob"
	default:
		return fmt.Sprintf("unknown(0x%x)", byte(t))
	}
}

// tag nibble flags: high nibble distinguishes array-vs-primitive.
const (
	nibblePrimitive byte = 0x0
	nibbleArray     byte = 0x1
)

// Value is either a primitive scalar or a homogeneous array of a primitive
// element type.
type Value struct {
	Elem    Type        // element type (== the value's own type for scalars)
	IsArray bool
	Scalar  interface{}   // valid when !IsArray
	Items   []interface{} // valid when IsArray, each element typed per Elem
}

// Bool, Byte, ShortInt, Int, BigInt, Timestamp, Text, Blob are scalar
// constructors.
func Bool(b bool) Value         { return Value{Elem: TypeBool, Scalar: b} }
func Byte(b byte) Value         { return Value{Elem: TypeByte, Scalar: b} }
func ShortInt(i int16) Value    { return Value{Elem: TypeShortInt, Scalar: i} }
func Int(i int32) Value         { return Value{Elem: TypeInt, Scalar: i} }
func BigInt(i int64) Value      { return Value{Elem: TypeBigInt, Scalar: i} }
func Timestamp(i int64) Value   { return Value{Elem: TypeTimestamp, Scalar: i} }
func Text(s string) Value       { return Value{Elem: TypeText, Scalar: s} }
func Blob(b []byte) Value       { return Value{Elem: TypeBlob, Scalar: b} }
func Array(elem Type, items []interface{}) Value {
	return Value{Elem: elem, IsArray: true, Items: items}
}

// Default returns the per-type zero value: false, 0, empty string, empty
// blob, or an empty array, per spec.md §4.8.
func Default(elem Type, isArray bool) Value {
	if isArray {
		return Array(elem, nil)
	}
	switch elem {
	case TypeBool:
		return Bool(false)
	case TypeByte:
		return Byte(0)
	case TypeShortInt:
		return ShortInt(0)
	case TypeInt:
		return Int(0)
	case TypeBigInt:
		return BigInt(0)
	case TypeTimestamp:
		return Timestamp(0)
	case TypeText:
		return Text("")
	case TypeBlob:
		return Blob(nil)
	default:
		panic(fmt.Sprintf("value: unknown default for type %v", elem))
	}
}

// tag returns the single-byte on-disk discriminant: high nibble
// array-vs-primitive, low nibble element type.
func (v Value) tag() byte {
	high := nibblePrimitive
	if v.IsArray {
		high = nibbleArray
	}
	return high<<4 | byte(v.Elem)
}

func typeFromTag(tag byte) (elem Type, isArray bool, err error) {
	high := tag >> 4
	low := Type(tag & 0x0f)
	switch low {
	case TypeBool, TypeByte, TypeShortInt, TypeInt, TypeBigInt, TypeTimestamp, TypeText, TypeBlob:
	default:
		return 0, false, &fdberr.CorruptedTypeTag{Tag: tag}
	}
	return low, high == nibbleArray, nil
}

func scalarSize(elem Type, v interface{}) int {
	switch elem {
	case TypeBool, TypeByte:
		return 1
	case TypeShortInt:
		return 2
	case TypeInt:
		return 4
	case TypeBigInt, TypeTimestamp:
		return 8
	case TypeText:
		return serial.SizeLengthPrefixedString(v.(string))
	case TypeBlob:
		return serial.SizeLengthPrefixedBytes(len(v.([]byte)))
	default:
		panic(fmt.Sprintf("value: unknown size for type %v", elem))
	}
}

// Size returns the serialized size of the value, including its leading tag
// byte.
func (v Value) Size() int {
	size := 1 // tag byte
	if !v.IsArray {
		return size + scalarSize(v.Elem, v.Scalar)
	}
	size += 2 // element count
	for _, item := range v.Items {
		size += scalarSize(v.Elem, item)
	}
	return size
}

func writeScalar(c *bytecursor.Cursor, elem Type, v interface{}) error {
	switch elem {
	case TypeBool:
		b := byte(0)
		if v.(bool) {
			b = 1
		}
		return c.WriteByte(b)
	case TypeByte:
		return c.WriteByte(v.(byte))
	case TypeShortInt:
		return c.WriteUint16(uint16(v.(int16)))
	case TypeInt:
		return c.WriteUint32(uint32(v.(int32)))
	case TypeBigInt, TypeTimestamp:
		return c.WriteUint64(uint64(v.(int64)))
	case TypeText:
		return serial.WriteLengthPrefixedString(c, v.(string))
	case TypeBlob:
		return serial.WriteLengthPrefixedBytes(c, v.([]byte))
	default:
		panic(fmt.Sprintf("value: unknown write for type %v", elem))
	}
}

func readScalar(c *bytecursor.Cursor, elem Type) (interface{}, error) {
	switch elem {
	case TypeBool:
		b, err := c.ReadByte()
		return b != 0, err
	case TypeByte:
		return c.ReadByte()
	case TypeShortInt:
		v, err := c.ReadUint16()
		return int16(v), err
	case TypeInt:
		v, err := c.ReadUint32()
		return int32(v), err
	case TypeBigInt, TypeTimestamp:
		v, err := c.ReadUint64()
		return int64(v), err
	case TypeText:
		return serial.ReadLengthPrefixedString(c)
	case TypeBlob:
		return serial.ReadLengthPrefixedBytes(c)
	default:
		panic(fmt.Sprintf("value: unknown read for type %v", elem))
	}
}

// WriteTo writes the value's tag byte followed by its payload.
func (v Value) WriteTo(c *bytecursor.Cursor) error {
	if err := c.WriteByte(v.tag()); err != nil {
		return err
	}
	if !v.IsArray {
		return writeScalar(c, v.Elem, v.Scalar)
	}
	return serial.WriteList(c, v.Items, func(c *bytecursor.Cursor, item interface{}) error {
		return writeScalar(c, v.Elem, item)
	})
}

// ReadValue reads a tagged value from the cursor.
func ReadValue(c *bytecursor.Cursor) (Value, error) {
	tag, err := c.ReadByte()
	if err != nil {
		return Value{}, err
	}
	elem, isArray, err := typeFromTag(tag)
	if err != nil {
		return Value{}, err
	}
	if !isArray {
		scalar, err := readScalar(c, elem)
		if err != nil {
			return Value{}, err
		}
		return Value{Elem: elem, Scalar: scalar}, nil
	}
	items, err := serial.ReadList(c, func(c *bytecursor.Cursor) (interface{}, error) {
		return readScalar(c, elem)
	})
	if err != nil {
		return Value{}, err
	}
	return Value{Elem: elem, IsArray: true, Items: items}, nil
}

// Equal reports whether two values have the same shape and content.
func (v Value) Equal(other Value) bool {
	if v.Elem != other.Elem || v.IsArray != other.IsArray {
		return false
	}
	if !v.IsArray {
		if v.Elem == TypeBlob {
			return string(v.Scalar.([]byte)) == string(other.Scalar.([]byte))
		}
		return v.Scalar == other.Scalar
	}
	if len(v.Items) != len(other.Items) {
		return false
	}
	for i := range v.Items {
		if v.Items[i] != other.Items[i] {
			return false
		}
	}
	return true
}

package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/fdb/internal/bytecursor"
)

func TestValue_ScalarRoundTrip(t *testing.T) {
	cases := []Value{
		Bool(true),
		Bool(false),
		Byte(0xAB),
		ShortInt(-7),
		Int(123456),
		BigInt(-123456789012),
		Timestamp(1700000000),
		Text("hello, fdb"),
		Blob([]byte{1, 2, 3, 4}),
	}

	for _, v := range cases {
		v := v
		t.Run(v.Elem.String(), func(t *testing.T) {
			assert := require.New(t)
			buf := make([]byte, v.Size())
			assert.NoError(v.WriteTo(bytecursor.New(buf)))

			got, err := ReadValue(bytecursor.New(buf))
			assert.NoError(err)
			assert.True(v.Equal(got))
		})
	}
}

func TestValue_ArrayRoundTrip(t *testing.T) {
	assert := require.New(t)
	v := Array(TypeInt, []interface{}{int32(1), int32(2), int32(3)})
	buf := make([]byte, v.Size())
	assert.NoError(v.WriteTo(bytecursor.New(buf)))

	got, err := ReadValue(bytecursor.New(buf))
	assert.NoError(err)
	assert.True(v.Equal(got))
}

func TestValue_Default(t *testing.T) {
	assert := require.New(t)
	assert.True(Default(TypeBool, false).Equal(Bool(false)))
	assert.True(Default(TypeText, false).Equal(Text("")))
	assert.True(Default(TypeBlob, false).Equal(Blob(nil)))
	assert.True(Default(TypeInt, true).Equal(Array(TypeInt, nil)))
}

func TestValue_CorruptedTypeTag(t *testing.T) {
	assert := require.New(t)
	_, err := ReadValue(bytecursor.New([]byte{0xEE, 0, 0}))
	assert.Error(err)
}

package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	v := NewError("unknown error")
	assert.Equal(t, Error, v.Type)
	assert.NotEmpty(t, v.Text)
}

func TestNewSimpleString(t *testing.T) {
	v := NewSimpleString("ping")
	assert.Equal(t, SimpleString, v.Type)
	assert.NotEmpty(t, v.Text)
}

func TestNewBulkString(t *testing.T) {
	v := NewBulkString("get")
	assert.Equal(t, BulkString, v.Type)
	assert.NotEmpty(t, v.Text)
	assert.False(t, v.IsNull())
}

func TestNewNullBulkString(t *testing.T) {
	v := NewNullBulkString()
	assert.Equal(t, BulkString, v.Type)
	assert.Nil(t, v.Text)
	assert.True(t, v.IsNull())
}

func TestNewBulkBytes(t *testing.T) {
	v := NewBulkBytes([]byte("a"))
	assert.False(t, v.IsNull())
	v = NewBulkBytes(nil)
	assert.True(t, v.IsNull())
}

func TestNewInteger(t *testing.T) {
	v := NewInteger(10)
	assert.Equal(t, Integer, v.Type)
	assert.Equal(t, int64(10), v.Int)
	assert.False(t, v.IsNull())
}

func TestNewArray(t *testing.T) {
	v := NewArray([]RespValue{
		*NewBulkString("get"),
		*NewBulkString("a"),
	})
	assert.Equal(t, Array, v.Type)
	assert.Equal(t, 2, len(v.Array))
	assert.False(t, v.IsNull())
}

func TestNewNullArray(t *testing.T) {
	v := NewNullArray()
	assert.Equal(t, Array, v.Type)
	assert.Nil(t, v.Array)
	assert.True(t, v.IsNull())
}

func TestRespTypeString(t *testing.T) {
	assert.Equal(t, "<simple-string>", SimpleString.String())
	assert.Equal(t, "<error>", Error.String())
	assert.Equal(t, "<integer>", Integer.String())
	assert.Equal(t, "<bulk-string>", BulkString.String())
	assert.Equal(t, "<array>", Array.String())
	assert.Equal(t, "<unknown>", RespType('@').String())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "OK", NewSimpleString("OK").String())
	assert.Equal(t, "(error) ERR oops", NewError("ERR oops").String())
	assert.Equal(t, "-3", NewInteger(-3).String())
	assert.Equal(t, "(nil)", NewNullBulkString().String())
	assert.Equal(t, "(nil)", NewNullArray().String())
	assert.Equal(t, "[a 1]", NewArray([]RespValue{
		*NewBulkString("a"),
		*NewInteger(1),
	}).String())
}

package resp

import (
	"fmt"
	"strconv"
	"strings"
)

// RespType is the leading type byte of a RESP reply.
type RespType byte

const (
	SimpleString RespType = '+'
	Error        RespType = '-'
	Integer      RespType = ':'
	BulkString   RespType = '$'
	Array        RespType = '*'
)

func (t RespType) String() string {
	switch t {
	case SimpleString:
		return "<simple-string>"
	case Error:
		return "<error>"
	case Integer:
		return "<integer>"
	case BulkString:
		return "<bulk-string>"
	case Array:
		return "<array>"
	default:
		return "<unknown>"
	}
}

// RespValue is one decoded RESP reply. A BulkString with a nil Text, or an
// Array with a nil Array, is the RESP nil value and is distinct from an
// empty (zero-length, non-nil) one.
type RespValue struct {
	Type RespType

	Int   int64
	Text  []byte
	Array []RespValue
}

// IsNull reports whether v is a nil bulk string or a nil array.
func (v *RespValue) IsNull() bool {
	switch v.Type {
	case BulkString:
		return v.Text == nil
	case Array:
		return v.Array == nil
	}
	return false
}

// String renders v for logging and diagnostics.
func (v *RespValue) String() string {
	switch v.Type {
	case SimpleString:
		return string(v.Text)
	case Error:
		return "(error) " + string(v.Text)
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case BulkString:
		if v.Text == nil {
			return "(nil)"
		}
		return string(v.Text)
	case Array:
		if v.Array == nil {
			return "(nil)"
		}
		parts := make([]string, len(v.Array))
		for i := range v.Array {
			parts[i] = v.Array[i].String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("<unknown type %v>", byte(v.Type))
	}
}

func NewError(s string) *RespValue {
	return &RespValue{
		Type: Error,
		Text: []byte(s),
	}
}

func NewSimpleString(s string) *RespValue {
	return &RespValue{
		Type: SimpleString,
		Text: []byte(s),
	}
}

func NewBulkString(s string) *RespValue {
	return &RespValue{
		Type: BulkString,
		Text: []byte(s),
	}
}

// NewBulkBytes wraps b as a bulk string; a nil b yields the nil bulk string.
func NewBulkBytes(b []byte) *RespValue {
	return &RespValue{
		Type: BulkString,
		Text: b,
	}
}

func NewNullBulkString() *RespValue {
	return &RespValue{Type: BulkString}
}

func NewInteger(i int64) *RespValue {
	return &RespValue{
		Type: Integer,
		Int:  i,
	}
}

func NewArray(array []RespValue) *RespValue {
	if array == nil {
		array = []RespValue{}
	}
	return &RespValue{
		Type:  Array,
		Array: array,
	}
}

func NewNullArray() *RespValue {
	return &RespValue{Type: Array}
}

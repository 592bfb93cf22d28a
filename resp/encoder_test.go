package resp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalSimpleString(t *testing.T) {
	assert.Equal(t, []byte("+OK\r\n"), Marshal(NewSimpleString("OK")))
}

func TestMarshalError(t *testing.T) {
	assert.Equal(t, []byte("-ERR oops\r\n"), Marshal(NewError("ERR oops")))
}

func TestMarshalInteger(t *testing.T) {
	assert.Equal(t, []byte(":1000\r\n"), Marshal(NewInteger(1000)))
	assert.Equal(t, []byte(":-1\r\n"), Marshal(NewInteger(-1)))
	assert.Equal(t, []byte(":123456789\r\n"), Marshal(NewInteger(123456789)))
}

func TestMarshalBulkString(t *testing.T) {
	assert.Equal(t, []byte("$6\r\nfoobar\r\n"), Marshal(NewBulkString("foobar")))
	assert.Equal(t, []byte("$0\r\n\r\n"), Marshal(NewBulkString("")))
	assert.Equal(t, []byte("$-1\r\n"), Marshal(NewNullBulkString()))
}

func TestMarshalArray(t *testing.T) {
	v := NewArray([]RespValue{
		*NewBulkString("get"),
		*NewBulkString("a"),
	})
	assert.Equal(t, []byte("*2\r\n$3\r\nget\r\n$1\r\na\r\n"), Marshal(v))
	assert.Equal(t, []byte("*0\r\n"), Marshal(NewArray(nil)))
	assert.Equal(t, []byte("*-1\r\n"), Marshal(NewNullArray()))
}

func TestMarshalBadType(t *testing.T) {
	assert.Nil(t, Marshal(&RespValue{Type: RespType('@')}))
}

func TestEncoderMultipleValues(t *testing.T) {
	var b bytes.Buffer
	e := NewEncoder(&b, 64)
	assert.NoError(t, e.Encode(NewSimpleString("OK")))
	assert.NoError(t, e.Encode(NewInteger(1)))
	assert.NoError(t, e.Flush())
	assert.Equal(t, []byte("+OK\r\n:1\r\n"), b.Bytes())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func TestEncoderStickyError(t *testing.T) {
	e := NewEncoder(failWriter{}, 4)
	err := e.Encode(NewBulkString("payload larger than the buffer"))
	assert.Error(t, err)
	assert.Equal(t, err, e.Encode(NewSimpleString("OK")))
	assert.Equal(t, err, e.Flush())
}

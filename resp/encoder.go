package resp

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// Encoder writes RESP values to an underlying writer through a buffer. The
// first write error is sticky and is returned by every later call.
type Encoder struct {
	bw  *bufio.Writer
	err error
}

// NewEncoder creates an encoder with the given buffer size.
func NewEncoder(w io.Writer, bufSize int) *Encoder {
	bw := bufio.NewWriterSize(w, bufSize)
	return &Encoder{bw: bw}
}

// Encode writes the RESP representation of v. A nil bulk string encodes as
// "$-1\r\n" and a nil array as "*-1\r\n", preserving the nil/empty
// distinction on the wire.
func (e *Encoder) Encode(v *RespValue) error {
	if e.err != nil {
		return e.err
	}
	err := e.encode(v)
	if err != nil {
		e.err = err
	}
	return err
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.bw.Flush(); err != nil {
		e.err = err
	}
	return e.err
}

func (e *Encoder) encode(v *RespValue) error {
	err := e.bw.WriteByte(byte(v.Type))
	if err != nil {
		return err
	}
	switch v.Type {
	case Integer:
		return e.encodeInt(v.Int)
	case Error, SimpleString:
		return e.encodeTextBytes(v.Text)
	case BulkString:
		return e.encodeBulkBytes(v.Text)
	case Array:
		return e.encodeArray(v.Array)
	default:
		return ErrBadRespType
	}
}

func (e *Encoder) encodeInt(i int64) error {
	return e.encodeTextString(itoa(i))
}

func (e *Encoder) encodeTextBytes(b []byte) error {
	if _, err := e.bw.Write(b); err != nil {
		return err
	}
	return e.writeCRLF()
}

func (e *Encoder) encodeTextString(s string) error {
	if _, err := e.bw.WriteString(s); err != nil {
		return err
	}
	return e.writeCRLF()
}

func (e *Encoder) writeCRLF() (err error) {
	_, err = e.bw.Write(CRLF)
	return err
}

func (e *Encoder) encodeBulkBytes(b []byte) error {
	if b == nil {
		return e.encodeInt(-1)
	}
	if err := e.encodeInt(int64(len(b))); err != nil {
		return err
	}
	return e.encodeTextBytes(b)
}

func (e *Encoder) encodeArray(array []RespValue) error {
	if array == nil {
		return e.encodeInt(-1)
	}
	if err := e.encodeInt(int64(len(array))); err != nil {
		return err
	}
	for i := range array {
		if err := e.encode(&array[i]); err != nil {
			return err
		}
	}
	return nil
}

// Marshal returns the RESP encoding of v.
func Marshal(v *RespValue) []byte {
	var b bytes.Buffer
	e := NewEncoder(&b, 64)
	if err := e.Encode(v); err != nil {
		return nil
	}
	if err := e.Flush(); err != nil {
		return nil
	}
	return b.Bytes()
}

const (
	minItoa = -128
	maxItoa = 32768
)

var (
	itoaOffset [maxItoa - minItoa + 1]uint32
	itoaBuffer string
)

func init() {
	// make iota buffer to speed up conversion
	var b bytes.Buffer
	for i := range itoaOffset {
		itoaOffset[i] = uint32(b.Len())
		b.WriteString(strconv.Itoa(i + minItoa))
	}
	itoaBuffer = b.String()
}

func itoa(i int64) string {
	if i >= minItoa && i <= maxItoa {
		beg := itoaOffset[i-minItoa]
		if i == maxItoa {
			return itoaBuffer[beg:]
		}
		end := itoaOffset[i-minItoa+1]
		return itoaBuffer[beg:end]
	}
	return strconv.FormatInt(i, 10)
}

package resp

import (
	"bytes"
	"errors"
	"strconv"
)

const (
	maxArrayLen      = 1024 * 1024
	maxBulkStringLen = 1024 * 1024 * 512

	defaultBufSize = 4096
)

const (
	CR byte = '\r'
	LF byte = '\n'
)

// crlf is the delimter in redis protocol.
var CRLF = []byte{CR, LF}

// errIncomplete signals that the buffered bytes do not yet hold a complete
// value. It never escapes the package; callers observe it as a nil reply.
var errIncomplete = errors.New("incomplete resp value")

// arrayFrame records an in-progress array decode so that parsing can resume
// across Feed boundaries without revisiting already-decoded elements.
type arrayFrame struct {
	expected int
	elems    []RespValue
}

// Reader is an incremental RESP reply decoder. It owns a byte buffer filled
// by Feed and turns it into fully-materialized replies via NextReply,
// tolerating arbitrary chunk boundaries: a reply may straddle any number of
// Feed calls and is only returned once all of its bytes (including every
// nested array element) have arrived.
//
// A Reader is not safe for concurrent use; the owner of a connection must
// serialize Feed/NextReply calls.
type Reader struct {
	buf []byte
	pos int   // bytes before pos are consumed
	off int64 // stream offset of buf[0], kept across compaction

	stack   []*arrayFrame
	pending []*RespValue // decoded eagerly by Feed under a max-buffer cap

	maxBuffer int
	onReply   func(*RespValue)
	err       error
}

// NewReader creates an empty reader.
func NewReader() *Reader {
	return NewReaderSize(defaultBufSize)
}

// NewReaderSize creates an empty reader with the given initial buffer
// capacity.
func NewReaderSize(size int) *Reader {
	return &Reader{buf: make([]byte, 0, size)}
}

// SetMaxBuffer caps the number of unconsumed bytes the reader retains.
// Feeding past the cap fails with ErrBufferOverflow unless complete replies
// can be extracted to make room. Zero (the default) means unlimited.
func (r *Reader) SetMaxBuffer(n int) {
	r.maxBuffer = n
}

// OnReply registers fn to be invoked for every completed reply during Feed,
// removing the need for an explicit NextReply drain loop. Replies already
// queued are delivered on the next Feed.
func (r *Reader) OnReply(fn func(*RespValue)) {
	r.onReply = fn
}

// Buffered returns the number of fed but not yet consumed bytes.
func (r *Reader) Buffered() int {
	return len(r.buf) - r.pos
}

// Err returns the fatal error that poisoned the reader, if any.
func (r *Reader) Err() error {
	return r.err
}

// Reset restores the reader to its initial empty state, discarding buffered
// bytes, partial array progress, queued replies and any poisoning error.
func (r *Reader) Reset() {
	r.buf = r.buf[:0]
	r.pos = 0
	r.off = 0
	r.stack = nil
	r.pending = nil
	r.err = nil
}

// Feed appends p to the internal buffer. It performs no I/O and, unless a
// reply callback is registered or the max-buffer cap forces an eager drain,
// no parsing. Empty input is allowed.
func (r *Reader) Feed(p []byte) error {
	if r.err != nil {
		return ErrReaderPoisoned
	}
	r.buf = append(r.buf, p...)

	if r.onReply != nil {
		if err := r.drain(); err != nil {
			return err
		}
		if r.maxBuffer > 0 && len(r.buf)-r.pos > r.maxBuffer {
			r.err = ErrBufferOverflow
			return ErrBufferOverflow
		}
		return nil
	}

	if r.maxBuffer > 0 {
		for len(r.buf)-r.pos > r.maxBuffer {
			v, err := r.parse()
			if err == errIncomplete {
				r.err = ErrBufferOverflow
				return ErrBufferOverflow
			}
			if err != nil {
				r.err = err
				return err
			}
			r.pending = append(r.pending, v)
		}
		r.compact()
	}
	return nil
}

// NextReply decodes one complete top-level reply. It returns (nil, nil) when
// the buffered bytes do not yet hold a complete reply; the caller should feed
// more input and retry. A non-nil error poisons the reader.
func (r *Reader) NextReply() (*RespValue, error) {
	if r.err != nil {
		return nil, ErrReaderPoisoned
	}
	if len(r.pending) > 0 {
		v := r.pending[0]
		r.pending = r.pending[1:]
		return v, nil
	}
	v, err := r.parse()
	if err == errIncomplete {
		return nil, nil
	}
	if err != nil {
		r.err = err
		return nil, err
	}
	r.compact()
	return v, nil
}

// drain feeds every completed reply to the registered callback.
func (r *Reader) drain() error {
	for _, v := range r.pending {
		r.onReply(v)
	}
	r.pending = nil
	for {
		v, err := r.parse()
		if err == errIncomplete {
			r.compact()
			return nil
		}
		if err != nil {
			r.err = err
			return err
		}
		r.onReply(v)
	}
}

// parse decodes at most one complete top-level reply, resuming the pending
// array frames first. On errIncomplete all partial progress stays in place,
// so the next call picks up exactly where this one stopped.
func (r *Reader) parse() (*RespValue, error) {
	for {
		v, err := r.decodeOne()
		if err != nil {
			return nil, err
		}
		if v == nil {
			// array header consumed, children pending
			continue
		}
		for len(r.stack) > 0 {
			top := r.stack[len(r.stack)-1]
			top.elems = append(top.elems, *v)
			if len(top.elems) < top.expected {
				v = nil
				break
			}
			r.stack = r.stack[:len(r.stack)-1]
			v = &RespValue{Type: Array, Array: top.elems}
		}
		if v != nil {
			return v, nil
		}
	}
}

// decodeOne decodes a single value at the cursor. Arrays with pending
// children push a frame and return (nil, nil). The cursor only advances over
// fully decoded units, so errIncomplete leaves the buffer untouched.
func (r *Reader) decodeOne() (*RespValue, error) {
	if r.pos >= len(r.buf) {
		return nil, errIncomplete
	}
	t := RespType(r.buf[r.pos])
	switch t {
	case SimpleString, Error:
		line, end, err := r.line(r.pos + 1)
		if err != nil {
			return nil, err
		}
		text := make([]byte, len(line))
		copy(text, line)
		r.pos = end
		return &RespValue{Type: t, Text: text}, nil

	case Integer:
		line, end, err := r.line(r.pos + 1)
		if err != nil {
			return nil, err
		}
		n, err := btoi64(line)
		if err != nil {
			return nil, r.protoErr(ErrBadInteger, r.pos+1)
		}
		r.pos = end
		return &RespValue{Type: Integer, Int: n}, nil

	case BulkString:
		line, end, err := r.line(r.pos + 1)
		if err != nil {
			return nil, err
		}
		n, err := btoi64(line)
		if err != nil || n < -1 {
			return nil, r.protoErr(ErrBadBulkStringLen, r.pos+1)
		}
		if n > maxBulkStringLen {
			return nil, r.protoErr(ErrBadBulkStringLenTooLong, r.pos+1)
		}
		if n == -1 {
			r.pos = end
			return &RespValue{Type: BulkString}, nil
		}
		// the length line is not consumed until the payload and its
		// trailing CRLF are fully buffered
		if len(r.buf)-end < int(n)+2 {
			return nil, errIncomplete
		}
		if r.buf[end+int(n)] != CR || r.buf[end+int(n)+1] != LF {
			return nil, r.protoErr(ErrBadCRLFEnd, end+int(n))
		}
		// payload is copied out so buffer compaction never aliases a
		// returned value
		text := make([]byte, n)
		copy(text, r.buf[end:end+int(n)])
		r.pos = end + int(n) + 2
		return &RespValue{Type: BulkString, Text: text}, nil

	case Array:
		line, end, err := r.line(r.pos + 1)
		if err != nil {
			return nil, err
		}
		n, err := btoi64(line)
		if err != nil || n < -1 {
			return nil, r.protoErr(ErrBadArrayLen, r.pos+1)
		}
		if n > maxArrayLen {
			return nil, r.protoErr(ErrBadArrayLenTooLong, r.pos+1)
		}
		r.pos = end
		switch n {
		case -1:
			return &RespValue{Type: Array}, nil
		case 0:
			return &RespValue{Type: Array, Array: []RespValue{}}, nil
		}
		r.stack = append(r.stack, &arrayFrame{
			expected: int(n),
			elems:    make([]RespValue, 0, n),
		})
		return nil, nil

	default:
		return nil, r.protoErr(ErrBadRespType, r.pos)
	}
}

// line returns the bytes between start and the next CRLF, and the offset just
// past that CRLF. Nothing is consumed.
func (r *Reader) line(start int) ([]byte, int, error) {
	i := bytes.IndexByte(r.buf[start:], LF)
	if i < 0 {
		return nil, 0, errIncomplete
	}
	end := start + i + 1
	if i < 1 || r.buf[end-2] != CR {
		return nil, 0, r.protoErr(ErrBadCRLFEnd, end-1)
	}
	return r.buf[start : end-2], end, nil
}

func (r *Reader) protoErr(cause error, pos int) error {
	return &ProtocolError{Offset: r.off + int64(pos), Cause: cause}
}

// compact discards the consumed prefix once it outgrows the unconsumed rest,
// keeping the per-byte cost of repeated small replies amortized constant.
func (r *Reader) compact() {
	if r.pos == 0 {
		return
	}
	if r.pos == len(r.buf) {
		r.off += int64(r.pos)
		r.buf = r.buf[:0]
		r.pos = 0
		return
	}
	if r.pos >= len(r.buf)-r.pos {
		n := copy(r.buf, r.buf[r.pos:])
		r.off += int64(r.pos)
		r.buf = r.buf[:n]
		r.pos = 0
	}
}

// btoi64 parse bytes to int64. Only an optional leading '-' is allowed; a
// leading '+' is not valid in RESP length and integer fields.
func btoi64(b []byte) (int64, error) {
	if len(b) != 0 && b[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	if len(b) != 0 && len(b) < 10 {
		// better performace and zero alloc.
		var neg, i = false, 0
		if b[0] == '-' {
			neg = true
			i++
		}
		if len(b) != i {
			var n int64
			for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
				n = int64(b[i]-'0') + n*10
			}
			if len(b) == i {
				if neg {
					n = -n
				}
				return n, nil
			}
		}
	}
	return strconv.ParseInt(string(b), 10, 64)
}

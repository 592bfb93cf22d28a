package resp

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRespType represents bad resp type
	ErrBadRespType = errors.New("bad resp type")

	// ErrBadCRLFEnd for invalid crlf
	ErrBadCRLFEnd = errors.New("bad CRLF end")

	// ErrBadInteger for invalid integer reply payload
	ErrBadInteger = errors.New("bad integer")

	// ErrBadArrayLen for invalid array len
	ErrBadArrayLen = errors.New("bad array len")
	// ErrBadArrayLenTooLong too long array len
	ErrBadArrayLenTooLong = errors.New("bad array len, too long")

	// ErrBadBulkStringLen for invalid bulk string len
	ErrBadBulkStringLen = errors.New("bad bulk string len")
	// ErrBadBulkStringLenTooLong for too long bulk string len
	ErrBadBulkStringLenTooLong = errors.New("bad bulk string len, too long")

	// ErrBufferOverflow indicates the configured max buffer size was
	// exceeded before a complete reply could be extracted.
	ErrBufferOverflow = errors.New("max buffer size exceeded")

	// ErrReaderPoisoned is returned by every call following a fatal error.
	ErrReaderPoisoned = errors.New("reader poisoned by previous error")
)

// ProtocolError is a framing violation. Offset is the absolute position of
// the offending byte in the stream fed so far, stable across buffer
// compaction.
type ProtocolError struct {
	Offset int64
	Cause  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v (stream offset %d)", e.Cause, e.Offset)
}

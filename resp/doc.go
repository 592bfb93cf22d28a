// Package resp implements an incremental decoder for the Redis
// Serialization Protocol (RESP) reply types: simple strings, errors,
// integers, bulk strings and arrays, including the nil bulk string and
// nil array.
//
// The Reader accepts raw bytes in arbitrary-sized chunks and emits one
// fully-materialized reply per complete top-level unit, making it suitable
// for decoding straight off a socket without any framing by the caller:
//
//	r := resp.NewReader()
//	for {
//		n, err := conn.Read(buf)
//		if err != nil {
//			break
//		}
//		if err := r.Feed(buf[:n]); err != nil {
//			break
//		}
//		for {
//			v, err := r.NextReply()
//			if err != nil || v == nil {
//				break
//			}
//			// process v
//		}
//	}
//
// An Encoder for the same value model is included, mainly to serialize
// outgoing commands (arrays of bulk strings).
package resp

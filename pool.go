package xdb

import "sync"

// maxStackScratch is the payload size at or below which getPayloadBuffer
// returns a fresh make([]byte, n) allocation instead of a pooled buffer;
// such small buffers are not pooled and are not kept on the stack. Every
// segment record (at most 38 bytes, IPv6) fits comfortably under this;
// most region payloads do too.
//
// Grounded in the same shape as go-git's idxfile reader, which keeps a
// family of sync.Pool buffers for its ReaderAt hot path rather than
// allocating per lookup.
const maxStackScratch = 256

var payloadPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, maxStackScratch*4)
		return &b
	},
}

// getPayloadBuffer returns a []byte of exactly n bytes. For n above
// maxStackScratch it is reused from a pool and callers must return it with
// putPayloadBuffer; for n at or below the threshold it is a newly
// allocated slice, so small regions cost one allocation per query.
func getPayloadBuffer(n int) (buf []byte, pooled bool) {
	if n <= maxStackScratch {
		return make([]byte, n), false
	}
	p := payloadPool.Get().(*[]byte)
	b := *p
	if cap(b) < n {
		b = make([]byte, n)
	} else {
		b = b[:n]
	}
	return b, true
}

func putPayloadBuffer(buf []byte, pooled bool) {
	if !pooled {
		return
	}
	payloadPool.Put(&buf)
}

package xdb

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// segmentSource is the narrow contract a cache strategy must supply to the
// shared binary-search algorithm: how to get a vector slot's (s_ptr,
// e_ptr), how to read one fixed-stride segment record, and how to read a
// matched region payload. Each strategy builds these closures once at
// construction (over its reader and any preloaded arrays), so the hot
// search loop below never branches on which of the three strategies it is
// running inside — the dispatch happens at construction, not per query
// (design note, spec §9).
type segmentSource struct {
	// slot returns the half-open byte range for the vector index entry
	// selected by ipBytes.
	slot func(ipBytes []byte, ioCount *int64) (start, end uint32, err error)

	// readRecord fills dst (exactly indexSize(len(ipBytes)) bytes) with
	// the segment record at absolute offset p.
	readRecord func(p int64, dst []byte, ioCount *int64) error

	// readPayload returns the UTF-8 region string of length n at
	// absolute offset p.
	readPayload func(p int64, n int, ioCount *int64) (string, error)
}

// search runs the common two-level lookup described in spec §4.2: resolve
// ipBytes's vector slot, then binary-search the slot's sorted segment
// array for a record whose [start, end] range (inclusive both ends, per
// spec §3.2/§8.4) contains ipBytes.
//
// It returns the empty string, nil for "no matching range" — a deliberate
// success, not an error (spec §4.2 step 5, §7) — and a non-nil error for
// a failed read or a structural problem with the index or payload.
func search(src segmentSource, ipBytes []byte, ioCount *int64) (string, error) {
	ipLen := len(ipBytes)
	recSize := indexSize(ipLen)

	sPtr, ePtr, err := src.slot(ipBytes, ioCount)
	if err != nil {
		return "", err
	}
	if ePtr == sPtr {
		return "", nil // empty slot: no segments at all for this first two bytes
	}
	if ePtr < sPtr {
		// §9 open question: the source this format descends from computes
		// this as an unsigned subtraction, which would silently underflow
		// here. Treat it as corruption instead of replicating that.
		return "", fmt.Errorf("xdb: slot range [%d,%d): %w", sPtr, ePtr, ErrCorruptIndex)
	}
	span := int64(ePtr) - int64(sPtr)
	if span%int64(recSize) != 0 {
		return "", fmt.Errorf("xdb: slot span %d not a multiple of record size %d: %w", span, recSize, ErrCorruptIndex)
	}

	low := int64(0)
	high := span/int64(recSize) - 1

	var rec [IPv6Bytes*2 + segmentIndexSize]byte // always large enough: max recSize is 38
	buf := rec[:recSize]

	var dataLen int
	var dataPtr uint32
	found := false

	for low <= high {
		mid := (low + high) >> 1
		p := int64(sPtr) + mid*int64(recSize)
		if err := src.readRecord(p, buf, ioCount); err != nil {
			return "", err
		}

		sip := buf[0:ipLen]
		eip := buf[ipLen : 2*ipLen]

		if compareIP(ipBytes, sip) < 0 {
			high = mid - 1
			continue
		}
		if compareIP(ipBytes, eip) > 0 {
			low = mid + 1
			continue
		}

		dataLen = int(binary.LittleEndian.Uint16(buf[2*ipLen:]))
		dataPtr = binary.LittleEndian.Uint32(buf[2*ipLen+2:])
		found = true
		break
	}

	if !found || dataLen == 0 {
		return "", nil
	}

	payload, err := src.readPayload(int64(dataPtr), dataLen, ioCount)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(payload) {
		return "", fmt.Errorf("xdb: payload at offset %d len %d: %w", dataPtr, dataLen, ErrInvalidPayload)
	}
	return payload, nil
}

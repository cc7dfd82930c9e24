// Package xdbtest builds well-formed xdb byte buffers in memory for tests.
//
// The real maker (CodingOX-ip2region's maker/golang/xdb) is an offline
// build tool that streams a sorted, gap-free segment list from a text
// file into a binary file on disk — out of scope for the core under test
// (spec §1: "Construction of the xdb file ... is not specified here").
// This helper is deliberately simpler: callers hand it a slice of
// (start, end, region) segments, in any order and with gaps allowed, and
// get back a complete xdb byte buffer with a correct header length,
// vector index, and segment/payload pool, so tests never need a binary
// fixture checked into the repo.
package xdbtest

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Segment is one sorted-range record to place in the built xdb buffer.
// Start and End must be the same length (4 for IPv4, 16 for IPv6) and
// Start must compare <= End per the family's on-disk ordering.
type Segment struct {
	Start  []byte
	End    []byte
	Region string
}

const (
	headerLen         = 256
	vectorRows        = 256
	vectorCols        = 256
	vectorSlotSize    = 8
	vectorIndexLength = vectorRows * vectorCols * vectorSlotSize
)

// Build assembles a complete xdb buffer from segs. Segments are grouped by
// the vector slot their Start address selects (first two bytes) and
// sorted ascending within each slot, matching the on-disk invariant
// (spec §3.2: "records are sorted strictly ascending by start IP").
// Region strings are deduplicated into a shared payload pool the way the
// real maker does, so repeated regions exercise the "payloads may be
// shared between segments" case (spec §3.1).
func Build(segs []Segment) ([]byte, error) {
	type slotKey [2]byte
	bySlot := map[slotKey][]Segment{}

	ipLen := 0
	for _, s := range segs {
		if len(s.Start) != len(s.End) {
			return nil, fmt.Errorf("xdbtest: start/end length mismatch (%d vs %d)", len(s.Start), len(s.End))
		}
		if ipLen == 0 {
			ipLen = len(s.Start)
		} else if len(s.Start) != ipLen {
			return nil, fmt.Errorf("xdbtest: mixed address lengths (%d vs %d) in one file", ipLen, len(s.Start))
		}
		key := slotKey{s.Start[0], s.Start[1]}
		bySlot[key] = append(bySlot[key], s)
	}

	for k := range bySlot {
		sort.Slice(bySlot[k], func(i, j int) bool {
			iHi, iLo := compareStored(bySlot[k][i].Start, ipLen)
			jHi, jLo := compareStored(bySlot[k][j].Start, ipLen)
			if iHi != jHi {
				return iHi < jHi
			}
			return iLo < jLo
		})
	}

	payloadPool := map[string]uint32{}
	var body []byte // everything after header+vector index: payloads then segment arrays, offsets are absolute

	// Payloads first (arbitrary choice; the format does not require any
	// particular interleaving of payload bytes and segment arrays).
	for _, s := range segs {
		if _, ok := payloadPool[s.Region]; ok {
			continue
		}
		if len(s.Region) > 0xFFFF {
			return nil, fmt.Errorf("xdbtest: region %q exceeds 65535 bytes", s.Region)
		}
		payloadPool[s.Region] = uint32(headerLen + vectorIndexLength + len(body))
		body = append(body, s.Region...)
	}

	slotPtrs := map[slotKey][2]uint32{}
	for key, slot := range bySlot {
		start := uint32(headerLen + vectorIndexLength + len(body))
		for _, s := range slot {
			rec := encodeRecord(s, ipLen, payloadPool[s.Region])
			body = append(body, rec...)
		}
		end := uint32(headerLen + vectorIndexLength + len(body))
		slotPtrs[key] = [2]uint32{start, end}
	}

	vec := make([]byte, vectorIndexLength)
	for row := 0; row < vectorRows; row++ {
		for col := 0; col < vectorCols; col++ {
			key := slotKey{byte(row), byte(col)}
			off := (row*vectorCols + col) * vectorSlotSize
			if ptrs, ok := slotPtrs[key]; ok {
				binary.LittleEndian.PutUint32(vec[off:], ptrs[0])
				binary.LittleEndian.PutUint32(vec[off+4:], ptrs[1])
			}
			// else leave as zero: s_ptr == e_ptr == 0, an empty slot.
		}
	}

	buf := make([]byte, headerLen+vectorIndexLength+len(body))
	copy(buf[headerLen:], vec)
	copy(buf[headerLen+vectorIndexLength:], body)
	return buf, nil
}

// compareStored returns a sortable key for a Start address, ordered the
// way the address's plain numeric (big-endian) value would sort. That
// numeric order is what the binary search in core.go relies on
// regardless of family: compareIP treats the query as network-order and
// the stored bytes as whatever the family's on-disk layout is, but the
// two always agree on numeric order — the on-disk byte reversal for IPv4
// changes only the storage encoding, not the ordering it encodes.
func compareStored(ip []byte, ipLen int) (hi, lo uint64) {
	if ipLen == 4 {
		return 0, uint64(ip[0])<<24 | uint64(ip[1])<<16 | uint64(ip[2])<<8 | uint64(ip[3])
	}
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(ip[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(ip[i])
	}
	return hi, lo
}

// encodeRecord lays out one fixed-stride segment record per spec §3.2:
// start IP, end IP (each in the family's on-disk byte order), a
// little-endian uint16 payload length, and a little-endian uint32
// absolute payload offset.
func encodeRecord(s Segment, ipLen int, dataPtr uint32) []byte {
	rec := make([]byte, 2*ipLen+6)
	copy(rec[0:ipLen], storedBytes(s.Start, ipLen))
	copy(rec[ipLen:2*ipLen], storedBytes(s.End, ipLen))
	binary.LittleEndian.PutUint16(rec[2*ipLen:], uint16(len(s.Region)))
	binary.LittleEndian.PutUint32(rec[2*ipLen+2:], dataPtr)
	return rec
}

// storedBytes converts an address from query (network) byte order to the
// family's on-disk byte order: byte-reversed for IPv4, unchanged
// (big-endian) for IPv6 (spec §3.3).
func storedBytes(ip []byte, ipLen int) []byte {
	if ipLen != 4 {
		return ip
	}
	rev := make([]byte, 4)
	for i := 0; i < 4; i++ {
		rev[i] = ip[3-i]
	}
	return rev
}

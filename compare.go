package xdb

import "encoding/binary"

// compareIP orders a query address against a stored range endpoint of the
// same byte length. It returns <0, 0, >0 the way bytes.Compare does.
//
// The two families are not laid out the same way on disk (spec §3.3):
//
//   - IPv6 range bytes are big-endian (network order), so the stored bytes
//     can be compared directly against the query bytes as two 64-bit
//     big-endian words.
//   - IPv4 range bytes are stored byte-reversed relative to network order.
//     The query is in network order, so comparing byte-for-byte would pair
//     the wrong octets; query[i] must be paired with stored[len-1-i].
//
// This asymmetry is a hard invariant of the xdb format, not a choice made
// here — getting it wrong mis-locates every IPv4 record.
func compareIP(query, stored []byte) int {
	if len(query) == IPv4Bytes {
		return compareIPv4(query, stored)
	}
	return compareIPv6(query, stored)
}

// compareIPv4 compares a network-order query against byte-reversed stored
// bytes. Equivalently: stored decodes as a little-endian uint32, query as a
// big-endian uint32, and the two are compared as plain integers.
func compareIPv4(query, stored []byte) int {
	q := binary.BigEndian.Uint32(query)
	s := binary.LittleEndian.Uint32(stored)
	switch {
	case q < s:
		return -1
	case q > s:
		return 1
	default:
		return 0
	}
}

// compareIPv6 compares two big-endian 16-byte addresses as a pair of
// 64-bit words, high word first, per spec §3.3.
func compareIPv6(query, stored []byte) int {
	qHi, qLo := binary.BigEndian.Uint64(query[:8]), binary.BigEndian.Uint64(query[8:])
	sHi, sLo := binary.BigEndian.Uint64(stored[:8]), binary.BigEndian.Uint64(stored[8:])
	if qHi != sHi {
		if qHi < sHi {
			return -1
		}
		return 1
	}
	switch {
	case qLo < sLo:
		return -1
	case qLo > sLo:
		return 1
	default:
		return 0
	}
}

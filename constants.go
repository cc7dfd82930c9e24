package xdb

// Structural constants of the xdb file format.
const (
	// HeaderInfoLength is the fixed size of the header block at offset 0.
	// Header fields are not consulted during queries; only the length
	// matters, to know where the vector index begins.
	HeaderInfoLength = 256

	// VectorIndexRows and VectorIndexCols together size the first-level
	// index: one row per possible first IP byte, one column per possible
	// second IP byte.
	VectorIndexRows = 256
	VectorIndexCols = 256

	// VectorIndexSize is the byte width of one vector-index slot: two
	// little-endian uint32 pointers (s_ptr, e_ptr).
	VectorIndexSize = 8

	// VectorIndexLength is the total size of the vector index block.
	VectorIndexLength = VectorIndexRows * VectorIndexCols * VectorIndexSize

	// segmentIndexSize is the byte width of one segment record's
	// non-IP fields: a uint16 payload length plus a uint32 payload offset.
	segmentIndexSize = 6
)

// IPv4Bytes and IPv6Bytes are the only address byte lengths the core
// accepts; anything else is rejected at the façade boundary.
const (
	IPv4Bytes = 4
	IPv6Bytes = 16
)

// indexSize returns the fixed stride of a segment record for an address of
// the given byte length: two copies of the address (start/end) plus the
// shared 6-byte (length, offset) trailer.
func indexSize(ipLen int) int {
	return 2*ipLen + segmentIndexSize
}

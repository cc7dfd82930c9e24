package xdb

import "encoding/binary"

// vectorIndex is the fully decoded 256x256 first-level table: two flat
// arrays of 65536 uint32 entries, s_ptr and e_ptr, indexed by
// ip[0]*256+ip[1]. Decoding once at construction (§4.3, §4.5) means a
// query never has to re-parse the raw 524288-byte block.
type vectorIndex struct {
	start []uint32
	end   []uint32
}

// decodeVectorIndex parses the raw 524288-byte vector index block into a
// vectorIndex. raw must be exactly VectorIndexLength bytes.
func decodeVectorIndex(raw []byte) vectorIndex {
	const slots = VectorIndexRows * VectorIndexCols
	vi := vectorIndex{
		start: make([]uint32, slots),
		end:   make([]uint32, slots),
	}
	for i := 0; i < slots; i++ {
		off := i * VectorIndexSize
		vi.start[i] = binary.LittleEndian.Uint32(raw[off:])
		vi.end[i] = binary.LittleEndian.Uint32(raw[off+4:])
	}
	return vi
}

// slot returns the (s_ptr, e_ptr) half-open byte range for the vector
// index entry selected by an address's first two bytes.
func (vi vectorIndex) slot(ipBytes []byte) (start, end uint32) {
	idx := vectorSlotIndex(ipBytes)
	return vi.start[idx], vi.end[idx]
}

// vectorSlotIndex computes the flat slot index from an address's first two
// bytes (spec §4.2 step 1).
func vectorSlotIndex(ipBytes []byte) int {
	return int(ipBytes[0])*VectorIndexCols + int(ipBytes[1])
}

// vectorSlotOffset computes the absolute file offset of the raw 8-byte
// slot entry for a given address, used when the vector index is not
// preloaded (the File strategy).
func vectorSlotOffset(ipBytes []byte) int64 {
	return HeaderInfoLength + int64(vectorSlotIndex(ipBytes))*VectorIndexSize
}

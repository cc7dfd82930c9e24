package xdb

import "fmt"

// Policy selects which of the three cache strategies a Searcher uses. The
// set is closed (spec §6.3); there is no way to register a fourth.
type Policy int

const (
	// PolicyFile never preloads anything; every query reads the vector
	// slot, each binary-search probe, and the payload from disk. Lowest
	// memory footprint, highest I/O per query.
	PolicyFile Policy = iota

	// PolicyVectorIndex preloads the 512KiB vector index once; segment
	// and payload reads still go to disk.
	PolicyVectorIndex

	// PolicyContent memory-maps the entire file and preloads the vector
	// index; queries issue zero I/O.
	PolicyContent
)

func (p Policy) String() string {
	switch p {
	case PolicyFile:
		return "File"
	case PolicyVectorIndex:
		return "VectorIndex"
	case PolicyContent:
		return "Content"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

package xdb

import "errors"

// Sentinel errors returned by the core. Callers should use errors.Is rather
// than comparing error strings, since every occurrence is wrapped with
// call-site context via %w.
var (
	// ErrClosed is returned by Search (and by SearchString for a parseable
	// address) once Close has been called. IOCount and Stat do not report
	// it, and a repeated Close returns the first Close's result.
	ErrClosed = errors.New("xdb: searcher is closed")

	// ErrInvalidAddress is returned when the byte sequence passed to
	// Search is not 4 (IPv4) or 16 (IPv6) bytes long.
	ErrInvalidAddress = errors.New("xdb: address must be 4 or 16 bytes")

	// ErrShortXDB is returned at construction time when the file is
	// shorter than the header plus vector index (for strategies that
	// must preload the vector index), or shorter than the header alone
	// otherwise.
	ErrShortXDB = errors.New("xdb: file too short to be a valid xdb index")

	// ErrCorruptIndex is returned when a vector slot's range fails a
	// structural check: a negative-length range (e_ptr < s_ptr) or a slot
	// length that isn't a whole multiple of the record stride. Segment
	// records themselves are not validated. The spec treats this
	// as format corruption rather than silently replicating an unsigned
	// underflow.
	ErrCorruptIndex = errors.New("xdb: corrupt segment index")

	// ErrInvalidPayload is returned when a matched region payload is not
	// valid UTF-8. The format guarantees UTF-8 payloads, so this
	// indicates on-disk data corruption, not a normal "no match".
	ErrInvalidPayload = errors.New("xdb: region payload is not valid UTF-8")

	// ErrUnknownPolicy is returned by NewSearcher for a policy value
	// outside the closed {File, VectorIndex, Content} set.
	ErrUnknownPolicy = errors.New("xdb: unknown cache policy")
)

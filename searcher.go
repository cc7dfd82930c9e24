package xdb

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// cache is the narrow contract every strategy implements: search the
// index for an address, report the last query's I/O cost, and release
// resources. Policy selection at construction resolves which concrete
// type backs a Searcher — see segmentSource in core.go for why the hot
// path itself never dispatches on it.
type cache interface {
	search(ipBytes []byte) (string, error)
	ioCount() int64
	fileSize() int64
	close() error
}

// Searcher is the public façade over one xdb file: it owns a cache
// strategy chosen at construction and forwards queries to it (spec §4.6).
// A *Searcher is safe to share across goroutines and query concurrently;
// IOCount carries the weak "last query's, or an interleaved total's,
// count" semantics spec §5 documents for concurrent use — it is
// deliberately not locked into exactness, since doing so would mean
// serializing queries to fix a metric nobody asked to have serialized.
type Searcher struct {
	policy  Policy
	path    string
	c       cache
	log     *zap.Logger
	metrics *Metrics

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Searcher at construction.
type Option func(*Searcher)

// WithLogger attaches a zap logger for construction/dispose/corruption
// diagnostics. The default is zap.NewNop(), so the library is silent
// unless a caller opts in — the right default for a library, as opposed
// to an application.
func WithLogger(log *zap.Logger) Option {
	return func(s *Searcher) { s.log = log }
}

// WithMetrics attaches a Metrics bundle (see NewMetrics) that every Search
// call reports query counts and io_count through.
func WithMetrics(m *Metrics) Option {
	return func(s *Searcher) { s.metrics = m }
}

// NewSearcher opens path read-only under the given policy. It fails if
// the file is missing, unreadable, or (for PolicyVectorIndex and
// PolicyContent, which must preload the vector index) shorter than
// HeaderInfoLength+VectorIndexLength bytes. Construction never leaves a
// partially-initialized Searcher behind: any failure closes whatever was
// opened so far before returning.
func NewSearcher(policy Policy, path string, opts ...Option) (*Searcher, error) {
	s := &Searcher{policy: policy, path: path, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	var c cache
	var err error
	switch policy {
	case PolicyFile:
		c, err = newFileCache(path)
	case PolicyVectorIndex:
		c, err = newVectorIndexCache(path)
	case PolicyContent:
		c, err = newContentCache(path)
	default:
		return nil, fmt.Errorf("xdb: policy %v: %w", policy, ErrUnknownPolicy)
	}
	if err != nil {
		s.log.Warn("xdb: failed to open searcher", zap.String("path", path), zap.Stringer("policy", policy), zap.Error(err))
		return nil, err
	}

	s.c = c
	s.log.Info("xdb: searcher opened", zap.String("path", path), zap.Stringer("policy", policy))
	return s, nil
}

// Search looks up the region string for a raw 4- or 16-byte address. It
// returns the empty string, nil for "no matching range" (spec §4.2 step
// 5, §7) — that is success, not failure.
func (s *Searcher) Search(ipBytes []byte) (string, error) {
	if s.c == nil {
		return "", ErrClosed
	}
	if len(ipBytes) != IPv4Bytes && len(ipBytes) != IPv6Bytes {
		return "", fmt.Errorf("xdb: %d-byte address: %w", len(ipBytes), ErrInvalidAddress)
	}

	region, err := s.c.search(ipBytes)

	result := resultHit
	if err != nil {
		result = resultErr
	} else if region == "" {
		result = resultMiss
	}
	s.metrics.observe(s.policy, result, s.c.ioCount())

	if err != nil {
		s.log.Warn("xdb: search failed", zap.Binary("address", ipBytes), zap.Error(err))
	}
	return region, err
}

// SearchString parses ip (dotted-quad IPv4 or any textual IPv6 form) and
// delegates to Search. Address parsing is explicitly out of scope for the
// core (spec §1); this is the thin wrapper the core assumes exists.
func (s *Searcher) SearchString(ip string) (string, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", fmt.Errorf("xdb: %q: %w", ip, ErrInvalidAddress)
	}
	if v4 := addr.To4(); v4 != nil {
		return s.Search(v4)
	}
	return s.Search(addr.To16())
}

// IOCount reports the most recently completed query's I/O cost: the
// number of physical reads issued to the backing store. See the Searcher
// doc comment for why this is not meaningful under concurrent queries.
func (s *Searcher) IOCount() int64 {
	if s.c == nil {
		return 0
	}
	return s.c.ioCount()
}

// Stat reports the active policy and the size of the underlying xdb file,
// mirroring idanyas/sxgo's About() without touching any header field the
// spec says queries never consult.
type Stat struct {
	Policy Policy
	Path   string
	Size   int64
}

// Stat returns introspection data about this Searcher. Size is read back
// from the reader each strategy already opened at construction (see
// fullBufferReader.size / fileReader.size in reader.go), not re-stat'd
// here.
func (s *Searcher) Stat() Stat {
	stat := Stat{Policy: s.policy, Path: s.path}
	if s.c != nil {
		stat.Size = s.c.fileSize()
	}
	return stat
}

// Close releases the cache strategy and its reader (file handle and/or
// memory mapping). It is idempotent: calling Close more than once is a
// no-op after the first call, unlike a source that might naively acquire
// the same release lock twice.
func (s *Searcher) Close() error {
	s.closeOnce.Do(func() {
		if s.c != nil {
			s.closeErr = s.c.close()
			s.c = nil
		}
		s.log.Debug("xdb: searcher closed", zap.String("path", s.path))
	})
	return s.closeErr
}

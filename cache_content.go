package xdb

import (
	"fmt"
	"sync/atomic"
)

// contentCache is the §4.3 strategy: the whole xdb file is memory-mapped
// and the vector index is additionally decoded into flat arrays, so a
// query never issues a physical read. Memory budget ≈ file size (mapped,
// not copied) + 512KiB of decoded uint32 arrays.
type contentCache struct {
	r          *fullBufferReader
	vi         vectorIndex
	lastIO     int64
	vectorBase int64 // offset of the vector index inside r.data
}

func newContentCache(path string) (*contentCache, error) {
	r, err := newFullBufferReader(path)
	if err != nil {
		return nil, err
	}
	if r.size() < HeaderInfoLength+VectorIndexLength {
		r.close()
		return nil, fmt.Errorf("xdb: %q is %d bytes, need at least %d: %w", path, r.size(), HeaderInfoLength+VectorIndexLength, ErrShortXDB)
	}

	vecBytes := make([]byte, VectorIndexLength)
	if err := r.read(HeaderInfoLength, vecBytes, nil); err != nil {
		r.close()
		return nil, fmt.Errorf("xdb: decode vector index: %w", err)
	}

	return &contentCache{
		r:          r,
		vi:         decodeVectorIndex(vecBytes),
		vectorBase: HeaderInfoLength,
	}, nil
}

func (c *contentCache) search(ipBytes []byte) (string, error) {
	var ioCount int64
	src := segmentSource{
		slot: func(ip []byte, _ *int64) (uint32, uint32, error) {
			s, e := c.vi.slot(ip)
			return s, e, nil
		},
		readRecord: func(p int64, dst []byte, _ *int64) error {
			return c.r.read(p, dst, nil)
		},
		readPayload: func(p int64, n int, _ *int64) (string, error) {
			buf, pooled := getPayloadBuffer(n)
			defer putPayloadBuffer(buf, pooled)
			if err := c.r.read(p, buf, nil); err != nil {
				return "", err
			}
			return string(buf), nil
		},
	}
	result, err := search(src, ipBytes, &ioCount)
	atomic.StoreInt64(&c.lastIO, ioCount)
	return result, err
}

func (c *contentCache) ioCount() int64 { return atomic.LoadInt64(&c.lastIO) }

func (c *contentCache) fileSize() int64 { return c.r.size() }

func (c *contentCache) close() error { return c.r.close() }

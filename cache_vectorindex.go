package xdb

import (
	"fmt"
	"sync/atomic"
)

// vectorIndexCache is the §4.5 strategy: the 512KiB vector index is
// preloaded once at construction (one large sequential read), but segment
// and payload reads still go through the file on every query. A typical
// query issues ceil(log2(n))+1 reads, one fewer than fileCache since the
// vector slot lookup is free.
type vectorIndexCache struct {
	r      *fileReader
	vi     vectorIndex
	size   int64
	lastIO int64
}

func newVectorIndexCache(path string) (*vectorIndexCache, error) {
	r, err := newFileReader(path)
	if err != nil {
		return nil, err
	}
	size, err := r.size()
	if err != nil {
		r.close()
		return nil, err
	}
	if size < HeaderInfoLength+VectorIndexLength {
		r.close()
		return nil, fmt.Errorf("xdb: %q is %d bytes, need at least %d: %w", path, size, HeaderInfoLength+VectorIndexLength, ErrShortXDB)
	}

	vecBytes := make([]byte, VectorIndexLength)
	if err := r.read(HeaderInfoLength, vecBytes, nil); err != nil {
		r.close()
		return nil, fmt.Errorf("xdb: preload vector index: %w", err)
	}

	return &vectorIndexCache{r: r, vi: decodeVectorIndex(vecBytes), size: size}, nil
}

func (c *vectorIndexCache) search(ipBytes []byte) (string, error) {
	var ioCount int64
	src := segmentSource{
		slot: func(ip []byte, _ *int64) (uint32, uint32, error) {
			s, e := c.vi.slot(ip)
			return s, e, nil
		},
		readRecord: func(p int64, dst []byte, io *int64) error {
			return c.r.read(p, dst, io)
		},
		readPayload: func(p int64, n int, io *int64) (string, error) {
			buf, pooled := getPayloadBuffer(n)
			defer putPayloadBuffer(buf, pooled)
			if err := c.r.read(p, buf, io); err != nil {
				return "", err
			}
			return string(buf), nil
		},
	}
	result, err := search(src, ipBytes, &ioCount)
	atomic.StoreInt64(&c.lastIO, ioCount)
	return result, err
}

func (c *vectorIndexCache) ioCount() int64 { return atomic.LoadInt64(&c.lastIO) }

func (c *vectorIndexCache) fileSize() int64 { return c.size }

func (c *vectorIndexCache) close() error { return c.r.close() }

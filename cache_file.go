package xdb

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// fileCache is the §4.4 strategy: nothing is preloaded, so every query
// reads the vector slot, each binary-search probe, and the payload
// straight from the file via positional reads. Memory budget ≈ O(1).
type fileCache struct {
	r      *fileReader
	size   int64
	lastIO int64
}

func newFileCache(path string) (*fileCache, error) {
	r, err := newFileReader(path)
	if err != nil {
		return nil, err
	}
	size, err := r.size()
	if err != nil {
		r.close()
		return nil, err
	}
	if size < HeaderInfoLength {
		r.close()
		return nil, fmt.Errorf("xdb: %q is %d bytes, need at least %d: %w", path, size, HeaderInfoLength, ErrShortXDB)
	}
	return &fileCache{r: r, size: size}, nil
}

func (c *fileCache) search(ipBytes []byte) (string, error) {
	var ioCount int64
	src := segmentSource{
		slot: func(ip []byte, io *int64) (uint32, uint32, error) {
			var buf [VectorIndexSize]byte
			if err := c.r.read(vectorSlotOffset(ip), buf[:], io); err != nil {
				return 0, 0, fmt.Errorf("xdb: read vector slot: %w", err)
			}
			return binary.LittleEndian.Uint32(buf[0:4]), binary.LittleEndian.Uint32(buf[4:8]), nil
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

func (c *fileCache) ioCount() int64 { return atomic.LoadInt64(&c.lastIO) }

func (c *fileCache) fileSize() int64 { return c.size }

func (c *fileCache) close() error { return c.r.close() }

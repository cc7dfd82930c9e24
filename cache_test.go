package xdb

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4ba-Co/ip2region/internal/xdbtest"
)

func ipv4(s string) []byte {
	return net.ParseIP(s).To4()
}

func ipv6(s string) []byte {
	return net.ParseIP(s).To16()
}

// fixtureIPv4 builds a small, deliberately non-contiguous IPv4 xdb: two
// segments sharing one vector slot (1.0.0.0/24 and 1.0.1.0/24, since both
// start with byte pair 1,0) with a shared region string, one segment in
// its own slot with a region of length zero, and a gap slot with no
// segments at all (1.1.0.0/24).
func fixtureIPv4(t *testing.T) string {
	t.Helper()
	buf, err := xdbtest.Build([]xdbtest.Segment{
		{Start: ipv4("1.0.0.0"), End: ipv4("1.0.0.255"), Region: "US|CA|LosAngeles"},
		{Start: ipv4("1.0.1.0"), End: ipv4("1.0.1.255"), Region: "US|CA|LosAngeles"},
		{Start: ipv4("2.0.0.0"), End: ipv4("2.0.0.255"), Region: ""},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ipv4.xdb")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func fixtureIPv6(t *testing.T) string {
	t.Helper()
	buf, err := xdbtest.Build([]xdbtest.Segment{
		{Start: ipv6("2001:db8::"), End: ipv6("2001:db8::ffff"), Region: "EU|DE|Berlin"},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ipv6.xdb")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func openAll(t *testing.T, path string) map[Policy]cache {
	t.Helper()
	caches := map[Policy]cache{}
	fc, err := newFileCache(path)
	require.NoError(t, err)
	caches[PolicyFile] = fc

	vc, err := newVectorIndexCache(path)
	require.NoError(t, err)
	caches[PolicyVectorIndex] = vc

	cc, err := newContentCache(path)
	require.NoError(t, err)
	caches[PolicyContent] = cc

	t.Cleanup(func() {
		for _, c := range caches {
			_ = c.close()
		}
	})
	return caches
}

func TestCacheStrategiesAgreeOnHits(t *testing.T) {
	path := fixtureIPv4(t)
	caches := openAll(t, path)

	for policy, c := range caches {
		for _, addr := range []string{"1.0.0.0", "1.0.0.10", "1.0.0.255", "1.0.1.0", "1.0.1.128", "1.0.1.255"} {
			region, err := c.search(ipv4(addr))
			require.NoErrorf(t, err, "policy %v addr %s", policy, addr)
			assert.Equalf(t, "US|CA|LosAngeles", region, "policy %v addr %s", policy, addr)
		}
	}
}

func TestCacheStrategiesAgreeOnMiss(t *testing.T) {
	path := fixtureIPv4(t)
	caches := openAll(t, path)

	for policy, c := range caches {
		// 1.1.0.0 selects an entirely empty vector slot.
		region, err := c.search(ipv4("1.1.0.0"))
		require.NoErrorf(t, err, "policy %v", policy)
		assert.Emptyf(t, region, "policy %v", policy)

		// 1.0.2.0 lies past the last segment in the non-empty 1,0 slot.
		region, err = c.search(ipv4("1.0.2.0"))
		require.NoErrorf(t, err, "policy %v", policy)
		assert.Emptyf(t, region, "policy %v", policy)
	}
}

func TestCacheZeroLengthPayloadIsMissLikeResult(t *testing.T) {
	path := fixtureIPv4(t)
	caches := openAll(t, path)

	for policy, c := range caches {
		region, err := c.search(ipv4("2.0.0.5"))
		require.NoErrorf(t, err, "policy %v", policy)
		assert.Emptyf(t, region, "policy %v", policy)
	}
}

func TestCacheIPv6(t *testing.T) {
	path := fixtureIPv6(t)
	caches := openAll(t, path)

	for policy, c := range caches {
		region, err := c.search(ipv6("2001:db8::abcd"))
		require.NoErrorf(t, err, "policy %v", policy)
		assert.Equalf(t, "EU|DE|Berlin", region, "policy %v", policy)

		region, err = c.search(ipv6("2001:db9::1"))
		require.NoErrorf(t, err, "policy %v", policy)
		assert.Emptyf(t, region, "policy %v", policy)
	}
}

func TestFileCacheIOCountPositive(t *testing.T) {
	path := fixtureIPv4(t)
	c, err := newFileCache(path)
	require.NoError(t, err)
	defer c.close()

	_, err = c.search(ipv4("1.0.0.10"))
	require.NoError(t, err)
	assert.Positive(t, c.ioCount(), "fileCache must issue at least one physical read per query")
}

func TestContentCacheIOCountAlwaysZero(t *testing.T) {
	path := fixtureIPv4(t)
	c, err := newContentCache(path)
	require.NoError(t, err)
	defer c.close()

	_, err = c.search(ipv4("1.0.0.10"))
	require.NoError(t, err)
	assert.Zero(t, c.ioCount())

	_, err = c.search(ipv4("9.9.9.9"))
	require.NoError(t, err)
	assert.Zero(t, c.ioCount())
}

func TestVectorIndexCacheIOCountLowerThanFile(t *testing.T) {
	path := fixtureIPv4(t)
	fc, err := newFileCache(path)
	require.NoError(t, err)
	defer fc.close()
	vc, err := newVectorIndexCache(path)
	require.NoError(t, err)
	defer vc.close()

	_, err = fc.search(ipv4("1.0.0.10"))
	require.NoError(t, err)
	_, err = vc.search(ipv4("1.0.0.10"))
	require.NoError(t, err)

	assert.Less(t, vc.ioCount(), fc.ioCount())
}

func TestSearchRejectsCorruptSlot(t *testing.T) {
	buf, err := xdbtest.Build([]xdbtest.Segment{
		{Start: ipv4("1.0.0.0"), End: ipv4("1.0.0.255"), Region: "X"},
	})
	require.NoError(t, err)

	// Corrupt the vector slot for (1,0): swap s_ptr and e_ptr so e_ptr <
	// s_ptr, the exact case spec §9 calls out as corruption rather than
	// underflow.
	off := HeaderInfoLength + vectorSlotIndex([]byte{1, 0, 0, 0})*VectorIndexSize
	s := binary.LittleEndian.Uint32(buf[off:])
	e := binary.LittleEndian.Uint32(buf[off+4:])
	binary.LittleEndian.PutUint32(buf[off:], e)
	binary.LittleEndian.PutUint32(buf[off+4:], s)

	path := filepath.Join(t.TempDir(), "corrupt.xdb")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	c, err := newContentCache(path)
	require.NoError(t, err)
	defer c.close()

	_, err = c.search(ipv4("1.0.0.10"))
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestCacheConcurrentSearch(t *testing.T) {
	path := fixtureIPv4(t)
	caches := openAll(t, path)

	for policy, c := range caches {
		c := c
		t.Run(policy.String(), func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					region, err := c.search(ipv4("1.0.0.10"))
					assert.NoError(t, err)
					assert.Equal(t, "US|CA|LosAngeles", region)
				}()
			}
			wg.Wait()
		})
	}
}

func TestNewCachesRejectShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.xdb")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0o644))

	_, err := newFileCache(path)
	assert.ErrorIs(t, err, ErrShortXDB)

	_, err = newVectorIndexCache(path)
	assert.ErrorIs(t, err, ErrShortXDB)

	_, err = newContentCache(path)
	assert.ErrorIs(t, err, ErrShortXDB)
}

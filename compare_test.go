package xdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareIPv4ByteReversal(t *testing.T) {
	// 1.2.3.4 on the wire (network order) versus its byte-reversed
	// on-disk encoding: the two must compare equal.
	query := []byte{1, 2, 3, 4}
	stored := []byte{4, 3, 2, 1}
	assert.Equal(t, 0, compareIP(query, stored))

	// A query numerically greater than the stored value must compare >0
	// even though its raw bytes are not byte-for-byte greater.
	greater := []byte{1, 2, 3, 5}
	assert.Positive(t, compareIP(greater, stored))

	lesser := []byte{1, 2, 3, 3}
	assert.Negative(t, compareIP(lesser, stored))
}

func TestCompareIPv6BigEndianWords(t *testing.T) {
	query := make([]byte, 16)
	query[15] = 1
	stored := make([]byte, 16)
	stored[15] = 1
	assert.Equal(t, 0, compareIP(query, stored))

	high := make([]byte, 16)
	high[0] = 1
	assert.Positive(t, compareIP(high, stored))
	assert.Negative(t, compareIP(stored, high))
}

func TestCompareIPv4Ordering(t *testing.T) {
	cases := []struct {
		name     string
		query    []byte
		stored   []byte
		expected int
	}{
		{"equal", []byte{10, 0, 0, 1}, []byte{1, 0, 0, 10}, 0},
		{"query less", []byte{10, 0, 0, 0}, []byte{1, 0, 0, 10}, -1},
		{"query greater", []byte{10, 0, 0, 2}, []byte{1, 0, 0, 10}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := compareIP(c.query, c.stored)
			switch {
			case c.expected < 0:
				assert.Negative(t, got)
			case c.expected > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

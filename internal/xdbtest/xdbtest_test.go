package xdbtest

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayout(t *testing.T) {
	buf, err := Build([]Segment{
		{Start: net.ParseIP("1.0.0.0").To4(), End: net.ParseIP("1.0.0.255").To4(), Region: "US"},
	})
	require.NoError(t, err)
	assert.Greater(t, len(buf), headerLen+vectorIndexLength)
}

func TestBuildRejectsMixedFamilies(t *testing.T) {
	_, err := Build([]Segment{
		{Start: net.ParseIP("1.0.0.0").To4(), End: net.ParseIP("1.0.0.255").To4(), Region: "US"},
		{Start: net.ParseIP("::1").To16(), End: net.ParseIP("::2").To16(), Region: "EU"},
	})
	assert.Error(t, err)
}

func TestBuildRejectsLengthMismatch(t *testing.T) {
	_, err := Build([]Segment{
		{Start: net.ParseIP("1.0.0.0").To4(), End: net.ParseIP("::1").To16(), Region: "US"},
	})
	assert.Error(t, err)
}

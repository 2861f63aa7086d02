package weight

import (
	"testing"

	"github.com/milden6/dawgs/graph"
	"github.com/stretchr/testify/require"
)

func TestBasicRoundTrip(t *testing.T) {
	w := NewBasic(5, graph.NodeIndex(3))
	buf := make([]byte, w.Size())
	w.Encode(buf)
	got := DecodeBasic(buf)
	require.Equal(t, w, got)
}

func TestBasicCountIsAlwaysZero(t *testing.T) {
	w := NewBasic(5, graph.NilNode)
	require.Equal(t, uint32(0), w.Count())
	w = w.Incremented()
	require.Equal(t, uint32(0), w.Count())
	w = w.WithCount(42)
	require.Equal(t, uint32(0), w.Count())
}

func TestCountingRoundTripAndIncrement(t *testing.T) {
	w := NewCounting(5, graph.NodeIndex(3))
	w = w.Incremented().Incremented()
	require.Equal(t, uint32(2), w.Count())

	buf := make([]byte, w.Size())
	w.Encode(buf)
	got := DecodeCounting(buf)
	require.Equal(t, w, got)
}

func TestCdawgRoundTripAndFirstOccurrence(t *testing.T) {
	w := NewCdawg(5, graph.NodeIndex(3), 17)
	w = w.WithCount(9)
	buf := make([]byte, w.Size())
	w.Encode(buf)
	got := DecodeCdawg(buf)
	require.Equal(t, w, got)
	require.Equal(t, uint64(17), got.FirstOccurrence())
	require.Equal(t, uint32(9), got.Count())
}

package dawgs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCountingDawg() *CountingDawg {
	cfg := NewConfig(WithSeparator(0))
	return NewCountingDawg(cfg)
}

// sym maps a rune to a token id disjoint from the reserved separator 0.
func sym(r byte) uint32 { return uint32(r) }

func TestEmptyAfterInit(t *testing.T) {
	d := newTestCountingDawg()
	d.Finalize()

	_, ok := d.Transition(d.Source(), sym('x'))
	require.False(t, ok)
	require.Equal(t, uint32(0), d.Count(d.Source()))
}

func TestSingleToken(t *testing.T) {
	d := newTestCountingDawg()
	require.NoError(t, d.AddToken(sym('a')))
	d.Finalize()

	require.Equal(t, 2, d.g.NNodes())
	n1, ok := d.Transition(d.Source(), sym('a'))
	require.True(t, ok)
	require.Equal(t, uint32(1), d.Length(n1))
	require.Equal(t, uint32(1), d.Count(n1))
}

func TestRepeatAAA(t *testing.T) {
	d := newTestCountingDawg()
	for i := 0; i < 3; i++ {
		require.NoError(t, d.AddToken(sym('a')))
	}
	d.Finalize()

	require.Equal(t, 4, d.g.NNodes()) // source + 3

	n1, _ := d.Transition(d.Source(), sym('a'))
	n2, _ := d.Transition(n1, sym('a'))
	n3, _ := d.Transition(n2, sym('a'))

	require.Equal(t, uint32(1), d.Length(n1))
	require.Equal(t, uint32(2), d.Length(n2))
	require.Equal(t, uint32(3), d.Length(n3))

	require.Equal(t, uint32(3), d.Count(n1))
	require.Equal(t, uint32(2), d.Count(n2))
	require.Equal(t, uint32(1), d.Count(n3))
}

func TestClonePathAbAbC(t *testing.T) {
	d := newTestCountingDawg()
	for _, c := range []byte{'a', 'b', 'a', 'b', 'c'} {
		require.NoError(t, d.AddToken(sym(c)))
	}
	d.Finalize()

	ab, ok := d.Follow(d.Source(), []Token{sym('a'), sym('b')})
	require.True(t, ok)
	require.Equal(t, uint32(2), d.Count(ab))

	ba, ok := d.Follow(d.Source(), []Token{sym('b'), sym('a')})
	require.True(t, ok)
	require.Equal(t, uint32(1), d.Count(ba))
}

func TestMultiDocument(t *testing.T) {
	d := newTestCountingDawg()
	// a b $ a c, with $ = 0 the configured separator.
	for _, c := range []uint32{sym('a'), sym('b'), 0, sym('a'), sym('c')} {
		require.NoError(t, d.AddToken(c))
	}
	d.Finalize()

	a, ok := d.Follow(d.Source(), []Token{sym('a')})
	require.True(t, ok)
	require.Equal(t, uint32(2), d.Count(a))

	ab, ok := d.Follow(d.Source(), []Token{sym('a'), sym('b')})
	require.True(t, ok)
	require.Equal(t, uint32(1), d.Count(ab))

	_, ok = d.Follow(d.Source(), []Token{sym('b'), sym('a')})
	require.False(t, ok)
}

func TestLongestSuffixMatch(t *testing.T) {
	d := newTestCountingDawg()
	for _, c := range []byte("thequickbrownfox") {
		require.NoError(t, d.AddToken(sym(c)))
	}
	d.Finalize()

	pattern := make([]Token, 0)
	for _, c := range []byte("zbrown") {
		pattern = append(pattern, sym(c))
	}
	state, matched := d.LongestSuffixMatch(d.Source(), pattern)
	require.Equal(t, 5, matched)
	// "brown" occurs once, so its state also holds the whole prefix
	// "thequickbrown" and reports that longer length.
	require.Equal(t, uint32(13), d.Length(state))
}

func TestBasicDawgCountIsAlwaysZero(t *testing.T) {
	cfg := NewConfig(WithSeparator(0))
	d := NewBasicDawg(cfg)
	require.NoError(t, d.AddToken(sym('a')))
	d.Finalize()

	n1, ok := d.Transition(d.Source(), sym('a'))
	require.True(t, ok)
	require.Equal(t, uint32(0), d.Count(n1))
}

// TestSaveToAndLoadDawgRoundTrip builds a DAWG over a corpus with a
// repeated pair and a document boundary, saves it to disk, loads it back
// through the mmap path, and checks every query answers identically —
// the round-trip property spec §8 requires.
func TestSaveToAndLoadDawgRoundTrip(t *testing.T) {
	cfg := NewConfig(WithSeparator(0))
	d := NewCountingDawg(cfg)
	for _, c := range []uint32{sym('a'), sym('b'), sym('a'), sym('b'), sym('c'), 0, sym('a')} {
		require.NoError(t, d.AddToken(c))
	}
	d.Finalize()

	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "nodes.bin")
	edgesPath := filepath.Join(dir, "edges.bin")
	require.NoError(t, d.SaveTo(nodesPath, edgesPath))

	loaded, err := LoadCountingDawg(cfg, nodesPath, edgesPath)
	require.NoError(t, err)

	patterns := [][]Token{
		{sym('a')},
		{sym('a'), sym('b')},
		{sym('b'), sym('a')},
		{sym('a'), sym('b'), sym('c')},
	}
	for _, p := range patterns {
		wantState, wantOk := d.Follow(d.Source(), p)
		gotState, gotOk := loaded.Follow(loaded.Source(), p)
		require.Equal(t, wantOk, gotOk, "pattern %v", p)
		if wantOk {
			require.Equal(t, d.Length(wantState), loaded.Length(gotState), "pattern %v length", p)
			require.Equal(t, d.Count(wantState), loaded.Count(gotState), "pattern %v count", p)
		}
	}
}

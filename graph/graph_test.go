package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// testWeight is a minimal Weight[testWeight] used only to exercise the
// arena/AVL machinery independent of any real automaton weight type.
type testWeight struct {
	length  uint32
	failure NodeIndex
	count   uint32
}

func (w testWeight) Size() int { return 12 }
func (w testWeight) Encode(buf []byte) {
	putU32(buf[0:], w.length)
	putU32(buf[4:], uint32(w.failure))
	putU32(buf[8:], w.count)
}
func decodeTestWeight(buf []byte) testWeight {
	return testWeight{
		length:  getU32(buf[0:]),
		failure: NodeIndex(getU32(buf[4:])),
		count:   getU32(buf[8:]),
	}
}
func (w testWeight) Length() uint32             { return w.length }
func (w testWeight) WithLength(l uint32) testWeight { w.length = l; return w }
func (w testWeight) Failure() NodeIndex         { return w.failure }
func (w testWeight) WithFailure(f NodeIndex) testWeight { w.failure = f; return w }
func (w testWeight) Count() uint32              { return w.count }
func (w testWeight) WithCount(c uint32) testWeight { w.count = c; return w }
func (w testWeight) Incremented() testWeight    { w.count++; return w }

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func TestAddEdgeAndGetEdge(t *testing.T) {
	g := NewRAM[testWeight]()
	root := g.AddNode(testWeight{})
	a := g.AddNode(testWeight{})
	b := g.AddNode(testWeight{})

	g.AddEdge(root, 5, a)
	g.AddEdge(root, 2, b)

	require.Equal(t, a, g.EdgeTarget(g.GetEdge(root, 5)))
	require.Equal(t, b, g.EdgeTarget(g.GetEdge(root, 2)))
	require.Equal(t, NilEdge, g.GetEdge(root, 99))
}

func TestNeighborsAscending(t *testing.T) {
	g := NewRAM[testWeight]()
	root := g.AddNode(testWeight{})
	symbols := []uint32{50, 10, 70, 30, 90, 20, 60, 80, 40, 5, 65}
	for _, s := range symbols {
		dst := g.AddNode(testWeight{})
		g.AddEdge(root, s, dst)
	}

	var got []uint32
	for _, e := range g.Neighbors(root) {
		got = append(got, g.EdgeSymbol(e))
	}

	want := append([]uint32{}, symbols...)
	sortUint32(want)
	require.Equal(t, want, got)
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func TestAVLStaysBalancedUnderRandomInserts(t *testing.T) {
	g := NewRAM[testWeight]()
	root := g.AddNode(testWeight{})

	rnd := rand.New(rand.NewSource(1))
	n := 500
	perm := rnd.Perm(n)
	for _, s := range perm {
		dst := g.AddNode(testWeight{})
		g.AddEdge(root, uint32(s), dst)
	}

	require.Equal(t, n, g.NEdgesOf(root))
	neighbors := g.Neighbors(root)
	for i := 1; i < len(neighbors); i++ {
		require.Less(t, g.EdgeSymbol(neighbors[i-1]), g.EdgeSymbol(neighbors[i]))
	}

	depth := g.depthOf(g.edgeRoot(root))
	// A balanced tree over 500 keys has height close to log2(500) ~= 9;
	// an unbalanced (degenerate) tree would be close to 500.
	require.Less(t, depth, 20)
}

func (g *Graph[W]) depthOf(e EdgeIndex) int {
	if e == NilEdge {
		return 0
	}
	edge := g.getEdge(e)
	l := g.depthOf(edge.Left)
	r := g.depthOf(edge.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func TestCloneNodeCopiesWeightAndEdgeTree(t *testing.T) {
	g := NewRAM[testWeight]()
	root := g.AddNode(testWeight{})
	src := g.AddNode(testWeight{length: 7, count: 3})
	t1 := g.AddNode(testWeight{})
	t2 := g.AddNode(testWeight{})
	g.AddEdge(src, 1, t1)
	g.AddEdge(src, 2, t2)

	clone := g.CloneNode(src)
	require.NotEqual(t, src, clone)
	require.Equal(t, uint32(7), g.NodeWeight(clone).Length())
	require.Equal(t, g.NEdgesOf(src), g.NEdgesOf(clone))

	// Edges are structurally distinct (different EdgeIndex) but target
	// the same destination nodes.
	srcNeighbors := g.Neighbors(src)
	cloneNeighbors := g.Neighbors(clone)
	for i := range srcNeighbors {
		require.Equal(t, g.EdgeTarget(srcNeighbors[i]), g.EdgeTarget(cloneNeighbors[i]))
		require.NotEqual(t, srcNeighbors[i], cloneNeighbors[i])
	}

	// Mutating the clone's edges must not affect the source's.
	g.RerouteEdge(cloneNeighbors[0], root)
	require.NotEqual(t, g.EdgeTarget(srcNeighbors[0]), g.EdgeTarget(cloneNeighbors[0]))
}

func TestComputeCountsPropagatesAlongFailureLinks(t *testing.T) {
	g := NewRAM[testWeight]()
	// root(len0) <- a(len1,fail=root) <- b(len2,fail=a) <- c(len3,fail=b)
	root := g.AddNode(testWeight{length: 0, failure: NilNode, count: 0})
	a := g.AddNode(testWeight{length: 1, failure: root, count: 1})
	b := g.AddNode(testWeight{length: 2, failure: a, count: 1})
	c := g.AddNode(testWeight{length: 3, failure: b, count: 1})

	g.ComputeCounts()

	require.Equal(t, uint32(1), g.NodeWeight(c).Count())
	require.Equal(t, uint32(2), g.NodeWeight(b).Count())
	require.Equal(t, uint32(3), g.NodeWeight(a).Count())
	require.Equal(t, uint32(3), g.NodeWeight(root).Count())
}

var _ = decodeTestWeight

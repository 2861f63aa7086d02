package graph

import (
	"sort"

	"github.com/milden6/dawgs/store"
)

// Graph is the arena-backed structure of spec §4.B: a node arena plus an
// edge arena, where each node's outgoing edges form their own AVL tree
// rooted at Node.edgeRoot. W is the node weight type; it is threaded
// through as a generic parameter rather than boxed behind an interface
// so weights stay fixed-size values with no heap allocation per node.
type Graph[W Weight[W]] struct {
	nodes store.Store[Node[W]]
	edges store.Store[Edge]
}

// New wraps already-constructed node/edge stores (RAM or disk) into a
// Graph. Callers building in memory typically use NewRAM instead.
func New[W Weight[W]](nodes store.Store[Node[W]], edges store.Store[Edge]) *Graph[W] {
	return &Graph[W]{nodes: nodes, edges: edges}
}

// NewRAM creates an all-in-memory graph with no preset capacity.
func NewRAM[W Weight[W]]() *Graph[W] {
	return &Graph[W]{
		nodes: store.NewRAM[Node[W]](),
		edges: store.NewRAM[Edge](),
	}
}

// NewRAMWithCapacity creates an all-in-memory graph pre-sized to avoid
// reallocation up to the given node/edge counts.
func NewRAMWithCapacity[W Weight[W]](nodeCap, edgeCap int) *Graph[W] {
	return &Graph[W]{
		nodes: store.NewRAMWithCapacity[Node[W]](nodeCap),
		edges: store.NewRAMWithCapacity[Edge](edgeCap),
	}
}

func (g *Graph[W]) NNodes() int { return g.nodes.Len() }
func (g *Graph[W]) NEdges() int { return g.edges.Len() }

// Flush/Close propagate to both backing stores; a caller using disk
// stores calls these (or MountReadOnly on the stores directly) once
// construction is finished.
func (g *Graph[W]) Flush() error {
	if err := g.nodes.Flush(); err != nil {
		return err
	}
	return g.edges.Flush()
}

func (g *Graph[W]) Close() error {
	if err := g.nodes.Close(); err != nil {
		return err
	}
	return g.edges.Close()
}

// AddNode appends a new node with the given initial weight and returns
// its index. The node starts with an empty edge tree.
func (g *Graph[W]) AddNode(w W) NodeIndex {
	n := zeroNode[W]()
	n.Weight = w
	idx, err := g.nodes.Push(n)
	if err != nil {
		panic(err)
	}
	return NodeIndex(idx)
}

func (g *Graph[W]) NodeWeight(n NodeIndex) W {
	return g.nodes.Get(uint32(n)).Weight
}

func (g *Graph[W]) SetNodeWeight(n NodeIndex, w W) {
	node := g.nodes.Get(uint32(n))
	node.Weight = w
	g.nodes.Set(uint32(n), node)
}

func (g *Graph[W]) SetLength(n NodeIndex, length uint32) {
	g.SetNodeWeight(n, g.NodeWeight(n).WithLength(length))
}

func (g *Graph[W]) SetFailure(n NodeIndex, f NodeIndex) {
	g.SetNodeWeight(n, g.NodeWeight(n).WithFailure(f))
}

func (g *Graph[W]) SetCount(n NodeIndex, c uint32) {
	g.SetNodeWeight(n, g.NodeWeight(n).WithCount(c))
}

func (g *Graph[W]) IncrementCount(n NodeIndex) {
	g.SetNodeWeight(n, g.NodeWeight(n).Incremented())
}

func (g *Graph[W]) edgeRoot(n NodeIndex) EdgeIndex {
	return g.nodes.Get(uint32(n)).edgeRoot
}

func (g *Graph[W]) setEdgeRoot(n NodeIndex, root EdgeIndex) {
	node := g.nodes.Get(uint32(n))
	node.edgeRoot = root
	g.nodes.Set(uint32(n), node)
}

func (g *Graph[W]) getEdge(e EdgeIndex) Edge  { return g.edges.Get(uint32(e)) }
func (g *Graph[W]) putEdge(e EdgeIndex, v Edge) { g.edges.Set(uint32(e), v) }

// AddEdge inserts a single-token transition from src on symbol to dst
// into src's AVL edge tree (spec §4.B). It does not check for an
// existing edge keyed on symbol: a second one goes into the right
// subtree of the first, and GetEdge returns whichever of the two lies
// nearer the root.
func (g *Graph[W]) AddEdge(src NodeIndex, symbol uint32, dst NodeIndex) EdgeIndex {
	return g.addEdge(src, symbol, dst, 0, 0)
}

// AddRangedEdge is AddEdge plus the [start,end) token range a CDAWG edge
// represents (spec §3 Edge.start/end). end may be the sentinel "open"
// value while the edge still ends at the active construction point.
func (g *Graph[W]) AddRangedEdge(src NodeIndex, symbol uint32, dst NodeIndex, start, end uint64) EdgeIndex {
	return g.addEdge(src, symbol, dst, start, end)
}

func (g *Graph[W]) addEdge(src NodeIndex, symbol uint32, dst NodeIndex, start, end uint64) EdgeIndex {
	e := zeroEdge()
	e.Symbol = symbol
	e.Target = dst
	e.Start = start
	e.End = end
	idx, err := g.edges.Push(e)
	if err != nil {
		panic(err)
	}
	newIdx := EdgeIndex(idx)

	root := g.edgeRoot(src)
	if root == NilEdge {
		g.setEdgeRoot(src, newIdx)
		return newIdx
	}
	newRoot, _ := g.avlInsert(root, newIdx)
	g.setEdgeRoot(src, newRoot)
	return newIdx
}

// GetEdge finds src's outgoing edge keyed on symbol, or NilEdge if none
// exists. This is a plain BST search, same cost as the tree's height.
func (g *Graph[W]) GetEdge(src NodeIndex, symbol uint32) EdgeIndex {
	cur := g.edgeRoot(src)
	for cur != NilEdge {
		e := g.getEdge(cur)
		switch {
		case symbol == e.Symbol:
			return cur
		case symbol < e.Symbol:
			cur = e.Left
		default:
			cur = e.Right
		}
	}
	return NilEdge
}

func (g *Graph[W]) EdgeTarget(e EdgeIndex) NodeIndex { return g.getEdge(e).Target }
func (g *Graph[W]) EdgeSymbol(e EdgeIndex) uint32    { return g.getEdge(e).Symbol }
func (g *Graph[W]) EdgeRange(e EdgeIndex) (start, end uint64) {
	edge := g.getEdge(e)
	return edge.Start, edge.End
}

// RerouteEdge repoints an existing edge at a new target node without
// touching the AVL structure (used when a clone step or an edge split
// needs to redirect an edge, spec §4.D/§5 clone/split operations).
func (g *Graph[W]) RerouteEdge(e EdgeIndex, dst NodeIndex) {
	edge := g.getEdge(e)
	edge.Target = dst
	g.putEdge(e, edge)
}

// SetEdgeRange updates a CDAWG edge's [start,end) range in place, e.g.
// when splitting an edge or closing an open end at document end.
func (g *Graph[W]) SetEdgeRange(e EdgeIndex, start, end uint64) {
	edge := g.getEdge(e)
	edge.Start = start
	edge.End = end
	g.putEdge(e, edge)
}

// Neighbors returns src's outgoing edges in ascending symbol order
// (spec §4.B's testable "iteration order is ascending by symbol"
// property). It walks the AVL tree with an explicit stack rather than
// recursion so depth is bounded by memory, not the Go call stack.
func (g *Graph[W]) Neighbors(src NodeIndex) []EdgeIndex {
	var out []EdgeIndex
	var stack []EdgeIndex
	cur := g.edgeRoot(src)
	for cur != NilEdge || len(stack) > 0 {
		for cur != NilEdge {
			stack = append(stack, cur)
			cur = g.getEdge(cur).Left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		cur = g.getEdge(cur).Right
	}
	return out
}

// NEdgesOf counts src's outgoing edges by collecting them with Neighbors.
func (g *Graph[W]) NEdgesOf(src NodeIndex) int {
	return len(g.Neighbors(src))
}

// --- AVL insert/rotate, ported from the failure-driven balance-factor
// scheme in the original graph's avl_graph/mod.rs (avl_insert_edge,
// rotate_from_left/right, double_rotate_from_left/right). Balance is
// height(right) - height(left), clamped to {-1,0,1} in a correctly
// balanced tree; insertion walks down recording the path and rebalances
// on the way back up by direct arithmetic, never by recomputing heights.

// avlInsert inserts newEdge (already populated, Left=Right=NilEdge) into
// the tree rooted at root, keyed by newEdge.Symbol. It returns the new
// root and whether the subtree's height grew (used to stop rebalancing
// once a parent no longer needs to change).
func (g *Graph[W]) avlInsert(root EdgeIndex, newEdge EdgeIndex) (EdgeIndex, bool) {
	node := g.getEdge(root)
	inserted := g.getEdge(newEdge)

	if inserted.Symbol < node.Symbol {
		if node.Left == NilEdge {
			node.Left = newEdge
			g.putEdge(root, node)
			return g.rebalanceAfterInsert(root, true)
		}
		newLeft, grew := g.avlInsert(node.Left, newEdge)
		node.Left = newLeft
		g.putEdge(root, node)
		if !grew {
			return root, false
		}
		return g.rebalanceAfterInsert(root, true)
	}

	if node.Right == NilEdge {
		node.Right = newEdge
		g.putEdge(root, node)
		return g.rebalanceAfterInsert(root, false)
	}
	newRight, grew := g.avlInsert(node.Right, newEdge)
	node.Right = newRight
	g.putEdge(root, node)
	if !grew {
		return root, false
	}
	return g.rebalanceAfterInsert(root, false)
}

// rebalanceAfterInsert adjusts root's balance factor after an insertion
// into its left (leftGrew=true) or right subtree, rotating if the
// subtree became too unbalanced, and reports whether root's own height
// grew (so the caller one level up knows whether to keep rebalancing).
func (g *Graph[W]) rebalanceAfterInsert(root EdgeIndex, leftGrew bool) (EdgeIndex, bool) {
	node := g.getEdge(root)
	if leftGrew {
		switch node.Balance {
		case 1:
			node.Balance = 0
			g.putEdge(root, node)
			return root, false
		case 0:
			node.Balance = -1
			g.putEdge(root, node)
			return root, true
		default: // -1: left-heavy, now too heavy
			left := g.getEdge(node.Left)
			if left.Balance <= 0 {
				newRoot := g.rotateFromLeft(root)
				return newRoot, false
			}
			newRoot := g.doubleRotateFromLeft(root)
			return newRoot, false
		}
	}
	switch node.Balance {
	case -1:
		node.Balance = 0
		g.putEdge(root, node)
		return root, false
	case 0:
		node.Balance = 1
		g.putEdge(root, node)
		return root, true
	default: // 1: right-heavy, now too heavy
		right := g.getEdge(node.Right)
		if right.Balance >= 0 {
			newRoot := g.rotateFromRight(root)
			return newRoot, false
		}
		newRoot := g.doubleRotateFromRight(root)
		return newRoot, false
	}
}

// rotateFromLeft performs a single right rotation: root's left child
// becomes the new subtree root.
func (g *Graph[W]) rotateFromLeft(root EdgeIndex) EdgeIndex {
	node := g.getEdge(root)
	pivot := node.Left
	pivotNode := g.getEdge(pivot)

	node.Left = pivotNode.Right
	pivotNode.Right = root

	if pivotNode.Balance == -1 {
		node.Balance = 0
		pivotNode.Balance = 0
	} else { // pivotNode.Balance == 0, only reachable via double-rotate caller guard
		node.Balance = -1
		pivotNode.Balance = 1
	}
	g.putEdge(root, node)
	g.putEdge(pivot, pivotNode)
	return pivot
}

// rotateFromRight is rotateFromLeft's mirror: a single left rotation.
func (g *Graph[W]) rotateFromRight(root EdgeIndex) EdgeIndex {
	node := g.getEdge(root)
	pivot := node.Right
	pivotNode := g.getEdge(pivot)

	node.Right = pivotNode.Left
	pivotNode.Left = root

	if pivotNode.Balance == 1 {
		node.Balance = 0
		pivotNode.Balance = 0
	} else {
		node.Balance = 1
		pivotNode.Balance = -1
	}
	g.putEdge(root, node)
	g.putEdge(pivot, pivotNode)
	return pivot
}

// doubleRotateFromLeft is a left rotation on root.Left followed by a
// right rotation on root (the left-right case).
func (g *Graph[W]) doubleRotateFromLeft(root EdgeIndex) EdgeIndex {
	node := g.getEdge(root)
	b := g.getEdge(g.getEdge(node.Left).Right).Balance
	node.Left = g.rotateFromRight(node.Left)
	g.putEdge(root, node)
	return g.setDoubleRotationBalances(g.rotateFromLeft(root), b)
}

// doubleRotateFromRight is a right rotation on root.Right followed by a
// left rotation on root (the right-left case).
func (g *Graph[W]) doubleRotateFromRight(root EdgeIndex) EdgeIndex {
	node := g.getEdge(root)
	b := g.getEdge(g.getEdge(node.Right).Left).Balance
	node.Right = g.rotateFromLeft(node.Right)
	g.putEdge(root, node)
	return g.setDoubleRotationBalances(g.rotateFromRight(root), b)
}

// setDoubleRotationBalances sets the balance factors after a double
// rotation: pivot is the new subtree root and b its balance before the
// rotation; pivot ends at 0 and its two children at 0 or ±1.
func (g *Graph[W]) setDoubleRotationBalances(pivot EdgeIndex, b int8) EdgeIndex {
	p := g.getEdge(pivot)
	l, r := g.getEdge(p.Left), g.getEdge(p.Right)
	l.Balance, r.Balance, p.Balance = -max(b, 0), max(-b, 0), 0
	g.putEdge(p.Left, l)
	g.putEdge(p.Right, r)
	g.putEdge(pivot, p)
	return pivot
}

// CloneNode duplicates src into a freshly-appended node: a shallow copy
// of its weight (with length overridden by the caller afterward, since
// clones always have a shorter length than their source) and a deep
// structural copy of its edge tree, where every copied edge still
// targets the same destination node as the original (spec §4.D clone
// step: "a clone's outgoing edges are the same as oldState's at the
// moment of cloning").
func (g *Graph[W]) CloneNode(src NodeIndex) NodeIndex {
	srcNode := g.nodes.Get(uint32(src))
	dstIdx := g.AddNode(srcNode.Weight)
	newRoot := g.cloneEdgeTree(srcNode.edgeRoot)
	g.setEdgeRoot(dstIdx, newRoot)
	return dstIdx
}

func (g *Graph[W]) cloneEdgeTree(root EdgeIndex) EdgeIndex {
	if root == NilEdge {
		return NilEdge
	}
	e := g.getEdge(root)
	newIdx, err := g.edges.Push(e)
	if err != nil {
		panic(err)
	}
	ne := e
	ne.Left = g.cloneEdgeTree(e.Left)
	ne.Right = g.cloneEdgeTree(e.Right)
	g.putEdge(EdgeIndex(newIdx), ne)
	return EdgeIndex(newIdx)
}

// ComputeCounts runs the reverse-topological occurrence-count pass of
// spec §4.D: nodes are visited in decreasing length order, and each
// node's own count (1 per node that corresponds to an input position,
// 0 for a pure clone) is added into its failure-link target. Counts
// must already be seeded (typically 1 on "primary" end-of-token nodes,
// 0 elsewhere) before calling this.
func (g *Graph[W]) ComputeCounts() {
	n := g.NNodes()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return g.NodeWeight(NodeIndex(order[a])).Length() > g.NodeWeight(NodeIndex(order[b])).Length()
	})
	for _, i := range order {
		idx := NodeIndex(i)
		w := g.NodeWeight(idx)
		f := w.Failure()
		if f == NilNode {
			continue
		}
		fw := g.NodeWeight(f)
		g.SetNodeWeight(f, fw.WithCount(fw.Count()+w.Count()))
	}
}

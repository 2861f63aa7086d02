package graph

import "encoding/binary"

// Node is one arena slot: a weight (spec §4.C) plus the root of the
// node's outgoing-edge AVL tree. Graph never interprets the weight
// itself beyond what the Weight[W] interface exposes; everything about
// lengths, failure links, and counts is the caller's business.
type Node[W Weight[W]] struct {
	Weight   W
	edgeRoot EdgeIndex
}

func zeroNode[W Weight[W]]() Node[W] {
	var n Node[W]
	n.edgeRoot = NilEdge
	return n
}

func (n Node[W]) Size() int {
	return n.Weight.Size() + 4
}

func (n Node[W]) Encode(buf []byte) {
	n.Weight.Encode(buf)
	binary.LittleEndian.PutUint32(buf[n.Weight.Size():], uint32(n.edgeRoot))
}

func decodeNode[W Weight[W]](decodeWeight func([]byte) W) func([]byte) Node[W] {
	return func(buf []byte) Node[W] {
		w := decodeWeight(buf)
		root := EdgeIndex(binary.LittleEndian.Uint32(buf[w.Size():]))
		return Node[W]{Weight: w, edgeRoot: root}
	}
}

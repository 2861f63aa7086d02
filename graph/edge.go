package graph

import "encoding/binary"

// Edge is one arena slot. Symbol is the AVL key: the token (or, for a
// CDAWG, the first token of the edge's range) that routes a transition
// here. Start/End address a half-open range [Start,End) into an external
// token stream and are meaningful only for CDAWG edges (spec §3); DAWG
// edges leave them zero and consume a single symbol.
//
// Left/Right/Balance are the node's private AVL-tree bookkeeping. They
// exist on Edge rather than in a side table so one arena slot is the
// whole edge: no separate allocation for tree structure.
type Edge struct {
	Symbol uint32
	Target NodeIndex
	Start  uint64
	End    uint64

	Left    EdgeIndex
	Right   EdgeIndex
	Balance int8
}

const edgeSize = 4 + 4 + 8 + 8 + 4 + 4 + 1

func zeroEdge() Edge {
	return Edge{Left: NilEdge, Right: NilEdge}
}

func (e Edge) Size() int { return edgeSize }

func (e Edge) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], e.Symbol)
	binary.LittleEndian.PutUint32(buf[4:], uint32(e.Target))
	binary.LittleEndian.PutUint64(buf[8:], e.Start)
	binary.LittleEndian.PutUint64(buf[16:], e.End)
	binary.LittleEndian.PutUint32(buf[24:], uint32(e.Left))
	binary.LittleEndian.PutUint32(buf[28:], uint32(e.Right))
	buf[32] = byte(e.Balance)
}

func decodeEdge(buf []byte) Edge {
	return Edge{
		Symbol:  binary.LittleEndian.Uint32(buf[0:]),
		Target:  NodeIndex(binary.LittleEndian.Uint32(buf[4:])),
		Start:   binary.LittleEndian.Uint64(buf[8:]),
		End:     binary.LittleEndian.Uint64(buf[16:]),
		Left:    EdgeIndex(binary.LittleEndian.Uint32(buf[24:])),
		Right:   EdgeIndex(binary.LittleEndian.Uint32(buf[28:])),
		Balance: int8(buf[32]),
	}
}

// Len reports how many tokens this edge consumes: 1 for a DAWG edge
// (Start==End==0), or End-Start for a CDAWG range edge.
func (e Edge) Len() uint64 {
	if e.Start == 0 && e.End == 0 {
		return 1
	}
	return e.End - e.Start
}

// Package weight provides the concrete node-weight types Graph is
// instantiated with: Basic (no occurrence counts, spec §4.D basic DAWG),
// Counting (adds occurrence counts), and Cdawg (adds first-occurrence
// bookkeeping for a compact DAWG). Each satisfies graph.Weight[T] for
// itself, value-receiver throughout.
package weight

import (
	"encoding/binary"

	"github.com/milden6/dawgs/graph"
)

// Basic is the minimal node weight: suffix length and failure link only.
// Count() always reports 0 and Incremented/WithCount are no-ops, per the
// "a graph built without counts returns zero by contract" rule (spec
// §7) — callers that only ever build with Basic get that for free
// rather than having to remember not to call Count.
type Basic struct {
	length  uint32
	failure graph.NodeIndex
}

const basicSize = 4 + 4

func NewBasic(length uint32, failure graph.NodeIndex) Basic {
	return Basic{length: length, failure: failure}
}

func (w Basic) Size() int { return basicSize }

func (w Basic) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], w.length)
	binary.LittleEndian.PutUint32(buf[4:], uint32(w.failure))
}

func DecodeBasic(buf []byte) Basic {
	return Basic{
		length:  binary.LittleEndian.Uint32(buf[0:]),
		failure: graph.NodeIndex(binary.LittleEndian.Uint32(buf[4:])),
	}
}

func (w Basic) Length() uint32                { return w.length }
func (w Basic) WithLength(l uint32) Basic      { w.length = l; return w }
func (w Basic) Failure() graph.NodeIndex       { return w.failure }
func (w Basic) WithFailure(f graph.NodeIndex) Basic { w.failure = f; return w }
func (w Basic) Count() uint32                 { return 0 }
func (w Basic) WithCount(uint32) Basic        { return w }
func (w Basic) Incremented() Basic            { return w }

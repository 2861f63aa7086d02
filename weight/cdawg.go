package weight

import (
	"encoding/binary"

	"github.com/milden6/dawgs/graph"
)

// Cdawg adds first_occurrence to Counting's length+failure+count: the
// absolute end-position (an index into the training token stream) of
// any one occurrence of the substring this node represents (spec §3).
// A CDAWG edge's [start,end) range holds absolute positions into that
// same token stream, the single shared witness for every edge range in
// the graph, so no per-edge copy of the substring is stored.
type Cdawg struct {
	length          uint32
	failure         graph.NodeIndex
	count           uint32
	firstOccurrence uint64
}

const cdawgSize = 4 + 4 + 4 + 8

func NewCdawg(length uint32, failure graph.NodeIndex, firstOccurrence uint64) Cdawg {
	return Cdawg{length: length, failure: failure, firstOccurrence: firstOccurrence}
}

func (w Cdawg) Size() int { return cdawgSize }

func (w Cdawg) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], w.length)
	binary.LittleEndian.PutUint32(buf[4:], uint32(w.failure))
	binary.LittleEndian.PutUint32(buf[8:], w.count)
	binary.LittleEndian.PutUint64(buf[12:], w.firstOccurrence)
}

func DecodeCdawg(buf []byte) Cdawg {
	return Cdawg{
		length:          binary.LittleEndian.Uint32(buf[0:]),
		failure:         graph.NodeIndex(binary.LittleEndian.Uint32(buf[4:])),
		count:           binary.LittleEndian.Uint32(buf[8:]),
		firstOccurrence: binary.LittleEndian.Uint64(buf[12:]),
	}
}

func (w Cdawg) Length() uint32                    { return w.length }
func (w Cdawg) WithLength(l uint32) Cdawg          { w.length = l; return w }
func (w Cdawg) Failure() graph.NodeIndex           { return w.failure }
func (w Cdawg) WithFailure(f graph.NodeIndex) Cdawg { w.failure = f; return w }
func (w Cdawg) Count() uint32                     { return w.count }
func (w Cdawg) WithCount(c uint32) Cdawg           { w.count = c; return w }
func (w Cdawg) Incremented() Cdawg                { w.count++; return w }

func (w Cdawg) FirstOccurrence() uint64            { return w.firstOccurrence }
func (w Cdawg) WithFirstOccurrence(p uint64) Cdawg { w.firstOccurrence = p; return w }

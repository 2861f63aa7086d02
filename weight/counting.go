package weight

import (
	"encoding/binary"

	"github.com/milden6/dawgs/graph"
)

// Counting adds an occurrence count to Basic's length+failure: the
// number of times the substring this node represents occurs in the
// indexed corpus (spec §4.D, computed by graph.Graph.ComputeCounts).
type Counting struct {
	length  uint32
	failure graph.NodeIndex
	count   uint32
}

const countingSize = 4 + 4 + 4

func NewCounting(length uint32, failure graph.NodeIndex) Counting {
	return Counting{length: length, failure: failure}
}

func (w Counting) Size() int { return countingSize }

func (w Counting) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], w.length)
	binary.LittleEndian.PutUint32(buf[4:], uint32(w.failure))
	binary.LittleEndian.PutUint32(buf[8:], w.count)
}

func DecodeCounting(buf []byte) Counting {
	return Counting{
		length:  binary.LittleEndian.Uint32(buf[0:]),
		failure: graph.NodeIndex(binary.LittleEndian.Uint32(buf[4:])),
		count:   binary.LittleEndian.Uint32(buf[8:]),
	}
}

func (w Counting) Length() uint32                   { return w.length }
func (w Counting) WithLength(l uint32) Counting      { w.length = l; return w }
func (w Counting) Failure() graph.NodeIndex          { return w.failure }
func (w Counting) WithFailure(f graph.NodeIndex) Counting { w.failure = f; return w }
func (w Counting) Count() uint32                    { return w.count }
func (w Counting) WithCount(c uint32) Counting       { w.count = c; return w }
func (w Counting) Incremented() Counting            { w.count++; return w }

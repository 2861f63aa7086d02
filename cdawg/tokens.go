// Package cdawg implements the compact suffix automaton builder and
// query surface (spec §4.E): the online construction keeps two working
// positions — a node and an offset along its currently active outgoing
// edge — rather than the single active node the dawgs package's builder
// tracks, so that non-branching chains of states collapse into a single
// edge labeled by a token range instead of one state per token.
package cdawg

import "encoding/binary"

// tokenRecord is one element of the training token vector (spec §3):
// the append-only record of every token consumed so far, which CDAWG
// edges index into via [start,end) ranges rather than storing their own
// copy of the substring.
type tokenRecord struct {
	value uint32
}

const tokenRecordSize = 4

func (r tokenRecord) Size() int { return tokenRecordSize }

func (r tokenRecord) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf, r.value)
}

func decodeTokenRecord(buf []byte) tokenRecord {
	return tokenRecord{value: binary.LittleEndian.Uint32(buf)}
}

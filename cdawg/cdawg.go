package cdawg

import (
	"math"

	"go.uber.org/zap"

	dawgs "github.com/milden6/dawgs"
	"github.com/milden6/dawgs/graph"
	"github.com/milden6/dawgs/store"
	"github.com/milden6/dawgs/weight"
)

// openEnd is the sentinel "∞" end used by edges into the current sink
// while it is still growing (spec §4.E). It is patched to the real
// stream length on Finalize.
const openEnd uint64 = math.MaxUint64

// Cdawg is the online compact-suffix-automaton builder and read surface
// of spec §4.E, following Inenaga's on-line construction (the same
// algorithm the original_source/cdawg package implements, ported here
// to 0-indexed half-open token ranges instead of the paper's 1-indexed,
// inclusive-end convention — the arithmetic is equivalent, just easier
// to get right in Go).
type Cdawg struct {
	g      *graph.Graph[weight.Cdawg]
	cfg    *dawgs.Config
	tokens store.Store[tokenRecord]

	source graph.NodeIndex
	sink   graph.NodeIndex

	// Active point carried between AddToken calls: state is a node,
	// start is the absolute position (into tokens) where the pending
	// partial edge out of state begins; the pending edge's logical end
	// is always "however many tokens have been appended so far".
	state graph.NodeIndex
	start int

	streamLen int
}

// NewCdawg builds an empty Cdawg: a source node and the first sink.
func NewCdawg(cfg *dawgs.Config) *Cdawg {
	g := graph.NewRAM[weight.Cdawg]()
	source := g.AddNode(weight.NewCdawg(0, graph.NilNode, 0))
	sink := g.AddNode(weight.NewCdawg(0, source, 0))
	g.SetCount(sink, 1)
	return &Cdawg{
		g:      g,
		cfg:    cfg,
		tokens: store.NewRAM[tokenRecord](),
		source: source,
		sink:   sink,
		state:  source,
		start:  0,
	}
}

func (c *Cdawg) Source() graph.NodeIndex { return c.source }
func (c *Cdawg) Graph() *graph.Graph[weight.Cdawg] { return c.g }

func (c *Cdawg) tokenAt(pos int) dawgs.Token {
	return c.tokens.Get(uint32(pos)).value
}

// effectiveEnd resolves an edge's stored end: the sentinel openEnd
// becomes however many tokens have been appended so far, so an edge
// into the still-growing current sink is always exactly as long as the
// construction has advanced (spec §4.E "open sink").
func (c *Cdawg) effectiveEnd(end uint64) uint64 {
	if end == openEnd {
		return uint64(c.streamLen)
	}
	return end
}

// BuildFrom feeds every token from src through AddToken in order.
func (c *Cdawg) BuildFrom(src dawgs.TokenSource) error {
	for {
		t, ok := src.Next()
		if !ok {
			return nil
		}
		if err := c.AddToken(t); err != nil {
			return err
		}
	}
}

// AddToken runs one step of Inenaga's on-line construction for token a,
// simultaneously appending a to the training token vector (spec §4.E).
func (c *Cdawg) AddToken(a dawgs.Token) error {
	if err := c.cfg.ValidateToken(a); err != nil {
		return err
	}
	pos, err := c.tokens.Push(tokenRecord{value: a})
	if err != nil {
		return err
	}
	c.streamLen = int(pos) + 1
	end := c.streamLen

	c.state, c.start = c.update(c.state, c.start, end)

	if a == c.cfg.Separator {
		c.endDocument(end)
	}
	return nil
}

// update is the "update" procedure of Inenaga's algorithm: it repeatedly
// adds transitions on the new token a (the token just appended at
// position end-1) along the failure chain from state, splitting edges
// or adding leaf edges to the current sink as needed, stopping as soon
// as check_end_point reports the automaton already accounts for a.
func (c *Cdawg) update(inState graph.NodeIndex, start, end int) (graph.NodeIndex, int) {
	sinkW := c.g.NodeWeight(c.sink)
	c.g.SetLength(c.sink, sinkW.Length()+1)

	state := inState
	var dest graph.NodeIndex = graph.NilNode
	haveDest := false
	var r graph.NodeIndex

	var oldR graph.NodeIndex
	haveOldR := false

	a := c.tokenAt(end - 1)

	for !c.checkEndPoint(state, start, end-1, a) {
		if start < end-1 {
			curDest := c.extension(state, start, end-1)
			if haveDest && dest == curDest {
				c.redirectEdge(state, start, end-1, r)
				fstate := c.g.NodeWeight(state).Failure()
				state, start = c.canonize(fstate, start, end-1)
				continue
			}
			dest = curDest
			haveDest = true
			r = c.splitEdge(state, start, end-1)
		} else {
			r = state
		}

		c.g.AddRangedEdge(r, a, c.sink, uint64(end-1), openEnd)

		if haveOldR {
			c.g.SetFailure(oldR, r)
		}
		oldR = r
		haveOldR = true

		fstate := c.g.NodeWeight(state).Failure()
		state, start = c.canonize(fstate, start, end-1)
	}

	if haveOldR {
		c.g.SetFailure(oldR, state)
	}
	return c.separateNode(state, start, end)
}

// endDocument closes out the current sink on the reserved separator: a
// zero-length self-loop edge marks the boundary, a fresh sink is opened
// for the next document, and the active point resets to the source
// (spec §4.E "document boundaries are modeled identically to the
// DAWG").
func (c *Cdawg) endDocument(idx int) {
	c.g.AddRangedEdge(c.sink, c.cfg.Separator, c.sink, uint64(idx), uint64(idx))
	newSink := c.g.AddNode(weight.NewCdawg(0, c.source, uint64(idx)))
	c.g.SetCount(newSink, 1)
	c.cfg.Logger.Debug("cdawg: document boundary, opening new sink",
		zap.Uint32("old_sink", uint32(c.sink)), zap.Uint32("new_sink", uint32(newSink)), zap.Int("position", idx))
	c.sink = newSink
	c.state, c.start = c.source, idx
}

// edgeSpanFrom returns the (start, effective-end, target) of state's
// outgoing edge on the token at position start, or the phantom
// single-token edge (0, 1, source) when state is the virtual
// predecessor of the source (graph.NilNode) — the trick that lets
// canonize and separateNode bootstrap correctly before any real
// failure link exists. Its width must be exactly 1, not 0: it stands
// in for "one arbitrary symbol leading into source", the same role
// Inenaga's algorithm gives the sentinel span (0,0) under its
// inclusive-end convention.
func (c *Cdawg) edgeSpanFrom(state graph.NodeIndex, start int) (uint64, uint64, graph.NodeIndex) {
	if state == graph.NilNode {
		return 0, 1, c.source
	}
	e := c.g.GetEdge(state, c.tokenAt(start))
	es, ee := c.g.EdgeRange(e)
	return es, c.effectiveEnd(ee), c.g.EdgeTarget(e)
}

// canonize advances (state, start) as far down the graph as the
// half-open range [start, end) allows, so that the returned start is
// either equal to end (state exactly) or leaves a genuinely partial
// final edge (spec §4.E "canonicalize").
func (c *Cdawg) canonize(state graph.NodeIndex, start, end int) (graph.NodeIndex, int) {
	if start >= end {
		return state, start
	}
	foundStart, foundEnd, foundState := c.edgeSpanFrom(state, start)
	for foundEnd-foundStart <= uint64(end-start) {
		start += int(foundEnd - foundStart)
		state = foundState
		if start >= end {
			break
		}
		foundStart, foundEnd, foundState = c.edgeSpanFrom(state, start)
	}
	return state, start
}

// extension follows the transition out of state along [start,end)
// without consuming it (used to detect when two active points already
// converge on the same destination).
func (c *Cdawg) extension(state graph.NodeIndex, start, end int) graph.NodeIndex {
	if start >= end {
		return state
	}
	e := c.g.GetEdge(state, c.tokenAt(start))
	return c.g.EdgeTarget(e)
}

// checkEndPoint reports whether the automaton already has a transition
// on a from the point (state, [start,end)) — mid-edge, by comparing the
// next token on that edge; at a node, by a direct edge lookup.
//
// The separator token needs special handling mid-edge: every document
// boundary reuses the same separator value, so a plain value comparison
// would treat two different documents' separators as the same
// transition. When both the new token and the existing one are the
// separator, they only count as the same transition if they are
// literally the same stream position (grounded on inenaga.rs's
// check_end_point end-of-text handling).
func (c *Cdawg) checkEndPoint(state graph.NodeIndex, start, end int, a dawgs.Token) bool {
	if start < end {
		e := c.g.GetEdge(state, c.tokenAt(start))
		es, ee := c.g.EdgeRange(e)
		eff := c.effectiveEnd(ee)
		pos := es + uint64(end-start)
		if pos >= eff {
			return false
		}
		existing := c.tokenAt(int(pos))
		if a != c.cfg.Separator || existing != c.cfg.Separator {
			return existing == a
		}
		return uint64(end) == pos
	}
	if state == graph.NilNode {
		return true
	}
	return c.g.GetEdge(state, a) != graph.NilEdge
}

// redirectEdge re-targets the edge out of state along [start,end) to
// target, shrinking its range to match — used when the update loop
// finds that two failure-chain states already converge on the same
// destination, so no further split is needed.
func (c *Cdawg) redirectEdge(state graph.NodeIndex, start, end int, target graph.NodeIndex) {
	e := c.g.GetEdge(state, c.tokenAt(start))
	es, _ := c.g.EdgeRange(e)
	c.g.SetEdgeRange(e, es, es+uint64(end-start))
	c.g.RerouteEdge(e, target)
}

// splitEdge inserts a new internal node v partway along state's
// outgoing edge on [start,end), at the offset (end-start) into that
// edge: the existing edge is shortened to end at v, and a new edge
// carries the remainder to the original target (spec §4.E "split").
func (c *Cdawg) splitEdge(state graph.NodeIndex, start, end int) graph.NodeIndex {
	e := c.g.GetEdge(state, c.tokenAt(start))
	es, ee := c.g.EdgeRange(e)
	target := c.g.EdgeTarget(e)
	mid := es + uint64(end-start)

	// v starts as a clone of state's own weight (so it inherits state's
	// first_occurrence, not the edge's start position), with only length
	// and count overridden (inenaga.rs's split_edge).
	lengthV := c.g.NodeWeight(state).Length() + uint32(end-start)
	vWeight := c.g.NodeWeight(state).WithLength(lengthV).WithCount(0)
	v := c.g.AddNode(vWeight)

	c.g.SetEdgeRange(e, es, mid)
	c.g.RerouteEdge(e, v)
	c.g.AddRangedEdge(v, c.tokenAt(int(mid)), target, mid, ee)
	return v
}

// separateNode finishes one update() call: it canonizes the final
// active point and, if it lands exactly on a node whose length doesn't
// match what the walk implies, clones that node so the new active point
// has a state of its own to fail into (spec §4.E's final step of the
// update loop; spec §9 "clone semantics" applies here too, just via the
// CDAWG's own clone path rather than the DAWG's).
func (c *Cdawg) separateNode(state graph.NodeIndex, start, end int) (graph.NodeIndex, int) {
	state1, start1 := c.canonize(state, start, end)
	if start1 < end {
		return state1, start1
	}

	var length int64 = -1
	if state != graph.NilNode {
		length = int64(c.g.NodeWeight(state).Length())
	}
	length1 := int64(c.g.NodeWeight(state1).Length())
	if length1 == length+int64(end-start) {
		return state1, start1
	}

	newState := c.g.CloneNode(state1)
	c.g.SetLength(newState, uint32(length+int64(end-start)))
	c.g.SetCount(newState, 0)
	c.g.SetFailure(newState, c.g.NodeWeight(state1).Failure())
	c.g.SetFailure(state1, newState)
	c.cfg.Logger.Debug("cdawg: cloned node",
		zap.Uint32("state1", uint32(state1)), zap.Uint32("clone", uint32(newState)))

	for {
		e := c.g.GetEdge(state, c.tokenAt(start))
		es, _ := c.g.EdgeRange(e)
		c.g.SetEdgeRange(e, es, es+uint64(end-start))
		c.g.RerouteEdge(e, newState)

		fstate := c.g.NodeWeight(state).Failure()
		state, start = c.canonize(fstate, start, end-1)

		cs, cstart := c.canonize(state, start, end)
		if cs != state1 || cstart != start1 {
			break
		}
	}
	return newState, end
}

// Finalize patches every edge still carrying the open-ended sentinel to
// the final stream length (spec §4.E/§9 "CDAWG open edges") and sets
// each node's count to the number of distinct paths from it to a sink:
// sinks keep their seeded count of 1 and a sink's separator self-loop
// is not followed. Each such path spells one suffix of a document.
func (c *Cdawg) Finalize() {
	for i := 0; i < c.g.NEdges(); i++ {
		e := graph.EdgeIndex(i)
		es, ee := c.g.EdgeRange(e)
		if ee == openEnd {
			c.g.SetEdgeRange(e, es, uint64(c.streamLen))
		}
	}
	done := make([]bool, c.g.NNodes())
	var visit func(n graph.NodeIndex) uint32
	visit = func(n graph.NodeIndex) uint32 {
		if !done[n] {
			done[n] = true
			for _, e := range c.g.Neighbors(n) {
				if t := c.g.EdgeTarget(e); t != n {
					c.g.SetCount(n, c.g.NodeWeight(n).Count()+visit(t))
				}
			}
		}
		return c.g.NodeWeight(n).Count()
	}
	visit(c.source)
}

package dawgs

import "github.com/milden6/dawgs/graph"

// Transition follows one token from state, honoring only single-symbol
// edges — the DAWG case of spec §4.F's transition operation. The CDAWG
// builder implements the edge-range-aware version itself, since that
// needs its own opaque state-with-offset representation.
func (d *Dawg[W]) Transition(state graph.NodeIndex, a Token) (graph.NodeIndex, bool) {
	e := d.g.GetEdge(state, a)
	if e == graph.NilEdge {
		return graph.NilNode, false
	}
	return d.g.EdgeTarget(e), true
}

// Follow applies Transition for every token in pattern, stopping as
// soon as one fails.
func (d *Dawg[W]) Follow(start graph.NodeIndex, pattern []Token) (graph.NodeIndex, bool) {
	state := start
	for _, a := range pattern {
		next, ok := d.Transition(state, a)
		if !ok {
			return graph.NilNode, false
		}
		state = next
	}
	return state, true
}

// LongestSuffixMatch is the primitive n-gram lookup uses (spec §4.F):
// for each symbol, transition if possible, otherwise fall back along
// failure links until a transition exists or the source is reached.
// It returns the state reached and how many trailing symbols of pattern
// were actually consumed to get there.
func (d *Dawg[W]) LongestSuffixMatch(start graph.NodeIndex, pattern []Token) (graph.NodeIndex, int) {
	state := start
	length := 0
	for _, a := range pattern {
		for state != d.Source() {
			if _, ok := d.Transition(state, a); ok {
				break
			}
			state = d.g.NodeWeight(state).Failure()
			length = int(d.g.NodeWeight(state).Length())
		}
		if next, ok := d.Transition(state, a); ok {
			state = next
			length++
		} else {
			length = 0
		}
	}
	return state, length
}

// Count reports state's occurrence count. It is zero, by contract, if
// the Dawg was built without counts (spec §7) — weight.Basic's Count
// always returns 0, so this never needs a runtime check.
func (d *Dawg[W]) Count(state graph.NodeIndex) uint32 {
	return d.g.NodeWeight(state).Count()
}

// Length reports the length of the longest substring state represents.
func (d *Dawg[W]) Length(state graph.NodeIndex) uint32 {
	return d.g.NodeWeight(state).Length()
}

// Neighbors exposes state's outgoing transitions in ascending symbol
// order, for callers that want to enumerate rather than probe one
// symbol at a time.
func (d *Dawg[W]) Neighbors(state graph.NodeIndex) []graph.EdgeIndex {
	return d.g.Neighbors(state)
}

package cdawg

import (
	dawgs "github.com/milden6/dawgs"
	"github.com/milden6/dawgs/graph"
)

// State is the CDAWG's opaque query cursor (spec §4.F: "callers see an
// opaque state token that may include an edge offset"). Node is always
// the node the current edge (if any) starts from; when Edge is
// graph.NilEdge the cursor sits exactly at Node.
type State struct {
	Node   graph.NodeIndex
	Edge   graph.EdgeIndex
	Offset uint64
}

func (c *Cdawg) SourceState() State {
	return State{Node: c.source, Edge: graph.NilEdge}
}

// Transition consumes one token from s, honoring mid-edge offsets: if s
// is at a node, it looks up the outgoing edge and either lands on the
// edge's target (a single-token edge) or mid-edge; if s is already
// mid-edge, it just checks the next token along that edge.
func (c *Cdawg) Transition(s State, a dawgs.Token) (State, bool) {
	if s.Edge == graph.NilEdge {
		e := c.g.GetEdge(s.Node, a)
		if e == graph.NilEdge {
			return State{}, false
		}
		es, ee := c.g.EdgeRange(e)
		if c.effectiveEnd(ee)-es == 1 {
			return State{Node: c.g.EdgeTarget(e), Edge: graph.NilEdge}, true
		}
		return State{Node: s.Node, Edge: e, Offset: 1}, true
	}

	es, ee := c.g.EdgeRange(s.Edge)
	eff := c.effectiveEnd(ee)
	if c.tokenAt(int(es+s.Offset)) != a {
		return State{}, false
	}
	newOffset := s.Offset + 1
	if es+newOffset == eff {
		return State{Node: c.g.EdgeTarget(s.Edge), Edge: graph.NilEdge}, true
	}
	return State{Node: s.Node, Edge: s.Edge, Offset: newOffset}, true
}

// Follow applies Transition for every token in pattern.
func (c *Cdawg) Follow(start State, pattern []dawgs.Token) (State, bool) {
	state := start
	for _, a := range pattern {
		next, ok := c.Transition(state, a)
		if !ok {
			return State{}, false
		}
		state = next
	}
	return state, true
}

// Length reports how many tokens the path to s represents.
func (c *Cdawg) Length(s State) uint32 {
	if s.Edge == graph.NilEdge {
		return c.g.NodeWeight(s.Node).Length()
	}
	return c.g.NodeWeight(s.Node).Length() + uint32(s.Offset)
}

// Count reports s's occurrence count: at an explicit node, the node's
// path-to-sink count computed by Finalize. Mid-edge it is approximated
// by the edge's target's count, which for a run like the CDAWG edge
// covering "a", "aa", "aaa" in the corpus "aaaa" understates the count
// of the shorter substrings, which really do occur more often than the
// longest one the edge collapses down to.
func (c *Cdawg) Count(s State) uint32 {
	if s.Edge == graph.NilEdge {
		return c.g.NodeWeight(s.Node).Count()
	}
	return c.g.NodeWeight(c.g.EdgeTarget(s.Edge)).Count()
}

// LongestSuffixMatch is the CDAWG analogue of the DAWG's matching-
// statistics primitive (spec §4.F): it returns the node reached (the
// edge's target when the match ends mid-edge) and the length of the
// longest suffix of pattern that occurs in the corpus. When the next
// token cannot be matched, it drops the first token of the current
// match and re-follows the rest from the source, repeating until the
// token matches or the match is empty; failure links are not used.
func (c *Cdawg) LongestSuffixMatch(pattern []dawgs.Token) (graph.NodeIndex, int) {
	node := c.source
	var edge graph.EdgeIndex = graph.NilEdge
	var offset uint64
	length := 0

	for i, a := range pattern {
		for {
			cur := State{Node: node, Edge: edge, Offset: offset}
			if next, ok := c.Transition(cur, a); ok {
				node, edge, offset = next.Node, next.Edge, next.Offset
				length++
				break
			}
			if length == 0 {
				break
			}
			length--
			next, _ := c.Follow(c.SourceState(), pattern[i-length:i])
			node, edge, offset = next.Node, next.Edge, next.Offset
		}
	}

	if edge != graph.NilEdge {
		return c.g.EdgeTarget(edge), length
	}
	return node, length
}

// Occurrences returns up to limit absolute end-positions at which the
// substring represented by s occurs, found by walking the reverse
// failure-link structure rooted at s's node (spec §4.F): s's own
// first_occurrence, plus every sink descendant reachable by following
// edges forward from s that terminates in a document boundary. Order is
// unspecified but stable across calls on the same graph.
func (c *Cdawg) Occurrences(s State, limit int) []uint64 {
	node := s.Node
	if s.Edge != graph.NilEdge {
		node = c.g.EdgeTarget(s.Edge)
	}
	out := []uint64{c.g.NodeWeight(node).FirstOccurrence()}
	if limit > 0 && len(out) >= limit {
		return out
	}

	var walk func(n graph.NodeIndex)
	seen := map[graph.NodeIndex]bool{node: true}
	walk = func(n graph.NodeIndex) {
		for _, e := range c.g.Neighbors(n) {
			if limit > 0 && len(out) >= limit {
				return
			}
			target := c.g.EdgeTarget(e)
			if seen[target] {
				continue
			}
			seen[target] = true
			_, end := c.g.EdgeRange(e)
			out = append(out, c.effectiveEnd(end))
			walk(target)
		}
	}
	walk(node)
	return out
}

package dawgs

import (
	"go.uber.org/zap"

	"github.com/milden6/dawgs/graph"
)

// Dawg is the online suffix-automaton builder and query surface of spec
// §4.D, generic over the node weight layout W. Use NewBasicDawg or
// NewCountingDawg; the generic constructor is exported for callers who
// bring their own graph.Weight implementation.
type Dawg[W graph.Weight[W]] struct {
	g    *graph.Graph[W]
	cfg  *Config
	last graph.NodeIndex

	newWeight    func(length uint32, failure graph.NodeIndex) W
	decodeWeight graph.WeightDecoder[W]
}

// NewDawg builds an empty Dawg. newWeight constructs a zero-count weight
// with the given length/failure; decodeWeight is used only by SaveTo's
// remount and LoadDawg.
func NewDawg[W graph.Weight[W]](cfg *Config, newWeight func(uint32, graph.NodeIndex) W, decodeWeight graph.WeightDecoder[W]) *Dawg[W] {
	var g *graph.Graph[W]
	if cfg.NodeCapacity > 0 || cfg.EdgeCapacity > 0 {
		g = graph.NewRAMWithCapacity[W](cfg.NodeCapacity, cfg.EdgeCapacity)
	} else {
		g = graph.NewRAM[W]()
	}
	source := g.AddNode(newWeight(0, graph.NilNode))
	if source != 0 {
		invariantViolation("source node did not land at index 0")
	}
	return &Dawg[W]{g: g, cfg: cfg, last: source, newWeight: newWeight, decodeWeight: decodeWeight}
}

// Source returns the automaton's unique source state (spec §3 invariant
// 1: index 0, length 0, null failure link).
func (d *Dawg[W]) Source() graph.NodeIndex { return 0 }

func (d *Dawg[W]) Graph() *graph.Graph[W] { return d.g }

// BuildFrom feeds every token from src through AddToken in order.
func (d *Dawg[W]) BuildFrom(src TokenSource) error {
	for {
		t, ok := src.Next()
		if !ok {
			return nil
		}
		if err := d.AddToken(t); err != nil {
			return err
		}
	}
}

// AddToken runs one step of the online construction (spec §4.D) for
// token a. This is the classical Blumer et al. suffix-automaton
// extension: walk the failure chain from the previously active state
// adding primary edges for a, stop either at the source or at a state
// that already transitions on a, and clone that state if the transition
// isn't already primary.
func (d *Dawg[W]) AddToken(a Token) error {
	if err := d.cfg.ValidateToken(a); err != nil {
		return err
	}

	lastWeight := d.g.NodeWeight(d.last)
	cur := d.g.AddNode(d.newWeight(lastWeight.Length()+1, graph.NilNode))
	if d.cfg.TrackCounts {
		d.g.SetCount(cur, 1)
	}

	p := d.last
	for p != graph.NilNode {
		if d.g.GetEdge(p, a) != graph.NilEdge {
			break
		}
		d.g.AddEdge(p, a, cur)
		p = d.g.NodeWeight(p).Failure()
	}

	if p == graph.NilNode {
		d.g.SetFailure(cur, d.Source())
		d.advanceLast(a, cur)
		return nil
	}

	qe := d.g.GetEdge(p, a)
	q := d.g.EdgeTarget(qe)
	pLen := d.g.NodeWeight(p).Length()
	qLen := d.g.NodeWeight(q).Length()

	if qLen == pLen+1 {
		d.g.SetFailure(cur, q)
		d.advanceLast(a, cur)
		return nil
	}

	qc := d.g.CloneNode(q)
	d.g.SetLength(qc, pLen+1)
	d.g.SetFailure(qc, d.g.NodeWeight(q).Failure())
	if d.cfg.TrackCounts {
		d.g.SetCount(qc, 0)
	}
	d.g.SetFailure(q, qc)
	d.g.SetFailure(cur, qc)
	d.cfg.Logger.Debug("dawg: cloned node",
		zap.Uint32("q", uint32(q)), zap.Uint32("clone", uint32(qc)), zap.Uint32("length", pLen+1))

	pp := p
	for pp != graph.NilNode {
		e := d.g.GetEdge(pp, a)
		if e == graph.NilEdge || d.g.EdgeTarget(e) != q {
			break
		}
		d.g.RerouteEdge(e, qc)
		pp = d.g.NodeWeight(pp).Failure()
	}

	d.advanceLast(a, cur)
	return nil
}

// advanceLast applies the end-of-document special case: cur becomes the
// new active node for every ordinary token, but after the reserved
// separator, last resets to the source so the next document starts
// fresh (spec §4.D "tie-breaks and edge cases"). The separator's own
// node stays in the graph as a sink; only the active pointer moves.
func (d *Dawg[W]) advanceLast(a Token, cur graph.NodeIndex) {
	if a == d.cfg.Separator {
		d.cfg.Logger.Debug("dawg: document boundary, resetting active state to source")
		d.last = d.Source()
		return
	}
	d.last = cur
}

// Finalize computes occurrence counts via the reverse-topological pass
// over failure links (spec §4.D). After Finalize the graph is read-only
// and safe to share across concurrent readers (spec §5).
func (d *Dawg[W]) Finalize() {
	if d.cfg.TrackCounts {
		d.g.ComputeCounts()
	}
}

// SaveTo persists the graph to nodesPath/edgesPath.
func (d *Dawg[W]) SaveTo(nodesPath, edgesPath string) error {
	flags := uint32(0)
	if d.cfg.TrackCounts {
		flags |= flagCounts
	}
	return d.g.SaveTo(nodesPath, edgesPath, d.decodeWeight, flags, d.cfg.Logger)
}

const flagCounts = 1 << 0

// LoadDawg memory-maps a previously saved DAWG read-only.
func LoadDawg[W graph.Weight[W]](cfg *Config, nodesPath, edgesPath string, decodeWeight graph.WeightDecoder[W]) (*Dawg[W], error) {
	g, err := graph.LoadFrom[W](nodesPath, edgesPath, decodeWeight, cfg.Logger)
	if err != nil {
		return nil, err
	}
	return &Dawg[W]{g: g, cfg: cfg, last: 0, decodeWeight: decodeWeight}, nil
}

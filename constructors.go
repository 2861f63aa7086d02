package dawgs

import (
	"github.com/milden6/dawgs/graph"
	"github.com/milden6/dawgs/weight"
)

// BasicDawg is a Dawg with no occurrence counts — the cheapest layout,
// for callers that only need substring membership (spec §4.C
// BasicWeight).
type BasicDawg = Dawg[weight.Basic]

// CountingDawg is a Dawg with occurrence counts (spec §4.C
// CountingWeight), the layout n-gram frequency lookup needs.
type CountingDawg = Dawg[weight.Counting]

// NewBasicDawg builds a Dawg that never tracks counts, regardless of
// cfg.TrackCounts (weight.Basic has nowhere to put one).
func NewBasicDawg(cfg *Config) *BasicDawg {
	basicCfg := *cfg
	basicCfg.TrackCounts = false
	return NewDawg[weight.Basic](&basicCfg, weight.NewBasic, weight.DecodeBasic)
}

// NewCountingDawg builds a Dawg that tracks occurrence counts.
func NewCountingDawg(cfg *Config) *CountingDawg {
	countingCfg := *cfg
	countingCfg.TrackCounts = true
	return NewDawg[weight.Counting](&countingCfg, weight.NewCounting, weight.DecodeCounting)
}

// LoadBasicDawg / LoadCountingDawg load a previously saved Dawg of the
// matching weight layout.
func LoadBasicDawg(cfg *Config, nodesPath, edgesPath string) (*BasicDawg, error) {
	return LoadDawg[weight.Basic](cfg, nodesPath, edgesPath, weight.DecodeBasic)
}

func LoadCountingDawg(cfg *Config, nodesPath, edgesPath string) (*CountingDawg, error) {
	return LoadDawg[weight.Counting](cfg, nodesPath, edgesPath, weight.DecodeCounting)
}

var _ graph.Weight[weight.Basic] = weight.Basic{}
var _ graph.Weight[weight.Counting] = weight.Counting{}

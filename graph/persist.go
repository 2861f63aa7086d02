package graph

import (
	"go.uber.org/zap"

	"github.com/milden6/dawgs/store"
)

// WeightDecoder turns a weight's fixed-size encoded form back into a W.
// Kept separate from the Weight[W] interface for the same reason
// store.Decoder is separate from store.Record: a value type's method set
// can't carry a pointer-receiver Decode, so decoding is a free function
// instead.
type WeightDecoder[W Weight[W]] func([]byte) W

// SaveTo persists the graph's node and edge arenas as two disk-backed
// arrays at nodesPath/edgesPath (spec §6's nodes.bin/edges.bin), with
// flags recorded in both headers. Every record is copied into freshly
// created disk stores, even when the graph is already disk-backed, and
// the graph switches to using them once they are mounted read-only.
func (g *Graph[W]) SaveTo(nodesPath, edgesPath string, decodeWeight WeightDecoder[W], flags uint32, logger *zap.Logger) error {
	nodeRecSize := zeroNode[W]().Size()
	nNodes := g.NNodes()
	nodeStore, err := store.NewDisk[Node[W]](nodesPath, decodeNode[W](decodeWeight), nodeRecSize, nNodes, flags, logger)
	if err != nil {
		return err
	}
	for i := 0; i < nNodes; i++ {
		if _, err := nodeStore.Push(g.nodes.Get(uint32(i))); err != nil {
			return err
		}
	}

	nEdges := g.NEdges()
	edgeStore, err := store.NewDisk[Edge](edgesPath, decodeEdge, edgeSize, nEdges, flags, logger)
	if err != nil {
		return err
	}
	for i := 0; i < nEdges; i++ {
		if _, err := edgeStore.Push(g.edges.Get(uint32(i))); err != nil {
			return err
		}
	}

	if err := nodeStore.MountReadOnly(); err != nil {
		return err
	}
	if err := edgeStore.MountReadOnly(); err != nil {
		return err
	}
	g.nodes = nodeStore
	g.edges = edgeStore
	return nil
}

// LoadFrom memory-maps a previously saved pair of node/edge files
// read-only. decodeWeight must match the weight layout the files were
// saved with; a mismatched layout surfaces as garbage data rather than
// an error, since the header only records byte size, not field shape —
// callers are expected to know which weight type they saved.
func LoadFrom[W Weight[W]](nodesPath, edgesPath string, decodeWeight WeightDecoder[W], logger *zap.Logger) (*Graph[W], error) {
	nodeRecSize := zeroNode[W]().Size()
	nodeStore, err := store.LoadDisk[Node[W]](nodesPath, decodeNode[W](decodeWeight), nodeRecSize, logger)
	if err != nil {
		return nil, err
	}
	edgeStore, err := store.LoadDisk[Edge](edgesPath, decodeEdge, edgeSize, logger)
	if err != nil {
		nodeStore.Close()
		return nil, err
	}
	return &Graph[W]{nodes: nodeStore, edges: edgeStore}, nil
}

package cdawg

import (
	"path/filepath"

	dawgs "github.com/milden6/dawgs"
	"github.com/milden6/dawgs/graph"
	"github.com/milden6/dawgs/store"
	"github.com/milden6/dawgs/weight"
)

const (
	flagCounts = 1 << 0
	flagCdawg  = 1 << 1
)

// SaveTo persists the graph, the training token vector, and the small
// source/sink/end-position side record into dir (spec §6: nodes.bin,
// edges.bin, train.vec, plus the metadata this variant needs beyond
// what those two headers carry).
func (c *Cdawg) SaveTo(dir string) error {
	flags := uint32(flagCdawg | flagCounts)
	if err := c.g.SaveTo(filepath.Join(dir, "nodes.bin"), filepath.Join(dir, "edges.bin"), weight.DecodeCdawg, flags, c.cfg.Logger); err != nil {
		return err
	}

	trainStore, err := store.NewDisk[tokenRecord](filepath.Join(dir, "train.vec"), decodeTokenRecord, tokenRecordSize, c.tokens.Len(), flags, c.cfg.Logger)
	if err != nil {
		return err
	}
	for i := 0; i < c.tokens.Len(); i++ {
		if _, err := trainStore.Push(c.tokens.Get(uint32(i))); err != nil {
			return err
		}
	}
	if err := trainStore.MountReadOnly(); err != nil {
		return err
	}
	c.tokens = trainStore

	return writeMetadata(filepath.Join(dir, "metadata.bin"), metadata{
		Source:    c.source,
		Sink:      c.sink,
		StreamLen: uint64(c.streamLen),
	})
}

// LoadCdawg memory-maps a previously saved Cdawg read-only. The
// returned value supports the query surface but not further
// construction (AddToken on a loaded, read-only Cdawg is a
// programming error, same as the dawgs package's loaded builders).
func LoadCdawg(cfg *dawgs.Config, dir string) (*Cdawg, error) {
	g, err := graph.LoadFrom[weight.Cdawg](filepath.Join(dir, "nodes.bin"), filepath.Join(dir, "edges.bin"), weight.DecodeCdawg, cfg.Logger)
	if err != nil {
		return nil, err
	}
	tokens, err := store.LoadDisk[tokenRecord](filepath.Join(dir, "train.vec"), decodeTokenRecord, tokenRecordSize, cfg.Logger)
	if err != nil {
		return nil, err
	}
	m, err := readMetadata(filepath.Join(dir, "metadata.bin"))
	if err != nil {
		return nil, err
	}
	return &Cdawg{
		g:         g,
		cfg:       cfg,
		tokens:    tokens,
		source:    m.Source,
		sink:      m.Sink,
		state:     m.Source,
		start:     int(m.StreamLen),
		streamLen: int(m.StreamLen),
	}, nil
}

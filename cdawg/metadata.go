package cdawg

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/milden6/dawgs/graph"
	"github.com/milden6/dawgs/store"
)

// metadata is the small side-record a Cdawg needs beyond its arenas:
// which nodes are the current source/sink, and how many tokens
// construction has consumed in total, across all documents
// (StreamLen). Kept as one fixed-size binary
// record rather than the original's JSON file, matching the
// little-endian fixed-header style the rest of this package's on-disk
// formats use (spec §6).
type metadata struct {
	Source    graph.NodeIndex
	Sink      graph.NodeIndex
	StreamLen uint64
}

const metadataSize = 4 + 4 + 8

func writeMetadata(path string, m metadata) error {
	buf := make([]byte, metadataSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(m.Source))
	binary.LittleEndian.PutUint32(buf[4:], uint32(m.Sink))
	binary.LittleEndian.PutUint64(buf[8:], m.StreamLen)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(store.ErrIO, err.Error())
	}
	return nil
}

func readMetadata(path string) (metadata, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return metadata{}, errors.Wrap(store.ErrIO, err.Error())
	}
	if len(buf) != metadataSize {
		return metadata{}, errors.Wrap(store.ErrFormatMismatch, "cdawg: metadata file has the wrong size")
	}
	return metadata{
		Source:    graph.NodeIndex(binary.LittleEndian.Uint32(buf[0:])),
		Sink:      graph.NodeIndex(binary.LittleEndian.Uint32(buf[4:])),
		StreamLen: binary.LittleEndian.Uint64(buf[8:]),
	}, nil
}

package store

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// magic identifies a dawgs arena file. It is written verbatim as the
// first 4 bytes of nodes.bin, edges.bin, and train.vec (spec §6).
var magic = [4]byte{'D', 'W', 'G', 'S'}

// Version is the on-disk format version written into every header.
const Version uint32 = 1

// FlagCounts is set in a header's flags word iff the arena was built
// with occurrence counts tracked.
const FlagCounts uint32 = 1 << 0

// FlagCdawg is set in a header's flags word iff the arena belongs to a
// CDAWG rather than a DAWG.
const FlagCdawg uint32 = 1 << 1

// headerSize is magic(4) + version(4) + elemSize(4) + elemCount(8) + flags(4).
const headerSize = 4 + 4 + 4 + 8 + 4

// header is the fixed-size prefix written to every arena file (spec §6).
type header struct {
	Version   uint32
	ElemSize  uint32
	ElemCount uint64
	Flags     uint32
}

func (h header) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.ElemSize)
	binary.LittleEndian.PutUint64(buf[12:20], h.ElemCount)
	binary.LittleEndian.PutUint32(buf[20:24], h.Flags)
	return buf
}

func writeHeader(w io.WriterAt, h header) error {
	_, err := w.WriteAt(h.encode(), 0)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

func readHeader(r io.ReaderAt, wantElemSize int) (header, error) {
	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return header{}, errors.Wrap(ErrIO, err.Error())
	}
	if string(buf[0:4]) != string(magic[:]) {
		return header{}, errors.Wrapf(ErrFormatMismatch, "bad magic %q", buf[0:4])
	}
	h := header{
		Version:   binary.LittleEndian.Uint32(buf[4:8]),
		ElemSize:  binary.LittleEndian.Uint32(buf[8:12]),
		ElemCount: binary.LittleEndian.Uint64(buf[12:20]),
		Flags:     binary.LittleEndian.Uint32(buf[20:24]),
	}
	if h.Version != Version {
		return header{}, errors.Wrapf(ErrFormatMismatch, "version %d, want %d", h.Version, Version)
	}
	if wantElemSize > 0 && int(h.ElemSize) != wantElemSize {
		return header{}, errors.Wrapf(ErrFormatMismatch, "element size %d, want %d", h.ElemSize, wantElemSize)
	}
	return h, nil
}

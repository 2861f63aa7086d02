package store

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/mmap"
)

// DiskStore is the fixed-capacity, memory-mapped-file-backed Store of
// spec §4.A. Capacity is preallocated at creation; Push beyond it
// returns ErrCapacityExceeded rather than growing, matching the
// "overflow is fatal, and is reported, not grown" contract.
//
// While being built, records are written through an *os.File opened
// for read/write (in-place mutation of previously pushed elements is
// allowed, per spec §4.A). Once the builder calls Finalize, callers
// should MountReadOnly the store: this closes the write handle and
// reopens the file read-only through golang.org/x/exp/mmap, so any
// number of readers can share the mapping (spec §5). No advisory file
// lock is taken, neither for writing nor for reading.
type DiskStore[T Record] struct {
	path     string
	decode   Decoder[T]
	recSize  int
	capacity int
	len      int
	flags    uint32

	f        *os.File
	roReader *mmap.ReaderAt
	r        io.ReaderAt
	readOnly bool
	logger   *zap.Logger
}

// NewDisk creates a new disk-backed store with room for exactly
// capacity elements of recSize bytes each. The file is truncated to the
// full header+capacity size up front so later writes never need to grow
// the file. A nil logger is treated as zap.NewNop().
func NewDisk[T Record](path string, decode Decoder[T], recSize, capacity int, flags uint32, logger *zap.Logger) (*DiskStore[T], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	size := int64(headerSize) + int64(recSize)*int64(capacity)
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	h := header{Version: Version, ElemSize: uint32(recSize), ElemCount: 0, Flags: flags}
	if err := writeHeader(f, h); err != nil {
		f.Close()
		return nil, err
	}
	logger.Info("store: created disk store",
		zap.String("path", path), zap.Int("capacity", capacity), zap.Int("rec_size", recSize))
	return &DiskStore[T]{
		path:     path,
		decode:   decode,
		recSize:  recSize,
		capacity: capacity,
		f:        f,
		r:        f,
		flags:    flags,
		logger:   logger,
	}, nil
}

// LoadDisk opens an existing arena file read-only, memory-mapping it.
// The returned store's element count and flags come from the file's
// header; recSize is validated against it. A nil logger is treated as
// zap.NewNop().
func LoadDisk[T Record](path string, decode Decoder[T], recSize int, logger *zap.Logger) (*DiskStore[T], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ro, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	h, err := readHeader(ro, recSize)
	if err != nil {
		ro.Close()
		return nil, err
	}
	logger.Info("store: opened disk store read-only", zap.String("path", path), zap.Uint64("elements", h.ElemCount))
	return &DiskStore[T]{
		path:     path,
		decode:   decode,
		recSize:  recSize,
		capacity: int(h.ElemCount),
		len:      int(h.ElemCount),
		flags:    h.Flags,
		roReader: ro,
		r:        ro,
		readOnly: true,
		logger:   logger,
	}, nil
}

func (s *DiskStore[T]) offset(i uint32) int64 {
	return int64(headerSize) + int64(i)*int64(s.recSize)
}

func (s *DiskStore[T]) Push(v T) (uint32, error) {
	if s.readOnly {
		return 0, errors.New("store: Push on a read-only disk store")
	}
	if s.len >= s.capacity {
		s.logger.Warn("store: capacity exceeded",
			zap.String("path", s.path), zap.Int("capacity", s.capacity))
		return 0, errors.Wrapf(ErrCapacityExceeded, "%s: capacity %d exhausted", s.path, s.capacity)
	}
	buf := make([]byte, s.recSize)
	v.Encode(buf)
	if _, err := s.f.WriteAt(buf, s.offset(uint32(s.len))); err != nil {
		return 0, errors.Wrap(ErrIO, err.Error())
	}
	idx := uint32(s.len)
	s.len++
	return idx, nil
}

func (s *DiskStore[T]) Get(i uint32) T {
	buf := make([]byte, s.recSize)
	if _, err := s.r.ReadAt(buf, s.offset(i)); err != nil && err != io.EOF {
		panic(errors.Wrap(ErrIO, err.Error()))
	}
	return s.decode(buf)
}

func (s *DiskStore[T]) Set(i uint32, v T) {
	if s.readOnly {
		panic(errors.New("store: Set on a read-only disk store"))
	}
	buf := make([]byte, s.recSize)
	v.Encode(buf)
	if _, err := s.f.WriteAt(buf, s.offset(i)); err != nil {
		panic(errors.Wrap(ErrIO, err.Error()))
	}
}

func (s *DiskStore[T]) Len() int { return s.len }

// Reserve is a no-op: disk stores are sized exactly once at creation,
// per the "required upper bound" contract in spec §6.
func (s *DiskStore[T]) Reserve(capacityHint int) {}

// FillRatio reports how full the preallocated capacity is, so a caller
// can watch for an approaching CapacityExceeded before it happens
// (spec §5 backpressure).
func (s *DiskStore[T]) FillRatio() float64 {
	if s.capacity == 0 {
		return 0
	}
	return float64(s.len) / float64(s.capacity)
}

func (s *DiskStore[T]) Flush() error {
	if s.readOnly {
		return nil
	}
	h := header{Version: Version, ElemSize: uint32(s.recSize), ElemCount: uint64(s.len), Flags: s.flags}
	if err := writeHeader(s.f, h); err != nil {
		return err
	}
	if err := s.f.Sync(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	s.logger.Debug("store: flushed disk store", zap.String("path", s.path), zap.Int("elements", s.len))
	return nil
}

// MountReadOnly finalizes the on-disk header, closes the write handle,
// and reopens the file through a read-only memory mapping so concurrent
// readers can share it (spec §5); no file lock is involved.
func (s *DiskStore[T]) MountReadOnly() error {
	if s.readOnly {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.f.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	ro, err := mmap.Open(s.path)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	s.roReader = ro
	s.r = ro
	s.readOnly = true
	s.logger.Info("store: mounted disk store read-only", zap.String("path", s.path), zap.Int("elements", s.len))
	return nil
}

func (s *DiskStore[T]) Close() error {
	if s.roReader != nil {
		return s.roReader.Close()
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}

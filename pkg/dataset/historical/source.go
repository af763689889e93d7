// Package historical reads preprocessed dataset rows from a fixed-layout
// binary file through a memory map, the format cmd/ettdump writes.
package historical

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"unsafe"

	"golang.org/x/exp/mmap"
)

var ErrEof = errors.New("EOF")

// Source reads fixed-size entries of type T by index from a memory-mapped
// file. T must have no padding, its in-memory layout is the file layout.
type Source[T any] struct {
	dataSourceName string
	reader         *mmap.ReaderAt
	entrySize      int64
	entryCount     int64
	bufferPool     *sync.Pool
}

func NewSource[T any](dataSourceName string) *Source[T] {
	entrySize := int64(unsafe.Sizeof(*new(T)))
	return &Source[T]{
		dataSourceName: dataSourceName,
		entrySize:      entrySize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, entrySize)
				return &buffer
			},
		},
	}
}

// Open maps the file and validates its size is a whole number of entries.
func (s *Source[T]) Open() error {
	reader, err := mmap.Open(s.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", s.dataSourceName, err)
	}

	totalSize := int64(reader.Len())
	if totalSize%s.entrySize != 0 {
		_ = reader.Close()
		return fmt.Errorf("data source %q size %d is not a multiple of entry size %d",
			s.dataSourceName, totalSize, s.entrySize)
	}

	s.reader = reader
	s.entryCount = totalSize / s.entrySize
	return nil
}

func (s *Source[T]) Close() {
	_ = s.reader.Close()
}

// EntryCount reports how many entries the mapped file holds.
func (s *Source[T]) EntryCount() int64 {
	return s.entryCount
}

// Read copies the entry at index into data. Reading past the end returns ErrEof.
func (s *Source[T]) Read(index int64, data *T) error {
	if index < 0 || index >= s.entryCount {
		return ErrEof
	}

	buffer := s.bufferPool.Get().(*[]byte)
	defer s.bufferPool.Put(buffer)

	n, err := s.reader.ReadAt(*buffer, index*s.entrySize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read: %w", err)
	}
	if int64(n) < s.entrySize {
		return ErrEof
	}

	*data = *(*T)(unsafe.Pointer(&(*buffer)[0])) // #nosec G103
	return nil
}

// Package mmap provides read-only memory-mapped file access.
//
// The vector store uses it as a zero-copy fast path when bulk-loading
// vector files: the file body is mapped once, rows are copied straight
// into the aligned slots, and the mapping is dropped. Advise forwards
// access-pattern hints to the kernel where supported.
package mmap

import (
	"errors"
	"os"
	"sync/atomic"
)

// AccessPattern hints how mapped data will be accessed.
type AccessPattern int

const (
	// AccessDefault applies no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects a single front-to-back pass.
	AccessSequential
	// AccessRandom expects scattered access.
	AccessRandom
)

var (
	// ErrClosed is returned when accessing a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files whose size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
)

// File is a read-only memory mapping of a file.
//
// Bytes is safe for concurrent readers; Close is idempotent, but callers
// must ensure no goroutine touches Bytes after Close returns.
type File struct {
	data   []byte
	closed atomic.Bool
}

// Open maps the file at path read-only. Empty files map to a nil slice.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &File{}, nil
	}
	if size < 0 || int64(int(size)) != size {
		return nil, ErrInvalidSize
	}

	data, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &File{data: data}, nil
}

// Bytes returns the mapped contents. Valid only until Close.
func (m *File) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the mapping length in bytes.
func (m *File) Size() int {
	return len(m.data)
}

// Advise passes an access-pattern hint to the kernel. Advisory only.
func (m *File) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// Close unmaps the memory. Idempotent.
func (m *File) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return osUnmap(data)
}

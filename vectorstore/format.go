package vectorstore

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unsafe"
)

// Vector files are little-endian: an 8-byte header of (int32 numPoints,
// int32 dim) followed by numPoints × dim contiguous float32 components.

const headerLen = 8

var (
	// ErrBadHeader is returned for files too short to carry a header or
	// with nonsensical counts.
	ErrBadHeader = errors.New("vectorstore: malformed vector file header")
	// ErrTruncated is returned when the body is shorter than the header
	// promises.
	ErrTruncated = errors.New("vectorstore: truncated vector file")
)

// DimensionError reports a configured/recorded dimensionality mismatch on
// load. The store releases its buffer before surfacing it.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: store configured for %d, file has %d", e.Expected, e.Actual)
}

func parseHeader(data []byte) (numPoints, dim int, err error) {
	if len(data) < headerLen {
		return 0, 0, ErrBadHeader
	}

	numPoints = int(int32(binary.LittleEndian.Uint32(data[0:4])))
	dim = int(int32(binary.LittleEndian.Uint32(data[4:8])))

	if numPoints < 0 || dim <= 0 {
		return 0, 0, ErrBadHeader
	}
	return numPoints, dim, nil
}

func readHeader(r io.Reader) (numPoints, dim int, err error) {
	var buf [headerLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	return parseHeader(buf[:])
}

// bodyFloats reinterprets the mapped file body as a float32 slice. The
// 8-byte header keeps the body 4-byte aligned within the page-aligned
// mapping.
func bodyFloats(data []byte, numPoints, dim int) ([]float32, error) {
	want := headerLen + numPoints*dim*4
	if len(data) < want {
		return nil, ErrTruncated
	}
	if numPoints == 0 {
		return nil, nil
	}

	body := data[headerLen:want]
	ptr := unsafe.Pointer(&body[0])                     //nolint:gosec // zero-copy view of mapped file
	return unsafe.Slice((*float32)(ptr), numPoints*dim), nil //nolint:gosec // zero-copy view of mapped file
}

func readFloats(r io.Reader, dst []float32) error {
	if len(dst) == 0 {
		return nil
	}
	ptr := unsafe.Pointer(&dst[0]) //nolint:gosec // read into caller-owned buffer
	buf := unsafe.Slice((*byte)(ptr), len(dst)*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	return nil
}

// WriteFile writes vectors in the consumed file format. It exists for
// tooling and tests; the store's own Save stays a no-op.
func WriteFile(path string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return errors.New("vectorstore: no vectors to write")
	}
	dim := len(vectors[0])

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	var header [headerLen]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(dim))
	if _, err := w.Write(header[:]); err != nil {
		f.Close()
		return err
	}

	for i, v := range vectors {
		if len(v) != dim {
			f.Close()
			return fmt.Errorf("vectorstore: vector %d has dim %d, want %d", i, len(v), dim)
		}
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Package idx reads and writes the IDX tensor files used to distribute MNIST.
//
// An IDX file starts with a 4-byte magic (0x00 0x00 type ndim), followed by
// ndim big-endian uint32 dimensions and the row-major payload. Only the
// unsigned byte element type (0x08) is supported.
package idx

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samcharles93/dense/pkg/grid"
)

// TypeUbyte is the IDX element type code for unsigned bytes.
const TypeUbyte byte = 0x08

const maxDims = 4

var (
	ErrBadMagic        = errors.New("idx: bad magic")
	ErrUnsupportedType = errors.New("idx: unsupported element type")
	ErrShape           = errors.New("idx: unexpected shape")
)

// File is a decoded IDX tensor.
type File struct {
	Type byte
	Dims []int
	Data []byte
}

// Open reads the whole IDX file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	out, err := read(bufio.NewReader(f), st.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Read decodes an IDX tensor from r. The payload buffer grows as bytes
// arrive, so a header announcing more data than r holds fails without a large
// allocation.
func Read(r io.Reader) (*File, error) {
	return read(r, -1)
}

// read decodes from r. A non-negative size is the total input length and
// lets the payload length be checked before anything is read.
func read(r io.Reader, size int64) (*File, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic[0] != 0 || magic[1] != 0 {
		return nil, ErrBadMagic
	}
	if magic[2] != TypeUbyte {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedType, magic[2])
	}
	ndim := int(magic[3])
	if ndim == 0 || ndim > maxDims {
		return nil, fmt.Errorf("%w: %d dimensions", ErrShape, ndim)
	}

	dims := make([]int, ndim)
	for i := range dims {
		d, err := readU32BE(r)
		if err != nil {
			return nil, fmt.Errorf("read dim %d: %w", i, err)
		}
		dims[i] = int(d)
	}
	n, err := numElements(dims)
	if err != nil {
		return nil, err
	}

	if size >= 0 {
		if avail := size - 4 - 4*int64(ndim); int64(n) > avail {
			return nil, fmt.Errorf("%w: %v needs %d bytes, file holds %d", ErrShape, dims, n, max(avail, 0))
		}
	}

	data, err := readPayload(r, n)
	if err != nil {
		return nil, err
	}
	return &File{Type: magic[2], Dims: dims, Data: data}, nil
}

// Write encodes a ubyte tensor with the given dimensions.
func Write(w io.Writer, dims []int, data []byte) error {
	if len(dims) == 0 || len(dims) > maxDims {
		return fmt.Errorf("%w: %d dimensions", ErrShape, len(dims))
	}
	n, err := numElements(dims)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("%w: %d bytes for %v", ErrShape, len(data), dims)
	}
	hdr := make([]byte, 4+4*len(dims))
	hdr[2] = TypeUbyte
	hdr[3] = byte(len(dims))
	for i, d := range dims {
		binary.BigEndian.PutUint32(hdr[4+4*i:], uint32(d))
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Examples pairs an image tensor (N x H x W, or N x F) with a label vector (N)
// and returns them as an N x H*W data grid and an N x 1 label grid.
func Examples(images, labels *File) (*grid.Grid[uint8], *grid.Grid[uint8], error) {
	if images == nil || labels == nil {
		return nil, nil, errors.New("idx: nil file")
	}
	if len(labels.Dims) != 1 {
		return nil, nil, fmt.Errorf("%w: labels must be 1-D, got %v", ErrShape, labels.Dims)
	}
	if len(images.Dims) < 2 {
		return nil, nil, fmt.Errorf("%w: images must be at least 2-D, got %v", ErrShape, images.Dims)
	}
	rows := images.Dims[0]
	if rows != labels.Dims[0] {
		return nil, nil, fmt.Errorf("%w: %d images, %d labels", ErrShape, rows, labels.Dims[0])
	}
	exampleSize := 1
	for _, d := range images.Dims[1:] {
		exampleSize *= d
	}

	data, err := grid.FromData(rows, exampleSize, images.Data)
	if err != nil {
		return nil, nil, err
	}
	return data, grid.Column(labels.Data), nil
}

func numElements(dims []int) (int, error) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return 0, fmt.Errorf("%w: invalid dim %d", ErrShape, d)
		}
		if d != 0 && n > (int(^uint(0)>>1))/d {
			return 0, fmt.Errorf("%w: tensor too large", ErrShape)
		}
		n *= d
	}
	return n, nil
}

func readPayload(r io.Reader, n int) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(r, int64(n))); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if buf.Len() != n {
		return nil, fmt.Errorf("read payload: %w: got %d of %d bytes", io.ErrUnexpectedEOF, buf.Len(), n)
	}
	return buf.Bytes(), nil
}

func readU32BE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

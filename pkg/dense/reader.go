package dense

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/samcharles93/dense/pkg/grid"
)

// Read decodes the dense file at path into an N x exampleSize data grid and
// an N x 1 label grid.
//
// Parameters are checked before the file is opened. A file whose length is
// not a multiple of the record size fails with ErrCorruptFile.
func Read[D, L any](path string, exampleSize int, dc Scalar[D], lc Scalar[L]) (*grid.Grid[D], *grid.Grid[L], error) {
	if dc == nil || lc == nil {
		return nil, nil, fmt.Errorf("%w: nil scalar", ErrInvalidLayout)
	}
	if _, err := recordSize(exampleSize, dc.Width(), lc.Width()); err != nil {
		return nil, nil, err
	}

	buf, release, err := loadFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	data, labels, err := Decode(buf, exampleSize, dc, lc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, labels, nil
}

// ReadPacked reads a packed-encoding file with the given field widths.
func ReadPacked(path string, exampleSize, dataWidth, labelWidth int) (*grid.Grid[uint64], *grid.Grid[uint64], error) {
	dc, err := Packed(dataWidth)
	if err != nil {
		return nil, nil, fmt.Errorf("data: %w", err)
	}
	lc, err := Packed(labelWidth)
	if err != nil {
		return nil, nil, fmt.Errorf("label: %w", err)
	}
	return Read(path, exampleSize, dc, lc)
}

// Decode splits buf into records and decodes every field. The returned grids
// do not reference buf.
func Decode[D, L any](buf []byte, exampleSize int, dc Scalar[D], lc Scalar[L]) (*grid.Grid[D], *grid.Grid[L], error) {
	if dc == nil || lc == nil {
		return nil, nil, fmt.Errorf("%w: nil scalar", ErrInvalidLayout)
	}
	rec, err := recordSize(exampleSize, dc.Width(), lc.Width())
	if err != nil {
		return nil, nil, err
	}
	if len(buf)%rec != 0 {
		return nil, nil, fmt.Errorf("%w: %d bytes, record is %d bytes", ErrCorruptFile, len(buf), rec)
	}

	rows := len(buf) / rec
	dw := dc.Width()
	dataSize := exampleSize * dw

	values := make([]D, 0, rows*exampleSize)
	labels := make([]L, 0, rows)
	for i := 0; i < rows; i++ {
		chunk := buf[i*rec : (i+1)*rec]
		for j := 0; j < exampleSize; j++ {
			v, err := dc.Get(chunk[j*dw : (j+1)*dw])
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			values = append(values, v)
		}
		label, err := lc.Get(chunk[dataSize:])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d label: %w", i, err)
		}
		labels = append(labels, label)
	}

	data, err := grid.FromData(rows, exampleSize, values)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: data: %v", ErrShape, err)
	}
	lg, err := grid.FromData(rows, 1, labels)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: labels: %v", ErrShape, err)
	}
	return data, lg, nil
}

// loadFile returns the whole file contents. It maps the file read-only where
// possible and falls back to ReadAt. release must be called once the bytes
// are no longer used.
func loadFile(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size64 := st.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, nil, fmt.Errorf("%s: %w: size %d", path, ErrCorruptFile, size64)
	}
	size := int(size64)
	if size == 0 {
		return []byte{}, func() {}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return data, func() { _ = unix.Munmap(data) }, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

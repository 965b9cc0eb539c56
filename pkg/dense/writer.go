package dense

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/samcharles93/dense/pkg/grid"
)

// Write serializes data and labels to path, replacing any existing file.
//
// The records are written to a temporary file next to path which is renamed
// into place only after every byte has been flushed and synced. On failure
// the temporary file is removed and path is left untouched.
func Write[D, L any](path string, data *grid.Grid[D], labels *grid.Grid[L], dc Scalar[D], lc Scalar[L]) (err error) {
	if err := checkGrids(data, labels, dc, lc); err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriterSize(f, writerBufSize)
	if err = Encode(bw, data, labels, dc, lc); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WritePacked writes uint64 grids using the packed encoding.
func WritePacked(path string, data, labels *grid.Grid[uint64], dataWidth, labelWidth int) error {
	dc, err := Packed(dataWidth)
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	lc, err := Packed(labelWidth)
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	return Write(path, data, labels, dc, lc)
}

// Encode writes one record per row to w, in row order.
func Encode[D, L any](w io.Writer, data *grid.Grid[D], labels *grid.Grid[L], dc Scalar[D], lc Scalar[L]) error {
	if err := checkGrids(data, labels, dc, lc); err != nil {
		return err
	}

	dw := dc.Width()
	dataSize := data.C * dw
	buf := make([]byte, dataSize+lc.Width())
	for i := 0; i < data.R; i++ {
		for j, v := range data.Row(i) {
			if err := dc.Put(buf[j*dw:(j+1)*dw], v); err != nil {
				return fmt.Errorf("row %d column %d: %w", i, j, err)
			}
		}
		if err := lc.Put(buf[dataSize:], labels.Row(i)[0]); err != nil {
			return fmt.Errorf("row %d label: %w", i, err)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func checkGrids[D, L any](data *grid.Grid[D], labels *grid.Grid[L], dc Scalar[D], lc Scalar[L]) error {
	if data == nil || labels == nil {
		return ErrNilGrid
	}
	if dc == nil || lc == nil {
		return fmt.Errorf("%w: nil scalar", ErrInvalidLayout)
	}
	if len(data.Data) != data.R*data.C {
		return fmt.Errorf("data: %w: %d values for %dx%d", grid.ErrShapeMismatch, len(data.Data), data.R, data.C)
	}
	if len(labels.Data) != labels.R*labels.C {
		return fmt.Errorf("labels: %w: %d values for %dx%d", grid.ErrShapeMismatch, len(labels.Data), labels.R, labels.C)
	}
	if data.R != labels.R {
		return fmt.Errorf("%w: %d data rows, %d label rows", ErrRowMismatch, data.R, labels.R)
	}
	if labels.R > 0 && labels.C != 1 {
		return fmt.Errorf("%w: got %d", ErrLabelColumns, labels.C)
	}
	_, err := recordSize(data.C, dc.Width(), lc.Width())
	return err
}

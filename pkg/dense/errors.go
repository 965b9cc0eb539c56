package dense

import "errors"

var (
	// Parameter errors. These are reported before any file is touched.
	ErrInvalidWidth       = errors.New("dense: field width must be between 1 and 8 bytes")
	ErrInvalidExampleSize = errors.New("dense: invalid example size")
	ErrInvalidLayout      = errors.New("dense: invalid layout")
	ErrRowMismatch        = errors.New("dense: data and label row counts differ")
	ErrLabelColumns       = errors.New("dense: label grid must have exactly one column")
	ErrNilGrid            = errors.New("dense: nil grid")

	// ErrCorruptFile reports a file whose length is not a whole number of records.
	ErrCorruptFile = errors.New("dense: file size is not a multiple of the record size")

	// ErrValueOverflow reports a value that does not fit its field.
	ErrValueOverflow = errors.New("dense: value does not fit field")

	// ErrRowRange reports a record index past the end of the file.
	ErrRowRange = errors.New("dense: row index out of range")

	ErrClosed = errors.New("dense: file is closed")

	// ErrShape is an internal invariant failure while assembling decoded grids.
	ErrShape = errors.New("dense: internal shape invariant violated")
)

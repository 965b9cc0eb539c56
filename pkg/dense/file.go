package dense

import (
	"fmt"
	"sync"
)

// File is a whole dense file held in memory and described by a Layout, for
// callers that pick element types at run time. Open checks the size law once;
// Record and Each decode from the loaded bytes.
type File struct {
	info   Info
	layout Layout
	buf    []byte

	once    sync.Once
	release func()
}

// Open loads the file at path and checks it against l.
func Open(path string, l Layout) (*File, error) {
	rec, err := l.RecordSize()
	if err != nil {
		return nil, err
	}
	buf, release, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := l.Rows(int64(len(buf)))
	if err != nil {
		release()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{
		info:    Info{Path: path, Size: int64(len(buf)), RecordSize: rec, Rows: rows},
		layout:  l,
		buf:     buf,
		release: release,
	}, nil
}

func (f *File) Info() Info     { return f.info }
func (f *File) Layout() Layout { return f.layout }

// Record decodes the i-th record.
func (f *File) Record(i int64) (Record, error) {
	if i < 0 || i >= f.info.Rows {
		return Record{}, fmt.Errorf("%w: %d of %d", ErrRowRange, i, f.info.Rows)
	}
	if f.buf == nil {
		return Record{}, ErrClosed
	}
	rec := int64(f.info.RecordSize)
	return f.layout.decodeRecord(i, f.buf[i*rec:(i+1)*rec])
}

// Each decodes every record in order and stops at the first error from fn.
func (f *File) Each(fn func(Record) error) error {
	for i := int64(0); i < f.info.Rows; i++ {
		r, err := f.Record(i)
		if err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the loaded bytes. Records already returned stay valid.
func (f *File) Close() error {
	f.once.Do(func() {
		f.release()
		f.buf = nil
	})
	return nil
}

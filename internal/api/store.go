package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samcharles93/dense/pkg/dense"
)

// Ext is the file extension the store looks for.
const Ext = ".dense"

var ErrDatasetNotFound = errors.New("api: dataset not found")

// Dataset is a dense file exposed by the service.
type Dataset struct {
	Name   string       `json:"name"`
	Path   string       `json:"-"`
	Layout dense.Layout `json:"-"`
}

// DatasetStore resolves dataset names to files in a single directory.
//
// Every file uses the default layout unless an override is registered under
// its name (the file name without the .dense extension).
type DatasetStore struct {
	dir       string
	def       dense.Layout
	overrides map[string]dense.Layout
}

func NewDatasetStore(dir string, def dense.Layout, overrides map[string]dense.Layout) *DatasetStore {
	if overrides == nil {
		overrides = map[string]dense.Layout{}
	}
	return &DatasetStore{dir: dir, def: def, overrides: overrides}
}

func (s *DatasetStore) layout(name string) dense.Layout {
	if l, ok := s.overrides[name]; ok {
		return l
	}
	return s.def
}

// List returns every dataset in the directory, sorted by name.
func (s *DatasetStore) List() ([]Dataset, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]Dataset, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), Ext) {
			continue
		}
		name := e.Name()[:len(e.Name())-len(Ext)]
		out = append(out, Dataset{Name: name, Path: filepath.Join(s.dir, e.Name()), Layout: s.layout(name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get looks up a dataset by name.
func (s *DatasetStore) Get(name string) (Dataset, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return Dataset{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	path := filepath.Join(s.dir, name+Ext)
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return Dataset{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	return Dataset{Name: name, Path: path, Layout: s.layout(name)}, nil
}

// Info stats a dataset file against its layout.
func (s *DatasetStore) Info(name string) (dense.Info, error) {
	ds, err := s.Get(name)
	if err != nil {
		return dense.Info{}, err
	}
	return dense.Stat(ds.Path, ds.Layout)
}

// Rows decodes up to limit records starting at offset.
func (s *DatasetStore) Rows(name string, offset, limit int64) ([]dense.Record, dense.Info, error) {
	ds, err := s.Get(name)
	if err != nil {
		return nil, dense.Info{}, err
	}
	f, err := dense.Open(ds.Path, ds.Layout)
	if err != nil {
		return nil, dense.Info{}, err
	}
	defer func() { _ = f.Close() }()

	info := f.Info()
	if offset < 0 || offset >= info.Rows {
		return nil, info, fmt.Errorf("%w: %d of %d", dense.ErrRowRange, offset, info.Rows)
	}
	if end := offset + limit; limit <= 0 || end > info.Rows {
		limit = info.Rows - offset
	}

	out := make([]dense.Record, 0, limit)
	for i := offset; i < offset+limit; i++ {
		rec, err := f.Record(i)
		if err != nil {
			return nil, info, err
		}
		out = append(out, rec)
	}
	return out, info, nil
}

package dense

import (
	"fmt"
	"math"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// DType names a native element type.
type DType uint8

const (
	DTypeInvalid DType = iota
	DTypeU8
	DTypeU16
	DTypeU32
	DTypeU64
	DTypeI8
	DTypeI16
	DTypeI32
	DTypeI64
	DTypeF32
	DTypeF64
)

var dtypeNames = map[string]DType{
	"u8": DTypeU8, "uint8": DTypeU8,
	"u16": DTypeU16, "uint16": DTypeU16,
	"u32": DTypeU32, "uint32": DTypeU32,
	"u64": DTypeU64, "uint64": DTypeU64,
	"i8": DTypeI8, "int8": DTypeI8,
	"i16": DTypeI16, "int16": DTypeI16,
	"i32": DTypeI32, "int32": DTypeI32,
	"i64": DTypeI64, "int64": DTypeI64,
	"f32": DTypeF32, "float32": DTypeF32,
	"f64": DTypeF64, "float64": DTypeF64,
}

// ParseDType parses names such as "u8", "int32" or "f64".
func ParseDType(s string) (DType, error) {
	if d, ok := dtypeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return DTypeInvalid, fmt.Errorf("%w: unknown element type %q", ErrInvalidLayout, s)
}

// Width returns the natural byte width of d, or 0 for an invalid type.
func (d DType) Width() int {
	switch d {
	case DTypeU8, DTypeI8:
		return 1
	case DTypeU16, DTypeI16:
		return 2
	case DTypeU32, DTypeI32, DTypeF32:
		return 4
	case DTypeU64, DTypeI64, DTypeF64:
		return 8
	default:
		return 0
	}
}

func (d DType) String() string {
	switch d {
	case DTypeU8:
		return "u8"
	case DTypeU16:
		return "u16"
	case DTypeU32:
		return "u32"
	case DTypeU64:
		return "u64"
	case DTypeI8:
		return "i8"
	case DTypeI16:
		return "i16"
	case DTypeI32:
		return "i32"
	case DTypeI64:
		return "i64"
	case DTypeF32:
		return "f32"
	case DTypeF64:
		return "f64"
	default:
		return "invalid"
	}
}

func (d DType) value(b []byte) (any, error) {
	switch d {
	case DTypeU8:
		return Uint8.Get(b)
	case DTypeU16:
		return Uint16.Get(b)
	case DTypeU32:
		return Uint32.Get(b)
	case DTypeU64:
		return Uint64.Get(b)
	case DTypeI8:
		return Int8.Get(b)
	case DTypeI16:
		return Int16.Get(b)
	case DTypeI32:
		return Int32.Get(b)
	case DTypeI64:
		return Int64.Get(b)
	case DTypeF32:
		return Float32.Get(b)
	case DTypeF64:
		return Float64.Get(b)
	default:
		return nil, fmt.Errorf("%w: element type %d", ErrInvalidLayout, d)
	}
}

// Encoding selects how fields are laid out on disk.
type Encoding uint8

const (
	// EncodingNative stores each value at its type's natural width, little-endian.
	EncodingNative Encoding = iota
	// EncodingPacked stores uint64 values in 1-8 bytes, big-endian low bytes.
	EncodingPacked
)

// ParseEncoding accepts "native" (or empty) and "packed".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "le":
		return EncodingNative, nil
	case "packed":
		return EncodingPacked, nil
	default:
		return EncodingNative, fmt.Errorf("%w: unknown encoding %q", ErrInvalidLayout, s)
	}
}

func (e Encoding) String() string {
	if e == EncodingPacked {
		return "packed"
	}
	return "native"
}

// Layout holds the out-of-band parameters needed to interpret a dense file.
//
// With EncodingNative the field widths come from DataType and LabelType. With
// EncodingPacked they come from DataWidth and LabelWidth.
type Layout struct {
	ExampleSize int
	Encoding    Encoding
	DataType    DType
	LabelType   DType
	DataWidth   int
	LabelWidth  int
}

// Widths returns the byte width of one data value and of the label.
func (l Layout) Widths() (int, int) {
	if l.Encoding == EncodingPacked {
		return l.DataWidth, l.LabelWidth
	}
	return l.DataType.Width(), l.LabelType.Width()
}

// Validate checks the layout without touching any file.
func (l Layout) Validate() error {
	_, err := l.RecordSize()
	return err
}

// RecordSize returns ExampleSize*dataWidth + labelWidth.
func (l Layout) RecordSize() (int, error) {
	if l.Encoding == EncodingNative {
		if l.DataType.Width() == 0 || l.LabelType.Width() == 0 {
			return 0, fmt.Errorf("%w: data and label types are required", ErrInvalidLayout)
		}
	}
	dw, lw := l.Widths()
	return recordSize(l.ExampleSize, dw, lw)
}

// Rows returns the number of records in a file of size bytes.
func (l Layout) Rows(size int64) (int64, error) {
	rec, err := l.RecordSize()
	if err != nil {
		return 0, err
	}
	if size < 0 || size%int64(rec) != 0 {
		return 0, fmt.Errorf("%w: %d bytes, record is %d bytes", ErrCorruptFile, size, rec)
	}
	return size / int64(rec), nil
}

func (l Layout) String() string {
	dw, lw := l.Widths()
	if l.Encoding == EncodingPacked {
		return fmt.Sprintf("%d x packed%d + packed%d", l.ExampleSize, dw*8, lw*8)
	}
	return fmt.Sprintf("%d x %s + %s", l.ExampleSize, l.DataType, l.LabelType)
}

func (l Layout) field(b []byte, dt DType) (any, error) {
	if l.Encoding == EncodingPacked {
		return readPacked(b), nil
	}
	return dt.value(b)
}

func recordSize(exampleSize, dataWidth, labelWidth int) (int, error) {
	if exampleSize < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidExampleSize, exampleSize)
	}
	if dataWidth < 1 || dataWidth > MaxWidth {
		return 0, fmt.Errorf("%w: data width %d", ErrInvalidWidth, dataWidth)
	}
	if labelWidth < 1 || labelWidth > MaxWidth {
		return 0, fmt.Errorf("%w: label width %d", ErrInvalidWidth, labelWidth)
	}
	if exampleSize > (math.MaxInt-labelWidth)/dataWidth {
		return 0, fmt.Errorf("%w: %d values overflow the record size", ErrInvalidExampleSize, exampleSize)
	}
	return exampleSize*dataWidth + labelWidth, nil
}

// Info summarises a dense file without decoding it.
type Info struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	RecordSize int    `json:"record_size"`
	Rows       int64  `json:"rows"`
}

// Stat checks that the file at path is a whole number of records for l.
func Stat(path string, l Layout) (Info, error) {
	rec, err := l.RecordSize()
	if err != nil {
		return Info{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	rows, err := l.Rows(st.Size())
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	return Info{Path: path, Size: st.Size(), RecordSize: rec, Rows: rows}, nil
}

// Record is one decoded example with values boxed by their element type.
type Record struct {
	Index int64 `json:"index"`
	Data  []any `json:"data"`
	Label any   `json:"label"`
}

// MarshalJSON writes NaN and infinite float values as the strings "NaN",
// "+Inf" and "-Inf", which JSON numbers cannot express.
func (r Record) MarshalJSON() ([]byte, error) {
	out := struct {
		Index int64 `json:"index"`
		Data  []any `json:"data"`
		Label any   `json:"label"`
	}{Index: r.Index, Data: make([]any, len(r.Data)), Label: jsonValue(r.Label)}
	for i, v := range r.Data {
		out.Data[i] = jsonValue(v)
	}
	return json.Marshal(out)
}

func jsonValue(v any) any {
	var f float64
	switch x := v.(type) {
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		return v
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return v
}

func (l Layout) decodeRecord(i int64, buf []byte) (Record, error) {
	dw, _ := l.Widths()
	out := Record{Index: i, Data: make([]any, l.ExampleSize)}
	for j := range out.Data {
		v, err := l.field(buf[j*dw:(j+1)*dw], l.DataType)
		if err != nil {
			return Record{}, err
		}
		out.Data[j] = v
	}
	label, err := l.field(buf[l.ExampleSize*dw:], l.LabelType)
	if err != nil {
		return Record{}, err
	}
	out.Label = label
	return out, nil
}

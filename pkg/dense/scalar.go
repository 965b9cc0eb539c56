package dense

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Scalar converts one value of type T to and from its fixed-size field.
//
// Put and Get require a slice of exactly Width bytes.
type Scalar[T any] interface {
	Width() int
	Name() string
	Put(dst []byte, v T) error
	Get(src []byte) (T, error)
}

// Native little-endian scalars.
var (
	Uint8   Scalar[uint8]   = native[uint8]{name: "u8", width: 1, put: putU8, get: getU8}
	Uint16  Scalar[uint16]  = native[uint16]{name: "u16", width: 2, put: binary.LittleEndian.PutUint16, get: binary.LittleEndian.Uint16}
	Uint32  Scalar[uint32]  = native[uint32]{name: "u32", width: 4, put: binary.LittleEndian.PutUint32, get: binary.LittleEndian.Uint32}
	Uint64  Scalar[uint64]  = native[uint64]{name: "u64", width: 8, put: binary.LittleEndian.PutUint64, get: binary.LittleEndian.Uint64}
	Int8    Scalar[int8]    = native[int8]{name: "i8", width: 1, put: putI8, get: getI8}
	Int16   Scalar[int16]   = native[int16]{name: "i16", width: 2, put: putI16, get: getI16}
	Int32   Scalar[int32]   = native[int32]{name: "i32", width: 4, put: putI32, get: getI32}
	Int64   Scalar[int64]   = native[int64]{name: "i64", width: 8, put: putI64, get: getI64}
	Float32 Scalar[float32] = native[float32]{name: "f32", width: 4, put: putF32, get: getF32}
	Float64 Scalar[float64] = native[float64]{name: "f64", width: 8, put: putF64, get: getF64}
)

type native[T any] struct {
	name  string
	width int
	put   func([]byte, T)
	get   func([]byte) T
}

func (n native[T]) Width() int   { return n.width }
func (n native[T]) Name() string { return n.name }

func (n native[T]) Put(dst []byte, v T) error {
	if len(dst) != n.width {
		return fmt.Errorf("%w: %d byte field for %s", ErrValueOverflow, len(dst), n.name)
	}
	n.put(dst, v)
	return nil
}

func (n native[T]) Get(src []byte) (T, error) {
	if len(src) != n.width {
		var zero T
		return zero, fmt.Errorf("%w: %d byte field for %s", ErrValueOverflow, len(src), n.name)
	}
	return n.get(src), nil
}

func putU8(b []byte, v uint8) { b[0] = v }
func getU8(b []byte) uint8    { return b[0] }
func putI8(b []byte, v int8)  { b[0] = byte(v) }
func getI8(b []byte) int8     { return int8(b[0]) }

func putI16(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) }
func getI16(b []byte) int16    { return int16(binary.LittleEndian.Uint16(b)) }
func putI32(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) }
func getI32(b []byte) int32    { return int32(binary.LittleEndian.Uint32(b)) }
func putI64(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) }
func getI64(b []byte) int64    { return int64(binary.LittleEndian.Uint64(b)) }

func putF32(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) }
func getF32(b []byte) float32    { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
func putF64(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) }
func getF64(b []byte) float64    { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }

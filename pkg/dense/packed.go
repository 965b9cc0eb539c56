package dense

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

type packed struct {
	width int
}

// Packed returns a uint64 scalar persisted in width bytes (1-8).
//
// The field holds the low width bytes of the value in big-endian order. A
// value needing more than width bytes is rejected with ErrValueOverflow.
func Packed(width int) (Scalar[uint64], error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, width)
	}
	return packed{width: width}, nil
}

func (p packed) Width() int   { return p.width }
func (p packed) Name() string { return "packed" + strconv.Itoa(p.width*8) }

func (p packed) Put(dst []byte, v uint64) error {
	if len(dst) != p.width {
		return fmt.Errorf("%w: %d byte field for %s", ErrValueOverflow, len(dst), p.Name())
	}
	if p.width < MaxWidth && v>>(8*uint(p.width)) != 0 {
		return fmt.Errorf("%w: %d needs more than %d bytes", ErrValueOverflow, v, p.width)
	}
	putPacked(dst, v)
	return nil
}

func (p packed) Get(src []byte) (uint64, error) {
	if len(src) != p.width {
		return 0, fmt.Errorf("%w: %d byte field for %s", ErrValueOverflow, len(src), p.Name())
	}
	return readPacked(src), nil
}

// putPacked widens v into an 8-byte little-endian buffer and stores the low
// len(dst) bytes reversed, so dst[0] is the most significant kept byte and
// dst[len(dst)-1] is the least significant byte of v.
func putPacked(dst []byte, v uint64) {
	var le [MaxWidth]byte
	binary.LittleEndian.PutUint64(le[:], v)
	w := len(dst)
	for i := 0; i < w; i++ {
		dst[i] = le[w-1-i]
	}
}

// readPacked reverses src into the low bytes of a zeroed 8-byte little-endian
// buffer and reads it back as a uint64.
func readPacked(src []byte) uint64 {
	var le [MaxWidth]byte
	w := len(src)
	for i := 0; i < w; i++ {
		le[i] = src[w-1-i]
	}
	return binary.LittleEndian.Uint64(le[:])
}

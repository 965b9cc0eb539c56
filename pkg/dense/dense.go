// Package dense reads and writes dense files.
//
// A dense file is a flat sequence of fixed-size training examples and nothing
// else. Each record holds ExampleSize data values followed by a single label
// value:
//
//	file   := record*
//	record := data{ExampleSize} label
//
// There is no header, magic, length prefix or checksum. The example size and
// the width of each field are out-of-band parameters that must be supplied
// identically on read as on write.
//
// Two field encodings exist and they are not interchangeable on disk:
//
//   - Native (the default): each value uses the natural width of its Go type
//     (1, 2, 4 or 8 bytes) in little-endian order. See Uint8, Int32, Float64
//     and friends.
//   - Packed: values are uint64 in memory but persisted using only the low
//     1-8 bytes, most significant kept byte first. See Packed.
//
// Files are decoded whole. Memory use is proportional to the file size.
package dense

const (
	// MaxWidth is the widest field a dense file can hold.
	MaxWidth = 8

	writerBufSize = 64 << 10
)

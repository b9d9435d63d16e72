package wire

import "math"

// ReadFixed32LE/WriteFixed32LE etc. are not exposed separately; callers use
// Buffer.LE(true) once before a run of fixed-width fields, matching the
// spec's "set LE once, decode/encode a run of fields" buffer discipline
// (§5 Buffer discipline, §8 Endian restoration) rather than threading an
// endianness argument through every call.

// ReadSfixed32 consumes 4 bytes as a signed 32-bit integer.
func (b *Buffer) ReadSfixed32() (int32, error) {
	v, err := b.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// WriteSfixed32 appends v as 4 raw bytes.
func (b *Buffer) WriteSfixed32(v int32) { b.WriteFixed32(uint32(v)) }

// ReadSfixed64 consumes 8 bytes as a signed 64-bit integer.
func (b *Buffer) ReadSfixed64() (int64, error) {
	v, err := b.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// WriteSfixed64 appends v as 8 raw bytes.
func (b *Buffer) WriteSfixed64(v int64) { b.WriteFixed64(uint64(v)) }

// ReadFloat consumes 4 bytes as an IEEE-754 single-precision float.
func (b *Buffer) ReadFloat() (float32, error) {
	v, err := b.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// WriteFloat appends v as 4 raw IEEE-754 bytes.
func (b *Buffer) WriteFloat(v float32) { b.WriteFixed32(math.Float32bits(v)) }

// ReadDouble consumes 8 bytes as an IEEE-754 double-precision float.
func (b *Buffer) ReadDouble() (float64, error) {
	v, err := b.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteDouble appends v as 8 raw IEEE-754 bytes.
func (b *Buffer) WriteDouble(v float64) { b.WriteFixed64(math.Float64bits(v)) }

package wire

import "google.golang.org/protobuf/encoding/protowire"

// ReadVarint consumes an unsigned base-128 varint.
func (b *Buffer) ReadVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(b.buf[b.pos:])
	if n < 0 {
		return 0, formatErrorf("malformed varint at offset %d", b.pos)
	}
	b.pos += n
	return v, nil
}

// WriteVarint appends an unsigned base-128 varint.
func (b *Buffer) WriteVarint(v uint64) {
	b.buf = protowire.AppendVarint(b.buf, v)
}

// ReadInt32 consumes a varint and truncates to int32, matching proto2's
// sign-extend-on-decode behavior for plain int32 fields.
func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// WriteInt32 appends v as a varint. A negative int32 is sign-extended to
// 64 bits first, which is why the wire bytes for a negative int32 are a
// full 10-byte varint rather than the 5 bytes its magnitude would otherwise
// need — this matches proto2 wire output exactly (spec §8 "Negative int32
// width").
func (b *Buffer) WriteInt32(v int32) {
	b.WriteVarint(uint64(int64(v)))
}

// ReadInt64 consumes a varint as a signed 64-bit value (no zig-zag).
func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// WriteInt64 appends v as a plain (non-zig-zag) varint.
func (b *Buffer) WriteInt64(v int64) {
	b.WriteVarint(uint64(v))
}

// ReadBool consumes a varint and reports it as a boolean (nonzero is true).
func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// WriteBool appends 0 or 1.
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.WriteVarint(1)
	} else {
		b.WriteVarint(0)
	}
}

// ReadSint32 consumes a zig-zag encoded varint and decodes it to int32.
func (b *Buffer) ReadSint32() (int32, error) {
	v, err := b.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int32(protowire.DecodeZigZag(v)), nil
}

// WriteSint32 zig-zag encodes v and appends it as a varint.
func (b *Buffer) WriteSint32(v int32) {
	b.WriteVarint(protowire.EncodeZigZag(int64(v)))
}

// ReadSint64 consumes a zig-zag encoded varint and decodes it to int64.
func (b *Buffer) ReadSint64() (int64, error) {
	v, err := b.ReadVarint()
	if err != nil {
		return 0, err
	}
	return protowire.DecodeZigZag(v), nil
}

// WriteSint64 zig-zag encodes v and appends it as a varint.
func (b *Buffer) WriteSint64(v int64) {
	b.WriteVarint(protowire.EncodeZigZag(v))
}

// VarintSize reports the number of bytes WriteVarint(v) would emit.
func VarintSize(v uint64) int {
	return protowire.SizeVarint(v)
}

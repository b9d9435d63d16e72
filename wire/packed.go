package wire

// WritePackedVarint writes a packed repeated varint-typed field: a single
// LDELIM tag carrying the concatenation of each element's plain varint
// encoding, with no per-element tags (spec §4.2 "Packed repeated fields",
// §8 "Packed equivalence"). The element count isn't known to cost ahead of
// time, so elements are staged into a scratch buffer and the length prefix
// is emitted from its final size — functionally identical to reserving a
// placeholder and backpatching, without the byte-shifting that approach
// requires once the length grows past one varint byte.
func (b *Buffer) WritePackedVarint(num Number, values []uint64) {
	scratch := NewBuffer(len(values) * 2)
	for _, v := range values {
		scratch.WriteVarint(v)
	}
	b.WriteTag(num, Bytes)
	b.WriteBytes(scratch.Bytes())
}

// WritePackedSint32 writes a packed repeated sint32 (zig-zag) field.
func (b *Buffer) WritePackedSint32(num Number, values []int32) {
	scratch := NewBuffer(len(values) * 2)
	for _, v := range values {
		scratch.WriteSint32(v)
	}
	b.WriteTag(num, Bytes)
	b.WriteBytes(scratch.Bytes())
}

// WritePackedSint64 writes a packed repeated sint64 (zig-zag) field.
func (b *Buffer) WritePackedSint64(num Number, values []int64) {
	scratch := NewBuffer(len(values) * 2)
	for _, v := range values {
		scratch.WriteSint64(v)
	}
	b.WriteTag(num, Bytes)
	b.WriteBytes(scratch.Bytes())
}

// WritePackedFixed32 writes a packed repeated fixed32/sfixed32/float field.
func (b *Buffer) WritePackedFixed32(num Number, values []uint32) {
	scratch := NewBuffer(len(values) * 4)
	scratch.littleEndian = b.littleEndian
	for _, v := range values {
		scratch.WriteFixed32(v)
	}
	b.WriteTag(num, Bytes)
	b.WriteBytes(scratch.Bytes())
}

// WritePackedFixed64 writes a packed repeated fixed64/sfixed64/double field.
func (b *Buffer) WritePackedFixed64(num Number, values []uint64) {
	scratch := NewBuffer(len(values) * 8)
	scratch.littleEndian = b.littleEndian
	for _, v := range values {
		scratch.WriteFixed64(v)
	}
	b.WriteTag(num, Bytes)
	b.WriteBytes(scratch.Bytes())
}

// ReadPackedVarint consumes a packed varint field's LDELIM payload (the tag
// itself must already have been consumed by the caller) and returns each
// element in order.
func (b *Buffer) ReadPackedVarint() ([]uint64, error) {
	raw, err := b.ReadBytes()
	if err != nil {
		return nil, err
	}
	sub := Wrap(raw)
	var out []uint64
	for sub.Remaining() > 0 {
		v, err := sub.ReadVarint()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadPackedSint32 consumes a packed zig-zag sint32 field.
func (b *Buffer) ReadPackedSint32() ([]int32, error) {
	raw, err := b.ReadBytes()
	if err != nil {
		return nil, err
	}
	sub := Wrap(raw)
	var out []int32
	for sub.Remaining() > 0 {
		v, err := sub.ReadSint32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadPackedSint64 consumes a packed zig-zag sint64 field.
func (b *Buffer) ReadPackedSint64() ([]int64, error) {
	raw, err := b.ReadBytes()
	if err != nil {
		return nil, err
	}
	sub := Wrap(raw)
	var out []int64
	for sub.Remaining() > 0 {
		v, err := sub.ReadSint64()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadPackedFixed32 consumes a packed fixed32/sfixed32/float field.
func (b *Buffer) ReadPackedFixed32() ([]uint32, error) {
	raw, err := b.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, formatErrorf("packed fixed32 payload length %d not a multiple of 4", len(raw))
	}
	sub := Wrap(raw)
	sub.littleEndian = b.littleEndian
	out := make([]uint32, 0, len(raw)/4)
	for sub.Remaining() > 0 {
		v, err := sub.ReadFixed32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadPackedFixed64 consumes a packed fixed64/sfixed64/double field.
func (b *Buffer) ReadPackedFixed64() ([]uint64, error) {
	raw, err := b.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(raw)%8 != 0 {
		return nil, formatErrorf("packed fixed64 payload length %d not a multiple of 8", len(raw))
	}
	sub := Wrap(raw)
	sub.littleEndian = b.littleEndian
	out := make([]uint64, 0, len(raw)/8)
	for sub.Remaining() > 0 {
		v, err := sub.ReadFixed64()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

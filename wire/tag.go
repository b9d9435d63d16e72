package wire

import "google.golang.org/protobuf/encoding/protowire"

// ReadTag consumes a field tag (number + wire type) from the current
// position and advances the cursor.
func (b *Buffer) ReadTag() (Number, Type, error) {
	num, typ, n := protowire.ConsumeTag(b.buf[b.pos:])
	if n < 0 {
		return 0, 0, formatErrorf("invalid tag at offset %d", b.pos)
	}
	b.pos += n
	return num, typ, nil
}

// WriteTag appends a packed (number<<3 | wireType) varint.
func (b *Buffer) WriteTag(num Number, typ Type) {
	b.buf = protowire.AppendTag(b.buf, num, typ)
}

// SkipField skips the value following a tag already consumed for wire type
// typ, including full recursive descent into legacy groups and nested
// unknown messages. It backs all unknown-field skipping in package schema,
// unknown legacy groups included, since a group body is just a sequence of
// ordinary fields terminated by an ENDGROUP tag for the same number.
func (b *Buffer) SkipField(num Number, typ Type) error {
	n := protowire.ConsumeFieldValue(num, typ, b.buf[b.pos:])
	if n < 0 {
		return formatErrorf("malformed field %d (wire type %d) at offset %d", num, typ, b.pos)
	}
	b.pos += n
	return nil
}

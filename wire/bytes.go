package wire

import "google.golang.org/protobuf/encoding/protowire"

// ReadBytes consumes a length-delimited payload and returns a copy of it
// (the returned slice does not alias the buffer's backing array, so callers
// may retain it past further writes to the source buffer).
func (b *Buffer) ReadBytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(b.buf[b.pos:])
	if n < 0 {
		return nil, formatErrorf("malformed length-delimited field at offset %d", b.pos)
	}
	b.pos += n
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// ReadString consumes a length-delimited payload and returns it as a string.
func (b *Buffer) ReadString() (string, error) {
	raw, err := b.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// WriteBytes appends a length-delimited payload (varint length + raw bytes).
func (b *Buffer) WriteBytes(v []byte) {
	b.buf = protowire.AppendBytes(b.buf, v)
}

// WriteString appends a length-delimited UTF-8 payload.
func (b *Buffer) WriteString(v string) {
	b.buf = protowire.AppendString(b.buf, v)
}

// BytesSize reports the number of bytes WriteBytes(v) would emit, including
// its varint length prefix.
func BytesSize(v []byte) int {
	return protowire.SizeBytes(len(v))
}

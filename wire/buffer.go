// Package wire implements the length-prefixed binary primitives of the
// Protocol Buffers wire format: tags, varints, zig-zag integers, fixed-width
// values, and length-delimited bytes. It wraps
// google.golang.org/protobuf/encoding/protowire for the bit-exact, endian-
// fixed parts of the format and adds the one piece protowire intentionally
// doesn't have: a stateful, position-tracking Buffer with a toggleable
// little-endian flag, mirroring the byte-buffer collaborator spec'd by the
// reflective layer in package schema.
package wire

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"

	"google.golang.org/protobuf/encoding/protowire"
)

// Type aliases protowire's wire-type enum so callers never need to import
// protowire themselves to speak about VARINT/BITS64/LDELIM/STARTGROUP/
// ENDGROUP/BITS32 — the six wire types from spec §6.
type Type = protowire.Type

// Number aliases protowire's field-number type.
type Number = protowire.Number

const (
	Varint     Type = protowire.VarintType
	Fixed64    Type = protowire.Fixed64Type
	Bytes      Type = protowire.BytesType
	StartGroup Type = protowire.StartGroupType
	EndGroup   Type = protowire.EndGroupType
	Fixed32    Type = protowire.Fixed32Type
)

// Buffer is a growable, position-tracked byte buffer used for both encoding
// (append-only, cursor at the write head) and decoding (cursor advances as
// bytes are consumed). Its little-endian flag is a caller-visible toggle,
// saved and restored by Message-level encode/decode per spec §5's "buffer
// discipline" — fixed32/fixed64 payloads on the wire are always
// little-endian, but this flag lets callers inspect/reuse the same buffer
// for other purposes without the codec silently flipping it underneath them.
type Buffer struct {
	buf          []byte
	pos          int
	littleEndian bool
}

// NewBuffer creates an empty write buffer with the given initial capacity hint.
func NewBuffer(capacityHint int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacityHint)}
}

// Wrap creates a read buffer over existing bytes; the cursor starts at 0.
func Wrap(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// LE reads the little-endian flag, or sets it and returns the previous value
// when an argument is supplied — the overloaded accessor spec.md §2 calls
// for.
func (b *Buffer) LE(set ...bool) bool {
	old := b.littleEndian
	if len(set) > 0 {
		b.littleEndian = set[0]
	}
	return old
}

// Flip rewinds the read cursor to the start, leaving the written bytes
// intact — the Go analogue of ByteBuffer#flip() now that capacity and
// length aren't distinct concepts for a slice.
func (b *Buffer) Flip() *Buffer {
	b.pos = 0
	return b
}

// Clone returns a buffer with its own cursor and little-endian flag over a
// copy of the underlying bytes.
func (b *Buffer) Clone() *Buffer {
	cp := make([]byte, len(b.buf))
	copy(cp, b.buf)
	return &Buffer{buf: cp, pos: b.pos, littleEndian: b.littleEndian}
}

// Slice returns a new buffer over buf[start:end), sharing no memory with the
// source.
func (b *Buffer) Slice(start, end int) *Buffer {
	cp := make([]byte, end-start)
	copy(cp, b.buf[start:end])
	return &Buffer{buf: cp, littleEndian: b.littleEndian}
}

// Remaining is the number of unread bytes ahead of the cursor.
func (b *Buffer) Remaining() int { return len(b.buf) - b.pos }

// Offset is the current cursor position.
func (b *Buffer) Offset() int { return b.pos }

// SetOffset repositions the cursor (used to restore a saved position, e.g.
// when a bytes-typed field encode preserves the source buffer's read offset).
func (b *Buffer) SetOffset(pos int) { b.pos = pos }

// Length is the total number of bytes currently held.
func (b *Buffer) Length() int { return len(b.buf) }

// Append writes raw bytes at the current write head.
func (b *Buffer) Append(data []byte) { b.buf = append(b.buf, data...) }

// EnsureCapacity grows the backing array's capacity without changing length.
func (b *Buffer) EnsureCapacity(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	grown := make([]byte, len(b.buf), len(b.buf)+n)
	copy(grown, b.buf)
	b.buf = grown
}

// Bytes returns the buffer's full backing content (independent of cursor).
func (b *Buffer) Bytes() []byte { return b.buf }

// ToArrayBuffer is the conventional name for "give me the raw bytes" per
// spec.md §2's buffer contract; in Go it is just Bytes().
func (b *Buffer) ToArrayBuffer() []byte { return b.Bytes() }

// ToBuffer is an alias of Bytes kept for symmetry with spec.md §2's
// `toBuffer` accessor.
func (b *Buffer) ToBuffer() []byte { return b.Bytes() }

// ToBase64 encodes the buffer's content as standard base64.
func (b *Buffer) ToBase64() string { return base64.StdEncoding.EncodeToString(b.buf) }

// ToHex encodes the buffer's content as lowercase hex.
func (b *Buffer) ToHex() string { return hex.EncodeToString(b.buf) }

// WrapString decodes an encoded string into a fresh read buffer. Supported
// encodings: "base64" (default), "hex".
func WrapString(s string, encoding string) (*Buffer, error) {
	switch encoding {
	case "", "base64":
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, formatErrorf("invalid base64 input: %v", err)
		}
		return Wrap(data), nil
	case "hex":
		data, err := hex.DecodeString(s)
		if err != nil {
			return nil, formatErrorf("invalid hex input: %v", err)
		}
		return Wrap(data), nil
	default:
		return nil, formatErrorf("unsupported text encoding %q", encoding)
	}
}

// --- fixed-width payloads -------------------------------------------------
//
// protowire's Append/ConsumeFixed32/64 are hardcoded little-endian (correct
// for the wire, since protobuf fixed32/fixed64 payloads are always LE) but
// they can't serve this Buffer's endian-toggle contract, so these few
// methods go directly to encoding/binary instead — the one place in this
// package that isn't grounded on protowire, justified in DESIGN.md.

func (b *Buffer) order() binary.ByteOrder {
	if b.littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ReadFixed32 consumes 4 bytes honoring the current LE() setting.
func (b *Buffer) ReadFixed32() (uint32, error) {
	if b.pos+4 > len(b.buf) {
		return 0, formatErrorf("fixed32: need 4 bytes, have %d", len(b.buf)-b.pos)
	}
	v := b.order().Uint32(b.buf[b.pos:])
	b.pos += 4
	return v, nil
}

// ReadFixed64 consumes 8 bytes honoring the current LE() setting.
func (b *Buffer) ReadFixed64() (uint64, error) {
	if b.pos+8 > len(b.buf) {
		return 0, formatErrorf("fixed64: need 8 bytes, have %d", len(b.buf)-b.pos)
	}
	v := b.order().Uint64(b.buf[b.pos:])
	b.pos += 8
	return v, nil
}

// WriteFixed32 appends 4 bytes honoring the current LE() setting.
func (b *Buffer) WriteFixed32(v uint32) {
	var tmp [4]byte
	b.order().PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// WriteFixed64 appends 8 bytes honoring the current LE() setting.
func (b *Buffer) WriteFixed64(v uint64) {
	var tmp [8]byte
	b.order().PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

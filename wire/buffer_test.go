package wire

import (
	"bytes"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<64 - 1}
	for _, v := range cases {
		buf := NewBuffer(0)
		buf.WriteVarint(v)
		buf.Flip()
		got, err := buf.ReadVarint()
		if err != nil {
			t.Fatalf("ReadVarint(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d != %d", got, v)
		}
	}
}

func TestNegativeInt32Width(t *testing.T) {
	// A negative int32 sign-extends to a 64-bit varint: always 10 bytes on
	// the wire, never the 5 bytes its magnitude alone would need.
	buf := NewBuffer(0)
	buf.WriteInt32(-1)
	if buf.Length() != 10 {
		t.Fatalf("expected 10-byte varint for -1, got %d bytes (%x)", buf.Length(), buf.Bytes())
	}
	buf.Flip()
	got, err := buf.ReadInt32()
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	cases := []int32{0, -1, 1, -2, 2147483647, -2147483648}
	for _, v := range cases {
		buf := NewBuffer(0)
		buf.WriteSint32(v)
		buf.Flip()
		got, err := buf.ReadSint32()
		if err != nil {
			t.Fatalf("ReadSint32(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d != %d", got, v)
		}
	}
}

func TestLEFlagSelectsFixedByteOrder(t *testing.T) {
	buf := NewBuffer(0)
	prev := buf.LE(true)
	if prev != false {
		t.Fatalf("expected default big-endian-off state to start false, got %v", prev)
	}
	buf.WriteFixed32(0x01020304)
	if !bytes.Equal(buf.Bytes(), []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Fatalf("unexpected LE bytes: %x", buf.Bytes())
	}
	buf.LE(false)
	buf2 := NewBuffer(0)
	buf2.WriteFixed32(0x01020304)
	if !bytes.Equal(buf2.Bytes(), []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("unexpected BE bytes: %x", buf2.Bytes())
	}
}

func TestPackedVarintRoundTrip(t *testing.T) {
	values := []uint64{1, 2, 300}
	buf := NewBuffer(0)
	buf.WritePackedVarint(1, values)
	want := []byte{0x0A, 0x04, 0x01, 0x02, 0xAC, 0x02}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}
	buf.Flip()
	_, _, err := buf.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	got, err := buf.ReadPackedVarint()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 300 {
		t.Fatalf("got %v, want [1 2 300]", got)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	buf := NewBuffer(0)
	buf.WriteString("hello")
	buf.Flip()
	got, err := buf.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestSkipFieldGroup(t *testing.T) {
	// A STARTGROUP at field 5 containing one varint field, closed by the
	// matching ENDGROUP, must be skippable as a single unit.
	buf := NewBuffer(0)
	buf.WriteTag(5, StartGroup)
	buf.WriteTag(1, Varint)
	buf.WriteVarint(42)
	buf.WriteTag(5, EndGroup)
	buf.WriteTag(6, Varint)
	buf.WriteVarint(7)

	buf.Flip()
	num, typ, err := buf.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	if err := buf.SkipField(num, typ); err != nil {
		t.Fatalf("SkipField: %v", err)
	}
	num, typ, err = buf.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	if num != 6 || typ != Varint {
		t.Fatalf("expected next field 6/varint, got %d/%d", num, typ)
	}
	v, err := buf.ReadVarint()
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Fatalf("got %d, want 7", v)
	}
}

func TestToBase64AndWrapString(t *testing.T) {
	buf := NewBuffer(0)
	buf.Append([]byte{0x01, 0x02, 0x03})
	encoded := buf.ToBase64()
	decoded, err := WrapString(encoded, "base64")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded.Bytes(), buf.Bytes()) {
		t.Fatalf("round trip mismatch: %x != %x", decoded.Bytes(), buf.Bytes())
	}
}

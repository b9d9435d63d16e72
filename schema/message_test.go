package schema

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arihants/protoref/wire"
)

// buildPersonSchema constructs the canonical Person message from
// spec.md §8: a required name, an optional id, and a repeated message-typed
// phones field referencing a nested Phone message with an enum-typed field.
func buildPersonSchema(t *testing.T) *Message {
	t.Helper()
	phoneType := NewEnum("PhoneType")
	mustOK(t, phoneType.AddValue("MOBILE", 0))
	mustOK(t, phoneType.AddValue("HOME", 1))
	mustOK(t, phoneType.AddValue("WORK", 2))

	phone := NewMessage("Phone")
	mustOK(t, phone.AddField(NewScalarField("number", 1, Required, TString)))
	mustOK(t, phone.AddField(NewEnumField("type", 2, Optional, "PhoneType")))
	mustOK(t, phone.AddChild(phoneType))

	person := NewMessage("Person")
	mustOK(t, person.AddField(NewScalarField("name", 1, Required, TString)))
	mustOK(t, person.AddField(NewScalarField("id", 2, Optional, TInt32)))
	mustOK(t, person.AddField(NewMessageField("phones", 4, Repeated, "Phone")))
	mustOK(t, person.AddChild(phone))

	if err := person.ResolveAll(); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	return person
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// mustBuild invokes a message's factory with args (the no-argument form
// when none are given) and fails the test on error (default application can fail if a `default` option is
// malformed, so every call site checks it).
func mustBuild(t *testing.T, m *Message, args ...interface{}) *Value {
	t.Helper()
	v, err := m.Build(false)(args...)
	if err != nil {
		t.Fatalf("Build factory: %v", err)
	}
	return v
}

func TestPersonRoundTrip(t *testing.T) {
	person := buildPersonSchema(t)
	phone := person.GetChildByName("Phone").(*Message)

	v := mustBuild(t, person)
	mustOK(t, v.Set("name", "Ada Lovelace"))
	mustOK(t, v.Set("id", int32(7)))

	p1 := mustBuild(t, phone)
	mustOK(t, p1.Set("number", "555-0100"))
	mustOK(t, p1.Set("type", int32(1)))
	mustOK(t, v.Add("phones", p1))

	encoded, err := person.EncodeValue(v)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	decoded, err := person.DecodeValue(encoded)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	name, _ := decoded.Get("name")
	if name != "Ada Lovelace" {
		t.Fatalf("got name %v, want Ada Lovelace", name)
	}
	id, _ := decoded.Get("id")
	if id != int32(7) {
		t.Fatalf("got id %v, want 7", id)
	}
	phones, _ := decoded.Get("phones")
	list := phones.([]interface{})
	if len(list) != 1 {
		t.Fatalf("got %d phones, want 1", len(list))
	}
	number, _ := list[0].(*Value).Get("number")
	if number != "555-0100" {
		t.Fatalf("got phone number %v, want 555-0100", number)
	}
}

func TestMissingRequiredAttachesPartial(t *testing.T) {
	person := buildPersonSchema(t)
	v := mustBuild(t, person)
	mustOK(t, v.Set("id", int32(3))) // name (required) never set

	_, err := person.EncodeValue(v)
	var reqErr *RequiredFieldMissingError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequiredFieldMissingError, got %v", err)
	}
	if len(reqErr.Fields) != 1 || reqErr.Fields[0] != "name" {
		t.Fatalf("expected missing field 'name', got %v", reqErr.Fields)
	}
	if reqErr.Partial == nil {
		t.Fatalf("expected partial encoded bytes to be attached")
	}

	// Decoding bytes that never include the required field must surface
	// the same error shape with a partially-populated Value attached.
	decoded, err := person.DecodeValue(reqErr.Partial)
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequiredFieldMissingError on decode, got %v", err)
	}
	id, ok := decoded.Get("id")
	if !ok || id != int32(3) {
		t.Fatalf("expected partial decoded value to retain id=3, got %v", id)
	}
}

func TestPackedRepeatedInt32(t *testing.T) {
	m := NewMessage("M")
	f := NewScalarField("v", 1, Repeated, TInt32)
	f.SetOption("packed", "true")
	mustOK(t, m.AddField(f))
	mustOK(t, m.ResolveAll())

	v := mustBuild(t, m)
	mustOK(t, v.Add("v", int32(1)))
	mustOK(t, v.Add("v", int32(2)))
	mustOK(t, v.Add("v", int32(300)))

	encoded, err := m.EncodeValue(v)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	want := []byte{0x0A, 0x04, 0x01, 0x02, 0xAC, 0x02}
	if !bytes.Equal(encoded, want) {
		t.Fatalf("got % x, want % x", encoded, want)
	}

	decoded, err := m.DecodeValue(encoded)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	got, _ := decoded.Get("v")
	list := got.([]interface{})
	if len(list) != 3 || list[0] != int32(1) || list[1] != int32(2) || list[2] != int32(300) {
		t.Fatalf("got %v, want [1 2 300]", list)
	}
}

func TestPackedEquivalenceAcrossWireForms(t *testing.T) {
	// Packed and non-packed encodings of the same repeated scalar field
	// must decode to the identical logical value (spec.md §8 "Packed
	// equivalence") — a decoder must accept either form regardless of how
	// the field is declared, since proto2 allows producers and consumers to
	// disagree about packing.
	packed := NewMessage("Packed")
	pf := NewScalarField("v", 1, Repeated, TInt32)
	pf.SetOption("packed", "true")
	mustOK(t, packed.AddField(pf))
	mustOK(t, packed.ResolveAll())

	unpacked := NewMessage("Unpacked")
	mustOK(t, unpacked.AddField(NewScalarField("v", 1, Repeated, TInt32)))
	mustOK(t, unpacked.ResolveAll())

	pv := mustBuild(t, packed)
	mustOK(t, pv.Add("v", int32(1)))
	mustOK(t, pv.Add("v", int32(2)))
	mustOK(t, pv.Add("v", int32(300)))
	packedBytes, err := packed.EncodeValue(pv)
	if err != nil {
		t.Fatal(err)
	}

	uv := mustBuild(t, unpacked)
	mustOK(t, uv.Add("v", int32(1)))
	mustOK(t, uv.Add("v", int32(2)))
	mustOK(t, uv.Add("v", int32(300)))
	unpackedBytes, err := unpacked.EncodeValue(uv)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(packedBytes, unpackedBytes) {
		t.Fatalf("expected the two wire encodings to differ in bytes")
	}

	// A message declared with an unpacked field must still be able to
	// decode the packed bytes, and vice versa.
	decodedFromPacked, err := unpacked.DecodeValue(packedBytes)
	if err != nil {
		t.Fatalf("decode packed bytes with unpacked schema: %v", err)
	}
	gotA, _ := decodedFromPacked.Get("v")
	decodedFromUnpacked, err := packed.DecodeValue(unpackedBytes)
	if err != nil {
		t.Fatalf("decode unpacked bytes with packed schema: %v", err)
	}
	gotB, _ := decodedFromUnpacked.Get("v")
	if !equalInt32Slices(gotA.([]interface{}), gotB.([]interface{})) {
		t.Fatalf("expected equivalent decoded values, got %v and %v", gotA, gotB)
	}
}

func equalInt32Slices(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEnumFieldByNameAndNumber(t *testing.T) {
	color := NewEnum("Color")
	mustOK(t, color.AddValue("A", 0))
	mustOK(t, color.AddValue("B", 1))

	m := NewMessage("M")
	mustOK(t, m.AddField(NewEnumField("e", 1, Optional, "Color")))
	mustOK(t, m.AddChild(color))
	mustOK(t, m.ResolveAll())

	for _, val := range []interface{}{"B", int32(1)} {
		v := mustBuild(t, m)
		mustOK(t, v.Set("e", val))
		encoded, err := m.EncodeValue(v)
		if err != nil {
			t.Fatalf("EncodeValue(%v): %v", val, err)
		}
		want := []byte{0x08, 0x01}
		if !bytes.Equal(encoded, want) {
			t.Fatalf("EncodeValue(%v): got % x, want % x", val, encoded, want)
		}
	}
}

func TestGroupEncodeDecode(t *testing.T) {
	inner := NewMessage("Inner")
	mustOK(t, inner.AddField(NewScalarField("x", 1, Optional, TInt32)))

	outer := NewMessage("Outer")
	mustOK(t, outer.AddField(NewGroupField("g", 5, Optional, "Inner")))
	mustOK(t, outer.AddChild(inner))
	mustOK(t, outer.ResolveAll())

	v := mustBuild(t, outer)
	innerVal := mustBuild(t, inner)
	mustOK(t, innerVal.Set("x", int32(42)))
	mustOK(t, v.Set("g", innerVal))

	encoded, err := outer.EncodeValue(v)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	buf := wire.Wrap(encoded)
	num, typ, err := buf.ReadTag()
	if err != nil || num != 5 || typ != wire.StartGroup {
		t.Fatalf("expected STARTGROUP tag for field 5, got %d/%d err=%v", num, typ, err)
	}

	decoded, err := outer.DecodeValue(encoded)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	g, ok := decoded.Get("g")
	if !ok {
		t.Fatalf("expected group field g to be set")
	}
	x, _ := g.(*Value).Get("x")
	if x != int32(42) {
		t.Fatalf("got group field x=%v, want 42", x)
	}
}

func TestUnknownGroupIsSkipped(t *testing.T) {
	// A message that doesn't know about field 5 at all must still be able
	// to skip over an embedded legacy group for it, recursing through any
	// nested fields inside (spec.md §4.3 skipTillGroupEnd).
	m := NewMessage("M")
	mustOK(t, m.AddField(NewScalarField("known", 6, Optional, TInt32)))
	mustOK(t, m.ResolveAll())

	buf := wire.NewBuffer(32)
	buf.WriteTag(5, wire.StartGroup)
	buf.WriteTag(1, wire.Varint)
	buf.WriteVarint(99)
	buf.WriteTag(5, wire.EndGroup)
	buf.WriteTag(6, wire.Varint)
	buf.WriteInt32(41)

	decoded, err := m.DecodeValue(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	known, _ := decoded.Get("known")
	if known != int32(41) {
		t.Fatalf("got known=%v, want 41", known)
	}
}

func TestDelimitedFraming(t *testing.T) {
	m := NewMessage("M")
	mustOK(t, m.AddField(NewScalarField("x", 1, Optional, TInt32)))
	mustOK(t, m.ResolveAll())

	buf := wire.NewBuffer(32)
	for _, x := range []int32{1, 2, 3} {
		v := mustBuild(t, m)
		mustOK(t, v.Set("x", x))
		mustOK(t, m.EncodeDelimited(buf, v))
	}

	buf.Flip()
	var got []int32
	for buf.Remaining() > 0 {
		v, err := m.DecodeDelimited(buf)
		if err != nil {
			t.Fatalf("DecodeDelimited: %v", err)
		}
		x, _ := v.Get("x")
		got = append(got, x.(int32))
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestDecodeRejectsMismatchedWireType(t *testing.T) {
	// A sint64 field declares VARINT; a producer that instead tags it
	// BITS32/Fixed32 has violated the wire contract and must be caught
	// rather than silently misread (spec.md §4.2 "decode", §7 item 5).
	m := NewMessage("M")
	mustOK(t, m.AddField(NewScalarField("amount", 1, Optional, TSint64)))
	mustOK(t, m.ResolveAll())

	buf := wire.NewBuffer(16)
	buf.WriteTag(1, wire.Fixed32)
	buf.WriteFixed32(7)

	_, err := m.DecodeValue(buf.Bytes())
	var wireErr *WireFormatError
	if !errors.As(err, &wireErr) {
		t.Fatalf("got error %v (%T), want *WireFormatError", err, err)
	}
}

func TestDecodeAcceptsPackedScalarAsBytesRegardlessOfDeclaration(t *testing.T) {
	// The packed/LDELIM exception must survive the general wire-type check:
	// a repeated packable scalar may still arrive packed even though its own
	// declared (non-packed) wire type is VARINT (spec.md §8 "Packed equivalence").
	m := NewMessage("M")
	mustOK(t, m.AddField(NewScalarField("xs", 1, Repeated, TInt32)))
	mustOK(t, m.ResolveAll())

	buf := wire.NewBuffer(16)
	buf.WritePackedVarint(1, []uint64{1, 2, 3})

	v, err := m.DecodeValue(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	xs, _ := v.Get("xs")
	list := xs.([]interface{})
	if len(list) != 3 || list[0] != int32(1) || list[2] != int32(3) {
		t.Fatalf("got xs=%v, want [1 2 3]", list)
	}
}

func TestBuildMappingConstructorForm(t *testing.T) {
	person := buildPersonSchema(t)
	v, err := person.Build(false)(map[string]interface{}{
		"name": "Grace Hopper",
		"id":   int32(9),
	})
	if err != nil {
		t.Fatalf("Build factory: %v", err)
	}
	name, _ := v.Get("name")
	if name != "Grace Hopper" {
		t.Fatalf("got name %v, want Grace Hopper", name)
	}
	id, _ := v.Get("id")
	if id != int32(9) {
		t.Fatalf("got id %v, want 9", id)
	}
}

func TestBuildPositionalConstructorForm(t *testing.T) {
	// Declaration order is name(1), id(2), phones(4) — positional args map
	// onto declared fields in that order (spec.md §4.3).
	person := buildPersonSchema(t)
	v, err := person.Build(false)("Alan Turing", int32(41))
	if err != nil {
		t.Fatalf("Build factory: %v", err)
	}
	name, _ := v.Get("name")
	if name != "Alan Turing" {
		t.Fatalf("got name %v, want Alan Turing", name)
	}
	id, _ := v.Get("id")
	if id != int32(41) {
		t.Fatalf("got id %v, want 41", id)
	}
}

func TestBuildAppliesDefaultBeforeCallerArgs(t *testing.T) {
	m := NewMessage("WithDefault")
	count := NewScalarField("count", 1, Optional, TInt32)
	count.Default = "5"
	mustOK(t, m.AddField(count))
	mustOK(t, m.ResolveAll())

	// No-arg form: the default must land even though the caller sets nothing.
	v := mustBuild(t, m)
	got, _ := v.Get("count")
	if got != int32(5) {
		t.Fatalf("got count=%v, want default 5", got)
	}

	// Caller-supplied value overrides the applied default.
	overridden, err := m.Build(false)(map[string]interface{}{"count": int32(12)})
	if err != nil {
		t.Fatalf("Build factory: %v", err)
	}
	got, _ = overridden.Get("count")
	if got != int32(12) {
		t.Fatalf("got count=%v, want overridden 12", got)
	}
}

func TestBuildRejectsMalformedDefault(t *testing.T) {
	m := NewMessage("BadDefault")
	bad := NewScalarField("n", 1, Optional, TInt32)
	bad.Default = "not-a-number"
	mustOK(t, m.AddField(bad))
	mustOK(t, m.ResolveAll())

	_, err := m.Build(false)()
	var illegal *IllegalValueError
	if !errors.As(err, &illegal) {
		t.Fatalf("got error %v (%T), want *IllegalValueError", err, err)
	}
}

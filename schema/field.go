package schema

import (
	"fmt"
	"strconv"

	"github.com/arihants/protoref/wire"
)

// Rule is a field's cardinality: optional, required, or repeated — proto2's
// three field rules (spec.md §3).
type Rule int

const (
	Optional Rule = iota
	Required
	Repeated
)

func (r Rule) String() string {
	switch r {
	case Required:
		return "required"
	case Repeated:
		return "repeated"
	default:
		return "optional"
	}
}

// Kind distinguishes a field's value category: a wire-primitive scalar, a
// symbolically-typed enum, a symbolically-typed nested message, or a
// symbolically-typed legacy group.
type Kind int

const (
	KindScalar Kind = iota
	KindEnum
	KindMessage
	KindGroup
)

// ScalarType enumerates proto2's built-in scalar field types.
type ScalarType int

const (
	TDouble ScalarType = iota
	TFloat
	TInt32
	TInt64
	TUint32
	TUint64
	TSint32
	TSint64
	TFixed32
	TFixed64
	TSfixed32
	TSfixed64
	TBool
	TString
	TBytes
)

func (t ScalarType) String() string {
	names := [...]string{"double", "float", "int32", "int64", "uint32", "uint64",
		"sint32", "sint64", "fixed32", "fixed64", "sfixed32", "sfixed64", "bool", "string", "bytes"}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// wireType reports the on-the-wire type for a single (non-packed) instance
// of this field's scalar type.
func (t ScalarType) wireType() wire.Type {
	switch t {
	case TInt32, TInt64, TUint32, TUint64, TSint32, TSint64, TBool:
		return wire.Varint
	case TFixed64, TSfixed64, TDouble:
		return wire.Fixed64
	case TFixed32, TSfixed32, TFloat:
		return wire.Fixed32
	case TString, TBytes:
		return wire.Bytes
	default:
		return wire.Varint
	}
}

// isPackable reports whether repeated values of this scalar type may use
// the packed encoding (spec.md §4.2): every wire-varint/fixed32/fixed64
// scalar type is packable, string and bytes are never packable since they
// are already length-delimited per element.
func (t ScalarType) isPackable() bool {
	switch t {
	case TString, TBytes:
		return false
	default:
		return true
	}
}

// Field is a named, numbered member of a Message: the leaf node of the
// reflection tree (spec.md §3, §4.2).
type Field struct {
	Node
	Number int32
	Rule   Rule
	Kind   Kind
	Scalar ScalarType

	// TypeName is the symbolic reference used by Kind == KindEnum/KindMessage/
	// KindGroup before resolution; resolvedType is populated by
	// Message.ResolveAll. Kind == KindScalar never uses either.
	TypeName     string
	resolvedType Element

	Default string

	// originalName is the declared (pre-camelCase) field name; set by every
	// field constructor regardless of the convertFieldsToCamelCase toggle
	// (spec.md §3's Data Model table, §6). Equal to Name() unless the
	// toggle rewrote Name() to camelCase.
	originalName string
}

func (f *Field) ClassName() string { return "Field" }

// OriginalName is the field's declared source name, unaffected by the
// convertFieldsToCamelCase toggle and by any name-collision reversion.
func (f *Field) OriginalName() string { return f.originalName }

// ToString renders "Field Foo.bar" (or just the FQN) per spec.md §11.
func (f *Field) ToString(includeClass bool) string { return elementToString(f, includeClass) }

// String implements fmt.Stringer as ToString(false).
func (f *Field) String() string { return f.ToString(false) }

// Packed reports whether this field is declared to use packed encoding via
// the `[packed=true]` option. proto2 keeps packing opt-in, so absent the
// option a repeated scalar field is encoded as one tag per element.
func (f *Field) Packed() bool {
	if !f.Rule.repeatable() || f.Kind != KindScalar || !f.Scalar.isPackable() {
		return false
	}
	v, ok := f.Option("packed")
	return ok && v == "true"
}

func (r Rule) repeatable() bool { return r == Repeated }

// ResolvedType returns the Element a symbolic TypeName was resolved to, or
// nil before ResolveAll runs (or for KindScalar, which never has one).
func (f *Field) ResolvedType() Element { return f.resolvedType }

// resolveAgainst resolves this field's TypeName within its enclosing
// namespace, per the lexical resolution rule (spec.md §4.2, Namespace.Resolve).
func (f *Field) resolveAgainst(scope *Namespace) error {
	if f.Kind == KindScalar {
		return nil
	}
	if f.resolvedType != nil {
		return nil
	}
	found := scope.Resolve(f.TypeName, true)
	if found == nil {
		return &UnresolvedTypeError{Field: f.FullyQualifiedName(), TypeName: f.TypeName}
	}
	switch f.Kind {
	case KindEnum:
		if _, ok := found.(*Enum); !ok {
			return &UnresolvedTypeError{Field: f.FullyQualifiedName(), TypeName: f.TypeName}
		}
	case KindMessage, KindGroup:
		// A parser front-end that doesn't carry its own symbol table
		// (loader's, in particular) can't always tell an enum reference
		// from a message reference at parse time, so such fields start
		// tagged KindMessage on spec; once resolution finds the real
		// declaration, reclassify to KindEnum if that's what it turned
		// out to be.
		switch found.(type) {
		case *Message:
		case *Enum:
			f.Kind = KindEnum
		default:
			return &UnresolvedTypeError{Field: f.FullyQualifiedName(), TypeName: f.TypeName}
		}
	}
	f.resolvedType = found
	return nil
}

// VerifyValue reports whether v is an acceptable runtime representation of
// one instance of this field's declared type — the check Value.Set and
// Value.Add run before accepting a caller-supplied value (spec.md §4.2
// "verify").
func (f *Field) VerifyValue(v interface{}) error {
	switch f.Kind {
	case KindScalar:
		return f.verifyScalar(v)
	case KindEnum:
		switch val := v.(type) {
		case int32:
			_ = val
			return nil
		case string:
			en, _ := f.resolvedType.(*Enum)
			if en == nil {
				return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "enum type not resolved"}
			}
			if _, ok := en.ValueByName(val); !ok {
				return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: fmt.Sprintf("no such enum member %q", val)}
			}
			return nil
		default:
			return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "enum value must be int32 or string"}
		}
	case KindMessage, KindGroup:
		val, ok := v.(*Value)
		if !ok {
			return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "message field requires a *schema.Value"}
		}
		msg, _ := f.resolvedType.(*Message)
		if msg != nil && val.msg != msg {
			return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: fmt.Sprintf("value belongs to message %q, field expects %q", val.msg.FullyQualifiedName(), msg.FullyQualifiedName())}
		}
		return nil
	}
	return nil
}

func (f *Field) verifyScalar(v interface{}) error {
	ok := false
	switch f.Scalar {
	case TDouble, TFloat:
		switch v.(type) {
		case float64, float32:
			ok = true
		}
	case TInt32, TSint32, TSfixed32:
		_, ok = v.(int32)
	case TInt64, TSint64, TSfixed64:
		_, ok = v.(int64)
	case TUint32, TFixed32:
		_, ok = v.(uint32)
	case TUint64, TFixed64:
		_, ok = v.(uint64)
	case TBool:
		_, ok = v.(bool)
	case TString:
		_, ok = v.(string)
	case TBytes:
		_, ok = v.([]byte)
	}
	if !ok {
		return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: fmt.Sprintf("value %v (%T) does not match scalar type %s", v, v, f.Scalar)}
	}
	return nil
}

// DefaultValue parses this field's declared `default` option, if any, into
// the same Go representation VerifyValue accepts — the value
// Message.Build's construction procedure applies via Set before
// caller-supplied values (spec.md §4.3). Returns (nil, nil) when the field
// declares no default; message/group fields never have one.
func (f *Field) DefaultValue() (interface{}, error) {
	if f.Default == "" {
		return nil, nil
	}
	switch f.Kind {
	case KindEnum:
		return f.Default, nil
	case KindMessage, KindGroup:
		return nil, nil
	}
	switch f.Scalar {
	case TDouble, TFloat:
		n, err := strconv.ParseFloat(f.Default, 64)
		if err != nil {
			return nil, f.badDefault(err)
		}
		if f.Scalar == TFloat {
			return float32(n), nil
		}
		return n, nil
	case TInt32, TSint32, TSfixed32:
		n, err := strconv.ParseInt(f.Default, 10, 32)
		if err != nil {
			return nil, f.badDefault(err)
		}
		return int32(n), nil
	case TInt64, TSint64, TSfixed64:
		n, err := strconv.ParseInt(f.Default, 10, 64)
		if err != nil {
			return nil, f.badDefault(err)
		}
		return n, nil
	case TUint32, TFixed32:
		n, err := strconv.ParseUint(f.Default, 10, 32)
		if err != nil {
			return nil, f.badDefault(err)
		}
		return uint32(n), nil
	case TUint64, TFixed64:
		n, err := strconv.ParseUint(f.Default, 10, 64)
		if err != nil {
			return nil, f.badDefault(err)
		}
		return n, nil
	case TBool:
		b, err := strconv.ParseBool(f.Default)
		if err != nil {
			return nil, f.badDefault(err)
		}
		return b, nil
	case TString:
		return f.Default, nil
	case TBytes:
		return []byte(f.Default), nil
	}
	return nil, nil
}

func (f *Field) badDefault(err error) error {
	return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: fmt.Sprintf("bad default %q: %v", f.Default, err)}
}

// EncodeValue writes a tagged, single-instance encoding of v (the caller is
// responsible for iterating repeated fields and for routing packed fields
// through the Message-level packed path instead).
func (f *Field) EncodeValue(buf *wire.Buffer, v interface{}) error {
	switch f.Kind {
	case KindScalar:
		buf.WriteTag(wire.Number(f.Number), f.Scalar.wireType())
		return f.encodeScalar(buf, v)
	case KindEnum:
		buf.WriteTag(wire.Number(f.Number), wire.Varint)
		n, err := f.enumNumber(v)
		if err != nil {
			return err
		}
		buf.WriteInt32(n)
		return nil
	case KindMessage:
		val := v.(*Value)
		inner := wire.NewBuffer(64)
		if err := val.msg.encodeInto(inner, val); err != nil {
			return err
		}
		buf.WriteTag(wire.Number(f.Number), wire.Bytes)
		buf.WriteBytes(inner.Bytes())
		return nil
	case KindGroup:
		val := v.(*Value)
		buf.WriteTag(wire.Number(f.Number), wire.StartGroup)
		if err := val.msg.encodeInto(buf, val); err != nil {
			return err
		}
		buf.WriteTag(wire.Number(f.Number), wire.EndGroup)
		return nil
	}
	return nil
}

func (f *Field) enumNumber(v interface{}) (int32, error) {
	switch val := v.(type) {
	case int32:
		return val, nil
	case string:
		en := f.resolvedType.(*Enum)
		n, ok := en.ValueByName(val)
		if !ok {
			return 0, &IllegalValueError{Field: f.FullyQualifiedName(), Reason: fmt.Sprintf("no such enum member %q", val)}
		}
		return n, nil
	default:
		return 0, &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "enum value must be int32 or string"}
	}
}

func (f *Field) encodeScalar(buf *wire.Buffer, v interface{}) error {
	switch f.Scalar {
	case TDouble:
		buf.WriteDouble(toFloat64(v))
	case TFloat:
		buf.WriteFloat(float32(toFloat64(v)))
	case TInt32:
		buf.WriteInt32(v.(int32))
	case TInt64:
		buf.WriteInt64(v.(int64))
	case TUint32:
		buf.WriteVarint(uint64(v.(uint32)))
	case TUint64:
		buf.WriteVarint(v.(uint64))
	case TSint32:
		buf.WriteSint32(v.(int32))
	case TSint64:
		buf.WriteSint64(v.(int64))
	case TFixed32:
		buf.WriteFixed32(v.(uint32))
	case TFixed64:
		buf.WriteFixed64(v.(uint64))
	case TSfixed32:
		buf.WriteSfixed32(v.(int32))
	case TSfixed64:
		buf.WriteSfixed64(v.(int64))
	case TBool:
		buf.WriteBool(v.(bool))
	case TString:
		buf.WriteString(v.(string))
	case TBytes:
		buf.WriteBytes(v.([]byte))
	}
	return nil
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	default:
		return 0
	}
}

// describeType renders this field's declared type for wire-format error
// messages.
func (f *Field) describeType() string {
	switch f.Kind {
	case KindEnum:
		return "enum " + f.TypeName
	case KindMessage:
		return "message " + f.TypeName
	case KindGroup:
		return "group " + f.TypeName
	default:
		return f.Scalar.String()
	}
}

// expectedWireType is the wire type a tagged instance of this field must
// carry on a well-formed stream.
func (f *Field) expectedWireType() wire.Type {
	switch f.Kind {
	case KindScalar:
		return f.Scalar.wireType()
	case KindEnum:
		return wire.Varint
	case KindMessage:
		return wire.Bytes
	case KindGroup:
		return wire.StartGroup
	}
	return wire.Varint
}

// DecodeValue reads one instance of this field's value from buf. The tag
// itself must already have been consumed by the caller (Message.DecodeValue
// dispatches on the tag before routing here) so this only reads the payload.
// wireType must match the field's declared wire type (spec.md §4.2
// "decode"); the caller is responsible for the one exception — a repeated
// packed field arriving as LDELIM — by routing those bytes through the
// packed decode path before ever calling DecodeValue.
func (f *Field) DecodeValue(buf *wire.Buffer, wireType wire.Type) (interface{}, error) {
	if wireType != f.expectedWireType() {
		return nil, &WireFormatError{Message: f.FullyQualifiedName(), Err: fmt.Errorf("wire type %d does not match declared type %s (want %d)", wireType, f.describeType(), f.expectedWireType())}
	}
	switch f.Kind {
	case KindScalar:
		return f.decodeScalar(buf)
	case KindEnum:
		n, err := buf.ReadInt32()
		if err != nil {
			return nil, err
		}
		if en, ok := f.resolvedType.(*Enum); ok {
			if _, known := en.ValueByNumber(n); !known && !wire.GetConfig().AllowUnknownEnumNumberDecode {
				return nil, &IllegalValueError{Field: f.FullyQualifiedName(), Reason: fmt.Sprintf("unknown enum number %d", n)}
			}
		}
		return n, nil
	case KindMessage:
		raw, err := buf.ReadBytes()
		if err != nil {
			return nil, err
		}
		msg := f.resolvedType.(*Message)
		return msg.decodeFrom(wire.Wrap(raw))
	case KindGroup:
		msg := f.resolvedType.(*Message)
		return msg.decodeGroup(buf, wire.Number(f.Number))
	}
	return nil, nil
}

func (f *Field) decodeScalar(buf *wire.Buffer) (interface{}, error) {
	switch f.Scalar {
	case TDouble:
		return buf.ReadDouble()
	case TFloat:
		return buf.ReadFloat()
	case TInt32:
		return buf.ReadInt32()
	case TInt64:
		return buf.ReadInt64()
	case TUint32:
		v, err := buf.ReadVarint()
		return uint32(v), err
	case TUint64:
		return buf.ReadVarint()
	case TSint32:
		return buf.ReadSint32()
	case TSint64:
		return buf.ReadSint64()
	case TFixed32:
		return buf.ReadFixed32()
	case TFixed64:
		return buf.ReadFixed64()
	case TSfixed32:
		return buf.ReadSfixed32()
	case TSfixed64:
		return buf.ReadSfixed64()
	case TBool:
		return buf.ReadBool()
	case TString:
		return buf.ReadString()
	case TBytes:
		return buf.ReadBytes()
	}
	return nil, fmt.Errorf("unhandled scalar type %s", f.Scalar)
}

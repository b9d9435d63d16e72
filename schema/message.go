package schema

import (
	"sort"

	"github.com/arihants/protoref/wire"
)

// Message is a Namespace whose children are Fields (and, for nested
// declarations, further Messages/Enums/Services) — the schema node behind a
// `message` declaration (spec.md §3, §4.3).
type Message struct {
	Namespace
	fieldsByNumber map[int32]*Field
	fields         []*Field // declaration order
	factory        func(args ...interface{}) (*Value, error)
}

// NewMessage creates an empty, childless message node.
func NewMessage(name string) *Message {
	return &Message{Namespace: *NewNamespace(name), fieldsByNumber: make(map[int32]*Field)}
}

func (m *Message) ClassName() string { return "Message" }

// ToString overrides the embedded Namespace.ToString so the printed class
// name reads "Message", not "Namespace" (Go embedding doesn't dispatch
// ClassName() virtually — see elementToString).
func (m *Message) ToString(includeClass bool) string { return elementToString(m, includeClass) }

// String implements fmt.Stringer as ToString(false).
func (m *Message) String() string { return m.ToString(false) }

// AddField adds a field to the message, enforcing both name uniqueness
// (via Namespace.AddChild) and field-number uniqueness (spec.md §3
// invariant 3: field numbers are unique within a message).
func (m *Message) AddField(f *Field) error {
	if _, exists := m.fieldsByNumber[f.Number]; exists {
		return &DuplicateNameError{Namespace: m.FullyQualifiedName(), Name: "field number " + f.Name()}
	}
	if err := m.AddChild(f); err != nil {
		return err
	}
	m.fieldsByNumber[f.Number] = f
	m.fields = append(m.fields, f)
	m.factory = nil
	return nil
}

// FieldByNumber looks up a direct field by its wire number.
func (m *Message) FieldByNumber(n int32) (*Field, bool) {
	f, ok := m.fieldsByNumber[n]
	return f, ok
}

// Fields returns the message's fields in declaration order.
func (m *Message) Fields() []*Field { return m.fields }

// fieldsSortedByNumber returns fields in ascending field-number order, the
// deterministic encode order spec.md §8's byte-vector scenarios assume.
func (m *Message) fieldsSortedByNumber() []*Field {
	out := make([]*Field, len(m.fields))
	copy(out, m.fields)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ResolveAll resolves every field's symbolic TypeName against this
// message's own namespace (for enum/message/group kinds), then recurses
// into any nested messages, matching protobuf.js's Namespace#resolveAll
// (spec.md §11).
func (m *Message) ResolveAll() error {
	for _, f := range m.fields {
		if err := f.resolveAgainst(&m.Namespace); err != nil {
			return err
		}
	}
	for _, child := range m.children {
		if nested, ok := child.(*Message); ok {
			if err := nested.ResolveAll(); err != nil {
				return err
			}
		}
		if svc, ok := child.(*Service); ok {
			if err := svc.ResolveAll(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build returns (building once and caching unless rebuild is requested) a
// factory function producing fresh runtime Values bound to this message —
// the per-message "clazz" factory spec.md §4.3's "Build" calls for. Build
// does not also perform the generic Namespace.Build() nested-map
// projection as a side effect; callers wanting that call Namespace.Build
// directly.
//
// The returned factory accepts one of the three construction forms spec.md
// §4.3 describes: a single key/value mapping (map[string]interface{}), an
// ordered positional sequence of field values (mapped onto declared fields
// in declaration order), or no arguments. Every declared field's slot
// starts unset; each field's `default` option (if any) is applied via Set
// before the caller-supplied arguments are.
func (m *Message) Build(rebuild bool) func(args ...interface{}) (*Value, error) {
	if m.factory != nil && !rebuild {
		return m.factory
	}
	msg := m
	m.factory = func(args ...interface{}) (*Value, error) {
		v := &Value{msg: msg, values: make(map[int32]interface{})}
		for _, f := range msg.fields {
			def, err := f.DefaultValue()
			if err != nil {
				return nil, err
			}
			if def == nil {
				continue
			}
			if err := v.Set(f.Name(), def); err != nil {
				return nil, err
			}
		}
		if err := msg.applyConstructorArgs(v, args); err != nil {
			return nil, err
		}
		return v, nil
	}
	return m.factory
}

// applyConstructorArgs distinguishes the mapping form from the positional
// form by type: a single map[string]interface{} argument is applied by
// key; anything else is applied positionally against declared fields in
// declaration order (spec.md §4.3).
func (m *Message) applyConstructorArgs(v *Value, args []interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) == 1 {
		if mapping, ok := args[0].(map[string]interface{}); ok {
			for key, val := range mapping {
				if err := v.Set(key, val); err != nil {
					return err
				}
			}
			return nil
		}
	}
	for i, val := range args {
		if i >= len(m.fields) {
			break
		}
		if err := v.Set(m.fields[i].Name(), val); err != nil {
			return err
		}
	}
	return nil
}

// requiredFieldNames lists the declared names of this message's required
// fields, for RequiredFieldMissingError reporting.
func (m *Message) requiredFieldNames() []string {
	var out []string
	for _, f := range m.fields {
		if f.Rule == Required {
			out = append(out, f.Name())
		}
	}
	return out
}

// EncodeValue encodes v (which must have been produced by this message's
// factory) to a standalone byte slice. If one or more required fields were
// never set, it returns a *RequiredFieldMissingError carrying the partial
// bytes produced before the check failed — spec.md §8 "Missing-required".
func (m *Message) EncodeValue(v *Value) ([]byte, error) {
	buf := wire.NewBuffer(64)
	if err := m.encodeInto(buf, v); err != nil {
		return buf.Bytes(), err
	}
	if missing := m.missingRequired(v); len(missing) > 0 {
		return buf.Bytes(), &RequiredFieldMissingError{Message: m.FullyQualifiedName(), Fields: missing, Partial: buf.Bytes()}
	}
	return buf.Bytes(), nil
}

func (m *Message) missingRequired(v *Value) []string {
	var missing []string
	for _, f := range m.fields {
		if f.Rule != Required {
			continue
		}
		if _, ok := v.values[f.Number]; !ok {
			missing = append(missing, f.Name())
		}
	}
	return missing
}

// encodeInto writes v's fields (sorted by field number) followed by any
// preserved unknown-field bytes, without checking for missing required
// fields — used both at the top level and recursively for nested messages.
func (m *Message) encodeInto(buf *wire.Buffer, v *Value) error {
	prevLE := buf.LE(true)
	defer buf.LE(prevLE)
	for _, f := range m.fieldsSortedByNumber() {
		val, ok := v.values[f.Number]
		if !ok {
			continue
		}
		if f.Rule == Repeated {
			if err := m.encodeRepeated(buf, f, val); err != nil {
				return err
			}
			continue
		}
		if err := f.EncodeValue(buf, val); err != nil {
			return err
		}
	}
	for _, raw := range v.unknown {
		buf.Append(raw)
	}
	return nil
}

func (m *Message) encodeRepeated(buf *wire.Buffer, f *Field, val interface{}) error {
	if f.Packed() {
		return encodePacked(buf, f, val)
	}
	items, ok := val.([]interface{})
	if !ok {
		return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "repeated field value must be []interface{}"}
	}
	for _, item := range items {
		if err := f.EncodeValue(buf, item); err != nil {
			return err
		}
	}
	return nil
}

// encodePacked writes a repeated scalar field using the packed encoding
// (spec.md §4.2, §8 "Packed equivalence").
func encodePacked(buf *wire.Buffer, f *Field, val interface{}) error {
	items, ok := val.([]interface{})
	if !ok {
		return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "repeated field value must be []interface{}"}
	}
	switch f.Scalar {
	case TInt32, TInt64, TUint32, TUint64, TBool:
		vals := make([]uint64, len(items))
		for i, it := range items {
			vals[i] = toPackedVarint(f.Scalar, it)
		}
		buf.WritePackedVarint(wire.Number(f.Number), vals)
	case TSint32:
		vals := make([]int32, len(items))
		for i, it := range items {
			vals[i] = it.(int32)
		}
		buf.WritePackedSint32(wire.Number(f.Number), vals)
	case TSint64:
		vals := make([]int64, len(items))
		for i, it := range items {
			vals[i] = it.(int64)
		}
		buf.WritePackedSint64(wire.Number(f.Number), vals)
	case TFixed32, TSfixed32:
		vals := make([]uint32, len(items))
		for i, it := range items {
			vals[i] = toFixed32Bits(f.Scalar, it)
		}
		buf.WritePackedFixed32(wire.Number(f.Number), vals)
	case TFloat:
		vals := make([]uint32, len(items))
		for i, it := range items {
			vals[i] = floatBits(it.(float32))
		}
		buf.WritePackedFixed32(wire.Number(f.Number), vals)
	case TFixed64, TSfixed64:
		vals := make([]uint64, len(items))
		for i, it := range items {
			vals[i] = toFixed64Bits(f.Scalar, it)
		}
		buf.WritePackedFixed64(wire.Number(f.Number), vals)
	case TDouble:
		vals := make([]uint64, len(items))
		for i, it := range items {
			vals[i] = doubleBits(it.(float64))
		}
		buf.WritePackedFixed64(wire.Number(f.Number), vals)
	}
	return nil
}

func toPackedVarint(t ScalarType, v interface{}) uint64 {
	switch t {
	case TInt32:
		return uint64(int64(v.(int32)))
	case TInt64:
		return uint64(v.(int64))
	case TUint32:
		return uint64(v.(uint32))
	case TUint64:
		return v.(uint64)
	case TBool:
		if v.(bool) {
			return 1
		}
		return 0
	}
	return 0
}

func toFixed32Bits(t ScalarType, v interface{}) uint32 {
	if t == TSfixed32 {
		return uint32(v.(int32))
	}
	return v.(uint32)
}

func toFixed64Bits(t ScalarType, v interface{}) uint64 {
	if t == TSfixed64 {
		return uint64(v.(int64))
	}
	return v.(uint64)
}

// DecodeValue decodes a standalone byte slice into a runtime Value bound to
// this message. Required-field enforcement mirrors EncodeValue: on error
// the partially-populated Value is returned alongside it as the first
// result (the error itself does not carry the Value).
func (m *Message) DecodeValue(data []byte) (*Value, error) {
	return m.decodeFrom(wire.Wrap(data))
}

// decodeFrom decodes fields until buf is exhausted — the top-level and
// nested-message decode loop termination rule.
func (m *Message) decodeFrom(buf *wire.Buffer) (*Value, error) {
	prevLE := buf.LE(true)
	defer buf.LE(prevLE)
	v := &Value{msg: m, values: make(map[int32]interface{})}
	for buf.Remaining() > 0 {
		if err := m.decodeOneField(buf, v, -1); err != nil {
			return v, err
		}
	}
	if missing := m.missingRequired(v); len(missing) > 0 {
		return v, &RequiredFieldMissingError{Message: m.FullyQualifiedName(), Fields: missing}
	}
	return v, nil
}

// decodeGroup decodes fields until an ENDGROUP tag matching groupNum is
// seen (spec.md §4.3 skipTillGroupEnd's counterpart for a *known* group
// field: here we read the fields into a Value rather than discarding them).
func (m *Message) decodeGroup(buf *wire.Buffer, groupNum wire.Number) (*Value, error) {
	v := &Value{msg: m, values: make(map[int32]interface{})}
	for {
		if buf.Remaining() == 0 {
			return v, &WireFormatError{Message: m.FullyQualifiedName(), Err: errUnterminatedGroup(groupNum)}
		}
		start := buf.Offset()
		num, typ, err := buf.ReadTag()
		if err != nil {
			return v, err
		}
		if typ == wire.EndGroup {
			if num != groupNum {
				return v, &WireFormatError{Message: m.FullyQualifiedName(), Err: errMismatchedGroupEnd(groupNum, num)}
			}
			break
		}
		buf.SetOffset(start)
		if err := m.decodeOneField(buf, v, int32(groupNum)); err != nil {
			return v, err
		}
	}
	if missing := m.missingRequired(v); len(missing) > 0 {
		return v, &RequiredFieldMissingError{Message: m.FullyQualifiedName(), Fields: missing}
	}
	return v, nil
}

// decodeOneField reads a single tag + value at the current position and
// merges it into v: known scalar/enum/message fields decode and (for
// repeated fields) append; known packed fields expand into the full slice;
// unknown fields are skipped and, when configured, their raw encoded bytes
// are preserved verbatim for lossless re-encoding.
func (m *Message) decodeOneField(buf *wire.Buffer, v *Value, enclosingGroup int32) error {
	start := buf.Offset()
	num, typ, err := buf.ReadTag()
	if err != nil {
		return err
	}
	f, known := m.fieldsByNumber[int32(num)]
	if !known {
		if err := buf.SkipField(num, typ); err != nil {
			return err
		}
		if wire.GetConfig().PreserveUnknownBytesOnDecode {
			v.unknown = append(v.unknown, buf.Bytes()[start:buf.Offset()])
		}
		return nil
	}

	// A repeated packable scalar field may legally arrive packed (LDELIM)
	// regardless of whether this schema declares [packed=true] — decode
	// must accept either wire form (spec.md §4.2, §8 "Packed equivalence").
	if f.Rule == Repeated && f.Kind == KindScalar && f.Scalar.isPackable() && typ == wire.Bytes {
		items, err := decodePacked(buf, f)
		if err != nil {
			return err
		}
		existing, _ := v.values[f.Number].([]interface{})
		v.values[f.Number] = append(existing, items...)
		return nil
	}

	val, err := f.DecodeValue(buf, typ)
	if err != nil {
		return err
	}
	if f.Rule == Repeated {
		existing, _ := v.values[f.Number].([]interface{})
		v.values[f.Number] = append(existing, val)
		return nil
	}
	v.values[f.Number] = val
	return nil
}

func decodePacked(buf *wire.Buffer, f *Field) ([]interface{}, error) {
	switch f.Scalar {
	case TInt32:
		raw, err := buf.ReadPackedVarint()
		return wrapInt32s(raw), err
	case TInt64:
		raw, err := buf.ReadPackedVarint()
		return wrapInt64s(raw), err
	case TUint32:
		raw, err := buf.ReadPackedVarint()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = uint32(v)
		}
		return out, err
	case TUint64:
		raw, err := buf.ReadPackedVarint()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = v
		}
		return out, err
	case TBool:
		raw, err := buf.ReadPackedVarint()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = v != 0
		}
		return out, err
	case TSint32:
		raw, err := buf.ReadPackedSint32()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = v
		}
		return out, err
	case TSint64:
		raw, err := buf.ReadPackedSint64()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = v
		}
		return out, err
	case TFixed32:
		raw, err := buf.ReadPackedFixed32()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = v
		}
		return out, err
	case TSfixed32:
		raw, err := buf.ReadPackedFixed32()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = int32(v)
		}
		return out, err
	case TFloat:
		raw, err := buf.ReadPackedFixed32()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = float32FromBits(v)
		}
		return out, err
	case TFixed64:
		raw, err := buf.ReadPackedFixed64()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = v
		}
		return out, err
	case TSfixed64:
		raw, err := buf.ReadPackedFixed64()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = int64(v)
		}
		return out, err
	case TDouble:
		raw, err := buf.ReadPackedFixed64()
		out := make([]interface{}, len(raw))
		for i, v := range raw {
			out[i] = float64FromBits(v)
		}
		return out, err
	}
	return nil, nil
}

func wrapInt32s(raw []uint64) []interface{} {
	out := make([]interface{}, len(raw))
	for i, v := range raw {
		out[i] = int32(v)
	}
	return out
}

func wrapInt64s(raw []uint64) []interface{} {
	out := make([]interface{}, len(raw))
	for i, v := range raw {
		out[i] = int64(v)
	}
	return out
}

// EncodeDelimited writes v length-prefixed (varint byte count + payload),
// the framing spec.md §8 "Delimited framing" uses to pack several messages
// back-to-back into one stream.
func (m *Message) EncodeDelimited(buf *wire.Buffer, v *Value) error {
	inner := wire.NewBuffer(64)
	if err := m.encodeInto(inner, v); err != nil {
		return err
	}
	if missing := m.missingRequired(v); len(missing) > 0 {
		return &RequiredFieldMissingError{Message: m.FullyQualifiedName(), Fields: missing, Partial: inner.Bytes()}
	}
	buf.WriteBytes(inner.Bytes())
	return nil
}

// DecodeDelimited reads one length-prefixed message from buf, advancing
// the cursor past it.
func (m *Message) DecodeDelimited(buf *wire.Buffer) (*Value, error) {
	raw, err := buf.ReadBytes()
	if err != nil {
		return nil, err
	}
	return m.decodeFrom(wire.Wrap(raw))
}

package schema

import "fmt"

// DuplicateNameError is returned when a Namespace gains a second child under
// a name already in use (spec.md §3 invariant 2).
type DuplicateNameError struct {
	Namespace string
	Name      string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name %q in namespace %q", e.Name, e.Namespace)
}

// UnresolvedTypeError is returned by ResolveAll when a Field's symbolic
// TypeName cannot be found via lexical resolution.
type UnresolvedTypeError struct {
	Field    string
	TypeName string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("field %q: unresolvable type %q", e.Field, e.TypeName)
}

// IllegalValueError is returned by Field.VerifyValue/encode when a runtime
// value does not fit its declared type (wrong Go kind, enum value not a
// member, message value of the wrong concrete type).
type IllegalValueError struct {
	Field  string
	Reason string
}

func (e *IllegalValueError) Error() string {
	return fmt.Sprintf("field %q: illegal value: %s", e.Field, e.Reason)
}

// RequiredFieldMissingError is returned by Message.EncodeValue/DecodeValue
// when one or more required fields were never set. On encode, Partial
// carries the bytes produced for the fields that were set, so callers can
// inspect them (spec.md §8 "Missing-required"). On decode, Partial is nil;
// the partially decoded Value is returned alongside the error instead.
type RequiredFieldMissingError struct {
	Message string
	Fields  []string
	Partial []byte
}

func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("message %q missing required field(s): %v", e.Message, e.Fields)
}

// WireFormatError wraps a malformed-byte-stream failure surfaced by package
// wire with the Message context that was decoding it.
type WireFormatError struct {
	Message string
	Err     error
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("message %q: %s", e.Message, e.Err.Error())
}

func (e *WireFormatError) Unwrap() error { return e.Err }

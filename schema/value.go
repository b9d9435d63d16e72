package schema

import "fmt"

// Value is a runtime instance of a Message: a sparse map from field number
// to whatever Go value that field's Kind/Scalar calls for (spec.md §4.4's
// design note on polymorphic runtime values). This implementation exposes
// only the generic Get/Set/Add trio — named camelCase/snake_case accessors
// are left to a hypothetical code generator, which Go's static typing makes
// the natural place for them (there is no runtime method injection to fall
// back on, unlike the dynamically-typed host this model was written
// against).
type Value struct {
	msg     *Message
	values  map[int32]interface{}
	unknown [][]byte
}

// Message returns the schema node this value was built from.
func (v *Value) Message() *Message { return v.msg }

func (v *Value) fieldByName(name string) (*Field, error) {
	child := v.msg.GetChildByName(name)
	f, ok := child.(*Field)
	if !ok {
		return nil, fmt.Errorf("message %q has no field %q", v.msg.FullyQualifiedName(), name)
	}
	return f, nil
}

// Get returns the current value of the named field, or nil if it was never
// set (and false as the second result) — absent repeated fields return an
// empty, non-nil slice so callers can range over the result unconditionally.
func (v *Value) Get(name string) (interface{}, bool) {
	f, err := v.fieldByName(name)
	if err != nil {
		return nil, false
	}
	val, ok := v.values[f.Number]
	if !ok && f.Rule == Repeated {
		return []interface{}{}, false
	}
	return val, ok
}

// Set assigns the named field's value, replacing anything previously set.
// For a Repeated field, val must be a []interface{} of verified elements;
// use Add to append one element at a time instead.
func (v *Value) Set(name string, val interface{}) error {
	f, err := v.fieldByName(name)
	if err != nil {
		return err
	}
	if f.Rule == Repeated {
		items, ok := val.([]interface{})
		if !ok {
			return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "repeated field value must be []interface{}"}
		}
		for _, item := range items {
			if err := f.VerifyValue(item); err != nil {
				return err
			}
		}
		v.values[f.Number] = items
		return nil
	}
	if err := f.VerifyValue(val); err != nil {
		return err
	}
	v.values[f.Number] = val
	return nil
}

// Add appends one element to a Repeated field after verifying it against
// the field's declared type, creating the slice lazily on first use. Add on
// a non-repeated field is an error.
func (v *Value) Add(name string, val interface{}) error {
	f, err := v.fieldByName(name)
	if err != nil {
		return err
	}
	if f.Rule != Repeated {
		return &IllegalValueError{Field: f.FullyQualifiedName(), Reason: "Add requires a repeated field"}
	}
	if err := f.VerifyValue(val); err != nil {
		return err
	}
	existing, _ := v.values[f.Number].([]interface{})
	v.values[f.Number] = append(existing, val)
	return nil
}

// Has reports whether the named field currently holds a value.
func (v *Value) Has(name string) bool {
	f, err := v.fieldByName(name)
	if err != nil {
		return false
	}
	_, ok := v.values[f.Number]
	return ok
}

// Clear removes any value set for the named field.
func (v *Value) Clear(name string) error {
	f, err := v.fieldByName(name)
	if err != nil {
		return err
	}
	delete(v.values, f.Number)
	return nil
}

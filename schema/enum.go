package schema

// EnumValue is one named, numbered member of an Enum declaration.
type EnumValue struct {
	Node
	Number int32
}

func (e *EnumValue) ClassName() string { return "EnumValue" }

// Enum is a Namespace-like leaf holding an ordered set of EnumValues,
// addressable by both name and number (spec.md §3, §4.4).
type Enum struct {
	Node
	values     []*EnumValue
	byName     map[string]int32
	byNumber   map[int32]string
}

// NewEnum creates an empty enum declaration.
func NewEnum(name string) *Enum {
	return &Enum{Node: Node{name: name}, byName: make(map[string]int32), byNumber: make(map[int32]string)}
}

func (e *Enum) ClassName() string { return "Enum" }

// ToString renders "Enum Foo.Bar" (or just the FQN) per spec.md §11.
func (e *Enum) ToString(includeClass bool) string { return elementToString(e, includeClass) }

// String implements fmt.Stringer as ToString(false).
func (e *Enum) String() string { return e.ToString(false) }

// AddValue registers one enum member. A duplicate name or number is a
// DuplicateNameError (spec.md §3 invariant: enum value names and numbers
// are each unique within the enum — proto2 permits aliasing only via the
// explicit `allow_alias` option, which this implementation does not model).
func (e *Enum) AddValue(name string, number int32) error {
	if _, exists := e.byName[name]; exists {
		return &DuplicateNameError{Namespace: e.FullyQualifiedName(), Name: name}
	}
	if _, exists := e.byNumber[number]; exists {
		return &DuplicateNameError{Namespace: e.FullyQualifiedName(), Name: name}
	}
	ev := &EnumValue{Node: Node{name: name}, Number: number}
	ev.setParent(e)
	e.values = append(e.values, ev)
	e.byName[name] = number
	e.byNumber[number] = name
	return nil
}

// ValueByName returns the number for a declared member name.
func (e *Enum) ValueByName(name string) (int32, bool) {
	n, ok := e.byName[name]
	return n, ok
}

// ValueByNumber returns the declared name for a member number.
func (e *Enum) ValueByNumber(number int32) (string, bool) {
	n, ok := e.byNumber[number]
	return n, ok
}

// Values returns the enum's members in declaration order.
func (e *Enum) Values() []*EnumValue { return e.values }

// GetChildByName lets Enum participate in Namespace.Resolve's generic child
// lookup, e.g. resolving a qualified reference through an enum (rarely
// meaningful, but keeps the resolution walk uniform across node types).
func (e *Enum) GetChildByName(name string) Element {
	if n, ok := e.byName[name]; ok {
		for _, v := range e.values {
			if v.Number == n {
				return v
			}
		}
	}
	return nil
}

// Build returns the enum's generic map representation: name -> number, plus
// the standard "$options" slot.
func (e *Enum) Build() map[string]interface{} {
	out := make(map[string]interface{}, len(e.values)+1)
	for _, v := range e.values {
		out[v.Name()] = v.Number
	}
	out["$options"] = e.Options
	return out
}

package schema

// fieldName applies the package-level convertFieldsToCamelCase toggle
// (spec.md §6): when set, the field's working name is rewritten from
// snake_case to camelCase and originalName retains the declared name;
// otherwise both are the declared name unchanged.
func fieldName(declared string) (name, original string) {
	if GetConfig().ConvertFieldsToCamelCase {
		return toLowerCamelCase(declared), declared
	}
	return declared, declared
}

// NewScalarField builds a Field of the given scalar type, ready to be
// passed to Message.AddField — the common case covering most of a
// message's fields.
func NewScalarField(name string, number int32, rule Rule, scalar ScalarType) *Field {
	n, orig := fieldName(name)
	return &Field{Node: Node{name: n}, originalName: orig, Number: number, Rule: rule, Kind: KindScalar, Scalar: scalar}
}

// NewEnumField builds a Field whose value is a symbolic reference to an
// Enum declaration, resolved later by Message.ResolveAll.
func NewEnumField(name string, number int32, rule Rule, typeName string) *Field {
	n, orig := fieldName(name)
	return &Field{Node: Node{name: n}, originalName: orig, Number: number, Rule: rule, Kind: KindEnum, TypeName: typeName}
}

// NewMessageField builds a Field whose value is a symbolic reference to a
// nested Message declaration, resolved later by Message.ResolveAll.
func NewMessageField(name string, number int32, rule Rule, typeName string) *Field {
	n, orig := fieldName(name)
	return &Field{Node: Node{name: n}, originalName: orig, Number: number, Rule: rule, Kind: KindMessage, TypeName: typeName}
}

// NewGroupField builds a Field using the legacy proto2 `group` construct:
// like a message field, but encoded with STARTGROUP/ENDGROUP markers
// instead of a length-delimited payload (spec.md §3, §8 "Group").
func NewGroupField(name string, number int32, rule Rule, typeName string) *Field {
	n, orig := fieldName(name)
	return &Field{Node: Node{name: n}, originalName: orig, Number: number, Rule: rule, Kind: KindGroup, TypeName: typeName}
}

package schema

import "strings"

// Namespace is a Node that can hold named children: Messages, Enums,
// Services, or (inside a Message) Fields. It is embedded by Message and
// Service and also used bare as a plain package-level grouping node.
type Namespace struct {
	Node
	children    []Element
	childByName map[string]Element
}

// NewNamespace creates a named, childless namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{Node: Node{name: name}}
}

func (ns *Namespace) ClassName() string { return "Namespace" }

// ToString renders the node's fully-qualified name, optionally prefixed
// with its class name (e.g. "Message Foo.Bar") — matching protobuf.js
// ReflectionObject#toString (spec.md §11). Embedding types (Message,
// Service) with their own ClassName() should call elementToString(self, ...)
// rather than rely on this method directly, since Go's embedding does not
// dispatch ClassName() virtually.
func (ns *Namespace) ToString(includeClass bool) string {
	return elementToString(ns, includeClass)
}

// String implements fmt.Stringer as ToString(false).
func (ns *Namespace) String() string { return ns.ToString(false) }

// elementToString is the shared rendering used by every Element's
// ToString/String so the printed class name matches the concrete type
// rather than whichever embedded struct the method happened to promote
// from.
func elementToString(e Element, includeClass bool) string {
	if includeClass {
		return e.ClassName() + " " + e.FullyQualifiedName()
	}
	return e.FullyQualifiedName()
}

// Children returns the namespace's direct children in declaration order.
func (ns *Namespace) Children() []Element { return ns.children }

// GetChildByName returns the direct child with the given local name, or nil.
func (ns *Namespace) GetChildByName(name string) Element {
	if ns.childByName == nil {
		return nil
	}
	return ns.childByName[name]
}

// AddChild appends a child, wiring its parent back-reference. Adding a
// second child under a name already in use is a DuplicateNameError, with
// one exception (spec.md §3 invariant 2): if the collision was caused by a
// camelCase-rewritten Field name, the colliding Field(s) revert to their
// originalName instead. If reversion still collides, insertion fails.
func (ns *Namespace) AddChild(child Element) error {
	name := child.Name()
	if ns.childByName == nil {
		ns.childByName = make(map[string]Element)
	}
	if existing, exists := ns.childByName[name]; exists {
		if !ns.revertFieldCollision(existing, child) {
			return &DuplicateNameError{Namespace: ns.FullyQualifiedName(), Name: name}
		}
		return nil
	}
	child.setParent(ns)
	ns.childByName[name] = child
	ns.children = append(ns.children, child)
	return nil
}

// revertFieldCollision implements the §3 invariant 2 exception: incoming
// must be a Field whose current name differs from its originalName (i.e.
// it was camelCase-rewritten). If existing is itself such a Field sharing
// the same rewritten name, it reverts too, so both land on their distinct
// originalNames; otherwise only incoming reverts. Returns false (no
// mutation performed) if the rewritten name doesn't apply here or if
// reversion would still collide.
func (ns *Namespace) revertFieldCollision(existing, incoming Element) bool {
	incomingField, ok := incoming.(*Field)
	if !ok || incomingField.originalName == "" || incomingField.originalName == incomingField.Name() {
		return false
	}
	revertedName := incomingField.originalName

	existingField, existingIsField := existing.(*Field)
	existingRevertible := existingIsField && existingField.originalName != "" && existingField.originalName != existingField.Name()

	if existingRevertible && existingField.originalName == revertedName {
		return false // reversion would still collide under the same originalName
	}
	if _, taken := ns.childByName[revertedName]; taken {
		return false
	}

	if existingRevertible {
		delete(ns.childByName, existing.Name())
		existingField.name = existingField.originalName
		ns.childByName[existingField.Name()] = existing
	}

	incomingField.name = revertedName
	incomingField.setParent(ns)
	ns.childByName[incomingField.Name()] = incoming
	ns.children = append(ns.children, incoming)
	return true
}

// Resolve looks up a (possibly dotted, possibly leading-dot fully
// qualified) type name starting from this namespace, walking up through
// enclosing namespaces when not found locally — the lexical scoping rule
// protobuf.js's Namespace#resolve implements: an unqualified or partially
// qualified reference is first tried relative to its declaring scope, then
// each enclosing scope in turn, before giving up. A leading '.' pins the
// name as fully qualified from the root and skips the lexical fallback.
//
// excludeFields, when true, skips Field children when resolving the final
// path segment — used when resolving a Field's own TypeName, since a field
// can never legally reference a sibling field as its type.
func (ns *Namespace) Resolve(qualifiedName string, excludeFields bool) Element {
	if qualifiedName == "" {
		return nil
	}
	if strings.HasPrefix(qualifiedName, ".") {
		root := rootOf(Element(ns))
		if rns, ok := root.(*Namespace); ok {
			return rns.lookupPath(strings.TrimPrefix(qualifiedName, "."), excludeFields)
		}
		if m, ok := root.(interface {
			lookupPath(string, bool) Element
		}); ok {
			return m.lookupPath(strings.TrimPrefix(qualifiedName, "."), excludeFields)
		}
		return nil
	}

	for scope := Element(ns); scope != nil; scope = parentNamespace(scope) {
		if found := lookupFrom(scope, qualifiedName, excludeFields); found != nil {
			return found
		}
	}
	return nil
}

// lookupPath resolves a dotted path strictly downward from ns (no lexical
// fallback), used once a name has been pinned as fully qualified.
func (ns *Namespace) lookupPath(path string, excludeFields bool) Element {
	return lookupFrom(ns, path, excludeFields)
}

// lookupFrom walks a dotted path downward starting at scope.
func lookupFrom(scope Element, path string, excludeFields bool) Element {
	parts := strings.Split(path, ".")
	var cur Element = scope
	for i, part := range parts {
		holder, ok := asHolder(cur)
		if !ok {
			return nil
		}
		next := holder.GetChildByName(part)
		if next == nil {
			return nil
		}
		if excludeFields && i == len(parts)-1 {
			if _, isField := next.(*Field); isField {
				return nil
			}
		}
		cur = next
	}
	return cur
}

type childHolder interface {
	GetChildByName(string) Element
}

func asHolder(e Element) (childHolder, bool) {
	h, ok := e.(childHolder)
	return h, ok
}

// parentNamespace returns e's parent, or nil if e is already the root.
func parentNamespace(e Element) Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	return p
}

// rootOf walks to the outermost ancestor.
func rootOf(e Element) Element {
	for {
		p := e.Parent()
		if p == nil {
			return e
		}
		e = p
	}
}

// Build returns a generic nested representation of this namespace: each
// child keyed by a lowerCamelCase derivation of its declared name, plus a
// "$options" slot carrying this namespace's own options. Declared names
// already in lowerCamelCase collapse onto themselves. If camel-casing two
// distinct sibling names would collide, the later sibling reverts to its
// original (non-camelCased) name instead of overwriting the first — the
// same reversion rule protobuf.js's util.toObject applies to generated
// field accessors, carried here into the generic map form since this
// implementation exposes no generated named accessors (see spec.md's
// Design Notes on polymorphic runtime values).
func (ns *Namespace) Build() map[string]interface{} {
	out := make(map[string]interface{})
	used := make(map[string]string) // camelKey -> original name already placed there
	for _, child := range ns.children {
		orig := child.Name()
		key := toLowerCamelCase(orig)
		if existingOrig, taken := used[key]; taken && existingOrig != orig {
			key = orig
		}
		used[key] = orig
		out[key] = buildValue(child)
	}
	out["$options"] = ns.Options
	return out
}

type builder interface {
	Build() map[string]interface{}
}

func buildValue(e Element) interface{} {
	if b, ok := e.(builder); ok {
		return b.Build()
	}
	return e
}

// toLowerCamelCase converts snake_case or dotted identifiers to
// lowerCamelCase, matching protobuf.js's util.camelCase.
func toLowerCamelCase(s string) string {
	var b strings.Builder
	upperNext := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '.' || c == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteByte(toUpperASCII(c))
			upperNext = false
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

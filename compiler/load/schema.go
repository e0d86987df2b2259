package load

// Schema represents one EDM schema that was loaded from a metadata document.
// It is read-only after loading; the generator never mutates it.
type Schema struct {
	Namespace    string         `msgpack:"namespace,omitempty"`
	EnumTypes    []*EnumType    `msgpack:"enum_types,omitempty"`
	ComplexTypes []*ComplexType `msgpack:"complex_types,omitempty"`
	EntityTypes  []*EntityType  `msgpack:"entity_types,omitempty"`
}

// Empty reports whether the schema declares no enum, complex or entity types.
func (s *Schema) Empty() bool {
	return s == nil || len(s.EnumTypes)+len(s.ComplexTypes)+len(s.EntityTypes) == 0
}

// EnumType is a named integer enumeration.
type EnumType struct {
	Name    string   `msgpack:"name"`
	Members []Member `msgpack:"members,omitempty"`
}

// Member is a single enumeration member.
type Member struct {
	Name  string `msgpack:"name"`
	Value int64  `msgpack:"value"`
}

// ZeroMember returns the first member whose value is 0.
func (e *EnumType) ZeroMember() (Member, bool) {
	for _, m := range e.Members {
		if m.Value == 0 {
			return m, true
		}
	}
	return Member{}, false
}

// ComplexType is a structured value type without identity.
type ComplexType struct {
	Name       string      `msgpack:"name"`
	Properties []*Property `msgpack:"properties,omitempty"`
}

// EntityType is a structured type with identity and optional relationships.
type EntityType struct {
	Name                 string                `msgpack:"name"`
	Properties           []*Property           `msgpack:"properties,omitempty"`
	NavigationProperties []*NavigationProperty `msgpack:"navigation_properties,omitempty"`
}

// Property is a structural property of a complex or entity type.
type Property struct {
	Name     string      `msgpack:"name"`
	Type     string      `msgpack:"type"`
	Nullable Nullability `msgpack:"nullable,omitempty"`
}

// NavigationProperty is a relationship from an entity type to another one.
type NavigationProperty struct {
	Name     string      `msgpack:"name"`
	Type     string      `msgpack:"type"`
	Nullable Nullability `msgpack:"nullable,omitempty"`
}

// Nullability is the tri-state value of the EDM Nullable facet.
type Nullability uint8

const (
	// Unspecified means the facet was absent. It behaves as Nullable.
	Unspecified Nullability = iota
	// Nullable means Nullable="true".
	Nullable
	// NonNull means Nullable="false".
	NonNull
)

// ParseNullability converts the raw attribute value. Anything other than
// "true" or "false" is Unspecified.
func ParseNullability(s string) Nullability {
	switch s {
	case "true":
		return Nullable
	case "false":
		return NonNull
	default:
		return Unspecified
	}
}

// IsNullable reports whether the value may be null.
func (n Nullability) IsNullable() bool { return n != NonNull }

// String implements fmt.Stringer.
func (n Nullability) String() string {
	switch n {
	case Nullable:
		return "nullable"
	case NonNull:
		return "non-null"
	default:
		return "unspecified"
	}
}
